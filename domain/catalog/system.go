package catalog

// GamingSystem is a record from the Systems collection. A system may
// declare at most one catalog item as a hard requirement.
type GamingSystem struct {
	SystemID       string `json:"systemId"`
	Name           string `json:"name"`
	RequiredItemID string `json:"requiredItemId,omitempty"`
}

// Requires reports whether the system declares the item as a hard
// dependency. An empty declaration means no relation.
func (s *GamingSystem) Requires(itemID string) bool {
	return s != nil && s.RequiredItemID != "" && s.RequiredItemID == itemID
}
