package catalog

// AccountEntitlement maps an account to the catalog items it may access,
// grouped by gaming system. Owned by the Accounts collection; read-only
// here.
type AccountEntitlement struct {
	AccountID    string              `json:"accountId"`
	Contact      string              `json:"contact"`
	Entitlements map[string][]string `json:"entitlements"`
}

// HasEntitlement reports whether the account holds the given item under
// the given system. A missing or malformed entitlement map means no
// relation.
func (a *AccountEntitlement) HasEntitlement(systemID, itemID string) bool {
	if a == nil || a.Entitlements == nil {
		return false
	}
	for _, id := range a.Entitlements[systemID] {
		if id == itemID {
			return true
		}
	}
	return false
}
