package catalog

import "time"

// Event types emitted on catalog mutations
const (
	EventItemCreated = "catalog.item.created"
	EventItemUpdated = "catalog.item.updated"
	EventItemDeleted = "catalog.item.deleted"
)

// Event describes a catalog change for downstream consumers
type Event struct {
	Type           string    `json:"type"`
	ItemID         string    `json:"itemId"`
	GamingSystemID string    `json:"gamingSystemId"`
	OccurredAt     time.Time `json:"occurredAt"`
}

// NewEvent builds a catalog change event for an item
func NewEvent(eventType string, item *Item) Event {
	return Event{
		Type:           eventType,
		ItemID:         item.ID,
		GamingSystemID: item.GamingSystemID,
		OccurredAt:     time.Now().UTC(),
	}
}
