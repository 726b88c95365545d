package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccountEntitlement_HasEntitlement(t *testing.T) {
	account := &AccountEntitlement{
		AccountID: "acct-1",
		Entitlements: map[string][]string{
			"system-1": {"item-1", "item-2"},
			"system-2": {"item-3"},
		},
	}

	assert.True(t, account.HasEntitlement("system-1", "item-1"))
	assert.True(t, account.HasEntitlement("system-2", "item-3"))

	// Same item under a different system is not a relation
	assert.False(t, account.HasEntitlement("system-2", "item-1"))
	assert.False(t, account.HasEntitlement("system-1", "item-3"))
	assert.False(t, account.HasEntitlement("system-9", "item-1"))
}

func TestAccountEntitlement_HasEntitlement_Malformed(t *testing.T) {
	// A missing entitlement map means no relation, not an error
	assert.False(t, (&AccountEntitlement{AccountID: "acct-1"}).HasEntitlement("system-1", "item-1"))

	var nilAccount *AccountEntitlement
	assert.False(t, nilAccount.HasEntitlement("system-1", "item-1"))
}

func TestGamingSystem_Requires(t *testing.T) {
	system := &GamingSystem{SystemID: "system-1", Name: "RetroBox", RequiredItemID: "item-1"}

	assert.True(t, system.Requires("item-1"))
	assert.False(t, system.Requires("item-2"))

	// An empty declaration never matches, even against an empty ID
	bare := &GamingSystem{SystemID: "system-2", Name: "MegaDeck"}
	assert.False(t, bare.Requires("item-1"))
	assert.False(t, bare.Requires(""))
}

func TestNewEvent(t *testing.T) {
	item, _ := NewItem("item-1", "Space Raiders", 1999, "system-1")

	event := NewEvent(EventItemDeleted, item)

	assert.Equal(t, EventItemDeleted, event.Type)
	assert.Equal(t, "item-1", event.ItemID)
	assert.Equal(t, "system-1", event.GamingSystemID)
	assert.False(t, event.OccurredAt.IsZero())
}
