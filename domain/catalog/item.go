package catalog

import (
	"math"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	apperrors "catalog-backend/pkg/errors"
)

// Item represents a purchasable catalog entry.
//
// ID is immutable once created; UpdatedAt is refreshed on every mutation
// and is never earlier than CreatedAt.
type Item struct {
	ID             string                 `json:"id"`
	Name           string                 `json:"name"`
	Price          int64                  `json:"price"`
	GamingSystemID string                 `json:"gamingSystemId"`
	Category       string                 `json:"category,omitempty"`
	Status         string                 `json:"status,omitempty"`
	Archived       bool                   `json:"archived"`
	Featured       bool                   `json:"featured"`
	FreeGrant      bool                   `json:"freeGrant"`
	Attributes     map[string]interface{} `json:"attributes,omitempty"`
	CreatedAt      time.Time              `json:"createdAt"`
	UpdatedAt      time.Time              `json:"updatedAt"`
}

// Patch field names accepted by Item.AllowedPatch. These match the JSON
// field names of Item; ID and CreatedAt are deliberately absent.
var patchableFields = map[string]struct{}{
	"name":           {},
	"price":          {},
	"gamingSystemId": {},
	"category":       {},
	"status":         {},
	"archived":       {},
	"featured":       {},
	"freeGrant":      {},
	"attributes":     {},
}

// protectedAttributeKeys are extension-map keys that would shadow core
// fields if merged; they are stripped at the boundary.
var protectedAttributeKeys = map[string]struct{}{
	"id":        {},
	"createdAt": {},
	"updatedAt": {},
}

// NewItem builds a catalog item, generating an ID when the caller omits one
func NewItem(id, name string, price int64, gamingSystemID string) (*Item, error) {
	if name == "" {
		return nil, apperrors.NewValidationError("name is required")
	}
	if price < 0 {
		return nil, apperrors.NewValidationError("price cannot be negative")
	}
	if gamingSystemID == "" {
		return nil, apperrors.NewValidationError("gamingSystemId is required")
	}
	if id == "" {
		id = uuid.New().String()
	}

	now := time.Now().UTC()
	return &Item{
		ID:             id,
		Name:           name,
		Price:          price,
		GamingSystemID: gamingSystemID,
		Status:         "active",
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// SanitizeAttributes returns a copy of attrs with protected keys removed
func SanitizeAttributes(attrs map[string]interface{}) map[string]interface{} {
	if attrs == nil {
		return nil
	}
	out := make(map[string]interface{}, len(attrs))
	for k, v := range attrs {
		if _, protected := protectedAttributeKeys[k]; protected {
			continue
		}
		out[k] = v
	}
	return out
}

// AllowedPatch filters a partial-update map down to patchable fields,
// validating each value and sanitizing any attribute merge. A wrong-typed
// or out-of-range value is a validation error so it never reaches storage.
// An empty result means there is nothing to write.
func AllowedPatch(fields map[string]interface{}) (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		if _, ok := patchableFields[k]; !ok {
			continue
		}
		value, err := validatePatchValue(k, v)
		if err != nil {
			return nil, err
		}
		out[k] = value
	}
	return out, nil
}

// validatePatchValue checks a single patch value against the same rules
// item creation enforces, normalizing JSON numbers to int64 for price.
func validatePatchValue(field string, v interface{}) (interface{}, error) {
	switch field {
	case "name":
		s, ok := v.(string)
		if !ok || s == "" || utf8.RuneCountInString(s) > 200 {
			return nil, apperrors.NewValidationError("name must be a non-empty string of at most 200 characters")
		}
		return s, nil
	case "gamingSystemId":
		s, ok := v.(string)
		if !ok || s == "" {
			return nil, apperrors.NewValidationError("gamingSystemId must be a non-empty string")
		}
		return s, nil
	case "price":
		price, ok := patchPrice(v)
		if !ok {
			return nil, apperrors.NewValidationError("price must be a non-negative integer")
		}
		return price, nil
	case "category":
		s, ok := v.(string)
		if !ok || utf8.RuneCountInString(s) > 100 {
			return nil, apperrors.NewValidationError("category must be a string of at most 100 characters")
		}
		return s, nil
	case "status":
		s, ok := v.(string)
		if !ok || (s != "active" && s != "inactive") {
			return nil, apperrors.NewValidationError("status must be one of: active, inactive")
		}
		return s, nil
	case "archived", "featured", "freeGrant":
		b, ok := v.(bool)
		if !ok {
			return nil, apperrors.NewValidationError(field + " must be a boolean")
		}
		return b, nil
	case "attributes":
		attrs, ok := v.(map[string]interface{})
		if !ok {
			return nil, apperrors.NewValidationError("attributes must be an object")
		}
		return SanitizeAttributes(attrs), nil
	}
	return v, nil
}

// patchPrice accepts the numeric shapes a decoded JSON body or a direct
// caller can supply and rejects negatives and fractions.
func patchPrice(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case float64:
		if n < 0 || n != math.Trunc(n) {
			return 0, false
		}
		return int64(n), true
	case int:
		if n < 0 {
			return 0, false
		}
		return int64(n), true
	case int64:
		if n < 0 {
			return 0, false
		}
		return n, true
	}
	return 0, false
}
