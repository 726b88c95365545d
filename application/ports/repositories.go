// Package ports defines the interfaces between the application layer and
// infrastructure. Repositories wrap a single DynamoDB table each; the
// application never sees SDK types.
package ports

import (
	"context"

	"catalog-backend/domain/catalog"
)

// ListFilter narrows a catalog listing. Zero values mean "no filter".
type ListFilter struct {
	GamingSystemID  string
	Category        string
	Status          string
	MinPrice        *int64
	MaxPrice        *int64
	Featured        *bool
	IncludeArchived bool
	Limit           int32
	NextToken       string
}

// ItemPage is one page of catalog items. NextToken is opaque and must be
// passed back verbatim to continue the listing.
type ItemPage struct {
	Items     []*catalog.Item
	NextToken string
}

// ItemRepository is the storage gateway for the Catalog collection.
//
// Writes are existence-conditioned: Create fails with a conflict when the
// ID already exists; Patch and Delete fail with not-found when it does
// not. A condition failure is a first-class outcome, not a retryable
// fault.
type ItemRepository interface {
	GetByID(ctx context.Context, id string) (*catalog.Item, error)
	Create(ctx context.Context, item *catalog.Item) error
	Patch(ctx context.Context, id string, fields map[string]interface{}) (*catalog.Item, error)
	Delete(ctx context.Context, id string) (*catalog.Item, error)
	Query(ctx context.Context, filter ListFilter) (*ItemPage, error)
}

// AccountReader pages through the Accounts collection. An empty returned
// page token means the scan is exhausted; callers that stop earlier see
// an incomplete view.
type AccountReader interface {
	ListPage(ctx context.Context, pageToken string) ([]*catalog.AccountEntitlement, string, error)
}

// SystemReader pages through the Systems collection, same contract as
// AccountReader.
type SystemReader interface {
	ListPage(ctx context.Context, pageToken string) ([]*catalog.GamingSystem, string, error)
}

// MediaStore persists processed item media under a per-item path
type MediaStore interface {
	Store(ctx context.Context, systemID, itemID, name string, data []byte) (string, error)
	DeleteAll(ctx context.Context, systemID, itemID string) error
}

// ImageProcessor converts raw uploaded bytes into the stored representation
type ImageProcessor interface {
	Process(data []byte) ([]byte, error)
}

// EventPublisher publishes catalog change events. Publishing is
// best-effort; failures must not affect the triggering operation.
type EventPublisher interface {
	Publish(ctx context.Context, event catalog.Event) error
}

// MetricsRecorder records operational counters, best-effort
type MetricsRecorder interface {
	Count(ctx context.Context, name string, value float64, dimensions map[string]string) error
}
