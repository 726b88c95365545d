package services

import (
	"context"

	"go.uber.org/zap"

	"catalog-backend/application/ports"
	"catalog-backend/domain/catalog"
	apperrors "catalog-backend/pkg/errors"
)

// CatalogService implements the simple CRUD operations over the catalog.
// Deletion lives in DeleteGuard.
type CatalogService struct {
	items  ports.ItemRepository
	events ports.EventPublisher
	logger *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(items ports.ItemRepository, events ports.EventPublisher, logger *zap.Logger) *CatalogService {
	return &CatalogService{
		items:  items,
		events: events,
		logger: logger,
	}
}

// CreateItemInput carries the fields accepted on item creation
type CreateItemInput struct {
	ID             string
	Name           string
	Price          int64
	GamingSystemID string
	Category       string
	Status         string
	Featured       bool
	FreeGrant      bool
	Attributes     map[string]interface{}
}

// CreateItem creates a catalog item, generating an ID when the caller
// omits one. A duplicate ID is a conflict.
func (s *CatalogService) CreateItem(ctx context.Context, input CreateItemInput) (*catalog.Item, error) {
	item, err := catalog.NewItem(input.ID, input.Name, input.Price, input.GamingSystemID)
	if err != nil {
		return nil, err
	}

	item.Category = input.Category
	if input.Status != "" {
		item.Status = input.Status
	}
	item.Featured = input.Featured
	item.FreeGrant = input.FreeGrant
	item.Attributes = catalog.SanitizeAttributes(input.Attributes)

	if err := s.items.Create(ctx, item); err != nil {
		return nil, err
	}

	s.publish(ctx, catalog.NewEvent(catalog.EventItemCreated, item))
	return item, nil
}

// GetItem retrieves a catalog item by ID
func (s *CatalogService) GetItem(ctx context.Context, id string) (*catalog.Item, error) {
	return s.items.GetByID(ctx, id)
}

// ListItems returns one page of catalog items matching the filter
func (s *CatalogService) ListItems(ctx context.Context, filter ports.ListFilter) (*ports.ItemPage, error) {
	return s.items.Query(ctx, filter)
}

// UpdateItem applies a partial update to an existing item. Protected
// fields are stripped before the write; updating a missing item is
// not-found.
func (s *CatalogService) UpdateItem(ctx context.Context, id string, fields map[string]interface{}) (*catalog.Item, error) {
	patch, err := catalog.AllowedPatch(fields)
	if err != nil {
		return nil, err
	}
	if len(patch) == 0 {
		return nil, apperrors.NewValidationError("no updatable fields in request")
	}

	item, err := s.items.Patch(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, catalog.NewEvent(catalog.EventItemUpdated, item))
	return item, nil
}

// publish emits a catalog change event, best-effort
func (s *CatalogService) publish(ctx context.Context, event catalog.Event) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish catalog event",
			zap.String("type", event.Type),
			zap.String("itemID", event.ItemID),
			zap.Error(err),
		)
	}
}
