package services

import (
	"context"
	"encoding/base64"

	"go.uber.org/zap"

	"catalog-backend/application/ports"
	"catalog-backend/domain/catalog"
	apperrors "catalog-backend/pkg/errors"
)

// ImageService attaches processed images to catalog items
type ImageService struct {
	items     ports.ItemRepository
	processor ports.ImageProcessor
	media     ports.MediaStore
	logger    *zap.Logger
}

// NewImageService creates a new image service
func NewImageService(items ports.ItemRepository, processor ports.ImageProcessor, media ports.MediaStore, logger *zap.Logger) *ImageService {
	return &ImageService{
		items:     items,
		processor: processor,
		media:     media,
		logger:    logger,
	}
}

// AttachImage decodes a base64 payload, processes it, stores it under the
// item's media path, and records the stored key on the item's attributes.
func (s *ImageService) AttachImage(ctx context.Context, itemID, name, encoded string) (*catalog.Item, error) {
	if encoded == "" {
		return nil, apperrors.NewValidationError("image payload is required")
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, apperrors.NewValidationError("image payload is not valid base64").WithCause(err)
	}

	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	processed, err := s.processor.Process(raw)
	if err != nil {
		return nil, err
	}

	if name == "" {
		name = "cover"
	}
	key, err := s.media.Store(ctx, item.GamingSystemID, item.ID, name, processed)
	if err != nil {
		return nil, err
	}

	attrs := make(map[string]interface{}, len(item.Attributes)+1)
	for k, v := range item.Attributes {
		attrs[k] = v
	}
	attrs["imageKey"] = key

	updated, err := s.items.Patch(ctx, itemID, map[string]interface{}{"attributes": attrs})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Image attached to catalog item",
		zap.String("itemID", itemID),
		zap.String("mediaKey", key),
	)
	return updated, nil
}
