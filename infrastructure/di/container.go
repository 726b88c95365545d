package di

import (
	"go.uber.org/zap"

	"catalog-backend/application/ports"
	"catalog-backend/application/services"
	"catalog-backend/infrastructure/config"
	"catalog-backend/pkg/auth"
	"catalog-backend/pkg/observability"
)

// Container holds all application dependencies
type Container struct {
	Config         *config.Config
	Logger         *zap.Logger
	ItemRepo       ports.ItemRepository
	AccountReader  ports.AccountReader
	SystemReader   ports.SystemReader
	MediaStore     ports.MediaStore
	ImageProcessor ports.ImageProcessor
	EventPublisher ports.EventPublisher
	Metrics        *observability.Metrics
	MetricsPort    ports.MetricsRecorder
	JWTValidator   *auth.JWTValidator
	CatalogService *services.CatalogService
	DeleteGuard    *services.DeleteGuard
	ImageService   *services.ImageService
}
