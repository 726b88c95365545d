package di

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"catalog-backend/application/ports"
	"catalog-backend/application/services"
	"catalog-backend/infrastructure/config"
	"catalog-backend/infrastructure/media"
	"catalog-backend/infrastructure/messaging/eventbridge"
	"catalog-backend/infrastructure/persistence/dynamodb"
	"catalog-backend/pkg/auth"
	"catalog-backend/pkg/observability"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var logger *zap.Logger
	var err error

	if cfg.Environment == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}

	if err != nil {
		return nil, err
	}

	return logger, nil
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideCloudWatchClient creates a CloudWatch client
func ProvideCloudWatchClient(awsCfg aws.Config) *awscloudwatch.Client {
	return awscloudwatch.NewFromConfig(awsCfg)
}

// ProvideS3Client creates an S3 client
func ProvideS3Client(awsCfg aws.Config) *awss3.Client {
	return awss3.NewFromConfig(awsCfg)
}

// ProvideItemRepository creates the catalog item repository
func ProvideItemRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.ItemRepository {
	return dynamodb.NewItemRepository(
		client,
		cfg.CatalogTable,
		cfg.IndexName, // GSI1 for gaming-system listings
		logger,
	)
}

// ProvideAccountReader creates the accounts scan reader
func ProvideAccountReader(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.AccountReader {
	return dynamodb.NewAccountReader(client, cfg.AccountsTable, logger)
}

// ProvideSystemReader creates the systems scan reader
func ProvideSystemReader(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.SystemReader {
	return dynamodb.NewSystemReader(client, cfg.SystemsTable, logger)
}

// ProvideMediaStore creates the S3-backed media store
func ProvideMediaStore(client *awss3.Client, cfg *config.Config, logger *zap.Logger) ports.MediaStore {
	return media.NewS3Store(client, cfg.MediaBucket, logger)
}

// ProvideImageProcessor creates the image processor
func ProvideImageProcessor() ports.ImageProcessor {
	return media.NewProcessor()
}

// ProvideEventPublisher creates the EventBridge event publisher
func ProvideEventPublisher(client *awseventbridge.Client, cfg *config.Config, logger *zap.Logger) ports.EventPublisher {
	return eventbridge.NewPublisher(client, cfg.EventBusName, logger)
}

// ProvideMetrics creates metrics instance
func ProvideMetrics(client *awscloudwatch.Client, cfg *config.Config) *observability.Metrics {
	namespace := fmt.Sprintf("Catalog/%s", cfg.Environment)
	return observability.NewMetrics(namespace, client)
}

// ProvideMetricsRecorder exposes the metrics publisher through its port
func ProvideMetricsRecorder(metrics *observability.Metrics) ports.MetricsRecorder {
	return metrics
}

// ProvideJWTValidator creates the bearer token validator. Development
// environments fall back to a fixed local secret.
func ProvideJWTValidator(cfg *config.Config) (*auth.JWTValidator, error) {
	secret := cfg.JWTSecret
	if secret == "" && !cfg.IsProduction() {
		secret = "local-development-secret"
	}
	return auth.NewJWTValidator(auth.JWTConfig{
		SecretKey: secret,
		Issuer:    cfg.JWTIssuer,
	})
}

// ProvideCatalogService creates the catalog CRUD service
func ProvideCatalogService(items ports.ItemRepository, events ports.EventPublisher, logger *zap.Logger) *services.CatalogService {
	return services.NewCatalogService(items, events, logger)
}

// ProvideDeleteGuard creates the referential delete guard
func ProvideDeleteGuard(
	items ports.ItemRepository,
	accounts ports.AccountReader,
	systems ports.SystemReader,
	mediaStore ports.MediaStore,
	events ports.EventPublisher,
	metrics ports.MetricsRecorder,
	logger *zap.Logger,
) *services.DeleteGuard {
	return services.NewDeleteGuard(items, accounts, systems, mediaStore, events, metrics, logger)
}

// ProvideImageService creates the image attachment service
func ProvideImageService(items ports.ItemRepository, processor ports.ImageProcessor, mediaStore ports.MediaStore, logger *zap.Logger) *services.ImageService {
	return services.NewImageService(items, processor, mediaStore, logger)
}
