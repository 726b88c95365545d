// Package main implements the Lambda handler for media cleanup. Deleting a
// catalog item removes its media best-effort; this handler consumes the
// deletion events and re-runs the sweep so failed cleanups converge.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	awsevents "github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"catalog-backend/application/ports"
	"catalog-backend/domain/catalog"
	"catalog-backend/infrastructure/config"
	"catalog-backend/infrastructure/di"
)

// Global dependencies for Lambda performance optimization
var (
	media   ports.MediaStore
	metrics ports.MetricsRecorder
	logger  *zap.Logger
)

func init() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	container, err := di.InitializeContainer(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to initialize dependency container: %v", err)
	}

	media = container.MediaStore
	metrics = container.MetricsPort
	logger = container.Logger

	log.Println("Media sweeper initialized successfully")
}

// SweepRequest identifies the item whose media should be removed
type SweepRequest struct {
	ItemID         string `json:"itemId"`
	GamingSystemID string `json:"gamingSystemId"`
}

// HandleSweep removes all stored media under the item's prefix
func HandleSweep(ctx context.Context, request SweepRequest) error {
	if request.ItemID == "" || request.GamingSystemID == "" {
		return fmt.Errorf("sweep request requires itemId and gamingSystemId")
	}

	if err := media.DeleteAll(ctx, request.GamingSystemID, request.ItemID); err != nil {
		logger.Error("Media sweep failed",
			zap.String("itemID", request.ItemID),
			zap.String("gamingSystemID", request.GamingSystemID),
			zap.Error(err),
		)
		return err
	}

	if metrics != nil {
		_ = metrics.Count(ctx, "MediaSwept", 1, map[string]string{
			"GamingSystem": request.GamingSystemID,
		})
	}

	logger.Info("Media sweep completed",
		zap.String("itemID", request.ItemID),
		zap.String("gamingSystemID", request.GamingSystemID),
	)
	return nil
}

// handler accepts either an EventBridge deletion event or a direct invocation
func handler(ctx context.Context, event json.RawMessage) error {
	var bridgeEvent awsevents.CloudWatchEvent
	if err := json.Unmarshal(event, &bridgeEvent); err == nil && bridgeEvent.DetailType == catalog.EventItemDeleted {
		var deleted catalog.Event
		if err := json.Unmarshal(bridgeEvent.Detail, &deleted); err != nil {
			return fmt.Errorf("failed to parse deletion event: %w", err)
		}
		return HandleSweep(ctx, SweepRequest{
			ItemID:         deleted.ItemID,
			GamingSystemID: deleted.GamingSystemID,
		})
	}

	var request SweepRequest
	if err := json.Unmarshal(event, &request); err == nil && request.ItemID != "" {
		return HandleSweep(ctx, request)
	}

	return fmt.Errorf("unable to parse event")
}

func main() {
	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		log.Println("Starting media-sweeper Lambda")
		lambda.Start(handler)
		return
	}

	// Local testing mode
	log.Println("Running in local test mode")
	if err := HandleSweep(context.Background(), SweepRequest{
		ItemID:         "test-item-123",
		GamingSystemID: "test-system-456",
	}); err != nil {
		log.Fatalf("Test sweep failed: %v", err)
	}
}
