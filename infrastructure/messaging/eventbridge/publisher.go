package eventbridge

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"go.uber.org/zap"

	"catalog-backend/application/ports"
	"catalog-backend/domain/catalog"
)

// eventSource identifies this service on the bus
const eventSource = "catalog-backend"

// Publisher implements the EventPublisher port using AWS EventBridge
type Publisher struct {
	client       *eventbridge.Client
	eventBusName string
	logger       *zap.Logger
}

// NewPublisher creates a new EventBridge publisher
func NewPublisher(client *eventbridge.Client, eventBusName string, logger *zap.Logger) ports.EventPublisher {
	return &Publisher{
		client:       client,
		eventBusName: eventBusName,
		logger:       logger,
	}
}

// Publish sends a catalog change event to EventBridge
func (p *Publisher) Publish(ctx context.Context, event catalog.Event) error {
	detail, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	result, err := p.client.PutEvents(ctx, &eventbridge.PutEventsInput{
		Entries: []types.PutEventsRequestEntry{
			{
				EventBusName: aws.String(p.eventBusName),
				Source:       aws.String(eventSource),
				DetailType:   aws.String(event.Type),
				Detail:       aws.String(string(detail)),
				Time:         aws.Time(event.OccurredAt),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	if result.FailedEntryCount > 0 {
		return fmt.Errorf("event bus rejected %d entries", result.FailedEntryCount)
	}

	p.logger.Debug("Catalog event published",
		zap.String("type", event.Type),
		zap.String("itemID", event.ItemID),
	)
	return nil
}
