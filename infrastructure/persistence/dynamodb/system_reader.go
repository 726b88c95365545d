package dynamodb

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"

	"catalog-backend/application/ports"
	"catalog-backend/domain/catalog"
	apperrors "catalog-backend/pkg/errors"
)

// SystemReader pages through the Systems table
type SystemReader struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewSystemReader creates a reader over the Systems table
func NewSystemReader(client *dynamodb.Client, tableName string, logger *zap.Logger) ports.SystemReader {
	return &SystemReader{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// systemRecord is the DynamoDB item structure for a gaming system
type systemRecord struct {
	SystemID       string `dynamodbav:"SystemID"`
	Name           string `dynamodbav:"Name"`
	RequiredItemID string `dynamodbav:"RequiredItemID,omitempty"`
}

// ListPage returns one page of systems and the continuation token for the
// next page. Malformed records are skipped.
func (r *SystemReader) ListPage(ctx context.Context, pageToken string) ([]*catalog.GamingSystem, string, error) {
	startKey, err := DecodeToken(pageToken)
	if err != nil {
		return nil, "", err
	}

	result, err := r.client.Scan(ctx, &dynamodb.ScanInput{
		TableName:         aws.String(r.tableName),
		Limit:             aws.Int32(scanPageSize),
		ExclusiveStartKey: startKey,
	})
	if err != nil {
		return nil, "", apperrors.NewDatabaseError("ScanSystems", err)
	}

	systems := make([]*catalog.GamingSystem, 0, len(result.Items))
	for _, av := range result.Items {
		var rec systemRecord
		if err := attributevalue.UnmarshalMap(av, &rec); err != nil {
			r.logger.Warn("Skipping malformed system record", zap.Error(err))
			continue
		}
		systems = append(systems, &catalog.GamingSystem{
			SystemID:       rec.SystemID,
			Name:           rec.Name,
			RequiredItemID: rec.RequiredItemID,
		})
	}

	return systems, EncodeToken(result.LastEvaluatedKey), nil
}
