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

// scanPageSize bounds a single scan request; callers drive pagination
const scanPageSize = 100

// AccountReader pages through the Accounts table. Entitlement data is not
// indexed by item ID, so integrity checks must read every account.
type AccountReader struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewAccountReader creates a reader over the Accounts table
func NewAccountReader(client *dynamodb.Client, tableName string, logger *zap.Logger) ports.AccountReader {
	return &AccountReader{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// accountRecord is the DynamoDB item structure for an account
type accountRecord struct {
	AccountID    string              `dynamodbav:"AccountID"`
	Contact      string              `dynamodbav:"Contact"`
	Entitlements map[string][]string `dynamodbav:"Entitlements"`
}

// ListPage returns one page of accounts and the continuation token for
// the next page. A record whose entitlement field does not unmarshal is
// skipped rather than failing the scan.
func (r *AccountReader) ListPage(ctx context.Context, pageToken string) ([]*catalog.AccountEntitlement, string, error) {
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
		return nil, "", apperrors.NewDatabaseError("ScanAccounts", err)
	}

	accounts := make([]*catalog.AccountEntitlement, 0, len(result.Items))
	for _, av := range result.Items {
		var rec accountRecord
		if err := attributevalue.UnmarshalMap(av, &rec); err != nil {
			r.logger.Warn("Skipping malformed account record", zap.Error(err))
			continue
		}
		accounts = append(accounts, &catalog.AccountEntitlement{
			AccountID:    rec.AccountID,
			Contact:      rec.Contact,
			Entitlements: rec.Entitlements,
		})
	}

	return accounts, EncodeToken(result.LastEvaluatedKey), nil
}
