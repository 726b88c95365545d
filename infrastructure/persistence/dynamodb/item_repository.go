package dynamodb

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"catalog-backend/application/ports"
	"catalog-backend/domain/catalog"
	apperrors "catalog-backend/pkg/errors"
	"catalog-backend/pkg/utils"
)

// ItemRepository implements the catalog storage gateway using DynamoDB
type ItemRepository struct {
	client    *dynamodb.Client
	tableName string
	indexName string
	logger    *zap.Logger
}

// NewItemRepository creates a new catalog item repository
func NewItemRepository(client *dynamodb.Client, tableName, indexName string, logger *zap.Logger) ports.ItemRepository {
	return &ItemRepository{
		client:    client,
		tableName: tableName,
		indexName: indexName,
		logger:    logger,
	}
}

// itemRecord is the DynamoDB item structure for a catalog item
type itemRecord struct {
	PK             string                 `dynamodbav:"PK"` // item ID
	GSI1PK         string                 `dynamodbav:"GSI1PK"`
	GSI1SK         string                 `dynamodbav:"GSI1SK"`
	Name           string                 `dynamodbav:"Name"`
	Price          int64                  `dynamodbav:"Price"`
	GamingSystemID string                 `dynamodbav:"GamingSystemID"`
	Category       string                 `dynamodbav:"Category,omitempty"`
	Status         string                 `dynamodbav:"Status,omitempty"`
	Archived       bool                   `dynamodbav:"Archived"`
	Featured       bool                   `dynamodbav:"Featured"`
	FreeGrant      bool                   `dynamodbav:"FreeGrant"`
	Attributes     map[string]interface{} `dynamodbav:"Attributes,omitempty"`
	CreatedAt      string                 `dynamodbav:"CreatedAt"`
	UpdatedAt      string                 `dynamodbav:"UpdatedAt"`
}

func toRecord(item *catalog.Item) itemRecord {
	return itemRecord{
		PK:             item.ID,
		GSI1PK:         item.GamingSystemID,
		GSI1SK:         item.Name,
		Name:           item.Name,
		Price:          item.Price,
		GamingSystemID: item.GamingSystemID,
		Category:       item.Category,
		Status:         item.Status,
		Archived:       item.Archived,
		Featured:       item.Featured,
		FreeGrant:      item.FreeGrant,
		Attributes:     item.Attributes,
		CreatedAt:      utils.FormatRFC3339(item.CreatedAt),
		UpdatedAt:      utils.FormatRFC3339(item.UpdatedAt),
	}
}

func fromRecord(rec itemRecord) *catalog.Item {
	createdAt, _ := utils.ParseRFC3339(rec.CreatedAt)
	updatedAt, _ := utils.ParseRFC3339(rec.UpdatedAt)

	return &catalog.Item{
		ID:             rec.PK,
		Name:           rec.Name,
		Price:          rec.Price,
		GamingSystemID: rec.GamingSystemID,
		Category:       rec.Category,
		Status:         rec.Status,
		Archived:       rec.Archived,
		Featured:       rec.Featured,
		FreeGrant:      rec.FreeGrant,
		Attributes:     rec.Attributes,
		CreatedAt:      createdAt,
		UpdatedAt:      updatedAt,
	}
}

// GetByID retrieves a catalog item by its ID
func (r *ItemRepository) GetByID(ctx context.Context, id string) (*catalog.Item, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return nil, apperrors.NewDatabaseError("GetItem", err)
	}

	if len(result.Item) == 0 {
		return nil, apperrors.NewNotFoundError("catalog item")
	}

	var rec itemRecord
	if err := attributevalue.UnmarshalMap(result.Item, &rec); err != nil {
		return nil, apperrors.NewDatabaseError("GetItem", err)
	}

	return fromRecord(rec), nil
}

// Create persists a new catalog item. The write is conditioned on the ID
// not existing; a duplicate is a conflict.
func (r *ItemRepository) Create(ctx context.Context, item *catalog.Item) error {
	av, err := attributevalue.MarshalMap(toRecord(item))
	if err != nil {
		return apperrors.NewDatabaseError("PutItem", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return apperrors.NewConflictError("catalog item already exists").
				WithDetails(map[string]interface{}{"itemId": item.ID})
		}
		return apperrors.NewDatabaseError("PutItem", err)
	}

	r.logger.Info("Catalog item created",
		zap.String("itemID", item.ID),
		zap.String("gamingSystemID", item.GamingSystemID),
	)
	return nil
}

// patchAttributeNames maps patch field names to stored attribute names
var patchAttributeNames = map[string]string{
	"name":           "Name",
	"price":          "Price",
	"gamingSystemId": "GamingSystemID",
	"category":       "Category",
	"status":         "Status",
	"archived":       "Archived",
	"featured":       "Featured",
	"freeGrant":      "FreeGrant",
	"attributes":     "Attributes",
}

// Patch applies a partial-field update. The write is conditioned on the
// item existing; a condition failure is not-found. UpdatedAt is always
// refreshed. ID and CreatedAt are never written.
func (r *ItemRepository) Patch(ctx context.Context, id string, fields map[string]interface{}) (*catalog.Item, error) {
	update := expression.Set(expression.Name("UpdatedAt"), expression.Value(utils.NowRFC3339()))
	for field, value := range fields {
		attr, ok := patchAttributeNames[field]
		if !ok {
			continue
		}
		update = update.Set(expression.Name(attr), expression.Value(value))

		// Keep the GSI key attributes in sync with their source fields.
		switch field {
		case "gamingSystemId":
			update = update.Set(expression.Name("GSI1PK"), expression.Value(value))
		case "name":
			update = update.Set(expression.Name("GSI1SK"), expression.Value(value))
		}
	}

	expr, err := expression.NewBuilder().
		WithUpdate(update).
		WithCondition(expression.AttributeExists(expression.Name("PK"))).
		Build()
	if err != nil {
		return nil, apperrors.NewDatabaseError("UpdateItem", err)
	}

	result, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: id},
		},
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return nil, apperrors.NewNotFoundError("catalog item")
		}
		return nil, apperrors.NewDatabaseError("UpdateItem", err)
	}

	var rec itemRecord
	if err := attributevalue.UnmarshalMap(result.Attributes, &rec); err != nil {
		return nil, apperrors.NewDatabaseError("UpdateItem", err)
	}

	r.logger.Info("Catalog item updated", zap.String("itemID", id))
	return fromRecord(rec), nil
}

// Delete removes a catalog item, conditioned on it still existing, and
// returns the removed item.
func (r *ItemRepository) Delete(ctx context.Context, id string) (*catalog.Item, error) {
	result, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: id},
		},
		ConditionExpression: aws.String("attribute_exists(PK)"),
		ReturnValues:        types.ReturnValueAllOld,
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return nil, apperrors.NewNotFoundError("catalog item")
		}
		return nil, apperrors.NewDatabaseError("DeleteItem", err)
	}

	var rec itemRecord
	if err := attributevalue.UnmarshalMap(result.Attributes, &rec); err != nil {
		return nil, apperrors.NewDatabaseError("DeleteItem", err)
	}

	r.logger.Info("Catalog item deleted", zap.String("itemID", id))
	return fromRecord(rec), nil
}

const (
	defaultPageSize = int32(50)
	maxPageSize     = int32(100)
)

// clampLimit bounds a caller-supplied page size, defaulting when unset
// and capping oversized requests at the page ceiling.
func clampLimit(limit int32) int32 {
	if limit <= 0 {
		return defaultPageSize
	}
	if limit > maxPageSize {
		return maxPageSize
	}
	return limit
}

// Query lists catalog items. When a gaming system filter is present it
// queries the system GSI; otherwise it scans the table. Remaining
// predicates are applied as filter expressions. The continuation token is
// threaded through verbatim.
func (r *ItemRepository) Query(ctx context.Context, filter ports.ListFilter) (*ports.ItemPage, error) {
	startKey, err := DecodeToken(filter.NextToken)
	if err != nil {
		return nil, err
	}

	filterCond := buildListFilter(filter)

	limit := clampLimit(filter.Limit)

	var items []map[string]types.AttributeValue
	var lastKey map[string]types.AttributeValue

	if filter.GamingSystemID != "" {
		builder := expression.NewBuilder().
			WithKeyCondition(expression.Key("GSI1PK").Equal(expression.Value(filter.GamingSystemID)))
		if filterCond != nil {
			builder = builder.WithFilter(*filterCond)
		}
		expr, err := builder.Build()
		if err != nil {
			return nil, apperrors.NewDatabaseError("Query", err)
		}

		result, err := r.client.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(r.tableName),
			IndexName:                 aws.String(r.indexName),
			KeyConditionExpression:    expr.KeyCondition(),
			FilterExpression:          expr.Filter(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			Limit:                     aws.Int32(limit),
			ExclusiveStartKey:         startKey,
		})
		if err != nil {
			return nil, apperrors.NewDatabaseError("Query", err)
		}
		items = result.Items
		lastKey = result.LastEvaluatedKey
	} else {
		input := &dynamodb.ScanInput{
			TableName:         aws.String(r.tableName),
			Limit:             aws.Int32(limit),
			ExclusiveStartKey: startKey,
		}
		if filterCond != nil {
			expr, err := expression.NewBuilder().WithFilter(*filterCond).Build()
			if err != nil {
				return nil, apperrors.NewDatabaseError("Scan", err)
			}
			input.FilterExpression = expr.Filter()
			input.ExpressionAttributeNames = expr.Names()
			input.ExpressionAttributeValues = expr.Values()
		}

		result, err := r.client.Scan(ctx, input)
		if err != nil {
			return nil, apperrors.NewDatabaseError("Scan", err)
		}
		items = result.Items
		lastKey = result.LastEvaluatedKey
	}

	page := &ports.ItemPage{
		Items:     make([]*catalog.Item, 0, len(items)),
		NextToken: EncodeToken(lastKey),
	}
	for _, av := range items {
		var rec itemRecord
		if err := attributevalue.UnmarshalMap(av, &rec); err != nil {
			r.logger.Warn("Failed to unmarshal catalog item, skipping", zap.Error(err))
			continue
		}
		page.Items = append(page.Items, fromRecord(rec))
	}

	return page, nil
}

// buildListFilter assembles the post-filter predicates for a listing
func buildListFilter(filter ports.ListFilter) *expression.ConditionBuilder {
	var cond *expression.ConditionBuilder

	and := func(c expression.ConditionBuilder) {
		if cond == nil {
			cond = &c
		} else {
			combined := cond.And(c)
			cond = &combined
		}
	}

	if filter.Category != "" {
		and(expression.Name("Category").Equal(expression.Value(filter.Category)))
	}
	if filter.Status != "" {
		and(expression.Name("Status").Equal(expression.Value(filter.Status)))
	}
	if filter.MinPrice != nil {
		and(expression.Name("Price").GreaterThanEqual(expression.Value(*filter.MinPrice)))
	}
	if filter.MaxPrice != nil {
		and(expression.Name("Price").LessThanEqual(expression.Value(*filter.MaxPrice)))
	}
	if filter.Featured != nil {
		and(expression.Name("Featured").Equal(expression.Value(*filter.Featured)))
	}
	if !filter.IncludeArchived {
		and(expression.Name("Archived").Equal(expression.Value(false)))
	}

	return cond
}

// isConditionalCheckFailed reports whether err is a failed write condition
func isConditionalCheckFailed(err error) bool {
	var conditionFailed *types.ConditionalCheckFailedException
	return errors.As(err, &conditionFailed)
}
