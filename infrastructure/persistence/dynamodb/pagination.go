package dynamodb

import (
	"encoding/base64"
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	apperrors "catalog-backend/pkg/errors"
)

// EncodeToken converts DynamoDB's LastEvaluatedKey into an opaque,
// URL-safe continuation token. All key attributes in this schema are
// strings.
func EncodeToken(lastEvaluatedKey map[string]types.AttributeValue) string {
	if len(lastEvaluatedKey) == 0 {
		return ""
	}

	key := make(map[string]string, len(lastEvaluatedKey))
	for name, av := range lastEvaluatedKey {
		if s, ok := av.(*types.AttributeValueMemberS); ok {
			key[name] = s.Value
		}
	}

	data, err := json.Marshal(key)
	if err != nil {
		return ""
	}
	return base64.URLEncoding.EncodeToString(data)
}

// DecodeToken converts a continuation token back into an
// ExclusiveStartKey. An empty token yields a nil key (first page).
func DecodeToken(token string) (map[string]types.AttributeValue, error) {
	if token == "" {
		return nil, nil
	}

	data, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid pagination token").WithCause(err)
	}

	var key map[string]string
	if err := json.Unmarshal(data, &key); err != nil {
		return nil, apperrors.NewValidationError("invalid pagination token").WithCause(err)
	}

	startKey := make(map[string]types.AttributeValue, len(key))
	for name, value := range key {
		startKey[name] = &types.AttributeValueMemberS{Value: value}
	}
	return startKey, nil
}
