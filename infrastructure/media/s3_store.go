package media

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"

	"catalog-backend/application/ports"
	apperrors "catalog-backend/pkg/errors"
)

// S3Store persists item media in S3 under <systemID>/<itemID>/ prefixes
type S3Store struct {
	client *s3.Client
	bucket string
	logger *zap.Logger
}

// NewS3Store creates a media store backed by the given bucket
func NewS3Store(client *s3.Client, bucket string, logger *zap.Logger) ports.MediaStore {
	return &S3Store{
		client: client,
		bucket: bucket,
		logger: logger,
	}
}

func itemPrefix(systemID, itemID string) string {
	return fmt.Sprintf("%s/%s/", systemID, itemID)
}

// Store writes a processed image and returns its object key
func (s *S3Store) Store(ctx context.Context, systemID, itemID, name string, data []byte) (string, error) {
	key := itemPrefix(systemID, itemID) + name + ".jpg"

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("image/jpeg"),
	})
	if err != nil {
		return "", apperrors.NewExternalError("s3", err).WithOp("StoreMedia")
	}

	s.logger.Info("Stored item media",
		zap.String("bucket", s.bucket),
		zap.String("key", key),
	)
	return key, nil
}

// DeleteAll removes every object under the item's prefix. Listing is
// driven to exhaustion so multi-page prefixes are fully cleared.
func (s *S3Store) DeleteAll(ctx context.Context, systemID, itemID string) error {
	prefix := itemPrefix(systemID, itemID)

	var continuationToken *string
	for {
		listing, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(s.bucket),
			Prefix:            aws.String(prefix),
			ContinuationToken: continuationToken,
		})
		if err != nil {
			return apperrors.NewExternalError("s3", err).WithOp("DeleteMedia")
		}

		if len(listing.Contents) > 0 {
			objects := make([]types.ObjectIdentifier, 0, len(listing.Contents))
			for _, obj := range listing.Contents {
				objects = append(objects, types.ObjectIdentifier{Key: obj.Key})
			}

			_, err = s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
				Bucket: aws.String(s.bucket),
				Delete: &types.Delete{
					Objects: objects,
					Quiet:   aws.Bool(true),
				},
			})
			if err != nil {
				return apperrors.NewExternalError("s3", err).WithOp("DeleteMedia")
			}
		}

		if listing.IsTruncated == nil || !*listing.IsTruncated {
			return nil
		}
		continuationToken = listing.NextContinuationToken
	}
}
