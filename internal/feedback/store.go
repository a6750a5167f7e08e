// Package feedback stores user-submitted misclassified images in an S3
// bucket for future retraining. Objects are addressed by a SHA-256
// content hash so the same image is never stored twice, regardless of
// which label folder it was submitted under.
package feedback

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ErrDuplicate reports that an identical image is already stored.
var ErrDuplicate = errors.New("image already uploaded")

// ObjectAPI is the slice of the S3 client the store needs.
type ObjectAPI interface {
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Store uploads feedback images under <prefix>/<label>/<hash>.jpg.
type Store struct {
	client ObjectAPI
	bucket string
	prefix string
}

// NewStore builds a Store backed by a real S3 client using the default
// AWS credential chain.
func NewStore(ctx context.Context, bucket, region, prefix string) (*Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config: %w", err)
	}
	return NewStoreWithClient(s3.NewFromConfig(cfg), bucket, prefix), nil
}

func NewStoreWithClient(client ObjectAPI, bucket, prefix string) *Store {
	return &Store{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}
}

// ContentHash returns the hex SHA-256 digest of data.
func ContentHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// SubmitImage uploads image bytes under the asserted true label unless
// an object with the same content hash already exists under any label
// folder, in which case it returns ErrDuplicate without uploading.
// Returns the stored object key.
func (s *Store) SubmitImage(ctx context.Context, data []byte, label, mimeType string) (string, error) {
	filename := ContentHash(data) + ".jpg"
	key := s.prefix + "/" + strings.ToLower(label) + "/" + filename

	exists, err := s.exists(ctx, filename)
	if err != nil {
		return "", fmt.Errorf("duplicate check failed: %w", err)
	}
	if exists {
		return "", ErrDuplicate
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(mimeType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	return key, nil
}

// exists scans every label folder under the prefix for the filename.
func (s *Store) exists(ctx context.Context, filename string) (bool, error) {
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix + "/"),
	}

	for {
		page, err := s.client.ListObjectsV2(ctx, input)
		if err != nil {
			return false, err
		}
		for _, obj := range page.Contents {
			if obj.Key != nil && path.Base(*obj.Key) == filename {
				return true, nil
			}
		}
		if page.IsTruncated == nil || !*page.IsTruncated {
			return false, nil
		}
		input.ContinuationToken = page.NextContinuationToken
	}
}
