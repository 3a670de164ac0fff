// Package storage persists product images in an S3-compatible object store.
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// ImageStore is the object-storage surface the product service needs:
// upload on add, delete on cleanup after a failed add.
type ImageStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) error
	Delete(ctx context.Context, keys ...string) error
	URL(key string) string
}

// s3API is the subset of the S3 client used here, extracted so tests can
// substitute a fake.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3ImageStore implements ImageStore against an S3-compatible backend
// (MinIO in development).
type S3ImageStore struct {
	client       s3API
	bucket       string
	baseEndpoint string
}

// NewS3ImageStore builds the S3 client from static credentials and a base
// endpoint, the same way the rest of the stack configures object storage.
func NewS3ImageStore(rootUser, rootPassword, bucket, region, baseEndpoint string) (*S3ImageStore, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			rootUser, rootPassword, "",
		)))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(baseEndpoint)
		o.UsePathStyle = true
	})

	return &S3ImageStore{client: client, bucket: bucket, baseEndpoint: baseEndpoint}, nil
}

// RandomImageKey generates a collision-free storage key partitioned by date.
func RandomImageKey() string {
	d := time.Now()
	return fmt.Sprintf("products/%d/%02d/%02d/%v", d.Year(), d.Month(), d.Day(), uuid.New())
}

// Upload stores one object under key.
func (s *S3ImageStore) Upload(ctx context.Context, key, contentType string, body io.Reader) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("uploading %s: %w", key, err)
	}
	return nil
}

// Delete removes the given objects, continuing past individual failures and
// returning the first error encountered. Used to clean up after a failed
// product insert.
func (s *S3ImageStore) Delete(ctx context.Context, keys ...string) error {
	var firstErr error
	for _, key := range keys {
		_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		})
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("deleting %s: %w", key, err)
		}
	}
	return firstErr
}

// URL resolves a storage key to a public URL under the base endpoint.
func (s *S3ImageStore) URL(key string) string {
	return strings.TrimSuffix(s.baseEndpoint, "/") + "/" + s.bucket + "/" + key
}
