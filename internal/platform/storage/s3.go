// Copyright (c) 2026 Tagmi. All rights reserved.
// Author: dev@tagmi.app

// Package storage provides the S3-compatible blob store used for photo bytes.
//
// # Architecture
//
// This package is part of the Infrastructure layer. Photo metadata lives in
// PostgreSQL; the image bytes themselves live in an S3-compatible bucket and
// are referenced by their object key. Domain packages depend on a narrow
// interface rather than on this concrete client, so tests can swap in an
// in-memory fake.
package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/tagmi/tagmi/internal/platform/config"
)

// uploadPartSize is the multipart chunk size used by the manager uploader.
const uploadPartSize = 10 * 1024 * 1024

// S3Store stores and serves photo blobs in a single S3-compatible bucket.
type S3Store struct {
	client *s3.Client
	bucket string
	logger *slog.Logger
}

// NewS3Store builds the S3 client from application configuration.
//
// # Parameters
//   - ctx: Context for loading the AWS configuration.
//   - cfg: Application configuration (bucket, region, optional custom endpoint).
//   - logger: Structured logger for storage-level events.
//
// A custom endpoint (MinIO, Ceph, localstack) is supported via S3_ENDPOINT
// together with path-style addressing.
func NewS3Store(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*S3Store, error) {
	resolver := awsconfig.WithEndpointResolverWithOptions(aws.EndpointResolverWithOptionsFunc(
		func(service, region string, options ...interface{}) (aws.Endpoint, error) {
			if cfg.S3Endpoint != "" {
				return aws.Endpoint{URL: cfg.S3Endpoint, SigningRegion: cfg.S3Region}, nil
			}
			return aws.Endpoint{}, &aws.EndpointNotFoundError{}
		}))

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKeyID, cfg.S3SecretKey, ""),
		),
		resolver,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: failed to load S3 configuration: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(options *s3.Options) {
		options.UsePathStyle = cfg.S3UsePathStyle
		if cfg.S3Endpoint != "" {
			options.BaseEndpoint = &cfg.S3Endpoint
		}
	})

	logger.Info("s3 blob store ready",
		slog.String("bucket", cfg.S3Bucket),
		slog.String("region", cfg.S3Region),
	)

	return &S3Store{client: client, bucket: cfg.S3Bucket, logger: logger}, nil
}

// Put streams a blob into the bucket under the given key.
func (store *S3Store) Put(ctx context.Context, key string, body io.Reader, contentType string) error {
	uploader := manager.NewUploader(store.client, func(u *manager.Uploader) {
		u.PartSize = uploadPartSize
	})

	_, err := uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      &store.bucket,
		Key:         &key,
		Body:        body,
		ContentType: &contentType,
		ACL:         s3types.ObjectCannedACLPrivate,
	})
	if err != nil {
		return fmt.Errorf("storage: failed to upload object %q: %w", key, err)
	}

	return nil
}

// Delete removes a blob from the bucket. Deleting a missing key is not an error.
func (store *S3Store) Delete(ctx context.Context, key string) error {
	_, err := store.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &store.bucket,
		Key:    &key,
	})
	if err != nil {
		return fmt.Errorf("storage: failed to delete object %q: %w", key, err)
	}

	return nil
}

// PresignGet returns a time-limited GET URL for a stored blob.
// The bucket stays private; clients only ever see signed URLs.
func (store *S3Store) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	presigner := s3.NewPresignClient(store.client)

	result, err := presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: &store.bucket,
		Key:    &key,
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("storage: failed to presign object %q: %w", key, err)
	}

	return result.URL, nil
}
