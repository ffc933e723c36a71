package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// MinIOConfig carries the connection settings for a MinIO-backed store.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// MinIOStore is a BlobStore backed by a MinIO (or S3-compatible) bucket.
type MinIOStore struct {
	client *minio.Client
	logger *zap.Logger
	bucket string
	useSSL bool
}

// ConnectMinIO initializes the MinIO client and ensures the bucket exists.
func ConnectMinIO(cfg MinIOConfig, logger *zap.Logger) (*MinIOStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize MinIO client: %w", err)
	}

	logger.Info("MinIO client initialized", zap.String("endpoint", cfg.Endpoint))

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("error checking if bucket exists: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("error creating bucket: %w", err)
		}
		logger.Info("Bucket created", zap.String("bucket", cfg.Bucket))
	}

	return &MinIOStore{
		client: client,
		logger: logger,
		bucket: cfg.Bucket,
		useSSL: cfg.UseSSL,
	}, nil
}

// Store uploads the payload under a collision-free key built from the
// folder path and the client's file name.
func (s *MinIOStore) Store(ctx context.Context, r io.Reader, size int64, meta PutMetadata) (Object, error) {
	key := s.objectKey(meta)

	info, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: meta.ContentType,
	})
	if err != nil {
		s.logger.Error("Failed to upload object",
			zap.String("key", key),
			zap.Error(err),
		)
		return Object{}, fmt.Errorf("failed to store object: %w", err)
	}

	obj := Object{
		URL:         s.objectURL(key),
		Key:         key,
		Size:        info.Size,
		ContentType: meta.ContentType,
	}

	s.logger.Info("Object stored",
		zap.String("key", key),
		zap.Int64("size", info.Size),
	)

	return obj, nil
}

// Fetch opens the payload at key for reading.
func (s *MinIOStore) Fetch(ctx context.Context, key string) (io.ReadCloser, error) {
	object, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch object: %w", err)
	}
	return object, nil
}

// Healthy verifies the bucket is still reachable.
func (s *MinIOStore) Healthy(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("storage unreachable: %w", err)
	}
	if !exists {
		return fmt.Errorf("bucket %s does not exist", s.bucket)
	}
	return nil
}

// objectKey prefixes a fresh UUID so identical file names never collide.
func (s *MinIOStore) objectKey(meta PutMetadata) string {
	name := uuid.NewString()
	if hint := strings.TrimSpace(meta.FilenameHint); hint != "" {
		name = name + "-" + path.Base(hint)
	}
	if meta.FolderPath != "" {
		return path.Join(meta.FolderPath, name)
	}
	return name
}

func (s *MinIOStore) objectURL(key string) string {
	scheme := "http"
	if s.useSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.client.EndpointURL().Host, s.bucket, key)
}
