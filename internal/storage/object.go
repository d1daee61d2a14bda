package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"

	"datagov/internal/platform/config"
)

// ObjectBackend stores files in S3-compatible object storage. The plain
// Backend methods operate on the process-default region and bucket; the
// router uses the RegionAware methods after resolving a tenant's region.
type ObjectBackend struct {
	cfg           config.Storage
	pool          *clientPool
	defaultRegion string
	defaultBucket string
}

func NewObjectBackend(cfg config.Storage, defaultRegion, defaultBucket string) *ObjectBackend {
	return &ObjectBackend{
		cfg:           cfg,
		pool:          newClientPool(cfg),
		defaultRegion: defaultRegion,
		defaultBucket: defaultBucket,
	}
}

func (b *ObjectBackend) Type() string { return "s3" }

func (b *ObjectBackend) Upload(ctx context.Context, path string, body io.Reader, size int64, contentType string) (string, error) {
	return b.UploadTo(ctx, b.defaultRegion, b.defaultBucket, path, body, size, contentType)
}

func (b *ObjectBackend) Delete(ctx context.Context, path string) error {
	return b.DeleteFrom(ctx, b.defaultRegion, b.defaultBucket, path)
}

func (b *ObjectBackend) URL(_ context.Context, path string) (string, error) {
	return b.URLFor(b.defaultRegion, b.defaultBucket, path), nil
}

func (b *ObjectBackend) UploadTo(ctx context.Context, physicalRegion, bucket, path string, body io.Reader, size int64, contentType string) (string, error) {
	client, err := b.pool.Get(physicalRegion)
	if err != nil {
		return "", err
	}
	key := cleanPath(path)
	_, err = client.PutObject(ctx, bucket, key, body, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("put object %s/%s: %w", bucket, key, err)
	}
	return b.URLFor(physicalRegion, bucket, key), nil
}

func (b *ObjectBackend) DeleteFrom(ctx context.Context, physicalRegion, bucket, path string) error {
	client, err := b.pool.Get(physicalRegion)
	if err != nil {
		return err
	}
	key := cleanPath(path)
	err = client.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{})
	if err != nil {
		// Deleting an absent object is success, matching the local backend.
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket" {
			return nil
		}
		return fmt.Errorf("remove object %s/%s: %w", bucket, key, err)
	}
	return nil
}

func (b *ObjectBackend) URLFor(_ string, bucket, path string) string {
	return BuildObjectURL(b.cfg.S3Endpoint, b.cfg.S3UseSSL, bucket, cleanPath(path))
}

// Endpoint exposes the configured endpoint for URL parsing in the router.
func (b *ObjectBackend) Endpoint() string { return b.cfg.S3Endpoint }
