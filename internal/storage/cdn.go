package storage

import (
	"context"
	"io"
	"strings"
)

// CDNBackend fronts another backend with a CDN: writes and deletes pass
// through, while returned URLs point at the CDN host so reads never hit the
// origin directly. Region awareness is inherited from the origin backend.
type CDNBackend struct {
	origin  Backend
	baseURL string
}

func NewCDNBackend(origin Backend, baseURL string) *CDNBackend {
	return &CDNBackend{origin: origin, baseURL: strings.TrimSuffix(baseURL, "/")}
}

func (b *CDNBackend) Type() string { return "cdn" }

func (b *CDNBackend) Upload(ctx context.Context, path string, body io.Reader, size int64, contentType string) (string, error) {
	if _, err := b.origin.Upload(ctx, path, body, size, contentType); err != nil {
		return "", err
	}
	return b.cdnURL(path), nil
}

func (b *CDNBackend) Delete(ctx context.Context, path string) error {
	return b.origin.Delete(ctx, strings.TrimPrefix(path, b.baseURL+"/"))
}

func (b *CDNBackend) URL(_ context.Context, path string) (string, error) {
	return b.cdnURL(path), nil
}

func (b *CDNBackend) UploadTo(ctx context.Context, physicalRegion, bucket, path string, body io.Reader, size int64, contentType string) (string, error) {
	ra, ok := b.origin.(RegionAware)
	if !ok {
		return b.Upload(ctx, path, body, size, contentType)
	}
	if _, err := ra.UploadTo(ctx, physicalRegion, bucket, path, body, size, contentType); err != nil {
		return "", err
	}
	return b.cdnURL(path), nil
}

func (b *CDNBackend) DeleteFrom(ctx context.Context, physicalRegion, bucket, path string) error {
	ra, ok := b.origin.(RegionAware)
	if !ok {
		return b.origin.Delete(ctx, path)
	}
	return ra.DeleteFrom(ctx, physicalRegion, bucket, strings.TrimPrefix(path, b.baseURL+"/"))
}

func (b *CDNBackend) URLFor(_, _, path string) string {
	return b.cdnURL(path)
}

func (b *CDNBackend) cdnURL(path string) string {
	return b.baseURL + "/" + cleanPath(path)
}
