// Package storage routes tenant file operations to the correct backend and,
// for region-sensitive backends, to the correct physical region and bucket
// for the tenant's legal data region. Implementations handle raw object I/O;
// record metadata lives in the relational store.
package storage

import (
	"context"
	"io"
)

// Backend is the interface for file storage backends. Implementations: local
// filesystem, object storage, CDN-fronted object storage. All methods must be
// safe for concurrent use.
type Backend interface {
	// Upload writes body to the given relative path and returns the public URL.
	Upload(ctx context.Context, path string, body io.Reader, size int64, contentType string) (string, error)

	// Delete removes the object at the given relative path. Deleting a path
	// that does not exist succeeds silently.
	Delete(ctx context.Context, path string) error

	// URL resolves the public URL for a stored path without touching the
	// backend.
	URL(ctx context.Context, path string) (string, error)

	// Type returns the backend identifier ("local", "s3", "cdn").
	Type() string
}

// RegionAware is implemented by backends whose placement depends on the
// tenant's data region. The router resolves region and bucket before calling
// these; non-region-aware backends only see the plain Backend methods.
type RegionAware interface {
	UploadTo(ctx context.Context, physicalRegion, bucket, path string, body io.Reader, size int64, contentType string) (string, error)
	DeleteFrom(ctx context.Context, physicalRegion, bucket, path string) error
	URLFor(physicalRegion, bucket, path string) string
}
