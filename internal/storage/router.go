package storage

import (
	"context"
	"io"
	"log/slog"

	"datagov/internal/platform/metrics"
	"datagov/internal/residency"
	"datagov/pkg/domain"
	dErrors "datagov/pkg/domain-errors"
)

// Router is the single entry point for tenant file operations. It is
// constructed once at startup with an explicit backend and resolver; nothing
// here consults ambient process state.
//
// When a tenant ID is supplied and the backend is region-sensitive, the
// router resolves the tenant's region before the write and uses the resolved
// bucket and physical region. If resolution fell back to the process default,
// the upload proceeds against the default region — availability over strict
// placement — unless strict mode is set, in which case it hard-fails. Callers
// needing guaranteed placement must run with strict residency enabled.
type Router struct {
	backend  Backend
	resolver *residency.Resolver
	strict   bool
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

func NewRouter(backend Backend, resolver *residency.Resolver, strict bool, logger *slog.Logger, m *metrics.Metrics) *Router {
	return &Router{backend: backend, resolver: resolver, strict: strict, logger: logger, metrics: m}
}

type endpointer interface {
	Endpoint() string
}

// Upload stores a file, placing it per the tenant's data region when the
// backend is region-sensitive, and returns its URL.
func (r *Router) Upload(ctx context.Context, path string, body io.Reader, size int64, contentType string, tenantID domain.TenantID) (string, error) {
	ra, regionSensitive := r.backend.(RegionAware)
	if !regionSensitive || tenantID.IsNil() {
		url, err := r.backend.Upload(ctx, path, body, size, contentType)
		if err == nil && r.metrics != nil {
			r.metrics.Uploads.WithLabelValues(r.backend.Type(), "default").Inc()
		}
		return url, err
	}

	res, err := r.resolveForWrite(ctx, tenantID)
	if err != nil {
		return "", err
	}

	url, err := ra.UploadTo(ctx, res.PhysicalRegion, res.Bucket, path, body, size, contentType)
	if err != nil {
		return "", err
	}
	if r.metrics != nil {
		r.metrics.Uploads.WithLabelValues(r.backend.Type(), res.PhysicalRegion).Inc()
	}
	return url, nil
}

// Delete removes a file given either a bare relative path or a URL returned
// by Upload. Bucket and region are recovered from the URL when possible;
// otherwise the tenant's resolution (or the process default) is used
// best-effort. Missing files are not errors.
func (r *Router) Delete(ctx context.Context, pathOrURL string, tenantID domain.TenantID) error {
	ra, regionSensitive := r.backend.(RegionAware)
	if !regionSensitive {
		return r.backend.Delete(ctx, pathOrURL)
	}

	if ep, ok := r.backend.(endpointer); ok {
		if bucket, key, ok := ParseObjectURL(ep.Endpoint(), pathOrURL); ok {
			region := r.regionForBucket(bucket)
			return ra.DeleteFrom(ctx, region, bucket, key)
		}
	}

	res := r.resolver.ResolveRegion(ctx, tenantID)
	if res.Bucket == "" || res.PhysicalRegion == "" {
		r.logger.WarnContext(ctx, "delete falling back to default region placement",
			"path", pathOrURL,
			"tenant_id", tenantID.String(),
		)
		fallback := r.resolver.ResolveRegion(ctx, domain.TenantID{})
		return ra.DeleteFrom(ctx, fallback.PhysicalRegion, fallback.Bucket, pathOrURL)
	}
	return ra.DeleteFrom(ctx, res.PhysicalRegion, res.Bucket, pathOrURL)
}

// URL resolves the public URL for a stored path.
func (r *Router) URL(ctx context.Context, path string, tenantID domain.TenantID) (string, error) {
	ra, regionSensitive := r.backend.(RegionAware)
	if !regionSensitive || tenantID.IsNil() {
		return r.backend.URL(ctx, path)
	}
	res := r.resolver.ResolveRegion(ctx, tenantID)
	return ra.URLFor(res.PhysicalRegion, res.Bucket, path), nil
}

// resolveForWrite applies the fallback-vs-strict policy to a resolution.
func (r *Router) resolveForWrite(ctx context.Context, tenantID domain.TenantID) (residency.Resolution, error) {
	res := r.resolver.ResolveRegion(ctx, tenantID)
	if res.Source == residency.SourceFallback {
		if r.strict {
			return res, dErrors.New(dErrors.CodeResidencyViolation,
				"region resolution fell back to the default region and strict residency is enabled")
		}
		r.logger.WarnContext(ctx, "upload proceeding with fallback region",
			"tenant_id", tenantID.String(),
			"region", res.DataRegion.String(),
			"physical_region", res.PhysicalRegion,
		)
		if r.metrics != nil {
			r.metrics.ResidencyFallbacks.Inc()
		}
	}
	if res.Bucket == "" || res.PhysicalRegion == "" {
		// Configuration gap for the tenant's region: fall back to the
		// process default placement rather than failing the upload.
		fallback := r.resolver.ResolveRegion(ctx, domain.TenantID{})
		if r.strict {
			return res, dErrors.New(dErrors.CodeResidencyViolation,
				"no bucket or physical region configured for region "+res.DataRegion.String())
		}
		r.logger.WarnContext(ctx, "upload proceeding with default region placement",
			"tenant_id", tenantID.String(),
			"region", res.DataRegion.String(),
		)
		if r.metrics != nil {
			r.metrics.ResidencyFallbacks.Inc()
		}
		return fallback, nil
	}
	return res, nil
}

func (r *Router) regionForBucket(bucket string) string {
	for _, region := range domain.DataRegions() {
		if b, ok := r.resolver.BucketFor(region); ok && b == bucket {
			if p, ok := r.resolver.PhysicalRegionFor(region); ok {
				return p
			}
		}
	}
	p, _ := r.resolver.PhysicalRegionFor(r.resolver.DefaultRegion())
	return p
}
