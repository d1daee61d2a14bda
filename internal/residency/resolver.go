package residency

import (
	"context"
	"log/slog"

	"datagov/internal/platform/config"
	tenantmodels "datagov/internal/tenant/models"
	"datagov/pkg/domain"
	dErrors "datagov/pkg/domain-errors"
)

// TenantSource is the slice of the tenant service the resolver consumes.
type TenantSource interface {
	Tenant(ctx context.Context, id domain.TenantID) (*tenantmodels.Tenant, error)
	Settings(ctx context.Context, id domain.TenantID) (*tenantmodels.Settings, error)
}

// Resolver maps tenants to legal data regions and the physical backend
// parameters implementing them. It is a read-only collaborator constructed
// once at startup and passed explicitly to the storage router and handlers.
type Resolver struct {
	tenants TenantSource
	cfg     config.Residency
	logger  *slog.Logger
}

func NewResolver(tenants TenantSource, cfg config.Residency, logger *slog.Logger) *Resolver {
	return &Resolver{tenants: tenants, cfg: cfg, logger: logger}
}

// ResolveRegion determines the tenant's data region and the physical
// region/bucket pair implementing it. Resolution order: settings override,
// tenant default, hard fallback to EU. It never fails; lookup errors are
// logged and reported through Source=fallback so strict callers can reject
// the result.
func (r *Resolver) ResolveRegion(ctx context.Context, tenantID domain.TenantID) Resolution {
	region, source := r.dataRegion(ctx, tenantID)
	physical, _ := r.PhysicalRegionFor(region)
	bucket, _ := r.BucketFor(region)
	return Resolution{
		DataRegion:     region,
		PhysicalRegion: physical,
		Bucket:         bucket,
		Source:         source,
	}
}

func (r *Resolver) dataRegion(ctx context.Context, tenantID domain.TenantID) (domain.DataRegion, ResolutionSource) {
	if tenantID.IsNil() {
		return r.cfg.DefaultRegion, SourceFallback
	}

	settings, err := r.tenants.Settings(ctx, tenantID)
	if err == nil && settings.DataRegion != "" {
		if settings.DataRegion.IsValid() {
			return settings.DataRegion, SourceTenant
		}
		// An invalid stored region is a data-integrity problem; fall through
		// to the tenant default rather than trusting it.
		r.logger.WarnContext(ctx, "tenant settings carry invalid data region",
			"tenant_id", tenantID.String(),
			"data_region", settings.DataRegion.String(),
		)
	}
	if err != nil {
		r.logger.WarnContext(ctx, "tenant settings lookup failed, consulting tenant default",
			"tenant_id", tenantID.String(),
			"error", err,
		)
	}

	tenant, err := r.tenants.Tenant(ctx, tenantID)
	if err != nil {
		r.logger.WarnContext(ctx, "tenant lookup failed, falling back to default region",
			"tenant_id", tenantID.String(),
			"fallback_region", r.cfg.DefaultRegion.String(),
			"error", err,
		)
		return r.cfg.DefaultRegion, SourceFallback
	}
	if !tenant.DataRegion.IsValid() {
		r.logger.WarnContext(ctx, "tenant carries invalid data region, falling back to default region",
			"tenant_id", tenantID.String(),
			"data_region", tenant.DataRegion.String(),
		)
		return r.cfg.DefaultRegion, SourceFallback
	}
	return tenant.DataRegion, SourceTenant
}

// PhysicalRegionFor looks up the physical cloud region serving a data region.
func (r *Resolver) PhysicalRegionFor(region domain.DataRegion) (string, bool) {
	p, ok := r.cfg.PhysicalRegions[region]
	return p, ok && p != ""
}

// BucketFor looks up the bucket serving a data region.
func (r *Resolver) BucketFor(region domain.DataRegion) (string, bool) {
	b, ok := r.cfg.Buckets[region]
	return b, ok && b != ""
}

// DefaultRegion exposes the process-wide fallback region.
func (r *Resolver) DefaultRegion() domain.DataRegion {
	return r.cfg.DefaultRegion
}

// ValidateStorageRegion compares the physical region a storage operation
// actually used against the region resolved for the tenant. A mismatch is a
// residency violation and a hard failure; it is never silently corrected.
func (r *Resolver) ValidateStorageRegion(ctx context.Context, tenantID domain.TenantID, actualPhysicalRegion string) error {
	res := r.ResolveRegion(ctx, tenantID)
	if res.PhysicalRegion == "" {
		return dErrors.New(dErrors.CodeInvariantViolation,
			"no physical region configured for data region "+res.DataRegion.String())
	}
	if actualPhysicalRegion != res.PhysicalRegion {
		return &ViolationError{
			TenantID:       tenantID,
			DataRegion:     res.DataRegion,
			ExpectedRegion: res.PhysicalRegion,
			ActualRegion:   actualPhysicalRegion,
		}
	}
	return nil
}
