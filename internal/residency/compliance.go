package residency

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"datagov/internal/platform/config"
	"datagov/pkg/domain"
	dErrors "datagov/pkg/domain-errors"
	"datagov/pkg/platform/sentinel"
)

// Checker verifies a tenant's residency configuration end to end. All checks
// are side-effect free and cheap, safe to call from a dashboard on every
// page load; nothing is cached between calls.
type Checker struct {
	tenants  TenantSource
	resolver *Resolver
	storage  config.Storage
	logger   *slog.Logger
}

func NewChecker(tenants TenantSource, resolver *Resolver, storage config.Storage, logger *slog.Logger) *Checker {
	return &Checker{tenants: tenants, resolver: resolver, storage: storage, logger: logger}
}

// VerifyCompliance reports whether the tenant's configured region can
// actually be honored by the process configuration. Compliant iff no issues.
func (c *Checker) VerifyCompliance(ctx context.Context, tenantID domain.TenantID) (*Report, error) {
	tenant, err := c.tenants.Tenant(ctx, tenantID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) || dErrors.HasCode(err, dErrors.CodeNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "tenant not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load tenant")
	}

	report := &Report{Issues: []string{}}

	settings, err := c.tenants.Settings(ctx, tenantID)
	if err != nil {
		// Settings are lazily created; a read failure only degrades the check
		// to the tenant default.
		c.logger.WarnContext(ctx, "settings unavailable during compliance check",
			"tenant_id", tenantID.String(), "error", err)
		settings = nil
	}

	if settings != nil && settings.DataRegion != "" && !settings.DataRegion.IsValid() {
		report.Issues = append(report.Issues,
			fmt.Sprintf("settings override region %q is not a supported region", settings.DataRegion))
	}

	region := tenant.EffectiveRegion(settings)
	report.DataRegion = region

	if !region.IsValid() {
		report.Issues = append(report.Issues,
			fmt.Sprintf("configured data region %q is not a supported region", region))
		report.Compliant = false
		return report, nil
	}

	physical, ok := c.resolver.PhysicalRegionFor(region)
	if !ok {
		report.Issues = append(report.Issues,
			fmt.Sprintf("no physical region mapping configured for data region %s", region))
	}
	report.PhysicalRegion = physical

	bucket, ok := c.resolver.BucketFor(region)
	if !ok {
		report.Issues = append(report.Issues,
			fmt.Sprintf("no bucket configured for data region %s", region))
	}
	report.Bucket = bucket

	if c.storage.Provider != "local" {
		if c.storage.S3Endpoint == "" {
			report.Issues = append(report.Issues, "object storage endpoint is not configured")
		}
		if c.storage.S3AccessKey == "" || c.storage.S3SecretKey == "" {
			report.Issues = append(report.Issues,
				fmt.Sprintf("object storage credentials missing for region %s", region))
		}
	}

	// Sharing a physical region across data regions is a configured, accepted
	// mapping. It must be visible, not hidden, and not counted as a failure.
	if physical != "" {
		for _, other := range domain.DataRegions() {
			if other == region {
				continue
			}
			if otherPhysical, ok := c.resolver.PhysicalRegionFor(other); ok && otherPhysical == physical {
				report.Notes = append(report.Notes,
					fmt.Sprintf("data regions %s and %s share physical region %s (configured accepted mapping)",
						region, other, physical))
			}
		}
	}

	report.Compliant = len(report.Issues) == 0
	return report, nil
}

// ResidencyInfo computes the full derived residency view for a tenant. It is
// derived per call from tenant rows plus process configuration.
func (c *Checker) ResidencyInfo(ctx context.Context, tenantID domain.TenantID) (*Info, error) {
	report, err := c.VerifyCompliance(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return &Info{TenantID: tenantID, Report: *report}, nil
}
