// Package residency resolves which legal data region a tenant's data must
// live in and which physical region and bucket implement it, and verifies
// that configuration against what storage operations actually used.
package residency

import (
	"fmt"

	"datagov/pkg/domain"
)

// ResolutionSource records how a region was determined, so callers can choose
// to hard-fail in strict-compliance mode instead of accepting the fallback.
type ResolutionSource string

const (
	// SourceTenant means the region came from the tenant's own configuration
	// (settings override or tenant default).
	SourceTenant ResolutionSource = "tenant"
	// SourceFallback means resolution could not use tenant data and fell back
	// to the process default region.
	SourceFallback ResolutionSource = "fallback"
)

// Resolution is the outcome of ResolveRegion. It is always populated; the
// resolver never fails outright.
type Resolution struct {
	DataRegion     domain.DataRegion `json:"data_region"`
	PhysicalRegion string            `json:"physical_region"`
	Bucket         string            `json:"bucket"`
	Source         ResolutionSource  `json:"source"`
}

// ViolationError is the hard-fail result of ValidateStorageRegion: a storage
// operation touched a different physical region than the tenant's data region
// requires. It carries both regions for auditability and is never silently
// corrected.
type ViolationError struct {
	TenantID       domain.TenantID
	DataRegion     domain.DataRegion
	ExpectedRegion string
	ActualRegion   string
}

func (e *ViolationError) Error() string {
	return fmt.Sprintf("residency violation for tenant %s: data region %s expects physical region %q, operation used %q",
		e.TenantID, e.DataRegion, e.ExpectedRegion, e.ActualRegion)
}

// Report is the outcome of VerifyCompliance. Compliant iff Issues is empty.
// Notes surface configured accepted mappings (such as CH data served from a
// shared EU physical region) without flagging them as failures.
type Report struct {
	Compliant      bool              `json:"compliant"`
	DataRegion     domain.DataRegion `json:"data_region"`
	PhysicalRegion string            `json:"physical_region"`
	Bucket         string            `json:"bucket"`
	Issues         []string          `json:"issues"`
	Notes          []string          `json:"notes,omitempty"`
}

// Info is the derived data-residency view for one tenant. Computed on demand
// from tenant configuration plus environment config; never cached beyond a
// single request.
type Info struct {
	TenantID domain.TenantID `json:"tenant_id"`
	Report
}
