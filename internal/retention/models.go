// Package retention applies per-tenant, per-data-type retention policies:
// records older than a policy's window are purged, with per-policy error
// isolation so one bad policy never blocks the rest of a run.
package retention

import (
	"time"

	"datagov/pkg/domain"
	dErrors "datagov/pkg/domain-errors"
)

// Policy configures retention for one data type of one tenant. A tenant holds
// at most one policy per data type; RetentionDays==0 or AutoDelete==false
// makes the policy inert without removing its configuration.
type Policy struct {
	ID            domain.PolicyID `json:"id"`
	TenantID      domain.TenantID `json:"tenantId"`
	DataType      domain.DataType `json:"dataType"`
	RetentionDays int             `json:"retentionDays"`
	AutoDelete    bool            `json:"autoDelete"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// NewPolicy validates and constructs a retention policy.
func NewPolicy(tenantID domain.TenantID, dataType domain.DataType, retentionDays int, autoDelete bool, now time.Time) (*Policy, error) {
	if tenantID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "tenant id cannot be empty")
	}
	if !dataType.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "unsupported data type: "+dataType.String())
	}
	if retentionDays < 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "retention days cannot be negative")
	}
	return &Policy{
		ID:            domain.NewPolicyID(),
		TenantID:      tenantID,
		DataType:      dataType,
		RetentionDays: retentionDays,
		AutoDelete:    autoDelete,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// Active reports whether the policy participates in retention runs.
func (p *Policy) Active() bool {
	return p.AutoDelete && p.RetentionDays > 0
}

// Cutoff returns the timestamp before which records are considered expired.
func (p *Policy) Cutoff(now time.Time) time.Time {
	return now.AddDate(0, 0, -p.RetentionDays)
}

// PolicyResult records the outcome of applying one policy within a run.
// Error is the message of a failure that was isolated, empty on success.
type PolicyResult struct {
	PolicyID     domain.PolicyID `json:"policyId"`
	TenantID     domain.TenantID `json:"tenantId"`
	DataType     domain.DataType `json:"dataType"`
	DeletedCount int64           `json:"deletedCount"`
	Error        string          `json:"error,omitempty"`
}

// Report summarizes one retention run.
type Report struct {
	AppliedAt time.Time      `json:"appliedAt"`
	Results   []PolicyResult `json:"results"`
}

// TotalDeleted sums deletions across all policy results.
func (r *Report) TotalDeleted() int64 {
	var total int64
	for _, res := range r.Results {
		total += res.DeletedCount
	}
	return total
}
