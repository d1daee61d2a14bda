package retention

import (
	"context"

	"datagov/pkg/domain"
)

// Store persists retention policies. Upsert is keyed on (tenant, data type):
// creating a second policy for the same pair updates the existing one. The
// data type of an existing policy never changes; days and auto-delete do.
type Store interface {
	Upsert(ctx context.Context, policy *Policy) (*Policy, error)
	FindByID(ctx context.Context, id domain.PolicyID) (*Policy, error)

	// List returns policies ordered by creation time. A nil tenant ID lists
	// every tenant's policies, which is how the engine consumes them.
	List(ctx context.Context, tenantID domain.TenantID) ([]*Policy, error)

	Delete(ctx context.Context, id domain.PolicyID) error
	DeleteByTenant(ctx context.Context, tenantID domain.TenantID) error
}
