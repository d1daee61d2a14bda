package retention

import (
	"context"
	"errors"
	"log/slog"

	"datagov/pkg/domain"
	dErrors "datagov/pkg/domain-errors"
	"datagov/pkg/platform/sentinel"
	"datagov/pkg/requestcontext"
)

// Service is the policy management surface sitting in front of the engine.
type Service struct {
	store  Store
	logger *slog.Logger
}

func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// CreatePolicy validates and stores a policy. Re-submitting a (tenant, data
// type) pair updates the existing policy in place.
func (s *Service) CreatePolicy(ctx context.Context, tenantID domain.TenantID, dataType domain.DataType, retentionDays int, autoDelete bool) (*Policy, error) {
	policy, err := NewPolicy(tenantID, dataType, retentionDays, autoDelete, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}

	stored, err := s.store.Upsert(ctx, policy)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "store retention policy")
	}
	s.logger.InfoContext(ctx, "retention policy stored",
		"policy_id", stored.ID.String(),
		"tenant_id", stored.TenantID.String(),
		"data_type", stored.DataType.String(),
		"retention_days", stored.RetentionDays,
		"auto_delete", stored.AutoDelete,
	)
	return stored, nil
}

// ListPolicies returns a tenant's policies, or all policies for a nil tenant.
func (s *Service) ListPolicies(ctx context.Context, tenantID domain.TenantID) ([]*Policy, error) {
	policies, err := s.store.List(ctx, tenantID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list retention policies")
	}
	return policies, nil
}

// DeletePolicy removes a policy by ID.
func (s *Service) DeletePolicy(ctx context.Context, id domain.PolicyID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "retention policy not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "delete retention policy")
	}
	return nil
}
