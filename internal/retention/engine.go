package retention

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"datagov/internal/platform/metrics"
	"datagov/internal/records"
	"datagov/pkg/domain"
	"datagov/pkg/requestcontext"
)

// Engine executes retention runs. Policies are applied sequentially, never
// concurrently: deletions are destructive and a serial pass keeps the load on
// the record store predictable. A failing policy is recorded in the report
// and the run continues with the next one.
type Engine struct {
	policies Store
	records  records.Store
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

func NewEngine(policies Store, recs records.Store, logger *slog.Logger, m *metrics.Metrics) *Engine {
	return &Engine{policies: policies, records: recs, logger: logger, metrics: m}
}

// Apply runs every stored policy. A nil tenant ID applies all tenants'
// policies; a concrete ID scopes the run to that tenant. Context cancellation
// stops the run between policies and returns the partial report with the
// cancellation error.
func (e *Engine) Apply(ctx context.Context, tenantID domain.TenantID) (*Report, error) {
	policies, err := e.policies.List(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list retention policies: %w", err)
	}

	report := &Report{AppliedAt: requestcontext.Now(ctx)}
	for _, policy := range policies {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if !policy.Active() {
			continue
		}
		if !policy.DataType.IsValid() {
			// A stored policy with an unknown data type is a configuration
			// problem, not a reason to abort the run. It neither deleted nor
			// failed, so the report carries no result for it.
			e.logger.WarnContext(ctx, "skipping policy with unknown data type",
				"policy_id", policy.ID.String(),
				"data_type", policy.DataType.String(),
			)
			continue
		}
		report.Results = append(report.Results, e.applyPolicy(ctx, policy))
	}

	e.logger.InfoContext(ctx, "retention run completed",
		"policies", len(report.Results),
		"deleted", report.TotalDeleted(),
	)
	return report, nil
}

func (e *Engine) applyPolicy(ctx context.Context, policy *Policy) PolicyResult {
	result := PolicyResult{
		PolicyID: policy.ID,
		TenantID: policy.TenantID,
		DataType: policy.DataType,
	}

	deleted, err := e.purge(ctx, policy)
	if err != nil {
		result.Error = err.Error()
		e.logger.ErrorContext(ctx, "retention policy failed",
			"policy_id", policy.ID.String(),
			"tenant_id", policy.TenantID.String(),
			"data_type", policy.DataType.String(),
			"error", err,
		)
		if e.metrics != nil {
			e.metrics.RetentionErrors.WithLabelValues(policy.DataType.String()).Inc()
		}
		return result
	}

	result.DeletedCount = deleted
	if e.metrics != nil {
		e.metrics.RetentionDeleted.WithLabelValues(policy.DataType.String()).Add(float64(deleted))
	}
	return result
}

// purge counts matching records, then deletes them. The count taken before
// the delete is what the report carries.
func (e *Engine) purge(ctx context.Context, policy *Policy) (int64, error) {
	cutoff := policy.Cutoff(requestcontext.Now(ctx))

	var (
		count func(context.Context, domain.TenantID, time.Time) (int64, error)
		purge func(context.Context, domain.TenantID, time.Time) error
	)
	switch policy.DataType {
	case domain.DataTypeConversations:
		count, purge = e.records.CountConversationsBefore, e.records.DeleteConversationsBefore
	case domain.DataTypeMessages:
		count, purge = e.records.CountMessagesBefore, e.records.DeleteMessagesBefore
	case domain.DataTypeAppointments:
		count, purge = e.records.CountTerminalAppointmentsBefore, e.records.DeleteTerminalAppointmentsBefore
	case domain.DataTypeLeads:
		count, purge = e.records.CountLeadsBefore, e.records.DeleteLeadsBefore
	default:
		// Apply filters out unknown data types; reaching this branch means a
		// valid type gained no dispatch arm.
		return 0, fmt.Errorf("no retention rule for data type %q", policy.DataType)
	}

	n, err := count(ctx, policy.TenantID, cutoff)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", policy.DataType, err)
	}
	if n == 0 {
		return 0, nil
	}
	if err := purge(ctx, policy.TenantID, cutoff); err != nil {
		return 0, fmt.Errorf("delete %s: %w", policy.DataType, err)
	}
	return n, nil
}
