package consentlog

import (
	"context"
	"log/slog"

	"datagov/internal/platform/metrics"
	"datagov/pkg/domain"
	dErrors "datagov/pkg/domain-errors"
	"datagov/pkg/platform/audit"
	"datagov/pkg/requestcontext"
)

// Service appends to and reads the consent ledger. Client IP and user agent
// are taken from the request context, not from the caller's payload.
type Service struct {
	store   Store
	auditor *audit.Publisher
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewService(store Store, auditor *audit.Publisher, logger *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{store: store, auditor: auditor, logger: logger, metrics: m}
}

// LogConsent appends one consent decision. Identical repeated submissions
// each produce a distinct entry; the ledger is a history, not current state.
func (s *Service) LogConsent(ctx context.Context, tenantID domain.TenantID, userID domain.UserID, consentType domain.ConsentType, granted bool) (*Entry, error) {
	entry, err := NewEntry(
		tenantID,
		userID,
		consentType,
		granted,
		requestcontext.ClientIP(ctx),
		requestcontext.UserAgent(ctx),
		requestcontext.Now(ctx),
	)
	if err != nil {
		return nil, err
	}

	if err := s.store.Append(ctx, entry); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "append consent entry")
	}
	if s.metrics != nil {
		s.metrics.ConsentEntries.Inc()
	}

	action := audit.ActionConsentGranted
	if !granted {
		action = audit.ActionConsentRevoked
	}
	if err := s.auditor.Emit(ctx, audit.Event{
		TenantID:  tenantID,
		UserID:    userID,
		Subject:   consentType.String(),
		Action:    string(action),
		RequestID: requestcontext.RequestID(ctx),
	}); err != nil {
		// The ledger entry is the compliance record; a failed audit event is
		// logged, not propagated.
		s.logger.ErrorContext(ctx, "consent audit emit failed",
			"tenant_id", tenantID.String(),
			"consent_type", consentType.String(),
			"error", err,
		)
	}
	return entry, nil
}

// GetConsents lists a tenant's ledger entries newest first, optionally
// narrowed to one user.
func (s *Service) GetConsents(ctx context.Context, tenantID domain.TenantID, userID domain.UserID) ([]*Entry, error) {
	if tenantID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "tenant id cannot be empty")
	}
	entries, err := s.store.ListByTenant(ctx, tenantID, userID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list consent entries")
	}
	return entries, nil
}
