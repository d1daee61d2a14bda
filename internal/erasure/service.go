package erasure

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"datagov/internal/consentlog"
	"datagov/internal/directory"
	"datagov/internal/platform/metrics"
	"datagov/internal/records"
	"datagov/pkg/domain"
	dErrors "datagov/pkg/domain-errors"
	"datagov/pkg/platform/audit"
	"datagov/pkg/platform/sentinel"
	"datagov/pkg/requestcontext"
)

const defaultReason = "not specified"

// Service runs the two erasure operations. Both require the target user to
// exist and to be a member of the acting tenant. Steps are not wrapped in a
// single transaction; each one is recorded in the receipt as it completes,
// so a crash mid-run leaves a diagnosable trail rather than silent partial
// state.
type Service struct {
	accounts    directory.AccountStore
	memberships directory.MembershipStore
	identities  directory.IdentityStore
	records     records.Store
	consents    consentlog.Store
	receipts    ReceiptStore
	auditor     *audit.Publisher
	logger      *slog.Logger
	metrics     *metrics.Metrics
}

func NewService(
	accounts directory.AccountStore,
	memberships directory.MembershipStore,
	identities directory.IdentityStore,
	recs records.Store,
	consents consentlog.Store,
	receipts ReceiptStore,
	auditor *audit.Publisher,
	logger *slog.Logger,
	m *metrics.Metrics,
) *Service {
	return &Service{
		accounts:    accounts,
		memberships: memberships,
		identities:  identities,
		records:     recs,
		consents:    consents,
		receipts:    receipts,
		auditor:     auditor,
		logger:      logger,
		metrics:     m,
	}
}

// guard verifies the user exists and is a member of the acting tenant.
func (s *Service) guard(ctx context.Context, tenantID domain.TenantID, userID domain.UserID) (*directory.Account, error) {
	if tenantID.IsNil() || userID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "tenant id and user id are required")
	}
	account, err := s.accounts.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load account")
	}
	if _, err := s.memberships.Find(ctx, tenantID, userID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeBadRequest, "user is not a member of this tenant")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load membership")
	}
	return account, nil
}

// begin persists the receipt before the first destructive step so a run that
// crashes midway is still visible. Failing to write it aborts the erasure;
// an untracked run defeats the receipt's purpose.
func (s *Service) begin(ctx context.Context, receipt *Receipt) error {
	if err := s.receipts.Save(ctx, receipt); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "persist erasure receipt")
	}
	return nil
}

// run executes one erasure step, records its outcome in the receipt, and
// re-saves the receipt so the persisted trail always reflects the last
// completed step.
func (s *Service) run(ctx context.Context, receipt *Receipt, name string, fn func() error) error {
	step := StepResult{Name: name, CompletedAt: requestcontext.Now(ctx)}
	if err := fn(); err != nil {
		step.Error = err.Error()
		receipt.Steps = append(receipt.Steps, step)
		s.checkpoint(ctx, receipt)
		return dErrors.Wrap(err, dErrors.CodeInternal, "erasure step "+name)
	}
	receipt.Steps = append(receipt.Steps, step)
	s.checkpoint(ctx, receipt)
	return nil
}

// checkpoint re-saves the receipt after a step. The erasure itself is not
// rolled back for a bookkeeping write; failures are logged and the final
// save in finish gets another chance.
func (s *Service) checkpoint(ctx context.Context, receipt *Receipt) {
	if err := s.receipts.Save(ctx, receipt); err != nil {
		s.logger.WarnContext(ctx, "erasure receipt checkpoint failed",
			"receipt_id", receipt.ID.String(),
			"error", err,
		)
	}
}

// finish persists the receipt regardless of outcome and emits the audit
// event on success.
func (s *Service) finish(ctx context.Context, receipt *Receipt, action audit.Action, runErr error) {
	receipt.CompletedAt = requestcontext.Now(ctx)
	if err := s.receipts.Save(ctx, receipt); err != nil {
		s.logger.ErrorContext(ctx, "erasure receipt save failed",
			"user_id", receipt.UserID.String(),
			"operation", string(receipt.Operation),
			"error", err,
		)
	}
	if runErr != nil {
		return
	}
	if s.metrics != nil {
		s.metrics.Erasures.WithLabelValues(string(receipt.Operation)).Inc()
	}
	if err := s.auditor.Emit(ctx, audit.Event{
		TenantID:  receipt.TenantID,
		UserID:    receipt.UserID,
		Subject:   receipt.UserID.String(),
		Action:    string(action),
		Reason:    receipt.Reason,
		RequestID: requestcontext.RequestID(ctx),
	}); err != nil {
		s.logger.ErrorContext(ctx, "erasure audit emit failed",
			"user_id", receipt.UserID.String(),
			"error", err,
		)
	}
}

// Anonymize irreversibly overwrites a user's personal fields with stable
// placeholders. It never deletes rows and is safe to retry: the token is
// derived from the user ID, so every run writes the same values.
func (s *Service) Anonymize(ctx context.Context, tenantID domain.TenantID, userID domain.UserID, reason string) (*Receipt, error) {
	account, err := s.guard(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	if reason == "" {
		reason = defaultReason
	}
	s.logger.WarnContext(ctx, "anonymizing user",
		"tenant_id", tenantID.String(),
		"user_id", userID.String(),
		"reason", reason,
	)

	receipt := &Receipt{
		ID:        uuid.New(),
		TenantID:  tenantID,
		UserID:    userID,
		Operation: OperationAnonymize,
		Reason:    reason,
		StartedAt: requestcontext.Now(ctx),
	}
	if err := s.begin(ctx, receipt); err != nil {
		return nil, err
	}

	email := AnonymousEmail(userID)
	name := AnonymousName()

	err = s.run(ctx, receipt, "anonymize_account", func() error {
		account.Name = name
		account.Email = email
		account.PasswordHash = ""
		account.UpdatedAt = requestcontext.Now(ctx)
		return s.accounts.Update(ctx, account)
	})
	if err == nil {
		err = s.run(ctx, receipt, "anonymize_identities", func() error {
			identities, listErr := s.identities.ListByUser(ctx, userID)
			if listErr != nil {
				return listErr
			}
			for _, identity := range identities {
				identity.Name = name
				identity.Email = email
				identity.AccessToken = ""
				identity.RefreshToken = ""
				if updateErr := s.identities.Update(ctx, identity); updateErr != nil {
					return updateErr
				}
			}
			return nil
		})
	}
	if err == nil {
		err = s.run(ctx, receipt, "clear_conversation_participants", func() error {
			return s.records.ClearConversationParticipants(ctx, tenantID)
		})
	}
	if err == nil {
		err = s.run(ctx, receipt, "clear_appointment_participants", func() error {
			return s.records.ClearAppointmentParticipants(ctx, tenantID)
		})
	}

	s.finish(ctx, receipt, audit.ActionUserAnonymized, err)
	if err != nil {
		return receipt, err
	}
	return receipt, nil
}

// DeleteUserData removes the user's footprint in the acting tenant:
// membership, external identities, tenant-scoped consent entries, and (only
// when no membership remains anywhere) the account record itself. The step
// order is load-bearing; deleting the account before checking remaining
// memberships would corrupt multi-tenant accounts.
func (s *Service) DeleteUserData(ctx context.Context, tenantID domain.TenantID, userID domain.UserID, reason string) (*Receipt, error) {
	if _, err := s.guard(ctx, tenantID, userID); err != nil {
		return nil, err
	}
	if reason == "" {
		reason = defaultReason
	}
	s.logger.WarnContext(ctx, "deleting user data",
		"tenant_id", tenantID.String(),
		"user_id", userID.String(),
		"reason", reason,
	)

	receipt := &Receipt{
		ID:        uuid.New(),
		TenantID:  tenantID,
		UserID:    userID,
		Operation: OperationDelete,
		Reason:    reason,
		StartedAt: requestcontext.Now(ctx),
	}
	if err := s.begin(ctx, receipt); err != nil {
		return nil, err
	}

	err := s.run(ctx, receipt, "remove_membership", func() error {
		return s.memberships.Delete(ctx, tenantID, userID)
	})
	if err == nil {
		err = s.run(ctx, receipt, "remove_identities", func() error {
			return s.identities.DeleteByUser(ctx, userID)
		})
	}
	if err == nil {
		err = s.run(ctx, receipt, "remove_consents", func() error {
			return s.consents.DeleteByUser(ctx, tenantID, userID)
		})
	}
	if err == nil {
		var remaining []*directory.Membership
		remaining, err = s.memberships.ListByUser(ctx, userID)
		if err != nil {
			err = dErrors.Wrap(err, dErrors.CodeInternal, "list remaining memberships")
		} else if len(remaining) == 0 {
			err = s.run(ctx, receipt, "delete_account", func() error {
				return s.accounts.Delete(ctx, userID)
			})
		} else {
			s.logger.InfoContext(ctx, "account retained, memberships remain",
				"user_id", userID.String(),
				"remaining", len(remaining),
			)
			err = s.run(ctx, receipt, "retain_account", func() error { return nil })
		}
	}

	s.finish(ctx, receipt, audit.ActionUserDataDeleted, err)
	if err != nil {
		return receipt, err
	}
	return receipt, nil
}

// Receipts lists a user's erasure receipts, newest first.
func (s *Service) Receipts(ctx context.Context, userID domain.UserID) ([]*Receipt, error) {
	receipts, err := s.receipts.ListByUser(ctx, userID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list erasure receipts")
	}
	return receipts, nil
}
