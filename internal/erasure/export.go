package erasure

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"datagov/internal/consentlog"
	"datagov/internal/directory"
	"datagov/pkg/domain"
	dErrors "datagov/pkg/domain-errors"
	"datagov/pkg/platform/audit"
	"datagov/pkg/platform/sentinel"
	"datagov/pkg/requestcontext"
)

// Export is the aggregate of a user's data across entities, assembled for a
// data-subject access request.
type Export struct {
	GeneratedAt time.Time                     `json:"generatedAt"`
	Account     *directory.Account            `json:"account"`
	Identities  []*directory.ExternalIdentity `json:"identities"`
	Memberships []*directory.Membership       `json:"memberships"`
	Consents    []*consentlog.Entry           `json:"consents"`
}

// ExportUserData gathers the user's data in parallel with shared
// cancellation on first failure. Read-only; the only side effect is the
// audit event.
func (s *Service) ExportUserData(ctx context.Context, tenantID domain.TenantID, userID domain.UserID) (*Export, error) {
	if _, err := s.guard(ctx, tenantID, userID); err != nil {
		return nil, err
	}

	export := &Export{GeneratedAt: requestcontext.Now(ctx)}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		account, err := s.accounts.FindByID(gctx, userID)
		if err != nil {
			return err
		}
		export.Account = account
		return nil
	})
	g.Go(func() error {
		identities, err := s.identities.ListByUser(gctx, userID)
		if err != nil {
			return err
		}
		export.Identities = identities
		return nil
	})
	g.Go(func() error {
		memberships, err := s.memberships.ListByUser(gctx, userID)
		if err != nil {
			return err
		}
		export.Memberships = memberships
		return nil
	})
	g.Go(func() error {
		consents, err := s.consents.ListByUser(gctx, userID)
		if err != nil {
			return err
		}
		export.Consents = consents
		return nil
	})

	if err := g.Wait(); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "gather user data")
	}

	if err := s.auditor.Emit(ctx, audit.Event{
		TenantID:  tenantID,
		UserID:    userID,
		Subject:   userID.String(),
		Action:    string(audit.ActionUserDataExported),
		RequestID: requestcontext.RequestID(ctx),
	}); err != nil {
		s.logger.ErrorContext(ctx, "export audit emit failed",
			"user_id", userID.String(),
			"error", err,
		)
	}
	return export, nil
}
