package consentlog

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"datagov/pkg/domain"
	dErrors "datagov/pkg/domain-errors"
	"datagov/pkg/platform/audit"
	"datagov/pkg/requestcontext"
)

// failingStore wraps the in-memory store and rejects appends, exercising the
// infrastructure-error path.
type failingStore struct {
	Store
}

func (failingStore) Append(context.Context, *Entry) error {
	return errors.New("ledger unavailable")
}

type ServiceSuite struct {
	suite.Suite
	ctx    context.Context
	store  *InMemory
	events *audit.InMemory
	svc    *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = requestcontext.WithClientMetadata(context.Background(), "203.0.113.9", "test-agent/1.0")
	s.store = NewInMemory()
	s.events = audit.NewInMemory()
	s.svc = NewService(s.store, audit.NewPublisher(s.events), slog.Default(), nil)
}

func (s *ServiceSuite) TestLogConsent() {
	tenant := domain.TenantID(uuid.New())
	user := domain.UserID(uuid.New())

	s.Run("appends entry with request metadata", func() {
		entry, err := s.svc.LogConsent(s.ctx, tenant, user, domain.ConsentTypeMarketing, true)
		s.Require().NoError(err)
		s.Equal("203.0.113.9", entry.IPAddress)
		s.Equal("test-agent/1.0", entry.UserAgent)
		s.True(entry.Granted)
	})

	s.Run("emits a compliance audit event", func() {
		_, err := s.svc.LogConsent(s.ctx, tenant, user, domain.ConsentTypePrivacy, false)
		s.Require().NoError(err)

		events := s.events.Events()
		s.Require().NotEmpty(events)
		last := events[len(events)-1]
		s.Equal(string(audit.ActionConsentRevoked), last.Action)
		s.Equal(audit.CategoryCompliance, last.Category)
	})

	s.Run("repeated submissions accumulate", func() {
		before, err := s.store.ListByUser(s.ctx, user)
		s.Require().NoError(err)

		_, err = s.svc.LogConsent(s.ctx, tenant, user, domain.ConsentTypeTerms, true)
		s.Require().NoError(err)
		_, err = s.svc.LogConsent(s.ctx, tenant, user, domain.ConsentTypeTerms, true)
		s.Require().NoError(err)

		after, err := s.store.ListByUser(s.ctx, user)
		s.Require().NoError(err)
		s.Len(after, len(before)+2)
	})

	s.Run("store failure surfaces as an internal error", func() {
		svc := NewService(failingStore{s.store}, audit.NewPublisher(s.events), slog.Default(), nil)
		_, err := svc.LogConsent(s.ctx, tenant, user, domain.ConsentTypeTerms, true)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})

	s.Run("anonymous entries carry no user id", func() {
		entry, err := s.svc.LogConsent(s.ctx, tenant, domain.UserID{}, domain.ConsentTypeTerms, true)
		s.Require().NoError(err)
		s.True(entry.UserID.IsNil())
	})

	s.Run("rejects unknown consent type", func() {
		_, err := s.svc.LogConsent(s.ctx, tenant, user, domain.ConsentType("telepathy"), true)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

func (s *ServiceSuite) TestGetConsents() {
	tenant := domain.TenantID(uuid.New())
	other := domain.TenantID(uuid.New())
	user := domain.UserID(uuid.New())

	base := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	for i, ct := range []domain.ConsentType{domain.ConsentTypeTerms, domain.ConsentTypePrivacy, domain.ConsentTypeMarketing} {
		ctx := requestcontext.WithTime(s.ctx, base.Add(time.Duration(i)*time.Minute))
		_, err := s.svc.LogConsent(ctx, tenant, user, ct, true)
		s.Require().NoError(err)
	}
	_, err := s.svc.LogConsent(s.ctx, other, user, domain.ConsentTypeTerms, true)
	s.Require().NoError(err)

	s.Run("newest first, tenant scoped", func() {
		entries, err := s.svc.GetConsents(s.ctx, tenant, domain.UserID{})
		s.Require().NoError(err)
		s.Require().Len(entries, 3)
		s.Equal(domain.ConsentTypeMarketing, entries[0].ConsentType)
		s.Equal(domain.ConsentTypeTerms, entries[2].ConsentType)
	})

	s.Run("user filter narrows the listing", func() {
		entries, err := s.svc.GetConsents(s.ctx, tenant, user)
		s.Require().NoError(err)
		s.Len(entries, 3)

		entries, err = s.svc.GetConsents(s.ctx, tenant, domain.UserID(uuid.New()))
		s.Require().NoError(err)
		s.Empty(entries)
	})

	s.Run("nil tenant is invalid", func() {
		_, err := s.svc.GetConsents(s.ctx, domain.TenantID{}, domain.UserID{})
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}
