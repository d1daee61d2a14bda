//go:build integration

package consentlog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"datagov/pkg/domain"
	"datagov/pkg/testutil/containers"
)

type PostgresSuite struct {
	suite.Suite
	ctx   context.Context
	pg    *containers.PostgresContainer
	store *Postgres
}

func TestPostgresSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresSuite))
}

func (s *PostgresSuite) SetupSuite() {
	s.ctx = context.Background()
	s.pg = containers.NewPostgresContainer(s.T())
	s.store = NewPostgres(s.pg.DB)
}

func (s *PostgresSuite) TearDownSuite() {
	_ = s.pg.DB.Close()
	_ = s.pg.Container.Terminate(s.ctx)
}

func (s *PostgresSuite) SetupTest() {
	s.Require().NoError(s.pg.TruncateTables(s.ctx))
}

func (s *PostgresSuite) appendEntry(tenantID domain.TenantID, userID domain.UserID, ct domain.ConsentType, at time.Time) {
	entry, err := NewEntry(tenantID, userID, ct, true, "203.0.113.9", "integration/1.0", at)
	s.Require().NoError(err)
	s.Require().NoError(s.store.Append(s.ctx, entry))
}

func (s *PostgresSuite) TestAppendAndList() {
	tenant := domain.TenantID(uuid.New())
	user := domain.UserID(uuid.New())
	base := time.Now().UTC().Truncate(time.Millisecond)

	s.appendEntry(tenant, user, domain.ConsentTypeTerms, base)
	s.appendEntry(tenant, user, domain.ConsentTypePrivacy, base.Add(time.Minute))
	s.appendEntry(tenant, domain.UserID{}, domain.ConsentTypeMarketing, base.Add(2*time.Minute))

	s.Run("tenant listing is newest first", func() {
		entries, err := s.store.ListByTenant(s.ctx, tenant, domain.UserID{})
		s.Require().NoError(err)
		s.Require().Len(entries, 3)
		s.Equal(domain.ConsentTypeMarketing, entries[0].ConsentType)
		s.Equal(domain.ConsentTypeTerms, entries[2].ConsentType)
	})

	s.Run("user filter excludes anonymous entries", func() {
		entries, err := s.store.ListByTenant(s.ctx, tenant, user)
		s.Require().NoError(err)
		s.Len(entries, 2)
	})

	s.Run("anonymous entry round-trips a null user", func() {
		entries, err := s.store.ListByTenant(s.ctx, tenant, domain.UserID{})
		s.Require().NoError(err)
		s.True(entries[0].UserID.IsNil())
	})
}

func (s *PostgresSuite) TestDeleteByUser() {
	tenantA := domain.TenantID(uuid.New())
	tenantB := domain.TenantID(uuid.New())
	user := domain.UserID(uuid.New())
	now := time.Now().UTC()

	s.appendEntry(tenantA, user, domain.ConsentTypeTerms, now)
	s.appendEntry(tenantB, user, domain.ConsentTypeTerms, now)

	s.Run("tenant-scoped delete leaves other tenants", func() {
		s.Require().NoError(s.store.DeleteByUser(s.ctx, tenantA, user))

		remaining, err := s.store.ListByUser(s.ctx, user)
		s.Require().NoError(err)
		s.Require().Len(remaining, 1)
		s.Equal(tenantB, remaining[0].TenantID)
	})

	s.Run("nil tenant deletes everywhere", func() {
		s.Require().NoError(s.store.DeleteByUser(s.ctx, domain.TenantID{}, user))

		remaining, err := s.store.ListByUser(s.ctx, user)
		s.Require().NoError(err)
		s.Empty(remaining)
	})
}
