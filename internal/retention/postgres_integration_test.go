//go:build integration

package retention

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	tenantmodels "datagov/internal/tenant/models"
	tenantstore "datagov/internal/tenant/store"
	"datagov/pkg/domain"
	"datagov/pkg/platform/sentinel"
	"datagov/pkg/testutil/containers"
)

type PostgresSuite struct {
	suite.Suite
	ctx     context.Context
	pg      *containers.PostgresContainer
	store   *Postgres
	tenants *tenantstore.PostgresTenants
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
	s.tenants = tenantstore.NewPostgresTenants(s.pg.DB)
}

func (s *PostgresSuite) TearDownSuite() {
	_ = s.pg.DB.Close()
	_ = s.pg.Container.Terminate(s.ctx)
}

func (s *PostgresSuite) SetupTest() {
	s.Require().NoError(s.pg.TruncateTables(s.ctx))
}

func (s *PostgresSuite) seedTenant() domain.TenantID {
	id := domain.TenantID(uuid.New())
	tenant, err := tenantmodels.NewTenant(id, "Acme Clinic", "DE", domain.RegionEU, time.Now().UTC())
	s.Require().NoError(err)
	s.Require().NoError(s.tenants.Create(s.ctx, tenant))
	return id
}

func (s *PostgresSuite) TestUpsertReplacesExisting() {
	tenantID := s.seedTenant()
	now := time.Now().UTC().Truncate(time.Millisecond)

	first, err := NewPolicy(tenantID, domain.DataTypeMessages, 30, true, now)
	s.Require().NoError(err)
	s.Require().NoError(s.store.Upsert(s.ctx, first))

	second, err := NewPolicy(tenantID, domain.DataTypeMessages, 90, false, now.Add(time.Hour))
	s.Require().NoError(err)
	s.Require().NoError(s.store.Upsert(s.ctx, second))

	s.Run("one row per tenant and data type", func() {
		policies, err := s.store.List(s.ctx, tenantID)
		s.Require().NoError(err)
		s.Require().Len(policies, 1)
		s.Equal(90, policies[0].RetentionDays)
		s.False(policies[0].AutoDelete)
	})

	s.Run("original id survives the update", func() {
		stored, err := s.store.FindByID(s.ctx, first.ID)
		s.Require().NoError(err)
		s.Equal(90, stored.RetentionDays)
	})
}

func (s *PostgresSuite) TestListScoping() {
	tenantA := s.seedTenant()
	tenantB := s.seedTenant()
	now := time.Now().UTC()

	for _, tc := range []struct {
		tenant domain.TenantID
		dt     domain.DataType
	}{
		{tenantA, domain.DataTypeMessages},
		{tenantA, domain.DataTypeLeads},
		{tenantB, domain.DataTypeConversations},
	} {
		policy, err := NewPolicy(tc.tenant, tc.dt, 30, true, now)
		s.Require().NoError(err)
		s.Require().NoError(s.store.Upsert(s.ctx, policy))
	}

	s.Run("tenant filter", func() {
		policies, err := s.store.List(s.ctx, tenantA)
		s.Require().NoError(err)
		s.Len(policies, 2)
	})

	s.Run("nil tenant lists all", func() {
		policies, err := s.store.List(s.ctx, domain.TenantID{})
		s.Require().NoError(err)
		s.Len(policies, 3)
	})
}

func (s *PostgresSuite) TestDelete() {
	tenantID := s.seedTenant()
	policy, err := NewPolicy(tenantID, domain.DataTypeAppointments, 365, true, time.Now().UTC())
	s.Require().NoError(err)
	s.Require().NoError(s.store.Upsert(s.ctx, policy))

	s.Require().NoError(s.store.Delete(s.ctx, policy.ID))

	_, err = s.store.FindByID(s.ctx, policy.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)

	s.ErrorIs(s.store.Delete(s.ctx, policy.ID), sentinel.ErrNotFound)
}
