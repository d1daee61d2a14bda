package residency

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"datagov/internal/platform/config"
	tenantmodels "datagov/internal/tenant/models"
	tenantservice "datagov/internal/tenant/service"
	tenantstore "datagov/internal/tenant/store"
	"datagov/pkg/domain"
)

func testResidencyConfig() config.Residency {
	return config.Residency{
		PhysicalRegions: map[domain.DataRegion]string{
			domain.RegionEU: "eu-central-1",
			domain.RegionCH: "eu-central-2",
		},
		Buckets: map[domain.DataRegion]string{
			domain.RegionEU: "tenant-files-eu",
			domain.RegionCH: "tenant-files-ch",
		},
		DefaultRegion: domain.RegionEU,
	}
}

type ResolverSuite struct {
	suite.Suite
	ctx      context.Context
	tenants  *tenantstore.InMemoryTenants
	settings *tenantstore.InMemorySettings
	resolver *Resolver
}

func TestResolverSuite(t *testing.T) {
	suite.Run(t, new(ResolverSuite))
}

func (s *ResolverSuite) SetupTest() {
	s.ctx = context.Background()
	s.tenants = tenantstore.NewInMemoryTenants()
	s.settings = tenantstore.NewInMemorySettings()
	svc := tenantservice.New(s.tenants, s.settings, slog.Default())
	s.resolver = NewResolver(svc, testResidencyConfig(), slog.Default())
}

func (s *ResolverSuite) newTenant(region domain.DataRegion) *tenantmodels.Tenant {
	t, err := tenantmodels.NewTenant(domain.TenantID(uuid.New()), "Acme", "DE", region, time.Now())
	s.Require().NoError(err)
	s.Require().NoError(s.tenants.Create(s.ctx, t))
	return t
}

func (s *ResolverSuite) TestResolveRegion() {
	s.Run("uses tenant default region", func() {
		t := s.newTenant(domain.RegionCH)

		res := s.resolver.ResolveRegion(s.ctx, t.ID)
		s.Equal(domain.RegionCH, res.DataRegion)
		s.Equal("eu-central-2", res.PhysicalRegion)
		s.Equal("tenant-files-ch", res.Bucket)
		s.Equal(SourceTenant, res.Source)
	})

	s.Run("settings override beats tenant default", func() {
		t := s.newTenant(domain.RegionEU)
		s.Require().NoError(s.settings.Save(s.ctx, &tenantmodels.Settings{
			TenantID:   t.ID,
			DataRegion: domain.RegionCH,
		}))

		res := s.resolver.ResolveRegion(s.ctx, t.ID)
		s.Equal(domain.RegionCH, res.DataRegion)
		s.Equal(SourceTenant, res.Source)
	})

	s.Run("unknown tenant falls back to EU without error", func() {
		res := s.resolver.ResolveRegion(s.ctx, domain.TenantID(uuid.New()))
		s.Equal(domain.RegionEU, res.DataRegion)
		s.Equal(SourceFallback, res.Source)
		s.Equal("eu-central-1", res.PhysicalRegion)
	})

	s.Run("nil tenant id falls back", func() {
		res := s.resolver.ResolveRegion(s.ctx, domain.TenantID{})
		s.Equal(domain.RegionEU, res.DataRegion)
		s.Equal(SourceFallback, res.Source)
	})

	s.Run("always yields a supported region", func() {
		for range 3 {
			res := s.resolver.ResolveRegion(s.ctx, domain.TenantID(uuid.New()))
			s.True(res.DataRegion.IsValid())
		}
	})
}

func (s *ResolverSuite) TestValidateStorageRegion() {
	t := s.newTenant(domain.RegionCH)

	s.Run("matching region passes", func() {
		s.NoError(s.resolver.ValidateStorageRegion(s.ctx, t.ID, "eu-central-2"))
	})

	s.Run("mismatch is a violation carrying both regions", func() {
		err := s.resolver.ValidateStorageRegion(s.ctx, t.ID, "us-east-1")
		s.Require().Error(err)

		var violation *ViolationError
		s.Require().ErrorAs(err, &violation)
		s.Equal("eu-central-2", violation.ExpectedRegion)
		s.Equal("us-east-1", violation.ActualRegion)
		s.Equal(domain.RegionCH, violation.DataRegion)
	})
}

func (s *ResolverSuite) TestTableLookups() {
	s.Run("physical region per data region", func() {
		p, ok := s.resolver.PhysicalRegionFor(domain.RegionEU)
		s.True(ok)
		s.Equal("eu-central-1", p)
	})

	s.Run("missing mapping reported", func() {
		cfg := testResidencyConfig()
		delete(cfg.PhysicalRegions, domain.RegionCH)
		r := NewResolver(tenantservice.New(s.tenants, s.settings, slog.Default()), cfg, slog.Default())

		_, ok := r.PhysicalRegionFor(domain.RegionCH)
		s.False(ok)
	})
}
