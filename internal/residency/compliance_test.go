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
	dErrors "datagov/pkg/domain-errors"
)

type CheckerSuite struct {
	suite.Suite
	ctx     context.Context
	tenants *tenantstore.InMemoryTenants
	svc     *tenantservice.Service
}

func TestCheckerSuite(t *testing.T) {
	suite.Run(t, new(CheckerSuite))
}

func (s *CheckerSuite) SetupTest() {
	s.ctx = context.Background()
	s.tenants = tenantstore.NewInMemoryTenants()
	s.svc = tenantservice.New(s.tenants, tenantstore.NewInMemorySettings(), slog.Default())
}

func (s *CheckerSuite) newChecker(res config.Residency, storage config.Storage) *Checker {
	resolver := NewResolver(s.svc, res, slog.Default())
	return NewChecker(s.svc, resolver, storage, slog.Default())
}

func (s *CheckerSuite) seedTenant(region domain.DataRegion) *tenantmodels.Tenant {
	t, err := tenantmodels.NewTenant(domain.TenantID(uuid.New()), "Acme", "CH", region, time.Now())
	s.Require().NoError(err)
	s.Require().NoError(s.tenants.Create(s.ctx, t))
	return t
}

func objectStorageConfig() config.Storage {
	return config.Storage{
		Provider:    "s3",
		S3Endpoint:  "s3.example.net",
		S3AccessKey: "key",
		S3SecretKey: "secret",
	}
}

func (s *CheckerSuite) TestVerifyCompliance() {
	s.Run("fully configured tenant is compliant", func() {
		t := s.seedTenant(domain.RegionEU)
		checker := s.newChecker(testResidencyConfig(), objectStorageConfig())

		report, err := checker.VerifyCompliance(s.ctx, t.ID)
		s.Require().NoError(err)
		s.True(report.Compliant)
		s.Empty(report.Issues)
		s.Equal("eu-central-1", report.PhysicalRegion)
		s.Equal("tenant-files-eu", report.Bucket)
	})

	s.Run("missing bucket is an issue", func() {
		t := s.seedTenant(domain.RegionCH)
		cfg := testResidencyConfig()
		delete(cfg.Buckets, domain.RegionCH)
		checker := s.newChecker(cfg, objectStorageConfig())

		report, err := checker.VerifyCompliance(s.ctx, t.ID)
		s.Require().NoError(err)
		s.False(report.Compliant)
		s.Len(report.Issues, 1)
		s.Contains(report.Issues[0], "bucket")
	})

	s.Run("missing credentials is an issue", func() {
		t := s.seedTenant(domain.RegionEU)
		storage := objectStorageConfig()
		storage.S3SecretKey = ""
		checker := s.newChecker(testResidencyConfig(), storage)

		report, err := checker.VerifyCompliance(s.ctx, t.ID)
		s.Require().NoError(err)
		s.False(report.Compliant)
		s.Contains(report.Issues[0], "credentials")
	})

	s.Run("local provider needs no credentials", func() {
		t := s.seedTenant(domain.RegionEU)
		checker := s.newChecker(testResidencyConfig(), config.Storage{Provider: "local"})

		report, err := checker.VerifyCompliance(s.ctx, t.ID)
		s.Require().NoError(err)
		s.True(report.Compliant)
	})

	s.Run("shared physical region is a note, not an issue", func() {
		t := s.seedTenant(domain.RegionCH)
		cfg := testResidencyConfig()
		cfg.PhysicalRegions[domain.RegionCH] = "eu-central-1" // no Swiss site provisioned
		checker := s.newChecker(cfg, objectStorageConfig())

		report, err := checker.VerifyCompliance(s.ctx, t.ID)
		s.Require().NoError(err)
		s.True(report.Compliant)
		s.Empty(report.Issues)
		s.Require().Len(report.Notes, 1)
		s.Contains(report.Notes[0], "accepted mapping")
	})

	s.Run("unknown tenant is NotFound", func() {
		checker := s.newChecker(testResidencyConfig(), objectStorageConfig())

		_, err := checker.VerifyCompliance(s.ctx, domain.TenantID(uuid.New()))
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *CheckerSuite) TestResidencyInfo() {
	t := s.seedTenant(domain.RegionCH)
	checker := s.newChecker(testResidencyConfig(), objectStorageConfig())

	info, err := checker.ResidencyInfo(s.ctx, t.ID)
	s.Require().NoError(err)
	s.Equal(t.ID, info.TenantID)
	s.Equal(domain.RegionCH, info.DataRegion)
	s.True(info.Compliant)
}
