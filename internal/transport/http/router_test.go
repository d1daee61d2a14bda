package http

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"datagov/internal/consentlog"
	"datagov/internal/directory"
	"datagov/internal/erasure"
	"datagov/internal/platform/config"
	"datagov/internal/platform/middleware"
	"datagov/internal/records"
	"datagov/internal/residency"
	"datagov/internal/retention"
	"datagov/internal/storage"
	tenantmodels "datagov/internal/tenant/models"
	tenantservice "datagov/internal/tenant/service"
	tenantstore "datagov/internal/tenant/store"
	"datagov/pkg/domain"
	"datagov/pkg/platform/audit"
)

const signingKey = "test-signing-key"

type RouterSuite struct {
	suite.Suite
	ctx     context.Context
	router  http.Handler
	tenants *tenantstore.InMemoryTenants
	users   *directory.InMemoryAccounts
	members *directory.InMemoryMemberships
	token   string
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	s.ctx = context.Background()
	logger := slog.Default()

	s.tenants = tenantstore.NewInMemoryTenants()
	settings := tenantstore.NewInMemorySettings()
	tenantSvc := tenantservice.New(s.tenants, settings, logger)

	resCfg := config.Residency{
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
	resolver := residency.NewResolver(tenantSvc, resCfg, logger)
	checker := residency.NewChecker(tenantSvc, resolver, config.Storage{Provider: "local"}, logger)

	events := audit.NewInMemory()
	auditor := audit.NewPublisher(events)

	consents := consentlog.NewInMemory()
	consentSvc := consentlog.NewService(consents, auditor, logger, nil)

	policies := retention.NewInMemory()
	recs := records.NewInMemory()
	policySvc := retention.NewService(policies, logger)
	engine := retention.NewEngine(policies, recs, logger, nil)

	s.users = directory.NewInMemoryAccounts()
	s.members = directory.NewInMemoryMemberships()
	identities := directory.NewInMemoryIdentities()
	erasureSvc := erasure.NewService(
		s.users, s.members, identities,
		recs, consents, erasure.NewInMemoryReceipts(),
		auditor, logger, nil,
	)

	backend := storage.NewLocalBackend(memfs.New(), "http://files.local")
	storageRouter := storage.NewRouter(backend, resolver, false, logger, nil)

	s.router = NewRouter(Deps{
		Residency: checker,
		Retention: policySvc,
		Engine:    engine,
		Erasure:   erasureSvc,
		Consents:  consentSvc,
		Storage:   storageRouter,
		Admin:     middleware.NewAdminValidator(signingKey),
		Logger:    logger,
	})

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"role": "admin",
		"exp":  time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(signingKey))
	s.Require().NoError(err)
	s.token = token
}

func (s *RouterSuite) seedTenant(region domain.DataRegion) domain.TenantID {
	t, err := tenantmodels.NewTenant(domain.TenantID(uuid.New()), "Acme", "CH", region, time.Now())
	s.Require().NoError(err)
	s.Require().NoError(s.tenants.Create(s.ctx, t))
	return t.ID
}

func (s *RouterSuite) do(method, path string, body any, admin bool) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if admin {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *RouterSuite) TestResidencyEndpoints() {
	tenant := s.seedTenant(domain.RegionCH)

	rec := s.do(http.MethodGet, "/v1/tenants/"+tenant.String()+"/residency", nil, false)
	s.Require().Equal(http.StatusOK, rec.Code)

	var info residency.Info
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&info))
	s.Equal(domain.RegionCH, info.DataRegion)
	s.Equal("eu-central-2", info.PhysicalRegion)

	rec = s.do(http.MethodGet, "/v1/tenants/"+uuid.NewString()+"/residency/compliance", nil, false)
	s.Equal(http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodGet, "/v1/tenants/not-a-uuid/residency", nil, false)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *RouterSuite) TestConsentEndpoints() {
	tenant := s.seedTenant(domain.RegionEU)
	user := uuid.NewString()

	rec := s.do(http.MethodPost, "/v1/tenants/"+tenant.String()+"/consents", map[string]any{
		"userId":      user,
		"consentType": "marketing",
		"granted":     true,
	}, false)
	s.Require().Equal(http.StatusCreated, rec.Code)

	rec = s.do(http.MethodPost, "/v1/tenants/"+tenant.String()+"/consents", map[string]any{
		"consentType": "telepathy",
		"granted":     true,
	}, false)
	s.Equal(http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodGet, "/v1/tenants/"+tenant.String()+"/consents?user_id="+user, nil, false)
	s.Require().Equal(http.StatusOK, rec.Code)
	var entries []consentlog.Entry
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&entries))
	s.Len(entries, 1)
}

func (s *RouterSuite) TestRetentionEndpoints() {
	tenant := s.seedTenant(domain.RegionEU)
	payload := map[string]any{
		"tenantId":      tenant.String(),
		"dataType":      "messages",
		"retentionDays": 30,
		"autoDelete":    true,
	}

	s.Run("rejected without admin token", func() {
		rec := s.do(http.MethodPost, "/v1/retention/policies", payload, false)
		s.Equal(http.StatusUnauthorized, rec.Code)
	})

	s.Run("create, list, apply, delete", func() {
		rec := s.do(http.MethodPost, "/v1/retention/policies", payload, true)
		s.Require().Equal(http.StatusCreated, rec.Code)
		var policy retention.Policy
		s.Require().NoError(json.NewDecoder(rec.Body).Decode(&policy))

		rec = s.do(http.MethodGet, "/v1/retention/policies?tenant_id="+tenant.String(), nil, true)
		s.Require().Equal(http.StatusOK, rec.Code)

		rec = s.do(http.MethodPost, "/v1/retention/apply?tenant_id="+tenant.String(), nil, true)
		s.Require().Equal(http.StatusOK, rec.Code)
		var report retention.Report
		s.Require().NoError(json.NewDecoder(rec.Body).Decode(&report))

		rec = s.do(http.MethodDelete, "/v1/retention/policies/"+policy.ID.String(), nil, true)
		s.Equal(http.StatusNoContent, rec.Code)

		rec = s.do(http.MethodDelete, "/v1/retention/policies/"+policy.ID.String(), nil, true)
		s.Equal(http.StatusNotFound, rec.Code)
	})
}

func (s *RouterSuite) TestErasureEndpoints() {
	tenant := s.seedTenant(domain.RegionEU)
	user := domain.UserID(uuid.New())
	s.Require().NoError(s.users.Save(s.ctx, &directory.Account{
		ID: user, Name: "Dana", Email: "dana@example.com",
	}))
	s.Require().NoError(s.members.Save(s.ctx, &directory.Membership{
		TenantID: tenant, UserID: user, Role: "member",
	}))

	base := "/v1/tenants/" + tenant.String() + "/users/" + user.String()

	rec := s.do(http.MethodPost, base+"/anonymize", map[string]string{"reason": "DSAR-7"}, true)
	s.Require().Equal(http.StatusOK, rec.Code)
	var receipt erasure.Receipt
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&receipt))
	s.Equal("DSAR-7", receipt.Reason)

	rec = s.do(http.MethodGet, base+"/export", nil, true)
	s.Require().Equal(http.StatusOK, rec.Code)

	rec = s.do(http.MethodDelete, base+"/data", nil, true)
	s.Require().Equal(http.StatusOK, rec.Code)

	// User and membership are gone now.
	rec = s.do(http.MethodPost, base+"/anonymize", nil, true)
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *RouterSuite) TestStorageURLEndpoint() {
	tenant := s.seedTenant(domain.RegionEU)

	rec := s.do(http.MethodGet, "/v1/tenants/"+tenant.String()+"/files/url?path=docs/a.pdf", nil, true)
	s.Require().Equal(http.StatusOK, rec.Code)
	var resp map[string]string
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&resp))
	s.Equal("http://files.local/docs/a.pdf", resp["url"])
}
