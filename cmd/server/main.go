package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"datagov/internal/consentlog"
	"datagov/internal/directory"
	"datagov/internal/erasure"
	"datagov/internal/platform/config"
	"datagov/internal/platform/httpserver"
	"datagov/internal/platform/logger"
	"datagov/internal/platform/metrics"
	"datagov/internal/platform/middleware"
	"datagov/internal/records"
	"datagov/internal/residency"
	"datagov/internal/retention"
	"datagov/internal/storage"
	tenantservice "datagov/internal/tenant/service"
	tenantstore "datagov/internal/tenant/store"
	httptransport "datagov/internal/transport/http"
	"datagov/pkg/platform/audit"
)

// main wires every collaborator explicitly and keeps the server lifecycle
// small. Business logic lives in the internal service packages; nothing below
// reaches for globals.
func main() {
	_ = godotenv.Load()

	cfg := config.FromEnv()
	log := logger.New()
	m := metrics.New()

	if err := run(cfg, log, m); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Server, log *slog.Logger, m *metrics.Metrics) error {
	var db *sql.DB
	if cfg.DatabaseURL != "" {
		var err error
		db, err = sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer db.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.PingContext(pingCtx); err != nil {
			return fmt.Errorf("ping database: %w", err)
		}
		log.Info("connected to postgres")
	} else {
		log.Warn("DATABASE_URL not set, using in-memory stores")
	}

	st := buildStores(db)

	tenants := tenantservice.New(st.tenants, st.settings, log)
	resolver := residency.NewResolver(tenants, cfg.Residency, log)
	checker := residency.NewChecker(tenants, resolver, cfg.Storage, log)

	backend, err := buildBackend(cfg)
	if err != nil {
		return err
	}
	router := storage.NewRouter(backend, resolver, cfg.Storage.StrictResidency, log, m)

	auditor := audit.NewPublisher(st.audit)

	consents := consentlog.NewService(st.consents, auditor, log, m)
	policies := retention.NewService(st.policies, log)
	engine := retention.NewEngine(st.policies, st.records, log, m)
	eraser := erasure.NewService(
		st.accounts, st.memberships, st.identities,
		st.records, st.consents, st.receipts,
		auditor, log, m,
	)

	handler := httptransport.NewRouter(httptransport.Deps{
		Residency: checker,
		Retention: policies,
		Engine:    engine,
		Erasure:   eraser,
		Consents:  consents,
		Storage:   router,
		Admin:     middleware.NewAdminValidator(cfg.AdminJWTKey),
		Logger:    log,
	})
	srv := httpserver.New(cfg.Addr, handler)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The outbox worker only makes sense with a durable outbox behind it.
	if db != nil && len(cfg.KafkaBrokers) > 0 {
		sink, err := audit.NewKafkaPublisher(cfg.KafkaBrokers, cfg.AuditTopic)
		if err != nil {
			return fmt.Errorf("kafka publisher: %w", err)
		}
		defer sink.Close()

		worker := audit.NewOutboxWorker(db, sink, log)
		go func() {
			if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("outbox worker stopped", "error", err)
			}
		}()
		log.Info("audit outbox worker started", "topic", cfg.AuditTopic)
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting datagov server", "addr", cfg.Addr, "storage_provider", cfg.Storage.Provider)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	log.Info("server stopped")
	return nil
}

// stores groups every persistence collaborator so the postgres/in-memory
// switch happens in exactly one place.
type stores struct {
	tenants     tenantstore.TenantStore
	settings    tenantstore.SettingsStore
	accounts    directory.AccountStore
	memberships directory.MembershipStore
	identities  directory.IdentityStore
	records     records.Store
	policies    retention.Store
	consents    consentlog.Store
	receipts    erasure.ReceiptStore
	audit       audit.Store
}

func buildStores(db *sql.DB) stores {
	if db == nil {
		return stores{
			tenants:     tenantstore.NewInMemoryTenants(),
			settings:    tenantstore.NewInMemorySettings(),
			accounts:    directory.NewInMemoryAccounts(),
			memberships: directory.NewInMemoryMemberships(),
			identities:  directory.NewInMemoryIdentities(),
			records:     records.NewInMemory(),
			policies:    retention.NewInMemory(),
			consents:    consentlog.NewInMemory(),
			receipts:    erasure.NewInMemoryReceipts(),
			audit:       audit.NewInMemory(),
		}
	}
	return stores{
		tenants:     tenantstore.NewPostgresTenants(db),
		settings:    tenantstore.NewPostgresSettings(db),
		accounts:    directory.NewPostgresAccounts(db),
		memberships: directory.NewPostgresMemberships(db),
		identities:  directory.NewPostgresIdentities(db),
		records:     records.NewPostgres(db),
		policies:    retention.NewPostgres(db),
		consents:    consentlog.NewPostgres(db),
		receipts:    erasure.NewPostgresReceipts(db),
		audit:       audit.NewPostgres(db),
	}
}

func buildBackend(cfg config.Server) (storage.Backend, error) {
	region := cfg.Residency.PhysicalRegions[cfg.Residency.DefaultRegion]
	bucket := cfg.Residency.Buckets[cfg.Residency.DefaultRegion]

	switch cfg.Storage.Provider {
	case "local":
		if err := os.MkdirAll(cfg.Storage.LocalRoot, 0o755); err != nil {
			return nil, fmt.Errorf("create storage root: %w", err)
		}
		return storage.NewLocalBackend(osfs.New(cfg.Storage.LocalRoot), cfg.Storage.LocalBaseURL), nil
	case "s3":
		return storage.NewObjectBackend(cfg.Storage, region, bucket), nil
	case "cdn":
		origin := storage.NewObjectBackend(cfg.Storage, region, bucket)
		return storage.NewCDNBackend(origin, cfg.Storage.CDNBaseURL), nil
	default:
		return nil, fmt.Errorf("unknown storage provider %q", cfg.Storage.Provider)
	}
}
