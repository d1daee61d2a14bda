// Package config reads process configuration from the environment once at
// startup. The result is treated as immutable for the process lifetime;
// nothing in the engine re-reads the environment after FromEnv returns.
package config

import (
	"os"
	"strings"

	"datagov/pkg/domain"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr         string
	AdminJWTKey  string
	DatabaseURL  string
	KafkaBrokers []string
	AuditTopic   string
	Storage      Storage
	Residency    Residency
}

// Storage configures the storage router and its backends.
type Storage struct {
	// Provider selects the backend wired at startup: "local", "s3" or "cdn".
	Provider string
	// StrictResidency makes uploads hard-fail when region resolution fell
	// back to the default instead of the tenant's configured region.
	StrictResidency bool

	LocalRoot    string
	LocalBaseURL string

	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3UseSSL    bool

	CDNBaseURL string
}

// Residency maps legal data regions onto physical cloud regions and buckets.
// Both regions may legitimately share a physical region (e.g. CH served from
// an EU site when no Swiss region is provisioned); the compliance check
// reports that as an accepted mapping rather than hiding it.
type Residency struct {
	PhysicalRegions map[domain.DataRegion]string
	Buckets         map[domain.DataRegion]string
	DefaultRegion   domain.DataRegion
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	return Server{
		Addr:         envOr("DATAGOV_ADDR", ":8080"),
		AdminJWTKey:  envOr("ADMIN_JWT_KEY", "dev-secret-key-change-in-production"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		KafkaBrokers: splitList(os.Getenv("KAFKA_BROKERS")),
		AuditTopic:   envOr("AUDIT_TOPIC", "compliance.audit"),
		Storage: Storage{
			Provider:        envOr("STORAGE_PROVIDER", "local"),
			StrictResidency: os.Getenv("STRICT_RESIDENCY") == "true",
			LocalRoot:       envOr("STORAGE_LOCAL_ROOT", "./data/files"),
			LocalBaseURL:    envOr("STORAGE_LOCAL_BASE_URL", "http://localhost:8080/files"),
			S3Endpoint:      os.Getenv("S3_ENDPOINT"),
			S3AccessKey:     os.Getenv("S3_ACCESS_KEY"),
			S3SecretKey:     os.Getenv("S3_SECRET_KEY"),
			S3UseSSL:        os.Getenv("S3_USE_SSL") != "false",
			CDNBaseURL:      os.Getenv("CDN_BASE_URL"),
		},
		Residency: ResidencyFromEnv(),
	}
}

// ResidencyFromEnv builds the region mapping tables with environment-driven
// overrides over the shipped defaults.
func ResidencyFromEnv() Residency {
	return Residency{
		PhysicalRegions: map[domain.DataRegion]string{
			domain.RegionEU: envOr("PHYSICAL_REGION_EU", "eu-central-1"),
			domain.RegionCH: envOr("PHYSICAL_REGION_CH", "eu-central-2"),
		},
		Buckets: map[domain.DataRegion]string{
			domain.RegionEU: envOr("BUCKET_EU", "tenant-files-eu"),
			domain.RegionCH: envOr("BUCKET_CH", "tenant-files-ch"),
		},
		DefaultRegion: domain.FallbackRegion,
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
