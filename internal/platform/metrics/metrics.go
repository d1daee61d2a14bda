package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the governance engine.
type Metrics struct {
	Uploads             *prometheus.CounterVec
	ResidencyViolations prometheus.Counter
	ResidencyFallbacks  prometheus.Counter
	RetentionDeleted    *prometheus.CounterVec
	RetentionErrors     *prometheus.CounterVec
	Erasures            *prometheus.CounterVec
	ConsentEntries      prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		Uploads: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "datagov_storage_uploads_total",
			Help: "Uploads routed through the storage router, by backend and physical region",
		}, []string{"backend", "region"}),
		ResidencyViolations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "datagov_residency_violations_total",
			Help: "Detected mismatches between expected and actual physical storage region",
		}),
		ResidencyFallbacks: promauto.NewCounter(prometheus.CounterOpts{
			Name: "datagov_residency_fallbacks_total",
			Help: "Region resolutions that fell back to the process default region",
		}),
		RetentionDeleted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "datagov_retention_deleted_rows_total",
			Help: "Rows purged by the retention engine, by data type",
		}, []string{"data_type"}),
		RetentionErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "datagov_retention_policy_errors_total",
			Help: "Retention policies whose processing failed, by data type",
		}, []string{"data_type"}),
		Erasures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "datagov_erasures_total",
			Help: "Completed erasure operations, by mode (anonymize or delete)",
		}, []string{"mode"}),
		ConsentEntries: promauto.NewCounter(prometheus.CounterOpts{
			Name: "datagov_consent_entries_total",
			Help: "Consent ledger entries appended",
		}),
	}
}
