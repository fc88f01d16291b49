package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// GateMetrics holds all Prometheus metrics for tenant resolution and route
// admission. Zero tenants and membership-check failures share one remediation
// path but must stay distinguishable here.
type GateMetrics struct {
	AdmissionDecisions   *prometheus.CounterVec
	DirectoryFetches     *prometheus.CounterVec
	DirectoryCacheHits   prometheus.Counter
	DirectoryCacheMisses prometheus.Counter
	StoreFailures        *prometheus.CounterVec
}

// NewGateMetrics initializes and registers the Prometheus metrics on reg.
// Pass prometheus.DefaultRegisterer in production; tests use a fresh registry.
func NewGateMetrics(reg prometheus.Registerer) *GateMetrics {
	factory := promauto.With(reg)
	return &GateMetrics{
		AdmissionDecisions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dashboard",
			Subsystem: "gate",
			Name:      "admission_decisions_total",
			Help:      "Total admission gate decisions by outcome.",
		}, []string{"outcome"}), // outcome: admitted, auth_failed, tenant_missing, check_failed, redirect_reraised
		DirectoryFetches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dashboard",
			Subsystem: "tenancy",
			Name:      "directory_fetches_total",
			Help:      "Total upstream tenant directory fetches by result.",
		}, []string{"result"}), // result: ok, empty, error
		DirectoryCacheHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "dashboard",
			Subsystem: "tenancy",
			Name:      "directory_cache_hits_total",
			Help:      "Total tenant directory cache hits.",
		}),
		DirectoryCacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "dashboard",
			Subsystem: "tenancy",
			Name:      "directory_cache_misses_total",
			Help:      "Total tenant directory cache misses.",
		}),
		StoreFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dashboard",
			Subsystem: "store",
			Name:      "failures_total",
			Help:      "Total swallowed tenant-scoped store failures by operation.",
		}, []string{"op"}), // op: set, get, remove, clear
	}
}
