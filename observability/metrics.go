package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	// Enhancement pipeline metrics
	EnhanceRequestsTotal *prometheus.CounterVec
	EnhanceDuration      *prometheus.HistogramVec
	QualityScores        prometheus.Histogram

	// Claim metrics
	ClaimsExtractedTotal *prometheus.CounterVec
	VerificationsTotal   *prometheus.CounterVec
	VerificationDuration *prometheus.HistogramVec
	DiscrepancyPct       *prometheus.HistogramVec

	// Compliance metrics
	ComplianceFlagsTotal *prometheus.CounterVec

	// Provider metrics
	ProviderInvokesTotal  *prometheus.CounterVec
	ProviderErrorsTotal   *prometheus.CounterVec
	ProviderFallbackTotal *prometheus.CounterVec

	// External API metrics
	ExternalAPIRequestsTotal *prometheus.CounterVec
	ExternalAPIErrorsTotal   *prometheus.CounterVec
	ExternalAPIDuration      *prometheus.HistogramVec

	// Cache metrics
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Circuit breaker metrics
	CircuitBreakerState *prometheus.GaugeVec
	CircuitBreakerTrips *prometheus.CounterVec
}

// defaultBuckets are the default histogram buckets for duration metrics (in seconds)
var defaultBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30}

// ratioBuckets are histogram buckets for 0-1 scores and discrepancies
var ratioBuckets = []float64{0, 0.05, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1}

// globalMetrics is the global metrics instance
var globalMetrics *Metrics

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	factory := promauto.With(reg)

	m := &Metrics{
		EnhanceRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "claimcheck",
				Subsystem: "enhance",
				Name:      "requests_total",
				Help:      "Total number of enhancement requests",
			},
			[]string{"provider"},
		),
		EnhanceDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "claimcheck",
				Subsystem: "enhance",
				Name:      "duration_seconds",
				Help:      "Duration of enhancement requests in seconds",
				Buckets:   defaultBuckets,
			},
			[]string{"status"},
		),
		QualityScores: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "claimcheck",
				Subsystem: "enhance",
				Name:      "quality_score",
				Help:      "Distribution of report quality scores",
				Buckets:   ratioBuckets,
			},
		),
		ClaimsExtractedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "claimcheck",
				Subsystem: "extraction",
				Name:      "claims_total",
				Help:      "Total number of claims extracted",
			},
			[]string{"claim_type", "strategy"},
		),
		VerificationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "claimcheck",
				Subsystem: "verification",
				Name:      "results_total",
				Help:      "Total number of claim verifications by outcome",
			},
			[]string{"claim_type", "status"},
		),
		VerificationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "claimcheck",
				Subsystem: "verification",
				Name:      "duration_seconds",
				Help:      "Duration of claim verification in seconds",
				Buckets:   defaultBuckets,
			},
			[]string{"claim_type"},
		),
		DiscrepancyPct: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "claimcheck",
				Subsystem: "verification",
				Name:      "discrepancy_pct",
				Help:      "Distribution of relative discrepancies for checked claims",
				Buckets:   ratioBuckets,
			},
			[]string{"claim_type"},
		),
		ComplianceFlagsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "claimcheck",
				Subsystem: "compliance",
				Name:      "flags_total",
				Help:      "Total number of compliance flags raised",
			},
			[]string{"category", "severity"},
		),
		ProviderInvokesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "claimcheck",
				Subsystem: "provider",
				Name:      "invokes_total",
				Help:      "Total number of LLM provider invocations",
			},
			[]string{"provider"},
		),
		ProviderErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "claimcheck",
				Subsystem: "provider",
				Name:      "errors_total",
				Help:      "Total number of LLM provider errors",
			},
			[]string{"provider", "error_type"},
		),
		ProviderFallbackTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "claimcheck",
				Subsystem: "provider",
				Name:      "fallbacks_total",
				Help:      "Total number of fallbacks to the pattern strategy",
			},
			[]string{"reason"},
		),
		ExternalAPIRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "claimcheck",
				Subsystem: "external_api",
				Name:      "requests_total",
				Help:      "Total number of external API requests",
			},
			[]string{"service", "operation"},
		),
		ExternalAPIErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "claimcheck",
				Subsystem: "external_api",
				Name:      "errors_total",
				Help:      "Total number of external API errors",
			},
			[]string{"service", "operation", "error_type"},
		),
		ExternalAPIDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "claimcheck",
				Subsystem: "external_api",
				Name:      "duration_seconds",
				Help:      "Duration of external API calls in seconds",
				Buckets:   defaultBuckets,
			},
			[]string{"service", "operation"},
		),
		CacheHitsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "claimcheck",
				Subsystem: "cache",
				Name:      "hits_total",
				Help:      "Total number of cache hits",
			},
			[]string{"operation"},
		),
		CacheMissesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "claimcheck",
				Subsystem: "cache",
				Name:      "misses_total",
				Help:      "Total number of cache misses",
			},
			[]string{"operation"},
		),
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "claimcheck",
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "claimcheck",
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   defaultBuckets,
			},
			[]string{"method", "path"},
		),
		CircuitBreakerState: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "claimcheck",
				Subsystem: "circuit_breaker",
				Name:      "state",
				Help:      "Current state of circuit breakers (0=closed, 1=half-open, 2=open)",
			},
			[]string{"service"},
		),
		CircuitBreakerTrips: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "claimcheck",
				Subsystem: "circuit_breaker",
				Name:      "trips_total",
				Help:      "Total number of circuit breaker trips",
			},
			[]string{"service"},
		),
	}

	return m
}

// InitMetrics initializes the global metrics instance
func InitMetrics() *Metrics {
	globalMetrics = NewMetrics(nil)
	return globalMetrics
}

// GetMetrics returns the global metrics instance
func GetMetrics() *Metrics {
	if globalMetrics == nil {
		return InitMetrics()
	}
	return globalMetrics
}

// SetMetrics overrides the global metrics instance (useful for testing)
func SetMetrics(m *Metrics) {
	globalMetrics = m
}

// RecordEnhanceRequest records an enhancement request
func (m *Metrics) RecordEnhanceRequest(provider string) {
	m.EnhanceRequestsTotal.WithLabelValues(provider).Inc()
}

// RecordQualityScore records a report quality score
func (m *Metrics) RecordQualityScore(score float64) {
	m.QualityScores.Observe(score)
}

// RecordClaimExtracted records an extracted claim
func (m *Metrics) RecordClaimExtracted(claimType, strategy string) {
	m.ClaimsExtractedTotal.WithLabelValues(claimType, strategy).Inc()
}

// RecordVerification records a verification outcome
func (m *Metrics) RecordVerification(claimType, status string) {
	m.VerificationsTotal.WithLabelValues(claimType, status).Inc()
}

// RecordDiscrepancy records the relative discrepancy of a checked claim
func (m *Metrics) RecordDiscrepancy(claimType string, pct float64) {
	m.DiscrepancyPct.WithLabelValues(claimType).Observe(pct)
}

// RecordComplianceFlag records a raised compliance flag
func (m *Metrics) RecordComplianceFlag(category, severity string) {
	m.ComplianceFlagsTotal.WithLabelValues(category, severity).Inc()
}

// RecordProviderInvoke records an LLM provider invocation
func (m *Metrics) RecordProviderInvoke(provider string) {
	m.ProviderInvokesTotal.WithLabelValues(provider).Inc()
}

// RecordProviderError records an LLM provider error
func (m *Metrics) RecordProviderError(provider, errorType string) {
	m.ProviderErrorsTotal.WithLabelValues(provider, errorType).Inc()
}

// RecordProviderFallback records a fallback to the pattern strategy
func (m *Metrics) RecordProviderFallback(reason string) {
	m.ProviderFallbackTotal.WithLabelValues(reason).Inc()
}

// RecordExternalAPIRequest records an external API request
func (m *Metrics) RecordExternalAPIRequest(service, operation string) {
	m.ExternalAPIRequestsTotal.WithLabelValues(service, operation).Inc()
}

// RecordExternalAPIError records an external API error
func (m *Metrics) RecordExternalAPIError(service, operation, errorType string) {
	m.ExternalAPIErrorsTotal.WithLabelValues(service, operation, errorType).Inc()
}

// RecordExternalAPIDuration records the duration of an external API call
func (m *Metrics) RecordExternalAPIDuration(service, operation string, duration time.Duration) {
	m.ExternalAPIDuration.WithLabelValues(service, operation).Observe(duration.Seconds())
}

// RecordCacheHit records a cache hit
func (m *Metrics) RecordCacheHit(operation string) {
	m.CacheHitsTotal.WithLabelValues(operation).Inc()
}

// RecordCacheMiss records a cache miss
func (m *Metrics) RecordCacheMiss(operation string) {
	m.CacheMissesTotal.WithLabelValues(operation).Inc()
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, statusCode string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// SetCircuitBreakerState sets the current state of a circuit breaker
func (m *Metrics) SetCircuitBreakerState(service string, state int) {
	m.CircuitBreakerState.WithLabelValues(service).Set(float64(state))
}

// RecordCircuitBreakerTrip records a circuit breaker trip
func (m *Metrics) RecordCircuitBreakerTrip(service string) {
	m.CircuitBreakerTrips.WithLabelValues(service).Inc()
}

// Timer is a helper for timing operations
type Timer struct {
	start   time.Time
	metrics *Metrics
}

// NewTimer creates a new timer
func (m *Metrics) NewTimer() *Timer {
	return &Timer{
		start:   time.Now(),
		metrics: m,
	}
}

// ObserveEnhance records the enhancement duration and status
func (t *Timer) ObserveEnhance(status string) {
	t.metrics.EnhanceDuration.WithLabelValues(status).Observe(time.Since(t.start).Seconds())
}

// ObserveVerification records the claim verification duration
func (t *Timer) ObserveVerification(claimType string) {
	t.metrics.VerificationDuration.WithLabelValues(claimType).Observe(time.Since(t.start).Seconds())
}

// ObserveExternalAPI records the external API duration
func (t *Timer) ObserveExternalAPI(service, operation string) {
	t.metrics.RecordExternalAPIDuration(service, operation, time.Since(t.start))
}

// Duration returns the elapsed time
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
