// Package metrics exposes Prometheus collectors for the screening service
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "mindwell"

// Metrics groups the service collectors on a private registry
type Metrics struct {
	registry *prometheus.Registry

	sessionsStarted prometheus.Counter
	sessionsReset   prometheus.Counter
	answers         *prometheus.CounterVec
	completions     *prometheus.CounterVec
	scores          prometheus.Histogram
	archiveFailures prometheus.Counter
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
}

// New creates and registers all collectors
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		sessionsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_started_total",
			Help:      "Screening sessions created.",
		}),
		sessionsReset: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_reset_total",
			Help:      "Screening sessions reset by their owner.",
		}),
		answers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "answers_total",
			Help:      "Submitted answers by outcome.",
		}, []string{"outcome"}),
		completions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "screenings_completed_total",
			Help:      "Completed screenings by severity level.",
		}, []string{"level"}),
		scores: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "screening_score",
			Help:      "Distribution of screening scores.",
			Buckets:   prometheus.LinearBuckets(0, 3, 10),
		}),
		archiveFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "archive_failures_total",
			Help:      "Results that could not be written to the archive.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.sessionsStarted,
		m.sessionsReset,
		m.answers,
		m.completions,
		m.scores,
		m.archiveFailures,
		m.httpRequests,
		m.httpDuration,
	)
	return m
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry is exposed for tests and extra collectors
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) SessionStarted() {
	m.sessionsStarted.Inc()
}

func (m *Metrics) SessionReset() {
	m.sessionsReset.Inc()
}

// AnswerAccepted and AnswerRejected count submissions by outcome
func (m *Metrics) AnswerAccepted() {
	m.answers.WithLabelValues("accepted").Inc()
}

func (m *Metrics) AnswerRejected() {
	m.answers.WithLabelValues("rejected").Inc()
}

// ScreeningCompleted records the final score and level
func (m *Metrics) ScreeningCompleted(level string, score int) {
	m.completions.WithLabelValues(level).Inc()
	m.scores.Observe(float64(score))
}

func (m *Metrics) ArchiveFailed() {
	m.archiveFailures.Inc()
}

// ObserveRequest records one HTTP request against its route template
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
