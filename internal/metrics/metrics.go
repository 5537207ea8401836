package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"basequiz-service/internal/domain"
)

const namespace = "basequiz"

// Metrics holds the Prometheus collectors of one service instance.
type Metrics struct {
	registry *prometheus.Registry

	RequestCounter     *prometheus.CounterVec
	RequestDuration    *prometheus.HistogramVec
	RequestsInFlight   *prometheus.GaugeVec
	SubmissionOutcomes *prometheus.CounterVec
	GamesStarted       *prometheus.CounterVec
	Scores             *prometheus.HistogramVec
}

// New registers every collector on a fresh registry so that several
// instances (tests) never collide on the default one.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		RequestCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"route", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		RequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_in_flight",
				Help:      "Number of requests currently being processed",
			},
			[]string{"route"},
		),
		SubmissionOutcomes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "leaderboard",
				Name:      "submissions_total",
				Help:      "Leaderboard submissions by outcome",
			},
			[]string{"outcome"},
		),
		GamesStarted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "game",
				Name:      "started_total",
				Help:      "Games started by mode, difficulty and question count",
			},
			[]string{"mode", "difficulty", "count"},
		),
		Scores: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "game",
				Name:      "score",
				Help:      "Final scores of finished games",
				Buckets:   prometheus.LinearBuckets(0, 250, 13),
			},
			[]string{"difficulty"},
		),
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) RecordSubmission(kind domain.OutcomeKind) {
	m.SubmissionOutcomes.WithLabelValues(string(kind)).Inc()
}

func (m *Metrics) RecordGameStarted(s domain.GameSettings) {
	m.GamesStarted.WithLabelValues(string(s.Mode), string(s.Difficulty), string(s.QuestionCount)).Inc()
}

func (m *Metrics) RecordScore(d domain.Difficulty, score int) {
	m.Scores.WithLabelValues(string(d)).Observe(float64(score))
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(route string, status string, elapsed time.Duration) {
	m.RequestCounter.WithLabelValues(route, status).Inc()
	m.RequestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}
