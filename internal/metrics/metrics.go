package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "confbot"

// Metrics holds the bot-server collectors. All methods are safe for
// concurrent use.
type Metrics struct {
	requests        *prometheus.CounterVec
	resolutions     *prometheus.CounterVec
	attempts        *prometheus.CounterVec
	attemptDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "message_requests_total",
			Help:      "Change requests by HTTP status code.",
		}, []string{"code"}),
		resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "app_resolutions_total",
			Help:      "Application name resolutions by method (keyword, model, none).",
		}, []string{"method"}),
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "model_attempts_total",
			Help:      "Edit attempts per model and outcome.",
		}, []string{"model", "outcome"}),
		attemptDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "model_attempt_duration_seconds",
			Help:      "Wall time of edit attempts per model.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 180},
		}, []string{"model"}),
	}
	reg.MustRegister(m.requests, m.resolutions, m.attempts, m.attemptDuration)
	return m
}

func (m *Metrics) ObserveRequest(code int) {
	m.requests.WithLabelValues(strconv.Itoa(code)).Inc()
}

func (m *Metrics) ObserveResolution(method string) {
	m.resolutions.WithLabelValues(method).Inc()
}

func (m *Metrics) ObserveAttempt(model, outcome string, elapsed time.Duration) {
	m.attempts.WithLabelValues(model, outcome).Inc()
	m.attemptDuration.WithLabelValues(model).Observe(elapsed.Seconds())
}
