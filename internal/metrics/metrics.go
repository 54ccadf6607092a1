// Package metrics exposes Prometheus instrumentation for rotator requests.
package metrics

import (
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Request outcomes used as the result label
const (
	ResultOK          = "ok"
	ResultNoop        = "noop"
	ResultParseError  = "parse_error"
	ResultLookupError = "lookup_error"
	ResultExhausted   = "exhausted"
	ResultError       = "error"
)

// KindOther is the kind label shared by every unsupported request kind
const KindOther = "other"

var (
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	rotationsTotal  *prometheus.CounterVec
	rotatorsGauge   prometheus.Gauge

	// Registration guard
	metricsOnce       sync.Once
	metricsRegistered atomic.Bool
)

// Recorder records rotator metrics. All methods are no-ops until Init has
// been called, so commands that never serve metrics pay nothing.
type Recorder struct{}

// NewRecorder creates a new Recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Init registers all collectors with the default Prometheus registry.
// Safe to call more than once.
func Init() {
	metricsOnce.Do(func() {
		requestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lcdrotator_requests_total",
				Help: "Total number of rotator requests by outcome",
			},
			[]string{"name", "kind", "result"},
		)

		requestDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "lcdrotator_request_duration_seconds",
				Help:    "Time spent serving a rotator request",
				Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1},
			},
			[]string{"kind"},
		)

		rotationsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lcdrotator_rotations_total",
				Help: "Total number of keys rotated to the back of their rotator",
			},
			[]string{"name"},
		)

		rotatorsGauge = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "lcdrotator_rotators",
				Help: "Number of rotators held by the registry",
			},
		)

		metricsRegistered.Store(true)
	})
}

// isRegistered reports whether Init has run
func isRegistered() bool {
	return metricsRegistered.Load()
}

// RecordRequest records one served request
func (m *Recorder) RecordRequest(name, kind, result string, durationSeconds float64) {
	if m == nil || !isRegistered() {
		return
	}
	requestsTotal.WithLabelValues(name, kind, result).Inc()
	requestDuration.WithLabelValues(kind).Observe(durationSeconds)
}

// RecordRotation records a key moving through a rotator
func (m *Recorder) RecordRotation(name string) {
	if m == nil || !isRegistered() {
		return
	}
	rotationsTotal.WithLabelValues(name).Inc()
}

// SetRotators sets the registry size gauge
func (m *Recorder) SetRotators(n int) {
	if m == nil || !isRegistered() {
		return
	}
	rotatorsGauge.Set(float64(n))
}

// Handler returns the HTTP handler serving the default registry
func Handler() http.Handler {
	Init()
	return promhttp.Handler()
}

// GetRequestsTotal returns the request counter for testing.
func GetRequestsTotal() *prometheus.CounterVec {
	return requestsTotal
}

// GetRotationsTotal returns the rotation counter for testing.
func GetRotationsTotal() *prometheus.CounterVec {
	return rotationsTotal
}

// GetRotatorsGauge returns the registry size gauge for testing.
func GetRotatorsGauge() prometheus.Gauge {
	return rotatorsGauge
}
