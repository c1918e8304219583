package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Upload outcomes.
const (
	OutcomeOK     = "ok"
	OutcomeFailed = "failed"
)

// Metrics holds the Prometheus collectors. Each instance owns its registry
// so tests do not collide on the default one.
type Metrics struct {
	Registry       *prometheus.Registry
	RenderPasses   *prometheus.CounterVec
	RenderDuration *prometheus.HistogramVec
	Uploads        *prometheus.CounterVec
}

// NewMetrics registers the showcase collectors on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		Registry: reg,
		RenderPasses: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "showcase",
			Name:      "render_passes_total",
			Help:      "Render passes by host and active tab.",
		}, []string{"host", "tab"}),
		RenderDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "showcase",
			Name:      "render_duration_seconds",
			Help:      "Time spent building and painting one page.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}, []string{"host"}),
		Uploads: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "showcase",
			Name:      "uploads_total",
			Help:      "Uploaded files by format and parse outcome.",
		}, []string{"format", "outcome"}),
	}
}

// ObserveRender records one render pass.
func (m *Metrics) ObserveRender(host, tab string, d time.Duration) {
	if m == nil {
		return
	}
	m.RenderPasses.WithLabelValues(host, tab).Inc()
	m.RenderDuration.WithLabelValues(host).Observe(d.Seconds())
}

// ObserveUpload records one parsed upload.
func (m *Metrics) ObserveUpload(format string, ok bool) {
	if m == nil {
		return
	}
	outcome := OutcomeOK
	if !ok {
		outcome = OutcomeFailed
	}
	m.Uploads.WithLabelValues(format, outcome).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}
