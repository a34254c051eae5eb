package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "backoffice"

type Registry struct {
	reg *prometheus.Registry

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	ChecklistBuilds  prometheus.Counter
	ChecklistEntries prometheus.Histogram
	ChecklistToggles prometheus.Counter
	ChecklistExports *prometheus.CounterVec
	OpenSessions     prometheus.Gauge
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()

	httpRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests handled.",
	}, []string{"method", "path", "status"})

	httpDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path"})

	builds := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "checklist",
		Name:      "builds_total",
		Help:      "Checklists aggregated from order line items.",
	})
	entries := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "checklist",
		Name:      "entries",
		Help:      "Entries per built checklist.",
		Buckets:   []float64{0, 1, 5, 10, 25, 50, 100},
	})
	toggles := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "checklist",
		Name:      "toggles_total",
		Help:      "Checklist entries toggled.",
	})
	exports := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "checklist",
		Name:      "exports_total",
		Help:      "Checklist exports by format.",
	}, []string{"format"})
	sessions := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "checklist",
		Name:      "open_sessions",
		Help:      "Checklist views currently open.",
	})

	r.MustRegister(httpRequests, httpDuration, builds, entries, toggles, exports, sessions)

	return &Registry{
		reg:              r,
		HTTPRequests:     httpRequests,
		HTTPDuration:     httpDuration,
		ChecklistBuilds:  builds,
		ChecklistEntries: entries,
		ChecklistToggles: toggles,
		ChecklistExports: exports,
		OpenSessions:     sessions,
	}
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }

// ChecklistBuilt records one aggregation
func (r *Registry) ChecklistBuilt(groups, entries int) {
	r.ChecklistBuilds.Inc()
	r.ChecklistEntries.Observe(float64(entries))
}

func (r *Registry) EntryToggled() { r.ChecklistToggles.Inc() }

func (r *Registry) Exported(format string) { r.ChecklistExports.WithLabelValues(format).Inc() }

func (r *Registry) SessionsOpen(n int) { r.OpenSessions.Set(float64(n)) }

// Middleware counts requests by route template, not raw path
func (r *Registry) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		r.HTTPRequests.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		r.HTTPDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}
