// Package metrics exposes Prometheus instrumentation for the service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bonuspoint_http_requests_total",
		Help: "HTTP requests handled, by method and status code.",
	}, []string{"method", "code"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bonuspoint_http_request_duration_seconds",
		Help:    "HTTP request handling time.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})

	WebhookEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bonuspoint_webhook_events_total",
		Help: "Community callback events received, by outcome.",
	}, []string{"outcome"})

	DBPingDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "bonuspoint_db_ping_duration_seconds",
		Help:    "Database liveness probe duration.",
		Buckets: []float64{.001, .005, .01, .05, .1, .5, 1},
	})
)

// Handler serves the scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Observe is router middleware counting requests and timing them.
func Observe(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		httpRequests.WithLabelValues(r.Method, strconv.Itoa(ww.Status())).Inc()
		httpDuration.WithLabelValues(r.Method).Observe(time.Since(start).Seconds())
	}
	return http.HandlerFunc(fn)
}
