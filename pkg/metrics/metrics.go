package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	PagesTotal          *prometheus.CounterVec
	PageDuration        prometheus.Histogram
	PagesInFlight       prometheus.Gauge
	ListingsPersisted   prometheus.Counter
}

// New registers the metrics on reg. Pass prometheus.DefaultRegisterer in main.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests.",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		PagesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ingest_pages_total",
				Help: "Total number of processed listing pages by outcome.",
			},
			[]string{"outcome"}, // success, empty, failed
		),
		PageDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "ingest_page_duration_seconds",
				Help:    "Duration of the full fetch-to-persist pipeline of one page.",
				Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
		),
		PagesInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "ingest_pages_in_flight",
				Help: "Pages currently holding a concurrency permit.",
			},
		),
		ListingsPersisted: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "ingest_listings_persisted_total",
				Help: "Total number of listings written to storage.",
			},
		),
	}
}
