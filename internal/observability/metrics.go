package observability

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles Prometheus collectors for the crawler. All methods
// are safe on a nil receiver so components can run unmetered.
type Metrics struct {
	Registry           *prometheus.Registry
	PagesProcessed     *prometheus.CounterVec
	ProductsExtracted  prometheus.Counter
	FrontierEnqueued   prometheus.Counter
	FrontierRejections *prometheus.CounterVec
	FetchErrors        prometheus.Counter
	FetchDuration      prometheus.Histogram
}

// NewMetrics constructs and registers all collectors on a dedicated
// registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	pages := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crawler_pages_processed_total",
			Help: "Pages routed to a handler, by page label.",
		},
		[]string{"label"},
	)
	products := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "crawler_products_extracted_total",
			Help: "Product records pushed to an output collection.",
		},
	)
	enqueued := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "crawler_frontier_enqueued_total",
			Help: "Tasks accepted by the frontier.",
		},
	)
	rejections := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crawler_frontier_rejections_total",
			Help: "URLs rejected by the frontier, by reason.",
		},
		[]string{"reason"},
	)
	fetchErrors := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "crawler_fetch_errors_total",
			Help: "Terminal fetch failures recorded to the error collection.",
		},
	)
	fetchDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "crawler_fetch_duration_seconds",
			Help:    "Fetch latency per task.",
			Buckets: prometheus.DefBuckets,
		},
	)

	registry.MustRegister(pages, products, enqueued, rejections, fetchErrors, fetchDuration)

	return &Metrics{
		Registry:           registry,
		PagesProcessed:     pages,
		ProductsExtracted:  products,
		FrontierEnqueued:   enqueued,
		FrontierRejections: rejections,
		FetchErrors:        fetchErrors,
		FetchDuration:      fetchDuration,
	}
}

// IncPage increments the processed-pages counter for a label.
func (m *Metrics) IncPage(label string) {
	if m == nil {
		return
	}
	m.PagesProcessed.WithLabelValues(label).Inc()
}

// IncProducts adds n to the extracted-products counter.
func (m *Metrics) IncProducts(n int) {
	if m == nil {
		return
	}
	m.ProductsExtracted.Add(float64(n))
}

// IncEnqueued increments the accepted-tasks counter.
func (m *Metrics) IncEnqueued() {
	if m == nil {
		return
	}
	m.FrontierEnqueued.Inc()
}

// IncFrontierRejection increments the rejection counter for a reason.
func (m *Metrics) IncFrontierRejection(reason string) {
	if m == nil {
		return
	}
	m.FrontierRejections.WithLabelValues(reason).Inc()
}

// IncFetchError increments the terminal fetch failure counter.
func (m *Metrics) IncFetchError() {
	if m == nil {
		return
	}
	m.FetchErrors.Inc()
}

// ObserveFetch records one fetch duration.
func (m *Metrics) ObserveFetch(d time.Duration) {
	if m == nil {
		return
	}
	m.FetchDuration.Observe(d.Seconds())
}

// Serve exposes the registry on addr at /metrics. It blocks, so run it
// in its own goroutine.
func (m *Metrics) Serve(addr string, logger *slog.Logger) error {
	if m == nil {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))
	logger.Info("metrics listener started", "addr", addr)
	return http.ListenAndServe(addr, mux)
}
