package scraper

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for the review scraper.
type Metrics struct {
	Registry         *prometheus.Registry
	AttemptsTotal    *prometheus.CounterVec
	ScrapeDuration   prometheus.Histogram
	ClicksTotal      prometheus.Counter
	ReviewsExtracted prometheus.Counter
	SnapshotsTotal   prometheus.Counter
	ErrorsTotal      *prometheus.CounterVec
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	attempts := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scraper_attempts_total",
			Help: "Total scrape attempts by outcome.",
		},
		[]string{"outcome"},
	)
	scrapeDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scraper_scrape_duration_seconds",
			Help:    "Duration of full scrape attempts.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		},
	)
	clicks := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "scraper_load_more_clicks_total",
			Help: "Total load-more clicks performed across acquisition passes.",
		},
	)
	reviews := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "scraper_reviews_extracted_total",
			Help: "Total reviews emitted into scrape results.",
		},
	)
	snapshots := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "scraper_backup_snapshots_total",
			Help: "Total defensive mid-loop extraction snapshots taken.",
		},
	)
	errorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scraper_errors_total",
			Help: "Total scraper errors by type.",
		},
		[]string{"error_type"},
	)

	registry.MustRegister(attempts, scrapeDuration, clicks, reviews, snapshots, errorsTotal)

	return &Metrics{
		Registry:         registry,
		AttemptsTotal:    attempts,
		ScrapeDuration:   scrapeDuration,
		ClicksTotal:      clicks,
		ReviewsExtracted: reviews,
		SnapshotsTotal:   snapshots,
		ErrorsTotal:      errorsTotal,
	}
}

// IncAttempt increments the attempts counter for an outcome label.
func (m *Metrics) IncAttempt(outcome string) {
	if m == nil {
		return
	}
	m.AttemptsTotal.WithLabelValues(outcome).Inc()
}

// ObserveScrape records the duration of one scrape attempt.
func (m *Metrics) ObserveScrape(d time.Duration) {
	if m == nil {
		return
	}
	m.ScrapeDuration.Observe(d.Seconds())
}

// IncClicks increments the load-more click counter.
func (m *Metrics) IncClicks() {
	if m == nil {
		return
	}
	m.ClicksTotal.Inc()
}

// AddReviews adds to the extracted-reviews counter.
func (m *Metrics) AddReviews(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.ReviewsExtracted.Add(float64(n))
}

// IncSnapshots increments the backup snapshot counter.
func (m *Metrics) IncSnapshots() {
	if m == nil {
		return
	}
	m.SnapshotsTotal.Inc()
}

// IncError increments the errors counter for a type label.
func (m *Metrics) IncError(errorType string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(errorType).Inc()
}
