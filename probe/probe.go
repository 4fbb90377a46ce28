// Package probe runs a lightweight static pre-check of a doctor profile
// page: a plain HTTP fetch, no browser. It tells callers whether the page is
// reachable and how many reviews are visible before any load-more
// interaction, which is useful both as a cheap health check and as a
// baseline to compare the browser-driven scrape against.
package probe

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/aluiziolira/go-scrape-reviews/config"
	"github.com/aluiziolira/go-scrape-reviews/parser"
)

// Result is the outcome of one static probe.
type Result struct {
	URL            string
	StatusCode     int
	DoctorName     string
	VisibleReviews int
	HasLoadMore    bool
	Elapsed        time.Duration
}

// Prober fetches profile pages statically.
type Prober struct {
	cfg       *config.Config
	logger    *slog.Logger
	host      string
	transport http.RoundTripper
}

// New builds a prober restricted to the configured site.
func New(cfg *config.Config, logger *slog.Logger) (*Prober, error) {
	host := cfg.Host()
	if host == "" {
		return nil, fmt.Errorf("profile URL prefix must include a host")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Prober{cfg: cfg, logger: logger, host: host}, nil
}

// WithTransport swaps the underlying HTTP transport. Tests use it to serve
// canned responses.
func (p *Prober) WithTransport(transport http.RoundTripper) {
	p.transport = transport
}

// newCollector builds a single-use collector. Each check gets its own so
// handlers never observe a previous URL's state.
func (p *Prober) newCollector() *colly.Collector {
	c := colly.NewCollector(
		colly.AllowedDomains(p.host),
		colly.UserAgent(config.RandomUserAgent()),
	)
	c.SetRequestTimeout(p.cfg.Scraping.PageLoadTimeout)
	if p.transport != nil {
		c.WithTransport(p.transport)
	}
	return c
}

// Check fetches url and reports what is statically visible. An URL outside
// the configured site is rejected without a request.
func (p *Prober) Check(url string) (*Result, error) {
	if !strings.HasPrefix(url, p.cfg.ProfileURLPrefix) {
		return nil, fmt.Errorf("probe: %s is outside the expected site", url)
	}

	result := &Result{URL: url}
	start := time.Now()
	c := p.newCollector()

	c.OnResponse(func(r *colly.Response) {
		result.StatusCode = r.StatusCode
	})
	c.OnHTML("html", func(e *colly.HTMLElement) {
		markup, err := e.DOM.Html()
		if err != nil {
			p.logger.Warn("could not materialize probed markup", slog.Any("error", err))
			return
		}
		reviews := parser.ParseReviews(markup, p.cfg.Scraping.TitleMarkers)
		result.VisibleReviews = len(reviews)
	})
	c.OnHTML(`[data-test-id="doctor-header-fullname"] span[itemprop="name"]`, func(e *colly.HTMLElement) {
		if result.DoctorName == "" {
			result.DoctorName = parser.CleanText(e.Text)
		}
	})
	c.OnHTML("button[data-id='load-more-opinions'], a[data-test-id='load-more-opinions']", func(e *colly.HTMLElement) {
		result.HasLoadMore = true
	})

	var fetchErr error
	c.OnError(func(r *colly.Response, err error) {
		if r != nil {
			result.StatusCode = r.StatusCode
		}
		fetchErr = err
	})

	if err := c.Visit(url); err != nil {
		return nil, fmt.Errorf("probe %s: %w", url, err)
	}
	c.Wait()
	result.Elapsed = time.Since(start)

	if fetchErr != nil {
		return nil, fmt.Errorf("probe %s: %w", url, fetchErr)
	}

	p.logger.Info("static probe finished",
		slog.String("url", url),
		slog.Int("status", result.StatusCode),
		slog.Int("visible_reviews", result.VisibleReviews),
		slog.Bool("has_load_more", result.HasLoadMore),
		slog.Duration("elapsed", result.Elapsed),
	)
	return result, nil
}
