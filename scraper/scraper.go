// Package scraper extracts patient reviews from doctor profile pages using
// a real browser session, surviving load-more pagination, booking-flow
// redirects, and transient browser failures.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aluiziolira/go-scrape-reviews/config"
	"github.com/aluiziolira/go-scrape-reviews/models"
)

// Doctor name candidates in priority order.
var doctorNameSelectors = []string{
	`[data-test-id="doctor-header-fullname"] span[itemprop="name"]`,
	`span[itemprop="name"]`,
}

// ResultStore persists finished scrape results. The storage package provides
// the JSON snapshot implementation.
type ResultStore interface {
	Save(result *models.ScrapeResult) (string, error)
}

// Scraper orchestrates full-profile scrapes: one fresh browser session per
// attempt, escalating waits between attempts, and backup recovery when the
// final extraction comes back empty.
type Scraper struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *Metrics
	store   ResultStore

	limiter *RateLimiter
	pattern profilePattern

	newSession func(ctx context.Context) (pageSession, error)
	sleep      func(time.Duration)
}

// New builds a scraper around the given configuration. Pass a nil logger to
// use slog.Default.
func New(cfg *config.Config, logger *slog.Logger) (*Scraper, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Scraper{
		cfg:     cfg,
		logger:  logger,
		limiter: NewRateLimiter(cfg.Delays.RequestsPerMinute),
		pattern: newProfilePattern(cfg.ProfileURLPrefix, cfg.Scraping.BookingSegments),
		sleep:   time.Sleep,
	}
	s.newSession = func(ctx context.Context) (pageSession, error) {
		driver := NewDriver(cfg, logger)
		if err := driver.Setup(ctx); err != nil {
			return nil, err
		}
		return driver, nil
	}
	return s, nil
}

// WithMetrics attaches a metrics bundle. A nil-metrics scraper records
// nothing.
func (s *Scraper) WithMetrics(m *Metrics) *Scraper {
	s.metrics = m
	return s
}

// WithStore attaches a result store. Persistence failures are logged and do
// not fail the scrape.
func (s *Scraper) WithStore(store ResultStore) *Scraper {
	s.store = store
	return s
}

// ScrapeReviews runs the full multi-attempt scrape for one profile URL. An
// URL outside the expected site fails immediately without retrying. All
// other failures are retried up to the configured maximum with escalating
// waits; when every attempt fails the last error is returned and the result
// is nil.
func (s *Scraper) ScrapeReviews(ctx context.Context, url string) (*models.ScrapeResult, error) {
	if !s.pattern.Matches(url) {
		err := ErrInvalidURL{URL: url}
		s.logger.Error("rejecting URL outside the expected site", slog.String("url", url))
		s.metrics.IncError(errorTypeLabel(err))
		return nil, err
	}

	maxRetries := s.cfg.Scraping.MaxRetries
	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		s.logger.Info("starting scrape attempt",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", maxRetries),
			slog.String("url", url),
		)

		started := time.Now()
		result, err := s.attempt(ctx, url)
		s.metrics.ObserveScrape(time.Since(started))
		if err == nil {
			s.metrics.IncAttempt("success")
			s.logger.Info("scrape succeeded",
				slog.Int("attempt", attempt),
				slog.Int("reviews", result.TotalReviews),
			)
			return result, nil
		}

		lastErr = err
		s.metrics.IncAttempt("failure")
		s.metrics.IncError(errorTypeLabel(err))
		s.logger.Warn("scrape attempt failed",
			slog.Int("attempt", attempt),
			slog.Any("error", err),
		)

		if attempt < maxRetries {
			wait := s.cfg.Delays.RetryBase + time.Duration(attempt-1)*s.cfg.Delays.RetryStep
			var sessionErr ErrSession
			if errors.As(err, &sessionErr) {
				// A browser that would not even start needs a longer
				// recovery pause than a page-level failure.
				wait = s.cfg.Delays.ErrorRecoveryWait
			}
			s.logger.Info("waiting before next attempt", slog.Duration("wait", wait))
			s.sleep(wait)
		}
	}

	return nil, fmt.Errorf("scrape %s failed after %d attempts: %w", url, maxRetries, lastErr)
}

// attempt performs one scrape pass in a fresh browser session. The session
// is always torn down before returning.
func (s *Scraper) attempt(ctx context.Context, url string) (*models.ScrapeResult, error) {
	session, err := s.newSession(ctx)
	if err != nil {
		return nil, ErrSession{Err: err}
	}
	defer session.Teardown()

	s.limiter.Wait()
	if err := session.Navigate(ctx, url); err != nil {
		return nil, ErrNavigation{Err: fmt.Errorf("load %s: %w", url, err)}
	}
	if err := session.WaitVisible(ctx, reviewsAnchorSelector); err != nil {
		return nil, ErrNavigation{Err: fmt.Errorf("wait for reviews section: %w", err)}
	}
	s.limiter.HumanDelay(s.cfg.Delays.HumanLikeMin, s.cfg.Delays.HumanLikeMax)

	doctorName := s.extractDoctorName(ctx, session)

	acq := newAcquirer(session, s.limiter, s.pattern, s.cfg, s.logger, s.metrics)
	acquired := acq.Run(ctx)

	// The extraction cache lives per attempt: a fresh session never reuses
	// markup parsed in a previous one.
	cache := newExtractionCache(s.cfg, s.pattern, s.logger)

	reviews := cache.Extract(ctx, session)
	if len(reviews) == 0 && len(acquired.Backup) > 0 {
		s.logger.Warn("final extraction empty, recovering from backup snapshot",
			slog.Int("backup_reviews", len(acquired.Backup)))
		reviews = acquired.Backup
	}
	if len(reviews) == 0 {
		identity, idErr := session.CurrentURL(ctx)
		if idErr == nil && !s.pattern.Matches(identity) {
			return nil, ErrRedirect{URL: identity}
		}
		if acquired.Clicks > 0 {
			return nil, ErrBrowser{Err: fmt.Errorf("no reviews extracted after %d clicks", acquired.Clicks)}
		}
	}

	result := models.NewScrapeResult(url, doctorName, reviews)
	s.metrics.AddReviews(result.TotalReviews)

	if s.store != nil {
		path, saveErr := s.store.Save(result)
		if saveErr != nil {
			wrapped := ErrSave{Err: saveErr}
			s.logger.Error("could not persist scrape result", slog.Any("error", wrapped))
			s.metrics.IncError(errorTypeLabel(wrapped))
		} else {
			s.logger.Info("scrape result persisted", slog.String("path", path))
		}
	}
	return result, nil
}

// extractDoctorName reads the doctor name best-effort. A missing name never
// fails the scrape.
func (s *Scraper) extractDoctorName(ctx context.Context, session pageSession) *string {
	for _, selector := range doctorNameSelectors {
		text, err := session.Text(ctx, selector)
		if err != nil {
			continue
		}
		if name := strings.TrimSpace(text); name != "" {
			return &name
		}
	}
	s.logger.Warn("could not extract doctor name")
	return nil
}
