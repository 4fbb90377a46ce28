package scraper

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aluiziolira/go-scrape-reviews/config"
	"github.com/aluiziolira/go-scrape-reviews/models"
	"github.com/aluiziolira/go-scrape-reviews/parser"
)

// reviewsAnchorSelector is the container whose presence marks a loaded
// profile page.
const reviewsAnchorSelector = "#profile-reviews"

// Load-more control candidates in priority order.
var loadMoreSelectors = []string{
	"button[data-id='load-more-opinions']",
	"a[data-test-id='load-more-opinions']",
	"#profile-reviews > div > div.card-footer.text-center > button",
	".text-center button",
}

const growthPollInterval = 500 * time.Millisecond

var errGrowthTimeout = errors.New("review count did not grow before the wait expired")

// acquirer drives the load-more control until the page stops revealing new
// reviews, guarding against redirects and keeping a defensive backup of what
// has been extracted so far.
type acquirer struct {
	session pageSession
	limiter *RateLimiter
	pattern profilePattern
	cfg     *config.Config
	logger  *slog.Logger
	metrics *Metrics

	sleep func(time.Duration)
	now   func() time.Time
}

func newAcquirer(session pageSession, limiter *RateLimiter,
	pattern profilePattern, cfg *config.Config, logger *slog.Logger, metrics *Metrics) *acquirer {
	return &acquirer{
		session: session,
		limiter: limiter,
		pattern: pattern,
		cfg:     cfg,
		logger:  logger,
		metrics: metrics,
		sleep:   time.Sleep,
		now:     time.Now,
	}
}

// Run executes one acquisition pass. It always returns a result: the click
// count plus the best available backup snapshot, even when the loop ends on
// a timeout, a redirect, or a browser error.
func (a *acquirer) Run(ctx context.Context) models.AcquisitionResult {
	result := models.AcquisitionResult{}

	initial, err := a.session.CountVisible(ctx, parser.ReviewBlockSelector)
	if err != nil {
		a.logger.Warn("could not count initial reviews", slog.Any("error", err))
	}
	a.logger.Info("starting review acquisition", slog.Int("initial_reviews", initial))

	deadline := a.now().Add(a.cfg.Scraping.LoopBudget)
	lastCount := initial

	for result.Clicks < a.cfg.Scraping.MaxClicks {
		if ctx.Err() != nil {
			a.logger.Warn("acquisition canceled", slog.Any("error", ctx.Err()))
			break
		}
		if a.now().After(deadline) {
			a.logger.Warn("acquisition loop budget exhausted",
				slog.Duration("budget", a.cfg.Scraping.LoopBudget),
				slog.Int("clicks", result.Clicks),
			)
			break
		}

		if err := a.session.ScrollToBottom(ctx); err != nil {
			a.logger.Warn("scroll to bottom failed", slog.Any("error", err))
			a.checkRedirect(ctx)
			break
		}
		a.limiter.HumanDelay(time.Second, 2*time.Second)

		selector, found, err := a.session.FindClickable(ctx, loadMoreSelectors)
		if err != nil {
			a.logger.Warn("load-more lookup failed", slog.Any("error", err))
			a.checkRedirect(ctx)
			break
		}
		if !found {
			a.logger.Info("load-more control not found, all reviews loaded",
				slog.Int("clicks", result.Clicks))
			break
		}

		before, err := a.session.CountVisible(ctx, parser.ReviewBlockSelector)
		if err != nil {
			a.logger.Warn("could not count reviews before click", slog.Any("error", err))
			a.checkRedirect(ctx)
			break
		}

		a.limiter.Wait()
		if err := a.session.ScrollIntoView(ctx, selector); err != nil {
			a.logger.Debug("scroll into view failed", slog.Any("error", err))
		}
		a.limiter.AddDelay(0)

		if err := a.session.Click(ctx, selector); err != nil {
			a.logger.Warn("load-more click failed", slog.Any("error", err))
			a.checkRedirect(ctx)
			break
		}
		result.Clicks++
		a.metrics.IncClicks()
		a.logger.Info("load-more clicked", slog.Int("click", result.Clicks))

		if err := a.waitForGrowth(ctx, before); err != nil {
			a.logger.Warn("no review growth after click, stopping",
				slog.Int("click", result.Clicks),
				slog.Any("error", err),
			)
			a.checkRedirect(ctx)
			break
		}

		after, err := a.session.CountVisible(ctx, parser.ReviewBlockSelector)
		if err == nil {
			a.logger.Info("new reviews loaded",
				slog.Int("before", before),
				slog.Int("after", after),
			)
			lastCount = after
		}

		// Let the page settle before the next seek.
		a.limiter.HumanDelay(a.cfg.Delays.HumanLikeMin, a.cfg.Delays.HumanLikeMax)

		if result.Clicks%a.cfg.Scraping.SnapshotEvery == 0 || lastCount > a.cfg.Scraping.SnapshotThreshold {
			a.snapshot(ctx, &result)
		}
	}

	a.logger.Info("acquisition pass finished",
		slog.Int("clicks", result.Clicks),
		slog.Int("initial_reviews", initial),
		slog.Int("final_reviews", lastCount),
		slog.Int("backup_reviews", len(result.Backup)),
	)
	return result
}

// waitForGrowth blocks until the visible review count exceeds before,
// bounded by the configured growth wait.
func (a *acquirer) waitForGrowth(ctx context.Context, before int) error {
	deadline := a.now().Add(a.cfg.Scraping.GrowthWait)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		count, err := a.session.CountVisible(ctx, parser.ReviewBlockSelector)
		if err == nil && count > before {
			return nil
		}
		if !a.now().Before(deadline) {
			return errGrowthTimeout
		}
		a.sleep(growthPollInterval)
	}
}

// snapshot attempts a defensive mid-loop extraction straight off the live
// markup. Failures are logged and ignored; they never abort the loop.
func (a *acquirer) snapshot(ctx context.Context, result *models.AcquisitionResult) {
	identity, err := a.session.CurrentURL(ctx)
	if err != nil || !a.pattern.Matches(identity) {
		a.logger.Debug("skipping backup snapshot, page identity unavailable or drifted",
			slog.String("url", identity))
		return
	}
	pageHTML, err := a.session.PageHTML(ctx)
	if err != nil {
		a.logger.Debug("skipping backup snapshot, markup unavailable", slog.Any("error", err))
		return
	}
	reviews := parser.ParseReviews(pageHTML, a.cfg.Scraping.TitleMarkers)
	if len(reviews) == 0 {
		return
	}
	result.Backup = reviews
	a.metrics.IncSnapshots()
	a.logger.Info("backup snapshot stored", slog.Int("reviews", len(reviews)))
}

// checkRedirect logs a redirect error when the page identity drifted away
// from the profile pattern after a failure or timeout.
func (a *acquirer) checkRedirect(ctx context.Context) bool {
	identity, err := a.session.CurrentURL(ctx)
	if err != nil {
		return false
	}
	if a.pattern.Matches(identity) {
		return false
	}
	a.logger.Error("redirect detected, page no longer matches profile pattern",
		slog.String("url", identity))
	a.metrics.IncError("redirect")
	return true
}

