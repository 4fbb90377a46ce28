package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/aluiziolira/go-scrape-reviews/config"
)

const (
	setupAttempts = 3
	setupBackoff  = 2 * time.Second

	// Ceiling for small DOM queries (counts, location, script clicks).
	actionTimeout = 10 * time.Second
)

var errNoSession = fmt.Errorf("browser session not initialized")

// Driver owns one chromedp browser session: launch with anti-detection
// flags, navigation, bounded waits, and teardown on all exit paths.
type Driver struct {
	cfg    *config.Config
	logger *slog.Logger

	ctx     context.Context
	cancels []context.CancelFunc
}

// NewDriver builds an unstarted driver; Setup launches the browser.
func NewDriver(cfg *config.Config, logger *slog.Logger) *Driver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Driver{cfg: cfg, logger: logger}
}

// Setup launches the browser, retrying session creation up to three times
// with a fixed backoff. It returns an error instead of panicking when all
// attempts are exhausted.
func (d *Driver) Setup(ctx context.Context) error {
	var lastErr error
	for attempt := 1; attempt <= setupAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		d.logger.Info("initializing browser session",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", setupAttempts),
		)
		if err := d.launch(); err != nil {
			lastErr = err
			d.logger.Warn("browser session creation failed",
				slog.Int("attempt", attempt),
				slog.Any("error", err),
			)
			d.Teardown()
			if attempt < setupAttempts {
				time.Sleep(setupBackoff)
			}
			continue
		}
		d.logger.Info("browser session ready")
		return nil
	}
	return fmt.Errorf("create browser session after %d attempts: %w", setupAttempts, lastErr)
}

func (d *Driver) launch() error {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", d.cfg.Scraping.Headless),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("window-size", "1920,1080"),
		chromedp.UserAgent(config.RandomUserAgent()),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(string, ...interface{}) {}),
	)
	d.ctx = browserCtx
	d.cancels = []context.CancelFunc{browserCancel, allocCancel}

	startCtx, cancel := context.WithTimeout(browserCtx, d.cfg.Scraping.PageLoadTimeout)
	defer cancel()

	// Starting the browser and suppressing navigator.webdriver before any
	// document loads.
	return chromedp.Run(startCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		_, err := page.AddScriptToEvaluateOnNewDocument(
			"Object.defineProperty(navigator, 'webdriver', {get: () => undefined})",
		).Do(ctx)
		return err
	}))
}

// Teardown quits the browser best-effort and clears the session handle so
// repeated calls are safe.
func (d *Driver) Teardown() {
	if d.ctx == nil && len(d.cancels) == 0 {
		return
	}
	d.logger.Info("shutting down browser session")
	for _, cancel := range d.cancels {
		cancel()
	}
	d.cancels = nil
	d.ctx = nil
}

func (d *Driver) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	if d.ctx == nil {
		return errNoSession
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	runCtx, cancel := context.WithTimeout(d.ctx, timeout)
	defer cancel()
	return chromedp.Run(runCtx, actions...)
}

// Navigate loads url and waits for the document body.
func (d *Driver) Navigate(ctx context.Context, url string) error {
	return d.run(ctx, d.cfg.Scraping.PageLoadTimeout,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
}

// WaitVisible blocks until selector is visible, bounded by the explicit wait.
func (d *Driver) WaitVisible(ctx context.Context, selector string) error {
	return d.run(ctx, d.cfg.Scraping.ExplicitWait,
		chromedp.WaitVisible(selector, chromedp.ByQuery),
	)
}

// CurrentURL reports the page identity.
func (d *Driver) CurrentURL(ctx context.Context) (string, error) {
	var location string
	err := d.run(ctx, actionTimeout, chromedp.Location(&location))
	return location, err
}

// PageHTML materializes the full document markup.
func (d *Driver) PageHTML(ctx context.Context) (string, error) {
	var html string
	err := d.run(ctx, actionTimeout, chromedp.OuterHTML("html", &html, chromedp.ByQuery))
	return html, err
}

// CountVisible counts elements matching selector.
func (d *Driver) CountVisible(ctx context.Context, selector string) (int, error) {
	var count int
	script := fmt.Sprintf(`document.querySelectorAll(%q).length`, selector)
	err := d.run(ctx, actionTimeout, chromedp.Evaluate(script, &count))
	return count, err
}

// FindClickable returns the first candidate selector that has a displayed,
// enabled match on the page.
func (d *Driver) FindClickable(ctx context.Context, selectors []string) (string, bool, error) {
	for _, selector := range selectors {
		script := fmt.Sprintf(`(() => {
			for (const el of document.querySelectorAll(%q)) {
				const style = window.getComputedStyle(el);
				if (style.display === 'none' || style.visibility === 'hidden') continue;
				if (el.offsetParent === null) continue;
				if (el.disabled) continue;
				return true;
			}
			return false;
		})()`, selector)
		var found bool
		if err := d.run(ctx, actionTimeout, chromedp.Evaluate(script, &found)); err != nil {
			return "", false, err
		}
		if found {
			return selector, true, nil
		}
	}
	return "", false, nil
}

// ScrollToBottom scrolls the page end to trigger lazy rendering.
func (d *Driver) ScrollToBottom(ctx context.Context) error {
	return d.run(ctx, actionTimeout,
		chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil),
	)
}

// ScrollIntoView centers the first match of selector in the viewport.
func (d *Driver) ScrollIntoView(ctx context.Context, selector string) error {
	script := fmt.Sprintf(`(() => {
		const el = document.querySelector(%q);
		if (el) el.scrollIntoView({block: 'center'});
	})()`, selector)
	return d.run(ctx, actionTimeout, chromedp.Evaluate(script, nil))
}

// Click dispatches a script click on the first match of selector. Script
// clicks bypass overlays that would swallow a synthesized mouse event.
func (d *Driver) Click(ctx context.Context, selector string) error {
	script := fmt.Sprintf(`(() => {
		const el = document.querySelector(%q);
		if (!el) return false;
		el.click();
		return true;
	})()`, selector)
	var clicked bool
	if err := d.run(ctx, actionTimeout, chromedp.Evaluate(script, &clicked)); err != nil {
		return err
	}
	if !clicked {
		return fmt.Errorf("click: no element matches %q", selector)
	}
	return nil
}

// Text returns the text content of the first match of selector.
func (d *Driver) Text(ctx context.Context, selector string) (string, error) {
	var text string
	err := d.run(ctx, d.cfg.Scraping.ExplicitWait,
		chromedp.Text(selector, &text, chromedp.ByQuery),
	)
	return text, err
}
