package scraper

import "context"

// pageSession is the slice of browser behavior the acquisition loop and the
// orchestrator depend on. The chromedp-backed Driver implements it; tests
// substitute a scripted fake so the resilience logic runs without a browser.
type pageSession interface {
	// Navigate loads url and waits for the document body, bounded by the
	// configured page-load timeout.
	Navigate(ctx context.Context, url string) error
	// WaitVisible blocks until selector is visible, bounded by the
	// configured explicit wait.
	WaitVisible(ctx context.Context, selector string) error
	// CurrentURL reports the page identity.
	CurrentURL(ctx context.Context) (string, error)
	// PageHTML materializes the full document markup for static parsing.
	PageHTML(ctx context.Context) (string, error)
	// CountVisible counts elements matching selector.
	CountVisible(ctx context.Context, selector string) (int, error)
	// FindClickable returns the first candidate selector with a displayed,
	// enabled match.
	FindClickable(ctx context.Context, selectors []string) (string, bool, error)
	// ScrollToBottom scrolls the page end to trigger lazy rendering.
	ScrollToBottom(ctx context.Context) error
	// ScrollIntoView centers the first match of selector in the viewport.
	ScrollIntoView(ctx context.Context, selector string) error
	// Click dispatches a script click on the first match of selector,
	// bypassing overlay and visibility quirks.
	Click(ctx context.Context, selector string) error
	// Text returns the text content of the first match of selector.
	Text(ctx context.Context, selector string) (string, error)
	// Teardown releases the browser session. Safe to call repeatedly.
	Teardown()
}
