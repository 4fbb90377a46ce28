package scraper

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/aluiziolira/go-scrape-reviews/config"
)

// fakeSession models a profile page whose review list grows by a fixed step
// on every load-more click, up to a ceiling. Failure modes are scripted
// through the error fields.
type fakeSession struct {
	url    string
	count  int
	max    int
	growth int

	htmlOverride string // when set, PageHTML returns this instead of generated markup

	navigateErr error
	waitErr     error
	findErr     error
	textErr     error
	doctorName  string

	clickErrAt int    // click ordinal that fails with clickErr
	clickErr   error
	redirectTo string // identity switched to when the failing click fires

	redirectOnExhausted string // identity switched to when the load-more control disappears

	clicks    int
	teardowns int
	htmlCalls int
}

func (f *fakeSession) Navigate(ctx context.Context, url string) error {
	return f.navigateErr
}

func (f *fakeSession) WaitVisible(ctx context.Context, selector string) error {
	return f.waitErr
}

func (f *fakeSession) CurrentURL(ctx context.Context) (string, error) {
	return f.url, nil
}

func (f *fakeSession) PageHTML(ctx context.Context) (string, error) {
	f.htmlCalls++
	if f.htmlOverride != "" {
		return f.htmlOverride, nil
	}
	return reviewsPageHTML(f.count), nil
}

func (f *fakeSession) CountVisible(ctx context.Context, selector string) (int, error) {
	return f.count, nil
}

func (f *fakeSession) FindClickable(ctx context.Context, selectors []string) (string, bool, error) {
	if f.findErr != nil {
		return "", false, f.findErr
	}
	if f.count >= f.max {
		if f.redirectOnExhausted != "" {
			f.url = f.redirectOnExhausted
		}
		return "", false, nil
	}
	return selectors[0], true, nil
}

func (f *fakeSession) ScrollToBottom(ctx context.Context) error { return nil }

func (f *fakeSession) ScrollIntoView(ctx context.Context, selector string) error { return nil }

func (f *fakeSession) Click(ctx context.Context, selector string) error {
	f.clicks++
	if f.clickErrAt != 0 && f.clicks == f.clickErrAt {
		if f.redirectTo != "" {
			f.url = f.redirectTo
		}
		return f.clickErr
	}
	f.count += f.growth
	if f.count > f.max {
		f.count = f.max
	}
	return nil
}

func (f *fakeSession) Text(ctx context.Context, selector string) (string, error) {
	if f.textErr != nil {
		return "", f.textErr
	}
	return f.doctorName, nil
}

func (f *fakeSession) Teardown() {
	f.teardowns++
}

// reviewsPageHTML builds a page holding n complete review blocks.
func reviewsPageHTML(n int) string {
	var b strings.Builder
	b.WriteString(`<html><body><div id="profile-reviews">`)
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, `
			<div data-test-id="opinion-block">
				<div class="opinion-header"><span itemprop="name">Paciente %d</span></div>
				<p data-test-id="opinion-comment">Atendimento excelente, consulta %d.</p>
				<div data-score="5"></div>
				<time itemprop="datePublished" datetime="2024-01-%02d"></time>
			</div>`, i, i, (i%28)+1)
	}
	b.WriteString(`</div></body></html>`)
	return b.String()
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testLimiter() *RateLimiter {
	l := NewRateLimiter(1000)
	l.sleep = func(time.Duration) {}
	return l
}

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Scraping.GrowthWait = 5 * time.Millisecond
	return cfg
}
