package scraper

import (
	"context"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/aluiziolira/go-scrape-reviews/config"
	"github.com/aluiziolira/go-scrape-reviews/models"
	"github.com/aluiziolira/go-scrape-reviews/parser"
)

const cacheNamespace = "::reviews"

// extractionCache memoizes the full review-list extraction keyed by page
// identity. A hit is only served while the identity is unchanged since the
// last extraction, so a load-more click (same URL) reuses the parse while a
// redirect never does.
type extractionCache struct {
	store   *lru.Cache[string, []models.ReviewRecord]
	lastKey string
	pattern profilePattern
	cfg     *config.Config
	logger  *slog.Logger
}

func newExtractionCache(cfg *config.Config, pattern profilePattern, logger *slog.Logger) *extractionCache {
	store, _ := lru.New[string, []models.ReviewRecord](16)
	return &extractionCache{
		store:   store,
		pattern: pattern,
		cfg:     cfg,
		logger:  logger,
	}
}

// Extract returns the reviews for the current page identity. Extraction is
// refused entirely (empty result) when the identity no longer matches the
// profile-page pattern, rather than risking wrong-page data.
func (c *extractionCache) Extract(ctx context.Context, session pageSession) []models.ReviewRecord {
	identity, err := session.CurrentURL(ctx)
	if err != nil {
		c.logger.Warn("could not read page identity, refusing extraction", slog.Any("error", err))
		return []models.ReviewRecord{}
	}
	if !c.pattern.Matches(identity) {
		c.logger.Error("page identity no longer matches profile pattern, refusing extraction",
			slog.String("url", identity))
		return []models.ReviewRecord{}
	}

	key := identity + cacheNamespace
	if key == c.lastKey {
		if cached, ok := c.store.Get(key); ok {
			c.logger.Debug("extraction cache hit", slog.String("url", identity))
			return cached
		}
	}

	pageHTML, err := session.PageHTML(ctx)
	if err != nil {
		c.logger.Warn("could not materialize page markup", slog.Any("error", err))
		return []models.ReviewRecord{}
	}

	reviews := parser.ParseReviews(pageHTML, c.cfg.Scraping.TitleMarkers)
	if reviews == nil {
		reviews = []models.ReviewRecord{}
	}
	c.store.Add(key, reviews)
	c.lastKey = key
	c.logger.Debug("extraction cache populated",
		slog.String("url", identity),
		slog.Int("reviews", len(reviews)),
	)
	return reviews
}
