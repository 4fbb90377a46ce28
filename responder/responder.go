// Package responder assembles suggested reply drafts for reviews that have
// no doctor reply yet, and tracks which review IDs were already handled so
// reruns never draft the same reply twice.
package responder

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aluiziolira/go-scrape-reviews/models"
)

const processedFileName = "processed_reviews.json"

// Generator drafts reply text from template pools.
type Generator struct {
	dataDir string
	logger  *slog.Logger
	rng     *rand.Rand
	now     func() time.Time
}

// NewGenerator builds a generator whose processed-ID ledger lives under
// dataDir.
func NewGenerator(dataDir string, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		dataDir: dataDir,
		logger:  logger,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		now:     time.Now,
	}
}

// Generate assembles one reply draft: greeting, thanks, an acknowledgement
// of a quality the patient mentioned (when one is detected), a satisfaction
// line, an availability line, and the signature.
func (g *Generator) Generate(review models.ReviewRecord) string {
	parts := make([]string, 0, 6)

	author := ""
	if review.Author != nil {
		author = *review.Author
	}
	if firstName := extractFirstName(author); firstName != "" {
		greeting := g.pick(greetingsPersonal)
		parts = append(parts, strings.ReplaceAll(greeting, "{nome}", firstName))
	} else {
		parts = append(parts, g.pick(greetingsImpersonal))
	}

	parts = append(parts, g.pick(thanksPool))

	if qualities := mentionedQualities(review.Comment); len(qualities) > 0 {
		quality := qualities[g.rng.Intn(len(qualities))]
		parts = append(parts, qualityResponses[quality])
	}

	parts = append(parts, g.pickSatisfaction())
	parts = append(parts, g.pick(availabilityPool))
	parts = append(parts, signature)

	return strings.Join(parts, " ")
}

// GenerateAll drafts replies for every review in result that has no doctor
// reply and was not handled before, then records the handled IDs.
func (g *Generator) GenerateAll(result *models.ScrapeResult) (map[int]string, error) {
	if result == nil || len(result.Reviews) == 0 {
		return map[int]string{}, nil
	}

	processed, err := g.loadProcessed()
	if err != nil {
		g.logger.Warn("could not load the processed-review ledger, starting fresh",
			slog.Any("error", err))
		processed = map[int]bool{}
	}

	drafts := make(map[int]string)
	for _, review := range result.Reviews {
		if review.DoctorReply != nil {
			continue
		}
		if processed[review.ID] {
			continue
		}
		drafts[review.ID] = g.Generate(review)
		processed[review.ID] = true
	}

	if len(drafts) > 0 {
		if err := g.saveProcessed(processed); err != nil {
			return drafts, fmt.Errorf("save processed-review ledger: %w", err)
		}
	}
	g.logger.Info("reply drafts generated",
		slog.Int("drafts", len(drafts)),
		slog.Int("reviews", len(result.Reviews)),
	)
	return drafts, nil
}

func (g *Generator) pick(pool []string) string {
	return pool[g.rng.Intn(len(pool))]
}

// pickSatisfaction prefers the variant acknowledging explicit satisfaction.
func (g *Generator) pickSatisfaction() string {
	for _, t := range satisfactionPool {
		if strings.Contains(t, "satisfeita") {
			return t
		}
	}
	return g.pick(satisfactionPool)
}

// extractFirstName pulls a usable first name from the author field. Initials
// and all-caps abbreviations are rejected.
func extractFirstName(author string) string {
	author = strings.TrimSpace(author)
	if len([]rune(author)) <= 2 {
		return ""
	}
	fields := strings.Fields(author)
	if len(fields) == 0 {
		return ""
	}
	first := fields[0]
	if len([]rune(first)) <= 2 || first == strings.ToUpper(first) {
		return ""
	}
	return first
}

// mentionedQualities scans the comment for quality keywords, in a fixed
// order.
func mentionedQualities(comment string) []string {
	lower := strings.ToLower(comment)
	var found []string
	for _, quality := range qualityOrder {
		for _, keyword := range qualityKeywords[quality] {
			if strings.Contains(lower, keyword) {
				found = append(found, quality)
				break
			}
		}
	}
	return found
}

type processedLedger struct {
	ProcessedIDs []int  `json:"processed_ids"`
	LastUpdated  string `json:"last_updated"`
}

func (g *Generator) loadProcessed() (map[int]bool, error) {
	path := filepath.Join(g.dataDir, processedFileName)
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return map[int]bool{}, nil
	}
	if err != nil {
		return nil, err
	}
	var ledger processedLedger
	if err := json.Unmarshal(raw, &ledger); err != nil {
		// A corrupt ledger is discarded rather than blocking generation.
		return map[int]bool{}, nil
	}
	processed := make(map[int]bool, len(ledger.ProcessedIDs))
	for _, id := range ledger.ProcessedIDs {
		processed[id] = true
	}
	return processed, nil
}

func (g *Generator) saveProcessed(processed map[int]bool) error {
	if err := os.MkdirAll(g.dataDir, 0o755); err != nil {
		return err
	}
	ledger := processedLedger{
		ProcessedIDs: make([]int, 0, len(processed)),
		LastUpdated:  g.now().Format(time.RFC3339),
	}
	for id := range processed {
		ledger.ProcessedIDs = append(ledger.ProcessedIDs, id)
	}
	raw, err := json.MarshalIndent(ledger, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(g.dataDir, processedFileName), raw, 0o644)
}
