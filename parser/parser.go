// Package parser extracts structured review data from static HTML fragments.
// It never touches a live browser handle: callers materialize the page (or a
// single review block) as markup first, which keeps extraction deterministic
// and testable.
package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/aluiziolira/go-scrape-reviews/models"
)

// ReviewBlockSelector matches one review on the profile page.
const ReviewBlockSelector = `div[data-test-id="opinion-block"]`

const (
	ratingSelector  = `div[data-score]`
	dateSelector    = `time[itemprop="datePublished"]`
	commentSelector = `p[data-test-id="opinion-comment"]`
	replySelector   = `div[data-id="doctor-answer-content"]`
)

// Author candidates in priority order: the semantic name span inside the
// review header, then any name span, then a bare heading span.
var authorSelectors = []string{
	`div.opinion-header span[itemprop="name"]`,
	`span[itemprop="name"]`,
	`h4 span`,
}

// DefaultTitleMarkers flag author candidates that matched the doctor's own
// name instead of the patient's.
var DefaultTitleMarkers = []string{"Dr.", "Dra."}

var whitespaceRun = regexp.MustCompile(`\s+`)

// CleanText collapses whitespace runs to single spaces and trims the edges.
func CleanText(text string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))
}

// ParseFragment parses one review's outer markup into a selection rooted at
// the fragment, ready for the Extract* functions.
func ParseFragment(markup string) (*goquery.Selection, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, err
	}
	return doc.Selection, nil
}

// ExtractRating returns the integer score from the scoring container, or nil
// when the container or attribute is absent or non-numeric.
func ExtractRating(review *goquery.Selection) *int {
	raw, ok := review.Find(ratingSelector).First().Attr("data-score")
	if !ok {
		return nil
	}
	raw = strings.TrimSpace(raw)
	if raw == "" || !isDigits(raw) {
		return nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &value
}

// ExtractDate returns the published-date marker's machine-readable datetime
// attribute verbatim, or nil when absent.
func ExtractDate(review *goquery.Selection) *string {
	raw, ok := review.Find(dateSelector).First().Attr("datetime")
	if !ok || strings.TrimSpace(raw) == "" {
		return nil
	}
	return &raw
}

// ExtractAuthor tries the candidate selectors in priority order and returns
// the first non-empty match that does not carry a professional title marker.
func ExtractAuthor(review *goquery.Selection, titleMarkers []string) *string {
	if len(titleMarkers) == 0 {
		titleMarkers = DefaultTitleMarkers
	}
	for _, selector := range authorSelectors {
		candidate := review.Find(selector).First()
		if candidate.Length() == 0 {
			continue
		}
		name := CleanText(candidate.Text())
		if name == "" || containsAny(name, titleMarkers) {
			continue
		}
		return &name
	}
	return nil
}

// ExtractComment returns the normalized comment text, or nil when the
// comment paragraph is absent or empty. This is the sole mandatory field.
func ExtractComment(review *goquery.Selection) *string {
	paragraph := review.Find(commentSelector).First()
	if paragraph.Length() == 0 {
		return nil
	}
	text := CleanText(paragraph.Text())
	if text == "" {
		return nil
	}
	return &text
}

// ExtractReply returns the doctor's reply. When the reply container holds
// two or more paragraphs the first is a label, so the second carries the
// actual text; otherwise the container's full text is used.
func ExtractReply(review *goquery.Selection) *string {
	container := review.Find(replySelector).First()
	if container.Length() == 0 {
		return nil
	}
	var text string
	paragraphs := container.Find("p")
	if paragraphs.Length() >= 2 {
		text = CleanText(paragraphs.Eq(1).Text())
	} else {
		text = CleanText(container.Text())
	}
	if text == "" {
		return nil
	}
	return &text
}

// ParseReviews runs every extractor over each review block found in the page
// markup, in document order. Blocks without a comment are dropped; every
// other field degrades to nil on its own.
func ParseReviews(pageHTML string, titleMarkers []string) []models.ReviewRecord {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return nil
	}

	var reviews []models.ReviewRecord
	doc.Find(ReviewBlockSelector).Each(func(index int, block *goquery.Selection) {
		comment := ExtractComment(block)
		if comment == nil {
			return
		}
		reviews = append(reviews, models.ReviewRecord{
			ID:          index + 1,
			Author:      ExtractAuthor(block, titleMarkers),
			Comment:     *comment,
			Rating:      ExtractRating(block),
			Date:        ExtractDate(block),
			DoctorReply: ExtractReply(block),
		})
	})
	return reviews
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func containsAny(s string, markers []string) bool {
	for _, marker := range markers {
		if marker != "" && strings.Contains(s, marker) {
			return true
		}
	}
	return false
}
