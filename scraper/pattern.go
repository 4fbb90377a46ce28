package scraper

import "strings"

// profilePattern is the expected URL shape for a valid doctor-profile page.
// Any operation that trusts extracted data re-checks the current location
// against it first; a mismatch means the session was redirected, typically
// into a booking sub-flow.
type profilePattern struct {
	prefix          string
	bookingSegments []string
}

func newProfilePattern(prefix string, bookingSegments []string) profilePattern {
	return profilePattern{prefix: prefix, bookingSegments: bookingSegments}
}

// Matches reports whether url still looks like a profile page.
func (p profilePattern) Matches(url string) bool {
	if !strings.HasPrefix(url, p.prefix) {
		return false
	}
	rest := strings.TrimPrefix(url, p.prefix)
	if rest == "" {
		return false
	}
	for _, segment := range p.bookingSegments {
		if segment != "" && strings.Contains(url, segment) {
			return false
		}
	}
	return true
}
