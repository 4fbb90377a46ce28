package scraper

import (
	"math/rand"
	"time"
)

// RateLimiter bounds navigation/click actions to a per-minute ceiling and
// injects randomized human-like pacing. State is in-memory and unsynchronized:
// the scraping session is single-threaded by design.
type RateLimiter struct {
	perMinute int
	window    time.Duration
	stamps    []time.Time

	now   func() time.Time
	sleep func(time.Duration)
	rng   *rand.Rand
}

// NewRateLimiter builds a limiter allowing perMinute actions in any sliding
// 60-second window.
func NewRateLimiter(perMinute int) *RateLimiter {
	if perMinute <= 0 {
		perMinute = 1
	}
	return &RateLimiter{
		perMinute: perMinute,
		window:    time.Minute,
		now:       time.Now,
		sleep:     time.Sleep,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Wait blocks until the sliding window has room, then records the action.
// It never drops actions, only delays them.
func (l *RateLimiter) Wait() {
	now := l.prune(l.now())
	if len(l.stamps) >= l.perMinute {
		oldest := l.stamps[0]
		if pause := l.window - now.Sub(oldest); pause > 0 {
			l.sleep(pause)
		}
		now = l.prune(l.now())
	}
	l.stamps = append(l.stamps, now)
}

// AddDelay sleeps for base plus a uniform jitter of 0.5–2.0 seconds,
// independent of the rate window.
func (l *RateLimiter) AddDelay(base time.Duration) {
	jitter := 500*time.Millisecond + time.Duration(l.rng.Int63n(int64(1500*time.Millisecond)))
	l.sleep(base + jitter)
}

// HumanDelay sleeps for a uniformly random duration in [min, max].
func (l *RateLimiter) HumanDelay(min, max time.Duration) {
	if max < min {
		max = min
	}
	d := min
	if span := max - min; span > 0 {
		d += time.Duration(l.rng.Int63n(int64(span)))
	}
	l.sleep(d)
}

func (l *RateLimiter) prune(now time.Time) time.Time {
	cutoff := now.Add(-l.window)
	kept := l.stamps[:0]
	for _, stamp := range l.stamps {
		if stamp.After(cutoff) {
			kept = append(kept, stamp)
		}
	}
	l.stamps = kept
	return now
}
