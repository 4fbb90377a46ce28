package config

import (
	"fmt"
	"math/rand"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// ScrapingConfig tunes the browser session and the acquisition loop.
type ScrapingConfig struct {
	Headless          bool
	PageLoadTimeout   time.Duration
	ExplicitWait      time.Duration
	GrowthWait        time.Duration // per-click wait for the review count to grow
	LoopBudget        time.Duration // wall-clock ceiling for one acquisition pass
	MaxClicks         int
	MaxRetries        int
	SnapshotEvery     int // backup extraction every Nth successful click
	SnapshotThreshold int // backup extraction once visible count exceeds this
	TitleMarkers      []string
	BookingSegments   []string
}

// DelayConfig tunes pacing between browser actions.
type DelayConfig struct {
	HumanLikeMin      time.Duration
	HumanLikeMax      time.Duration
	RetryBase         time.Duration
	RetryStep         time.Duration
	ErrorRecoveryWait time.Duration
	RequestsPerMinute int
}

// OutputConfig controls where results are written and metrics exposed.
type OutputConfig struct {
	DataDir     string
	MetricsAddr string
}

// Config holds scraper configuration.
type Config struct {
	ProfileURLPrefix string
	Scraping         ScrapingConfig
	Delays           DelayConfig
	Output           OutputConfig
	Verbose          bool
}

// DefaultConfig returns conservative defaults for the target site.
func DefaultConfig() *Config {
	return &Config{
		ProfileURLPrefix: "https://www.doctoralia.com.br/",
		Scraping: ScrapingConfig{
			Headless:          true,
			PageLoadTimeout:   45 * time.Second,
			ExplicitWait:      30 * time.Second,
			GrowthWait:        15 * time.Second,
			LoopBudget:        180 * time.Second,
			MaxClicks:         50,
			MaxRetries:        5,
			SnapshotEvery:     3,
			SnapshotThreshold: 50,
			TitleMarkers:      []string{"Dr.", "Dra."},
			BookingSegments:   []string{"/agenda"},
		},
		Delays: DelayConfig{
			HumanLikeMin:      2 * time.Second,
			HumanLikeMax:      4 * time.Second,
			RetryBase:         5 * time.Second,
			RetryStep:         2 * time.Second,
			ErrorRecoveryWait: 10 * time.Second,
			RequestsPerMinute: 6,
		},
		Output: OutputConfig{
			DataDir:     "data",
			MetricsAddr: "",
		},
		Verbose: false,
	}
}

// Validate ensures all configuration values are coherent.
func (c *Config) Validate() error {
	if c.ProfileURLPrefix == "" {
		return fmt.Errorf("profile URL prefix cannot be empty")
	}
	parsed, err := url.Parse(c.ProfileURLPrefix)
	if err != nil {
		return fmt.Errorf("invalid profile URL prefix: %w", err)
	}
	if parsed.Host == "" {
		return fmt.Errorf("profile URL prefix must include a host")
	}

	if c.Scraping.PageLoadTimeout <= 0 {
		return fmt.Errorf("page load timeout must be positive")
	}
	if c.Scraping.ExplicitWait <= 0 {
		return fmt.Errorf("explicit wait must be positive")
	}
	if c.Scraping.GrowthWait <= 0 {
		return fmt.Errorf("growth wait must be positive")
	}
	if c.Scraping.LoopBudget <= 0 {
		return fmt.Errorf("loop budget must be positive")
	}
	if c.Scraping.MaxClicks <= 0 {
		return fmt.Errorf("max clicks must be positive")
	}
	if c.Scraping.MaxRetries <= 0 {
		return fmt.Errorf("max retries must be positive")
	}
	if c.Scraping.SnapshotEvery <= 0 {
		return fmt.Errorf("snapshot interval must be positive")
	}
	if c.Scraping.SnapshotThreshold <= 0 {
		return fmt.Errorf("snapshot threshold must be positive")
	}
	if c.Delays.HumanLikeMin < 0 {
		return fmt.Errorf("human-like min delay cannot be negative")
	}
	if c.Delays.HumanLikeMax < c.Delays.HumanLikeMin {
		return fmt.Errorf("human-like max delay (%s) cannot be below min (%s)",
			c.Delays.HumanLikeMax, c.Delays.HumanLikeMin)
	}
	if c.Delays.RetryBase < 0 {
		return fmt.Errorf("retry base cannot be negative")
	}
	if c.Delays.RetryStep < 0 {
		return fmt.Errorf("retry step cannot be negative")
	}
	if c.Delays.ErrorRecoveryWait < 0 {
		return fmt.Errorf("error recovery wait cannot be negative")
	}
	if c.Delays.RequestsPerMinute <= 0 {
		return fmt.Errorf("requests per minute must be positive")
	}
	if c.Output.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}
	return nil
}

// Host returns the host part of the configured profile URL prefix.
func (c *Config) Host() string {
	parsed, err := url.Parse(c.ProfileURLPrefix)
	if err != nil {
		return ""
	}
	return parsed.Host
}

var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36",
}

// RandomUserAgent draws one entry from the rotation pool.
func RandomUserAgent() string {
	return userAgents[rand.Intn(len(userAgents))]
}

// EnvInt reads an integer environment variable, reporting whether it was set.
func EnvInt(name string) (int, bool, error) {
	raw, ok := os.LookupEnv(name)
	if !ok || strings.TrimSpace(raw) == "" {
		return 0, false, nil
	}
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, false, fmt.Errorf("%s must be an integer: %w", name, err)
	}
	return value, true, nil
}

// EnvString reads a string environment variable, reporting whether it was set.
func EnvString(name string) (string, bool) {
	raw, ok := os.LookupEnv(name)
	if !ok || strings.TrimSpace(raw) == "" {
		return "", false
	}
	return strings.TrimSpace(raw), true
}
