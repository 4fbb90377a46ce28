package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aluiziolira/go-scrape-reviews/config"
	"github.com/aluiziolira/go-scrape-reviews/models"
	"github.com/aluiziolira/go-scrape-reviews/probe"
	"github.com/aluiziolira/go-scrape-reviews/responder"
	"github.com/aluiziolira/go-scrape-reviews/scraper"
	"github.com/aluiziolira/go-scrape-reviews/storage"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	defaultCfg := config.DefaultConfig()
	retriesDefault := defaultCfg.Scraping.MaxRetries
	if value, ok, err := config.EnvInt("SCRAPER_MAX_RETRIES"); err != nil {
		fmt.Fprintf(os.Stderr, "invalid SCRAPER_MAX_RETRIES: %v\n", err)
		os.Exit(1)
	} else if ok {
		retriesDefault = value
	}
	clicksDefault := defaultCfg.Scraping.MaxClicks
	if value, ok, err := config.EnvInt("SCRAPER_MAX_CLICKS"); err != nil {
		fmt.Fprintf(os.Stderr, "invalid SCRAPER_MAX_CLICKS: %v\n", err)
		os.Exit(1)
	} else if ok {
		clicksDefault = value
	}
	dataDirDefault := defaultCfg.Output.DataDir
	if value, ok := config.EnvString("SCRAPER_DATA_DIR"); ok {
		dataDirDefault = value
	}
	metricsDefault := defaultCfg.Output.MetricsAddr
	if value, ok := config.EnvString("SCRAPER_METRICS_ADDR"); ok {
		metricsDefault = value
	}

	url := flag.String("url", "", "Doctor profile URL to scrape")
	headless := flag.Bool("headless", true, "Run the browser headless")
	maxRetries := flag.Int("max-retries", retriesDefault, "Maximum scrape attempts per URL")
	maxClicks := flag.Int("max-clicks", clicksDefault, "Maximum load-more clicks per attempt")
	requestsPerMinute := flag.Int("rpm", defaultCfg.Delays.RequestsPerMinute, "Browser actions allowed per minute")
	dataDir := flag.String("data-dir", dataDirDefault, "Directory for result snapshots")
	staticProbe := flag.Bool("probe", false, "Run a static pre-check before the browser scrape")
	genReplies := flag.Bool("gen-replies", false, "Draft reply suggestions for reviews without one")
	verbose := flag.Bool("v", false, "Enable verbose logging")
	metricsAddr := flag.String("metrics-addr", metricsDefault, "Prometheus metrics listen address (e.g. :9090)")

	flag.Parse()

	logger, level := newLogger(*verbose)
	slog.SetDefault(logger)
	slog.SetLogLoggerLevel(level.Level())

	if *url == "" {
		fmt.Fprintln(os.Stderr, "usage: scraper -url <doctor profile URL> [flags]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	cfg := defaultCfg
	cfg.Scraping.Headless = *headless
	cfg.Scraping.MaxRetries = *maxRetries
	cfg.Scraping.MaxClicks = *maxClicks
	cfg.Delays.RequestsPerMinute = *requestsPerMinute
	cfg.Output.DataDir = *dataDir
	cfg.Output.MetricsAddr = *metricsAddr
	cfg.Verbose = *verbose
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received, finishing in-flight work")
	}()

	if *staticProbe {
		runProbe(cfg, logger, *url)
	}

	s, err := scraper.New(cfg, logger)
	if err != nil {
		slog.Error("initialising scraper", slog.Any("error", err))
		os.Exit(1)
	}
	metrics := scraper.NewMetrics()
	s.WithMetrics(metrics)
	s.WithStore(storage.NewSnapshotStore(cfg.Output.DataDir))

	var metricsServer *http.Server
	if cfg.Output.MetricsAddr != "" {
		metricsServer = &http.Server{
			Addr:    cfg.Output.MetricsAddr,
			Handler: promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}),
		}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics server failed", slog.Any("error", err))
			}
		}()
		slog.Info("metrics server enabled", slog.String("addr", cfg.Output.MetricsAddr))
	}

	startTime := time.Now()
	result, err := s.ScrapeReviews(ctx, *url)
	duration := time.Since(startTime)
	if err != nil {
		slog.Error("scraping failed", slog.Any("error", err))
		os.Exit(1)
	}

	drafts := 0
	if *genReplies {
		generator := responder.NewGenerator(cfg.Output.DataDir, logger)
		generated, genErr := generator.GenerateAll(result)
		if genErr != nil {
			slog.Error("reply drafting failed", slog.Any("error", genErr))
		}
		drafts = len(generated)
	}

	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("metrics server shutdown failed", slog.Any("error", err))
		}
		cancel()
	}

	printSummary(result, duration, cfg.Output.DataDir, drafts)
}

func runProbe(cfg *config.Config, logger *slog.Logger, url string) {
	p, err := probe.New(cfg, logger)
	if err != nil {
		slog.Error("initialising probe", slog.Any("error", err))
		return
	}
	result, err := p.Check(url)
	if err != nil {
		slog.Warn("static probe failed, continuing with the browser scrape", slog.Any("error", err))
		return
	}
	slog.Info("static probe",
		slog.Int("status", result.StatusCode),
		slog.String("doctor", result.DoctorName),
		slog.Int("visible_reviews", result.VisibleReviews),
		slog.Bool("has_load_more", result.HasLoadMore),
	)
}

func printSummary(result *models.ScrapeResult, duration time.Duration, dataDir string, drafts int) {
	separator := "--------------------------------------------------"
	fmt.Println("\n" + separator)
	fmt.Println("Scrape complete")

	doctor := "unknown"
	if result.DoctorName != nil {
		doctor = *result.DoctorName
	}
	withReply := 0
	for _, review := range result.Reviews {
		if review.DoctorReply != nil {
			withReply++
		}
	}

	fmt.Printf("  Doctor:        %s\n", doctor)
	fmt.Printf("  Total reviews: %d\n", result.TotalReviews)
	fmt.Printf("  With reply:    %d\n", withReply)
	fmt.Printf("  Without reply: %d\n", result.TotalReviews-withReply)
	if drafts > 0 {
		fmt.Printf("  Drafted:       %d\n", drafts)
	}
	fmt.Printf("  Duration:      %v\n", duration)
	fmt.Printf("  Data dir:      %s\n", dataDir)
	fmt.Println(separator)
}

func newLogger(verbose bool) (*slog.Logger, *slog.LevelVar) {
	level := &slog.LevelVar{}
	if verbose {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if isTerminal(os.Stdout) {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler), level
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
