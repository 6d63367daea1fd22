package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/alvmarrod/site-weaver/internal/config"
	"github.com/alvmarrod/site-weaver/internal/crawler"
	"github.com/alvmarrod/site-weaver/internal/export"
	"github.com/alvmarrod/site-weaver/internal/extract"
	"github.com/alvmarrod/site-weaver/internal/fetch"
	"github.com/alvmarrod/site-weaver/internal/metrics"
	"github.com/alvmarrod/site-weaver/internal/version"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const progressInterval = 10 * time.Second

// runCrawlCmd executes a crawl with the configuration built from flags.
func runCrawlCmd(cmd *cobra.Command, _ []string) error {
	setupLogging(getVerboseFlag(cmd))

	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	return runCrawl(ctx, cfg, cancel)
}

// runCrawl crawls, writes the graph and the metrics file. cancel is invoked
// on the first SIGINT/SIGTERM; a second signal saves what is in memory and
// exits immediately.
func runCrawl(ctx context.Context, cfg *config.Config, cancel context.CancelFunc) error {
	logrus.Infof("Site Weaver %s starting...", version.Get())
	logrus.Infof("Configuration loaded: seed=%s, depth=%d, parallelism=%d, output=%s",
		cfg.StartURL, cfg.MaxDepth, cfg.Parallelism, cfg.Output)

	tracker := metrics.NewTracker()
	fetcher := fetch.NewCollyFetcher(fetch.Options{
		UserAgent: cfg.UserAgent,
		Timeout:   cfg.RequestTimeout(),
	})

	c, err := crawler.NewCrawler(cfg, fetcher, extract.NewLinkExtractor(), crawler.WithTracker(tracker))
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	stopSignals := handleSignals(cancel, func() {
		logrus.Warn("Attempting emergency save...")
		if _, err := export.SaveWithFallback(c.Snapshot(), cfg.Output, cfg.FallbackOutput); err != nil {
			logrus.Errorf("Emergency graph save failed: %v", err)
		}
		writeMetrics(cfg, tracker, "forced_exit")
	})
	defer stopSignals()

	stopProgress := startProgressLogger(tracker)
	graph, err := c.Run(ctx)
	stopProgress()

	if err != nil {
		writeMetrics(cfg, tracker, c.Reason())
		return err
	}

	logrus.Info("Final stats: " + tracker.LogProgress())

	written, err := export.SaveWithFallback(graph, cfg.Output, cfg.FallbackOutput)
	if err != nil {
		writeMetrics(cfg, tracker, c.Reason())
		return err
	}
	if written != cfg.Output {
		logrus.Warnf("Graph written to fallback output %s", written)
	}

	writeMetrics(cfg, tracker, c.Reason())
	return nil
}

// handleSignals cancels the crawl on the first signal and runs emergency
// followed by os.Exit(1) on the second. The returned func stops listening.
func handleSignals(cancel context.CancelFunc, emergency func()) func() {
	sigChan := make(chan os.Signal, 2)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		select {
		case sig := <-sigChan:
			logrus.Infof("Received signal: %v. Finishing in-flight fetches, send again to force quit", sig)
			cancel()
		case <-done:
			return
		}

		select {
		case sig := <-sigChan:
			logrus.Warnf("Received second signal (%v) - forcing immediate exit!", sig)
			emergency()
			os.Exit(1)
		case <-done:
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			signal.Stop(sigChan)
			close(done)
		})
	}
}

// startProgressLogger logs the tracker's progress line periodically until stopped
func startProgressLogger(tracker *metrics.Tracker) func() {
	stop := make(chan struct{})
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(progressInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				logrus.Info(tracker.LogProgress())
			case <-stop:
				return
			}
		}
	}()

	return func() {
		close(stop)
		wg.Wait()
	}
}

func writeMetrics(cfg *config.Config, tracker *metrics.Tracker, reason string) {
	if cfg.MetricsPath == "" {
		return
	}
	if err := tracker.WriteToFile(cfg.MetricsPath, reason); err != nil {
		logrus.Errorf("Failed to write metrics: %v", err)
		return
	}
	logrus.Infof("Metrics written to %s", cfg.MetricsPath)
}
