package main

import (
	"fmt"
	"os"
	"time"

	"github.com/alvmarrod/site-weaver/internal/config"
	"github.com/alvmarrod/site-weaver/internal/version"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command, which runs a crawl.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "site-weaver",
		Short: "Crawl a website and export its link graph",
		Long: `Site Weaver crawls a website breadth-first from a seed URL, one depth level
at a time, and records every page and link it finds as a directed graph.

The graph is written to --output. The format follows the file extension:
.gexf (default), .json, .csv or .db/.sqlite.`,
		Args:          cobra.NoArgs,
		Version:       version.Get(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runCrawlCmd,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.Flags().StringP("start-url", "s", "", "Seed URL the crawl starts from (required)")
	cmd.Flags().StringP("url-regex", "r", config.DefaultURLRegex,
		"Only URLs matching this pattern from their first character are followed")
	cmd.Flags().IntP("parallelism", "p", config.DefaultParallelism, "Maximum concurrent fetches")
	cmd.Flags().IntP("max-depth", "d", config.DefaultMaxDepth,
		"Deepest level that is fetched (0 fetches only the seed)")
	cmd.Flags().StringP("output", "o", config.DefaultOutput, "Graph output file")
	cmd.Flags().StringP("config", "c", "", "JSON or YAML configuration file")
	cmd.Flags().Duration("timeout", time.Duration(config.DefaultRequestTimeoutMs)*time.Millisecond,
		"Per-request fetch timeout")
	cmd.Flags().String("user-agent", config.DefaultUserAgent, "User-Agent header sent with every request")
	cmd.Flags().String("domain-scope", config.ScopeHost,
		"Which hosts count as in-domain: host, subdomain or registrable")
	cmd.Flags().Int("max-subdomains", 0, "Maximum hosts per registrable domain to expand (0 = unlimited)")
	cmd.Flags().StringArray("exclude", nil, "Regex of URLs to ignore (repeatable)")
	cmd.Flags().String("fallback-output", "", "Second output file tried if writing --output fails")
	cmd.Flags().String("metrics", "", "Write crawl metrics as JSON to this file")

	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setupLogging configures the global logrus logger
func setupLogging(verbose bool) {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
		return
	}
	logrus.SetLevel(logrus.InfoLevel)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig starts from the config file, or the defaults when there is
// none, and applies every flag the user set explicitly.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	flags := cmd.Flags()

	cfg := config.Default()
	configPath, err := flags.GetString("config")
	if err != nil {
		return nil, err
	}
	if configPath != "" {
		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
	}

	stringFlags := map[string]*string{
		"start-url":       &cfg.StartURL,
		"url-regex":       &cfg.URLRegex,
		"output":          &cfg.Output,
		"user-agent":      &cfg.UserAgent,
		"domain-scope":    &cfg.DomainScope,
		"fallback-output": &cfg.FallbackOutput,
		"metrics":         &cfg.MetricsPath,
	}
	for name, dst := range stringFlags {
		if !flags.Changed(name) {
			continue
		}
		if *dst, err = flags.GetString(name); err != nil {
			return nil, err
		}
	}

	intFlags := map[string]*int{
		"parallelism":    &cfg.Parallelism,
		"max-depth":      &cfg.MaxDepth,
		"max-subdomains": &cfg.MaxSubdomains,
	}
	for name, dst := range intFlags {
		if !flags.Changed(name) {
			continue
		}
		if *dst, err = flags.GetInt(name); err != nil {
			return nil, err
		}
	}

	if flags.Changed("timeout") {
		timeout, err := flags.GetDuration("timeout")
		if err != nil {
			return nil, err
		}
		cfg.RequestTimeoutMs = int(timeout.Milliseconds())
	}

	if flags.Changed("exclude") {
		if cfg.ExcludePatterns, err = flags.GetStringArray("exclude"); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}
