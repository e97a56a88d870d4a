package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rohmanhakim/site-parser/internal/build"
	"github.com/rohmanhakim/site-parser/internal/config"
	"github.com/rohmanhakim/site-parser/internal/scheduler"
)

var (
	cfgFile         string
	diagnostics     bool
	indent          int
	maxPages        int
	maxDepth        int
	maxSeconds      float64
	maxConcurrency  int
	requestTimeout  float64
	userAgent       string
	includeQuery    bool
	phoneRegions    []string
	emailDomains    []string
	focusedCrawling bool
	maxBodyBytes    int64
	maxLinksPerPage int
	retryTotal      int
	backoffFactor   float64
	logLevel        string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "site-parser <start-url>",
	Short: "Extract contact information from a single site.",
	Long: `site-parser crawls all reachable pages of one origin, starting from the
given URL, and prints the deduplicated e-mail addresses and E.164 phone
numbers it finds, as JSON.

The crawl is bounded by page, depth and wall-clock budgets and never
leaves the start URL's host.`,
	Version: build.FullVersion(),
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		logger, err := newLogger(cfg.LogLevel())
		if err != nil {
			return err
		}
		defer logger.Sync()

		engine := scheduler.NewScheduler(cfg, logger)
		result, err := engine.Parse(context.Background(), args[0], diagnostics)
		if err != nil {
			return err
		}

		payload, err := result.AsJSON(indent)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), payload)
		return nil
	},
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	var cfg config.Config
	var err error
	if cfgFile != "" {
		cfg, err = config.WithConfigFile(cfgFile)
	} else {
		cfg, err = config.FromEnv()
	}
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("max-pages") {
		cfg.WithMaxPages(maxPages)
	}
	if flags.Changed("max-depth") {
		cfg.WithMaxDepth(maxDepth)
	}
	if flags.Changed("max-seconds") {
		cfg.WithMaxDuration(time.Duration(maxSeconds * float64(time.Second)))
	}
	if flags.Changed("max-concurrency") {
		cfg.WithMaxConcurrency(maxConcurrency)
	}
	if flags.Changed("timeout") {
		cfg.WithRequestTimeout(time.Duration(requestTimeout * float64(time.Second)))
	}
	if flags.Changed("user-agent") {
		cfg.WithUserAgent(userAgent)
	}
	if flags.Changed("include-query") {
		cfg.WithIncludeQuery(includeQuery)
	}
	if flags.Changed("phone-regions") {
		cfg.WithPhoneRegions(phoneRegions)
	}
	if flags.Changed("email-domains") {
		cfg.WithEmailDomainAllowlist(emailDomains)
	}
	if flags.Changed("focused-crawling") {
		cfg.WithFocusedCrawling(focusedCrawling)
	}
	if flags.Changed("max-body-bytes") {
		cfg.WithMaxBodyBytes(maxBodyBytes)
	}
	if flags.Changed("max-links-per-page") {
		cfg.WithMaxLinksPerPage(maxLinksPerPage)
	}
	if flags.Changed("retry-total") {
		cfg.WithRetryTotal(retryTotal)
	}
	if flags.Changed("retry-backoff-factor") {
		cfg.WithRetryBackoffFactor(backoffFactor)
	}
	if flags.Changed("log-level") {
		cfg.WithLogLevel(logLevel)
	}
	return cfg.Build()
}

func newLogger(level string) (*zap.Logger, error) {
	parsed, err := zapcore.ParseLevel(strings.ToLower(level))
	if err != nil {
		return nil, fmt.Errorf("unknown log level %q: %w", level, err)
	}
	loggerConfig := zap.NewProductionConfig()
	loggerConfig.Level = zap.NewAtomicLevelAt(parsed)
	loggerConfig.OutputPaths = []string{"stderr"}
	return loggerConfig.Build()
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

// ExecuteWithArgs runs the root command against the given arguments and
// returns its stdout. This is a test entry point.
func ExecuteWithArgs(args []string) (string, error) {
	var out strings.Builder
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func init() {
	rootCmd.Flags().StringVar(&cfgFile, "config", "", "path to a JSON config file")
	rootCmd.Flags().BoolVar(&diagnostics, "diagnostics", false, "include run diagnostics in the output")
	rootCmd.Flags().IntVar(&indent, "indent", 0, "indent the JSON output with this many spaces")
	rootCmd.Flags().IntVar(&maxPages, "max-pages", 200, "maximum number of pages to schedule")
	rootCmd.Flags().IntVar(&maxDepth, "max-depth", 5, "maximum link depth from the start URL")
	rootCmd.Flags().Float64Var(&maxSeconds, "max-seconds", 30.0, "wall-clock budget for the crawl, in seconds")
	rootCmd.Flags().IntVar(&maxConcurrency, "max-concurrency", 4, "maximum concurrent fetches")
	rootCmd.Flags().Float64Var(&requestTimeout, "timeout", 10.0, "per-request timeout, in seconds")
	rootCmd.Flags().StringVar(&userAgent, "user-agent", build.DefaultUserAgent(), "User-Agent request header")
	rootCmd.Flags().BoolVar(&includeQuery, "include-query", false, "treat query strings as part of URL identity")
	rootCmd.Flags().StringSliceVar(&phoneRegions, "phone-regions", nil, "dialing regions for local phone numbers (e.g. RU,US)")
	rootCmd.Flags().StringSliceVar(&emailDomains, "email-domains", nil, "keep only e-mails under these domain suffixes")
	rootCmd.Flags().BoolVar(&focusedCrawling, "focused-crawling", true, "visit contact-looking pages first")
	rootCmd.Flags().Int64Var(&maxBodyBytes, "max-body-bytes", 2_000_000, "cap on response bytes kept per page")
	rootCmd.Flags().IntVar(&maxLinksPerPage, "max-links-per-page", 200, "cap on hrefs examined per page")
	rootCmd.Flags().IntVar(&retryTotal, "retry-total", 2, "retries after a transient fetch failure")
	rootCmd.Flags().Float64Var(&backoffFactor, "retry-backoff-factor", 0.5, "scale for the retry backoff, in seconds")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "INFO", "log level (debug, info, warn, error)")
}
