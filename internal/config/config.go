package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rohmanhakim/site-parser/internal/build"
)

type Config struct {
	//===============
	// Limits
	//===============
	// Maximum number of pages that may ever be scheduled for fetching
	maxPages int
	// Maximum number of hyperlink hops from the start URL
	maxDepth int
	// Wall-clock budget for the whole crawl
	maxDuration time.Duration
	// Maximum number of fetches in flight at once
	maxConcurrency int

	//===============
	// Fetch
	//===============
	// Maximum time of a single fetch attempt
	requestTimeout time.Duration
	// User agent sent in the request header. In raw string
	userAgent string
	// Cap on how many response bytes are kept per page
	maxBodyBytes int64
	// Number of retries after a transient failure
	retryTotal int
	// Scale for the exponential backoff between retries, in seconds
	retryBackoffFactor float64

	//===============
	// Extraction
	//===============
	// Whether query strings take part in URL identity
	includeQuery bool
	// Dialing regions for local phone candidates. Empty means
	// "infer from the start host's TLD"
	phoneRegions []string
	// Domain suffixes an e-mail must match to be kept. Empty keeps all
	emailDomainAllowlist []string
	// Whether contact-looking URLs are dequeued first
	focusedCrawling bool
	// Cap on hrefs examined per page
	maxLinksPerPage int

	//===============
	// Logging
	//===============
	logLevel string
}

type configDTO struct {
	MaxPages             int      `json:"max_pages,omitempty"`
	MaxDepth             int      `json:"max_depth,omitempty"`
	MaxSeconds           float64  `json:"max_seconds,omitempty"`
	MaxConcurrency       int      `json:"max_concurrency,omitempty"`
	RequestTimeout       float64  `json:"request_timeout,omitempty"`
	UserAgent            string   `json:"user_agent,omitempty"`
	IncludeQuery         *bool    `json:"include_query,omitempty"`
	PhoneRegions         []string `json:"phone_regions,omitempty"`
	EmailDomainAllowlist []string `json:"email_domain_allowlist,omitempty"`
	FocusedCrawling      *bool    `json:"focused_crawling,omitempty"`
	MaxBodyBytes         int64    `json:"max_body_bytes,omitempty"`
	MaxLinksPerPage      int      `json:"max_links_per_page,omitempty"`
	RetryTotal           *int     `json:"retry_total,omitempty"`
	RetryBackoffFactor   *float64 `json:"retry_backoff_factor,omitempty"`
	LogLevel             string   `json:"log_level,omitempty"`
}

func newConfigFromDTO(dto configDTO) (Config, error) {
	cfg, err := WithDefault().Build()
	if err != nil {
		return Config{}, err
	}

	if dto.MaxPages != 0 {
		cfg.maxPages = dto.MaxPages
	}
	if dto.MaxDepth != 0 {
		cfg.maxDepth = dto.MaxDepth
	}
	if dto.MaxSeconds != 0 {
		cfg.maxDuration = secondsToDuration(dto.MaxSeconds)
	}
	if dto.MaxConcurrency != 0 {
		cfg.maxConcurrency = dto.MaxConcurrency
	}
	if dto.RequestTimeout != 0 {
		cfg.requestTimeout = secondsToDuration(dto.RequestTimeout)
	}
	if dto.UserAgent != "" {
		cfg.userAgent = dto.UserAgent
	}
	if dto.IncludeQuery != nil {
		cfg.includeQuery = *dto.IncludeQuery
	}
	if len(dto.PhoneRegions) > 0 {
		cfg.phoneRegions = dto.PhoneRegions
	}
	if len(dto.EmailDomainAllowlist) > 0 {
		cfg.emailDomainAllowlist = dto.EmailDomainAllowlist
	}
	if dto.FocusedCrawling != nil {
		cfg.focusedCrawling = *dto.FocusedCrawling
	}
	if dto.MaxBodyBytes != 0 {
		cfg.maxBodyBytes = dto.MaxBodyBytes
	}
	if dto.MaxLinksPerPage != 0 {
		cfg.maxLinksPerPage = dto.MaxLinksPerPage
	}
	if dto.RetryTotal != nil {
		cfg.retryTotal = *dto.RetryTotal
	}
	if dto.RetryBackoffFactor != nil {
		cfg.retryBackoffFactor = *dto.RetryBackoffFactor
	}
	if dto.LogLevel != "" {
		cfg.logLevel = dto.LogLevel
	}

	return cfg.applyValidation()
}

// WithConfigFile loads a JSON config file on top of the defaults and
// then applies any PARSER_* environment overrides.
func WithConfigFile(path string) (Config, error) {
	_, err := os.Stat(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrFileDoesNotExist, err.Error())
	}
	configContent, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrReadConfigFail, err.Error())
	}
	cfgDTO := configDTO{}

	err = json.Unmarshal(configContent, &cfgDTO)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrConfigParsingFail, err.Error())
	}

	cfg, err := newConfigFromDTO(cfgDTO)
	if err != nil {
		return Config{}, err
	}
	return cfg.applyEnv(os.Environ())
}

// FromEnv builds a Config from defaults plus PARSER_* environment
// overrides, with no config file involved.
func FromEnv() (Config, error) {
	cfg, err := WithDefault().Build()
	if err != nil {
		return Config{}, err
	}
	return cfg.applyEnv(os.Environ())
}

// WithDefault creates a new Config with default values for all fields.
func WithDefault() *Config {
	defaultConfig := Config{
		maxPages:             200,
		maxDepth:             5,
		maxDuration:          30 * time.Second,
		maxConcurrency:       4,
		requestTimeout:       10 * time.Second,
		userAgent:            build.DefaultUserAgent(),
		includeQuery:         false,
		phoneRegions:         nil,
		emailDomainAllowlist: nil,
		focusedCrawling:      true,
		maxBodyBytes:         2_000_000,
		maxLinksPerPage:      200,
		retryTotal:           2,
		retryBackoffFactor:   0.5,
		logLevel:             "INFO",
	}
	return &defaultConfig
}

func (c *Config) WithMaxPages(pages int) *Config {
	c.maxPages = pages
	return c
}

func (c *Config) WithMaxDepth(depth int) *Config {
	c.maxDepth = depth
	return c
}

func (c *Config) WithMaxDuration(d time.Duration) *Config {
	c.maxDuration = d
	return c
}

func (c *Config) WithMaxConcurrency(concurrency int) *Config {
	c.maxConcurrency = concurrency
	return c
}

func (c *Config) WithRequestTimeout(timeout time.Duration) *Config {
	c.requestTimeout = timeout
	return c
}

func (c *Config) WithUserAgent(agent string) *Config {
	c.userAgent = agent
	return c
}

func (c *Config) WithIncludeQuery(includeQuery bool) *Config {
	c.includeQuery = includeQuery
	return c
}

func (c *Config) WithPhoneRegions(regions []string) *Config {
	c.phoneRegions = regions
	return c
}

func (c *Config) WithEmailDomainAllowlist(suffixes []string) *Config {
	c.emailDomainAllowlist = suffixes
	return c
}

func (c *Config) WithFocusedCrawling(focused bool) *Config {
	c.focusedCrawling = focused
	return c
}

func (c *Config) WithMaxBodyBytes(maxBytes int64) *Config {
	c.maxBodyBytes = maxBytes
	return c
}

func (c *Config) WithMaxLinksPerPage(maxLinks int) *Config {
	c.maxLinksPerPage = maxLinks
	return c
}

func (c *Config) WithRetryTotal(retries int) *Config {
	c.retryTotal = retries
	return c
}

func (c *Config) WithRetryBackoffFactor(factor float64) *Config {
	c.retryBackoffFactor = factor
	return c
}

func (c *Config) WithLogLevel(level string) *Config {
	c.logLevel = level
	return c
}

func (c *Config) Build() (Config, error) {
	return c.applyValidation()
}

func (c *Config) applyValidation() (Config, error) {
	if c.maxPages < 1 {
		return Config{}, fmt.Errorf("%w: max_pages must be positive", ErrInvalidConfig)
	}
	if c.maxDepth < 0 {
		return Config{}, fmt.Errorf("%w: max_depth cannot be negative", ErrInvalidConfig)
	}
	if c.maxDuration <= 0 {
		return Config{}, fmt.Errorf("%w: max_seconds must be positive", ErrInvalidConfig)
	}
	if c.maxConcurrency < 1 {
		c.maxConcurrency = 1
	}
	if c.retryTotal < 0 {
		return Config{}, fmt.Errorf("%w: retry_total cannot be negative", ErrInvalidConfig)
	}
	if c.maxBodyBytes < 1 {
		return Config{}, fmt.Errorf("%w: max_body_bytes must be positive", ErrInvalidConfig)
	}
	if c.maxLinksPerPage < 0 {
		return Config{}, fmt.Errorf("%w: max_links_per_page cannot be negative", ErrInvalidConfig)
	}
	return *c, nil
}

func (c Config) MaxPages() int {
	return c.maxPages
}

func (c Config) MaxDepth() int {
	return c.maxDepth
}

func (c Config) MaxDuration() time.Duration {
	return c.maxDuration
}

func (c Config) MaxConcurrency() int {
	return c.maxConcurrency
}

func (c Config) RequestTimeout() time.Duration {
	return c.requestTimeout
}

func (c Config) UserAgent() string {
	return c.userAgent
}

func (c Config) IncludeQuery() bool {
	return c.includeQuery
}

func (c Config) PhoneRegions() []string {
	regions := make([]string, len(c.phoneRegions))
	copy(regions, c.phoneRegions)
	return regions
}

func (c Config) EmailDomainAllowlist() []string {
	suffixes := make([]string, len(c.emailDomainAllowlist))
	copy(suffixes, c.emailDomainAllowlist)
	return suffixes
}

func (c Config) FocusedCrawling() bool {
	return c.focusedCrawling
}

func (c Config) MaxBodyBytes() int64 {
	return c.maxBodyBytes
}

func (c Config) MaxLinksPerPage() int {
	return c.maxLinksPerPage
}

func (c Config) RetryTotal() int {
	return c.retryTotal
}

func (c Config) RetryBackoffFactor() float64 {
	return c.retryBackoffFactor
}

func (c Config) LogLevel() string {
	return c.logLevel
}

func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}
