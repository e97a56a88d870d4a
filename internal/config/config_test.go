package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohmanhakim/site-parser/internal/config"
)

func TestWithDefault(t *testing.T) {
	cfg, err := config.WithDefault().Build()
	require.NoError(t, err)

	assert.Equal(t, 200, cfg.MaxPages())
	assert.Equal(t, 5, cfg.MaxDepth())
	assert.Equal(t, 30*time.Second, cfg.MaxDuration())
	assert.Equal(t, 4, cfg.MaxConcurrency())
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout())
	assert.Equal(t, "site-parser/0.1.0", cfg.UserAgent())
	assert.False(t, cfg.IncludeQuery())
	assert.Empty(t, cfg.PhoneRegions())
	assert.Empty(t, cfg.EmailDomainAllowlist())
	assert.True(t, cfg.FocusedCrawling())
	assert.Equal(t, int64(2_000_000), cfg.MaxBodyBytes())
	assert.Equal(t, 200, cfg.MaxLinksPerPage())
	assert.Equal(t, 2, cfg.RetryTotal())
	assert.Equal(t, 0.5, cfg.RetryBackoffFactor())
	assert.Equal(t, "INFO", cfg.LogLevel())
}

func TestBuilderChaining(t *testing.T) {
	cfg, err := config.WithDefault().
		WithMaxPages(10).
		WithMaxDepth(2).
		WithMaxDuration(5 * time.Second).
		WithPhoneRegions([]string{"RU"}).
		WithEmailDomainAllowlist([]string{"gmail.com"}).
		WithFocusedCrawling(false).
		Build()
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.MaxPages())
	assert.Equal(t, 2, cfg.MaxDepth())
	assert.Equal(t, 5*time.Second, cfg.MaxDuration())
	assert.Equal(t, []string{"RU"}, cfg.PhoneRegions())
	assert.Equal(t, []string{"gmail.com"}, cfg.EmailDomainAllowlist())
	assert.False(t, cfg.FocusedCrawling())
}

func TestBuildValidation(t *testing.T) {
	_, err := config.WithDefault().WithMaxPages(0).Build()
	assert.ErrorIs(t, err, config.ErrInvalidConfig)

	_, err = config.WithDefault().WithMaxDuration(0).Build()
	assert.ErrorIs(t, err, config.ErrInvalidConfig)

	_, err = config.WithDefault().WithMaxBodyBytes(0).Build()
	assert.ErrorIs(t, err, config.ErrInvalidConfig)

	// concurrency is clamped, not rejected
	cfg, err := config.WithDefault().WithMaxConcurrency(0).Build()
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.MaxConcurrency())
}

func TestGettersReturnCopies(t *testing.T) {
	cfg, err := config.WithDefault().WithPhoneRegions([]string{"RU", "US"}).Build()
	require.NoError(t, err)

	regions := cfg.PhoneRegions()
	regions[0] = "XX"
	assert.Equal(t, []string{"RU", "US"}, cfg.PhoneRegions())
}

func TestWithConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "parser.json")
	content := `{
		"max_pages": 50,
		"max_seconds": 12.5,
		"phone_regions": ["RU", "BY"],
		"email_domain_allowlist": ["mail.ru"],
		"focused_crawling": false,
		"retry_total": 0,
		"user_agent": "custom-agent/1.0"
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := config.WithConfigFile(path)
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.MaxPages())
	assert.Equal(t, 12500*time.Millisecond, cfg.MaxDuration())
	assert.Equal(t, []string{"RU", "BY"}, cfg.PhoneRegions())
	assert.Equal(t, []string{"mail.ru"}, cfg.EmailDomainAllowlist())
	assert.False(t, cfg.FocusedCrawling())
	assert.Equal(t, 0, cfg.RetryTotal())
	assert.Equal(t, "custom-agent/1.0", cfg.UserAgent())
	// untouched fields keep their defaults
	assert.Equal(t, 5, cfg.MaxDepth())
}

func TestWithConfigFile_Missing(t *testing.T) {
	_, err := config.WithConfigFile(filepath.Join(t.TempDir(), "absent.json"))
	assert.ErrorIs(t, err, config.ErrFileDoesNotExist)
}

func TestWithConfigFile_Malformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := config.WithConfigFile(path)
	assert.ErrorIs(t, err, config.ErrConfigParsingFail)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PARSER_MAX_PAGES", "7")
	t.Setenv("PARSER_MAX_SECONDS", "2.5")
	t.Setenv("PARSER_FOCUSED_CRAWLING", "off")
	t.Setenv("PARSER_PHONE_REGIONS", "ru, us")
	t.Setenv("PARSER_USER_AGENT", "env-agent/2.0")

	cfg, err := config.FromEnv()
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.MaxPages())
	assert.Equal(t, 2500*time.Millisecond, cfg.MaxDuration())
	assert.False(t, cfg.FocusedCrawling())
	assert.Equal(t, []string{"ru", "us"}, cfg.PhoneRegions())
	assert.Equal(t, "env-agent/2.0", cfg.UserAgent())
}

func TestEnvOverrides_Invalid(t *testing.T) {
	t.Setenv("PARSER_MAX_PAGES", "many")

	_, err := config.FromEnv()
	assert.ErrorIs(t, err, config.ErrInvalidEnvValue)
}

func TestEnvOverrides_BlankIgnored(t *testing.T) {
	t.Setenv("PARSER_MAX_PAGES", "")

	cfg, err := config.FromEnv()
	require.NoError(t, err)
	assert.Equal(t, 200, cfg.MaxPages())
}
