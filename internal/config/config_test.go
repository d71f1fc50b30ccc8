package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
api_key: file-key
mode: hybrid
search:
  origin: SFO
  destination: NRT
  cabin: business
  start_date: "2026-03-01"
  end_date: "2026-03-15"
  credit_card: chase
  max_results: 25
output:
  nonstop_only: true
  sort_by: cpp
  show_segments: true
valuation:
  baseline_cash_price: 4500.50
rates:
  timeout: 2s
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_ParsesFile(t *testing.T) {
	path := writeConfig(t, sampleYAML)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ModeHybrid, cfg.Mode)
	assert.Equal(t, "file-key", cfg.APIKey)
	assert.Equal(t, "SFO", cfg.Search.Origin)
	assert.Equal(t, "business", cfg.Search.Cabin)
	assert.Equal(t, "chase", cfg.Search.CreditCard)
	assert.Equal(t, 25, cfg.Search.MaxResults)
	assert.True(t, cfg.Output.NonstopOnly)
	assert.Equal(t, "cpp", cfg.Output.SortBy)
	assert.True(t, cfg.Output.ShowSegments)
	require.NotNil(t, cfg.CashPrice())
	assert.Equal(t, 4500.50, *cfg.CashPrice())
	assert.Equal(t, 2*time.Second, cfg.Rates.Timeout)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, sampleYAML)
	t.Setenv("SEATS_AERO_API_KEY", "env-key")
	t.Setenv("AWARDS_MODE", "MOCK")
	t.Setenv("AWARDS_REDIS_URL", "redis://localhost:6379/1")
	t.Setenv("AWARDS_RATES_TIMEOUT", "750ms")
	t.Setenv("AWARDS_LOG_FORMAT", "json")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.APIKey)
	assert.Equal(t, ModeMock, cfg.Mode)
	assert.Equal(t, "redis://localhost:6379/1", cfg.Rates.RedisURL)
	assert.Equal(t, 750*time.Millisecond, cfg.Rates.Timeout)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoad_PathFromEnv(t *testing.T) {
	path := writeConfig(t, sampleYAML)
	t.Setenv("AWARDS_CONFIG", path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "NRT", cfg.Search.Destination)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
	assert.NotEmpty(t, errors.GetAllHints(err))
}

func TestLoad_BadYAML(t *testing.T) {
	path := writeConfig(t, "search: [unterminated")
	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("search:\n  origin: JFK\n"))
	require.NoError(t, err)
	assert.Equal(t, ModeLive, cfg.Mode)
	assert.Equal(t, DefaultMaxResults, cfg.Search.MaxResults)
	assert.Equal(t, DefaultSortBy, cfg.Output.SortBy)
	assert.Nil(t, cfg.CashPrice())
	assert.False(t, cfg.HasCredentials())
}

func TestValidate_ReportsAllProblems(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Search.StartDate = "03/01/2026"

	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
	for _, want := range []string{
		"search.origin is required",
		"search.destination is required",
		"search.cabin is required",
		"search.end_date is required",
		"search.start_date must be YYYY-MM-DD",
		"no mileage programs specified",
	} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestValidate_EndBeforeStart(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Search = SearchConfig{
		Origin: "YUL", Destination: "CDG", Cabin: "economy",
		StartDate: "2026-06-20", EndDate: "2026-06-12",
		Sources: []string{"aeroplan"},
	}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "before")
}

func TestWithMode(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, ModeHybrid, cfg.WithMode("Hybrid").Mode)
	assert.Equal(t, ModeHybrid, cfg.WithMode("").Mode)
	assert.Equal(t, ModeHybrid, cfg.WithMode("bogus").Mode)
	assert.Equal(t, ModeMock, cfg.WithMode("mock").Mode)
}
