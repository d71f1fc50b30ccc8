package config

import (
	"os"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig marks configuration problems the user has to fix.
var ErrInvalidConfig = errors.New("invalid configuration")

type Mode string

const (
	ModeMock   Mode = "mock"
	ModeLive   Mode = "live"
	ModeHybrid Mode = "hybrid"
)

const (
	DefaultPath       = "config.yaml"
	DefaultMaxResults = 10
	DefaultSortBy     = "total_cost"
	dateLayout        = "2006-01-02"
)

type SearchConfig struct {
	Origin      string   `yaml:"origin" json:"origin"`
	Destination string   `yaml:"destination" json:"destination"`
	Cabin       string   `yaml:"cabin" json:"cabin"`
	StartDate   string   `yaml:"start_date" json:"startDate"`
	EndDate     string   `yaml:"end_date" json:"endDate"`
	CreditCard  string   `yaml:"credit_card,omitempty" json:"creditCard,omitempty"`
	Sources     []string `yaml:"sources,omitempty" json:"sources,omitempty"`
	MaxResults  int      `yaml:"max_results" json:"maxResults"`
}

type OutputConfig struct {
	NonstopOnly  bool   `yaml:"nonstop_only" json:"nonstopOnly"`
	SortBy       string `yaml:"sort_by" json:"sortBy"`
	ShowSegments bool   `yaml:"show_segments" json:"showSegments"`
}

type ValuationConfig struct {
	BaselineCashPrice *float64 `yaml:"baseline_cash_price,omitempty" json:"baselineCashPrice,omitempty"`
}

type RatesConfig struct {
	BaseURL  string        `yaml:"base_url,omitempty" json:"baseURL,omitempty"`
	Timeout  time.Duration `yaml:"timeout,omitempty" json:"timeout,omitempty"`
	RedisURL string        `yaml:"redis_url,omitempty" json:"-"`
	RedisTTL time.Duration `yaml:"redis_ttl,omitempty" json:"redisTTL,omitempty"`
}

type Config struct {
	Mode      Mode            `yaml:"mode" json:"mode"`
	APIKey    string          `yaml:"api_key" json:"-"`
	BaseURL   string          `yaml:"base_url,omitempty" json:"baseURL,omitempty"`
	LogLevel  string          `yaml:"log_level,omitempty" json:"logLevel,omitempty"`
	LogFormat string          `yaml:"log_format,omitempty" json:"logFormat,omitempty"`
	Search    SearchConfig    `yaml:"search" json:"search"`
	Output    OutputConfig    `yaml:"output" json:"output"`
	Valuation ValuationConfig `yaml:"valuation" json:"valuation"`
	Rates     RatesConfig     `yaml:"rates" json:"rates"`
}

// env lists the variables that override the config file.
type env struct {
	ConfigPath   string        `envconfig:"AWARDS_CONFIG"`
	APIKey       string        `envconfig:"SEATS_AERO_API_KEY"`
	BaseURL      string        `envconfig:"SEATS_AERO_BASE_URL"`
	Mode         string        `envconfig:"AWARDS_MODE"`
	RedisURL     string        `envconfig:"AWARDS_REDIS_URL"`
	RatesURL     string        `envconfig:"AWARDS_RATES_URL"`
	RatesTimeout time.Duration `envconfig:"AWARDS_RATES_TIMEOUT"`
	LogLevel     string        `envconfig:"AWARDS_LOG_LEVEL"`
	LogFormat    string        `envconfig:"AWARDS_LOG_FORMAT"`
}

func DefaultConfig() *Config {
	return &Config{
		Mode:     ModeLive,
		LogLevel:  "info",
		LogFormat: "text",
		Search: SearchConfig{
			MaxResults: DefaultMaxResults,
		},
		Output: OutputConfig{
			SortBy: DefaultSortBy,
		},
		Rates: RatesConfig{
			Timeout:  5 * time.Second,
			RedisTTL: 24 * time.Hour,
		},
	}
}

// Load reads the YAML file at path (AWARDS_CONFIG, then config.yaml when path
// is empty) and applies environment overrides. A missing or unparsable file
// is an error.
func Load(path string) (*Config, error) {
	var e env
	if err := envconfig.Process("", &e); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "read environment"), ErrInvalidConfig)
	}
	if path == "" {
		path = e.ConfigPath
	}
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithHint(
			errors.Mark(errors.Wrapf(err, "read configuration file %s", path), ErrInvalidConfig),
			"pass --config or set AWARDS_CONFIG to the path of your YAML file",
		)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	cfg.applyEnv(e)
	return cfg, nil
}

// FromEnv returns defaults plus environment overrides, for commands that do
// not need a search section.
func FromEnv() *Config {
	cfg := DefaultConfig()
	var e env
	if err := envconfig.Process("", &e); err == nil {
		cfg.applyEnv(e)
	}
	return cfg
}

// Parse decodes YAML on top of DefaultConfig.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "parse YAML configuration"), ErrInvalidConfig)
	}
	if cfg.Search.MaxResults <= 0 {
		cfg.Search.MaxResults = DefaultMaxResults
	}
	if cfg.Output.SortBy == "" {
		cfg.Output.SortBy = DefaultSortBy
	}
	return cfg.WithMode(string(cfg.Mode)), nil
}

func (c *Config) applyEnv(e env) {
	if e.APIKey != "" {
		c.APIKey = e.APIKey
	}
	if e.BaseURL != "" {
		c.BaseURL = e.BaseURL
	}
	if e.RedisURL != "" {
		c.Rates.RedisURL = e.RedisURL
	}
	if e.RatesURL != "" {
		c.Rates.BaseURL = e.RatesURL
	}
	if e.RatesTimeout > 0 {
		c.Rates.Timeout = e.RatesTimeout
	}
	if e.LogLevel != "" {
		c.LogLevel = e.LogLevel
	}
	if e.LogFormat != "" {
		c.LogFormat = e.LogFormat
	}
	c.WithMode(e.Mode)
}

// WithMode switches the provider mode; unknown or empty values are ignored.
func (c *Config) WithMode(mode string) *Config {
	if mode == "" {
		return c
	}
	switch strings.ToLower(mode) {
	case "mock":
		c.Mode = ModeMock
	case "live":
		c.Mode = ModeLive
	case "hybrid":
		c.Mode = ModeHybrid
	}
	return c
}

func (c *Config) HasCredentials() bool {
	return c.APIKey != ""
}

// CashPrice is the baseline cash fare used for CPP, or nil when not set.
func (c *Config) CashPrice() *float64 {
	return c.Valuation.BaselineCashPrice
}

// Validate checks the search section. Every problem is reported at once.
func (c *Config) Validate() error {
	var problems []string
	s := c.Search
	for _, f := range []struct{ name, value string }{
		{"search.origin", s.Origin},
		{"search.destination", s.Destination},
		{"search.cabin", s.Cabin},
		{"search.start_date", s.StartDate},
		{"search.end_date", s.EndDate},
	} {
		if strings.TrimSpace(f.value) == "" {
			problems = append(problems, f.name+" is required")
		}
	}

	start, startErr := time.Parse(dateLayout, s.StartDate)
	if s.StartDate != "" && startErr != nil {
		problems = append(problems, "search.start_date must be YYYY-MM-DD")
	}
	end, endErr := time.Parse(dateLayout, s.EndDate)
	if s.EndDate != "" && endErr != nil {
		problems = append(problems, "search.end_date must be YYYY-MM-DD")
	}
	if startErr == nil && endErr == nil && end.Before(start) {
		problems = append(problems, "search.end_date is before search.start_date")
	}

	if s.CreditCard == "" && len(s.Sources) == 0 {
		problems = append(problems, "no mileage programs specified: set search.credit_card or search.sources")
	}
	if c.Valuation.BaselineCashPrice != nil && *c.Valuation.BaselineCashPrice < 0 {
		problems = append(problems, "valuation.baseline_cash_price must not be negative")
	}

	if len(problems) > 0 {
		return errors.Mark(errors.Newf("%s", strings.Join(problems, "; ")), ErrInvalidConfig)
	}
	return nil
}
