// Package config loads and validates the scraper configuration from
// environment variables (prefix FXCAL), an optional YAML file, and CLI
// flag overrides applied by the command layer.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config is the complete application configuration. Values are fixed
// after Load returns; nothing mutates them at runtime.
type Config struct {
	Scrape  ScrapeConfig  `yaml:"scrape" envconfig:"SCRAPE"`
	Fetch   FetchConfig   `yaml:"fetch" envconfig:"FETCH"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Metrics MetricsConfig `yaml:"metrics" envconfig:"METRICS"`
}

// ScrapeConfig controls the traversal and the output sink.
type ScrapeConfig struct {
	// StartDate overrides the automatic resume cursor (YYYY-MM-DD).
	StartDate string `yaml:"start_date" envconfig:"START_DATE" validate:"omitempty,datetime=2006-01-02"`
	// DaysAhead sets the horizon relative to the start date.
	DaysAhead int `yaml:"days_ahead" envconfig:"DAYS_AHEAD" default:"30" validate:"gte=1"`
	// Output is the JSONL sink path, fixed at construction.
	Output string `yaml:"output" envconfig:"OUTPUT" default:"forex_factory_catalog.jsonl" validate:"required"`
	// ErrorLog is the plain-text side file for row-level failures.
	ErrorLog string `yaml:"error_log" envconfig:"ERROR_LOG" default:"errors.csv" validate:"required"`
	// FutureOnly starts the cursor at today in venue time, ignoring
	// any historical resume point.
	FutureOnly bool `yaml:"future_only" envconfig:"FUTURE_ONLY"`
	// UseCalendarNav selects widget-based paginated traversal instead
	// of direct URL-addressed windows.
	UseCalendarNav bool `yaml:"use_calendar_nav" envconfig:"USE_CALENDAR_NAV"`
}

// FetchConfig controls the browser fetch layer and its retry policy.
type FetchConfig struct {
	Headless bool `yaml:"headless" envconfig:"HEADLESS" default:"false"`
	// MaxRetries bounds attempts per page fetch before the failure
	// becomes fatal for the run.
	MaxRetries     int           `yaml:"max_retries" envconfig:"MAX_RETRIES" default:"3" validate:"gte=1"`
	RetryBaseDelay time.Duration `yaml:"retry_base_delay" envconfig:"RETRY_BASE_DELAY" default:"2s"`
	RetryMaxDelay  time.Duration `yaml:"retry_max_delay" envconfig:"RETRY_MAX_DELAY" default:"30s"`
	// MinPageDelay/MaxPageDelay bound the randomized pause between
	// page requests.
	MinPageDelay time.Duration `yaml:"min_page_delay" envconfig:"MIN_PAGE_DELAY" default:"1s"`
	MaxPageDelay time.Duration `yaml:"max_page_delay" envconfig:"MAX_PAGE_DELAY" default:"3s"`
	// PageLoadWait is how long rendered pages get to settle before
	// extraction (actuals load via JavaScript).
	PageLoadWait time.Duration `yaml:"page_load_wait" envconfig:"PAGE_LOAD_WAIT" default:"2s"`
	// NavTimeout bounds each widget-navigation step.
	NavTimeout time.Duration `yaml:"nav_timeout" envconfig:"NAV_TIMEOUT" default:"30s"`
}

// LoggingConfig mirrors the structured-logging setup: JSON handler,
// dual output to stdout and a file.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/fxcal.log"`
}

// MetricsConfig controls the optional Prometheus listener. An empty
// listen address disables it.
type MetricsConfig struct {
	Listen string `yaml:"listen" envconfig:"LISTEN"`
}

// Load builds the configuration: env vars first, then an optional YAML
// file for anything the environment left at its default, then
// validation. CLI flags are applied by the caller afterwards, before
// Validate is called again.
func Load(configFile string) (*Config, error) {
	var cfg Config

	if err := envconfig.Process("FXCAL", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if configFile != "" {
		if err := applyFile(&cfg, configFile); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// applyFile overlays YAML file values onto the config. Only fields
// present in the document are touched; file values win over env values
// and defaults for those fields.
func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// Validate checks structural constraints plus the relations the struct
// tags cannot express.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if c.Fetch.MinPageDelay > c.Fetch.MaxPageDelay {
		return fmt.Errorf("min_page_delay %s exceeds max_page_delay %s",
			c.Fetch.MinPageDelay, c.Fetch.MaxPageDelay)
	}
	if c.Fetch.RetryBaseDelay > c.Fetch.RetryMaxDelay {
		return fmt.Errorf("retry_base_delay %s exceeds retry_max_delay %s",
			c.Fetch.RetryBaseDelay, c.Fetch.RetryMaxDelay)
	}

	if c.Logging.Format != "json" {
		c.Logging.Format = "json"
	}
	if c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/fxcal.log"
	}

	return nil
}

// StartDateTime parses the start-date override in the given venue
// location. Returns the zero time when no override is set.
func (c *ScrapeConfig) StartDateTime(venue *time.Location) (time.Time, error) {
	if c.StartDate == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation("2006-01-02", c.StartDate, venue)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid start date %q: %w", c.StartDate, err)
	}
	return t, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Scrape: ScrapeConfig{
			DaysAhead: 30,
			Output:    "forex_factory_catalog.jsonl",
			ErrorLog:  "errors.csv",
		},
		Fetch: FetchConfig{
			Headless:       false,
			MaxRetries:     3,
			RetryBaseDelay: 2 * time.Second,
			RetryMaxDelay:  30 * time.Second,
			MinPageDelay:   time.Second,
			MaxPageDelay:   3 * time.Second,
			PageLoadWait:   2 * time.Second,
			NavTimeout:     30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "both",
			FilePath: "logs/fxcal.log",
		},
	}
}
