// Package config holds the typed runtime configuration, loaded through
// Viper from an optional YAML file, FIGHTDEX_* environment variables, and
// built-in defaults, in that order of increasing precedence for env over
// file.
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/fightdex/fightdex/pkg/errors"
)

// EnvPrefix namespaces the environment variables read by Viper.
const EnvPrefix = "FIGHTDEX"

// Config is the full runtime configuration.
type Config struct {
	Matching MatchingConfig `mapstructure:"matching"`
	Fetch    FetchConfig    `mapstructure:"fetch"`
	Loader   LoaderConfig   `mapstructure:"loader"`
	Paths    PathsConfig    `mapstructure:"paths"`
	Sources  SourcesConfig  `mapstructure:"sources"`
}

// MatchingConfig tunes the identity matcher.
type MatchingConfig struct {
	// Threshold is the minimum containment score a fuzzy match must reach.
	Threshold float64 `mapstructure:"threshold"`
}

// FetchConfig tunes the fetch stages.
type FetchConfig struct {
	// Workers bounds the per-stage worker pool.
	Workers int `mapstructure:"workers"`

	// RetryWorkers bounds the pool used when retrying ledger entries.
	// Smaller than Workers: retried work already failed once, usually
	// under load.
	RetryWorkers int `mapstructure:"retry_workers"`

	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration `mapstructure:"timeout"`

	Rate RateConfig `mapstructure:"rate"`
}

// RateConfig tunes the shared request gate.
type RateConfig struct {
	MaxRequests int           `mapstructure:"max_requests"`
	Window      time.Duration `mapstructure:"window"`
	MinDelay    time.Duration `mapstructure:"min_delay"`
}

// LoaderConfig tunes the persistence stage.
type LoaderConfig struct {
	BatchSize int  `mapstructure:"batch_size"`
	Enabled   bool `mapstructure:"enabled"`
}

// PathsConfig locates the working files.
type PathsConfig struct {
	// DataDir holds the per-stage snapshot files.
	DataDir string `mapstructure:"data_dir"`

	// LedgerDir holds the persisted failure queues.
	LedgerDir string `mapstructure:"ledger_dir"`

	// Database is the bbolt database file.
	Database string `mapstructure:"database"`

	// Overrides is the manual correction table, optional.
	Overrides string `mapstructure:"overrides"`
}

// SourcesConfig holds per-source base URLs.
type SourcesConfig struct {
	UFC      string `mapstructure:"ufc"`
	Sherdog  string `mapstructure:"sherdog"`
	Tapology string `mapstructure:"tapology"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Matching: MatchingConfig{
			Threshold: 0.70,
		},
		Fetch: FetchConfig{
			Workers:      8,
			RetryWorkers: 3,
			Timeout:      30 * time.Second,
			Rate: RateConfig{
				MaxRequests: 60,
				Window:      time.Minute,
				MinDelay:    time.Second,
			},
		},
		Loader: LoaderConfig{
			BatchSize: 500,
			Enabled:   true,
		},
		Paths: PathsConfig{
			DataDir:   "data",
			LedgerDir: "errors",
			Database:  "fightdex.db",
			Overrides: "overrides.yaml",
		},
		Sources: SourcesConfig{
			UFC:      "https://www.ufc.com",
			Sherdog:  "https://www.sherdog.com",
			Tapology: "https://www.tapology.com",
		},
	}
}

// Load reads configuration from the given file (optional), the
// environment, and defaults. An empty path skips the file entirely.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v, Default())

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, &errors.ConfigError{Component: "file", Message: "cannot read " + path, Err: err}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, &errors.ConfigError{Component: "unmarshal", Message: "invalid configuration", Err: err}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.Matching.Threshold <= 0 || c.Matching.Threshold > 1 {
		return &errors.ConfigError{Component: "matching", Message: "threshold must be in (0, 1]"}
	}
	if c.Fetch.Workers < 1 {
		return &errors.ConfigError{Component: "fetch", Message: "workers must be at least 1"}
	}
	if c.Fetch.RetryWorkers < 1 {
		return &errors.ConfigError{Component: "fetch", Message: "retry_workers must be at least 1"}
	}
	if c.Loader.BatchSize < 1 {
		return &errors.ConfigError{Component: "loader", Message: "batch_size must be at least 1"}
	}
	return nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("matching.threshold", d.Matching.Threshold)
	v.SetDefault("fetch.workers", d.Fetch.Workers)
	v.SetDefault("fetch.retry_workers", d.Fetch.RetryWorkers)
	v.SetDefault("fetch.timeout", d.Fetch.Timeout)
	v.SetDefault("fetch.rate.max_requests", d.Fetch.Rate.MaxRequests)
	v.SetDefault("fetch.rate.window", d.Fetch.Rate.Window)
	v.SetDefault("fetch.rate.min_delay", d.Fetch.Rate.MinDelay)
	v.SetDefault("loader.batch_size", d.Loader.BatchSize)
	v.SetDefault("loader.enabled", d.Loader.Enabled)
	v.SetDefault("paths.data_dir", d.Paths.DataDir)
	v.SetDefault("paths.ledger_dir", d.Paths.LedgerDir)
	v.SetDefault("paths.database", d.Paths.Database)
	v.SetDefault("paths.overrides", d.Paths.Overrides)
	v.SetDefault("sources.ufc", d.Sources.UFC)
	v.SetDefault("sources.sherdog", d.Sources.Sherdog)
	v.SetDefault("sources.tapology", d.Sources.Tapology)
}
