package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-pg/pg/v10"
)

const (
	SourceREST     = "rest"
	SourcePostgres = "postgres"
)

// Duration is a time.Duration written as a Go duration string in TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", string(text), err)
	}
	d.Duration = parsed

	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

type Config struct {
	// Source selects where articles come from: "rest" or "postgres".
	Source   string
	Database pg.Options
	App      struct {
		Host string
		Port int
	}
	Backend struct {
		URL     string
		Timeout Duration
		Token   string
	}
	Cache struct {
		TTL        Duration
		MaxRetries *int
		RetryDelay Duration
		// WarmSchedule is a cron spec; empty disables warming.
		WarmSchedule string
	}
	// Auth verifies admin tokens for routes that write to storage directly.
	Auth struct {
		URL    string
		APIKey string
	}
	Storage struct {
		Endpoint  string
		AccessKey string
		SecretKey string
		Bucket    string
		UseSSL    bool
		URLExpiry Duration
	}
}

// Option overrides file values after defaults are applied.
type Option func(*Config) error

// WithDatabaseURL replaces Database with the options parsed from a postgres
// URL. An empty URL keeps the file values.
func WithDatabaseURL(rawURL string) Option {
	return func(c *Config) error {
		if rawURL == "" {
			return nil
		}

		opt, err := pg.ParseURL(rawURL)
		if err != nil {
			return fmt.Errorf("parse database url: %w", err)
		}
		opt.MaxRetries = 3
		c.Database = *opt

		return nil
	}
}

// Load decodes a TOML file and applies defaults.
func Load(path string, opts ...Option) (Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("decode config %s: %w", path, err)
	}
	cfg.applyDefaults()

	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return cfg, err
		}
	}

	return cfg, cfg.Validate()
}

func (c *Config) applyDefaults() {
	if c.Source == "" {
		c.Source = SourceREST
	}
	if c.App.Port == 0 {
		c.App.Port = 3000
	}
	if c.Backend.Timeout.Duration == 0 {
		c.Backend.Timeout.Duration = 10 * time.Second
	}
	if c.Cache.TTL.Duration == 0 {
		c.Cache.TTL.Duration = time.Minute
	}
	if c.Cache.MaxRetries == nil {
		maxRetries := 3
		c.Cache.MaxRetries = &maxRetries
	}
	if c.Cache.RetryDelay.Duration == 0 {
		c.Cache.RetryDelay.Duration = time.Second
	}
}

func (c Config) Validate() error {
	switch c.Source {
	case SourceREST:
		if c.Backend.URL == "" {
			return fmt.Errorf("Backend.URL is required for source %q", c.Source)
		}
	case SourcePostgres:
		if c.Database.Addr == "" {
			return fmt.Errorf("Database.Addr is required for source %q", c.Source)
		}
	default:
		return fmt.Errorf("unknown source %q, want %q or %q", c.Source, SourceREST, SourcePostgres)
	}

	if c.Storage.Endpoint != "" && c.Auth.URL == "" {
		return fmt.Errorf("Auth.URL is required when Storage.Endpoint is set")
	}

	if c.Cache.MaxRetries != nil && *c.Cache.MaxRetries < 0 {
		return fmt.Errorf("Cache.MaxRetries must not be negative")
	} else if c.Cache.TTL.Duration < 0 || c.Cache.RetryDelay.Duration < 0 {
		return fmt.Errorf("Cache durations must not be negative")
	}

	return nil
}
