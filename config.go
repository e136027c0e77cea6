package typql

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultSlowThreshold is the duration above which an executed statement
// group is logged as slow.
const DefaultSlowThreshold = 200 * time.Millisecond

// Config describes a database connection and how statements reach it.
type Config struct {
	// Vendor names the dialect. When empty it is detected from Driver.
	Vendor string `yaml:"vendor"`

	// Driver is the database/sql driver name.
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`

	// Literal inlines values instead of binding placeholders.
	Literal bool `yaml:"literal"`

	// Batching joins argument-free statements into one multi-statement Exec
	// on vendors that accept it.
	Batching      bool          `yaml:"batching"`
	SlowThreshold time.Duration `yaml:"slow_threshold"`
}

// LoadConfig reads a YAML configuration file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes a YAML configuration.
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the configuration names a driver and a vendor with
// a registered dialect.
func (c Config) Validate() error {
	if c.Driver == "" {
		return ConfigError{Reason: "driver is required"}
	}
	if c.SlowThreshold < 0 {
		return ConfigError{Reason: "slow_threshold must not be negative"}
	}
	_, err := DialectNamed(c.vendorName())
	return err
}

func (c Config) vendorName() string {
	if c.Vendor != "" {
		return c.Vendor
	}
	return c.Driver
}

type options struct {
	logger   *slog.Logger
	literal  bool
	batching bool
	slow     time.Duration
	vendor   string
}

// Option configures a DB.
type Option func(*options)

// WithLogger sets the logger receiving statement records. The default is
// slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithLiteral compiles values inline instead of binding them.
func WithLiteral(literal bool) Option {
	return func(o *options) {
		o.literal = literal
	}
}

// WithBatching joins argument-free statements into one Exec on vendors
// that accept several statements per call.
func WithBatching(batching bool) Option {
	return func(o *options) {
		o.batching = batching
	}
}

// WithSlowThreshold sets the duration above which a statement group is
// logged at warn level. Zero disables the warning.
func WithSlowThreshold(d time.Duration) Option {
	return func(o *options) {
		o.slow = d
	}
}

// WithConfig applies the execution settings of cfg.
func WithConfig(cfg Config) Option {
	return func(o *options) {
		o.literal = cfg.Literal
		o.batching = cfg.Batching
		if cfg.SlowThreshold > 0 {
			o.slow = cfg.SlowThreshold
		}
		if cfg.Vendor != "" {
			o.vendor = cfg.Vendor
		}
	}
}

func newOptions(opts []Option) options {
	o := options{slow: DefaultSlowThreshold}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o
}
