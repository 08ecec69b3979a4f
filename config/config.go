// Package config loads widget configuration from YAML with environment overrides
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/urgency/constants"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "URGENCY_"

// ErrInvalid wraps every validation failure
var ErrInvalid = errors.New("invalid configuration")

// Config is the full widget configuration
type Config struct {
	Product     ProductConfig     `yaml:"product"`
	Countdown   CountdownConfig   `yaml:"countdown"`
	Stock       StockConfig       `yaml:"stock"`
	Pricing     PricingConfig     `yaml:"pricing"`
	SocialProof SocialProofConfig `yaml:"social_proof"`
	Log         LogConfig         `yaml:"log"`
	Metrics     MetricsConfig     `yaml:"metrics"`
	Audio       AudioConfig       `yaml:"audio"`

	// Seed fixes the random source; zero seeds from the clock
	Seed uint64 `yaml:"seed"`
}

// ProductConfig selects the product shown by the widget
type ProductConfig struct {
	ID string `yaml:"id"`
}

// CountdownConfig configures the countdown timer
type CountdownConfig struct {
	Initial time.Duration `yaml:"initial"`
	Tick    time.Duration `yaml:"tick"`
}

// StockConfig configures the stock decay simulator
type StockConfig struct {
	Interval       time.Duration `yaml:"interval"`
	Threshold      float64       `yaml:"threshold"`
	MaxDrop        int           `yaml:"max_drop"`
	SpikeThreshold int           `yaml:"spike_threshold"`
	SpikeMaxCents  int64         `yaml:"spike_max_cents"`
}

// PricingConfig configures the dynamic pricing engine
type PricingConfig struct {
	Interval       time.Duration `yaml:"interval"`
	ClimbCeiling   int           `yaml:"climb_ceiling"`
	ClimbThreshold float64       `yaml:"climb_threshold"`
	ClimbScale     float64       `yaml:"climb_scale"`
	JitterMaxCents int64         `yaml:"jitter_max_cents"`
}

// SocialProofConfig configures the rotator and its message catalog
type SocialProofConfig struct {
	Interval time.Duration `yaml:"interval"`
	Settle   time.Duration `yaml:"settle"`
	Messages []string      `yaml:"messages"`
}

// LogConfig configures the zap logger
type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
	File        string `yaml:"file"` // Empty logs to stderr
}

// MetricsConfig configures the Prometheus endpoint
type MetricsConfig struct {
	Addr string `yaml:"addr"` // Empty disables the endpoint
}

// AudioConfig toggles cue playback
type AudioConfig struct {
	Enabled bool `yaml:"enabled"`
}

// DefaultMessages is the built-in social proof catalog
var DefaultMessages = []string{
	"23 people are looking at this right now",
	"Someone in Berlin just bought this",
	"Only a few left at this price",
	"87 sold in the last 24 hours",
	"In 14 carts right now",
}

// Default returns the reference configuration
func Default() *Config {
	return &Config{
		Product: ProductConfig{ID: "demo-sneaker"},
		Countdown: CountdownConfig{
			Initial: 3*time.Minute + 20*time.Second,
			Tick:    constants.CountdownTickInterval,
		},
		Stock: StockConfig{
			Interval:       constants.StockDecayInterval,
			Threshold:      constants.DecayProbabilityThreshold,
			MaxDrop:        constants.DecayMaxDrop,
			SpikeThreshold: constants.ScarcitySpikeThreshold,
			SpikeMaxCents:  constants.ScarcitySpikeMaxCents,
		},
		Pricing: PricingConfig{
			Interval:       constants.PricingInterval,
			ClimbCeiling:   constants.PricingClimbStockCeiling,
			ClimbThreshold: constants.PricingClimbThreshold,
			ClimbScale:     constants.PricingClimbScale,
			JitterMaxCents: constants.PricingJitterMaxCents,
		},
		SocialProof: SocialProofConfig{
			Interval: constants.SocialProofInterval,
			Settle:   constants.SocialProofSettle,
			Messages: append([]string(nil), DefaultMessages...),
		},
		Log:   LogConfig{Level: "info"},
		Audio: AudioConfig{Enabled: false},
	}
}

// Load reads path over the defaults, applies environment overrides and validates
// A missing file yields the defaults
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		case os.IsNotExist(err):
		default:
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies URGENCY_* environment variables
func (c *Config) applyEnvOverrides() error {
	var result *multierror.Error

	if v := os.Getenv(EnvPrefix + "PRODUCT"); v != "" {
		c.Product.ID = v
	}
	if v := os.Getenv(EnvPrefix + "LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvPrefix + "LOG_FILE"); v != "" {
		c.Log.File = v
	}
	if v := os.Getenv(EnvPrefix + "METRICS_ADDR"); v != "" {
		c.Metrics.Addr = v
	}
	if v := os.Getenv(EnvPrefix + "LOG_DEVELOPMENT"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("%sLOG_DEVELOPMENT: %w", EnvPrefix, err))
		} else {
			c.Log.Development = b
		}
	}
	if v := os.Getenv(EnvPrefix + "AUDIO"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("%sAUDIO: %w", EnvPrefix, err))
		} else {
			c.Audio.Enabled = b
		}
	}
	if v := os.Getenv(EnvPrefix + "SEED"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("%sSEED: %w", EnvPrefix, err))
		} else {
			c.Seed = n
		}
	}
	if v := os.Getenv(EnvPrefix + "COUNTDOWN"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("%sCOUNTDOWN: %w", EnvPrefix, err))
		} else {
			c.Countdown.Initial = d
		}
	}

	if err := result.ErrorOrNil(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// Validate reports every invalid field at once
func (c *Config) Validate() error {
	var result *multierror.Error
	add := func(format string, args ...any) {
		result = multierror.Append(result, fmt.Errorf(format, args...))
	}

	if c.Product.ID == "" {
		add("product.id must be set")
	}
	if c.Countdown.Initial < 0 {
		add("countdown.initial must not be negative, got %v", c.Countdown.Initial)
	}
	if c.Countdown.Tick < 10*time.Millisecond {
		add("countdown.tick must be at least 10ms, got %v", c.Countdown.Tick)
	} else if c.Countdown.Tick%(10*time.Millisecond) != 0 {
		add("countdown.tick must be a whole multiple of 10ms, got %v", c.Countdown.Tick)
	}
	if c.Stock.Interval <= 0 {
		add("stock.interval must be positive, got %v", c.Stock.Interval)
	}
	if c.Stock.Threshold < 0 || c.Stock.Threshold > 1 {
		add("stock.threshold must be in [0, 1], got %v", c.Stock.Threshold)
	}
	if c.Stock.MaxDrop < 1 {
		add("stock.max_drop must be at least 1, got %d", c.Stock.MaxDrop)
	}
	if c.Stock.SpikeMaxCents < 0 {
		add("stock.spike_max_cents must not be negative, got %d", c.Stock.SpikeMaxCents)
	}
	if c.Pricing.Interval <= 0 {
		add("pricing.interval must be positive, got %v", c.Pricing.Interval)
	}
	if c.Pricing.ClimbThreshold < 0 || c.Pricing.ClimbThreshold > 1 {
		add("pricing.climb_threshold must be in [0, 1], got %v", c.Pricing.ClimbThreshold)
	}
	if c.Pricing.ClimbScale < 0 {
		add("pricing.climb_scale must not be negative, got %v", c.Pricing.ClimbScale)
	}
	if c.Pricing.JitterMaxCents < 0 {
		add("pricing.jitter_max_cents must not be negative, got %d", c.Pricing.JitterMaxCents)
	}
	if c.SocialProof.Interval <= 0 {
		add("social_proof.interval must be positive, got %v", c.SocialProof.Interval)
	}
	if c.SocialProof.Settle <= 0 || c.SocialProof.Settle >= c.SocialProof.Interval {
		add("social_proof.settle must be positive and shorter than the interval, got %v", c.SocialProof.Settle)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		add("log.level must be one of debug, info, warn, error, got %q", c.Log.Level)
	}

	if err := result.ErrorOrNil(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}
