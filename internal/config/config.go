package config

import (
	"errors"
	"fmt"
	"time"

	"inkwell/custom_errors"
)

// Config is the full configuration of the job orchestration core.
type Config struct {
	Instance string // Unique identifier for this instance (used in logs and provider callbacks)
	HTTPPort uint   // Port number used to serve the job API (e.g., 8080)

	PostgresURL string // Connection URL of the shared relational store

	ScheduleSecret string // Shared secret the cron caller must present to trigger a claim pass
	ClaimSchedule  string // Cron expression for the optional in-process claim trigger ("" disables it)
	WorkerCount    int    // Number of concurrent workers draining a claimed batch
	BatchSize      int    // Maximum schedule entries claimed per pass

	StepperEnabled bool          // Enables the synthetic progress stepper (non-production only)
	PollInterval   time.Duration // Interval of the client poller's read loop

	// Configuration for the external render provider
	Provider ProviderConfig
}

// ProviderConfig holds external render provider connection settings.
type ProviderConfig struct {
	Name         string // Provider identifier stored on each job row
	BaseURL      string // Render API base URL ("" selects the in-process stub provider)
	TokenURL     string // Auth endpoint issuing short-lived bearer tokens
	ClientID     string
	ClientSecret string
	CallbackURL  string // Address the provider posts progress webhooks to
}

// Option type for functional options pattern
type Option func(*Config) error

// New creates a Config with defaults. Only the instance name is required;
// option errors are collected into a single ValidationError.
func New(instance string, opts ...Option) (*Config, error) {
	if instance == "" {
		return nil, errors.New("config: instance name is required")
	}

	cfg := &Config{
		Instance:      instance,
		HTTPPort:      DefaultHTTPPort,
		WorkerCount:   DefaultWorkerCount,
		BatchSize:     DefaultBatchSize,
		ClaimSchedule: DefaultClaimSchedule,
		PollInterval:  DefaultPollIntervalMS * time.Millisecond,
		Provider:      ProviderConfig{Name: DefaultProviderName},
	}

	validationErrs := &custom_errors.ValidationError{}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			validationErrs.Add(err)
		}
	}

	if validationErrs.HasError() {
		return nil, validationErrs
	}
	return cfg, nil
}

func WithPostgresURL(url string) Option {
	return func(c *Config) error {
		if url == "" {
			return errors.New("postgres config: connection URL is required")
		}
		c.PostgresURL = url
		return nil
	}
}

func WithHTTPPort(port uint) Option {
	return func(c *Config) error {
		if port == 0 {
			return errors.New("http port must be positive")
		}
		c.HTTPPort = port
		return nil
	}
}

func WithScheduleSecret(secret string) Option {
	return func(c *Config) error {
		if secret == "" {
			return errors.New("schedule secret must not be empty")
		}
		c.ScheduleSecret = secret
		return nil
	}
}

func WithClaimSchedule(expr string) Option {
	return func(c *Config) error {
		c.ClaimSchedule = expr
		return nil
	}
}

func WithWorkerCount(n int) Option {
	return func(c *Config) error {
		if n < 1 {
			return errors.New("worker count must be positive")
		}
		c.WorkerCount = n
		return nil
	}
}

func WithBatchSize(n int) Option {
	return func(c *Config) error {
		if n < 1 {
			return errors.New("batch size must be positive")
		}
		c.BatchSize = n
		return nil
	}
}

func WithStepperEnabled(enabled bool) Option {
	return func(c *Config) error {
		c.StepperEnabled = enabled
		return nil
	}
}

func WithPollInterval(d time.Duration) Option {
	return func(c *Config) error {
		if d <= 0 {
			return errors.New("poll interval must be positive")
		}
		c.PollInterval = d
		return nil
	}
}

func WithProvider(p ProviderConfig) Option {
	return func(c *Config) error {
		if p.Name == "" {
			return errors.New("provider config: name is required")
		}
		if p.BaseURL != "" && p.TokenURL == "" {
			return fmt.Errorf("provider config: token URL is required when base URL is %q", p.BaseURL)
		}
		c.Provider = p
		return nil
	}
}
