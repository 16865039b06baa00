package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
	"university-results/internal/scrapers/beup"
	"university-results/internal/service"
	"university-results/lib/configutil"

	"github.com/joho/godotenv"
)

const (
	EnvBaseUrl = "BEUP_BASE_URL"
	EnvPort    = "BEUP_PORT"
)

type RetryConfig struct {
	MaxAttempts    int     `json:"max_attempts"`
	InitialDelayMs int     `json:"initial_delay_ms"`
	BackoffFactor  float64 `json:"backoff_factor"`
}

type PortalConfig struct {
	BaseUrl          string      `json:"base_url"`
	TimeoutSeconds   int         `json:"timeout_seconds"`
	UserAgent        string      `json:"user_agent"`
	CloudflareBypass bool        `json:"cloudflare_bypass"`
	RetryNoRecord    bool        `json:"retry_no_record"`
	Retry            RetryConfig `json:"retry"`
}

type BatchConfig struct {
	Size            int    `json:"size"`
	DefaultSemester string `json:"default_semester"`
}

type Config struct {
	Port   int          `json:"port"`
	Portal PortalConfig `json:"portal"`
	Batch  BatchConfig  `json:"batch"`
}

func Default() Config {
	return Config{
		Port: 5000,
		Portal: PortalConfig{
			BaseUrl:        beup.DefaultBaseUrl,
			TimeoutSeconds: int(beup.DefaultTimeout / time.Second),
			UserAgent:      beup.DefaultUserAgent,
			Retry: RetryConfig{
				MaxAttempts:    beup.DefaultRetryPolicy.MaxAttempts,
				InitialDelayMs: int(beup.DefaultRetryPolicy.InitialDelay / time.Millisecond),
				BackoffFactor:  beup.DefaultRetryPolicy.BackoffFactor,
			},
		},
		Batch: BatchConfig{
			Size:            service.DefaultBatchSize,
			DefaultSemester: service.DefaultSemester,
		},
	}
}

// Load reads the json5 config at `name` on top of Default, then applies
// BEUP_BASE_URL and BEUP_PORT from the process environment or, when unset
// there, from the given .env files. Missing files are skipped.
func Load(name string, envFiles ...string) (Config, error) {
	cfg, err := configutil.ReadConfigOrDefault(name, Default())
	if err != nil {
		return Config{}, fmt.Errorf("read %s: %w", name, err)
	}

	env, err := readEnv(envFiles)
	if err != nil {
		return Config{}, err
	}
	err = cfg.applyEnv(env)
	if err != nil {
		return Config{}, err
	}

	return cfg, cfg.Validate()
}

func readEnv(files []string) (map[string]string, error) {
	env := map[string]string{}
	for _, path := range files {
		values, err := godotenv.Read(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		for k, v := range values {
			env[k] = v
		}
	}
	for _, key := range []string{EnvBaseUrl, EnvPort} {
		value := os.Getenv(key)
		if value != "" {
			env[key] = value
		}
	}
	return env, nil
}

func (c *Config) applyEnv(env map[string]string) error {
	if value := env[EnvBaseUrl]; value != "" {
		c.Portal.BaseUrl = value
	}
	if value := env[EnvPort]; value != "" {
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvPort, err)
		}
		c.Port = port
	}
	return nil
}

func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d is out of range", c.Port)
	}
	if c.Portal.BaseUrl == "" {
		return fmt.Errorf("portal.base_url is empty")
	}
	if c.Portal.Retry.MaxAttempts < 1 {
		return fmt.Errorf("portal.retry.max_attempts must be at least 1")
	}
	if c.Batch.Size < 1 {
		return fmt.Errorf("batch.size must be at least 1")
	}
	return nil
}

func (c Config) ClientOptions() beup.ClientOptions {
	return beup.ClientOptions{
		BaseUrl:          c.Portal.BaseUrl,
		Timeout:          time.Duration(c.Portal.TimeoutSeconds) * time.Second,
		UserAgent:        c.Portal.UserAgent,
		CloudflareBypass: c.Portal.CloudflareBypass,
		RetryNoRecord:    c.Portal.RetryNoRecord,
		Retry: beup.RetryPolicy{
			MaxAttempts:   c.Portal.Retry.MaxAttempts,
			InitialDelay:  time.Duration(c.Portal.Retry.InitialDelayMs) * time.Millisecond,
			BackoffFactor: c.Portal.Retry.BackoffFactor,
		},
	}
}

func (c Config) ServiceOptions() service.Options {
	return service.Options{
		BatchSize:       c.Batch.Size,
		DefaultSemester: c.Batch.DefaultSemester,
	}
}
