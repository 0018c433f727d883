package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Postgres    PostgresConfig    `yaml:"postgres"`
	Ingest      IngestConfig      `yaml:"ingest"`
	Projections ProjectionsConfig `yaml:"projections"`
	Monitor     MonitorConfig     `yaml:"monitor"`
	Telegram    TelegramConfig    `yaml:"telegram"`
	Server      ServerConfig      `yaml:"server"`
	Scheduler   SchedulerConfig   `yaml:"scheduler"`
	Season      SeasonConfig      `yaml:"season"`
}

type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

type IngestConfig struct {
	// WorkerLimit caps concurrent per-league provider fetches so one batch
	// can't hammer a provider past its rate limits.
	WorkerLimit     int           `yaml:"worker_limit"`
	ProviderTimeout time.Duration `yaml:"provider_timeout"`
	WriteRetries    int           `yaml:"write_retries"`
	UserAgent       string        `yaml:"user_agent"`
}

type ProjectionsConfig struct {
	BaseURL string `yaml:"base_url"`
	// HeadlessFallback renders the rankings page in a headless browser when
	// the plain HTTP response comes back without the embedded data blob.
	HeadlessFallback bool          `yaml:"headless_fallback"`
	Timeout          time.Duration `yaml:"timeout"`
}

type MonitorConfig struct {
	// Threshold is the minimum absolute projection move (points) that gets
	// recorded as a change. Exact tuning is deployment policy, not code.
	Threshold float64 `yaml:"threshold"`
}

type TelegramConfig struct {
	Enabled bool   `yaml:"enabled"`
	Token   string `yaml:"token"`
	ChatID  int64  `yaml:"chat_id"`
}

type ServerConfig struct {
	Port              int           `yaml:"port"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
}

type SchedulerConfig struct {
	// Enabled runs the built-in gocron scheduler. Leave off when an
	// external scheduler (cron, Cloud Scheduler) drives the HTTP entry
	// points instead.
	Enabled       bool          `yaml:"enabled"`
	FullRefresh   string        `yaml:"full_refresh_cron"`
	ScoreInterval time.Duration `yaml:"score_interval"`
	Timezone      string        `yaml:"timezone"`
}

type SeasonConfig struct {
	Year int `yaml:"year"`
	// Start is the Thursday the NFL season kicks off; the current week is
	// derived from it.
	Start time.Time `yaml:"start"`
}

func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Ingest.WorkerLimit <= 0 {
		c.Ingest.WorkerLimit = 4
	}
	if c.Ingest.ProviderTimeout <= 0 {
		c.Ingest.ProviderTimeout = 30 * time.Second
	}
	if c.Ingest.WriteRetries <= 0 {
		c.Ingest.WriteRetries = 3
	}
	if c.Projections.BaseURL == "" {
		c.Projections.BaseURL = "https://www.fantasypros.com"
	}
	if c.Projections.Timeout <= 0 {
		c.Projections.Timeout = 45 * time.Second
	}
	if c.Monitor.Threshold <= 0 {
		c.Monitor.Threshold = 3.0
	}
	if c.Server.ReadHeaderTimeout <= 0 {
		c.Server.ReadHeaderTimeout = 10 * time.Second
	}
}

// CurrentWeek derives the NFL week from the configured season start.
func (c *Config) CurrentWeek(now time.Time) int {
	if c.Season.Start.IsZero() || now.Before(c.Season.Start) {
		return 1
	}
	return int(now.Sub(c.Season.Start).Hours()/(24*7)) + 1
}
