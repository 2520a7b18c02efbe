// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type BotConfig struct {
	Token       string `yaml:"token"`
	Mode        string `yaml:"mode"` // polling | webhook
	WebhookURL  string `yaml:"webhook_url"`
	SecretToken string `yaml:"secret_token"` // validates X-Telegram-Bot-Api-Secret-Token
	Workers     int    `yaml:"workers"`      // polling workers
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type ServerConfig struct {
	Port   int    `yaml:"port"`
	APIKey string `yaml:"api_key"` // bearer token for the notify trigger endpoint
}

type DatabaseConfig struct {
	URL string `yaml:"url"` // empty means in-memory preference store
}

type RedisConfig struct {
	URL      string        `yaml:"url"` // empty means in-memory conversation state
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type EarnConfig struct {
	BaseURL  string `yaml:"base_url"`
	PageSize int    `yaml:"page_size"`
	Mock     bool   `yaml:"mock"` // serve the canned dev listings instead of calling the API
}

type DispatchConfig struct {
	Cron string `yaml:"cron"` // robfig/cron spec, e.g. "@every 30m"
}

type Config struct {
	Bot      BotConfig      `yaml:"bot"`
	Log      LogConfig      `yaml:"log"`
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Earn     EarnConfig     `yaml:"earn"`
	Dispatch DispatchConfig `yaml:"dispatch"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	// defaults
	if cfg.Bot.Workers <= 0 {
		cfg.Bot.Workers = 8
	}
	if cfg.Bot.Mode == "" {
		cfg.Bot.Mode = "polling"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Earn.BaseURL == "" {
		cfg.Earn.BaseURL = "https://earn.superteam.fun"
	}
	if cfg.Earn.PageSize <= 0 {
		cfg.Earn.PageSize = 30
	}
	if cfg.Dispatch.Cron == "" {
		cfg.Dispatch.Cron = "@every 30m"
	}
	cfg.Redis.TTL = normalizeTTL(cfg.Redis.TTL)

	// Minimal validation. Dev runs may omit the token; the app then swaps in
	// the noop transport and never talks to Telegram.
	if cfg.Bot.Token == "" && !dev {
		return nil, errors.New("bot.token is required")
	}
	if cfg.Bot.Mode == "webhook" && cfg.Bot.WebhookURL == "" {
		return nil, errors.New("bot.webhook_url is required in webhook mode")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func normalizeTTL(d time.Duration) time.Duration {
	if d <= 0 {
		return 15 * time.Minute
	}
	return d
}
