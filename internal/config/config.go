package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	API struct {
		BaseURL   string `yaml:"base_url"`
		SessionID string `yaml:"session_id"`
		UserID    string `yaml:"user_id"`
	} `yaml:"api"`
	Client struct {
		Profile   string `yaml:"profile"` // "desktop" or "mobile"
		StateFile string `yaml:"state_file"`
	} `yaml:"client"`
	Schedule struct {
		SyncCron      string `yaml:"sync_cron"`
		IntegrityCron string `yaml:"integrity_cron"`
		EventCron     string `yaml:"event_cron"`
	} `yaml:"schedule"`
	Resync struct {
		RejectionThreshold int `yaml:"rejection_threshold"`
		CooldownSeconds    int `yaml:"cooldown_seconds"`
	} `yaml:"resync"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("ECONOMY_BASE_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("ECONOMY_SESSION_ID"); v != "" {
		cfg.API.SessionID = v
	}
	if v := os.Getenv("ECONOMY_USER_ID"); v != "" {
		cfg.API.UserID = v
	}
	if v := os.Getenv("CLIENT_PROFILE"); v != "" {
		cfg.Client.Profile = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}

	// Defaults
	if cfg.Client.Profile == "" {
		cfg.Client.Profile = "desktop"
	}
	if cfg.Client.StateFile == "" {
		cfg.Client.StateFile = "data/economy_state.json"
	}
	if cfg.Schedule.SyncCron == "" {
		cfg.Schedule.SyncCron = "@every 90s"
	}
	if cfg.Schedule.IntegrityCron == "" {
		cfg.Schedule.IntegrityCron = "@every 30s"
	}
	if cfg.Schedule.EventCron == "" {
		cfg.Schedule.EventCron = "@every 60s"
	}
	if cfg.Resync.RejectionThreshold == 0 {
		cfg.Resync.RejectionThreshold = 3
	}
	if cfg.Resync.CooldownSeconds == 0 {
		cfg.Resync.CooldownSeconds = 300
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/economy_sentinel.db"
	}

	return cfg, nil
}

// Validate checks that all required fields are set and consistent.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if c.API.SessionID == "" && c.API.UserID == "" {
		return fmt.Errorf("one of api.session_id or api.user_id is required")
	}
	if c.Client.Profile != "desktop" && c.Client.Profile != "mobile" {
		return fmt.Errorf("client.profile must be desktop or mobile, got %q", c.Client.Profile)
	}
	return nil
}
