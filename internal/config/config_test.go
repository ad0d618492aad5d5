package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Schedule.SyncCron != "@every 90s" {
		t.Errorf("sync cron default: %q", cfg.Schedule.SyncCron)
	}
	if cfg.Schedule.IntegrityCron != "@every 30s" {
		t.Errorf("integrity cron default: %q", cfg.Schedule.IntegrityCron)
	}
	if cfg.Resync.RejectionThreshold != 3 {
		t.Errorf("rejection threshold default: %d", cfg.Resync.RejectionThreshold)
	}
	if cfg.Resync.CooldownSeconds != 300 {
		t.Errorf("cooldown default: %d", cfg.Resync.CooldownSeconds)
	}
	if cfg.Client.Profile != "desktop" {
		t.Errorf("profile default: %q", cfg.Client.Profile)
	}
}

func TestLoad_FileAndOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
api:
  base_url: https://api.example.com
  session_id: sess-1
client:
  profile: mobile
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ECONOMY_USER_ID", "user-9")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.BaseURL != "https://api.example.com" {
		t.Errorf("base_url: %q", cfg.API.BaseURL)
	}
	if cfg.Client.Profile != "mobile" {
		t.Errorf("profile: %q", cfg.Client.Profile)
	}
	if cfg.API.UserID != "user-9" {
		t.Errorf("env override not applied: %q", cfg.API.UserID)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{}
		cfg.API.BaseURL = "https://api.example.com"
		cfg.API.SessionID = "sess-1"
		cfg.Client.Profile = "desktop"
		return cfg
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	cfg := valid()
	cfg.API.BaseURL = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for missing base_url")
	}

	cfg = valid()
	cfg.API.SessionID = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected error when neither identity is set")
	}

	cfg = valid()
	cfg.Client.Profile = "tablet"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown profile")
	}
}
