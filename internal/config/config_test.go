// Vimeo Provider - Vimeo to Catalog Ingest Adapter
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vimeo-provider

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	t.Setenv("VIMEO_ACCESS_TOKEN", "test-token")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Vimeo.APIBaseURL != "https://api.vimeo.com" {
		t.Errorf("APIBaseURL = %q", cfg.Vimeo.APIBaseURL)
	}
	if cfg.Vimeo.PlayerBaseURL != "https://player.vimeo.com" {
		t.Errorf("PlayerBaseURL = %q", cfg.Vimeo.PlayerBaseURL)
	}
	if cfg.Vimeo.PageSize != 25 {
		t.Errorf("PageSize = %d, want 25", cfg.Vimeo.PageSize)
	}
	if cfg.Vimeo.CooldownWindow != 20*time.Minute {
		t.Errorf("CooldownWindow = %v, want 20m", cfg.Vimeo.CooldownWindow)
	}
	if cfg.NATS.URL != "nats://127.0.0.1:4222" {
		t.Errorf("NATS.URL = %q", cfg.NATS.URL)
	}
	if cfg.Server.Port != 3858 {
		t.Errorf("Server.Port = %d, want 3858", cfg.Server.Port)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("VIMEO_ACCESS_TOKEN", "test-token")
	t.Setenv("VIMEO_PAGE_SIZE", "50")
	t.Setenv("VIMEO_COOLDOWN_WINDOW", "5m")
	t.Setenv("NATS_URL", "nats://bus:4222")
	t.Setenv("LOGGING_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Vimeo.AccessToken != "test-token" {
		t.Errorf("AccessToken = %q", cfg.Vimeo.AccessToken)
	}
	if cfg.Vimeo.PageSize != 50 {
		t.Errorf("PageSize = %d, want 50", cfg.Vimeo.PageSize)
	}
	if cfg.Vimeo.CooldownWindow != 5*time.Minute {
		t.Errorf("CooldownWindow = %v, want 5m", cfg.Vimeo.CooldownWindow)
	}
	if cfg.NATS.URL != "nats://bus:4222" {
		t.Errorf("NATS.URL = %q", cfg.NATS.URL)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q", cfg.Logging.Level)
	}
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := []byte("vimeo:\n  access_token: file-token\n  page_size: 10\nserver:\n  port: 9999\n")
	if err := os.WriteFile(path, yaml, 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Vimeo.AccessToken != "file-token" {
		t.Errorf("AccessToken = %q, want file-token", cfg.Vimeo.AccessToken)
	}
	if cfg.Vimeo.PageSize != 10 {
		t.Errorf("PageSize = %d, want 10", cfg.Vimeo.PageSize)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("Server.Port = %d, want 9999", cfg.Server.Port)
	}
}

func TestEnvWinsOverFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("vimeo:\n  access_token: file-token\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("VIMEO_ACCESS_TOKEN", "env-token")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Vimeo.AccessToken != "env-token" {
		t.Errorf("AccessToken = %q, want env-token", cfg.Vimeo.AccessToken)
	}
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing access token", func(c *Config) { c.Vimeo.AccessToken = "" }},
		{"bad api url", func(c *Config) { c.Vimeo.APIBaseURL = "not a url" }},
		{"zero page size", func(c *Config) { c.Vimeo.PageSize = 0 }},
		{"oversized page size", func(c *Config) { c.Vimeo.PageSize = 500 }},
		{"zero cooldown", func(c *Config) { c.Vimeo.CooldownWindow = 0 }},
		{"bad port", func(c *Config) { c.Server.Port = 0 }},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }},
		{"missing queue group", func(c *Config) { c.NATS.QueueGroup = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			cfg.Vimeo.AccessToken = "token"
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"VIMEO_ACCESS_TOKEN", "vimeo.access_token"},
		{"VIMEO_COOLDOWN_WINDOW", "vimeo.cooldown_window"},
		{"NATS_URL", "nats.url"},
		{"SERVER_PORT", "server.port"},
		{"LOGGING_LEVEL", "logging.level"},
		{"HOME", ""},
		{"PATH", ""},
		{"SSH_AUTH_SOCK", ""},
	}

	for _, tt := range tests {
		if got := envTransformFunc(tt.key); got != tt.want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}
