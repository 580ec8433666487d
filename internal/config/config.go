// Vimeo Provider - Vimeo to Catalog Ingest Adapter
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vimeo-provider

// Package config loads and validates daemon configuration.
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins): environment variables, optional YAML config file,
// built-in defaults.
package config

import "time"

// Config is the root configuration for the provider daemon.
type Config struct {
	Vimeo   VimeoConfig   `koanf:"vimeo"`
	NATS    NATSConfig    `koanf:"nats"`
	Server  ServerConfig  `koanf:"server"`
	Logging LoggingConfig `koanf:"logging"`
}

// VimeoConfig configures the upstream Vimeo API client.
type VimeoConfig struct {
	// AccessToken is the default bearer token used when a channel does not
	// carry its own override. Tokens are supplied, never obtained here.
	AccessToken string `koanf:"access_token" validate:"required"`

	APIBaseURL    string `koanf:"api_base_url" validate:"required,url"`
	PlayerBaseURL string `koanf:"player_base_url" validate:"required,url"`

	// Timeout bounds each HTTP request.
	Timeout time.Duration `koanf:"timeout"`

	// CooldownWindow is how long the client refuses requests after an
	// upstream HTTP 429.
	CooldownWindow time.Duration `koanf:"cooldown_window"`

	// PageSize is the album video-list page size used when paginating.
	PageSize int `koanf:"page_size" validate:"min=1,max=100"`

	// RequestsPerSecond throttles outbound requests. 0 disables the limiter.
	RequestsPerSecond float64 `koanf:"requests_per_second" validate:"min=0"`

	// CircuitBreaker wraps the client in a gobreaker decorator.
	CircuitBreaker bool `koanf:"circuit_breaker"`

	// FetchVideoConfig also fetches the player config resource alongside
	// each video, for adaptive-stream source URLs.
	FetchVideoConfig bool `koanf:"fetch_video_config"`
}

// NATSConfig configures the message bus connection.
type NATSConfig struct {
	URL            string        `koanf:"url" validate:"required"`
	Embedded       bool          `koanf:"embedded"`
	QueueGroup     string        `koanf:"queue_group" validate:"required"`
	RequestTimeout time.Duration `koanf:"request_timeout"`
	MaxReconnects  int           `koanf:"max_reconnects"`
	ReconnectWait  time.Duration `koanf:"reconnect_wait"`
}

// ServerConfig configures the health/metrics HTTP listener.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port" validate:"min=1,max=65535"`
	Timeout time.Duration `koanf:"timeout"`
}

// LoggingConfig configures the global logger.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// defaultConfig returns a Config with all default values. Defaults are
// applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Vimeo: VimeoConfig{
			AccessToken:       "",
			APIBaseURL:        "https://api.vimeo.com",
			PlayerBaseURL:     "https://player.vimeo.com",
			Timeout:           30 * time.Second,
			CooldownWindow:    20 * time.Minute,
			PageSize:          25,
			RequestsPerSecond: 0,
			CircuitBreaker:    false,
			FetchVideoConfig:  false,
		},
		NATS: NATSConfig{
			URL:            "nats://127.0.0.1:4222",
			Embedded:       false,
			QueueGroup:     "vimeo-provider",
			RequestTimeout: 10 * time.Second,
			MaxReconnects:  -1, // retry forever
			ReconnectWait:  2 * time.Second,
		},
		Server: ServerConfig{
			Host:    "0.0.0.0",
			Port:    3858,
			Timeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}
