package config

import "time"

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`
	DatabasePath      string        `mapstructure:"database_path" yaml:"database_path"`
	MaxMessageLen     int           `mapstructure:"max_message_len" yaml:"max_message_len"`
	HistoryLimit      int           `mapstructure:"history_limit" yaml:"history_limit"`
	SendBuffer        int           `mapstructure:"send_buffer" yaml:"send_buffer"`
	ThreadsBaseURL    string        `mapstructure:"threads_base_url" yaml:"threads_base_url"`
	ThreadsCacheTTL   time.Duration `mapstructure:"threads_cache_ttl" yaml:"threads_cache_ttl"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":8080",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		LogLevel:          "info",
		DatabasePath:      "chat.db",
		MaxMessageLen:     2000,
		HistoryLimit:      500,
		SendBuffer:        32,
		ThreadsBaseURL:    "https://api.jolpi.ca/ergast/f1",
		ThreadsCacheTTL:   5 * time.Minute,
	}
}

// UpdateFrom overwrites non-zero values from other config into receiver.
func (c *Config) UpdateFrom(other Config) {
	if other.Addr != "" {
		c.Addr = other.Addr
	}
	if other.ReadHeaderTimeout != 0 {
		c.ReadHeaderTimeout = other.ReadHeaderTimeout
	}
	if other.ShutdownTimeout != 0 {
		c.ShutdownTimeout = other.ShutdownTimeout
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.DatabasePath != "" {
		c.DatabasePath = other.DatabasePath
	}
	if other.MaxMessageLen != 0 {
		c.MaxMessageLen = other.MaxMessageLen
	}
	if other.HistoryLimit != 0 {
		c.HistoryLimit = other.HistoryLimit
	}
	if other.SendBuffer != 0 {
		c.SendBuffer = other.SendBuffer
	}
	if other.ThreadsBaseURL != "" {
		c.ThreadsBaseURL = other.ThreadsBaseURL
	}
	if other.ThreadsCacheTTL != 0 {
		c.ThreadsCacheTTL = other.ThreadsCacheTTL
	}
}
