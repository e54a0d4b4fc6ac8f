// Package config provides credential and settings management for gitquill.
package config

// Credentials holds the API key and endpoint base URL for the inference
// API. Loaded once per invocation and immutable for the run.
type Credentials struct {
	APIKey  string
	BaseURL string
}

// Settings represents the optional, non-secret gitquill preferences.
type Settings struct {
	Model   string        `mapstructure:"model"`
	UI      UIConfig      `mapstructure:"ui"`
	History HistoryConfig `mapstructure:"history"`
}

// UIConfig contains UI-related settings.
type UIConfig struct {
	Editor       string `mapstructure:"editor"`
	ColorEnabled bool   `mapstructure:"color_enabled"`
}

// HistoryConfig contains history-related settings.
type HistoryConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	MaxEntries int    `mapstructure:"max_entries"`
	FilePath   string `mapstructure:"file_path"`
}
