// Copyright Redwood Labs, 2026. All rights reserved.

package types

import "time"

// ClientConfig holds settings for talking to the remote conversion API.
type ClientConfig struct {
	// BaseURL is the API root (e.g. "https://v2.convertapi.com").
	BaseURL string `json:"base_url" yaml:"base_url"`

	// Token is the bearer credential sent on every request.
	Token string `json:"token,omitempty" yaml:"token,omitempty"`

	// Timeout is the HTTP request timeout for the conversion call and
	// each result download (default 60s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "convertapi-cli/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// HistoryConfig holds settings for the local conversion history.
type HistoryConfig struct {
	// DBPath is the SQLite database file. Empty disables history.
	DBPath string `json:"db_path" yaml:"db_path"`
}
