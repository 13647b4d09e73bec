package config

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"time"
)

type Config struct {
	GetorfPath        string `json:"getorf_path"`
	GetorfTimeoutSecs int64  `json:"getorf_timeout_seconds"`
	SearchURL         string `json:"search_url"`
	HTTPTimeoutSecs   int64  `json:"http_timeout_seconds"`
	LogFile           string `json:"log_file"`
	LogLevel          string `json:"log_level"`
	ReportPath        string `json:"report_path"`
}

// LoadConfig loads a JSON config from the given path. If path is empty, looks for ./config.json.
// A missing file yields the zero Config; callers fall back to package defaults for unset fields.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = "config.json"
	}
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Config{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var c Config
	dec := json.NewDecoder(f)
	if err := dec.Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// GetorfTimeout is zero when unset.
func (c *Config) GetorfTimeout() time.Duration {
	return time.Duration(c.GetorfTimeoutSecs) * time.Second
}

// HTTPTimeout is zero when unset.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSecs) * time.Second
}
