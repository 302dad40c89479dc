// Package config loads shiptrack settings from .shiptrack/config.json in the
// working directory, overlaid by SHIPTRACK_* environment variables (and an
// optional .env file next to it).
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Defaults
const (
	DefaultScanTimeout        = 1200 * time.Millisecond
	DefaultAuditRetentionDays = 90
	DefaultAuditPruneSchedule = "@daily"
	DefaultLinkBase           = "shiptrack://shipments"
	DefaultLogLevel           = "info"
)

// Environment variables that override the config file.
const (
	EnvDBPath             = "SHIPTRACK_DB_PATH"
	EnvLogDir             = "SHIPTRACK_LOG_DIR"
	EnvLogLevel           = "SHIPTRACK_LOG_LEVEL"
	EnvScanTimeout        = "SHIPTRACK_SCAN_TIMEOUT"
	EnvAuditRetentionDays = "SHIPTRACK_AUDIT_RETENTION_DAYS"
	EnvAuditPruneSchedule = "SHIPTRACK_AUDIT_PRUNE_SCHEDULE"
)

// Config represents the flat shiptrack configuration
type Config struct {
	Version            string `json:"version"`
	DBPath             string `json:"db_path,omitempty"`              // empty means ~/.shiptrack/shiptrack.db
	LogDir             string `json:"log_dir,omitempty"`              // empty disables file logging
	LogLevel           string `json:"log_level,omitempty"`            // debug, info, warn, error
	ScanTimeoutMS      int    `json:"scan_timeout_ms"`                // decoder inactivity timeout
	AuditRetentionDays int    `json:"audit_retention_days"`           // 0 disables pruning
	AuditPruneSchedule string `json:"audit_prune_schedule,omitempty"` // cron spec
	LinkBase           string `json:"link_base,omitempty"`            // prefix for ?code= links
}

// Default returns a config with every field at its default.
func Default() *Config {
	return &Config{
		Version:            "1.0",
		LogLevel:           DefaultLogLevel,
		ScanTimeoutMS:      int(DefaultScanTimeout / time.Millisecond),
		AuditRetentionDays: DefaultAuditRetentionDays,
		AuditPruneSchedule: DefaultAuditPruneSchedule,
		LinkBase:           DefaultLinkBase,
	}
}

// ScanTimeout returns the decoder inactivity timeout.
func (c *Config) ScanTimeout() time.Duration {
	if c.ScanTimeoutMS <= 0 {
		return DefaultScanTimeout
	}
	return time.Duration(c.ScanTimeoutMS) * time.Millisecond
}

// SetScanTimeout stores d as the decoder inactivity timeout. Durations
// under a millisecond are rejected since the file keeps whole milliseconds.
func (c *Config) SetScanTimeout(d time.Duration) error {
	if d < time.Millisecond {
		return fmt.Errorf("scan timeout %s must be at least 1ms", d)
	}
	c.ScanTimeoutMS = int(d / time.Millisecond)
	return nil
}

// LoadConfig reads .shiptrack/config.json from the specified directory.
// Resolution order: cwd only (no home fallback).
// Returns error if no config found - caller should handle accordingly.
func LoadConfig(dir string) (*Config, error) {
	path := filepath.Join(dir, ".shiptrack", "config.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// SaveConfig writes config.json to directory
func SaveConfig(dir string, cfg *Config) error {
	cfgDir := filepath.Join(dir, ".shiptrack")
	if err := os.MkdirAll(cfgDir, 0755); err != nil {
		return fmt.Errorf("failed to create .shiptrack dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path := filepath.Join(cfgDir, "config.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Load resolves the effective config for dir: defaults, then the config
// file if present, then .env, then the process environment.
func Load(dir string) (*Config, error) {
	cfg, err := LoadConfig(dir)
	if errors.Is(err, fs.ErrNotExist) {
		cfg = Default()
	} else if err != nil {
		return nil, err
	}

	// godotenv never overrides variables already set in the environment
	if err := godotenv.Load(filepath.Join(dir, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overlays values from getenv onto c.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv(EnvDBPath); v != "" {
		c.DBPath = v
	}
	if v := getenv(EnvLogDir); v != "" {
		c.LogDir = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.LogLevel = strings.ToLower(v)
	}
	if v := getenv(EnvScanTimeout); v != "" {
		d, err := parseTimeout(v)
		if err == nil {
			err = c.SetScanTimeout(d)
		}
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvScanTimeout, err)
		}
	}
	if v := getenv(EnvAuditRetentionDays); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil || days < 0 {
			return fmt.Errorf("invalid %s: %q is not a non-negative integer", EnvAuditRetentionDays, v)
		}
		c.AuditRetentionDays = days
	}
	if v := getenv(EnvAuditPruneSchedule); v != "" {
		c.AuditPruneSchedule = v
	}
	return nil
}

// parseTimeout accepts a Go duration ("1.5s") or bare milliseconds ("1500").
func parseTimeout(v string) (time.Duration, error) {
	if ms, err := strconv.Atoi(v); err == nil {
		if ms <= 0 {
			return 0, fmt.Errorf("%q must be positive", v)
		}
		return time.Duration(ms) * time.Millisecond, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("%q must be positive", v)
	}
	return d, nil
}
