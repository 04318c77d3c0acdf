package config

import (
	"path/filepath"
	"testing"
	"time"
)

func loadDefaults(t *testing.T) *Config {
	t.Helper()
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load defaults: %v", err)
	}
	cfg.Alpaca.KeyID = "key"
	cfg.Alpaca.SecretKey = "secret"
	return cfg
}

func TestValidate_Defaults(t *testing.T) {
	cfg := loadDefaults(t)
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
	if cfg.CycleEvery != 5*time.Minute {
		t.Errorf("cycle interval = %v, want 5m", cfg.CycleEvery)
	}
	if cfg.OpenBoundary != 13*time.Hour+35*time.Minute {
		t.Errorf("open boundary = %v, want 13h35m", cfg.OpenBoundary)
	}
	if cfg.CloseBoundary != 19*time.Hour+30*time.Minute {
		t.Errorf("close boundary = %v, want 19h30m", cfg.CloseBoundary)
	}
}

func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing key", func(c *Config) { c.Alpaca.KeyID = "" }},
		{"missing secret", func(c *Config) { c.Alpaca.SecretKey = "" }},
		{"bad cap", func(c *Config) { c.Trading.PerSymbolCap = -1 }},
		{"bad interval", func(c *Config) { c.Trading.CycleInterval = "soon" }},
		{"bad boundary", func(c *Config) { c.Trading.OpenBoundaryUTC = "quarter past" }},
		{"boundary out of range", func(c *Config) { c.Trading.CloseBoundaryUTC = "25:00" }},
		{"inverted window", func(c *Config) {
			c.Trading.OpenBoundaryUTC = "19:30"
			c.Trading.CloseBoundaryUTC = "13:35"
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := loadDefaults(t)
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}

func TestSpecFor(t *testing.T) {
	spec, err := SpecFor(ResolutionHourly)
	if err != nil {
		t.Fatalf("hourly spec: %v", err)
	}
	if spec.QueryTimeFrame != TimeFrameFifteenMin || !spec.Resample {
		t.Errorf("hourly must be a resampled 15-minute query, got %+v", spec)
	}

	if _, err := SpecFor(Resolution("weekly")); err == nil {
		t.Error("unrecognized resolution must error")
	}

	if err := ValidateResolutionTable(); err != nil {
		t.Errorf("resolution table must validate: %v", err)
	}
}
