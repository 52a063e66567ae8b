package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Match.Threshold != 80 {
		t.Errorf("default threshold = %d, want 80", cfg.Match.Threshold)
	}
	if cfg.Years.Min != 2010 || cfg.Years.Max != 2021 {
		t.Errorf("default year range = %d-%d, want 2010-2021", cfg.Years.Min, cfg.Years.Max)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Data.SODPattern != "SOD*.csv" {
		t.Errorf("expected default SOD pattern, got %q", cfg.Data.SODPattern)
	}
}

func TestLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bankpanel.yaml")

	cfg := DefaultConfig()
	cfg.Match.Threshold = 90
	cfg.Data.Dir = "/srv/bankdata"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Match.Threshold != 90 {
		t.Errorf("threshold = %d, want 90", loaded.Match.Threshold)
	}
	if loaded.Data.Dir != "/srv/bankdata" {
		t.Errorf("data dir = %q, want /srv/bankdata", loaded.Data.Dir)
	}
}

func TestEnvOverrides(t *testing.T) {
	os.Setenv("BANKPANEL_MATCH_THRESHOLD", "85")
	os.Setenv("BANKPANEL_DATA_DIR", "/mnt/regdata")
	defer os.Unsetenv("BANKPANEL_MATCH_THRESHOLD")
	defer os.Unsetenv("BANKPANEL_DATA_DIR")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Match.Threshold != 85 {
		t.Errorf("env override threshold = %d, want 85", cfg.Match.Threshold)
	}
	if cfg.Data.Dir != "/mnt/regdata" {
		t.Errorf("env override data dir = %q, want /mnt/regdata", cfg.Data.Dir)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty data dir", func(c *Config) { c.Data.Dir = "" }},
		{"threshold too high", func(c *Config) { c.Match.Threshold = 150 }},
		{"negative threshold", func(c *Config) { c.Match.Threshold = -1 }},
		{"inverted years", func(c *Config) { c.Years.Min = 2022; c.Years.Max = 2010 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}
