package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultThresholds(t *testing.T) {
	cfg := Default()
	if cfg.Integrity.CoverageThreshold != 0.6 {
		t.Fatalf("coverage threshold: %v", cfg.Integrity.CoverageThreshold)
	}
	if cfg.Integrity.ScopeCharThreshold != 20 {
		t.Fatalf("scope threshold: %d", cfg.Integrity.ScopeCharThreshold)
	}
	if cfg.Reflection.MinWords != 25 {
		t.Fatalf("reflection min words: %d", cfg.Reflection.MinWords)
	}
	if cfg.NearbyMarginDays != 7 {
		t.Fatalf("nearby margin: %d", cfg.NearbyMarginDays)
	}
}

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadOverridesLayerOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("db_path: /var/lib/guidebook.db\nintegrity:\n  coverage_threshold: 0.8\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DBPath != "/var/lib/guidebook.db" {
		t.Fatalf("db_path not applied: %q", cfg.DBPath)
	}
	if cfg.Integrity.CoverageThreshold != 0.8 {
		t.Fatalf("override not applied: %v", cfg.Integrity.CoverageThreshold)
	}
	// Untouched keys keep their defaults.
	if cfg.Reflection.MinWords != 25 {
		t.Fatalf("default lost: %d", cfg.Reflection.MinWords)
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("integrity: [not a map"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for malformed yaml")
	}
}

func TestConverters(t *testing.T) {
	cfg := Default()
	if cfg.AsIntegrity().CoverageThreshold != cfg.Integrity.CoverageThreshold {
		t.Fatal("integrity conversion mismatch")
	}
	if cfg.AsReflection().NgramSize != cfg.Reflection.NgramSize {
		t.Fatal("reflection conversion mismatch")
	}
	if cfg.AsGate().MarginDays != cfg.Gate.MarginDays {
		t.Fatal("gate conversion mismatch")
	}
}

func TestYAMLOverridePartialNested(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("gate:\n  margin_days: 3\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Gate.MarginDays != 3 {
		t.Fatalf("gate override not applied: %d", cfg.Gate.MarginDays)
	}
	if cfg.Integrity.ScopeCharThreshold != 20 {
		t.Fatalf("unrelated default lost: %d", cfg.Integrity.ScopeCharThreshold)
	}
}
