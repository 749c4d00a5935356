package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Predictor != "fixed_step" {
		t.Errorf("expected predictor fixed_step, got %s", cfg.Predictor)
	}
	if cfg.Law != "pid" {
		t.Errorf("expected law pid, got %s", cfg.Law)
	}
	if cfg.Period <= 0 {
		t.Error("period should be positive")
	}
	if cfg.TargetApogee <= 0 {
		t.Error("target apogee should be positive")
	}
	if cfg.Vehicle.DryMass <= 0 {
		t.Error("vehicle dry mass should be positive")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")

	cfg := DefaultConfig()
	cfg.TargetApogee = 1234
	cfg.Predictor = "adaptive"
	cfg.Sensor.Seed = 42

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.TargetApogee != 1234 {
		t.Errorf("target apogee: got %f", loaded.TargetApogee)
	}
	if loaded.Predictor != "adaptive" {
		t.Errorf("predictor: got %s", loaded.Predictor)
	}
	if loaded.Sensor.Seed != 42 {
		t.Errorf("seed: got %d", loaded.Sensor.Seed)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("bang-bang")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Law != "bang_bang" {
		t.Errorf("expected bang_bang law, got %s", cfg.Law)
	}

	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for unknown preset")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	if len(names) == 0 {
		t.Error("expected presets")
	}
}

func TestPresets_Isolated(t *testing.T) {
	a := GetPreset("nominal")
	a.TargetApogee = 9999
	b := GetPreset("nominal")
	if b.TargetApogee == 9999 {
		t.Error("presets share state across calls")
	}
}
