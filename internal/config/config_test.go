package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Mass != 1.0 {
		t.Errorf("expected mass 1.0, got %f", cfg.Mass)
	}
	if cfg.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if cfg.Gravity[2] >= 0 {
		t.Error("gravity z should point down")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero mass", func(c *Config) { c.Mass = 0 }},
		{"negative dt", func(c *Config) { c.Dt = -0.01 }},
		{"zero steps", func(c *Config) { c.Steps = 0 }},
		{"zero tau", func(c *Config) { c.Controller.Tau = 0 }},
	}

	for _, tt := range tests {
		cfg := Default()
		tt.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tt.name)
		}
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quadsim.yaml")

	cfg := Default()
	cfg.Renormalize = true
	cfg.RefPos = [3]float64{1, -1, 3}
	cfg.Seed = 42

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if !loaded.Renormalize {
		t.Error("renormalize flag lost in round trip")
	}
	if loaded.RefPos != cfg.RefPos {
		t.Errorf("ref_pos %v, want %v", loaded.RefPos, cfg.RefPos)
	}
	if loaded.Seed != 42 {
		t.Errorf("seed %d, want 42", loaded.Seed)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); !os.IsNotExist(err) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestParamsMapping(t *testing.T) {
	cfg := Default()
	p := cfg.Params()

	if p.Gravity.Z != -9.8 {
		t.Errorf("gravity z %f, want -9.8", p.Gravity.Z)
	}
	if p.PosThreshold != 3.0 || p.VelThreshold != 10.0 {
		t.Errorf("thresholds (%f, %f), want (3, 10)", p.PosThreshold, p.VelThreshold)
	}

	g := cfg.Gains()
	if g.Kp.X >= 0 || g.Kv.X >= 0 {
		t.Error("default gains should be negative (attractive feedback)")
	}

	ref := cfg.Reference()
	if ref.Pos.Z != 2 || ref.Vel.Norm() != 0 {
		t.Errorf("reference %+v, want position (0,0,2) and zero velocity", ref)
	}
}

func TestPresets(t *testing.T) {
	if GetPreset("hover") == nil {
		t.Fatal("expected hover preset")
	}
	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for unknown preset")
	}
	if len(ListPresets()) == 0 {
		t.Error("expected non-empty preset list")
	}
	for name, cfg := range Presets {
		if err := cfg.Validate(); err != nil {
			t.Errorf("preset %s should validate: %v", name, err)
		}
	}
}
