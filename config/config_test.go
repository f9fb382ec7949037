package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/metaballs/field"
	"github.com/pthm-cable/metaballs/surface"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load defaults: %v", err)
	}

	if cfg.Surface.Resolution != [2]int{160, 100} {
		t.Errorf("Resolution = %v, want [160 100]", cfg.Surface.Resolution)
	}
	if cfg.Surface.IsoThreshold != 0.5 {
		t.Errorf("IsoThreshold = %v, want 0.5", cfg.Surface.IsoThreshold)
	}
	if len(cfg.Scene.Sources) == 0 {
		t.Error("expected default sources")
	}

	s := cfg.Derived.Surface
	if s.Extent.X != 16 || s.Extent.Y != 10 {
		t.Errorf("Derived extent = %v, want (16, 10)", s.Extent)
	}
	if cfg.Derived.BoundsMin.X != -8 || cfg.Derived.BoundsMax.Y != 5 {
		t.Errorf("unexpected bounds %v..%v", cfg.Derived.BoundsMin, cfg.Derived.BoundsMax)
	}
	if cfg.Derived.ScreenW32 != 1280 {
		t.Errorf("ScreenW32 = %v, want 1280", cfg.Derived.ScreenW32)
	}
}

func TestLoadMergesUserFile(t *testing.T) {
	path := writeConfig(t, `
surface:
  resolution: [32, 16]
  iso_threshold: 0.8
scene:
  sources:
    - {x: 1, y: 2, radius: 0.5, power: 1, polarity: negative}
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Surface.Resolution != [2]int{32, 16} {
		t.Errorf("Resolution = %v, want [32 16]", cfg.Surface.Resolution)
	}
	if cfg.Surface.IsoThreshold != 0.8 {
		t.Errorf("IsoThreshold = %v, want 0.8", cfg.Surface.IsoThreshold)
	}
	// Untouched keys keep their defaults
	if cfg.Surface.Extent != [2]float64{16, 10} {
		t.Errorf("Extent = %v, want default [16 10]", cfg.Surface.Extent)
	}
	if cfg.Screen.TargetFPS != 60 {
		t.Errorf("TargetFPS = %d, want default 60", cfg.Screen.TargetFPS)
	}

	if len(cfg.Scene.Sources) != 1 {
		t.Fatalf("len(Sources) = %d, want 1", len(cfg.Scene.Sources))
	}
	f, err := cfg.Scene.Sources[0].Falloff()
	if err != nil {
		t.Fatalf("Falloff: %v", err)
	}
	if f.Polarity != field.Negative || f.Radius != 0.5 {
		t.Errorf("unexpected falloff %+v", f)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{"zero resolution", "surface: {resolution: [0, 10]}", surface.ErrInvalidResolution},
		{"negative extent", "surface: {extent: [-1, 4]}", surface.ErrInvalidExtent},
		{"zero threshold", "surface: {iso_threshold: 0}", surface.ErrInvalidThreshold},
		{"zero radius", "scene: {sources: [{radius: 0, power: 1}]}", field.ErrInvalidRadius},
		{"zero power", "scene: {sources: [{radius: 1, power: 0}]}", field.ErrInvalidPower},
		{"bad polarity", "scene: {sources: [{radius: 1, power: 1, polarity: sideways}]}", field.ErrInvalidPolarity},
		{"zero screen", "screen: {width: 0}", ErrInvalidScreen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if !errors.Is(err, tt.want) {
				t.Errorf("Load() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg.Surface.IsoThreshold = 0.75

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load written config: %v", err)
	}
	if back.Surface.IsoThreshold != 0.75 {
		t.Errorf("IsoThreshold = %v, want 0.75", back.Surface.IsoThreshold)
	}
	if len(back.Scene.Sources) != len(cfg.Scene.Sources) {
		t.Errorf("source count %d, want %d", len(back.Scene.Sources), len(cfg.Scene.Sources))
	}
}

func TestCfgPanicsBeforeInit(t *testing.T) {
	saved := global
	global = nil
	defer func() {
		global = saved
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	Cfg()
}
