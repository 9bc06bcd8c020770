package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg != Default() {
		t.Fatal("missing file must yield defaults")
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "glass.yaml")
	doc := `
audio:
  gain: 8
recording:
  silence_ms: 1500
link:
  broker: tcp://localhost:1883
  prefix: glass/unit7
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Audio.Gain != 8 {
		t.Fatalf("gain = %d, want 8", cfg.Audio.Gain)
	}
	if cfg.Recording.SilenceDuration() != 1500*time.Millisecond {
		t.Fatalf("silence = %v", cfg.Recording.SilenceDuration())
	}
	if cfg.Link.Broker != "tcp://localhost:1883" || cfg.Link.Prefix != "glass/unit7" {
		t.Fatalf("link = %+v", cfg.Link)
	}
	// Untouched sections keep their defaults.
	if cfg.Touch.Threshold != 40 {
		t.Fatalf("touch threshold = %d, want default 40", cfg.Touch.Threshold)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	doc := `
recording:
  min_duration_ms: 5000
  max_duration_ms: 1000
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error for ceiling below floor")
	}
}

func TestValidateRanges(t *testing.T) {
	bad := func(mutate func(*Config)) {
		t.Helper()
		cfg := Default()
		mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Fatal("expected validation error")
		}
	}

	bad(func(c *Config) { c.Audio.Gain = 0 })
	bad(func(c *Config) { c.Audio.NoiseGate = -1 })
	bad(func(c *Config) { c.Recording.SilenceLevel = 101 })
	bad(func(c *Config) { c.Recording.ArenaBytes = 0 })
	bad(func(c *Config) { c.Battery.IntervalS = 0 })
	bad(func(c *Config) { c.Loop.TickMS = 0 })
}
