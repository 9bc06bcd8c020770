// Package config loads the device tuning from YAML. Every field has a
// default matching the shipped hardware tuning, so an absent file or an
// empty file yields a runnable configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Audio     Audio     `yaml:"audio"`
	Touch     Touch     `yaml:"touch"`
	Recording Recording `yaml:"recording"`
	Link      Link      `yaml:"link"`
	Battery   Battery   `yaml:"battery"`
	Loop      Loop      `yaml:"loop"`
}

type Audio struct {
	Gain      int `yaml:"gain"`       // applied after DC offset removal
	NoiseGate int `yaml:"noise_gate"` // absolute sample floor, post-gain
}

type Touch struct {
	Threshold  int `yaml:"threshold"`   // raw values at or below count as touched
	DebounceMS int `yaml:"debounce_ms"` // press must persist this long
}

type Recording struct {
	SilenceLevel  int `yaml:"silence_level"`   // percent at or below counts as silent
	SilenceMS     int `yaml:"silence_ms"`      // sustained silence that ends a session
	MinDurationMS int `yaml:"min_duration_ms"` // floor before silence may end it
	MaxDurationMS int `yaml:"max_duration_ms"` // safety ceiling
	ArenaBytes    int `yaml:"arena_bytes"`     // session audio buffer
}

type Link struct {
	Broker   string `yaml:"broker"` // empty disables the link
	ClientID string `yaml:"client_id"`
	Prefix   string `yaml:"prefix"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type Battery struct {
	IntervalS int `yaml:"interval_s"` // seconds between level notifies
}

type Loop struct {
	TickMS      int `yaml:"tick_ms"`       // sleep budget per tick
	PowerSaveMS int `yaml:"power_save_ms"` // idle sleep budget
}

func Default() Config {
	return Config{
		Audio: Audio{
			Gain:      16,
			NoiseGate: 100,
		},
		Touch: Touch{
			Threshold:  40,
			DebounceMS: 50,
		},
		Recording: Recording{
			SilenceLevel:  10,
			SilenceMS:     2000,
			MinDurationMS: 1000,
			MaxDurationMS: 30000,
			ArenaBytes:    192000, // ~6s of 16 kHz 16-bit mono
		},
		Link: Link{
			ClientID: "glass",
			Prefix:   "glass/dev",
		},
		Battery: Battery{
			IntervalS: 60,
		},
		Loop: Loop{
			TickMS:      20,
			PowerSaveMS: 100,
		},
	}
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Audio.Gain <= 0 {
		return fmt.Errorf("audio.gain must be positive")
	}
	if c.Audio.NoiseGate < 0 {
		return fmt.Errorf("audio.noise_gate must not be negative")
	}
	if c.Touch.Threshold < 0 {
		return fmt.Errorf("touch.threshold must not be negative")
	}
	if c.Touch.DebounceMS < 0 {
		return fmt.Errorf("touch.debounce_ms must not be negative")
	}
	if c.Recording.SilenceLevel < 0 || c.Recording.SilenceLevel > 100 {
		return fmt.Errorf("recording.silence_level must be 0..100")
	}
	if c.Recording.MinDurationMS < 0 {
		return fmt.Errorf("recording.min_duration_ms must not be negative")
	}
	if c.Recording.MaxDurationMS <= c.Recording.MinDurationMS {
		return fmt.Errorf("recording.max_duration_ms must exceed min_duration_ms")
	}
	if c.Recording.SilenceMS <= 0 {
		return fmt.Errorf("recording.silence_ms must be positive")
	}
	if c.Recording.ArenaBytes <= 0 {
		return fmt.Errorf("recording.arena_bytes must be positive")
	}
	if c.Battery.IntervalS <= 0 {
		return fmt.Errorf("battery.interval_s must be positive")
	}
	if c.Loop.TickMS <= 0 || c.Loop.PowerSaveMS <= 0 {
		return fmt.Errorf("loop budgets must be positive")
	}
	return nil
}

func (t Touch) Debounce() time.Duration { return time.Duration(t.DebounceMS) * time.Millisecond }

func (r Recording) SilenceDuration() time.Duration {
	return time.Duration(r.SilenceMS) * time.Millisecond
}
func (r Recording) MinDuration() time.Duration {
	return time.Duration(r.MinDurationMS) * time.Millisecond
}
func (r Recording) MaxDuration() time.Duration {
	return time.Duration(r.MaxDurationMS) * time.Millisecond
}

func (b Battery) Interval() time.Duration { return time.Duration(b.IntervalS) * time.Second }

func (l Loop) Tick() time.Duration      { return time.Duration(l.TickMS) * time.Millisecond }
func (l Loop) PowerSave() time.Duration { return time.Duration(l.PowerSaveMS) * time.Millisecond }
