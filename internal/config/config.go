package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/Versifine/stride/internal/body"
	"github.com/Versifine/stride/internal/locomotion"
	"github.com/Versifine/stride/internal/posture"
	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	PresetTactical = "tactical"
	PresetClassic  = "classic"
)

type Config struct {
	// Preset picks the base tuning; Tuning overrides individual fields of it
	// using the same keys as body.Config.
	Preset  string        `yaml:"preset"`
	Tuning  yaml.Node     `yaml:"tuning"`
	Logging LoggingConfig `yaml:"logging"`
	Tick    TickConfig    `yaml:"tick"`
	Level   string        `yaml:"level"`
	Audio   AudioConfig   `yaml:"audio"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

type TickConfig struct {
	Rate     int     `yaml:"rate"`
	MaxDelta float64 `yaml:"max_delta"`
}

type AudioConfig struct {
	SampleRate   int    `yaml:"sample_rate"`
	FootstepsWAV string `yaml:"footsteps_wav"`
}

// envOverrides are applied on top of the file. Empty values leave the file
// setting alone.
type envOverrides struct {
	LogLevel     string `env:"STRIDE_LOG_LEVEL"`
	LogFormat    string `env:"STRIDE_LOG_FORMAT"`
	LogFile      string `env:"STRIDE_LOG_FILE"`
	Preset       string `env:"STRIDE_PRESET"`
	TickRate     int    `env:"STRIDE_TICK_RATE"`
	Level        string `env:"STRIDE_LEVEL"`
	FootstepsWAV string `env:"STRIDE_FOOTSTEPS_WAV"`
}

func Default() *Config {
	return &Config{
		Preset:  PresetTactical,
		Logging: LoggingConfig{Level: "info", Format: "console"},
		Tick:    TickConfig{Rate: 60, MaxDelta: 0.1},
		Level:   "demo",
		Audio:   AudioConfig{SampleRate: 44100},
	}
}

// Load reads the YAML file at path over the defaults, then applies STRIDE_*
// environment overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) ApplyEnv() error {
	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	setIf(&c.Logging.Level, o.LogLevel)
	setIf(&c.Logging.Format, o.LogFormat)
	setIf(&c.Logging.File, o.LogFile)
	setIf(&c.Preset, o.Preset)
	setIf(&c.Level, o.Level)
	setIf(&c.Audio.FootstepsWAV, o.FootstepsWAV)
	if o.TickRate != 0 {
		c.Tick.Rate = o.TickRate
	}
	return nil
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func (c *Config) Validate() error {
	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unknown level %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "", "console", "json", "text":
	default:
		return fmt.Errorf("logging.format: unknown format %q", c.Logging.Format)
	}
	if c.Tick.Rate <= 0 {
		return fmt.Errorf("tick.rate must be positive, got %d", c.Tick.Rate)
	}
	if c.Tick.MaxDelta <= 0 {
		return fmt.Errorf("tick.max_delta must be positive, got %v", c.Tick.MaxDelta)
	}
	if c.Audio.SampleRate <= 0 {
		return fmt.Errorf("audio.sample_rate must be positive, got %d", c.Audio.SampleRate)
	}
	if _, err := c.Body(); err != nil {
		return err
	}
	return nil
}

// TickDelta is the fixed physics step in seconds.
func (c *Config) TickDelta() float64 {
	return 1.0 / float64(c.Tick.Rate)
}

// Body resolves the controller tuning: the preset, then the tuning block,
// then the tick clamp.
func (c *Config) Body() (body.Config, error) {
	cfg, err := Preset(c.Preset)
	if err != nil {
		return body.Config{}, err
	}
	if c.Tuning.Kind != 0 {
		if err := c.Tuning.Decode(&cfg); err != nil {
			return body.Config{}, fmt.Errorf("tuning: %w", err)
		}
	}
	if c.Tick.MaxDelta > 0 {
		cfg.MaxDelta = c.Tick.MaxDelta
	}
	if err := cfg.Validate(); err != nil {
		return body.Config{}, fmt.Errorf("tuning: %w", err)
	}
	return cfg, nil
}

// Preset returns a named base tuning. "tactical" is the full controller,
// which only ever gets up from prone by standing. "classic" is the simpler
// one with a faster walk, a higher jump, a wider look range and speed that
// decays in the air; it leaves prone to the posture held before.
func Preset(name string) (body.Config, error) {
	cfg := body.DefaultConfig()
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", PresetTactical:
		cfg.ProneExit = posture.ExitToStanding.String()
		return cfg, nil
	case PresetClassic:
		cfg.JumpVelocity = 4.5
		cfg.ProneExit = posture.ExitToPrevious.String()
		cfg.Locomotion.Walk.Speed = 5.0
		cfg.Locomotion.Prone.BobIntensity = 0.1
		cfg.Locomotion.CrouchWalk.BobIntensity = 0.05
		cfg.Locomotion.Walk.BobIntensity = 0.1
		cfg.Locomotion.CrouchSprint.BobIntensity = 0.075
		cfg.Locomotion.Sprint.BobIntensity = 0.2
		cfg.Locomotion.Airborne = locomotion.AirborneDecay
		cfg.Look.PitchMinDeg = -75
		cfg.Look.PitchMaxDeg = 75
		cfg.Look.FreeLookMaxYawDeg = 115
		return cfg, nil
	default:
		return body.Config{}, fmt.Errorf("unknown preset %q", name)
	}
}
