package body

import (
	"fmt"

	"github.com/Versifine/stride/internal/locomotion"
	"github.com/Versifine/stride/internal/look"
	"github.com/Versifine/stride/internal/physics"
	"github.com/Versifine/stride/internal/posture"
	"github.com/Versifine/stride/internal/stairs"
)

// Config is the full tuning of one controller.
type Config struct {
	Gravity      float64 `yaml:"gravity"`
	JumpVelocity float64 `yaml:"jump_velocity"`
	// LerpSpeed turns delta time into a smoothing weight: weight = delta*LerpSpeed.
	LerpSpeed   float64 `yaml:"lerp_speed"`
	CrouchDepth float64 `yaml:"crouch_depth"`
	ProneDepth  float64 `yaml:"prone_depth"`
	// LandVelocity is the vertical speed below which touching down plays the
	// land cue.
	LandVelocity float64 `yaml:"land_velocity"`
	MaxDelta     float64 `yaml:"max_delta"`
	// BlendRate is how fast the locomotion blend vector may change, in units
	// per second.
	BlendRate float64 `yaml:"blend_rate"`
	ProneExit string  `yaml:"prone_exit"`

	Locomotion locomotion.Config `yaml:"locomotion"`
	Look       look.Config       `yaml:"look"`
	Stairs     stairs.Config     `yaml:"stairs"`
}

func DefaultConfig() Config {
	return Config{
		Gravity:      physics.DefaultGravity,
		JumpVelocity: 3.5,
		LerpSpeed:    10,
		CrouchDepth:  0.5,
		ProneDepth:   1.2,
		LandVelocity: -2,
		MaxDelta:     0.1,
		BlendRate:    20,
		ProneExit:    posture.ExitToPrevious.String(),
		Locomotion:   locomotion.DefaultConfig(),
		Look:         look.DefaultConfig(),
		Stairs:       stairs.DefaultConfig(),
	}
}

func (c Config) Validate() error {
	if c.Gravity < 0 {
		return fmt.Errorf("gravity must be non-negative, got %v", c.Gravity)
	}
	if c.JumpVelocity < 0 {
		return fmt.Errorf("jump_velocity must be non-negative, got %v", c.JumpVelocity)
	}
	if c.LerpSpeed <= 0 {
		return fmt.Errorf("lerp_speed must be positive, got %v", c.LerpSpeed)
	}
	if c.CrouchDepth < 0 || c.ProneDepth < c.CrouchDepth {
		return fmt.Errorf("depths must satisfy 0 <= crouch (%v) <= prone (%v)", c.CrouchDepth, c.ProneDepth)
	}
	if c.LandVelocity >= 0 {
		return fmt.Errorf("land_velocity must be negative, got %v", c.LandVelocity)
	}
	if c.MaxDelta <= 0 {
		return fmt.Errorf("max_delta must be positive, got %v", c.MaxDelta)
	}
	if c.BlendRate <= 0 {
		return fmt.Errorf("blend_rate must be positive, got %v", c.BlendRate)
	}
	if _, err := posture.ParseExitPolicy(c.ProneExit); err != nil {
		return err
	}
	if err := c.Locomotion.Validate(); err != nil {
		return fmt.Errorf("locomotion: %w", err)
	}
	if err := c.Look.Validate(); err != nil {
		return fmt.Errorf("look: %w", err)
	}
	if err := c.Stairs.Validate(); err != nil {
		return fmt.Errorf("stairs: %w", err)
	}
	return nil
}

func (c Config) depth(p posture.Posture) float64 {
	switch p {
	case posture.Crouching:
		return c.CrouchDepth
	case posture.Proning:
		return c.ProneDepth
	default:
		return 0
	}
}
