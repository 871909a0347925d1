package locomotion

import (
	"fmt"
	"math"
	"strings"

	"github.com/Versifine/stride/internal/posture"
)

type Gait int

const (
	GaitProne Gait = iota
	GaitCrouchWalk
	GaitWalk
	GaitCrouchSprint
	GaitSprint
)

func (g Gait) String() string {
	switch g {
	case GaitProne:
		return "prone"
	case GaitCrouchWalk:
		return "crouch_walk"
	case GaitWalk:
		return "walk"
	case GaitCrouchSprint:
		return "crouch_sprint"
	case GaitSprint:
		return "sprint"
	default:
		return fmt.Sprintf("gait(%d)", int(g))
	}
}

// GaitFor maps posture and sprint state to a gait. Prone ignores sprint.
func GaitFor(p posture.Posture, sprinting bool) Gait {
	switch p {
	case posture.Proning:
		return GaitProne
	case posture.Crouching:
		if sprinting {
			return GaitCrouchSprint
		}
		return GaitCrouchWalk
	default:
		if sprinting {
			return GaitSprint
		}
		return GaitWalk
	}
}

type GaitTuning struct {
	Speed        float64 `yaml:"speed"`
	BobRate      float64 `yaml:"bob_rate"`
	BobIntensity float64 `yaml:"bob_intensity"`
}

type FootstepVolumes struct {
	Walk         float64 `yaml:"walk"`
	Sprint       float64 `yaml:"sprint"`
	CrouchWalk   float64 `yaml:"crouch_walk"`
	CrouchSprint float64 `yaml:"crouch_sprint"`
}

type AirborneMode string

const (
	AirborneHold  AirborneMode = "hold"
	AirborneDecay AirborneMode = "decay"
)

type Config struct {
	Prone        GaitTuning `yaml:"prone"`
	CrouchWalk   GaitTuning `yaml:"crouch_walk"`
	Walk         GaitTuning `yaml:"walk"`
	CrouchSprint GaitTuning `yaml:"crouch_sprint"`
	Sprint       GaitTuning `yaml:"sprint"`

	SprintConeDeg     float64 `yaml:"sprint_cone_deg"`
	SprintStrafeScale float64 `yaml:"sprint_strafe_scale"`
	VerticalBobScale  float64 `yaml:"vertical_bob_scale"`
	PhaseWrapBound    float64 `yaml:"phase_wrap_bound"`

	WalkStepInterval   float64         `yaml:"walk_step_interval"`
	SprintStepInterval float64         `yaml:"sprint_step_interval"`
	MasterVolume       float64         `yaml:"master_volume"`
	Volumes            FootstepVolumes `yaml:"volumes"`
	AlternatePitch     float64         `yaml:"alternate_pitch"`

	Airborne      AirborneMode `yaml:"airborne"`
	AirborneDecay float64      `yaml:"airborne_decay"`
}

func DefaultConfig() Config {
	return Config{
		Prone:        GaitTuning{Speed: 1.0, BobRate: 5.0, BobIntensity: 0.1},
		CrouchWalk:   GaitTuning{Speed: 2.0, BobRate: 10.0, BobIntensity: 0.15},
		Walk:         GaitTuning{Speed: 4.0, BobRate: 14.0, BobIntensity: 0.2},
		CrouchSprint: GaitTuning{Speed: 4.0, BobRate: 12.0, BobIntensity: 0.3},
		Sprint:       GaitTuning{Speed: 8.5, BobRate: 22.0, BobIntensity: 0.4},

		SprintConeDeg:     30,
		SprintStrafeScale: 0.2,
		VerticalBobScale:  0.5,
		PhaseWrapBound:    100,

		WalkStepInterval:   0.4,
		SprintStepInterval: 0.1,
		MasterVolume:       0.1,
		Volumes: FootstepVolumes{
			Walk:         0.5,
			Sprint:       1.0,
			CrouchWalk:   0.15,
			CrouchSprint: 0.3,
		},
		AlternatePitch: 1.05,

		Airborne:      AirborneHold,
		AirborneDecay: 2.0,
	}
}

func (c Config) Gait(g Gait) GaitTuning {
	switch g {
	case GaitProne:
		return c.Prone
	case GaitCrouchWalk:
		return c.CrouchWalk
	case GaitCrouchSprint:
		return c.CrouchSprint
	case GaitSprint:
		return c.Sprint
	default:
		return c.Walk
	}
}

func (c Config) Validate() error {
	for _, g := range []Gait{GaitProne, GaitCrouchWalk, GaitWalk, GaitCrouchSprint, GaitSprint} {
		t := c.Gait(g)
		if t.Speed < 0 || t.BobRate < 0 || t.BobIntensity < 0 {
			return fmt.Errorf("gait %s: negative tuning %+v", g, t)
		}
	}
	if c.SprintConeDeg <= 0 || c.SprintConeDeg > 180 {
		return fmt.Errorf("sprint_cone_deg must be in (0, 180], got %v", c.SprintConeDeg)
	}
	if c.SprintStrafeScale < 0 || c.SprintStrafeScale > 1 {
		return fmt.Errorf("sprint_strafe_scale must be in [0, 1], got %v", c.SprintStrafeScale)
	}
	if c.PhaseWrapBound < phasePeriod {
		return fmt.Errorf("phase_wrap_bound must be at least %.4f, got %v", phasePeriod, c.PhaseWrapBound)
	}
	if c.WalkStepInterval <= 0 || c.SprintStepInterval <= 0 {
		return fmt.Errorf("step intervals must be positive")
	}
	if c.MasterVolume < 0 {
		return fmt.Errorf("master_volume must be non-negative, got %v", c.MasterVolume)
	}
	switch AirborneMode(strings.ToLower(string(c.Airborne))) {
	case AirborneHold, AirborneDecay:
	default:
		return fmt.Errorf("unknown airborne mode %q", c.Airborne)
	}
	if c.AirborneDecay < 0 || math.IsNaN(c.AirborneDecay) {
		return fmt.Errorf("airborne_decay must be non-negative, got %v", c.AirborneDecay)
	}
	return nil
}
