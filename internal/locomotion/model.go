package locomotion

import (
	"math"
	"strings"

	"github.com/Versifine/stride/internal/physics"
	"github.com/Versifine/stride/internal/posture"
)

// phasePeriod is one full cycle of both bob samples: sin(phase) repeats every
// 2π and sin(phase/2) every 4π.
const phasePeriod = 4 * math.Pi

var forward2D = physics.Vec2{Y: 1}

// State is the locomotion state mutated once per tick.
type State struct {
	Speed        float64
	Phase        float64
	Intensity    float64
	Sprinting    bool
	LastFootstep float64
	RightFoot    bool
}

type SoundSet int

const (
	SoundSetNormal SoundSet = iota
	SoundSetCrouch
)

func (s SoundSet) String() string {
	if s == SoundSetCrouch {
		return "crouch"
	}
	return "normal"
}

// Footstep is an audio cue for the footstep player.
type Footstep struct {
	Set       SoundSet
	Volume    float64
	VolumeDB  float64
	Pitch     float64
	RightFoot bool
	Time      float64
}

type Input struct {
	Posture    posture.Posture
	Move       physics.Vec2 // X right, Y forward
	SprintHeld bool
	Grounded   bool
	Delta      float64
	Weight     float64 // smoothing factor for this tick
}

type Output struct {
	Gait      Gait
	Speed     float64
	Heading   physics.Vec2 // move input after sprint strafe attenuation
	EyeOffset physics.Vec2
	Footstep  *Footstep
}

type Model struct {
	cfg        Config
	state      State
	clock      float64
	hasStepped bool
	lastBobY   float64
	eye        physics.Vec2
}

func NewModel(cfg Config) *Model {
	cfg.Airborne = AirborneMode(strings.ToLower(string(cfg.Airborne)))
	return &Model{
		cfg: cfg,
		state: State{
			Speed:     cfg.Walk.Speed,
			RightFoot: true,
		},
	}
}

func (m *Model) State() State { return m.state }

func (m *Model) Step(in Input) Output {
	m.clock += in.Delta

	if !in.Grounded {
		m.state.Sprinting = false
		m.applyAirborneSpeed()
		m.settleEyes(in.Weight)
		return Output{
			Gait:      GaitFor(in.Posture, false),
			Speed:     m.state.Speed,
			Heading:   in.Move,
			EyeOffset: m.eye,
		}
	}

	if m.state.Sprinting {
		m.state.Sprinting = m.canContinueSprint(in)
	} else {
		m.state.Sprinting = m.canStartSprint(in)
	}

	heading := in.Move
	if m.state.Sprinting {
		heading.X *= m.cfg.SprintStrafeScale
	}

	gait := GaitFor(in.Posture, m.state.Sprinting)
	tuning := m.cfg.Gait(gait)
	m.state.Speed = tuning.Speed
	m.state.Intensity = tuning.BobIntensity
	m.state.Phase += tuning.BobRate * in.Delta

	var step *Footstep
	if heading.IsZero() {
		m.settleEyes(in.Weight)
	} else {
		step = m.bob(in)
	}
	m.wrapPhase()

	return Output{
		Gait:      gait,
		Speed:     m.state.Speed,
		Heading:   heading,
		EyeOffset: m.eye,
		Footstep:  step,
	}
}

func (m *Model) canStartSprint(in Input) bool {
	if !in.SprintHeld || in.Posture == posture.Proning || in.Move.IsZero() {
		return false
	}
	angle := forward2D.AngleTo(in.Move.Normalized())
	return angle <= physics.DegToRad(m.cfg.SprintConeDeg)+1e-9
}

func (m *Model) canContinueSprint(in Input) bool {
	return in.SprintHeld && !in.Move.IsZero() && in.Posture != posture.Proning
}

func (m *Model) applyAirborneSpeed() {
	if m.cfg.Airborne == AirborneDecay {
		m.state.Speed = math.Max(0, m.state.Speed-m.cfg.AirborneDecay)
	}
}

func (m *Model) bob(in Input) *Footstep {
	prevY := m.lastBobY
	y := math.Sin(m.state.Phase)
	x := math.Sin(m.state.Phase/2) + 0.5
	m.lastBobY = y

	target := physics.Vec2{
		X: x * m.state.Intensity,
		Y: y * m.state.Intensity * m.cfg.VerticalBobScale,
	}
	m.eye = m.eye.Lerp(target, in.Weight)

	if prevY <= 0 && y > 0 {
		return m.footstep(in.Posture)
	}
	return nil
}

// settleEyes eases the eye offset back to rest and forgets the last bob
// sample, so the next step is detected fresh once movement resumes.
func (m *Model) settleEyes(weight float64) {
	m.eye = m.eye.Lerp(physics.Vec2{}, weight)
	m.lastBobY = 0
}

func (m *Model) footstep(p posture.Posture) *Footstep {
	interval := m.cfg.WalkStepInterval
	if m.state.Sprinting {
		interval = m.cfg.SprintStepInterval
	}
	if m.hasStepped && m.clock-m.state.LastFootstep < interval {
		return nil
	}
	m.state.LastFootstep = m.clock
	m.hasStepped = true

	set := SoundSetNormal
	if p == posture.Crouching {
		set = SoundSetCrouch
	}
	volume := m.volume(set) * m.cfg.MasterVolume
	pitch := 1.0
	if !m.state.RightFoot {
		pitch = m.cfg.AlternatePitch
	}

	step := &Footstep{
		Set:       set,
		Volume:    volume,
		VolumeDB:  physics.LinearToDB(volume),
		Pitch:     pitch,
		RightFoot: m.state.RightFoot,
		Time:      m.clock,
	}
	m.state.RightFoot = !m.state.RightFoot
	return step
}

func (m *Model) volume(set SoundSet) float64 {
	v := m.cfg.Volumes
	if set == SoundSetCrouch {
		if m.state.Sprinting {
			return v.CrouchSprint
		}
		return v.CrouchWalk
	}
	if m.state.Sprinting {
		return v.Sprint
	}
	return v.Walk
}

func (m *Model) wrapPhase() {
	if m.state.Phase > m.cfg.PhaseWrapBound {
		m.state.Phase = math.Mod(m.state.Phase, phasePeriod)
	}
}
