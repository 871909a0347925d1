package locomotion

import (
	"math"
	"math/rand"
	"testing"

	"github.com/Versifine/stride/internal/physics"
	"github.com/Versifine/stride/internal/posture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tickDelta = 1.0 / 60.0

func groundedInput(p posture.Posture, move physics.Vec2, sprint bool) Input {
	return Input{
		Posture:    p,
		Move:       move,
		SprintHeld: sprint,
		Grounded:   true,
		Delta:      tickDelta,
		Weight:     tickDelta * 10,
	}
}

func collectFootsteps(m *Model, in Input, ticks int) []Footstep {
	var steps []Footstep
	for i := 0; i < ticks; i++ {
		out := m.Step(in)
		if out.Footstep != nil {
			steps = append(steps, *out.Footstep)
		}
	}
	return steps
}

func TestGaitFor(t *testing.T) {
	tests := []struct {
		posture   posture.Posture
		sprinting bool
		want      Gait
	}{
		{posture.Standing, false, GaitWalk},
		{posture.Standing, true, GaitSprint},
		{posture.Crouching, false, GaitCrouchWalk},
		{posture.Crouching, true, GaitCrouchSprint},
		{posture.Proning, false, GaitProne},
		{posture.Proning, true, GaitProne},
	}
	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, GaitFor(tt.posture, tt.sprinting))
		})
	}
}

func TestStep_ForwardSprintStartsInOneTick(t *testing.T) {
	m := NewModel(DefaultConfig())

	out := m.Step(groundedInput(posture.Standing, physics.Vec2{Y: 1}, true))

	assert.True(t, m.State().Sprinting)
	assert.Equal(t, DefaultConfig().Sprint.Speed, out.Speed)
	assert.Equal(t, GaitSprint, out.Gait)
}

func TestStep_ProneStrafeNeverSprints(t *testing.T) {
	m := NewModel(DefaultConfig())

	for i := 0; i < 120; i++ {
		out := m.Step(groundedInput(posture.Proning, physics.Vec2{X: 1}, true))
		require.False(t, m.State().Sprinting, "tick %d", i)
		require.Equal(t, DefaultConfig().Prone.Speed, out.Speed)
	}
}

func TestStep_SprintStartGateUsesForwardCone(t *testing.T) {
	inside := physics.Vec2{X: math.Sin(physics.DegToRad(25)), Y: math.Cos(physics.DegToRad(25))}
	outside := physics.Vec2{X: math.Sin(physics.DegToRad(35)), Y: math.Cos(physics.DegToRad(35))}

	tests := []struct {
		name string
		move physics.Vec2
		want bool
	}{
		{"forward", physics.Vec2{Y: 1}, true},
		{"inside cone", inside, true},
		{"outside cone", outside, false},
		{"pure strafe", physics.Vec2{X: -1}, false},
		{"backward", physics.Vec2{Y: -1}, false},
		{"zero input", physics.Vec2{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewModel(DefaultConfig())
			m.Step(groundedInput(posture.Standing, tt.move, true))
			assert.Equal(t, tt.want, m.State().Sprinting)
		})
	}
}

func TestStep_SprintContinuesOutsideCone(t *testing.T) {
	m := NewModel(DefaultConfig())
	m.Step(groundedInput(posture.Standing, physics.Vec2{Y: 1}, true))
	require.True(t, m.State().Sprinting)

	out := m.Step(groundedInput(posture.Standing, physics.Vec2{X: 1}, true))
	assert.True(t, m.State().Sprinting)
	assert.InDelta(t, 0.2, out.Heading.X, 1e-9, "lateral input is attenuated while sprinting")

	m.Step(groundedInput(posture.Standing, physics.Vec2{}, true))
	assert.False(t, m.State().Sprinting, "zero input ends the sprint")
}

func TestStep_SprintEndsWhenReleasedOrProne(t *testing.T) {
	m := NewModel(DefaultConfig())
	m.Step(groundedInput(posture.Crouching, physics.Vec2{Y: 1}, true))
	require.True(t, m.State().Sprinting)
	assert.Equal(t, DefaultConfig().CrouchSprint.Speed, m.State().Speed)

	m.Step(groundedInput(posture.Proning, physics.Vec2{Y: 1}, true))
	assert.False(t, m.State().Sprinting)

	m.Step(groundedInput(posture.Standing, physics.Vec2{Y: 1}, true))
	require.True(t, m.State().Sprinting)
	m.Step(groundedInput(posture.Standing, physics.Vec2{Y: 1}, false))
	assert.False(t, m.State().Sprinting)
}

func TestStep_AirborneCancelsSprintAndHoldsSpeed(t *testing.T) {
	m := NewModel(DefaultConfig())
	m.Step(groundedInput(posture.Standing, physics.Vec2{Y: 1}, true))

	in := groundedInput(posture.Standing, physics.Vec2{Y: 1}, true)
	in.Grounded = false
	for i := 0; i < 30; i++ {
		out := m.Step(in)
		require.Equal(t, DefaultConfig().Sprint.Speed, out.Speed)
	}
	assert.False(t, m.State().Sprinting)
}

func TestStep_AirborneDecayNeverGoesNegative(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Airborne = AirborneDecay
	m := NewModel(cfg)
	m.Step(groundedInput(posture.Standing, physics.Vec2{Y: 1}, false))

	in := groundedInput(posture.Standing, physics.Vec2{Y: 1}, false)
	in.Grounded = false
	out := m.Step(in)
	assert.InDelta(t, cfg.Walk.Speed-cfg.AirborneDecay, out.Speed, 1e-9)

	for i := 0; i < 10; i++ {
		out = m.Step(in)
	}
	assert.Equal(t, 0.0, out.Speed)
}

func TestStep_PhaseWrapKeepsCyclePosition(t *testing.T) {
	m := NewModel(DefaultConfig())
	m.state.Phase = 99.95
	before := m.state.Phase + DefaultConfig().Walk.BobRate*tickDelta

	m.Step(groundedInput(posture.Standing, physics.Vec2{Y: 1}, false))
	after := m.State().Phase

	require.Less(t, after, DefaultConfig().PhaseWrapBound)
	assert.InDelta(t, 0.0, math.Remainder(before-after, 2*math.Pi), 1e-9)
	assert.InDelta(t, math.Sin(before), math.Sin(after), 1e-9)
	assert.InDelta(t, math.Sin(before/2), math.Sin(after/2), 1e-9)
}

func TestStep_FootstepsAlternateAndScaleVolume(t *testing.T) {
	cfg := DefaultConfig()
	m := NewModel(cfg)

	steps := collectFootsteps(m, groundedInput(posture.Standing, physics.Vec2{Y: 1}, false), 120)
	require.GreaterOrEqual(t, len(steps), 2)

	assert.Equal(t, SoundSetNormal, steps[0].Set)
	assert.InDelta(t, cfg.Volumes.Walk*cfg.MasterVolume, steps[0].Volume, 1e-9)
	assert.InDelta(t, physics.LinearToDB(steps[0].Volume), steps[0].VolumeDB, 1e-9)
	assert.True(t, steps[0].RightFoot)
	assert.Equal(t, 1.0, steps[0].Pitch)
	assert.False(t, steps[1].RightFoot)
	assert.Equal(t, cfg.AlternatePitch, steps[1].Pitch)

	crouch := NewModel(cfg)
	cs := collectFootsteps(crouch, groundedInput(posture.Crouching, physics.Vec2{Y: 1}, true), 120)
	require.NotEmpty(t, cs)
	assert.Equal(t, SoundSetCrouch, cs[0].Set)
	assert.InDelta(t, cfg.Volumes.CrouchSprint*cfg.MasterVolume, cs[0].Volume, 1e-9)
}

func TestStep_FootstepIntervalHoldsForAnyInput(t *testing.T) {
	cfg := DefaultConfig()
	m := NewModel(cfg)
	rng := rand.New(rand.NewSource(7))
	postures := []posture.Posture{posture.Standing, posture.Crouching, posture.Proning}

	var lastTime float64
	stepped := false
	count := 0
	for i := 0; i < 20000; i++ {
		in := Input{
			Posture:    postures[rng.Intn(len(postures))],
			Move:       physics.Vec2{X: rng.Float64()*2 - 1, Y: rng.Float64()*2 - 1},
			SprintHeld: rng.Intn(3) > 0,
			Grounded:   rng.Intn(10) > 0,
			Delta:      0.005 + rng.Float64()*0.05,
			Weight:     0.2,
		}
		if rng.Intn(8) == 0 {
			in.Move = physics.Vec2{}
		}
		out := m.Step(in)
		if out.Footstep == nil {
			continue
		}
		count++
		interval := cfg.WalkStepInterval
		if m.State().Sprinting {
			interval = cfg.SprintStepInterval
		}
		if stepped {
			require.GreaterOrEqual(t, out.Footstep.Time-lastTime, interval-1e-9, "step %d", count)
		}
		lastTime = out.Footstep.Time
		stepped = true
	}
	assert.Greater(t, count, 10)
}

func TestStep_IdleSettlesEyes(t *testing.T) {
	m := NewModel(DefaultConfig())
	var out Output
	for i := 0; i < 20; i++ {
		out = m.Step(groundedInput(posture.Standing, physics.Vec2{Y: 1}, false))
	}
	require.False(t, out.EyeOffset.IsZero())

	for i := 0; i < 600; i++ {
		out = m.Step(groundedInput(posture.Standing, physics.Vec2{}, false))
	}
	assert.InDelta(t, 0.0, out.EyeOffset.Length(), 1e-6)
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	bad := DefaultConfig()
	bad.SprintConeDeg = 0
	assert.Error(t, bad.Validate())

	bad = DefaultConfig()
	bad.Airborne = "accelerate"
	assert.Error(t, bad.Validate())

	bad = DefaultConfig()
	bad.PhaseWrapBound = 5
	assert.Error(t, bad.Validate())

	bad = DefaultConfig()
	bad.Walk.Speed = -1
	assert.Error(t, bad.Validate())
}
