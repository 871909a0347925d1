package stairs

import (
	"fmt"
	"testing"

	"github.com/Versifine/stride/internal/physics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-6

// scriptedWorld answers sweeps by direction: upward, horizontal, downward.
type scriptedWorld struct {
	transform physics.Transform
	grounded  bool
	up        physics.SweepResult
	across    physics.SweepResult
	down      physics.SweepResult
	ray       physics.RayHit
	snaps     int
	rays      [][2]physics.Vec3
}

func newScriptedWorld() *scriptedWorld {
	return &scriptedWorld{
		grounded: true,
		up:       physics.SweepResult{Travel: physics.Vec3{Y: 0.5}},
		ray:      physics.RayHit{Hit: true, Normal: physics.Up},
	}
}

func (w *scriptedWorld) Transform() physics.Transform     { return w.transform }
func (w *scriptedWorld) SetTransform(t physics.Transform) { w.transform = t }
func (w *scriptedWorld) IsGrounded() bool                 { return w.grounded }
func (w *scriptedWorld) ApplyFloorSnap()                  { w.snaps++; w.grounded = true }

func (w *scriptedWorld) IsWalkable(normal physics.Vec3) bool {
	return !normal.IsZero() && normal.AngleTo(physics.Up) <= physics.DegToRad(45)+1e-9
}

func (w *scriptedWorld) SweepTest(_ physics.Transform, motion physics.Vec3) physics.SweepResult {
	switch {
	case motion.Y > 0:
		return w.up
	case motion.Y < 0:
		return w.down
	default:
		return w.across
	}
}

func (w *scriptedWorld) RayProbe(origin, target physics.Vec3) physics.RayHit {
	w.rays = append(w.rays, [2]physics.Vec3{origin, target})
	return w.ray
}

func landingAt(travelY float64) physics.SweepResult {
	return physics.SweepResult{
		Hit:     true,
		Travel:  physics.Vec3{Y: travelY},
		Normal:  physics.Up,
		Contact: physics.Vec3{X: 0.1, Y: 0.5 + travelY},
	}
}

func newTestSolver(t *testing.T, w World) *Solver {
	t.Helper()
	s, err := NewSolver(w, DefaultConfig())
	require.NoError(t, err)
	return s
}

var forward = physics.Vec3{X: 4}

func TestStepUp_CommitsOntoStep(t *testing.T) {
	w := newScriptedWorld()
	w.down = landingAt(-0.2)
	s := newTestSolver(t, w)

	require.True(t, s.StepUp(forward, 0.1))

	assert.InDelta(t, 0.3, w.transform.Origin.Y, tol)
	assert.InDelta(t, 0.4, w.transform.Origin.X, tol)
	assert.Equal(t, 1, w.snaps)

	require.Len(t, w.rays, 1)
	from := w.rays[0][0]
	assert.InDelta(t, 0.3+0.4, from.Y, tol, "ahead probe starts above the landing point")
	assert.InDelta(t, 0.2, from.X, tol, "ahead probe reaches past the landing point")
}

func TestStepUp_NoGroundBelowHypothesis(t *testing.T) {
	w := newScriptedWorld()
	w.down = physics.SweepResult{Travel: physics.Vec3{Y: -0.5}}
	s := newTestSolver(t, w)

	assert.False(t, s.StepUp(forward, 0.1))
	assert.Equal(t, physics.Transform{}, w.transform)
	assert.Zero(t, w.snaps)
}

func TestStepUp_AcceptedHeightRange(t *testing.T) {
	cfg := DefaultConfig()
	for i := 0; i <= 70; i++ {
		travel := -0.6 + float64(i)*0.01
		t.Run(fmt.Sprintf("travel %.2f", travel), func(t *testing.T) {
			w := newScriptedWorld()
			w.down = landingAt(travel)
			s := newTestSolver(t, w)

			stepped := s.StepUp(forward, 0.1)

			height := 0.5 + travel
			want := height > cfg.MinStepHeight && height <= cfg.MaxStepHeight
			assert.Equal(t, want, stepped, "height %.3f", height)
			if stepped {
				assert.Greater(t, w.transform.Origin.Y, cfg.MinStepHeight)
				assert.LessOrEqual(t, w.transform.Origin.Y, cfg.MaxStepHeight)
			} else {
				assert.Equal(t, physics.Transform{}, w.transform)
			}
		})
	}
}

func TestStepUp_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*scriptedWorld)
		vel    physics.Vec3
	}{
		{"airborne", func(w *scriptedWorld) { w.grounded = false }, forward},
		{"no horizontal motion", func(*scriptedWorld) {}, physics.Vec3{Y: -1}},
		{"ceiling right above", func(w *scriptedWorld) {
			w.up = physics.SweepResult{Hit: true, Travel: physics.Vec3{Y: 0.005}}
		}, forward},
		{"wall taller than a step", func(w *scriptedWorld) {
			w.across = physics.SweepResult{Hit: true, Normal: physics.Vec3{X: -1}}
		}, forward},
		{"contact too high", func(w *scriptedWorld) {
			w.down.Contact.Y = 0.8
		}, forward},
		{"ahead probe misses thin ledge", func(w *scriptedWorld) {
			w.ray = physics.RayHit{}
		}, forward},
		{"ahead probe hits steep surface", func(w *scriptedWorld) {
			w.ray = physics.RayHit{Hit: true, Normal: physics.Vec3{X: -1, Y: 0.5}.Normalized()}
		}, forward},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newScriptedWorld()
			w.down = landingAt(-0.2)
			tt.mutate(w)
			s := newTestSolver(t, w)

			assert.False(t, s.StepUp(tt.vel, 0.1))
			assert.Equal(t, physics.Transform{}, w.transform)
			assert.Zero(t, w.snaps)
		})
	}
}

func TestStepDown_VelocityBand(t *testing.T) {
	tests := []struct {
		vy   float64
		want bool
	}{
		{-0.16, true},
		{-0.49, true},
		{0, false},
		{0.5, false},
		{-0.5, false},
		{-3, false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("vy %.2f", tt.vy), func(t *testing.T) {
			w := newScriptedWorld()
			w.grounded = false
			w.down = physics.SweepResult{Hit: true, Travel: physics.Vec3{Y: -0.3}, Normal: physics.Up}
			s := newTestSolver(t, w)

			assert.Equal(t, tt.want, s.StepDown(physics.Vec3{X: 4, Y: tt.vy}))
			if tt.want {
				assert.InDelta(t, -0.3, w.transform.Origin.Y, tol)
				assert.True(t, w.grounded)
			} else {
				assert.Zero(t, w.transform.Origin.Y)
			}
		})
	}
}

func TestStepDown_NeedsWalkableGroundBelow(t *testing.T) {
	w := newScriptedWorld()
	w.grounded = false
	w.down = physics.SweepResult{Hit: true, Travel: physics.Vec3{Y: -0.3}, Normal: physics.Up}
	w.ray = physics.RayHit{}
	s := newTestSolver(t, w)

	assert.False(t, s.StepDown(physics.Vec3{Y: -0.2}))

	w.ray = physics.RayHit{Hit: true, Normal: physics.Vec3{X: 1}}
	assert.False(t, s.StepDown(physics.Vec3{Y: -0.2}))

	w.grounded = true
	w.ray = physics.RayHit{Hit: true, Normal: physics.Up}
	assert.False(t, s.StepDown(physics.Vec3{Y: -0.2}), "grounded bodies are left alone")
}

func TestStepOff_IgnoresVelocityBand(t *testing.T) {
	w := newScriptedWorld()
	w.grounded = false
	w.down = physics.SweepResult{Hit: true, Travel: physics.Vec3{Y: -0.3}, Normal: physics.Up}
	s := newTestSolver(t, w)

	require.False(t, s.StepDown(physics.Vec3{X: 4}), "floor velocity is outside the band")
	require.True(t, s.StepOff())
	assert.InDelta(t, -0.3, w.transform.Origin.Y, tol)
	assert.Equal(t, 1, w.snaps)

	assert.False(t, s.StepOff(), "grounded bodies are left alone")
	assert.Equal(t, 1, w.snaps)
}

func TestStepOff_NeedsWalkableGroundBelow(t *testing.T) {
	w := newScriptedWorld()
	w.grounded = false
	w.down = physics.SweepResult{Hit: true, Travel: physics.Vec3{Y: -0.3}, Normal: physics.Up}
	w.ray = physics.RayHit{}
	s := newTestSolver(t, w)

	assert.False(t, s.StepOff())
	assert.Zero(t, w.transform.Origin.Y)
}

func floor(minX, maxX, top float64) physics.AABB {
	return physics.AABB{Min: physics.Vec3{X: minX, Y: top - 1, Z: -5}, Max: physics.Vec3{X: maxX, Y: top, Z: 5}}
}

func TestSolver_KinematicBodyStepsOntoRiser(t *testing.T) {
	space := physics.NewSpace(
		floor(-5, 5, 0),
		physics.AABB{Min: physics.Vec3{X: 1, Y: 0, Z: -5}, Max: physics.Vec3{X: 3, Y: 0.3, Z: 5}},
	)
	body, err := physics.NewKinematicBody(space, physics.Vec3{X: 0.69})
	require.NoError(t, err)
	require.True(t, body.IsGrounded())
	s := newTestSolver(t, body)

	require.True(t, s.StepUp(physics.Vec3{X: 4}, 1.0/60.0))

	assert.InDelta(t, 0.3, body.Position().Y, tol)
	assert.InDelta(t, 0.69+4.0/60.0, body.Position().X, tol)
	assert.True(t, body.IsGrounded())
}

func TestSolver_KinematicBodyStepsDownLedge(t *testing.T) {
	space := physics.NewSpace(floor(-5, 0, 0), floor(0, 5, -0.3))
	body, err := physics.NewKinematicBody(space, physics.Vec3{X: 0.31})
	require.NoError(t, err)
	require.False(t, body.IsGrounded())
	s := newTestSolver(t, body)

	require.True(t, s.StepDown(physics.Vec3{X: 4, Y: -9.8 / 60.0}))

	assert.InDelta(t, -0.3, body.Position().Y, tol)
	assert.True(t, body.IsGrounded())
}

func TestSolver_KinematicBodyStepsOffLedge(t *testing.T) {
	space := physics.NewSpace(floor(-5, 0, 0), floor(0, 5, -0.3))
	body, err := physics.NewKinematicBody(space, physics.Vec3{X: 0.31})
	require.NoError(t, err)
	require.False(t, body.IsGrounded())
	s := newTestSolver(t, body)

	require.True(t, s.StepOff())

	assert.InDelta(t, -0.3, body.Position().Y, tol)
	assert.True(t, body.IsGrounded())
}

func TestSolver_KinematicBodyIgnoresTallLedge(t *testing.T) {
	space := physics.NewSpace(floor(-5, 0, 0), floor(0, 5, -2))
	body, err := physics.NewKinematicBody(space, physics.Vec3{X: 0.31})
	require.NoError(t, err)
	s := newTestSolver(t, body)

	assert.False(t, s.StepDown(physics.Vec3{X: 4, Y: -0.2}))
	assert.False(t, s.StepOff())
	assert.Zero(t, body.Position().Y)
}

func TestNewSolver_Validation(t *testing.T) {
	_, err := NewSolver(nil, DefaultConfig())
	assert.Error(t, err)

	cfg := DefaultConfig()
	cfg.MinStepHeight = cfg.MaxStepHeight
	_, err = NewSolver(newScriptedWorld(), cfg)
	assert.Error(t, err)

	cfg = DefaultConfig()
	cfg.StepDownMinVelocity = 0
	assert.Error(t, cfg.Validate())
}
