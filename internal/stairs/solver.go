package stairs

import (
	"fmt"
	"log/slog"

	"github.com/Versifine/stride/internal/physics"
)

// World is the collision capability the solver needs. physics.KinematicBody
// implements it.
type World interface {
	Transform() physics.Transform
	SetTransform(physics.Transform)
	IsGrounded() bool
	IsWalkable(normal physics.Vec3) bool
	SweepTest(from physics.Transform, motion physics.Vec3) physics.SweepResult
	RayProbe(origin, target physics.Vec3) physics.RayHit
	ApplyFloorSnap()
}

type Config struct {
	MaxStepHeight float64 `yaml:"max_step_height"`
	// MinStepHeight separates a step from floor at the same level.
	MinStepHeight float64 `yaml:"min_step_height"`
	// AheadProbeRaise is the height of the ahead probe above the landing
	// point, as a fraction of MaxStepHeight.
	AheadProbeRaise float64 `yaml:"ahead_probe_raise"`
	// AheadProbeReach pushes the ahead probe this far past the landing point
	// along the direction of travel.
	AheadProbeReach float64 `yaml:"ahead_probe_reach"`
	// StepDownMinVelocity is the lower bound of the vertical velocity band
	// (StepDownMinVelocity, 0) in which a step down may snap the body.
	StepDownMinVelocity float64 `yaml:"step_down_min_velocity"`
}

func DefaultConfig() Config {
	return Config{
		MaxStepHeight:       0.5,
		MinStepHeight:       0.01,
		AheadProbeRaise:     0.8,
		AheadProbeReach:     0.1,
		StepDownMinVelocity: -0.5,
	}
}

func (c Config) Validate() error {
	if c.MaxStepHeight <= 0 {
		return fmt.Errorf("max_step_height must be positive, got %v", c.MaxStepHeight)
	}
	if c.MinStepHeight < 0 || c.MinStepHeight >= c.MaxStepHeight {
		return fmt.Errorf("min_step_height must be in [0, %v), got %v", c.MaxStepHeight, c.MinStepHeight)
	}
	if c.AheadProbeRaise <= 0 || c.AheadProbeRaise > 1 {
		return fmt.Errorf("ahead_probe_raise must be in (0, 1], got %v", c.AheadProbeRaise)
	}
	if c.AheadProbeReach < 0 {
		return fmt.Errorf("ahead_probe_reach must be non-negative, got %v", c.AheadProbeReach)
	}
	if c.StepDownMinVelocity >= 0 {
		return fmt.Errorf("step_down_min_velocity must be negative, got %v", c.StepDownMinVelocity)
	}
	return nil
}

// Solver glides the body over height changes within MaxStepHeight that a
// plain slide would snag on or fall off.
type Solver struct {
	world World
	cfg   Config
}

func NewSolver(world World, cfg Config) (*Solver, error) {
	if world == nil {
		return nil, fmt.Errorf("stairs: world is nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("stairs: %w", err)
	}
	return &Solver{world: world, cfg: cfg}, nil
}

func (s *Solver) Config() Config { return s.cfg }

// StepUp tries to lift the body onto a step ahead. It returns true when it
// moved the body, in which case the caller skips slide resolution for this
// tick.
func (s *Solver) StepUp(lastVelocity physics.Vec3, delta float64) bool {
	if !s.world.IsGrounded() {
		return false
	}
	motion := lastVelocity.Horizontal().Scale(delta)
	if motion.IsZero() {
		return false
	}

	current := s.world.Transform()
	maxStep := s.cfg.MaxStepHeight

	// The raise is shortened by any ceiling above, and the raised body must
	// be able to make the horizontal move.
	up := s.world.SweepTest(current, physics.Vec3{Y: maxStep})
	raise := up.Travel.Y
	if raise <= s.cfg.MinStepHeight {
		return false
	}
	raised := current.Translated(physics.Vec3{Y: raise})
	if across := s.world.SweepTest(raised, motion); across.Hit {
		return false
	}

	hypothesis := raised.Translated(motion)
	down := s.world.SweepTest(hypothesis, physics.Vec3{Y: -raise})
	if !down.Hit {
		return false
	}

	landing := hypothesis.Origin.Add(down.Travel)
	height := landing.Y - current.Origin.Y
	if height > maxStep || height <= s.cfg.MinStepHeight {
		return false
	}
	if down.Contact.Y-current.Origin.Y > maxStep {
		return false
	}

	dir := motion.Normalized()
	probeFrom := down.Contact.
		Add(physics.Vec3{Y: maxStep * s.cfg.AheadProbeRaise}).
		Add(dir.Scale(s.cfg.AheadProbeReach))
	probeTo := probeFrom.Add(physics.Vec3{Y: -maxStep})
	ahead := s.world.RayProbe(probeFrom, probeTo)
	if !ahead.Hit || !s.world.IsWalkable(ahead.Normal) {
		return false
	}

	s.world.SetTransform(physics.Transform{Origin: landing, Yaw: current.Yaw})
	s.world.ApplyFloorSnap()
	slog.Debug("stepped up", "height", height, "to", landing)
	return true
}

// StepDown keeps an airborne body on the ground after it walks off a tread.
// It only acts inside the small negative velocity band so jumps and real
// falls are left alone.
func (s *Solver) StepDown(lastVelocity physics.Vec3) bool {
	if s.world.IsGrounded() {
		return false
	}
	if lastVelocity.Y >= 0 || lastVelocity.Y <= s.cfg.StepDownMinVelocity {
		return false
	}
	return s.snapDown()
}

// StepOff covers the tick a grounded body walks off a tread. Its vertical
// velocity is still that of the floor, so no band applies. The caller must
// only use it when the body was grounded at the start of the tick and did not
// jump.
func (s *Solver) StepOff() bool {
	if s.world.IsGrounded() {
		return false
	}
	return s.snapDown()
}

func (s *Solver) snapDown() bool {
	if !s.GroundBelow() {
		return false
	}

	current := s.world.Transform()
	res := s.world.SweepTest(current, physics.Vec3{Y: -s.cfg.MaxStepHeight})
	if !res.Hit {
		return false
	}
	s.world.SetTransform(current.Translated(physics.Vec3{Y: res.Travel.Y}))
	s.world.ApplyFloorSnap()
	slog.Debug("stepped down", "height", -res.Travel.Y)
	return true
}

// GroundBelow casts the below probe: walkable ground within MaxStepHeight
// under the feet.
func (s *Solver) GroundBelow() bool {
	origin := s.world.Transform().Origin
	hit := s.world.RayProbe(origin, origin.Add(physics.Vec3{Y: -s.cfg.MaxStepHeight}))
	return hit.Hit && s.world.IsWalkable(hit.Normal)
}
