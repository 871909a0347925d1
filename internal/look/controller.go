package look

import (
	"fmt"

	"github.com/Versifine/stride/internal/physics"
)

// Config holds the look tuning. Angles are in degrees.
type Config struct {
	Sensitivity       float64 `yaml:"sensitivity"` // degrees per pixel of mouse motion
	PitchMinDeg       float64 `yaml:"pitch_min_deg"`
	PitchMaxDeg       float64 `yaml:"pitch_max_deg"`
	FreeLookMaxYawDeg float64 `yaml:"free_look_max_yaw_deg"`
	// TiltAmount is degrees of camera roll per radian of neck yaw.
	TiltAmount float64 `yaml:"tilt_amount"`
	// FreeLookAdvance is how far the camera animation is pushed forward on
	// every free-look tick, which runs any jump or land cue to its end.
	FreeLookAdvance float64 `yaml:"free_look_advance"`
}

func DefaultConfig() Config {
	return Config{
		Sensitivity:       0.25,
		PitchMinDeg:       -60,
		PitchMaxDeg:       55,
		FreeLookMaxYawDeg: 55,
		TiltAmount:        8,
		FreeLookAdvance:   2,
	}
}

func (c Config) Validate() error {
	if c.Sensitivity <= 0 {
		return fmt.Errorf("sensitivity must be positive, got %v", c.Sensitivity)
	}
	if c.PitchMinDeg >= c.PitchMaxDeg {
		return fmt.Errorf("pitch range [%v, %v] is empty", c.PitchMinDeg, c.PitchMaxDeg)
	}
	if c.PitchMinDeg < -90 || c.PitchMaxDeg > 90 {
		return fmt.Errorf("pitch range [%v, %v] exceeds ±90°", c.PitchMinDeg, c.PitchMaxDeg)
	}
	if c.FreeLookMaxYawDeg < 0 || c.FreeLookMaxYawDeg > 180 {
		return fmt.Errorf("free_look_max_yaw_deg must be in [0, 180], got %v", c.FreeLookMaxYawDeg)
	}
	if c.FreeLookAdvance < 0 {
		return fmt.Errorf("free_look_advance must be non-negative, got %v", c.FreeLookAdvance)
	}
	return nil
}

// State is the look orientation in radians. Yaw is the body yaw and is not
// bounded; Pitch and NeckYaw belong to the neck joint.
type State struct {
	Yaw         float64
	Pitch       float64
	NeckYaw     float64
	Roll        float64
	FreeLooking bool
}

// TickResult tells the caller what the camera animation should do this tick.
type TickResult struct {
	// AdvanceAnimation is non-zero while free-looking.
	AdvanceAnimation float64
}

type Controller struct {
	cfg   Config
	state State
}

func NewController(cfg Config) *Controller {
	return &Controller{cfg: cfg}
}

func (c *Controller) State() State { return c.state }

func (c *Controller) Config() Config { return c.cfg }

// SetFreeLook switches mode. Mouse deltas applied afterwards follow the new
// mode.
func (c *Controller) SetFreeLook(held bool) {
	c.state.FreeLooking = held
}

// ApplyMouse turns the view by a mouse delta in pixels. X turns the body, or
// only the neck while free-looking. Y always pitches the neck.
func (c *Controller) ApplyMouse(delta physics.Vec2) {
	if delta.IsZero() {
		return
	}
	turn := -physics.DegToRad(delta.X * c.cfg.Sensitivity)
	if c.state.FreeLooking {
		limit := physics.DegToRad(c.cfg.FreeLookMaxYawDeg)
		c.state.NeckYaw = physics.Clamp(c.state.NeckYaw+turn, -limit, limit)
	} else {
		c.state.Yaw += turn
	}
	c.state.Pitch = physics.Clamp(
		c.state.Pitch-physics.DegToRad(delta.Y*c.cfg.Sensitivity),
		physics.DegToRad(c.cfg.PitchMinDeg),
		physics.DegToRad(c.cfg.PitchMaxDeg),
	)
}

// Tick runs once per physics tick. While free-looking the camera rolls with
// the neck; otherwise neck yaw and roll ease back to zero by weight.
func (c *Controller) Tick(weight float64) TickResult {
	if c.state.FreeLooking {
		c.state.Roll = -physics.DegToRad(c.state.NeckYaw * c.cfg.TiltAmount)
		return TickResult{AdvanceAnimation: c.cfg.FreeLookAdvance}
	}
	c.state.NeckYaw = physics.Lerp(c.state.NeckYaw, 0, weight)
	c.state.Roll = physics.Lerp(c.state.Roll, 0, weight)
	return TickResult{}
}

// BodyTransform places the body at origin facing the accumulated yaw. The
// orientation is rebuilt from yaw alone, so no roll or pitch can creep in.
func (c *Controller) BodyTransform(origin physics.Vec3) physics.Transform {
	return physics.Transform{Origin: origin, Yaw: c.state.Yaw}
}

// SetYaw overrides the body yaw, used when the body is placed by a level
// spawn point or a teleport.
func (c *Controller) SetYaw(yaw float64) {
	c.state.Yaw = yaw
}
