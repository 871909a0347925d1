package body

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Versifine/stride/internal/locomotion"
	"github.com/Versifine/stride/internal/look"
	"github.com/Versifine/stride/internal/physics"
	"github.com/Versifine/stride/internal/posture"
	"github.com/Versifine/stride/internal/stairs"
)

var (
	ErrMissingWorld    = errors.New("body: collision world is nil")
	ErrMissingRig      = errors.New("body: camera rig is nil")
	ErrMissingAnimator = errors.New("body: animator is nil")
)

// World is the collision capability driven by the controller.
// physics.KinematicBody implements it.
type World interface {
	stairs.World
	ResolveSlide(velocity physics.Vec3, delta float64) physics.Vec3
	EnableEnvelope(p posture.Posture)
}

// Rig receives the visual pose every tick.
type Rig interface {
	SetBodyOffset(y float64)
	SetEyeOffset(offset physics.Vec2)
	SetNeck(yaw, pitch float64)
	SetCameraRoll(roll float64)
}

type Cue string

const (
	CueJump Cue = "jump"
	CueLand Cue = "land"
)

// Animator plays camera cues. Advance pushes the current cue forward by the
// given number of seconds.
type Animator interface {
	Play(cue Cue)
	Advance(seconds float64)
}

type FootstepPlayer interface {
	PlayFootstep(step locomotion.Footstep)
}

// BlendConsumer receives the locomotion blend vector (body-local heading
// times speed, X right and Y forward).
type BlendConsumer interface {
	SetBlend(v physics.Vec2)
}

// Deps are the collaborators of a Controller. World, Probes, Rig and
// Animator are required; Footsteps and Blend may be nil.
type Deps struct {
	World     World
	Probes    posture.Probes
	Rig       Rig
	Animator  Animator
	Footsteps FootstepPlayer
	Blend     BlendConsumer
}

// Report is the outcome of one tick.
type Report struct {
	Posture     posture.Posture
	Gait        locomotion.Gait
	Speed       float64
	Sprinting   bool
	Grounded    bool
	Position    physics.Vec3
	Velocity    physics.Vec3
	Look        look.State
	Jumped      bool
	Landed      bool
	SteppedUp   bool
	SteppedDown bool
	Footstep    *locomotion.Footstep
	Blend       physics.Vec2
	BodyOffset  float64
	EyeOffset   physics.Vec2
}

// Controller runs the movement core once per physics tick. Input may be
// submitted from another goroutine; ticks must not overlap.
type Controller struct {
	mu         sync.Mutex
	cfg        Config
	deps       Deps
	posture    *posture.Machine
	locomotion *locomotion.Model
	look       *look.Controller
	stairs     *stairs.Solver
	input      InputBuffer

	velocity     physics.Vec3
	lastVelocity physics.Vec3
	direction    physics.Vec3
	bodyOffset   float64
	blend        physics.Vec2
	ticks        uint64
}

// directionEpsilon is where the smoothed heading counts as stopped.
const directionEpsilon = 1e-3

func New(cfg Config, deps Deps) (*Controller, error) {
	if deps.World == nil {
		return nil, ErrMissingWorld
	}
	if deps.Rig == nil {
		return nil, ErrMissingRig
	}
	if deps.Animator == nil {
		return nil, ErrMissingAnimator
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("body: invalid config: %w", err)
	}
	policy, err := posture.ParseExitPolicy(cfg.ProneExit)
	if err != nil {
		return nil, err
	}
	machine, err := posture.NewMachine(deps.Probes, policy)
	if err != nil {
		return nil, fmt.Errorf("body: %w", err)
	}
	solver, err := stairs.NewSolver(deps.World, cfg.Stairs)
	if err != nil {
		return nil, fmt.Errorf("body: %w", err)
	}

	c := &Controller{
		cfg:        cfg,
		deps:       deps,
		posture:    machine,
		locomotion: locomotion.NewModel(cfg.Locomotion),
		look:       look.NewController(cfg.Look),
		stairs:     solver,
	}
	c.look.SetYaw(deps.World.Transform().Yaw)
	deps.World.EnableEnvelope(machine.Current())
	return c, nil
}

// Submit buffers input for the next tick.
func (c *Controller) Submit(in InputSnapshot) {
	if c == nil {
		return
	}
	c.input.Submit(in)
}

// Tick consumes the buffered input and advances one physics step.
func (c *Controller) Tick(delta float64) Report {
	return c.Step(c.input.Drain(), delta)
}

// Step advances one physics step with an explicit snapshot.
func (c *Controller) Step(in InputSnapshot, delta float64) Report {
	c.mu.Lock()
	defer c.mu.Unlock()

	delta = physics.Clamp(delta, 0, c.cfg.MaxDelta)
	weight := physics.Clamp(delta*c.cfg.LerpSpeed, 0, 1)
	in.Move = clampMove(in.Move)
	world := c.deps.World
	var report Report

	// Sample: look follows input as it arrives, in the mode it was made in.
	if !in.MouseDeltaOtherMode.IsZero() {
		c.look.SetFreeLook(!in.FreeLookHeld)
		c.look.ApplyMouse(in.MouseDeltaOtherMode)
	}
	c.look.SetFreeLook(in.FreeLookHeld)
	c.look.ApplyMouse(in.MouseDelta)
	freeLooking := c.look.State().FreeLooking
	world.SetTransform(c.look.BodyTransform(world.Transform().Origin))

	// Posture and jump on the ground, gravity in the air.
	grounded := world.IsGrounded()
	if grounded {
		if c.lastVelocity.Y < c.cfg.LandVelocity && !freeLooking {
			c.deps.Animator.Play(CueLand)
			report.Landed = true
			slog.Debug("landed", "velocity", c.lastVelocity.Y)
		}
		if in.CrouchPressed {
			c.posture.RequestCrouch()
		}
		if in.PronePressed {
			c.posture.RequestProne()
		}
		if in.JumpPressed && c.posture.RequestJump() {
			c.velocity.Y = c.cfg.JumpVelocity
			report.Jumped = true
			if !freeLooking {
				c.deps.Animator.Play(CueJump)
			}
		}
	} else {
		c.velocity.Y -= c.cfg.Gravity * delta
	}
	current := c.posture.Current()

	// Locomotion.
	out := c.locomotion.Step(locomotion.Input{
		Posture:    current,
		Move:       in.Move,
		SprintHeld: in.SprintHeld,
		Grounded:   grounded,
		Delta:      delta,
		Weight:     weight,
	})
	if out.Footstep != nil && c.deps.Footsteps != nil {
		c.deps.Footsteps.PlayFootstep(*out.Footstep)
	}
	report.Footstep = out.Footstep
	if grounded {
		local := physics.Vec3{X: out.Heading.X, Z: -out.Heading.Y}
		yaw := world.Transform().Yaw
		c.direction = c.direction.Lerp(local.RotateY(yaw).Normalized(), weight)
		if c.direction.Length() < directionEpsilon {
			c.direction = physics.Vec3{}
		}
	}

	// Posture offsets and envelope.
	c.bodyOffset = physics.Lerp(c.bodyOffset, -c.cfg.depth(current), weight)
	world.EnableEnvelope(current)
	c.deps.Rig.SetBodyOffset(c.bodyOffset)
	c.deps.Rig.SetEyeOffset(out.EyeOffset)

	// Look.
	lookTick := c.look.Tick(weight)
	if lookTick.AdvanceAnimation > 0 {
		c.deps.Animator.Advance(lookTick.AdvanceAnimation)
	}
	ls := c.look.State()
	c.deps.Rig.SetNeck(ls.NeckYaw, ls.Pitch)
	c.deps.Rig.SetCameraRoll(ls.Roll)

	// Horizontal velocity.
	if !c.direction.IsZero() {
		c.velocity.X = c.direction.X * out.Speed
		c.velocity.Z = c.direction.Z * out.Speed
	} else {
		c.velocity.X = physics.MoveToward(c.velocity.X, 0, out.Speed)
		c.velocity.Z = physics.MoveToward(c.velocity.Z, 0, out.Speed)
	}

	// Stairs first, then the generic slide.
	c.lastVelocity = c.velocity
	if c.stairs.StepUp(c.lastVelocity, delta) {
		report.SteppedUp = true
	} else {
		c.velocity = world.ResolveSlide(c.velocity, delta)
		if grounded && !report.Jumped {
			report.SteppedDown = c.stairs.StepOff()
		} else {
			report.SteppedDown = c.stairs.StepDown(c.lastVelocity)
		}
	}

	target := out.Heading.Scale(out.Speed)
	c.blend = c.blend.MoveToward(target, c.cfg.BlendRate*delta)
	if c.deps.Blend != nil {
		c.deps.Blend.SetBlend(c.blend)
	}

	c.ticks++
	state := c.locomotion.State()
	report.Posture = current
	report.Gait = out.Gait
	report.Speed = out.Speed
	report.Sprinting = state.Sprinting
	report.Grounded = world.IsGrounded()
	report.Position = world.Transform().Origin
	report.Velocity = c.velocity
	report.Look = ls
	report.Blend = c.blend
	report.BodyOffset = c.bodyOffset
	report.EyeOffset = out.EyeOffset
	return report
}

// Teleport places the body at origin and clears its motion.
func (c *Controller) Teleport(origin physics.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	world := c.deps.World
	world.SetTransform(physics.Transform{Origin: origin, Yaw: world.Transform().Yaw})
	c.velocity = physics.Vec3{}
	c.lastVelocity = physics.Vec3{}
	c.direction = physics.Vec3{}
	world.ApplyFloorSnap()
}

func (c *Controller) Posture() posture.Posture {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.posture.Current()
}

func (c *Controller) PreviousPosture() posture.Posture {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.posture.Previous()
}

func (c *Controller) Locomotion() locomotion.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.locomotion.State()
}

func (c *Controller) Look() look.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.look.State()
}

func (c *Controller) Velocity() physics.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.velocity
}

func (c *Controller) Ticks() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ticks
}

func (c *Controller) Config() Config { return c.cfg }
