package physics

import (
	"fmt"
	"math"

	"github.com/Versifine/stride/internal/posture"
)

// Envelope is the collision box of one posture, measured from the feet.
type Envelope struct {
	Width  float64
	Height float64
}

func DefaultEnvelopes() [posture.Count]Envelope {
	return [posture.Count]Envelope{
		posture.Standing:  {Width: StandingWidth, Height: StandingHeight},
		posture.Crouching: {Width: CrouchingWidth, Height: CrouchingHeight},
		posture.Proning:   {Width: ProningWidth, Height: ProningHeight},
	}
}

// KinematicBody moves a posture-dependent box through a Space. It provides
// the swept tests, ray probes, floor tracking and slide resolution the
// movement core consumes.
type KinematicBody struct {
	space         *Space
	transform     Transform
	envelopes     [posture.Count]Envelope
	active        posture.Posture
	onFloor       bool
	floorNormal   Vec3
	snapLength    float64
	floorMaxAngle float64
}

type BodyOption func(*KinematicBody)

func WithEnvelopes(envelopes [posture.Count]Envelope) BodyOption {
	return func(b *KinematicBody) { b.envelopes = envelopes }
}

func WithFloorSnapLength(length float64) BodyOption {
	return func(b *KinematicBody) { b.snapLength = math.Max(length, 0) }
}

// WithFloorMaxAngle sets the steepest walkable slope in degrees.
func WithFloorMaxAngle(deg float64) BodyOption {
	return func(b *KinematicBody) { b.floorMaxAngle = DegToRad(deg) }
}

func NewKinematicBody(space *Space, origin Vec3, opts ...BodyOption) (*KinematicBody, error) {
	if space == nil {
		return nil, fmt.Errorf("collision space is nil")
	}
	b := &KinematicBody{
		space:         space,
		transform:     Transform{Origin: origin},
		envelopes:     DefaultEnvelopes(),
		active:        posture.Standing,
		snapLength:    DefaultFloorSnapLength,
		floorMaxAngle: DegToRad(DefaultFloorMaxAngle),
	}
	for _, opt := range opts {
		opt(b)
	}
	for p, env := range b.envelopes {
		if env.Width <= 0 || env.Height <= 0 {
			return nil, fmt.Errorf("envelope %s has non-positive size %.3fx%.3f", posture.Posture(p), env.Width, env.Height)
		}
	}
	b.onFloor = b.probeFloor()
	return b, nil
}

func (b *KinematicBody) Transform() Transform { return b.transform }

func (b *KinematicBody) SetTransform(t Transform) { b.transform = t }

func (b *KinematicBody) Position() Vec3 { return b.transform.Origin }

func (b *KinematicBody) IsGrounded() bool { return b.onFloor }

func (b *KinematicBody) FloorNormal() Vec3 { return b.floorNormal }

func (b *KinematicBody) ActiveEnvelope() posture.Posture { return b.active }

// EnableEnvelope switches the collision box to the one of p. Exactly one
// envelope is active at a time.
func (b *KinematicBody) EnableEnvelope(p posture.Posture) {
	if !p.Valid() {
		return
	}
	b.active = p
}

func (b *KinematicBody) AABB() AABB {
	return b.envelopeAt(b.transform.Origin)
}

func (b *KinematicBody) envelopeAt(origin Vec3) AABB {
	env := b.envelopes[b.active]
	return BoxAt(origin, env.Width, env.Height)
}

// IsWalkable reports whether a surface with this normal counts as floor.
func (b *KinematicBody) IsWalkable(normal Vec3) bool {
	if normal.IsZero() {
		return false
	}
	return normal.AngleTo(Up) <= b.floorMaxAngle+CollisionAxisTolerance
}

// SweepTest moves the active envelope from the given transform along motion
// without committing anything.
func (b *KinematicBody) SweepTest(from Transform, motion Vec3) SweepResult {
	return b.space.Sweep(b.envelopeAt(from.Origin), motion)
}

func (b *KinematicBody) RayProbe(origin, target Vec3) RayHit {
	return b.space.RayCast(origin, target)
}

// ApplyFloorSnap pulls the body down onto walkable floor within the snap
// length.
func (b *KinematicBody) ApplyFloorSnap() {
	res := b.space.Sweep(b.AABB(), Vec3{Y: -b.snapLength})
	if !res.Hit || !b.IsWalkable(res.Normal) {
		return
	}
	b.transform.Origin = b.transform.Origin.Add(res.Travel)
	b.onFloor = true
	b.floorNormal = res.Normal
}

// ResolveSlide moves the body by velocity*delta, clipping blocked axes, and
// returns the velocity with blocked components removed.
func (b *KinematicBody) ResolveSlide(velocity Vec3, delta float64) Vec3 {
	wasOnFloor := b.onFloor
	res := b.space.Slide(b.AABB(), velocity.Scale(delta))
	b.transform.Origin = b.transform.Origin.Add(res.Travel)

	out := velocity
	for axis, blocked := range res.Blocked {
		if blocked {
			out.setAxis(axis, 0)
		}
	}

	b.onFloor = b.probeFloor()
	if !b.onFloor && wasOnFloor && velocity.Y <= 0 {
		b.ApplyFloorSnap()
	}
	return out
}

func (b *KinematicBody) probeFloor() bool {
	res := b.space.Sweep(b.AABB(), Vec3{Y: -GroundProbeDistance})
	if !res.Hit || !b.IsWalkable(res.Normal) {
		b.floorNormal = Vec3{}
		return false
	}
	b.floorNormal = res.Normal
	return true
}
