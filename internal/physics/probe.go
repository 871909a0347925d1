package physics

import "github.com/Versifine/stride/internal/posture"

// Probe is a ray attached to a body. From and To are body-local offsets and
// follow the body's yaw.
type Probe struct {
	body *KinematicBody
	From Vec3
	To   Vec3
	last RayHit
}

func NewProbe(body *KinematicBody, from, to Vec3) *Probe {
	return &Probe{body: body, From: from, To: to}
}

// Update recasts the probe from the body's current transform.
func (p *Probe) Update() RayHit {
	if p == nil || p.body == nil {
		return RayHit{}
	}
	t := p.body.Transform()
	p.last = p.body.RayProbe(t.ToWorld(p.From), t.ToWorld(p.To))
	return p.last
}

func (p *Probe) IsColliding() bool {
	return p.Update().Hit
}

// CollisionNormal is the normal of the most recent cast.
func (p *Probe) CollisionNormal() Vec3 {
	if p == nil {
		return Vec3{}
	}
	return p.last.Normal
}

// PostureProbes builds the clearance rays used by the posture machine for a
// body with the given envelopes.
func PostureProbes(body *KinematicBody, envelopes [posture.Count]Envelope) posture.Probes {
	start := Vec3{Y: ProbeStartHeight}
	low := Vec3{Y: ProneProbeHeight}
	return posture.Probes{
		StandUp:    NewProbe(body, start, Vec3{Y: envelopes[posture.Standing].Height}),
		CrouchUp:   NewProbe(body, start, Vec3{Y: envelopes[posture.Crouching].Height}),
		ProneFront: NewProbe(body, low, low.Add(Vec3{Z: -ProneProbeReach})),
		ProneBack:  NewProbe(body, low, low.Add(Vec3{Z: ProneProbeReach})),
	}
}
