package event

import (
	"github.com/Versifine/stride/internal/body"
	"github.com/Versifine/stride/internal/locomotion"
	"github.com/Versifine/stride/internal/physics"
)

// Relay turns the controller's fire-and-forget cues into bus events. It
// satisfies body.Animator, body.FootstepPlayer and body.BlendConsumer.
type Relay struct {
	bus *Bus
}

var (
	_ body.Animator       = (*Relay)(nil)
	_ body.FootstepPlayer = (*Relay)(nil)
	_ body.BlendConsumer  = (*Relay)(nil)
)

func NewRelay(bus *Bus) *Relay {
	return &Relay{bus: bus}
}

func (r *Relay) Play(cue body.Cue) {
	r.bus.Publish(EventCameraCue, &CameraCueEvent{Cue: string(cue)})
}

func (r *Relay) Advance(seconds float64) {
	r.bus.Publish(EventCameraAdvance, &CameraAdvanceEvent{Seconds: seconds})
}

func (r *Relay) PlayFootstep(step locomotion.Footstep) {
	r.bus.Publish(EventFootstep, &FootstepEvent{Step: step})
}

func (r *Relay) SetBlend(v physics.Vec2) {
	r.bus.Publish(EventBlend, &BlendEvent{Blend: v})
}
