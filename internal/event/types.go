package event

import (
	"github.com/Versifine/stride/internal/locomotion"
	"github.com/Versifine/stride/internal/physics"
)

const (
	EventCameraCue     = "camera.cue"
	EventCameraAdvance = "camera.advance"
	EventFootstep      = "audio.footstep"
	EventBlend         = "locomotion.blend"
)

type CameraCueEvent struct {
	Cue string
}

type CameraAdvanceEvent struct {
	Seconds float64
}

type FootstepEvent struct {
	Step locomotion.Footstep
}

type BlendEvent struct {
	Blend physics.Vec2
}
