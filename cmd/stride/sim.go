package main

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/Versifine/stride/internal/audio"
	"github.com/Versifine/stride/internal/body"
	"github.com/Versifine/stride/internal/config"
	"github.com/Versifine/stride/internal/event"
	"github.com/Versifine/stride/internal/physics"
	"github.com/Versifine/stride/internal/world"
	"github.com/gopxl/beep"
)

// poseRig keeps the latest camera pose pushed by the controller.
type poseRig struct {
	mu         sync.Mutex
	bodyOffset float64
	eyeOffset  physics.Vec2
	neckYaw    float64
	neckPitch  float64
	roll       float64
}

func (r *poseRig) SetBodyOffset(y float64) {
	r.mu.Lock()
	r.bodyOffset = y
	r.mu.Unlock()
}

func (r *poseRig) SetEyeOffset(offset physics.Vec2) {
	r.mu.Lock()
	r.eyeOffset = offset
	r.mu.Unlock()
}

func (r *poseRig) SetNeck(yaw, pitch float64) {
	r.mu.Lock()
	r.neckYaw, r.neckPitch = yaw, pitch
	r.mu.Unlock()
}

func (r *poseRig) SetCameraRoll(roll float64) {
	r.mu.Lock()
	r.roll = roll
	r.mu.Unlock()
}

// simulation wires one controller to a level, the event bus and the
// footstep track.
type simulation struct {
	level  *world.Level
	kb     *physics.KinematicBody
	ctrl   *body.Controller
	bus    *event.Bus
	rig    *poseRig
	track  *audio.FootstepTrack
	cues   []string
	delta  float64
	logger *slog.Logger
}

func newSimulation(cfg *config.Config, logger *slog.Logger) (*simulation, error) {
	bodyCfg, err := cfg.Body()
	if err != nil {
		return nil, err
	}
	level, err := world.Load(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("load level: %w", err)
	}
	kb, err := level.NewBody()
	if err != nil {
		return nil, err
	}

	s := &simulation{
		level:  level,
		kb:     kb,
		bus:    event.NewBus(),
		rig:    &poseRig{},
		track:  audio.NewFootstepTrack(beep.SampleRate(cfg.Audio.SampleRate)),
		delta:  cfg.TickDelta(),
		logger: logger,
	}
	s.track.Subscribe(s.bus)
	s.bus.Subscribe(event.EventCameraCue, func(raw any) {
		if evt, ok := raw.(*event.CameraCueEvent); ok {
			s.cues = append(s.cues, evt.Cue)
			s.logger.Debug("Camera cue", "cue", evt.Cue)
		}
	})

	relay := event.NewRelay(s.bus)
	s.ctrl, err = body.New(bodyCfg, body.Deps{
		World:     kb,
		Probes:    physics.PostureProbes(kb, physics.DefaultEnvelopes()),
		Rig:       s.rig,
		Animator:  relay,
		Footsteps: relay,
		Blend:     relay,
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// runScript feeds script for n ticks and returns the last report.
func (s *simulation) runScript(script Script, n int) body.Report {
	var report body.Report
	for i := 0; i < n; i++ {
		s.ctrl.Submit(script(i, report))
		report = s.ctrl.Tick(s.delta)
		if report.SteppedUp || report.SteppedDown || report.Jumped || report.Landed {
			s.logger.Debug("Tick event",
				"tick", i,
				"stepped_up", report.SteppedUp,
				"stepped_down", report.SteppedDown,
				"jumped", report.Jumped,
				"landed", report.Landed,
				"y", report.Position.Y,
			)
		}
	}
	return report
}
