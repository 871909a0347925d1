package audio

import (
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/Versifine/stride/internal/event"
	"github.com/Versifine/stride/internal/locomotion"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
)

// FootstepTrack records footstep cues and renders them on a timeline, each
// one starting at its cue time.
type FootstepTrack struct {
	mu    sync.Mutex
	rate  beep.SampleRate
	steps []locomotion.Footstep
}

func NewFootstepTrack(rate beep.SampleRate) *FootstepTrack {
	if rate <= 0 {
		rate = DefaultSampleRate
	}
	return &FootstepTrack{rate: rate}
}

func (t *FootstepTrack) Add(step locomotion.Footstep) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.steps = append(t.steps, step)
}

// Subscribe records every footstep published on bus.
func (t *FootstepTrack) Subscribe(bus *event.Bus) {
	bus.Subscribe(event.EventFootstep, func(raw any) {
		evt, ok := raw.(*event.FootstepEvent)
		if !ok {
			return
		}
		t.Add(evt.Step)
	})
}

func (t *FootstepTrack) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.steps)
}

func (t *FootstepTrack) SampleRate() beep.SampleRate { return t.rate }

func (t *FootstepTrack) sorted() []locomotion.Footstep {
	t.mu.Lock()
	steps := make([]locomotion.Footstep, len(t.steps))
	copy(steps, t.steps)
	t.mu.Unlock()
	sort.SliceStable(steps, func(i, j int) bool { return steps[i].Time < steps[j].Time })
	return steps
}

// Streamer lays the recorded steps out in time. A step still sounding when
// the next one starts is cut off.
func (t *FootstepTrack) Streamer() beep.Streamer {
	steps := t.sorted()
	parts := make([]beep.Streamer, 0, 2*len(steps))
	cursor := 0
	for i, step := range steps {
		start := t.offset(step.Time)
		if start > cursor {
			parts = append(parts, beep.Silence(start-cursor))
			cursor = start
		}
		length := StepLength(step, t.rate)
		if i+1 < len(steps) {
			if next := t.offset(steps[i+1].Time); next-cursor < length {
				length = next - cursor
			}
		}
		if length <= 0 {
			continue
		}
		padded := beep.Seq(StepSound(step, t.rate), beep.Silence(-1))
		parts = append(parts, beep.Take(length, padded))
		cursor += length
	}
	return beep.Seq(parts...)
}

func (t *FootstepTrack) offset(seconds float64) int {
	if seconds <= 0 {
		return 0
	}
	return t.rate.N(time.Duration(seconds * float64(time.Second)))
}

// WriteWAV encodes the track as 16-bit stereo WAV.
func (t *FootstepTrack) WriteWAV(w io.WriteSeeker) error {
	format := beep.Format{SampleRate: t.rate, NumChannels: 2, Precision: 2}
	if err := wav.Encode(w, t.Streamer(), format); err != nil {
		return fmt.Errorf("encode footsteps: %w", err)
	}
	return nil
}

func (t *FootstepTrack) SaveWAV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := t.WriteWAV(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
