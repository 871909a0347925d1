package audio

import (
	"math"
	"time"

	"github.com/Versifine/stride/internal/locomotion"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

const (
	DefaultSampleRate = beep.SampleRate(44100)

	normalStepDuration = 120 * time.Millisecond
	crouchStepDuration = 80 * time.Millisecond

	// resampleQuality is the interpolation window used for pitch shifts.
	resampleQuality = 3
)

// stepTone shapes the synthetic footstep of one sound set.
type stepTone struct {
	duration time.Duration
	decay    float64 // envelope decay per second
	rumbleHz float64
	noiseMix float64
	seed     int64
}

func toneFor(set locomotion.SoundSet) stepTone {
	if set == locomotion.SoundSetCrouch {
		return stepTone{duration: crouchStepDuration, decay: 45, rumbleHz: 140, noiseMix: 0.6, seed: 7}
	}
	return stepTone{duration: normalStepDuration, decay: 30, rumbleHz: 90, noiseMix: 0.35, seed: 3}
}

// stepGenerator is a decaying burst of noise over a low thump.
type stepGenerator struct {
	tone  stepTone
	rate  beep.SampleRate
	total int
	pos   int
	seed  int64
}

func newStepGenerator(tone stepTone, rate beep.SampleRate) *stepGenerator {
	return &stepGenerator{
		tone:  tone,
		rate:  rate,
		total: rate.N(tone.duration),
		seed:  tone.seed,
	}
}

func (g *stepGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if g.pos >= g.total {
			return i, i > 0
		}
		t := float64(g.pos) / float64(g.rate)
		envelope := math.Exp(-t * g.tone.decay)

		g.seed = (g.seed*1103515245 + 12345) & 0x7fffffff
		noise := float64(g.seed)/float64(0x7fffffff)*2 - 1
		thump := math.Sin(2 * math.Pi * g.tone.rumbleHz * t)

		sample := envelope * (g.tone.noiseMix*noise + (1-g.tone.noiseMix)*thump)
		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *stepGenerator) Err() error { return nil }

// withVolume scales s by a linear factor; zero or less is silent.
func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

// StepSound renders one footstep cue. A pitch above 1 plays it faster and
// higher.
func StepSound(step locomotion.Footstep, rate beep.SampleRate) beep.Streamer {
	var s beep.Streamer = newStepGenerator(toneFor(step.Set), rate)
	if step.Pitch > 0 && step.Pitch != 1 {
		s = beep.ResampleRatio(resampleQuality, step.Pitch, s)
	}
	return withVolume(s, step.Volume)
}

// StepLength is the number of samples StepSound produces for step.
func StepLength(step locomotion.Footstep, rate beep.SampleRate) int {
	n := rate.N(toneFor(step.Set).duration)
	if step.Pitch > 0 && step.Pitch != 1 {
		n = int(math.Ceil(float64(n) / step.Pitch))
	}
	return n
}
