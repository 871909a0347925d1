package main

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/Versifine/stride/internal/body"
	"github.com/Versifine/stride/internal/config"
	"github.com/Versifine/stride/internal/posture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSimulation(t *testing.T) *simulation {
	t.Helper()
	cfg := config.Default()
	require.NoError(t, cfg.Validate())
	sim, err := newSimulation(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return sim
}

func TestSimulation_WalkStairs(t *testing.T) {
	sim := newTestSimulation(t)
	script, err := lookupScript("walk-stairs")
	require.NoError(t, err)

	r := sim.runScript(script, 120)

	assert.True(t, r.Grounded)
	assert.InDelta(t, 1.0, r.Position.Y, 1e-3, "ends on the landing")
	assert.Less(t, r.Position.Z, -4.6)
	assert.Greater(t, r.Position.Z, -9.0)
	assert.Positive(t, sim.track.Len())
	assert.Empty(t, sim.cues)
}

func TestSimulation_JumpPlaysCues(t *testing.T) {
	sim := newTestSimulation(t)
	jump := func(tick int, _ body.Report) body.InputSnapshot {
		return body.InputSnapshot{JumpPressed: tick == 1}
	}

	r := sim.runScript(jump, 90)

	assert.True(t, r.Grounded)
	assert.Equal(t, []string{"jump", "land"}, sim.cues)
}

func TestSimulation_Crawl(t *testing.T) {
	sim := newTestSimulation(t)
	script, err := lookupScript("crawl")
	require.NoError(t, err)

	r := sim.runScript(script, 170)

	assert.Equal(t, posture.Standing, r.Posture, "the tactical preset gets up by standing")
	assert.Less(t, r.Position.Z, -1.0)
	assert.InDelta(t, 0.0, sim.rig.bodyOffset, 0.1)
}

func TestSimulation_WritesFootsteps(t *testing.T) {
	sim := newTestSimulation(t)
	script, err := lookupScript("walk-stairs")
	require.NoError(t, err)
	sim.runScript(script, 60)

	path := filepath.Join(t.TempDir(), "steps.wav")
	require.NoError(t, sim.track.SaveWAV(path))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(44))
}

func TestLookupScript(t *testing.T) {
	for _, name := range scriptNames() {
		_, err := lookupScript(name)
		assert.NoError(t, err, name)
	}
	_, err := lookupScript("moonwalk")
	assert.ErrorContains(t, err, "unknown script")
}

func TestLoadConfig(t *testing.T) {
	cfg, err := loadConfig(defaultConfigPath)
	require.NoError(t, err, "a missing default config falls back to defaults")
	assert.Equal(t, config.PresetTactical, cfg.Preset)

	_, err = loadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
