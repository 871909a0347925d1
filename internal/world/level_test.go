package world

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Versifine/stride/internal/physics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name: "valid",
			content: `name: flat
spawn: [1, 0, 2]
spawn_yaw: 90
boxes:
  - name: floor
    min: [-5, -1, -5]
    max: [5, 0, 5]
`,
		},
		{
			name:    "no boxes",
			content: "name: empty\nspawn: [0, 0, 0]\n",
			wantErr: "no boxes",
		},
		{
			name: "short point",
			content: `boxes:
  - min: [0, 0]
    max: [1, 1, 1]
`,
			wantErr: "3 coordinates",
		},
		{
			name: "point is not a list",
			content: `boxes:
  - min: origin
    max: [1, 1, 1]
`,
			wantErr: "list of numbers",
		},
		{
			name: "inverted box",
			content: `boxes:
  - name: bad
    min: [0, 0, 0]
    max: [1, -1, 1]
`,
			wantErr: "bad",
		},
		{
			name: "spawn inside geometry",
			content: `spawn: [0, 0, 0]
boxes:
  - name: pillar
    min: [-1, 0, -1]
    max: [1, 3, 1]
`,
			wantErr: "inside box 0",
		},
		{
			name:    "broken yaml",
			content: "boxes: [",
			wantErr: "parse level",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lvl, err := ParseLevel([]byte(tt.content))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "flat", lvl.Name)
			assert.Equal(t, physics.Vec3{X: 1, Z: 2}, lvl.Spawn.Vec())
			assert.InDelta(t, physics.DegToRad(90), lvl.SpawnTransform().Yaw, 1e-12)
			require.Len(t, lvl.Boxes, 1)
			assert.Equal(t, physics.AABB{
				Min: physics.Vec3{X: -5, Y: -1, Z: -5},
				Max: physics.Vec3{X: 5, Z: 5},
			}, lvl.Boxes[0].AABB())
		})
	}
}

func TestLoadLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "level.yaml")
	require.NoError(t, os.WriteFile(path, []byte("boxes:\n  - min: [-1, -1, -1]\n    max: [1, 0, 1]\n"), 0o644))

	lvl, err := LoadLevel(path)
	require.NoError(t, err)
	space := lvl.Space()
	assert.True(t, space.Collides(physics.AABB{Min: physics.Vec3{Y: -0.5}, Max: physics.Vec3{X: 0.1, Y: -0.4, Z: 0.1}}))
	assert.False(t, space.Collides(physics.AABB{Min: physics.Vec3{X: 2, Y: -0.5}, Max: physics.Vec3{X: 2.1, Y: -0.4, Z: 0.1}}))

	_, err = LoadLevel(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestPointRoundTripsAsFlowSequence(t *testing.T) {
	out, err := yaml.Marshal(Box{Min: Point{X: -1.5, Y: 0, Z: 3}, Max: Point{X: 1, Y: 0.25, Z: 4}})
	require.NoError(t, err)
	assert.Contains(t, string(out), "min: [-1.5, 0, 3]")

	var back Box
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, 0.25, back.Max.Y)
}

func TestDemoLevel(t *testing.T) {
	lvl, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DemoLevelName, lvl.Name)

	byName := make(map[string]Box, len(lvl.Boxes))
	for _, b := range lvl.Boxes {
		byName[b.Name] = b
	}
	for _, name := range []string{"ground", "stair-1", "stair-4", "landing", "deck", "crawl-roof", "back-wall"} {
		assert.Contains(t, byName, name)
	}

	risers := []float64{0.25, 0.5, 0.75, 1}
	for i, want := range risers {
		b := byName["stair-"+string(rune('1'+i))]
		assert.InDelta(t, want, b.Max.Y, 1e-12)
	}
	assert.InDelta(t, 0.3, byName["deck"].Max.Y, 1e-12)
	roof := byName["crawl-roof"].Min.Y
	assert.Less(t, roof, physics.StandingHeight)
	assert.Greater(t, roof, physics.CrouchingHeight)
}

func TestDemoLevel_BodyStartsGrounded(t *testing.T) {
	lvl, err := Load(DemoLevelName)
	require.NoError(t, err)

	body, err := lvl.NewBody()
	require.NoError(t, err)
	assert.True(t, body.IsGrounded())
	assert.Equal(t, lvl.SpawnTransform(), body.Transform())
}
