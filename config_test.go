package voxbody

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "voxbody.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, []string{"arrow", "barrel", "crate", "critter"}, cfg.PresetNames())
	assert.InDelta(t, 1.0/60, cfg.Dt(), 1e-7)
	assert.Equal(t, mgl32.Vec3{-32, -16, -32}, cfg.Bounds().Min)

	barrel, err := cfg.Presets["barrel"].BodyConfig()
	require.NoError(t, err)
	assert.Equal(t, OrientPhysics, barrel.Orientation)
	assert.Equal(t, float32(2), barrel.Mass)
	assert.Equal(t, mgl32.Vec3{0, 0.1, 0}, barrel.Offset)

	critter, err := cfg.Presets["critter"].BodyConfig()
	require.NoError(t, err)
	assert.Equal(t, float32(0), critter.Restitution, "explicit zero is kept")
}

func TestLoadConfig_Overrides(t *testing.T) {
	path := writeConfig(t, `
simulation:
  tick_rate: 30
  workers: 4
presets:
  ball:
    size: [0.5, 0.5, 0.5]
    restitution: 1
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, float32(30), cfg.Simulation.TickRate)
	assert.Equal(t, 4, cfg.Simulation.Workers)
	assert.Equal(t, float32(1), cfg.World.VoxelSize, "untouched sections keep their defaults")
	assert.Contains(t, cfg.PresetNames(), "crate")

	ball, err := cfg.Presets["ball"].BodyConfig()
	require.NoError(t, err)
	assert.Equal(t, mgl32.Vec3{0.5, 0.5, 0.5}, ball.Size)
	assert.Equal(t, float32(1), ball.Restitution)
	assert.Equal(t, DefaultBodyConfig().Friction, ball.Friction)
	assert.Equal(t, DefaultBodyConfig().Gravity, ball.Gravity)
	assert.Equal(t, OrientFixed, ball.Orientation)

	world := cfg.NewWorld()
	assert.Equal(t, cfg.Bounds(), world.Bounds())
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = LoadConfig(writeConfig(t, "world: [unclosed"))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "world:\n  min: [0, 0, 0]\n  max: [0, 10, 10]\n"))
	assert.ErrorContains(t, err, "axis 0")

	_, err = LoadConfig(writeConfig(t, "simulation:\n  tick_rate: 0\n"))
	assert.ErrorContains(t, err, "tick_rate")

	_, err = LoadConfig(writeConfig(t, "presets:\n  odd:\n    orientation: sideways\n"))
	assert.ErrorIs(t, err, ErrUnknownOrientMode)

	_, err = LoadConfig(writeConfig(t, "presets:\n  heavy:\n    mass: -3\n"))
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestLoadConfig_ExplicitZeroIsRejected(t *testing.T) {
	tests := []struct {
		name  string
		field string
	}{
		{"zero mass", "mass: 0"},
		{"zero inertia", "inertia: 0"},
		{"zero linear damping", "linear_damping: 0"},
		{"zero angular damping", "angular_damping: 0"},
		{"zero size", "size: [0, 0, 0]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, "presets:\n  ghost:\n    "+tt.field+"\n"))
			assert.ErrorIs(t, err, ErrInvalidConfiguration)
		})
	}
}

func TestBodyPreset_OmittedFieldsUseDefaults(t *testing.T) {
	cfg, err := BodyPreset{}.BodyConfig()
	require.NoError(t, err)

	def := DefaultBodyConfig()
	assert.Equal(t, def.Mass, cfg.Mass)
	assert.Equal(t, def.Inertia, cfg.Inertia)
	assert.Equal(t, def.LinearDamping, cfg.LinearDamping)
	assert.Equal(t, def.AngularDamping, cfg.AngularDamping)
	assert.Equal(t, def.Size, cfg.Size)
}
