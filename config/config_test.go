package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/cubedrop/config"
	"github.com/plus3/cubedrop/input"
	"github.com/plus3/cubedrop/physics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cubedrop.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
	assert.Equal(t, input.KeyR, cfg.Scene.ResetKey)
	assert.Equal(t, [3]float32{}, cfg.Scene.InitialSpin)
	assert.NoError(t, cfg.Validate())
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
window:
  width: 800
  height: 600
physics:
  gravity: [0, -3.7, 0]
  iterations: 20
scene:
  reset_key: space
  initial_spin: [2.5, 3.5, 1.5]
headless:
  press_reset: [10, 20]
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 800, cfg.Window.Width)
	assert.Equal(t, "cubedrop", cfg.Window.Title, "unset keys keep their defaults")
	assert.Equal(t, input.KeySpace, cfg.Scene.ResetKey)
	assert.Equal(t, [3]float32{2.5, 3.5, 1.5}, cfg.Scene.InitialSpin)
	assert.Equal(t, []int{10, 20}, cfg.Headless.PressReset)

	settings := cfg.PhysicsSettings()
	assert.Equal(t, mgl32.Vec3{0, -3.7, 0}, settings.Gravity)
	assert.Equal(t, 20, settings.Iterations)
	assert.Equal(t, physics.DefaultSettings().Timestep, settings.Timestep)
}

func TestLoadEmptyFile(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoadRejectsBadFiles(t *testing.T) {
	for name, body := range map[string]string{
		"malformed":   "window: [",
		"unknown key": "window:\n  colour: red\n",
		"bad key":     "scene:\n  reset_key: hyper\n",
		"bad size":    "window:\n  width: -1\n",
		"bad step":    "physics:\n  timestep: 0\n",
		"bad gravity": "physics:\n  gravity: [1, 2]\n",
		"nan step":    "physics:\n  timestep: .nan\n",
		"inf gravity": "physics:\n  gravity: [0, -.inf, 0]\n",
		"nan gravity": "physics:\n  gravity: [.nan, 0, 0]\n",
		"inf spin":    "scene:\n  initial_spin: [0, .inf, 0]\n",
	} {
		t.Run(name, func(t *testing.T) {
			path := writeConfig(t, body)
			_, err := config.Load(path)
			require.Error(t, err)
			assert.True(t, strings.HasPrefix(err.Error(), "config: "+path), err.Error())
		})
	}
}

func TestValidateRejectsNonFiniteValues(t *testing.T) {
	cfg := config.Default()
	cfg.Physics.Timestep = math32.NaN()
	cfg.Physics.Gravity[1] = math32.Inf(-1)
	cfg.Scene.InitialSpin[2] = math32.NaN()

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, "physics.timestep")
	assert.ErrorContains(t, err, "physics.gravity must be finite")
	assert.ErrorContains(t, err, "scene.initial_spin must be finite")
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := config.Default()
	cfg.Physics.MaxSteps = 0
	cfg.Debug.LogEvery = -1
	cfg.Scene.ResetKey = input.KeyUnknown

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, "max_steps")
	assert.ErrorContains(t, err, "log_every")
	assert.ErrorContains(t, err, "reset_key")
}

func TestMarshalRoundTrip(t *testing.T) {
	cfg := config.Default()
	cfg.Scene.ResetKey = input.KeyF5
	cfg.Debug.Imgui = true

	data, err := cfg.Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(data), "reset_key: F5")

	back, err := config.Load(writeConfig(t, string(data)))
	require.NoError(t, err)
	assert.Equal(t, cfg, back)
}
