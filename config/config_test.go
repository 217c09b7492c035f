package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsNormalized(t *testing.T) {
	cfg := Default()

	assert.Empty(t, cfg.Normalize())
	assert.Equal(t, StrategyPivot, cfg.Strategy)
	assert.InDelta(t, 0.28, cfg.DecayFactor(), 1e-12)
	assert.Equal(t, "view_fit_all", cfg.Buttons[0])
	assert.True(t, cfg.FlipYZ)
	assert.True(t, cfg.InvertTY)
}

func TestParse_OverridesDefaults(t *testing.T) {
	doc := []byte(`
deadzone: 20
strategy: focal
flip_yz: false
invert_rx: true
feed:
  type: serial
  port: /dev/ttyACM0
buttons:
  3: view_home
`)
	cfg, adj, err := Parse(doc)
	require.NoError(t, err)

	assert.Empty(t, adj)
	assert.Equal(t, 20.0, cfg.Deadzone)
	assert.Equal(t, StrategyFocal, cfg.Strategy)
	assert.False(t, cfg.FlipYZ)
	assert.True(t, cfg.InvertRX)
	assert.True(t, cfg.InvertTY)
	assert.Equal(t, FeedSerial, cfg.Feed.Type)
	assert.Equal(t, "/dev/ttyACM0", cfg.Feed.Port)
	assert.Equal(t, 115200, cfg.Feed.Baud)
	assert.Equal(t, "view_home", cfg.Buttons[3])
	// untouched keys keep their defaults
	assert.Equal(t, 0.35, cfg.Smoothing)
}

func TestParse_ClampsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		check func(t *testing.T, cfg Config)
	}{
		{"smoothing above range", "smoothing: 1.5", func(t *testing.T, cfg Config) {
			assert.Equal(t, 0.99, cfg.Smoothing)
		}},
		{"negative deadzone", "deadzone: -4", func(t *testing.T, cfg Config) {
			assert.Equal(t, 0.0, cfg.Deadzone)
		}},
		{"unknown strategy", "strategy: spin", func(t *testing.T, cfg Config) {
			assert.Equal(t, StrategyPivot, cfg.Strategy)
		}},
		{"inverted distance factors", "min_distance_factor: 2\nmax_distance_factor: 1", func(t *testing.T, cfg Config) {
			assert.Equal(t, 2.0, cfg.MaxDistanceFactor)
		}},
		{"tiny scene fallback", "scene_scale_fallback: 0", func(t *testing.T, cfg Config) {
			assert.Equal(t, 0.01, cfg.SceneScaleFallback)
		}},
		{"sub-linear exponent", "velocity_exponent: 0.5", func(t *testing.T, cfg Config) {
			assert.Equal(t, 1.0, cfg.VelocityExponent)
		}},
		{"button out of range", "buttons:\n  40: view_home", func(t *testing.T, cfg Config) {
			_, ok := cfg.Buttons[40]
			assert.False(t, ok)
		}},
		{"zero poll interval", "poll_interval_ms: 0", func(t *testing.T, cfg Config) {
			assert.Equal(t, 16, cfg.PollIntervalMs)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, adj, err := Parse([]byte(tt.doc))
			require.NoError(t, err)
			assert.Len(t, adj, 1)
			tt.check(t, cfg)
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	_, _, err := Parse([]byte("deadzone: [1, 2"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spacenav.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rotation_sensitivity: 0.001\n"), 0o644))

	cfg, _, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.001, cfg.RotationSensitivity)

	_, _, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
