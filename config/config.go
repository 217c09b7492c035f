// Package config holds the navigation parameters and the host settings around them.
//
// Navigation parameters are flat keys at the root of a YAML document; host settings (feed,
// telemetry, button commands) are nested. A Config is immutable for the duration of a navigation
// session: the controller copies it when the session starts.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Strategy names the orbit strategy a session uses.
type Strategy string

const (
	// StrategyPivot orbits around a pivot recomputed every tick from selection or scene bounds.
	StrategyPivot Strategy = "pivot"
	// StrategyFocal orbits around the camera's focal point, keeping the look-at point fixed.
	StrategyFocal Strategy = "focal"
)

// Feed types understood by the host binaries.
const (
	FeedSpnav    = "spnav"
	FeedSerial   = "serial"
	FeedMQTT     = "mqtt"
	FeedJoystick = "joystick"
)

// Config is the full configuration document.
type Config struct {
	// Deadzone is the minimum absolute axis value treated as motion, in device units.
	Deadzone float64 `yaml:"deadzone"`
	// DeadzoneNormalize rescales the post-deadzone excess by (AxisRange - Deadzone).
	DeadzoneNormalize bool `yaml:"deadzone_normalize"`
	// AxisRange is the full-scale device value used when DeadzoneNormalize is set.
	AxisRange float64 `yaml:"axis_range"`
	// Smoothing is the IIR coefficient α in [0, 1): 0 passes input through, values near 1 are sluggish.
	Smoothing float64 `yaml:"smoothing"`
	// Decay is the per-tick decay multiplier applied on ticks with no input. 0 derives it from Smoothing.
	Decay float64 `yaml:"decay"`
	// DominantAxis zeroes the weaker of the rotation and translation groups each tick.
	DominantAxis bool `yaml:"dominant_axis"`
	// VelocityExponent shapes output as sign(v)|v|^p. 1 disables shaping.
	VelocityExponent float64 `yaml:"velocity_exponent"`
	// MotionEpsilon is the summed smoothed magnitude under which a tick counts as "no motion".
	MotionEpsilon float64 `yaml:"motion_epsilon"`

	RotationSensitivity    float64 `yaml:"rotation_sensitivity"`
	TranslationSensitivity float64 `yaml:"translation_sensitivity"`
	ZoomSensitivity        float64 `yaml:"zoom_sensitivity"`
	// ZoomStepLimit bounds the per-tick zoom factor to [1-limit, 1+limit].
	ZoomStepLimit float64 `yaml:"zoom_step_limit"`

	// MinDistanceFactor and MaxDistanceFactor scale the scene size into camera distance clamps.
	MinDistanceFactor float64 `yaml:"min_distance_factor"`
	MaxDistanceFactor float64 `yaml:"max_distance_factor"`
	// SceneScaleFallback is the scene size assumed when the scene is empty.
	SceneScaleFallback float64 `yaml:"scene_scale_fallback"`

	Strategy Strategy `yaml:"strategy"`
	// Refocus lets the focal strategy re-aim its focal distance at the pivot on the marker timer.
	Refocus bool `yaml:"refocus"`

	// FlipYZ swaps the vertical and push/pull axes so push/pull zooms.
	FlipYZ   bool `yaml:"flip_yz"`
	InvertTX bool `yaml:"invert_tx"`
	// InvertTY defaults on, negating the vertical pan after the flip.
	InvertTY bool `yaml:"invert_ty"`
	InvertTZ bool `yaml:"invert_tz"`
	InvertRX bool `yaml:"invert_rx"`
	InvertRY bool `yaml:"invert_ry"`
	InvertRZ bool `yaml:"invert_rz"`

	PivotMarker bool `yaml:"pivot_marker"`

	PollIntervalMs   int `yaml:"poll_interval_ms"`
	MarkerIntervalMs int `yaml:"marker_interval_ms"`

	Feed      FeedConfig      `yaml:"feed"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	// Buttons maps logical button indices to command names in the host's command table.
	Buttons map[int]string `yaml:"buttons"`
}

// FeedConfig selects and parameterizes the input feed.
type FeedConfig struct {
	Type     string `yaml:"type"`
	Socket   string `yaml:"socket"`
	Port     string `yaml:"port"`
	Baud     int    `yaml:"baud"`
	Broker   string `yaml:"broker"`
	Topic    string `yaml:"topic"`
	ClientID string `yaml:"client_id"`
	Joystick int    `yaml:"joystick"`
}

// TelemetryConfig configures the committed-pose stream. An empty Listen disables it.
type TelemetryConfig struct {
	Listen string `yaml:"listen"`
}

// Default returns the configuration the navigation tuning was developed against.
func Default() Config {
	return Config{
		Deadzone:               12,
		DeadzoneNormalize:      false,
		AxisRange:              350,
		Smoothing:              0.35,
		Decay:                  0,
		DominantAxis:           true,
		VelocityExponent:       1.0,
		MotionEpsilon:          0.5,
		RotationSensitivity:    0.0004,
		TranslationSensitivity: 0.00004,
		ZoomSensitivity:        0.0004,
		ZoomStepLimit:          0.05,
		MinDistanceFactor:      0.05,
		MaxDistanceFactor:      15.0,
		SceneScaleFallback:     100.0,
		Strategy:               StrategyPivot,
		Refocus:                true,
		FlipYZ:                 true,
		InvertTY:               true,
		PivotMarker:            true,
		PollIntervalMs:         16,
		MarkerIntervalMs:       100,
		Feed: FeedConfig{
			Type:     FeedSpnav,
			Socket:   "/var/run/spnav.sock",
			Baud:     115200,
			Topic:    "spacenav/axes",
			ClientID: "spacenav-navigator",
		},
		Buttons: map[int]string{
			0: "view_fit_all",
			1: "view_home",
		},
	}
}

// DecayFactor returns the effective idle-tick decay multiplier.
func (c Config) DecayFactor() float64 {
	if c.Decay > 0 {
		return c.Decay
	}
	return c.Smoothing * 0.8
}

// Parse decodes a YAML document over the defaults and normalizes the result.
// Keys missing from the document keep their default values.
//
// Parameters:
//   - data: YAML document
//
// Returns:
//   - Config: the normalized configuration
//   - []string: one message per value that had to be clamped
//   - error: error if the document cannot be decoded
func Parse(data []byte) (Config, []string, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, nil, fmt.Errorf("failed to parse config: %w", err)
	}
	adjustments := cfg.Normalize()
	return cfg, adjustments, nil
}

// Load reads and parses the configuration file at path.
//
// Parameters:
//   - path: file path of the YAML document
//
// Returns:
//   - Config: the normalized configuration
//   - []string: one message per value that had to be clamped
//   - error: error if the file cannot be read or decoded
func Load(path string) (Config, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, nil, fmt.Errorf("failed to open config file: %w", err)
	}
	return Parse(data)
}
