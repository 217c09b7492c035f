package config

import (
	"fmt"

	"github.com/Carmen-Shannon/spacenav/common"
)

const (
	maxSmoothing    = 0.99
	minSceneScale   = 0.01
	minPollInterval = 1
)

// Normalize clamps every out-of-range value into its valid range and reports what changed.
// Invalid configuration never aborts a session; callers log the returned messages.
//
// Returns:
//   - []string: one human-readable message per adjusted key
func (c *Config) Normalize() []string {
	var adj []string
	note := func(key string, from, to any) {
		adj = append(adj, fmt.Sprintf("%s: %v out of range, using %v", key, from, to))
	}
	clampF := func(key string, v *float64, lo, hi float64) {
		if n := common.Clamp(*v, lo, hi); n != *v {
			note(key, *v, n)
			*v = n
		}
	}
	floorF := func(key string, v *float64, lo float64) {
		if *v < lo {
			note(key, *v, lo)
			*v = lo
		}
	}

	def := Default()

	floorF("deadzone", &c.Deadzone, 0)
	if c.AxisRange <= c.Deadzone {
		n := c.Deadzone + 1
		if c.Deadzone < def.AxisRange {
			n = def.AxisRange
		}
		note("axis_range", c.AxisRange, n)
		c.AxisRange = n
	}
	clampF("smoothing", &c.Smoothing, 0, maxSmoothing)
	clampF("decay", &c.Decay, 0, maxSmoothing)
	if c.VelocityExponent < 1 {
		note("velocity_exponent", c.VelocityExponent, 1.0)
		c.VelocityExponent = 1
	}
	floorF("motion_epsilon", &c.MotionEpsilon, 0)

	floorF("rotation_sensitivity", &c.RotationSensitivity, 0)
	floorF("translation_sensitivity", &c.TranslationSensitivity, 0)
	floorF("zoom_sensitivity", &c.ZoomSensitivity, 0)
	clampF("zoom_step_limit", &c.ZoomStepLimit, 0, 0.95)

	if c.MinDistanceFactor <= 0 {
		note("min_distance_factor", c.MinDistanceFactor, def.MinDistanceFactor)
		c.MinDistanceFactor = def.MinDistanceFactor
	}
	if c.MaxDistanceFactor < c.MinDistanceFactor {
		note("max_distance_factor", c.MaxDistanceFactor, c.MinDistanceFactor)
		c.MaxDistanceFactor = c.MinDistanceFactor
	}
	floorF("scene_scale_fallback", &c.SceneScaleFallback, minSceneScale)

	switch c.Strategy {
	case StrategyPivot, StrategyFocal:
	default:
		note("strategy", c.Strategy, StrategyPivot)
		c.Strategy = StrategyPivot
	}

	if c.PollIntervalMs < minPollInterval {
		note("poll_interval_ms", c.PollIntervalMs, def.PollIntervalMs)
		c.PollIntervalMs = def.PollIntervalMs
	}
	if c.MarkerIntervalMs < minPollInterval {
		note("marker_interval_ms", c.MarkerIntervalMs, def.MarkerIntervalMs)
		c.MarkerIntervalMs = def.MarkerIntervalMs
	}

	for idx, cmd := range c.Buttons {
		if idx < 0 || idx >= common.MaxButtons {
			note(fmt.Sprintf("buttons[%d]", idx), cmd, "dropped")
			delete(c.Buttons, idx)
		}
	}

	switch c.Feed.Type {
	case FeedSpnav, FeedSerial, FeedMQTT, FeedJoystick:
	default:
		note("feed.type", c.Feed.Type, def.Feed.Type)
		c.Feed.Type = def.Feed.Type
	}
	if c.Feed.Baud <= 0 {
		note("feed.baud", c.Feed.Baud, def.Feed.Baud)
		c.Feed.Baud = def.Feed.Baud
	}
	return adj
}
