package engine

import (
	"time"

	"github.com/Carmen-Shannon/spacenav/engine/event"
	"github.com/Carmen-Shannon/spacenav/engine/feed"
	"github.com/Carmen-Shannon/spacenav/engine/navigator"
	"github.com/Carmen-Shannon/spacenav/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled.Store(enabled)
	}
}

// WithTickRate sets the navigation tick rate in ticks per second.
// Values <= 0 will be treated as the default (60Hz).
//
// Parameters:
//   - fps: target ticks per second (default 60)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickRate(fps float64) EngineBuilderOption {
	return func(e *engine) {
		e.tickRate = rateFor(fps)
	}
}

// WithTickInterval sets the navigation tick period directly, e.g. from poll_interval_ms.
//
// Parameters:
//   - d: the tick period, ignored when <= 0
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickInterval(d time.Duration) EngineBuilderOption {
	return func(e *engine) {
		if d > 0 {
			e.tickRate = d
		}
	}
}

// WithMarkerRate sets the pivot marker refresh period.
//
// Parameters:
//   - d: the refresh period, ignored when <= 0
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithMarkerRate(d time.Duration) EngineBuilderOption {
	return func(e *engine) {
		if d > 0 {
			e.markerRate = d
		}
	}
}

// WithSampleHold keeps repeating the last non-zero sample for d when the device reports slower
// than the tick rate. Zero disables the hold.
//
// Parameters:
//   - d: the hold window
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithSampleHold(d time.Duration) EngineBuilderOption {
	return func(e *engine) {
		if d >= 0 {
			e.sampleHold = d
		}
	}
}

// WithWindow sets the window whose message loop Run drives on the calling thread.
//
// Parameters:
//   - w: a pre-configured Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithSlot sets the input slot drained each tick.
//
// Parameters:
//   - s: the slot feeds publish into
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithSlot(s *feed.Slot) EngineBuilderOption {
	return func(e *engine) {
		e.slot = s
	}
}

// WithDispatcher sets the dispatcher events are delivered to.
//
// Parameters:
//   - d: the dispatcher shared with the navigation controller
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithDispatcher(d event.Dispatcher) EngineBuilderOption {
	return func(e *engine) {
		e.dispatcher = d
	}
}

// WithController sets the navigation controller whose marker is refreshed and whose stats are profiled.
//
// Parameters:
//   - c: the controller
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithController(c navigator.Controller) EngineBuilderOption {
	return func(e *engine) {
		e.controller = c
	}
}

// WithRenderCallback registers the render loop body.
//
// Parameters:
//   - callback: function called each render frame
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderCallback(callback func(deltaTime float32)) EngineBuilderOption {
	return func(e *engine) {
		e.renderCallback = callback
	}
}

// WithRenderFrameLimit sets an optional render frame rate cap in frames per second.
// Pass 0 to uncap the render loop (default).
//
// Parameters:
//   - fps: maximum render frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			e.renderFrameLimit = 0
			return
		}
		e.renderFrameLimit = rateFor(fps)
	}
}
