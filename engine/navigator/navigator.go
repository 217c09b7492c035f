// Package navigator ties conditioning, pivot resolution and the camera update engine into the
// two-state navigation controller that intercepts raw device events.
package navigator

import (
	"errors"

	"github.com/Carmen-Shannon/spacenav/common"
	"github.com/Carmen-Shannon/spacenav/config"
	"github.com/Carmen-Shannon/spacenav/engine/camera"
	"github.com/Carmen-Shannon/spacenav/engine/conditioner"
)

// HandlerName is the name the controller installs its interceptor under.
const HandlerName = "spacenav.navigator"

var (
	// ErrResourceUnavailable is returned by Start when there is no viewport or camera to drive.
	// The controller stays inactive and Start may be retried.
	ErrResourceUnavailable = errors.New("viewport or camera unavailable")
	// ErrAlreadyActive is returned by Start while a session is running.
	ErrAlreadyActive = errors.New("navigation already active")
	// ErrNotActive is returned by Stop when no session is running.
	ErrNotActive = errors.New("navigation not active")
)

// State is the controller state.
type State int

const (
	Inactive State = iota
	Active
)

func (s State) String() string {
	if s == Active {
		return "active"
	}
	return "inactive"
}

// Viewport is the host view the controller drives.
type Viewport interface {
	// Camera returns the view's camera, or nil once the view is gone.
	Camera() camera.Camera
	// SelectionBounds returns the bounds of the current selection, false when nothing is selected.
	SelectionBounds() (common.BoundingBox, bool)
	// SceneBounds returns the bounds of the whole scene, false when the scene is empty.
	SceneBounds() (common.BoundingBox, bool)
}

// ButtonDispatcher is the host command table device buttons are forwarded to.
type ButtonDispatcher interface {
	// DispatchButton reports a button transition and returns whether the table consumed it.
	DispatchButton(index int, pressed bool) bool
}

// Stats counts what the controller did since construction.
type Stats struct {
	Sessions  uint64 `json:"sessions"`
	Ticks     uint64 `json:"ticks"`
	Applied   uint64 `json:"applied"`
	Skipped   uint64 `json:"skipped"`
	Idle      uint64 `json:"idle"`
	Decayed   uint64 `json:"decayed"`
	Buttons   uint64 `json:"buttons"`
	Refocused uint64 `json:"refocused"`
}

// Controller is the navigation state machine: Inactive until Start succeeds, Active until Stop or
// until the viewport disappears.
type Controller interface {
	// Start begins a navigation session on vp and installs the interceptor ahead of default handling.
	//
	// Parameters:
	//   - vp: the viewport to drive
	//
	// Returns:
	//   - error: ErrResourceUnavailable, ErrAlreadyActive, or an install failure
	Start(vp Viewport) error

	// Stop ends the session and removes the interceptor. The camera keeps its last committed pose.
	//
	// Returns:
	//   - error: ErrNotActive when no session is running
	Stop() error

	// State returns the current state.
	//
	// Returns:
	//   - State: Active or Inactive
	State() State

	// RefreshMarker recomputes the pivot marker. Called at a low rate next to the tick loop. With the
	// focal strategy and refocus enabled it also re-aims the focal distance at the pivot while the
	// device is at rest.
	RefreshMarker()

	// LastOutput returns the most recent conditioned output of the running session.
	//
	// Returns:
	//   - conditioner.Output: the last output, zero when inactive
	LastOutput() conditioner.Output

	// Settings returns the session's configuration copy.
	//
	// Returns:
	//   - config.Config: the session configuration
	//   - bool: false when inactive
	Settings() (config.Config, bool)

	// Stats returns the activity counters.
	//
	// Returns:
	//   - Stats: a copy of the counters
	Stats() Stats
}
