package camera

import (
	"github.com/Carmen-Shannon/spacenav/common"
	"github.com/Carmen-Shannon/spacenav/config"
)

// Result reports what one UpdatePose call did.
type Result struct {
	// Pose is the new pose. It equals the input pose bit for bit unless one of the flags is set.
	Pose    Pose
	Rotated bool
	Panned  bool
	Zoomed  bool
	// Skipped is set when the pivot strategy had no pivot to work with and nothing was done.
	Skipped bool
}

// Changed reports whether the pose was modified.
func (r Result) Changed() bool {
	return r.Rotated || r.Panned || r.Zoomed
}

// CameraController is the camera update engine. It is stateless between calls: every method takes
// the current pose and returns a new one, leaving the commit to the caller.
// Embeds orbitCameraController and planarCameraController so rotation, pan and zoom can be
// driven separately or together through UpdatePose.
type CameraController interface {
	orbitCameraController
	planarCameraController

	// UpdatePose applies one conditioned sample: rotation first, then zoom, then pan.
	//
	// Parameters:
	//   - sample: the conditioned sample
	//   - pose: the current committed pose
	//   - pivot: the resolved pivot, ignored by the focal strategy
	//   - hasPivot: whether pivot is valid this tick
	//   - sceneScale: the scene scale for distance clamps
	//   - projection: the camera's projection type
	//
	// Returns:
	//   - Result: the new pose and what changed
	UpdatePose(sample common.AxisSample, pose Pose, pivot common.Vec3, hasPivot bool, sceneScale float64, projection Projection) Result

	// Strategy returns the orbit strategy the controller runs.
	//
	// Returns:
	//   - config.Strategy: pivot or focal
	Strategy() config.Strategy

	// DistanceLimits returns the camera distance clamps for a scene scale.
	//
	// Parameters:
	//   - sceneScale: the scene scale
	//
	// Returns:
	//   - lo, hi: the minimum and maximum camera distance
	DistanceLimits(sceneScale float64) (lo, hi float64)
}

// orbitCameraController defines the rotation and zoom half of the engine.
type orbitCameraController interface {
	// Rotate applies a camera-local rotation vector. The pivot strategy keeps the distance to the
	// pivot, the focal strategy keeps the focal point.
	//
	// Parameters:
	//   - rotation: (rx, ry, rz) in camera-local axes
	//   - pose: the current pose
	//   - pivot: the pivot, ignored by the focal strategy
	//   - sceneScale: the scene scale for distance clamps
	//
	// Returns:
	//   - Pose: the rotated pose
	//   - bool: false when the rotation magnitude was too small to apply
	Rotate(rotation common.Vec3, pose Pose, pivot common.Vec3, sceneScale float64) (Pose, bool)

	// Zoom moves toward or away from the subject, or rescales the orthographic height.
	// Positive amount zooms in. The per-call factor is limited by the zoom step limit and the
	// resulting distance stays inside DistanceLimits.
	//
	// Parameters:
	//   - amount: the zoom axis value
	//   - pose: the current pose
	//   - pivot: the pivot, ignored by the focal strategy
	//   - sceneScale: the scene scale for distance clamps
	//   - projection: the camera's projection type
	//
	// Returns:
	//   - Pose: the zoomed pose
	//   - bool: false when amount was too small to apply
	Zoom(amount float64, pose Pose, pivot common.Vec3, sceneScale float64, projection Projection) (Pose, bool)

	// RotationSensitivity returns radians per unit of rotation input.
	//
	// Returns:
	//   - float64: the rotation multiplier
	RotationSensitivity() float64

	// ZoomSensitivity returns the zoom multiplier.
	//
	// Returns:
	//   - float64: the zoom multiplier
	ZoomSensitivity() float64

	// ZoomStepLimit returns the per-call zoom factor bound.
	//
	// Returns:
	//   - float64: the factor stays inside [1-limit, 1+limit]
	ZoomStepLimit() float64
}

// planarCameraController defines pan along the camera's local axes.
type planarCameraController interface {
	// Pan translates the camera along its local right and up axes. Speed scales with the distance
	// to the subject so it feels constant on screen.
	//
	// Parameters:
	//   - dx: right axis input
	//   - dy: up axis input
	//   - pose: the current pose
	//   - pivot: the pivot, ignored by the focal strategy
	//   - sceneScale: the scene scale for distance clamps
	//
	// Returns:
	//   - Pose: the panned pose
	//   - bool: false when the input was too small to apply
	Pan(dx, dy float64, pose Pose, pivot common.Vec3, sceneScale float64) (Pose, bool)

	// TranslationSensitivity returns the pan multiplier.
	//
	// Returns:
	//   - float64: the pan multiplier
	TranslationSensitivity() float64
}
