package camera

import (
	"github.com/Carmen-Shannon/spacenav/common"
)

type CameraBuilderOption func(*cameraImpl)

// WithPose sets the camera's initial pose.
//
// Parameters:
//   - pose: the initial pose
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's pose
func WithPose(pose Pose) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.pose = pose
	}
}

// WithProjection sets the camera's projection type.
//
// Parameters:
//   - projection: perspective or orthographic
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's projection
func WithProjection(projection Projection) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.projection = projection
	}
}

// WithLookAt places the camera at eye looking at target, keeping up as close to the camera's
// up axis as possible. The focal distance becomes the eye to target distance.
//
// Parameters:
//   - eye: camera position
//   - target: look-at point
//   - up: up hint
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's position, orientation and focal distance
func WithLookAt(eye, target, up common.Vec3) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.pose.Position = eye
		c.pose.Orientation = common.LookRotation(common.Sub(target, eye), up)
		c.pose.FocalDistance = common.Distance(eye, target)
	}
}

// WithHeight sets the orthographic view height.
//
// Parameters:
//   - height: view extent in world units
//
// Returns:
//   - CameraBuilderOption: a function that sets the orthographic height
func WithHeight(height float64) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.pose.Height = height
	}
}
