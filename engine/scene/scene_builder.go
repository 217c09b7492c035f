package scene

import (
	"github.com/Carmen-Shannon/spacenav/engine/camera"
	"github.com/Carmen-Shannon/spacenav/engine/game_object"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithObjects adds initial objects to the scene.
// Objects without IDs will be assigned new IDs.
//
// Parameters:
//   - objects: the objects to add
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithObjects(objects ...game_object.GameObject) SceneBuilderOption {
	return func(s *scene) {
		for _, obj := range objects {
			if obj.ID() == 0 {
				obj.SetID(s.nextID)
			}
			if obj.ID() >= s.nextID {
				s.nextID = obj.ID() + 1
			}
			s.registry[obj.ID()] = obj
		}
	}
}

// WithBoundsWorkers sets the number of worker goroutines used for bounds unions over large
// object sets. Defaults to 4.
//
// Parameters:
//   - n: the number of workers (minimum 1)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithBoundsWorkers(n int) SceneBuilderOption {
	return func(s *scene) {
		if n < 1 {
			n = 1
		}
		s.boundsWorkers = n
	}
}

// WithHomePose sets the pose the view_home command restores.
//
// Parameters:
//   - pose: the home pose
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithHomePose(pose camera.Pose) SceneBuilderOption {
	return func(s *scene) {
		s.home = pose
	}
}
