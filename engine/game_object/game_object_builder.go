package game_object

import "github.com/Carmen-Shannon/spacenav/common"

// GameObjectBuilderOption is a functional option for configuring a GameObject during construction.
type GameObjectBuilderOption func(*gameObject)

// WithID sets the ID of the GameObject.
//
// Parameters:
//   - id: unique identifier for the GameObject
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the ID
func WithID(id uint64) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.id = id
	}
}

// WithName sets the display name.
func WithName(name string) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.name = name
	}
}

// WithEnabled sets whether the GameObject counts towards scene bounds.
//
// Parameters:
//   - enabled: true to include the object, false to skip it
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the Enabled state
func WithEnabled(enabled bool) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.enabled.Store(enabled)
	}
}

// WithPosition sets the initial world position.
//
// Parameters:
//   - p: the position
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the position
func WithPosition(p common.Vec3) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.position = p
	}
}

// WithBounds sets the local extent.
//
// Parameters:
//   - box: the extent relative to the position
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the extent
func WithBounds(box common.BoundingBox) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.local = box
	}
}

// WithBox sets a centred box extent of the given size.
//
// Parameters:
//   - size: full edge lengths along x, y and z
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the extent
func WithBox(size common.Vec3) GameObjectBuilderOption {
	half := common.Scale(size, 0.5)
	return func(obj *gameObject) {
		obj.local = common.NewBoundingBox(common.Scale(half, -1), half)
	}
}
