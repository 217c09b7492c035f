package game_object

import (
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/spacenav/common"
)

type gameObject struct {
	id      uint64
	name    string
	enabled atomic.Bool

	mu       sync.RWMutex
	position common.Vec3
	local    common.BoundingBox
}

// GameObject is a scene element with an axis-aligned extent. The navigation pivot is derived from
// the world bounds of these objects.
type GameObject interface {
	// ID returns the object's unique identifier.
	//
	// Returns:
	//   - uint64: the object ID
	ID() uint64

	// SetID sets the object's unique identifier.
	//
	// Parameters:
	//   - id: the ID to assign
	SetID(id uint64)

	// Name returns the display name.
	Name() string

	// Enabled returns whether this object counts towards scene bounds.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// SetEnabled sets whether the object counts towards scene bounds.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)

	// Position returns the world offset of the object's local bounds.
	//
	// Returns:
	//   - common.Vec3: the position
	Position() common.Vec3

	// SetPosition moves the object.
	//
	// Parameters:
	//   - p: the new position
	SetPosition(p common.Vec3)

	// LocalBounds returns the extent relative to Position.
	//
	// Returns:
	//   - common.BoundingBox: the local box
	LocalBounds() common.BoundingBox

	// Bounds returns the extent in world space.
	//
	// Returns:
	//   - common.BoundingBox: the local box offset by Position, empty when the local box is empty
	Bounds() common.BoundingBox
}

var _ GameObject = &gameObject{}

// NewGameObject creates a new GameObject with the provided options.
// The object starts enabled, at the origin, with an empty extent.
//
// Parameters:
//   - options: functional options to configure the object
//
// Returns:
//   - GameObject: the newly created object
func NewGameObject(options ...GameObjectBuilderOption) GameObject {
	g := &gameObject{local: common.EmptyBox()}
	g.enabled.Store(true)
	for _, opt := range options {
		opt(g)
	}
	return g
}

func (g *gameObject) ID() uint64 {
	return g.id
}

func (g *gameObject) SetID(id uint64) {
	g.id = id
}

func (g *gameObject) Name() string {
	return g.name
}

func (g *gameObject) Enabled() bool {
	return g.enabled.Load()
}

func (g *gameObject) SetEnabled(enabled bool) {
	g.enabled.Store(enabled)
}

func (g *gameObject) Position() common.Vec3 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.position
}

func (g *gameObject) SetPosition(p common.Vec3) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.position = p
}

func (g *gameObject) LocalBounds() common.BoundingBox {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.local
}

func (g *gameObject) Bounds() common.BoundingBox {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.local.Empty() {
		return g.local
	}
	return common.BoundingBox{
		Min: common.Add(g.local.Min, g.position),
		Max: common.Add(g.local.Max, g.position),
	}
}
