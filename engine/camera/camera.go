package camera

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/spacenav/common"
)

// MinFocalDistance is the smallest focal distance a committed pose may carry.
const MinFocalDistance = 0.01

// Projection selects the zoom formula for a camera.
type Projection int

const (
	// Perspective cameras zoom by moving along the view axis.
	Perspective Projection = iota
	// Orthographic cameras zoom by scaling their view height.
	Orthographic
)

func (p Projection) String() string {
	if p == Orthographic {
		return "orthographic"
	}
	return "perspective"
}

// Pose is a complete camera placement. Poses are values: the navigation core reads one, builds a
// new one and commits it whole.
type Pose struct {
	Position      common.Vec3 `json:"position"`
	Orientation   common.Quat `json:"orientation"`
	FocalDistance float64     `json:"focal_distance"`
	// Height is the view extent of an orthographic camera. Perspective cameras ignore it.
	Height float64 `json:"height"`
}

// Forward returns the world-space viewing direction.
func (p Pose) Forward() common.Vec3 {
	return common.QuatRotate(p.Orientation, common.AxisForward)
}

// Right returns the world-space right axis.
func (p Pose) Right() common.Vec3 {
	return common.QuatRotate(p.Orientation, common.AxisRight)
}

// Up returns the world-space up axis.
func (p Pose) Up() common.Vec3 {
	return common.QuatRotate(p.Orientation, common.AxisUp)
}

// FocalPoint returns the world point the camera treats as in front of it.
func (p Pose) FocalPoint() common.Vec3 {
	return common.Add(p.Position, common.Scale(p.Forward(), p.FocalDistance))
}

// Snapshot is a pose, projection and revision read together in one commit.
type Snapshot struct {
	Pose       Pose
	Projection Projection
	Revision   uint64
}

type cameraImpl struct {
	mu *sync.Mutex

	pose       Pose
	projection Projection
	revision   uint64
}

// Camera is the host-owned camera handle. Every read returns a committed pose and every write
// replaces the whole pose, so readers on other goroutines never observe a torn update.
type Camera interface {
	// Pose returns the last committed pose.
	//
	// Returns:
	//   - Pose: the committed pose
	Pose() Pose

	// SetPose commits a new pose. The orientation is renormalized and the focal distance is
	// clamped to MinFocalDistance. A pose with a non-finite component is dropped.
	//
	// Parameters:
	//   - pose: the pose to commit
	SetPose(pose Pose)

	// Projection returns the camera's projection type.
	//
	// Returns:
	//   - Projection: perspective or orthographic
	Projection() Projection

	// SetProjection switches the camera's projection type.
	//
	// Parameters:
	//   - projection: perspective or orthographic
	SetProjection(projection Projection)

	// Forward returns the committed world-space viewing direction.
	//
	// Returns:
	//   - common.Vec3: unit forward vector
	Forward() common.Vec3

	// Revision returns a counter bumped on every commit. Readers use it to skip unchanged poses.
	//
	// Returns:
	//   - uint64: commit counter
	Revision() uint64

	// Snapshot reads the pose, projection and revision under one lock, so the revision always
	// names the pose it is returned with.
	//
	// Returns:
	//   - Snapshot: the committed view state
	Snapshot() Snapshot
}

var _ Camera = &cameraImpl{}

// NewCamera creates a perspective camera at (0, 0, 10) looking down -Z with a focal distance of 10.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu: &sync.Mutex{},
		pose: Pose{
			Position:      common.Vec3{0, 0, 10},
			Orientation:   common.QuatIdentity(),
			FocalDistance: 10,
			Height:        10,
		},
		projection: Perspective,
	}
	for _, option := range options {
		option(c)
	}
	c.pose = sanitize(c.pose)
	return c
}

func (c *cameraImpl) Pose() Pose {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pose
}

func (c *cameraImpl) SetPose(pose Pose) {
	if !finite(pose) {
		return
	}
	pose = sanitize(pose)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pose = pose
	c.revision++
}

func (c *cameraImpl) Projection() Projection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projection
}

func (c *cameraImpl) SetProjection(projection Projection) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.projection = projection
	c.revision++
}

func (c *cameraImpl) Forward() common.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pose.Forward()
}

func (c *cameraImpl) Revision() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.revision
}

func (c *cameraImpl) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{Pose: c.pose, Projection: c.projection, Revision: c.revision}
}

func finite(p Pose) bool {
	values := []float64{p.FocalDistance, p.Height}
	values = append(values, p.Position[:]...)
	values = append(values, p.Orientation[:]...)
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// sanitize enforces the pose invariants: unit orientation, positive focal distance and height.
func sanitize(p Pose) Pose {
	p.Orientation = common.QuatNormalize(p.Orientation)
	if p.FocalDistance < MinFocalDistance {
		p.FocalDistance = MinFocalDistance
	}
	if p.Height < MinFocalDistance {
		p.Height = MinFocalDistance
	}
	return p
}
