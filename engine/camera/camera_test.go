package camera

import (
	"math"
	"sync"
	"testing"

	"github.com/Carmen-Shannon/spacenav/common"
	"github.com/stretchr/testify/assert"
)

func TestNewCamera_Defaults(t *testing.T) {
	c := NewCamera()

	assert.Equal(t, Perspective, c.Projection())
	assert.Equal(t, common.Vec3{0, 0, 10}, c.Pose().Position)
	assertVecInDelta(t, common.AxisForward, c.Forward(), 1e-12)
	assert.Equal(t, uint64(0), c.Revision())
}

func TestWithLookAt(t *testing.T) {
	c := NewCamera(WithLookAt(common.Vec3{0, 0, 20}, common.Vec3{0, 0, 5}, common.AxisUp))

	assert.InDelta(t, 15, c.Pose().FocalDistance, 1e-12)
	assertVecInDelta(t, common.Vec3{0, 0, 5}, c.Pose().FocalPoint(), 1e-9)
}

func TestSetPose_SanitizesAndCommits(t *testing.T) {
	c := NewCamera(WithProjection(Orthographic))
	c.SetPose(Pose{
		Position:      common.Vec3{1, 2, 3},
		Orientation:   common.Quat{0, 0, 0, 2},
		FocalDistance: -4,
	})

	p := c.Pose()
	assert.Equal(t, common.QuatIdentity(), p.Orientation)
	assert.Equal(t, MinFocalDistance, p.FocalDistance)
	assert.Equal(t, MinFocalDistance, p.Height)
	assert.Equal(t, uint64(1), c.Revision())
	assert.Equal(t, "orthographic", c.Projection().String())
}

func TestSetPose_ConcurrentReadersSeeWholePoses(t *testing.T) {
	c := NewCamera()
	a := Pose{Position: common.Vec3{1, 1, 1}, Orientation: common.QuatIdentity(), FocalDistance: 1, Height: 1}
	b := Pose{Position: common.Vec3{2, 2, 2}, Orientation: common.QuatIdentity(), FocalDistance: 2, Height: 2}

	c.SetPose(a)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 2000; i++ {
			if i%2 == 0 {
				c.SetPose(a)
			} else {
				c.SetPose(b)
			}
		}
	}()
	for i := 0; i < 2000; i++ {
		p := c.Pose()
		// position and focal distance always come from the same commit
		assert.Equal(t, p.Position[0], p.FocalDistance)
	}
	wg.Wait()
}

func TestSnapshot_RevisionMatchesPose(t *testing.T) {
	c := NewCamera()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 1; i <= 2000; i++ {
			c.SetPose(Pose{Position: common.Vec3{float64(i), 0, 0}, Orientation: common.QuatIdentity(), FocalDistance: 1, Height: 1})
		}
	}()
	for i := 0; i < 2000; i++ {
		snap := c.Snapshot()
		// the revision counts commits, and commit n placed the camera at x = n
		assert.Equal(t, float64(snap.Revision), snap.Pose.Position[0])
		assert.Equal(t, Perspective, snap.Projection)
	}
	wg.Wait()

	snap := c.Snapshot()
	assert.Equal(t, uint64(2000), snap.Revision)
	assert.Equal(t, c.Pose(), snap.Pose)
}

func TestSetPose_DropsNonFinitePose(t *testing.T) {
	c := NewCamera()
	before := c.Pose()

	c.SetPose(Pose{Position: common.Vec3{math.NaN(), 0, 0}, Orientation: common.QuatIdentity(), FocalDistance: 1})
	c.SetPose(Pose{Position: common.Vec3{0, 0, 1}, Orientation: common.QuatIdentity(), FocalDistance: math.Inf(1)})

	assert.Equal(t, before, c.Pose())
	assert.Equal(t, uint64(0), c.Revision())
}
