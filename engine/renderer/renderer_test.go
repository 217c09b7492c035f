package renderer

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/spacenav/common"
	"github.com/Carmen-Shannon/spacenav/engine/camera"
	"github.com/Carmen-Shannon/spacenav/engine/pivot"
	"github.com/stretchr/testify/assert"
)

func TestClearColor_FollowsViewDirection(t *testing.T) {
	front := camera.Pose{Orientation: common.QuatIdentity()}
	c := ClearColor(front, pivot.Marker{})
	assert.InDelta(t, clearBase+clearRange/2, c.R, 1e-12)
	assert.InDelta(t, clearBase+clearRange/2, c.G, 1e-12)
	assert.InDelta(t, clearBase+clearRange, c.B, 1e-12, "looking down -Z saturates blue")
	assert.Equal(t, 1.0, c.A)

	right := camera.Pose{Orientation: common.QuatFromAxisAngle(common.Vec3{0, 1, 0}, -math.Pi/2)}
	c = ClearColor(right, pivot.Marker{})
	assert.InDelta(t, clearBase+clearRange, c.R, 1e-9)

	lit := ClearColor(front, pivot.Marker{Visible: true})
	assert.InDelta(t, markerBoost, lit.G-ClearColor(front, pivot.Marker{}).G, 1e-12)
}
