package navigator

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/spacenav/common"
	"github.com/Carmen-Shannon/spacenav/config"
	"github.com/Carmen-Shannon/spacenav/engine/camera"
	"github.com/Carmen-Shannon/spacenav/engine/conditioner"
	"github.com/Carmen-Shannon/spacenav/engine/event"
	"github.com/Carmen-Shannon/spacenav/engine/pivot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeViewport struct {
	cam       camera.Camera
	sel       common.BoundingBox
	haveSel   bool
	scene     common.BoundingBox
	haveScene bool
}

func (v *fakeViewport) Camera() camera.Camera { return v.cam }

func (v *fakeViewport) SelectionBounds() (common.BoundingBox, bool) { return v.sel, v.haveSel }

func (v *fakeViewport) SceneBounds() (common.BoundingBox, bool) { return v.scene, v.haveScene }

func newViewport() *fakeViewport {
	return &fakeViewport{
		cam:       camera.NewCamera(),
		scene:     common.NewBoundingBox(common.Vec3{-5, -5, -5}, common.Vec3{5, 5, 5}),
		haveScene: true,
	}
}

type fakeButtons struct {
	got     []common.ButtonEvent
	consume bool
}

func (b *fakeButtons) DispatchButton(index int, pressed bool) bool {
	b.got = append(b.got, common.ButtonEvent{Index: index, Pressed: pressed})
	return b.consume
}

type fakeMarker struct {
	shown  []pivot.Marker
	hidden int
}

func (m *fakeMarker) ShowMarker(mk pivot.Marker) { m.shown = append(m.shown, mk) }

func (m *fakeMarker) HideMarker() { m.hidden++ }

var rollSample = common.AxisSample{RX: 200}

func TestController_StartStop(t *testing.T) {
	d := event.NewDispatcher()
	c := NewController(WithDispatcher(d))

	assert.True(t, errors.Is(c.Start(nil), ErrResourceUnavailable))
	assert.True(t, errors.Is(c.Start(&fakeViewport{}), ErrResourceUnavailable))
	assert.Equal(t, Inactive, c.State())
	assert.Empty(t, d.Handlers())

	require.NoError(t, c.Start(newViewport()))
	assert.Equal(t, Active, c.State())
	assert.Equal(t, []string{HandlerName}, d.Handlers())
	assert.True(t, errors.Is(c.Start(newViewport()), ErrAlreadyActive))

	require.NoError(t, c.Stop())
	assert.Equal(t, Inactive, c.State())
	assert.Empty(t, d.Handlers())
	assert.True(t, errors.Is(c.Stop(), ErrNotActive))

	// retryable
	require.NoError(t, c.Start(newViewport()))
	assert.Equal(t, uint64(2), c.Stats().Sessions)
}

func TestController_ConsumesMotionAtMostOnce(t *testing.T) {
	d := event.NewDispatcher()
	builtin := 0
	_, err := d.Install("builtin", event.PriorityDefault, func(ev *event.Event) {
		builtin++
		ev.SetHandled()
	})
	require.NoError(t, err)

	vp := newViewport()
	c := NewController(WithDispatcher(d))
	require.NoError(t, c.Start(vp))

	before := vp.cam.Pose()
	ev := event.NewMotion(rollSample)
	assert.True(t, d.Dispatch(ev))
	assert.Equal(t, 0, builtin)
	assert.NotEqual(t, before, vp.cam.Pose())
	assert.Equal(t, uint64(1), c.Stats().Applied)

	require.NoError(t, c.Stop())
	d.Dispatch(event.NewMotion(rollSample))
	assert.Equal(t, 1, builtin)
}

func TestController_ZeroMotionLeavesPose(t *testing.T) {
	vp := newViewport()
	c := NewController()
	require.NoError(t, c.Start(vp))

	d := c.(*controllerImpl).dispatcher
	ev := event.NewMotion(common.AxisSample{TX: 5, RY: -3})
	assert.True(t, d.Dispatch(ev))
	assert.Equal(t, uint64(0), vp.cam.Revision())
	assert.Equal(t, uint64(1), c.Stats().Idle)
}

func TestController_SkipsWithoutPivot(t *testing.T) {
	vp := newViewport()
	vp.haveScene = false
	c := NewController()
	require.NoError(t, c.Start(vp))

	d := c.(*controllerImpl).dispatcher
	assert.True(t, d.Dispatch(event.NewMotion(rollSample)))
	assert.Equal(t, uint64(0), vp.cam.Revision())
	assert.Equal(t, uint64(1), c.Stats().Skipped)
	assert.Equal(t, Active, c.State())
}

func TestController_ViewportLostStops(t *testing.T) {
	d := event.NewDispatcher()
	fallback := 0
	_, err := d.Install("builtin", event.PriorityDefault, func(ev *event.Event) { fallback++ })
	require.NoError(t, err)

	vp := newViewport()
	c := NewController(WithDispatcher(d))
	require.NoError(t, c.Start(vp))

	vp.cam = nil
	assert.False(t, d.Dispatch(event.NewMotion(rollSample)))
	assert.Equal(t, Inactive, c.State())
	assert.Equal(t, 1, fallback)
	assert.Equal(t, []string{"builtin"}, d.Handlers())
}

func TestController_ForwardsButtons(t *testing.T) {
	buttons := &fakeButtons{consume: true}
	c := NewController(WithButtonDispatcher(buttons))
	require.NoError(t, c.Start(newViewport()))
	d := c.(*controllerImpl).dispatcher

	assert.True(t, d.Dispatch(event.NewButton(common.ButtonEvent{Index: 1, Pressed: true})))
	buttons.consume = false
	assert.False(t, d.Dispatch(event.NewButton(common.ButtonEvent{Index: 1, Pressed: false})))

	assert.Equal(t, []common.ButtonEvent{{Index: 1, Pressed: true}, {Index: 1, Pressed: false}}, buttons.got)
}

func TestController_IdleDecaySettles(t *testing.T) {
	vp := newViewport()
	c := NewController()
	require.NoError(t, c.Start(vp))
	d := c.(*controllerImpl).dispatcher

	for i := 0; i < 10; i++ {
		d.Dispatch(event.NewMotion(rollSample))
	}
	moving := vp.cam.Revision()

	settled := false
	for i := 0; i < 60; i++ {
		if !d.Dispatch(event.NewIdle()) {
			settled = true
			break
		}
	}
	require.True(t, settled)
	assert.Greater(t, vp.cam.Revision(), moving, "residual motion keeps gliding for a few ticks")
	assert.False(t, c.LastOutput().Motion)

	rest := vp.cam.Pose()
	d.Dispatch(event.NewIdle())
	assert.Equal(t, rest, vp.cam.Pose())
}

func TestController_StopLeavesPose(t *testing.T) {
	vp := newViewport()
	c := NewController()
	require.NoError(t, c.Start(vp))
	d := c.(*controllerImpl).dispatcher
	d.Dispatch(event.NewMotion(rollSample))

	pose := vp.cam.Pose()
	require.NoError(t, c.Stop())
	assert.Equal(t, pose, vp.cam.Pose())
	assert.Equal(t, conditioner.Output{}, c.LastOutput())
}

func TestController_PivotKeepsDistanceToSceneCenter(t *testing.T) {
	vp := newViewport()
	c := NewController()
	require.NoError(t, c.Start(vp))
	d := c.(*controllerImpl).dispatcher

	for i := 0; i < 30; i++ {
		d.Dispatch(event.NewMotion(common.AxisSample{RX: 150, RZ: 90}))
	}
	assert.InDelta(t, 10, common.Length(vp.cam.Pose().Position), 1e-9)
}

func TestController_RefreshMarker(t *testing.T) {
	marker := &fakeMarker{}
	vp := newViewport()
	c := NewController(WithMarkerSink(marker))
	require.NoError(t, c.Start(vp))

	c.RefreshMarker()
	require.Len(t, marker.shown, 1)
	assert.Equal(t, common.Vec3{}, marker.shown[0].Center)
	assert.InDelta(t, 0.3, marker.shown[0].Scale, 1e-12)

	vp.haveScene = false
	c.RefreshMarker()
	assert.Equal(t, 1, marker.hidden)

	require.NoError(t, c.Stop())
	assert.Equal(t, 2, marker.hidden)
}

func TestController_FocalRefocus(t *testing.T) {
	cfg := config.Default()
	cfg.Strategy = config.StrategyFocal

	marker := &fakeMarker{}
	vp := newViewport()
	pose := vp.cam.Pose()
	pose.FocalDistance = 4
	vp.cam.SetPose(pose)

	c := NewController(WithConfig(cfg), WithMarkerSink(marker))
	require.NoError(t, c.Start(vp))
	c.RefreshMarker()

	assert.InDelta(t, 10, vp.cam.Pose().FocalDistance, 1e-12)
	assert.Equal(t, uint64(1), c.Stats().Refocused)
	require.Len(t, marker.shown, 1)
	assert.InDelta(t, 0, common.Length(marker.shown[0].Center), 1e-12)

	settings, ok := c.Settings()
	require.True(t, ok)
	assert.Equal(t, config.StrategyFocal, settings.Strategy)
}

func TestController_SessionCopiesConfig(t *testing.T) {
	cfg := config.Default()
	c := NewController(WithConfig(cfg))
	require.NoError(t, c.Start(newViewport()))

	cfg.Deadzone = 99
	settings, _ := c.Settings()
	assert.Equal(t, 12.0, settings.Deadzone)
}
