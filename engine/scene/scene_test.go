package scene

import (
	"errors"
	"math"
	"testing"

	"github.com/Carmen-Shannon/spacenav/common"
	"github.com/Carmen-Shannon/spacenav/engine/camera"
	"github.com/Carmen-Shannon/spacenav/engine/event"
	"github.com/Carmen-Shannon/spacenav/engine/game_object"
	"github.com/Carmen-Shannon/spacenav/engine/navigator"
	"github.com/Carmen-Shannon/spacenav/engine/pivot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cube(at common.Vec3, size float64) game_object.GameObject {
	return game_object.NewGameObject(game_object.WithBox(common.Vec3{size, size, size}), game_object.WithPosition(at))
}

func TestScene_Bounds(t *testing.T) {
	s := NewScene("test", camera.NewCamera())

	_, ok := s.SceneBounds()
	assert.False(t, ok)
	_, ok = s.SelectionBounds()
	assert.False(t, ok)

	a := s.Add(cube(common.Vec3{-4, 0, 0}, 2))
	b := s.Add(cube(common.Vec3{4, 0, 0}, 2))
	hidden := s.Add(game_object.NewGameObject(game_object.WithBox(common.Vec3{100, 100, 100}), game_object.WithEnabled(false)))
	assert.Equal(t, 3, s.Count())
	assert.NotEqual(t, a, b)

	box, ok := s.SceneBounds()
	require.True(t, ok)
	assert.Equal(t, common.Vec3{-5, -1, -1}, box.Min)
	assert.Equal(t, common.Vec3{5, 1, 1}, box.Max)

	s.Select(b, 999)
	assert.Equal(t, []uint64{b}, s.Selection())
	box, ok = s.SelectionBounds()
	require.True(t, ok)
	assert.Equal(t, common.Vec3{4, 0, 0}, box.Center())

	s.Remove(b)
	assert.Empty(t, s.Selection())
	assert.NotNil(t, s.Get(hidden))
}

func TestScene_SelectionSkipsZeroVolume(t *testing.T) {
	s := NewScene("test", camera.NewCamera())
	point := s.Add(game_object.NewGameObject(game_object.WithBounds(common.NewBoundingBox(common.Vec3{9, 9, 9}, common.Vec3{9, 9, 9}))))
	s.Add(cube(common.Vec3{}, 2))

	s.Select(point)
	_, ok := s.SelectionBounds()
	assert.False(t, ok, "a lone point is no selection extent")

	p, ok := pivot.ResolvePivot(common.EmptyBox(), false, mustBounds(s.SceneBounds()), true)
	require.True(t, ok)
	assert.InDelta(t, 4, p[0], 1e-12)
}

func mustBounds(b common.BoundingBox, _ bool) common.BoundingBox { return b }

func TestScene_ParallelUnionMatchesSerial(t *testing.T) {
	var objs []game_object.GameObject
	for i := 0; i < 2000; i++ {
		x := float64(i%50) - 25
		y := float64(i/50) * 0.5
		objs = append(objs, cube(common.Vec3{x, y, float64(i % 7)}, 1))
	}

	par := NewScene("par", nil, WithObjects(objs...), WithBoundsWorkers(8))
	ser := NewScene("ser", nil, WithObjects(objs...), WithBoundsWorkers(1))

	pb, ok := par.SceneBounds()
	require.True(t, ok)
	sb, _ := ser.SceneBounds()
	assert.Equal(t, sb, pb)
	assert.Equal(t, common.Vec3{-25.5, -0.5, -0.5}, pb.Min)
}

func TestCommands_Bindings(t *testing.T) {
	cam := camera.NewCamera()
	s := NewScene("test", cam)
	s.Add(cube(common.Vec3{0, 0, 0}, 2))
	c := NewCommands(s)

	require.NoError(t, c.Bind(0, CommandViewFitAll))
	require.NoError(t, c.Bind(1, CommandViewHome))
	assert.True(t, errors.Is(c.Bind(2, "nope"), ErrUnknownCommand))
	assert.Error(t, c.Bind(16, CommandViewHome))

	assert.False(t, c.DispatchButton(5, true))
	assert.True(t, c.DispatchButton(0, false))
	assert.Equal(t, uint64(0), cam.Revision(), "release does not run the command")

	assert.True(t, c.DispatchButton(0, true))
	fitted := cam.Pose()
	assert.InDelta(t, math.Sqrt(3)/math.Sin(fitHalfAngle), fitted.FocalDistance, 1e-9)
	assert.InDelta(t, 0, common.Length(fitted.FocalPoint()), 1e-9)

	assert.True(t, c.DispatchButton(1, true))
	assert.Equal(t, s.HomePose(), cam.Pose())

	assert.Equal(t, []string{CommandViewFitAll, CommandViewHome, CommandToggleProjection}, c.Names())
}

func TestCommands_Errors(t *testing.T) {
	s := NewScene("test", camera.NewCamera())
	c := NewCommands(s)
	assert.True(t, errors.Is(c.Run(CommandViewFitAll), ErrEmptyScene))
	assert.True(t, errors.Is(c.Run("x"), ErrUnknownCommand))

	s.SetCamera(nil)
	assert.True(t, errors.Is(c.Run(CommandViewHome), ErrNoView))

	called := false
	c.Register("custom", func(Scene) error { called = true; return nil })
	require.NoError(t, c.Run("custom"))
	assert.True(t, called)
}

func TestCommands_ToggleProjection(t *testing.T) {
	cam := camera.NewCamera()
	c := NewCommands(NewScene("test", cam))
	require.NoError(t, c.Run(CommandToggleProjection))
	assert.Equal(t, camera.Orthographic, cam.Projection())
	require.NoError(t, c.Run(CommandToggleProjection))
	assert.Equal(t, camera.Perspective, cam.Projection())
}

func TestMarkerStore(t *testing.T) {
	m := NewMarkerStore()
	assert.False(t, m.Marker().Visible)

	m.ShowMarker(pivot.Marker{Center: common.Vec3{1, 2, 3}, Scale: 0.5})
	assert.True(t, m.Marker().Visible)
	assert.Equal(t, common.Vec3{1, 2, 3}, m.Marker().Center)

	m.HideMarker()
	assert.False(t, m.Marker().Visible)
	assert.Equal(t, uint64(2), m.Updates())
}

// The scene satisfies the navigator's viewport and button contracts end to end.
func TestScene_DrivesNavigator(t *testing.T) {
	s := NewScene("test", camera.NewCamera())
	s.Add(cube(common.Vec3{}, 4))
	commands := NewCommands(s)
	require.NoError(t, commands.Bind(1, CommandViewHome))
	markers := NewMarkerStore()

	d := event.NewDispatcher()
	ctrl := navigator.NewController(
		navigator.WithDispatcher(d),
		navigator.WithButtonDispatcher(commands),
		navigator.WithMarkerSink(markers),
	)
	require.NoError(t, ctrl.Start(s))

	for i := 0; i < 20; i++ {
		d.Dispatch(event.NewMotion(common.AxisSample{RY: 200}))
	}
	moved := s.Camera().Pose()
	assert.NotEqual(t, s.HomePose(), moved)
	assert.InDelta(t, 10, common.Length(moved.Position), 1e-9)

	ctrl.RefreshMarker()
	assert.True(t, markers.Marker().Visible)

	assert.True(t, d.Dispatch(event.NewButton(common.ButtonEvent{Index: 1, Pressed: true})))
	assert.Equal(t, s.HomePose(), s.Camera().Pose())

	s.SetCamera(nil)
	d.Dispatch(event.NewMotion(common.AxisSample{RY: 200}))
	assert.Equal(t, navigator.Inactive, ctrl.State())
}

func TestSpawnGrid(t *testing.T) {
	s := NewScene("grid", camera.NewCamera())
	ids := SpawnGrid(s, 10, 3, 2, 1)
	assert.Len(t, ids, 10)
	assert.Equal(t, 10, s.Count())

	box, ok := s.SceneBounds()
	require.True(t, ok)
	assert.Equal(t, common.Vec3{-2.5, -0.5, -2.5}, box.Min)
	assert.Equal(t, common.Vec3{2.5, 2.5, 2.5}, box.Max, "the tenth cube opens a second layer")
}
