package scene

import (
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/spacenav/common"
	"github.com/Carmen-Shannon/spacenav/engine/camera"
	"github.com/Carmen-Shannon/spacenav/engine/game_object"
	"github.com/Carmen-Shannon/spacenav/engine/navigator"
)

// parallelThreshold is the object count above which bounds unions are split across the pool.
const parallelThreshold = 512

// Scene is the host view a navigation session drives: a set of bounded objects, a selection and
// the camera looking at them.
type Scene interface {
	navigator.Viewport

	// Name returns the scene's name.
	//
	// Returns:
	//   - string: the scene name
	Name() string

	// SetCamera replaces the camera. Passing nil detaches the view; a running session stops on its
	// next tick.
	//
	// Parameters:
	//   - cam: the new camera, or nil
	SetCamera(cam camera.Camera)

	// Add registers an object and returns its ID. Objects without an ID get the next free one.
	//
	// Parameters:
	//   - obj: the object to add
	//
	// Returns:
	//   - uint64: the object ID
	Add(obj game_object.GameObject) uint64

	// Get returns the object with the given ID, or nil.
	//
	// Parameters:
	//   - id: the object ID
	//
	// Returns:
	//   - game_object.GameObject: the object or nil
	Get(id uint64) game_object.GameObject

	// Remove deletes an object and drops it from the selection.
	//
	// Parameters:
	//   - id: the object ID
	Remove(id uint64)

	// Clear removes every object and empties the selection.
	Clear()

	// Count returns the number of registered objects.
	//
	// Returns:
	//   - int: the object count
	Count() int

	// Select adds objects to the selection. Unknown IDs are ignored.
	//
	// Parameters:
	//   - ids: the objects to select
	Select(ids ...uint64)

	// Deselect removes objects from the selection.
	//
	// Parameters:
	//   - ids: the objects to deselect
	Deselect(ids ...uint64)

	// ClearSelection empties the selection.
	ClearSelection()

	// Selection returns the selected IDs in ascending order.
	//
	// Returns:
	//   - []uint64: the selected IDs
	Selection() []uint64

	// HomePose returns the pose the view_home command restores.
	//
	// Returns:
	//   - camera.Pose: the home pose
	HomePose() camera.Pose

	// SetHomePose replaces the home pose.
	//
	// Parameters:
	//   - pose: the new home pose
	SetHomePose(pose camera.Pose)
}

type scene struct {
	mu sync.RWMutex

	name      string
	cam       camera.Camera
	home      camera.Pose
	registry  map[uint64]game_object.GameObject
	selection map[uint64]struct{}
	nextID    uint64

	boundsWorkers int
	boundsPool    worker.DynamicWorkerPool
	taskID        atomic.Int64
}

var _ Scene = &scene{}

// NewScene creates a scene viewed through cam. The camera's pose at construction becomes the home
// pose unless WithHomePose says otherwise.
//
// Parameters:
//   - name: the scene name
//   - cam: the camera, may be nil for a detached scene
//   - options: functional options to configure the scene
//
// Returns:
//   - Scene: the new scene
func NewScene(name string, cam camera.Camera, options ...SceneBuilderOption) Scene {
	s := &scene{
		name:          name,
		cam:           cam,
		registry:      make(map[uint64]game_object.GameObject),
		selection:     make(map[uint64]struct{}),
		nextID:        1,
		boundsWorkers: 4,
	}
	if cam != nil {
		s.home = cam.Pose()
	}

	for _, opt := range options {
		opt(s)
	}

	s.boundsPool = worker.NewDynamicWorkerPool(s.boundsWorkers, 256, 1*time.Second)
	return s
}

func (s *scene) Name() string {
	return s.name
}

func (s *scene) Camera() camera.Camera {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cam
}

func (s *scene) SetCamera(cam camera.Camera) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cam = cam
}

func (s *scene) Add(obj game_object.GameObject) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if obj.ID() == 0 {
		obj.SetID(s.nextID)
	}
	if obj.ID() >= s.nextID {
		s.nextID = obj.ID() + 1
	}
	s.registry[obj.ID()] = obj
	return obj.ID()
}

func (s *scene) Get(id uint64) game_object.GameObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registry[id]
}

func (s *scene) Remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.registry, id)
	delete(s.selection, id)
}

func (s *scene) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registry = make(map[uint64]game_object.GameObject)
	s.selection = make(map[uint64]struct{})
}

func (s *scene) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.registry)
}

func (s *scene) Select(ids ...uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		if _, ok := s.registry[id]; ok {
			s.selection[id] = struct{}{}
		}
	}
}

func (s *scene) Deselect(ids ...uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		delete(s.selection, id)
	}
}

func (s *scene) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = make(map[uint64]struct{})
}

func (s *scene) Selection() []uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]uint64, 0, len(s.selection))
	for id := range s.selection {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (s *scene) HomePose() camera.Pose {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.home
}

func (s *scene) SetHomePose(pose camera.Pose) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.home = pose
}

// SelectionBounds unions the selected objects. Zero-volume objects are left out so a stray point
// in the selection does not drag the pivot.
func (s *scene) SelectionBounds() (common.BoundingBox, bool) {
	s.mu.RLock()
	objs := make([]game_object.GameObject, 0, len(s.selection))
	for id := range s.selection {
		if obj := s.registry[id]; obj != nil {
			objs = append(objs, obj)
		}
	}
	s.mu.RUnlock()

	box := s.union(objs, func(b common.BoundingBox) bool { return !b.Degenerate() })
	return box, !box.Empty()
}

// SceneBounds unions every enabled object.
func (s *scene) SceneBounds() (common.BoundingBox, bool) {
	s.mu.RLock()
	objs := make([]game_object.GameObject, 0, len(s.registry))
	for _, obj := range s.registry {
		if obj.Enabled() {
			objs = append(objs, obj)
		}
	}
	s.mu.RUnlock()

	box := s.union(objs, nil)
	return box, !box.Empty()
}

// union merges the world bounds of objs that pass keep. Large sets are split into one chunk
// per worker; a WaitGroup is the barrier since the pool itself only drains on idle exit.
func (s *scene) union(objs []game_object.GameObject, keep func(common.BoundingBox) bool) common.BoundingBox {
	fold := func(part []game_object.GameObject) common.BoundingBox {
		box := common.EmptyBox()
		for _, obj := range part {
			b := obj.Bounds()
			if keep == nil || keep(b) {
				box = box.Union(b)
			}
		}
		return box
	}

	if len(objs) < parallelThreshold || s.boundsWorkers < 2 {
		return fold(objs)
	}

	chunk := (len(objs) + s.boundsWorkers - 1) / s.boundsWorkers
	parts := make([]common.BoundingBox, 0, s.boundsWorkers)
	for start := 0; start < len(objs); start += chunk {
		parts = append(parts, common.EmptyBox())
	}

	var wg sync.WaitGroup
	for i := range parts {
		start := i * chunk
		end := min(start+chunk, len(objs))
		wg.Add(1)
		s.boundsPool.SubmitTask(worker.Task{
			ID: int(s.taskID.Add(1)),
			Do: func() (any, error) {
				defer wg.Done()
				parts[i] = fold(objs[start:end])
				return nil, nil
			},
		})
	}
	wg.Wait()

	box := common.EmptyBox()
	for _, p := range parts {
		box = box.Union(p)
	}
	return box
}
