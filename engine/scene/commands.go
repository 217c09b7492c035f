package scene

import (
	"errors"
	"fmt"
	"log"
	"math"
	"slices"
	"sync"

	"github.com/Carmen-Shannon/spacenav/common"
	"github.com/Carmen-Shannon/spacenav/engine/camera"
	"github.com/Carmen-Shannon/spacenav/engine/navigator"
)

// Built-in command names.
const (
	CommandViewFitAll       = "view_fit_all"
	CommandViewHome         = "view_home"
	CommandToggleProjection = "view_toggle_projection"
)

// fitHalfAngle is the half field of view a fitted scene must fit into.
const fitHalfAngle = math.Pi / 8

var (
	// ErrUnknownCommand is returned for names no command is registered under.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrNoView is returned when the scene has no camera.
	ErrNoView = errors.New("scene has no camera")
	// ErrEmptyScene is returned when there is nothing to fit.
	ErrEmptyScene = errors.New("scene is empty")
)

// CommandFunc is one host command.
type CommandFunc func(s Scene) error

// Commands is the host command table device buttons are bound to.
type Commands interface {
	navigator.ButtonDispatcher

	// Register adds or replaces a command.
	//
	// Parameters:
	//   - name: the command name
	//   - fn: the command
	Register(name string, fn CommandFunc)

	// Bind maps a logical button index to a registered command.
	//
	// Parameters:
	//   - index: the button index in [0, common.MaxButtons)
	//   - name: the command name
	//
	// Returns:
	//   - error: on an out-of-range index or unknown command
	Bind(index int, name string) error

	// Run executes a command by name.
	//
	// Parameters:
	//   - name: the command name
	//
	// Returns:
	//   - error: ErrUnknownCommand or the command's own error
	Run(name string) error

	// Names returns the registered command names, sorted.
	Names() []string
}

type commandsImpl struct {
	mu       sync.Mutex
	scene    Scene
	commands map[string]CommandFunc
	bindings map[int]string
}

var _ Commands = &commandsImpl{}

// NewCommands creates a command table for s with the built-in view commands registered.
//
// Parameters:
//   - s: the scene commands act on
//
// Returns:
//   - Commands: the command table
func NewCommands(s Scene) Commands {
	return &commandsImpl{
		scene: s,
		commands: map[string]CommandFunc{
			CommandViewFitAll:       ViewFitAll,
			CommandViewHome:         ViewHome,
			CommandToggleProjection: ToggleProjection,
		},
		bindings: make(map[int]string),
	}
}

func (c *commandsImpl) Register(name string, fn CommandFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.commands[name] = fn
}

func (c *commandsImpl) Bind(index int, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if index < 0 || index >= common.MaxButtons {
		return fmt.Errorf("button %d outside [0, %d)", index, common.MaxButtons)
	}
	if _, ok := c.commands[name]; !ok {
		return fmt.Errorf("button %d: %w %q", index, ErrUnknownCommand, name)
	}
	c.bindings[index] = name
	return nil
}

func (c *commandsImpl) Run(name string) error {
	c.mu.Lock()
	fn, ok := c.commands[name]
	c.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownCommand, name)
	}
	return fn(c.scene)
}

func (c *commandsImpl) Names() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	names := make([]string, 0, len(c.commands))
	for n := range c.commands {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// DispatchButton runs the bound command on press. Both edges of a bound button are consumed.
func (c *commandsImpl) DispatchButton(index int, pressed bool) bool {
	c.mu.Lock()
	name, ok := c.bindings[index]
	c.mu.Unlock()
	if !ok {
		return false
	}
	if pressed {
		if err := c.Run(name); err != nil {
			log.Printf("command %s: %v", name, err)
		}
	}
	return true
}

// ViewFitAll keeps the view direction and moves the camera back until the scene bounds fit.
func ViewFitAll(s Scene) error {
	cam := s.Camera()
	if cam == nil {
		return ErrNoView
	}
	box, ok := s.SceneBounds()
	if !ok {
		return ErrEmptyScene
	}

	radius := math.Max(box.Diagonal()/2, camera.MinFocalDistance)
	dist := radius / math.Sin(fitHalfAngle)

	pose := cam.Pose()
	pose.Position = common.Sub(box.Center(), common.Scale(pose.Forward(), dist))
	pose.FocalDistance = dist
	pose.Height = 2 * radius
	cam.SetPose(pose)
	return nil
}

// ViewHome restores the scene's home pose.
func ViewHome(s Scene) error {
	cam := s.Camera()
	if cam == nil {
		return ErrNoView
	}
	cam.SetPose(s.HomePose())
	return nil
}

// ToggleProjection switches between perspective and orthographic projection.
func ToggleProjection(s Scene) error {
	cam := s.Camera()
	if cam == nil {
		return ErrNoView
	}
	if cam.Projection() == camera.Perspective {
		cam.SetProjection(camera.Orthographic)
	} else {
		cam.SetProjection(camera.Perspective)
	}
	return nil
}
