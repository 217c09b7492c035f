package navigator

import (
	"fmt"
	"log"
	"math"
	"sync"

	"github.com/Carmen-Shannon/spacenav/common"
	"github.com/Carmen-Shannon/spacenav/config"
	"github.com/Carmen-Shannon/spacenav/engine/camera"
	"github.com/Carmen-Shannon/spacenav/engine/conditioner"
	"github.com/Carmen-Shannon/spacenav/engine/event"
	"github.com/Carmen-Shannon/spacenav/engine/pivot"
)

// refocusTolerance is the focal distance change below which refocusing does not commit a pose.
const refocusTolerance = 1e-6

type controllerImpl struct {
	mu *sync.Mutex

	cfg        config.Config
	dispatcher event.Dispatcher
	buttons    ButtonDispatcher
	marker     pivot.MarkerSink

	session *Session
	stats   Stats
}

var _ Controller = &controllerImpl{}

// NewController creates an inactive navigation controller. Without WithDispatcher it creates a
// private dispatcher, which is only useful in tests.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - Controller: the newly created controller
func NewController(options ...ControllerBuilderOption) Controller {
	c := &controllerImpl{
		mu:  &sync.Mutex{},
		cfg: config.Default(),
	}
	for _, option := range options {
		option(c)
	}
	if c.dispatcher == nil {
		c.dispatcher = event.NewDispatcher()
	}
	return c
}

func (c *controllerImpl) Start(vp Viewport) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session != nil {
		return ErrAlreadyActive
	}
	if vp == nil || vp.Camera() == nil {
		return ErrResourceUnavailable
	}

	s := newSession(c.cfg, vp)
	reg, err := c.dispatcher.Install(HandlerName, event.PriorityInterceptor, c.intercept)
	if err != nil {
		return fmt.Errorf("failed to install navigation interceptor: %w", err)
	}
	s.reg = reg
	c.session = s
	c.stats.Sessions++
	log.Printf("navigator: session started (strategy %s)", s.cfg.Strategy)
	return nil
}

func (c *controllerImpl) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return ErrNotActive
	}
	c.stopLocked("stopped")
	return nil
}

// stopLocked tears the session down. Caller must hold the mutex.
func (c *controllerImpl) stopLocked(reason string) {
	s := c.session
	if s == nil {
		return
	}
	c.dispatcher.Uninstall(s.reg)
	c.session = nil
	if c.marker != nil {
		c.marker.HideMarker()
	}
	log.Printf("navigator: session ended (%s)", reason)
}

func (c *controllerImpl) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session != nil {
		return Active
	}
	return Inactive
}

func (c *controllerImpl) LastOutput() conditioner.Output {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return conditioner.Output{}
	}
	return c.session.conditioner.Last()
}

func (c *controllerImpl) Settings() (config.Config, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return config.Config{}, false
	}
	return c.session.cfg, true
}

func (c *controllerImpl) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// intercept is the handler installed on the dispatcher for the length of a session.
func (c *controllerImpl) intercept(ev *event.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.session
	if s == nil {
		return
	}

	switch ev.Kind {
	case event.KindButton:
		c.stats.Buttons++
		if c.buttons != nil && c.buttons.DispatchButton(ev.Button.Index, ev.Button.Pressed) {
			ev.SetHandled()
		}
	case event.KindMotion:
		cam := s.viewport.Camera()
		if cam == nil {
			c.stopLocked("viewport lost")
			return
		}
		c.stats.Ticks++
		out := s.conditioner.Condition(ev.Sample)
		if !out.Motion {
			c.stats.Idle++
			ev.SetHandled()
			return
		}
		c.apply(s, cam, out.Sample)
		ev.SetHandled()
	case event.KindIdle:
		if s.conditioner.State() == (conditioner.FilterState{}) {
			return
		}
		cam := s.viewport.Camera()
		if cam == nil {
			c.stopLocked("viewport lost")
			return
		}
		c.stats.Decayed++
		if out := s.conditioner.Decay(); out.Motion {
			c.apply(s, cam, out.Sample)
		}
		ev.SetHandled()
	}
}

// apply resolves the pivot, runs the camera update engine and commits the result.
// Caller must hold the mutex.
func (c *controllerImpl) apply(s *Session, cam camera.Camera, sample common.AxisSample) {
	p, ok, scale := s.resolve()
	res := s.engine.UpdatePose(sample, cam.Pose(), p, ok, scale, cam.Projection())
	if res.Skipped {
		c.stats.Skipped++
		return
	}
	if res.Changed() {
		cam.SetPose(res.Pose)
		c.stats.Applied++
	}
}

func (c *controllerImpl) RefreshMarker() {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.session
	if s == nil {
		return
	}
	cam := s.viewport.Camera()
	if cam == nil {
		c.stopLocked("viewport lost")
		return
	}

	p, ok, _ := s.resolve()
	pose := cam.Pose()
	center := p

	if s.cfg.Strategy == config.StrategyFocal {
		if ok && s.cfg.Refocus && !s.conditioner.Last().Motion {
			// Distance from the camera to the pivot measured along the view axis.
			d := common.Dot(common.Sub(p, pose.Position), pose.Forward())
			if d > camera.MinFocalDistance && math.Abs(d-pose.FocalDistance) > refocusTolerance {
				pose.FocalDistance = d
				cam.SetPose(pose)
				c.stats.Refocused++
			}
		}
		// The focal strategy orbits its focal point, so that is what the marker shows.
		center, ok = pose.FocalPoint(), true
	}

	if c.marker == nil {
		return
	}
	if !ok || !s.cfg.PivotMarker {
		c.marker.HideMarker()
		return
	}
	c.marker.ShowMarker(pivot.MarkerFor(center, pose.Position))
}
