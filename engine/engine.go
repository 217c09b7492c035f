package engine

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/spacenav/common"
	"github.com/Carmen-Shannon/spacenav/engine/event"
	"github.com/Carmen-Shannon/spacenav/engine/feed"
	"github.com/Carmen-Shannon/spacenav/engine/navigator"
	"github.com/Carmen-Shannon/spacenav/engine/profiler"
	"github.com/Carmen-Shannon/spacenav/engine/window"
)

// engine implements the Engine interface.
// Coordinates the navigation loop, the marker refresh, the render loop and the window thread.
type engine struct {
	tickRateChannel chan time.Duration // Channel for dynamic tick rate updates
	postChannel     chan func()

	running atomic.Bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	window         window.Window
	updateCallback func()

	profiler         *profiler.Profiler
	profilingEnabled atomic.Bool

	tickRate       time.Duration
	markerRate     time.Duration
	sampleHold     time.Duration
	tickCallback   func(deltaTime float32)
	renderCallback func(deltaTime float32)

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped

	slot       *feed.Slot
	dispatcher event.Dispatcher
	controller navigator.Controller

	// Owned by the loop goroutine.
	held   common.AxisSample
	heldAt time.Time
}

// Engine runs the navigation host loop. A single goroutine drains the input slot at a fixed rate and
// dispatches the events, so everything the handlers touch has exactly one writer.
type Engine interface {
	// Window returns the window, or nil when running headless.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Slot returns the input slot feeds should publish into.
	//
	// Returns:
	//   - *feed.Slot: the slot drained each tick
	Slot() *feed.Slot

	// Dispatcher returns the event dispatcher the loop feeds.
	//
	// Returns:
	//   - event.Dispatcher: the dispatcher
	Dispatcher() event.Dispatcher

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickRate sets the navigation tick rate in ticks per second.
	//
	// Parameters:
	//   - fps: target ticks per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetTickCallback registers a function called on the loop goroutine after each tick's events.
	//
	// Parameters:
	//   - callback: function receiving the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderCallback registers the function called each render frame on the render goroutine.
	// Render code must only read committed camera poses.
	//
	// Parameters:
	//   - callback: function to call each render frame, receiving the delta time in seconds
	SetRenderCallback(callback func(deltaTime float32))

	// SetUpdateCallback registers a function called on the window thread each message loop iteration.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// Post runs fn on the loop goroutine. Use it to start or stop navigation from other threads.
	//
	// Parameters:
	//   - fn: the closure to run
	//
	// Returns:
	//   - bool: false when the engine has quit
	Post(fn func()) bool

	// Run starts the loops and blocks until Quit is called or the window closes.
	Run()

	// Quit signals all engine goroutines to stop.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()

	// Done is closed once Quit has been signalled.
	//
	// Returns:
	//   - <-chan struct{}: the quit channel
	Done() <-chan struct{}
}

// NewEngine creates a new Engine instance with the provided options.
// Without a slot or dispatcher option the engine creates its own.
//
// Parameters:
//   - options: functional options for engine configuration (profiling, tick rate, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		tickRateChannel: make(chan time.Duration, 1),
		postChannel:     make(chan func(), 16),
		quitChannel:     make(chan struct{}),
		wg:              sync.WaitGroup{},
		tickRate:        time.Second / 60,
		markerRate:      100 * time.Millisecond,
	}

	for _, opt := range options {
		opt(e)
	}

	if e.slot == nil {
		e.slot = feed.NewSlot(0)
	}
	if e.dispatcher == nil {
		e.dispatcher = event.NewDispatcher()
	}
	e.profiler = profiler.NewProfiler(profiler.WithStatsSource(e.statsLine))

	if e.window != nil {
		e.window.SetUpdateCallback(func() {
			select {
			case <-e.quitChannel:
				if err := e.window.Close(); err != nil {
					log.Printf("window close failed: %v", err)
				}
				return
			default:
			}
			if e.updateCallback != nil {
				e.updateCallback()
			}
		})
	}

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Slot() *feed.Slot {
	return e.slot
}

func (e *engine) Dispatcher() event.Dispatcher {
	return e.dispatcher
}

func (e *engine) Run() {
	e.running.Store(true)
	e.handle()
	if e.window != nil {
		// The message loop must stay on the calling (main) thread.
		e.window.ProcessMessages()
		e.signalQuit()
	} else {
		<-e.quitChannel
	}
	e.wg.Wait()
	e.running.Store(false)
}

// Quit signals all engine goroutines to stop and shuts down the engine.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.signalQuit()
}

func (e *engine) Done() <-chan struct{} {
	return e.quitChannel
}

// signalQuit closes the quit channel to signal all goroutines to exit.
// Uses sync.Once to ensure the channel is only closed once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

func (e *engine) Post(fn func()) bool {
	select {
	case <-e.quitChannel:
		return false
	default:
	}
	select {
	case e.postChannel <- fn:
		return true
	case <-e.quitChannel:
		return false
	}
}

// handle launches the loop and render goroutines.
// Each goroutine is tracked by the engine's WaitGroup.
func (e *engine) handle() {
	e.wg.Add(1)
	go e.handleLoop()
	if e.renderCallback != nil {
		e.wg.Add(1)
		go e.handleRender()
	}
}

// handleLoop runs the fixed-rate navigation tick, the low-rate marker refresh and posted closures
// on one goroutine. Exits when the quit channel is closed.
func (e *engine) handleLoop() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.tickRate)
	defer ticker.Stop()

	var markerC <-chan time.Time
	if e.controller != nil {
		marker := time.NewTicker(e.markerRate)
		defer marker.Stop()
		markerC = marker.C
	}

	lastTick := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		case fn := <-e.postChannel:
			fn()
		case now := <-ticker.C:
			dt := float32(now.Sub(lastTick).Seconds())
			lastTick = now

			e.tick(now)
			if e.tickCallback != nil {
				e.tickCallback(dt)
			}
			if e.profilingEnabled.Load() {
				e.profiler.Tick()
			}
		case <-markerC:
			e.controller.RefreshMarker()
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
			e.tickRate = newRate
		}
	}
}

// tick drains the slot: queued buttons first, in order, then one motion event. Without a fresh
// sample the last non-zero one is repeated for the hold window, after that an idle event lets the
// filter decay.
func (e *engine) tick(now time.Time) {
	sample, ok, buttons := e.slot.Take()
	for _, b := range buttons {
		e.dispatcher.Dispatch(event.NewButton(b))
	}

	switch {
	case ok:
		e.held, e.heldAt = sample, now
		e.dispatcher.Dispatch(event.NewMotion(sample))
	case !e.held.IsZero() && now.Sub(e.heldAt) <= e.sampleHold:
		e.dispatcher.Dispatch(event.NewMotion(e.held))
	default:
		e.held = common.AxisSample{}
		e.dispatcher.Dispatch(event.NewIdle())
	}
}

// handleRender runs the uncapped (or frame-limited) render loop in its own goroutine.
// Recovers from panics to avoid crashing the process and signals quit on recovery.
func (e *engine) handleRender() {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("render goroutine recovered from panic: %v", r)
			e.signalQuit()
		}
	}()

	lastRender := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		default:
			now := time.Now()
			dt := float32(now.Sub(lastRender).Seconds())
			lastRender = now

			e.renderCallback(dt)

			if e.renderFrameLimit > 0 {
				elapsed := time.Since(lastRender)
				if remaining := e.renderFrameLimit - elapsed; remaining > 0 {
					time.Sleep(remaining)
				}
			}
		}
	}
}

// statsLine feeds the profiler.
func (e *engine) statsLine() string {
	s := e.slot.Stats()
	line := fmt.Sprintf("Samples: %d (coalesced %d) | Buttons: %d (dropped %d)", s.Samples, s.Coalesced, s.Buttons, s.Dropped)
	if e.controller != nil {
		c := e.controller.Stats()
		line += fmt.Sprintf(" | Nav: %s applied %d skipped %d idle %d", e.controller.State(), c.Applied, c.Skipped, c.Idle)
	}
	return line
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled.Store(true)
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled.Store(false)
}

// SetTickRate sets the navigation tick rate in ticks per second.
// If the engine is running, the change takes effect immediately.
func (e *engine) SetTickRate(fps float64) {
	newRate := rateFor(fps)

	if e.running.Load() {
		// Non-blocking send - if channel is full, replace the pending value
		select {
		case e.tickRateChannel <- newRate:
		default:
			select {
			case <-e.tickRateChannel:
			default:
			}
			e.tickRateChannel <- newRate
		}
	} else {
		e.tickRate = newRate
	}
}

// SetTickCallback registers the function called each navigation tick.
func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

// SetRenderCallback registers the function called each render frame.
func (e *engine) SetRenderCallback(callback func(deltaTime float32)) {
	e.renderCallback = callback
}

func (e *engine) SetUpdateCallback(callback func()) {
	e.updateCallback = callback
}

func rateFor(fps float64) time.Duration {
	if fps <= 0 {
		fps = 60
	}
	return time.Duration(float64(time.Second) / fps)
}
