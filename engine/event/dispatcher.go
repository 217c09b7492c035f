package event

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Handler priorities. Lower values run first.
const (
	// PriorityInterceptor is where the navigation controller installs itself, ahead of any
	// built-in handling.
	PriorityInterceptor = -100
	// PriorityDefault is the priority of the host's own input handling.
	PriorityDefault = 0
)

// ErrDuplicateHandler is returned by Install when the name is already registered.
var ErrDuplicateHandler = errors.New("handler already installed")

// Handler processes one event. It consumes the event by calling ev.SetHandled().
type Handler func(ev *Event)

// Registration identifies one installed handler.
type Registration struct {
	name string
	seq  uint64
}

// Name returns the name the handler was installed under.
func (r Registration) Name() string {
	return r.name
}

type entry struct {
	reg      Registration
	priority int
	handler  Handler
}

type dispatcherImpl struct {
	mu *sync.Mutex

	entries []entry
	nextSeq uint64
}

// Dispatcher delivers events to installed handlers in a deterministic order:
// ascending priority, then installation order.
type Dispatcher interface {
	// Install adds a handler.
	//
	// Parameters:
	//   - name: unique handler name
	//   - priority: lower runs first
	//   - handler: the handler function
	//
	// Returns:
	//   - Registration: handle for Uninstall
	//   - error: ErrDuplicateHandler if name is taken, or an error for a nil handler
	Install(name string, priority int, handler Handler) (Registration, error)

	// Uninstall removes a handler. Removing an unknown registration is a no-op.
	//
	// Parameters:
	//   - reg: the registration returned by Install
	//
	// Returns:
	//   - bool: true if a handler was removed
	Uninstall(reg Registration) bool

	// Dispatch runs handlers in order until one marks the event handled.
	//
	// Parameters:
	//   - ev: the event to deliver
	//
	// Returns:
	//   - bool: whether the event was handled
	Dispatch(ev *Event) bool

	// Handlers returns the installed handler names in dispatch order.
	//
	// Returns:
	//   - []string: handler names
	Handlers() []string
}

var _ Dispatcher = &dispatcherImpl{}

// NewDispatcher creates an empty Dispatcher.
//
// Returns:
//   - Dispatcher: the newly created dispatcher
func NewDispatcher() Dispatcher {
	return &dispatcherImpl{mu: &sync.Mutex{}}
}

func (d *dispatcherImpl) Install(name string, priority int, handler Handler) (Registration, error) {
	if handler == nil {
		return Registration{}, fmt.Errorf("failed to install %q: nil handler", name)
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, e := range d.entries {
		if e.reg.name == name {
			return Registration{}, fmt.Errorf("failed to install %q: %w", name, ErrDuplicateHandler)
		}
	}

	d.nextSeq++
	reg := Registration{name: name, seq: d.nextSeq}
	d.entries = append(d.entries, entry{reg: reg, priority: priority, handler: handler})
	sort.SliceStable(d.entries, func(i, j int) bool {
		return d.entries[i].priority < d.entries[j].priority
	})
	return reg, nil
}

func (d *dispatcherImpl) Uninstall(reg Registration) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i, e := range d.entries {
		if e.reg == reg {
			d.entries = append(d.entries[:i:i], d.entries[i+1:]...)
			return true
		}
	}
	return false
}

func (d *dispatcherImpl) Dispatch(ev *Event) bool {
	// Snapshot so handlers may install or uninstall while running.
	d.mu.Lock()
	handlers := make([]Handler, len(d.entries))
	for i, e := range d.entries {
		handlers[i] = e.handler
	}
	d.mu.Unlock()

	for _, h := range handlers {
		h(ev)
		if ev.Handled() {
			return true
		}
	}
	return false
}

func (d *dispatcherImpl) Handlers() []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	names := make([]string, len(d.entries))
	for i, e := range d.entries {
		names[i] = e.reg.name
	}
	return names
}
