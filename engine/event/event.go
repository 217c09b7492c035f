// Package event carries raw device input through an ordered chain of handlers.
//
// Every raw sample or button press becomes one Event. Handlers run in priority order and the first
// one to mark the event handled consumes it, so no two consumers ever act on the same sample.
package event

import (
	"github.com/Carmen-Shannon/spacenav/common"
)

// Kind identifies what an Event carries.
type Kind int

const (
	// KindMotion carries one raw axis sample.
	KindMotion Kind = iota
	// KindButton carries one button press or release.
	KindButton
	// KindIdle marks a tick that delivered no sample.
	KindIdle
)

func (k Kind) String() string {
	switch k {
	case KindMotion:
		return "motion"
	case KindButton:
		return "button"
	case KindIdle:
		return "idle"
	}
	return "unknown"
}

// Event is one raw input event on its way through the dispatcher.
type Event struct {
	Kind   Kind
	Sample common.AxisSample
	Button common.ButtonEvent

	handled bool
}

// NewMotion wraps a raw axis sample.
func NewMotion(sample common.AxisSample) *Event {
	return &Event{Kind: KindMotion, Sample: sample}
}

// NewButton wraps a button event.
func NewButton(button common.ButtonEvent) *Event {
	return &Event{Kind: KindButton, Button: button}
}

// NewIdle creates the event for a tick without input.
func NewIdle() *Event {
	return &Event{Kind: KindIdle}
}

// SetHandled marks the event as fully consumed. Handlers after the current one will not see it.
func (e *Event) SetHandled() {
	e.handled = true
}

// Handled reports whether a handler consumed the event.
func (e *Event) Handled() bool {
	return e.handled
}
