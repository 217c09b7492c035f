// Package feed reads 6-DOF input from devices and hands it to the navigation loop.
//
// Feeds run on their own goroutines and publish into a Sink. The Slot sink coalesces motion to the
// latest sample and queues button transitions, so the single-threaded loop only ever sees the
// freshest reading.
package feed

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/Carmen-Shannon/spacenav/common"
)

// ErrSkipLine marks input lines that carry no message, such as blanks and comments.
var ErrSkipLine = errors.New("line carries no message")

// Sink receives input from a feed. Implementations must be safe for concurrent use.
type Sink interface {
	// PublishSample offers the latest raw axis reading.
	PublishSample(sample common.AxisSample)
	// PublishButton queues a button transition.
	PublishButton(button common.ButtonEvent)
}

// connectNotifier is implemented by sinks that track when a feed has reached its device.
type connectNotifier interface {
	Connected()
}

// notifyConnected tells sink the feed is connected, if sink cares.
func notifyConnected(sink Sink) {
	if n, ok := sink.(connectNotifier); ok {
		n.Connected()
	}
}

// Feed is one input source.
type Feed interface {
	// Name identifies the feed in logs.
	Name() string

	// Run reads from the device until ctx is cancelled or the device goes away.
	//
	// Parameters:
	//   - ctx: cancels the read loop
	//   - sink: receives samples and button events
	//
	// Returns:
	//   - error: ctx.Err() on cancellation, otherwise the reason the device was lost
	Run(ctx context.Context, sink Sink) error
}

// MessageKind identifies a decoded wire message.
type MessageKind int

const (
	MessageMotion MessageKind = iota
	MessageButton
)

// Message is one decoded input message from a line or JSON protocol.
type Message struct {
	Kind   MessageKind
	Sample common.AxisSample
	Button common.ButtonEvent
}

// deliver forwards a decoded message to the sink.
func deliver(sink Sink, m Message) {
	switch m.Kind {
	case MessageMotion:
		sink.PublishSample(m.Sample)
	case MessageButton:
		sink.PublishButton(m.Button)
	}
}

// validAxes rejects samples carrying NaN or infinite axis values.
func validAxes(axes [6]float64) error {
	for i, v := range axes {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("axis %d: non-finite value %v", i, v)
		}
	}
	return nil
}

// validButton checks a logical button index.
func validButton(index int) error {
	if index < 0 || index >= common.MaxButtons {
		return fmt.Errorf("button index %d outside [0, %d)", index, common.MaxButtons)
	}
	return nil
}
