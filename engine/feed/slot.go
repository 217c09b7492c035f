package feed

import (
	"sync"

	"github.com/Carmen-Shannon/spacenav/common"
)

// DefaultButtonQueue is the button backlog a Slot keeps when no size is given.
const DefaultButtonQueue = 32

// SlotStats counts what a Slot absorbed.
type SlotStats struct {
	Samples   uint64 `json:"samples"`
	Coalesced uint64 `json:"coalesced"`
	Buttons   uint64 `json:"buttons"`
	Dropped   uint64 `json:"dropped"`
}

// Slot is the handoff between feed goroutines and the navigation loop. Only the newest sample
// survives between two Takes; button transitions queue in order up to a bound, the oldest are
// dropped first.
type Slot struct {
	mu *sync.Mutex

	sample    common.AxisSample
	hasSample bool
	buttons   []common.ButtonEvent
	maxQueue  int
	stats     SlotStats

	notify chan struct{}
}

var _ Sink = &Slot{}

// NewSlot creates an empty Slot.
//
// Parameters:
//   - maxButtons: button queue bound, DefaultButtonQueue when <= 0
//
// Returns:
//   - *Slot: the slot
func NewSlot(maxButtons int) *Slot {
	if maxButtons <= 0 {
		maxButtons = DefaultButtonQueue
	}
	return &Slot{
		mu:       &sync.Mutex{},
		maxQueue: maxButtons,
		notify:   make(chan struct{}, 1),
	}
}

func (s *Slot) PublishSample(sample common.AxisSample) {
	s.mu.Lock()
	if s.hasSample {
		s.stats.Coalesced++
	}
	s.sample = sample
	s.hasSample = true
	s.stats.Samples++
	s.mu.Unlock()
	s.wake()
}

func (s *Slot) PublishButton(button common.ButtonEvent) {
	s.mu.Lock()
	if len(s.buttons) >= s.maxQueue {
		s.buttons = s.buttons[1:]
		s.stats.Dropped++
	}
	s.buttons = append(s.buttons, button)
	s.stats.Buttons++
	s.mu.Unlock()
	s.wake()
}

// Take drains the slot.
//
// Returns:
//   - common.AxisSample: the newest sample
//   - bool: whether a sample arrived since the last Take
//   - []common.ButtonEvent: queued button transitions, oldest first
func (s *Slot) Take() (common.AxisSample, bool, []common.ButtonEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sample, ok := s.sample, s.hasSample
	buttons := s.buttons
	s.sample = common.AxisSample{}
	s.hasSample = false
	s.buttons = nil
	return sample, ok, buttons
}

// Stats returns the slot counters.
func (s *Slot) Stats() SlotStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// Notify returns a channel that receives after new input arrives. Wakeups coalesce.
func (s *Slot) Notify() <-chan struct{} {
	return s.notify
}

func (s *Slot) wake() {
	select {
	case s.notify <- struct{}{}:
	default:
	}
}
