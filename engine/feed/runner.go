package feed

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/Carmen-Shannon/spacenav/common"
)

const (
	defaultMinBackoff = 250 * time.Millisecond
	defaultMaxBackoff = 5 * time.Second
)

type runnerImpl struct {
	feed Feed
	sink Sink

	minBackoff time.Duration
	maxBackoff time.Duration
	onState    func(connected bool)
}

// Runner keeps a feed running: when the device goes away it waits and reconnects, doubling the
// wait up to a bound. Navigation stays active but idle in the meantime.
type Runner interface {
	// Run blocks until ctx is cancelled.
	//
	// Parameters:
	//   - ctx: stops the runner
	//
	// Returns:
	//   - error: nil on cancellation
	Run(ctx context.Context) error
}

var _ Runner = &runnerImpl{}

// NewRunner creates a Runner for feed publishing into sink.
//
// Parameters:
//   - feed: the feed to keep running
//   - sink: where the feed publishes
//   - options: functional options to configure the runner
//
// Returns:
//   - Runner: the newly created runner
func NewRunner(feed Feed, sink Sink, options ...RunnerBuilderOption) Runner {
	r := &runnerImpl{
		feed:       feed,
		sink:       sink,
		minBackoff: defaultMinBackoff,
		maxBackoff: defaultMaxBackoff,
	}
	for _, option := range options {
		option(r)
	}
	if r.maxBackoff < r.minBackoff {
		r.maxBackoff = r.minBackoff
	}
	return r
}

func (r *runnerImpl) Run(ctx context.Context) error {
	backoff := r.minBackoff
	for {
		sink := &runSink{Sink: r.sink, onUp: func() { r.setState(true) }}
		err := r.feed.Run(ctx, sink)
		upFor, wasUp := sink.close()
		if wasUp {
			r.setState(false)
		}

		if ctx.Err() != nil {
			return nil
		}
		if err == nil {
			err = errors.New("feed ended")
		}
		// A feed that stayed up for a while starts over with a short wait.
		if wasUp && upFor > r.maxBackoff {
			backoff = r.minBackoff
		}
		log.Printf("feed %s: %v, reconnecting in %s", r.feed.Name(), err, backoff)

		t := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil
		case <-t.C:
		}
		backoff = min(backoff*2, r.maxBackoff)
	}
}

func (r *runnerImpl) setState(connected bool) {
	if r.onState != nil {
		r.onState(connected)
	}
}

// runSink wraps the runner's sink for one feed run. The run counts as connected once the feed
// reports it or first publishes, and never after the run has returned.
type runSink struct {
	Sink
	onUp func()

	mu     sync.Mutex
	up     bool
	closed bool
	since  time.Time
}

func (s *runSink) Connected() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.up || s.closed {
		return
	}
	s.up, s.since = true, time.Now()
	s.onUp()
}

func (s *runSink) PublishSample(sample common.AxisSample) {
	s.Connected()
	s.Sink.PublishSample(sample)
}

func (s *runSink) PublishButton(button common.ButtonEvent) {
	s.Connected()
	s.Sink.PublishButton(button)
}

// close seals the run and reports how long it was connected.
func (s *runSink) close() (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if !s.up {
		return 0, false
	}
	return time.Since(s.since), true
}
