package feed

import "time"

type RunnerBuilderOption func(*runnerImpl)

// WithBackoff sets the reconnect wait bounds.
//
// Parameters:
//   - minWait: first wait after a disconnect
//   - maxWait: upper bound for the doubling wait
//
// Returns:
//   - RunnerBuilderOption: a function that sets the backoff bounds
func WithBackoff(minWait, maxWait time.Duration) RunnerBuilderOption {
	return func(r *runnerImpl) {
		if minWait > 0 {
			r.minBackoff = minWait
		}
		if maxWait > 0 {
			r.maxBackoff = maxWait
		}
	}
}

// WithStateCallback registers a function called with true once a run reaches its device and with
// false when that run ends. Attempts that fail to connect report nothing.
//
// Parameters:
//   - fn: the callback
//
// Returns:
//   - RunnerBuilderOption: a function that sets the state callback
func WithStateCallback(fn func(connected bool)) RunnerBuilderOption {
	return func(r *runnerImpl) {
		r.onState = fn
	}
}
