package profiler

import "time"

type ProfilerBuilderOption func(*Profiler)

// WithInterval sets how often stats are logged.
//
// Parameters:
//   - d: the interval, ignored when <= 0
//
// Returns:
//   - ProfilerBuilderOption: a function that sets the interval
func WithInterval(d time.Duration) ProfilerBuilderOption {
	return func(p *Profiler) {
		if d > 0 {
			p.updateInterval = d
		}
	}
}

// WithStatsSource appends the returned text to every stats line.
//
// Parameters:
//   - source: called on the ticking goroutine each time stats are logged
//
// Returns:
//   - ProfilerBuilderOption: a function that sets the stats source
func WithStatsSource(source func() string) ProfilerBuilderOption {
	return func(p *Profiler) {
		p.source = source
	}
}

// WithLogger replaces log.Printf as the output.
func WithLogger(logf func(format string, args ...any)) ProfilerBuilderOption {
	return func(p *Profiler) {
		if logf != nil {
			p.logf = logf
		}
	}
}
