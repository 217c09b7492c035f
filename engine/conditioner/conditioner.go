// Package conditioner turns raw 6-DOF device samples into smoothed, arbitrated motion.
//
// The stages are pure functions (Condition, Decay) over an explicit FilterState. Conditioner wraps
// them with the state of one navigation session.
package conditioner

import (
	"sync"

	"github.com/Carmen-Shannon/spacenav/common"
	"github.com/Carmen-Shannon/spacenav/config"
)

type conditionerImpl struct {
	mu *sync.Mutex

	cfg   config.Config
	state FilterState
	last  Output
}

// Conditioner owns the filter state of one navigation session.
type Conditioner interface {
	// Condition feeds one raw sample through the filter.
	//
	// Parameters:
	//   - raw: the device sample for this tick
	//
	// Returns:
	//   - Output: the conditioned sample and motion flag
	Condition(raw common.AxisSample) Output

	// Decay runs the idle pass for a tick that carried no raw sample.
	//
	// Returns:
	//   - Output: residual motion while the filter settles
	Decay() Output

	// Reset zeroes the filter state.
	Reset()

	// State returns a copy of the current filter state.
	//
	// Returns:
	//   - FilterState: the running smoothed values
	State() FilterState

	// Last returns the output of the most recent Condition or Decay call.
	//
	// Returns:
	//   - Output: the last output
	Last() Output

	// Settings returns the navigation parameters the conditioner runs with.
	//
	// Returns:
	//   - config.Config: the settings
	Settings() config.Config
}

var _ Conditioner = &conditionerImpl{}

// NewConditioner creates a Conditioner with a zeroed filter state and default settings.
//
// Parameters:
//   - options: functional options to configure the conditioner
//
// Returns:
//   - Conditioner: the newly created conditioner
func NewConditioner(options ...ConditionerBuilderOption) Conditioner {
	c := &conditionerImpl{
		mu:  &sync.Mutex{},
		cfg: config.Default(),
	}
	for _, option := range options {
		option(c)
	}
	return c
}

func (c *conditionerImpl) Condition(raw common.AxisSample) Output {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.last, c.state = Condition(raw, c.state, c.cfg)
	return c.last
}

func (c *conditionerImpl) Decay() Output {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.last, c.state = Decay(c.state, c.cfg)
	return c.last
}

func (c *conditionerImpl) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = FilterState{}
	c.last = Output{}
}

func (c *conditionerImpl) State() FilterState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *conditionerImpl) Last() Output {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

func (c *conditionerImpl) Settings() config.Config {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg
}
