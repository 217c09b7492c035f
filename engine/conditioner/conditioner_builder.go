package conditioner

import (
	"github.com/Carmen-Shannon/spacenav/config"
)

type ConditionerBuilderOption func(*conditionerImpl)

// WithSettings sets the navigation parameters. The value is normalized on a copy, the caller's
// struct is left untouched.
//
// Parameters:
//   - cfg: navigation parameters
//
// Returns:
//   - ConditionerBuilderOption: a function that sets the conditioner's settings
func WithSettings(cfg config.Config) ConditionerBuilderOption {
	return func(c *conditionerImpl) {
		cfg.Normalize()
		c.cfg = cfg
	}
}

// WithState seeds the filter state, used to resume a filter or to test decay.
//
// Parameters:
//   - state: the initial filter state
//
// Returns:
//   - ConditionerBuilderOption: a function that sets the initial state
func WithState(state FilterState) ConditionerBuilderOption {
	return func(c *conditionerImpl) {
		c.state = state
	}
}
