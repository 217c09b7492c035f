package navigator

import (
	"github.com/Carmen-Shannon/spacenav/config"
	"github.com/Carmen-Shannon/spacenav/engine/event"
	"github.com/Carmen-Shannon/spacenav/engine/pivot"
)

type ControllerBuilderOption func(*controllerImpl)

// WithConfig sets the configuration copied into each new session.
//
// Parameters:
//   - cfg: the navigation configuration
//
// Returns:
//   - ControllerBuilderOption: a function that sets the controller's configuration
func WithConfig(cfg config.Config) ControllerBuilderOption {
	return func(c *controllerImpl) {
		c.cfg = cfg
	}
}

// WithDispatcher sets the event dispatcher the interceptor is installed on.
//
// Parameters:
//   - d: the host's event dispatcher
//
// Returns:
//   - ControllerBuilderOption: a function that sets the dispatcher
func WithDispatcher(d event.Dispatcher) ControllerBuilderOption {
	return func(c *controllerImpl) {
		c.dispatcher = d
	}
}

// WithButtonDispatcher sets the command table button events are forwarded to.
//
// Parameters:
//   - b: the host's command table
//
// Returns:
//   - ControllerBuilderOption: a function that sets the button dispatcher
func WithButtonDispatcher(b ButtonDispatcher) ControllerBuilderOption {
	return func(c *controllerImpl) {
		c.buttons = b
	}
}

// WithMarkerSink sets where pivot marker updates go.
//
// Parameters:
//   - sink: the marker sink
//
// Returns:
//   - ControllerBuilderOption: a function that sets the marker sink
func WithMarkerSink(sink pivot.MarkerSink) ControllerBuilderOption {
	return func(c *controllerImpl) {
		c.marker = sink
	}
}
