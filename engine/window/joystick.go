package window

import (
	"log"

	"github.com/Carmen-Shannon/spacenav/engine/feed"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// JoystickFeed reads a 6-DOF device that the platform exposes as a GLFW joystick. GLFW only
// allows joystick queries on the main thread, so Poll is called from the window's update callback
// instead of running on a goroutine like the other feeds.
type JoystickFeed struct {
	joy     glfw.Joystick
	mapper  *feed.JoystickMapper
	sink    feed.Sink
	present bool
}

// NewJoystickFeed creates a poller for joystick slot index (0 based).
//
// Parameters:
//   - index: the GLFW joystick slot
//   - axisRange: full-scale value unit axes are scaled to
//   - sink: where samples and button edges go
//
// Returns:
//   - *JoystickFeed: the poller
func NewJoystickFeed(index int, axisRange float64, sink feed.Sink) *JoystickFeed {
	return &JoystickFeed{
		joy:    glfw.Joystick1 + glfw.Joystick(index),
		mapper: feed.NewJoystickMapper(axisRange),
		sink:   sink,
	}
}

// Poll reads the joystick once. A device that goes away is logged once and picked up again when
// it returns.
func (j *JoystickFeed) Poll() {
	if !j.joy.Present() {
		if j.present {
			log.Printf("feed joystick:%d: device disconnected", j.joy)
			j.present = false
		}
		return
	}
	if !j.present {
		log.Printf("feed joystick:%d: using %q", j.joy, j.joy.GetName())
		j.present = true
	}

	actions := j.joy.GetButtons()
	buttons := make([]bool, len(actions))
	for i, a := range actions {
		buttons[i] = a == glfw.Press
	}
	j.mapper.Map(j.joy.GetAxes(), buttons, j.sink)
}
