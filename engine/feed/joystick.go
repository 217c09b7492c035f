package feed

import "github.com/Carmen-Shannon/spacenav/common"

// JoystickMapper turns polled joystick state into samples and button edges. Platforms that expose
// a 6-DOF device as a generic joystick report six unit axes in the order tx, ty, tz, rx, ry, rz.
type JoystickMapper struct {
	axisRange float64
	pressed   []bool
}

// NewJoystickMapper creates a mapper scaling unit axes to axisRange, common.AxisRange when <= 0.
func NewJoystickMapper(axisRange float64) *JoystickMapper {
	if axisRange <= 0 {
		axisRange = common.AxisRange
	}
	return &JoystickMapper{axisRange: axisRange}
}

// Map publishes one poll: the scaled sample, then a button event for every button whose state
// changed since the previous poll. Buttons beyond common.MaxButtons are ignored.
//
// Parameters:
//   - axes: unit axis values in [-1, 1]
//   - buttons: current button states
//   - sink: the destination
func (m *JoystickMapper) Map(axes []float32, buttons []bool, sink Sink) {
	var a [6]float64
	for i := 0; i < len(a) && i < len(axes); i++ {
		a[i] = float64(axes[i]) * m.axisRange
	}
	sink.PublishSample(common.AxisSampleFromAxes(a))

	n := min(len(buttons), common.MaxButtons)
	if len(m.pressed) < n {
		m.pressed = append(m.pressed, make([]bool, n-len(m.pressed))...)
	}
	for i := range m.pressed {
		cur := i < n && buttons[i]
		if cur != m.pressed[i] {
			m.pressed[i] = cur
			sink.PublishButton(common.ButtonEvent{Index: i, Pressed: cur})
		}
	}
}
