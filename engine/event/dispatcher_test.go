package event

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/spacenav/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_OrderAndConsumption(t *testing.T) {
	d := NewDispatcher()
	var calls []string
	record := func(name string, consume bool) Handler {
		return func(ev *Event) {
			calls = append(calls, name)
			if consume {
				ev.SetHandled()
			}
		}
	}

	_, err := d.Install("builtin", PriorityDefault, record("builtin", true))
	require.NoError(t, err)
	_, err = d.Install("logger", PriorityDefault, record("logger", false))
	require.NoError(t, err)
	nav, err := d.Install("navigator", PriorityInterceptor, record("navigator", true))
	require.NoError(t, err)

	assert.Equal(t, []string{"navigator", "builtin", "logger"}, d.Handlers())

	ev := NewMotion(common.AxisSample{TX: 1})
	assert.True(t, d.Dispatch(ev))
	assert.Equal(t, []string{"navigator"}, calls)

	calls = nil
	assert.True(t, d.Uninstall(nav))
	assert.False(t, d.Uninstall(nav))
	assert.True(t, d.Dispatch(NewMotion(common.AxisSample{TX: 1})))
	assert.Equal(t, []string{"builtin"}, calls)
}

func TestDispatcher_Unhandled(t *testing.T) {
	d := NewDispatcher()
	seen := 0
	_, err := d.Install("watch", PriorityDefault, func(ev *Event) { seen++ })
	require.NoError(t, err)

	ev := NewButton(common.ButtonEvent{Index: 1, Pressed: true})
	assert.False(t, d.Dispatch(ev))
	assert.False(t, ev.Handled())
	assert.Equal(t, 1, seen)
	assert.Equal(t, "button", ev.Kind.String())
}

func TestDispatcher_InstallErrors(t *testing.T) {
	d := NewDispatcher()
	_, err := d.Install("a", 0, func(*Event) {})
	require.NoError(t, err)

	_, err = d.Install("a", 5, func(*Event) {})
	assert.True(t, errors.Is(err, ErrDuplicateHandler))

	_, err = d.Install("b", 0, nil)
	assert.Error(t, err)
	assert.Equal(t, []string{"a"}, d.Handlers())
}

func TestDispatcher_HandlerMayUninstallItself(t *testing.T) {
	d := NewDispatcher()
	var reg Registration
	reg, err := d.Install("once", PriorityDefault, func(ev *Event) {
		d.Uninstall(reg)
		ev.SetHandled()
	})
	require.NoError(t, err)

	assert.True(t, d.Dispatch(NewIdle()))
	assert.False(t, d.Dispatch(NewIdle()))
	assert.Empty(t, d.Handlers())
}
