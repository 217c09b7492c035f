// Package monitor is a terminal view of a live device feed: raw and conditioned axes, buttons and
// feed counters.
package monitor

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Carmen-Shannon/spacenav/common"
	"github.com/Carmen-Shannon/spacenav/engine/conditioner"
	"github.com/Carmen-Shannon/spacenav/engine/feed"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const barWidth = 24

var axisNames = [6]string{"TX", "TY", "TZ", "RX", "RY", "RZ"}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle   = lipgloss.NewStyle().Width(4).Foreground(lipgloss.Color("8"))
	barStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	idleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	pressedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// TickMsg asks the model to drain the slot.
type TickMsg time.Time

// StateMsg reports a feed connection change.
type StateMsg bool

// ErrMsg reports a fatal feed error.
type ErrMsg struct{ Err error }

// Model is the bubbletea model of the monitor.
type Model struct {
	name     string
	slot     *feed.Slot
	cond     conditioner.Conditioner
	interval time.Duration
	scale    float64

	raw       common.AxisSample
	out       conditioner.Output
	buttons   [common.MaxButtons]bool
	lastPress int
	connected bool
	err       error
	stats     feed.SlotStats
}

// NewModel creates a monitor for the samples arriving in slot.
//
// Parameters:
//   - name: the feed name shown in the title
//   - slot: the slot the feed publishes into
//   - cond: conditions each raw sample; nil shows raw values only
//   - interval: the refresh interval
//   - axisRange: the full-scale value the bars are drawn against
//
// Returns:
//   - Model: the model
func NewModel(name string, slot *feed.Slot, cond conditioner.Conditioner, interval time.Duration, axisRange float64) Model {
	if interval <= 0 {
		interval = 16 * time.Millisecond
	}
	if axisRange <= 0 {
		axisRange = common.AxisRange
	}
	return Model{name: name, slot: slot, cond: cond, interval: interval, scale: axisRange, lastPress: -1}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Init implements tea.Model interface.
func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update implements tea.Model interface.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyRunes:
			if string(msg.Runes) == "q" {
				return m, tea.Quit
			}
			if string(msg.Runes) == "r" && m.cond != nil {
				m.cond.Reset()
				m.out = conditioner.Output{}
			}
		}
	case StateMsg:
		m.connected = bool(msg)
	case ErrMsg:
		m.err = msg.Err
	case TickMsg:
		m.drain()
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) drain() {
	sample, ok, buttons := m.slot.Take()
	for _, b := range buttons {
		if b.Index >= 0 && b.Index < common.MaxButtons {
			m.buttons[b.Index] = b.Pressed
			if b.Pressed {
				m.lastPress = b.Index
			}
		}
	}
	if ok {
		m.raw = sample
		if m.cond != nil {
			m.out = m.cond.Condition(sample)
		}
	} else if m.cond != nil {
		m.out = m.cond.Decay()
	}
	m.stats = m.slot.Stats()
}

// View implements tea.Model interface.
func (m Model) View() string {
	var b strings.Builder

	status := idleStyle.Render("waiting")
	if m.connected {
		status = barStyle.Render("connected")
	}
	b.WriteString(titleStyle.Render("spacenav monitor: "+m.name) + "  " + status + "\n\n")

	raw := m.raw.Axes()
	cooked := m.out.Sample.Axes()
	for i, name := range axisNames {
		b.WriteString(labelStyle.Render(name))
		b.WriteString(Bar(raw[i], m.scale, barWidth))
		b.WriteString(fmt.Sprintf(" %7.1f  ", raw[i]))
		if m.cond != nil {
			b.WriteString(Bar(cooked[i], m.scale, barWidth))
			b.WriteString(fmt.Sprintf(" %7.1f", cooked[i]))
		}
		b.WriteString("\n")
	}

	b.WriteString("\nbuttons ")
	for i, down := range m.buttons {
		label := fmt.Sprintf("%X", i)
		if down {
			b.WriteString(pressedStyle.Render(label))
		} else {
			b.WriteString(idleStyle.Render(label))
		}
	}
	if m.lastPress >= 0 {
		b.WriteString(fmt.Sprintf("  last: %d", m.lastPress))
	}

	motion := "rest"
	if m.out.Motion {
		motion = "motion"
	}
	b.WriteString(fmt.Sprintf("\n%s  samples %d  coalesced %d  buttons %d  dropped %d\n",
		motion, m.stats.Samples, m.stats.Coalesced, m.stats.Buttons, m.stats.Dropped))

	if m.err != nil {
		b.WriteString(errorStyle.Render("error: "+m.err.Error()) + "\n")
	}
	b.WriteString("\n(r to reset the filter, q to quit)")
	return b.String()
}

// Bar draws v as a centred horizontal bar of width cells against full scale.
//
// Parameters:
//   - v: the value
//   - scale: the full-scale magnitude
//   - width: the bar width in cells
//
// Returns:
//   - string: the bar
func Bar(v, scale float64, width int) string {
	half := width / 2
	n := int(math.Round(common.Clamp(math.Abs(v)/scale, 0, 1) * float64(half)))
	left := strings.Repeat(" ", half)
	right := strings.Repeat(" ", half)
	if v < 0 {
		left = strings.Repeat(" ", half-n) + strings.Repeat("=", n)
	} else {
		right = strings.Repeat("=", n) + strings.Repeat(" ", half-n)
	}
	return "[" + left + "|" + right + "]"
}
