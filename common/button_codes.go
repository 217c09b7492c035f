package common

import (
	"fmt"
	"sort"
)

// MaxButtons is the number of logical button slots a command table can address.
const MaxButtons = 16

// ButtonCode is the raw button identifier reported by a device or driver.
type ButtonCode int

// Raw codes reported by spacenavd for the common SpaceMouse models.
// Two-button devices (SpaceNavigator, SpaceMouse Compact) only report the first two.
const (
	ButtonLeft  ButtonCode = 0 // left side button / "1"
	ButtonRight ButtonCode = 1 // right side button / "2"

	ButtonMenu   ButtonCode = 0  // SpaceMouse Pro: Menu
	ButtonFit    ButtonCode = 1  // SpaceMouse Pro: Fit
	ButtonTop    ButtonCode = 2  // SpaceMouse Pro: T
	ButtonRView  ButtonCode = 4  // SpaceMouse Pro: R
	ButtonFront  ButtonCode = 5  // SpaceMouse Pro: F
	ButtonRoll   ButtonCode = 8  // SpaceMouse Pro: rotate view 90°
	ButtonOne    ButtonCode = 12 // SpaceMouse Pro: 1
	ButtonTwo    ButtonCode = 13 // SpaceMouse Pro: 2
	ButtonThree  ButtonCode = 14 // SpaceMouse Pro: 3
	ButtonFour   ButtonCode = 15 // SpaceMouse Pro: 4
	ButtonEsc    ButtonCode = 22 // SpaceMouse Pro: Esc
	ButtonAlt    ButtonCode = 23 // SpaceMouse Pro: Alt
	ButtonShift  ButtonCode = 24 // SpaceMouse Pro: Shift
	ButtonCtrl   ButtonCode = 25 // SpaceMouse Pro: Ctrl
	ButtonRotate ButtonCode = 26 // SpaceMouse Pro: rotation lock
)

// ButtonMap translates raw device codes into logical command-table indices.
type ButtonMap map[ButtonCode]int

// DefaultButtonMap maps two-button devices to logical slots 0 and 1.
func DefaultButtonMap() ButtonMap {
	return ButtonMap{
		ButtonLeft:  0,
		ButtonRight: 1,
	}
}

// ProButtonMap maps the SpaceMouse Pro keys onto consecutive logical slots.
func ProButtonMap() ButtonMap {
	return ButtonMap{
		ButtonMenu:   0,
		ButtonFit:    1,
		ButtonTop:    2,
		ButtonRView:  3,
		ButtonFront:  4,
		ButtonRoll:   5,
		ButtonOne:    6,
		ButtonTwo:    7,
		ButtonThree:  8,
		ButtonFour:   9,
		ButtonEsc:    10,
		ButtonAlt:    11,
		ButtonShift:  12,
		ButtonCtrl:   13,
		ButtonRotate: 14,
	}
}

// Lookup returns the logical index for code and whether the code is mapped.
func (m ButtonMap) Lookup(code ButtonCode) (int, bool) {
	idx, ok := m[code]
	return idx, ok
}

// Validate checks the map at startup: codes must be non-negative, indices must fall inside
// [0, MaxButtons) and no two codes may share an index.
//
// Returns:
//   - error: the first problem found, or nil
func (m ButtonMap) Validate() error {
	codes := make([]int, 0, len(m))
	for c := range m {
		codes = append(codes, int(c))
	}
	sort.Ints(codes)

	seen := make(map[int]ButtonCode, len(m))
	for _, c := range codes {
		code := ButtonCode(c)
		idx := m[code]
		if code < 0 {
			return fmt.Errorf("button code %d is negative", code)
		}
		if idx < 0 || idx >= MaxButtons {
			return fmt.Errorf("button code %d maps to index %d outside [0, %d)", code, idx, MaxButtons)
		}
		if prev, dup := seen[idx]; dup {
			return fmt.Errorf("button codes %d and %d both map to index %d", prev, code, idx)
		}
		seen[idx] = code
	}
	return nil
}
