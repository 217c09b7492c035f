package pivot

import (
	"github.com/Carmen-Shannon/spacenav/common"
)

const (
	markerDistanceRatio = 0.025
	markerMinScale      = 0.3
)

// Marker is the on-screen indicator for the current pivot: a three-axis cross centered on the pivot.
type Marker struct {
	Center  common.Vec3 `json:"center"`
	Scale   float64     `json:"scale"`
	Visible bool        `json:"visible"`
}

// Segment is one line of the marker cross.
type Segment struct {
	From, To common.Vec3
}

// MarkerFor sizes a visible marker at pivot so it stays roughly constant on screen from cameraPos.
//
// Parameters:
//   - pivot: the resolved pivot
//   - cameraPos: the camera position
//
// Returns:
//   - Marker: the marker
func MarkerFor(pivot, cameraPos common.Vec3) Marker {
	return Marker{
		Center:  pivot,
		Scale:   max(common.Distance(pivot, cameraPos)*markerDistanceRatio, markerMinScale),
		Visible: true,
	}
}

// Lines returns the three axis-aligned segments of the cross, or nil for a hidden marker.
func (m Marker) Lines() []Segment {
	if !m.Visible {
		return nil
	}
	lines := make([]Segment, 0, 3)
	for axis := 0; axis < 3; axis++ {
		var d common.Vec3
		d[axis] = m.Scale
		lines = append(lines, Segment{
			From: common.Sub(m.Center, d),
			To:   common.Add(m.Center, d),
		})
	}
	return lines
}

// MarkerSink receives marker updates from the navigation controller. Drawing is up to the host.
type MarkerSink interface {
	// ShowMarker displays or moves the marker.
	ShowMarker(m Marker)
	// HideMarker removes the marker.
	HideMarker()
}
