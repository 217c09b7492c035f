// Package common contains the plain data types shared by every navigation component. They are not interface-wrapped structs,
// just values that are produced once, handed on and consumed.
package common

import "math"

// AxisRange is the nominal full-scale magnitude reported by spacenavd-class devices on each axis.
const AxisRange = 350.0

// AxisSample is one instantaneous reading of all six device axes.
// Values express displacement or twist intensity, not absolute position.
type AxisSample struct {
	// TX, TY, TZ are the translation axes: pan right, pan up, zoom in.
	TX, TY, TZ float64
	// RX, RY, RZ are the rotation axes, as a camera-local rotation vector.
	RX, RY, RZ float64
}

// AxisSampleFromAxes builds a sample from the ordered array (tx, ty, tz, rx, ry, rz).
func AxisSampleFromAxes(a [6]float64) AxisSample {
	return AxisSample{TX: a[0], TY: a[1], TZ: a[2], RX: a[3], RY: a[4], RZ: a[5]}
}

// Axes returns the sample as the ordered array (tx, ty, tz, rx, ry, rz).
func (s AxisSample) Axes() [6]float64 {
	return [6]float64{s.TX, s.TY, s.TZ, s.RX, s.RY, s.RZ}
}

// Translation returns the translation axes as a vector.
func (s AxisSample) Translation() Vec3 {
	return Vec3{s.TX, s.TY, s.TZ}
}

// Rotation returns the rotation axes as a camera-local rotation vector.
func (s AxisSample) Rotation() Vec3 {
	return Vec3{s.RX, s.RY, s.RZ}
}

// Magnitude returns the sum of absolute values over all six axes.
func (s AxisSample) Magnitude() float64 {
	var sum float64
	for _, v := range s.Axes() {
		sum += math.Abs(v)
	}
	return sum
}

// IsZero reports whether every axis is exactly zero.
func (s AxisSample) IsZero() bool {
	return s == AxisSample{}
}

// ButtonEvent is a discrete press or release of a device button, already mapped to its logical index.
type ButtonEvent struct {
	Index   int  `json:"index"`
	Pressed bool `json:"pressed"`
}
