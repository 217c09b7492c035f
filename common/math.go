package common

import (
	"math"

	"golang.org/x/image/math/f64"
)

// Vec3 is a three-component vector in world or camera space.
type Vec3 = f64.Vec3

// Quat is a rotation quaternion stored as (x, y, z, w).
// Products follow the Hamilton convention with column vectors: QuatMul(a, b) applies b first.
type Quat = f64.Vec4

// Camera-local basis vectors. The camera looks down -Z with +Y up.
var (
	AxisRight   = Vec3{1, 0, 0}
	AxisUp      = Vec3{0, 1, 0}
	AxisForward = Vec3{0, 0, -1}
	AxisRoll    = Vec3{0, 0, 1}
)

// Add returns a + b.
func Add(a, b Vec3) Vec3 {
	return Vec3{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

// Sub returns a - b.
func Sub(a, b Vec3) Vec3 {
	return Vec3{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

// Scale returns v multiplied by s.
func Scale(v Vec3, s float64) Vec3 {
	return Vec3{v[0] * s, v[1] * s, v[2] * s}
}

// Dot returns the dot product of a and b.
func Dot(a, b Vec3) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

// Cross returns the cross product a × b.
func Cross(a, b Vec3) Vec3 {
	return Vec3{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

// Length returns the Euclidean length of v.
func Length(v Vec3) float64 {
	return math.Sqrt(Dot(v, v))
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Vec3) float64 {
	return Length(Sub(a, b))
}

// Normalize returns v scaled to unit length.
// A vector shorter than 1e-12 is returned unchanged, mirroring LookAt's guard against zero-length axes.
//
// Parameters:
//   - v: the vector to normalize
//
// Returns:
//   - Vec3: the unit vector, or v if it has no usable direction
func Normalize(v Vec3) Vec3 {
	l := Length(v)
	if l < 1e-12 {
		return v
	}
	return Scale(v, 1/l)
}

// QuatIdentity returns the rotation that leaves every vector unchanged.
func QuatIdentity() Quat {
	return Quat{0, 0, 0, 1}
}

// QuatFromAxisAngle builds a unit quaternion rotating by angle radians around axis.
// The axis is normalized first; a zero axis yields the identity.
//
// Parameters:
//   - axis: rotation axis (any length)
//   - angle: rotation angle in radians, right-handed
//
// Returns:
//   - Quat: the rotation quaternion
func QuatFromAxisAngle(axis Vec3, angle float64) Quat {
	l := Length(axis)
	if l < 1e-12 {
		return QuatIdentity()
	}
	s := math.Sin(angle/2) / l
	return Quat{axis[0] * s, axis[1] * s, axis[2] * s, math.Cos(angle / 2)}
}

// QuatMul returns the Hamilton product a * b, the rotation that applies b and then a.
func QuatMul(a, b Quat) Quat {
	return Quat{
		a[3]*b[0] + a[0]*b[3] + a[1]*b[2] - a[2]*b[1],
		a[3]*b[1] - a[0]*b[2] + a[1]*b[3] + a[2]*b[0],
		a[3]*b[2] + a[0]*b[1] - a[1]*b[0] + a[2]*b[3],
		a[3]*b[3] - a[0]*b[0] - a[1]*b[1] - a[2]*b[2],
	}
}

// QuatInverse returns the inverse rotation of q.
// For a zero quaternion the identity is returned.
func QuatInverse(q Quat) Quat {
	n := q[0]*q[0] + q[1]*q[1] + q[2]*q[2] + q[3]*q[3]
	if n < 1e-24 {
		return QuatIdentity()
	}
	return Quat{-q[0] / n, -q[1] / n, -q[2] / n, q[3] / n}
}

// QuatNormalize rescales q to unit length so repeated composition does not drift.
func QuatNormalize(q Quat) Quat {
	n := math.Sqrt(q[0]*q[0] + q[1]*q[1] + q[2]*q[2] + q[3]*q[3])
	if n < 1e-12 {
		return QuatIdentity()
	}
	return Quat{q[0] / n, q[1] / n, q[2] / n, q[3] / n}
}

// QuatRotate rotates v by the unit quaternion q.
//
// Parameters:
//   - q: unit rotation quaternion
//   - v: vector to rotate
//
// Returns:
//   - Vec3: the rotated vector
func QuatRotate(q Quat, v Vec3) Vec3 {
	u := Vec3{q[0], q[1], q[2]}
	t := Scale(Cross(u, v), 2)
	return Add(Add(v, Scale(t, q[3])), Cross(u, t))
}

// QuatAngle returns the rotation angle of the unit quaternion q in radians, in [0, π].
func QuatAngle(q Quat) float64 {
	w := math.Abs(q[3])
	if w > 1 {
		w = 1
	}
	return 2 * math.Acos(w)
}

// LookRotation returns the orientation whose forward (-Z) axis points along forward and whose
// up axis is as close to up as possible. The basis is built the same way LookAt builds its
// view matrix; a forward parallel to up falls back to the world Z axis as the up hint.
//
// Parameters:
//   - forward: desired viewing direction (any length)
//   - up: up hint, typically (0, 1, 0)
//
// Returns:
//   - Quat: the orientation quaternion
func LookRotation(forward, up Vec3) Quat {
	z := Normalize(Scale(forward, -1))
	x := Cross(up, z)
	if Length(x) < 1e-9 {
		x = Cross(Vec3{0, 0, 1}, z)
	}
	x = Normalize(x)
	y := Cross(z, x)

	// Columns of the rotation matrix are the camera basis vectors.
	r00, r01, r02 := x[0], y[0], z[0]
	r10, r11, r12 := x[1], y[1], z[1]
	r20, r21, r22 := x[2], y[2], z[2]

	trace := r00 + r11 + r22
	var q Quat
	switch {
	case trace > 0:
		s := math.Sqrt(trace+1.0) * 2
		q = Quat{(r21 - r12) / s, (r02 - r20) / s, (r10 - r01) / s, 0.25 * s}
	case r00 > r11 && r00 > r22:
		s := math.Sqrt(1.0+r00-r11-r22) * 2
		q = Quat{0.25 * s, (r01 + r10) / s, (r02 + r20) / s, (r21 - r12) / s}
	case r11 > r22:
		s := math.Sqrt(1.0+r11-r00-r22) * 2
		q = Quat{(r01 + r10) / s, 0.25 * s, (r12 + r21) / s, (r02 - r20) / s}
	default:
		s := math.Sqrt(1.0+r22-r00-r11) * 2
		q = Quat{(r02 + r20) / s, (r12 + r21) / s, 0.25 * s, (r10 - r01) / s}
	}
	return QuatNormalize(q)
}
