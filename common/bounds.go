package common

import (
	"math"
)

// BoundingBox is an axis-aligned box in world space.
// A box whose Min exceeds its Max on any axis is empty; EmptyBox returns the canonical empty box.
type BoundingBox struct {
	Min Vec3
	Max Vec3
}

// EmptyBox returns a box that contains nothing and absorbs the first point or box it is extended with.
func EmptyBox() BoundingBox {
	inf := math.Inf(1)
	return BoundingBox{
		Min: Vec3{inf, inf, inf},
		Max: Vec3{-inf, -inf, -inf},
	}
}

// NewBoundingBox returns the box spanning the two corners in any order.
func NewBoundingBox(a, b Vec3) BoundingBox {
	return BoundingBox{
		Min: Vec3{math.Min(a[0], b[0]), math.Min(a[1], b[1]), math.Min(a[2], b[2])},
		Max: Vec3{math.Max(a[0], b[0]), math.Max(a[1], b[1]), math.Max(a[2], b[2])},
	}
}

// Empty reports whether the box contains no points.
func (b BoundingBox) Empty() bool {
	return b.Min[0] > b.Max[0] || b.Min[1] > b.Max[1] || b.Min[2] > b.Max[2]
}

// Extent returns the box size along each axis. An empty box has zero extent.
func (b BoundingBox) Extent() Vec3 {
	if b.Empty() {
		return Vec3{}
	}
	return Sub(b.Max, b.Min)
}

// Degenerate reports whether no axis extent is strictly positive.
// Single points, and the zero-volume leftovers some selections produce, are degenerate.
func (b BoundingBox) Degenerate() bool {
	e := b.Extent()
	return e[0] <= 0 && e[1] <= 0 && e[2] <= 0
}

// Center returns the midpoint of the box. The result is meaningless for an empty box.
func (b BoundingBox) Center() Vec3 {
	return Vec3{
		(b.Min[0] + b.Max[0]) / 2,
		(b.Min[1] + b.Max[1]) / 2,
		(b.Min[2] + b.Max[2]) / 2,
	}
}

// Diagonal returns the length of the box diagonal, 0 for an empty box.
func (b BoundingBox) Diagonal() float64 {
	return Length(b.Extent())
}

// Extend returns the smallest box containing both b and the point p.
func (b BoundingBox) Extend(p Vec3) BoundingBox {
	return BoundingBox{
		Min: Vec3{math.Min(b.Min[0], p[0]), math.Min(b.Min[1], p[1]), math.Min(b.Min[2], p[2])},
		Max: Vec3{math.Max(b.Max[0], p[0]), math.Max(b.Max[1], p[1]), math.Max(b.Max[2], p[2])},
	}
}

// Union returns the smallest box containing both b and o. Empty operands are ignored.
//
// Parameters:
//   - o: the box to merge into b
//
// Returns:
//   - BoundingBox: the merged box
func (b BoundingBox) Union(o BoundingBox) BoundingBox {
	if o.Empty() {
		return b
	}
	if b.Empty() {
		return o
	}
	return b.Extend(o.Min).Extend(o.Max)
}
