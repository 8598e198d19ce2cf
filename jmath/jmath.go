// Package jmath contains the small amount of vector math shared by the
// encoder and the renderer.
package jmath

import (
	"math"
	"math/bits"

	"golang.org/x/exp/constraints"
	"honnef.co/go/curve"
)

func Abs32(f float32) float32 {
	return float32(math.Abs(float64(f)))
}

type Vec2 struct {
	X float32
	Y float32
}

func Vec(x, y float32) Vec2 {
	return Vec2{X: x, Y: y}
}

func (v Vec2) Add(o Vec2) Vec2    { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2    { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Mul(f float32) Vec2 { return Vec2{v.X * f, v.Y * f} }

// Rect is an axis-aligned bounding box. Min is the top-left corner and Max
// the bottom-right corner in surface coordinates (y grows downwards).
type Rect struct {
	Min Vec2
	Max Vec2
}

// RectFromCenter returns the box center ± halfExtent.
func RectFromCenter(center, halfExtent Vec2) Rect {
	return Rect{
		Min: center.Sub(halfExtent),
		Max: center.Add(halfExtent),
	}
}

func (r Rect) Width() float32  { return r.Max.X - r.Min.X }
func (r Rect) Height() float32 { return r.Max.Y - r.Min.Y }

func (r Rect) IsEmpty() bool {
	return !(r.Max.X > r.Min.X && r.Max.Y > r.Min.Y)
}

// Intersects reports whether r and o overlap. Boxes that merely touch along
// an edge count as overlapping, matching the device program's tile test.
func (r Rect) Intersects(o Rect) bool {
	return r.Min.X <= o.Max.X && o.Min.X <= r.Max.X &&
		r.Min.Y <= o.Max.Y && o.Min.Y <= r.Max.Y
}

func (r Rect) Union(o Rect) Rect {
	return Rect{
		Min: Vec2{min(r.Min.X, o.Min.X), min(r.Min.Y, o.Min.Y)},
		Max: Vec2{max(r.Max.X, o.Max.X), max(r.Max.Y, o.Max.Y)},
	}
}

// Inflate grows the box by d on every side.
func (r Rect) Inflate(d float32) Rect {
	return Rect{
		Min: Vec2{r.Min.X - d, r.Min.Y - d},
		Max: Vec2{r.Max.X + d, r.Max.Y + d},
	}
}

func PointFromCurve(p curve.Point) Vec2 {
	return Vec2{float32(p.X), float32(p.Y)}
}

func VecFromCurve(v curve.Vec2) Vec2 {
	return Vec2{float32(v.X), float32(v.Y)}
}

func RectFromCurve(r curve.Rect) Rect {
	return Rect{
		Min: Vec2{float32(min(r.X0, r.X1)), float32(min(r.Y0, r.Y1))},
		Max: Vec2{float32(max(r.X0, r.X1)), float32(max(r.Y0, r.Y1))},
	}
}

func (r Rect) Curve() curve.Rect {
	return curve.Rect{
		X0: float64(r.Min.X),
		Y0: float64(r.Min.Y),
		X1: float64(r.Max.X),
		Y1: float64(r.Max.Y),
	}
}

// AlignUp rounds n up to a multiple of alignment, which has to be a power of
// two.
func AlignUp[T constraints.Integer](n, alignment T) T {
	return (n + alignment - 1) &^ (alignment - 1)
}

// NextPowerOfTwo returns the smallest power of two that is >= v. It returns
// 1 for 0 and wraps to 0 if the result doesn't fit in T.
func NextPowerOfTwo[T constraints.Unsigned](v T) T {
	if v <= 1 {
		return 1
	}
	return T(1) << bits.Len64(uint64(v-1))
}
