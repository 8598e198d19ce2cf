package encoding

import (
	"fmt"

	"github.com/tiaanl/wgpu-vectors/jmath"
	"honnef.co/go/curve"
)

// ShapeKind identifies a shape in the op-code stream. The value is stored
// bit for bit in the first word of every draw.
type ShapeKind uint32

const (
	ShapeKindRectangle ShapeKind = 1
	ShapeKindEllipse   ShapeKind = 2
)

type shapeKindInfo struct {
	name     string
	numWords int
}

// Every shape kind has a fixed number of parameter words. Adding a shape
// means adding a row here, a type implementing Shape, and a case to the
// device program.
var shapeKinds = map[ShapeKind]shapeKindInfo{
	ShapeKindRectangle: {"rectangle", 5},
	ShapeKindEllipse:   {"ellipse", 4},
}

// NumWords returns the number of parameter words of the shape kind, not
// counting the tag word. It returns false for unknown kinds.
func (k ShapeKind) NumWords() (int, bool) {
	info, ok := shapeKinds[k]
	return info.numWords, ok
}

func (k ShapeKind) String() string {
	if info, ok := shapeKinds[k]; ok {
		return info.name
	}
	return fmt.Sprintf("ShapeKind(%d)", uint32(k))
}

// Shape is implemented by all shapes that can be drawn.
type Shape interface {
	Kind() ShapeKind
	// BoundingBox returns the tight bounds of the shape's geometry. Fill
	// feathering and strokes aren't included.
	BoundingBox() jmath.Rect
	// AppendWords appends exactly Kind().NumWords() words to out.
	AppendWords(out []float32) []float32
}

// Rectangle is an axis-aligned rectangle with optionally rounded corners.
type Rectangle struct {
	Center       jmath.Vec2
	HalfExtent   jmath.Vec2
	CornerRadius float32
}

func NewRectangle(center, halfExtent jmath.Vec2) Rectangle {
	return Rectangle{
		Center:     center,
		HalfExtent: halfExtent,
	}
}

// RectangleFromCurve returns a rectangle covering r.
func RectangleFromCurve(r curve.Rect) Rectangle {
	bbox := jmath.RectFromCurve(r)
	halfExtent := jmath.Vec2{X: bbox.Width() / 2, Y: bbox.Height() / 2}
	return Rectangle{
		Center:     bbox.Min.Add(halfExtent),
		HalfExtent: halfExtent,
	}
}

func (r Rectangle) WithCornerRadius(radius float32) Rectangle {
	r.CornerRadius = radius
	return r
}

func (Rectangle) Kind() ShapeKind { return ShapeKindRectangle }

func (r Rectangle) BoundingBox() jmath.Rect {
	return jmath.RectFromCenter(r.Center, r.HalfExtent)
}

func (r Rectangle) AppendWords(out []float32) []float32 {
	return append(out,
		r.Center.X,
		r.Center.Y,
		r.HalfExtent.X,
		r.HalfExtent.Y,
		r.CornerRadius,
	)
}

// Ellipse is an axis-aligned ellipse.
type Ellipse struct {
	Center jmath.Vec2
	Radii  jmath.Vec2
}

func NewEllipse(center, radii jmath.Vec2) Ellipse {
	return Ellipse{
		Center: center,
		Radii:  radii,
	}
}

func NewCircle(center jmath.Vec2, radius float32) Ellipse {
	return NewEllipse(center, jmath.Vec2{X: radius, Y: radius})
}

// EllipseFromCurve returns the ellipse inscribed in r.
func EllipseFromCurve(r curve.Rect) Ellipse {
	bbox := jmath.RectFromCurve(r)
	radii := jmath.Vec2{X: bbox.Width() / 2, Y: bbox.Height() / 2}
	return Ellipse{
		Center: bbox.Min.Add(radii),
		Radii:  radii,
	}
}

func (Ellipse) Kind() ShapeKind { return ShapeKindEllipse }

func (e Ellipse) BoundingBox() jmath.Rect {
	return jmath.RectFromCenter(e.Center, e.Radii)
}

func (e Ellipse) AppendWords(out []float32) []float32 {
	return append(out, e.Center.X, e.Center.Y, e.Radii.X, e.Radii.Y)
}
