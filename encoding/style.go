package encoding

import (
	"github.com/tiaanl/wgpu-vectors/gfx"
	"honnef.co/go/color"
)

const (
	// Number of words in an encoded Fill.
	FillWords = 5
	// Number of words in an encoded Stroke.
	StrokeWords = 6

	// DefaultFeather is the anti-aliasing ramp used by SolidFill and
	// SolidStroke, in the same units as geometry.
	DefaultFeather = 1.0
)

// Fill paints the interior of a shape. A zero alpha disables the fill.
type Fill struct {
	// Straight-alpha RGBA.
	Color   [4]float32
	Feather float32
}

func NewFill(rgba [4]float32) Fill {
	return Fill{
		Color:   rgba,
		Feather: DefaultFeather,
	}
}

func SolidFill(r, g, b, a float32) Fill {
	return NewFill([4]float32{r, g, b, a})
}

// FillFromColor returns a fill using c converted to linear sRGB.
func FillFromColor(c *color.Color) Fill {
	return NewFill(gfx.Linear32(c))
}

// NoFill returns a fill that doesn't paint anything.
func NoFill() Fill {
	return Fill{}
}

func (f Fill) WithFeather(feather float32) Fill {
	f.Feather = feather
	return f
}

func (f Fill) AppendWords(out []float32) []float32 {
	return append(out, f.Color[0], f.Color[1], f.Color[2], f.Color[3], f.Feather)
}

// Stroke paints the outline of a shape, centered on its edge. A zero
// thickness disables the stroke.
type Stroke struct {
	// Straight-alpha RGBA.
	Color     [4]float32
	Thickness float32
	Feather   float32
}

func NewStroke(rgba [4]float32, thickness float32) Stroke {
	return Stroke{
		Color:     rgba,
		Thickness: thickness,
		Feather:   DefaultFeather,
	}
}

func SolidStroke(r, g, b, a, thickness float32) Stroke {
	return NewStroke([4]float32{r, g, b, a}, thickness)
}

// StrokeFromColor returns a stroke using c converted to linear sRGB.
func StrokeFromColor(c *color.Color, thickness float32) Stroke {
	return NewStroke(gfx.Linear32(c), thickness)
}

// NoStroke returns a stroke that doesn't paint anything. It still occupies
// StrokeWords words in the op-code stream.
func NoStroke() Stroke {
	return Stroke{}
}

func (s Stroke) IsNone() bool {
	return s.Thickness == 0
}

func (s Stroke) WithFeather(feather float32) Stroke {
	s.Feather = feather
	return s
}

func (s Stroke) AppendWords(out []float32) []float32 {
	return append(out, s.Color[0], s.Color[1], s.Color[2], s.Color[3], s.Thickness, s.Feather)
}
