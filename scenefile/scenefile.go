// Package scenefile reads scenes described in TOML.
//
// A scene is a list of shapes, drawn in order:
//
//	[[shape]]
//	kind = "rectangle"
//	center = [100.0, 100.0]
//	half_extent = [40.0, 40.0]
//	corner_radius = 10.0
//	fill = { color = [1.0, 0.5, 1.0, 1.0] }
//	stroke = { color = [0.5, 0.25, 0.5, 1.0], thickness = 2.0 }
//
//	[[shape]]
//	kind = "circle"
//	center = [200.0, 200.0]
//	radius = 52.0
//	fill = { color = [0.0, 0.0, 0.0, 0.5], feather = 10.0 }
//
// Rectangles and ellipses may give "bounds = [x0, y0, x1, y1]" instead of a
// center and size. Colors are straight-alpha linear RGBA.
package scenefile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/tiaanl/wgpu-vectors/encoding"
	"github.com/tiaanl/wgpu-vectors/jmath"

	"honnef.co/go/curve"
)

var (
	ErrUnknownKey   = errors.New("scenefile: unknown key")
	ErrInvalidShape = errors.New("scenefile: invalid shape")
)

type Scene struct {
	Shapes []Shape `toml:"shape"`
}

type Shape struct {
	// One of "rectangle", "ellipse" and "circle".
	Kind string `toml:"kind"`

	Center *[2]float64 `toml:"center"`
	Bounds *[4]float64 `toml:"bounds"`

	HalfExtent   *[2]float64 `toml:"half_extent"`
	CornerRadius float32     `toml:"corner_radius"`
	Radii        *[2]float64 `toml:"radii"`
	Radius       *float64    `toml:"radius"`

	Fill   *Paint `toml:"fill"`
	Stroke *Paint `toml:"stroke"`
}

type Paint struct {
	Color [4]float32 `toml:"color"`
	// Stroke only.
	Thickness float32 `toml:"thickness"`
	// Defaults to encoding.DefaultFeather.
	Feather *float32 `toml:"feather"`
}

// Decode reads a scene. Keys it doesn't know about are an error, to catch
// typos.
func Decode(r io.Reader) (*Scene, error) {
	var s Scene
	md, err := toml.NewDecoder(r).Decode(&s)
	if err != nil {
		return nil, fmt.Errorf("couldn't decode scene: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%w: %s", ErrUnknownKey, strings.Join(keys, ", "))
	}
	return &s, nil
}

func Load(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	s, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func point(v [2]float64) jmath.Vec2 {
	return jmath.PointFromCurve(curve.Point{X: v[0], Y: v[1]})
}

func vec(v [2]float64) jmath.Vec2 {
	return jmath.VecFromCurve(curve.Vec2{X: v[0], Y: v[1]})
}

func bounds(v [4]float64) curve.Rect {
	return curve.Rect{X0: v[0], Y0: v[1], X1: v[2], Y1: v[3]}
}

// Build returns the shape described by s.
func (s *Shape) Build() (encoding.Shape, error) {
	fail := func(format string, args ...any) (encoding.Shape, error) {
		return nil, fmt.Errorf("%w: %s: %s", ErrInvalidShape, s.Kind, fmt.Sprintf(format, args...))
	}
	if s.Bounds != nil && s.Center != nil {
		return fail("center and bounds are mutually exclusive")
	}

	switch s.Kind {
	case "rectangle":
		if s.Radii != nil || s.Radius != nil {
			return fail("radii and radius don't apply")
		}
		if s.Bounds != nil {
			if s.HalfExtent != nil {
				return fail("half_extent and bounds are mutually exclusive")
			}
			return encoding.RectangleFromCurve(bounds(*s.Bounds)).WithCornerRadius(s.CornerRadius), nil
		}
		if s.Center == nil || s.HalfExtent == nil {
			return fail("need center and half_extent, or bounds")
		}
		return encoding.NewRectangle(point(*s.Center), vec(*s.HalfExtent)).WithCornerRadius(s.CornerRadius), nil

	case "ellipse":
		if s.HalfExtent != nil || s.Radius != nil || s.CornerRadius != 0 {
			return fail("only center and radii, or bounds, apply")
		}
		if s.Bounds != nil {
			if s.Radii != nil {
				return fail("radii and bounds are mutually exclusive")
			}
			return encoding.EllipseFromCurve(bounds(*s.Bounds)), nil
		}
		if s.Center == nil || s.Radii == nil {
			return fail("need center and radii, or bounds")
		}
		return encoding.NewEllipse(point(*s.Center), vec(*s.Radii)), nil

	case "circle":
		if s.Center == nil || s.Radius == nil {
			return fail("need center and radius")
		}
		if s.Bounds != nil || s.HalfExtent != nil || s.Radii != nil || s.CornerRadius != 0 {
			return fail("only center and radius apply")
		}
		return encoding.NewCircle(point(*s.Center), float32(*s.Radius)), nil

	case "":
		return fail("missing kind")
	default:
		return fail("unknown kind")
	}
}

func (p *Paint) fill() encoding.Fill {
	if p == nil {
		return encoding.NoFill()
	}
	f := encoding.NewFill(p.Color)
	if p.Feather != nil {
		f = f.WithFeather(*p.Feather)
	}
	return f
}

func (p *Paint) stroke() encoding.Stroke {
	if p == nil {
		return encoding.NoStroke()
	}
	s := encoding.NewStroke(p.Color, p.Thickness)
	if p.Feather != nil {
		s = s.WithFeather(*p.Feather)
	}
	return s
}

// Encode appends all shapes to enc, in order. If strict is set, the result
// is checked with encoding.Validate. On error, enc is left unchanged.
func (s *Scene) Encode(enc *encoding.Encoding, strict bool) error {
	var tmp encoding.Encoding
	for i := range s.Shapes {
		sh := &s.Shapes[i]
		shape, err := sh.Build()
		if err != nil {
			return fmt.Errorf("shape %d: %w", i, err)
		}
		tmp.Draw(shape, sh.Fill.fill(), sh.Stroke.stroke())
	}
	if strict {
		if err := encoding.Validate(&tmp); err != nil {
			return err
		}
	}
	enc.Append(&tmp)
	return nil
}
