package encoding

import (
	"errors"
	"fmt"
	"iter"
)

var (
	ErrUnknownShapeKind = errors.New("encoding: unknown shape kind")
	ErrTruncated        = errors.New("encoding: truncated op-code segment")
)

// Decoded is one draw read back from an op-code stream.
type Decoded struct {
	Kind ShapeKind
	// The shape's parameter words, aliasing the op-code stream.
	Params []float32
	Fill   Fill
	Stroke Stroke
	// Number of words the draw occupies, including the tag word.
	Len int
}

// DecodeDraw decodes the draw whose tag word is at ops[offset], the same way
// the device program does.
func DecodeDraw(ops []float32, offset uint32) (Decoded, error) {
	if int(offset) >= len(ops) {
		return Decoded{}, fmt.Errorf("offset %d: %w", offset, ErrTruncated)
	}
	kind := KindFromWord(ops[offset])
	numWords, ok := kind.NumWords()
	if !ok {
		return Decoded{}, fmt.Errorf("offset %d: %w %d", offset, ErrUnknownShapeKind, uint32(kind))
	}
	n := 1 + numWords + FillWords + StrokeWords
	if int(offset)+n > len(ops) {
		return Decoded{}, fmt.Errorf("offset %d: %s needs %d words, have %d: %w",
			offset, kind, n, len(ops)-int(offset), ErrTruncated)
	}

	seg := ops[offset : int(offset)+n]
	params := seg[1 : 1+numWords]
	f := seg[1+numWords:]
	s := f[FillWords:]
	return Decoded{
		Kind:   kind,
		Params: params,
		Fill: Fill{
			Color:   [4]float32{f[0], f[1], f[2], f[3]},
			Feather: f[4],
		},
		Stroke: Stroke{
			Color:     [4]float32{s[0], s[1], s[2], s[3]},
			Thickness: s[4],
			Feather:   s[5],
		},
		Len: n,
	}, nil
}

// Shape reconstructs the shape from its parameter words.
func (d Decoded) Shape() (Shape, error) {
	p := d.Params
	switch d.Kind {
	case ShapeKindRectangle:
		r := Rectangle{CornerRadius: p[4]}
		r.Center.X, r.Center.Y = p[0], p[1]
		r.HalfExtent.X, r.HalfExtent.Y = p[2], p[3]
		return r, nil
	case ShapeKindEllipse:
		e := Ellipse{}
		e.Center.X, e.Center.Y = p[0], p[1]
		e.Radii.X, e.Radii.Y = p[2], p[3]
		return e, nil
	default:
		return nil, fmt.Errorf("%w %d", ErrUnknownShapeKind, uint32(d.Kind))
	}
}

// Decode iterates over all draws in submission order. Iteration stops after
// the first error.
func (enc *Encoding) Decode() iter.Seq2[Decoded, error] {
	return func(yield func(Decoded, error) bool) {
		for i, d := range enc.Draws {
			dec, err := DecodeDraw(enc.OpCodes, d.OpCodeOffset)
			if err != nil {
				yield(Decoded{}, fmt.Errorf("draw %d: %w", i, err))
				return
			}
			if !yield(dec, nil) {
				return
			}
		}
	}
}
