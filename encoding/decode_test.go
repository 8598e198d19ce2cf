package encoding

import (
	"errors"
	"math"
	"testing"

	"github.com/tiaanl/wgpu-vectors/jmath"
)

func TestDecodeRoundTrip(t *testing.T) {
	type draw struct {
		shape  Shape
		fill   Fill
		stroke Stroke
	}
	draws := []draw{
		{NewRectangle(jmath.Vec(100, 100), jmath.Vec(40, 40)).WithCornerRadius(10), SolidFill(1, 0.5, 1, 1), SolidStroke(0.5, 0.25, 0.5, 1, 2)},
		{NewEllipse(jmath.Vec(200, 200), jmath.Vec(52, 52)), SolidFill(0, 0, 0, 0.5).WithFeather(10), NoStroke()},
		{NewCircle(jmath.Vec(5, 6), 7), NoFill(), SolidStroke(1, 1, 1, 1, 3).WithFeather(0.5)},
	}

	var enc Encoding
	for _, d := range draws {
		enc.Draw(d.shape, d.fill, d.stroke)
	}

	i := 0
	for dec, err := range enc.Decode() {
		if err != nil {
			t.Fatalf("draw %d: %s", i, err)
		}
		want := draws[i]
		if dec.Kind != want.shape.Kind() {
			t.Errorf("draw %d: kind %v, want %v", i, dec.Kind, want.shape.Kind())
		}
		shape, err := dec.Shape()
		if err != nil {
			t.Fatalf("draw %d: %s", i, err)
		}
		if shape != want.shape {
			t.Errorf("draw %d: shape %+v, want %+v", i, shape, want.shape)
		}
		if dec.Fill != want.fill {
			t.Errorf("draw %d: fill %+v, want %+v", i, dec.Fill, want.fill)
		}
		if dec.Stroke != want.stroke {
			t.Errorf("draw %d: stroke %+v, want %+v", i, dec.Stroke, want.stroke)
		}
		if dec.Len != enc.SegmentLen(i) {
			t.Errorf("draw %d: length %d, want %d", i, dec.Len, enc.SegmentLen(i))
		}
		i++
	}
	if i != len(draws) {
		t.Errorf("decoded %d draws, want %d", i, len(draws))
	}
}

func TestDecodeErrors(t *testing.T) {
	var enc Encoding
	enc.Draw(NewCircle(jmath.Vec(0, 0), 1), SolidFill(1, 1, 1, 1), NoStroke())

	if _, err := DecodeDraw(enc.OpCodes[:len(enc.OpCodes)-1], 0); !errors.Is(err, ErrTruncated) {
		t.Errorf("truncated segment: got %v, want ErrTruncated", err)
	}
	if _, err := DecodeDraw(enc.OpCodes, uint32(len(enc.OpCodes))); !errors.Is(err, ErrTruncated) {
		t.Errorf("offset past end: got %v, want ErrTruncated", err)
	}

	ops := append([]float32(nil), enc.OpCodes...)
	ops[0] = math.Float32frombits(77)
	if _, err := DecodeDraw(ops, 0); !errors.Is(err, ErrUnknownShapeKind) {
		t.Errorf("unknown kind: got %v, want ErrUnknownShapeKind", err)
	}
	// A numerically converted tag must not be mistaken for a rectangle.
	ops[0] = 1.0
	if _, err := DecodeDraw(ops, 0); !errors.Is(err, ErrUnknownShapeKind) {
		t.Errorf("converted tag: got %v, want ErrUnknownShapeKind", err)
	}

	bad := Encoding{Draws: enc.Draws, OpCodes: ops}
	n := 0
	for _, err := range bad.Decode() {
		n++
		if err == nil {
			t.Error("expected error")
		}
	}
	if n != 1 {
		t.Errorf("iteration yielded %d times after an error, want 1", n)
	}
}
