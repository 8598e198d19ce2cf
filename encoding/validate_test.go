package encoding

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/tiaanl/wgpu-vectors/jmath"
)

func TestValidate(t *testing.T) {
	nan := float32(math.NaN())
	tests := []struct {
		name   string
		shape  Shape
		fill   Fill
		stroke Stroke
		want   string
	}{
		{"valid", NewRectangle(jmath.Vec(1, 1), jmath.Vec(1, 1)), SolidFill(1, 1, 1, 1), NoStroke(), ""},
		{"nan center", NewCircle(jmath.Vec(nan, 1), 1), SolidFill(1, 1, 1, 1), NoStroke(), "non-finite"},
		{"nan color", NewCircle(jmath.Vec(1, 1), 1), SolidFill(nan, 1, 1, 1), NoStroke(), "non-finite"},
		{"negative radius", NewCircle(jmath.Vec(1, 1), -1), SolidFill(1, 1, 1, 1), NoStroke(), "negative radius"},
		{"negative extent", NewRectangle(jmath.Vec(1, 1), jmath.Vec(-1, 1)), SolidFill(1, 1, 1, 1), NoStroke(), "negative extent"},
		{"negative corner", NewRectangle(jmath.Vec(1, 1), jmath.Vec(1, 1)).WithCornerRadius(-2), SolidFill(1, 1, 1, 1), NoStroke(), "corner radius"},
		{"negative thickness", NewCircle(jmath.Vec(1, 1), 1), SolidFill(1, 1, 1, 1), SolidStroke(1, 1, 1, 1, -1), "thickness"},
		{"negative feather", NewCircle(jmath.Vec(1, 1), 1), SolidFill(1, 1, 1, 1).WithFeather(-1), NoStroke(), "fill feather"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var enc Encoding
			// Draw passes invalid values through unchanged.
			enc.Draw(tt.shape, tt.fill, tt.stroke)
			err := Validate(&enc)
			if tt.want == "" {
				if err != nil {
					t.Fatalf("unexpected error: %s", err)
				}
				return
			}
			if !errors.Is(err, ErrInvalidDraw) {
				t.Fatalf("got %v, want ErrInvalidDraw", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q doesn't mention %q", err, tt.want)
			}
		})
	}
}

func TestValidateReportsEveryDraw(t *testing.T) {
	var enc Encoding
	enc.Draw(NewCircle(jmath.Vec(1, 1), -1), NoFill(), NoStroke())
	enc.Draw(NewCircle(jmath.Vec(1, 1), 1), NoFill(), NoStroke())
	enc.Draw(NewCircle(jmath.Vec(1, 1), -1), NoFill(), NoStroke())
	err := Validate(&enc)
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "draw 0") || !strings.Contains(msg, "draw 2") || strings.Contains(msg, "draw 1") {
		t.Errorf("unexpected report: %s", msg)
	}
}
