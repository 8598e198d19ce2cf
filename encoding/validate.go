package encoding

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidDraw is wrapped by all errors returned by Validate.
var ErrInvalidDraw = errors.New("encoding: invalid draw")

// Validate checks every draw for values the device program can't render
// sensibly: non-finite words, negative extents or radii, and negative
// thickness or feather. Draw itself never validates; callers that want
// strict input call Validate before rendering.
func Validate(enc *Encoding) error {
	var errs []error
	for i, d := range enc.Draws {
		dec, err := DecodeDraw(enc.OpCodes, d.OpCodeOffset)
		if err != nil {
			errs = append(errs, fmt.Errorf("draw %d: %w", i, err))
			continue
		}
		if msg := checkDraw(dec); msg != "" {
			errs = append(errs, fmt.Errorf("draw %d (%s): %s: %w", i, dec.Kind, msg, ErrInvalidDraw))
		}
	}
	return errors.Join(errs...)
}

func checkDraw(d Decoded) string {
	words := make([]float32, 0, len(d.Params)+FillWords+StrokeWords)
	words = append(words, d.Params...)
	words = d.Fill.AppendWords(words)
	words = d.Stroke.AppendWords(words)
	for _, w := range words {
		if math.IsNaN(float64(w)) || math.IsInf(float64(w), 0) {
			return "non-finite value"
		}
	}

	switch d.Kind {
	case ShapeKindRectangle:
		if d.Params[2] < 0 || d.Params[3] < 0 {
			return "negative extent"
		}
		if d.Params[4] < 0 {
			return "negative corner radius"
		}
	case ShapeKindEllipse:
		if d.Params[2] < 0 || d.Params[3] < 0 {
			return "negative radius"
		}
	}
	if d.Fill.Feather < 0 {
		return "negative fill feather"
	}
	if d.Stroke.Thickness < 0 {
		return "negative stroke thickness"
	}
	if d.Stroke.Feather < 0 {
		return "negative stroke feather"
	}
	return ""
}
