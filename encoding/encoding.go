// Package encoding turns shapes, fills and strokes into the op-code stream
// and draw table consumed by the device program.
package encoding

import (
	"fmt"
	"math"
	"slices"
)

// Encoding is the command stream of one frame. It is append-only while
// being built and is rebuilt from scratch every frame; use Reset to reuse
// its memory.
type Encoding struct {
	// One record per draw, in submission order.
	Draws []Draw
	// Each draw contributes, contiguously, its tag word, shape words, fill
	// words and stroke words.
	OpCodes []float32
}

// TagWord returns the op-code word carrying kind. The bits of kind are
// reinterpreted, not converted, so the device program can recover the
// exact value with a bitcast.
func TagWord(kind ShapeKind) float32 {
	return math.Float32frombits(uint32(kind))
}

// KindFromWord is the inverse of TagWord.
func KindFromWord(w float32) ShapeKind {
	return ShapeKind(math.Float32bits(w))
}

func (enc *Encoding) IsEmpty() bool {
	return len(enc.Draws) == 0
}

// Len returns the number of draws.
func (enc *Encoding) Len() int {
	return len(enc.Draws)
}

func (enc *Encoding) Reset() {
	enc.Draws = enc.Draws[:0]
	enc.OpCodes = enc.OpCodes[:0]
}

// Draw appends a draw of shape with the given fill and stroke.
func (enc *Encoding) Draw(shape Shape, fill Fill, stroke Stroke) {
	kind := shape.Kind()
	numWords, ok := kind.NumWords()
	if !ok {
		panic(fmt.Sprintf("unregistered shape kind %d", uint32(kind)))
	}

	bbox := shape.BoundingBox()
	offset := len(enc.OpCodes)
	enc.OpCodes = append(enc.OpCodes, TagWord(kind))
	enc.OpCodes = shape.AppendWords(enc.OpCodes)
	if n := len(enc.OpCodes) - offset - 1; n != numWords {
		// Leave the encoding as it was before the call.
		enc.OpCodes = enc.OpCodes[:offset]
		panic(fmt.Sprintf("%s encoded %d words, expected %d", kind, n, numWords))
	}
	enc.Draws = append(enc.Draws, Draw{
		Left:         bbox.Min.X,
		Top:          bbox.Min.Y,
		Right:        bbox.Max.X,
		Bottom:       bbox.Max.Y,
		OpCodeOffset: uint32(offset),
	})
	enc.OpCodes = fill.AppendWords(enc.OpCodes)
	enc.OpCodes = stroke.AppendWords(enc.OpCodes)
}

// Append appends all draws of other, after the draws already in enc.
func (enc *Encoding) Append(other *Encoding) {
	base := uint32(len(enc.OpCodes))
	enc.Draws = slices.Grow(enc.Draws, len(other.Draws))
	for _, d := range other.Draws {
		d.OpCodeOffset += base
		enc.Draws = append(enc.Draws, d)
	}
	enc.OpCodes = append(enc.OpCodes, other.OpCodes...)
}

// SegmentLen returns the number of op-code words written by draw i.
func (enc *Encoding) SegmentLen(i int) int {
	end := len(enc.OpCodes)
	if i+1 < len(enc.Draws) {
		end = int(enc.Draws[i+1].OpCodeOffset)
	}
	return end - int(enc.Draws[i].OpCodeOffset)
}

// EncodedWords returns the total number of op-code words a draw of kind
// occupies.
func EncodedWords(kind ShapeKind) int {
	n, _ := kind.NumWords()
	return 1 + n + FillWords + StrokeWords
}
