// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package encoding

import (
	"structs"
	"unsafe"

	"github.com/tiaanl/wgpu-vectors/jmath"
)

// Draw is the per-draw metadata the device program uses to cull draws per
// tile and to find a draw's op codes.
//
// This data structure must be kept in sync with the definition of Draw in
// the device program.
type Draw struct {
	_ structs.HostLayout

	Left   float32
	Top    float32
	Right  float32
	Bottom float32
	// Index of the draw's tag word in the op-code stream.
	OpCodeOffset uint32
}

// DrawSize is the size of a Draw in bytes, as seen by the device.
const DrawSize = 20

var _ [DrawSize]struct{} = [unsafe.Sizeof(Draw{})]struct{}{}

func (d Draw) BoundingBox() jmath.Rect {
	return jmath.Rect{
		Min: jmath.Vec2{X: d.Left, Y: d.Top},
		Max: jmath.Vec2{X: d.Right, Y: d.Bottom},
	}
}
