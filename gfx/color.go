// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Package gfx converts colors into the representation stored in op-code
// streams.
package gfx

import (
	"honnef.co/go/color"
)

// Linear32 returns c in linear sRGB with straight alpha. Fills and strokes
// are encoded this way; the device program premultiplies when compositing.
func Linear32(c *color.Color) [4]float32 {
	if c == nil {
		return [4]float32{}
	}
	cc := c.Convert(color.LinearSRGB)
	return [4]float32{
		float32(cc.Values[0]),
		float32(cc.Values[1]),
		float32(cc.Values[2]),
		float32(cc.Values[3]),
	}
}
