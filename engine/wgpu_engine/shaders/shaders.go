// Package shaders contains the device program that evaluates encoded shapes,
// and a description of the bindings it expects.
package shaders

import (
	_ "embed"
)

type BindType int

const (
	Buffer BindType = iota + 1
	BufReadOnly
	Uniform
)

type RenderShader struct {
	Name string
	// Entry points
	Vertex   string
	Fragment string
	// Indexed by binding number.
	Bindings []BindType
	WGSL     []byte
}

//go:embed shapes.wgsl
var shapesWGSL []byte

// Shapes evaluates the draws overlapping a tile, one vertex invocation per
// pixel of the tile and one instance per tile. Its bindings are the draw
// records, the op codes, and the globals block.
var Shapes = RenderShader{
	Name:     "shapes",
	Vertex:   "vs_main",
	Fragment: "fs_main",
	Bindings: []BindType{BufReadOnly, BufReadOnly, Uniform},
	WGSL:     shapesWGSL,
}
