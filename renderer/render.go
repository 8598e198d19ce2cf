package renderer

import (
	"fmt"
	"structs"
	"unsafe"

	vectors "github.com/tiaanl/wgpu-vectors"
	"github.com/tiaanl/wgpu-vectors/encoding"
	"github.com/tiaanl/wgpu-vectors/mem"
	"github.com/tiaanl/wgpu-vectors/profiler"
)

const (
	// Width and height of a tile, in pixels.
	TileSize = 16
	// Invocations per tile, one per pixel.
	SamplesPerTile = TileSize * TileSize
)

// Binding indices of the shape bind group.
const (
	BindingDraws = iota
	BindingOpCodes
	BindingGlobals
)

// Globals is the uniform block shared by all invocations.
//
// This data structure must be kept in sync with the definition in
// shaders/shapes.wgsl.
type Globals struct {
	_ structs.HostLayout

	ViewWidth  float32
	ViewHeight float32
	// Number of valid entries in the draw buffer. The buffer itself is
	// usually larger.
	NumDraws uint32
	// Width of the target in tiles.
	TilesX uint32
}

const GlobalsSize = 16

var _ [GlobalsSize]struct{} = [unsafe.Sizeof(Globals{})]struct{}{}

// Target describes the surface a frame is rendered to.
type Target struct {
	Width  uint32
	Height uint32
}

// TileGrid returns the number of tiles needed to cover a width×height
// target. Partial tiles count as whole tiles.
func TileGrid(width, height uint32) (x, y uint32) {
	return (width + TileSize - 1) / TileSize, (height + TileSize - 1) / TileSize
}

// Frame is the result of rendering one encoding.
type Frame struct {
	Recording Recording
	// Whether the bind group was (re)created this frame.
	BindingsRebuilt bool
	// Whether the globals were uploaded this frame.
	GlobalsWritten bool
	TilesX         uint32
	TilesY         uint32
}

// A Renderer turns encodings into recordings. It owns the device buffers the
// encoding is uploaded to and the bind group that references them, and keeps
// them alive across frames.
//
// A Renderer must not be used concurrently. Each frame's recording has to be
// executed before the next call to Render, in order.
type Renderer struct {
	draws   *VecBuffer[encoding.Draw]
	opCodes *VecBuffer[float32]
	globals *VecBuffer[Globals]

	lastGlobals Globals
	haveGlobals bool
	bindGroup   BindGroupProxy
}

func New(opts Options) (*Renderer, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Renderer{
		draws:   NewVecBuffer[encoding.Draw]("draws", BufferUsageStorage, opts.InitialDraws, opts.Growth),
		opCodes: NewVecBuffer[float32]("op_codes", BufferUsageStorage, opts.InitialOpCodes, opts.Growth),
		globals: NewVecBuffer[Globals]("globals", BufferUsageUniform, 1, GrowExact),
	}, nil
}

// Render uploads enc and records a tile pass over target. The pass draws on
// top of the target's current contents. A target without area gets no pass,
// but buffers are still brought up to date.
//
// The recording's write commands reference enc's slices directly; enc must not
// be modified until the recording has been executed.
func (r *Renderer) Render(
	arena *mem.Arena,
	enc *encoding.Encoding,
	target Target,
	pgroup profiler.ProfilerGroup,
) Frame {
	pgroup = profiler.OrNop(pgroup).Start("Render")
	defer pgroup.End()

	var frame Frame
	rec := &frame.Recording

	// Both writes have to happen even if the first one reallocated.
	drawsChanged := r.draws.Write(arena, rec, enc.Draws)
	opCodesChanged := r.opCodes.Write(arena, rec, enc.OpCodes)
	changed := drawsChanged || opCodesChanged

	frame.TilesX, frame.TilesY = TileGrid(target.Width, target.Height)
	g := Globals{
		ViewWidth:  float32(target.Width),
		ViewHeight: float32(target.Height),
		NumDraws:   uint32(len(enc.Draws)),
		TilesX:     frame.TilesX,
	}
	if !r.haveGlobals || g != r.lastGlobals {
		if r.globals.Write(arena, rec, mem.MakeSlice(arena, []Globals{g})) {
			changed = true
		}
		r.lastGlobals = g
		r.haveGlobals = true
		frame.GlobalsWritten = true
	}

	if changed || !r.bindGroup.IsValid() {
		if r.bindGroup.IsValid() {
			rec.FreeBindGroup(arena, r.bindGroup)
		}
		bindings := [...]BufferProxy{
			BindingDraws:   r.draws.Buffer(),
			BindingOpCodes: r.opCodes.Buffer(),
			BindingGlobals: r.globals.Buffer(),
		}
		r.bindGroup = rec.CreateBindGroup(arena, "shapes", bindings[:])
		frame.BindingsRebuilt = true
		vectors.Logger().Debug("rebuilt bind group",
			"bind_group", r.bindGroup.ID,
			"draws", r.draws.Buffer().ID,
			"op_codes", r.opCodes.Buffer().ID)
	}

	if instances := frame.TilesX * frame.TilesY; instances > 0 {
		rec.DrawTiles(arena, DrawTiles{
			BindGroup: r.bindGroup,
			Vertices:  SamplesPerTile,
			Instances: instances,
			Width:     target.Width,
			Height:    target.Height,
		})
	}

	vectors.Logger().Debug("rendered frame",
		"draws", len(enc.Draws),
		"op_codes", len(enc.OpCodes),
		"tiles", fmt.Sprintf("%dx%d", frame.TilesX, frame.TilesY),
		"commands", len(rec.Commands))
	return frame
}

// BindGroup returns the current bind group. It is invalid before the first
// frame.
func (r *Renderer) BindGroup() BindGroupProxy { return r.bindGroup }

func (r *Renderer) DrawBuffer() *VecBuffer[encoding.Draw] { return r.draws }
func (r *Renderer) OpCodeBuffer() *VecBuffer[float32]     { return r.opCodes }

// Release records the release of every device resource the renderer owns.
// The renderer starts over from scratch if it is used again.
func (r *Renderer) Release(arena *mem.Arena) Recording {
	var rec Recording
	if r.bindGroup.IsValid() {
		rec.FreeBindGroup(arena, r.bindGroup)
		r.bindGroup = BindGroupProxy{}
	}
	for _, buf := range [...]BufferProxy{r.draws.Buffer(), r.opCodes.Buffer(), r.globals.Buffer()} {
		if buf.IsValid() {
			rec.FreeBuffer(arena, buf)
		}
	}
	r.draws.buffer = BufferProxy{}
	r.opCodes.buffer = BufferProxy{}
	r.globals.buffer = BufferProxy{}
	r.haveGlobals = false
	return rec
}
