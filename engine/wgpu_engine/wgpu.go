package wgpu_engine

import (
	"errors"
	"fmt"

	vectors "github.com/tiaanl/wgpu-vectors"
	"github.com/tiaanl/wgpu-vectors/engine/wgpu_engine/shaders"
	"github.com/tiaanl/wgpu-vectors/mem"
	"github.com/tiaanl/wgpu-vectors/renderer"

	"honnef.co/go/wgpu"
)

// ErrAllocationFailed is returned when the device runs out of memory creating
// a buffer. The frame is abandoned before anything is submitted.
var ErrAllocationFailed = errors.New("wgpu_engine: buffer allocation failed")

type Engine struct {
	Device *wgpu.Device

	options  RendererOptions
	shapes   shapesPipeline
	renderer *renderer.Renderer

	// Resources that outlive a single recording, keyed by proxy ID.
	buffers    map[renderer.ResourceID]*wgpu.Buffer
	bindGroups map[renderer.ResourceID]*wgpu.BindGroup
}

func bufferUsageToWGPU(u renderer.BufferUsage) wgpu.BufferUsage {
	switch u {
	case renderer.BufferUsageStorage:
		return wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst
	case renderer.BufferUsageUniform:
		return wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst
	default:
		panic(fmt.Sprintf("invalid buffer usage %d", u))
	}
}

func bindGroupLayoutEntries(bindings []shaders.BindType) []wgpu.BindGroupLayoutEntry {
	entries := make([]wgpu.BindGroupLayoutEntry, len(bindings))
	for i, bindType := range bindings {
		var typ wgpu.BufferBindingType
		switch bindType {
		case shaders.Buffer:
			typ = wgpu.BufferBindingTypeStorage
		case shaders.BufReadOnly:
			typ = wgpu.BufferBindingTypeReadOnlyStorage
		case shaders.Uniform:
			typ = wgpu.BufferBindingTypeUniform
		default:
			panic(fmt.Sprintf("invalid bind type %d", bindType))
		}
		visibility := wgpu.ShaderStageFragment
		if bindType == shaders.Uniform {
			// The vertex stage needs the view size and the tile grid.
			visibility |= wgpu.ShaderStageVertex
		}
		entries[i] = wgpu.BindGroupLayoutEntry{
			Binding:    uint32(i),
			Visibility: visibility,
			Buffer: &wgpu.BufferBindingLayout{
				Type:             typ,
				HasDynamicOffset: false,
				MinBindingSize:   0,
			},
		}
	}
	return entries
}

func allocationError(proxy renderer.BufferProxy, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrAllocationFailed, proxy, err)
}

// RunRecording executes rec. Draw commands render onto target, which may be
// nil if rec contains none. Resources freed by rec are released after the
// work has been submitted.
func (eng *Engine) RunRecording(
	arena *mem.Arena,
	queue *wgpu.Queue,
	rec *renderer.Recording,
	target *wgpu.TextureView,
	label string,
	pgroup *ProfilerGroup,
) error {
	pgroup = pgroup.Nest("RunRecording")
	defer pgroup.End()

	var freeBufs, freeBindGroups mem.BinaryTreeMap[renderer.ResourceID, struct{}]

	encoder := eng.Device.CreateCommandEncoder(mem.Make(arena, wgpu.CommandEncoderDescriptor{Label: label}))

	for _, cmd := range rec.Commands {
		switch cmd := cmd.(type) {
		case *renderer.CreateBuffer:
			proxy := cmd.Buffer
			// Out-of-memory errors would otherwise panic in the uncaptured
			// error handler.
			eng.Device.PushErrorScope(wgpu.ErrorFilterOutOfMemory)
			buf := eng.Device.CreateBuffer(mem.Make(arena, wgpu.BufferDescriptor{
				Label: proxy.Name,
				Size:  proxy.Size,
				Usage: bufferUsageToWGPU(proxy.Usage),
			}))
			if err := allocationError(proxy, eng.Device.PopErrorScope()); err != nil {
				if buf != nil {
					buf.Release()
				}
				encoder.Release()
				return err
			}
			eng.buffers[proxy.ID] = buf
			vectors.Logger().Debug("created buffer", "label", proxy.Name, "id", proxy.ID, "size", proxy.Size)

		case *renderer.WriteBuffer:
			buf, ok := eng.buffers[cmd.Buffer.ID]
			if !ok {
				panic(fmt.Sprintf("write to unknown buffer %s", cmd.Buffer))
			}
			queue.WriteBuffer(buf, 0, cmd.Data)

		case *renderer.FreeBuffer:
			freeBufs.Insert(arena, cmd.Buffer.ID, struct{}{})

		case *renderer.CreateBindGroup:
			entries := mem.NewSlice[[]wgpu.BindGroupEntry](arena, len(cmd.Bindings), len(cmd.Bindings))
			for i, proxy := range cmd.Bindings {
				buf, ok := eng.buffers[proxy.ID]
				if !ok {
					panic(fmt.Sprintf("bind group %s references unknown buffer %s", cmd.BindGroup, proxy))
				}
				entries[i] = wgpu.BindGroupEntry{
					Binding: uint32(i),
					Buffer:  buf,
					Size:    ^uint64(0),
				}
			}
			eng.bindGroups[cmd.BindGroup.ID] = eng.Device.CreateBindGroup(mem.Make(arena, wgpu.BindGroupDescriptor{
				Layout:  eng.shapes.bindGroupLayout,
				Entries: entries,
			}))

		case *renderer.FreeBindGroup:
			freeBindGroups.Insert(arena, cmd.BindGroup.ID, struct{}{})

		case *renderer.DrawTiles:
			if target == nil {
				panic("recording draws tiles but no target was provided")
			}
			bindGroup, ok := eng.bindGroups[cmd.BindGroup.ID]
			if !ok {
				panic(fmt.Sprintf("draw with unknown bind group %s", cmd.BindGroup))
			}
			rpass := encoder.BeginRenderPass(mem.Make(arena, wgpu.RenderPassDescriptor{
				ColorAttachments: mem.MakeSlice(arena, []wgpu.RenderPassColorAttachment{
					{
						View: target,
						// Draw on top of whatever is already there.
						LoadOp:  wgpu.LoadOpLoad,
						StoreOp: wgpu.StoreOpStore,
					},
				}),
				TimestampWrites: pgroup.Render(arena, eng.shapes.label),
			}))
			rpass.SetPipeline(eng.shapes.pipeline)
			rpass.SetBindGroup(0, bindGroup, nil)
			rpass.Draw(cmd.Vertices, cmd.Instances, 0, 0)
			rpass.End()
			rpass.Release()

		default:
			panic(fmt.Sprintf("unhandled command %T", cmd))
		}
	}

	cmd := encoder.Finish(nil)
	encoder.Release()
	queue.Submit(cmd)
	cmd.Release()

	// The submitted work holds its own references, so releasing now doesn't
	// pull resources out from under it.
	for id := range freeBindGroups.Keys() {
		bg, ok := eng.bindGroups[id]
		if !ok {
			vectors.Logger().Warn("freeing unknown bind group", "id", id)
			continue
		}
		bg.Release()
		delete(eng.bindGroups, id)
	}
	for id := range freeBufs.Keys() {
		buf, ok := eng.buffers[id]
		if !ok {
			vectors.Logger().Warn("freeing unknown buffer", "id", id)
			continue
		}
		buf.Release()
		delete(eng.buffers, id)
	}
	return nil
}

// releaseAll releases every resource the engine holds, regardless of which
// recording created it.
func (eng *Engine) releaseAll() {
	for id, bg := range eng.bindGroups {
		bg.Release()
		delete(eng.bindGroups, id)
	}
	for id, buf := range eng.buffers {
		buf.Release()
		delete(eng.buffers, id)
	}
}
