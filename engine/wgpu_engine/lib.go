package wgpu_engine

import (
	"fmt"

	vectors "github.com/tiaanl/wgpu-vectors"
	"github.com/tiaanl/wgpu-vectors/encoding"
	"github.com/tiaanl/wgpu-vectors/engine/wgpu_engine/shaders"
	"github.com/tiaanl/wgpu-vectors/mem"
	"github.com/tiaanl/wgpu-vectors/renderer"

	"honnef.co/go/wgpu"
)

type RendererOptions struct {
	// Format of the views rendered to.
	SurfaceFormat wgpu.TextureFormat
	Renderer      renderer.Options
}

type shapesPipeline struct {
	label           string
	bindGroupLayout *wgpu.BindGroupLayout
	pipeline        *wgpu.RenderPipeline
}

func newShapesPipeline(dev *wgpu.Device, format wgpu.TextureFormat, shader *shaders.RenderShader) shapesPipeline {
	if len(shader.WGSL) == 0 {
		panic(fmt.Sprintf("shader %q has no code", shader.Name))
	}
	module := dev.CreateShaderModule(wgpu.ShaderModuleDescriptor{
		Label:  shader.Name,
		Source: wgpu.ShaderSourceWGSL(shader.WGSL),
	})
	bindLayout := dev.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Entries: bindGroupLayoutEntries(shader.Bindings),
	})
	pipelineLayout := dev.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            shader.Name + " pipeline layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{bindLayout},
	})
	defer pipelineLayout.Release()

	// The fragment stage outputs premultiplied alpha.
	blend := wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorOne,
		DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
		Operation: wgpu.BlendOperationAdd,
	}
	pipeline := dev.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  shader.Name + " pipeline",
		Layout: pipelineLayout,
		Vertex: &wgpu.VertexState{
			Module:     module,
			EntryPoint: shader.Vertex,
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: shader.Fragment,
			Targets: []wgpu.ColorTargetState{
				{
					Format:    format,
					Blend:     &wgpu.BlendState{Color: blend, Alpha: blend},
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: &wgpu.PrimitiveState{
			// One point per pixel.
			Topology:         wgpu.PrimitiveTopologyPointList,
			StripIndexFormat: ^wgpu.IndexFormat(0),
			FrontFace:        wgpu.FrontFaceCCW,
			CullMode:         wgpu.CullModeNone,
		},
		Multisample: &wgpu.MultisampleState{
			Count:                  1,
			Mask:                   ^uint32(0),
			AlphaToCoverageEnabled: false,
		},
	})
	return shapesPipeline{
		label:           shader.Name,
		bindGroupLayout: bindLayout,
		pipeline:        pipeline,
	}
}

func New(dev *wgpu.Device, options *RendererOptions) (*Engine, error) {
	r, err := renderer.New(options.Renderer)
	if err != nil {
		return nil, err
	}
	eng := &Engine{
		Device:     dev,
		options:    *options,
		renderer:   r,
		buffers:    make(map[renderer.ResourceID]*wgpu.Buffer),
		bindGroups: make(map[renderer.ResourceID]*wgpu.BindGroup),
	}
	eng.shapes = newShapesPipeline(dev, options.SurfaceFormat, &shaders.Shapes)
	vectors.Logger().Info("created engine",
		"surface_format", options.SurfaceFormat,
		"initial_draws", options.Renderer.InitialDraws,
		"initial_op_codes", options.Renderer.InitialOpCodes,
		"growth", options.Renderer.Growth)
	return eng, nil
}

// Renderer returns the renderer whose recordings the engine executes.
func (eng *Engine) Renderer() *renderer.Renderer { return eng.renderer }

// RenderToView draws enc on top of view's contents. width and height must
// match the view's size. enc must not be modified until RenderToView returns.
//
// If the device fails to allocate a buffer, the frame is dropped, all device
// resources are released and the next frame starts from scratch.
func (eng *Engine) RenderToView(
	arena *mem.Arena,
	queue *wgpu.Queue,
	enc *encoding.Encoding,
	view *wgpu.TextureView,
	width, height uint32,
	pgroup *ProfilerGroup,
) error {
	pgroup = pgroup.Nest("RenderToView")
	defer pgroup.End()

	frame := eng.renderer.Render(arena, enc, renderer.Target{Width: width, Height: height}, pgroup)
	if err := eng.RunRecording(arena, queue, &frame.Recording, view, "render_to_view", pgroup); err != nil {
		vectors.Logger().Warn("dropping frame", "error", err)
		eng.reset()
		return err
	}
	return nil
}

// RenderToSurface draws enc onto the surface's current texture.
func (eng *Engine) RenderToSurface(
	arena *mem.Arena,
	queue *wgpu.Queue,
	enc *encoding.Encoding,
	surface *wgpu.SurfaceTexture,
	width, height uint32,
	pgroup *ProfilerGroup,
) error {
	pgroup = pgroup.Nest("RenderToSurface")
	defer pgroup.End()

	ency := eng.Device.CreateCommandEncoder(nil)
	span := pgroup.Begin(ency, "total")
	cmdy := ency.Finish(nil)
	ency.Release()
	queue.Submit(cmdy)
	cmdy.Release()

	surfaceView := surface.Texture.CreateView(nil)
	defer surfaceView.Release()
	if err := eng.RenderToView(arena, queue, enc, surfaceView, width, height, pgroup); err != nil {
		return err
	}

	encoder := eng.Device.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{Label: "profiler span"})
	defer encoder.Release()
	span.End(encoder)
	cmd := encoder.Finish(nil)
	defer cmd.Release()
	queue.Submit(cmd)
	return nil
}

func (eng *Engine) reset() {
	eng.releaseAll()
	// Options were validated by New.
	r, err := renderer.New(eng.options.Renderer)
	if err != nil {
		panic(err)
	}
	eng.renderer = r
}

// Release releases all device objects owned by the engine. The engine must
// not be used afterwards.
func (eng *Engine) Release() {
	eng.releaseAll()
	eng.shapes.pipeline.Release()
	eng.shapes.bindGroupLayout.Release()
}
