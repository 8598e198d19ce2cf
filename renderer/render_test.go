package renderer

import (
	"testing"

	"github.com/tiaanl/wgpu-vectors/encoding"
	"github.com/tiaanl/wgpu-vectors/jmath"
	"github.com/tiaanl/wgpu-vectors/mem"

	"honnef.co/go/safeish"
)

func newRenderer(t *testing.T, opts Options) *Renderer {
	t.Helper()
	r, err := New(opts)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func sceneWith(n int) *encoding.Encoding {
	var enc encoding.Encoding
	for i := range n {
		c := jmath.Vec(float32(10+20*i), 50)
		enc.Draw(
			encoding.NewRectangle(c, jmath.Vec(8, 8)).WithCornerRadius(2),
			encoding.SolidFill(1, 0, 0, 1),
			encoding.SolidStroke(0, 0, 0, 1, 1),
		)
	}
	return &enc
}

func writesTo(rec *Recording, name string) []*WriteBuffer {
	var out []*WriteBuffer
	for _, w := range commandsOf[*WriteBuffer](rec) {
		if w.Buffer.Name == name {
			out = append(out, w)
		}
	}
	return out
}

func TestTileGrid(t *testing.T) {
	tests := []struct {
		w, h   uint32
		tx, ty uint32
	}{
		{0, 0, 0, 0},
		{1, 1, 1, 1},
		{16, 16, 1, 1},
		{17, 16, 2, 1},
		{100, 50, 7, 4},
		{1920, 1080, 120, 68},
	}
	for _, tt := range tests {
		tx, ty := TileGrid(tt.w, tt.h)
		if tx != tt.tx || ty != tt.ty {
			t.Errorf("TileGrid(%d, %d) = %d, %d; want %d, %d", tt.w, tt.h, tx, ty, tt.tx, tt.ty)
		}
	}
}

func TestRenderFirstFrame(t *testing.T) {
	a := mem.NewArena()
	r := newRenderer(t, DefaultOptions())
	enc := sceneWith(1)

	frame := r.Render(a, enc, Target{Width: 100, Height: 50}, nil)
	rec := &frame.Recording

	if !frame.BindingsRebuilt || !frame.GlobalsWritten {
		t.Errorf("first frame: rebuilt=%t globals=%t, want both", frame.BindingsRebuilt, frame.GlobalsWritten)
	}
	if n := len(commandsOf[*CreateBuffer](rec)); n != 3 {
		t.Errorf("created %d buffers, want 3", n)
	}
	if n := len(commandsOf[*FreeBuffer](rec)); n != 0 {
		t.Errorf("freed %d buffers", n)
	}

	draws := writesTo(rec, "draws")
	if len(draws) != 1 || len(draws[0].Data) != encoding.DrawSize {
		t.Fatalf("unexpected draw writes: %v", draws)
	}
	ops := writesTo(rec, "op_codes")
	if len(ops) != 1 || len(ops[0].Data) != 4*len(enc.OpCodes) {
		t.Fatalf("unexpected op-code writes: %v", ops)
	}
	globals := writesTo(rec, "globals")
	if len(globals) != 1 {
		t.Fatalf("got %d globals writes, want 1", len(globals))
	}
	g := safeish.SliceCast[[]Globals](globals[0].Data)[0]
	want := Globals{ViewWidth: 100, ViewHeight: 50, NumDraws: 1, TilesX: 7}
	if g != want {
		t.Errorf("globals = %+v, want %+v", g, want)
	}

	bgs := commandsOf[*CreateBindGroup](rec)
	if len(bgs) != 1 {
		t.Fatalf("created %d bind groups, want 1", len(bgs))
	}
	b := bgs[0].Bindings
	if len(b) != 3 ||
		b[BindingDraws] != r.DrawBuffer().Buffer() ||
		b[BindingOpCodes] != r.OpCodeBuffer().Buffer() ||
		b[BindingGlobals].Usage != BufferUsageUniform {
		t.Errorf("unexpected bindings: %v", b)
	}

	passes := commandsOf[*DrawTiles](rec)
	if len(passes) != 1 {
		t.Fatalf("recorded %d passes, want 1", len(passes))
	}
	p := passes[0]
	if p.Vertices != 256 || p.Instances != 28 || p.BindGroup != r.BindGroup() {
		t.Errorf("unexpected pass: %s", p)
	}
	// The pass comes last, after all uploads.
	if rec.Commands[len(rec.Commands)-1] != Command(p) {
		t.Errorf("pass isn't the last command:\n%s", rec)
	}
}

func TestRenderIdempotent(t *testing.T) {
	a := mem.NewArena()
	r := newRenderer(t, DefaultOptions())
	enc := sceneWith(4)
	target := Target{Width: 300, Height: 300}

	r.Render(a, enc, target, nil)
	bg := r.BindGroup()
	frame := r.Render(a, enc, target, nil)
	rec := &frame.Recording

	if frame.BindingsRebuilt {
		t.Error("second frame rebuilt the bind group")
	}
	if frame.GlobalsWritten {
		t.Error("second frame rewrote the globals")
	}
	if r.BindGroup() != bg {
		t.Error("bind group changed")
	}
	for _, cmd := range rec.Commands {
		switch cmd.(type) {
		case *CreateBuffer, *FreeBuffer, *CreateBindGroup, *FreeBindGroup:
			t.Errorf("unexpected command %s", cmd)
		}
	}
	// The contents still get uploaded every frame.
	if len(writesTo(rec, "draws")) != 1 || len(writesTo(rec, "op_codes")) != 1 {
		t.Errorf("missing uploads:\n%s", rec)
	}
}

func TestRenderGrowsBothBuffers(t *testing.T) {
	a := mem.NewArena()
	r := newRenderer(t, Options{InitialDraws: 1, InitialOpCodes: 1, Growth: GrowPowerOfTwo})
	target := Target{Width: 64, Height: 64}

	first := r.Render(a, sceneWith(1), target, nil)
	if n := len(commandsOf[*FreeBuffer](&first.Recording)); n != 0 {
		t.Errorf("first frame freed %d buffers", n)
	}
	oldDraws, oldOps := r.DrawBuffer().Buffer(), r.OpCodeBuffer().Buffer()
	oldBG := r.BindGroup()

	// Both buffers are too small now. The op-code buffer must grow even
	// though the draw buffer already did.
	frame := r.Render(a, sceneWith(3), target, nil)
	rec := &frame.Recording
	frees := commandsOf[*FreeBuffer](rec)
	if len(frees) != 2 || frees[0].Buffer != oldDraws || frees[1].Buffer != oldOps {
		t.Fatalf("unexpected frees: %v", frees)
	}
	if got := r.DrawBuffer().Capacity(); got != 64 {
		t.Errorf("draw capacity = %d, want 64", got)
	}
	if got := r.OpCodeBuffer().Capacity(); got != 256 {
		t.Errorf("op-code capacity = %d, want 256", got)
	}
	if !frame.BindingsRebuilt {
		t.Fatal("bind group wasn't rebuilt after growth")
	}
	fbg := commandsOf[*FreeBindGroup](rec)
	if len(fbg) != 1 || fbg[0].BindGroup != oldBG {
		t.Errorf("old bind group wasn't freed: %v", fbg)
	}
	bgs := commandsOf[*CreateBindGroup](rec)
	if len(bgs) != 1 || bgs[0].Bindings[BindingOpCodes] != r.OpCodeBuffer().Buffer() {
		t.Errorf("new bind group doesn't reference the new op-code buffer")
	}
}

func TestRenderRebuildsOnOpCodeGrowthOnly(t *testing.T) {
	a := mem.NewArena()
	r := newRenderer(t, Options{InitialDraws: 100, InitialOpCodes: 17, Growth: GrowExact})
	target := Target{Width: 64, Height: 64}

	r.Render(a, sceneWith(1), target, nil)
	frame := r.Render(a, sceneWith(2), target, nil)
	if !frame.BindingsRebuilt {
		t.Error("bind group wasn't rebuilt after the op-code buffer grew")
	}
	if n := len(commandsOf[*FreeBuffer](&frame.Recording)); n != 1 {
		t.Errorf("freed %d buffers, want 1", n)
	}
}

func TestRenderGlobals(t *testing.T) {
	a := mem.NewArena()
	r := newRenderer(t, DefaultOptions())
	enc := sceneWith(2)

	r.Render(a, enc, Target{Width: 64, Height: 64}, nil)

	// Resizing rewrites the globals but leaves the bind group alone.
	frame := r.Render(a, enc, Target{Width: 33, Height: 64}, nil)
	if !frame.GlobalsWritten || frame.BindingsRebuilt {
		t.Errorf("resize: globals=%t rebuilt=%t", frame.GlobalsWritten, frame.BindingsRebuilt)
	}
	ws := writesTo(&frame.Recording, "globals")
	if len(ws) != 1 {
		t.Fatalf("got %d globals writes", len(ws))
	}
	if g := safeish.SliceCast[[]Globals](ws[0].Data)[0]; g.ViewWidth != 33 || g.TilesX != 3 {
		t.Errorf("unexpected globals %+v", g)
	}

	// So does a different number of draws.
	frame = r.Render(a, sceneWith(3), Target{Width: 33, Height: 64}, nil)
	if !frame.GlobalsWritten {
		t.Error("draw count change didn't rewrite the globals")
	}
}

func TestRenderZeroDraws(t *testing.T) {
	a := mem.NewArena()
	r := newRenderer(t, DefaultOptions())
	frame := r.Render(a, &encoding.Encoding{}, Target{Width: 32, Height: 32}, nil)
	rec := &frame.Recording

	if len(writesTo(rec, "draws")) != 0 || len(writesTo(rec, "op_codes")) != 0 {
		t.Errorf("empty encoding produced uploads:\n%s", rec)
	}
	if n := len(commandsOf[*CreateBindGroup](rec)); n != 1 {
		t.Fatalf("created %d bind groups, want 1", n)
	}
	passes := commandsOf[*DrawTiles](rec)
	if len(passes) != 1 || passes[0].Instances != 4 {
		t.Errorf("unexpected passes: %v", passes)
	}
}

func TestRenderZeroAreaTarget(t *testing.T) {
	a := mem.NewArena()
	r := newRenderer(t, DefaultOptions())
	for _, target := range []Target{{0, 0}, {0, 100}, {100, 0}} {
		frame := r.Render(a, sceneWith(1), target, nil)
		if n := len(commandsOf[*DrawTiles](&frame.Recording)); n != 0 {
			t.Errorf("%dx%d: recorded %d passes", target.Width, target.Height, n)
		}
	}
}

func TestRendererRelease(t *testing.T) {
	a := mem.NewArena()
	r := newRenderer(t, DefaultOptions())
	r.Render(a, sceneWith(1), Target{Width: 16, Height: 16}, nil)

	rec := r.Release(a)
	if n := len(commandsOf[*FreeBuffer](&rec)); n != 3 {
		t.Errorf("freed %d buffers, want 3", n)
	}
	if n := len(commandsOf[*FreeBindGroup](&rec)); n != 1 {
		t.Errorf("freed %d bind groups, want 1", n)
	}

	frame := r.Render(a, sceneWith(1), Target{Width: 16, Height: 16}, nil)
	if n := len(commandsOf[*CreateBuffer](&frame.Recording)); n != 3 {
		t.Errorf("created %d buffers after release, want 3", n)
	}
	if !frame.BindingsRebuilt || !frame.GlobalsWritten {
		t.Error("renderer didn't start over after release")
	}
}

func TestNewRejectsInvalidOptions(t *testing.T) {
	if _, err := New(Options{InitialDraws: -1}); err == nil {
		t.Error("expected error")
	}
}
