package main

import (
	"bytes"
	"testing"

	"github.com/tiaanl/wgpu-vectors/encoding"
	"github.com/tiaanl/wgpu-vectors/jmath"
	"github.com/tiaanl/wgpu-vectors/mem"
	"github.com/tiaanl/wgpu-vectors/renderer"

	"honnef.co/go/safeish"
)

func TestGlobalsWriteSurvivesLaterFrames(t *testing.T) {
	var enc encoding.Encoding
	enc.Draw(encoding.NewCircle(jmath.Vec(10, 10), 5), encoding.SolidFill(1, 0, 0, 1), encoding.NoStroke())

	r, err := renderer.New(renderer.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	want := renderer.Globals{ViewWidth: 40, ViewHeight: 20, NumDraws: 1, TilesX: 3}
	wantBytes := bytes.Clone(safeish.SliceCast[[]byte]([]renderer.Globals{want}))

	arena := mem.NewArena()
	target := renderer.Target{Width: 40, Height: 20}
	var globals []byte
	for i := range 3 {
		arena.Reset()
		frame := r.Render(arena, &enc, target, nil)
		data := globalsWrite(&frame.Recording)
		if (data != nil) != (i == 0) {
			t.Fatalf("frame %d: globals written = %t", i, data != nil)
		}
		if data != nil {
			globals = data
		}
		// Clobber the arena the way the next frame would.
		arena.Reset()
		mem.MakeSlice(arena, make([]byte, 64))
	}
	if !bytes.Equal(globals, wantBytes) {
		t.Errorf("globals = %v, want %v", globals, wantBytes)
	}
}
