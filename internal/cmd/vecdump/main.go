// vecdump encodes a scene and prints what the renderer would send to the
// device: the op-code stream, the draw table and the recording of device
// commands.
package main

import (
	"bytes"
	_ "embed"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"text/tabwriter"

	vectors "github.com/tiaanl/wgpu-vectors"
	"github.com/tiaanl/wgpu-vectors/encoding"
	"github.com/tiaanl/wgpu-vectors/mem"
	"github.com/tiaanl/wgpu-vectors/renderer"
	"github.com/tiaanl/wgpu-vectors/scenefile"

	"honnef.co/go/safeish"
)

//go:embed demo.toml
var demoScene []byte

func main() {
	var (
		scenePath  string
		configPath string
		out        string
		width      uint
		height     uint
		frames     int
		strict     bool
		verbose    bool
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [-v] [-strict] [-scene <file>] [-config <file>] [-out <dir>]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.StringVar(&scenePath, "scene", "", "Path to scene `file`; the built-in demo scene if empty")
	flag.StringVar(&configPath, "config", "", "Path to renderer options `file`")
	flag.StringVar(&out, "out", "", "Write draws.bin, op_codes.bin and globals.bin to `directory`")
	flag.UintVar(&width, "width", 800, "Target width in pixels")
	flag.UintVar(&height, "height", 600, "Target height in pixels")
	flag.IntVar(&frames, "frames", 1, "Number of frames to render")
	flag.BoolVar(&strict, "strict", false, "Reject scenes with non-finite or negative sizes")
	flag.BoolVar(&verbose, "v", false, "Be verbose")
	flag.Parse()

	if len(flag.Args()) != 0 || frames < 1 {
		flag.Usage()
		os.Exit(2)
	}

	dief := func(f string, v ...any) {
		fmt.Fprintf(os.Stderr, f, v...)
		fmt.Fprintln(os.Stderr)
		os.Exit(1)
	}

	if verbose {
		vectors.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	opts := renderer.DefaultOptions()
	if configPath != "" {
		var err error
		opts, err = renderer.LoadOptions(configPath)
		if err != nil {
			dief("Couldn't load options: %s", err)
		}
	}

	var (
		scene *scenefile.Scene
		err   error
	)
	if scenePath == "" {
		scene, err = scenefile.Decode(bytes.NewReader(demoScene))
	} else {
		scene, err = scenefile.Load(scenePath)
	}
	if err != nil {
		dief("Couldn't load scene: %s", err)
	}

	var enc encoding.Encoding
	if err := scene.Encode(&enc, strict); err != nil {
		dief("Couldn't encode scene: %s", err)
	}

	w := os.Stdout
	printOpCodes(w, &enc)
	fmt.Fprintln(w)
	printDraws(w, &enc)

	r, err := renderer.New(opts)
	if err != nil {
		dief("Couldn't create renderer: %s", err)
	}
	arena := mem.NewArena()
	target := renderer.Target{Width: uint32(width), Height: uint32(height)}
	var globals []byte
	for i := range frames {
		arena.Reset()
		frame := r.Render(arena, &enc, target, nil)
		fmt.Fprintf(w, "\nframe %d: %dx%d tiles, bind group rebuilt: %t, globals written: %t\n",
			i, frame.TilesX, frame.TilesY, frame.BindingsRebuilt, frame.GlobalsWritten)
		fmt.Fprint(w, frame.Recording.String())
		if data := globalsWrite(&frame.Recording); data != nil {
			globals = data
		}
	}

	if out != "" {
		if err := os.MkdirAll(out, 0777); err != nil {
			dief("Couldn't create output directory: %s", err)
		}
		files := map[string][]byte{
			"draws.bin":    safeish.SliceCast[[]byte](enc.Draws),
			"op_codes.bin": safeish.SliceCast[[]byte](enc.OpCodes),
		}
		if globals != nil {
			files["globals.bin"] = globals
		}
		for name, data := range files {
			if err := os.WriteFile(filepath.Join(out, name), data, 0666); err != nil {
				dief("Couldn't write %s: %s", name, err)
			}
			if verbose {
				fmt.Fprintf(os.Stderr, "wrote %d bytes to %s\n", len(data), name)
			}
		}
	}
}

func printOpCodes(w io.Writer, enc *encoding.Encoding) {
	fmt.Fprintf(w, "op codes (%d words):\n", len(enc.OpCodes))
	i := 0
	for dec, err := range enc.Decode() {
		if err != nil {
			fmt.Fprintf(w, "  %s\n", err)
			return
		}
		off := enc.Draws[i].OpCodeOffset
		fmt.Fprintf(w, "  %4d: %-9s %v fill=%v feather=%g",
			off, dec.Kind, dec.Params, dec.Fill.Color, dec.Fill.Feather)
		if dec.Stroke.IsNone() {
			fmt.Fprintln(w, " stroke=none")
		} else {
			fmt.Fprintf(w, " stroke=%v thickness=%g feather=%g\n",
				dec.Stroke.Color, dec.Stroke.Thickness, dec.Stroke.Feather)
		}
		i++
	}
}

func printDraws(w io.Writer, enc *encoding.Encoding) {
	fmt.Fprintf(w, "draws (%d records, %d bytes):\n", len(enc.Draws), len(enc.Draws)*encoding.DrawSize)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "  #\tleft\ttop\tright\tbottom\toffset\t")
	for i, d := range enc.Draws {
		fmt.Fprintf(tw, "  %d\t%g\t%g\t%g\t%g\t%d\t\n", i, d.Left, d.Top, d.Right, d.Bottom, d.OpCodeOffset)
	}
	tw.Flush()
}

// globalsWrite returns a copy of the data of rec's last write to the globals
// buffer, or nil if rec doesn't write it. The copy outlives the arena the
// recording was built in.
func globalsWrite(rec *renderer.Recording) []byte {
	var data []byte
	for _, cmd := range rec.Commands {
		if cmd, ok := cmd.(*renderer.WriteBuffer); ok && cmd.Buffer.Name == "globals" {
			data = bytes.Clone(cmd.Data)
		}
	}
	return data
}
