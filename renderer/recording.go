package renderer

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/tiaanl/wgpu-vectors/mem"
)

var resourceID atomic.Uint64

func nextResourceID() ResourceID {
	return ResourceID(resourceID.Add(1))
}

// ResourceID identifies a device resource across recordings. IDs are never
// reused.
type ResourceID uint64

type BufferUsage int

const (
	// Read-only storage buffer, bound to the fragment stage.
	BufferUsageStorage BufferUsage = iota + 1
	// Uniform buffer, bound to the vertex and fragment stages.
	BufferUsageUniform
)

func (u BufferUsage) String() string {
	switch u {
	case BufferUsageStorage:
		return "storage"
	case BufferUsageUniform:
		return "uniform"
	default:
		return fmt.Sprintf("BufferUsage(%d)", int(u))
	}
}

// A Recording is a list of device commands produced by the renderer and
// executed by an engine. Data slices in commands alias memory owned by the
// caller, usually the encoding and the arena, and must stay valid until the
// recording has been executed.
type Recording struct {
	Commands []Command
}

func (rec *Recording) push(arena *mem.Arena, cmd Command) {
	rec.Commands = mem.Append(arena, rec.Commands, cmd)
}

func (rec *Recording) CreateBuffer(arena *mem.Arena, name string, size uint64, usage BufferUsage) BufferProxy {
	buf := NewBufferProxy(size, name, usage)
	rec.push(arena, mem.Make(arena, CreateBuffer{buf}))
	return buf
}

// WriteBuffer records a write of data to the start of buf. Empty writes are
// dropped.
func (rec *Recording) WriteBuffer(arena *mem.Arena, buf BufferProxy, data []byte) {
	if len(data) == 0 {
		return
	}
	if uint64(len(data)) > buf.Size {
		panic(fmt.Sprintf("writing %d bytes to buffer %q of size %d", len(data), buf.Name, buf.Size))
	}
	rec.push(arena, mem.Make(arena, WriteBuffer{buf, data}))
}

func (rec *Recording) FreeBuffer(arena *mem.Arena, buf BufferProxy) {
	rec.push(arena, mem.Make(arena, FreeBuffer{buf}))
}

// CreateBindGroup records the creation of a bind group whose i-th binding is
// bindings[i].
func (rec *Recording) CreateBindGroup(arena *mem.Arena, name string, bindings []BufferProxy) BindGroupProxy {
	bg := BindGroupProxy{ID: nextResourceID(), Name: name}
	rec.push(arena, mem.Make(arena, CreateBindGroup{bg, mem.MakeSlice(arena, bindings)}))
	return bg
}

func (rec *Recording) FreeBindGroup(arena *mem.Arena, bg BindGroupProxy) {
	rec.push(arena, mem.Make(arena, FreeBindGroup{bg}))
}

func (rec *Recording) DrawTiles(arena *mem.Arena, cmd DrawTiles) {
	rec.push(arena, mem.Make(arena, cmd))
}

// String returns one line per command.
func (rec *Recording) String() string {
	var sb strings.Builder
	for i, cmd := range rec.Commands {
		fmt.Fprintf(&sb, "%3d %s\n", i, cmd)
	}
	return sb.String()
}

func NewBufferProxy(size uint64, name string, usage BufferUsage) BufferProxy {
	id := nextResourceID()
	return BufferProxy{size, id, name, usage}
}

type BufferProxy struct {
	Size  uint64
	ID    ResourceID
	Name  string
	Usage BufferUsage
}

func (p BufferProxy) IsValid() bool { return p.ID != 0 }

func (p BufferProxy) String() string {
	return fmt.Sprintf("%s#%d(%s, %d bytes)", p.Name, p.ID, p.Usage, p.Size)
}

type BindGroupProxy struct {
	ID   ResourceID
	Name string
}

func (p BindGroupProxy) IsValid() bool { return p.ID != 0 }

func (p BindGroupProxy) String() string {
	return fmt.Sprintf("%s#%d", p.Name, p.ID)
}

type Command interface {
	isCommand()
	String() string
}

func (*CreateBuffer) isCommand()    {}
func (*WriteBuffer) isCommand()     {}
func (*FreeBuffer) isCommand()      {}
func (*CreateBindGroup) isCommand() {}
func (*FreeBindGroup) isCommand()   {}
func (*DrawTiles) isCommand()       {}

type CreateBuffer struct {
	Buffer BufferProxy
}

type WriteBuffer struct {
	Buffer BufferProxy
	Data   []byte
}

type FreeBuffer struct {
	Buffer BufferProxy
}

type CreateBindGroup struct {
	BindGroup BindGroupProxy
	Bindings  []BufferProxy
}

type FreeBindGroup struct {
	BindGroup BindGroupProxy
}

// DrawTiles renders one tile pass onto the target. The pass loads the
// target's existing contents.
type DrawTiles struct {
	BindGroup BindGroupProxy
	// Invocations per tile.
	Vertices uint32
	// One instance per tile, row-major.
	Instances uint32
	Width     uint32
	Height    uint32
}

func (cmd *CreateBuffer) String() string { return fmt.Sprintf("create buffer %s", cmd.Buffer) }
func (cmd *WriteBuffer) String() string {
	return fmt.Sprintf("write buffer %s: %d bytes", cmd.Buffer, len(cmd.Data))
}
func (cmd *FreeBuffer) String() string { return fmt.Sprintf("free buffer %s", cmd.Buffer) }
func (cmd *CreateBindGroup) String() string {
	names := make([]string, len(cmd.Bindings))
	for i, b := range cmd.Bindings {
		names[i] = fmt.Sprintf("%d=%s#%d", i, b.Name, b.ID)
	}
	return fmt.Sprintf("create bind group %s [%s]", cmd.BindGroup, strings.Join(names, " "))
}
func (cmd *FreeBindGroup) String() string { return fmt.Sprintf("free bind group %s", cmd.BindGroup) }
func (cmd *DrawTiles) String() string {
	return fmt.Sprintf("draw tiles %s: %d vertices × %d instances on %dx%d",
		cmd.BindGroup, cmd.Vertices, cmd.Instances, cmd.Width, cmd.Height)
}
