package renderer

import (
	"fmt"
	"unsafe"

	vectors "github.com/tiaanl/wgpu-vectors"
	"github.com/tiaanl/wgpu-vectors/jmath"
	"github.com/tiaanl/wgpu-vectors/mem"

	"honnef.co/go/safeish"
)

// Device buffers are never smaller than this, so that even an empty buffer
// satisfies minimum binding sizes.
const minBufferSize = 16

// GrowthPolicy decides the capacity of a reallocated buffer.
type GrowthPolicy int

const (
	// Round the required size up to the next power of two.
	GrowPowerOfTwo GrowthPolicy = iota
	// Allocate exactly the required size.
	GrowExact
)

// Grow returns the capacity to allocate for required bytes. The result is
// never smaller than required.
func (g GrowthPolicy) Grow(required uint64) uint64 {
	switch g {
	case GrowPowerOfTwo:
		if n := jmath.NextPowerOfTwo(required); n >= required {
			return n
		}
		// Overflow
		return required
	case GrowExact:
		return required
	default:
		panic(fmt.Sprintf("invalid growth policy %d", int(g)))
	}
}

func (g GrowthPolicy) String() string {
	switch g {
	case GrowPowerOfTwo:
		return "pow2"
	case GrowExact:
		return "exact"
	default:
		return fmt.Sprintf("GrowthPolicy(%d)", int(g))
	}
}

func (g GrowthPolicy) MarshalText() ([]byte, error) {
	switch g {
	case GrowPowerOfTwo, GrowExact:
		return []byte(g.String()), nil
	default:
		return nil, fmt.Errorf("invalid growth policy %d", int(g))
	}
}

func (g *GrowthPolicy) UnmarshalText(b []byte) error {
	switch string(b) {
	case "pow2":
		*g = GrowPowerOfTwo
	case "exact":
		*g = GrowExact
	default:
		return fmt.Errorf("unknown growth policy %q, want \"pow2\" or \"exact\"", b)
	}
	return nil
}

// VecBuffer is a device buffer holding a slice of T. Its capacity only ever
// grows. T must not contain pointers; its in-memory bytes are uploaded as is.
//
// The device buffer is created lazily by the first Write, at the initial
// capacity or larger.
type VecBuffer[T any] struct {
	label  string
	usage  BufferUsage
	growth GrowthPolicy

	buffer BufferProxy
	// Capacity in bytes.
	capacity uint64
}

// NewVecBuffer returns a buffer with room for capacity items.
func NewVecBuffer[T any](label string, usage BufferUsage, capacity int, growth GrowthPolicy) *VecBuffer[T] {
	if capacity < 0 {
		panic(fmt.Sprintf("negative capacity %d", capacity))
	}
	size := uint64(unsafe.Sizeof(*new(T)))
	return &VecBuffer[T]{
		label:    label,
		usage:    usage,
		growth:   growth,
		capacity: max(size*uint64(capacity), size, minBufferSize),
	}
}

// Write records an upload of items to the start of the buffer. If items don't
// fit, it first records the release of the current buffer and the creation of
// a larger one, and reports true. Callers must then rebuild anything that
// refers to the old buffer.
func (b *VecBuffer[T]) Write(arena *mem.Arena, rec *Recording, items []T) (reallocated bool) {
	data := safeish.SliceCast[[]byte](items)
	required := uint64(len(data))

	if required > b.capacity {
		newCapacity := max(b.growth.Grow(required), minBufferSize)
		vectors.Logger().Debug("growing buffer",
			"label", b.label,
			"required", required,
			"old_capacity", b.capacity,
			"new_capacity", newCapacity)
		if b.buffer.IsValid() {
			rec.FreeBuffer(arena, b.buffer)
		}
		b.capacity = newCapacity
		b.buffer = rec.CreateBuffer(arena, b.label, b.capacity, b.usage)
		reallocated = true
	} else if !b.buffer.IsValid() {
		b.buffer = rec.CreateBuffer(arena, b.label, b.capacity, b.usage)
	}

	rec.WriteBuffer(arena, b.buffer, data)
	return reallocated
}

// Capacity returns the buffer's capacity in bytes.
func (b *VecBuffer[T]) Capacity() uint64 { return b.capacity }

// Buffer returns the current device buffer. It is invalid before the first
// call to Write.
func (b *VecBuffer[T]) Buffer() BufferProxy { return b.buffer }

func (b *VecBuffer[T]) Label() string { return b.label }
