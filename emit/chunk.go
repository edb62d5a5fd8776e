package emit

import (
	"bytes"

	"github.com/wippyai/wasm-linker/wasm"
)

// ChunkKind identifies the concrete variant of an input chunk.
type ChunkKind uint8

const (
	ChunkFunction        ChunkKind = iota // compiled function body
	ChunkData                             // raw data blob
	ChunkMerge                            // mergeable string/constant pool
	ChunkSyntheticMerged                  // merged pool synthesized by the linker
)

// Chunk is the smallest unit of emittable content: it has a computed size,
// a byte representation, and relocation records against its payload.
//
// Chunks arrive from the resolution stage fully formed but unsized; the
// owning section's FinalizeContents assigns each chunk its offset within
// the section body and triggers its size computation. WriteTo is a pure
// read of that finalized state.
//
// The set of chunk kinds is closed; outside packages cannot implement it.
type Chunk interface {
	Kind() ChunkKind
	Name() string

	// Size returns the chunk's final byte count. Valid only once the
	// owning section has been finalized.
	Size() uint32

	// WriteTo copies the chunk's bytes into the owning section's body
	// slice at the chunk's assigned offset.
	WriteTo(body []byte)

	// Discarded reports whether the elimination stage dropped this chunk.
	// Discarded chunks must never survive into section finalize.
	Discarded() bool

	NumRelocations() uint32
	WriteRelocations(buf *bytes.Buffer)

	setOutSecOff(off uint32)
	outSecOffset() uint32
}

// chunkBase carries the state shared by every chunk kind.
type chunkBase struct {
	name      string
	outSecOff uint32
	relocs    []wasm.Reloc
	discarded bool
}

func (c *chunkBase) Name() string            { return c.name }
func (c *chunkBase) Discarded() bool         { return c.discarded }
func (c *chunkBase) setOutSecOff(off uint32) { c.outSecOff = off }
func (c *chunkBase) outSecOffset() uint32    { return c.outSecOff }

func (c *chunkBase) NumRelocations() uint32 { return uint32(len(c.relocs)) }

// WriteRelocations emits the chunk's records with offsets shifted to be
// relative to the owning section's body.
func (c *chunkBase) WriteRelocations(buf *bytes.Buffer) {
	for _, r := range c.relocs {
		r.Append(buf, c.outSecOff)
	}
}

// Discard marks the chunk as dropped by the elimination stage.
func (c *chunkBase) Discard() { c.discarded = true }

// FunctionChunk is one compiled function body destined for the code
// section. The body bytes include the locals vector but not the
// size prefix, which the chunk computes for itself during finalize.
type FunctionChunk struct {
	chunkBase
	body       []byte
	sizePrefix []byte
}

// NewFunctionChunk creates a function chunk from a resolved body.
func NewFunctionChunk(name string, body []byte, relocs ...wasm.Reloc) *FunctionChunk {
	return &FunctionChunk{
		chunkBase: chunkBase{name: name, relocs: relocs},
		body:      body,
	}
}

func (f *FunctionChunk) Kind() ChunkKind { return ChunkFunction }

// calculateSize computes the size prefix. Idempotent.
func (f *FunctionChunk) calculateSize() {
	if f.sizePrefix != nil {
		return
	}
	f.sizePrefix = wasm.EncodeLEB128u(uint32(len(f.body)))
}

func (f *FunctionChunk) Size() uint32 {
	return uint32(len(f.sizePrefix) + len(f.body))
}

func (f *FunctionChunk) WriteTo(body []byte) {
	n := copy(body[f.outSecOff:], f.sizePrefix)
	copy(body[f.outSecOff+uint32(n):], f.body)
}

// DataChunk is a raw data blob owned by exactly one segment. Its offset
// within the segment payload is assigned when it is added to the segment;
// its offset within the data section body is composed during finalize.
type DataChunk struct {
	chunkBase
	data   []byte
	segOff uint32
}

// NewDataChunk creates a data chunk from a resolved blob.
func NewDataChunk(name string, data []byte, relocs ...wasm.Reloc) *DataChunk {
	return &DataChunk{
		chunkBase: chunkBase{name: name, relocs: relocs},
		data:      data,
	}
}

func (d *DataChunk) Kind() ChunkKind { return ChunkData }
func (d *DataChunk) Size() uint32    { return uint32(len(d.data)) }

// SegmentOffset returns the chunk's offset within its segment payload.
func (d *DataChunk) SegmentOffset() uint32 { return d.segOff }

func (d *DataChunk) WriteTo(body []byte) {
	copy(body[d.outSecOff:], d.data)
}
