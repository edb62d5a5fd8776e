package emit

import (
	"bytes"

	"github.com/wippyai/wasm-linker/wasm"
)

// Segment groups data chunks that share a placement policy: active
// (materialized at a fixed virtual address at instantiation time), passive
// (copied explicitly at runtime), or zero-filled BSS (occupies address
// space but contributes no bytes and no count entry to the data section).
type Segment struct {
	Name string

	// InitFlags is the segment's encoded flag field
	// (wasm.DataSegmentIsPassive, wasm.DataSegmentHasMemIndex).
	InitFlags uint32

	// StartVA is the virtual address where an active segment is placed.
	// Ignored for passive and BSS segments.
	StartVA uint64

	// IsBss marks a zero-filled segment, skipped entirely on emit.
	IsBss bool

	chunks        []*DataChunk
	size          uint32
	header        []byte
	sectionOffset uint32
}

// NewSegment creates a segment with the given placement flags.
func NewSegment(name string, initFlags uint32, startVA uint64) *Segment {
	return &Segment{Name: name, InitFlags: initFlags, StartVA: startVA}
}

// NewBssSegment creates a zero-filled segment of the given virtual size.
func NewBssSegment(name string, startVA uint64, size uint32) *Segment {
	return &Segment{Name: name, StartVA: startVA, IsBss: true, size: size}
}

// AddChunk appends a chunk to the segment's payload, assigning it the next
// intra-segment offset. The segment exclusively owns its chunks.
func (s *Segment) AddChunk(c *DataChunk) {
	c.segOff = s.size
	s.size += c.Size()
	s.chunks = append(s.chunks, c)
}

// Size returns the segment's payload byte count.
func (s *Segment) Size() uint32 { return s.size }

// IsActive reports whether the segment is materialized at instantiation
// time: not passive and not BSS.
func (s *Segment) IsActive() bool {
	return !s.IsBss && s.InitFlags&wasm.DataSegmentIsPassive == 0
}

// buildHeader encodes the per-segment record prefix: flags, the optional
// explicit memory index, the initializer expression for active segments,
// and the payload size.
func (s *Segment) buildHeader(cfg *Config) {
	var buf bytes.Buffer
	wasm.WriteLEB128u(&buf, s.InitFlags)
	if s.InitFlags&wasm.DataSegmentHasMemIndex != 0 {
		wasm.WriteLEB128u(&buf, 0)
	}
	if s.InitFlags&wasm.DataSegmentIsPassive == 0 {
		switch {
		case cfg.IsPIC:
			buf.WriteByte(wasm.OpGlobalGet)
			wasm.WriteLEB128u(&buf, cfg.MemoryBaseIndex)
		case cfg.Is64:
			buf.WriteByte(wasm.OpI64Const)
			wasm.WriteLEB128s64(&buf, int64(s.StartVA))
		default:
			buf.WriteByte(wasm.OpI32Const)
			wasm.WriteLEB128s(&buf, int32(s.StartVA))
		}
		buf.WriteByte(wasm.OpEnd)
	}
	wasm.WriteLEB128u(&buf, s.size)
	s.header = buf.Bytes()
}
