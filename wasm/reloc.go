package wasm

import "bytes"

// Relocation type codes from the WebAssembly object-file format.
const (
	RelocFunctionIndexLEB  byte = 0  // function index, ULEB128 patch site
	RelocTableIndexSLEB    byte = 1  // table element index, SLEB128 patch site
	RelocTableIndexI32     byte = 2  // table element index, fixed i32 patch site
	RelocMemoryAddrLEB     byte = 3  // memory address, ULEB128 patch site
	RelocMemoryAddrSLEB    byte = 4  // memory address, SLEB128 patch site
	RelocMemoryAddrI32     byte = 5  // memory address, fixed i32 patch site
	RelocTypeIndexLEB      byte = 6  // type index, ULEB128 patch site
	RelocGlobalIndexLEB    byte = 7  // global index, ULEB128 patch site
	RelocFunctionOffsetI32 byte = 8  // byte offset within code section
	RelocSectionOffsetI32  byte = 9  // byte offset within a section
	RelocTagIndexLEB       byte = 10 // tag index, ULEB128 patch site
)

// Reloc is one relocation record against a chunk's payload. Offset is
// relative to the start of the owning chunk's bytes.
type Reloc struct {
	Type   byte
	Offset uint32
	Index  uint32
	Addend int64
}

// RelocTypeHasAddend reports whether records of the given type carry a
// signed addend field in the encoded relocation section.
func RelocTypeHasAddend(t byte) bool {
	switch t {
	case RelocMemoryAddrLEB, RelocMemoryAddrSLEB, RelocMemoryAddrI32,
		RelocFunctionOffsetI32, RelocSectionOffsetI32:
		return true
	}
	return false
}

// Append encodes the record into buf, shifting its offset by delta (the
// owning chunk's offset within the output section body).
func (r Reloc) Append(buf *bytes.Buffer, delta uint32) {
	WriteLEB128u(buf, uint32(r.Type))
	WriteLEB128u(buf, r.Offset+delta)
	WriteLEB128u(buf, r.Index)
	if RelocTypeHasAddend(r.Type) {
		WriteLEB128s64(buf, r.Addend)
	}
}
