package emit

import (
	"bytes"

	"go.uber.org/zap"

	"github.com/wippyai/wasm-linker/errors"
	"github.com/wippyai/wasm-linker/wasm"
)

// Section is one top-level division of the output module. The set of
// section kinds is closed: CodeSection, DataSection, CustomSection and
// SyntheticSection.
type Section interface {
	// Type returns the section's binary type tag.
	Type() byte

	// Name returns the custom section name, empty for typed sections.
	Name() string

	// String returns the diagnostic form, e.g. "CUSTOM(.debug_str)".
	String() string

	// FinalizeContents computes the section's body size, builds its
	// headers, and assigns every child its offset. Idempotent: calling it
	// on an already-finalized section is a no-op.
	FinalizeContents(cfg *Config)

	// Size returns header length + body length. Panics before finalize.
	Size() uint32

	// Offset returns the section's absolute file offset, assigned by the
	// owning module once every section's size is known.
	Offset() uint32
	SetOffset(off uint32)

	// IsNeeded reports whether the section would carry any content; the
	// module omits sections that report false.
	IsNeeded() bool

	// WriteTo copies the finalized section into its byte range of buf,
	// the whole-module output buffer. It never mutates layout state.
	WriteTo(buf []byte)

	NumRelocations() uint32
	WriteRelocations(buf *bytes.Buffer)
}

// sectionBase carries the header/offset state shared by all section kinds.
type sectionBase struct {
	typ       byte
	name      string
	offset    uint32
	header    []byte
	bodySize  uint32
	finalized bool
}

func (s *sectionBase) Type() byte             { return s.typ }
func (s *sectionBase) Name() string           { return s.name }
func (s *sectionBase) Offset() uint32         { return s.offset }
func (s *sectionBase) SetOffset(off uint32)   { s.offset = off }
func (s *sectionBase) IsNeeded() bool         { return true }
func (s *sectionBase) NumRelocations() uint32 { return 0 }

func (s *sectionBase) WriteRelocations(*bytes.Buffer) {}

// sectionTypeName maps the closed set of type tags to display names. An
// unrecognized tag is a pipeline defect, not a user error.
func (s *sectionBase) sectionTypeName() string {
	name, ok := wasm.SectionTypeName(s.typ)
	if !ok {
		panic(errors.UnknownSection(errors.PhaseLayout, uint32(s.typ)))
	}
	return name
}

// String returns e.g. "CODE" or "CUSTOM(.debug_str)".
func (s *sectionBase) String() string {
	if s.name != "" {
		return s.sectionTypeName() + "(" + s.name + ")"
	}
	return s.sectionTypeName()
}

// createHeader encodes the section header: type tag, then body size, both
// ULEB128. bodySize must be the final, already-computed body length.
func (s *sectionBase) createHeader(bodySize uint32) {
	var buf bytes.Buffer
	wasm.WriteLEB128u(&buf, uint32(s.typ))
	wasm.WriteLEB128u(&buf, bodySize)
	s.header = buf.Bytes()
	s.bodySize = bodySize
	s.finalized = true
	Logger().Debug("createHeader",
		zap.String("section", s.String()),
		zap.Uint32("bodySize", bodySize),
		zap.Uint32("totalSize", s.Size()))
}

// Size returns header length + body length.
func (s *sectionBase) Size() uint32 {
	if !s.finalized {
		panic(errors.Invariant(errors.PhaseLayout, s.String(),
			"size requested before FinalizeContents"))
	}
	return uint32(len(s.header)) + s.bodySize
}

// checkWritable guards the finalize-before-write ordering.
func (s *sectionBase) checkWritable() {
	if !s.finalized {
		panic(errors.Invariant(errors.PhaseWrite, s.String(),
			"write attempted before FinalizeContents"))
	}
}

// writeHeader copies the section header into buf at the section's file
// offset and returns the body slice.
func (s *sectionBase) writeHeader(buf []byte) []byte {
	out := buf[s.offset:]
	n := copy(out, s.header)
	return out[n : n+int(s.bodySize)]
}
