package emit

import (
	"bytes"

	"github.com/wippyai/wasm-linker/wasm"
)

// SyntheticSection is a typed section whose body is produced by the linker
// itself rather than copied from input chunks: type, import, function,
// table, memory, global, export, start and element sections are all built
// this way by the driver.
type SyntheticSection struct {
	sectionBase
	writeBody func(buf *bytes.Buffer)
	body      []byte
}

// NewSyntheticSection creates a section of the given type whose body is
// produced by writeBody during finalize.
func NewSyntheticSection(typ byte, writeBody func(buf *bytes.Buffer)) *SyntheticSection {
	return &SyntheticSection{
		sectionBase: sectionBase{typ: typ},
		writeBody:   writeBody,
	}
}

// FinalizeContents runs the body builder once and sizes the header.
func (s *SyntheticSection) FinalizeContents(cfg *Config) {
	if s.finalized {
		return
	}
	var buf bytes.Buffer
	s.writeBody(&buf)
	s.body = buf.Bytes()
	s.createHeader(uint32(len(s.body)))
}

func (s *SyntheticSection) WriteTo(buf []byte) {
	s.checkWritable()
	body := s.writeHeader(buf)
	copy(body, s.body)
}

// Vec prefixes a body builder with a ULEB128 element count: the common
// shape of every typed section body.
func Vec(count uint32, write func(buf *bytes.Buffer)) func(buf *bytes.Buffer) {
	return func(buf *bytes.Buffer) {
		wasm.WriteLEB128u(buf, count)
		write(buf)
	}
}
