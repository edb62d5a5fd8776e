package emit

import (
	"bytes"

	"go.uber.org/zap"

	"github.com/wippyai/wasm-linker/errors"
	"github.com/wippyai/wasm-linker/wasm"
)

// CodeSection holds the ordered function bodies of the output module.
type CodeSection struct {
	sectionBase
	functions  []*FunctionChunk
	codeHeader []byte
}

// NewCodeSection creates a code section over resolved function chunks.
func NewCodeSection(functions ...*FunctionChunk) *CodeSection {
	return &CodeSection{
		sectionBase: sectionBase{typ: wasm.SectionCode},
		functions:   functions,
	}
}

// FinalizeContents writes the function-count sub-header, then assigns each
// function its offset within the section body in declared order. Every
// function must have a non-empty body at this point.
func (s *CodeSection) FinalizeContents(cfg *Config) {
	if s.finalized {
		return
	}

	var buf bytes.Buffer
	wasm.WriteLEB128u(&buf, uint32(len(s.functions)))
	s.codeHeader = buf.Bytes()
	bodySize := uint32(len(s.codeHeader))

	for _, f := range s.functions {
		f.setOutSecOff(bodySize)
		f.calculateSize()
		// All functions should have a non-empty body at this point
		if len(f.body) == 0 {
			panic(errors.Invariant(errors.PhaseLayout, s.String(),
				"function %s resolved to zero size", f.Name()))
		}
		bodySize += f.Size()
	}

	s.createHeader(bodySize)
}

func (s *CodeSection) WriteTo(buf []byte) {
	s.checkWritable()
	Logger().Debug("writing section",
		zap.String("section", s.String()),
		zap.Uint32("size", s.Size()),
		zap.Int("functions", len(s.functions)))

	body := s.writeHeader(buf)
	copy(body, s.codeHeader)
	for _, f := range s.functions {
		f.WriteTo(body)
	}
}

func (s *CodeSection) NumRelocations() uint32 {
	var count uint32
	for _, f := range s.functions {
		count += f.NumRelocations()
	}
	return count
}

func (s *CodeSection) WriteRelocations(buf *bytes.Buffer) {
	for _, f := range s.functions {
		f.WriteRelocations(buf)
	}
}
