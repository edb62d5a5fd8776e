package emit

import (
	"bytes"

	"go.uber.org/zap"

	"github.com/wippyai/wasm-linker/errors"
	"github.com/wippyai/wasm-linker/wasm"
)

// DataSection holds the ordered data segments of the output module. BSS
// segments are excluded from both the segment count and the emitted
// payload; they exist only to occupy address space.
type DataSection struct {
	sectionBase
	segments   []*Segment
	dataHeader []byte
}

// NewDataSection creates a data section over resolved segments.
func NewDataSection(segments ...*Segment) *DataSection {
	return &DataSection{
		sectionBase: sectionBase{typ: wasm.SectionData},
		segments:    segments,
	}
}

// FinalizeContents writes the non-BSS segment count, then lays out each
// segment in declared order: its header (flags, optional memory index,
// initializer expression, payload size) followed by its payload. Every
// chunk's section-relative offset composes segment offset + segment header
// length + the chunk's intra-segment offset.
//
// In PIC mode at most one active segment is legal; a second one is a
// pipeline defect and aborts.
func (s *DataSection) FinalizeContents(cfg *Config) {
	if s.finalized {
		return
	}

	var segmentCount uint32
	var activeCount int
	for _, seg := range s.segments {
		if !seg.IsBss {
			segmentCount++
		}
		if seg.IsActive() {
			activeCount++
		}
	}
	if cfg.IsPIC && activeCount > 1 {
		panic(errors.Invariant(errors.PhaseLayout, s.String(),
			"expected at most one active segment in PIC mode, found %d", activeCount))
	}

	var buf bytes.Buffer
	wasm.WriteLEB128u(&buf, segmentCount)
	s.dataHeader = buf.Bytes()
	bodySize := uint32(len(s.dataHeader))

	for _, seg := range s.segments {
		if seg.IsBss {
			continue
		}
		seg.buildHeader(cfg)
		seg.sectionOffset = bodySize
		bodySize += uint32(len(seg.header)) + seg.size
		Logger().Debug("data segment",
			zap.String("name", seg.Name),
			zap.Uint32("size", seg.size),
			zap.Uint64("startVA", seg.StartVA))

		for _, c := range seg.chunks {
			c.setOutSecOff(seg.sectionOffset + uint32(len(seg.header)) + c.segOff)
		}
	}

	s.createHeader(bodySize)
}

func (s *DataSection) WriteTo(buf []byte) {
	s.checkWritable()
	Logger().Debug("writing section",
		zap.String("section", s.String()),
		zap.Uint32("size", s.Size()),
		zap.Uint32("body", s.bodySize))

	body := s.writeHeader(buf)
	copy(body, s.dataHeader)

	for _, seg := range s.segments {
		if seg.IsBss {
			continue
		}
		copy(body[seg.sectionOffset:], seg.header)
		for _, c := range seg.chunks {
			c.WriteTo(body)
		}
	}
}

// IsNeeded reports whether any segment would actually be emitted. A data
// section holding only BSS segments is omitted by the module.
func (s *DataSection) IsNeeded() bool {
	for _, seg := range s.segments {
		if !seg.IsBss {
			return true
		}
	}
	return false
}

func (s *DataSection) NumRelocations() uint32 {
	var count uint32
	for _, seg := range s.segments {
		for _, c := range seg.chunks {
			count += c.NumRelocations()
		}
	}
	return count
}

func (s *DataSection) WriteRelocations(buf *bytes.Buffer) {
	for _, seg := range s.segments {
		for _, c := range seg.chunks {
			c.WriteRelocations(buf)
		}
	}
}
