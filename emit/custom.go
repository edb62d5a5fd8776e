package emit

import (
	"bytes"

	"go.uber.org/zap"

	"github.com/wippyai/wasm-linker/errors"
	"github.com/wippyai/wasm-linker/wasm"
)

// CustomSection holds a named section of arbitrary chunks, some of which
// may be mergeable string/constant pools.
type CustomSection struct {
	sectionBase
	chunks      []Chunk
	nameData    []byte
	payloadSize uint32
}

// NewCustomSection creates a custom section with the given name.
func NewCustomSection(name string, chunks ...Chunk) *CustomSection {
	return &CustomSection{
		sectionBase: sectionBase{typ: wasm.SectionCustom, name: name},
		chunks:      chunks,
	}
}

// finalizeInputChunks folds every mergeable chunk into one synthetic
// merged chunk, inserted at the position of the first mergeable chunk
// found. Order among non-mergeable chunks is preserved. The synthetic
// chunk packs and deduplicates once, after absorbing all candidates.
func (s *CustomSection) finalizeInputChunks() {
	var merged *SyntheticMergedChunk
	newChunks := make([]Chunk, 0, len(s.chunks))

	for _, c := range s.chunks {
		mc, ok := c.(*MergeChunk)
		if !ok {
			newChunks = append(newChunks, c)
			continue
		}

		if merged == nil {
			merged = NewSyntheticMergedChunk(s.name, wasm.SegFlagStrings)
			newChunks = append(newChunks, merged)
		}
		merged.AddMergeChunk(mc)
	}

	if merged == nil {
		return
	}

	merged.FinalizeContents()
	s.chunks = newChunks
}

// FinalizeContents runs the merge pass, encodes the section name, then
// assigns each chunk its offset within the payload in order. A discarded
// chunk surviving to this point is a pipeline defect and aborts.
func (s *CustomSection) FinalizeContents(cfg *Config) {
	if s.finalized {
		return
	}

	s.finalizeInputChunks()

	var buf bytes.Buffer
	wasm.WriteName(&buf, s.name)
	s.nameData = buf.Bytes()

	for _, c := range s.chunks {
		if c.Discarded() {
			panic(errors.Invariant(errors.PhaseLayout, s.String(),
				"discarded chunk %s survived input elimination", c.Name()))
		}
		c.setOutSecOff(s.payloadSize)
		s.payloadSize += c.Size()
	}

	s.createHeader(s.payloadSize + uint32(len(s.nameData)))
}

func (s *CustomSection) WriteTo(buf []byte) {
	s.checkWritable()
	Logger().Debug("writing section",
		zap.String("section", s.String()),
		zap.Uint32("size", s.Size()),
		zap.Int("chunks", len(s.chunks)))

	body := s.writeHeader(buf)
	n := copy(body, s.nameData)
	payload := body[n:]
	for _, c := range s.chunks {
		c.WriteTo(payload)
	}
}

func (s *CustomSection) NumRelocations() uint32 {
	var count uint32
	for _, c := range s.chunks {
		count += c.NumRelocations()
	}
	return count
}

func (s *CustomSection) WriteRelocations(buf *bytes.Buffer) {
	for _, c := range s.chunks {
		c.WriteRelocations(buf)
	}
}
