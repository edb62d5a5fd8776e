package emit

import (
	"bytes"
	"encoding/binary"
	"math"
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/wasm-linker/errors"
	"github.com/wippyai/wasm-linker/wasm"
)

// Module assembles an ordered list of output sections into one binary. It
// exclusively owns its sections and assigns them disjoint, monotonically
// increasing file offsets.
type Module struct {
	cfg       *Config
	sections  []Section
	size      uint32
	finalized bool
}

// NewModule creates an empty module for the given build configuration.
func NewModule(cfg *Config) *Module {
	if cfg == nil {
		cfg = &Config{}
	}
	return &Module{cfg: cfg}
}

// AddSection appends a section. Sections are emitted in insertion order.
func (m *Module) AddSection(s Section) {
	m.sections = append(m.sections, s)
}

// Sections returns the module's section list: after Finalize, only the
// sections that will actually be emitted.
func (m *Module) Sections() []Section { return m.sections }

// Finalize runs phase one for the whole module: every section computes its
// sizes and headers, unneeded sections are dropped, and file offsets are
// assigned as a running prefix sum behind the magic/version prologue.
// Must complete before any WriteTo. Idempotent.
func (m *Module) Finalize() {
	if m.finalized {
		return
	}

	for _, s := range m.sections {
		s.FinalizeContents(m.cfg)
	}

	kept := make([]Section, 0, len(m.sections))
	offset := uint64(wasm.HeaderSize)
	for _, s := range m.sections {
		if !s.IsNeeded() {
			Logger().Debug("omitting section", zap.String("section", s.String()))
			continue
		}
		if offset+uint64(s.Size()) > math.MaxUint32 {
			panic(errors.Overflow(errors.PhaseLayout, s.String(),
				offset+uint64(s.Size()), "file offset"))
		}
		s.SetOffset(uint32(offset))
		offset += uint64(s.Size())
		kept = append(kept, s)
	}

	m.sections = kept
	m.size = uint32(offset)
	m.finalized = true
}

// Size returns the total output size in bytes. Panics before Finalize.
func (m *Module) Size() uint32 {
	if !m.finalized {
		panic(errors.Invariant(errors.PhaseLayout, "",
			"module size requested before Finalize"))
	}
	return m.size
}

// WriteTo serializes the module into buf, which must be at least Size()
// bytes. Sections write concurrently: each is confined to its own
// precomputed byte range, so the fan-out needs no synchronization beyond
// the pre-sized buffer.
func (m *Module) WriteTo(buf []byte) {
	if !m.finalized {
		panic(errors.Invariant(errors.PhaseWrite, "",
			"module write attempted before Finalize"))
	}
	if len(buf) < int(m.size) {
		panic(errors.Invariant(errors.PhaseWrite, "",
			"output buffer holds %d bytes, need %d", len(buf), m.size))
	}

	binary.LittleEndian.PutUint32(buf, wasm.Magic)
	binary.LittleEndian.PutUint32(buf[4:], wasm.Version)

	var wg sync.WaitGroup
	for _, s := range m.sections {
		wg.Add(1)
		go func(s Section) {
			defer wg.Done()
			s.WriteTo(buf)
		}(s)
	}
	wg.Wait()
}

// Bytes finalizes the module if needed and returns its serialized form.
func (m *Module) Bytes() []byte {
	m.Finalize()
	buf := make([]byte, m.size)
	m.WriteTo(buf)
	return buf
}

// NumRelocations returns the total relocation count across all sections.
func (m *Module) NumRelocations() uint32 {
	var count uint32
	for _, s := range m.sections {
		count += s.NumRelocations()
	}
	return count
}

// WriteRelocations concatenates every section's relocation records, in
// section order, for a relocation-section emitter.
func (m *Module) WriteRelocations(buf *bytes.Buffer) {
	for _, s := range m.sections {
		s.WriteRelocations(buf)
	}
}
