package emit

import (
	"bytes"
	"sort"

	"github.com/wippyai/wasm-linker/errors"
	"github.com/wippyai/wasm-linker/wasm"
)

// fragment is one mergeable piece of a MergeChunk: a NUL-terminated string
// or constant. off is the piece's offset in the original chunk; newOff is
// its offset in the merged pool once the synthetic chunk has finalized.
type fragment struct {
	data   string
	off    uint32
	newOff uint32
}

// MergeChunk is a mergeable string/constant pool. Its content is split
// into fragments at construction; during the custom section's merge pass
// the fragments are absorbed into one SyntheticMergedChunk and the chunk
// itself drops out of the section's chunk list, surviving only as a
// relocation forwarder.
type MergeChunk struct {
	chunkBase
	data      []byte
	fragments []fragment
	parent    *SyntheticMergedChunk
}

// NewMergeChunk creates a mergeable chunk, splitting data into
// NUL-terminated fragments. A trailing piece without a terminator is kept
// as its own fragment.
func NewMergeChunk(name string, data []byte, relocs ...wasm.Reloc) *MergeChunk {
	m := &MergeChunk{
		chunkBase: chunkBase{name: name, relocs: relocs},
		data:      data,
	}
	start := 0
	for i, b := range data {
		if b == 0 {
			m.fragments = append(m.fragments, fragment{
				data: string(data[start : i+1]),
				off:  uint32(start),
			})
			start = i + 1
		}
	}
	if start < len(data) {
		m.fragments = append(m.fragments, fragment{
			data: string(data[start:]),
			off:  uint32(start),
		})
	}
	return m
}

func (m *MergeChunk) Kind() ChunkKind { return ChunkMerge }

// Size returns the unmerged byte count. After the merge pass the chunk no
// longer appears in any section list, so this is only meaningful before
// absorption.
func (m *MergeChunk) Size() uint32 { return uint32(len(m.data)) }

func (m *MergeChunk) WriteTo(body []byte) {
	copy(body[m.outSecOff:], m.data)
}

// FragmentOffset maps an offset within the original chunk to the
// corresponding offset in the merged pool.
func (m *MergeChunk) FragmentOffset(off uint32) uint32 {
	pos := sort.Search(len(m.fragments), func(i int) bool {
		return off < m.fragments[i].off
	})
	if pos == 0 {
		panic(errors.Invariant(errors.PhaseMerge, m.name,
			"offset %d precedes first fragment", off))
	}
	f := m.fragments[pos-1]
	return f.newOff + (off - f.off)
}

// WriteRelocations forwards the chunk's records. Once absorbed, offsets
// are remapped through the merged pool and shifted by the synthetic
// chunk's section offset.
func (m *MergeChunk) WriteRelocations(buf *bytes.Buffer) {
	if m.parent == nil {
		m.chunkBase.WriteRelocations(buf)
		return
	}
	for _, r := range m.relocs {
		r.Offset = m.FragmentOffset(r.Offset)
		r.Append(buf, m.parent.outSecOffset())
	}
}

// SyntheticMergedChunk is the single physically contiguous, deduplicated
// pool that replaces every mergeable chunk of a custom section. It holds
// back-references to the chunks it absorbed for relocation forwarding
// only; it does not re-own their storage.
type SyntheticMergedChunk struct {
	chunkBase
	flags     uint32
	chunks    []*MergeChunk
	packed    []byte
	finalized bool
}

// NewSyntheticMergedChunk creates an empty merged pool. flags carries the
// merge kind (wasm.SegFlagStrings for string pools).
func NewSyntheticMergedChunk(name string, flags uint32) *SyntheticMergedChunk {
	return &SyntheticMergedChunk{
		chunkBase: chunkBase{name: name},
		flags:     flags,
	}
}

func (s *SyntheticMergedChunk) Kind() ChunkKind { return ChunkSyntheticMerged }

// AddMergeChunk absorbs a mergeable chunk into the pool.
func (s *SyntheticMergedChunk) AddMergeChunk(m *MergeChunk) {
	m.parent = s
	s.chunks = append(s.chunks, m)
}

// FinalizeContents packs and deduplicates the absorbed fragments. Each
// distinct fragment is stored once; every fragment records its offset in
// the pool. Called exactly once, after all candidates are absorbed.
func (s *SyntheticMergedChunk) FinalizeContents() {
	if s.finalized {
		return
	}
	index := make(map[string]uint32)
	for _, mc := range s.chunks {
		for i := range mc.fragments {
			f := &mc.fragments[i]
			off, ok := index[f.data]
			if !ok {
				off = uint32(len(s.packed))
				s.packed = append(s.packed, f.data...)
				index[f.data] = off
			}
			f.newOff = off
		}
	}
	s.finalized = true
}

func (s *SyntheticMergedChunk) Size() uint32 {
	if !s.finalized {
		panic(errors.Invariant(errors.PhaseMerge, s.name,
			"size requested before merge finalize"))
	}
	return uint32(len(s.packed))
}

func (s *SyntheticMergedChunk) WriteTo(body []byte) {
	copy(body[s.outSecOff:], s.packed)
}

func (s *SyntheticMergedChunk) NumRelocations() uint32 {
	var count uint32
	for _, mc := range s.chunks {
		count += mc.NumRelocations()
	}
	return count
}

func (s *SyntheticMergedChunk) WriteRelocations(buf *bytes.Buffer) {
	for _, mc := range s.chunks {
		mc.WriteRelocations(buf)
	}
}
