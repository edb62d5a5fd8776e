package emit_test

import (
	"bytes"
	"testing"

	"github.com/wippyai/wasm-linker/emit"
	"github.com/wippyai/wasm-linker/wasm"
)

func activeSegment(name string, startVA uint64, payload string) *emit.Segment {
	seg := emit.NewSegment(name, 0, startVA)
	seg.AddChunk(emit.NewDataChunk(name+".0", []byte(payload)))
	return seg
}

func TestDataSectionActiveI32(t *testing.T) {
	s := emit.NewDataSection(activeSegment(".data", 1024, "hello"))
	s.FinalizeContents(&emit.Config{})

	buf := make([]byte, s.Size())
	s.WriteTo(buf)

	want := []byte{
		wasm.SectionData, 12, // header
		1,                      // segment count
		0x00,                   // flags: active
		0x41, 0x80, 0x08, 0x0B, // i32.const 1024, end
		5, // payload size
		'h', 'e', 'l', 'l', 'o',
	}
	if !bytes.Equal(buf, want) {
		t.Errorf("serialized:\n got % x\nwant % x", buf, want)
	}
}

func TestDataSectionActiveI64(t *testing.T) {
	s := emit.NewDataSection(activeSegment(".data", 1<<33, "x"))
	s.FinalizeContents(&emit.Config{Is64: true})

	buf := make([]byte, s.Size())
	s.WriteTo(buf)

	// i64.const (1<<33), end
	wantInit := append([]byte{0x42}, wasm.EncodeLEB128s64(1<<33)...)
	wantInit = append(wantInit, 0x0B)
	if !bytes.Contains(buf, wantInit) {
		t.Errorf("missing i64 initializer % x in % x", wantInit, buf)
	}
}

func TestDataSectionActivePIC(t *testing.T) {
	s := emit.NewDataSection(activeSegment(".data", 1024, "x"))
	s.FinalizeContents(&emit.Config{IsPIC: true, MemoryBaseIndex: 3})

	buf := make([]byte, s.Size())
	s.WriteTo(buf)

	// global.get 3, end. The start address is not encoded in PIC mode.
	if !bytes.Equal(buf[4:7], []byte{0x23, 0x03, 0x0B}) {
		t.Errorf("initializer: got % x, want global.get 3", buf[4:7])
	}
}

func TestDataSectionPassive(t *testing.T) {
	seg := emit.NewSegment(".pdata", wasm.DataSegmentIsPassive, 0)
	seg.AddChunk(emit.NewDataChunk(".pdata.0", []byte("abc")))
	s := emit.NewDataSection(seg)
	s.FinalizeContents(&emit.Config{})

	buf := make([]byte, s.Size())
	s.WriteTo(buf)

	want := []byte{
		wasm.SectionData, 6,
		1,    // segment count
		0x01, // flags: passive, no initializer follows
		3,    // payload size
		'a', 'b', 'c',
	}
	if !bytes.Equal(buf, want) {
		t.Errorf("serialized:\n got % x\nwant % x", buf, want)
	}
}

func TestDataSectionExplicitMemIndex(t *testing.T) {
	seg := emit.NewSegment(".data", wasm.DataSegmentHasMemIndex, 8)
	seg.AddChunk(emit.NewDataChunk(".data.0", []byte{0xAA}))
	s := emit.NewDataSection(seg)
	s.FinalizeContents(&emit.Config{})

	buf := make([]byte, s.Size())
	s.WriteTo(buf)

	want := []byte{
		wasm.SectionData, 8,
		1,
		0x02,             // flags: has explicit memory index
		0x00,             // memory index
		0x41, 0x08, 0x0B, // i32.const 8, end
		1,
		0xAA,
	}
	if !bytes.Equal(buf, want) {
		t.Errorf("serialized:\n got % x\nwant % x", buf, want)
	}
}

func TestDataSectionPICRejectsMultipleActive(t *testing.T) {
	s := emit.NewDataSection(
		activeSegment(".data", 0, "a"),
		activeSegment(".rodata", 16, "b"),
	)
	expectInvariant(t, func() { s.FinalizeContents(&emit.Config{IsPIC: true}) })
}

func TestDataSectionMultipleActiveAllowedWithoutPIC(t *testing.T) {
	s := emit.NewDataSection(
		activeSegment(".data", 0, "a"),
		activeSegment(".rodata", 16, "b"),
	)
	s.FinalizeContents(&emit.Config{})
	if !s.IsNeeded() {
		t.Error("expected section to be needed")
	}
}

func TestDataSectionBssOnly(t *testing.T) {
	s := emit.NewDataSection(
		emit.NewBssSegment(".bss", 4096, 128),
		emit.NewBssSegment(".tbss", 8192, 64),
	)
	s.FinalizeContents(&emit.Config{})

	if s.IsNeeded() {
		t.Error("BSS-only data section should not be needed")
	}

	// If serialized anyway, the body is just a zero segment count.
	buf := make([]byte, s.Size())
	s.WriteTo(buf)
	want := []byte{wasm.SectionData, 1, 0}
	if !bytes.Equal(buf, want) {
		t.Errorf("serialized: got % x, want % x", buf, want)
	}
}

func TestDataSectionSkipsBssBetweenSegments(t *testing.T) {
	s := emit.NewDataSection(
		activeSegment(".data", 0, "aa"),
		emit.NewBssSegment(".bss", 64, 32),
		activeSegment(".rodata", 16, "bb"),
	)
	s.FinalizeContents(&emit.Config{})

	buf := make([]byte, s.Size())
	s.WriteTo(buf)

	// Count covers only the two non-BSS segments, and the BSS segment
	// leaves no bytes between them.
	if buf[2] != 2 {
		t.Errorf("segment count: got %d, want 2", buf[2])
	}
	if !bytes.Contains(buf, []byte("aa")) || !bytes.Contains(buf, []byte("bb")) {
		t.Errorf("missing payloads in % x", buf)
	}
	if int(s.Size()) != len(buf) {
		t.Error("getSize does not match serialized length")
	}
}

func TestDataSectionChunkOffsetComposition(t *testing.T) {
	seg1 := emit.NewSegment(".data", 0, 0)
	seg1.AddChunk(emit.NewDataChunk(".data.0", []byte("1234")))
	seg1.AddChunk(emit.NewDataChunk(".data.1", []byte("5678")))
	seg2 := emit.NewSegment(".rodata", 0, 64)
	seg2.AddChunk(emit.NewDataChunk(".rodata.0", []byte("abcd")))

	s := emit.NewDataSection(seg1, seg2)
	s.FinalizeContents(&emit.Config{})

	buf := make([]byte, s.Size())
	s.WriteTo(buf)

	// Chunks of one segment are contiguous, in declared order.
	if !bytes.Contains(buf, []byte("12345678")) {
		t.Errorf("segment payload not contiguous: % x", buf)
	}
	if !bytes.Contains(buf, []byte("abcd")) {
		t.Errorf("second segment payload missing: % x", buf)
	}
	if bytes.Index(buf, []byte("abcd")) < bytes.Index(buf, []byte("1234")) {
		t.Error("segments emitted out of order")
	}
}

func TestDataSectionRelocations(t *testing.T) {
	seg := emit.NewSegment(".data", 0, 0)
	seg.AddChunk(emit.NewDataChunk(".data.0", []byte("12345678"),
		wasm.Reloc{Type: wasm.RelocMemoryAddrI32, Offset: 0, Index: 2, Addend: 4},
	))
	seg.AddChunk(emit.NewDataChunk(".data.1", []byte("abcd"),
		wasm.Reloc{Type: wasm.RelocFunctionIndexLEB, Offset: 1, Index: 9},
	))
	s := emit.NewDataSection(seg)

	if got := s.NumRelocations(); got != 2 {
		t.Errorf("NumRelocations before finalize: got %d, want 2", got)
	}

	s.FinalizeContents(&emit.Config{})
	if got := s.NumRelocations(); got != 2 {
		t.Errorf("NumRelocations after finalize: got %d, want 2", got)
	}

	var buf bytes.Buffer
	s.WriteRelocations(&buf)
	r := bytes.NewReader(buf.Bytes())

	// Segment header is count(1) + flags(1) + i32.const 0(2) + end(1) +
	// size(1) = 6 bytes into the body, so chunk 0 sits at offset 6.
	typ, _ := wasm.ReadLEB128u(r)
	off, _ := wasm.ReadLEB128u(r)
	if typ != uint32(wasm.RelocMemoryAddrI32) || off != 6 {
		t.Errorf("first reloc: type %d offset %d, want offset 6", typ, off)
	}
}
