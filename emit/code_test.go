package emit_test

import (
	"bytes"
	"testing"

	"github.com/wippyai/wasm-linker/emit"
	"github.com/wippyai/wasm-linker/wasm"
)

// bodyOfSize returns a function body whose finalized chunk size (ULEB128
// size prefix + body) comes out to n bytes.
func bodyOfSize(n int) []byte {
	return bytes.Repeat([]byte{0x01}, n-1)
}

func TestCodeSectionLayout(t *testing.T) {
	f1 := emit.NewFunctionChunk("f1", bodyOfSize(10))
	f2 := emit.NewFunctionChunk("f2", bodyOfSize(20))
	s := emit.NewCodeSection(f1, f2)
	s.FinalizeContents(&emit.Config{})

	// Body: count(1 byte) + 10 + 20; header: tag + body size.
	if s.Size() != 2+31 {
		t.Fatalf("Size: got %d, want 33", s.Size())
	}

	buf := make([]byte, s.Size())
	s.WriteTo(buf)

	if buf[0] != wasm.SectionCode || buf[1] != 31 {
		t.Errorf("header: got % x", buf[:2])
	}
	if buf[2] != 2 {
		t.Errorf("function count: got %d", buf[2])
	}
	// f1: size prefix 9, nine body bytes; f2 follows immediately.
	if buf[3] != 9 {
		t.Errorf("f1 size prefix: got %d", buf[3])
	}
	if buf[13] != 19 {
		t.Errorf("f2 size prefix: got %d", buf[13])
	}
	if int(s.Size()) != len(buf) {
		t.Errorf("getSize does not match serialized length")
	}
}

func TestCodeSectionRoundTrip(t *testing.T) {
	mod := emit.NewModule(&emit.Config{})
	mod.AddSection(emit.NewCodeSection(
		emit.NewFunctionChunk("f1", bodyOfSize(10)),
		emit.NewFunctionChunk("f2", bodyOfSize(20)),
	))
	bin := mod.Bytes()

	infos, err := wasm.ScanSections(bin)
	if err != nil {
		t.Fatalf("ScanSections: %v", err)
	}
	if len(infos) != 1 || infos[0].ID != wasm.SectionCode {
		t.Fatalf("unexpected sections: %+v", infos)
	}
	if infos[0].BodySize != 31 {
		t.Errorf("body size: got %d, want 1+10+20", infos[0].BodySize)
	}

	r := bytes.NewReader(bin[infos[0].BodyOff:])
	count, err := wasm.ReadLEB128u(r)
	if err != nil {
		t.Fatalf("read function count: %v", err)
	}
	if count != 2 {
		t.Errorf("function count: got %d, want 2", count)
	}
}

func TestCodeSectionEmptyFunctionPanics(t *testing.T) {
	s := emit.NewCodeSection(emit.NewFunctionChunk("empty", nil))
	expectInvariant(t, func() { s.FinalizeContents(&emit.Config{}) })
}

func TestCodeSectionRelocations(t *testing.T) {
	f1 := emit.NewFunctionChunk("f1", bodyOfSize(10),
		wasm.Reloc{Type: wasm.RelocFunctionIndexLEB, Offset: 2, Index: 5},
		wasm.Reloc{Type: wasm.RelocTypeIndexLEB, Offset: 6, Index: 0},
	)
	f2 := emit.NewFunctionChunk("f2", bodyOfSize(20),
		wasm.Reloc{Type: wasm.RelocMemoryAddrSLEB, Offset: 3, Index: 1, Addend: 8},
	)
	s := emit.NewCodeSection(f1, f2)
	s.FinalizeContents(&emit.Config{})

	if got := s.NumRelocations(); got != 3 {
		t.Errorf("NumRelocations: got %d, want 3", got)
	}

	var buf bytes.Buffer
	s.WriteRelocations(&buf)
	r := bytes.NewReader(buf.Bytes())

	// First record: f1 sits right after the one-byte count sub-header.
	typ, _ := wasm.ReadLEB128u(r)
	off, _ := wasm.ReadLEB128u(r)
	if typ != uint32(wasm.RelocFunctionIndexLEB) || off != 1+2 {
		t.Errorf("first reloc: type %d offset %d", typ, off)
	}
	idx, _ := wasm.ReadLEB128u(r)
	if idx != 5 {
		t.Errorf("first reloc index: got %d", idx)
	}

	// Skip second record (type, offset, index).
	for i := 0; i < 3; i++ {
		if _, err := wasm.ReadLEB128u(r); err != nil {
			t.Fatalf("read second reloc: %v", err)
		}
	}

	// Third record: f2 starts at offset 1+10 within the body.
	typ, _ = wasm.ReadLEB128u(r)
	off, _ = wasm.ReadLEB128u(r)
	if typ != uint32(wasm.RelocMemoryAddrSLEB) || off != 11+3 {
		t.Errorf("third reloc: type %d offset %d", typ, off)
	}
	if _, err := wasm.ReadLEB128u(r); err != nil {
		t.Fatalf("read third reloc index: %v", err)
	}
	addend, err := wasm.ReadLEB128s64(r)
	if err != nil || addend != 8 {
		t.Errorf("third reloc addend: got %d, %v", addend, err)
	}
	if r.Len() != 0 {
		t.Errorf("%d trailing bytes in relocation stream", r.Len())
	}
}
