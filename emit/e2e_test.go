package emit_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/tetratelabs/wazero"

	"github.com/wippyai/wasm-linker/emit"
	"github.com/wippyai/wasm-linker/wasm"
)

// TestEmittedModuleRunsUnderWazero assembles a complete module — synthetic
// sections for the declarations, real code and data sections — and checks
// that a WebAssembly runtime accepts and runs it.
func TestEmittedModuleRunsUnderWazero(t *testing.T) {
	mod := emit.NewModule(&emit.Config{})

	// One () -> i32 signature.
	mod.AddSection(emit.NewSyntheticSection(wasm.SectionType, emit.Vec(1, func(buf *bytes.Buffer) {
		buf.WriteByte(wasm.FuncTypeByte)
		wasm.WriteLEB128u(buf, 0)
		wasm.WriteLEB128u(buf, 1)
		buf.WriteByte(wasm.ValI32)
	})))
	mod.AddSection(emit.NewSyntheticSection(wasm.SectionFunction, emit.Vec(1, func(buf *bytes.Buffer) {
		wasm.WriteLEB128u(buf, 0)
	})))
	mod.AddSection(emit.NewSyntheticSection(wasm.SectionMemory, emit.Vec(1, func(buf *bytes.Buffer) {
		buf.WriteByte(wasm.LimitsNoMax)
		wasm.WriteLEB128u(buf, 1)
	})))
	mod.AddSection(emit.NewSyntheticSection(wasm.SectionExport, emit.Vec(2, func(buf *bytes.Buffer) {
		wasm.WriteName(buf, "answer")
		buf.WriteByte(wasm.KindFunc)
		wasm.WriteLEB128u(buf, 0)
		wasm.WriteName(buf, "memory")
		buf.WriteByte(wasm.KindMemory)
		wasm.WriteLEB128u(buf, 0)
	})))

	// answer: no locals, i32.const 42, end
	mod.AddSection(emit.NewCodeSection(
		emit.NewFunctionChunk("answer", []byte{0x00, 0x41, 42, 0x0B}),
	))

	seg := emit.NewSegment(".data", 0, 16)
	seg.AddChunk(emit.NewDataChunk(".data.0", []byte("hi!")))
	mod.AddSection(emit.NewDataSection(seg))

	bin := mod.Bytes()

	ctx := context.Background()
	r := wazero.NewRuntime(ctx)
	defer r.Close(ctx)

	inst, err := r.Instantiate(ctx, bin)
	if err != nil {
		t.Fatalf("instantiate emitted module: %v", err)
	}

	res, err := inst.ExportedFunction("answer").Call(ctx)
	if err != nil {
		t.Fatalf("call answer: %v", err)
	}
	if len(res) != 1 || res[0] != 42 {
		t.Errorf("answer: got %v, want [42]", res)
	}

	data, ok := inst.Memory().Read(16, 3)
	if !ok {
		t.Fatal("memory read out of range")
	}
	if string(data) != "hi!" {
		t.Errorf("active segment payload: got %q, want %q", data, "hi!")
	}
}
