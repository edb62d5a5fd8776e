// Package wasmlinker assembles the output sections of a WebAssembly module.
//
// This library implements the final stage of a wasm linker: input chunks
// (function bodies, data, custom section payloads) are grouped into output
// sections, sizes and file offsets are computed in a finalize pass, and the
// encoded module is written out in parallel.
//
// # Architecture Overview
//
// The library is organized into a few packages with distinct responsibilities:
//
//	wasmlinker/          Root package (documentation only)
//	├── emit/            Output sections, segments, chunks, and the module writer
//	├── wasm/            Binary format primitives: LEB128, constants, relocations,
//	│                    and a section scanner for encoded modules
//	├── errors/          Structured error types carried by layout panics
//	└── cmd/sections/    CLI for inspecting the section layout of a module
//
// # Quick Start
//
// Build a module from sections:
//
//	seg := emit.NewSegment(".data", 0, 1024)
//	seg.AddChunk(emit.NewDataChunk("greeting", []byte("hi!")))
//
//	m := emit.NewModule(&emit.Config{})
//	m.AddSection(emit.NewCodeSection(emit.NewFunctionChunk("answer", body)))
//	m.AddSection(emit.NewDataSection(seg))
//	m.Finalize()
//
//	encoded := m.Bytes()
//
// # Two-Phase Layout
//
// Every section is finalized before any section is written. Finalization
// computes section body sizes bottom-up and assigns file offsets by prefix
// sum; writing then fills disjoint byte ranges and is dispatched one
// goroutine per section. Layout invariant violations are programmer errors
// and panic with a structured *errors.Error.
//
// # Thread Safety
//
// Sections and segments are built single-threaded. Once Finalize returns,
// WriteTo may fan out across goroutines because every section owns a
// disjoint range of the output buffer.
package wasmlinker
