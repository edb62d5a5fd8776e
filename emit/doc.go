// Package emit computes the final byte layout of output sections and
// serializes them into a caller-provided buffer.
//
// It is the output-assembly stage of the linker: sections receive their
// input chunks and segments fully resolved (symbols bound, dead chunks
// eliminated) and turn them into the bit-exact binary encoding of a
// WebAssembly module, together with the relocation records needed if the
// module is later relinked.
//
// # Two Phases
//
// Processing is split into two strict, module-wide phases:
//
//  1. Finalize: every section computes its body size, builds its headers,
//     and assigns each chunk and segment its offset. Variable-length
//     integer encodings make this bottom-up: a section header encodes the
//     body size, which depends on the sizes of the children.
//  2. Write: every section copies its already-finalized bytes into a
//     disjoint range of one shared output buffer. Ranges never overlap,
//     so the module writer fans section writes out to goroutines with no
//     synchronization beyond the pre-sized buffer.
//
// Module.Finalize runs phase 1 for all sections and assigns absolute file
// offsets as a running prefix sum; Module.WriteTo runs phase 2. Reading a
// size or writing a section before finalize is a programming error and
// panics with a structured *errors.Error — the emit stage has no
// recoverable error paths, because a malformed module is never an
// acceptable partial result.
//
// # Usage
//
//	cfg := &emit.Config{IsPIC: false}
//	mod := emit.NewModule(cfg)
//	mod.AddSection(emit.NewCodeSection(funcs...))
//	mod.AddSection(emit.NewDataSection(segments...))
//	mod.Finalize()
//	buf := make([]byte, mod.Size())
//	mod.WriteTo(buf)
package emit
