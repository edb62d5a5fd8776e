// Package wasm provides the WebAssembly binary-format vocabulary shared by
// the linker: section IDs, the opcodes used in data-segment initializer
// expressions, segment and relocation flag values, and LEB128
// encoding/decoding helpers.
//
// The package deals only in format constants and primitive encodings. Layout
// decisions (section sizes, offsets, segment headers) live in the emit
// package, which builds its byte buffers with the helpers defined here.
//
// # LEB128 Encoding
//
// All integer fields of the binary format are LEB128 encoded:
//
//	wasm.WriteLEB128u(&buf, count)       // unsigned, into a bytes.Buffer
//	wasm.WriteLEB128s64(&buf, addr)      // signed 64-bit
//	b := wasm.EncodeLEB128u(n)           // standalone encoding
//	n, err := wasm.ReadLEB128u(r)        // from an io.ByteReader
//
// # Section Scanning
//
// ScanSections walks the section headers of an encoded module without
// decoding section bodies. It is the read side of the emit package's
// writer and backs the layout inspector in cmd/sections:
//
//	infos, err := wasm.ScanSections(data)
//	for _, info := range infos {
//	    fmt.Printf("%s at %#x, %d bytes\n", info.TypeName(), info.Offset, info.BodySize)
//	}
package wasm
