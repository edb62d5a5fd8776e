package wasm

// WebAssembly binary format magic number and version.
const (
	// Magic is the WebAssembly binary magic number ("\0asm" in little-endian).
	Magic uint32 = 0x6D736100

	// Version is the supported WebAssembly binary format version.
	Version uint32 = 0x01
)

// HeaderSize is the byte length of the module prologue (magic + version).
const HeaderSize = 8

// Section IDs define the binary identifiers for each module section.
// Sections must appear in increasing order by ID (except custom sections).
const (
	SectionCustom    byte = 0  // Custom section (can appear anywhere)
	SectionType      byte = 1  // Type section (function signatures)
	SectionImport    byte = 2  // Import section
	SectionFunction  byte = 3  // Function section (type indices)
	SectionTable     byte = 4  // Table section
	SectionMemory    byte = 5  // Memory section
	SectionGlobal    byte = 6  // Global section
	SectionExport    byte = 7  // Export section
	SectionStart     byte = 8  // Start section
	SectionElement   byte = 9  // Element section
	SectionCode      byte = 10 // Code section (function bodies)
	SectionData      byte = 11 // Data section
	SectionDataCount byte = 12 // Data count section (bulk memory)
	SectionTag       byte = 13 // Tag section (exception handling)
)

// Import/Export descriptor kinds identify the type of imported or exported item.
const (
	KindFunc   byte = 0 // Function import/export
	KindTable  byte = 1 // Table import/export
	KindMemory byte = 2 // Memory import/export
	KindGlobal byte = 3 // Global import/export
	KindTag    byte = 4 // Tag import/export (exception handling)
)

// Opcodes used by data-segment initializer expressions.
const (
	OpEnd       byte = 0x0B
	OpGlobalGet byte = 0x23
	OpI32Const  byte = 0x41
	OpI64Const  byte = 0x42
)

// Data segment flags, encoded in the per-segment ULEB128 flags field.
const (
	// DataSegmentIsPassive marks a passive segment: no initializer
	// expression; payload is copied at runtime via memory.init.
	DataSegmentIsPassive uint32 = 0x01

	// DataSegmentHasMemIndex marks a segment carrying an explicit memory
	// index field (always zero until multi-memory linking is supported).
	DataSegmentHasMemIndex uint32 = 0x02
)

// Segment info flags carried by input chunks in the linking metadata.
const (
	// SegFlagStrings marks a segment of NUL-terminated strings eligible
	// for merging and deduplication.
	SegFlagStrings uint32 = 0x01

	// SegFlagTLS marks a thread-local segment.
	SegFlagTLS uint32 = 0x02
)

// Value type encodings used by synthetic section builders.
const (
	ValI32 byte = 0x7F
	ValI64 byte = 0x7E
	ValF32 byte = 0x7D
	ValF64 byte = 0x7C
)

// FuncTypeByte introduces a function type in the type section.
const FuncTypeByte byte = 0x60

// Limits flags for memory/table definitions.
const (
	LimitsNoMax  byte = 0x00
	LimitsHasMax byte = 0x01
)
