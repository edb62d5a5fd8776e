package emit

// Config carries the build-mode decisions, made by the driver, that affect
// section layout. It is read during finalize and never mutated here.
type Config struct {
	// IsPIC selects position-independent layout: active data segments are
	// placed relative to a runtime-provided base-address global instead of
	// fixed constants.
	IsPIC bool

	// Is64 selects 64-bit memory addressing. Active segment start
	// addresses are then encoded as i64 constants.
	Is64 bool

	// MemoryBaseIndex is the index of the __memory_base global referenced
	// by active segment initializers in PIC mode.
	MemoryBaseIndex uint32
}
