// Package errors provides structured error types for the linker.
//
// Every error carries a Phase (where in the pipeline it occurred) and a
// Kind (what class of failure it is), plus the name of the offending
// section or segment when one is known.
//
// Invariant violations in the emit package are unrecoverable: a malformed
// output module is never an acceptable partial result, so the emit package
// panics with an *errors.Error rather than returning it. Callers that own
// the process (cmd/sections) recover at the top level and exit with the
// diagnostic.
//
//	err := errors.Invariant(errors.PhaseLayout, "DATA",
//	    "expected at most one active segment in PIC mode")
//	// err.Error() == "[layout] invariant in DATA: expected at most one ..."
package errors
