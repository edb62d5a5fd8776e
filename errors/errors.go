package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseLayout Phase = "layout" // section size/offset computation
	PhaseMerge  Phase = "merge"  // mergeable chunk folding
	PhaseWrite  Phase = "write"  // serialization into the output buffer
	PhaseScan   Phase = "scan"   // reading back an encoded module
)

// Kind categorizes the error
type Kind string

const (
	KindInvariant      Kind = "invariant"       // pipeline/programmer invariant violated
	KindUnknownSection Kind = "unknown_section" // section type outside the closed set
	KindOverflow       Kind = "overflow"        // computed size exceeds field width
	KindInvalidData    Kind = "invalid_data"    // malformed module bytes
)

// Error is the structured error type used throughout the linker
type Error struct {
	Phase   Phase
	Kind    Kind
	Section string // name of the offending section, if known
	Segment string // name of the offending segment, if known
	Detail  string
	Cause   error
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Section != "" {
		b.WriteString(" in ")
		b.WriteString(e.Section)
		if e.Segment != "" {
			b.WriteByte('/')
			b.WriteString(e.Segment)
		}
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Convenience constructors for common error patterns

// Invariant creates a pipeline-invariant violation error
func Invariant(phase Phase, section string, detail string, args ...any) *Error {
	if len(args) > 0 {
		detail = fmt.Sprintf(detail, args...)
	}
	return &Error{
		Phase:   phase,
		Kind:    KindInvariant,
		Section: section,
		Detail:  detail,
	}
}

// SegmentInvariant creates an invariant violation naming section and segment
func SegmentInvariant(phase Phase, section, segment, detail string) *Error {
	return &Error{
		Phase:   phase,
		Kind:    KindInvariant,
		Section: section,
		Segment: segment,
		Detail:  detail,
	}
}

// UnknownSection creates an error for a section type outside the closed set
func UnknownSection(phase Phase, sectionType uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnknownSection,
		Detail: fmt.Sprintf("invalid section type %d", sectionType),
	}
}

// Overflow creates an error for a value that exceeds its encoded field width
func Overflow(phase Phase, section string, value uint64, field string) *Error {
	return &Error{
		Phase:   phase,
		Kind:    KindOverflow,
		Section: section,
		Detail:  fmt.Sprintf("value %d overflows %s", value, field),
	}
}

// InvalidData creates an error for malformed module bytes
func InvalidData(phase Phase, detail string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Detail: detail,
		Cause:  cause,
	}
}
