package errors_test

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/wippyai/wasm-linker/errors"
)

func TestErrorFormat(t *testing.T) {
	err := errors.Invariant(errors.PhaseLayout, "CODE", "function size is zero")
	want := "[layout] invariant in CODE: function size is zero"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}

func TestErrorFormatWithSegment(t *testing.T) {
	err := errors.SegmentInvariant(errors.PhaseLayout, "DATA", ".data", "multiple active segments")
	got := err.Error()
	if !strings.Contains(got, "DATA/.data") {
		t.Errorf("expected section/segment in %q", got)
	}
}

func TestErrorFormatWithCause(t *testing.T) {
	cause := stderrors.New("unexpected EOF")
	err := errors.InvalidData(errors.PhaseScan, "read section size", cause)
	got := err.Error()
	if !strings.Contains(got, "caused by: unexpected EOF") {
		t.Errorf("expected cause in %q", got)
	}
	if !stderrors.Is(err, cause) {
		t.Error("expected errors.Is to match the cause")
	}
}

func TestInvariantFormatting(t *testing.T) {
	err := errors.Invariant(errors.PhaseMerge, "CUSTOM", "chunk %d already merged", 3)
	if !strings.Contains(err.Error(), "chunk 3 already merged") {
		t.Errorf("format args not applied: %q", err.Error())
	}
}

func TestIsMatchesPhaseAndKind(t *testing.T) {
	a := errors.Invariant(errors.PhaseLayout, "CODE", "x")
	b := errors.Invariant(errors.PhaseLayout, "DATA", "y")
	c := errors.UnknownSection(errors.PhaseLayout, 99)

	if !stderrors.Is(a, b) {
		t.Error("same phase+kind should match")
	}
	if stderrors.Is(a, c) {
		t.Error("different kind should not match")
	}
}

func TestUnknownSection(t *testing.T) {
	err := errors.UnknownSection(errors.PhaseLayout, 42)
	want := "[layout] unknown_section: invalid section type 42"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}

func TestOverflow(t *testing.T) {
	err := errors.Overflow(errors.PhaseLayout, "DATA", 1<<33, "segment size")
	if !strings.Contains(err.Error(), fmt.Sprintf("%d", uint64(1<<33))) {
		t.Errorf("expected value in %q", err.Error())
	}
}
