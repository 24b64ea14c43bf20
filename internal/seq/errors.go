package seq

import (
	"fmt"

	"seqgen/internal/diag"
	"seqgen/internal/source"
)

// SyntaxError is a malformed invocation. It is fatal to that invocation.
type SyntaxError struct {
	Code  diag.Code
	Span  source.Span
	Msg   string
	Notes []diag.Note
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code.ID(), e.Msg)
}

func (e *SyntaxError) Diagnostic() diag.Diagnostic {
	return diag.Diagnostic{Severity: diag.SevError, Code: e.Code, Message: e.Msg, Primary: e.Span, Notes: e.Notes}
}

func syntaxErr(code diag.Code, sp source.Span, format string, args ...any) *SyntaxError {
	return &SyntaxError{Code: code, Span: sp, Msg: fmt.Sprintf(format, args...)}
}

// FusionError is a malformed name#binder fusion. It never aborts expansion but
// marks the output as unusable for compilation.
type FusionError struct {
	Code diag.Code
	Span source.Span
	Msg  string
	// Note points at the other half of the fusion, when there is one.
	Note *diag.Note
}

const (
	msgNoIdentBefore = "no ident before '#' to concat"
	msgNoIdentAfter  = "no ident after '#' to concat"
	msgMismatched    = "mismatched ident after '#'"
)

func (e *FusionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code.ID(), e.Msg)
}

func (e *FusionError) Diagnostic() diag.Diagnostic {
	d := diag.Diagnostic{Severity: diag.SevError, Code: e.Code, Message: e.Msg, Primary: e.Span}
	if e.Note != nil {
		d.Notes = []diag.Note{*e.Note}
	}
	return d
}

// AmbiguousMarkerError reports a body holding more than one independent
// repetition marker. It is fatal to the invocation.
type AmbiguousMarkerError struct {
	First  source.Span
	Second source.Span
}

func (e *AmbiguousMarkerError) Error() string {
	return fmt.Sprintf("%s: more than one repetition marker in one body", diag.SeqAmbiguousMarker.ID())
}

func (e *AmbiguousMarkerError) Diagnostic() diag.Diagnostic {
	return diag.NewError(diag.SeqAmbiguousMarker, e.Second, "second repetition marker; only one #( ... )* is allowed per body").
		WithNote(e.First, "first marker here")
}

// DepthError reports nested calls that kept producing calls past the limit.
type DepthError struct {
	Span  source.Span
	Limit int
}

func (e *DepthError) Error() string {
	return fmt.Sprintf("%s: nested seq expansion exceeded depth %d", diag.SeqDepthExceeded.ID(), e.Limit)
}

func (e *DepthError) Diagnostic() diag.Diagnostic {
	return diag.NewError(diag.SeqDepthExceeded, e.Span, fmt.Sprintf("nested seq expansion exceeded depth %d", e.Limit))
}

// Diagnosable is implemented by every error of this package.
type Diagnosable interface {
	error
	Diagnostic() diag.Diagnostic
}
