// Package diag implements the shared diagnostic type and wire format used
// by the parser, analyzer, and evaluator; the lexer's errors arrive as
// Illegal tokens that the parser relays as Lexical diagnostics. Diagnostics are a
// distinct type from Go's error — they need to be collected in batches
// (the semantic pass keeps going after a mismatch) rather than short-circuit
// the call stack the way a returned error would.
package diag

import "fmt"

// Kind is the diagnostic category. The taxonomy has five members; the
// interpreter only ever produces the first four (IO diagnostics are
// reported directly by the CLI driver, which never builds a Diagnostic).
type Kind string

const (
	Lexical  Kind = "Lexical"
	Syntax   Kind = "Syntax"
	Semantic Kind = "Semantic"
	Runtime  Kind = "Runtime"
	IO       Kind = "IO"
)

// Diagnostic is one reported error, pinned to the source position where it
// was detected.
type Diagnostic struct {
	Kind    Kind
	Row     int
	Column  int
	Message string
}

func New(kind Kind, row, col int, format string, args ...any) *Diagnostic {
	return &Diagnostic{Kind: kind, Row: row, Column: col, Message: fmt.Sprintf(format, args...)}
}

// String renders the diagnostic in the wire format:
// <Kind>Error::Row <R>::Column <C>::<message>
func (d *Diagnostic) String() string {
	return fmt.Sprintf("%sError::Row %d::Column %d::%s", d.Kind, d.Row, d.Column, d.Message)
}
