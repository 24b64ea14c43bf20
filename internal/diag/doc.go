// Package diag defines the diagnostic model shared by the lexer, the token tree
// builder, the seq expander and the driver.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – Info, Warning or Error (severity.go).
//   - Code – compact numeric identifier with a stable string form (codes.go).
//     Ranges: LEX 1000, SYN 2000, SEQ 3000, IO 4000, PRJ 5000.
//   - Message – short, actionable text.
//   - Primary – the source.Span pointing at the offending token.
//   - Notes – optional secondary spans (e.g. "first marker here").
//
// # Emitting diagnostics
//
// Phases report through a Reporter so that emission is decoupled from storage.
// BagReporter stores into a size-limited Bag, DedupReporter drops exact repeats
// (full replication substitutes the same template once per range value and would
// otherwise report a malformed fusion once per value).
//
// Package diag does no formatting or IO; rendering lives in internal/diagfmt.
package diag
