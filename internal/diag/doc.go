// Package diag defines the diagnostic model shared by the front end and the
// capture migration lint.
//
// # Scope
//
// Package diag does not format or print anything. Rendering lives in
// internal/diagfmt, application of fixes lives in internal/fix, and the
// driver coordinates per-file bags.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – Info, Warning, Error.
//   - Code – compact numeric identifier with a stable string form
//     (LEX/SYN/SEM/IO/LNT prefixes, see codes.go).
//   - Message – short human-oriented text.
//   - Primary – the source.Span the diagnostic points at.
//   - Notes – secondary spans/messages. The drop-order lint uses the first
//     note for the canonical `let (..) = (..);` hint.
//   - Fixes – data-only Fix records (title, applicability, TextEdits).
//
// # Emitting
//
// Phases report through a Reporter. ReportBuilder chains WithNote/WithFix
// before Emit. BagReporter collects into a Bag, which supports sorting,
// deduplication and filtering. Keep the model deterministic: the driver
// caches bags on disk and tests compare them as golden text.
package diag
