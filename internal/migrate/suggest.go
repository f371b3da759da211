package migrate

import (
	"strings"

	"disjoint/internal/capture"
	"disjoint/internal/diag"
	"disjoint/internal/fix"
	"disjoint/internal/source"
)

// Message is the fixed primary message of the migration diagnostic.
const Message = "drop order affected for closure because of `capture_disjoint_fields`"

// FixID identifies the whole-binding fix.
const FixID = "disjoint.whole-binding"

// LintLevelNote is attached once per lint-level attribute.
const LintLevelNote = "the lint level is defined here"

const helpNote = "help: add the binding above before the closure to keep capturing these variables whole, or accept that their parts are dropped at a different time"

// Suggestion renders `let (a, b) = (a, b);` for the migrating variables in
// declaration order, without duplicates.
func Suggestion(records []Record) string {
	seen := make(map[capture.VarID]struct{}, len(records))
	names := make([]string, 0, len(records))
	ordered := append([]Record(nil), records...)
	sortByDeclaration(ordered)
	for _, r := range ordered {
		if _, dup := seen[r.Var.ID]; dup {
			continue
		}
		seen[r.Var.ID] = struct{}{}
		names = append(names, r.Var.Name)
	}
	list := strings.Join(names, ", ")
	return "let (" + list + ") = (" + list + ");"
}

// ReportOptions tune how the diagnostic is emitted.
type ReportOptions struct {
	Severity  diag.Severity
	LevelSpan source.Span // attribute that set the lint level; empty if none
	WithFix   bool
}

// Report emits at most one diagnostic for the closure. Nothing is reported
// when records is empty.
func Report(r diag.Reporter, c *capture.Closure, records []Record, opts ReportOptions) bool {
	if len(records) == 0 || r == nil {
		return false
	}
	hint := Suggestion(records)
	b := diag.NewReportBuilder(r, opts.Severity, diag.LintDisjointCaptureDropReorder, c.Head, Message)
	if !opts.LevelSpan.Empty() {
		b.WithNote(opts.LevelSpan, LintLevelNote)
	}
	b.WithNote(c.Head, hint)
	b.WithNote(c.Head, helpNote)
	if opts.WithFix && !c.Stmt.Empty() {
		b.WithFix(fix.InsertText(
			"capture "+strings.Join(recordNames(records), ", ")+" whole",
			c.Stmt,
			hint+"\n"+c.Indent,
			fix.WithID(FixID),
		))
	}
	b.Emit()
	return true
}

func recordNames(records []Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Var.Name)
	}
	return out
}
