package diag

import "disjoint/internal/source"

type reportKey struct {
	code    Code
	sev     Severity
	primary source.Span
	msg     string
}

// DedupReporter forwards each distinct (code, severity, span, message)
// report once; later duplicates are dropped.
type DedupReporter struct {
	next Reporter
	seen map[reportKey]bool
}

func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{next: next, seen: map[reportKey]bool{}}
}

func (r *DedupReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note, fixes []Fix) {
	if r == nil {
		return
	}
	k := reportKey{code: code, sev: sev, primary: primary, msg: msg}
	if r.seen[k] {
		return
	}
	r.seen[k] = true
	if r.next != nil {
		r.next.Report(code, sev, primary, msg, notes, fixes)
	}
}
