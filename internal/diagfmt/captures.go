package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"disjoint/internal/capture"
	"disjoint/internal/migrate"
	"disjoint/internal/source"
)

// Captures prints, per closure, both capture sets and the variables that
// have to be captured whole:
//
//	closure at f.rs:5:13 in test1
//	  old: t (by-value), t1 (by-value)
//	  new: t.0 (by-value), t1.0 (by-value)
//	  migrate: t (drop order changed)
func Captures(w io.Writer, results []migrate.Result, fs *source.FileSet, mode PathMode) error {
	for i, r := range results {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		c := r.Closure
		head := "closure"
		if c.Move {
			head = "move closure"
		}
		if _, err := fmt.Fprintf(w, "%s at %s in %s\n", head, location(c.Head, fs, mode), c.Fn); err != nil {
			return err
		}
		fmt.Fprintf(w, "  old: %s\n", formatSet(r.Sets.Old))
		fmt.Fprintf(w, "  new: %s\n", formatSet(r.Sets.New))
		if !r.NeedsMigration() {
			fmt.Fprintln(w, "  migrate: none")
			continue
		}
		parts := make([]string, 0, len(r.Records))
		for _, rec := range r.Records {
			parts = append(parts, fmt.Sprintf("%s (%s)", rec.Var.Name, rec.Reason))
		}
		fmt.Fprintf(w, "  migrate: %s\n", strings.Join(parts, ", "))
		fmt.Fprintf(w, "  suggestion: %s\n", migrate.Suggestion(r.Records))
	}
	return nil
}

func formatSet(set capture.ClosureCaptureSet) string {
	if len(set.Entries) == 0 {
		return "(nothing)"
	}
	var parts []string
	for _, e := range set.Entries {
		for _, p := range e.Paths {
			s := fmt.Sprintf("%s (%s)", p.Format(e.Var.Name), p.Mode)
			if p.Truncated {
				s += " truncated"
			}
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}
