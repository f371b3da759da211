package expect

import (
	"fmt"
	"sort"
	"strings"

	"disjoint/internal/diag"
	"disjoint/internal/source"
)

const helpPrefix = "help: "

// Observed is one produced diagnostic or note, flattened to a line.
type Observed struct {
	Line uint32
	Kind Kind
	Text string
}

func (o Observed) String() string {
	return fmt.Sprintf("%d: %s: %s", o.Line, o.Kind, o.Text)
}

// Result lists what did not line up.
type Result struct {
	Missing    []Annotation // expected but not produced
	Unexpected []Observed   // produced but not expected
}

func (r Result) OK() bool {
	return len(r.Missing) == 0 && len(r.Unexpected) == 0
}

// Summary renders the mismatches one per line.
func (r Result) Summary(path string) string {
	var sb strings.Builder
	for _, a := range r.Missing {
		fmt.Fprintf(&sb, "%s:%s (expected, not found)\n", path, a)
	}
	for _, o := range r.Unexpected {
		fmt.Fprintf(&sb, "%s:%s (unexpected)\n", path, o)
	}
	return sb.String()
}

// Flatten turns the diagnostics located in file into observed items.
// Informational diagnostics are skipped; notes starting with "help: " are
// HELP items.
func Flatten(diags []diag.Diagnostic, fs *source.FileSet, file source.FileID) []Observed {
	var out []Observed
	line := func(sp source.Span) uint32 {
		start, _ := fs.Resolve(sp)
		return start.Line
	}
	for _, d := range diags {
		if d.Primary.File != file {
			continue
		}
		switch d.Severity {
		case diag.SevError:
			out = append(out, Observed{Line: line(d.Primary), Kind: KindError, Text: d.Message})
		case diag.SevWarning:
			out = append(out, Observed{Line: line(d.Primary), Kind: KindWarn, Text: d.Message})
		default:
			continue
		}
		for _, n := range d.Notes {
			if n.Span.File != file {
				continue
			}
			kind, text := KindNote, n.Msg
			if rest, ok := strings.CutPrefix(n.Msg, helpPrefix); ok {
				kind, text = KindHelp, rest
			}
			out = append(out, Observed{Line: line(n.Span), Kind: kind, Text: text})
		}
	}
	return out
}

// Match pairs annotations with observed items. An annotation matches an item
// on the same line with the same kind whose text contains the annotation
// text. Unmatched errors and warnings are always unexpected; unmatched notes
// and helps only when the file annotates that kind at all.
func Match(anns []Annotation, observed []Observed) Result {
	var res Result
	used := make([]bool, len(observed))
	checked := map[Kind]bool{KindError: true, KindWarn: true}
	for _, a := range anns {
		checked[a.Kind] = true
	}

	for _, a := range anns {
		found := false
		for i, o := range observed {
			if used[i] || o.Line != a.Line || o.Kind != a.Kind {
				continue
			}
			if a.Text != "" && !strings.Contains(o.Text, a.Text) {
				continue
			}
			used[i] = true
			found = true
			break
		}
		if !found {
			res.Missing = append(res.Missing, a)
		}
	}
	for i, o := range observed {
		if !used[i] && checked[o.Kind] {
			res.Unexpected = append(res.Unexpected, o)
		}
	}
	sort.SliceStable(res.Unexpected, func(i, j int) bool {
		return res.Unexpected[i].Line < res.Unexpected[j].Line
	})
	return res
}

// Check parses the annotations of file and matches them against diags.
func Check(diags []diag.Diagnostic, fs *source.FileSet, file source.FileID) (Result, error) {
	f := fs.Get(file)
	anns, err := Parse(f)
	if err != nil {
		return Result{}, err
	}
	return Match(anns, Flatten(diags, fs, file)), nil
}
