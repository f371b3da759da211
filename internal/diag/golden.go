package diag

import (
	"cmp"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"disjoint/internal/source"
)

// goldenLine is one rendered entry, ordered by path then position.
type goldenLine struct {
	label, code, path string
	line, col         uint32
	msg               string
}

func (g goldenLine) String() string {
	return fmt.Sprintf("%s %s %s:%d:%d %s", g.label, g.code, g.path, g.line, g.col, g.msg)
}

// FormatGoldenDiagnostics renders one line per diagnostic,
//
//	<severity> <CODE> <relpath>:<line>:<col> <message>
//
// sorted by location. With includeNotes each note follows as a "note" line
// carrying its diagnostic's code. Spans outside fs are dropped.
func FormatGoldenDiagnostics(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	if fs == nil {
		return ""
	}
	var lines []goldenLine
	add := func(label string, code Code, span source.Span, msg string) {
		if int(span.File) >= fs.Len() {
			return
		}
		start, _ := fs.Resolve(span)
		path := filepath.ToSlash(fs.Get(span.File).FormatPath("relative", fs.BaseDir()))
		for strings.HasPrefix(path, "./") {
			path = path[2:]
		}
		lines = append(lines, goldenLine{
			label: label,
			code:  code.ID(),
			path:  path,
			line:  start.Line,
			col:   start.Col,
			msg:   strings.TrimSpace(strings.Join(strings.FieldsFunc(msg, isLineBreak), " ")),
		})
	}
	for _, d := range diags {
		add(strings.ToLower(d.Severity.String()), d.Code, d.Primary, d.Message)
		if !includeNotes {
			continue
		}
		for _, n := range d.Notes {
			add("note", d.Code, n.Span, n.Msg)
		}
	}

	slices.SortStableFunc(lines, func(a, b goldenLine) int {
		return cmp.Or(cmp.Compare(a.path, b.path), cmp.Compare(a.line, b.line), cmp.Compare(a.col, b.col))
	})
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.String()
	}
	return strings.Join(out, "\n")
}

func isLineBreak(r rune) bool { return r == '\n' || r == '\r' }
