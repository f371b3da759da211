package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"disjoint/internal/diag"
	"disjoint/internal/source"
)

type palette struct {
	err, warn, info, note, fix, gutter, caret, added, removed *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:     color.New(color.FgRed, color.Bold),
		warn:    color.New(color.FgYellow, color.Bold),
		info:    color.New(color.FgCyan, color.Bold),
		note:    color.New(color.FgBlue, color.Bold),
		fix:     color.New(color.FgGreen, color.Bold),
		gutter:  color.New(color.FgBlue),
		caret:   color.New(color.FgRed),
		added:   color.New(color.FgGreen),
		removed: color.New(color.FgRed),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.note, p.fix, p.gutter, p.caret, p.added, p.removed} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty writes each diagnostic of a sorted bag as
//
//	<path>:<line>:<col>: <SEV> <CODE>: <Message>
//
// followed by the source snippet with a caret underline, then notes and
// fixes when enabled.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	pal := newPalette(opts.Color)
	items := bag.Items()
	for i := range items {
		if i > 0 {
			fmt.Fprintln(w)
		}
		prettyOne(w, &items[i], fs, opts, pal)
	}
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, pal palette) {
	fmt.Fprintf(w, "%s: %s %s: %s\n",
		location(d.Primary, fs, opts.PathMode),
		pal.severity(d.Severity).Sprint(d.Severity.String()),
		d.Code.ID(),
		d.Message)
	snippet(w, d.Primary, fs, opts.Context, pal)

	if opts.ShowNotes {
		for _, n := range d.Notes {
			fmt.Fprintf(w, "  %s %s: %s\n", pal.note.Sprint("note:"), location(n.Span, fs, opts.PathMode), n.Msg)
			if n.Span != d.Primary {
				snippet(w, n.Span, fs, 0, pal)
			}
		}
	}

	if !opts.ShowFixes {
		return
	}
	for _, f := range d.Fixes {
		fmt.Fprintf(w, "  %s %s (%s)\n", pal.fix.Sprint("fix:"), f.Title, f.Applicability)
		if !opts.ShowPreview {
			continue
		}
		for _, edit := range f.Edits {
			preview, err := buildFixEditPreview(fs, edit)
			if err != nil {
				continue
			}
			for _, line := range preview.before {
				fmt.Fprintf(w, "      %s\n", pal.removed.Sprint("- "+line))
			}
			for _, line := range preview.after {
				fmt.Fprintf(w, "      %s\n", pal.added.Sprint("+ "+line))
			}
		}
	}
}

func location(span source.Span, fs *source.FileSet, mode PathMode) string {
	if int(span.File) >= fs.Len() {
		return "<unknown>"
	}
	start, _ := fs.Resolve(span)
	return fmt.Sprintf("%s:%d:%d", formatPath(fs.Get(span.File), fs, mode), start.Line, start.Col)
}

// snippet prints the primary line with context lines around it and a
// caret underline below the spanned columns.
func snippet(w io.Writer, span source.Span, fs *source.FileSet, context int8, pal palette) {
	if int(span.File) >= fs.Len() {
		return
	}
	f := fs.Get(span.File)
	start, end := fs.Resolve(span)
	ctx := uint32(max(context, 0))
	first := uint32(1)
	if start.Line > ctx {
		first = start.Line - ctx
	}
	last := start.Line + ctx
	if total := uint32(len(f.LineIdx)) + 1; last > total {
		last = total
	}
	width := len(fmt.Sprint(last))

	for ln := first; ln <= last; ln++ {
		text := f.GetLine(ln)
		fmt.Fprintf(w, "%s %s\n", pal.gutter.Sprintf("%*d |", width, ln), text)
		if ln != start.Line {
			continue
		}
		endCol := end.Col
		if end.Line != start.Line {
			endCol = uint32(len(text)) + 1
		}
		fmt.Fprintf(w, "%s %s\n", pal.gutter.Sprintf("%*s |", width, ""), underline(text, start.Col, endCol, pal))
	}
}

// underline builds "^~~~" under bytes [startCol, endCol) of line, keeping
// tabs so that the marker lines up in a terminal.
func underline(line string, startCol, endCol uint32, pal palette) string {
	startCol = min(max(startCol, 1), uint32(len(line))+1)
	endCol = max(endCol, startCol+1)

	var pad strings.Builder
	for _, r := range line[:startCol-1] {
		if r == '\t' {
			pad.WriteByte('\t')
			continue
		}
		pad.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}

	marked := ""
	if int(startCol-1) < len(line) {
		marked = line[startCol-1 : min(int(endCol-1), len(line))]
	}
	n := max(runewidth.StringWidth(marked), 1)
	return pad.String() + pal.caret.Sprint("^"+strings.Repeat("~", n-1))
}
