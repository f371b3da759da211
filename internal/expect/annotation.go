// Package expect checks diagnostics against `//~` annotations written in
// the source under test:
//
//	let c = || {
//	//~^ ERROR: drop order affected
//	//~| NOTE: let (t) = (t);
//
// A caret per line moves the target up; a pipe targets the line of the
// previous annotation.
package expect

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"disjoint/internal/source"
)

type Kind uint8

const (
	KindError Kind = iota
	KindWarn
	KindNote
	KindHelp
)

func (k Kind) String() string {
	switch k {
	case KindError:
		return "ERROR"
	case KindWarn:
		return "WARN"
	case KindNote:
		return "NOTE"
	case KindHelp:
		return "HELP"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

func parseKind(s string) (Kind, bool) {
	switch strings.ToUpper(s) {
	case "ERROR":
		return KindError, true
	case "WARN", "WARNING":
		return KindWarn, true
	case "NOTE":
		return KindNote, true
	case "HELP":
		return KindHelp, true
	}
	return KindError, false
}

// Annotation is one expected diagnostic or note.
type Annotation struct {
	Line uint32 // 1-based target line
	Kind Kind
	Text string // expected substring; empty matches anything
	At   uint32 // line the annotation is written on
}

func (a Annotation) String() string {
	if a.Text == "" {
		return fmt.Sprintf("%d: %s", a.Line, a.Kind)
	}
	return fmt.Sprintf("%d: %s: %s", a.Line, a.Kind, a.Text)
}

// ParseError reports a malformed annotation.
type ParseError struct {
	Path string
	Line uint32
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Msg)
}

const marker = "//~"

// Parse extracts the annotations of f in source order.
func Parse(f *source.File) ([]Annotation, error) {
	var out []Annotation
	lines := strings.Split(string(f.Content), "\n")
	for i, text := range lines {
		at, err := safecast.Conv[uint32](i + 1)
		if err != nil {
			return out, err
		}
		idx := strings.Index(text, marker)
		if idx < 0 {
			continue
		}
		ann, perr := parseOne(text[idx+len(marker):], at, out)
		if perr != "" {
			return out, &ParseError{Path: f.Path, Line: at, Msg: perr}
		}
		out = append(out, ann)
	}
	return out, nil
}

func parseOne(rest string, at uint32, prev []Annotation) (Annotation, string) {
	ann := Annotation{Line: at, At: at}
	switch {
	case strings.HasPrefix(rest, "|"):
		if len(prev) == 0 {
			return ann, "`//~|` without a previous annotation"
		}
		ann.Line = prev[len(prev)-1].Line
		rest = rest[1:]
	default:
		up := uint32(0)
		for strings.HasPrefix(rest, "^") {
			up++
			rest = rest[1:]
		}
		if up >= at {
			return ann, "`^` points above the first line"
		}
		ann.Line = at - up
	}

	rest = strings.TrimSpace(rest)
	word := rest
	if i := strings.IndexAny(rest, ": \t"); i >= 0 {
		word, rest = rest[:i], rest[i:]
	} else {
		rest = ""
	}
	kind, ok := parseKind(word)
	if !ok {
		return ann, fmt.Sprintf("unknown annotation kind %q", word)
	}
	ann.Kind = kind
	rest = strings.TrimSpace(rest)
	rest = strings.TrimPrefix(rest, ":")
	ann.Text = strings.TrimSpace(rest)
	return ann, ""
}
