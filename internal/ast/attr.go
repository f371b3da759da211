package ast

import "disjoint/internal/source"

// Attr is a `#[name(args)]` or `#![name(args)]` attribute.
type Attr struct {
	Span  source.Span
	Inner bool
	Name  string
	Args  []AttrArg
}

type AttrArg struct {
	Name string
	Span source.Span
}

// HasArg reports whether the attribute lists name among its arguments.
func (a *Attr) HasArg(name string) bool {
	for _, arg := range a.Args {
		if arg.Name == name {
			return true
		}
	}
	return false
}

// FindAttr returns the first attribute called name.
func FindAttr(attrs []Attr, name string) (*Attr, bool) {
	for i := range attrs {
		if attrs[i].Name == name {
			return &attrs[i], true
		}
	}
	return nil, false
}
