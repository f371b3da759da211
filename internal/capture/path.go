package capture

import (
	"fmt"
	"strconv"
	"strings"

	"disjoint/internal/source"
	"disjoint/internal/types"
)

// VarID identifies an outer binding within one function.
type VarID uint32

// Variable is an outer-scope binding referenced inside a closure.
type Variable struct {
	ID    VarID
	Name  string
	Type  types.TypeID
	Order int // declaration order within the enclosing function
	Span  source.Span
}

type ProjKind uint8

const (
	ProjField ProjKind = iota // .0 or .name, resolved to an index
	ProjDeref                 // *place
	ProjIndex                 // place[i]
)

type Projection struct {
	Kind  ProjKind
	Index int
	Name  string // source spelling of a field, for display
}

func (p Projection) String() string {
	switch p.Kind {
	case ProjField:
		if p.Name != "" {
			return "." + p.Name
		}
		return "." + strconv.Itoa(p.Index)
	case ProjDeref:
		return ".*"
	case ProjIndex:
		return "[_]"
	default:
		return fmt.Sprintf(".?%d", p.Kind)
	}
}

// Path is a variable plus a chain of projections; no projections means the
// whole value.
type Path struct {
	Var   VarID
	Projs []Projection
}

func (p Path) IsWhole() bool {
	return len(p.Projs) == 0
}

// Equal compares variable and projection chain; field names are ignored.
func (p Path) Equal(o Path) bool {
	if p.Var != o.Var || len(p.Projs) != len(o.Projs) {
		return false
	}
	for i := range p.Projs {
		if !sameProj(p.Projs[i], o.Projs[i]) {
			return false
		}
	}
	return true
}

// IsPrefixOf reports whether p is a prefix of o (equal paths included).
func (p Path) IsPrefixOf(o Path) bool {
	if p.Var != o.Var || len(p.Projs) > len(o.Projs) {
		return false
	}
	for i := range p.Projs {
		if !sameProj(p.Projs[i], o.Projs[i]) {
			return false
		}
	}
	return true
}

// Prefix returns the path truncated to its first n projections.
func (p Path) Prefix(n int) Path {
	if n >= len(p.Projs) {
		return p
	}
	return Path{Var: p.Var, Projs: p.Projs[:n:n]}
}

// Format renders the path with the given variable name, e.g. `t.0`.
func (p Path) Format(name string) string {
	var sb strings.Builder
	sb.WriteString(name)
	for _, pr := range p.Projs {
		sb.WriteString(pr.String())
	}
	return sb.String()
}

// Compare orders paths of one variable lexicographically by projection.
func (p Path) Compare(o Path) int {
	for i := 0; i < len(p.Projs) && i < len(o.Projs); i++ {
		a, b := p.Projs[i], o.Projs[i]
		if a.Kind != b.Kind {
			return int(a.Kind) - int(b.Kind)
		}
		if a.Index != b.Index {
			return a.Index - b.Index
		}
	}
	return len(p.Projs) - len(o.Projs)
}

func sameProj(a, b Projection) bool {
	if a.Kind != b.Kind {
		return false
	}
	// indices are not tracked, so any two index projections may alias
	return a.Kind == ProjIndex || a.Kind == ProjDeref || a.Index == b.Index
}

// TypeOf walks the projections over the variable's type. It stops with
// ok=false when a projection cannot be typed.
func TypeOf(in *types.Interner, root types.TypeID, projs []Projection) (types.TypeID, bool) {
	cur := root
	for _, pr := range projs {
		var ok bool
		switch pr.Kind {
		case ProjField:
			cur, ok = in.FieldType(cur, pr.Index)
		case ProjDeref, ProjIndex:
			cur, ok = in.Elem(cur)
		}
		if !ok {
			return types.NoTypeID, false
		}
	}
	return cur, true
}
