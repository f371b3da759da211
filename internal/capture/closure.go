package capture

import (
	"fmt"

	"disjoint/internal/source"
)

// Mode is how a variable (or one of its paths) ends up in the closure.
type Mode uint8

const (
	ByReference Mode = iota
	ByValue
)

func (m Mode) String() string {
	switch m {
	case ByReference:
		return "by-ref"
	case ByValue:
		return "by-value"
	default:
		return fmt.Sprintf("Mode(%d)", m)
	}
}

// AccessKind is what a single use site does with a place.
type AccessKind uint8

const (
	Read      AccessKind = iota // copy out of a Copy place
	Borrow                      // shared borrow, incl. macro arguments and method receivers
	MutBorrow                   // &mut or assignment target
	Move                        // ownership transfer of a non-Copy place
)

func (a AccessKind) String() string {
	switch a {
	case Read:
		return "read"
	case Borrow:
		return "borrow"
	case MutBorrow:
		return "mut-borrow"
	case Move:
		return "move"
	default:
		return fmt.Sprintf("AccessKind(%d)", a)
	}
}

// Use is one reference to an outer variable inside the closure body.
type Use struct {
	Var    VarID
	Access AccessKind
	Projs  []Projection
	Span   source.Span
}

// Closure is the resolved view of one closure expression.
type Closure struct {
	Fn     string      // enclosing function name
	Head   source.Span // `move` or the opening `|`
	Span   source.Span // whole closure expression
	Stmt   source.Span // statement that contains the closure
	Indent string      // leading whitespace of Stmt's line
	Move   bool
	Vars   []Variable // outer variables referenced, declaration order
	Uses   []Use
}

// Var returns the variable with the given id.
func (c *Closure) Var(id VarID) (Variable, bool) {
	for _, v := range c.Vars {
		if v.ID == id {
			return v, true
		}
	}
	return Variable{}, false
}

// CapturedPath is a collected path with its capture mode.
type CapturedPath struct {
	Path
	Mode      Mode
	Truncated bool // cut at an indirection boundary
	Span      source.Span
}
