package dropck

import "fmt"

// Significance classifies whether dropping a value runs a meaningful
// destructor.
type Significance uint8

const (
	// None: no destructor anywhere reachable.
	None Significance = iota
	// Direct: the type itself has a destructor.
	Direct
	// Nested: some reachable field or element has one.
	Nested
)

// Significant reports whether the value's drop is observable.
func (s Significance) Significant() bool {
	switch s {
	case Direct, Nested:
		return true
	case None:
		return false
	default:
		panic(fmt.Sprintf("dropck: unknown significance %d", s))
	}
}

func (s Significance) String() string {
	switch s {
	case None:
		return "none"
	case Direct:
		return "direct"
	case Nested:
		return "nested"
	default:
		return fmt.Sprintf("Significance(%d)", s)
	}
}

// Join combines the significances of sibling parts of a value: any
// significant part makes the whole significant, Direct wins over Nested.
func Join(a, b Significance) Significance {
	switch {
	case a == Direct || b == Direct:
		return Direct
	case a == Nested || b == Nested:
		return Nested
	default:
		return None
	}
}

// Nest lifts the significance of a component into the aggregate that holds
// it: a significant component makes the aggregate Nested.
func Nest(s Significance) Significance {
	if s.Significant() {
		return Nested
	}
	return None
}
