package dropck

import (
	"strconv"

	"golang.org/x/sync/singleflight"

	"disjoint/internal/types"
)

// Oracle answers drop-significance and Copy queries over one type interner.
// It is safe for concurrent use once the interner is no longer mutated.
type Oracle struct {
	types *types.Interner

	sig   *memo[Significance]
	copy  *memo[bool]
	group singleflight.Group
}

// New creates an oracle for the types in typesIn.
func New(typesIn *types.Interner) *Oracle {
	return &Oracle{
		types: typesIn,
		sig:   newMemo[Significance](),
		copy:  newMemo[bool](),
	}
}

// Types returns the interner the oracle reads from.
func (o *Oracle) Types() *types.Interner {
	return o.types
}

// Significance reports whether dropping a value of type id runs a
// destructor. Unknown types and recursion cycles are treated as Nested.
func (o *Oracle) Significance(id types.TypeID) Significance {
	if s, ok := o.sig.get(id); ok {
		return s
	}
	v, _, _ := o.group.Do("sig:"+strconv.FormatUint(uint64(id), 10), func() (any, error) {
		return o.significance(id, make(visiting, 8)), nil
	})
	return v.(Significance)
}

func (o *Oracle) significance(id types.TypeID, seen visiting) Significance {
	if s, ok := o.sig.get(id); ok {
		return s
	}
	if !seen.enter(id) {
		return Nested
	}
	s := o.computeSignificance(id, seen)
	seen.leave(id)
	o.sig.put(id, s)
	return s
}

func (o *Oracle) computeSignificance(id types.TypeID, seen visiting) Significance {
	tt, ok := o.types.Lookup(id)
	if !ok {
		return Nested
	}
	switch tt.Kind {
	case types.KindUnit, types.KindBool, types.KindChar, types.KindInt, types.KindUint,
		types.KindFloat, types.KindStr, types.KindReference, types.KindPointer, types.KindFn:
		return None
	case types.KindString, types.KindVec, types.KindBox:
		return Direct
	case types.KindArray:
		if tt.Count == 0 {
			return None
		}
		return Nest(o.significance(tt.Elem, seen))
	case types.KindTuple, types.KindStruct:
		if info, ok := o.types.StructInfo(id); ok && info.HasDrop {
			return Direct
		}
		acc := None
		for _, f := range o.types.Fields(id) {
			acc = Join(acc, Nest(o.significance(f, seen)))
		}
		return acc
	default:
		// unknown, closure, invalid
		return Nested
	}
}

// IsCopy reports whether values of type id are copied rather than moved.
// Unknown types and cycles are not Copy.
func (o *Oracle) IsCopy(id types.TypeID) bool {
	if c, ok := o.copy.get(id); ok {
		return c
	}
	v, _, _ := o.group.Do("copy:"+strconv.FormatUint(uint64(id), 10), func() (any, error) {
		return o.isCopy(id, make(visiting, 8)), nil
	})
	return v.(bool)
}

func (o *Oracle) isCopy(id types.TypeID, seen visiting) bool {
	if c, ok := o.copy.get(id); ok {
		return c
	}
	if !seen.enter(id) {
		return false
	}
	c := o.computeCopy(id, seen)
	seen.leave(id)
	o.copy.put(id, c)
	return c
}

func (o *Oracle) computeCopy(id types.TypeID, seen visiting) bool {
	tt, ok := o.types.Lookup(id)
	if !ok {
		return false
	}
	switch tt.Kind {
	case types.KindUnit, types.KindBool, types.KindChar, types.KindInt, types.KindUint,
		types.KindFloat, types.KindFn, types.KindPointer:
		return true
	case types.KindReference:
		return !tt.Mutable
	case types.KindArray:
		return tt.Count == 0 || (tt.Count != types.ArrayDynamicLength && o.isCopy(tt.Elem, seen))
	case types.KindStruct:
		info, ok := o.types.StructInfo(id)
		if !ok || !info.Copy || info.HasDrop {
			return false
		}
		fallthrough
	case types.KindTuple:
		for _, f := range o.types.Fields(id) {
			if !o.isCopy(f, seen) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Cached reports the number of memoized significance answers.
func (o *Oracle) Cached() int {
	return o.sig.len()
}
