package types

import (
	"fmt"

	"fortio.org/safecast"
)

// Builtins stores TypeIDs for common primitive types.
type Builtins struct {
	Unknown TypeID
	Unit    TypeID
	Bool    TypeID
	Char    TypeID
	Str     TypeID
	String  TypeID
	I32     TypeID
	F64     TypeID
	Fn      TypeID
	Closure TypeID
}

// Interner provides stable TypeIDs by hashing structural descriptors.
// It is filled by a single goroutine; once built it is only read and may be
// shared between goroutines.
type Interner struct {
	types      []Type
	index      map[Type]TypeID
	builtins   Builtins
	structs    []StructInfo
	tuples     []TupleInfo
	tupleIndex map[string]TypeID
}

// NewInterner constructs an interner seeded with built-in primitives.
func NewInterner() *Interner {
	in := &Interner{
		index:      make(map[Type]TypeID, 64),
		tupleIndex: make(map[string]TypeID, 16),
		structs:    []StructInfo{{}}, // slot 0 is the invalid sentinel
		tuples:     []TupleInfo{{}},
	}
	in.internRaw(Type{Kind: KindInvalid})
	in.builtins.Unknown = in.Intern(Type{Kind: KindUnknown})
	in.builtins.Unit = in.Intern(Type{Kind: KindUnit})
	in.builtins.Bool = in.Intern(Type{Kind: KindBool})
	in.builtins.Char = in.Intern(Type{Kind: KindChar})
	in.builtins.Str = in.Intern(Type{Kind: KindStr})
	in.builtins.String = in.Intern(Type{Kind: KindString})
	in.builtins.I32 = in.Intern(MakeInt(Width32))
	in.builtins.F64 = in.Intern(MakeFloat(Width64))
	in.builtins.Fn = in.Intern(Type{Kind: KindFn})
	in.builtins.Closure = in.Intern(Type{Kind: KindClosure})
	return in
}

// Builtins returns TypeIDs for primitive types.
func (in *Interner) Builtins() Builtins {
	return in.builtins
}

// Intern ensures the provided descriptor has a stable TypeID. Struct and
// tuple descriptors must go through RegisterStruct/RegisterTuple.
func (in *Interner) Intern(t Type) TypeID {
	if t.Kind == KindInvalid {
		return NoTypeID
	}
	if id, ok := in.index[t]; ok {
		return id
	}
	return in.internRaw(t)
}

func (in *Interner) internRaw(t Type) TypeID {
	n, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	id := TypeID(n)
	in.types = append(in.types, t)
	in.index[t] = id
	return id
}

// Lookup returns the descriptor for a TypeID.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// MustLookup panics when id is invalid.
func (in *Interner) MustLookup(id TypeID) Type {
	tt, ok := in.Lookup(id)
	if !ok {
		panic("types: invalid TypeID")
	}
	return tt
}

// Len reports the number of interned types, the invalid sentinel included.
func (in *Interner) Len() int {
	return len(in.types)
}
