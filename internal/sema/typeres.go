package sema

import (
	"math"

	"fortio.org/safecast"

	"disjoint/internal/ast"
	"disjoint/internal/diag"
	"disjoint/internal/types"
)

var primitiveNames = map[string]types.Type{
	"bool":  {Kind: types.KindBool},
	"char":  {Kind: types.KindChar},
	"str":   {Kind: types.KindStr},
	"i8":    types.MakeInt(types.Width8),
	"i16":   types.MakeInt(types.Width16),
	"i32":   types.MakeInt(types.Width32),
	"i64":   types.MakeInt(types.Width64),
	"i128":  types.MakeInt(types.Width128),
	"isize": types.MakeInt(types.WidthAny),
	"u8":    types.MakeUint(types.Width8),
	"u16":   types.MakeUint(types.Width16),
	"u32":   types.MakeUint(types.Width32),
	"u64":   types.MakeUint(types.Width64),
	"u128":  types.MakeUint(types.Width128),
	"usize": types.MakeUint(types.WidthAny),
	"f32":   types.MakeFloat(types.Width32),
	"f64":   types.MakeFloat(types.Width64),
}

// ownerNames are smart pointers that own their pointee; they are modelled as
// Box for drop purposes.
var ownerNames = map[string]struct{}{
	"Box": {}, "Rc": {}, "Arc": {},
}

// resolveType maps type syntax to an interned type. Names that are neither
// primitives, known std types nor structs in scope resolve to Unknown.
func (tc *typeChecker) resolveType(id ast.TypeExprID, scope *typeScope, self types.TypeID) types.TypeID {
	b := tc.types.Builtins()
	te := tc.builder.TypeExprs.Get(id)
	if te == nil {
		return b.Unknown
	}
	arg := func(i int) types.TypeID {
		if i < len(te.Args) {
			return tc.resolveType(te.Args[i], scope, self)
		}
		return b.Unknown
	}

	switch te.Kind {
	case ast.TypePath:
		return tc.resolveNamed(te, scope, self, arg)
	case ast.TypeTuple:
		elems := make([]types.TypeID, 0, len(te.Args))
		for i := range te.Args {
			elems = append(elems, arg(i))
		}
		return tc.types.RegisterTuple(elems)
	case ast.TypeRef:
		return tc.types.Intern(types.MakeReference(arg(0), te.Mut))
	case ast.TypePtr:
		return tc.types.Intern(types.MakePointer(arg(0), te.Mut))
	case ast.TypeArray:
		n, err := safecast.Conv[uint32](te.Len)
		if err != nil || n == math.MaxUint32 {
			tc.report(diag.SemaUnknownType, diag.SevWarning, te.Span, "array length does not fit in 32 bits")
			return tc.types.Intern(types.MakeArray(arg(0), types.ArrayDynamicLength))
		}
		return tc.types.Intern(types.MakeArray(arg(0), n))
	case ast.TypeSlice:
		return tc.types.Intern(types.MakeArray(arg(0), types.ArrayDynamicLength))
	case ast.TypeFn:
		return b.Fn
	default:
		return b.Unknown
	}
}

func (tc *typeChecker) resolveNamed(te *ast.TypeExpr, scope *typeScope, self types.TypeID, arg func(int) types.TypeID) types.TypeID {
	b := tc.types.Builtins()
	name := lastSegment(te.Name)
	if t, ok := primitiveNames[name]; ok {
		return tc.types.Intern(t)
	}
	if _, ok := ownerNames[name]; ok {
		return tc.types.Intern(types.MakeBox(arg(0)))
	}
	switch name {
	case "String":
		return b.String
	case "Vec":
		return tc.types.Intern(types.MakeVec(arg(0)))
	case "Self":
		if self != types.NoTypeID {
			return self
		}
		return b.Unknown
	}
	if id, ok := scope.lookupStruct(name); ok {
		return id
	}
	return b.Unknown
}

func lastSegment(path string) string {
	for i := len(path) - 1; i > 0; i-- {
		if path[i] == ':' && path[i-1] == ':' {
			return path[i+1:]
		}
	}
	return path
}
