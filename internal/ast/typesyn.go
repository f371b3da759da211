package ast

import "disjoint/internal/source"

type TypeExprKind uint8

const (
	TypePath  TypeExprKind = iota // String, Vec<T>, S
	TypeTuple                     // (A, B); () is the unit type
	TypeRef                       // &T, &mut T
	TypePtr                       // *const T, *mut T
	TypeArray                     // [T; N]
	TypeSlice                     // [T]
	TypeFn                        // fn(A) -> B
	TypeInfer                     // _
)

// TypeExpr is type syntax as written; semantic types live in internal/types.
type TypeExpr struct {
	Kind TypeExprKind
	Span source.Span
	Name string       // TypePath
	Args []TypeExprID // generic args, tuple elems, fn params; elem for ref/ptr/array/slice
	Ret  TypeExprID   // TypeFn
	Mut  bool         // TypeRef, TypePtr
	Len  uint64       // TypeArray
}

type TypeExprs struct {
	Arena *Arena[TypeExpr]
}

func NewTypeExprs(capHint uint) *TypeExprs {
	return &TypeExprs{Arena: NewArena[TypeExpr](capHint)}
}

func (t *TypeExprs) New(te TypeExpr) TypeExprID {
	return TypeExprID(t.Arena.Allocate(te))
}

func (t *TypeExprs) Get(id TypeExprID) *TypeExpr {
	return t.Arena.Get(uint32(id))
}
