package sema

import (
	"disjoint/internal/ast"
	"disjoint/internal/capture"
	"disjoint/internal/source"
	"disjoint/internal/types"
)

// binding is a local variable or parameter of the function being walked.
type binding struct {
	id    capture.VarID
	name  string
	ty    types.TypeID
	order int
	span  source.Span
	depth int // len(scopes) when declared
}

func (b *binding) variable() capture.Variable {
	return capture.Variable{ID: b.id, Name: b.name, Type: b.ty, Order: b.order, Span: b.span}
}

func (w *fnWalker) pushScope() {
	w.scopes = append(w.scopes, make(map[string]*binding))
}

func (w *fnWalker) popScope() {
	w.scopes = w.scopes[:len(w.scopes)-1]
}

func (w *fnWalker) lookup(name string) (*binding, bool) {
	for i := len(w.scopes) - 1; i >= 0; i-- {
		if b, ok := w.scopes[i][name]; ok {
			return b, true
		}
	}
	return nil, false
}

func (w *fnWalker) declare(name string, ty types.TypeID, sp source.Span) *binding {
	w.nextID++
	b := &binding{
		id:    w.nextID,
		name:  name,
		ty:    ty,
		order: w.order,
		span:  sp,
		depth: len(w.scopes),
	}
	w.order++
	w.scopes[len(w.scopes)-1][name] = b
	return b
}

// bindPattern declares the identifiers of pat, destructuring tuple types
// element-wise. Elements of non-tuple types get Unknown.
func (w *fnWalker) bindPattern(id ast.PatID, ty types.TypeID) {
	pat := w.tc.builder.Pats.Get(id)
	if pat == nil {
		return
	}
	unknown := w.tc.types.Builtins().Unknown
	switch pat.Kind {
	case ast.PatIdent:
		w.declare(pat.Name, ty, pat.Span)
	case ast.PatTuple:
		elems := w.tc.types.Fields(ty)
		for i, e := range pat.Elems {
			et := unknown
			if tt, ok := w.tc.types.Lookup(ty); ok && tt.Kind == types.KindTuple && i < len(elems) {
				et = elems[i]
			}
			w.bindPattern(e, et)
		}
	case ast.PatRef:
		inner := unknown
		if tt, ok := w.tc.types.Lookup(ty); ok && tt.Kind == types.KindReference {
			inner = tt.Elem
		}
		for _, e := range pat.Elems {
			w.bindPattern(e, inner)
		}
	}
}
