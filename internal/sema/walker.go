package sema

import (
	"sort"
	"strconv"

	"disjoint/internal/ast"
	"disjoint/internal/capture"
	"disjoint/internal/diag"
	"disjoint/internal/source"
	"disjoint/internal/types"
)

// useCtx is what the consumer of an expression does with its value.
type useCtx uint8

const (
	ctxValue     useCtx = iota // moved, or copied when the type is Copy
	ctxBorrow                  // shared reference
	ctxMutBorrow               // unique reference
	ctxIgnore                  // `let _ = place` binds nothing
)

// frame is a closure whose body is being walked.
type frame struct {
	closure *capture.Closure
	depth   int // bindings with a smaller depth are outer variables
	vars    map[capture.VarID]*binding
}

// fnWalker resolves the body of one function.
type fnWalker struct {
	tc    *typeChecker
	fn    *ast.FnDecl
	items *typeScope
	self  types.TypeID
	lint  LintSetting

	scopes []map[string]*binding
	nextID capture.VarID
	order  int
	frames []*frame
	stmt   source.Span // innermost statement being walked
}

func newFnWalker(tc *typeChecker, fn *ast.FnDecl, items *typeScope, self types.TypeID, lint LintSetting) *fnWalker {
	return &fnWalker{tc: tc, fn: fn, items: items, self: self, lint: lint}
}

func (w *fnWalker) walkFn() {
	if !w.fn.Body.IsValid() {
		return
	}
	w.pushScope()
	for _, p := range w.fn.Params {
		w.bindPattern(p.Pat, w.resolveType(p.Type))
	}
	w.expr(w.fn.Body, ctxValue)
	w.popScope()
}

func (w *fnWalker) resolveType(id ast.TypeExprID) types.TypeID {
	return w.tc.resolveType(id, w.items, w.self)
}

func (w *fnWalker) unknown() types.TypeID {
	return w.tc.types.Builtins().Unknown
}

func (w *fnWalker) block(d *ast.ExprBlockData, ctx useCtx) types.TypeID {
	w.pushScope()
	defer w.popScope()
	saved := w.stmt
	defer func() { w.stmt = saved }()

	for _, sid := range d.Stmts {
		st := w.tc.builder.Stmts.Get(sid)
		if st == nil {
			continue
		}
		w.stmt = st.Span
		w.stmtNode(st)
	}
	if !d.Tail.IsValid() {
		return w.tc.types.Builtins().Unit
	}
	if tail := w.tc.builder.Exprs.Get(d.Tail); tail != nil {
		w.stmt = tail.Span
	}
	return w.expr(d.Tail, ctx)
}

func (w *fnWalker) stmtNode(st *ast.Stmt) {
	switch st.Kind {
	case ast.StmtLet:
		declared := types.NoTypeID
		if st.Type.IsValid() {
			declared = w.resolveType(st.Type)
		}
		ctx := ctxValue
		if pat := w.tc.builder.Pats.Get(st.Pat); pat != nil && pat.Kind == ast.PatWild {
			ctx = ctxIgnore
		}
		ty := w.unknown()
		if st.Init.IsValid() {
			ty = w.expr(st.Init, ctx)
		}
		if declared != types.NoTypeID && declared != w.unknown() {
			ty = declared
		}
		w.bindPattern(st.Pat, ty)
	case ast.StmtExpr:
		w.expr(st.Expr, ctxValue)
	}
}

func (w *fnWalker) closure(sp source.Span, d *ast.ExprClosureData) types.TypeID {
	c := &capture.Closure{
		Fn:     w.fn.Name,
		Head:   d.Head,
		Span:   sp,
		Stmt:   w.stmt,
		Indent: w.indentOf(w.stmt),
		Move:   d.Move,
	}
	w.tc.result.Closures = append(w.tc.result.Closures, ClosureInfo{Closure: c, Lint: w.lint})

	w.pushScope()
	f := &frame{closure: c, depth: len(w.scopes), vars: make(map[capture.VarID]*binding)}
	w.frames = append(w.frames, f)
	for _, p := range d.Params {
		ty := w.unknown()
		if p.Type.IsValid() {
			ty = w.resolveType(p.Type)
		}
		w.bindPattern(p.Pat, ty)
	}
	w.expr(d.Body, ctxValue)
	w.frames = w.frames[:len(w.frames)-1]
	w.popScope()

	c.Vars = make([]capture.Variable, 0, len(f.vars))
	for _, b := range f.vars {
		c.Vars = append(c.Vars, b.variable())
	}
	sort.Slice(c.Vars, func(i, j int) bool { return c.Vars[i].Order < c.Vars[j].Order })
	return w.tc.types.Builtins().Closure
}

// indentOf returns the leading whitespace of the line holding sp.
func (w *fnWalker) indentOf(sp source.Span) string {
	f := w.tc.source
	if f == nil || int(sp.Start) > len(f.Content) {
		return ""
	}
	start := f.LineStart(sp.Start)
	end := start
	for end < sp.Start && (f.Content[end] == ' ' || f.Content[end] == '\t') {
		end++
	}
	return string(f.Content[start:end])
}

// place is a local variable followed by projections.
type place struct {
	b       *binding
	projs   []capture.Projection
	ty      types.TypeID
	indices []ast.ExprID // index operands, walked as values
	missing []missingField
}

type missingField struct {
	owner types.TypeID
	span  source.Span
	field *ast.ExprFieldData
}

// placeOf recognizes place expressions rooted at a local binding. Field
// access through a reference or box records the implicit deref.
func (w *fnWalker) placeOf(id ast.ExprID) (place, bool) {
	expr := w.tc.builder.Exprs.Get(id)
	if expr == nil {
		return place{}, false
	}
	in := w.tc.types
	switch expr.Kind {
	case ast.ExprIdent:
		d, _ := w.tc.builder.Exprs.Ident(id)
		b, ok := w.lookup(d.Name)
		if !ok {
			return place{}, false
		}
		return place{b: b, ty: b.ty}, true
	case ast.ExprGroup:
		d, _ := w.tc.builder.Exprs.Group(id)
		return w.placeOf(d.Inner)
	case ast.ExprField:
		d, _ := w.tc.builder.Exprs.Field(id)
		base, ok := w.placeOf(d.Target)
		if !ok {
			return place{}, false
		}
		base = w.autoDeref(base)
		idx := d.Index
		if idx < 0 {
			idx, _ = in.FieldIndex(base.ty, d.Name)
		}
		fieldTy, ok := in.FieldType(base.ty, idx)
		if !ok {
			base.missing = append(base.missing, missingField{owner: base.ty, span: expr.Span, field: d})
			fieldTy = w.unknown()
		}
		base.projs = append(base.projs, capture.Projection{Kind: capture.ProjField, Index: idx, Name: d.Name})
		base.ty = fieldTy
		return base, true
	case ast.ExprUnary:
		d, _ := w.tc.builder.Exprs.Unary(id)
		if d.Op != ast.UnaryDeref {
			return place{}, false
		}
		base, ok := w.placeOf(d.Operand)
		if !ok {
			return place{}, false
		}
		elem, ok := in.Elem(base.ty)
		if !ok {
			elem = w.unknown()
		}
		base.projs = append(base.projs, capture.Projection{Kind: capture.ProjDeref})
		base.ty = elem
		return base, true
	case ast.ExprIndex:
		d, _ := w.tc.builder.Exprs.Index(id)
		base, ok := w.placeOf(d.Target)
		if !ok {
			return place{}, false
		}
		base = w.autoDeref(base)
		elem, ok := in.Elem(base.ty)
		if !ok {
			elem = w.unknown()
		}
		base.projs = append(base.projs, capture.Projection{Kind: capture.ProjIndex})
		base.ty = elem
		base.indices = append(base.indices, d.Index)
		return base, true
	}
	return place{}, false
}

// autoDeref inserts the deref the language performs when a field or index
// is taken through a reference or Box.
func (w *fnWalker) autoDeref(p place) place {
	for range 8 {
		tt, ok := w.tc.types.Lookup(p.ty)
		if !ok || (tt.Kind != types.KindReference && tt.Kind != types.KindBox) {
			return p
		}
		p.projs = append(p.projs, capture.Projection{Kind: capture.ProjDeref})
		p.ty = tt.Elem
	}
	return p
}

func (w *fnWalker) reportUnknownField(ty types.TypeID, sp source.Span, d *ast.ExprFieldData) {
	tt, ok := w.tc.types.Lookup(ty)
	if !ok || (tt.Kind != types.KindTuple && tt.Kind != types.KindStruct) {
		return
	}
	name := d.Name
	if d.Index >= 0 && name == "" {
		name = strconv.Itoa(d.Index)
	}
	w.tc.errorf(diag.SemaUnknownField, sp, "no field `"+name+"` on type `"+types.Label(w.tc.types, ty)+"`")
}

// usePlace records a use of p inside every enclosing closure that sees its
// root as an outer variable.
func (w *fnWalker) usePlace(p place, ctx useCtx, sp source.Span) {
	for _, m := range p.missing {
		w.reportUnknownField(m.owner, m.span, m.field)
	}
	for _, idx := range p.indices {
		w.expr(idx, ctxValue)
	}
	var access capture.AccessKind
	switch ctx {
	case ctxIgnore:
		return
	case ctxBorrow:
		access = capture.Borrow
	case ctxMutBorrow:
		access = capture.MutBorrow
	default:
		access = capture.Move
		if w.tc.oracle.IsCopy(p.ty) {
			access = capture.Read
		}
	}

	for i := len(w.frames) - 1; i >= 0; i-- {
		f := w.frames[i]
		if p.b.depth >= f.depth {
			break
		}
		f.closure.Uses = append(f.closure.Uses, capture.Use{
			Var:    p.b.id,
			Access: access,
			Projs:  append([]capture.Projection(nil), p.projs...),
			Span:   sp,
		})
		f.vars[p.b.id] = p.b
		// a move closure takes the place out of the enclosing closure
		if f.closure.Move {
			access = capture.Move
			if w.tc.oracle.IsCopy(p.ty) {
				access = capture.Read
			}
		}
	}
}
