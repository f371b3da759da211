package ast

// Children returns the direct sub-expressions of id in evaluation order.
// Statements of a block contribute their initializer or expression; nested
// items are not descended into.
func (b *Builder) Children(id ExprID) []ExprID {
	expr := b.Exprs.Get(id)
	if expr == nil {
		return nil
	}
	var out []ExprID
	add := func(ids ...ExprID) {
		for _, c := range ids {
			if c.IsValid() {
				out = append(out, c)
			}
		}
	}
	switch expr.Kind {
	case ExprGroup:
		d, _ := b.Exprs.Group(id)
		add(d.Inner)
	case ExprTuple:
		d, _ := b.Exprs.Tuple(id)
		add(d.Elems...)
	case ExprArray:
		d, _ := b.Exprs.Array(id)
		add(d.Elems...)
		add(d.Repeat, d.Count)
	case ExprCall:
		d, _ := b.Exprs.Call(id)
		add(d.Callee)
		add(d.Args...)
	case ExprMethodCall:
		d, _ := b.Exprs.MethodCall(id)
		add(d.Receiver)
		add(d.Args...)
	case ExprMacro:
		d, _ := b.Exprs.Macro(id)
		add(d.Args...)
	case ExprField:
		d, _ := b.Exprs.Field(id)
		add(d.Target)
	case ExprIndex:
		d, _ := b.Exprs.Index(id)
		add(d.Target, d.Index)
	case ExprUnary:
		d, _ := b.Exprs.Unary(id)
		add(d.Operand)
	case ExprBinary:
		d, _ := b.Exprs.Binary(id)
		add(d.Left, d.Right)
	case ExprAssign:
		d, _ := b.Exprs.Assign(id)
		add(d.Target, d.Value)
	case ExprCast:
		d, _ := b.Exprs.Cast(id)
		add(d.Value)
	case ExprBlock:
		d, _ := b.Exprs.Block(id)
		for _, sid := range d.Stmts {
			st := b.Stmts.Get(sid)
			switch st.Kind {
			case StmtLet:
				add(st.Init)
			case StmtExpr:
				add(st.Expr)
			}
		}
		add(d.Tail)
	case ExprClosure:
		d, _ := b.Exprs.Closure(id)
		add(d.Body)
	case ExprStruct:
		d, _ := b.Exprs.Struct(id)
		for _, f := range d.Fields {
			add(f.Value)
		}
	case ExprReturn:
		d, _ := b.Exprs.Return(id)
		add(d.Value)
	}
	return out
}

// Inspect walks the expression tree rooted at id in depth-first order.
// If fn returns false the children of that node are skipped.
func (b *Builder) Inspect(id ExprID, fn func(ExprID) bool) {
	if !id.IsValid() || !fn(id) {
		return
	}
	for _, c := range b.Children(id) {
		b.Inspect(c, fn)
	}
}
