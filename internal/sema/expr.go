package sema

import (
	"strconv"
	"strings"

	"fortio.org/safecast"

	"disjoint/internal/ast"
	"disjoint/internal/types"
)

// expr walks id in context ctx and returns its type. Place expressions
// rooted at a local are recorded as uses; everything else is walked
// structurally with the contexts its operands imply.
func (w *fnWalker) expr(id ast.ExprID, ctx useCtx) types.TypeID {
	node := w.tc.builder.Exprs.Get(id)
	if node == nil {
		return w.unknown()
	}
	if p, ok := w.placeOf(id); ok {
		w.usePlace(p, ctx, node.Span)
		return p.ty
	}
	if ctx == ctxIgnore {
		ctx = ctxValue
	}

	exprs := w.tc.builder.Exprs
	in := w.tc.types
	b := in.Builtins()

	switch node.Kind {
	case ast.ExprIdent:
		d, _ := exprs.Ident(id)
		if _, ok := w.items.lookupFn(d.Name); ok {
			return b.Fn
		}
		return b.Unknown
	case ast.ExprPath:
		return b.Fn
	case ast.ExprLit:
		d, _ := exprs.Lit(id)
		return w.literal(d)
	case ast.ExprGroup:
		d, _ := exprs.Group(id)
		return w.expr(d.Inner, ctx)
	case ast.ExprTuple:
		d, _ := exprs.Tuple(id)
		elems := make([]types.TypeID, 0, len(d.Elems))
		for _, e := range d.Elems {
			elems = append(elems, w.expr(e, ctxValue))
		}
		return in.RegisterTuple(elems)
	case ast.ExprArray:
		d, _ := exprs.Array(id)
		return w.array(d)
	case ast.ExprCall:
		d, _ := exprs.Call(id)
		return w.call(d)
	case ast.ExprMethodCall:
		d, _ := exprs.MethodCall(id)
		return w.methodCall(d)
	case ast.ExprMacro:
		d, _ := exprs.Macro(id)
		return w.macro(d)
	case ast.ExprField:
		d, _ := exprs.Field(id)
		target := w.expr(d.Target, ctxValue)
		base := w.autoDeref(place{ty: target}).ty
		idx := d.Index
		if idx < 0 {
			idx, _ = in.FieldIndex(base, d.Name)
		}
		if ft, ok := in.FieldType(base, idx); ok {
			return ft
		}
		return b.Unknown
	case ast.ExprIndex:
		d, _ := exprs.Index(id)
		target := w.expr(d.Target, ctxBorrow)
		w.expr(d.Index, ctxValue)
		if elem, ok := in.Elem(w.autoDeref(place{ty: target}).ty); ok {
			return elem
		}
		return b.Unknown
	case ast.ExprUnary:
		d, _ := exprs.Unary(id)
		return w.unary(d)
	case ast.ExprBinary:
		d, _ := exprs.Binary(id)
		return w.binary(d)
	case ast.ExprAssign:
		d, _ := exprs.Assign(id)
		w.expr(d.Value, ctxValue)
		w.expr(d.Target, ctxMutBorrow)
		return b.Unit
	case ast.ExprCast:
		d, _ := exprs.Cast(id)
		w.expr(d.Value, ctxValue)
		return w.resolveType(d.Type)
	case ast.ExprBlock:
		d, _ := exprs.Block(id)
		return w.block(d, ctx)
	case ast.ExprClosure:
		d, _ := exprs.Closure(id)
		return w.closure(node.Span, d)
	case ast.ExprStruct:
		d, _ := exprs.Struct(id)
		for _, f := range d.Fields {
			w.expr(f.Value, ctxValue)
		}
		if d.Name == "Self" && w.self != types.NoTypeID {
			return w.self
		}
		if ty, ok := w.items.lookupStruct(d.Name); ok {
			return ty
		}
		return b.Unknown
	case ast.ExprReturn:
		d, _ := exprs.Return(id)
		if d.Value.IsValid() {
			w.expr(d.Value, ctxValue)
		}
		return b.Unknown
	}
	return b.Unknown
}

func (w *fnWalker) literal(d *ast.ExprLitData) types.TypeID {
	in := w.tc.types
	b := in.Builtins()
	switch d.Kind {
	case ast.LitInt:
		if i := strings.LastIndexAny(d.Value, "iu"); i > 0 {
			if t, ok := primitiveNames[d.Value[i:]]; ok {
				return in.Intern(t)
			}
		}
		return b.I32
	case ast.LitFloat:
		if strings.HasSuffix(d.Value, "f32") {
			return in.Intern(types.MakeFloat(types.Width32))
		}
		return b.F64
	case ast.LitString:
		return in.Intern(types.MakeReference(b.Str, false))
	case ast.LitChar:
		return b.Char
	case ast.LitBool:
		return b.Bool
	}
	return b.Unknown
}

func (w *fnWalker) array(d *ast.ExprArrayData) types.TypeID {
	in := w.tc.types
	if d.Repeat.IsValid() {
		elem := w.expr(d.Repeat, ctxValue)
		n := types.ArrayDynamicLength
		if count := w.tc.builder.Exprs.Get(d.Count); count != nil {
			w.expr(d.Count, ctxValue)
			if lit, ok := w.tc.builder.Exprs.Lit(d.Count); ok && lit.Kind == ast.LitInt {
				n = parseLength(lit.Value)
			}
		}
		return in.Intern(types.MakeArray(elem, n))
	}
	elem := w.unknown()
	for i, e := range d.Elems {
		t := w.expr(e, ctxValue)
		if i == 0 {
			elem = t
		}
	}
	n, err := safecast.Conv[uint32](len(d.Elems))
	if err != nil {
		n = types.ArrayDynamicLength
	}
	return in.Intern(types.MakeArray(elem, n))
}

func parseLength(lit string) uint32 {
	digits := strings.TrimRightFunc(strings.ReplaceAll(lit, "_", ""), func(r rune) bool {
		return r < '0' || r > '9'
	})
	v, err := strconv.ParseUint(digits, 10, 32)
	if err != nil || v == uint64(types.ArrayDynamicLength) {
		return types.ArrayDynamicLength
	}
	n, err := safecast.Conv[uint32](v)
	if err != nil {
		return types.ArrayDynamicLength
	}
	return n
}

func (w *fnWalker) call(d *ast.ExprCallData) types.TypeID {
	in := w.tc.types
	b := in.Builtins()
	args := make([]types.TypeID, 0, len(d.Args))
	ret := b.Unknown

	switch callee := w.tc.builder.Exprs.Get(d.Callee); {
	case callee == nil:
	case callee.Kind == ast.ExprPath:
		path, _ := w.tc.builder.Exprs.Path(d.Callee)
		for _, a := range d.Args {
			args = append(args, w.expr(a, ctxValue))
		}
		return w.pathCall(path, args)
	case callee.Kind == ast.ExprIdent:
		ident, _ := w.tc.builder.Exprs.Ident(d.Callee)
		if _, local := w.lookup(ident.Name); local {
			w.expr(d.Callee, ctxBorrow)
			break
		}
		if fnID, ok := w.items.lookupFn(ident.Name); ok {
			if fn, ok := w.tc.builder.Items.Fn(fnID); ok && fn.Ret.IsValid() {
				ret = w.resolveType(fn.Ret)
			} else {
				ret = b.Unit
			}
		} else if ty, ok := w.items.lookupStruct(ident.Name); ok {
			ret = ty
		}
	default:
		w.expr(d.Callee, ctxBorrow)
	}
	for _, a := range d.Args {
		w.expr(a, ctxValue)
	}
	return ret
}

// pathCall types `Type::function(args)` for the std constructors the
// front end knows and for associated functions of local structs.
func (w *fnWalker) pathCall(p *ast.ExprPathData, args []types.TypeID) types.TypeID {
	in := w.tc.types
	b := in.Builtins()
	if len(p.Segments) < 2 {
		return b.Unknown
	}
	owner, fn := p.Segments[len(p.Segments)-2], p.Segments[len(p.Segments)-1]
	firstArg := b.Unknown
	if len(args) > 0 {
		firstArg = args[0]
	}
	switch owner {
	case "String":
		if fn == "new" || fn == "from" || fn == "with_capacity" {
			return b.String
		}
	case "Vec":
		elem := b.Unknown
		if len(p.TypeArgs) > 0 {
			elem = w.resolveType(p.TypeArgs[0])
		}
		return in.Intern(types.MakeVec(elem))
	case "Box", "Rc", "Arc":
		if fn == "new" {
			return in.Intern(types.MakeBox(firstArg))
		}
	}

	ty := types.NoTypeID
	if owner == "Self" {
		ty = w.self
	} else if id, ok := w.items.lookupStruct(owner); ok {
		ty = id
	}
	if ty == types.NoTypeID {
		return b.Unknown
	}
	if sig, ok := w.tc.methods[ty][fn]; ok {
		if !sig.ret.IsValid() {
			return b.Unit
		}
		return w.tc.resolveType(sig.ret, sig.scope, ty)
	}
	if fn == "new" || fn == "default" {
		return ty
	}
	return b.Unknown
}

func (w *fnWalker) methodCall(d *ast.ExprMethodCallData) types.TypeID {
	in := w.tc.types
	b := in.Builtins()

	recvTy := b.Unknown
	if p, ok := w.placeOf(d.Receiver); ok {
		recvTy = p.ty
	}
	base := w.autoDeref(place{ty: recvTy}).ty

	ctx := ctxBorrow
	ret := b.Unknown
	if sig, ok := w.tc.methods[base][d.Name]; ok {
		switch sig.self {
		case selfValue:
			ctx = ctxValue
		case selfMutRef:
			ctx = ctxMutBorrow
		}
		if sig.ret.IsValid() {
			ret = w.tc.resolveType(sig.ret, sig.scope, base)
		} else {
			ret = b.Unit
		}
	} else {
		switch {
		case consumingMethod(d.Name):
			ctx = ctxValue
		case isMutating(d.Name):
			ctx = ctxMutBorrow
		}
		ret = w.stdMethodType(d.Name, base)
	}

	got := w.expr(d.Receiver, ctx)
	if recvTy == b.Unknown && got != b.Unknown {
		base = w.autoDeref(place{ty: got}).ty
		if _, user := w.tc.methods[base][d.Name]; !user {
			ret = w.stdMethodType(d.Name, base)
		}
	}
	for _, a := range d.Args {
		w.expr(a, ctxValue)
	}
	return ret
}

func isMutating(name string) bool {
	_, ok := mutatingMethods[name]
	return ok
}

func (w *fnWalker) stdMethodType(name string, recv types.TypeID) types.TypeID {
	in := w.tc.types
	b := in.Builtins()
	tt, _ := in.Lookup(recv)
	switch name {
	case "to_string":
		return b.String
	case "to_owned", "clone":
		if tt.Kind == types.KindStr {
			return b.String
		}
		if tt.Kind == types.KindInvalid {
			return b.Unknown
		}
		return recv
	case "as_str":
		return in.Intern(types.MakeReference(b.Str, false))
	case "len", "count", "capacity":
		return in.Intern(types.MakeUint(types.WidthAny))
	case "is_empty", "contains", "starts_with", "ends_with":
		return b.Bool
	}
	return b.Unknown
}

func (w *fnWalker) macro(d *ast.ExprMacroData) types.TypeID {
	in := w.tc.types
	b := in.Builtins()
	switch d.Name {
	case "vec":
		elem := b.Unknown
		for i, a := range d.Args {
			t := w.expr(a, ctxValue)
			if i == 0 {
				elem = t
			}
		}
		return in.Intern(types.MakeVec(elem))
	case "dbg":
		ret := b.Unit
		for _, a := range d.Args {
			ret = w.expr(a, ctxValue)
		}
		if len(d.Args) > 1 {
			return b.Unknown
		}
		return ret
	}
	for _, a := range d.Args {
		w.expr(a, ctxBorrow)
	}
	if d.Name == "format" {
		return b.String
	}
	return b.Unit
}

func (w *fnWalker) unary(d *ast.ExprUnaryData) types.TypeID {
	in := w.tc.types
	switch d.Op {
	case ast.UnaryRef:
		return in.Intern(types.MakeReference(w.expr(d.Operand, ctxBorrow), false))
	case ast.UnaryRefMut:
		return in.Intern(types.MakeReference(w.expr(d.Operand, ctxMutBorrow), true))
	case ast.UnaryDeref:
		inner := w.expr(d.Operand, ctxBorrow)
		if elem, ok := in.Elem(inner); ok {
			return elem
		}
		return w.unknown()
	default:
		return w.expr(d.Operand, ctxValue)
	}
}

func (w *fnWalker) binary(d *ast.ExprBinaryData) types.TypeID {
	b := w.tc.types.Builtins()
	switch d.Op {
	case ast.BinEq, ast.BinNe, ast.BinLt, ast.BinLe, ast.BinGt, ast.BinGe:
		w.expr(d.Left, ctxBorrow)
		w.expr(d.Right, ctxBorrow)
		return b.Bool
	case ast.BinAnd, ast.BinOr:
		w.expr(d.Left, ctxValue)
		w.expr(d.Right, ctxValue)
		return b.Bool
	}
	left := w.expr(d.Left, ctxValue)
	w.expr(d.Right, ctxValue)
	return left
}
