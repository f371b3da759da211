package sema

import (
	"fmt"

	"disjoint/internal/ast"
	"disjoint/internal/diag"
	"disjoint/internal/types"
)

// typeScope holds the items visible at one nesting level: the file, or the
// body of one function.
type typeScope struct {
	parent  *typeScope
	structs map[string]types.TypeID
	decls   map[types.TypeID]ast.ItemID
	fnNames map[string]ast.ItemID
	items   []ast.ItemID // declaration order
}

func newTypeScope(parent *typeScope) *typeScope {
	return &typeScope{
		parent:  parent,
		structs: make(map[string]types.TypeID),
		decls:   make(map[types.TypeID]ast.ItemID),
		fnNames: make(map[string]ast.ItemID),
	}
}

func (s *typeScope) lookupStruct(name string) (types.TypeID, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if id, ok := cur.structs[name]; ok {
			return id, true
		}
	}
	return types.NoTypeID, false
}

func (s *typeScope) lookupFn(name string) (ast.ItemID, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if id, ok := cur.fnNames[name]; ok {
			return id, true
		}
	}
	return ast.NoItemID, false
}

type selfKind uint8

const (
	selfNone selfKind = iota // associated function
	selfValue
	selfRef
	selfMutRef
)

type methodSig struct {
	self  selfKind
	ret   ast.TypeExprID
	scope *typeScope
}

// declareItems registers struct names and function scopes. Bodies are
// searched for nested items so that a struct declared inside a function is
// visible to the whole body.
func (tc *typeChecker) declareItems(items []ast.ItemID, scope *typeScope) {
	scope.items = append(scope.items, items...)
	for _, id := range items {
		item := tc.builder.Items.Get(id)
		if item == nil {
			continue
		}
		switch item.Kind {
		case ast.ItemStruct:
			decl, _ := tc.builder.Items.Struct(id)
			if _, dup := scope.structs[decl.Name]; dup {
				tc.errorf(diag.SemaDuplicateType, decl.NameSpan,
					fmt.Sprintf("the name `%s` is defined multiple times", decl.Name))
				continue
			}
			ty := tc.types.RegisterStruct(decl.Name, decl.NameSpan, decl.Tuple)
			scope.structs[decl.Name] = ty
			scope.decls[ty] = id
		case ast.ItemFn:
			fn, _ := tc.builder.Items.Fn(id)
			scope.fnNames[fn.Name] = id
			tc.declareFnScope(id, fn, scope)
		case ast.ItemImpl:
			impl, _ := tc.builder.Items.Impl(id)
			for _, m := range impl.Methods {
				if fn, ok := tc.builder.Items.Fn(m); ok {
					tc.declareFnScope(m, fn, scope)
				}
			}
		}
	}
}

func (tc *typeChecker) declareFnScope(id ast.ItemID, fn *ast.FnDecl, parent *typeScope) {
	child := newTypeScope(parent)
	tc.fnScopes[id] = child
	if fn.Body.IsValid() {
		tc.declareItems(tc.nestedItems(fn.Body), child)
	}
}

// nestedItems lists item statements found in the blocks of body, closures
// included, without entering nested functions.
func (tc *typeChecker) nestedItems(body ast.ExprID) []ast.ItemID {
	var out []ast.ItemID
	tc.builder.Inspect(body, func(id ast.ExprID) bool {
		block, ok := tc.builder.Exprs.Block(id)
		if !ok {
			return true
		}
		for _, sid := range block.Stmts {
			if st := tc.builder.Stmts.Get(sid); st != nil && st.Kind == ast.StmtItem {
				out = append(out, st.Item)
			}
		}
		return true
	})
	return out
}

// resolveItems fills struct fields, Drop and Copy markers and method
// signatures once every name of the scope chain is known.
func (tc *typeChecker) resolveItems(scope *typeScope) {
	for _, id := range scope.items {
		item := tc.builder.Items.Get(id)
		if item == nil {
			continue
		}
		switch item.Kind {
		case ast.ItemStruct:
			tc.resolveStruct(id, scope)
		case ast.ItemImpl:
			tc.resolveImpl(id, item, scope)
		case ast.ItemFn:
			if child := tc.fnScopes[id]; child != nil {
				tc.resolveItems(child)
			}
		}
	}
}

func (tc *typeChecker) resolveStruct(id ast.ItemID, scope *typeScope) {
	decl, _ := tc.builder.Items.Struct(id)
	ty, ok := scope.structs[decl.Name]
	if !ok || scope.decls[ty] != id {
		return // duplicate, already reported
	}
	fields := make([]types.StructField, 0, len(decl.Fields))
	for _, f := range decl.Fields {
		fields = append(fields, types.StructField{Name: f.Name, Type: tc.resolveType(f.Type, scope, ty)})
	}
	tc.types.SetStructFields(ty, fields)
	if derive, ok := ast.FindAttr(decl.Attrs, "derive"); ok && derive.HasArg("Copy") {
		tc.types.MarkCopy(ty)
	}
}

func (tc *typeChecker) resolveImpl(id ast.ItemID, item *ast.Item, scope *typeScope) {
	impl, _ := tc.builder.Items.Impl(id)
	target := tc.resolveType(impl.Target, scope, types.NoTypeID)
	tt, _ := tc.types.Lookup(target)

	if impl.Trait == "Drop" {
		if tt.Kind != types.KindStruct {
			sp := item.Span
			if te := tc.builder.TypeExprs.Get(impl.Target); te != nil {
				sp = te.Span
			}
			tc.errorf(diag.SemaUnknownType, sp, "`impl Drop` target is not a struct declared in this file")
		} else {
			tc.types.MarkDrop(target, item.Span)
		}
	}
	if impl.Trait == "Copy" && tt.Kind == types.KindStruct {
		tc.types.MarkCopy(target)
	}
	if tt.Kind == types.KindUnknown || tt.Kind == types.KindInvalid {
		for _, m := range impl.Methods {
			if child := tc.fnScopes[m]; child != nil {
				tc.resolveItems(child)
			}
		}
		return
	}

	methods := tc.methods[target]
	if methods == nil {
		methods = make(map[string]methodSig, len(impl.Methods))
		tc.methods[target] = methods
	}
	for _, m := range impl.Methods {
		fn, ok := tc.builder.Items.Fn(m)
		if !ok {
			continue
		}
		methods[fn.Name] = methodSig{self: tc.selfKindOf(fn), ret: fn.Ret, scope: scope}
		if child := tc.fnScopes[m]; child != nil {
			tc.resolveItems(child)
		}
	}
}

func (tc *typeChecker) selfKindOf(fn *ast.FnDecl) selfKind {
	if len(fn.Params) == 0 {
		return selfNone
	}
	pat := tc.builder.Pats.Get(fn.Params[0].Pat)
	if pat == nil || pat.Kind != ast.PatIdent || pat.Name != "self" {
		return selfNone
	}
	te := tc.builder.TypeExprs.Get(fn.Params[0].Type)
	if te == nil || te.Kind != ast.TypeRef {
		return selfValue
	}
	if te.Mut {
		return selfMutRef
	}
	return selfRef
}
