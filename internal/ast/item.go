package ast

import "disjoint/internal/source"

type ItemKind uint8

const (
	ItemStruct ItemKind = iota
	ItemImpl
	ItemFn
)

type Item struct {
	Kind    ItemKind
	Span    source.Span
	Payload PayloadID
}

// StructDecl covers tuple structs (`struct S(i32, String);`), named-field
// structs and unit structs.
type StructDecl struct {
	Name     string
	NameSpan source.Span
	Tuple    bool
	Fields   []FieldDecl
	Attrs    []Attr
}

type FieldDecl struct {
	Name string // empty for tuple fields
	Type TypeExprID
	Span source.Span
}

// ImplDecl is `impl Trait for Target { fns }` or `impl Target { fns }`.
type ImplDecl struct {
	Trait   string
	Target  TypeExprID
	Methods []ItemID
}

type FnDecl struct {
	Name     string
	NameSpan source.Span
	Params   []Param
	Ret      TypeExprID
	Body     ExprID // block expression; NoExprID for declarations without body
	Attrs    []Attr
}

type Param struct {
	Pat  PatID
	Type TypeExprID
	Span source.Span
}

type Items struct {
	Arena   *Arena[Item]
	Structs *Arena[StructDecl]
	Impls   *Arena[ImplDecl]
	Fns     *Arena[FnDecl]
}

func NewItems(capHint uint) *Items {
	return &Items{
		Arena:   NewArena[Item](capHint),
		Structs: NewArena[StructDecl](capHint),
		Impls:   NewArena[ImplDecl](capHint),
		Fns:     NewArena[FnDecl](capHint),
	}
}

func (i *Items) Get(id ItemID) *Item {
	return i.Arena.Get(uint32(id))
}

func (i *Items) NewStruct(sp source.Span, decl StructDecl) ItemID {
	payload := i.Structs.Allocate(decl)
	return ItemID(i.Arena.Allocate(Item{Kind: ItemStruct, Span: sp, Payload: PayloadID(payload)}))
}

func (i *Items) Struct(id ItemID) (*StructDecl, bool) {
	item := i.Get(id)
	if item == nil || item.Kind != ItemStruct {
		return nil, false
	}
	return i.Structs.Get(uint32(item.Payload)), true
}

func (i *Items) NewImpl(sp source.Span, decl ImplDecl) ItemID {
	payload := i.Impls.Allocate(decl)
	return ItemID(i.Arena.Allocate(Item{Kind: ItemImpl, Span: sp, Payload: PayloadID(payload)}))
}

func (i *Items) Impl(id ItemID) (*ImplDecl, bool) {
	item := i.Get(id)
	if item == nil || item.Kind != ItemImpl {
		return nil, false
	}
	return i.Impls.Get(uint32(item.Payload)), true
}

func (i *Items) NewFn(sp source.Span, decl FnDecl) ItemID {
	payload := i.Fns.Allocate(decl)
	return ItemID(i.Arena.Allocate(Item{Kind: ItemFn, Span: sp, Payload: PayloadID(payload)}))
}

func (i *Items) Fn(id ItemID) (*FnDecl, bool) {
	item := i.Get(id)
	if item == nil || item.Kind != ItemFn {
		return nil, false
	}
	return i.Fns.Get(uint32(item.Payload)), true
}
