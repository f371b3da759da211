package ast

import (
	"testing"

	"disjoint/internal/source"
)

func TestArenaOneBased(t *testing.T) {
	a := NewArena[int](0)
	if a.Get(0) != nil {
		t.Fatalf("index 0 must be nil")
	}
	id := a.Allocate(42)
	if id != 1 || *a.Get(id) != 42 {
		t.Fatalf("Allocate = %d, value %v", id, a.Get(id))
	}
	if a.Get(2) != nil {
		t.Fatalf("out of range index must be nil")
	}
}

func TestTypedAccessorsCheckKind(t *testing.T) {
	b := NewBuilder(Hints{})
	sp := source.Span{File: 1, Start: 0, End: 1}
	id := b.Exprs.NewIdent(sp, ExprIdentData{Name: "t"})
	if d, ok := b.Exprs.Ident(id); !ok || d.Name != "t" {
		t.Fatalf("Ident = %v, %v", d, ok)
	}
	if _, ok := b.Exprs.Field(id); ok {
		t.Fatalf("Field accessor accepted an ident")
	}
}

func TestInspectVisitsBlockStatements(t *testing.T) {
	b := NewBuilder(Hints{})
	sp := source.Span{File: 1}
	x := b.Exprs.NewIdent(sp, ExprIdentData{Name: "x"})
	fld := b.Exprs.NewField(sp, ExprFieldData{Target: x, Index: 0})
	let := b.Stmts.NewLet(sp, b.Pats.New(Pat{Kind: PatIdent, Name: "y"}), NoTypeExprID, fld)
	blk := b.Exprs.NewBlock(sp, ExprBlockData{Stmts: []StmtID{let}})

	var seen []ExprKind
	b.Inspect(blk, func(id ExprID) bool {
		seen = append(seen, b.Exprs.Get(id).Kind)
		return true
	})
	want := []ExprKind{ExprBlock, ExprField, ExprIdent}
	if len(seen) != len(want) {
		t.Fatalf("seen = %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("seen = %v, want %v", seen, want)
		}
	}
}

func TestPatBindings(t *testing.T) {
	p := NewPats(0)
	a := p.New(Pat{Kind: PatIdent, Name: "a"})
	w := p.New(Pat{Kind: PatWild})
	c := p.New(Pat{Kind: PatIdent, Name: "c", Mut: true})
	tup := p.New(Pat{Kind: PatTuple, Elems: []PatID{a, w, c}})
	got := p.Bindings(tup)
	if len(got) != 2 || got[0].Name != "a" || got[1].Name != "c" {
		t.Fatalf("Bindings = %+v", got)
	}
}
