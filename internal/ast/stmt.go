package ast

import "disjoint/internal/source"

type StmtKind uint8

const (
	StmtLet StmtKind = iota
	StmtExpr
	StmtItem
	StmtEmpty
)

// Stmt keeps the fields of every statement kind inline; statements are few
// compared to expressions.
type Stmt struct {
	Kind StmtKind
	Span source.Span

	// StmtLet
	Pat  PatID
	Type TypeExprID
	Init ExprID

	// StmtExpr
	Expr ExprID
	Semi bool

	// StmtItem
	Item ItemID
}

type Stmts struct {
	Arena *Arena[Stmt]
}

func NewStmts(capHint uint) *Stmts {
	return &Stmts{Arena: NewArena[Stmt](capHint)}
}

func (s *Stmts) NewLet(sp source.Span, pat PatID, typ TypeExprID, init ExprID) StmtID {
	return StmtID(s.Arena.Allocate(Stmt{Kind: StmtLet, Span: sp, Pat: pat, Type: typ, Init: init}))
}

func (s *Stmts) NewExpr(sp source.Span, expr ExprID, semi bool) StmtID {
	return StmtID(s.Arena.Allocate(Stmt{Kind: StmtExpr, Span: sp, Expr: expr, Semi: semi}))
}

func (s *Stmts) NewItem(sp source.Span, item ItemID) StmtID {
	return StmtID(s.Arena.Allocate(Stmt{Kind: StmtItem, Span: sp, Item: item}))
}

func (s *Stmts) NewEmpty(sp source.Span) StmtID {
	return StmtID(s.Arena.Allocate(Stmt{Kind: StmtEmpty, Span: sp}))
}

func (s *Stmts) Get(id StmtID) *Stmt {
	return s.Arena.Get(uint32(id))
}
