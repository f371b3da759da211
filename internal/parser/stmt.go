package parser

import (
	"disjoint/internal/ast"
	"disjoint/internal/diag"
	"disjoint/internal/token"
)

// parseBlock parses `{ stmts tail? }` into a block expression.
func (p *Parser) parseBlock() (ast.ExprID, bool) {
	open, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{'")
	if !ok {
		return ast.NoExprID, false
	}
	var data ast.ExprBlockData
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		if p.opts.Enough() {
			break
		}
		stmt, tail, ok := p.parseStmt()
		if !ok {
			p.resyncStmt()
			continue
		}
		if tail.IsValid() {
			data.Tail = tail
			break
		}
		if stmt.IsValid() {
			data.Stmts = append(data.Stmts, stmt)
		}
	}
	if _, ok := p.expect(token.RBrace, diag.SynUnclosedDelimiter, "expected '}' to close block"); !ok {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewBlock(open.Span.Cover(p.lastSpan), data), true
}

// parseStmt returns either a statement or, for a trailing expression
// without ';' right before '}', the tail expression.
func (p *Parser) parseStmt() (ast.StmtID, ast.ExprID, bool) {
	tok := p.peek()
	stmts := p.arenas.Stmts

	switch tok.Kind {
	case token.Semicolon:
		p.advance()
		return stmts.NewEmpty(tok.Span), ast.NoExprID, true
	case token.KwLet:
		id, ok := p.parseLet()
		return id, ast.NoExprID, ok
	case token.KwStruct, token.KwImpl, token.KwFn, token.Hash, token.KwPub:
		item, ok := p.parseItem()
		if !ok {
			return ast.NoStmtID, ast.NoExprID, false
		}
		if !item.IsValid() {
			return ast.NoStmtID, ast.NoExprID, true
		}
		return stmts.NewItem(p.arenas.Items.Get(item).Span, item), ast.NoExprID, true
	}

	expr, ok := p.parseExpr()
	if !ok {
		return ast.NoStmtID, ast.NoExprID, false
	}
	sp := p.arenas.Exprs.Get(expr).Span
	switch {
	case p.eat(token.Semicolon):
		return stmts.NewExpr(sp.Cover(p.lastSpan), expr, true), ast.NoExprID, true
	case p.at(token.RBrace):
		return ast.NoStmtID, expr, true
	case p.arenas.Exprs.Get(expr).Kind == ast.ExprBlock:
		return stmts.NewExpr(sp, expr, false), ast.NoExprID, true
	}
	p.err(diag.SynExpectSemicolon, "expected ';' after expression")
	return ast.NoStmtID, ast.NoExprID, false
}

// parseLet parses `let pat (: Type)? (= expr)? ;`.
func (p *Parser) parseLet() (ast.StmtID, bool) {
	kw := p.advance()
	pat, ok := p.parsePattern()
	if !ok {
		return ast.NoStmtID, false
	}
	typ := ast.NoTypeExprID
	if p.eat(token.Colon) {
		if typ, ok = p.parseType(); !ok {
			return ast.NoStmtID, false
		}
	}
	init := ast.NoExprID
	if p.eat(token.Assign) {
		if init, ok = p.parseExpr(); !ok {
			return ast.NoStmtID, false
		}
	}
	if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after let statement"); !ok {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewLet(kw.Span.Cover(p.lastSpan), pat, typ, init), true
}

// resyncStmt skips past the next ';' or stops before the enclosing '}'.
func (p *Parser) resyncStmt() {
	p.resyncUntil(token.Semicolon, token.RBrace)
	p.eat(token.Semicolon)
}
