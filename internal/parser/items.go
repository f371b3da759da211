package parser

import (
	"disjoint/internal/ast"
	"disjoint/internal/diag"
	"disjoint/internal/token"
)

// parseStruct parses unit, tuple and named-field struct declarations.
func (p *Parser) parseStruct(attrs []ast.Attr) (ast.ItemID, bool) {
	kw := p.advance()
	name, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected struct name")
	if !ok {
		return ast.NoItemID, false
	}
	p.skipGenerics()
	decl := ast.StructDecl{Name: name.Text, NameSpan: name.Span, Attrs: attrs}

	switch {
	case p.at(token.LParen):
		decl.Tuple = true
		p.advance()
		for !p.at(token.RParen) && !p.at(token.EOF) {
			p.skipVisibility()
			start := p.peek().Span
			typ, ok := p.parseType()
			if !ok {
				return ast.NoItemID, false
			}
			decl.Fields = append(decl.Fields, ast.FieldDecl{Type: typ, Span: start.Cover(p.lastSpan)})
			if !p.eat(token.Comma) {
				break
			}
		}
		if _, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' after tuple struct fields"); !ok {
			return ast.NoItemID, false
		}
		if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after tuple struct"); !ok {
			return ast.NoItemID, false
		}
	case p.at(token.LBrace):
		p.advance()
		for !p.at(token.RBrace) && !p.at(token.EOF) {
			if _, ok := p.parseOuterAttrs(); !ok {
				return ast.NoItemID, false
			}
			p.skipVisibility()
			fname, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected field name")
			if !ok {
				return ast.NoItemID, false
			}
			if _, ok := p.expect(token.Colon, diag.SynUnexpectedToken, "expected ':' after field name"); !ok {
				return ast.NoItemID, false
			}
			typ, ok := p.parseType()
			if !ok {
				return ast.NoItemID, false
			}
			decl.Fields = append(decl.Fields, ast.FieldDecl{Name: fname.Text, Type: typ, Span: fname.Span.Cover(p.lastSpan)})
			if !p.eat(token.Comma) {
				break
			}
		}
		if _, ok := p.expect(token.RBrace, diag.SynUnclosedDelimiter, "expected '}' after struct fields"); !ok {
			return ast.NoItemID, false
		}
	default:
		if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';', '(' or '{' after struct name"); !ok {
			return ast.NoItemID, false
		}
	}
	return p.arenas.Items.NewStruct(kw.Span.Cover(p.lastSpan), decl), true
}

// parseImpl parses `impl Type {}` and `impl Trait for Type {}`.
func (p *Parser) parseImpl() (ast.ItemID, bool) {
	kw := p.advance()
	p.skipGenerics()
	first, ok := p.parseType()
	if !ok {
		return ast.NoItemID, false
	}
	decl := ast.ImplDecl{Target: first}
	if p.eat(token.KwFor) {
		if te := p.arenas.TypeExprs.Get(first); te != nil {
			decl.Trait = te.Name
		}
		target, ok := p.parseType()
		if !ok {
			return ast.NoItemID, false
		}
		decl.Target = target
	}
	if _, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{' to open impl body"); !ok {
		return ast.NoItemID, false
	}
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		attrs, ok := p.parseOuterAttrs()
		if !ok {
			return ast.NoItemID, false
		}
		p.skipVisibility()
		if !p.at(token.KwFn) {
			p.err(diag.SynUnexpectedToken, "expected 'fn' in impl body")
			p.resyncUntil(token.KwFn, token.RBrace)
			continue
		}
		fn, ok := p.parseFn(attrs)
		if !ok {
			p.resyncUntil(token.KwFn, token.RBrace)
			continue
		}
		decl.Methods = append(decl.Methods, fn)
	}
	if _, ok := p.expect(token.RBrace, diag.SynUnclosedDelimiter, "expected '}' to close impl body"); !ok {
		return ast.NoItemID, false
	}
	return p.arenas.Items.NewImpl(kw.Span.Cover(p.lastSpan), decl), true
}

// parseFn parses a function or method, including `self` receivers.
func (p *Parser) parseFn(attrs []ast.Attr) (ast.ItemID, bool) {
	kw := p.advance()
	name, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected function name")
	if !ok {
		return ast.NoItemID, false
	}
	p.skipGenerics()
	decl := ast.FnDecl{Name: name.Text, NameSpan: name.Span, Attrs: attrs}

	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after function name"); !ok {
		return ast.NoItemID, false
	}
	for !p.at(token.RParen) && !p.at(token.EOF) {
		param, ok := p.parseParam()
		if !ok {
			return ast.NoItemID, false
		}
		decl.Params = append(decl.Params, param)
		if !p.eat(token.Comma) {
			break
		}
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' after parameters"); !ok {
		return ast.NoItemID, false
	}
	if p.eat(token.Arrow) {
		ret, ok := p.parseType()
		if !ok {
			return ast.NoItemID, false
		}
		decl.Ret = ret
	}
	if p.eat(token.Semicolon) {
		return p.arenas.Items.NewFn(kw.Span.Cover(p.lastSpan), decl), true
	}
	if !p.at(token.LBrace) {
		p.err(diag.SynUnexpectedToken, "expected '{' to open function body")
		return ast.NoItemID, false
	}
	body, ok := p.parseBlock()
	if !ok {
		return ast.NoItemID, false
	}
	decl.Body = body
	return p.arenas.Items.NewFn(kw.Span.Cover(p.lastSpan), decl), true
}

// parseParam handles `self`, `mut self`, `&self`, `&mut self` and `pat: Type`.
func (p *Parser) parseParam() (ast.Param, bool) {
	start := p.peek().Span
	if selfParam, ok := p.trySelfParam(); ok {
		return selfParam, true
	}
	pat, ok := p.parsePattern()
	if !ok {
		return ast.Param{}, false
	}
	if _, ok := p.expect(token.Colon, diag.SynExpectType, "expected ':' and a parameter type"); !ok {
		return ast.Param{}, false
	}
	typ, ok := p.parseType()
	if !ok {
		return ast.Param{}, false
	}
	return ast.Param{Pat: pat, Type: typ, Span: start.Cover(p.lastSpan)}, true
}

func (p *Parser) trySelfParam() (ast.Param, bool) {
	start := p.peek().Span
	ref, mutRef, mutBind := false, false, false
	n := 0
	if p.peekN(n).Kind == token.Amp {
		ref = true
		n++
		if p.peekN(n).Kind == token.KwMut {
			mutRef = true
			n++
		}
	} else if p.peekN(n).Kind == token.KwMut {
		mutBind = true
		n++
	}
	if p.peekN(n).Kind != token.KwSelf {
		return ast.Param{}, false
	}
	for i := 0; i <= n; i++ {
		p.advance()
	}
	sp := start.Cover(p.lastSpan)
	self := p.arenas.TypeExprs.New(ast.TypeExpr{Kind: ast.TypePath, Span: sp, Name: "Self"})
	typ := self
	if ref {
		typ = p.arenas.TypeExprs.New(ast.TypeExpr{Kind: ast.TypeRef, Span: sp, Args: []ast.TypeExprID{self}, Mut: mutRef})
	}
	if p.eat(token.Colon) {
		explicit, ok := p.parseType()
		if !ok {
			return ast.Param{}, false
		}
		typ = explicit
	}
	pat := p.arenas.Pats.New(ast.Pat{Kind: ast.PatIdent, Span: sp, Name: "self", Mut: mutBind})
	return ast.Param{Pat: pat, Type: typ, Span: sp}, true
}
