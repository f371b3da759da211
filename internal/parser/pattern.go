package parser

import (
	"disjoint/internal/ast"
	"disjoint/internal/diag"
	"disjoint/internal/token"
)

// parsePattern parses binding patterns: `x`, `mut x`, `_`, `&x` and tuples.
func (p *Parser) parsePattern() (ast.PatID, bool) {
	tok := p.peek()
	pats := p.arenas.Pats

	switch tok.Kind {
	case token.Underscore:
		p.advance()
		return pats.New(ast.Pat{Kind: ast.PatWild, Span: tok.Span}), true
	case token.KwMut:
		p.advance()
		name, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected identifier after 'mut'")
		if !ok {
			return ast.NoPatID, false
		}
		return pats.New(ast.Pat{Kind: ast.PatIdent, Span: tok.Span.Cover(name.Span), Name: name.Text, Mut: true}), true
	case token.Ident, token.KwSelf:
		p.advance()
		return pats.New(ast.Pat{Kind: ast.PatIdent, Span: tok.Span, Name: tok.Text}), true
	case token.Amp:
		p.advance()
		inner, ok := p.parsePattern()
		if !ok {
			return ast.NoPatID, false
		}
		return pats.New(ast.Pat{Kind: ast.PatRef, Span: tok.Span.Cover(p.lastSpan), Elems: []ast.PatID{inner}}), true
	case token.LParen:
		p.advance()
		var elems []ast.PatID
		for !p.at(token.RParen) && !p.at(token.EOF) {
			elem, ok := p.parsePattern()
			if !ok {
				return ast.NoPatID, false
			}
			elems = append(elems, elem)
			if !p.eat(token.Comma) {
				break
			}
		}
		if _, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' to close tuple pattern"); !ok {
			return ast.NoPatID, false
		}
		// (x) is a parenthesized pattern, `let (t) = (t);` binds t
		if len(elems) == 1 && p.toks[p.pos-2].Kind != token.Comma {
			return elems[0], true
		}
		return pats.New(ast.Pat{Kind: ast.PatTuple, Span: tok.Span.Cover(p.lastSpan), Elems: elems}), true
	}
	p.err(diag.SynExpectIdentifier, "expected pattern, found \""+tok.Text+"\"")
	return ast.NoPatID, false
}
