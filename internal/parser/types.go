package parser

import (
	"strconv"
	"strings"

	"disjoint/internal/ast"
	"disjoint/internal/diag"
	"disjoint/internal/token"
)

// parseType parses type syntax: paths with generic arguments, references,
// raw pointers, tuples, arrays, slices, fn pointers and `_`.
func (p *Parser) parseType() (ast.TypeExprID, bool) {
	tok := p.peek()
	start := tok.Span
	te := p.arenas.TypeExprs

	switch tok.Kind {
	case token.Amp, token.AndAnd:
		p.advance()
		mut := p.eat(token.KwMut)
		elem, ok := p.parseType()
		if !ok {
			return ast.NoTypeExprID, false
		}
		id := te.New(ast.TypeExpr{Kind: ast.TypeRef, Span: start.Cover(p.lastSpan), Args: []ast.TypeExprID{elem}, Mut: mut})
		if tok.Kind == token.AndAnd {
			id = te.New(ast.TypeExpr{Kind: ast.TypeRef, Span: start.Cover(p.lastSpan), Args: []ast.TypeExprID{id}})
		}
		return id, true

	case token.Star:
		p.advance()
		mut := false
		switch {
		case p.eat(token.KwMut):
			mut = true
		case p.at(token.Ident) && p.peek().Text == "const":
			p.advance()
		default:
			p.err(diag.SynExpectType, "expected 'const' or 'mut' after '*'")
			return ast.NoTypeExprID, false
		}
		elem, ok := p.parseType()
		if !ok {
			return ast.NoTypeExprID, false
		}
		return te.New(ast.TypeExpr{Kind: ast.TypePtr, Span: start.Cover(p.lastSpan), Args: []ast.TypeExprID{elem}, Mut: mut}), true

	case token.LParen:
		p.advance()
		var elems []ast.TypeExprID
		for !p.at(token.RParen) && !p.at(token.EOF) {
			elem, ok := p.parseType()
			if !ok {
				return ast.NoTypeExprID, false
			}
			elems = append(elems, elem)
			if !p.eat(token.Comma) {
				if len(elems) == 1 {
					// parenthesized type, not a tuple
					if _, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')'"); !ok {
						return ast.NoTypeExprID, false
					}
					return elem, true
				}
				break
			}
		}
		if _, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' to close tuple type"); !ok {
			return ast.NoTypeExprID, false
		}
		return te.New(ast.TypeExpr{Kind: ast.TypeTuple, Span: start.Cover(p.lastSpan), Args: elems}), true

	case token.LBracket:
		p.advance()
		elem, ok := p.parseType()
		if !ok {
			return ast.NoTypeExprID, false
		}
		if p.eat(token.RBracket) {
			return te.New(ast.TypeExpr{Kind: ast.TypeSlice, Span: start.Cover(p.lastSpan), Args: []ast.TypeExprID{elem}}), true
		}
		if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' or ']' in array type"); !ok {
			return ast.NoTypeExprID, false
		}
		lenTok, ok := p.expect(token.IntLit, diag.SynExpectExpression, "expected array length")
		if !ok {
			return ast.NoTypeExprID, false
		}
		n, err := strconv.ParseUint(trimIntSuffix(lenTok.Text), 0, 64)
		if err != nil {
			p.report(diag.SynExpectExpression, diag.SevError, lenTok.Span, "invalid array length")
		}
		if _, ok := p.expect(token.RBracket, diag.SynUnclosedDelimiter, "expected ']' to close array type"); !ok {
			return ast.NoTypeExprID, false
		}
		return te.New(ast.TypeExpr{Kind: ast.TypeArray, Span: start.Cover(p.lastSpan), Args: []ast.TypeExprID{elem}, Len: n}), true

	case token.KwFn:
		p.advance()
		if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after fn"); !ok {
			return ast.NoTypeExprID, false
		}
		var params []ast.TypeExprID
		for !p.at(token.RParen) && !p.at(token.EOF) {
			param, ok := p.parseType()
			if !ok {
				return ast.NoTypeExprID, false
			}
			params = append(params, param)
			if !p.eat(token.Comma) {
				break
			}
		}
		if _, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')'"); !ok {
			return ast.NoTypeExprID, false
		}
		ret := ast.NoTypeExprID
		if p.eat(token.Arrow) {
			r, ok := p.parseType()
			if !ok {
				return ast.NoTypeExprID, false
			}
			ret = r
		}
		return te.New(ast.TypeExpr{Kind: ast.TypeFn, Span: start.Cover(p.lastSpan), Args: params, Ret: ret}), true

	case token.Underscore:
		p.advance()
		return te.New(ast.TypeExpr{Kind: ast.TypeInfer, Span: tok.Span}), true

	case token.Ident:
		return p.parseTypePath()
	}

	p.err(diag.SynExpectType, "expected type, found \""+tok.Text+"\"")
	return ast.NoTypeExprID, false
}

// parseTypePath parses `a::b::Name<Args>`; Name keeps the full path text.
func (p *Parser) parseTypePath() (ast.TypeExprID, bool) {
	first := p.advance()
	parts := []string{first.Text}
	for p.at(token.ColonColon) && p.peekN(1).Kind == token.Ident {
		p.advance()
		parts = append(parts, p.advance().Text)
	}
	var args []ast.TypeExprID
	if p.eat(token.Lt) {
		for !p.at(token.Gt) && !p.at(token.EOF) {
			arg, ok := p.parseType()
			if !ok {
				return ast.NoTypeExprID, false
			}
			args = append(args, arg)
			if !p.eat(token.Comma) {
				break
			}
		}
		if _, ok := p.expect(token.Gt, diag.SynUnclosedDelimiter, "expected '>' to close generic arguments"); !ok {
			return ast.NoTypeExprID, false
		}
	}
	return p.arenas.TypeExprs.New(ast.TypeExpr{
		Kind: ast.TypePath,
		Span: first.Span.Cover(p.lastSpan),
		Name: strings.Join(parts, "::"),
		Args: args,
	}), true
}

// trimIntSuffix strips a type suffix such as i32 or usize and underscores.
func trimIntSuffix(text string) string {
	for _, suf := range intSuffixes {
		if strings.HasSuffix(text, suf) && len(text) > len(suf) {
			text = text[:len(text)-len(suf)]
			break
		}
	}
	return strings.ReplaceAll(text, "_", "")
}

var intSuffixes = []string{"usize", "isize", "u128", "i128", "u64", "i64", "u32", "i32", "u16", "i16", "u8", "i8"}
