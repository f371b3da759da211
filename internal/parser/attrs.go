package parser

import (
	"strings"

	"disjoint/internal/ast"
	"disjoint/internal/diag"
	"disjoint/internal/token"
)

// parseOuterAttrs collects `#[...]` attributes in front of an item. Inner
// attributes are only accepted at the top of a file.
func (p *Parser) parseOuterAttrs() ([]ast.Attr, bool) {
	var attrs []ast.Attr
	for p.at(token.Hash) {
		if p.peekN(1).Kind == token.Bang {
			p.report(diag.SynAttributeNotAllowed, diag.SevError, p.peek().Span, "inner attribute is not permitted in this context")
		}
		attr, ok := p.parseAttr()
		if !ok {
			return nil, false
		}
		if !attr.Inner {
			attrs = append(attrs, attr)
		}
	}
	return attrs, true
}

// parseAttr parses `#[name]`, `#[name(a, b::c)]` or the inner `#!` form.
// Arguments that are not plain paths are skipped.
func (p *Parser) parseAttr() (ast.Attr, bool) {
	hash := p.advance()
	attr := ast.Attr{Inner: p.eat(token.Bang)}
	if _, ok := p.expect(token.LBracket, diag.SynUnexpectedToken, "expected '[' after '#'"); !ok {
		return attr, false
	}
	name, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected attribute name")
	if !ok {
		return attr, false
	}
	attr.Name = name.Text

	if p.eat(token.LParen) {
		for !p.at(token.RParen) && !p.at(token.EOF) {
			if p.at(token.Ident) {
				first := p.advance()
				parts := []string{first.Text}
				sp := first.Span
				for p.at(token.ColonColon) && p.peekN(1).Kind == token.Ident {
					p.advance()
					seg := p.advance()
					parts = append(parts, seg.Text)
					sp = sp.Cover(seg.Span)
				}
				if p.at(token.Comma) || p.at(token.RParen) {
					attr.Args = append(attr.Args, ast.AttrArg{Name: strings.Join(parts, "::"), Span: sp})
				} else {
					p.resyncUntil(token.Comma, token.RParen)
				}
			} else {
				p.resyncUntil(token.Comma, token.RParen)
			}
			if !p.eat(token.Comma) {
				break
			}
		}
		if _, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' to close attribute arguments"); !ok {
			return attr, false
		}
	} else if p.at(token.Assign) {
		p.resyncUntil(token.RBracket)
	}

	closing, ok := p.expect(token.RBracket, diag.SynUnclosedDelimiter, "expected ']' to close attribute")
	if !ok {
		return attr, false
	}
	attr.Span = hash.Span.Cover(closing.Span)
	return attr, true
}
