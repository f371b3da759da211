package parser

import (
	"disjoint/internal/diag"
	"disjoint/internal/source"
	"disjoint/internal/token"
)

func (p *Parser) peek() token.Token {
	return p.peekN(0)
}

// peekN looks n tokens ahead; past the end it returns the EOF token.
func (p *Parser) peekN(n int) token.Token {
	i := p.pos + n
	if i >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[i]
}

func (p *Parser) at(k token.Kind) bool {
	return p.peek().Kind == k
}

// advance consumes the next token and updates lastSpan.
func (p *Parser) advance() token.Token {
	tok := p.peek()
	if tok.Kind != token.EOF {
		p.pos++
		if tok.Kind != token.Invalid {
			p.lastSpan = tok.Span
		}
	}
	return tok
}

func (p *Parser) eat(k token.Kind) bool {
	if p.at(k) {
		p.advance()
		return true
	}
	return false
}

// diagSpan is the best location to blame for a missing token: the current
// token, or the end of the previous one at EOF.
func (p *Parser) diagSpan() source.Span {
	peek := p.peek()
	if peek.Kind == token.EOF && p.lastSpan.End > 0 {
		return source.Span{File: p.lastSpan.File, Start: p.lastSpan.End, End: p.lastSpan.End}
	}
	return peek.Span
}

// expect consumes a token of kind k or reports code with msg.
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	sp := p.diagSpan()
	p.report(code, diag.SevError, sp, msg)
	return token.Token{Kind: token.Invalid, Span: sp, Text: p.peek().Text}, false
}

func (p *Parser) err(code diag.Code, msg string) bool {
	return p.report(code, diag.SevError, p.diagSpan(), msg)
}

func (p *Parser) report(code diag.Code, sev diag.Severity, sp source.Span, msg string) bool {
	if sev == diag.SevError {
		p.opts.CurrentErrors++
	}
	if p.opts.Reporter == nil || p.opts.Enough() {
		return false
	}
	p.opts.Reporter.Report(code, sev, sp, msg, nil, nil)
	return true
}

// resyncUntil advances until one of kinds (or EOF) is next; balanced
// groups are skipped as a whole.
func (p *Parser) resyncUntil(kinds ...token.Kind) {
	for !p.at(token.EOF) {
		k := p.peek().Kind
		for _, stop := range kinds {
			if k == stop {
				return
			}
		}
		switch k {
		case token.LParen, token.LBrace, token.LBracket:
			p.skipBalanced()
		default:
			p.advance()
		}
	}
}

// skipBalanced consumes an opening delimiter and everything up to its match.
func (p *Parser) skipBalanced() {
	depth := 0
	for !p.at(token.EOF) {
		switch p.advance().Kind {
		case token.LParen, token.LBrace, token.LBracket:
			depth++
		case token.RParen, token.RBrace, token.RBracket:
			depth--
		}
		if depth <= 0 {
			return
		}
	}
}

// skipVisibility drops `pub` and `pub(...)`.
func (p *Parser) skipVisibility() {
	if !p.eat(token.KwPub) {
		return
	}
	if p.at(token.LParen) {
		p.skipBalanced()
	}
}

// skipGenerics drops a `<...>` parameter list; bounds are not modelled.
func (p *Parser) skipGenerics() {
	if !p.at(token.Lt) {
		return
	}
	depth := 0
	for !p.at(token.EOF) {
		switch p.advance().Kind {
		case token.Lt:
			depth++
		case token.Gt:
			depth--
		}
		if depth == 0 {
			return
		}
	}
}
