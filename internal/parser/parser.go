package parser

import (
	"disjoint/internal/ast"
	"disjoint/internal/diag"
	"disjoint/internal/lexer"
	"disjoint/internal/source"
	"disjoint/internal/token"
)

type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
}

// Enough reports whether the error limit has been reached.
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

type Result struct {
	File   ast.FileID
	Errors uint
}

// Parser holds the state for parsing one file.
type Parser struct {
	toks     []token.Token
	pos      int
	arenas   *ast.Builder
	file     ast.FileID
	opts     Options
	lastSpan source.Span // span of the last consumed token
}

// ParseFile parses the whole token stream of lx into arenas.
func ParseFile(lx *lexer.Lexer, arenas *ast.Builder, opts Options) Result {
	toks := lx.All()
	p := Parser{
		toks:     toks,
		arenas:   arenas,
		opts:     opts,
		lastSpan: toks[0].Span.ZeroAt(),
	}
	p.file = arenas.NewFile(toks[0].Span.ZeroAt())

	p.parseItems()
	return Result{File: p.file, Errors: p.opts.CurrentErrors}
}

// parseItems is the top-level loop: inner attributes first, then items
// until EOF.
func (p *Parser) parseItems() {
	start := p.peek().Span
	file := p.arenas.Files.Get(p.file)
	for p.at(token.Hash) && p.peekN(1).Kind == token.Bang {
		if attr, ok := p.parseAttr(); ok {
			file.Attrs = append(file.Attrs, attr)
		} else {
			p.resyncUntil(token.RBracket)
			p.eat(token.RBracket)
		}
	}
	for !p.at(token.EOF) {
		if p.opts.Enough() {
			break
		}
		itemID, ok := p.parseItem()
		if !ok {
			p.resyncTop()
			continue
		}
		if itemID.IsValid() {
			p.arenas.PushItem(p.file, itemID)
		}
	}
	file = p.arenas.Files.Get(p.file)
	file.Span = start.Cover(p.peek().Span)
}

// parseItem dispatches on the first token of an item. A valid result with
// NoItemID means the construct was consumed but is not represented (use).
func (p *Parser) parseItem() (ast.ItemID, bool) {
	attrs, ok := p.parseOuterAttrs()
	if !ok {
		return ast.NoItemID, false
	}
	p.skipVisibility()

	switch tok := p.peek(); {
	case tok.Kind == token.KwStruct:
		return p.parseStruct(attrs)
	case tok.Kind == token.KwImpl:
		return p.parseImpl()
	case tok.Kind == token.KwFn:
		return p.parseFn(attrs)
	case tok.Kind == token.Ident && tok.Text == "use":
		p.resyncUntil(token.Semicolon)
		p.eat(token.Semicolon)
		return ast.NoItemID, true
	default:
		p.report(diag.SynUnexpectedTopLevel, diag.SevError, tok.Span, "expected item, found \""+tok.Text+"\"")
		return ast.NoItemID, false
	}
}

// resyncTop skips to the start of the next item, consuming a ';' if that is
// where it stopped.
func (p *Parser) resyncTop() {
	for !p.at(token.EOF) {
		k := p.peek().Kind
		if isTopLevelStarter(k) {
			return
		}
		switch k {
		case token.Semicolon, token.RBrace:
			p.advance()
			return
		case token.LBrace:
			p.skipBalanced()
			return
		}
		p.advance()
	}
}

func isTopLevelStarter(k token.Kind) bool {
	switch k {
	case token.KwFn, token.KwStruct, token.KwImpl, token.KwPub, token.Hash:
		return true
	default:
		return false
	}
}
