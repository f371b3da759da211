package lexer

import (
	"disjoint/internal/diag"
	"disjoint/internal/token"
)

// scanString scans "..." literals. Strings may span lines; escapes are
// skipped without validation.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening quote

	for {
		if lx.cursor.EOF() {
			sp := lx.cursor.SpanFrom(start)
			lx.errLex(diag.LexUnterminatedString, sp, "unterminated string literal")
			return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
		}
		b := lx.cursor.Bump()
		if b == '\\' {
			if !lx.cursor.EOF() {
				lx.cursor.Bump()
			}
			continue
		}
		if b == '"' {
			break
		}
	}
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: token.StringLit, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}

// scanChar scans 'x' and '\n' style literals. A quote that does not close
// within one character is reported as unterminated.
func (lx *Lexer) scanChar() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening quote

	if lx.cursor.Peek() == '\\' {
		lx.cursor.Bump()
		if !lx.cursor.EOF() {
			lx.bumpRune()
		}
		// \u{...}
		if lx.cursor.Peek() == '{' {
			for !lx.cursor.EOF() && lx.cursor.Peek() != '}' && lx.cursor.Peek() != '\'' {
				lx.cursor.Bump()
			}
			lx.cursor.Eat('}')
		}
	} else if !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
		lx.bumpRune()
	}

	if !lx.cursor.Eat('\'') {
		sp := lx.cursor.SpanFrom(start)
		lx.errLex(diag.LexUnterminatedChar, sp, "unterminated character literal")
		return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
	}
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: token.CharLit, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}
