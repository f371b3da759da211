package lexer

import (
	"strings"

	"disjoint/internal/diag"
	"disjoint/internal/token"
)

// scanNumber scans decimal/hex/binary integers and decimal floats with an
// optional type suffix (0i32, 1_000u64, 2.5f32). After a '.' token only the
// integer part is taken, so `t.0.1` lexes as a chain of tuple indices.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	kind := token.IntLit
	afterDot := lx.prev == token.Dot

	if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '0' && (b1 == 'x' || b1 == 'b' || b1 == 'o') && !afterDot {
		lx.cursor.Bump()
		lx.cursor.Bump()
		digits := 0
		for {
			b := lx.cursor.Peek()
			if b == '_' || isDec(b) || (b1 == 'x' && isHexLetter(b)) {
				lx.cursor.Bump()
				digits++
				continue
			}
			break
		}
		if digits == 0 {
			sp := lx.cursor.SpanFrom(start)
			lx.errLex(diag.LexBadNumber, sp, "missing digits after integer base prefix")
			return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
		}
		lx.scanSuffix()
		sp := lx.cursor.SpanFrom(start)
		return token.Token{Kind: kind, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
	}

	lx.scanDigits()
	if afterDot {
		sp := lx.cursor.SpanFrom(start)
		return token.Token{Kind: token.IntLit, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
	}

	if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '.' && isDec(b1) {
		lx.cursor.Bump()
		lx.scanDigits()
		kind = token.FloatLit
	}
	if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
		mark := lx.cursor.Mark()
		lx.cursor.Bump()
		if b := lx.cursor.Peek(); b == '+' || b == '-' {
			lx.cursor.Bump()
		}
		if isDec(lx.cursor.Peek()) {
			lx.scanDigits()
			kind = token.FloatLit
		} else {
			lx.cursor.Reset(mark)
		}
	}

	suffix := lx.scanSuffix()
	if strings.HasPrefix(suffix, "f") {
		kind = token.FloatLit
	}
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: kind, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}

func (lx *Lexer) scanDigits() {
	for {
		b := lx.cursor.Peek()
		if !isDec(b) && b != '_' {
			return
		}
		lx.cursor.Bump()
	}
}

func (lx *Lexer) scanSuffix() string {
	start := lx.cursor.Off
	if !isIdentStartByte(lx.cursor.Peek()) {
		return ""
	}
	for isIdentContinueByte(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	return string(lx.file.Content[start:lx.cursor.Off])
}

func isHexLetter(b byte) bool {
	return (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}
