package lexer

import (
	"disjoint/internal/diag"
	"disjoint/internal/token"
)

// scanOperatorOrPunct matches the longest operator first: two-byte forms,
// then single bytes. Unknown characters produce an Invalid token.
func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()

	switch {
	case lx.try2(':', ':'):
		return lx.opTok(start, token.ColonColon)
	case lx.try2('-', '>'):
		return lx.opTok(start, token.Arrow)
	case lx.try2('=', '>'):
		return lx.opTok(start, token.FatArrow)
	case lx.try2('&', '&'):
		return lx.opTok(start, token.AndAnd)
	case lx.try2('|', '|'):
		return lx.opTok(start, token.OrOr)
	case lx.try2('=', '='):
		return lx.opTok(start, token.EqEq)
	case lx.try2('!', '='):
		return lx.opTok(start, token.BangEq)
	case lx.try2('<', '='):
		return lx.opTok(start, token.LtEq)
	case lx.try2('>', '='):
		return lx.opTok(start, token.GtEq)
	case lx.try2('+', '='):
		return lx.opTok(start, token.PlusAssign)
	case lx.try2('-', '='):
		return lx.opTok(start, token.MinusAssign)
	case lx.try2('.', '.'):
		return lx.opTok(start, token.DotDot)
	}

	b := lx.cursor.Bump()
	switch b {
	case '+':
		return lx.opTok(start, token.Plus)
	case '-':
		return lx.opTok(start, token.Minus)
	case '*':
		return lx.opTok(start, token.Star)
	case '/':
		return lx.opTok(start, token.Slash)
	case '%':
		return lx.opTok(start, token.Percent)
	case '=':
		return lx.opTok(start, token.Assign)
	case '!':
		return lx.opTok(start, token.Bang)
	case '<':
		return lx.opTok(start, token.Lt)
	case '>':
		return lx.opTok(start, token.Gt)
	case '&':
		return lx.opTok(start, token.Amp)
	case '|':
		return lx.opTok(start, token.Pipe)
	case '?':
		return lx.opTok(start, token.Question)
	case ':':
		return lx.opTok(start, token.Colon)
	case ';':
		return lx.opTok(start, token.Semicolon)
	case ',':
		return lx.opTok(start, token.Comma)
	case '.':
		return lx.opTok(start, token.Dot)
	case '#':
		return lx.opTok(start, token.Hash)
	case '(':
		return lx.opTok(start, token.LParen)
	case ')':
		return lx.opTok(start, token.RParen)
	case '{':
		return lx.opTok(start, token.LBrace)
	case '}':
		return lx.opTok(start, token.RBrace)
	case '[':
		return lx.opTok(start, token.LBracket)
	case ']':
		return lx.opTok(start, token.RBracket)
	case '_':
		return lx.opTok(start, token.Underscore)
	}

	// consume the rest of a multi-byte character so the span covers it whole
	if b >= utf8RuneSelf {
		for !lx.cursor.EOF() && lx.cursor.Peek()&0xC0 == 0x80 {
			lx.cursor.Bump()
		}
	}
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnknownChar, sp, "unknown character")
	return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}

func (lx *Lexer) opTok(start Mark, k token.Kind) token.Token {
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: k, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}
