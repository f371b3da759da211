package lexer

import (
	"disjoint/internal/diag"
	"disjoint/internal/token"
)

// collectLeadingTrivia moves whitespace and comments into lx.hold.
func (lx *Lexer) collectLeadingTrivia() {
	for !lx.cursor.EOF() {
		start := lx.cursor.Mark()
		b := lx.cursor.Peek()

		switch {
		case b == ' ' || b == '\t' || b == '\r':
			for !lx.cursor.EOF() {
				c := lx.cursor.Peek()
				if c != ' ' && c != '\t' && c != '\r' {
					break
				}
				lx.cursor.Bump()
			}
			lx.pushTrivia(token.TriviaSpace, start)
		case b == '\n':
			lx.cursor.Bump()
			lx.pushTrivia(token.TriviaNewline, start)
		case lx.try2('/', '/'):
			for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
				lx.cursor.Bump()
			}
			lx.pushTrivia(token.TriviaLineComment, start)
		case lx.try2('/', '*'):
			lx.scanBlockComment(start)
		default:
			return
		}
	}
}

// scanBlockComment consumes a nested /* ... */ comment; the opener is
// already consumed.
func (lx *Lexer) scanBlockComment(start Mark) {
	depth := 1
	for depth > 0 {
		if lx.cursor.EOF() {
			sp := lx.cursor.SpanFrom(start)
			lx.errLex(diag.LexUnterminatedBlockComment, sp, "unterminated block comment")
			break
		}
		switch {
		case lx.try2('/', '*'):
			depth++
		case lx.try2('*', '/'):
			depth--
		default:
			lx.cursor.Bump()
		}
	}
	lx.pushTrivia(token.TriviaBlockComment, start)
}

func (lx *Lexer) pushTrivia(kind token.TriviaKind, start Mark) {
	sp := lx.cursor.SpanFrom(start)
	lx.hold = append(lx.hold, token.Trivia{
		Kind: kind,
		Span: sp,
		Text: string(lx.file.Content[sp.Start:sp.End]),
	})
}
