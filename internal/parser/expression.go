package parser

import (
	"strconv"
	"unicode"
	"unicode/utf8"

	"disjoint/internal/ast"
	"disjoint/internal/diag"
	"disjoint/internal/source"
	"disjoint/internal/token"
)

// parseExpr parses a full expression including assignment.
func (p *Parser) parseExpr() (ast.ExprID, bool) {
	lhs, ok := p.parseBinary(precLogicalOr)
	if !ok {
		return ast.NoExprID, false
	}
	if op, isAssign := assignOp(p.peek().Kind); isAssign {
		p.advance()
		rhs, ok := p.parseExpr()
		if !ok {
			return ast.NoExprID, false
		}
		sp := p.spanOf(lhs).Cover(p.spanOf(rhs))
		return p.arenas.Exprs.NewAssign(sp, ast.ExprAssignData{Op: op, Target: lhs, Value: rhs}), true
	}
	return lhs, true
}

// parseBinary is precedence climbing over left-associative operators.
func (p *Parser) parseBinary(minPrec int) (ast.ExprID, bool) {
	left, ok := p.parseCast()
	if !ok {
		return ast.NoExprID, false
	}
	for {
		prec, op, isBin := binaryPrec(p.peek().Kind)
		if !isBin || prec < minPrec {
			return left, true
		}
		p.advance()
		right, ok := p.parseBinary(prec + 1)
		if !ok {
			return ast.NoExprID, false
		}
		sp := p.spanOf(left).Cover(p.spanOf(right))
		left = p.arenas.Exprs.NewBinary(sp, ast.ExprBinaryData{Op: op, Left: left, Right: right})
	}
}

func (p *Parser) parseCast() (ast.ExprID, bool) {
	expr, ok := p.parseUnary()
	if !ok {
		return ast.NoExprID, false
	}
	for p.eat(token.KwAs) {
		typ, ok := p.parseType()
		if !ok {
			return ast.NoExprID, false
		}
		sp := p.spanOf(expr).Cover(p.lastSpan)
		expr = p.arenas.Exprs.NewCast(sp, ast.ExprCastData{Value: expr, Type: typ})
	}
	return expr, true
}

func (p *Parser) parseUnary() (ast.ExprID, bool) {
	tok := p.peek()
	var op ast.ExprUnaryOp
	switch tok.Kind {
	case token.Star:
		op = ast.UnaryDeref
	case token.Minus:
		op = ast.UnaryNeg
	case token.Bang:
		op = ast.UnaryNot
	case token.Amp, token.AndAnd:
		p.advance()
		op = ast.UnaryRef
		if p.eat(token.KwMut) {
			op = ast.UnaryRefMut
		}
		operand, ok := p.parseUnary()
		if !ok {
			return ast.NoExprID, false
		}
		exprs := p.arenas.Exprs
		sp := tok.Span.Cover(p.spanOf(operand))
		id := exprs.NewUnary(sp, ast.ExprUnaryData{Op: op, Operand: operand})
		if tok.Kind == token.AndAnd {
			id = exprs.NewUnary(sp, ast.ExprUnaryData{Op: ast.UnaryRef, Operand: id})
		}
		return id, true
	default:
		return p.parsePostfix()
	}
	p.advance()
	operand, ok := p.parseUnary()
	if !ok {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewUnary(tok.Span.Cover(p.spanOf(operand)), ast.ExprUnaryData{Op: op, Operand: operand}), true
}

// parsePostfix handles field access, tuple indexing, method calls, calls,
// indexing and `?`.
func (p *Parser) parsePostfix() (ast.ExprID, bool) {
	expr, ok := p.parsePrimary()
	if !ok {
		return ast.NoExprID, false
	}
	exprs := p.arenas.Exprs
	for {
		switch p.peek().Kind {
		case token.Dot:
			p.advance()
			name := p.peek()
			switch name.Kind {
			case token.IntLit:
				p.advance()
				idx, err := strconv.Atoi(name.Text)
				if err != nil || idx < 0 {
					p.report(diag.SynInvalidTupleIndex, diag.SevError, name.Span, "invalid tuple index \""+name.Text+"\"")
					idx = 0
				}
				expr = exprs.NewField(p.spanOf(expr).Cover(name.Span), ast.ExprFieldData{Target: expr, Name: name.Text, Index: idx})
			case token.Ident:
				p.advance()
				if p.at(token.ColonColon) && p.peekN(1).Kind == token.Lt {
					p.advance()
					p.skipGenerics()
				}
				if p.at(token.LParen) {
					args, ok := p.parseArgs(token.LParen, token.RParen)
					if !ok {
						return ast.NoExprID, false
					}
					expr = exprs.NewMethodCall(p.spanOf(expr).Cover(p.lastSpan), ast.ExprMethodCallData{
						Receiver: expr,
						Name:     name.Text,
						NameSpan: name.Span,
						Args:     args,
					})
					continue
				}
				expr = exprs.NewField(p.spanOf(expr).Cover(name.Span), ast.ExprFieldData{Target: expr, Name: name.Text, Index: -1})
			default:
				p.err(diag.SynExpectIdentifier, "expected field name or tuple index after '.'")
				return ast.NoExprID, false
			}
		case token.LParen:
			args, ok := p.parseArgs(token.LParen, token.RParen)
			if !ok {
				return ast.NoExprID, false
			}
			expr = exprs.NewCall(p.spanOf(expr).Cover(p.lastSpan), ast.ExprCallData{Callee: expr, Args: args})
		case token.LBracket:
			p.advance()
			idx, ok := p.parseExpr()
			if !ok {
				return ast.NoExprID, false
			}
			if _, ok := p.expect(token.RBracket, diag.SynUnclosedDelimiter, "expected ']' after index"); !ok {
				return ast.NoExprID, false
			}
			expr = exprs.NewIndex(p.spanOf(expr).Cover(p.lastSpan), ast.ExprIndexData{Target: expr, Index: idx})
		case token.Question:
			p.advance()
		default:
			return expr, true
		}
	}
}

func (p *Parser) parsePrimary() (ast.ExprID, bool) {
	tok := p.peek()
	exprs := p.arenas.Exprs

	switch tok.Kind {
	case token.IntLit, token.FloatLit, token.StringLit, token.CharLit, token.KwTrue, token.KwFalse:
		p.advance()
		return exprs.NewLit(tok.Span, ast.ExprLitData{Kind: litKind(tok.Kind), Value: tok.Text}), true

	case token.KwSelf:
		p.advance()
		return exprs.NewIdent(tok.Span, ast.ExprIdentData{Name: "self"}), true

	case token.Ident:
		return p.parseIdentLed()

	case token.LParen:
		return p.parseParenOrTuple()

	case token.LBracket:
		return p.parseArray()

	case token.LBrace:
		return p.parseBlock()

	case token.KwMove, token.Pipe, token.OrOr:
		return p.parseClosure()

	case token.KwReturn:
		p.advance()
		value := ast.NoExprID
		if !p.at(token.Semicolon) && !p.at(token.RBrace) && !p.at(token.RParen) && !p.at(token.Comma) {
			v, ok := p.parseExpr()
			if !ok {
				return ast.NoExprID, false
			}
			value = v
		}
		return exprs.NewReturn(tok.Span.Cover(p.lastSpan), ast.ExprReturnData{Value: value}), true
	}

	p.err(diag.SynExpectExpression, "expected expression, found \""+tok.Text+"\"")
	return ast.NoExprID, false
}

// parseIdentLed parses what can start with an identifier: plain names,
// paths, macro invocations and struct literals.
func (p *Parser) parseIdentLed() (ast.ExprID, bool) {
	first := p.advance()
	exprs := p.arenas.Exprs

	if p.at(token.Bang) && isMacroOpen(p.peekN(1).Kind) {
		p.advance()
		open := p.peek().Kind
		args, ok := p.parseArgs(open, closerOf(open))
		if !ok {
			return ast.NoExprID, false
		}
		return exprs.NewMacro(first.Span.Cover(p.lastSpan), ast.ExprMacroData{Name: first.Text, Args: args}), true
	}

	if p.at(token.ColonColon) {
		data := ast.ExprPathData{Segments: []string{first.Text}}
		for p.eat(token.ColonColon) {
			if p.at(token.Lt) {
				p.advance()
				for !p.at(token.Gt) && !p.at(token.EOF) {
					arg, ok := p.parseType()
					if !ok {
						return ast.NoExprID, false
					}
					data.TypeArgs = append(data.TypeArgs, arg)
					if !p.eat(token.Comma) {
						break
					}
				}
				if _, ok := p.expect(token.Gt, diag.SynUnclosedDelimiter, "expected '>'"); !ok {
					return ast.NoExprID, false
				}
				continue
			}
			seg, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected path segment after '::'")
			if !ok {
				return ast.NoExprID, false
			}
			data.Segments = append(data.Segments, seg.Text)
		}
		return exprs.NewPath(first.Span.Cover(p.lastSpan), data), true
	}

	if p.at(token.LBrace) && p.looksLikeStructLit(first.Text) {
		return p.parseStructLit(first)
	}
	return exprs.NewIdent(first.Span, ast.ExprIdentData{Name: first.Text}), true
}

// looksLikeStructLit decides whether `Name {` opens a struct literal rather
// than a block; only capitalized names followed by `}` or `field:`/`field,`
// qualify.
func (p *Parser) looksLikeStructLit(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	if !unicode.IsUpper(r) {
		return false
	}
	next := p.peekN(1)
	if next.Kind == token.RBrace {
		return true
	}
	if next.Kind != token.Ident {
		return false
	}
	switch p.peekN(2).Kind {
	case token.Colon, token.Comma, token.RBrace:
		return true
	}
	return false
}

func (p *Parser) parseStructLit(name token.Token) (ast.ExprID, bool) {
	p.advance() // {
	data := ast.ExprStructData{Name: name.Text}
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		field, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected field name")
		if !ok {
			return ast.NoExprID, false
		}
		var value ast.ExprID
		if p.eat(token.Colon) {
			if value, ok = p.parseExpr(); !ok {
				return ast.NoExprID, false
			}
		} else {
			value = p.arenas.Exprs.NewIdent(field.Span, ast.ExprIdentData{Name: field.Text})
		}
		data.Fields = append(data.Fields, ast.FieldInit{Name: field.Text, Value: value, Span: field.Span.Cover(p.lastSpan)})
		if !p.eat(token.Comma) {
			break
		}
	}
	if _, ok := p.expect(token.RBrace, diag.SynUnclosedDelimiter, "expected '}' to close struct literal"); !ok {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewStruct(name.Span.Cover(p.lastSpan), data), true
}

func (p *Parser) parseParenOrTuple() (ast.ExprID, bool) {
	open := p.advance()
	var elems []ast.ExprID
	trailingComma := false
	for !p.at(token.RParen) && !p.at(token.EOF) {
		elem, ok := p.parseExpr()
		if !ok {
			return ast.NoExprID, false
		}
		elems = append(elems, elem)
		trailingComma = p.eat(token.Comma)
		if !trailingComma {
			break
		}
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')'"); !ok {
		return ast.NoExprID, false
	}
	sp := open.Span.Cover(p.lastSpan)
	if len(elems) == 1 && !trailingComma {
		return p.arenas.Exprs.NewGroup(sp, ast.ExprGroupData{Inner: elems[0]}), true
	}
	return p.arenas.Exprs.NewTuple(sp, ast.ExprTupleData{Elems: elems}), true
}

func (p *Parser) parseArray() (ast.ExprID, bool) {
	open := p.advance()
	var data ast.ExprArrayData
	for !p.at(token.RBracket) && !p.at(token.EOF) {
		elem, ok := p.parseExpr()
		if !ok {
			return ast.NoExprID, false
		}
		if len(data.Elems) == 0 && p.eat(token.Semicolon) {
			count, ok := p.parseExpr()
			if !ok {
				return ast.NoExprID, false
			}
			data.Repeat, data.Count = elem, count
			break
		}
		data.Elems = append(data.Elems, elem)
		if !p.eat(token.Comma) {
			break
		}
	}
	if _, ok := p.expect(token.RBracket, diag.SynUnclosedDelimiter, "expected ']' to close array"); !ok {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewArray(open.Span.Cover(p.lastSpan), data), true
}

// parseClosure parses `move? |params| (-> Type)? body`. The head span is the
// token that opens the closure.
func (p *Parser) parseClosure() (ast.ExprID, bool) {
	head := p.peek()
	data := ast.ExprClosureData{Head: head.Span}
	if p.eat(token.KwMove) {
		data.Move = true
	}
	switch {
	case p.eat(token.OrOr):
	case p.eat(token.Pipe):
		for !p.at(token.Pipe) && !p.at(token.EOF) {
			pat, ok := p.parsePattern()
			if !ok {
				return ast.NoExprID, false
			}
			param := ast.ClosureParam{Pat: pat}
			if p.eat(token.Colon) {
				if param.Type, ok = p.parseType(); !ok {
					return ast.NoExprID, false
				}
			}
			data.Params = append(data.Params, param)
			if !p.eat(token.Comma) {
				break
			}
		}
		if _, ok := p.expect(token.Pipe, diag.SynUnclosedDelimiter, "expected '|' to close closure parameters"); !ok {
			return ast.NoExprID, false
		}
	default:
		p.err(diag.SynUnexpectedToken, "expected '|' or '||' after 'move'")
		return ast.NoExprID, false
	}

	var ok bool
	if p.eat(token.Arrow) {
		if data.Ret, ok = p.parseType(); !ok {
			return ast.NoExprID, false
		}
		if !p.at(token.LBrace) {
			p.err(diag.SynUnexpectedToken, "closure with a return type needs a block body")
			return ast.NoExprID, false
		}
	}
	if data.Body, ok = p.parseExpr(); !ok {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewClosure(head.Span.Cover(p.spanOf(data.Body)), data), true
}

// parseArgs parses a delimited, comma separated expression list. Macro
// arguments may also use ';' (vec![x; n]).
func (p *Parser) parseArgs(open, closing token.Kind) ([]ast.ExprID, bool) {
	if _, ok := p.expect(open, diag.SynUnexpectedToken, "expected argument list"); !ok {
		return nil, false
	}
	var args []ast.ExprID
	for !p.at(closing) && !p.at(token.EOF) {
		arg, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		args = append(args, arg)
		if !p.eat(token.Comma) && !(open != token.LParen && p.eat(token.Semicolon)) {
			break
		}
	}
	if _, ok := p.expect(closing, diag.SynUnclosedDelimiter, "expected closing delimiter of argument list"); !ok {
		return nil, false
	}
	return args, true
}

func (p *Parser) spanOf(id ast.ExprID) source.Span {
	if e := p.arenas.Exprs.Get(id); e != nil {
		return e.Span
	}
	return p.lastSpan
}

func isMacroOpen(k token.Kind) bool {
	return k == token.LParen || k == token.LBracket || k == token.LBrace
}

func closerOf(open token.Kind) token.Kind {
	switch open {
	case token.LBracket:
		return token.RBracket
	case token.LBrace:
		return token.RBrace
	default:
		return token.RParen
	}
}

func litKind(k token.Kind) ast.ExprLitKind {
	switch k {
	case token.FloatLit:
		return ast.LitFloat
	case token.StringLit:
		return ast.LitString
	case token.CharLit:
		return ast.LitChar
	case token.KwTrue, token.KwFalse:
		return ast.LitBool
	default:
		return ast.LitInt
	}
}
