package parser

import (
	"disjoint/internal/ast"
	"disjoint/internal/token"
)

// Binary operator precedence; higher binds tighter. Assignment is handled
// separately as the lowest, right-associative level.
const (
	precLogicalOr      = 1 // ||
	precLogicalAnd     = 2 // &&
	precComparison     = 3 // == != < <= > >=
	precAdditive       = 4 // + -
	precMultiplicative = 5 // * / %
)

func binaryPrec(kind token.Kind) (int, ast.ExprBinaryOp, bool) {
	switch kind {
	case token.OrOr:
		return precLogicalOr, ast.BinOr, true
	case token.AndAnd:
		return precLogicalAnd, ast.BinAnd, true
	case token.EqEq:
		return precComparison, ast.BinEq, true
	case token.BangEq:
		return precComparison, ast.BinNe, true
	case token.Lt:
		return precComparison, ast.BinLt, true
	case token.LtEq:
		return precComparison, ast.BinLe, true
	case token.Gt:
		return precComparison, ast.BinGt, true
	case token.GtEq:
		return precComparison, ast.BinGe, true
	case token.Plus:
		return precAdditive, ast.BinAdd, true
	case token.Minus:
		return precAdditive, ast.BinSub, true
	case token.Star:
		return precMultiplicative, ast.BinMul, true
	case token.Slash:
		return precMultiplicative, ast.BinDiv, true
	case token.Percent:
		return precMultiplicative, ast.BinRem, true
	}
	return 0, 0, false
}

func assignOp(kind token.Kind) (ast.ExprAssignOp, bool) {
	switch kind {
	case token.Assign:
		return ast.AssignPlain, true
	case token.PlusAssign:
		return ast.AssignAdd, true
	case token.MinusAssign:
		return ast.AssignSub, true
	}
	return 0, false
}
