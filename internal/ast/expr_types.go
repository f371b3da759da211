package ast

import "disjoint/internal/source"

type ExprKind uint8

const (
	ExprIdent ExprKind = iota
	ExprPath
	ExprLit
	ExprGroup
	ExprTuple
	ExprArray
	ExprCall
	ExprMethodCall
	ExprMacro
	ExprField
	ExprIndex
	ExprUnary
	ExprBinary
	ExprAssign
	ExprCast
	ExprBlock
	ExprClosure
	ExprStruct
	ExprReturn
)

type Expr struct {
	Kind    ExprKind
	Span    source.Span
	Payload PayloadID
}

type ExprIdentData struct {
	Name string
}

// ExprPathData is a `::`-separated path such as String::new or Vec::<i32>::new.
type ExprPathData struct {
	Segments []string
	TypeArgs []TypeExprID
}

type ExprLitKind uint8

const (
	LitInt ExprLitKind = iota
	LitFloat
	LitString
	LitChar
	LitBool
)

type ExprLitData struct {
	Kind  ExprLitKind
	Value string // source text, suffix included
}

type ExprGroupData struct {
	Inner ExprID
}

type ExprTupleData struct {
	Elems []ExprID // empty for ()
}

// ExprArrayData is [a, b, c] or the repeat form [value; count].
type ExprArrayData struct {
	Elems  []ExprID
	Repeat ExprID
	Count  ExprID
}

type ExprCallData struct {
	Callee ExprID
	Args   []ExprID
}

type ExprMethodCallData struct {
	Receiver ExprID
	Name     string
	NameSpan source.Span
	Args     []ExprID
}

type ExprMacroData struct {
	Name string
	Args []ExprID
}

// ExprFieldData is `target.name` or `target.0`.
type ExprFieldData struct {
	Target ExprID
	Name   string
	Index  int // tuple index, -1 for named fields
}

type ExprIndexData struct {
	Target ExprID
	Index  ExprID
}

type ExprUnaryOp uint8

const (
	UnaryDeref  ExprUnaryOp = iota // *e
	UnaryRef                       // &e
	UnaryRefMut                    // &mut e
	UnaryNeg                       // -e
	UnaryNot                       // !e
)

type ExprUnaryData struct {
	Op      ExprUnaryOp
	Operand ExprID
}

type ExprBinaryOp uint8

const (
	BinAdd ExprBinaryOp = iota
	BinSub
	BinMul
	BinDiv
	BinRem
	BinEq
	BinNe
	BinLt
	BinLe
	BinGt
	BinGe
	BinAnd
	BinOr
)

type ExprBinaryData struct {
	Op    ExprBinaryOp
	Left  ExprID
	Right ExprID
}

type ExprAssignOp uint8

const (
	AssignPlain ExprAssignOp = iota
	AssignAdd
	AssignSub
)

type ExprAssignData struct {
	Op     ExprAssignOp
	Target ExprID
	Value  ExprID
}

type ExprCastData struct {
	Value ExprID
	Type  TypeExprID
}

type ExprBlockData struct {
	Stmts []StmtID
	Tail  ExprID
}

type ClosureParam struct {
	Pat  PatID
	Type TypeExprID
}

// ExprClosureData describes `move |params| -> Ret body`. Head is the span of
// the token that opens the closure (`move` or the first `|`).
type ExprClosureData struct {
	Move   bool
	Head   source.Span
	Params []ClosureParam
	Ret    TypeExprID
	Body   ExprID
}

type FieldInit struct {
	Name  string
	Value ExprID // shorthand `S { a }` stores an ident expr
	Span  source.Span
}

type ExprStructData struct {
	Name   string
	Fields []FieldInit
}

type ExprReturnData struct {
	Value ExprID
}
