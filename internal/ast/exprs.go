package ast

import "disjoint/internal/source"

// Exprs manages allocation of expressions and their per-kind payloads.
type Exprs struct {
	Arena       *Arena[Expr]
	Idents      *Arena[ExprIdentData]
	Paths       *Arena[ExprPathData]
	Literals    *Arena[ExprLitData]
	Groups      *Arena[ExprGroupData]
	Tuples      *Arena[ExprTupleData]
	Arrays      *Arena[ExprArrayData]
	Calls       *Arena[ExprCallData]
	MethodCalls *Arena[ExprMethodCallData]
	Macros      *Arena[ExprMacroData]
	Fields      *Arena[ExprFieldData]
	Indices     *Arena[ExprIndexData]
	Unaries     *Arena[ExprUnaryData]
	Binaries    *Arena[ExprBinaryData]
	Assigns     *Arena[ExprAssignData]
	Casts       *Arena[ExprCastData]
	Blocks      *Arena[ExprBlockData]
	Closures    *Arena[ExprClosureData]
	Structs     *Arena[ExprStructData]
	Returns     *Arena[ExprReturnData]
}

// NewExprs creates expression arenas; capHint 0 selects a default of 256.
func NewExprs(capHint uint) *Exprs {
	if capHint == 0 {
		capHint = 1 << 8
	}
	return &Exprs{
		Arena:       NewArena[Expr](capHint),
		Idents:      NewArena[ExprIdentData](capHint),
		Paths:       NewArena[ExprPathData](capHint),
		Literals:    NewArena[ExprLitData](capHint),
		Groups:      NewArena[ExprGroupData](capHint),
		Tuples:      NewArena[ExprTupleData](capHint),
		Arrays:      NewArena[ExprArrayData](capHint),
		Calls:       NewArena[ExprCallData](capHint),
		MethodCalls: NewArena[ExprMethodCallData](capHint),
		Macros:      NewArena[ExprMacroData](capHint),
		Fields:      NewArena[ExprFieldData](capHint),
		Indices:     NewArena[ExprIndexData](capHint),
		Unaries:     NewArena[ExprUnaryData](capHint),
		Binaries:    NewArena[ExprBinaryData](capHint),
		Assigns:     NewArena[ExprAssignData](capHint),
		Casts:       NewArena[ExprCastData](capHint),
		Blocks:      NewArena[ExprBlockData](capHint),
		Closures:    NewArena[ExprClosureData](capHint),
		Structs:     NewArena[ExprStructData](capHint),
		Returns:     NewArena[ExprReturnData](capHint),
	}
}

func (e *Exprs) new(kind ExprKind, span source.Span, payload uint32) ExprID {
	return ExprID(e.Arena.Allocate(Expr{
		Kind:    kind,
		Span:    span,
		Payload: PayloadID(payload),
	}))
}

// Get returns the expression with the given ID.
func (e *Exprs) Get(id ExprID) *Expr {
	return e.Arena.Get(uint32(id))
}

func (e *Exprs) NewIdent(span source.Span, data ExprIdentData) ExprID {
	return e.new(ExprIdent, span, e.Idents.Allocate(data))
}

func (e *Exprs) Ident(id ExprID) (*ExprIdentData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprIdent {
		return nil, false
	}
	return e.Idents.Get(uint32(expr.Payload)), true
}

func (e *Exprs) NewPath(span source.Span, data ExprPathData) ExprID {
	return e.new(ExprPath, span, e.Paths.Allocate(data))
}

func (e *Exprs) Path(id ExprID) (*ExprPathData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprPath {
		return nil, false
	}
	return e.Paths.Get(uint32(expr.Payload)), true
}

func (e *Exprs) NewLit(span source.Span, data ExprLitData) ExprID {
	return e.new(ExprLit, span, e.Literals.Allocate(data))
}

func (e *Exprs) Lit(id ExprID) (*ExprLitData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprLit {
		return nil, false
	}
	return e.Literals.Get(uint32(expr.Payload)), true
}

func (e *Exprs) NewGroup(span source.Span, data ExprGroupData) ExprID {
	return e.new(ExprGroup, span, e.Groups.Allocate(data))
}

func (e *Exprs) Group(id ExprID) (*ExprGroupData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprGroup {
		return nil, false
	}
	return e.Groups.Get(uint32(expr.Payload)), true
}

func (e *Exprs) NewTuple(span source.Span, data ExprTupleData) ExprID {
	return e.new(ExprTuple, span, e.Tuples.Allocate(data))
}

func (e *Exprs) Tuple(id ExprID) (*ExprTupleData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprTuple {
		return nil, false
	}
	return e.Tuples.Get(uint32(expr.Payload)), true
}

func (e *Exprs) NewArray(span source.Span, data ExprArrayData) ExprID {
	return e.new(ExprArray, span, e.Arrays.Allocate(data))
}

func (e *Exprs) Array(id ExprID) (*ExprArrayData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprArray {
		return nil, false
	}
	return e.Arrays.Get(uint32(expr.Payload)), true
}

func (e *Exprs) NewCall(span source.Span, data ExprCallData) ExprID {
	return e.new(ExprCall, span, e.Calls.Allocate(data))
}

func (e *Exprs) Call(id ExprID) (*ExprCallData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprCall {
		return nil, false
	}
	return e.Calls.Get(uint32(expr.Payload)), true
}

func (e *Exprs) NewMethodCall(span source.Span, data ExprMethodCallData) ExprID {
	return e.new(ExprMethodCall, span, e.MethodCalls.Allocate(data))
}

func (e *Exprs) MethodCall(id ExprID) (*ExprMethodCallData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprMethodCall {
		return nil, false
	}
	return e.MethodCalls.Get(uint32(expr.Payload)), true
}

func (e *Exprs) NewMacro(span source.Span, data ExprMacroData) ExprID {
	return e.new(ExprMacro, span, e.Macros.Allocate(data))
}

func (e *Exprs) Macro(id ExprID) (*ExprMacroData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprMacro {
		return nil, false
	}
	return e.Macros.Get(uint32(expr.Payload)), true
}

func (e *Exprs) NewField(span source.Span, data ExprFieldData) ExprID {
	return e.new(ExprField, span, e.Fields.Allocate(data))
}

func (e *Exprs) Field(id ExprID) (*ExprFieldData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprField {
		return nil, false
	}
	return e.Fields.Get(uint32(expr.Payload)), true
}

func (e *Exprs) NewIndex(span source.Span, data ExprIndexData) ExprID {
	return e.new(ExprIndex, span, e.Indices.Allocate(data))
}

func (e *Exprs) Index(id ExprID) (*ExprIndexData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprIndex {
		return nil, false
	}
	return e.Indices.Get(uint32(expr.Payload)), true
}

func (e *Exprs) NewUnary(span source.Span, data ExprUnaryData) ExprID {
	return e.new(ExprUnary, span, e.Unaries.Allocate(data))
}

func (e *Exprs) Unary(id ExprID) (*ExprUnaryData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprUnary {
		return nil, false
	}
	return e.Unaries.Get(uint32(expr.Payload)), true
}

func (e *Exprs) NewBinary(span source.Span, data ExprBinaryData) ExprID {
	return e.new(ExprBinary, span, e.Binaries.Allocate(data))
}

func (e *Exprs) Binary(id ExprID) (*ExprBinaryData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprBinary {
		return nil, false
	}
	return e.Binaries.Get(uint32(expr.Payload)), true
}

func (e *Exprs) NewAssign(span source.Span, data ExprAssignData) ExprID {
	return e.new(ExprAssign, span, e.Assigns.Allocate(data))
}

func (e *Exprs) Assign(id ExprID) (*ExprAssignData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprAssign {
		return nil, false
	}
	return e.Assigns.Get(uint32(expr.Payload)), true
}

func (e *Exprs) NewCast(span source.Span, data ExprCastData) ExprID {
	return e.new(ExprCast, span, e.Casts.Allocate(data))
}

func (e *Exprs) Cast(id ExprID) (*ExprCastData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprCast {
		return nil, false
	}
	return e.Casts.Get(uint32(expr.Payload)), true
}

func (e *Exprs) NewBlock(span source.Span, data ExprBlockData) ExprID {
	return e.new(ExprBlock, span, e.Blocks.Allocate(data))
}

func (e *Exprs) Block(id ExprID) (*ExprBlockData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprBlock {
		return nil, false
	}
	return e.Blocks.Get(uint32(expr.Payload)), true
}

func (e *Exprs) NewClosure(span source.Span, data ExprClosureData) ExprID {
	return e.new(ExprClosure, span, e.Closures.Allocate(data))
}

func (e *Exprs) Closure(id ExprID) (*ExprClosureData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprClosure {
		return nil, false
	}
	return e.Closures.Get(uint32(expr.Payload)), true
}

func (e *Exprs) NewStruct(span source.Span, data ExprStructData) ExprID {
	return e.new(ExprStruct, span, e.Structs.Allocate(data))
}

func (e *Exprs) Struct(id ExprID) (*ExprStructData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprStruct {
		return nil, false
	}
	return e.Structs.Get(uint32(expr.Payload)), true
}

func (e *Exprs) NewReturn(span source.Span, data ExprReturnData) ExprID {
	return e.new(ExprReturn, span, e.Returns.Allocate(data))
}

func (e *Exprs) Return(id ExprID) (*ExprReturnData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprReturn {
		return nil, false
	}
	return e.Returns.Get(uint32(expr.Payload)), true
}
