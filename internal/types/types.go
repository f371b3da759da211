package types

import "fmt"

// TypeID uniquely identifies a type inside the interner.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Kind enumerates all supported kinds of types.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindUnknown      // unresolved name or generic parameter
	KindUnit
	KindBool
	KindChar
	KindInt
	KindUint
	KindFloat
	KindStr    // unsized str, only seen behind a reference
	KindString // std String
	KindTuple
	KindStruct
	KindArray
	KindReference
	KindPointer
	KindBox
	KindVec
	KindFn
	KindClosure
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindUnknown:
		return "unknown"
	case KindUnit:
		return "unit"
	case KindBool:
		return "bool"
	case KindChar:
		return "char"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindFloat:
		return "float"
	case KindStr:
		return "str"
	case KindString:
		return "String"
	case KindTuple:
		return "tuple"
	case KindStruct:
		return "struct"
	case KindArray:
		return "array"
	case KindReference:
		return "reference"
	case KindPointer:
		return "pointer"
	case KindBox:
		return "Box"
	case KindVec:
		return "Vec"
	case KindFn:
		return "fn"
	case KindClosure:
		return "closure"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Width captures the precision of integers/floats; WidthAny is the
// pointer-sized isize/usize.
type Width uint8

const (
	WidthAny Width = 0
	Width8   Width = 8
	Width16  Width = 16
	Width32  Width = 32
	Width64  Width = 64
	Width128 Width = 128
)

// ArrayDynamicLength marks slices with unknown compile-time length.
const ArrayDynamicLength = ^uint32(0)

// Type is a compact descriptor for any supported type.
type Type struct {
	Kind    Kind
	Elem    TypeID
	Count   uint32 // arrays; ArrayDynamicLength means slice
	Width   Width  // numeric primitives
	Mutable bool   // references and pointers
	Payload uint32 // index into struct/tuple side tables
}

func MakeInt(width Width) Type {
	return Type{Kind: KindInt, Width: width}
}

func MakeUint(width Width) Type {
	return Type{Kind: KindUint, Width: width}
}

func MakeFloat(width Width) Type {
	return Type{Kind: KindFloat, Width: width}
}

// MakeArray describes [T; count]; use ArrayDynamicLength for [T].
func MakeArray(elem TypeID, count uint32) Type {
	return Type{Kind: KindArray, Elem: elem, Count: count}
}

// MakePointer describes *const T or *mut T.
func MakePointer(elem TypeID, mutable bool) Type {
	return Type{Kind: KindPointer, Elem: elem, Mutable: mutable}
}

// MakeReference describes &T or &mut T depending on the mutable flag.
func MakeReference(elem TypeID, mutable bool) Type {
	return Type{Kind: KindReference, Elem: elem, Mutable: mutable}
}

func MakeBox(elem TypeID) Type {
	return Type{Kind: KindBox, Elem: elem}
}

func MakeVec(elem TypeID) Type {
	return Type{Kind: KindVec, Elem: elem}
}

// IsIndirection reports whether a projection through a value of this kind
// leaves the value's own storage.
func (t Type) IsIndirection() bool {
	switch t.Kind {
	case KindReference, KindPointer, KindBox, KindVec:
		return true
	default:
		return false
	}
}
