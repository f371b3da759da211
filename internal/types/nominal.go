package types

import (
	"fmt"
	"slices"

	"fortio.org/safecast"

	"disjoint/internal/source"
)

// StructField describes a single field inside a nominal struct type. Tuple
// structs use empty names.
type StructField struct {
	Name string
	Type TypeID
}

// StructInfo stores metadata for a struct type.
type StructInfo struct {
	Name     string
	Decl     source.Span
	Fields   []StructField
	Tuple    bool
	HasDrop  bool        // an `impl Drop` exists for the type
	DropDecl source.Span // span of that impl
	Copy     bool        // #[derive(Copy)]
}

// RegisterStruct allocates a nominal struct type slot and returns its TypeID.
func (in *Interner) RegisterStruct(name string, decl source.Span, tuple bool) TypeID {
	in.structs = append(in.structs, StructInfo{Name: name, Decl: decl, Tuple: tuple})
	slot, err := safecast.Conv[uint32](len(in.structs) - 1)
	if err != nil {
		panic(fmt.Errorf("struct info overflow: %w", err))
	}
	return in.internRaw(Type{Kind: KindStruct, Payload: slot})
}

// SetStructFields stores the resolved field descriptors for the struct type.
func (in *Interner) SetStructFields(id TypeID, fields []StructField) {
	if info := in.structInfo(id); info != nil {
		info.Fields = slices.Clone(fields)
	}
}

// MarkDrop records a user-defined destructor for the struct type.
func (in *Interner) MarkDrop(id TypeID, decl source.Span) {
	if info := in.structInfo(id); info != nil {
		info.HasDrop = true
		info.DropDecl = decl
	}
}

// MarkCopy records that the struct type derives Copy.
func (in *Interner) MarkCopy(id TypeID) {
	if info := in.structInfo(id); info != nil {
		info.Copy = true
	}
}

// StructInfo returns metadata for the provided struct TypeID.
func (in *Interner) StructInfo(id TypeID) (*StructInfo, bool) {
	info := in.structInfo(id)
	return info, info != nil
}

func (in *Interner) structInfo(id TypeID) *StructInfo {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindStruct {
		return nil
	}
	if tt.Payload == 0 || int(tt.Payload) >= len(in.structs) {
		return nil
	}
	return &in.structs[tt.Payload]
}
