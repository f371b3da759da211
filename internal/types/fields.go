package types

// Fields returns the component types of an aggregate in declaration order:
// tuple elements or struct fields. Other kinds have no fields.
func (in *Interner) Fields(id TypeID) []TypeID {
	tt, ok := in.Lookup(id)
	if !ok {
		return nil
	}
	switch tt.Kind {
	case KindTuple:
		if info, ok := in.TupleInfo(id); ok {
			return info.Elems
		}
	case KindStruct:
		if info, ok := in.StructInfo(id); ok {
			out := make([]TypeID, len(info.Fields))
			for i, f := range info.Fields {
				out[i] = f.Type
			}
			return out
		}
	}
	return nil
}

// FieldType returns the type of field idx of a tuple or struct.
func (in *Interner) FieldType(id TypeID, idx int) (TypeID, bool) {
	fields := in.Fields(id)
	if idx < 0 || idx >= len(fields) {
		return NoTypeID, false
	}
	return fields[idx], true
}

// FieldIndex resolves a named struct field to its position.
func (in *Interner) FieldIndex(id TypeID, name string) (int, bool) {
	info, ok := in.StructInfo(id)
	if !ok {
		return -1, false
	}
	for i, f := range info.Fields {
		if f.Name == name {
			return i, true
		}
	}
	return -1, false
}

// Elem returns the pointee/element type of references, pointers, Box, Vec
// and arrays.
func (in *Interner) Elem(id TypeID) (TypeID, bool) {
	tt, ok := in.Lookup(id)
	if !ok {
		return NoTypeID, false
	}
	switch tt.Kind {
	case KindReference, KindPointer, KindBox, KindVec, KindArray:
		return tt.Elem, tt.Elem != NoTypeID
	}
	return NoTypeID, false
}
