package types

import (
	"strconv"
	"strings"
)

// Label returns a user-friendly, Rust-like label for a TypeID.
func Label(typesIn *Interner, id TypeID) string {
	return labelDepth(typesIn, id, 0)
}

func labelDepth(typesIn *Interner, id TypeID, depth int) string {
	if id == NoTypeID || typesIn == nil {
		return "?"
	}
	if depth > 6 {
		return "..."
	}
	tt, ok := typesIn.Lookup(id)
	if !ok {
		return "?"
	}
	switch tt.Kind {
	case KindUnknown:
		return "_"
	case KindUnit:
		return "()"
	case KindBool:
		return "bool"
	case KindChar:
		return "char"
	case KindInt:
		return intLabel("i", tt.Width)
	case KindUint:
		return intLabel("u", tt.Width)
	case KindFloat:
		if tt.Width == Width32 {
			return "f32"
		}
		return "f64"
	case KindStr:
		return "str"
	case KindString:
		return "String"
	case KindReference:
		if tt.Mutable {
			return "&mut " + labelDepth(typesIn, tt.Elem, depth+1)
		}
		return "&" + labelDepth(typesIn, tt.Elem, depth+1)
	case KindPointer:
		if tt.Mutable {
			return "*mut " + labelDepth(typesIn, tt.Elem, depth+1)
		}
		return "*const " + labelDepth(typesIn, tt.Elem, depth+1)
	case KindBox:
		return "Box<" + labelDepth(typesIn, tt.Elem, depth+1) + ">"
	case KindVec:
		return "Vec<" + labelDepth(typesIn, tt.Elem, depth+1) + ">"
	case KindArray:
		elem := labelDepth(typesIn, tt.Elem, depth+1)
		if tt.Count == ArrayDynamicLength {
			return "[" + elem + "]"
		}
		return "[" + elem + "; " + strconv.FormatUint(uint64(tt.Count), 10) + "]"
	case KindTuple:
		info, ok := typesIn.TupleInfo(id)
		if !ok {
			return "(?)"
		}
		parts := make([]string, len(info.Elems))
		for i, e := range info.Elems {
			parts[i] = labelDepth(typesIn, e, depth+1)
		}
		if len(parts) == 1 {
			return "(" + parts[0] + ",)"
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case KindStruct:
		if info, ok := typesIn.StructInfo(id); ok {
			return info.Name
		}
		return "struct"
	case KindFn:
		return "fn"
	case KindClosure:
		return "closure"
	}
	return tt.Kind.String()
}

func intLabel(prefix string, w Width) string {
	if w == WidthAny {
		return prefix + "size"
	}
	return prefix + strconv.Itoa(int(w))
}
