package types

import (
	"testing"

	"disjoint/internal/source"
)

func TestInternIsStructural(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	r1 := in.Intern(MakeReference(b.String, false))
	r2 := in.Intern(MakeReference(b.String, false))
	if r1 != r2 {
		t.Fatalf("same descriptor interned twice: %d vs %d", r1, r2)
	}
	if rm := in.Intern(MakeReference(b.String, true)); rm == r1 {
		t.Fatalf("&mut and & must differ")
	}
	if in.Intern(Type{Kind: KindInvalid}) != NoTypeID {
		t.Fatalf("invalid must map to NoTypeID")
	}
}

func TestTuplesAreDeduplicated(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	t1 := in.RegisterTuple([]TypeID{b.String, b.I32})
	t2 := in.RegisterTuple([]TypeID{b.String, b.I32})
	if t1 != t2 {
		t.Fatalf("tuple not deduplicated")
	}
	if in.RegisterTuple(nil) != b.Unit {
		t.Fatalf("empty tuple must be unit")
	}
	if got := in.Fields(t1); len(got) != 2 || got[0] != b.String {
		t.Fatalf("Fields = %v", got)
	}
}

func TestStructMetadata(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	s := in.RegisterStruct("S", source.Span{}, false)
	in.SetStructFields(s, []StructField{{Name: "a", Type: b.String}, {Name: "b", Type: b.I32}})
	in.MarkDrop(s, source.Span{Start: 3, End: 9})

	info, ok := in.StructInfo(s)
	if !ok || !info.HasDrop || info.Copy {
		t.Fatalf("info = %+v", info)
	}
	if idx, ok := in.FieldIndex(s, "b"); !ok || idx != 1 {
		t.Fatalf("FieldIndex(b) = %d, %v", idx, ok)
	}
	if ft, ok := in.FieldType(s, 0); !ok || ft != b.String {
		t.Fatalf("FieldType(0) = %d", ft)
	}
	if _, ok := in.FieldType(s, 2); ok {
		t.Fatalf("out of range field accepted")
	}
	// self-reference through Box is representable
	boxed := in.Intern(MakeBox(s))
	in.SetStructFields(s, []StructField{{Name: "next", Type: boxed}})
	if elem, ok := in.Elem(boxed); !ok || elem != s {
		t.Fatalf("Elem(Box<S>) = %d", elem)
	}
}

func TestLabel(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	tup := in.RegisterTuple([]TypeID{b.String, in.Intern(MakeUint(WidthAny))})
	cases := []struct {
		id   TypeID
		want string
	}{
		{tup, "(String, usize)"},
		{in.Intern(MakeReference(tup, true)), "&mut (String, usize)"},
		{in.Intern(MakeArray(b.I32, 4)), "[i32; 4]"},
		{in.Intern(MakeVec(in.Intern(MakeBox(b.Str)))), "Vec<Box<str>>"},
		{in.RegisterTuple([]TypeID{b.Char}), "(char,)"},
		{NoTypeID, "?"},
	}
	for _, tc := range cases {
		if got := Label(in, tc.id); got != tc.want {
			t.Errorf("Label = %q, want %q", got, tc.want)
		}
	}
}
