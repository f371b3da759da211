package dropck

import (
	"sync"
	"testing"

	"disjoint/internal/source"
	"disjoint/internal/types"
)

func TestSignificanceRules(t *testing.T) {
	in := types.NewInterner()
	b := in.Builtins()
	strPair := in.RegisterTuple([]types.TypeID{b.String, b.String})
	intPair := in.RegisterTuple([]types.TypeID{b.I32, b.I32})
	mixed := in.RegisterTuple([]types.TypeID{b.String, b.I32})

	plain := in.RegisterStruct("S", source.Span{}, true)
	in.SetStructFields(plain, []types.StructField{{Type: b.I32}, {Type: b.I32}})

	withDrop := in.RegisterStruct("D", source.Span{}, true)
	in.SetStructFields(withDrop, []types.StructField{{Type: b.I32}})
	in.MarkDrop(withDrop, source.Span{})

	holder := in.RegisterStruct("H", source.Span{}, false)
	in.SetStructFields(holder, []types.StructField{{Name: "d", Type: withDrop}})

	cases := []struct {
		name string
		id   types.TypeID
		want Significance
	}{
		{"String", b.String, Direct},
		{"i32", b.I32, None},
		{"unit", b.Unit, None},
		{"(String, String)", strPair, Nested},
		{"(i32, i32)", intPair, None},
		{"(String, i32)", mixed, Nested},
		{"plain struct", plain, None},
		{"impl Drop struct", withDrop, Direct},
		{"struct holding Drop", holder, Nested},
		{"&String", in.Intern(types.MakeReference(b.String, false)), None},
		{"*mut String", in.Intern(types.MakePointer(b.String, true)), None},
		{"Box<i32>", in.Intern(types.MakeBox(b.I32)), Direct},
		{"Vec<i32>", in.Intern(types.MakeVec(b.I32)), Direct},
		{"[String; 2]", in.Intern(types.MakeArray(b.String, 2)), Nested},
		{"[String; 0]", in.Intern(types.MakeArray(b.String, 0)), None},
		{"[i32; 3]", in.Intern(types.MakeArray(b.I32, 3)), None},
		{"unknown", b.Unknown, Nested},
		{"closure", b.Closure, Nested},
		{"no type", types.NoTypeID, Nested},
	}
	o := New(in)
	for _, tc := range cases {
		if got := o.Significance(tc.id); got != tc.want {
			t.Errorf("%s: Significance = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestSignificanceTerminatesOnCycles(t *testing.T) {
	in := types.NewInterner()
	b := in.Builtins()
	// struct A { b: B }  struct B { a: A, n: i32 }
	a := in.RegisterStruct("A", source.Span{}, false)
	bb := in.RegisterStruct("B", source.Span{}, false)
	in.SetStructFields(a, []types.StructField{{Name: "b", Type: bb}})
	in.SetStructFields(bb, []types.StructField{{Name: "a", Type: a}, {Name: "n", Type: b.I32}})

	o := New(in)
	if got := o.Significance(a); got != Nested {
		t.Fatalf("A = %v, want nested", got)
	}
	if got := o.Significance(bb); got != Nested {
		t.Fatalf("B = %v, want nested", got)
	}
	if o.IsCopy(a) {
		t.Fatalf("cyclic type must not be Copy")
	}
}

func TestIsCopy(t *testing.T) {
	in := types.NewInterner()
	b := in.Builtins()
	derived := in.RegisterStruct("P", source.Span{}, true)
	in.SetStructFields(derived, []types.StructField{{Type: b.I32}, {Type: b.Char}})
	in.MarkCopy(derived)
	notDerived := in.RegisterStruct("S", source.Span{}, true)
	in.SetStructFields(notDerived, []types.StructField{{Type: b.I32}})

	cases := []struct {
		name string
		id   types.TypeID
		want bool
	}{
		{"i32", b.I32, true},
		{"String", b.String, false},
		{"(i32, i32)", in.RegisterTuple([]types.TypeID{b.I32, b.I32}), true},
		{"(String, i32)", in.RegisterTuple([]types.TypeID{b.String, b.I32}), false},
		{"&String", in.Intern(types.MakeReference(b.String, false)), true},
		{"&mut i32", in.Intern(types.MakeReference(b.I32, true)), false},
		{"derive(Copy)", derived, true},
		{"no derive", notDerived, false},
		{"[i32; 2]", in.Intern(types.MakeArray(b.I32, 2)), true},
		{"unknown", b.Unknown, false},
	}
	o := New(in)
	for _, tc := range cases {
		if got := o.IsCopy(tc.id); got != tc.want {
			t.Errorf("%s: IsCopy = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestConcurrentQueriesAgree(t *testing.T) {
	in := types.NewInterner()
	b := in.Builtins()
	var ids []types.TypeID
	for i := 0; i < 32; i++ {
		elems := []types.TypeID{b.I32}
		if i%2 == 0 {
			elems = append(elems, b.String)
		}
		for j := 0; j < i%5; j++ {
			elems = append(elems, b.Char)
		}
		ids = append(ids, in.RegisterTuple(elems))
	}
	o := New(in)

	var wg sync.WaitGroup
	results := make([][]Significance, 8)
	for w := range results {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			out := make([]Significance, len(ids))
			for i := range ids {
				id := ids[(i+w)%len(ids)]
				out[(i+w)%len(ids)] = o.Significance(id)
			}
			results[w] = out
		}(w)
	}
	wg.Wait()
	for w := 1; w < len(results); w++ {
		for i := range ids {
			if results[w][i] != results[0][i] {
				t.Fatalf("worker %d disagrees on %d: %v vs %v", w, i, results[w][i], results[0][i])
			}
		}
	}
	if o.Cached() == 0 {
		t.Fatalf("memo table is empty")
	}
}

func TestJoinAndNest(t *testing.T) {
	if Join(None, Nested) != Nested || Join(Direct, Nested) != Direct || Join(None, None) != None {
		t.Fatalf("Join table broken")
	}
	if Nest(Direct) != Nested || Nest(None) != None {
		t.Fatalf("Nest table broken")
	}
	if None.Significant() || !Direct.Significant() || !Nested.Significant() {
		t.Fatalf("Significant table broken")
	}
}
