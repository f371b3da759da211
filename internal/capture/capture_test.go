package capture

import (
	"testing"

	"disjoint/internal/source"
	"disjoint/internal/types"
)

func field(i int) Projection { return Projection{Kind: ProjField, Index: i} }

type fixture struct {
	in      *types.Interner
	strPair types.TypeID
	intPair types.TypeID
}

func newFixture() fixture {
	in := types.NewInterner()
	b := in.Builtins()
	return fixture{
		in:      in,
		strPair: in.RegisterTuple([]types.TypeID{b.String, b.String}),
		intPair: in.RegisterTuple([]types.TypeID{b.I32, b.I32}),
	}
}

func vars(specs ...types.TypeID) []Variable {
	names := []string{"t", "t1", "t2", "t3"}
	out := make([]Variable, len(specs))
	for i, ty := range specs {
		out[i] = Variable{ID: VarID(i + 1), Name: names[i], Type: ty, Order: i}
	}
	return out
}

func TestCollectModes(t *testing.T) {
	f := newFixture()
	c := &Closure{
		Vars: vars(f.strPair, f.strPair),
		Uses: []Use{
			{Var: 2, Access: Borrow, Projs: []Projection{field(1)}},
			{Var: 1, Access: Move, Projs: []Projection{field(0)}},
		},
	}
	got := Collect(c, f.in)
	if len(got.Vars) != 2 {
		t.Fatalf("vars = %d", len(got.Vars))
	}
	if got.Vars[0].Var.Name != "t" || got.Vars[0].Mode != ByValue {
		t.Fatalf("t usage = %+v", got.Vars[0])
	}
	if got.Vars[1].Var.Name != "t1" || got.Vars[1].Mode != ByReference {
		t.Fatalf("t1 usage = %+v", got.Vars[1])
	}
}

func TestMoveClosureForcesByValue(t *testing.T) {
	f := newFixture()
	c := &Closure{
		Move: true,
		Vars: vars(f.strPair),
		Uses: []Use{{Var: 1, Access: Borrow, Projs: []Projection{field(1)}}},
	}
	got := Collect(c, f.in)
	if got.Vars[0].Mode != ByValue || got.Vars[0].Paths[0].Mode != ByValue {
		t.Fatalf("move closure usage = %+v", got.Vars[0])
	}
}

func TestPrefixMerge(t *testing.T) {
	f := newFixture()
	b := f.in.Builtins()
	nested := f.in.RegisterTuple([]types.TypeID{f.strPair, b.String})
	c := &Closure{
		Vars: vars(nested),
		Uses: []Use{
			{Var: 1, Access: Move, Projs: []Projection{field(0), field(1)}, Span: source.Span{Start: 10}},
			{Var: 1, Access: Borrow, Projs: []Projection{field(0)}, Span: source.Span{Start: 20}},
			{Var: 1, Access: Borrow, Projs: []Projection{field(1)}, Span: source.Span{Start: 30}},
			{Var: 1, Access: Borrow, Projs: []Projection{field(1)}, Span: source.Span{Start: 40}},
		},
	}
	got := Collect(c, f.in).Vars[0]
	if len(got.Paths) != 2 {
		t.Fatalf("paths = %+v", got.Paths)
	}
	first := got.Paths[0]
	if len(first.Projs) != 1 || first.Projs[0].Index != 0 {
		t.Fatalf("t.0.1 should merge into t.0, got %+v", first)
	}
	if first.Mode != ByValue {
		t.Fatalf("merged path must keep the strongest mode")
	}
	if first.Span.Start != 10 {
		t.Fatalf("merged path span = %d, want earliest", first.Span.Start)
	}
	for i := range got.Paths {
		for j := range got.Paths {
			if i != j && got.Paths[i].IsPrefixOf(got.Paths[j].Path) {
				t.Fatalf("paths not disjoint: %+v", got.Paths)
			}
		}
	}
}

func TestTruncateAtIndirection(t *testing.T) {
	f := newFixture()
	ref := f.in.Intern(types.MakeReference(f.strPair, false))
	boxed := f.in.Intern(types.MakeBox(f.strPair))
	holder := f.in.RegisterTuple([]types.TypeID{ref, f.strPair})
	cases := []struct {
		name    string
		ty      types.TypeID
		projs   []Projection
		wantLen int
		trunc   bool
	}{
		{"plain field", f.strPair, []Projection{field(0)}, 1, false},
		{"through reference", ref, []Projection{field(0)}, 0, true},
		{"through box", boxed, []Projection{field(1)}, 0, true},
		{"reference field", holder, []Projection{field(0), field(1)}, 1, true},
		{"deref", f.strPair, []Projection{{Kind: ProjDeref}}, 0, true},
		{"index", f.strPair, []Projection{field(0), {Kind: ProjIndex}}, 1, true},
		{"out of range kept", f.strPair, []Projection{field(5)}, 1, false},
		{"unknown type kept", f.in.Builtins().Unknown, []Projection{field(0), field(1)}, 2, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := &Closure{
				Vars: vars(tc.ty),
				Uses: []Use{{Var: 1, Access: Move, Projs: tc.projs}},
			}
			p := Collect(c, f.in).Vars[0].Paths[0]
			if len(p.Projs) != tc.wantLen || p.Truncated != tc.trunc {
				t.Fatalf("path = %+v, want len %d truncated %v", p, tc.wantLen, tc.trunc)
			}
		})
	}
}

func TestReduce(t *testing.T) {
	f := newFixture()
	c := &Closure{
		Vars: vars(f.strPair, f.strPair, f.strPair),
		Uses: []Use{
			{Var: 1, Access: Move, Projs: []Projection{field(0)}},
			{Var: 2, Access: Borrow, Projs: []Projection{field(1)}},
			{Var: 3, Access: Move},
		},
	}
	sets := Reduce(Collect(c, f.in))
	if len(sets.Old.Entries) != 3 || len(sets.New.Entries) != 3 {
		t.Fatalf("sets = %+v", sets)
	}
	for i := range sets.Old.Entries {
		if sets.Old.Entries[i].Var.ID != sets.New.Entries[i].Var.ID {
			t.Fatalf("sets are not keyed identically")
		}
	}
	oldT, _ := sets.Old.Lookup(1)
	newT, _ := sets.New.Lookup(1)
	if !oldT.Paths[0].IsWhole() || newT.Paths[0].IsWhole() || oldT.Equal(newT) {
		t.Fatalf("t: old %+v new %+v", oldT, newT)
	}
	oldT1, _ := sets.Old.Lookup(2)
	newT1, _ := sets.New.Lookup(2)
	if !oldT1.Equal(newT1) {
		t.Fatalf("by-ref capture must be identical in both sets")
	}
	oldT2, _ := sets.Old.Lookup(3)
	newT2, _ := sets.New.Lookup(3)
	if !oldT2.Equal(newT2) {
		t.Fatalf("whole-value use must be identical in both sets")
	}
}

func TestPathHelpers(t *testing.T) {
	p := Path{Var: 1, Projs: []Projection{field(0), {Kind: ProjField, Index: 1, Name: "b"}}}
	if got := p.Format("t"); got != "t.0.b" {
		t.Fatalf("Format = %q", got)
	}
	if !p.Prefix(1).IsPrefixOf(p) || p.IsPrefixOf(p.Prefix(1)) {
		t.Fatalf("prefix relation broken")
	}
	if (Path{Var: 2}).IsPrefixOf(p) {
		t.Fatalf("paths of different variables are unrelated")
	}
}
