package migrate

import (
	"strings"
	"testing"

	"disjoint/internal/capture"
	"disjoint/internal/diag"
	"disjoint/internal/dropck"
	"disjoint/internal/source"
	"disjoint/internal/types"
)

type env struct {
	in       *types.Interner
	oracle   *dropck.Oracle
	strPair  types.TypeID
	intPair  types.TypeID
	mixed    types.TypeID // (String, i32)
	plainS   types.TypeID // struct S(i32, i32)
	copyMix  types.TypeID // (i32, String)
	dropNode types.TypeID // struct D(String, i32) with impl Drop
}

func newEnv() *env {
	in := types.NewInterner()
	b := in.Builtins()
	e := &env{in: in}
	e.strPair = in.RegisterTuple([]types.TypeID{b.String, b.String})
	e.intPair = in.RegisterTuple([]types.TypeID{b.I32, b.I32})
	e.mixed = in.RegisterTuple([]types.TypeID{b.String, b.I32})
	e.copyMix = in.RegisterTuple([]types.TypeID{b.I32, b.String})
	e.plainS = in.RegisterStruct("S", source.Span{}, true)
	in.SetStructFields(e.plainS, []types.StructField{{Type: b.I32}, {Type: b.I32}})
	e.dropNode = in.RegisterStruct("D", source.Span{}, true)
	in.SetStructFields(e.dropNode, []types.StructField{{Type: b.String}, {Type: b.I32}})
	in.MarkDrop(e.dropNode, source.Span{})
	e.oracle = dropck.New(in)
	return e
}

type v struct {
	name string
	ty   types.TypeID
}

func closure(move bool, decls []v, uses ...capture.Use) *capture.Closure {
	c := &capture.Closure{
		Move: move,
		Head: source.Span{File: 1, Start: 100, End: 102},
		Stmt: source.Span{File: 1, Start: 92, End: 140},
	}
	for i, d := range decls {
		c.Vars = append(c.Vars, capture.Variable{ID: capture.VarID(i + 1), Name: d.name, Type: d.ty, Order: i})
	}
	c.Uses = uses
	return c
}

func use(id int, access capture.AccessKind, idx ...int) capture.Use {
	u := capture.Use{Var: capture.VarID(id), Access: access}
	for _, i := range idx {
		u.Projs = append(u.Projs, capture.Projection{Kind: capture.ProjField, Index: i})
	}
	return u
}

func analyze(e *env, c *capture.Closure) Result {
	return NewAnalyzer(e.oracle).Analyze(c)
}

func TestScenarios(t *testing.T) {
	e := newEnv()
	cases := []struct {
		name string
		c    *capture.Closure
		want string // empty: no migration
	}{
		{
			name: "all need migration",
			c: closure(false, []v{{"t", e.strPair}, {"t1", e.strPair}, {"t2", e.strPair}},
				use(1, capture.Move, 0), use(2, capture.Move, 0), use(3, capture.Move, 0)),
			want: "let (t, t1, t2) = (t, t1, t2);",
		},
		{
			name: "only precise paths need migration",
			c: closure(false, []v{{"t", e.strPair}, {"t1", e.strPair}, {"t2", e.strPair}},
				use(1, capture.Move, 0), use(2, capture.Move, 0), use(3, capture.Move)),
			want: "let (t, t1) = (t, t1);",
		},
		{
			name: "only by value need migration",
			c: closure(false, []v{{"t", e.strPair}, {"t1", e.strPair}},
				use(1, capture.Move, 0), use(2, capture.Borrow, 1)),
			want: "let (t) = (t);",
		},
		{
			name: "only non copy types need migration",
			c: closure(false, []v{{"t", e.strPair}, {"t1", e.intPair}},
				use(1, capture.Move, 0), use(2, capture.Read, 0)),
			want: "let (t) = (t);",
		},
		{
			name: "only drop types need migration",
			c: closure(false, []v{{"t", e.strPair}, {"s", e.plainS}},
				use(1, capture.Move, 0), use(2, capture.Read, 0)),
			want: "let (t) = (t);",
		},
		{
			name: "move closure orders by declaration",
			c: closure(true, []v{{"t", e.strPair}, {"t1", e.strPair}},
				use(2, capture.Borrow, 1), use(1, capture.Borrow, 1)),
			want: "let (t, t1) = (t, t1);",
		},
		{
			name: "drop and non drop aggregate",
			c:    closure(false, []v{{"t", e.mixed}}, use(1, capture.Move, 0)),
			want: "let (t) = (t);",
		},
		{
			name: "whole variable read",
			c:    closure(false, []v{{"t", e.strPair}}, use(1, capture.Move)),
		},
		{
			name: "move closure over copy-only tuple",
			c:    closure(true, []v{{"t", e.intPair}}, use(1, capture.Read, 0)),
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := analyze(e, tc.c)
			if tc.want == "" {
				if res.NeedsMigration() {
					t.Fatalf("unexpected migration: %+v", res.Records)
				}
				return
			}
			if got := Suggestion(res.Records); got != tc.want {
				t.Fatalf("Suggestion = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestReasons(t *testing.T) {
	e := newEnv()
	// t.0 is a String owned by the closure, t.1 stays behind
	order := analyze(e, closure(false, []v{{"t", e.strPair}}, use(1, capture.Move, 0)))
	if len(order.Records) != 1 || order.Records[0].Reason != DropOrderChanged {
		t.Fatalf("records = %+v", order.Records)
	}
	// move closure owns only the Copy i32; the String is left behind
	presence := analyze(e, closure(true, []v{{"t", e.copyMix}}, use(1, capture.Read, 0)))
	if len(presence.Records) != 1 || presence.Records[0].Reason != DropPresenceChanged {
		t.Fatalf("records = %+v", presence.Records)
	}
	// partially owned destructor-bearing struct
	dropped := analyze(e, closure(true, []v{{"d", e.dropNode}}, use(1, capture.Read, 1)))
	if len(dropped.Records) != 1 || dropped.Records[0].Reason != DropPresenceChanged {
		t.Fatalf("records = %+v", dropped.Records)
	}
}

func TestReferenceCaptureNeverMigrates(t *testing.T) {
	e := newEnv()
	for _, access := range []capture.AccessKind{capture.Read, capture.Borrow, capture.MutBorrow} {
		res := analyze(e, closure(false, []v{{"t", e.strPair}, {"t1", e.mixed}},
			use(1, access, 0), use(2, access, 1), use(1, access, 1)))
		if res.NeedsMigration() {
			t.Fatalf("%v capture migrated: %+v", access, res.Records)
		}
	}
}

func TestNoDropTypeNeverMigrates(t *testing.T) {
	e := newEnv()
	nested := e.in.RegisterTuple([]types.TypeID{e.intPair, e.plainS})
	for _, c := range []*capture.Closure{
		closure(true, []v{{"a", e.intPair}}, use(1, capture.Read, 1)),
		closure(true, []v{{"s", e.plainS}}, use(1, capture.Read, 0)),
		closure(false, []v{{"n", nested}}, use(1, capture.Move, 0, 1)),
		closure(true, []v{{"n", nested}}, use(1, capture.Read, 1, 0)),
	} {
		if res := analyze(e, c); res.NeedsMigration() {
			t.Fatalf("no-drop type migrated: %+v", res.Records)
		}
	}
}

func TestUnknownTypeMigratesConservatively(t *testing.T) {
	e := newEnv()
	unknown := e.in.Builtins().Unknown
	res := analyze(e, closure(false, []v{{"t", unknown}, {"u", e.intPair}},
		use(1, capture.Move, 0), use(2, capture.Read, 0)))
	if len(res.Records) != 1 || res.Records[0].Var.Name != "t" {
		t.Fatalf("records = %+v, new = %+v", res.Records, res.Sets.New.Entries)
	}
	if res.Records[0].Reason != DropOrderChanged {
		t.Errorf("reason = %s", res.Records[0].Reason)
	}
	if got := Suggestion(res.Records); got != "let (t) = (t);" {
		t.Errorf("suggestion = %q", got)
	}
	if p := res.Sets.New.Entries[0].Paths[0]; len(p.Projs) != 1 || p.Truncated {
		t.Errorf("unknown-typed path = %+v", p)
	}
}

func TestDeterministic(t *testing.T) {
	e := newEnv()
	build := func() *capture.Closure {
		return closure(true, []v{{"a", e.strPair}, {"b", e.mixed}, {"c", e.intPair}, {"d", e.strPair}},
			use(4, capture.Borrow, 0), use(2, capture.Move, 0), use(1, capture.Borrow, 1), use(3, capture.Read, 0))
	}
	first := analyze(e, build())
	for i := 0; i < 20; i++ {
		again := analyze(e, build())
		if Suggestion(again.Records) != Suggestion(first.Records) || len(again.Records) != len(first.Records) {
			t.Fatalf("run %d differs", i)
		}
		for j := range again.Records {
			if again.Records[j].Reason != first.Records[j].Reason {
				t.Fatalf("reason differs on run %d", i)
			}
		}
	}
	if got := Suggestion(first.Records); got != "let (a, b, d) = (a, b, d);" {
		t.Fatalf("Suggestion = %q", got)
	}
}

func TestSuggestionDeduplicates(t *testing.T) {
	a := capture.Variable{ID: 1, Name: "a", Order: 1}
	b := capture.Variable{ID: 2, Name: "b", Order: 0}
	got := Suggestion([]Record{{Var: a}, {Var: b}, {Var: a}})
	if got != "let (b, a) = (b, a);" {
		t.Fatalf("Suggestion = %q", got)
	}
}

func TestReportEmitsOneDiagnostic(t *testing.T) {
	e := newEnv()
	c := closure(false, []v{{"t", e.strPair}}, use(1, capture.Move, 0))
	c.Indent = "    "
	res := analyze(e, c)

	bag := diag.NewBag(10)
	rep := &diag.BagReporter{Bag: bag}
	level := source.Span{File: 1, Start: 0, End: 10}
	if !Report(rep, c, res.Records, ReportOptions{Severity: diag.SevError, LevelSpan: level, WithFix: true}) {
		t.Fatalf("nothing reported")
	}
	if bag.Len() != 1 {
		t.Fatalf("bag len = %d", bag.Len())
	}
	d := bag.Items()[0]
	if d.Code != diag.LintDisjointCaptureDropReorder || d.Message != Message || d.Primary != c.Head {
		t.Fatalf("diagnostic = %+v", d)
	}
	if len(d.Notes) != 3 || d.Notes[0].Msg != LintLevelNote || d.Notes[1].Msg != "let (t) = (t);" {
		t.Fatalf("notes = %+v", d.Notes)
	}
	if !strings.HasPrefix(d.Notes[2].Msg, "help: ") {
		t.Fatalf("help note = %q", d.Notes[2].Msg)
	}
	if len(d.Fixes) != 1 || d.Fixes[0].Edits[0].NewText != "let (t) = (t);\n    " || d.Fixes[0].Edits[0].Span.Start != c.Stmt.Start {
		t.Fatalf("fix = %+v", d.Fixes)
	}

	if Report(rep, c, nil, ReportOptions{}) || bag.Len() != 1 {
		t.Fatalf("empty record list must not report")
	}
}
