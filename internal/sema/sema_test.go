package sema_test

import (
	"strings"
	"testing"

	"disjoint/internal/ast"
	"disjoint/internal/capture"
	"disjoint/internal/diag"
	"disjoint/internal/lexer"
	"disjoint/internal/migrate"
	"disjoint/internal/parser"
	"disjoint/internal/sema"
	"disjoint/internal/source"
	"disjoint/internal/types"
)

type checked struct {
	fs  *source.FileSet
	res sema.Result
	bag *diag.Bag
}

func check(t *testing.T, src string) checked {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.rs", []byte(src))
	bag := diag.NewBag(100)
	rep := &diag.BagReporter{Bag: bag}
	lx := lexer.New(fs.Get(id), lexer.Options{Reporter: rep})
	b := ast.NewBuilder(ast.Hints{})
	pr := parser.ParseFile(lx, b, parser.Options{Reporter: rep})
	res := sema.Check(b, pr.File, sema.Options{Reporter: rep, File: fs.Get(id), Level: sema.LevelWarn})
	return checked{fs: fs, res: res, bag: bag}
}

func mustCheck(t *testing.T, src string) checked {
	t.Helper()
	c := check(t, src)
	for _, d := range c.bag.Items() {
		t.Errorf("unexpected %s: %s", d.Code.ID(), d.Message)
	}
	return c
}

func (c checked) closure(t *testing.T, idx int) *capture.Closure {
	t.Helper()
	if idx >= len(c.res.Closures) {
		t.Fatalf("want closure %d, have %d", idx, len(c.res.Closures))
	}
	return c.res.Closures[idx].Closure
}

func uses(c *capture.Closure) []string {
	out := make([]string, 0, len(c.Uses))
	for _, u := range c.Uses {
		v, _ := c.Var(u.Var)
		out = append(out, u.Access.String()+" "+capture.Path{Var: u.Var, Projs: u.Projs}.Format(v.Name))
	}
	return out
}

func wantUses(t *testing.T, c *capture.Closure, want ...string) {
	t.Helper()
	got := uses(c)
	if strings.Join(got, "; ") != strings.Join(want, "; ") {
		t.Fatalf("uses = %q, want %q", got, want)
	}
}

func TestClosureUsesOfTupleFields(t *testing.T) {
	src := `fn test1() {
    let t = (String::new(), String::new());
    let c = || {
        let _t = t.0;
        println!("{}", t.1);
    };
    c();
}
`
	c := mustCheck(t, src)
	if len(c.res.Closures) != 1 {
		t.Fatalf("closures = %d", len(c.res.Closures))
	}
	cl := c.closure(t, 0)
	wantUses(t, cl, "move t.0", "borrow t.1")

	if len(cl.Vars) != 1 || cl.Vars[0].Name != "t" {
		t.Fatalf("vars = %+v", cl.Vars)
	}
	in := c.res.Types
	pair := in.RegisterTuple([]types.TypeID{in.Builtins().String, in.Builtins().String})
	if cl.Vars[0].Type != pair {
		t.Fatalf("t: %s", types.Label(in, cl.Vars[0].Type))
	}
	if cl.Fn != "test1" || cl.Move {
		t.Fatalf("closure meta = %+v", cl)
	}
	if got := c.fs.Text(cl.Head); got != "||" {
		t.Fatalf("head = %q", got)
	}
	if got := c.fs.Text(cl.Stmt); !strings.HasPrefix(got, "let c = ||") {
		t.Fatalf("stmt = %q", got)
	}
	if cl.Indent != "    " {
		t.Fatalf("indent = %q", cl.Indent)
	}
}

func TestLetWildcardIsNotAUse(t *testing.T) {
	src := `fn f() {
    let t = (String::new(), String::new());
    let c = || {
        let _ = t;
        let _ = t.0;
    };
}
`
	wantUses(t, mustCheck(t, src).closure(t, 0))
}

func TestCopyPlacesAreRead(t *testing.T) {
	src := `fn f() {
    let t = (0i32, 1u8, String::new());
    let c = || {
        let _a = t.0;
        let _b = t.1;
        t.2;
    };
}
`
	wantUses(t, mustCheck(t, src).closure(t, 0), "read t.0", "read t.1", "move t.2")
}

func TestClosureLocalsShadowOuterBindings(t *testing.T) {
	src := `fn f() {
    let t = String::new();
    let c = |t: i32| {
        let u = t;
        let s = String::new();
        let _x = s;
    };
}
`
	cl := mustCheck(t, src).closure(t, 0)
	wantUses(t, cl)
	if len(cl.Vars) != 0 {
		t.Fatalf("vars = %+v", cl.Vars)
	}
}

func TestMoveClosureHead(t *testing.T) {
	src := `fn f() {
    let t = (String::new(), String::new());
    let c = move || {
        println!("{}", t.0);
    };
}
`
	c := mustCheck(t, src)
	cl := c.closure(t, 0)
	if !cl.Move || c.fs.Text(cl.Head) != "move" {
		t.Fatalf("head = %q move=%v", c.fs.Text(cl.Head), cl.Move)
	}
	wantUses(t, cl, "borrow t.0")
}

func TestNestedClosureUsesPropagate(t *testing.T) {
	src := `fn f() {
    let t = (String::new(), String::new());
    let u = (String::new(), String::new());
    let outer = || {
        let inner = move || {
            let _x = t.0;
        };
        let peek = || println!("{}", u.1);
    };
}
`
	c := mustCheck(t, src)
	if len(c.res.Closures) != 3 {
		t.Fatalf("closures = %d", len(c.res.Closures))
	}
	outer := c.closure(t, 0)
	wantUses(t, outer, "move t.0", "borrow u.1")
	wantUses(t, c.closure(t, 1), "move t.0")
	wantUses(t, c.closure(t, 2), "borrow u.1")
	if len(outer.Vars) != 2 || outer.Vars[0].Name != "t" || outer.Vars[1].Name != "u" {
		t.Fatalf("outer vars = %+v", outer.Vars)
	}
}

func TestMethodReceiversAndAssignments(t *testing.T) {
	src := `fn f() {
    let mut t = (String::new(), String::new(), Vec::new(), String::new());
    let c = || {
        let _n = t.0.len();
        let _b = t.1.into_bytes();
        t.2.push(1);
        t.3 = String::from("x");
        let r = &mut t.0;
    };
}
`
	wantUses(t, mustCheck(t, src).closure(t, 0),
		"borrow t.0", "move t.1", "mut-borrow t.2", "mut-borrow t.3", "mut-borrow t.0")
}

func TestUserMethodsUseSelfKind(t *testing.T) {
	src := `struct S { a: String, b: String }
impl S {
    fn take(self) -> String { self.a }
    fn peek(&self) -> usize { 0 }
    fn poke(&mut self) {}
}
fn f() {
    let s = S { a: String::new(), b: String::new() };
    let x = (S::new(), String::new());
    let c = || {
        s.peek();
        x.0.poke();
        let _v = x.0.take();
    };
}
`
	c := mustCheck(t, src)
	cl := c.closure(t, 0)
	wantUses(t, cl, "borrow s", "mut-borrow x.0", "move x.0")
	in := c.res.Types
	if got := types.Label(in, cl.Vars[1].Type); got != "(S, String)" {
		t.Fatalf("x: %s", got)
	}
}

func TestFieldThroughReferenceRecordsDeref(t *testing.T) {
	src := `fn f() {
    let t = (String::new(), String::new());
    let r = &t;
    let b = Box::new((String::new(), 0));
    let c = || {
        println!("{}", r.0);
        let _n = b.1;
    };
}
`
	wantUses(t, mustCheck(t, src).closure(t, 0), "borrow r.*.0", "read b.*.1")
}

func TestLetTypes(t *testing.T) {
	src := `struct P(i32, i32);
fn make() -> String { String::new() }
fn f() {
    let a: (String, i32) = (String::new(), 1);
    let b = vec![String::new()];
    let c = Box::new(P(1, 2));
    let d = "x".to_string();
    let e = [0u8; 4];
    let g = make();
    let h = &a;
    let k = || {
        let _x = a.1;
        let _y = (b, c, d, e, g, h);
    };
}
`
	c := mustCheck(t, src)
	cl := c.closure(t, 0)
	want := map[string]string{
		"a": "(String, i32)",
		"b": "Vec<String>",
		"c": "Box<P>",
		"d": "String",
		"e": "[u8; 4]",
		"g": "String",
		"h": "&(String, i32)",
	}
	for _, v := range cl.Vars {
		if got := types.Label(c.res.Types, v.Type); got != want[v.Name] {
			t.Errorf("%s: %s, want %s", v.Name, got, want[v.Name])
		}
	}
	if len(cl.Vars) != len(want) {
		t.Fatalf("vars = %d", len(cl.Vars))
	}
}

func TestStructDropAndCopyMarkers(t *testing.T) {
	src := `struct Foo(i32);
impl Drop for Foo {
    fn drop(&mut self) {}
}
#[derive(Clone, Copy)]
struct P { x: i32 }
fn f() {
    struct Local(String);
    impl Drop for Local { fn drop(&mut self) {} }
    let l = (Local(String::new()), P { x: 1 });
    let c = || { let _p = l.1; let _q = l.0; };
}
`
	c := mustCheck(t, src)
	cl := c.closure(t, 0)
	wantUses(t, cl, "read l.1", "move l.0")
	in := c.res.Types
	fields := in.Fields(cl.Vars[0].Type)
	local, _ := in.StructInfo(fields[0])
	p, _ := in.StructInfo(fields[1])
	if local == nil || !local.HasDrop || local.Name != "Local" {
		t.Fatalf("Local = %+v", local)
	}
	if p == nil || !p.Copy || p.HasDrop {
		t.Fatalf("P = %+v", p)
	}
}

func TestLintLevels(t *testing.T) {
	src := `#![deny(rust_2021_incompatible_closure_captures)]
fn a() { let c = || {}; }
#[allow(disjoint_capture_drop_reorder)]
fn b() { let c = || {}; }
#[warn(disjoint_capture_drop_reordr)]
fn d() { let c = || {}; }
`
	c := check(t, src)
	if len(c.res.Closures) != 3 {
		t.Fatalf("closures = %d", len(c.res.Closures))
	}
	a, b, d := c.res.Closures[0].Lint, c.res.Closures[1].Lint, c.res.Closures[2].Lint
	if a.Level != sema.LevelDeny || c.fs.Text(a.Source) != "rust_2021_incompatible_closure_captures" {
		t.Fatalf("a = %+v %q", a, c.fs.Text(a.Source))
	}
	if b.Level != sema.LevelAllow || c.fs.Text(b.Source) != "disjoint_capture_drop_reorder" {
		t.Fatalf("b = %+v", b)
	}
	if d.Level != sema.LevelDeny {
		t.Fatalf("typo must not change the level: %+v", d)
	}
	items := c.bag.Items()
	if len(items) != 1 || items[0].Code != diag.SemaUnknownLintName || items[0].Severity != diag.SevWarning {
		t.Fatalf("diags = %+v", items)
	}
}

func TestDefaultLevelWithoutAttributes(t *testing.T) {
	c := mustCheck(t, "fn a() { let c = || {}; }\n")
	l := c.res.Closures[0].Lint
	if l.Level != sema.LevelWarn || !l.Source.Empty() {
		t.Fatalf("lint = %+v", l)
	}
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]sema.Level{
		"allow": sema.LevelAllow, "warn": sema.LevelWarn, "deny": sema.LevelDeny, "forbid": sema.LevelDeny, " Deny ": sema.LevelDeny,
	} {
		if got, ok := sema.ParseLevel(in); !ok || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v", in, got, ok)
		}
	}
	if _, ok := sema.ParseLevel("loud"); ok {
		t.Fatal("loud accepted")
	}
	if sev, ok := sema.LevelDeny.Severity(); !ok || sev != diag.SevError {
		t.Fatal("deny severity")
	}
	if _, ok := sema.LevelAllow.Severity(); ok {
		t.Fatal("allow has a severity")
	}
}

func TestUnknownFieldAndDuplicateType(t *testing.T) {
	src := `struct S(i32);
struct S(u8);
fn f() {
    let t = (String::new(),);
    let c = || { let _x = t.3; };
}
`
	c := check(t, src)
	var codes []diag.Code
	for _, d := range c.bag.Items() {
		codes = append(codes, d.Code)
	}
	if len(codes) != 2 || codes[0] != diag.SemaDuplicateType || codes[1] != diag.SemaUnknownField {
		t.Fatalf("codes = %v", codes)
	}
}

func TestDropImplForUnknownTarget(t *testing.T) {
	c := check(t, "impl Drop for Nope { fn drop(&mut self) {} }\n")
	items := c.bag.Items()
	if len(items) != 1 || items[0].Code != diag.SemaUnknownType {
		t.Fatalf("diags = %+v", items)
	}
}

func TestClosuresFeedTheAnalyzer(t *testing.T) {
	src := `fn test3() {
    let t = (String::new(), String::new());
    let t1 = (String::new(), String::new());
    let t2 = (String::new(), String::new());
    let c = || {
        let _t = t.0;
        let _t1 = t1.0;
        let _t2 = t2;
    };
    c();
}
`
	c := mustCheck(t, src)
	an := migrate.NewAnalyzer(c.res.Oracle)
	res := an.Analyze(c.closure(t, 0))
	if got := migrate.Suggestion(res.Records); got != "let (t, t1) = (t, t1);" {
		t.Fatalf("suggestion = %q", got)
	}
}
