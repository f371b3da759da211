package driver

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"disjoint/internal/diag"
	"disjoint/internal/expect"
	"disjoint/internal/migrate"
	"disjoint/internal/sema"
	"disjoint/internal/token"
	"disjoint/internal/trace"
)

const fixturesDir = "../../testdata/migrations"

func TestFixtures(t *testing.T) {
	res, err := Check(context.Background(), fixturesDir, Options{Level: sema.LevelWarn, Jobs: 2})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if len(res.Files) < 3 {
		t.Fatalf("fixtures found: %d", len(res.Files))
	}
	if phases := res.Timings.Report().Phases; len(phases) != 3 || phases[1].Name != "analyze" {
		t.Errorf("timings = %+v", phases)
	}
	for _, fr := range res.Files {
		t.Run(filepath.Base(fr.Path), func(t *testing.T) {
			got, err := expect.Check(fr.Bag.Items(), res.FileSet, fr.FileID)
			if err != nil {
				t.Fatal(err)
			}
			if !got.OK() {
				t.Errorf("annotations do not match:\n%s", got.Summary(fr.Path))
			}
		})
	}
}

func TestLevelNoteOncePerAttribute(t *testing.T) {
	res, err := Check(context.Background(), filepath.Join(fixturesDir, "insignificant_drop.rs"), Options{})
	if err != nil {
		t.Fatal(err)
	}
	lints, notes := 0, 0
	for _, d := range res.Bag.Items() {
		if d.Code != diag.LintDisjointCaptureDropReorder {
			continue
		}
		lints++
		for _, n := range d.Notes {
			if n.Msg == migrate.LintLevelNote {
				notes++
			}
		}
	}
	if lints != 7 || notes != 1 {
		t.Fatalf("lints = %d, level notes = %d", lints, notes)
	}
	if first := res.Bag.Items()[0]; first.Notes[0].Msg != migrate.LintLevelNote {
		t.Errorf("first diagnostic lost the note: %+v", first.Notes)
	}
}

func TestCheckSourceLevels(t *testing.T) {
	src := []byte("fn f() {\n    let t = (String::new(), 0i32);\n    let c = || { let _t = t.0; };\n}\n")
	tests := []struct {
		level sema.Level
		want  int
		sev   diag.Severity
	}{
		{sema.LevelAllow, 0, 0},
		{sema.LevelWarn, 1, diag.SevWarning},
		{sema.LevelDeny, 1, diag.SevError},
	}
	for _, tt := range tests {
		res := CheckSource("mem.rs", src, Options{Level: tt.level, KeepAnalyses: true})
		if res.Bag.Len() != tt.want {
			t.Errorf("%s: %d diagnostics", tt.level, res.Bag.Len())
			continue
		}
		if len(res.Files[0].Analyses) != 1 || !res.Files[0].Analyses[0].NeedsMigration() {
			t.Errorf("%s: analyses = %+v", tt.level, res.Files[0].Analyses)
		}
		if tt.want == 1 {
			d := res.Bag.Items()[0]
			if d.Severity != tt.sev || len(d.Fixes) != 1 || d.Fixes[0].Edits[0].NewText != "let (t) = (t);\n    " {
				t.Errorf("%s: diagnostic = %+v", tt.level, d)
			}
		}
	}
}

type recordingSink struct {
	ch chan Event
}

func (s recordingSink) OnEvent(ev Event) { s.ch <- ev }

func TestProgressEvents(t *testing.T) {
	sink := recordingSink{ch: make(chan Event, 256)}
	res, err := Check(context.Background(), fixturesDir, Options{Level: sema.LevelWarn, Progress: sink})
	if err != nil {
		t.Fatal(err)
	}
	close(sink.ch)

	final := map[string]Status{}
	var sawRunDone bool
	for ev := range sink.ch {
		if ev.File == "" {
			sawRunDone = ev.Status == StatusDone
			continue
		}
		if ev.Stage == StageAnalyze && ev.Status != StatusWorking {
			final[ev.File] = ev.Status
		}
	}
	if !sawRunDone {
		t.Error("no run-level done event")
	}
	for _, fr := range res.Files {
		want := StatusDone
		if fr.Bag.HasErrors() {
			want = StatusError
		}
		if final[fr.Path] != want {
			t.Errorf("%s: final status %q, want %q", fr.Path, final[fr.Path], want)
		}
	}
}

func TestDiskCacheRoundTrip(t *testing.T) {
	cache, err := OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	opts := Options{Level: sema.LevelWarn, Cache: cache}
	first, err := Check(context.Background(), fixturesDir, opts)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Check(context.Background(), fixturesDir, opts)
	if err != nil {
		t.Fatal(err)
	}
	for i, fr := range second.Files {
		if first.Files[i].Cached || !fr.Cached {
			t.Errorf("%s: cached first=%v second=%v", fr.Path, first.Files[i].Cached, fr.Cached)
		}
	}
	a := diag.FormatGoldenDiagnostics(first.Bag.Items(), first.FileSet, true)
	b := diag.FormatGoldenDiagnostics(second.Bag.Items(), second.FileSet, true)
	if a != b {
		t.Errorf("cached output differs:\n%s\n---\n%s", a, b)
	}

	// another default level is another key
	third, err := Check(context.Background(), fixturesDir, Options{Level: sema.LevelDeny, Cache: cache})
	if err != nil {
		t.Fatal(err)
	}
	if third.Files[0].Cached {
		t.Error("level change hit the cache")
	}

	if err := cache.DropAll(); err != nil {
		t.Fatal(err)
	}
	fourth, _ := Check(context.Background(), fixturesDir, opts)
	if fourth.Files[0].Cached {
		t.Error("DropAll kept entries")
	}
}

func TestLoadErrorBecomesDiagnostic(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "gone.rs")
	res, err := CheckFiles(context.Background(), dir, []string{missing}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	items := res.Bag.Items()
	if len(items) != 1 || items[0].Code != diag.IOLoadFileError {
		t.Fatalf("items = %+v", items)
	}
	if p := res.FileSet.Get(items[0].Primary.File).Path; p != missing {
		t.Errorf("diagnostic points at %q", p)
	}
}

func TestMaxDiagnostics(t *testing.T) {
	res, err := Check(context.Background(), fixturesDir, Options{Level: sema.LevelWarn, MaxDiagnostics: 2})
	if err != nil {
		t.Fatal(err)
	}
	if res.Bag.Len() != 2 {
		t.Errorf("bag = %d", res.Bag.Len())
	}
}

func TestMinSeverityDropsWarnings(t *testing.T) {
	path := filepath.Join(fixturesDir, "unknown_lint.rs")
	all, err := Check(context.Background(), path, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if all.Bag.Len() != 1 || all.Bag.Items()[0].Code != diag.SemaUnknownLintName {
		t.Fatalf("bag = %+v", all.Bag.Items())
	}
	errorsOnly, err := Check(context.Background(), path, Options{MinSeverity: diag.SevError})
	if err != nil {
		t.Fatal(err)
	}
	if errorsOnly.Bag.Len() != 0 || errorsOnly.Files[0].Bag.Len() != 0 {
		t.Fatalf("warnings kept: %+v", errorsOnly.Bag.Items())
	}
}

func TestFileSpanCarriesOracleStats(t *testing.T) {
	var buf bytes.Buffer
	tracer := trace.NewStreamTracer(&buf, trace.LevelDetail, trace.FormatText)
	ctx := trace.WithTracer(context.Background(), tracer)
	if _, err := Check(ctx, filepath.Join(fixturesDir, "insignificant_drop.rs"), Options{}); err != nil {
		t.Fatal(err)
	}
	var fileEnd string
	for _, line := range strings.Split(buf.String(), "\n") {
		if strings.Contains(line, "← file:") {
			fileEnd = line
		}
	}
	if !strings.Contains(fileEnd, "drop_types=") || strings.Contains(fileEnd, "drop_types=0") {
		t.Fatalf("file span end = %q\n%s", fileEnd, buf.String())
	}
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Check(ctx, fixturesDir, Options{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
}

func TestResolveTargets(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.rs", "a.rs", "notes.txt", filepath.Join("sub", "c.rs")} {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("fn main() {}\n"), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	files, base, err := ResolveTargets(dir)
	if err != nil {
		t.Fatal(err)
	}
	var rel []string
	for _, f := range files {
		r, _ := filepath.Rel(dir, f)
		rel = append(rel, filepath.ToSlash(r))
	}
	if base != dir || strings.Join(rel, ",") != "a.rs,b.rs,sub/c.rs" {
		t.Errorf("files = %v, base = %s", rel, base)
	}
	if _, _, err := ResolveTargets(filepath.Join(dir, "nope")); err == nil {
		t.Error("missing path must fail")
	}
}

func TestTokenize(t *testing.T) {
	res, err := Tokenize(filepath.Join(fixturesDir, "unknown_lint.rs"), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Tokens) == 0 || res.Tokens[len(res.Tokens)-1].Kind != token.EOF {
		t.Fatalf("tokens = %d", len(res.Tokens))
	}
	if res.Bag.Len() != 0 {
		t.Errorf("lexer diagnostics: %+v", res.Bag.Items())
	}
}
