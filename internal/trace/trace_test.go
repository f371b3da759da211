package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	for _, s := range []string{"off", "phase", "detail", "debug"} {
		lvl, err := ParseLevel(s)
		if err != nil || lvl.String() != s {
			t.Errorf("ParseLevel(%q) = %v, %v", s, lvl, err)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("expected error")
	}
}

func TestShouldEmit(t *testing.T) {
	tests := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeDriver, false},
		{LevelPhase, ScopePass, true},
		{LevelPhase, ScopeFile, false},
		{LevelDetail, ScopeFile, true},
		{LevelDetail, ScopeClosure, false},
		{LevelDebug, ScopeClosure, true},
	}
	for _, tt := range tests {
		if got := tt.level.ShouldEmit(tt.scope); got != tt.want {
			t.Errorf("%s.ShouldEmit(%s) = %v", tt.level, tt.scope, got)
		}
	}
}

func TestNewOffIsNop(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil || tr != Nop || tr.Enabled() {
		t.Fatalf("tr = %v, err = %v", tr, err)
	}
	// spans on a disabled tracer are inert
	sp := Begin(tr, ScopeDriver, "check", 0)
	if sp.ID() != 0 || sp.End("") != 0 {
		t.Error("nop span has identity")
	}
}

func TestStreamTextFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelDetail, Output: &buf})
	if err != nil {
		t.Fatal(err)
	}
	root := Begin(tr, ScopeDriver, "check", 0)
	file := Begin(tr, ScopeFile, "file:a.rs", root.ID()).WithExtra("closures", "2").WithExtra("bytes", "10")
	Point(tr, ScopeClosure, "closure", "hidden at detail", file.ID())
	file.End("ok")
	root.End("")

	out := buf.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("lines = %d:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "→ check") || !strings.Contains(lines[1], "    → file:a.rs") {
		t.Errorf("begin lines:\n%s", out)
	}
	if !strings.HasSuffix(lines[2], "← file:a.rs (ok) {bytes=10, closures=2}") {
		t.Errorf("end line = %q", lines[2])
	}
	if strings.Contains(out, "hidden") {
		t.Errorf("closure event leaked at detail level")
	}
}

func TestStreamNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatNDJSON)
	sp := Begin(tr, ScopePass, "parse", 7)
	sp.End("done")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("output:\n%s", buf.String())
	}
	var ev jsonEvent
	if err := json.Unmarshal([]byte(lines[1]), &ev); err != nil {
		t.Fatal(err)
	}
	if ev.Kind != "end" || ev.Scope != "pass" || ev.Name != "parse" || ev.ParentID != 7 || ev.Detail != "done" || ev.SpanID != sp.ID() {
		t.Errorf("event = %+v", ev)
	}
}

func TestFormatAutoByExtension(t *testing.T) {
	path := t.TempDir() + "/trace.ndjson"
	tr, err := New(Config{Level: LevelPhase, OutputPath: path})
	if err != nil {
		t.Fatal(err)
	}
	st, ok := tr.(*StreamTracer)
	if !ok || st.format != FormatNDJSON {
		t.Fatalf("tracer = %#v", tr)
	}
	if err := tr.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestContext(t *testing.T) {
	ctx := context.Background()
	if FromContext(ctx) != Nop {
		t.Error("empty context must yield Nop")
	}
	tr := NewStreamTracer(&bytes.Buffer{}, LevelPhase, FormatText)
	ctx = WithTracer(ctx, tr)
	if FromContext(ctx) != Tracer(tr) {
		t.Error("tracer not stored")
	}
	ctx = WithSpanContext(ctx, SpanContext{SpanID: 9})
	if CurrentSpan(ctx).SpanID != 9 {
		t.Error("span context not stored")
	}
}
