package ui

import (
	"strings"
	"testing"

	"disjoint/internal/driver"
)

func newModel(files ...string) *progressModel {
	return NewProgressModel("checking", files, nil).(*progressModel)
}

func TestApplyEventTracksFiles(t *testing.T) {
	m := newModel("a.rs", "b.rs")
	m.applyEvent(driver.Event{File: "a.rs", Stage: driver.StageParse, Status: driver.StatusWorking})
	if m.items[0].status != "parsing" {
		t.Fatalf("status = %q", m.items[0].status)
	}
	if got := m.percent(); got != 0.1 {
		t.Errorf("percent = %v", got)
	}

	m.applyEvent(driver.Event{File: "a.rs", Stage: driver.StageAnalyze, Status: driver.StatusDone})
	m.applyEvent(driver.Event{File: "b.rs", Stage: driver.StageAnalyze, Status: driver.StatusCached})
	m.applyEvent(driver.Event{File: "other.rs", Status: driver.StatusError})
	if m.completed() != 2 || m.cached != 1 || m.percent() != 1 {
		t.Errorf("completed = %d, cached = %d, percent = %v", m.completed(), m.cached, m.percent())
	}

	m.applyEvent(driver.Event{Status: driver.StatusDone})
	if !m.finished {
		t.Error("run-level done not recorded")
	}
}

func TestViewListsFiles(t *testing.T) {
	m := newModel("src/a.rs")
	m.applyEvent(driver.Event{File: "src/a.rs", Stage: driver.StageAnalyze, Status: driver.StatusError})
	view := m.View()
	for _, want := range []string{"checking (1/1)", "error", "src/a.rs"} {
		if !strings.Contains(view, want) {
			t.Errorf("view lacks %q:\n%s", want, view)
		}
	}
	if newModel().View() != "" {
		t.Error("empty model must render nothing")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short.rs", 20, "short.rs"},
		{"a/very/long/path.rs", 10, "a/very/..."},
		{"日本語.rs", 3, "日"},
		{"any", 0, "any"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
