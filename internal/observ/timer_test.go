package observ

import (
	"strings"
	"testing"
	"time"
)

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	if got := tm.Report(); got.TotalMS != 0 || got.Phases != nil {
		t.Fatalf("empty report = %+v", got)
	}
	load := tm.Begin("load")
	time.Sleep(time.Millisecond)
	tm.End(load, "3 files")
	analyze := tm.Begin("analyze")
	tm.End(analyze, "")
	tm.End(42, "ignored")

	r := tm.Report()
	if len(r.Phases) != 2 || r.Phases[0].Name != "load" || r.Phases[0].Note != "3 files" {
		t.Fatalf("report = %+v", r)
	}
	if r.Phases[0].DurationMS < 1 || r.TotalMS < r.Phases[0].DurationMS {
		t.Errorf("durations = %+v", r)
	}

	s := tm.Summary()
	for _, want := range []string{"timings:", "load", "// 3 files", "total"} {
		if !strings.Contains(s, want) {
			t.Errorf("summary lacks %q:\n%s", want, s)
		}
	}
}
