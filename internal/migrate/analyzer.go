package migrate

import (
	"disjoint/internal/capture"
	"disjoint/internal/dropck"
)

// Result is everything computed for one closure.
type Result struct {
	Closure   *capture.Closure
	Collected *capture.Collected
	Sets      capture.Sets
	Records   []Record
}

// NeedsMigration reports whether any variable must be captured whole.
func (r Result) NeedsMigration() bool {
	return len(r.Records) > 0
}

// Analyzer runs collector, reducer and diagnoser for single closures. It
// holds no per-closure state and may be used from several goroutines.
type Analyzer struct {
	Oracle *dropck.Oracle
}

func NewAnalyzer(oracle *dropck.Oracle) *Analyzer {
	return &Analyzer{Oracle: oracle}
}

// Analyze runs the full pipeline for c.
func (a *Analyzer) Analyze(c *capture.Closure) Result {
	collected := capture.Collect(c, a.Oracle.Types())
	sets := capture.Reduce(collected)
	return Result{
		Closure:   c,
		Collected: collected,
		Sets:      sets,
		Records:   Diagnose(sets, a.Oracle),
	}
}
