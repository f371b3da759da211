package driver

import (
	"disjoint/internal/ast"
	"disjoint/internal/diag"
	"disjoint/internal/lexer"
	"disjoint/internal/migrate"
	"disjoint/internal/parser"
	"disjoint/internal/sema"
	"disjoint/internal/source"
)

type fileOutcome struct {
	bag       *diag.Bag
	analyses  []migrate.Result
	dropTypes int // significance answers memoized by the oracle
}

// analyzeFile runs lex, parse, resolve and closure analysis for one file
// and reports the migration diagnostics.
func analyzeFile(file *source.File, opts Options, stage func(Stage)) fileOutcome {
	bag := diag.NewBag(0)
	rep := diag.NewDedupReporter(&diag.BagReporter{Bag: bag})

	stage(StageParse)
	lx := lexer.New(file, lexer.Options{Reporter: rep})
	builder := ast.NewBuilder(ast.Hints{})
	pr := parser.ParseFile(lx, builder, parser.Options{Reporter: rep})

	stage(StageResolve)
	res := sema.Check(builder, pr.File, sema.Options{Reporter: rep, File: file, Level: opts.Level})

	stage(StageAnalyze)
	analyzer := migrate.NewAnalyzer(res.Oracle)
	analyses := make([]migrate.Result, 0, len(res.Closures))
	for _, ci := range res.Closures {
		r := analyzer.Analyze(ci.Closure)
		analyses = append(analyses, r)
		sev, ok := ci.Lint.Level.Severity()
		if !ok {
			continue
		}
		migrate.Report(rep, ci.Closure, r.Records, migrate.ReportOptions{
			Severity:  sev,
			LevelSpan: ci.Lint.Source,
			WithFix:   true,
		})
	}

	bag.Sort()
	keepFirstLevelNote(bag)
	return fileOutcome{bag: bag, analyses: analyses, dropTypes: res.Oracle.Cached()}
}

// keepFirstLevelNote leaves the lint-level note only on the first
// diagnostic (in source order) for each attribute that set the level.
func keepFirstLevelNote(bag *diag.Bag) {
	seen := make(map[source.Span]bool)
	bag.Transform(func(d diag.Diagnostic) diag.Diagnostic {
		if d.Code != diag.LintDisjointCaptureDropReorder {
			return d
		}
		notes := d.Notes[:0:0]
		for _, n := range d.Notes {
			if n.Msg == migrate.LintLevelNote {
				if seen[n.Span] {
					continue
				}
				seen[n.Span] = true
			}
			notes = append(notes, n)
		}
		d.Notes = notes
		return d
	})
}
