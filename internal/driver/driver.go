// Package driver runs the checker over files and directories.
package driver

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"disjoint/internal/diag"
	"disjoint/internal/migrate"
	"disjoint/internal/observ"
	"disjoint/internal/sema"
	"disjoint/internal/source"
	"disjoint/internal/trace"
)

// Options configure a check run.
type Options struct {
	// Level applies where no attribute sets the lint level.
	Level sema.Level
	// Jobs bounds the number of files checked at once; 0 means GOMAXPROCS.
	Jobs int
	// MaxDiagnostics caps the merged bag; 0 means no cap.
	MaxDiagnostics int
	// Cache, when set, serves unchanged files from disk.
	Cache *DiskCache
	// Progress receives per-file events.
	Progress ProgressSink
	// KeepAnalyses keeps the per-closure migrate results.
	KeepAnalyses bool
	// MinSeverity drops diagnostics below it from every file bag.
	MinSeverity diag.Severity
}

// FileResult is the outcome for one file.
type FileResult struct {
	Path     string
	FileID   source.FileID
	Bag      *diag.Bag
	Analyses []migrate.Result // empty for cached files or without KeepAnalyses
	Cached   bool
}

// Result aggregates a run.
type Result struct {
	FileSet *source.FileSet
	Bag     *diag.Bag // all diagnostics, sorted
	Files   []FileResult
	Timings *observ.Timer
}

// Check checks a file or every *.rs file under a directory.
func Check(ctx context.Context, path string, opts Options) (*Result, error) {
	files, baseDir, err := ResolveTargets(path)
	if err != nil {
		return nil, err
	}
	return CheckFiles(ctx, baseDir, files, opts)
}

// CheckFiles checks the given files in parallel. Files that fail to load
// get an IO diagnostic; only context cancellation is returned as an error.
func CheckFiles(ctx context.Context, baseDir string, files []string, opts Options) (*Result, error) {
	tracer := trace.FromContext(ctx)
	root := trace.Begin(tracer, trace.ScopeDriver, "check", trace.CurrentSpan(ctx).SpanID)
	defer root.WithExtra("files", fmt.Sprint(len(files))).End("")

	fileSet := source.NewFileSetWithBase(baseDir)
	results := make([]FileResult, len(files))
	timer := observ.NewTimer()

	loadPhase := timer.Begin("load")
	load := trace.Begin(tracer, trace.ScopePass, "load", root.ID())
	for i, path := range files {
		emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusQueued})
		results[i].Path = path
		id, err := fileSet.Load(path)
		if err != nil {
			// an empty stand-in keeps the diagnostic pointing at the right path
			id = fileSet.AddVirtual(path, nil)
			bag := diag.NewBag(0)
			bag.Add(diag.New(diag.SevError, diag.IOLoadFileError, source.Span{File: id}, "failed to load file: "+err.Error()))
			results[i].FileID = id
			results[i].Bag = bag
			emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusError})
			continue
		}
		results[i].FileID = id
	}
	load.End("")
	timer.End(loadPhase, fmt.Sprintf("%d file(s)", len(files)))

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	analyzePhase := timer.Begin("analyze")
	analyze := trace.Begin(tracer, trace.ScopePass, "analyze", root.ID())
	g, gctx := errgroup.WithContext(trace.WithSpanContext(ctx, analyze.Context()))
	g.SetLimit(max(min(jobs, len(files)), 1))
	for i := range results {
		if results[i].Bag != nil {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = checkOne(gctx, fileSet, results[i], opts)
			return nil
		})
	}
	err := g.Wait()
	analyze.End("")
	if err != nil {
		return nil, err
	}
	cached := 0
	for _, fr := range results {
		if fr.Cached {
			cached++
		}
	}
	timer.End(analyzePhase, fmt.Sprintf("%d job(s), %d cached", jobs, cached))

	mergePhase := timer.Begin("merge")
	bag := diag.NewBag(opts.MaxDiagnostics)
	for _, fr := range results {
		dropBelow(fr.Bag, opts.MinSeverity)
		if !bag.Merge(fr.Bag) {
			break
		}
	}
	bag.Sort()
	timer.End(mergePhase, fmt.Sprintf("%d diagnostic(s)", bag.Len()))
	emit(opts.Progress, Event{Status: StatusDone})

	return &Result{FileSet: fileSet, Bag: bag, Files: results, Timings: timer}, nil
}

// CheckSource checks one in-memory file.
func CheckSource(name string, content []byte, opts Options) *Result {
	fileSet := source.NewFileSet()
	id := fileSet.AddVirtual(name, content)
	fr := checkOne(context.Background(), fileSet, FileResult{Path: name, FileID: id}, opts)
	dropBelow(fr.Bag, opts.MinSeverity)
	return &Result{FileSet: fileSet, Bag: fr.Bag, Files: []FileResult{fr}}
}

func checkOne(ctx context.Context, fileSet *source.FileSet, fr FileResult, opts Options) FileResult {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeFile, "file:"+fr.Path, trace.CurrentSpan(ctx).SpanID)
	start := time.Now()
	file := fileSet.Get(fr.FileID)

	if opts.Cache != nil && !opts.KeepAnalyses {
		if bag, ok := opts.Cache.Load(file, opts.Level); ok {
			fr.Bag = bag
			fr.Cached = true
			emit(opts.Progress, Event{File: fr.Path, Stage: StageAnalyze, Status: StatusCached, Elapsed: time.Since(start)})
			span.WithExtra("cached", "true").End("")
			return fr
		}
	}

	out := analyzeFile(file, opts, func(stage Stage) {
		emit(opts.Progress, Event{File: fr.Path, Stage: stage, Status: StatusWorking, Elapsed: time.Since(start)})
	})
	for _, r := range out.analyses {
		trace.Point(tracer, trace.ScopeClosure, "closure", fmt.Sprintf("%s: %d to migrate", r.Closure.Fn, len(r.Records)), span.ID())
	}
	fr.Bag = out.bag
	if opts.KeepAnalyses {
		fr.Analyses = out.analyses
	}

	if opts.Cache != nil {
		opts.Cache.Store(file, opts.Level, out.bag)
	}

	status := StatusDone
	if out.bag.HasErrors() {
		status = StatusError
	}
	emit(opts.Progress, Event{File: fr.Path, Stage: StageAnalyze, Status: status, Elapsed: time.Since(start)})
	span.WithExtra("closures", fmt.Sprint(len(out.analyses))).
		WithExtra("drop_types", fmt.Sprint(out.dropTypes)).
		End(string(status))
	return fr
}

func dropBelow(bag *diag.Bag, floor diag.Severity) {
	if floor == diag.SevInfo {
		return
	}
	bag.Filter(func(d diag.Diagnostic) bool { return d.Severity >= floor })
}
