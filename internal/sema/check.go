package sema

import (
	"disjoint/internal/ast"
	"disjoint/internal/capture"
	"disjoint/internal/diag"
	"disjoint/internal/dropck"
	"disjoint/internal/source"
	"disjoint/internal/types"
)

// Options configure a semantic pass over a file.
type Options struct {
	Reporter diag.Reporter
	// File is the source the AST was parsed from; used to compute the
	// indentation of statements that hold closures.
	File *source.File
	// Level applies when no attribute sets the lint level.
	Level Level
}

// ClosureInfo is one resolved closure with the lint level in effect.
type ClosureInfo struct {
	Closure *capture.Closure
	Lint    LintSetting
}

// Result stores semantic artefacts produced by the checker.
type Result struct {
	Types    *types.Interner
	Oracle   *dropck.Oracle
	Closures []ClosureInfo // source order, outer closures before inner ones
}

// Check resolves types and scopes of the file and produces a capture.Closure
// for every closure expression it contains.
func Check(builder *ast.Builder, fileID ast.FileID, opts Options) Result {
	in := types.NewInterner()
	res := Result{Types: in, Oracle: dropck.New(in)}
	if builder == nil || !fileID.IsValid() {
		return res
	}
	file := builder.Files.Get(fileID)
	if file == nil {
		return res
	}

	tc := typeChecker{
		builder:  builder,
		reporter: opts.Reporter,
		source:   opts.File,
		types:    in,
		oracle:   res.Oracle,
		result:   &res,
		global:   newTypeScope(nil),
		fnScopes: make(map[ast.ItemID]*typeScope),
		methods:  make(map[types.TypeID]map[string]methodSig),
	}
	fileLint := lintFromAttrs(file.Attrs, LintSetting{Level: opts.Level}, opts.Reporter)
	tc.run(file, fileLint)
	return res
}

type typeChecker struct {
	builder  *ast.Builder
	reporter diag.Reporter
	source   *source.File
	types    *types.Interner
	oracle   *dropck.Oracle
	result   *Result

	global   *typeScope
	fnScopes map[ast.ItemID]*typeScope // structs declared inside fn bodies
	methods  map[types.TypeID]map[string]methodSig
}

func (tc *typeChecker) run(file *ast.File, lint LintSetting) {
	tc.declareItems(file.Items, tc.global)
	tc.resolveItems(tc.global)
	for _, id := range file.Items {
		tc.checkItem(id, tc.global, types.NoTypeID, lint)
	}
}

// checkItem walks function bodies; impl methods see Self as target.
func (tc *typeChecker) checkItem(id ast.ItemID, scope *typeScope, self types.TypeID, lint LintSetting) {
	item := tc.builder.Items.Get(id)
	if item == nil {
		return
	}
	switch item.Kind {
	case ast.ItemFn:
		fn, _ := tc.builder.Items.Fn(id)
		fnLint := lintFromAttrs(fn.Attrs, lint, tc.reporter)
		inner := tc.fnScopes[id]
		if inner == nil {
			inner = newTypeScope(scope)
		}
		newFnWalker(tc, fn, inner, self, fnLint).walkFn()
		// items nested in the body are checked after it
		for _, nested := range inner.items {
			tc.checkItem(nested, inner, types.NoTypeID, fnLint)
		}
	case ast.ItemImpl:
		impl, _ := tc.builder.Items.Impl(id)
		target := tc.resolveType(impl.Target, scope, types.NoTypeID)
		for _, m := range impl.Methods {
			tc.checkItem(m, scope, target, lint)
		}
	}
}

func (tc *typeChecker) errorf(code diag.Code, sp source.Span, msg string) {
	if tc.reporter == nil {
		return
	}
	diag.ReportError(tc.reporter, code, sp, msg).Emit()
}

func (tc *typeChecker) report(code diag.Code, sev diag.Severity, sp source.Span, msg string) {
	if tc.reporter == nil {
		return
	}
	diag.NewReportBuilder(tc.reporter, sev, code, sp, msg).Emit()
}
