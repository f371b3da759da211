package fuzztests

import (
	"context"
	"testing"
	"time"

	"disjoint/internal/ast"
	"disjoint/internal/diag"
	"disjoint/internal/driver"
	"disjoint/internal/lexer"
	"disjoint/internal/parser"
	"disjoint/internal/sema"
	"disjoint/internal/source"
)

// parseTimeout bounds one input; running longer means a recovery loop.
const parseTimeout = 5 * time.Second

func FuzzParserBuildsAST(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(_ *testing.T, input []byte) {
		parseOnce(clampInput(input))
	})
}

// FuzzParserNoHang checks that error recovery always makes progress.
func FuzzParserNoHang(f *testing.F) {
	addCorpusSeeds(f)

	f.Add([]byte("fn f() { let x = 1\nlet y = 2; }"))
	f.Add([]byte("fn f() { let c = || { ; }"))
	f.Add([]byte("fn f() { let c = move |x| x.0.1.2 }"))
	f.Add([]byte("#![deny(\nfn f() {}"))
	f.Add([]byte("impl Drop for { fn drop(&mut self) }"))
	f.Add([]byte("fn f() { { { { } } } }"))
	f.Add([]byte("struct S(String,"))

	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		ctx, cancel := context.WithTimeout(context.Background(), parseTimeout)
		defer cancel()

		done := make(chan struct{})
		go func() {
			defer close(done)
			parseOnce(input)
		}()

		select {
		case <-done:
		case <-ctx.Done():
			t.Fatalf("parser hang detected: parsing took longer than %v\ninput (%d bytes): %q",
				parseTimeout, len(input), truncateForLog(input, 200))
		}
	})
}

// FuzzCheckSource runs the whole analysis; any panic is a failure and every
// diagnostic must point inside the input.
func FuzzCheckSource(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)
		res := driver.CheckSource("fuzz.rs", input, driver.Options{Level: sema.LevelWarn, KeepAnalyses: true})
		for _, d := range res.Bag.Items() {
			if int(d.Primary.End) > len(input) || d.Primary.Start > d.Primary.End {
				t.Fatalf("%s: span %v outside input of %d bytes", d.Code.ID(), d.Primary, len(input))
			}
		}
	})
}

func parseOnce(input []byte) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("fuzz.rs", input)
	file := fs.Get(fileID)

	bag := diag.NewBag(128)
	reporter := &diag.BagReporter{Bag: bag}
	lx := lexer.New(file, lexer.Options{Reporter: reporter})
	builder := ast.NewBuilder(ast.Hints{})
	_ = parser.ParseFile(lx, builder, parser.Options{Reporter: reporter, MaxErrors: 128})
}

func truncateForLog(input []byte, maxLen int) []byte {
	if len(input) <= maxLen {
		return input
	}
	return append(input[:maxLen:maxLen], []byte("...")...)
}
