package fuzztests

import (
	"testing"

	"disjoint/internal/diag"
	"disjoint/internal/lexer"
	"disjoint/internal/source"
	"disjoint/internal/token"
)

func FuzzLexerTokens(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		fs := source.NewFileSet()
		fileID := fs.AddVirtual("fuzz.rs", input)
		file := fs.Get(fileID)

		bag := diag.NewBag(64)
		lx := lexer.New(file, lexer.Options{Reporter: &diag.BagReporter{Bag: bag}})
		prev := uint32(0)
		for {
			tok := lx.Next()
			if tok.Span.Start < prev || tok.Span.End < tok.Span.Start {
				t.Fatalf("token %v goes backwards (previous end %d)", tok.Span, prev)
			}
			prev = tok.Span.End
			if tok.Kind == token.EOF {
				break
			}
		}
	})
}
