package lexer_test

import (
	"testing"

	"disjoint/internal/diag"
	"disjoint/internal/lexer"
	"disjoint/internal/source"
	"disjoint/internal/token"
)

type testReporter struct {
	diagnostics []diag.Diagnostic
}

func (r *testReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note, fixes []diag.Fix) {
	r.diagnostics = append(r.diagnostics, diag.Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  msg,
		Primary:  primary,
		Notes:    notes,
		Fixes:    fixes,
	})
}

func makeTestLexer(input string) (*lexer.Lexer, *testReporter) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.rs", []byte(input))
	reporter := &testReporter{}
	return lexer.New(fs.Get(fileID), lexer.Options{Reporter: reporter}), reporter
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, 0, len(toks))
	for _, t := range toks {
		out = append(out, t.Kind)
	}
	return out
}

func expectKinds(t *testing.T, input string, want ...token.Kind) []token.Token {
	t.Helper()
	lx, rep := makeTestLexer(input)
	toks := lx.All()
	if len(rep.diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %+v", rep.diagnostics)
	}
	want = append(want, token.EOF)
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("kinds = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d = %v, want %v (all: %v)", i, got[i], want[i], got)
		}
	}
	return toks
}

func TestClosureHeader(t *testing.T) {
	toks := expectKinds(t, "let c = move || { let _t = t.0; };",
		token.KwLet, token.Ident, token.Assign, token.KwMove, token.OrOr, token.LBrace,
		token.KwLet, token.Ident, token.Assign, token.Ident, token.Dot, token.IntLit, token.Semicolon,
		token.RBrace, token.Semicolon)
	if toks[7].Text != "_t" {
		t.Fatalf("ident text = %q, want _t", toks[7].Text)
	}
}

func TestChainedTupleIndex(t *testing.T) {
	toks := expectKinds(t, "t.0.1",
		token.Ident, token.Dot, token.IntLit, token.Dot, token.IntLit)
	if toks[2].Text != "0" || toks[4].Text != "1" {
		t.Fatalf("tuple indices = %q, %q", toks[2].Text, toks[4].Text)
	}
}

func TestNumbersWithSuffix(t *testing.T) {
	toks := expectKinds(t, "0i32 1_000u64 2.5 3f32 0x1F",
		token.IntLit, token.IntLit, token.FloatLit, token.FloatLit, token.IntLit)
	if toks[0].Text != "0i32" {
		t.Fatalf("text = %q", toks[0].Text)
	}
}

func TestAttributeTokens(t *testing.T) {
	expectKinds(t, "#![deny(disjoint_capture_drop_reorder)]",
		token.Hash, token.Bang, token.LBracket, token.Ident, token.LParen, token.Ident,
		token.RParen, token.RBracket)
}

func TestOperators(t *testing.T) {
	expectKinds(t, ":: -> => && || == != <= >= += -= .. _ &",
		token.ColonColon, token.Arrow, token.FatArrow, token.AndAnd, token.OrOr,
		token.EqEq, token.BangEq, token.LtEq, token.GtEq, token.PlusAssign,
		token.MinusAssign, token.DotDot, token.Underscore, token.Amp)
}

func TestStringsAndChars(t *testing.T) {
	toks := expectKinds(t, `"a \"b\"" 'x' '\n'`, token.StringLit, token.CharLit, token.CharLit)
	if toks[0].Text != `"a \"b\""` {
		t.Fatalf("string text = %q", toks[0].Text)
	}
}

func TestCommentsBecomeTrivia(t *testing.T) {
	toks := expectKinds(t, "a /* x /* nested */ y */ // ~ERROR\nb",
		token.Ident, token.Ident)
	var sawBlock, sawLine bool
	for _, tr := range toks[1].Leading {
		switch tr.Kind {
		case token.TriviaBlockComment:
			sawBlock = true
		case token.TriviaLineComment:
			sawLine = true
			if tr.Text != "// ~ERROR" {
				t.Fatalf("line comment text = %q", tr.Text)
			}
		}
	}
	if !sawBlock || !sawLine {
		t.Fatalf("leading trivia = %+v", toks[1].Leading)
	}
}

func TestKeywordsAndSelf(t *testing.T) {
	expectKinds(t, "fn impl for struct self mut pub return as true false",
		token.KwFn, token.KwImpl, token.KwFor, token.KwStruct, token.KwSelf,
		token.KwMut, token.KwPub, token.KwReturn, token.KwAs, token.KwTrue, token.KwFalse)
}

func TestIdentifierNFC(t *testing.T) {
	// "é" as e + combining acute, and as the precomposed code point
	toks := expectKinds(t, "e\u0301 \u00e9", token.Ident, token.Ident)
	if toks[0].Text != toks[1].Text {
		t.Fatalf("identifiers not normalized: %q vs %q", toks[0].Text, toks[1].Text)
	}
}

func TestErrors(t *testing.T) {
	cases := []struct {
		name  string
		input string
		code  diag.Code
	}{
		{"unterminated string", `"abc`, diag.LexUnterminatedString},
		{"unterminated char", `'ab`, diag.LexUnterminatedChar},
		{"unterminated block", `/* open`, diag.LexUnterminatedBlockComment},
		{"unknown char", "$", diag.LexUnknownChar},
		{"bad hex", "0x", diag.LexBadNumber},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			lx, rep := makeTestLexer(tc.input)
			toks := lx.All()
			if toks[len(toks)-1].Kind != token.EOF {
				t.Fatalf("lexing did not reach EOF")
			}
			if len(rep.diagnostics) == 0 || rep.diagnostics[0].Code != tc.code {
				t.Fatalf("diagnostics = %+v, want %v", rep.diagnostics, tc.code)
			}
		})
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	lx, _ := makeTestLexer("a b")
	p := lx.Peek()
	n := lx.Next()
	if p.Span != n.Span || n.Text != "a" {
		t.Fatalf("peek %v, next %v", p, n)
	}
	if lx.Next().Text != "b" {
		t.Fatalf("expected b")
	}
}
