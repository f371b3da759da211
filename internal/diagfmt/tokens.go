package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"disjoint/internal/source"
	"disjoint/internal/token"
)

// TokenOutput is one token of `disjoint tokenize --format json`.
type TokenOutput struct {
	Kind    string      `json:"kind"`
	Text    string      `json:"text,omitempty"`
	Span    source.Span `json:"span"`
	Leading []string    `json:"leading,omitempty"`
}

// untilEOF returns tokens up to and including the first EOF.
func untilEOF(tokens []token.Token) []token.Token {
	for i, tok := range tokens {
		if tok.Kind == token.EOF {
			return tokens[:i+1]
		}
	}
	return tokens
}

func triviaKinds(tok token.Token) []string {
	if len(tok.Leading) == 0 {
		return nil
	}
	kinds := make([]string, len(tok.Leading))
	for i, tr := range tok.Leading {
		kinds[i] = tr.Kind.String()
	}
	return kinds
}

// FormatTokensPretty writes one numbered line per token with its range and
// leading trivia.
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	for i, tok := range untilEOF(tokens) {
		start, end := fs.Resolve(tok.Span)
		var line strings.Builder
		fmt.Fprintf(&line, "%3d: %-15s", i+1, tok.Kind)
		if tok.Text != "" {
			fmt.Fprintf(&line, " %q", tok.Text)
		}
		fmt.Fprintf(&line, " at %d:%d-%d:%d", start.Line, start.Col, end.Line, end.Col)
		if kinds := triviaKinds(tok); kinds != nil {
			fmt.Fprintf(&line, " (leading: %s)", strings.Join(kinds, ", "))
		}
		if _, err := fmt.Fprintln(w, line.String()); err != nil {
			return err
		}
	}
	return nil
}

// FormatTokensJSON writes the tokens as an indented JSON array.
func FormatTokensJSON(w io.Writer, tokens []token.Token) error {
	toks := untilEOF(tokens)
	out := make([]TokenOutput, len(toks))
	for i, tok := range toks {
		out[i] = TokenOutput{Kind: tok.Kind.String(), Text: tok.Text, Span: tok.Span, Leading: triviaKinds(tok)}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
