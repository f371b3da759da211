// Package token defines lexical token kinds and trivia for the disjoint front end.
// Invariants:
//   - Token.Text is the source slice covered by Token.Span; identifiers are
//     NFC-normalized.
//   - Comments and whitespace never appear in the token stream; they are kept
//     as leading Trivia of the next significant token so expectation comments
//     (//~ ...) stay attached to source positions.
//   - Built-in type names (String, i32, Vec, ...) are identifiers.
//     They are recognized by the semantic layer, not the lexer.
package token
