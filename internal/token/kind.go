package token

import "fmt"

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier token.
	Ident

	KwFn     // fn
	KwLet    // let
	KwMut    // mut
	KwMove   // move
	KwStruct // struct
	KwImpl   // impl
	KwFor    // for
	KwPub    // pub
	KwReturn // return
	KwSelf   // self
	KwAs     // as
	KwTrue   // true
	KwFalse  // false

	IntLit    // 0, 0i32, 1_000u8
	FloatLit  // 1.5, 2f64
	StringLit // "..."
	CharLit   // 'x'

	Plus        // +
	Minus       // -
	Star        // *
	Slash       // /
	Percent     // %
	Assign      // =
	PlusAssign  // +=
	MinusAssign // -=
	EqEq        // ==
	Bang        // !
	BangEq      // !=
	Lt          // <
	LtEq        // <=
	Gt          // >
	GtEq        // >=
	Amp         // &
	AndAnd      // &&
	Pipe        // |
	OrOr        // ||
	Question    // ?
	Colon       // :
	ColonColon  // ::
	Semicolon   // ;
	Comma       // ,
	Dot         // .
	DotDot      // ..
	Arrow       // ->
	FatArrow    // =>
	Hash        // #
	LParen      // (
	RParen      // )
	LBrace      // {
	RBrace      // }
	LBracket    // [
	RBracket    // ]
	Underscore  // _
)

var kindNames = [...]string{
	Invalid:     "Invalid",
	EOF:         "EOF",
	Ident:       "Ident",
	KwFn:        "fn",
	KwLet:       "let",
	KwMut:       "mut",
	KwMove:      "move",
	KwStruct:    "struct",
	KwImpl:      "impl",
	KwFor:       "for",
	KwPub:       "pub",
	KwReturn:    "return",
	KwSelf:      "self",
	KwAs:        "as",
	KwTrue:      "true",
	KwFalse:     "false",
	IntLit:      "IntLit",
	FloatLit:    "FloatLit",
	StringLit:   "StringLit",
	CharLit:     "CharLit",
	Plus:        "+",
	Minus:       "-",
	Star:        "*",
	Slash:       "/",
	Percent:     "%",
	Assign:      "=",
	PlusAssign:  "+=",
	MinusAssign: "-=",
	EqEq:        "==",
	Bang:        "!",
	BangEq:      "!=",
	Lt:          "<",
	LtEq:        "<=",
	Gt:          ">",
	GtEq:        ">=",
	Amp:         "&",
	AndAnd:      "&&",
	Pipe:        "|",
	OrOr:        "||",
	Question:    "?",
	Colon:       ":",
	ColonColon:  "::",
	Semicolon:   ";",
	Comma:       ",",
	Dot:         ".",
	DotDot:      "..",
	Arrow:       "->",
	FatArrow:    "=>",
	Hash:        "#",
	LParen:      "(",
	RParen:      ")",
	LBrace:      "{",
	RBrace:      "}",
	LBracket:    "[",
	RBracket:    "]",
	Underscore:  "_",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}
