package token

var keywords = map[string]Kind{
	"fn":     KwFn,
	"let":    KwLet,
	"mut":    KwMut,
	"move":   KwMove,
	"struct": KwStruct,
	"impl":   KwImpl,
	"for":    KwFor,
	"pub":    KwPub,
	"return": KwReturn,
	"self":   KwSelf,
	"as":     KwAs,
	"true":   KwTrue,
	"false":  KwFalse,
}

// LookupKeyword reports whether ident is a keyword. Keywords are case-sensitive.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
