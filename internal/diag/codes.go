package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Лексические
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004
	LexUnterminatedChar         Code = 1005

	// Парсерные
	SynInfo                Code = 2000
	SynUnexpectedToken     Code = 2001
	SynUnclosedDelimiter   Code = 2002
	SynExpectSemicolon     Code = 2012
	SynAttributeNotAllowed Code = 2016
	SynUnexpectedTopLevel  Code = 2101
	SynExpectIdentifier    Code = 2102
	SynExpectType          Code = 2202
	SynExpectExpression    Code = 2203
	SynInvalidTupleIndex   Code = 2206

	// Семантические
	SemaInfo            Code = 3000
	SemaUnknownType     Code = 3010
	SemaUnknownField    Code = 3011
	SemaUnknownLintName Code = 3012
	SemaDuplicateType   Code = 3013

	IOLoadFileError Code = 4001

	// Lints
	LintInfo                       Code = 9000
	LintDisjointCaptureDropReorder Code = 9001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:                    "Unknown error",
		LexInfo:                        "Lexical information",
		LexUnknownChar:                 "Unknown character",
		LexUnterminatedString:          "Unterminated string",
		LexUnterminatedBlockComment:    "Unterminated block comment",
		LexBadNumber:                   "Bad number",
		LexUnterminatedChar:            "Unterminated character literal",
		SynInfo:                        "Syntax information",
		SynUnexpectedToken:             "Unexpected token",
		SynUnclosedDelimiter:           "Unclosed delimiter",
		SynExpectSemicolon:             "Expected semicolon",
		SynAttributeNotAllowed:         "Attribute is not allowed here",
		SynUnexpectedTopLevel:          "Unexpected top-level construct",
		SynExpectIdentifier:            "Expected identifier",
		SynExpectType:                  "Expected type",
		SynExpectExpression:            "Expected expression",
		SynInvalidTupleIndex:           "Invalid tuple index",
		SemaInfo:                       "Semantic information",
		SemaUnknownType:                "Unknown type",
		SemaUnknownField:               "Unknown field",
		SemaUnknownLintName:            "Unknown lint name",
		SemaDuplicateType:              "Duplicate type definition",
		IOLoadFileError:                "I/O load file error",
		LintInfo:                       "Lint information",
		LintDisjointCaptureDropReorder: "disjoint_capture_drop_reorder",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 9000 && ic < 10000:
		return fmt.Sprintf("LNT%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
