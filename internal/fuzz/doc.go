// Package fuzztests houses Go fuzz harnesses for the checker front end and
// analysis (source -> lexer -> parser -> sema -> migrate). They guard against
// panics and hangs on arbitrary input.
package fuzztests
