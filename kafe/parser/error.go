package parser

import (
	"fmt"

	"github.com/dhamidi/kafe/kafe/ast"
)

// ParseError is a hard failure: the input was committed to one construct
// and did not continue the way that construct requires.
type ParseError struct {
	Message  string
	Expected string
	Pos      ast.Position
	Symbol   rune
}

func (e *ParseError) Error() string {
	msg := e.Pos.String() + ": " + e.Message
	if e.Expected != "" {
		msg += fmt.Sprintf(" (expected %s, got %s)", e.Expected, e.SymbolString())
	} else {
		msg += fmt.Sprintf(" (got %s)", e.SymbolString())
	}
	return msg
}

// SymbolString renders the offending symbol, or <eof> at the end of input.
func (e *ParseError) SymbolString() string {
	switch {
	case e.Symbol == EOF:
		return "<eof>"
	case e.Symbol == '\n':
		return `'\n'`
	case e.Symbol < 0x20 || e.Symbol >= 0x7f:
		return fmt.Sprintf("%q", e.Symbol)
	}
	return "'" + string(e.Symbol) + "'"
}
