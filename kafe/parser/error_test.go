package parser

import (
	"testing"

	"github.com/dhamidi/kafe/kafe/ast"
)

func TestParseErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *ParseError
		want string
	}{
		{
			"with expectation",
			&ParseError{Message: "bad type name", Expected: "type name", Pos: ast.Position{File: "a.kafe", Line: 2, Column: 5}, Symbol: '1'},
			"a.kafe:2:5: bad type name (expected type name, got '1')",
		},
		{
			"at end of input",
			&ParseError{Message: "unterminated class Foo", Expected: "'end'", Pos: ast.Position{Line: 9, Column: 1}, Symbol: EOF},
			"9:1: unterminated class Foo (expected 'end', got <eof>)",
		},
		{
			"without expectation",
			&ParseError{Message: "oops", Pos: ast.Position{Line: 1, Column: 1}, Symbol: '\n'},
			`1:1: oops (got '\n')`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSymbolString(t *testing.T) {
	tests := []struct {
		sym  rune
		want string
	}{
		{'a', "'a'"},
		{EOF, "<eof>"},
		{'\n', `'\n'`},
		{'\t', `'\t'`},
	}

	for _, tt := range tests {
		e := &ParseError{Symbol: tt.sym}
		if got := e.SymbolString(); got != tt.want {
			t.Errorf("SymbolString(%d) = %s, want %s", tt.sym, got, tt.want)
		}
	}
}
