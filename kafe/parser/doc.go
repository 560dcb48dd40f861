// Package parser turns kafe source text into an ast.Program.
//
// # Overview
//
// The parser works directly on bytes. There is no separate lexer: a Cursor
// walks the input one symbol at a time, tracking row and column, and the
// grammar rules consume symbols through CharPred tests.
//
//	┌─────────────┐     ┌─────────────┐     ┌─────────────┐
//	│   Input     │────▶│   Cursor    │────▶│   Grammar   │
//	│  (bytes)    │     │ (mark/reset)│     │  (ast.Node) │
//	└─────────────┘     └─────────────┘     └─────────────┘
//
// # Backtracking
//
// Every rule records the cursor offset when it starts. A rule that does not
// match returns a nil node and a nil error after resetting the cursor, and
// the caller tries the next alternative:
//
//	mark := p.cur.Mark()
//	name, ok := p.ident()
//	if !ok || !p.cur.Accept(isColon, nil) {
//	    p.cur.Reset(mark)
//	    return nil, nil
//	}
//
// Once a keyword or punctuation commits the input to a construct, a
// mismatch is reported as a *ParseError instead. The first hard error ends
// the parse; no partial tree is returned.
//
// # Grammar
//
//	program     = { instruction } ;
//	instruction = declaration | constant | assignment | if | while
//	            | function | class | constructor | ret | call ;
//	declaration = name ":" type [ "=" exp ] ;
//	constant    = "cst" name ":" type "=" exp ;
//	assignment  = name [ "+" | "-" | "*" | "/" | "<<" ] "=" exp ;
//	if          = "if" exp "then" block { "elif" exp "then" block } [ "else" block ] "end" ;
//	while       = "while" exp "do" block "end" ;
//	function    = "fun" name "(" params ")" "->" type block "end" ;
//	class       = "cls" name NEWLINE { instruction } "end" ;
//	constructor = "new" name "(" params ")" block "end" ;
//	ret         = "ret" exp ;
//	exp         = instantiation | operation ;
//	operation   = [ prefix ] single { infix [ prefix ] single } ;
//	single      = "(" exp ")" | float | integer | string | bool
//	            | instantiation | name "(" args ")" | name "." name "(" args ")" | name ;
//
// Operations are kept as a flat list in source order. Precedence is left to
// a later pass.
//
// # Whitespace
//
// Spaces and tabs separate tokens on a line. Newlines separate
// instructions, except inside parentheses and argument lists where an
// expression may span lines. Comments start with // and run to the end of
// the line.
package parser
