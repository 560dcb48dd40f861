package parser

import (
	"strings"

	"github.com/dhamidi/kafe/kafe/ast"
)

// EOF is the symbol reported once the whole input has been consumed.
const EOF rune = -1

// Cursor walks the input one byte at a time and can move backwards to any
// earlier offset, which is what lets grammar rules try an alternative and
// give it up without a separate tokenizer.
type Cursor struct {
	input  []byte
	file   string
	offset int
	row    int
	col    int
	sym    rune
}

func NewCursor(input []byte, file string) *Cursor {
	c := &Cursor{
		input: input,
		file:  file,
		row:   1,
		col:   1,
	}
	c.load()
	return c
}

func (c *Cursor) load() {
	if c.offset >= len(c.input) {
		c.sym = EOF
		return
	}
	c.sym = rune(c.input[c.offset])
}

func (c *Cursor) Symbol() rune {
	return c.sym
}

func (c *Cursor) Offset() int {
	return c.offset
}

func (c *Cursor) AtEnd() bool {
	return c.sym == EOF
}

func (c *Cursor) Position() ast.Position {
	return ast.Position{
		File:   c.file,
		Offset: c.offset,
		Line:   c.row,
		Column: c.col,
	}
}

// Advance consumes the current symbol.
func (c *Cursor) Advance() {
	if c.sym == EOF {
		return
	}
	if c.sym == '\n' {
		c.row++
		c.col = 1
	} else if IsPrint.Match(c.sym) {
		c.col++
	}
	c.offset++
	c.load()
}

// Accept consumes the current symbol if pred matches it, appending it to
// out when out is not nil. On a mismatch nothing changes.
func (c *Cursor) Accept(pred CharPred, out *strings.Builder) bool {
	if !pred.Match(c.sym) {
		return false
	}
	if out != nil {
		out.WriteByte(byte(c.sym))
	}
	c.Advance()
	return true
}

// Expect is Accept for committed rules: a mismatch is a ParseError.
func (c *Cursor) Expect(pred CharPred, out *strings.Builder) error {
	if !c.Accept(pred, out) {
		return c.Errorf(pred.Name, "unexpected symbol")
	}
	return nil
}

// Errorf builds a ParseError at the current position.
func (c *Cursor) Errorf(expected, message string) *ParseError {
	return &ParseError{
		Message:  message,
		Expected: expected,
		Pos:      c.Position(),
		Symbol:   c.sym,
	}
}

// Mark returns the current offset, for use with Reset.
func (c *Cursor) Mark() int {
	return c.offset
}

// Reset moves the cursor back to a mark taken earlier.
func (c *Cursor) Reset(mark int) {
	c.Rewind(c.offset - mark)
}

// Rewind moves back n bytes, clamping at the start of the input. The row is
// recomputed from the newlines given back and the column by scanning back to
// the previous newline.
func (c *Cursor) Rewind(n int) {
	if n <= 0 {
		return
	}
	target := c.offset - n
	if target < 0 {
		target = 0
	}
	for i := target; i < c.offset && i < len(c.input); i++ {
		if c.input[i] == '\n' {
			c.row--
		}
	}
	c.offset = target

	lineStart := target
	for lineStart > 0 && c.input[lineStart-1] != '\n' {
		lineStart--
	}
	c.col = 1
	for i := lineStart; i < target; i++ {
		if IsPrint.Match(rune(c.input[i])) {
			c.col++
		}
	}
	c.load()
}

// Space consumes a run of whitespace, newlines included.
func (c *Cursor) Space() bool {
	if !c.Accept(IsSpace, nil) {
		return false
	}
	for c.Accept(IsSpace, nil) {
	}
	return true
}

// InlineSpace consumes whitespace up to, but not including, a newline.
func (c *Cursor) InlineSpace() bool {
	if !c.Accept(isInlineSp, nil) {
		return false
	}
	for c.Accept(isInlineSp, nil) {
	}
	return true
}

// EndOfLine consumes an optional carriage return followed by a newline.
func (c *Cursor) EndOfLine() bool {
	mark := c.Mark()
	c.Accept(IsChar('\r'), nil)
	if c.Accept(isNewline, nil) {
		return true
	}
	c.Reset(mark)
	return false
}

// LineComment consumes `//` and everything up to the end of the line. The
// newline itself is left in place.
func (c *Cursor) LineComment() bool {
	mark := c.Mark()
	if !c.Accept(IsChar('/'), nil) || !c.Accept(IsChar('/'), nil) {
		c.Reset(mark)
		return false
	}
	for c.Accept(Not(isNewline), nil) {
	}
	return true
}

// Number consumes a run of digits.
func (c *Cursor) Number(out *strings.Builder) bool {
	if !c.Accept(IsDigit, out) {
		return false
	}
	for c.Accept(IsDigit, out) {
	}
	return true
}

// SignedNumber consumes an optional minus followed by digits. A lone minus
// is given back.
func (c *Cursor) SignedNumber(out *strings.Builder) bool {
	mark := c.Mark()
	var buf strings.Builder
	c.Accept(IsMinus, &buf)
	if !c.Number(&buf) {
		c.Reset(mark)
		return false
	}
	if out != nil {
		out.WriteString(buf.String())
	}
	return true
}

// Name consumes an identifier: a letter, then letters, digits and
// underscores.
func (c *Cursor) Name(out *strings.Builder) bool {
	if !c.Accept(IsAlpha, out) {
		return false
	}
	for c.Accept(isIdentTail, out) {
	}
	return true
}
