package ast

import "fmt"

// Position is a location in a source file. Line and Column are 1-based,
// Offset is the 0-based byte offset. Columns count bytes, not runes.
type Position struct {
	File   string
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	if p.File != "" {
		return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// IsValid reports whether the position was set by the parser.
func (p Position) IsValid() bool {
	return p.Line > 0
}

// Loc records where a node's rule started. Every node embeds one.
type Loc struct {
	Pos Position
}

func (l Loc) Start() Position {
	return l.Pos
}

// At returns a Loc for pos.
func At(pos Position) Loc {
	return Loc{Pos: pos}
}
