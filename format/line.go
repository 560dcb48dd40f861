package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/kafe/kafe/ast"
)

// LineEncoder writes one tab-separated line per named definition:
// kind, name, detail and position. Class members are qualified with the
// class name.
type LineEncoder struct {
	w    io.Writer
	prog *ast.Program
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) Encode(prog *ast.Program) error {
	e.prog = prog
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *LineEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	if e.prog != nil {
		for _, inst := range e.prog.Instructions {
			e.writeNode(&sb, "", inst)
		}
	}
	return []byte(sb.String()), nil
}

func (e *LineEncoder) writeNode(sb *strings.Builder, prefix string, n ast.Node) {
	switch n := n.(type) {
	case *ast.Declaration:
		e.writeLine(sb, "var", prefix+n.VarName, n.Type, n.Start())
	case *ast.Definition:
		e.writeLine(sb, "var", prefix+n.VarName, n.Type, n.Start())
	case *ast.ConstDef:
		e.writeLine(sb, "cst", prefix+n.VarName, n.Type, n.Start())
	case *ast.Function:
		e.writeLine(sb, "fun", prefix+n.Name, n.Signature(), n.Start())
	case *ast.ClassConstructor:
		e.writeLine(sb, "new", prefix+n.Name, n.Signature(), n.Start())
	case *ast.Class:
		e.writeLine(sb, "cls", prefix+n.Name, "", n.Start())
		member := prefix + n.Name + "."
		if n.Constructor != nil {
			e.writeNode(sb, member, n.Constructor)
		}
		for _, m := range n.Body {
			e.writeNode(sb, member, m)
		}
	}
}

func (e *LineEncoder) writeLine(sb *strings.Builder, kind, name, detail string, pos ast.Position) {
	fmt.Fprintf(sb, "%s\t%s\t%s\t%d:%d\n", kind, name, detail, pos.Line, pos.Column)
}
