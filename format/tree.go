package format

import (
	"io"

	"github.com/dhamidi/kafe/kafe/ast"
)

// TreeEncoder writes the canonical serialization, the form golden files
// hold.
type TreeEncoder struct {
	w    io.Writer
	prog *ast.Program
}

func NewTreeEncoder(w io.Writer) *TreeEncoder {
	return &TreeEncoder{w: w}
}

func (e *TreeEncoder) Encode(prog *ast.Program) error {
	e.prog = prog
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *TreeEncoder) MarshalText() ([]byte, error) {
	if e.prog == nil {
		return nil, nil
	}
	return []byte(ast.Sprint(e.prog)), nil
}

// EncodeNode writes the serialization of a single node on its own line.
func (e *TreeEncoder) EncodeNode(n ast.Node) error {
	_, err := io.WriteString(e.w, ast.Sprint(n)+"\n")
	return err
}
