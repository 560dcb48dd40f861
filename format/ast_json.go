package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/kafe/kafe/ast"
)

type ASTJSONEncoder struct {
	w    io.Writer
	prog *ast.Program
}

func NewASTJSONEncoder(w io.Writer) *ASTJSONEncoder {
	return &ASTJSONEncoder{w: w}
}

func (e *ASTJSONEncoder) Encode(prog *ast.Program) error {
	e.prog = prog
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	text = append(text, '\n')
	_, err = e.w.Write(text)
	return err
}

func (e *ASTJSONEncoder) MarshalText() ([]byte, error) {
	return json.MarshalIndent(ast.JSON(e.prog), "", "  ")
}
