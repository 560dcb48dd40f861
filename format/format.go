// Package format renders parsed kafe programs and parse failures.
package format

import (
	"encoding"
	"fmt"
	"io"

	"github.com/dhamidi/kafe/kafe/ast"
)

type Encoder interface {
	encoding.TextMarshaler
	Encode(prog *ast.Program) error
}

// Names lists the encoders New accepts.
var Names = []string{"tree", "json", "line"}

// New returns the encoder called name writing to w.
func New(name string, w io.Writer) (Encoder, error) {
	switch name {
	case "tree":
		return NewTreeEncoder(w), nil
	case "json":
		return NewASTJSONEncoder(w), nil
	case "line":
		return NewLineEncoder(w), nil
	}
	return nil, fmt.Errorf("unknown format %q (want one of %v)", name, Names)
}
