package codebase

import (
	"github.com/dhamidi/kafe/kafe/ast"
)

type SymbolKind int

const (
	SymbolVariable SymbolKind = iota
	SymbolConstant
	SymbolFunction
	SymbolClass
	SymbolConstructor
	SymbolMethod
	SymbolField
)

var symbolKindNames = map[SymbolKind]string{
	SymbolVariable:    "variable",
	SymbolConstant:    "constant",
	SymbolFunction:    "function",
	SymbolClass:       "class",
	SymbolConstructor: "constructor",
	SymbolMethod:      "method",
	SymbolField:       "field",
}

func (k SymbolKind) String() string {
	if name, ok := symbolKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Symbol is a named definition in a program.
type Symbol struct {
	Name     string
	Kind     SymbolKind
	Detail   string
	Pos      ast.Position
	Children []Symbol
}

// Symbols lists the top-level definitions of prog. Classes carry their
// constructor and members as children.
func Symbols(prog *ast.Program) []Symbol {
	var out []Symbol
	for _, inst := range prog.Instructions {
		if s, ok := symbolOf(inst, false); ok {
			out = append(out, s)
		}
	}
	return out
}

func symbolOf(n ast.Node, member bool) (Symbol, bool) {
	switch n := n.(type) {
	case *ast.Declaration:
		return Symbol{Name: n.VarName, Kind: variableKind(member), Detail: n.Type, Pos: n.Start()}, true
	case *ast.Definition:
		return Symbol{Name: n.VarName, Kind: variableKind(member), Detail: n.Type, Pos: n.Start()}, true
	case *ast.ConstDef:
		return Symbol{Name: n.VarName, Kind: SymbolConstant, Detail: n.Type, Pos: n.Start()}, true
	case *ast.Function:
		kind := SymbolFunction
		if member {
			kind = SymbolMethod
		}
		return Symbol{Name: n.Name, Kind: kind, Detail: n.Signature(), Pos: n.Start()}, true
	case *ast.ClassConstructor:
		return Symbol{Name: n.Name, Kind: SymbolConstructor, Detail: n.Signature(), Pos: n.Start()}, true
	case *ast.Class:
		s := Symbol{Name: n.Name, Kind: SymbolClass, Pos: n.Start()}
		if n.Constructor != nil {
			ctor, _ := symbolOf(n.Constructor, true)
			s.Children = append(s.Children, ctor)
		}
		for _, m := range n.Body {
			if child, ok := symbolOf(m, true); ok {
				s.Children = append(s.Children, child)
			}
		}
		return s, true
	}
	return Symbol{}, false
}

func variableKind(member bool) SymbolKind {
	if member {
		return SymbolField
	}
	return SymbolVariable
}

func flatten(syms []Symbol) []Symbol {
	var out []Symbol
	for _, s := range syms {
		out = append(out, s)
		out = append(out, flatten(s.Children)...)
	}
	return out
}
