// Package ast defines the syntax tree produced by the kafe parser and its
// canonical textual form.
//
// The node set is closed: every concrete type in this package implements
// Node, and no type outside it can. Trees are strictly hierarchical; a
// parent owns its children and nothing is shared.
package ast

import "strings"

type NodeKind int

const (
	KindProgram NodeKind = iota

	// Instructions
	KindDeclaration
	KindDefinition
	KindConstDef
	KindAssignment
	KindFunction
	KindClassConstructor
	KindClass
	KindIfClause
	KindWhileLoop
	KindRet

	// Expressions
	KindInteger
	KindFloat
	KindString
	KindBool
	KindVarUse
	KindOperator
	KindOperationsList
	KindFunctionCall
	KindMethodCall
	KindClassInstanciation

	// Sentinels, never retained in a finished tree
	KindEnd
	KindElif
	KindElse
)

var nodeKindNames = map[NodeKind]string{
	KindProgram:            "Program",
	KindDeclaration:        "Declaration",
	KindDefinition:         "Definition",
	KindConstDef:           "ConstDef",
	KindAssignment:         "Assignment",
	KindFunction:           "Function",
	KindClassConstructor:   "ClassConstructor",
	KindClass:              "Class",
	KindIfClause:           "IfClause",
	KindWhileLoop:          "WhileLoop",
	KindRet:                "Ret",
	KindInteger:            "Integer",
	KindFloat:              "Float",
	KindString:             "String",
	KindBool:               "Bool",
	KindVarUse:             "VarUse",
	KindOperator:           "Operator",
	KindOperationsList:     "OperationsList",
	KindFunctionCall:       "FunctionCall",
	KindMethodCall:         "MethodCall",
	KindClassInstanciation: "ClassInstanciation",
	KindEnd:                "End",
	KindElif:               "Elif",
	KindElse:               "Else",
}

func (k NodeKind) String() string {
	if name, ok := nodeKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// IsSentinel reports whether k only exists to terminate a block.
func (k NodeKind) IsSentinel() bool {
	return k == KindEnd || k == KindElif || k == KindElse
}

// Node is implemented by every syntax tree node.
type Node interface {
	Kind() NodeKind
	Start() Position
	node()
}

type Program struct {
	Loc
	Instructions []Node
}

// Declaration is `varname: type`.
type Declaration struct {
	Loc
	VarName string
	Type    string
}

// Definition is `varname: type = value`.
type Definition struct {
	Loc
	VarName string
	Type    string
	Value   Node
}

// ConstDef is `cst varname: type = value`.
type ConstDef struct {
	Loc
	VarName string
	Type    string
	Value   Node
}

// Assignment is `varname op= value`. Op is empty for a plain `=`.
type Assignment struct {
	Loc
	VarName string
	Op      string
	Value   Node
}

type Function struct {
	Loc
	Name       string
	Args       []*Declaration
	ReturnType string
	Body       []Node
}

// Signature renders the parameter list and return type, as in
// `(a: int, b: int) -> int`.
func (f *Function) Signature() string {
	return params(f.Args) + " -> " + f.ReturnType
}

type ClassConstructor struct {
	Loc
	Name string
	Args []*Declaration
	Body []Node
}

func (c *ClassConstructor) Signature() string {
	return params(c.Args)
}

func params(args []*Declaration) string {
	var b strings.Builder
	b.WriteByte('(')
	for i, a := range args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(a.VarName)
		b.WriteString(": ")
		b.WriteString(a.Type)
	}
	b.WriteByte(')')
	return b.String()
}

// Class always has exactly one constructor.
type Class struct {
	Loc
	Name        string
	Constructor *ClassConstructor
	Body        []Node
}

// IfClause is a conditional. Elifs holds the chained conditions in source
// order; each of them has empty Elifs and Else of its own.
type IfClause struct {
	Loc
	Condition Node
	Body      []Node
	Elifs     []*IfClause
	Else      []Node
}

type WhileLoop struct {
	Loc
	Condition Node
	Body      []Node
}

type Ret struct {
	Loc
	Value Node
}

type Integer struct {
	Loc
	Value int64
}

type Float struct {
	Loc
	Value float64
}

type String struct {
	Loc
	Value string
}

type Bool struct {
	Loc
	Value bool
}

type VarUse struct {
	Loc
	Name string
}

type Operator struct {
	Loc
	Symbol string
}

// OperationsList is an operator/operand sequence kept in surface order.
// Precedence and associativity are resolved by a later pass.
type OperationsList struct {
	Loc
	Items []Node
}

type FunctionCall struct {
	Loc
	Name string
	Args []Node
}

type MethodCall struct {
	Loc
	Receiver string
	Name     string
	Args     []Node
}

type ClassInstanciation struct {
	Loc
	ClassName string
	Args      []Node
}

// End terminates a block.
type End struct{ Loc }

// Elif ends the current branch of an if clause and opens a new condition.
type Elif struct{ Loc }

// Else ends the current branch of an if clause and opens the fallback body.
type Else struct{ Loc }

func (*Program) Kind() NodeKind            { return KindProgram }
func (*Declaration) Kind() NodeKind        { return KindDeclaration }
func (*Definition) Kind() NodeKind         { return KindDefinition }
func (*ConstDef) Kind() NodeKind           { return KindConstDef }
func (*Assignment) Kind() NodeKind         { return KindAssignment }
func (*Function) Kind() NodeKind           { return KindFunction }
func (*ClassConstructor) Kind() NodeKind   { return KindClassConstructor }
func (*Class) Kind() NodeKind              { return KindClass }
func (*IfClause) Kind() NodeKind           { return KindIfClause }
func (*WhileLoop) Kind() NodeKind          { return KindWhileLoop }
func (*Ret) Kind() NodeKind                { return KindRet }
func (*Integer) Kind() NodeKind            { return KindInteger }
func (*Float) Kind() NodeKind              { return KindFloat }
func (*String) Kind() NodeKind             { return KindString }
func (*Bool) Kind() NodeKind               { return KindBool }
func (*VarUse) Kind() NodeKind             { return KindVarUse }
func (*Operator) Kind() NodeKind           { return KindOperator }
func (*OperationsList) Kind() NodeKind     { return KindOperationsList }
func (*FunctionCall) Kind() NodeKind       { return KindFunctionCall }
func (*MethodCall) Kind() NodeKind         { return KindMethodCall }
func (*ClassInstanciation) Kind() NodeKind { return KindClassInstanciation }
func (*End) Kind() NodeKind                { return KindEnd }
func (*Elif) Kind() NodeKind               { return KindElif }
func (*Else) Kind() NodeKind               { return KindElse }

func (*Program) node()            {}
func (*Declaration) node()        {}
func (*Definition) node()         {}
func (*ConstDef) node()           {}
func (*Assignment) node()         {}
func (*Function) node()           {}
func (*ClassConstructor) node()   {}
func (*Class) node()              {}
func (*IfClause) node()           {}
func (*WhileLoop) node()          {}
func (*Ret) node()                {}
func (*Integer) node()            {}
func (*Float) node()              {}
func (*String) node()             {}
func (*Bool) node()               {}
func (*VarUse) node()             {}
func (*Operator) node()           {}
func (*OperationsList) node()     {}
func (*FunctionCall) node()       {}
func (*MethodCall) node()         {}
func (*ClassInstanciation) node() {}
func (*End) node()                {}
func (*Elif) node()               {}
func (*Else) node()               {}

// IsCall reports whether n is a function or method call, the only
// expressions allowed to stand alone as an instruction.
func IsCall(n Node) bool {
	switch n.(type) {
	case *FunctionCall, *MethodCall:
		return true
	}
	return false
}
