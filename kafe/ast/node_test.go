package ast

import "testing"

func TestNodeKindString(t *testing.T) {
	tests := []struct {
		kind NodeKind
		want string
	}{
		{KindProgram, "Program"},
		{KindConstDef, "ConstDef"},
		{KindOperationsList, "OperationsList"},
		{KindClassInstanciation, "ClassInstanciation"},
		{KindElse, "Else"},
		{NodeKind(999), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("NodeKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestNodeKinds(t *testing.T) {
	nodes := []Node{
		&Program{}, &Declaration{}, &Definition{}, &ConstDef{}, &Assignment{},
		&Function{}, &ClassConstructor{}, &Class{}, &IfClause{}, &WhileLoop{},
		&Ret{}, &Integer{}, &Float{}, &String{}, &Bool{}, &VarUse{}, &Operator{},
		&OperationsList{}, &FunctionCall{}, &MethodCall{}, &ClassInstanciation{},
		&End{}, &Elif{}, &Else{},
	}
	seen := make(map[NodeKind]bool)
	for _, n := range nodes {
		k := n.Kind()
		if seen[k] {
			t.Errorf("kind %v reported twice", k)
		}
		seen[k] = true
		if k.String() == "Unknown" {
			t.Errorf("%T has no kind name", n)
		}
	}
	if len(seen) != len(nodeKindNames) {
		t.Errorf("got %d kinds, want %d", len(seen), len(nodeKindNames))
	}
}

func TestIsSentinel(t *testing.T) {
	for k := range nodeKindNames {
		want := k == KindEnd || k == KindElif || k == KindElse
		if k.IsSentinel() != want {
			t.Errorf("%v.IsSentinel() = %v, want %v", k, !want, want)
		}
	}
}

func TestIsCall(t *testing.T) {
	tests := []struct {
		node Node
		want bool
	}{
		{&FunctionCall{Name: "f"}, true},
		{&MethodCall{Receiver: "o", Name: "m"}, true},
		{&ClassInstanciation{ClassName: "C"}, false},
		{&VarUse{Name: "x"}, false},
		{&OperationsList{}, false},
	}

	for _, tt := range tests {
		if got := IsCall(tt.node); got != tt.want {
			t.Errorf("IsCall(%T) = %v, want %v", tt.node, got, tt.want)
		}
	}
}

func TestPosition(t *testing.T) {
	pos := Position{File: "a.kafe", Offset: 10, Line: 2, Column: 4}
	if pos.String() != "a.kafe:2:4" {
		t.Errorf("String() = %q", pos.String())
	}
	pos.File = ""
	if pos.String() != "2:4" {
		t.Errorf("String() without file = %q", pos.String())
	}
	if (Position{}).IsValid() {
		t.Error("zero position should not be valid")
	}
	n := &VarUse{Loc: At(pos), Name: "x"}
	if n.Start() != pos {
		t.Errorf("Start() = %v, want %v", n.Start(), pos)
	}
}

func TestSignature(t *testing.T) {
	fn := &Function{
		Name:       "add",
		Args:       []*Declaration{{VarName: "a", Type: "int"}, {VarName: "b", Type: "float"}},
		ReturnType: "float",
	}
	if got := fn.Signature(); got != "(a: int, b: float) -> float" {
		t.Errorf("Function.Signature() = %q", got)
	}
	ctor := &ClassConstructor{Name: "Foo"}
	if got := ctor.Signature(); got != "()" {
		t.Errorf("ClassConstructor.Signature() = %q", got)
	}
}
