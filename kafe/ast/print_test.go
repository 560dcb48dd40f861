package ast

import (
	"bytes"
	"testing"
)

func ints(vs ...int64) []Node {
	out := make([]Node, len(vs))
	for i, v := range vs {
		out[i] = &Integer{Value: v}
	}
	return out
}

func TestSprint(t *testing.T) {
	tests := []struct {
		name string
		node Node
		want string
	}{
		{"integer", &Integer{Value: -3}, "(Integer -3)"},
		{"integral float", &Float{Value: 2}, "(Float 2.0)"},
		{"float", &Float{Value: 0.25}, "(Float 0.25)"},
		{"string", &String{Value: "a\"b\n"}, `(String "a\"b\n")`},
		{"bool", &Bool{Value: false}, "(Bool false)"},
		{"operator", &Operator{Symbol: "<<"}, "(Operator <<)"},
		{"empty call", &FunctionCall{Name: "f"}, "(FunctionCall (Name f) (Args ()))"},
		{
			"method call",
			&MethodCall{Receiver: "o", Name: "m", Args: ints(1, 2)},
			"(MethodCall (Receiver o) (Name m) (Args (Integer 1) (Integer 2)))",
		},
		{
			"plain assignment",
			&Assignment{VarName: "x", Value: &VarUse{Name: "y"}},
			"(Assignment (VarName x) (VarUse y))",
		},
		{
			"compound assignment",
			&Assignment{VarName: "x", Op: "*", Value: &Integer{Value: 2}},
			"(Assignment (VarName x) (Op *) (Integer 2))",
		},
		{
			"nested call",
			&FunctionCall{Name: "f", Args: []Node{&FunctionCall{Name: "g", Args: ints(1)}, &Integer{Value: 2}}},
			"(FunctionCall (Name f)\n" +
				"  (Args\n" +
				"    (FunctionCall (Name g) (Args (Integer 1)))\n" +
				"    (Integer 2)))",
		},
		{
			"class",
			&Class{
				Name:        "Foo",
				Constructor: &ClassConstructor{Name: "Foo"},
				Body:        []Node{&Declaration{VarName: "x", Type: "int"}},
			},
			"(Class (Name Foo) (ClassConstructor (Name Foo) (Args ()) (Body ())) (Body (Declaration (VarName x) (Type int))))",
		},
		{
			"if with elif",
			&IfClause{
				Condition: &VarUse{Name: "a"},
				Elifs: []*IfClause{
					{Condition: &VarUse{Name: "b"}, Body: []Node{&Ret{Value: &Integer{Value: 1}}}},
				},
			},
			"(IfClause\n" +
				"  (VarUse a)\n" +
				"  (Body ())\n" +
				"  (Elifs\n" +
				"    (IfClause\n" +
				"      (VarUse b)\n" +
				"      (Body\n" +
				"        (Ret (Integer 1)))\n" +
				"      (Elifs ())\n" +
				"      (Else ())))\n" +
				"  (Else ()))",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sprint(tt.node); got != tt.want {
				t.Errorf("got:\n%s\nwant:\n%s", got, tt.want)
			}
		})
	}
}

func TestSprintProgram(t *testing.T) {
	prog := &Program{Instructions: []Node{
		&Declaration{VarName: "x", Type: "int"},
		&FunctionCall{Name: "f", Args: ints(1)},
	}}
	want := "(Declaration (VarName x) (Type int))\n(FunctionCall (Name f) (Args (Integer 1)))\n"
	if got := Sprint(prog); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
	if got := Sprint(&Program{}); got != "" {
		t.Errorf("empty program = %q, want empty", got)
	}
}

func TestFprint(t *testing.T) {
	var buf bytes.Buffer
	if err := Fprint(&buf, &Ret{Value: &Bool{Value: true}}); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "(Ret (Bool true))" {
		t.Errorf("got %q", buf.String())
	}
}
