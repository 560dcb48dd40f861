package format

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/dhamidi/kafe/kafe/golden"
	"github.com/dhamidi/kafe/kafe/parser"
)

const sample = `cst limit: int = 10
cls Point
  x: int
  new Point(x0: int)
    x = x0
  end
  fun norm() -> int
    ret x
  end
end
fun main() -> int
  p: Point = new Point(1)
  ret p.norm()
end
`

func TestNew(t *testing.T) {
	for _, name := range Names {
		if _, err := New(name, &bytes.Buffer{}); err != nil {
			t.Errorf("New(%q): %v", name, err)
		}
	}
	if _, err := New("xml", &bytes.Buffer{}); err == nil {
		t.Error("New(xml) should fail")
	}
}

func TestTreeEncoder(t *testing.T) {
	prog, err := parser.Parse("x: int = 1\nf(x)\n")
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := NewTreeEncoder(&buf).Encode(prog); err != nil {
		t.Fatal(err)
	}
	want := "(Definition (VarName x) (Type int) (Integer 1))\n(FunctionCall (Name f) (Args (VarUse x)))\n"
	if buf.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestASTJSONEncoder(t *testing.T) {
	prog, err := parser.Parse(sample)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := NewASTJSONEncoder(&buf).Encode(prog); err != nil {
		t.Fatal(err)
	}

	var doc struct {
		Kind  string `json:"kind"`
		Lists map[string][]struct {
			Kind   string            `json:"kind"`
			Fields map[string]string `json:"fields"`
		} `json:"lists"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	insts := doc.Lists["Instructions"]
	if doc.Kind != "Program" || len(insts) != 3 {
		t.Fatalf("got kind %q with %d instructions", doc.Kind, len(insts))
	}
	if insts[1].Kind != "Class" || insts[1].Fields["Name"] != "Point" {
		t.Errorf("second instruction = %+v", insts[1])
	}
}

func TestLineEncoder(t *testing.T) {
	prog, err := parser.Parse(sample)
	if err != nil {
		t.Fatal(err)
	}
	text, err := (&LineEncoder{prog: prog}).MarshalText()
	if err != nil {
		t.Fatal(err)
	}
	want := strings.Join([]string{
		"cst\tlimit\tint\t1:1",
		"cls\tPoint\t\t2:1",
		"new\tPoint.Point\t(x0: int)\t4:3",
		"var\tPoint.x\tint\t3:3",
		"fun\tPoint.norm\t() -> int\t7:3",
		"fun\tmain\t() -> int\t11:1",
	}, "\n") + "\n"
	if string(text) != want {
		t.Errorf("got:\n%s\nwant:\n%s", text, want)
	}
}

func TestDiagnosticEncoder(t *testing.T) {
	src := "x: int\ny: int = \n"
	_, err := parser.Parse(src, parser.WithFile("t.kafe"))
	if err == nil {
		t.Fatal("expected parse error")
	}

	var buf bytes.Buffer
	if err := NewDiagnosticEncoder(&buf).Encode(err, []byte(src)); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"t.kafe:2:10:", "missing value of y", "expected expression, got '\\n'", "y: int = ", "^"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4:\n%s", len(lines), out)
	}
	if strings.Index(lines[3], "^") != strings.Index(lines[2], "y")+9 {
		t.Errorf("caret misplaced:\n%s\n%s", lines[2], lines[3])
	}
}

func TestDiagnosticEncoderPlainError(t *testing.T) {
	var buf bytes.Buffer
	if err := NewDiagnosticEncoder(&buf).Encode(errors.New("boom"), nil); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "boom") {
		t.Errorf("got %q", buf.String())
	}
}

func TestCaretPadding(t *testing.T) {
	tests := []struct {
		line string
		col  int
		want string
	}{
		{"abc", 1, ""},
		{"abc", 3, "  "},
		{"\tab", 3, "\t "},
		{"a", 4, "   "},
	}
	for _, tt := range tests {
		if got := caretPadding(tt.line, tt.col); got != tt.want {
			t.Errorf("caretPadding(%q, %d) = %q, want %q", tt.line, tt.col, got, tt.want)
		}
	}
}

func TestEncodeSummary(t *testing.T) {
	s := &golden.Summary{Results: []golden.Result{
		{Path: "a.kafe", Status: golden.Passed},
		{Path: "b.kafe", Status: golden.Failed, Expected: "(Integer 1)", Actual: "(Integer 2)", Line: 1},
		{Path: "c.kafe", Status: golden.Missing, Actual: "(Bool true)\n"},
	}}
	var buf bytes.Buffer
	if err := NewDiagnosticEncoder(&buf).EncodeSummary(s); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"Test 'b.kafe' (1) failed at line 1",
		"expected: (Integer 1)",
		"actual:   (Integer 2)",
		"Test 'c.kafe' (2) has no expected file",
		"(Bool true)",
		"Tests passed: 1/3",
		"Tests failed: 2/3",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestTreeEncoderEncodeNode(t *testing.T) {
	n, err := parser.ParseExpression("f(1) + 2")
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := NewTreeEncoder(&buf).EncodeNode(n); err != nil {
		t.Fatal(err)
	}
	want := "(OperationsList\n  (FunctionCall (Name f) (Args (Integer 1)))\n  (Operator +)\n  (Integer 2))\n"
	if buf.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}
