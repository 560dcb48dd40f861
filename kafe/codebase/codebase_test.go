package codebase

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/kafe/project"
)

const pointSrc = `cst origin: int = 0
cls Point
  x: int
  new Point(x0: int)
    x = x0
  end
  fun shifted(d: int) -> Point
    ret new Point(x + d)
  end
end
fun main() -> int
  p: Point = new Point(origin)
  ret 0
end
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestSymbols(t *testing.T) {
	c := New(project.Default(t.TempDir()))
	info := c.UpdateFile("point.kafe", []byte(pointSrc))
	if info.ParseErr != nil {
		t.Fatalf("parse: %v", info.ParseErr)
	}

	type sym struct {
		name   string
		kind   SymbolKind
		detail string
		line   int
	}
	var got []sym
	for _, s := range flatten(info.Symbols) {
		got = append(got, sym{s.Name, s.Kind, s.Detail, s.Pos.Line})
	}
	want := []sym{
		{"origin", SymbolConstant, "int", 1},
		{"Point", SymbolClass, "", 2},
		{"Point", SymbolConstructor, "(x0: int)", 4},
		{"x", SymbolField, "int", 3},
		{"shifted", SymbolMethod, "(d: int) -> Point", 7},
		{"main", SymbolFunction, "() -> int", 11},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got  %v\nwant %v", got, want)
	}
}

func TestCodebaseFiles(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "src", "good.kafe")
	bad := filepath.Join(dir, "src", "bad.kafe")
	writeFile(t, good, "fun f() -> int\n  ret 1\nend\n")
	writeFile(t, bad, "1 + 2\n")
	writeFile(t, filepath.Join(dir, "README.md"), "# not kafe")

	c := New(project.Default(dir))
	if err := c.ScanDir(dir); err != nil {
		t.Fatal(err)
	}
	if got := c.Files(); !reflect.DeepEqual(got, []string{bad, good}) {
		t.Errorf("Files() = %v", got)
	}
	errs := c.Errors()
	if len(errs) != 1 || errs[0].Path != bad || errs[0].Program != nil {
		t.Fatalf("Errors() = %+v", errs)
	}

	locs := c.FindSymbol(bad, "f")
	if len(locs) != 1 || locs[0].Path != good || locs[0].Symbol.Kind != SymbolFunction {
		t.Errorf("FindSymbol(f) = %+v", locs)
	}

	c.RemoveFile(bad)
	if c.GetFile(bad) != nil || len(c.Errors()) != 0 {
		t.Error("bad file still present after RemoveFile")
	}
}

func TestCodebaseOpenBufferWins(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.kafe")
	writeFile(t, path, "x: int\n")

	c := New(project.Default(dir))
	c.Open(path, []byte("y: int\n"))
	info, err := c.ScanFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(info.Content) != "y: int\n" {
		t.Errorf("ScanFile replaced the open buffer with %q", info.Content)
	}

	c.Close(path)
	if got := string(c.GetFile(path).Content); got != "x: int\n" {
		t.Errorf("after Close content = %q, want disk copy", got)
	}
}

// A disk read that finishes after the editor opened the file must not
// overwrite the buffer.
func TestCodebaseDiskReadAfterOpen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.kafe")
	writeFile(t, path, "x: int\n")

	c := New(project.Default(dir))
	c.Open(path, []byte("y: int\n"))
	info := c.store(path, []byte("x: int\n"), true)
	if string(info.Content) != "y: int\n" {
		t.Errorf("disk read returned %q, want the open buffer", info.Content)
	}
	if got := string(c.GetFile(path).Content); got != "y: int\n" {
		t.Errorf("stored content = %q, want the open buffer", got)
	}

	if got := string(c.UpdateFile(path, []byte("z: int\n")).Content); got != "z: int\n" {
		t.Errorf("editor update = %q, want it applied", got)
	}
}

func TestFileWatcherScan(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "w.kafe")
	writeFile(t, path, "x: int\n")

	type event struct {
		path    string
		removed bool
	}
	var events []event
	c := New(project.Default(dir))
	w := NewFileWatcher(c, WithPollInterval(time.Hour), OnChange(func(p string, info *FileInfo) {
		events = append(events, event{p, info == nil})
	}))

	w.scan()
	if c.GetFile(path) == nil {
		t.Fatal("file not picked up")
	}

	w.scan()
	if len(events) != 1 {
		t.Errorf("unchanged file reported again: %v", events)
	}

	writeFile(t, path, "x: int = \n")
	later := time.Now().Add(time.Minute)
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatal(err)
	}
	w.scan()
	if c.GetFile(path).ParseErr == nil {
		t.Error("modified file was not reparsed")
	}

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	w.scan()
	if c.GetFile(path) != nil {
		t.Error("removed file still present")
	}

	want := []event{{path, false}, {path, false}, {path, true}}
	if !reflect.DeepEqual(events, want) {
		t.Errorf("events = %v, want %v", events, want)
	}
}

func TestDiagnostics(t *testing.T) {
	c := New(project.Default(t.TempDir()))

	if got := diagnostics(c.UpdateFile("ok.kafe", []byte("x: int\n"))); len(got) != 0 {
		t.Errorf("clean file has diagnostics: %+v", got)
	}
	if got := diagnostics(nil); got == nil || len(got) != 0 {
		t.Errorf("diagnostics(nil) = %#v, want empty slice", got)
	}

	got := diagnostics(c.UpdateFile("bad.kafe", []byte("x: int\ny: 3\n")))
	if len(got) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(got))
	}
	d := got[0]
	wantRange := protocol.Range{
		Start: protocol.Position{Line: 1, Character: 3},
		End:   protocol.Position{Line: 1, Character: 4},
	}
	if d.Range != wantRange {
		t.Errorf("Range = %+v, want %+v", d.Range, wantRange)
	}
	if d.Message != "bad type name (expected type name, got '3')" {
		t.Errorf("Message = %q", d.Message)
	}
	if d.Severity == nil || *d.Severity != protocol.DiagnosticSeverityError {
		t.Error("diagnostic is not an error")
	}
}

func TestDocumentSymbols(t *testing.T) {
	c := New(project.Default(t.TempDir()))
	info := c.UpdateFile("point.kafe", []byte(pointSrc))
	syms := documentSymbols(info.Symbols)
	if len(syms) != 3 {
		t.Fatalf("got %d symbols, want 3", len(syms))
	}
	class := syms[1]
	if class.Name != "Point" || class.Kind != protocol.SymbolKindClass || len(class.Children) != 3 {
		t.Errorf("class symbol = %+v", class)
	}
	if class.Range.Start != (protocol.Position{Line: 1, Character: 0}) {
		t.Errorf("class starts at %+v", class.Range.Start)
	}
	if fn := syms[2]; fn.Detail == nil || *fn.Detail != "() -> int" {
		t.Errorf("main detail = %v", fn.Detail)
	}
}

func TestWordAt(t *testing.T) {
	content := []byte("p: Point = new Point(origin)\nret p")
	tests := []struct {
		line, char int
		want       string
	}{
		{0, 0, "p"},
		{0, 5, "Point"},
		{0, 12, ""},
		{0, 24, "origin"},
		{1, 5, "p"},
		{1, 1, ""},
		{5, 0, ""},
	}
	for _, tt := range tests {
		if got := wordAt(content, tt.line, tt.char); got != tt.want {
			t.Errorf("wordAt(%d, %d) = %q, want %q", tt.line, tt.char, got, tt.want)
		}
	}
}

func TestURIConversion(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a b.kafe")
	uri := pathToURI(path)
	back, err := uriToPath(uri)
	if err != nil {
		t.Fatal(err)
	}
	if back != path {
		t.Errorf("round trip of %q gave %q via %q", path, back, uri)
	}
	if got, _ := uriToPath("untitled:1"); got != "untitled:1" {
		t.Errorf("non-file URI = %q", got)
	}
}
