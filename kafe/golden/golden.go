// Package golden runs kafe sources against their expected serializations.
//
// Every source file `x.kafe` is paired with `x.kafe.expected`. The runner
// parses the source, renders either the tree or the parse error, and
// compares the result with the expected file line by line, ignoring
// trailing whitespace.
package golden

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/kafe/kafe/ast"
	"github.com/dhamidi/kafe/kafe/parser"
	"github.com/dhamidi/kafe/project"
)

type Status int

const (
	Passed Status = iota
	Failed
	Missing
	Updated
)

func (s Status) String() string {
	switch s {
	case Passed:
		return "pass"
	case Failed:
		return "FAIL"
	case Missing:
		return "MISSING"
	case Updated:
		return "updated"
	}
	return "unknown"
}

// Result is the outcome of one source file.
type Result struct {
	Path     string
	Status   Status
	Expected string
	Actual   string
	// Line is the first differing line, 1-based, when Status is Failed.
	Line int
}

// Summary collects the results of a run in file order.
type Summary struct {
	Results []Result
}

func (s *Summary) Total() int {
	return len(s.Results)
}

// Passed counts results that match their expected file, including
// freshly updated ones.
func (s *Summary) Passed() int {
	n := 0
	for _, r := range s.Results {
		if r.Status == Passed || r.Status == Updated {
			n++
		}
	}
	return n
}

func (s *Summary) Failed() int {
	return s.Total() - s.Passed()
}

func (s *Summary) OK() bool {
	return s.Failed() == 0
}

// Runner executes golden tests for one project layout.
type Runner struct {
	proj   *project.Project
	update bool
	log    commonlog.Logger
}

type Option func(*Runner)

// WithUpdate makes the runner rewrite expected files instead of comparing.
func WithUpdate(update bool) Option {
	return func(r *Runner) {
		r.update = update
	}
}

func NewRunner(proj *project.Project, opts ...Option) *Runner {
	r := &Runner{
		proj: proj,
		log:  commonlog.GetLogger("kafe.golden"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run tests every source file under dir.
func (r *Runner) Run(dir string) (*Summary, error) {
	files, err := r.proj.SourceFiles(dir)
	if err != nil {
		return nil, err
	}
	r.log.Infof("running %d golden tests in %s", len(files), dir)

	summary := &Summary{}
	for _, path := range files {
		res, err := r.RunFile(path)
		if err != nil {
			return nil, err
		}
		r.log.Debugf("%s: %s", res.Status, path)
		summary.Results = append(summary.Results, res)
	}
	return summary, nil
}

// RunFile tests a single source file.
func (r *Runner) RunFile(path string) (Result, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("read source: %w", err)
	}
	res := Result{Path: path, Actual: Render(string(src), path)}

	expectedPath := r.proj.ExpectedPath(path)
	if r.update {
		if err := os.WriteFile(expectedPath, []byte(res.Actual), 0o644); err != nil {
			return Result{}, fmt.Errorf("write expected file: %w", err)
		}
		res.Expected = res.Actual
		res.Status = Updated
		return res, nil
	}

	expected, err := os.ReadFile(expectedPath)
	if errors.Is(err, os.ErrNotExist) {
		res.Status = Missing
		return res, nil
	}
	if err != nil {
		return Result{}, fmt.Errorf("read expected file: %w", err)
	}
	res.Expected = string(expected)

	if line, ok := Compare(res.Expected, res.Actual); ok {
		res.Status = Passed
	} else {
		res.Status = Failed
		res.Line = line
	}
	return res, nil
}

// Render produces the text a golden file holds for src: the canonical
// tree, or two lines describing the parse error.
func Render(src, path string) string {
	prog, err := parser.Parse(src, parser.WithFile(path))
	if err == nil {
		return ast.Sprint(prog)
	}
	var perr *parser.ParseError
	if !errors.As(err, &perr) {
		return "Error: " + err.Error() + "\n"
	}
	return fmt.Sprintf("ParseError: %s %s\nAt %s @ %d:%d\n",
		perr.Message, perr.Expected, perr.SymbolString(), perr.Pos.Line, perr.Pos.Column)
}

// Compare reports whether expected and actual hold the same lines once
// trailing whitespace is ignored. When they differ it returns the first
// differing line.
func Compare(expected, actual string) (int, bool) {
	want := lines(expected)
	got := lines(actual)
	for i := 0; i < len(want) || i < len(got); i++ {
		if i >= len(want) || i >= len(got) || want[i] != got[i] {
			return i + 1, false
		}
	}
	return 0, true
}

func lines(s string) []string {
	s = strings.TrimRight(s, " \t\r\n")
	if s == "" {
		return nil
	}
	out := strings.Split(s, "\n")
	for i, l := range out {
		out[i] = strings.TrimRight(l, " \t\r")
	}
	return out
}

// Mismatch returns the expected and actual text of the first differing
// line. A side that ran out of lines reads "<end of file>".
func (r Result) Mismatch() (string, string) {
	at := func(ls []string) string {
		if r.Line < 1 || r.Line > len(ls) {
			return "<end of file>"
		}
		return ls[r.Line-1]
	}
	return at(lines(r.Expected)), at(lines(r.Actual))
}
