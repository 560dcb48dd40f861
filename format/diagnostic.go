package format

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dhamidi/kafe/kafe/golden"
	"github.com/dhamidi/kafe/kafe/parser"
)

var (
	colorError = lipgloss.Color("#EF4444")
	colorOK    = lipgloss.Color("#10B981")
	colorMuted = lipgloss.Color("#6B7280")
	colorHint  = lipgloss.Color("#F59E0B")
)

type diagnosticStyles struct {
	location lipgloss.Style
	err      lipgloss.Style
	hint     lipgloss.Style
	gutter   lipgloss.Style
	caret    lipgloss.Style
	pass     lipgloss.Style
	fail     lipgloss.Style
	muted    lipgloss.Style
}

// DiagnosticEncoder writes human readable parse errors and golden test
// reports. Colors are only emitted when w is a terminal.
type DiagnosticEncoder struct {
	w      io.Writer
	styles diagnosticStyles
}

func NewDiagnosticEncoder(w io.Writer) *DiagnosticEncoder {
	r := lipgloss.NewRenderer(w)
	return &DiagnosticEncoder{
		w: w,
		styles: diagnosticStyles{
			location: r.NewStyle().Bold(true),
			err:      r.NewStyle().Foreground(colorError).Bold(true),
			hint:     r.NewStyle().Foreground(colorHint),
			gutter:   r.NewStyle().Foreground(colorMuted),
			caret:    r.NewStyle().Foreground(colorError).Bold(true),
			pass:     r.NewStyle().Foreground(colorOK),
			fail:     r.NewStyle().Foreground(colorError),
			muted:    r.NewStyle().Foreground(colorMuted).Italic(true),
		},
	}
}

// Encode writes err. Parse errors quote the offending line of src and mark
// the column.
func (e *DiagnosticEncoder) Encode(err error, src []byte) error {
	var sb strings.Builder
	var perr *parser.ParseError
	if !errors.As(err, &perr) {
		fmt.Fprintf(&sb, "%s %s\n", e.styles.err.Render("error:"), err.Error())
		_, werr := io.WriteString(e.w, sb.String())
		return werr
	}

	fmt.Fprintf(&sb, "%s %s %s\n",
		e.styles.location.Render(perr.Pos.String()+":"),
		e.styles.err.Render("error:"),
		perr.Message)
	if perr.Expected != "" {
		sb.WriteString(e.styles.hint.Render(fmt.Sprintf("  expected %s, got %s", perr.Expected, perr.SymbolString())))
		sb.WriteString("\n")
	}
	if line, ok := sourceLine(src, perr.Pos.Line); ok {
		num := fmt.Sprintf("%4d | ", perr.Pos.Line)
		sb.WriteString(e.styles.gutter.Render(num))
		sb.WriteString(line)
		sb.WriteString("\n")
		sb.WriteString(e.styles.gutter.Render(strings.Repeat(" ", len(num)-2) + "| "))
		sb.WriteString(caretPadding(line, perr.Pos.Column))
		sb.WriteString(e.styles.caret.Render("^"))
		sb.WriteString("\n")
	}
	_, werr := io.WriteString(e.w, sb.String())
	return werr
}

// sourceLine returns line n of src, 1-based, without its terminator.
func sourceLine(src []byte, n int) (string, bool) {
	if n < 1 {
		return "", false
	}
	lines := strings.Split(string(src), "\n")
	if n > len(lines) {
		return "", false
	}
	return strings.TrimRight(lines[n-1], "\r"), true
}

// caretPadding lines up a caret under column col of line. Tabs are kept so
// the caret stays aligned whatever the tab width.
func caretPadding(line string, col int) string {
	var b strings.Builder
	for i := 0; i < col-1; i++ {
		if i < len(line) && line[i] == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}

// EncodeSummary writes a block for every golden test that did not pass,
// then the pass and fail counts.
func (e *DiagnosticEncoder) EncodeSummary(s *golden.Summary) error {
	var sb strings.Builder
	for i, r := range s.Results {
		switch r.Status {
		case golden.Failed:
			want, got := r.Mismatch()
			sb.WriteString(e.styles.fail.Render(fmt.Sprintf("Test '%s' (%d) failed at line %d", r.Path, i, r.Line)))
			sb.WriteString("\n")
			fmt.Fprintf(&sb, "  expected: %s\n", want)
			fmt.Fprintf(&sb, "  actual:   %s\n", got)
			sb.WriteString(e.styles.gutter.Render("==========================="))
			sb.WriteString("\n")
		case golden.Missing:
			sb.WriteString(e.styles.fail.Render(fmt.Sprintf("Test '%s' (%d) has no expected file", r.Path, i)))
			sb.WriteString("\n")
			sb.WriteString(r.Actual)
			sb.WriteString(e.styles.gutter.Render("==========================="))
			sb.WriteString("\n")
		case golden.Updated:
			sb.WriteString(e.styles.muted.Render("updated " + r.Path))
			sb.WriteString("\n")
		}
	}
	if sb.Len() > 0 {
		sb.WriteString("\n")
	}

	failed := e.styles.pass
	if !s.OK() {
		failed = e.styles.fail
	}
	sb.WriteString(e.styles.pass.Render(fmt.Sprintf("Tests passed: %d/%d", s.Passed(), s.Total())))
	sb.WriteString("\n")
	sb.WriteString(failed.Render(fmt.Sprintf("Tests failed: %d/%d", s.Failed(), s.Total())))
	sb.WriteString("\n")
	_, err := io.WriteString(e.w, sb.String())
	return err
}
