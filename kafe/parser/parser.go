package parser

import (
	"slices"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/kafe/kafe/ast"
)

type Option func(*Parser)

// WithFile sets the file name carried by every position.
func WithFile(path string) Option {
	return func(p *Parser) {
		p.file = path
	}
}

func WithLogger(log commonlog.Logger) Option {
	return func(p *Parser) {
		p.log = log
	}
}

// Parser turns one source text into a Program. Every rule either matches,
// reports a soft mismatch by returning a nil node and a nil error (the
// cursor is left where the rule started), or fails hard with a
// *ParseError, which ends the parse.
//
// A Parser is not safe for concurrent use.
type Parser struct {
	file  string
	log   commonlog.Logger
	input []byte
	cur   *Cursor
	depth int
}

func New(src string, opts ...Option) *Parser {
	p := &Parser{
		input: []byte(src),
		log:   commonlog.GetLogger("kafe.parser"),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.cur = NewCursor(p.input, p.file)
	return p
}

// Parse parses src as a whole program.
func Parse(src string, opts ...Option) (*ast.Program, error) {
	return New(src, opts...).Parse()
}

// ParseExpression parses src as a single expression.
func ParseExpression(src string, opts ...Option) (ast.Node, error) {
	p := New(src, opts...)
	p.blank()
	n, err := p.parseExp()
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, p.cur.Errorf("expression", "expected an expression")
	}
	p.blank()
	if !p.cur.AtEnd() {
		return nil, p.cur.Errorf("end of input", "unexpected input after expression")
	}
	return n, nil
}

func (p *Parser) Parse() (*ast.Program, error) {
	p.log.Debugf("parsing %s (%d bytes)", p.name(), len(p.input))
	prog := &ast.Program{Loc: ast.At(p.cur.Position())}
	for {
		p.blank()
		if p.cur.AtEnd() {
			break
		}
		inst, err := p.parseInstruction()
		if err != nil {
			p.log.Debugf("parse of %s failed: %s", p.name(), err)
			return nil, err
		}
		if inst.Kind().IsSentinel() {
			err := p.errorAt(inst.Start(), "instruction", "unexpected "+sentinelWord(inst.Kind())+" outside of a block")
			p.log.Debugf("parse of %s failed: %s", p.name(), err)
			return nil, err
		}
		prog.Instructions = append(prog.Instructions, inst)
	}
	p.log.Debugf("parsed %s: %d instructions", p.name(), len(prog.Instructions))
	return prog, nil
}

func (p *Parser) name() string {
	if p.file == "" {
		return "<input>"
	}
	return p.file
}

// errorAt builds a ParseError pointing at an earlier position.
func (p *Parser) errorAt(pos ast.Position, expected, message string) *ParseError {
	sym := EOF
	if pos.Offset < len(p.input) {
		sym = rune(p.input[pos.Offset])
	}
	return &ParseError{
		Message:  message,
		Expected: expected,
		Pos:      pos,
		Symbol:   sym,
	}
}

func sentinelWord(k ast.NodeKind) string {
	switch k {
	case ast.KindElif:
		return "elif"
	case ast.KindElse:
		return "else"
	}
	return "end"
}

// blank skips whitespace and line comments.
func (p *Parser) blank() {
	for p.cur.Space() || p.cur.LineComment() {
	}
}

// gap skips the whitespace allowed between the tokens of an expression.
// Inside parentheses or argument lists that includes newlines.
func (p *Parser) gap() {
	if p.depth > 0 {
		p.blank()
		return
	}
	p.cur.InlineSpace()
}

// word reads an identifier without classifying it.
func (p *Parser) word() (string, bool) {
	var b strings.Builder
	if !p.cur.Name(&b) {
		return "", false
	}
	return b.String(), true
}

// ident reads an identifier that is not a keyword.
func (p *Parser) ident() (string, bool) {
	mark := p.cur.Mark()
	name, ok := p.word()
	if !ok {
		return "", false
	}
	if IsKeyword(name) {
		p.cur.Reset(mark)
		return "", false
	}
	return name, true
}

// requireIdent is ident for committed rules.
func (p *Parser) requireIdent(what string) (string, error) {
	name, ok := p.ident()
	if !ok {
		return "", p.cur.Errorf(what, "bad "+what)
	}
	return name, nil
}

// typeName reads the type part of `name: type`.
func (p *Parser) typeName() (string, error) {
	return p.requireIdent("type name")
}

// keyword consumes kw if the next identifier is exactly kw.
func (p *Parser) keyword(kw string) bool {
	mark := p.cur.Mark()
	name, ok := p.word()
	if ok && name == kw {
		return true
	}
	p.cur.Reset(mark)
	return false
}

func (p *Parser) requireKeyword(kw string) error {
	if !p.keyword(kw) {
		return p.cur.Errorf("'"+kw+"'", "missing "+kw)
	}
	return nil
}

func (p *Parser) expectChar(c rune, message string) error {
	if !p.cur.Accept(IsChar(c), nil) {
		return p.cur.Errorf("'"+string(c)+"'", message)
	}
	return nil
}

// operator reads one operator: a maximal run of operator punctuation or a
// word operator.
func (p *Parser) operator() (string, bool) {
	mark := p.cur.Mark()
	var b strings.Builder
	if p.cur.Accept(isOperatorCh, &b) {
		for p.cur.Accept(isOperatorCh, &b) {
		}
	} else if !p.cur.Name(&b) {
		return "", false
	}
	if !IsOperator(b.String()) {
		p.cur.Reset(mark)
		return "", false
	}
	return b.String(), true
}

// requireExp parses an expression that must be present.
func (p *Parser) requireExp(what string) (ast.Node, error) {
	n, err := p.parseExp()
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, p.cur.Errorf("expression", "missing "+what)
	}
	return n, nil
}

// parseBlock parses instructions up to one of the accepted sentinels, which
// is consumed and returned but not included in the body.
func (p *Parser) parseBlock(construct string, accept ...ast.NodeKind) ([]ast.Node, ast.Node, error) {
	var body []ast.Node
	for {
		p.blank()
		if p.cur.AtEnd() {
			return nil, nil, p.cur.Errorf("'end'", "unterminated "+construct)
		}
		inst, err := p.parseInstruction()
		if err != nil {
			return nil, nil, err
		}
		if inst.Kind().IsSentinel() {
			if !slices.Contains(accept, inst.Kind()) {
				return nil, nil, p.errorAt(inst.Start(), "'end'", "unexpected "+sentinelWord(inst.Kind())+" in "+construct)
			}
			return body, inst, nil
		}
		body = append(body, inst)
	}
}

type rule func(*Parser) (ast.Node, error)

// parseInstruction parses one instruction. It never reports a soft
// mismatch: when no rule matches the input the parse cannot go on.
func (p *Parser) parseInstruction() (ast.Node, error) {
	rules := []rule{
		(*Parser).parseDeclaration,
		(*Parser).parseConstDef,
		(*Parser).parseAssignment,
		(*Parser).parseIf,
		(*Parser).parseWhile,
		(*Parser).parseFunction,
		(*Parser).parseClass,
		(*Parser).parseConstructor,
		(*Parser).parseRet,
		(*Parser).parseSentinel,
	}
	mark := p.cur.Mark()
	for _, r := range rules {
		n, err := r(p)
		if err != nil {
			return nil, err
		}
		if n != nil {
			return n, nil
		}
		p.cur.Reset(mark)
	}
	return p.parseExpressionStatement()
}

// parseExpressionStatement accepts the only expressions that may stand
// alone: function and method calls.
func (p *Parser) parseExpressionStatement() (ast.Node, error) {
	mark := p.cur.Mark()
	n, err := p.parseExp()
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, p.cur.Errorf("instruction", "expected an instruction")
	}
	if !ast.IsCall(n) {
		p.cur.Reset(mark)
		return nil, p.cur.Errorf("function or method call", "expressions as instructions are forbidden")
	}
	return n, nil
}
