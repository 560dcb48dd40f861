package parser

import (
	"strings"

	"github.com/dhamidi/kafe/kafe/ast"
)

var (
	isColon  = IsChar(':')
	isEquals = IsChar('=')
	isLParen = IsChar('(')
	isRParen = IsChar(')')
	isComma  = IsChar(',')
)

// parseDeclaration parses `name: type` and `name: type = value`. The colon
// commits the rule.
func (p *Parser) parseDeclaration() (ast.Node, error) {
	start := p.cur.Position()
	mark := p.cur.Mark()

	name, ok := p.ident()
	if !ok {
		return nil, nil
	}
	p.cur.InlineSpace()
	if !p.cur.Accept(isColon, nil) {
		p.cur.Reset(mark)
		return nil, nil
	}
	p.cur.InlineSpace()
	typ, err := p.typeName()
	if err != nil {
		return nil, err
	}

	beforeValue := p.cur.Mark()
	p.cur.InlineSpace()
	if !p.cur.Accept(isEquals, nil) {
		p.cur.Reset(beforeValue)
		return &ast.Declaration{Loc: ast.At(start), VarName: name, Type: typ}, nil
	}
	p.cur.InlineSpace()
	value, err := p.requireExp("value of " + name)
	if err != nil {
		return nil, err
	}
	return &ast.Definition{Loc: ast.At(start), VarName: name, Type: typ, Value: value}, nil
}

// parseConstDef parses `cst name: type = value`.
func (p *Parser) parseConstDef() (ast.Node, error) {
	start := p.cur.Position()
	if !p.keyword("cst") {
		return nil, nil
	}
	p.cur.InlineSpace()
	name, err := p.requireIdent("constant name")
	if err != nil {
		return nil, err
	}
	p.cur.InlineSpace()
	if err := p.expectChar(':', "missing ':' in constant definition"); err != nil {
		return nil, err
	}
	p.cur.InlineSpace()
	typ, err := p.typeName()
	if err != nil {
		return nil, err
	}
	p.cur.InlineSpace()
	if err := p.expectChar('=', "a constant needs a value"); err != nil {
		return nil, err
	}
	p.cur.InlineSpace()
	value, err := p.requireExp("value of " + name)
	if err != nil {
		return nil, err
	}
	return &ast.ConstDef{Loc: ast.At(start), VarName: name, Type: typ, Value: value}, nil
}

// parseAssignment parses `name = value` and `name op= value`. The equals
// sign commits the rule.
func (p *Parser) parseAssignment() (ast.Node, error) {
	start := p.cur.Position()
	mark := p.cur.Mark()

	name, ok := p.ident()
	if !ok {
		return nil, nil
	}
	p.cur.InlineSpace()

	var op strings.Builder
	for p.cur.Accept(isAssignOpCh, &op) {
	}
	if !p.cur.Accept(isEquals, nil) || p.cur.Symbol() == '=' {
		p.cur.Reset(mark)
		return nil, nil
	}
	if op.Len() > 0 && !assignOperators[op.String()] {
		p.cur.Reset(mark)
		return nil, nil
	}

	p.cur.InlineSpace()
	value, err := p.requireExp("value assigned to " + name)
	if err != nil {
		return nil, err
	}
	return &ast.Assignment{Loc: ast.At(start), VarName: name, Op: op.String(), Value: value}, nil
}

// parseParams parses `name: type` pairs up to the closing parenthesis; the
// opening one has already been consumed. When committed is false a
// malformed list is a soft mismatch.
func (p *Parser) parseParams(committed bool) ([]*ast.Declaration, bool, error) {
	fail := func(expected, message string) ([]*ast.Declaration, bool, error) {
		if committed {
			return nil, false, p.cur.Errorf(expected, message)
		}
		return nil, false, nil
	}

	args := []*ast.Declaration{}
	p.cur.InlineSpace()
	if p.cur.Accept(isRParen, nil) {
		return args, true, nil
	}
	for {
		p.cur.InlineSpace()
		start := p.cur.Position()
		name, ok := p.ident()
		if !ok {
			return fail("parameter name", "bad parameter name")
		}
		p.cur.InlineSpace()
		if !p.cur.Accept(isColon, nil) {
			return fail("':'", "missing ':' after parameter "+name)
		}
		p.cur.InlineSpace()
		typ, ok := p.ident()
		if !ok {
			return fail("type name", "bad type name")
		}
		args = append(args, &ast.Declaration{Loc: ast.At(start), VarName: name, Type: typ})

		p.cur.InlineSpace()
		if p.cur.Accept(isComma, nil) {
			continue
		}
		if p.cur.Accept(isRParen, nil) {
			return args, true, nil
		}
		return fail("',' or ')'", "unterminated parameter list")
	}
}

// parseFunction parses `fun name(params) -> type` followed by a body.
func (p *Parser) parseFunction() (ast.Node, error) {
	start := p.cur.Position()
	if !p.keyword("fun") {
		return nil, nil
	}
	p.cur.InlineSpace()
	name, err := p.requireIdent("function name")
	if err != nil {
		return nil, err
	}
	p.cur.InlineSpace()
	if err := p.expectChar('(', "missing parameter list"); err != nil {
		return nil, err
	}
	args, _, err := p.parseParams(true)
	if err != nil {
		return nil, err
	}
	p.cur.InlineSpace()
	if err := p.expectChar('-', "missing return type"); err != nil {
		return nil, err
	}
	if err := p.expectChar('>', "missing return type"); err != nil {
		return nil, err
	}
	p.cur.InlineSpace()
	ret, err := p.typeName()
	if err != nil {
		return nil, err
	}
	body, _, err := p.parseBlock("function "+name, ast.KindEnd)
	if err != nil {
		return nil, err
	}
	return &ast.Function{
		Loc:        ast.At(start),
		Name:       name,
		Args:       args,
		ReturnType: ret,
		Body:       body,
	}, nil
}

// parseConstructor parses `new Name(params)` followed by a body. Until the
// parameter list is closed the input may still be an instantiation such as
// `new Foo(1)`, so mismatches before that point are soft.
func (p *Parser) parseConstructor() (ast.Node, error) {
	start := p.cur.Position()
	mark := p.cur.Mark()
	if !p.keyword("new") {
		return nil, nil
	}
	p.cur.InlineSpace()
	name, ok := p.ident()
	if !ok {
		p.cur.Reset(mark)
		return nil, nil
	}
	p.cur.InlineSpace()
	if !p.cur.Accept(isLParen, nil) {
		p.cur.Reset(mark)
		return nil, nil
	}
	args, ok, _ := p.parseParams(false)
	if !ok {
		p.cur.Reset(mark)
		return nil, nil
	}
	body, _, err := p.parseBlock("constructor "+name, ast.KindEnd)
	if err != nil {
		return nil, err
	}
	return &ast.ClassConstructor{Loc: ast.At(start), Name: name, Args: args, Body: body}, nil
}

// parseClass parses `cls Name` and its members up to `end`. Exactly one
// member must be a constructor.
func (p *Parser) parseClass() (ast.Node, error) {
	start := p.cur.Position()
	if !p.keyword("cls") {
		return nil, nil
	}
	p.cur.InlineSpace()
	name, err := p.requireIdent("class name")
	if err != nil {
		return nil, err
	}
	p.cur.InlineSpace()
	p.cur.LineComment()
	if !p.cur.EndOfLine() {
		return nil, p.cur.Errorf("newline", "class header must end the line")
	}

	class := &ast.Class{Loc: ast.At(start), Name: name}
	for {
		p.blank()
		if p.cur.AtEnd() {
			return nil, p.cur.Errorf("'end'", "unterminated class "+name)
		}
		inst, err := p.parseInstruction()
		if err != nil {
			return nil, err
		}
		switch inst := inst.(type) {
		case *ast.End:
			if class.Constructor == nil {
				return nil, p.errorAt(start, "constructor", "class "+name+" has no constructor")
			}
			return class, nil
		case *ast.Elif, *ast.Else:
			return nil, p.errorAt(inst.Start(), "'end'", "unexpected "+sentinelWord(inst.Kind())+" in class "+name)
		case *ast.ClassConstructor:
			if class.Constructor != nil {
				return nil, p.errorAt(inst.Start(), "a single constructor", "class "+name+" already has a constructor")
			}
			class.Constructor = inst
		default:
			class.Body = append(class.Body, inst)
		}
	}
}
