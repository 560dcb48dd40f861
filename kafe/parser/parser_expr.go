package parser

import (
	"strconv"
	"strings"

	"github.com/dhamidi/kafe/kafe/ast"
)

// parseExp parses an expression: a class instantiation, an operation, or a
// single expression.
func (p *Parser) parseExp() (ast.Node, error) {
	n, err := p.parseClassInstanciation()
	if n != nil || err != nil {
		return n, err
	}
	return p.parseOperation()
}

// parseOperation scans (prefix operator, operand, infix operator) triples
// from left to right. Operators are kept in surface order; nothing is
// folded by precedence. A scan that finds a single operand and no operator
// returns that operand, which makes it the single-expression rule as well.
func (p *Parser) parseOperation() (ast.Node, error) {
	start := p.cur.Position()
	mark := p.cur.Mark()

	var items []ast.Node
	good, goodLen := mark, 0
	for {
		operand, err := p.parseSingleExp()
		if err != nil {
			return nil, err
		}
		if operand == nil {
			opPos := p.cur.Position()
			sym, ok := p.operator()
			if !ok || !prefixOperators[sym] {
				break
			}
			items = append(items, &ast.Operator{Loc: ast.At(opPos), Symbol: sym})
			p.gap()
			operand, err = p.parseSingleExp()
			if err != nil {
				return nil, err
			}
			if operand == nil {
				break
			}
		}
		items = append(items, operand)
		good, goodLen = p.cur.Mark(), len(items)

		p.gap()
		opPos := p.cur.Position()
		sym, ok := p.operator()
		if !ok {
			break
		}
		items = append(items, &ast.Operator{Loc: ast.At(opPos), Symbol: sym})
		p.gap()
	}

	p.cur.Reset(good)
	items = items[:goodLen]
	switch len(items) {
	case 0:
		return nil, nil
	case 1:
		return items[0], nil
	}
	return &ast.OperationsList{Loc: ast.At(start), Items: items}, nil
}

// parseSingleExp tries the atomic expressions, most specific first, so no
// rule swallows input that belongs to another.
func (p *Parser) parseSingleExp() (ast.Node, error) {
	rules := []rule{
		(*Parser).parseParenthesized,
		(*Parser).parseFloat,
		(*Parser).parseInteger,
		(*Parser).parseString,
		(*Parser).parseBool,
		(*Parser).parseClassInstanciation,
		(*Parser).parseFunctionCall,
		(*Parser).parseMethodCall,
		(*Parser).parseVarUse,
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
	return nil, nil
}

// parseParenthesized parses `( operation )`.
func (p *Parser) parseParenthesized() (ast.Node, error) {
	mark := p.cur.Mark()
	if !p.cur.Accept(isLParen, nil) {
		return nil, nil
	}
	p.depth++
	defer func() { p.depth-- }()

	p.blank()
	inner, err := p.parseExp()
	if err != nil {
		return nil, err
	}
	if inner == nil {
		p.cur.Reset(mark)
		return nil, nil
	}
	p.blank()
	if err := p.expectChar(')', "unbalanced parenthesis"); err != nil {
		return nil, err
	}
	return inner, nil
}

// parseFloat parses `-12.5`. It runs before parseInteger because every
// float starts with a valid integer.
func (p *Parser) parseFloat() (ast.Node, error) {
	start := p.cur.Position()
	mark := p.cur.Mark()
	var b strings.Builder
	if !p.cur.SignedNumber(&b) || !p.cur.Accept(IsChar('.'), &b) || !p.cur.Number(&b) {
		p.cur.Reset(mark)
		return nil, nil
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return nil, p.errorAt(start, "float literal", "invalid float literal "+b.String())
	}
	return &ast.Float{Loc: ast.At(start), Value: v}, nil
}

func (p *Parser) parseInteger() (ast.Node, error) {
	start := p.cur.Position()
	var b strings.Builder
	if !p.cur.SignedNumber(&b) {
		return nil, nil
	}
	v, err := strconv.ParseInt(b.String(), 10, 64)
	if err != nil {
		return nil, p.errorAt(start, "integer literal", "integer literal out of range: "+b.String())
	}
	return &ast.Integer{Loc: ast.At(start), Value: v}, nil
}

// parseString parses a double-quoted string. Once the opening quote is
// read, the closing one is mandatory on the same line.
func (p *Parser) parseString() (ast.Node, error) {
	start := p.cur.Position()
	if !p.cur.Accept(isQuote, nil) {
		return nil, nil
	}
	var b strings.Builder
	for {
		switch c := p.cur.Symbol(); {
		case c == EOF || c == '\n':
			return nil, p.cur.Errorf(`'"'`, "unterminated string")
		case p.cur.Accept(isQuote, nil):
			return &ast.String{Loc: ast.At(start), Value: b.String()}, nil
		case p.cur.Accept(isBackslash, nil):
			esc := p.cur.Symbol()
			switch esc {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case '"', '\\':
				b.WriteByte(byte(esc))
			default:
				return nil, p.cur.Errorf(`'n', 't', '"' or '\'`, "unknown escape sequence")
			}
			p.cur.Advance()
		default:
			// Symbols are bytes; multi-byte characters are copied through as-is.
			b.WriteByte(byte(c))
			p.cur.Advance()
		}
	}
}

// parseBool soft-fails on any other word so it can still be a variable
// reference.
func (p *Parser) parseBool() (ast.Node, error) {
	start := p.cur.Position()
	switch {
	case p.keyword("true"):
		return &ast.Bool{Loc: ast.At(start), Value: true}, nil
	case p.keyword("false"):
		return &ast.Bool{Loc: ast.At(start), Value: false}, nil
	}
	return nil, nil
}

// parseArgs parses a call's arguments; the opening parenthesis has already
// been consumed, so every argument must parse.
func (p *Parser) parseArgs() ([]ast.Node, error) {
	p.depth++
	defer func() { p.depth-- }()

	args := []ast.Node{}
	p.blank()
	if p.cur.Accept(isRParen, nil) {
		return args, nil
	}
	for {
		arg, err := p.parseExp()
		if err != nil {
			return nil, err
		}
		if arg == nil {
			return nil, p.cur.Errorf("expression", "bad argument")
		}
		args = append(args, arg)
		p.blank()
		if p.cur.Accept(isComma, nil) {
			p.blank()
			continue
		}
		if !p.cur.Accept(isRParen, nil) {
			return nil, p.cur.Errorf("',' or ')'", "unterminated argument list")
		}
		return args, nil
	}
}

// parseClassInstanciation parses `new Name(args)`. The keyword commits it.
func (p *Parser) parseClassInstanciation() (ast.Node, error) {
	start := p.cur.Position()
	if !p.keyword("new") {
		return nil, nil
	}
	p.cur.InlineSpace()
	name, err := p.requireIdent("class name")
	if err != nil {
		return nil, err
	}
	if err := p.expectChar('(', "missing argument list"); err != nil {
		return nil, err
	}
	args, err := p.parseArgs()
	if err != nil {
		return nil, err
	}
	return &ast.ClassInstanciation{Loc: ast.At(start), ClassName: name, Args: args}, nil
}

// parseFunctionCall parses `name(args)`.
func (p *Parser) parseFunctionCall() (ast.Node, error) {
	start := p.cur.Position()
	mark := p.cur.Mark()
	name, ok := p.ident()
	if !ok {
		return nil, nil
	}
	if !p.cur.Accept(isLParen, nil) {
		p.cur.Reset(mark)
		return nil, nil
	}
	args, err := p.parseArgs()
	if err != nil {
		return nil, err
	}
	return &ast.FunctionCall{Loc: ast.At(start), Name: name, Args: args}, nil
}

// parseMethodCall parses `receiver.name(args)`.
func (p *Parser) parseMethodCall() (ast.Node, error) {
	start := p.cur.Position()
	mark := p.cur.Mark()
	recv, ok := p.ident()
	if !ok {
		return nil, nil
	}
	if !p.cur.Accept(IsChar('.'), nil) {
		p.cur.Reset(mark)
		return nil, nil
	}
	name, ok := p.ident()
	if !ok || !p.cur.Accept(isLParen, nil) {
		p.cur.Reset(mark)
		return nil, nil
	}
	args, err := p.parseArgs()
	if err != nil {
		return nil, err
	}
	return &ast.MethodCall{Loc: ast.At(start), Receiver: recv, Name: name, Args: args}, nil
}

// parseVarUse parses a variable reference. Keywords are rejected so the
// keyword's own rule gets a chance at the input.
func (p *Parser) parseVarUse() (ast.Node, error) {
	start := p.cur.Position()
	name, ok := p.ident()
	if !ok {
		return nil, nil
	}
	return &ast.VarUse{Loc: ast.At(start), Name: name}, nil
}
