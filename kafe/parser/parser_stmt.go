package parser

import (
	"github.com/dhamidi/kafe/kafe/ast"
)

// parseCondition parses `expr kw`, as in `if x then` or `while x do`.
func (p *Parser) parseCondition(construct, kw string) (ast.Node, error) {
	p.cur.InlineSpace()
	cond, err := p.requireExp("condition of " + construct)
	if err != nil {
		return nil, err
	}
	p.cur.InlineSpace()
	if err := p.requireKeyword(kw); err != nil {
		return nil, err
	}
	return cond, nil
}

// parseIf parses an if clause with its elif chain and else body.
func (p *Parser) parseIf() (ast.Node, error) {
	start := p.cur.Position()
	if !p.keyword("if") {
		return nil, nil
	}
	cond, err := p.parseCondition("if", "then")
	if err != nil {
		return nil, err
	}
	body, term, err := p.parseBlock("if", ast.KindEnd, ast.KindElif, ast.KindElse)
	if err != nil {
		return nil, err
	}
	clause := &ast.IfClause{Loc: ast.At(start), Condition: cond, Body: body}

	for term.Kind() == ast.KindElif {
		elifStart := term.Start()
		cond, err := p.parseCondition("elif", "then")
		if err != nil {
			return nil, err
		}
		body, term, err = p.parseBlock("elif", ast.KindEnd, ast.KindElif, ast.KindElse)
		if err != nil {
			return nil, err
		}
		clause.Elifs = append(clause.Elifs, &ast.IfClause{Loc: ast.At(elifStart), Condition: cond, Body: body})
	}

	if term.Kind() == ast.KindElse {
		body, _, err := p.parseBlock("else", ast.KindEnd)
		if err != nil {
			return nil, err
		}
		clause.Else = body
	}
	return clause, nil
}

// parseWhile parses `while cond do` and a body.
func (p *Parser) parseWhile() (ast.Node, error) {
	start := p.cur.Position()
	if !p.keyword("while") {
		return nil, nil
	}
	cond, err := p.parseCondition("while", "do")
	if err != nil {
		return nil, err
	}
	body, _, err := p.parseBlock("while", ast.KindEnd)
	if err != nil {
		return nil, err
	}
	return &ast.WhileLoop{Loc: ast.At(start), Condition: cond, Body: body}, nil
}

// parseRet parses `ret value`.
func (p *Parser) parseRet() (ast.Node, error) {
	start := p.cur.Position()
	if !p.keyword("ret") {
		return nil, nil
	}
	p.cur.InlineSpace()
	value, err := p.requireExp("return value")
	if err != nil {
		return nil, err
	}
	return &ast.Ret{Loc: ast.At(start), Value: value}, nil
}

// parseSentinel recognizes the keywords that close a block.
func (p *Parser) parseSentinel() (ast.Node, error) {
	start := p.cur.Position()
	switch {
	case p.keyword("end"):
		return &ast.End{Loc: ast.At(start)}, nil
	case p.keyword("elif"):
		return &ast.Elif{Loc: ast.At(start)}, nil
	case p.keyword("else"):
		return &ast.Else{Loc: ast.At(start)}, nil
	}
	return nil, nil
}
