package parser

import (
	"github.com/pinslang/pins/ast"
	"github.com/pinslang/pins/errors"
	"github.com/pinslang/pins/internal/token"
)

var binaryOps = map[token.Type]ast.BinaryOp{
	token.PIPE:      ast.Or,
	token.AMPERSAND: ast.And,
	token.EQ:        ast.Eq,
	token.NOT_EQ:    ast.Ne,
	token.LT_EQUALS: ast.Le,
	token.GT_EQUALS: ast.Ge,
	token.LT:        ast.Lt,
	token.GT:        ast.Gt,
	token.PLUS:      ast.Add,
	token.MINUS:     ast.Sub,
	token.ASTERISK:  ast.Mul,
	token.SLASH:     ast.Div,
	token.MOD:       ast.Mod,
}

var unaryOps = map[token.Type]ast.UnaryOp{
	token.PLUS:  ast.Plus,
	token.MINUS: ast.Minus,
	token.BANG:  ast.Not,
}

// parseExpr parses a complete expression, including any trailing
// "{ where ... }" clauses.
func (p *Parser) parseExpr() ast.Expr {
	expr := p.parseExpression(LOWEST)
	if expr == nil {
		return nil
	}
	for p.peekTokenIs(token.LBRACE) {
		p.nextToken()
		tok := p.curToken
		if !p.expectPeek("where clause", token.WHERE) {
			return nil
		}
		p.nextToken()
		defs := p.parseDefinitions("where clause", token.RBRACE)
		if defs == nil {
			return nil
		}
		expr = &ast.Where{Base: p.base(tok), X: expr, Defs: defs}
	}
	return expr
}

func (p *Parser) parseExpression(precedence int) ast.Expr {
	if p.cancelled() {
		return nil
	}
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > p.maxDepth {
		p.tokenError(errors.E1009, p.curToken, "maximum nesting depth exceeded")
		return nil
	}
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken)
		return nil
	}
	left := prefix()
	if left == nil {
		return nil
	}
	for precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return left
		}
		p.nextToken()
		if left = infix(left); left == nil {
			return nil
		}
	}
	return left
}

func (p *Parser) noPrefixParseFnError(t token.Token) {
	switch t.Type {
	case token.ILLEGAL:
		// already reported by the lexer
	case token.EOF:
		p.tokenError(errors.E1004, t, "unexpected end of file (expected an expression)")
	default:
		p.tokenError(errors.E1004, t, "invalid syntax (unexpected %s)", tokenDescription(t))
	}
}

func (p *Parser) parsePrefixExpr() ast.Expr {
	tok := p.curToken
	p.nextToken()
	x := p.parseExpression(PREFIX)
	if x == nil {
		return nil
	}
	return &ast.Unary{Base: p.base(tok), Op: unaryOps[tok.Type], X: x}
}

func (p *Parser) parseInfixExpr(left ast.Expr) ast.Expr {
	tok := p.curToken
	precedence := precedences[tok.Type]
	p.nextToken()
	right := p.parseExpression(precedence)
	if right == nil {
		return nil
	}
	if precedence == COMPARISON && p.peekPrecedence() == COMPARISON {
		p.tokenError(errors.E1003, p.peekToken, "comparison operators cannot be chained")
		return nil
	}
	return &ast.Binary{Base: p.base(tok), Op: binaryOps[tok.Type], X: left, Y: right}
}

func (p *Parser) parseIndex(left ast.Expr) ast.Expr {
	tok := p.curToken
	p.nextToken()
	index := p.parseExpr()
	if index == nil {
		return nil
	}
	if !p.expectPeek("index expression", token.RBRACKET) {
		return nil
	}
	return &ast.Index{Base: p.base(tok), X: left, Index: index}
}

// parseExprList parses comma separated expressions following the current
// token up to the closing token.
func (p *Parser) parseExprList(context string, end token.Type) []ast.Expr {
	var list []ast.Expr
	for {
		p.nextToken()
		expr := p.parseExpr()
		if expr == nil {
			return nil
		}
		list = append(list, expr)
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	if !p.expectPeek(context, end) {
		return nil
	}
	return list
}

func (p *Parser) parseGroupedExpr() ast.Expr {
	tok := p.curToken
	list := p.parseExprList("parenthesized expression", token.RPAREN)
	if list == nil {
		return nil
	}
	return &ast.Exprs{Base: p.base(tok), List: list}
}

func (p *Parser) parseIdent() ast.Expr {
	tok := p.curToken
	if !p.peekTokenIs(token.LPAREN) {
		return &ast.Ident{Base: p.base(tok), Name: tok.Literal}
	}
	p.nextToken()
	args := []ast.Expr{}
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
	} else if args = p.parseExprList("function call", token.RPAREN); args == nil {
		return nil
	}
	return &ast.Call{Base: p.base(tok), Name: tok.Literal, Args: args}
}

// parseBraced handles the constructs that open with a brace: if, while, for
// and assignment.
func (p *Parser) parseBraced() ast.Expr {
	switch p.peekToken.Type {
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.FOR:
		return p.parseFor()
	}
	return p.parseAssign()
}

func (p *Parser) parseAssign() ast.Expr {
	tok := p.curToken
	p.nextToken()
	dst := p.parseExpr()
	if dst == nil {
		return nil
	}
	if !p.expectPeek("assignment", token.ASSIGN) {
		return nil
	}
	p.nextToken()
	src := p.parseExpr()
	if src == nil {
		return nil
	}
	if !p.expectPeek("assignment", token.RBRACE) {
		return nil
	}
	return &ast.Assign{Base: p.base(tok), Dst: dst, Src: src}
}

func (p *Parser) parseIf() ast.Expr {
	tok := p.curToken
	p.nextToken() // if
	p.nextToken()
	cond := p.parseExpr()
	if cond == nil {
		return nil
	}
	if !p.expectPeek("if expression", token.THEN) {
		return nil
	}
	p.nextToken()
	then := p.parseExpr()
	if then == nil {
		return nil
	}
	var els ast.Expr
	if p.peekTokenIs(token.ELSE) {
		p.nextToken()
		p.nextToken()
		if els = p.parseExpr(); els == nil {
			return nil
		}
	}
	if !p.expectPeek("if expression", token.RBRACE) {
		return nil
	}
	return &ast.If{Base: p.base(tok), Cond: cond, Then: then, Else: els}
}

func (p *Parser) parseWhile() ast.Expr {
	tok := p.curToken
	p.nextToken() // while
	p.nextToken()
	cond := p.parseExpr()
	if cond == nil {
		return nil
	}
	if !p.expectPeek("while expression", token.COLON) {
		return nil
	}
	p.nextToken()
	body := p.parseExpr()
	if body == nil {
		return nil
	}
	if !p.expectPeek("while expression", token.RBRACE) {
		return nil
	}
	return &ast.While{Base: p.base(tok), Cond: cond, Body: body}
}

func (p *Parser) parseFor() ast.Expr {
	tok := p.curToken
	p.nextToken() // for
	if !p.expectPeek("for expression", token.IDENT) {
		return nil
	}
	counter := &ast.Ident{Base: p.base(p.curToken), Name: p.curToken.Literal}
	if !p.expectPeek("for expression", token.ASSIGN) {
		return nil
	}
	var bounds [3]ast.Expr
	for i := range bounds {
		if i > 0 && !p.expectPeek("for expression", token.COMMA) {
			return nil
		}
		p.nextToken()
		if bounds[i] = p.parseExpr(); bounds[i] == nil {
			return nil
		}
	}
	if !p.expectPeek("for expression", token.COLON) {
		return nil
	}
	p.nextToken()
	body := p.parseExpr()
	if body == nil {
		return nil
	}
	if !p.expectPeek("for expression", token.RBRACE) {
		return nil
	}
	return &ast.For{
		Base:    p.base(tok),
		Counter: counter,
		Lo:      bounds[0],
		Hi:      bounds[1],
		Step:    bounds[2],
		Body:    body,
	}
}
