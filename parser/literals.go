package parser

import (
	"strconv"

	"github.com/pinslang/pins/ast"
	"github.com/pinslang/pins/errors"
	"github.com/pinslang/pins/internal/token"
)

func (p *Parser) parseInt() ast.Expr {
	tok := p.curToken
	value, err := strconv.Atoi(tok.Literal)
	if err != nil {
		p.tokenError(errors.E1008, tok, "invalid integer literal %s", tok.Literal)
		return nil
	}
	return &ast.Int{Base: p.base(tok), Literal: tok.Literal, Value: value}
}

func (p *Parser) parseBool() ast.Expr {
	return &ast.Bool{Base: p.base(p.curToken), Value: p.curTokenIs(token.TRUE)}
}

func (p *Parser) parseString() ast.Expr {
	return &ast.String{Base: p.base(p.curToken), Value: p.curToken.Literal}
}
