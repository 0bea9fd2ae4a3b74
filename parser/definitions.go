package parser

import (
	"strconv"

	"github.com/pinslang/pins/ast"
	"github.com/pinslang/pins/errors"
	"github.com/pinslang/pins/internal/token"
)

// parseDefinition parses one typ, var or fun definition. On success the
// current token is the last token of the definition.
func (p *Parser) parseDefinition() ast.Def {
	switch p.curToken.Type {
	case token.TYP:
		return p.parseTypeDef()
	case token.VAR:
		return p.parseVarDef()
	case token.FUN:
		return p.parseFunDef()
	case token.ILLEGAL:
		// already reported by the lexer
		return nil
	}
	p.tokenError(errors.E1003, p.curToken,
		"expected a definition (typ, var or fun) but found %s", tokenDescription(p.curToken))
	return nil
}

// parseDefinitions parses definitions separated by semicolons up to the
// closing token, which becomes the current token.
func (p *Parser) parseDefinitions(context string, end token.Type) []ast.Def {
	var defs []ast.Def
	for {
		def := p.parseDefinition()
		if def == nil {
			return nil
		}
		defs = append(defs, def)
		if !p.peekTokenIs(token.SEMICOLON) {
			break
		}
		p.nextToken()
		p.nextToken()
	}
	if !p.expectPeek(context, end) {
		return nil
	}
	return defs
}

func (p *Parser) parseTypeDef() ast.Def {
	tok := p.curToken
	if !p.expectPeek("type definition", token.IDENT) {
		return nil
	}
	name := p.curToken.Literal
	if !p.expectPeek("type definition", token.COLON) {
		return nil
	}
	p.nextToken()
	typ := p.parseType()
	if typ == nil {
		return nil
	}
	return &ast.TypeDef{Base: p.base(tok), Name: name, Type: typ}
}

func (p *Parser) parseVarDef() ast.Def {
	tok := p.curToken
	if !p.expectPeek("variable definition", token.IDENT) {
		return nil
	}
	name := p.curToken.Literal
	if !p.expectPeek("variable definition", token.COLON) {
		return nil
	}
	p.nextToken()
	typ := p.parseType()
	if typ == nil {
		return nil
	}
	return &ast.VarDef{Base: p.base(tok), Name: name, Type: typ}
}

func (p *Parser) parseFunDef() ast.Def {
	tok := p.curToken
	if !p.expectPeek("function definition", token.IDENT) {
		return nil
	}
	name := p.curToken.Literal
	if !p.expectPeek("function definition", token.LPAREN) {
		return nil
	}
	params, ok := p.parseParams()
	if !ok {
		return nil
	}
	if !p.expectPeek("function definition", token.COLON) {
		return nil
	}
	p.nextToken()
	result := p.parseType()
	if result == nil {
		return nil
	}
	if !p.expectPeek("function definition", token.ASSIGN) {
		return nil
	}
	p.nextToken()
	body := p.parseExpr()
	if body == nil {
		return nil
	}
	return &ast.FunDef{Base: p.base(tok), Name: name, Params: params, Result: result, Body: body}
}

// parseParams parses "( [ name : type { , name : type } ] )" starting at the
// open parenthesis.
func (p *Parser) parseParams() ([]*ast.Param, bool) {
	params := []*ast.Param{}
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return params, true
	}
	for {
		if !p.expectPeek("parameter", token.IDENT) {
			return nil, false
		}
		tok := p.curToken
		if !p.expectPeek("parameter", token.COLON) {
			return nil, false
		}
		p.nextToken()
		typ := p.parseType()
		if typ == nil {
			return nil, false
		}
		params = append(params, &ast.Param{Base: p.base(tok), Name: tok.Literal, Type: typ})
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	if !p.expectPeek("parameter list", token.RPAREN) {
		return nil, false
	}
	return params, true
}

func (p *Parser) parseType() ast.TypeExpr {
	tok := p.curToken
	switch tok.Type {
	case token.IDENT:
		return &ast.TypeName{Base: p.base(tok), Name: tok.Literal}
	case token.LOGICAL:
		return &ast.AtomType{Base: p.base(tok), Kind: ast.KindLogical}
	case token.INTEGER:
		return &ast.AtomType{Base: p.base(tok), Kind: ast.KindInteger}
	case token.STR:
		return &ast.AtomType{Base: p.base(tok), Kind: ast.KindString}
	case token.ARR:
		if !p.expectPeek("array type", token.LBRACKET) {
			return nil
		}
		if !p.expectPeek("array type", token.INT) {
			return nil
		}
		n, err := strconv.Atoi(p.curToken.Literal)
		if err != nil || n <= 0 {
			p.tokenError(errors.E1008, p.curToken, "invalid array length %s", p.curToken.Literal)
			return nil
		}
		if !p.expectPeek("array type", token.RBRACKET) {
			return nil
		}
		p.nextToken()
		elem := p.parseType()
		if elem == nil {
			return nil
		}
		return &ast.ArrType{Base: p.base(tok), Len: n, Elem: elem}
	}
	p.tokenError(errors.E1010, tok, "expected a type but found %s", tokenDescription(tok))
	return nil
}
