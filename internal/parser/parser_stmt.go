package parser

import (
	"minicc/internal/ast"
	"minicc/internal/token"
)

func (p *Parser) parseStmt() ast.Stmt {
	switch {
	case p.check(token.INT) || p.check(token.VOID):
		return p.parseLocalVarDecl()
	case p.match(token.CONST):
		return p.parseLocalConstDecl()
	case p.check(token.LEFT_BRACE):
		return p.parseBlock()
	case p.match(token.IF):
		return p.parseIfStmt()
	case p.match(token.WHILE):
		return p.parseWhileStmt()
	case p.match(token.BREAK):
		tok := p.previous()
		semi := p.consume(token.SEMICOLON, "expected ';' after 'break'")
		return &ast.BreakStmt{Pos: p.makePos(tok), EndPos: p.makeEndPos(semi)}
	case p.match(token.CONTINUE):
		tok := p.previous()
		semi := p.consume(token.SEMICOLON, "expected ';' after 'continue'")
		return &ast.ContinueStmt{Pos: p.makePos(tok), EndPos: p.makeEndPos(semi)}
	case p.match(token.RETURN):
		return p.parseReturnStmt()
	default:
		return p.parseSimpleStmt()
	}
}

func (p *Parser) parseLocalVarDecl() *ast.VarDecl {
	startTok := p.peek()
	typeName, _ := p.parseTypeName()
	nameTok := p.consume(token.IDENT, "expected a variable name")
	name := p.makeIdent(nameTok)
	var init ast.Expr
	if p.match(token.EQUAL) {
		init = p.parseExpr()
	}
	semi := p.consume(token.SEMICOLON, "expected ';' after variable declaration")
	return &ast.VarDecl{
		Pos: p.makePos(startTok), EndPos: p.makeEndPos(semi),
		Type: typeName, Name: name, Init: init, IsGlobal: false,
	}
}

func (p *Parser) parseLocalConstDecl() *ast.ConstDecl {
	constTok := p.previous()
	typeName, _ := p.parseTypeName()
	nameTok := p.consume(token.IDENT, "expected a name after 'const'")
	name := p.makeIdent(nameTok)
	p.consume(token.EQUAL, "const declarations must be initialized")
	init := p.parseExpr()
	semi := p.consume(token.SEMICOLON, "expected ';' after const declaration")
	return &ast.ConstDecl{
		Pos: p.makePos(constTok), EndPos: p.makeEndPos(semi),
		Type: typeName, Name: name, Init: init, IsGlobal: false,
	}
}

func (p *Parser) parseIfStmt() ast.Stmt {
	ifTok := p.previous()
	p.consume(token.LEFT_PAREN, "expected '(' after 'if'")
	cond := p.parseExpr()
	p.consume(token.RIGHT_PAREN, "expected ')' after if condition")
	thenBlk := p.parseBlockOrStmt()
	if p.match(token.ELSE) {
		elseBlk := p.parseBlockOrStmt()
		return &ast.IfElseStmt{Pos: p.makePos(ifTok), EndPos: elseBlk.EndPos, Cond: cond, Then: thenBlk, Else: elseBlk}
	}
	return &ast.IfStmt{Pos: p.makePos(ifTok), EndPos: thenBlk.EndPos, Cond: cond, Then: thenBlk}
}

func (p *Parser) parseWhileStmt() ast.Stmt {
	whileTok := p.previous()
	p.consume(token.LEFT_PAREN, "expected '(' after 'while'")
	cond := p.parseExpr()
	p.consume(token.RIGHT_PAREN, "expected ')' after while condition")
	body := p.parseBlockOrStmt()
	return &ast.WhileStmt{Pos: p.makePos(whileTok), EndPos: body.EndPos, Cond: cond, Body: body}
}

func (p *Parser) parseReturnStmt() ast.Stmt {
	retTok := p.previous()
	if p.check(token.SEMICOLON) {
		semi := p.advance()
		return &ast.ReturnStmt{Pos: p.makePos(retTok), EndPos: p.makeEndPos(semi)}
	}
	val := p.parseExpr()
	semi := p.consume(token.SEMICOLON, "expected ';' after return value")
	return &ast.ReturnStmt{Pos: p.makePos(retTok), EndPos: p.makeEndPos(semi), Value: val}
}

// parseSimpleStmt handles the two statement forms that both start with an
// expression: an assignment and a bare expression statement. It parses a
// full expression first and only then looks for '=', rather than trying to
// decide up front whether the statement is an assignment — the same
// disambiguation the teacher's hand-rolled parser uses for this exact
// ambiguity.
func (p *Parser) parseSimpleStmt() ast.Stmt {
	expr := p.parseExpr()
	if p.match(token.EQUAL) {
		value := p.parseExpr()
		semi := p.consume(token.SEMICOLON, "expected ';' after assignment")
		return &ast.AssignStmt{Pos: expr.NodePos(), EndPos: p.makeEndPos(semi), Target: expr, Value: value}
	}
	semi := p.consume(token.SEMICOLON, "expected ';' after expression")
	return &ast.ExprStmt{Pos: expr.NodePos(), EndPos: p.makeEndPos(semi), X: expr}
}
