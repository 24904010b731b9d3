package parser

import (
	"minicc/internal/ast"
	"minicc/internal/token"
)

// parseProgram parses every top-level declaration until EOF, recovering
// from a bad declaration by skipping to the next plausible boundary so one
// mistake doesn't swallow the rest of the file.
func (p *Parser) parseProgram() *ast.Program {
	start := p.peek()
	var decls []ast.Decl
	for !p.isAtEnd() {
		d := p.parseTopLevel()
		if d != nil {
			decls = append(decls, d)
		} else {
			p.synchronize()
		}
	}
	end := p.previous()
	return &ast.Program{Pos: p.makePos(start), EndPos: p.makeEndPos(end), Decls: decls}
}

func (p *Parser) parseTopLevel() ast.Decl {
	if p.match(token.CONST) {
		return p.parseGlobalConstDecl()
	}

	typeName, typeTok := p.parseTypeName()
	nameTok := p.consume(token.IDENT, "expected a name after the type")
	if nameTok.Type == token.ILLEGAL {
		return nil
	}
	name := p.makeIdent(nameTok)

	if p.check(token.LEFT_PAREN) {
		return p.parseFuncDecl(typeTok, typeName, name)
	}
	return p.parseGlobalVarDecl(typeTok, typeName, name)
}

// parseTypeName consumes "int" or "void", reporting and defaulting to int
// on anything else.
func (p *Parser) parseTypeName() (ast.TypeName, Token) {
	if p.match(token.INT) {
		return ast.TypeInt, p.previous()
	}
	if p.match(token.VOID) {
		return ast.TypeVoid, p.previous()
	}
	p.errorAtCurrent("expected 'int' or 'void'")
	tok := p.peek()
	p.advance()
	return ast.TypeInt, tok
}

func (p *Parser) parseGlobalVarDecl(startTok Token, typeName ast.TypeName, name *ast.Ident) *ast.VarDecl {
	var init ast.Expr
	if p.match(token.EQUAL) {
		init = p.parseExpr()
	}
	semi := p.consume(token.SEMICOLON, "expected ';' after variable declaration")
	return &ast.VarDecl{
		Pos: p.makePos(startTok), EndPos: p.makeEndPos(semi),
		Type: typeName, Name: name, Init: init, IsGlobal: true,
	}
}

func (p *Parser) parseGlobalConstDecl() *ast.ConstDecl {
	constTok := p.previous()
	typeName, _ := p.parseTypeName()
	nameTok := p.consume(token.IDENT, "expected a name after 'const'")
	name := p.makeIdent(nameTok)
	p.consume(token.EQUAL, "const declarations must be initialized")
	init := p.parseExpr()
	semi := p.consume(token.SEMICOLON, "expected ';' after const declaration")
	return &ast.ConstDecl{
		Pos: p.makePos(constTok), EndPos: p.makeEndPos(semi),
		Type: typeName, Name: name, Init: init, IsGlobal: true,
	}
}

func (p *Parser) parseFuncDecl(startTok Token, returnType ast.TypeName, name *ast.Ident) *ast.FuncDecl {
	p.consume(token.LEFT_PAREN, "expected '(' after function name")
	var params []*ast.Param
	for !p.check(token.RIGHT_PAREN) && !p.isAtEnd() {
		paramStart := p.peek()
		paramType, _ := p.parseTypeName()
		paramNameTok := p.consume(token.IDENT, "expected parameter name")
		params = append(params, &ast.Param{
			Pos: p.makePos(paramStart), EndPos: p.makeEndPos(paramNameTok),
			Type: paramType, Name: p.makeIdent(paramNameTok),
		})
		if !p.match(token.COMMA) {
			break
		}
	}
	p.consume(token.RIGHT_PAREN, "expected ')' after parameter list")

	body := p.parseBlock()
	return &ast.FuncDecl{
		Pos: p.makePos(startTok), EndPos: body.EndPos,
		ReturnType: returnType, Name: name, Params: params, Body: body,
	}
}

func (p *Parser) parseBlock() *ast.Block {
	start := p.consume(token.LEFT_BRACE, "expected '{' to start a block")
	var stmts []ast.Stmt
	for !p.check(token.RIGHT_BRACE) && !p.isAtEnd() {
		s := p.parseStmt()
		if s != nil {
			stmts = append(stmts, s)
		} else {
			p.synchronize()
		}
	}
	end := p.consume(token.RIGHT_BRACE, "expected '}' to close a block")
	return &ast.Block{Pos: p.makePos(start), EndPos: p.makeEndPos(end), Stmts: stmts}
}

// parseBlockOrStmt lets if/while bodies be either a brace-delimited block
// or a single bare statement, wrapping the latter in a synthetic
// single-statement block so lowering only ever has to deal with *ast.Block.
func (p *Parser) parseBlockOrStmt() *ast.Block {
	if p.check(token.LEFT_BRACE) {
		return p.parseBlock()
	}
	start := p.peek()
	s := p.parseStmt()
	if s == nil {
		return &ast.Block{Pos: p.makePos(start), EndPos: p.makePos(start)}
	}
	return &ast.Block{Pos: s.NodePos(), EndPos: s.NodeEndPos(), Stmts: []ast.Stmt{s}}
}
