package parser

import (
	"strconv"

	"minicc/internal/ast"
	"minicc/internal/token"
)

// binaryPrecedence gives each binary operator token its precedence level;
// higher binds tighter. Mirrors ast.BinOp's grouping exactly so the tree
// parsePratt builds needs no further reshaping.
var binaryPrecedence = map[token.Type]int{
	token.OR_OR:         1,
	token.AND_AND:       2,
	token.EQUAL_EQUAL:   3,
	token.BANG_EQUAL:    3,
	token.LESS:          4,
	token.LESS_EQUAL:    4,
	token.GREATER:       4,
	token.GREATER_EQUAL: 4,
	token.PLUS:          5,
	token.MINUS:         5,
	token.STAR:          6,
	token.SLASH:         6,
	token.PERCENT:       6,
}

var tokenToBinOp = map[token.Type]ast.BinOp{
	token.OR_OR:         ast.OpOr,
	token.AND_AND:       ast.OpAnd,
	token.EQUAL_EQUAL:   ast.OpEq,
	token.BANG_EQUAL:    ast.OpNe,
	token.LESS:          ast.OpLt,
	token.LESS_EQUAL:    ast.OpLe,
	token.GREATER:       ast.OpGt,
	token.GREATER_EQUAL: ast.OpGe,
	token.PLUS:          ast.OpAdd,
	token.MINUS:         ast.OpSub,
	token.STAR:          ast.OpMul,
	token.SLASH:         ast.OpDiv,
	token.PERCENT:       ast.OpMod,
}

func (p *Parser) parseExpr() ast.Expr {
	return p.parsePratt(0)
}

// parsePratt is precedence-climbing: at each step it only consumes an
// operator whose precedence clears minPrec, recursing with prec+1 on the
// right so same-precedence operators associate left.
func (p *Parser) parsePratt(minPrec int) ast.Expr {
	left := p.parseUnary()
	for {
		prec, ok := binaryPrecedence[p.peek().Type]
		if !ok || prec < minPrec {
			return left
		}
		opTok := p.advance()
		right := p.parsePratt(prec + 1)
		left = &ast.BinaryExpr{
			Pos: left.NodePos(), EndPos: right.NodeEndPos(),
			Op: tokenToBinOp[opTok.Type], Left: left, Right: right,
		}
	}
}

func (p *Parser) parseUnary() ast.Expr {
	if p.match(token.MINUS) {
		opTok := p.previous()
		x := p.parseUnary()
		return &ast.UnaryExpr{Pos: p.makePos(opTok), EndPos: x.NodeEndPos(), Op: ast.OpNeg, X: x}
	}
	if p.match(token.BANG) {
		opTok := p.previous()
		x := p.parseUnary()
		return &ast.UnaryExpr{Pos: p.makePos(opTok), EndPos: x.NodeEndPos(), Op: ast.OpNot, X: x}
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() ast.Expr {
	switch {
	case p.match(token.NUMBER):
		tok := p.previous()
		v, err := strconv.ParseInt(tok.Lexeme, 10, 64)
		if err != nil {
			p.errors = append(p.errors, ParseError{Message: "invalid integer literal '" + tok.Lexeme + "'", Position: tok.Position})
		}
		return &ast.LiteralExpr{Pos: p.makePos(tok), EndPos: p.makeEndPos(tok), Value: v}

	case p.match(token.IDENT):
		tok := p.previous()
		if p.check(token.LEFT_PAREN) {
			return p.parseCall(tok)
		}
		return &ast.IdentExpr{Pos: p.makePos(tok), EndPos: p.makeEndPos(tok), Name: tok.Lexeme}

	case p.match(token.LEFT_PAREN):
		x := p.parseExpr()
		p.consume(token.RIGHT_PAREN, "expected ')' after parenthesized expression")
		return x

	default:
		tok := p.peek()
		p.errorAtCurrent("expected an expression")
		if !p.isAtEnd() && !p.check(token.SEMICOLON) {
			p.advance()
		}
		return &ast.LiteralExpr{Pos: p.makePos(tok), EndPos: p.makePos(tok), Value: 0}
	}
}

func (p *Parser) parseCall(identTok Token) ast.Expr {
	p.advance() // consume '('
	var args []ast.Expr
	if !p.check(token.RIGHT_PAREN) {
		for {
			args = append(args, p.parseExpr())
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	rp := p.consume(token.RIGHT_PAREN, "expected ')' after call arguments")
	return &ast.CallExpr{
		Pos: p.makePos(identTok), EndPos: p.makeEndPos(rp),
		Callee: p.makeIdent(identTok), Args: args,
	}
}
