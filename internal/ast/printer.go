package ast

import (
	"fmt"
	"io"
	"strings"
)

// Printer renders an indented tree dump of a Program, used only by the
// -emit-ast CLI flag; lowering never consults it.
type Printer struct {
	w      io.Writer
	indent int
}

// NewPrinter returns a Printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Print dumps prog as an indented tree.
func (p *Printer) Print(prog *Program) {
	p.line("Program")
	p.indent++
	for _, d := range prog.Decls {
		p.printDecl(d)
	}
	p.indent--
}

func (p *Printer) line(format string, args ...any) {
	fmt.Fprintf(p.w, "%s%s\n", strings.Repeat("  ", p.indent), fmt.Sprintf(format, args...))
}

func (p *Printer) printDecl(d Decl) {
	switch n := d.(type) {
	case *FuncDecl:
		p.line("FuncDecl %s %s(...)", n.ReturnType, n.Name.Value)
		p.indent++
		for _, param := range n.Params {
			p.line("Param %s %s", param.Type, param.Name.Value)
		}
		p.printBlock(n.Body)
		p.indent--
	case *VarDecl:
		p.line("VarDecl(%s) %s %s", scopeLabel(n.IsGlobal), n.Type, n.Name.Value)
		if n.Init != nil {
			p.indent++
			p.printExpr(n.Init)
			p.indent--
		}
	case *ConstDecl:
		p.line("ConstDecl(%s) %s %s", scopeLabel(n.IsGlobal), n.Type, n.Name.Value)
		p.indent++
		p.printExpr(n.Init)
		p.indent--
	default:
		p.line("<unknown decl %T>", d)
	}
}

func scopeLabel(isGlobal bool) string {
	if isGlobal {
		return "global"
	}
	return "local"
}

func (p *Printer) printBlock(b *Block) {
	p.line("Block")
	p.indent++
	for _, s := range b.Stmts {
		p.printStmt(s)
	}
	p.indent--
}

func (p *Printer) printStmt(s Stmt) {
	switch n := s.(type) {
	case *VarDecl:
		p.printDecl(n)
	case *ConstDecl:
		p.printDecl(n)
	case *ExprStmt:
		p.line("ExprStmt")
		p.indent++
		p.printExpr(n.X)
		p.indent--
	case *AssignStmt:
		p.line("AssignStmt")
		p.indent++
		p.printExpr(n.Target)
		p.printExpr(n.Value)
		p.indent--
	case *IfStmt:
		p.line("IfStmt")
		p.indent++
		p.printExpr(n.Cond)
		p.printBlock(n.Then)
		p.indent--
	case *IfElseStmt:
		p.line("IfElseStmt")
		p.indent++
		p.printExpr(n.Cond)
		p.printBlock(n.Then)
		p.printBlock(n.Else)
		p.indent--
	case *WhileStmt:
		p.line("WhileStmt")
		p.indent++
		p.printExpr(n.Cond)
		p.printBlock(n.Body)
		p.indent--
	case *BreakStmt:
		p.line("BreakStmt")
	case *ContinueStmt:
		p.line("ContinueStmt")
	case *ReturnStmt:
		p.line("ReturnStmt")
		if n.Value != nil {
			p.indent++
			p.printExpr(n.Value)
			p.indent--
		}
	case *Block:
		p.printBlock(n)
	default:
		p.line("<unknown stmt %T>", s)
	}
}

func (p *Printer) printExpr(e Expr) {
	switch n := e.(type) {
	case *BinaryExpr:
		p.line("BinaryExpr %s", n.Op)
		p.indent++
		p.printExpr(n.Left)
		p.printExpr(n.Right)
		p.indent--
	case *UnaryExpr:
		p.line("UnaryExpr %s", n.Op)
		p.indent++
		p.printExpr(n.X)
		p.indent--
	case *ExtExpr:
		p.line("ExtExpr -> i%d", n.ToWidth)
		p.indent++
		p.printExpr(n.X)
		p.indent--
	case *CallExpr:
		p.line("CallExpr %s", n.Callee.Value)
		p.indent++
		for _, a := range n.Args {
			p.printExpr(a)
		}
		p.indent--
	case *LiteralExpr:
		p.line("LiteralExpr %d", n.Value)
	case *IdentExpr:
		p.line("IdentExpr %s", n.Name)
	default:
		p.line("<unknown expr %T>", e)
	}
}
