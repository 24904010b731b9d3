package ast

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrintFuncDeclWithParamsAndBody(t *testing.T) {
	prog := &Program{
		Decls: []Decl{
			&FuncDecl{
				ReturnType: TypeInt,
				Name:       &Ident{Value: "add"},
				Params: []*Param{
					{Type: TypeInt, Name: &Ident{Value: "a"}},
					{Type: TypeInt, Name: &Ident{Value: "b"}},
				},
				Body: &Block{
					Stmts: []Stmt{
						&ReturnStmt{Value: &BinaryExpr{
							Op:    OpAdd,
							Left:  &IdentExpr{Name: "a"},
							Right: &IdentExpr{Name: "b"},
						}},
					},
				},
			},
		},
	}

	var buf bytes.Buffer
	NewPrinter(&buf).Print(prog)
	out := buf.String()

	assert.Contains(t, out, "FuncDecl int add(...)")
	assert.Contains(t, out, "Param int a")
	assert.Contains(t, out, "Param int b")
	assert.Contains(t, out, "ReturnStmt")
	assert.Contains(t, out, "BinaryExpr +")
	assert.Contains(t, out, "IdentExpr a")
	assert.Contains(t, out, "IdentExpr b")
}

func TestPrintGlobalVarAndConstDecl(t *testing.T) {
	prog := &Program{
		Decls: []Decl{
			&VarDecl{Type: TypeInt, Name: &Ident{Value: "x"}, Init: &LiteralExpr{Value: 5}, IsGlobal: true},
			&ConstDecl{Type: TypeInt, Name: &Ident{Value: "N"}, Init: &LiteralExpr{Value: 10}, IsGlobal: true},
		},
	}

	var buf bytes.Buffer
	NewPrinter(&buf).Print(prog)
	out := buf.String()

	assert.Contains(t, out, "VarDecl(global) int x")
	assert.Contains(t, out, "ConstDecl(global) int N")
	assert.Contains(t, out, "LiteralExpr 5")
	assert.Contains(t, out, "LiteralExpr 10")
}

func TestPrintControlFlowStmts(t *testing.T) {
	prog := &Program{
		Decls: []Decl{
			&FuncDecl{
				ReturnType: TypeVoid,
				Name:       &Ident{Value: "f"},
				Body: &Block{
					Stmts: []Stmt{
						&IfElseStmt{
							Cond: &IdentExpr{Name: "c"},
							Then: &Block{Stmts: []Stmt{&BreakStmt{}}},
							Else: &Block{Stmts: []Stmt{&ContinueStmt{}}},
						},
						&WhileStmt{
							Cond: &LiteralExpr{Value: 1},
							Body: &Block{Stmts: []Stmt{&ExprStmt{X: &CallExpr{Callee: &Ident{Value: "g"}}}}},
						},
						&AssignStmt{Target: &IdentExpr{Name: "x"}, Value: &UnaryExpr{Op: OpNeg, X: &LiteralExpr{Value: 1}}},
					},
				},
			},
		},
	}

	var buf bytes.Buffer
	NewPrinter(&buf).Print(prog)
	out := buf.String()

	assert.Contains(t, out, "IfElseStmt")
	assert.Contains(t, out, "BreakStmt")
	assert.Contains(t, out, "ContinueStmt")
	assert.Contains(t, out, "WhileStmt")
	assert.Contains(t, out, "CallExpr g")
	assert.Contains(t, out, "AssignStmt")
	assert.Contains(t, out, "UnaryExpr -")
}
