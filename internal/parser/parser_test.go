package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minicc/internal/ast"
)

func parseOK(t *testing.T, source string) *ast.Program {
	t.Helper()
	prog, parseErrs, scanErrs := ParseSource("test.c", source)
	require.Empty(t, scanErrs)
	require.Empty(t, parseErrs)
	require.NotNil(t, prog)
	return prog
}

func TestParseGlobalVarDecl(t *testing.T) {
	prog := parseOK(t, "int x = 5;")
	require.Len(t, prog.Decls, 1)
	v, ok := prog.Decls[0].(*ast.VarDecl)
	require.True(t, ok)
	assert.Equal(t, ast.TypeInt, v.Type)
	assert.Equal(t, "x", v.Name.Value)
	assert.True(t, v.IsGlobal)
	lit, ok := v.Init.(*ast.LiteralExpr)
	require.True(t, ok)
	assert.Equal(t, int64(5), lit.Value)
}

func TestParseGlobalConstDecl(t *testing.T) {
	prog := parseOK(t, "const int N = 10;")
	c, ok := prog.Decls[0].(*ast.ConstDecl)
	require.True(t, ok)
	assert.Equal(t, "N", c.Name.Value)
	assert.True(t, c.IsGlobal)
}

func TestParseFuncDeclWithParams(t *testing.T) {
	prog := parseOK(t, "int add(int a, int b) { return a + b; }")
	fn, ok := prog.Decls[0].(*ast.FuncDecl)
	require.True(t, ok)
	assert.Equal(t, ast.TypeInt, fn.ReturnType)
	assert.Equal(t, "add", fn.Name.Value)
	require.Len(t, fn.Params, 2)
	assert.Equal(t, "a", fn.Params[0].Name.Value)
	assert.Equal(t, "b", fn.Params[1].Name.Value)
	require.Len(t, fn.Body.Stmts, 1)
}

func TestParseVoidFuncNoParams(t *testing.T) {
	prog := parseOK(t, "void noop() { }")
	fn := prog.Decls[0].(*ast.FuncDecl)
	assert.Equal(t, ast.TypeVoid, fn.ReturnType)
	assert.Empty(t, fn.Params)
	assert.Empty(t, fn.Body.Stmts)
}

func TestParseIfElse(t *testing.T) {
	prog := parseOK(t, `
int main() {
	if (1) {
		return 1;
	} else {
		return 0;
	}
}`)
	fn := prog.Decls[0].(*ast.FuncDecl)
	_, ok := fn.Body.Stmts[0].(*ast.IfElseStmt)
	assert.True(t, ok)
}

func TestParseIfWithoutBraces(t *testing.T) {
	prog := parseOK(t, `
int main() {
	if (1)
		return 1;
	return 0;
}`)
	fn := prog.Decls[0].(*ast.FuncDecl)
	ifStmt, ok := fn.Body.Stmts[0].(*ast.IfStmt)
	require.True(t, ok)
	require.Len(t, ifStmt.Then.Stmts, 1)
	_, ok = ifStmt.Then.Stmts[0].(*ast.ReturnStmt)
	assert.True(t, ok)
}

func TestParseWhileBreakContinue(t *testing.T) {
	prog := parseOK(t, `
int main() {
	while (1) {
		break;
		continue;
	}
	return 0;
}`)
	fn := prog.Decls[0].(*ast.FuncDecl)
	while, ok := fn.Body.Stmts[0].(*ast.WhileStmt)
	require.True(t, ok)
	require.Len(t, while.Body.Stmts, 2)
	_, ok = while.Body.Stmts[0].(*ast.BreakStmt)
	assert.True(t, ok)
	_, ok = while.Body.Stmts[1].(*ast.ContinueStmt)
	assert.True(t, ok)
}

func TestParseAssignVsExprStatement(t *testing.T) {
	prog := parseOK(t, `
int main() {
	int x;
	x = 1;
	foo();
	return 0;
}`)
	fn := prog.Decls[0].(*ast.FuncDecl)

	_, ok := fn.Body.Stmts[1].(*ast.AssignStmt)
	assert.True(t, ok, "x = 1; should parse as an AssignStmt")

	exprStmt, ok := fn.Body.Stmts[2].(*ast.ExprStmt)
	require.True(t, ok, "foo(); should parse as an ExprStmt")
	_, ok = exprStmt.X.(*ast.CallExpr)
	assert.True(t, ok)
}

func TestParseExprPrecedence(t *testing.T) {
	prog := parseOK(t, "int x = 1 + 2 * 3;")
	v := prog.Decls[0].(*ast.VarDecl)
	bin, ok := v.Init.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, ast.OpAdd, bin.Op)
	rhs, ok := bin.Right.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, ast.OpMul, rhs.Op)
}

func TestParseLogicalShortCircuitPrecedence(t *testing.T) {
	prog := parseOK(t, "int x = 1 || 2 && 3;")
	v := prog.Decls[0].(*ast.VarDecl)
	top, ok := v.Init.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, ast.OpOr, top.Op, "|| should bind looser than &&")
	rhs, ok := top.Right.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, ast.OpAnd, rhs.Op)
}

func TestParseUnaryAndCall(t *testing.T) {
	prog := parseOK(t, "int x = -f(1, 2) + !0;")
	v := prog.Decls[0].(*ast.VarDecl)
	top := v.Init.(*ast.BinaryExpr)
	neg, ok := top.Left.(*ast.UnaryExpr)
	require.True(t, ok)
	assert.Equal(t, ast.OpNeg, neg.Op)
	call, ok := neg.X.(*ast.CallExpr)
	require.True(t, ok)
	assert.Equal(t, "f", call.Callee.Value)
	assert.Len(t, call.Args, 2)

	not, ok := top.Right.(*ast.UnaryExpr)
	require.True(t, ok)
	assert.Equal(t, ast.OpNot, not.Op)
}

func TestParseParenthesizedExpr(t *testing.T) {
	prog := parseOK(t, "int x = (1 + 2) * 3;")
	v := prog.Decls[0].(*ast.VarDecl)
	top := v.Init.(*ast.BinaryExpr)
	assert.Equal(t, ast.OpMul, top.Op)
	_, ok := top.Left.(*ast.BinaryExpr)
	assert.True(t, ok)
}

func TestParseErrorRecoverySynchronizes(t *testing.T) {
	prog, parseErrs, _ := ParseSource("test.c", "int x = ;\nint y = 2;")
	require.NotEmpty(t, parseErrs)
	// Despite the first declaration's broken initializer, the parser should
	// recover and still see the second global.
	var names []string
	for _, d := range prog.Decls {
		if v, ok := d.(*ast.VarDecl); ok {
			names = append(names, v.Name.Value)
		}
	}
	assert.Contains(t, names, "y")
}
