package lowering

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerrors "minicc/internal/errors"
	"minicc/internal/ir"
	"minicc/internal/parser"
)

func lowerSource(t *testing.T, source string) (*ir.Module, []cerrors.CompilerError) {
	t.Helper()
	prog, parseErrs, scanErrs := parser.ParseSource("test.c", source)
	require.Empty(t, scanErrs)
	require.Empty(t, parseErrs)
	return Lower(prog)
}

func TestLowerSimpleReturn(t *testing.T) {
	mod, errs := lowerSource(t, "int main() { return 42; }")
	require.Empty(t, errs)
	require.Len(t, mod.Functions, 1)
	out := ir.Print(mod)
	assert.Contains(t, out, "define i32 @main() {")
	assert.Contains(t, out, "ret i32 42")
}

func TestLowerFallsOffEndGetsImplicitReturn(t *testing.T) {
	mod, errs := lowerSource(t, "int main() { int x = 1; }")
	require.Empty(t, errs)
	out := ir.Print(mod)
	assert.Contains(t, out, "ret i32 0")
}

func TestLowerVoidFuncImplicitReturn(t *testing.T) {
	mod, errs := lowerSource(t, "void f() { }")
	require.Empty(t, errs)
	out := ir.Print(mod)
	assert.Contains(t, out, "ret void")
}

func TestLowerArithmeticPrecedence(t *testing.T) {
	mod, errs := lowerSource(t, "int main() { return 1 + 2 * 3; }")
	require.Empty(t, errs)
	out := ir.Print(mod)
	assert.Contains(t, out, "mul i32 2, 3")
	assert.Contains(t, out, "add i32 1,")
}

func TestLowerIfElse(t *testing.T) {
	mod, errs := lowerSource(t, `
int main() {
	int x = 0;
	if (x) {
		x = 1;
	} else {
		x = 2;
	}
	return x;
}`)
	require.Empty(t, errs)
	out := ir.Print(mod)
	assert.Contains(t, out, "if.then")
	assert.Contains(t, out, "if.else")
	assert.Contains(t, out, "if.end")
}

func TestLowerWhileBreakContinue(t *testing.T) {
	mod, errs := lowerSource(t, `
int main() {
	int i = 0;
	while (i) {
		continue;
		break;
	}
	return i;
}`)
	require.Empty(t, errs)
	out := ir.Print(mod)
	assert.Contains(t, out, "while.cond")
	assert.Contains(t, out, "while.body")
	assert.Contains(t, out, "while.end")
}

func TestLowerShortCircuitAndUsedAsCondition(t *testing.T) {
	mod, errs := lowerSource(t, `
int main() {
	int a = 1;
	int b = 0;
	if (a && b) {
		return 1;
	}
	return 0;
}`)
	require.Empty(t, errs)
	out := ir.Print(mod)
	assert.Contains(t, out, "and.rhs")
}

func TestLowerShortCircuitOrUsedAsValue(t *testing.T) {
	mod, errs := lowerSource(t, `
int main() {
	int a = 1;
	int b = 0;
	int c = a || b;
	return c;
}`)
	require.Empty(t, errs)
	out := ir.Print(mod)
	assert.Contains(t, out, "or.rhs")
	assert.Contains(t, out, "bool.true")
	assert.Contains(t, out, "bool.false")
	assert.Contains(t, out, "bool.join")
}

func TestLowerImplicitWideningOfComparisonResult(t *testing.T) {
	mod, errs := lowerSource(t, `
int main() {
	int x = 1;
	int y = (x < 2) + 1;
	return y;
}`)
	require.Empty(t, errs)
	out := ir.Print(mod)
	assert.Contains(t, out, "icmp slt")
	assert.Contains(t, out, "sext i1")
}

func TestLowerGlobalConstFolds(t *testing.T) {
	mod, errs := lowerSource(t, `
const int N = 2 + 3 * 4;
int main() { return N; }`)
	require.Empty(t, errs)
	require.Len(t, mod.Globals, 1)
	require.NotNil(t, mod.Globals[0].Value)
	assert.Equal(t, int64(14), *mod.Globals[0].Value)
	assert.True(t, mod.Globals[0].IsConst)
}

func TestLowerGlobalVarTentativeIsZero(t *testing.T) {
	mod, errs := lowerSource(t, "int x;\nint main() { return x; }")
	require.Empty(t, errs)
	require.Len(t, mod.Globals, 1)
	assert.Nil(t, mod.Globals[0].Value)
}

func TestLowerDivisionByZeroInGlobalInitIsError(t *testing.T) {
	_, errs := lowerSource(t, "const int N = 1 / 0;\nint main() { return 0; }")
	require.NotEmpty(t, errs)
	assert.Equal(t, cerrors.ErrorDivisionByZero, errs[0].Code)
}

func TestLowerNonConstantGlobalInitIsError(t *testing.T) {
	_, errs := lowerSource(t, `
int f() { return 1; }
int x = f();`)
	require.NotEmpty(t, errs)
	assert.Equal(t, cerrors.ErrorNonConstantInitializer, errs[0].Code)
}

func TestLowerUndeclaredIdentifierIsError(t *testing.T) {
	_, errs := lowerSource(t, "int main() { return y; }")
	require.NotEmpty(t, errs)
	assert.Equal(t, cerrors.ErrorUndeclaredIdentifier, errs[0].Code)
}

func TestLowerRedeclarationIsError(t *testing.T) {
	_, errs := lowerSource(t, "int main() { int x = 1; int x = 2; return x; }")
	require.NotEmpty(t, errs)
	assert.Equal(t, cerrors.ErrorRedeclaration, errs[0].Code)
}

func TestLowerBreakOutsideLoopIsError(t *testing.T) {
	_, errs := lowerSource(t, "int main() { break; return 0; }")
	require.NotEmpty(t, errs)
	assert.Equal(t, cerrors.ErrorBreakOutsideLoop, errs[0].Code)
}

func TestLowerContinueOutsideLoopIsError(t *testing.T) {
	_, errs := lowerSource(t, "int main() { continue; return 0; }")
	require.NotEmpty(t, errs)
	assert.Equal(t, cerrors.ErrorContinueOutsideLoop, errs[0].Code)
}

func TestLowerAssignToConstIsError(t *testing.T) {
	_, errs := lowerSource(t, "int main() { const int x = 1; x = 2; return x; }")
	require.NotEmpty(t, errs)
	assert.Equal(t, cerrors.ErrorInvalidLValue, errs[0].Code)
}

func TestLowerCallArityMismatchIsError(t *testing.T) {
	_, errs := lowerSource(t, `
int add(int a, int b) { return a + b; }
int main() { return add(1); }`)
	require.NotEmpty(t, errs)
	assert.Equal(t, cerrors.ErrorInvalidArguments, errs[0].Code)
}

func TestLowerReturnTypeMismatchIsError(t *testing.T) {
	_, errs := lowerSource(t, "void f() { return 1; }")
	require.NotEmpty(t, errs)
	assert.Equal(t, cerrors.ErrorReturnTypeMismatch, errs[0].Code)
}

func TestLowerFunctionCallAndParams(t *testing.T) {
	mod, errs := lowerSource(t, `
int add(int a, int b) { return a + b; }
int main() { return add(1, 2); }`)
	require.Empty(t, errs)
	out := ir.Print(mod)
	assert.Contains(t, out, "define i32 @add(i32 %a, i32 %b) {")
	assert.Contains(t, out, "call i32 @add(i32 1, i32 2)")
}

func TestLowerVoidCallUsedAsConditionIsError(t *testing.T) {
	_, errs := lowerSource(t, `
void f() { }
int main() { if (f()) { return 1; } return 0; }`)
	require.NotEmpty(t, errs)
	assert.Equal(t, cerrors.ErrorTypeMismatch, errs[0].Code)
}

func TestLowerVoidCallUsedAsInitializerIsError(t *testing.T) {
	_, errs := lowerSource(t, `
void f() { }
int main() { int x = f(); return x; }`)
	require.NotEmpty(t, errs)
	assert.Equal(t, cerrors.ErrorTypeMismatch, errs[0].Code)
}

func TestLowerVoidCallUsedAsOperandIsError(t *testing.T) {
	_, errs := lowerSource(t, `
void f() { }
int main() { return 1 + f(); }`)
	require.NotEmpty(t, errs)
	assert.Equal(t, cerrors.ErrorTypeMismatch, errs[0].Code)
}

func TestLowerVoidCallAsArgumentIsError(t *testing.T) {
	_, errs := lowerSource(t, `
void f() { }
int g(int a) { return a; }
int main() { return g(f()); }`)
	require.NotEmpty(t, errs)
	assert.Equal(t, cerrors.ErrorTypeMismatch, errs[0].Code)
}

func TestLowerVoidCallAsUnaryOperandIsError(t *testing.T) {
	_, errs := lowerSource(t, `
void f() { }
int main() { return -f(); }`)
	require.NotEmpty(t, errs)
	assert.Equal(t, cerrors.ErrorTypeMismatch, errs[0].Code)
}

func TestLowerVoidCallAsStatementIsLegal(t *testing.T) {
	mod, errs := lowerSource(t, `
void f() { }
int main() { f(); return 0; }`)
	require.Empty(t, errs)
	out := ir.Print(mod)
	assert.Contains(t, out, "call void @f()")
}

// A call to an undeclared function is reported once by typechecking and
// again when lowering emits the Call instruction; both complaints carry
// the exact same call-site position, so this also covers dedup-by-location.
func TestLowerUndeclaredCalleeIsReportedOnce(t *testing.T) {
	_, errs := lowerSource(t, "int main() { return missing(); }")
	require.Len(t, errs, 1)
	assert.Equal(t, cerrors.ErrorUndeclaredIdentifier, errs[0].Code)
}
