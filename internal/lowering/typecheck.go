package lowering

import (
	"minicc/internal/ast"
	cerrors "minicc/internal/errors"
	"minicc/internal/symbols"
	"minicc/internal/types"
)

// typeCheckProgram is the combined resolve/typecheck/widen/fold pass: it
// walks prog exactly once, binding every declaration's *ast.Ident.Sym and
// every use's *ast.IdentExpr.Sym to the *symbols.Entry backing it, rewrites
// the tree in place to make every implicit widening and boolean coercion
// explicit (ExtExpr, "!= 0" comparisons), and constant-folds every global
// and const initializer. Lowering (lower.go, stmt.go, expr.go) assumes all
// of this has already happened and performs no resolution or widening of
// its own.
func (lw *Lowerer) typeCheckProgram(prog *ast.Program) {
	for _, d := range prog.Decls {
		switch n := d.(type) {
		case *ast.VarDecl:
			lw.declareGlobalVar(n)
		case *ast.ConstDecl:
			lw.declareGlobalConst(n)
		}
	}
	for _, d := range prog.Decls {
		if fd, ok := d.(*ast.FuncDecl); ok {
			lw.checkFunc(fd)
		}
	}
}

// declareGlobalVar resolves and folds a global variable's initializer.
// Unlike a const, a var's declared Kind stays EntryIdentifier (every use
// loads it), but a folding initializer still seeds the emitted Global's
// initial value.
func (lw *Lowerer) declareGlobalVar(n *ast.VarDecl) {
	declType := sourceType(n.Type)
	if existing := lw.table.LookupLocal(n.Name.Value); existing != nil {
		lw.errorf(cerrors.Redeclaration(n.Name.Value, n.Pos))
	}
	entry := &symbols.Entry{Kind: symbols.EntryIdentifier, Name: n.Name.Value, Type: declType, IsGlobal: true, Pos: n.Pos}
	if n.Init != nil {
		init, initType := lw.checkExpr(n.Init)
		init, _ = lw.widenToI32(init, initType, "initializer of '"+n.Name.Value+"'")
		n.Init = init
		res := lw.foldExpr(init)
		switch {
		case res.divZero:
			lw.errorf(cerrors.DivisionByZero(n.Pos))
		case !res.ok:
			lw.errorf(cerrors.NonConstantInitializer(n.Name.Value, n.Pos))
		default:
			entry.HasInit = true
			entry.ConstValue = res.value
		}
	}
	lw.table.DeclareLocal(n.Name.Value, entry)
	n.Name.Sym = entry
}

// declareGlobalConst resolves and folds a global const's initializer; its
// Kind is always EntryConstant, so every later use inlines ConstValue
// directly instead of loading from a slot.
func (lw *Lowerer) declareGlobalConst(n *ast.ConstDecl) {
	declType := sourceType(n.Type)
	if existing := lw.table.LookupLocal(n.Name.Value); existing != nil {
		lw.errorf(cerrors.Redeclaration(n.Name.Value, n.Pos))
	}
	entry := &symbols.Entry{Kind: symbols.EntryConstant, Name: n.Name.Value, Type: declType, IsGlobal: true, Pos: n.Pos}
	init, initType := lw.checkExpr(n.Init)
	init, _ = lw.widenToI32(init, initType, "initializer of '"+n.Name.Value+"'")
	n.Init = init
	res := lw.foldExpr(init)
	switch {
	case res.divZero:
		lw.errorf(cerrors.DivisionByZero(n.Pos))
	case !res.ok:
		lw.errorf(cerrors.NonConstantInitializer(n.Name.Value, n.Pos))
	default:
		entry.HasInit = true
		entry.ConstValue = res.value
	}
	lw.table.DeclareLocal(n.Name.Value, entry)
	n.Name.Sym = entry
}

// checkFunc resolves a function's parameters into a fresh scope and
// typechecks its body. Params share that scope with nothing else: the
// body's own block introduces a further nested scope when checkBlock
// walks it. Lowering opens no separate parameter scope; lowerFunction
// only reads the entries bound here.
func (lw *Lowerer) checkFunc(fd *ast.FuncDecl) {
	lw.curFunc = fd
	lw.table.EnterScope()
	for _, p := range fd.Params {
		if existing := lw.table.LookupLocal(p.Name.Value); existing != nil {
			lw.errorf(cerrors.Redeclaration(p.Name.Value, p.Pos))
		}
		entry := &symbols.Entry{Kind: symbols.EntryIdentifier, Name: p.Name.Value, Type: sourceType(p.Type), Pos: p.Pos}
		lw.table.DeclareLocal(p.Name.Value, entry)
		p.Name.Sym = entry
	}
	lw.checkBlock(fd.Body)
	lw.table.LeaveScope()
}

func (lw *Lowerer) checkBlock(b *ast.Block) {
	lw.table.EnterScope()
	for _, s := range b.Stmts {
		lw.checkStmt(s)
	}
	lw.table.LeaveScope()
}

func (lw *Lowerer) checkStmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.VarDecl:
		lw.checkLocalVar(n)
	case *ast.ConstDecl:
		lw.checkLocalConst(n)
	case *ast.ExprStmt:
		x, _ := lw.checkExpr(n.X)
		n.X = x
	case *ast.AssignStmt:
		lw.checkAssign(n)
	case *ast.IfStmt:
		n.Cond = lw.checkCond(n.Cond)
		lw.checkBlock(n.Then)
	case *ast.IfElseStmt:
		n.Cond = lw.checkCond(n.Cond)
		lw.checkBlock(n.Then)
		lw.checkBlock(n.Else)
	case *ast.WhileStmt:
		n.Cond = lw.checkCond(n.Cond)
		lw.checkBlock(n.Body)
	case *ast.ReturnStmt:
		lw.checkReturn(n)
	case *ast.Block:
		lw.checkBlock(n)
	case *ast.BreakStmt, *ast.ContinueStmt:
		// Enclosing-loop validity is checked during lowering, where the
		// explicit loop-context stack already lives.
	}
}

// checkLocalVar declares a block-scoped variable and, if present,
// typechecks and widens its initializer. Local initializers are never
// constant-folded (see symbols.Entry.HasInit).
func (lw *Lowerer) checkLocalVar(n *ast.VarDecl) {
	declType := sourceType(n.Type)
	if existing := lw.table.LookupLocal(n.Name.Value); existing != nil {
		lw.errorf(cerrors.Redeclaration(n.Name.Value, n.Pos))
	}
	entry := &symbols.Entry{Kind: symbols.EntryIdentifier, Name: n.Name.Value, Type: declType, Pos: n.Pos}
	lw.table.DeclareLocal(n.Name.Value, entry)
	n.Name.Sym = entry
	if n.Init != nil {
		init, initType := lw.checkExpr(n.Init)
		init, _ = lw.widenToI32(init, initType, "initializer of '"+n.Name.Value+"'")
		n.Init = init
	}
}

// checkLocalConst declares a block-scoped const. Like a global const, its
// initializer must fold and its Kind is EntryConstant, so every use inlines
// ConstValue and assigning to it is rejected. Local identifiers never fold
// (see foldExpr), so the initializer may only use literals and globals.
func (lw *Lowerer) checkLocalConst(n *ast.ConstDecl) {
	declType := sourceType(n.Type)
	if existing := lw.table.LookupLocal(n.Name.Value); existing != nil {
		lw.errorf(cerrors.Redeclaration(n.Name.Value, n.Pos))
	}
	entry := &symbols.Entry{Kind: symbols.EntryConstant, Name: n.Name.Value, Type: declType, Pos: n.Pos}
	init, initType := lw.checkExpr(n.Init)
	init, _ = lw.widenToI32(init, initType, "initializer of '"+n.Name.Value+"'")
	n.Init = init
	res := lw.foldExpr(init)
	switch {
	case res.divZero:
		lw.errorf(cerrors.DivisionByZero(n.Pos))
	case !res.ok:
		lw.errorf(cerrors.NonConstantInitializer(n.Name.Value, n.Pos))
	default:
		entry.HasInit = true
		entry.ConstValue = res.value
	}
	lw.table.DeclareLocal(n.Name.Value, entry)
	n.Name.Sym = entry
}

func (lw *Lowerer) checkAssign(n *ast.AssignStmt) {
	target, ok := n.Target.(*ast.IdentExpr)
	if !ok {
		lw.errorf(cerrors.InvalidLValue(n.Pos))
		val, _ := lw.checkExpr(n.Value)
		n.Value = val
		return
	}
	entry := lw.table.Lookup(target.Name)
	if entry == nil {
		lw.errorf(cerrors.UndeclaredIdentifier(target.Name, target.Pos))
	} else {
		target.Sym = entry
		if entry.Kind == symbols.EntryConstant {
			lw.errorf(cerrors.InvalidLValue(n.Pos))
		}
	}
	val, valType := lw.checkExpr(n.Value)
	val, _ = lw.widenToI32(val, valType, "assignment")
	n.Value = val
}

func (lw *Lowerer) checkReturn(n *ast.ReturnStmt) {
	retType := sourceType(lw.curFunc.ReturnType)
	if n.Value == nil {
		if !types.IsVoid(retType) {
			lw.errorf(cerrors.ReturnTypeMismatch(lw.curFunc.Name.Value, n.Pos))
		}
		return
	}
	if types.IsVoid(retType) {
		lw.errorf(cerrors.ReturnTypeMismatch(lw.curFunc.Name.Value, n.Pos))
	}
	val, valType := lw.checkExpr(n.Value)
	val, _ = lw.widenToI32(val, valType, "return statement")
	n.Value = val
}

// checkCond typechecks e and coerces it to i1 if it isn't already,
// exactly the implicit "!= 0" coercion if/while conditions get in the
// lowering pass this was grounded on.
func (lw *Lowerer) checkCond(e ast.Expr) ast.Expr {
	checked, t := lw.checkExpr(e)
	return lw.coerceToBool(checked, t, "condition")
}

// checkExpr resolves names and widens operands in e, returning the
// (possibly rewritten) expression and its resulting type. Every ast.Expr
// case the parser can produce is handled; ExtExpr is never parsed so it
// only ever appears here as something checkExpr itself just inserted.
func (lw *Lowerer) checkExpr(e ast.Expr) (ast.Expr, types.Type) {
	switch n := e.(type) {
	case *ast.LiteralExpr:
		return n, types.I32

	case *ast.IdentExpr:
		entry := lw.table.Lookup(n.Name)
		if entry == nil {
			lw.errorf(cerrors.UndeclaredIdentifier(n.Name, n.Pos))
			return n, types.I32
		}
		n.Sym = entry
		return n, entry.Type

	case *ast.ExtExpr:
		x, _ := lw.checkExpr(n.X)
		n.X = x
		return n, types.I32

	case *ast.UnaryExpr:
		return lw.checkUnary(n)

	case *ast.BinaryExpr:
		return lw.checkBinary(n)

	case *ast.CallExpr:
		return lw.checkCall(n)

	default:
		return e, types.I32
	}
}

func (lw *Lowerer) checkUnary(n *ast.UnaryExpr) (ast.Expr, types.Type) {
	x, xt := lw.checkExpr(n.X)
	switch n.Op {
	case ast.OpNeg:
		// Arithmetic negation requires an i32 operand (UnaryExpr::typeCheck's
		// UMINUS case widens a bare i1 the same way).
		x, xt = lw.widenToI32(x, xt, "operand of unary '-'")
		n.X = x
		return n, xt
	case ast.OpNot:
		n.X = lw.coerceToBool(x, xt, "operand of '!'")
		return n, types.I1
	default:
		n.X = x
		return n, xt
	}
}

func (lw *Lowerer) checkBinary(n *ast.BinaryExpr) (ast.Expr, types.Type) {
	if n.Op.IsLogical() {
		l, lt := lw.checkExpr(n.Left)
		r, rt := lw.checkExpr(n.Right)
		site := "operand of '" + n.Op.String() + "'"
		n.Left = lw.coerceToBool(l, lt, site)
		n.Right = lw.coerceToBool(r, rt, site)
		return n, types.I1
	}
	l, lt := lw.checkExpr(n.Left)
	r, rt := lw.checkExpr(n.Right)
	site := "operand of '" + n.Op.String() + "'"
	l, lt = lw.widenToI32(l, lt, site)
	r, _ = lw.widenToI32(r, rt, site)
	n.Left, n.Right = l, r
	if n.Op.IsComparison() {
		return n, types.I1
	}
	return n, lt
}

func (lw *Lowerer) checkCall(n *ast.CallExpr) (ast.Expr, types.Type) {
	sig, ok := lw.funcs[n.Callee.Value]
	if !ok {
		lw.errorf(cerrors.UndeclaredIdentifier(n.Callee.Value, n.Pos))
	}
	for i, a := range n.Args {
		checked, at := lw.checkExpr(a)
		checked, _ = lw.widenToI32(checked, at, "argument to '"+n.Callee.Value+"'")
		n.Args[i] = checked
	}
	if ok && len(n.Args) != len(sig.params) {
		lw.errorf(cerrors.InvalidArguments(n.Callee.Value, len(sig.params), len(n.Args), n.Pos))
	}
	if !ok {
		return n, types.I32
	}
	return n, sig.ret
}

// rejectVoid reports a TypeMismatch and substitutes a harmless i32 zero
// whenever t is void: a void-returning call has no value, so it can never
// flow into an operand, argument, initializer, or condition position. site
// names that position for the error message. The substitution keeps the
// rest of the pass (and the IR it would otherwise feed) on a well-typed
// tree; the collected error is what actually marks this program invalid.
func (lw *Lowerer) rejectVoid(e ast.Expr, t types.Type, site string) (ast.Expr, types.Type, bool) {
	if !types.IsVoid(t) {
		return e, t, false
	}
	lw.errorf(cerrors.TypeMismatch(site, "void", "a value", e.NodePos()))
	return &ast.LiteralExpr{Pos: e.NodePos(), EndPos: e.NodeEndPos(), Value: 0}, types.I32, true
}

// widenToI32 inserts an ExtExpr around e when its type is i1 and i32 is
// required; every other non-void type is returned unchanged (minicc has
// only i1 and i32, so anything not i1 here already is i32). site names the
// position e appears in, used only to report void-as-value.
func (lw *Lowerer) widenToI32(e ast.Expr, t types.Type, site string) (ast.Expr, types.Type) {
	if e, t, rejected := lw.rejectVoid(e, t, site); rejected {
		return e, t
	}
	if !types.IsI1(t) {
		return e, t
	}
	return &ast.ExtExpr{Pos: e.NodePos(), EndPos: e.NodeEndPos(), X: e, ToWidth: 32}, types.I32
}

// coerceToBool wraps e in an implicit "!= 0" comparison when its type
// isn't already i1, giving if/while conditions and && / || operands a
// uniform i1 operand to publish branches from. site names the position e
// appears in, used only to report void-as-value.
func (lw *Lowerer) coerceToBool(e ast.Expr, t types.Type, site string) ast.Expr {
	if e, t, rejected := lw.rejectVoid(e, t, site); rejected {
		return e
	}
	if types.IsI1(t) {
		return e
	}
	zero := &ast.LiteralExpr{Pos: e.NodePos(), EndPos: e.NodeEndPos(), Value: 0}
	return &ast.BinaryExpr{Pos: e.NodePos(), EndPos: e.NodeEndPos(), Op: ast.OpNe, Left: e, Right: zero}
}

// foldResult is the outcome of constant-folding an expression: ok is false
// either because the expression isn't a compile-time constant at all, or
// (divZero) because it is one but folds a division/modulus by zero — a
// distinct, more specific error than "not a constant".
type foldResult struct {
	value   int64
	ok      bool
	divZero bool
}

func foldOK(v int64) foldResult { return foldResult{value: v, ok: true} }
func foldFail() foldResult      { return foldResult{} }
func foldDivZero() foldResult   { return foldResult{divZero: true} }

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// foldExpr evaluates e as a compile-time integer constant, grounded on
// BinaryExpr::constantFolding/UnaryExpr::constantFolding/Id::constantFolding:
// literals, references to global identifiers (const or var) whose
// initializer already folded, negation/not, and binary
// arithmetic/comparison/logical operators all fold; a call or a reference
// to any local identifier does not.
func (lw *Lowerer) foldExpr(e ast.Expr) foldResult {
	switch n := e.(type) {
	case *ast.LiteralExpr:
		return foldOK(n.Value)

	case *ast.ExtExpr:
		return lw.foldExpr(n.X)

	case *ast.IdentExpr:
		entry, _ := n.Sym.(*symbols.Entry)
		if entry == nil || !entry.IsGlobal || !entry.HasInit {
			return foldFail()
		}
		return foldOK(entry.ConstValue)

	case *ast.UnaryExpr:
		x := lw.foldExpr(n.X)
		if !x.ok {
			return x
		}
		switch n.Op {
		case ast.OpNeg:
			return foldOK(-x.value)
		case ast.OpNot:
			return foldOK(boolInt(x.value == 0))
		default:
			return foldFail()
		}

	case *ast.BinaryExpr:
		l := lw.foldExpr(n.Left)
		if !l.ok {
			return l
		}
		r := lw.foldExpr(n.Right)
		if !r.ok {
			return r
		}
		switch n.Op {
		case ast.OpAdd:
			return foldOK(l.value + r.value)
		case ast.OpSub:
			return foldOK(l.value - r.value)
		case ast.OpMul:
			return foldOK(l.value * r.value)
		case ast.OpDiv:
			if r.value == 0 {
				return foldDivZero()
			}
			return foldOK(l.value / r.value)
		case ast.OpMod:
			if r.value == 0 {
				return foldDivZero()
			}
			return foldOK(l.value % r.value)
		case ast.OpLt:
			return foldOK(boolInt(l.value < r.value))
		case ast.OpLe:
			return foldOK(boolInt(l.value <= r.value))
		case ast.OpGt:
			return foldOK(boolInt(l.value > r.value))
		case ast.OpGe:
			return foldOK(boolInt(l.value >= r.value))
		case ast.OpEq:
			return foldOK(boolInt(l.value == r.value))
		case ast.OpNe:
			return foldOK(boolInt(l.value != r.value))
		case ast.OpAnd:
			return foldOK(boolInt(l.value != 0 && r.value != 0))
		case ast.OpOr:
			return foldOK(boolInt(l.value != 0 || r.value != 0))
		default:
			return foldFail()
		}

	default:
		return foldFail()
	}
}
