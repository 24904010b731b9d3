package lowering

import (
	"minicc/internal/ast"
	cerrors "minicc/internal/errors"
	"minicc/internal/ir"
	"minicc/internal/symbols"
	"minicc/internal/types"
)

func (lw *Lowerer) lowerBlock(blk *ast.Block) {
	lw.table.EnterScope()
	for _, s := range blk.Stmts {
		lw.lowerStmt(s)
	}
	lw.table.LeaveScope()
}

func (lw *Lowerer) lowerStmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.VarDecl:
		lw.lowerLocalVar(n)
	case *ast.ConstDecl:
		lw.lowerLocalConst(n)
	case *ast.ExprStmt:
		lw.lowerExprValue(n.X)
	case *ast.AssignStmt:
		lw.lowerAssign(n)
	case *ast.IfStmt:
		lw.lowerIf(n)
	case *ast.IfElseStmt:
		lw.lowerIfElse(n)
	case *ast.WhileStmt:
		lw.lowerWhile(n)
	case *ast.BreakStmt:
		lw.lowerBreak(n)
	case *ast.ContinueStmt:
		lw.lowerContinue(n)
	case *ast.ReturnStmt:
		lw.lowerReturn(n)
	case *ast.Block:
		lw.lowerBlock(n)
	}
}

// allocaAtEntry inserts an Alloca at the front of the function's entry
// block. Every local variable's stack slot is reserved here regardless of
// where in the body it is declared, so a single CFG-finalization pass
// never has to worry about a load reaching a slot that doesn't exist yet
// on some path.
func (lw *Lowerer) allocaAtEntry(typ types.Type) string {
	name := lw.b.NewTemp()
	entry := lw.b.fn.Entry
	entry.Instructions = append([]ir.Instruction{&ir.Alloca{Result: name, Elem: typ}}, entry.Instructions...)
	return name
}

// lowerLocalVar allocates the stack slot for a local variable declaration.
// The declaration's entry (kind, type) was already bound during resolution
// by n.Name.Sym; here we only attach the IR label of its storage.
func (lw *Lowerer) lowerLocalVar(n *ast.VarDecl) {
	entry, _ := n.Name.Sym.(*symbols.Entry)
	if entry == nil {
		return
	}
	slot := lw.allocaAtEntry(entry.Type)
	entry.Name = slot
	if n.Init != nil {
		val := lw.lowerExprValue(n.Init)
		lw.b.Emit(&ir.Store{Value: val, Addr: ir.LocalOperand(slot, types.PointerTo(entry.Type))})
	}
}

// lowerLocalConst allocates the stack slot for a local const declaration
// and stores its initializer there once. checkLocalConst already folded
// the initializer into an EntryConstant, so uses inline ConstValue and
// never load this slot.
func (lw *Lowerer) lowerLocalConst(n *ast.ConstDecl) {
	entry, _ := n.Name.Sym.(*symbols.Entry)
	if entry == nil {
		return
	}
	slot := lw.allocaAtEntry(entry.Type)
	entry.Name = slot
	val := lw.lowerExprValue(n.Init)
	lw.b.Emit(&ir.Store{Value: val, Addr: ir.LocalOperand(slot, types.PointerTo(entry.Type))})
}

func (lw *Lowerer) lowerAssign(n *ast.AssignStmt) {
	target, ok := n.Target.(*ast.IdentExpr)
	if !ok {
		lw.errorf(cerrors.InvalidLValue(n.Pos))
		lw.lowerExprValue(n.Value)
		return
	}
	entry, _ := target.Sym.(*symbols.Entry)
	if entry == nil {
		lw.errorf(cerrors.UndeclaredIdentifier(target.Name, n.Pos))
		lw.lowerExprValue(n.Value)
		return
	}
	if entry.Kind == symbols.EntryConstant {
		lw.errorf(cerrors.InvalidLValue(n.Pos))
		return
	}
	val := lw.lowerExprValue(n.Value)
	addr := ir.LocalOperand(entry.Name, types.PointerTo(entry.Type))
	if entry.IsGlobal {
		addr = ir.GlobalOperand(entry.Name, types.PointerTo(entry.Type))
	}
	lw.b.Emit(&ir.Store{Value: val, Addr: addr})
}

// lowerIf mirrors the classic if-then lowering: a then block and an end
// block are created up front, the condition is lowered with branch
// publication on, and its true/false lists are backpatched directly onto
// then/end — no separate fallthrough edge bookkeeping is needed because
// CFG edges are derived in one pass by Function.FinalizeCFG, not recorded
// eagerly here.
func (lw *Lowerer) lowerIf(n *ast.IfStmt) {
	thenBB := lw.b.NewBlock("if.then")
	endBB := lw.b.NewBlock("if.end")

	trueList, falseList := lw.lowerCond(n.Cond)
	backPatch(trueList, thenBB)
	backPatch(falseList, endBB)

	lw.b.SetInsertBB(thenBB)
	lw.lowerBlock(n.Then)
	if lw.b.InsertBB().Terminator() == nil {
		lw.b.Emit(&ir.UncondBr{Target: endBB})
	}

	lw.b.SetInsertBB(endBB)
}

func (lw *Lowerer) lowerIfElse(n *ast.IfElseStmt) {
	thenBB := lw.b.NewBlock("if.then")
	elseBB := lw.b.NewBlock("if.else")
	endBB := lw.b.NewBlock("if.end")

	trueList, falseList := lw.lowerCond(n.Cond)
	backPatch(trueList, thenBB)
	backPatch(falseList, elseBB)

	lw.b.SetInsertBB(thenBB)
	lw.lowerBlock(n.Then)
	if lw.b.InsertBB().Terminator() == nil {
		lw.b.Emit(&ir.UncondBr{Target: endBB})
	}

	lw.b.SetInsertBB(elseBB)
	lw.lowerBlock(n.Else)
	if lw.b.InsertBB().Terminator() == nil {
		lw.b.Emit(&ir.UncondBr{Target: endBB})
	}

	lw.b.SetInsertBB(endBB)
}

func (lw *Lowerer) lowerWhile(n *ast.WhileStmt) {
	condBB := lw.b.NewBlock("while.cond")
	bodyBB := lw.b.NewBlock("while.body")
	endBB := lw.b.NewBlock("while.end")

	lw.b.Emit(&ir.UncondBr{Target: condBB})

	lw.b.SetInsertBB(condBB)
	trueList, falseList := lw.lowerCond(n.Cond)
	backPatch(trueList, bodyBB)
	backPatch(falseList, endBB)

	lw.b.SetInsertBB(bodyBB)
	lw.pushLoop(condBB, endBB)
	lw.lowerBlock(n.Body)
	lw.popLoop()
	if lw.b.InsertBB().Terminator() == nil {
		lw.b.Emit(&ir.UncondBr{Target: condBB})
	}

	lw.b.SetInsertBB(endBB)
}

func (lw *Lowerer) lowerBreak(n *ast.BreakStmt) {
	loop, ok := lw.currentLoop()
	if !ok {
		lw.errorf(cerrors.BreakOutsideLoop(n.Pos))
		return
	}
	lw.b.Emit(&ir.UncondBr{Target: loop.endBB})
}

func (lw *Lowerer) lowerContinue(n *ast.ContinueStmt) {
	loop, ok := lw.currentLoop()
	if !ok {
		lw.errorf(cerrors.ContinueOutsideLoop(n.Pos))
		return
	}
	lw.b.Emit(&ir.UncondBr{Target: loop.condBB})
}

// lowerReturn emits the return and redirects the insertion cursor to a
// fresh, otherwise-unreachable block, so any statements the parser allowed
// after an unconditional return still have somewhere valid to land.
func (lw *Lowerer) lowerReturn(n *ast.ReturnStmt) {
	if n.Value == nil {
		lw.b.Emit(&ir.Ret{})
	} else {
		val := lw.lowerExprValue(n.Value)
		lw.b.Emit(&ir.Ret{Value: &val})
	}
	next := lw.b.NewBlock("unreachable")
	lw.b.SetInsertBB(next)
}
