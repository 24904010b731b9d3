package lowering

import (
	"minicc/internal/ast"
	cerrors "minicc/internal/errors"
	"minicc/internal/ir"
	"minicc/internal/symbols"
	"minicc/internal/types"
)

// lowerExprValue lowers e for its value, discarding any branch lists.
func (lw *Lowerer) lowerExprValue(e ast.Expr) ir.Operand {
	op, _, _ := lw.lowerExpr(e, false)
	return op
}

// lowerCond lowers e as a boolean condition: the returned lists are the
// not-yet-targeted CondBr slots that should be backpatched to the
// "taken"/"not taken" destination blocks once those are known.
func (lw *Lowerer) lowerCond(e ast.Expr) (trueList, falseList []BranchSlot) {
	_, t, f := lw.lowerExpr(e, true)
	return t, f
}

// publishCond emits a CondBr testing op (coercing a non-i1 operand with an
// implicit "!= 0" comparison first) and returns its two backpatch slots.
// This is the leaf step every expression kind funnels through when it is
// lowered in a boolean context: only the short-circuiting && and ||
// bypass it, since they publish branch lists directly from their operands
// without ever materializing a combined condition value.
func (lw *Lowerer) publishCond(op ir.Operand) ([]BranchSlot, []BranchSlot) {
	condOp := op
	if !types.IsI1(op.Type) {
		tmp := lw.b.NewTemp()
		lw.b.Emit(&ir.Cmp{Result: tmp, Pred: ir.Ne, Left: op, Right: ir.ConstOperand(0, op.Type)})
		condOp = ir.LocalOperand(tmp, types.I1)
	}
	br := &ir.CondBr{Cond: condOp}
	lw.b.Emit(br)
	return []BranchSlot{condBrTrueSlot(br)}, []BranchSlot{condBrFalseSlot(br)}
}

// lowerExpr is the single entry point for expression lowering. genBr
// requests that the expression publish truelist/falselist branch slots
// instead of (or alongside) producing a value operand, mirroring the
// dst/true_list/false_list triple every expression node carries in the
// lowering pass this was grounded on.
func (lw *Lowerer) lowerExpr(e ast.Expr, genBr bool) (ir.Operand, []BranchSlot, []BranchSlot) {
	switch n := e.(type) {
	case *ast.LiteralExpr:
		op := ir.ConstOperand(n.Value, types.I32)
		if genBr {
			t, f := lw.publishCond(op)
			return ir.Operand{}, t, f
		}
		return op, nil, nil

	case *ast.IdentExpr:
		op := lw.lowerIdent(n)
		if genBr {
			t, f := lw.publishCond(op)
			return ir.Operand{}, t, f
		}
		return op, nil, nil

	case *ast.ExtExpr:
		inner := lw.lowerExprValue(n.X)
		result := lw.b.NewTemp()
		lw.b.Emit(&ir.Ext{Result: result, Value: inner})
		op := ir.LocalOperand(result, types.I32)
		if genBr {
			t, f := lw.publishCond(op)
			return ir.Operand{}, t, f
		}
		return op, nil, nil

	case *ast.UnaryExpr:
		return lw.lowerUnary(n, genBr)

	case *ast.BinaryExpr:
		if n.Op.IsLogical() {
			return lw.lowerLogical(n, genBr)
		}
		return lw.lowerBinary(n, genBr)

	case *ast.CallExpr:
		op := lw.lowerCall(n)
		if genBr {
			t, f := lw.publishCond(op)
			return ir.Operand{}, t, f
		}
		return op, nil, nil

	default:
		return ir.Operand{}, nil, nil
	}
}

func (lw *Lowerer) lowerIdent(n *ast.IdentExpr) ir.Operand {
	entry, _ := n.Sym.(*symbols.Entry)
	if entry == nil {
		lw.errorf(cerrors.UndeclaredIdentifier(n.Name, n.Pos))
		return ir.ConstOperand(0, types.I32)
	}
	switch entry.Kind {
	case symbols.EntryConstant:
		return ir.ConstOperand(entry.ConstValue, entry.Type)
	default:
		if entry.IsGlobal {
			result := lw.b.NewTemp()
			lw.b.Emit(&ir.Load{Result: result, Addr: ir.GlobalOperand(entry.Name, types.PointerTo(entry.Type)), Type: entry.Type})
			return ir.LocalOperand(result, entry.Type)
		}
		result := lw.b.NewTemp()
		lw.b.Emit(&ir.Load{Result: result, Addr: ir.LocalOperand(entry.Name, types.PointerTo(entry.Type)), Type: entry.Type})
		return ir.LocalOperand(result, entry.Type)
	}
}

func (lw *Lowerer) lowerUnary(n *ast.UnaryExpr, genBr bool) (ir.Operand, []BranchSlot, []BranchSlot) {
	switch n.Op {
	case ast.OpNeg:
		x := lw.lowerExprValue(n.X)
		result := lw.b.NewTemp()
		lw.b.Emit(&ir.Binary{Result: result, Op: ir.Sub, Left: ir.ConstOperand(0, x.Type), Right: x, Type: x.Type})
		op := ir.LocalOperand(result, x.Type)
		if genBr {
			t, f := lw.publishCond(op)
			return ir.Operand{}, t, f
		}
		return op, nil, nil

	case ast.OpNot:
		// Typechecking guarantees n.X is i1-typed (wrapping it in a "!= 0"
		// comparison otherwise), so recursing with the outer genBr and
		// swapping the resulting lists is exactly negation.
		_, t, f := lw.lowerExpr(n.X, genBr)
		if genBr {
			return ir.Operand{}, f, t
		}
		x := lw.lowerExprValue(n.X)
		result := lw.b.NewTemp()
		lw.b.Emit(&ir.Binary{Result: result, Op: ir.Xor, Left: x, Right: ir.ConstOperand(1, types.I1), Type: types.I1})
		return ir.LocalOperand(result, types.I1), nil, nil

	default:
		return ir.Operand{}, nil, nil
	}
}

var cmpPredicates = map[ast.BinOp]ir.Predicate{
	ast.OpLt: ir.Slt, ast.OpLe: ir.Sle, ast.OpGt: ir.Sgt, ast.OpGe: ir.Sge,
	ast.OpEq: ir.Eq, ast.OpNe: ir.Ne,
}

var arithOps = map[ast.BinOp]ir.BinOp{
	ast.OpAdd: ir.Add, ast.OpSub: ir.Sub, ast.OpMul: ir.Mul, ast.OpDiv: ir.SDiv, ast.OpMod: ir.SRem,
}

func (lw *Lowerer) lowerBinary(n *ast.BinaryExpr, genBr bool) (ir.Operand, []BranchSlot, []BranchSlot) {
	left := lw.lowerExprValue(n.Left)
	right := lw.lowerExprValue(n.Right)

	var op ir.Operand
	if pred, ok := cmpPredicates[n.Op]; ok {
		result := lw.b.NewTemp()
		lw.b.Emit(&ir.Cmp{Result: result, Pred: pred, Left: left, Right: right})
		op = ir.LocalOperand(result, types.I1)
	} else {
		irOp := arithOps[n.Op]
		result := lw.b.NewTemp()
		lw.b.Emit(&ir.Binary{Result: result, Op: irOp, Left: left, Right: right, Type: left.Type})
		op = ir.LocalOperand(result, left.Type)
	}
	if genBr {
		t, f := lw.publishCond(op)
		return ir.Operand{}, t, f
	}
	return op, nil, nil
}

// lowerLogical implements the dragon-book short-circuit lowering for &&
// and ||: the right operand is only reached after the left has already
// been evaluated and (for &&) found true, or (for ||) found false.
//
// When the caller only needs a condition (genBr), the merged lists are
// returned directly with no value ever materialized — exactly the
// lowering this was grounded on. When the caller needs a value (e.g. the
// result is assigned to a variable), the lists are instead backpatched to
// two small blocks that store 1 or 0 into a fresh slot, both joining on a
// block that loads it back out; this generalizes the original lowering,
// which left that case unhandled, to the common case of boolean
// expressions used outside of if/while conditions.
func (lw *Lowerer) lowerLogical(n *ast.BinaryExpr, genBr bool) (ir.Operand, []BranchSlot, []BranchSlot) {
	var trueList, falseList []BranchSlot

	if n.Op == ast.OpAnd {
		rhsBB := lw.b.NewBlock("and.rhs")
		_, t1, f1 := lw.lowerExpr(n.Left, true)
		backPatch(t1, rhsBB)
		lw.b.SetInsertBB(rhsBB)
		_, t2, f2 := lw.lowerExpr(n.Right, true)
		trueList = t2
		falseList = merge(f1, f2)
	} else {
		rhsBB := lw.b.NewBlock("or.rhs")
		_, t1, f1 := lw.lowerExpr(n.Left, true)
		backPatch(f1, rhsBB)
		lw.b.SetInsertBB(rhsBB)
		_, t2, f2 := lw.lowerExpr(n.Right, true)
		falseList = f2
		trueList = merge(t1, t2)
	}

	if genBr {
		return ir.Operand{}, trueList, falseList
	}
	return lw.materializeBool(trueList, falseList), nil, nil
}

// materializeBool backpatches trueList/falseList to two blocks that store
// 1 and 0 respectively into a fresh i1 slot, then loads the slot back out
// in a joining block. No phi node is used; this is a plain alloca/store/
// load sequence like every other local in this IR.
func (lw *Lowerer) materializeBool(trueList, falseList []BranchSlot) ir.Operand {
	slot := lw.allocaAtEntry(types.I1)
	trueBB := lw.b.NewBlock("bool.true")
	falseBB := lw.b.NewBlock("bool.false")
	joinBB := lw.b.NewBlock("bool.join")

	backPatch(trueList, trueBB)
	backPatch(falseList, falseBB)

	lw.b.SetInsertBB(trueBB)
	lw.b.Emit(&ir.Store{Value: ir.ConstOperand(1, types.I1), Addr: ir.LocalOperand(slot, types.PointerTo(types.I1))})
	lw.b.Emit(&ir.UncondBr{Target: joinBB})

	lw.b.SetInsertBB(falseBB)
	lw.b.Emit(&ir.Store{Value: ir.ConstOperand(0, types.I1), Addr: ir.LocalOperand(slot, types.PointerTo(types.I1))})
	lw.b.Emit(&ir.UncondBr{Target: joinBB})

	lw.b.SetInsertBB(joinBB)
	result := lw.b.NewTemp()
	lw.b.Emit(&ir.Load{Result: result, Addr: ir.LocalOperand(slot, types.PointerTo(types.I1)), Type: types.I1})
	return ir.LocalOperand(result, types.I1)
}

func (lw *Lowerer) lowerCall(n *ast.CallExpr) ir.Operand {
	sig, ok := lw.funcs[n.Callee.Value]
	if !ok {
		lw.errorf(cerrors.UndeclaredIdentifier(n.Callee.Value, n.Pos))
		return ir.ConstOperand(0, types.I32)
	}
	if len(n.Args) != len(sig.params) {
		lw.errorf(cerrors.InvalidArguments(n.Callee.Value, len(sig.params), len(n.Args), n.Pos))
	}
	args := make([]ir.Operand, len(n.Args))
	for i, a := range n.Args {
		args[i] = lw.lowerExprValue(a)
	}
	if types.IsVoid(sig.ret) {
		lw.b.Emit(&ir.Call{Callee: n.Callee.Value, Args: args, RetType: sig.ret})
		return ir.Operand{}
	}
	result := lw.b.NewTemp()
	lw.b.Emit(&ir.Call{Result: result, Callee: n.Callee.Value, Args: args, RetType: sig.ret})
	return ir.LocalOperand(result, sig.ret)
}
