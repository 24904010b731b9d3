package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minicc/internal/types"
)

func TestOperandString(t *testing.T) {
	assert.Equal(t, "5", ConstOperand(5, types.I32).String())
	assert.Equal(t, "%t1", LocalOperand("t1", types.I32).String())
	assert.Equal(t, "@x", GlobalOperand("x", types.I32).String())
}

func TestInstructionStringForms(t *testing.T) {
	alloca := &Alloca{Result: "1", Elem: types.I32}
	assert.Equal(t, "%1 = alloca i32", alloca.String())

	load := &Load{Result: "2", Addr: LocalOperand("1", types.PointerTo(types.I32)), Type: types.I32}
	assert.Equal(t, "%2 = load i32, i32* %1", load.String())

	store := &Store{Value: ConstOperand(7, types.I32), Addr: LocalOperand("1", types.PointerTo(types.I32))}
	assert.Equal(t, "store i32 7, i32* %1", store.String())

	bin := &Binary{Result: "3", Op: Add, Left: LocalOperand("2", types.I32), Right: ConstOperand(1, types.I32), Type: types.I32}
	assert.Equal(t, "%3 = add i32 %2, 1", bin.String())

	cmp := &Cmp{Result: "4", Pred: Slt, Left: LocalOperand("2", types.I32), Right: ConstOperand(0, types.I32)}
	assert.Equal(t, "%4 = icmp slt i32 %2, 0", cmp.String())

	ext := &Ext{Result: "5", Value: LocalOperand("4", types.I1)}
	assert.Equal(t, "%5 = sext i1 %4 to i32", ext.String())

	call := &Call{Result: "6", Callee: "f", Args: []Operand{ConstOperand(1, types.I32)}, RetType: types.I32}
	assert.Equal(t, "%6 = call i32 @f(i32 1)", call.String())

	voidCall := &Call{Callee: "g", RetType: types.Void}
	assert.Equal(t, "call void @g()", voidCall.String())

	ret := &Ret{Value: &Operand{Kind: OpConst, ConstValue: 0, Type: types.I32}}
	assert.Equal(t, "ret i32 0", ret.String())
	assert.Equal(t, "ret void", (&Ret{}).String())
}

func TestCondBrAndUncondBrUnresolvedTargetsPrintPlaceholder(t *testing.T) {
	cb := &CondBr{Cond: LocalOperand("1", types.I1)}
	assert.Equal(t, "br i1 %1, label %?, label %?", cb.String())

	ub := &UncondBr{}
	assert.Equal(t, "br label %?", ub.String())
}

func TestCondBrBackpatchUpdatesString(t *testing.T) {
	cb := &CondBr{Cond: LocalOperand("1", types.I1)}
	thenBB := NewBasicBlock("then")
	elseBB := NewBasicBlock("else")
	cb.True = thenBB
	cb.False = elseBB
	assert.Equal(t, "br i1 %1, label %then, label %else", cb.String())
}

func TestIsTerminator(t *testing.T) {
	assert.True(t, IsTerminator(&Ret{}))
	assert.True(t, IsTerminator(&UncondBr{}))
	assert.True(t, IsTerminator(&CondBr{}))
	assert.False(t, IsTerminator(&Binary{}))
}

func TestBasicBlockTerminator(t *testing.T) {
	bb := NewBasicBlock("entry")
	assert.Nil(t, bb.Terminator())

	bb.Append(&Binary{Result: "1", Op: Add})
	assert.Nil(t, bb.Terminator())

	ret := &Ret{}
	bb.Append(ret)
	assert.Same(t, ret, bb.Terminator())
}

func TestFunctionFinalizeCFGWiresEdgesOnce(t *testing.T) {
	fn := NewFunction("main", types.I32)
	thenBB := fn.NewBlock("then")
	joinBB := fn.NewBlock("join")

	cb := &CondBr{Cond: LocalOperand("1", types.I1), True: thenBB, False: joinBB}
	fn.Entry.Append(cb)

	thenBB.Append(&UncondBr{Target: joinBB})
	joinBB.Append(&Ret{})

	fn.FinalizeCFG()

	require.Len(t, fn.Entry.Succs, 2)
	assert.Contains(t, fn.Entry.Succs, thenBB)
	assert.Contains(t, fn.Entry.Succs, joinBB)
	require.Len(t, thenBB.Succs, 1)
	assert.Same(t, joinBB, thenBB.Succs[0])
	require.Len(t, joinBB.Preds, 2)

	// Re-running FinalizeCFG must not duplicate edges.
	fn.FinalizeCFG()
	assert.Len(t, fn.Entry.Succs, 2)
	assert.Len(t, joinBB.Preds, 2)
}

func TestNewFunctionHasEntryBlock(t *testing.T) {
	fn := NewFunction("f", types.Void)
	assert.Equal(t, "entry", fn.Entry.Label)
	assert.Len(t, fn.Blocks, 1)
	assert.Same(t, fn.Entry, fn.Blocks[0])
}

func TestNewModuleIsEmpty(t *testing.T) {
	mod := NewModule("test")
	assert.Empty(t, mod.Globals)
	assert.Empty(t, mod.Functions)
}
