// Package lowering implements minicc's AST-to-IR lowering pass: a single
// walk over a type-checked, widening-rewritten AST that emits
// minicc/internal/ir instructions through a cursor-style Builder,
// classic truelist/falselist backpatching for short-circuit &&/||, an
// explicit loop-context stack for break/continue, constant folding of
// global/const initializers, and a single CFG-edge finalization post-pass.
package lowering

import (
	"fmt"

	"minicc/internal/ir"
	"minicc/internal/symbols"
)

// BranchSlot is a deferred write to one branch instruction's target field.
// It stands in for the C pointer-to-pointer (BasicBlock**) that the
// original lowering pass backpatches through: here the slot is a closure
// that mutates the concrete CondBr.True/False or UncondBr.Target field it
// was built from.
type BranchSlot struct {
	set func(target *ir.BasicBlock)
}

func condBrTrueSlot(br *ir.CondBr) BranchSlot {
	return BranchSlot{set: func(t *ir.BasicBlock) { br.True = t }}
}

func condBrFalseSlot(br *ir.CondBr) BranchSlot {
	return BranchSlot{set: func(t *ir.BasicBlock) { br.False = t }}
}

func uncondBrSlot(br *ir.UncondBr) BranchSlot {
	return BranchSlot{set: func(t *ir.BasicBlock) { br.Target = t }}
}

// backPatch resolves every deferred slot in list to target.
func backPatch(list []BranchSlot, target *ir.BasicBlock) {
	for _, slot := range list {
		slot.set(target)
	}
}

// merge concatenates two backpatch lists.
func merge(a, b []BranchSlot) []BranchSlot {
	out := make([]BranchSlot, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	return out
}

// Builder tracks the single insertion cursor used while lowering a
// function body: the basic block new instructions are appended to. Block
// labels and %n temporary names are drawn from the same shared counter on
// table, so the two series never collide in the printed IR.
type Builder struct {
	fn       *ir.Function
	insertBB *ir.BasicBlock
	table    *symbols.Table
}

// NewBuilder returns a Builder positioned at fn's entry block.
func NewBuilder(fn *ir.Function, table *symbols.Table) *Builder {
	return &Builder{fn: fn, insertBB: fn.Entry, table: table}
}

// InsertBB returns the block new instructions are currently appended to.
func (b *Builder) InsertBB() *ir.BasicBlock { return b.insertBB }

// SetInsertBB redirects the cursor to bb.
func (b *Builder) SetInsertBB(bb *ir.BasicBlock) { b.insertBB = bb }

// Emit appends inst to the current insertion block.
func (b *Builder) Emit(inst ir.Instruction) {
	b.insertBB.Append(inst)
}

// NewBlock creates a fresh, unattached-to-CFG block in the current
// function with an auto-numbered label.
func (b *Builder) NewBlock(prefix string) *ir.BasicBlock {
	label := fmt.Sprintf("%s%d", prefix, b.table.NewLabel())
	return b.fn.NewBlock(label)
}

// NewTemp returns the next %n temporary name.
func (b *Builder) NewTemp() string {
	return fmt.Sprintf("t%d", b.table.NewLabel())
}
