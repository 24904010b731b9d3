// Package ir is minicc's SSA-flavored intermediate representation:
// Module -> Function -> BasicBlock -> Instruction. It is produced by
// minicc/internal/lowering and consumed only by Printer (there is no
// optimizer or code generator in this repository).
//
// CondBr and UncondBr hold their branch targets in *BasicBlock fields
// rather than by label lookup, so the lowering pass can backpatch a
// branch's destination after the instruction has already been appended to
// a block: it just mutates the field in place once the target block is
// known.
package ir

import (
	"fmt"

	"minicc/internal/types"
)

// Operand is anything an instruction can read: a literal constant, a
// reference to another instruction's result, or a function parameter/global.
type Operand struct {
	// Kind distinguishes how to render and resolve this operand.
	Kind OperandKind
	// Label names a %n temporary or @name global; meaningless for OpConst.
	Label string
	// ConstValue holds the literal value when Kind == OpConst.
	ConstValue int64
	Type       types.Type
}

// OperandKind tags an Operand's shape.
type OperandKind int

const (
	OpConst OperandKind = iota
	OpLocal             // a %n value: an Alloca slot or the result of an instruction
	OpGlobal
)

func (o Operand) String() string {
	switch o.Kind {
	case OpConst:
		return fmt.Sprintf("%d", o.ConstValue)
	case OpGlobal:
		return "@" + o.Label
	default:
		return "%" + o.Label
	}
}

// ConstOperand builds a literal integer operand.
func ConstOperand(v int64, typ types.Type) Operand {
	return Operand{Kind: OpConst, ConstValue: v, Type: typ}
}

// LocalOperand builds a reference to a %n temporary or alloca slot.
func LocalOperand(label string, typ types.Type) Operand {
	return Operand{Kind: OpLocal, Label: label, Type: typ}
}

// GlobalOperand builds a reference to an @name global.
func GlobalOperand(name string, typ types.Type) Operand {
	return Operand{Kind: OpGlobal, Label: name, Type: typ}
}

// BinOp enumerates arithmetic and comparison opcodes, printed LLVM-style.
type BinOp int

const (
	Add BinOp = iota
	Sub
	Mul
	SDiv
	SRem
	Xor // used to implement logical not: xor %x, 1
)

func (op BinOp) String() string {
	return [...]string{"add", "sub", "mul", "sdiv", "srem", "xor"}[op]
}

// Predicate enumerates icmp comparison kinds.
type Predicate int

const (
	Slt Predicate = iota
	Sle
	Sgt
	Sge
	Eq
	Ne
)

func (p Predicate) String() string {
	return [...]string{"slt", "sle", "sgt", "sge", "eq", "ne"}[p]
}

// Instruction is any value-producing or control-transferring operation
// inside a BasicBlock.
type Instruction interface {
	fmt.Stringer
	isInstruction()
}

// Alloca reserves a stack slot for a local variable, parameter, or the i1
// slot a short-circuit value is materialized into. Every Alloca in a
// function body is emitted at the front of the entry block.
type Alloca struct {
	Result string
	Elem   types.Type
}

func (*Alloca) isInstruction() {}
func (a *Alloca) String() string {
	return fmt.Sprintf("%%%s = alloca %s", a.Result, a.Elem.String())
}

// Load reads the current value out of a stack slot.
type Load struct {
	Result string
	Addr   Operand
	Type   types.Type
}

func (*Load) isInstruction() {}
func (l *Load) String() string {
	return fmt.Sprintf("%%%s = load %s, %s %s", l.Result, l.Type.String(), l.Addr.Type.String(), l.Addr.String())
}

// Store writes Value into the slot at Addr.
type Store struct {
	Value Operand
	Addr  Operand
}

func (*Store) isInstruction() {}
func (s *Store) String() string {
	return fmt.Sprintf("store %s %s, %s %s", s.Value.Type.String(), s.Value.String(), s.Addr.Type.String(), s.Addr.String())
}

// Binary computes an arithmetic result. Division and modulus by a
// compile-time zero are rejected during constant folding, never at
// lowering time for non-constant operands (that is a runtime concern this
// front end does not model).
type Binary struct {
	Result      string
	Op          BinOp
	Left, Right Operand
	Type        types.Type
}

func (*Binary) isInstruction() {}
func (b *Binary) String() string {
	return fmt.Sprintf("%%%s = %s %s %s, %s", b.Result, b.Op.String(), b.Type.String(), b.Left.String(), b.Right.String())
}

// Cmp computes an i1 comparison result.
type Cmp struct {
	Result      string
	Pred        Predicate
	Left, Right Operand
}

func (*Cmp) isInstruction() {}
func (c *Cmp) String() string {
	return fmt.Sprintf("%%%s = icmp %s %s %s, %s", c.Result, c.Pred.String(), c.Left.Type.String(), c.Left.String(), c.Right.String())
}

// Ext widens an i1 value to i32 (sext). Lowering only ever emits this node
// where typechecking has already inserted an ast.ExtExpr; lowering itself
// never decides to widen.
type Ext struct {
	Result string
	Value  Operand
}

func (*Ext) isInstruction() {}
func (e *Ext) String() string {
	return fmt.Sprintf("%%%s = sext %s %s to i32", e.Result, e.Value.Type.String(), e.Value.String())
}

// Call invokes a declared function.
type Call struct {
	Result   string // empty when the callee returns void
	Callee   string
	Args     []Operand
	RetType  types.Type
}

func (*Call) isInstruction() {}
func (c *Call) String() string {
	args := ""
	for i, a := range c.Args {
		if i > 0 {
			args += ", "
		}
		args += a.Type.String() + " " + a.String()
	}
	if c.Result == "" {
		return fmt.Sprintf("call %s @%s(%s)", c.RetType.String(), c.Callee, args)
	}
	return fmt.Sprintf("%%%s = call %s @%s(%s)", c.Result, c.RetType.String(), c.Callee, args)
}

// CondBr is a conditional branch. True and False are interior-mutable
// slots: the lowering pass appends a CondBr to a block before either
// target block exists yet, keeps a pointer to this struct on a
// truelist/falselist, and backpatches True/False once the destination
// block is known.
type CondBr struct {
	Cond        Operand
	True, False *BasicBlock
}

func (*CondBr) isInstruction() {}
func (b *CondBr) String() string {
	trueLabel, falseLabel := "?", "?"
	if b.True != nil {
		trueLabel = b.True.Label
	}
	if b.False != nil {
		falseLabel = b.False.Label
	}
	return fmt.Sprintf("br i1 %s, label %%%s, label %%%s", b.Cond.String(), trueLabel, falseLabel)
}

// UncondBr is an unconditional branch, likewise backpatchable through its
// Target field.
type UncondBr struct {
	Target *BasicBlock
}

func (*UncondBr) isInstruction() {}
func (b *UncondBr) String() string {
	label := "?"
	if b.Target != nil {
		label = b.Target.Label
	}
	return fmt.Sprintf("br label %%%s", label)
}

// Ret terminates a function, optionally carrying a return value.
type Ret struct {
	Value *Operand // nil for a void return
}

func (*Ret) isInstruction() {}
func (r *Ret) String() string {
	if r.Value == nil {
		return "ret void"
	}
	return fmt.Sprintf("ret %s %s", r.Value.Type.String(), r.Value.String())
}

// IsTerminator reports whether inst ends a basic block.
func IsTerminator(inst Instruction) bool {
	switch inst.(type) {
	case *CondBr, *UncondBr, *Ret:
		return true
	default:
		return false
	}
}

// BasicBlock is a straight-line run of instructions named by a single
// label. Preds/Succs are computed once, during CFG finalization, rather
// than maintained incrementally while lowering is still rewriting branch
// targets.
type BasicBlock struct {
	Label        string
	Instructions []Instruction
	Preds, Succs []*BasicBlock
}

// NewBasicBlock returns an empty block with the given label.
func NewBasicBlock(label string) *BasicBlock {
	return &BasicBlock{Label: label}
}

// Append adds inst to the end of the block.
func (b *BasicBlock) Append(inst Instruction) {
	b.Instructions = append(b.Instructions, inst)
}

// Terminator returns the block's terminating instruction, or nil if the
// block has not yet been closed off.
func (b *BasicBlock) Terminator() Instruction {
	if len(b.Instructions) == 0 {
		return nil
	}
	last := b.Instructions[len(b.Instructions)-1]
	if IsTerminator(last) {
		return last
	}
	return nil
}

func (b *BasicBlock) addSucc(succ *BasicBlock) {
	for _, s := range b.Succs {
		if s == succ {
			return
		}
	}
	b.Succs = append(b.Succs, succ)
	succ.Preds = append(succ.Preds, b)
}

// Function is one lowered function definition: a flat list of basic
// blocks with a designated entry, plus its parameter and local-variable
// allocas (which always sit at the front of Entry).
type Function struct {
	Name       string
	ParamTypes []types.Type
	ParamNames []string
	RetType    types.Type
	Entry      *BasicBlock
	Blocks     []*BasicBlock
}

// NewFunction creates a function with a single empty entry block labeled
// "entry".
func NewFunction(name string, retType types.Type) *Function {
	entry := NewBasicBlock("entry")
	return &Function{Name: name, RetType: retType, Entry: entry, Blocks: []*BasicBlock{entry}}
}

// NewBlock creates a block labeled with lbl and appends it to the
// function's block list. It is not wired into the CFG until
// FinalizeCFG runs.
func (f *Function) NewBlock(lbl string) *BasicBlock {
	bb := NewBasicBlock(lbl)
	f.Blocks = append(f.Blocks, bb)
	return bb
}

// FinalizeCFG walks every block's terminator exactly once, after all
// backpatching is complete, and records predecessor/successor edges. This
// is the single post-pass that replaces eagerly wiring edges at emission
// time, which would double-count edges whenever a branch target is
// rewritten by a later backpatch.
func (f *Function) FinalizeCFG() {
	for _, b := range f.Blocks {
		switch term := b.Terminator().(type) {
		case *CondBr:
			if term.True != nil {
				b.addSucc(term.True)
			}
			if term.False != nil {
				b.addSucc(term.False)
			}
		case *UncondBr:
			if term.Target != nil {
				b.addSucc(term.Target)
			}
		}
	}
}

// Module is a whole translation unit: a set of global variables/constants
// and the functions defined in it.
type Module struct {
	Name      string
	Globals   []*Global
	Functions []*Function
}

// Global is a module-scope variable or constant. Value is present only
// when the initializer folded to a compile-time constant (always true for
// const, conditionally true for var).
type Global struct {
	Name     string
	Type     types.Type
	Value    *int64 // nil if not constant-folded
	IsConst  bool
}

// NewModule returns an empty module named name.
func NewModule(name string) *Module {
	return &Module{Name: name}
}
