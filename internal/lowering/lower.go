package lowering

import (
	"minicc/internal/ast"
	cerrors "minicc/internal/errors"
	"minicc/internal/ir"
	"minicc/internal/symbols"
	"minicc/internal/types"
)

// funcSig records a declared function's signature, used to check call
// sites (arity, argument types, and whether a call's result can be used
// as a value).
type funcSig struct {
	ret    types.Type
	params []types.Type
}

// Lowerer walks a parsed Program and produces an ir.Module. It performs
// its own name resolution as the first step of typechecking (see
// typecheck.go): every ast.Ident and ast.IdentExpr it visits gets its Sym
// field set to the *symbols.Entry backing it, and lowering later mutates
// that same entry in place to attach the IR label of the storage it
// allocates. A single Lowerer lowers exactly one translation unit.
type Lowerer struct {
	table   *symbols.Table
	mod     *ir.Module
	b       *Builder
	loops   []loopContext
	errs    []cerrors.CompilerError
	funcs   map[string]funcSig
	curFunc *ast.FuncDecl
}

// New returns a Lowerer backed by a fresh symbol table.
func New(table *symbols.Table) *Lowerer {
	return &Lowerer{table: table, funcs: make(map[string]funcSig)}
}

// Lower resolves names, type-checks prog (rewriting the tree in place to
// insert widening Ext nodes and implicit "!= 0" coercions), constant-folds
// every global/const initializer, and lowers every function definition to
// IR. It returns the completed module along with every structured error
// collected along the way; lowering continues past an error rather than
// stopping at the first one, and the module returned when errs is
// non-empty should not be trusted as runnable IR.
func Lower(prog *ast.Program) (*ir.Module, []cerrors.CompilerError) {
	lw := New(symbols.NewTable())
	lw.collectSignatures(prog)
	lw.typeCheckProgram(prog)
	lw.mod = ir.NewModule("minicc")
	lw.emitGlobals(prog)
	lw.lowerFunctions(prog)
	return lw.mod, dedupByLocation(lw.errs)
}

func (lw *Lowerer) errorf(err cerrors.CompilerError) {
	lw.errs = append(lw.errs, err)
}

// dedupByLocation drops repeat reports at a position already reported,
// keeping first-occurrence order: typechecking and lowering both report
// some problems (an undeclared callee, an arity mismatch, an assignment to
// a const) at the same position, which would otherwise surface twice.
func dedupByLocation(errs []cerrors.CompilerError) []cerrors.CompilerError {
	if len(errs) == 0 {
		return errs
	}
	seen := make(map[ast.Position]bool, len(errs))
	out := make([]cerrors.CompilerError, 0, len(errs))
	for _, e := range errs {
		if seen[e.Position] {
			continue
		}
		seen[e.Position] = true
		out = append(out, e)
	}
	return out
}

func (lw *Lowerer) collectSignatures(prog *ast.Program) {
	for _, d := range prog.Decls {
		fd, ok := d.(*ast.FuncDecl)
		if !ok {
			continue
		}
		params := make([]types.Type, len(fd.Params))
		for i, p := range fd.Params {
			params[i] = sourceType(p.Type)
		}
		lw.funcs[fd.Name.Value] = funcSig{ret: sourceType(fd.ReturnType), params: params}
	}
}

// sourceType maps a source-level type name to its interned types.Type.
func sourceType(t ast.TypeName) types.Type {
	if t == ast.TypeVoid {
		return types.Void
	}
	return types.I32
}

// emitGlobals appends an ir.Global for every global declaration, reading
// the type/folded-value pair that typeCheckProgram already attached to
// each declaration's resolved entry. No symbol is declared here: that
// already happened during resolution.
func (lw *Lowerer) emitGlobals(prog *ast.Program) {
	for _, d := range prog.Decls {
		switch n := d.(type) {
		case *ast.VarDecl:
			entry, _ := n.Name.Sym.(*symbols.Entry)
			if entry == nil {
				continue
			}
			var folded *int64
			if entry.HasInit {
				v := entry.ConstValue
				folded = &v
			}
			lw.mod.Globals = append(lw.mod.Globals, &ir.Global{Name: entry.Name, Type: entry.Type, Value: folded})
		case *ast.ConstDecl:
			entry, _ := n.Name.Sym.(*symbols.Entry)
			if entry == nil {
				continue
			}
			v := entry.ConstValue
			lw.mod.Globals = append(lw.mod.Globals, &ir.Global{Name: entry.Name, Type: entry.Type, Value: &v, IsConst: true})
		}
	}
}

func (lw *Lowerer) lowerFunctions(prog *ast.Program) {
	for _, d := range prog.Decls {
		fd, ok := d.(*ast.FuncDecl)
		if !ok {
			continue
		}
		lw.lowerFunction(fd)
	}
}

func (lw *Lowerer) lowerFunction(fd *ast.FuncDecl) {
	lw.curFunc = fd
	retType := sourceType(fd.ReturnType)
	fn := ir.NewFunction(fd.Name.Value, retType)
	for _, p := range fd.Params {
		fn.ParamTypes = append(fn.ParamTypes, sourceType(p.Type))
		fn.ParamNames = append(fn.ParamNames, p.Name.Value)
	}
	lw.b = NewBuilder(fn, lw.table)

	for _, p := range fd.Params {
		lw.lowerParam(p)
	}
	lw.lowerBlock(fd.Body)

	// A function body's final block may already end with a return (the
	// common case); only append a bare `ret` if control can still fall
	// off the end, rather than unconditionally appending one like the
	// code this was grounded on does.
	last := fn.Blocks[len(fn.Blocks)-1]
	if last.Terminator() == nil {
		if types.IsVoid(retType) {
			last.Append(&ir.Ret{})
		} else {
			last.Append(&ir.Ret{Value: &ir.Operand{Kind: ir.OpConst, ConstValue: 0, Type: retType}})
		}
	}

	fn.FinalizeCFG()
	lw.mod.Functions = append(lw.mod.Functions, fn)
}

// lowerParam allocates the stack slot a parameter's value is spilled to
// at entry, so that later loads/stores to the parameter behave exactly
// like any other local variable. p.Name.Sym was bound to its entry during
// resolution; entry.Name is repointed here from the source name to the
// alloca's IR label.
func (lw *Lowerer) lowerParam(p *ast.Param) {
	entry, _ := p.Name.Sym.(*symbols.Entry)
	if entry == nil {
		return
	}
	sourceName := entry.Name
	slot := lw.allocaAtEntry(entry.Type)
	entry.Name = slot
	lw.b.Emit(&ir.Store{
		Value: ir.LocalOperand(sourceName, entry.Type),
		Addr:  ir.LocalOperand(slot, types.PointerTo(entry.Type)),
	})
}
