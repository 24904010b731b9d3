// Package symbols implements minicc's lexically scoped symbol table: a
// stack of scopes, entries tagged as constants or named identifiers, and
// the monotonic label counter used to name basic blocks and %n temporaries
// during lowering.
//
// This package imports minicc/internal/ast only for ast.Position; it is
// never imported back by ast, so no import cycle exists even though every
// ast.IdentExpr carries an entry from here as an opaque any field.
package symbols

import (
	"minicc/internal/ast"
	"minicc/internal/types"
)

// EntryKind tags the two things a SymbolEntry can denote.
type EntryKind int

const (
	// EntryConstant is a name bound to a known compile-time integer value
	// (a const declaration whose initializer folded).
	EntryConstant EntryKind = iota
	// EntryIdentifier is a name every use loads from storage: a local
	// variable or function parameter (an Alloca slot), or a global variable
	// (its @name global).
	EntryIdentifier
)

// Entry is the tagged union describing one bound name.
// Only the fields relevant to Kind are meaningful.
type Entry struct {
	Kind EntryKind
	Name string
	Type types.Type

	// ConstValue holds the folded initializer value. Meaningful whenever
	// HasInit is true: always for EntryConstant, and for an EntryIdentifier
	// global whose initializer folded (a plain global var may still load
	// from its slot at every use; ConstValue only seeds the IR Global's
	// initial value).
	ConstValue int64

	// HasInit reports whether ConstValue holds a folded initializer. Unset
	// for a global var with no initializer and always unset for local
	// variables (their initializers are never constant-folded); a local
	// const sets it like a global const.
	HasInit bool

	// IsGlobal marks a module-level declaration. Only global and const
	// initializers are constant-folded; local variables' never are.
	IsGlobal bool

	Pos ast.Position
}

// Scope is one lexical level of the symbol table: a function body, a
// block, or the global scope at the root.
type Scope struct {
	entries map[string]*Entry
	parent  *Scope
}

// Table is a stack of Scopes plus the shared counters used to number IR
// temporaries and basic blocks. One Table lives for the lowering of a
// single translation unit.
type Table struct {
	current   *Scope
	nextLabel int
}

// NewTable returns a Table with a single, empty global scope.
func NewTable() *Table {
	return &Table{current: &Scope{entries: make(map[string]*Entry)}}
}

// EnterScope pushes a fresh, empty scope nested inside the current one.
func (t *Table) EnterScope() {
	t.current = &Scope{entries: make(map[string]*Entry), parent: t.current}
}

// LeaveScope pops the innermost scope. Calling LeaveScope on the outermost
// (global) scope is a programmer error.
func (t *Table) LeaveScope() {
	if t.current.parent == nil {
		panic("symbols: LeaveScope called on the global scope")
	}
	t.current = t.current.parent
}

// InGlobalScope reports whether no scope has been entered beyond the root.
func (t *Table) InGlobalScope() bool {
	return t.current.parent == nil
}

// DeclareLocal binds name to entry in the innermost scope, returning false
// if name is already bound in that same scope (a redeclaration).
func (t *Table) DeclareLocal(name string, entry *Entry) bool {
	if _, exists := t.current.entries[name]; exists {
		return false
	}
	t.current.entries[name] = entry
	return true
}

// Lookup searches the scope stack from innermost to outermost and returns
// the bound entry, or nil if name is not declared anywhere visible.
func (t *Table) Lookup(name string) *Entry {
	for s := t.current; s != nil; s = s.parent {
		if e, ok := s.entries[name]; ok {
			return e
		}
	}
	return nil
}

// LookupLocal searches only the innermost scope.
func (t *Table) LookupLocal(name string) *Entry {
	if e, ok := t.current.entries[name]; ok {
		return e
	}
	return nil
}

// NewLabel hands out the next number in the shared counter used to name
// both %n temporaries and basic block labels, so the two series never
// collide within a function's printed IR.
func (t *Table) NewLabel() int {
	n := t.nextLabel
	t.nextLabel++
	return n
}
