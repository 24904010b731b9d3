package symbols

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"minicc/internal/types"
)

func TestDeclareAndLookup(t *testing.T) {
	tbl := NewTable()
	entry := &Entry{Kind: EntryIdentifier, Name: "x", Type: types.I32}

	assert.True(t, tbl.DeclareLocal("x", entry))
	assert.Same(t, entry, tbl.Lookup("x"))
	assert.Same(t, entry, tbl.LookupLocal("x"))
	assert.Nil(t, tbl.Lookup("y"))
}

func TestDeclareLocalRejectsRedeclaration(t *testing.T) {
	tbl := NewTable()
	tbl.DeclareLocal("x", &Entry{Kind: EntryIdentifier, Name: "x", Type: types.I32})

	ok := tbl.DeclareLocal("x", &Entry{Kind: EntryIdentifier, Name: "x", Type: types.I32})
	assert.False(t, ok)
}

func TestScopeNestingShadowsOuter(t *testing.T) {
	tbl := NewTable()
	outer := &Entry{Kind: EntryIdentifier, Name: "x", Type: types.I32}
	tbl.DeclareLocal("x", outer)

	tbl.EnterScope()
	assert.False(t, tbl.InGlobalScope())
	assert.Same(t, outer, tbl.Lookup("x"))
	assert.Nil(t, tbl.LookupLocal("x"))

	inner := &Entry{Kind: EntryIdentifier, Name: "x", Type: types.I1}
	assert.True(t, tbl.DeclareLocal("x", inner))
	assert.Same(t, inner, tbl.Lookup("x"))

	tbl.LeaveScope()
	assert.True(t, tbl.InGlobalScope())
	assert.Same(t, outer, tbl.Lookup("x"))
}

func TestLeaveScopeOnGlobalScopePanics(t *testing.T) {
	tbl := NewTable()
	assert.Panics(t, func() { tbl.LeaveScope() })
}

func TestNewLabelMonotonic(t *testing.T) {
	tbl := NewTable()
	a := tbl.NewLabel()
	b := tbl.NewLabel()
	assert.Equal(t, a+1, b)
}
