package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSingletonsDistinct(t *testing.T) {
	assert.Equal(t, KindVoid, Void.Kind())
	assert.Equal(t, KindInt, I1.Kind())
	assert.Equal(t, KindInt, I32.Kind())
	assert.Equal(t, "void", Void.String())
	assert.Equal(t, "i1", I1.String())
	assert.Equal(t, "i32", I32.String())
}

func TestIntOfWidth(t *testing.T) {
	assert.Same(t, I1, IntOfWidth(1))
	assert.Same(t, I32, IntOfWidth(32))
	assert.Panics(t, func() { IntOfWidth(64) })
}

func TestPointerToIsInterned(t *testing.T) {
	p1 := PointerTo(I32)
	p2 := PointerTo(I32)
	assert.Same(t, p1, p2)
	assert.Equal(t, "i32*", p1.String())

	p3 := PointerTo(Void)
	assert.NotSame(t, p1, Type(p3))
}

func TestFunctionOfIsInterned(t *testing.T) {
	f1 := FunctionOf(I32, []Type{I32, I32})
	f2 := FunctionOf(I32, []Type{I32, I32})
	assert.Same(t, f1, f2)
	assert.Equal(t, "(i32, i32) -> i32", f1.String())

	f3 := FunctionOf(Void, nil)
	assert.Equal(t, "() -> void", f3.String())
}

func TestPredicates(t *testing.T) {
	assert.True(t, IsI1(I1))
	assert.False(t, IsI1(I32))
	assert.True(t, IsI32(I32))
	assert.True(t, IsInt(I1))
	assert.True(t, IsInt(I32))
	assert.False(t, IsInt(Void))
	assert.True(t, IsVoid(Void))
	assert.False(t, IsVoid(I32))
}

func TestNumBits(t *testing.T) {
	assert.Equal(t, 1, NumBits(I1))
	assert.Equal(t, 32, NumBits(I32))
	assert.Equal(t, 0, NumBits(Void))
	assert.Equal(t, 0, NumBits(PointerTo(I32)))
}
