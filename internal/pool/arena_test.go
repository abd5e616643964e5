package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArenaInsertGet(t *testing.T) {
	a := New[string](4)
	h := a.Insert("circle")

	require.False(t, h.IsZero())
	require.NotNil(t, a.Get(h))
	assert.Equal(t, "circle", *a.Get(h))
	assert.Equal(t, 1, a.Len())
}

func TestArenaZeroHandleNeverResolves(t *testing.T) {
	a := New[int](0)
	a.Insert(7)

	assert.Nil(t, a.Get(0))
	assert.False(t, a.Alive(0))
}

func TestArenaRemoveInvalidatesHandle(t *testing.T) {
	a := New[int](0)
	h := a.Insert(1)

	v, ok := a.Remove(h)
	require.True(t, ok)
	assert.Equal(t, 1, v)
	assert.False(t, a.Alive(h))

	_, ok = a.Remove(h)
	assert.False(t, ok, "second remove of the same handle must be a no-op")
	assert.Equal(t, 0, a.Len())
}

func TestArenaReusesSlotWithNewGeneration(t *testing.T) {
	a := New[int](0)
	old := a.Insert(1)
	a.Remove(old)

	fresh := a.Insert(2)
	assert.Equal(t, old.Index(), fresh.Index())
	assert.NotEqual(t, old.Generation(), fresh.Generation())
	assert.False(t, a.Alive(old))
	assert.Equal(t, 2, *a.Get(fresh))
}

func TestArenaHandlesSlotOrder(t *testing.T) {
	a := New[int](0)
	h0 := a.Insert(0)
	h1 := a.Insert(1)
	h2 := a.Insert(2)
	a.Remove(h1)

	assert.Equal(t, []Handle{h0, h2}, a.Handles(nil))

	var seen []int
	a.Each(func(_ Handle, v *int) { seen = append(seen, *v) })
	assert.Equal(t, []int{0, 2}, seen)
}
