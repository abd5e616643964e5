package breeze

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandQueueFIFO(t *testing.T) {
	q := NewCommandQueue(4)
	require.NoError(t, q.Enqueue(Circle{Radius: 1}))
	require.NoError(t, q.Enqueue(SpriteCommand{Image: 2}))
	require.NoError(t, q.Enqueue(TextCommand{Content: "three"}))
	assert.Equal(t, 3, q.Len())

	got := q.Drain()
	require.Len(t, got, 3)
	assert.Equal(t, DomainGeometry, got[0].Domain())
	assert.Equal(t, DomainSprite, got[1].Domain())
	assert.Equal(t, DomainText, got[2].Domain())
	assert.Zero(t, q.Len())
	assert.Empty(t, q.Drain())
}

func TestCommandQueueIgnoresNil(t *testing.T) {
	q := NewCommandQueue(0)
	require.NoError(t, q.Enqueue(nil))
	assert.Zero(t, q.Len())
}

func TestCommandQueueIgnoresNilPointers(t *testing.T) {
	q := NewCommandQueue(0)
	for _, cmd := range []DrawCommand{
		(*SpriteCommand)(nil),
		(*TextCommand)(nil),
		(*Circle)(nil),
		(*Torus)(nil),
		(*Model)(nil),
		(*PointLight)(nil),
		(*DirectionalLight)(nil),
	} {
		require.NoError(t, q.Enqueue(cmd))
	}
	assert.Zero(t, q.Len())
}

func TestRendererSkipsNilPointerCommands(t *testing.T) {
	r := newTestRenderer(t)
	require.NoError(t, r.Enqueue((*SpriteCommand)(nil)))
	require.NoError(t, r.Enqueue((*Circle)(nil)))
	require.NoError(t, r.Enqueue((*PointLight)(nil)))
	require.NoError(t, r.Enqueue(&SpriteCommand{Image: 1, Tint: White}))

	require.NotPanics(t, func() { require.NoError(t, r.RunFrame()) })
	s := r.Snapshot()
	assert.Equal(t, 1, s.Len())
	assert.Len(t, s.Sprites, 1)
}

func TestCommandQueueRejectsWhileDraining(t *testing.T) {
	q := NewCommandQueue(1)
	q.lock()
	assert.True(t, q.Draining())
	assert.ErrorIs(t, q.Enqueue(Circle{}), ErrQueueDraining)
	q.unlock()
	assert.False(t, q.Draining())
	assert.NoError(t, q.Enqueue(Circle{}))
}

func TestRendererQueueUnlockedAfterFrame(t *testing.T) {
	r := newTestRenderer(t)
	require.NoError(t, r.EnqueueSprite(SpriteCommand{}))
	require.NoError(t, r.RunFrame())
	assert.False(t, r.Queue().Draining())
	assert.Zero(t, r.Queue().Len())
}
