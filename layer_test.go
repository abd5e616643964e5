package breeze

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayerDefaults(t *testing.T) {
	r := newTestRenderer(t)
	ui := r.Layer(2)
	ui.Text.Draw("score", V2(1, 1))
	ui.Sprites.Draw(5, V2(0, 0))
	ui.Lights.Point(V3(0, 1, 0), White, 100, 10)

	require.NoError(t, r.RunFrame())
	s := r.Snapshot()

	require.Len(t, s.Texts, 1)
	assert.Equal(t, float32(DefaultTextSize), s.Texts[0].Size)
	assert.Equal(t, Black, s.Texts[0].Color)
	assert.Equal(t, 2, s.Texts[0].Layer)

	require.Len(t, s.Sprites, 1)
	assert.Equal(t, V3(1, 1, 1), s.Sprites[0].Scale)
	assert.Equal(t, White, s.Sprites[0].Tint)

	require.Len(t, s.Lights, 1)
	assert.True(t, s.Lights[0].Shadows)
	assert.Equal(t, 2, s.Lights[0].Layer)
}

func TestLayerGeometry(t *testing.T) {
	r := newTestRenderer(t)
	world := r.Layer(0)
	world.Draw2D.Circle(V2(0, 0), 4, Red)
	world.Draw2D.Rect(V2(0, 0), V2(2, 3), Red)
	world.Draw2D.Line(V2(0, 0), V2(1, 0), 1, Red)
	world.Draw2D.Ring(V2(0, 0), 5, 1, Red)
	world.Draw3D.Cube(V3(0, 0, -5), Identity, 1, Blue)
	world.Draw3D.Sphere(V3(0, 0, -5), 1, Blue)
	world.Draw3D.Torus(V3(0, 0, -5), Quat{}, 2, 0.5, Blue)
	world.Draw3D.Model(Zero3, Identity, One3, 9)

	require.NoError(t, r.RunFrame())
	s := r.Snapshot()
	require.Len(t, s.Geometry, 8)

	prims := make([]Primitive, 0, len(s.Geometry))
	for _, g := range s.Geometry {
		prims = append(prims, g.Primitive)
	}
	assert.Equal(t, []Primitive{PrimCircle, PrimRect, PrimLine, PrimRing, PrimCube, PrimSphere, PrimTorus, PrimModel}, prims)

	st := r.Stats()
	assert.Equal(t, 1, st.Materials2D.Entries)
	assert.Equal(t, 1, st.Materials3D.Entries)
	assert.Equal(t, SceneHandle(9), s.Geometry[7].Scene)
}

func TestLayerDropsAfterClose(t *testing.T) {
	r := newTestRenderer(t)
	require.NoError(t, r.Close())
	r.Layer(0).Draw2D.Circle(V2(0, 0), 1, Red)
	assert.Zero(t, r.Queue().Len())
}
