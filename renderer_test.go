package breeze

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// newTestRenderer creates a headless renderer closed at test end.
func newTestRenderer(t *testing.T, opts ...Option) *Renderer {
	t.Helper()
	r, err := New(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

// frame enqueues cmds and runs one frame.
func frame(t *testing.T, r *Renderer, cmds ...DrawCommand) Snapshot {
	t.Helper()
	for _, c := range cmds {
		require.NoError(t, r.Enqueue(c))
	}
	require.NoError(t, r.RunFrame())
	return r.Snapshot()
}

func circle(radius float32, c Color) Circle {
	return Circle{Radius: radius, Color: c}
}

func TestNewHeadless(t *testing.T) {
	r := newTestRenderer(t)
	assert.NotEmpty(t, r.AdapterName())
	assert.Equal(t, StructuralDeferred, r.StructuralMode())
	assert.Equal(t, DefaultReserve, r.Reserve())
	assert.Zero(t, r.Frame())
	assert.Zero(t, r.Snapshot().Len())
}

func TestRunFrameEmpty(t *testing.T) {
	r := newTestRenderer(t)
	for i := 0; i < 3; i++ {
		s := frame(t, r)
		assert.Zero(t, s.Len())
	}
	assert.Equal(t, uint64(3), r.Frame())
}

func TestPoolStabilizes(t *testing.T) {
	r := newTestRenderer(t)

	const n = 5
	for f := 0; f < 10; f++ {
		for i := 0; i < n; i++ {
			require.NoError(t, r.EnqueueGeometry(Circle{
				Position: V2(float32(i*10+f), 0),
				Radius:   float32(i + 1),
				Color:    Red,
			}))
		}
		require.NoError(t, r.RunFrame())

		st := r.Stats()
		assert.Equal(t, uint64(n), st.Geometry.Created, "frame %d", f)
		assert.Equal(t, n, st.Geometry.Live)
		assert.Zero(t, st.Geometry.Destroyed)
	}
	assert.Equal(t, uint64(n*9), r.Stats().Geometry.FastPath)
}

func TestPoolStabilizesPerDomain(t *testing.T) {
	r := newTestRenderer(t)
	for f := 0; f < 4; f++ {
		frame(t, r,
			SpriteCommand{Image: 1, Scale: V2(1, 1), Tint: White},
			SpriteCommand{Image: 2, Scale: V2(1, 1), Tint: White},
			TextCommand{Content: "a", Size: 16},
			PointLight{Color: White, Intensity: 100, Range: 10},
		)
	}
	st := r.Stats()
	assert.Equal(t, uint64(2), st.Sprite.Created)
	assert.Equal(t, uint64(1), st.Text.Created)
	assert.Equal(t, uint64(1), st.Light.Created)
}

func TestMaterialSharedWithinFrame(t *testing.T) {
	r := newTestRenderer(t)

	s := frame(t, r, circle(10, Red), circle(20, Red), Rect{Size: V2(1, 1), Color: Red})
	require.Len(t, s.Geometry, 3)

	ref := s.Geometry[0].Material
	require.False(t, ref.IsZero())
	for _, g := range s.Geometry {
		assert.Equal(t, ref, g.Material)
	}

	st := r.Stats()
	assert.Equal(t, 1, st.Materials2D.Entries)
	assert.Equal(t, uint64(1), st.Assets.MaterialsAllocated)

	c, ok := r.MaterialColor(ref)
	require.True(t, ok)
	assert.Equal(t, Red, c)
}

func TestMaterialSeparateShadingModels(t *testing.T) {
	r := newTestRenderer(t)

	s := frame(t, r, circle(1, Blue), Cube{Size: 1, Color: Blue})
	require.Len(t, s.Geometry, 2)
	assert.NotEqual(t, s.Geometry[0].Material, s.Geometry[1].Material)

	st := r.Stats()
	assert.Equal(t, 1, st.Materials2D.Entries)
	assert.Equal(t, 1, st.Materials3D.Entries)
}

func TestMaterialTextureIsPartOfKey(t *testing.T) {
	r := newTestRenderer(t)

	s := frame(t, r,
		Cube{Size: 1, Color: White},
		Cube{Size: 1, Color: White, Texture: 7},
		Cube{Size: 1, Color: White, Texture: 7},
	)
	require.Len(t, s.Geometry, 3)
	assert.NotEqual(t, s.Geometry[0].Material, s.Geometry[1].Material)
	assert.Equal(t, s.Geometry[1].Material, s.Geometry[2].Material)
	assert.Equal(t, 2, r.Stats().Materials3D.Entries)
}

func TestEndToEndCircles(t *testing.T) {
	r := newTestRenderer(t)

	s := frame(t, r, circle(10, Green), circle(20, Green), circle(30, Green))
	st := r.Stats()
	assert.Equal(t, uint64(3), st.Geometry.Created)
	assert.Equal(t, 3, st.Geometry.Live)
	assert.Equal(t, uint64(1), st.Assets.MaterialsAllocated)
	shared := s.Geometry[0].Material

	s = frame(t, r, circle(10, Green), circle(20, Green))
	st = r.Stats()
	assert.Equal(t, 2, st.Geometry.Live)
	assert.Equal(t, uint64(1), st.Geometry.Destroyed)
	assert.True(t, r.MaterialAlive(shared), "shared material outlives the destroyed object")
	assert.Zero(t, st.Assets.MaterialsReleased)

	require.Len(t, s.Geometry, 2)
	assert.Equal(t, float32(10), s.Geometry[0].Transform.Scale.X)
	assert.Equal(t, float32(20), s.Geometry[1].Transform.Scale.X)
}

func TestRingRegeneratesMesh(t *testing.T) {
	r := newTestRenderer(t)

	s := frame(t, r, Ring{Radius: 10, Thickness: 2, Color: White})
	require.Len(t, s.Geometry, 1)
	m1 := s.Geometry[0].Mesh
	require.True(t, r.MeshAlive(m1))
	assert.True(t, s.Geometry[0].OwnsMesh)

	s = frame(t, r, Ring{Radius: 10, Thickness: 4, Color: White})
	m2 := s.Geometry[0].Mesh
	assert.NotEqual(t, m1, m2)
	assert.False(t, r.MeshAlive(m1), "previous ring mesh must be released")
	assert.True(t, r.MeshAlive(m2))

	// Unchanged parameters still regenerate.
	s = frame(t, r, Ring{Radius: 10, Thickness: 4, Color: White})
	m3 := s.Geometry[0].Mesh
	assert.NotEqual(t, m2, m3)
	assert.False(t, r.MeshAlive(m2))

	st := r.Stats()
	assert.Equal(t, uint64(3), st.Geometry.AssetsAllocated)
	assert.Equal(t, uint64(2), st.Geometry.AssetsReleased)
}

func TestRingMeshRadii(t *testing.T) {
	r := newTestRenderer(t)

	s := frame(t, r, Ring{Radius: 10, Thickness: 4, Color: White})
	var minR, maxR float32 = 1e9, 0
	ok := r.MeshTriangles(s.Geometry[0].Mesh, func(a, b, c Vec3) {
		for _, v := range []Vec3{a, b, c} {
			l := v.Length()
			minR = min(minR, l)
			maxR = max(maxR, l)
		}
	})
	require.True(t, ok)
	assert.InDelta(t, 8, minR, 1e-3)
	assert.InDelta(t, 12, maxR, 1e-3)
}

func TestRingDestroyedReleasesMesh(t *testing.T) {
	r := newTestRenderer(t)

	s := frame(t, r, Ring{Radius: 5, Thickness: 1, Color: White})
	m := s.Geometry[0].Mesh
	frame(t, r)
	assert.False(t, r.MeshAlive(m))
	assert.Zero(t, r.Stats().Geometry.Live)
}

func TestAlternatingKindsReleaseOnce(t *testing.T) {
	modes := []struct {
		name string
		opts []Option
	}{
		{"deferred", nil},
		{"immediate", []Option{WithImmediateStructuralChanges()}},
		{"unique materials", []Option{WithoutMaterialCache()}},
	}
	for _, mode := range modes {
		t.Run(mode.name, func(t *testing.T) {
			r := newTestRenderer(t, mode.opts...)

			for f := 0; f < 40; f++ {
				var cmd GeometryCommand
				switch f % 3 {
				case 0:
					cmd = Ring{Radius: float32(f + 1), Thickness: 1, Color: Red}
				case 1:
					cmd = Cube{Size: 1, Color: Blue}
				default:
					cmd = Model{Scene: SceneHandle(f), Scale: One3}
				}
				frame(t, r, cmd)

				st := r.Stats().Geometry
				require.LessOrEqual(t, st.AssetsReleased, st.AssetsAllocated)
				require.LessOrEqual(t, st.AssetsAllocated-st.AssetsReleased, uint64(4), "frame %d", f)
				assert.Equal(t, 1, st.Live)
			}
			assert.Equal(t, uint64(1), r.Stats().Geometry.Created)

			require.NoError(t, r.Close())
			st := r.Stats().Geometry
			assert.Equal(t, st.AssetsAllocated, st.AssetsReleased)
		})
	}
}

func TestGeometryKindChangeDeferred(t *testing.T) {
	r := newTestRenderer(t)

	s := frame(t, r, Cube{Size: 2, Color: Red})
	id := s.Geometry[0].ID
	assert.Equal(t, GeometryBound3D, s.Geometry[0].Kind)

	s = frame(t, r, circle(5, Red))
	require.Len(t, s.Geometry, 1)
	assert.Equal(t, id, s.Geometry[0].ID)
	assert.Equal(t, GeometryBound3D, s.Geometry[0].Kind, "kind change lands next frame")
	assert.True(t, s.Geometry[0].Pending)
	assert.Equal(t, 1, r.Pending())

	s = frame(t, r, circle(5, Red))
	assert.Equal(t, id, s.Geometry[0].ID)
	assert.Equal(t, GeometryBound2D, s.Geometry[0].Kind)
	assert.Equal(t, PrimCircle, s.Geometry[0].Primitive)
	assert.False(t, s.Geometry[0].Pending)
	assert.Zero(t, r.Pending())

	st := r.Stats()
	assert.Equal(t, uint64(1), st.Geometry.SlowPath)
	assert.Equal(t, uint64(1), st.Geometry.FastPath)
	assert.Equal(t, uint64(1), st.StructuralApplied)
}

func TestGeometryKindChangeImmediate(t *testing.T) {
	r := newTestRenderer(t, WithImmediateStructuralChanges())

	frame(t, r, Cube{Size: 2, Color: Red})
	s := frame(t, r, circle(5, Red))
	assert.Equal(t, GeometryBound2D, s.Geometry[0].Kind)
	assert.False(t, s.Geometry[0].Pending)
	assert.Zero(t, r.Pending())
}

func TestGeometry3DPrimitivesShareKind(t *testing.T) {
	r := newTestRenderer(t)

	frame(t, r, Cube{Size: 1, Color: Red})
	s := frame(t, r, Sphere{Radius: 2, Color: Red})
	assert.Equal(t, PrimSphere, s.Geometry[0].Primitive)
	assert.Zero(t, r.Stats().Geometry.SlowPath)
}

func TestModelFastPathSwapsScene(t *testing.T) {
	r := newTestRenderer(t)

	s := frame(t, r, Model{Scene: 1, Scale: One3})
	assert.Equal(t, GeometryBoundModel, s.Geometry[0].Kind)
	assert.True(t, s.Geometry[0].Mesh.IsZero())
	assert.True(t, s.Geometry[0].Material.IsZero())

	s = frame(t, r, Model{Scene: 2, Position: V3(1, 2, 3), Scale: Splat(2)})
	assert.Equal(t, SceneHandle(2), s.Geometry[0].Scene)
	assert.Equal(t, V3(1, 2, 3), s.Geometry[0].Transform.Translation)
	assert.Equal(t, uint64(1), r.Stats().Geometry.FastPath)
}

func TestWithoutMaterialCache(t *testing.T) {
	r := newTestRenderer(t, WithoutMaterialCache())

	s := frame(t, r, circle(1, Red), circle(2, Red))
	m0, m1 := s.Geometry[0].Material, s.Geometry[1].Material
	assert.NotEqual(t, m0, m1)
	assert.Zero(t, r.Stats().Materials2D.Entries)

	s = frame(t, r, circle(1, Red))
	assert.False(t, r.MaterialAlive(m0), "replaced unique material is released")
	assert.False(t, r.MaterialAlive(m1), "destroyed object's material is released")
	assert.True(t, r.MaterialAlive(s.Geometry[0].Material))
}

func TestCloseDiscardsPendingAssets(t *testing.T) {
	r := newTestRenderer(t)

	frame(t, r, Cube{Size: 1, Color: Red})
	frame(t, r, Ring{Radius: 3, Thickness: 1, Color: Red})
	require.Equal(t, 1, r.Pending())

	require.NoError(t, r.Close())
	st := r.Stats()
	assert.Equal(t, uint64(1), st.Geometry.AssetsAllocated)
	assert.Equal(t, uint64(1), st.Geometry.AssetsReleased)
	assert.Equal(t, st.Assets.MeshesAllocated, st.Assets.MeshesReleased)
	assert.Equal(t, st.Assets.MaterialsAllocated, st.Assets.MaterialsReleased)
}

func TestClosed(t *testing.T) {
	r := newTestRenderer(t)
	require.NoError(t, r.Close())
	require.NoError(t, r.Close())

	assert.ErrorIs(t, r.RunFrame(), ErrClosed)
	assert.ErrorIs(t, r.EnqueueGeometry(circle(1, Red)), ErrClosed)
	assert.Zero(t, r.Snapshot().Len())
	assert.False(t, r.MeshAlive(1))
}

func TestPositionalBinding(t *testing.T) {
	r := newTestRenderer(t)

	s := frame(t, r,
		SpriteCommand{Image: 1, Scale: V2(1, 1), Tint: White},
		SpriteCommand{Image: 2, Scale: V2(1, 1), Tint: White},
	)
	first := s.Sprites[0].ID

	// Dropping the first command moves the second one onto the first object.
	s = frame(t, r, SpriteCommand{Image: 2, Scale: V2(1, 1), Tint: White})
	require.Len(t, s.Sprites, 2)
	assert.Equal(t, first, s.Sprites[0].ID)
	assert.Equal(t, ImageHandle(2), s.Sprites[0].Image)
	assert.True(t, s.Sprites[0].Visible)
	assert.False(t, s.Sprites[1].Visible)
}

func TestSpriteIdempotent(t *testing.T) {
	r := newTestRenderer(t)
	cmd := SpriteCommand{Image: 3, Position: V2(10, 20), Scale: V2(2, 2), Tint: Yellow, Layer: 1}

	frame(t, r, cmd)
	for f := 0; f < 5; f++ {
		frame(t, r, cmd)
	}
	st := r.Stats().Sprite
	assert.Zero(t, st.FieldWrites)
	assert.Equal(t, uint64(5), st.FastPath)

	cmd.Tint = Cyan
	frame(t, r, cmd)
	assert.Equal(t, uint64(1), r.Stats().Sprite.FieldWrites)
}

func TestSpriteStacking(t *testing.T) {
	r := newTestRenderer(t)

	s := frame(t, r,
		SpriteCommand{Image: 1, Position: V2(5, 6), Scale: V2(1, 2), Tint: White, Layer: 2},
		SpriteCommand{Image: 1, Tint: White, Layer: 2},
	)
	require.Len(t, s.Sprites, 2)
	assert.Equal(t, V3(5, 6, stackZ(2, 0)), s.Sprites[0].Position)
	assert.Equal(t, V3(1, 2, 1), s.Sprites[0].Scale)
	assert.Greater(t, s.Sprites[1].Position.Z, s.Sprites[0].Position.Z)
	assert.InDelta(t, 200, s.Sprites[0].Position.Z, 1e-3)
}

func TestReserve(t *testing.T) {
	r := newTestRenderer(t, WithReserve(2))

	var cmds []DrawCommand
	for i := 0; i < 5; i++ {
		cmds = append(cmds, SpriteCommand{Image: ImageHandle(i + 1), Tint: White})
	}
	frame(t, r, cmds...)
	require.Equal(t, 5, r.Stats().Sprite.Live)

	s := frame(t, r)
	st := r.Stats().Sprite
	assert.Equal(t, 2, st.Live)
	assert.Equal(t, uint64(3), st.Destroyed)
	assert.Equal(t, uint64(2), st.Hidden)
	for _, sp := range s.Sprites {
		assert.False(t, sp.Visible)
	}

	s = frame(t, r, SpriteCommand{Image: 9, Tint: White})
	assert.Equal(t, uint64(5), r.Stats().Sprite.Created, "reserve objects are reused")
	assert.True(t, s.Sprites[0].Visible)
	assert.False(t, s.Sprites[1].Visible)
}

func TestZeroReserveDestroysLeftovers(t *testing.T) {
	r := newTestRenderer(t, WithReserve(0))

	frame(t, r, TextCommand{Content: "x", Size: 16}, PointLight{Color: White})
	frame(t, r)
	st := r.Stats()
	assert.Zero(t, st.Text.Live)
	assert.Zero(t, st.Light.Live)
}

func TestTextUpdates(t *testing.T) {
	r := newTestRenderer(t)

	cmd := TextCommand{Content: "hi", Position: V2(1, 2), Size: 16, Color: Black}
	s := frame(t, r, cmd)
	require.Len(t, s.Texts, 1)
	short := s.Texts[0].Bounds.Width
	assert.Greater(t, short, float32(0))

	frame(t, r, cmd)
	assert.Zero(t, r.Stats().Text.FieldWrites)

	cmd.Content = "hello there"
	s = frame(t, r, cmd)
	assert.Equal(t, "hello there", s.Texts[0].Content)
	assert.Greater(t, s.Texts[0].Bounds.Width, short)
	assert.Equal(t, uint64(1), r.Stats().Text.FieldWrites)
}

func TestPipelineInputs(t *testing.T) {
	r := newTestRenderer(t)

	for _, sh := range []Shading{Unlit2D, Lit3D} {
		p, ok := r.Pipeline(sh)
		require.True(t, ok, sh.String())
		assert.NotNil(t, p.Shader)
		assert.Len(t, p.Layout.Attributes, 3)
	}
	_, ok := r.Pipeline(Shading(9))
	assert.False(t, ok)

	require.NoError(t, r.Close())
	_, ok = r.Pipeline(Unlit2D)
	assert.False(t, ok)
}

func TestTextRemeasuredAfterFontReplaced(t *testing.T) {
	r := newTestRenderer(t)
	require.NoError(t, r.RegisterFont(3, goregular.TTF))

	cmd := TextCommand{Content: "WWWW", Font: 3, Size: 16, Color: Black}
	s := frame(t, r, cmd)
	regular := s.Texts[0].Bounds.Width

	require.NoError(t, r.RegisterFont(3, gomono.TTF))
	s = frame(t, r, cmd)
	assert.NotEqual(t, regular, s.Texts[0].Bounds.Width)
	assert.Equal(t, r.Measurer().Measure("WWWW", 3, 16), s.Texts[0].Bounds)
	assert.Zero(t, r.Stats().Text.FieldWrites)

	require.NoError(t, r.Close())
	assert.ErrorIs(t, r.RegisterFont(3, gomono.TTF), ErrClosed)
}

func TestLightKindChangeLagsOneFrame(t *testing.T) {
	r := newTestRenderer(t)

	s := frame(t, r, PointLight{Position: V3(1, 2, 3), Color: White, Intensity: 800, Range: 20})
	require.Len(t, s.Lights, 1)
	assert.Equal(t, LightPoint, s.Lights[0].Kind)

	dir := DirectionalLight{Direction: V3(0, -1, 0), Color: Yellow, Illuminance: 1000}
	s = frame(t, r, dir)
	require.Len(t, s.Lights, 1)
	assert.Equal(t, LightPoint, s.Lights[0].Kind, "still a point light in the frame of the change")
	assert.True(t, s.Lights[0].Pending)

	s = frame(t, r, dir)
	require.Len(t, s.Lights, 1)
	assert.Equal(t, LightDirectional, s.Lights[0].Kind)
	assert.Equal(t, float32(1000), s.Lights[0].Illuminance)
	assert.Equal(t, Yellow, s.Lights[0].Color)
	assert.False(t, s.Lights[0].Pending)

	down := s.Lights[0].Rotation.Rotate(NegZ)
	assert.InDelta(t, -1, down.Y, 1e-5)

	st := r.Stats().Light
	assert.Equal(t, uint64(1), st.Created)
	assert.Equal(t, uint64(1), st.SlowPath)
	assert.Equal(t, uint64(1), st.FastPath)
}

func TestLightKindChangeImmediate(t *testing.T) {
	r := newTestRenderer(t, WithImmediateStructuralChanges())

	frame(t, r, PointLight{Color: White, Intensity: 800, Range: 20})
	s := frame(t, r, DirectionalLight{Direction: V3(0, 0, -1), Color: White, Illuminance: 10})
	assert.Equal(t, LightDirectional, s.Lights[0].Kind)
	assert.Equal(t, Identity, s.Lights[0].Rotation)
}

func TestLightHiddenInReserve(t *testing.T) {
	r := newTestRenderer(t)

	frame(t, r, PointLight{Color: White}, PointLight{Color: Red})
	s := frame(t, r, PointLight{Color: White})
	require.Len(t, s.Lights, 2)
	assert.True(t, s.Lights[0].Visible)
	assert.False(t, s.Lights[1].Visible)
}

type foreignCommand struct{}

func (foreignCommand) Domain() Domain   { return DomainSprite }
func (foreignCommand) TargetLayer() int { return 0 }

func TestUnsupportedCommandSkipped(t *testing.T) {
	r := newTestRenderer(t)

	s := frame(t, r, foreignCommand{}, SpriteCommand{Image: 1, Tint: White})
	require.Len(t, s.Sprites, 1)
	assert.Equal(t, stackZ(0, 0), s.Sprites[0].Position.Z)
}

func TestPointerCommands(t *testing.T) {
	r := newTestRenderer(t)

	s := frame(t, r,
		&Circle{Radius: 1, Color: Red},
		&SpriteCommand{Image: 1, Tint: White},
		&TextCommand{Content: "p", Size: 12},
		&DirectionalLight{Direction: NegZ, Color: White},
	)
	assert.Len(t, s.Geometry, 1)
	assert.Len(t, s.Sprites, 1)
	assert.Len(t, s.Texts, 1)
	require.Len(t, s.Lights, 1)
	assert.Equal(t, LightDirectional, s.Lights[0].Kind)
}

func TestSnapshotFilters(t *testing.T) {
	r := newTestRenderer(t)

	frame(t, r, circle(1, Red), SpriteCommand{Tint: White, Layer: 1})
	s := frame(t, r, SpriteCommand{Tint: White, Layer: 1})

	assert.Equal(t, 1, s.Len())
	on1 := s.OnLayer(1)
	assert.Len(t, on1.Sprites, 1)
	assert.Empty(t, s.OnLayer(0).Sprites)

	frame(t, r)
	s = r.Snapshot()
	assert.Equal(t, 1, s.Len())
	visible := s.Visible()
	assert.Zero(t, visible.Len())
}

func TestStatsString(t *testing.T) {
	r := newTestRenderer(t)
	frame(t, r, circle(1, Red))
	st := r.Stats()
	assert.Contains(t, st.String(), "Frame 1")
	assert.Equal(t, st.Geometry, st.Domain(DomainGeometry))
}
