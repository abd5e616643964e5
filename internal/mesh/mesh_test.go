package mesh

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitMeshesAreWellFormed(t *testing.T) {
	tests := []struct {
		name string
		data Data
	}{
		{"circle", Circle(CircleSegments)},
		{"rect", Rect()},
		{"annulus", Annulus(0.5, 1, CircleSegments)},
		{"cuboid", Cuboid()},
		{"sphere", Sphere(SphereSectors, SphereStacks)},
		{"cylinder", Cylinder(CircleSegments)},
		{"cone", Cone(CircleSegments)},
		{"torus", Torus(1, UnitTorusTube, TorusMajor, TorusMinor)},
		{"plane", Plane()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NotEmpty(t, tt.data.Vertices)
			require.Zero(t, len(tt.data.Indices)%3)
			for _, idx := range tt.data.Indices {
				require.Less(t, int(idx), len(tt.data.Vertices))
			}
		})
	}
}

func TestAnnulusRadii(t *testing.T) {
	d := Annulus(4, 6, 16)
	require.Len(t, d.Vertices, 32)
	require.Equal(t, 16*2, d.Triangles())

	for i, v := range d.Vertices {
		r := math.Hypot(float64(v.Position[0]), float64(v.Position[1]))
		want := 6.0
		if i%2 == 1 {
			want = 4.0
		}
		assert.InDelta(t, want, r, 1e-4)
	}
}

func TestVertexBytesLayout(t *testing.T) {
	d := Rect()
	buf := d.VertexBytes()
	require.Len(t, buf, len(d.Vertices)*VertexStride)
	assert.Len(t, d.IndexBytes(), len(d.Indices)*4)
}

func TestDegenerateSegmentsClamped(t *testing.T) {
	assert.Equal(t, 3, Circle(0).Triangles())
	assert.Equal(t, 6, Annulus(1, 2, 1).Triangles())
}
