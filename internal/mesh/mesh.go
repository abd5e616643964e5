// Package mesh builds the CPU-side vertex data for the primitive shapes
// breeze draws: the shared unit meshes and the per-object ring annulus.
package mesh

import (
	"encoding/binary"
	"math"
)

// VertexStride is the size in bytes of one packed Vertex.
//
//	position (vec3<f32>) = 12 bytes (location 0)
//	normal   (vec3<f32>) = 12 bytes (location 1)
//	uv       (vec2<f32>) =  8 bytes (location 2)
const VertexStride = 32

// Default tessellation used by the unit meshes.
const (
	CircleSegments = 64
	SphereSectors  = 32
	SphereStacks   = 16
	TorusMajor     = 32
	TorusMinor     = 16
)

// UnitTorusTube is the tube radius of the unit torus, relative to a major
// radius of 1.
const UnitTorusTube = 0.3

// Vertex is a single mesh vertex.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	UV       [2]float32
}

// Data is an indexed triangle list.
type Data struct {
	Vertices []Vertex
	Indices  []uint32
}

// Triangles returns the number of triangles in d.
func (d Data) Triangles() int { return len(d.Indices) / 3 }

// VertexBytes packs the vertices little-endian, VertexStride bytes each.
func (d Data) VertexBytes() []byte {
	buf := make([]byte, len(d.Vertices)*VertexStride)
	off := 0
	put := func(f float32) {
		binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(f))
		off += 4
	}
	for _, v := range d.Vertices {
		put(v.Position[0])
		put(v.Position[1])
		put(v.Position[2])
		put(v.Normal[0])
		put(v.Normal[1])
		put(v.Normal[2])
		put(v.UV[0])
		put(v.UV[1])
	}
	return buf
}

// IndexBytes packs the indices as little-endian uint32.
func (d Data) IndexBytes() []byte {
	buf := make([]byte, len(d.Indices)*4)
	for i, idx := range d.Indices {
		binary.LittleEndian.PutUint32(buf[i*4:], idx)
	}
	return buf
}

var (
	up   = [3]float32{0, 0, 1}
	upY  = [3]float32{0, 1, 0}
	tau  = 2 * math.Pi
	half = float32(0.5)
)

func sincos(a float64) (float32, float32) {
	s, c := math.Sincos(a)
	return float32(s), float32(c)
}

// Circle returns a unit-radius disc in the XY plane as a triangle fan.
func Circle(segments int) Data {
	if segments < 3 {
		segments = 3
	}
	d := Data{
		Vertices: make([]Vertex, 0, segments+1),
		Indices:  make([]uint32, 0, segments*3),
	}
	d.Vertices = append(d.Vertices, Vertex{Normal: up, UV: [2]float32{half, half}})
	for i := 0; i < segments; i++ {
		s, c := sincos(tau * float64(i) / float64(segments))
		d.Vertices = append(d.Vertices, Vertex{
			Position: [3]float32{c, s, 0},
			Normal:   up,
			UV:       [2]float32{half + c*half, half - s*half},
		})
	}
	for i := 0; i < segments; i++ {
		next := (i+1)%segments + 1
		d.Indices = append(d.Indices, 0, uint32(i+1), uint32(next))
	}
	return d
}

// Rect returns a 1x1 quad centered on the origin in the XY plane.
func Rect() Data {
	return Data{
		Vertices: []Vertex{
			{Position: [3]float32{-half, -half, 0}, Normal: up, UV: [2]float32{0, 1}},
			{Position: [3]float32{half, -half, 0}, Normal: up, UV: [2]float32{1, 1}},
			{Position: [3]float32{half, half, 0}, Normal: up, UV: [2]float32{1, 0}},
			{Position: [3]float32{-half, half, 0}, Normal: up, UV: [2]float32{0, 0}},
		},
		Indices: []uint32{0, 1, 2, 0, 2, 3},
	}
}

// Annulus returns a flat ring between inner and outer radius in the XY
// plane. Radii are used as given.
func Annulus(inner, outer float32, segments int) Data {
	if segments < 3 {
		segments = 3
	}
	d := Data{
		Vertices: make([]Vertex, 0, segments*2),
		Indices:  make([]uint32, 0, segments*6),
	}
	ratio := float32(0)
	if outer != 0 {
		ratio = inner / outer
	}
	for i := 0; i < segments; i++ {
		s, c := sincos(tau * float64(i) / float64(segments))
		d.Vertices = append(d.Vertices,
			Vertex{
				Position: [3]float32{c * outer, s * outer, 0},
				Normal:   up,
				UV:       [2]float32{half + c*half, half - s*half},
			},
			Vertex{
				Position: [3]float32{c * inner, s * inner, 0},
				Normal:   up,
				UV:       [2]float32{half + c*half*ratio, half - s*half*ratio},
			},
		)
	}
	for i := 0; i < segments; i++ {
		o0, i0 := uint32(2*i), uint32(2*i+1)
		n := (i + 1) % segments
		o1, i1 := uint32(2*n), uint32(2*n+1)
		d.Indices = append(d.Indices, o0, o1, i0, i0, o1, i1)
	}
	return d
}

// Cuboid returns a unit cube centered on the origin with per-face normals.
func Cuboid() Data {
	faces := [6]struct {
		normal, u, v [3]float32
	}{
		{[3]float32{0, 0, 1}, [3]float32{1, 0, 0}, [3]float32{0, 1, 0}},
		{[3]float32{0, 0, -1}, [3]float32{-1, 0, 0}, [3]float32{0, 1, 0}},
		{[3]float32{1, 0, 0}, [3]float32{0, 0, -1}, [3]float32{0, 1, 0}},
		{[3]float32{-1, 0, 0}, [3]float32{0, 0, 1}, [3]float32{0, 1, 0}},
		{[3]float32{0, 1, 0}, [3]float32{1, 0, 0}, [3]float32{0, 0, -1}},
		{[3]float32{0, -1, 0}, [3]float32{1, 0, 0}, [3]float32{0, 0, 1}},
	}
	d := Data{
		Vertices: make([]Vertex, 0, 24),
		Indices:  make([]uint32, 0, 36),
	}
	corners := [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
	for _, f := range faces {
		base := uint32(len(d.Vertices))
		for _, c := range corners {
			var p [3]float32
			for k := 0; k < 3; k++ {
				p[k] = (f.normal[k] + c[0]*f.u[k] + c[1]*f.v[k]) * half
			}
			d.Vertices = append(d.Vertices, Vertex{
				Position: p,
				Normal:   f.normal,
				UV:       [2]float32{(c[0] + 1) * half, (1 - c[1]) * half},
			})
		}
		d.Indices = append(d.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	return d
}

// Sphere returns a unit-radius UV sphere.
func Sphere(sectors, stacks int) Data {
	if sectors < 3 {
		sectors = 3
	}
	if stacks < 2 {
		stacks = 2
	}
	d := Data{}
	for i := 0; i <= stacks; i++ {
		phi := math.Pi/2 - math.Pi*float64(i)/float64(stacks)
		sp, cp := sincos(phi)
		for j := 0; j <= sectors; j++ {
			st, ct := sincos(tau * float64(j) / float64(sectors))
			n := [3]float32{cp * ct, sp, cp * st}
			d.Vertices = append(d.Vertices, Vertex{
				Position: n,
				Normal:   n,
				UV:       [2]float32{float32(j) / float32(sectors), float32(i) / float32(stacks)},
			})
		}
	}
	row := uint32(sectors + 1)
	for i := 0; i < stacks; i++ {
		for j := 0; j < sectors; j++ {
			a := uint32(i)*row + uint32(j)
			b := a + row
			if i != 0 {
				d.Indices = append(d.Indices, a, b, a+1)
			}
			if i != stacks-1 {
				d.Indices = append(d.Indices, a+1, b, b+1)
			}
		}
	}
	return d
}

// Cylinder returns a capped cylinder of radius 1 and height 1 centered on
// the origin along Y.
func Cylinder(segments int) Data {
	return lathe(segments, 1, 1)
}

// Cone returns a capped cone of base radius 1 and height 1 centered on the
// origin along Y, apex up.
func Cone(segments int) Data {
	return lathe(segments, 1, 0)
}

// lathe builds a side wall between a bottom ring of radius bottom and a top
// ring of radius top, capping any ring with a non-zero radius.
func lathe(segments int, bottom, top float32) Data {
	if segments < 3 {
		segments = 3
	}
	d := Data{}
	// Side wall.
	slope := bottom - top
	for i := 0; i <= segments; i++ {
		s, c := sincos(tau * float64(i) / float64(segments))
		n := normalize([3]float32{c, slope, s})
		u := float32(i) / float32(segments)
		d.Vertices = append(d.Vertices,
			Vertex{Position: [3]float32{c * bottom, -half, s * bottom}, Normal: n, UV: [2]float32{u, 1}},
			Vertex{Position: [3]float32{c * top, half, s * top}, Normal: n, UV: [2]float32{u, 0}},
		)
	}
	for i := 0; i < segments; i++ {
		b0, t0 := uint32(2*i), uint32(2*i+1)
		b1, t1 := b0+2, t0+2
		d.Indices = append(d.Indices, b0, t0, b1, b1, t0, t1)
	}
	addCap := func(radius, y float32, normal [3]float32, flip bool) {
		if radius == 0 {
			return
		}
		center := uint32(len(d.Vertices))
		d.Vertices = append(d.Vertices, Vertex{Position: [3]float32{0, y, 0}, Normal: normal, UV: [2]float32{half, half}})
		for i := 0; i < segments; i++ {
			s, c := sincos(tau * float64(i) / float64(segments))
			d.Vertices = append(d.Vertices, Vertex{
				Position: [3]float32{c * radius, y, s * radius},
				Normal:   normal,
				UV:       [2]float32{half + c*half, half + s*half},
			})
		}
		for i := 0; i < segments; i++ {
			a := center + 1 + uint32(i)
			b := center + 1 + uint32((i+1)%segments)
			if flip {
				d.Indices = append(d.Indices, center, a, b)
			} else {
				d.Indices = append(d.Indices, center, b, a)
			}
		}
	}
	addCap(bottom, -half, [3]float32{0, -1, 0}, true)
	addCap(top, half, upY, false)
	return d
}

// Torus returns a torus in the XZ plane with the given major and minor
// (tube) radius.
func Torus(major, minor float32, majorSegments, minorSegments int) Data {
	if majorSegments < 3 {
		majorSegments = 3
	}
	if minorSegments < 3 {
		minorSegments = 3
	}
	d := Data{}
	for i := 0; i <= majorSegments; i++ {
		st, ct := sincos(tau * float64(i) / float64(majorSegments))
		for j := 0; j <= minorSegments; j++ {
			sp, cp := sincos(tau * float64(j) / float64(minorSegments))
			n := [3]float32{ct * cp, sp, st * cp}
			d.Vertices = append(d.Vertices, Vertex{
				Position: [3]float32{ct * (major + minor*cp), minor * sp, st * (major + minor*cp)},
				Normal:   n,
				UV:       [2]float32{float32(i) / float32(majorSegments), float32(j) / float32(minorSegments)},
			})
		}
	}
	row := uint32(minorSegments + 1)
	for i := 0; i < majorSegments; i++ {
		for j := 0; j < minorSegments; j++ {
			a := uint32(i)*row + uint32(j)
			b := a + row
			d.Indices = append(d.Indices, a, b, a+1, a+1, b, b+1)
		}
	}
	return d
}

// Plane returns a 1x1 plane centered on the origin in the XZ plane, facing +Y.
func Plane() Data {
	return Data{
		Vertices: []Vertex{
			{Position: [3]float32{-half, 0, -half}, Normal: upY, UV: [2]float32{0, 0}},
			{Position: [3]float32{half, 0, -half}, Normal: upY, UV: [2]float32{1, 0}},
			{Position: [3]float32{half, 0, half}, Normal: upY, UV: [2]float32{1, 1}},
			{Position: [3]float32{-half, 0, half}, Normal: upY, UV: [2]float32{0, 1}},
		},
		Indices: []uint32{0, 2, 1, 0, 3, 2},
	}
}

func normalize(v [3]float32) [3]float32 {
	l := float32(math.Sqrt(float64(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])))
	if l == 0 {
		return v
	}
	return [3]float32{v[0] / l, v[1] / l, v[2] / l}
}
