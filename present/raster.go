// Package present draws renderer snapshots without a GPU: a software
// preview rasterizer with WebP export, and a terminal presenter built on it.
//
// The preview is an orthographic view down -Z of the retained scene. Meshes
// are filled flat in their material color, 3D faces are shaded by the
// visible directional lights, sprites appear as tinted squares and text is
// set in a fixed bitmap face. It is meant for checking what the pools hold,
// not for final output.
package present

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"
	"os"
	"sort"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/gogpu/breeze"
)

// SpriteSize is the world-space edge of a sprite placeholder at scale 1.
const SpriteSize = 16

// shadeLevels quantizes per-face lighting so each object is filled in a
// few passes.
const shadeLevels = 8

// ambient is the brightness of faces no directional light reaches.
const ambient = 0.25

// MeshSource resolves mesh references to triangles. *breeze.Renderer
// implements it.
type MeshSource interface {
	MeshTriangles(ref breeze.MeshRef, fn func(a, b, c breeze.Vec3)) bool
}

// Raster is a software preview of snapshots.
type Raster struct {
	meshes     MeshSource
	img        *image.NRGBA
	rz         *vector.Rasterizer
	scale      float32
	background breeze.Color

	buckets [shadeLevels][][3]breeze.Vec2
	items   []item
}

// RasterOption configures a Raster.
type RasterOption func(*Raster)

// WithPixelsPerUnit sets how many pixels one world unit spans.
func WithPixelsPerUnit(s float32) RasterOption {
	return func(r *Raster) {
		if s > 0 {
			r.scale = s
		}
	}
}

// WithBackground sets the clear color.
func WithBackground(c breeze.Color) RasterOption {
	return func(r *Raster) { r.background = c }
}

// NewRaster creates a preview of the given pixel size. The world origin
// maps to the image center.
func NewRaster(meshes MeshSource, width, height int, opts ...RasterOption) *Raster {
	r := &Raster{
		meshes:     meshes,
		img:        image.NewNRGBA(image.Rect(0, 0, width, height)),
		rz:         vector.NewRasterizer(width, height),
		scale:      1,
		background: breeze.Black,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Image returns the last presented frame.
func (r *Raster) Image() *image.NRGBA { return r.img }

// Bounds returns the preview size.
func (r *Raster) Bounds() image.Rectangle { return r.img.Bounds() }

// item is one visible object in painter's order.
type item struct {
	layer int
	z     float32
	draw  func()
}

// Present draws the visible objects of s, lowest layer first and, within a
// layer, farthest first.
func (r *Raster) Present(s breeze.Snapshot) {
	draw.Draw(r.img, r.img.Bounds(), image.NewUniform(r.background.NRGBA()), image.Point{}, draw.Src)

	sun := lightDirections(s.Lights)
	r.items = r.items[:0]
	for _, g := range s.Geometry {
		if !g.Visible || g.Mesh.IsZero() {
			continue
		}
		r.items = append(r.items, item{layer: g.Layer, z: g.Transform.Translation.Z, draw: func() { r.geometry(g, sun) }})
	}
	for _, sp := range s.Sprites {
		if !sp.Visible {
			continue
		}
		r.items = append(r.items, item{layer: sp.Layer, z: sp.Position.Z, draw: func() { r.sprite(sp) }})
	}
	for _, t := range s.Texts {
		if !t.Visible || t.Content == "" {
			continue
		}
		r.items = append(r.items, item{layer: t.Layer, z: t.Position.Z, draw: func() { r.text(t) }})
	}
	sort.SliceStable(r.items, func(i, j int) bool {
		if r.items[i].layer != r.items[j].layer {
			return r.items[i].layer < r.items[j].layer
		}
		return r.items[i].z < r.items[j].z
	})
	for _, it := range r.items {
		it.draw()
	}
}

// project maps a world point to pixel coordinates.
func (r *Raster) project(p breeze.Vec3) breeze.Vec2 {
	b := r.img.Bounds()
	return breeze.V2(float32(b.Dx())/2+p.X*r.scale, float32(b.Dy())/2-p.Y*r.scale)
}

func (r *Raster) geometry(g breeze.GeometryView, sun []breeze.Vec3) {
	for i := range r.buckets {
		r.buckets[i] = r.buckets[i][:0]
	}
	lit := g.Kind == breeze.GeometryBound3D
	r.meshes.MeshTriangles(g.Mesh, func(a, b, c breeze.Vec3) {
		a, b, c = g.Transform.Apply(a), g.Transform.Apply(b), g.Transform.Apply(c)
		level := shadeLevels - 1
		if lit {
			level = shade(b.Sub(a).Cross(c.Sub(a)).NormalizeOrZero(), sun)
		}
		r.buckets[level] = append(r.buckets[level], [3]breeze.Vec2{r.project(a), r.project(b), r.project(c)})
	})

	for level, tris := range r.buckets {
		if len(tris) == 0 {
			continue
		}
		k := float32(level+1) / shadeLevels
		c := breeze.RGBA(g.Color.R*k, g.Color.G*k, g.Color.B*k, g.Color.A)
		r.fill(tris, c)
	}
}

// fill rasterizes triangles as one path. Every triangle is wound the same
// way so overlapping faces do not cancel.
func (r *Raster) fill(tris [][3]breeze.Vec2, c breeze.Color) {
	b := r.img.Bounds()
	r.rz.Reset(b.Dx(), b.Dy())
	r.rz.DrawOp = draw.Over
	for _, t := range tris {
		p0, p1, p2 := t[0], t[1], t[2]
		if (p1.X-p0.X)*(p2.Y-p0.Y)-(p1.Y-p0.Y)*(p2.X-p0.X) < 0 {
			p1, p2 = p2, p1
		}
		r.rz.MoveTo(p0.X, p0.Y)
		r.rz.LineTo(p1.X, p1.Y)
		r.rz.LineTo(p2.X, p2.Y)
		r.rz.ClosePath()
	}
	r.rz.Draw(r.img, b, image.NewUniform(c.NRGBA()), image.Point{})
}

func (r *Raster) sprite(sp breeze.SpriteView) {
	hx := SpriteSize / 2 * sp.Scale.X
	hy := SpriteSize / 2 * sp.Scale.Y
	p := sp.Position
	a := r.project(breeze.V3(p.X-hx, p.Y-hy, 0))
	b := r.project(breeze.V3(p.X+hx, p.Y-hy, 0))
	c := r.project(breeze.V3(p.X+hx, p.Y+hy, 0))
	d := r.project(breeze.V3(p.X-hx, p.Y+hy, 0))
	r.fill([][3]breeze.Vec2{{a, b, c}, {a, c, d}}, sp.Tint)
}

func (r *Raster) text(t breeze.TextView) {
	at := r.project(t.Position)
	d := font.Drawer{
		Dst:  r.img,
		Src:  image.NewUniform(t.Color.NRGBA()),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(int(at.X), int(at.Y)),
	}
	d.DrawString(t.Content)
}

// lightDirections returns the travel direction of every visible
// directional light.
func lightDirections(lights []breeze.LightView) []breeze.Vec3 {
	var dirs []breeze.Vec3
	for _, l := range lights {
		if l.Visible && l.Kind == breeze.LightDirectional {
			dirs = append(dirs, l.Rotation.Rotate(breeze.NegZ))
		}
	}
	return dirs
}

// shade returns the quantized Lambert level of a face. Without lights every
// face is fully lit.
func shade(normal breeze.Vec3, sun []breeze.Vec3) int {
	if len(sun) == 0 {
		return shadeLevels - 1
	}
	var k float32 = ambient
	for _, d := range sun {
		// Faces are two-sided in the preview.
		dot := normal.Dot(d)
		if dot < 0 {
			dot = -dot
		}
		k += (1 - ambient) * dot
	}
	level := int(k*shadeLevels) - 1
	return max(0, min(shadeLevels-1, level))
}

// At returns the preview color at pixel (x, y).
func (r *Raster) At(x, y int) color.NRGBA { return r.img.NRGBAAt(x, y) }

// EncodeWebP writes the last presented frame as lossless WebP.
func (r *Raster) EncodeWebP(w io.Writer) error {
	if err := nativewebp.Encode(w, r.img, nil); err != nil {
		return fmt.Errorf("present: encode webp: %w", err)
	}
	return nil
}

// SaveWebP writes the last presented frame to path.
func (r *Raster) SaveWebP(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("present: %w", err)
	}
	if err := r.EncodeWebP(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
