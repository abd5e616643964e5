package breeze

// Default draw parameters of the layer helpers.
const (
	DefaultTextSize    = 16
	DefaultSpriteScale = 1
)

// Layer tags the commands it enqueues with one render layer. It is the
// immediate-mode drawing surface handed to caller code during the draw
// phase.
//
// Example:
//
//	world := r.Layer(0)
//	world.Draw2D.Circle(breeze.V2(0, 0), 40, breeze.Red)
//	world.Draw3D.Cube(breeze.V3(0, 0, -5), breeze.Identity, 1, breeze.Blue)
//
//	ui := r.Layer(1)
//	ui.Text.Draw("Score: 10", breeze.V2(-300, 200))
type Layer struct {
	ID      int
	Draw2D  Painter2D
	Draw3D  Painter3D
	Sprites SpritePainter
	Text    TextPainter
	Lights  LightPainter
}

// Layer returns the drawing surface for a layer.
func (r *Renderer) Layer(id int) Layer {
	s := layerSink{r: r, layer: id}
	return Layer{
		ID:      id,
		Draw2D:  Painter2D{s},
		Draw3D:  Painter3D{s},
		Sprites: SpritePainter{s},
		Text:    TextPainter{s},
		Lights:  LightPainter{s},
	}
}

type layerSink struct {
	r     *Renderer
	layer int
}

// push enqueues cmd. The helpers have no error return; a rejected command
// is logged.
func (s layerSink) push(cmd DrawCommand) {
	if err := s.r.Enqueue(cmd); err != nil {
		Logger().Warn("breeze: command dropped", "layer", s.layer, "domain", cmd.Domain().String(), "error", err)
	}
}

// Painter2D enqueues unlit 2D geometry.
type Painter2D struct{ s layerSink }

// Circle draws a filled disc.
func (p Painter2D) Circle(pos Vec2, radius float32, c Color) {
	p.s.push(Circle{Position: pos, Radius: radius, Color: c, Layer: p.s.layer})
}

// Rect draws a filled rectangle centered on pos.
func (p Painter2D) Rect(pos, size Vec2, c Color) {
	p.s.push(Rect{Position: pos, Size: size, Color: c, Layer: p.s.layer})
}

// Line draws a segment of the given thickness.
func (p Painter2D) Line(start, end Vec2, thickness float32, c Color) {
	p.s.push(Line{Start: start, End: end, Thickness: thickness, Color: c, Layer: p.s.layer})
}

// Ring draws an annulus of mid radius radius.
func (p Painter2D) Ring(pos Vec2, radius, thickness float32, c Color) {
	p.s.push(Ring{Position: pos, Radius: radius, Thickness: thickness, Color: c, Layer: p.s.layer})
}

// Painter3D enqueues lit 3D geometry and model instances.
type Painter3D struct{ s layerSink }

func (p Painter3D) Cube(pos Vec3, rot Quat, size float32, c Color) {
	p.s.push(Cube{Position: pos, Rotation: rot, Size: size, Color: c, Layer: p.s.layer})
}

func (p Painter3D) Cuboid(pos Vec3, rot Quat, size Vec3, c Color) {
	p.s.push(Cuboid{Position: pos, Rotation: rot, Size: size, Color: c, Layer: p.s.layer})
}

func (p Painter3D) Sphere(pos Vec3, radius float32, c Color) {
	p.s.push(Sphere{Position: pos, Radius: radius, Color: c, Layer: p.s.layer})
}

func (p Painter3D) Cylinder(pos Vec3, rot Quat, radius, height float32, c Color) {
	p.s.push(Cylinder{Position: pos, Rotation: rot, Radius: radius, Height: height, Color: c, Layer: p.s.layer})
}

func (p Painter3D) Cone(pos Vec3, rot Quat, radius, height float32, c Color) {
	p.s.push(Cone{Position: pos, Rotation: rot, Radius: radius, Height: height, Color: c, Layer: p.s.layer})
}

func (p Painter3D) Torus(pos Vec3, rot Quat, radius, tube float32, c Color) {
	p.s.push(Torus{Position: pos, Rotation: rot, Radius: radius, TubeRadius: tube, Color: c, Layer: p.s.layer})
}

func (p Painter3D) Plane(pos Vec3, rot Quat, size float32, c Color) {
	p.s.push(Plane{Position: pos, Rotation: rot, Size: size, Color: c, Layer: p.s.layer})
}

func (p Painter3D) Quad(pos Vec3, rot Quat, size Vec2, c Color) {
	p.s.push(Quad{Position: pos, Rotation: rot, Size: size, Color: c, Layer: p.s.layer})
}

// Model places an instance of a loaded scene.
func (p Painter3D) Model(pos Vec3, rot Quat, scale Vec3, scene SceneHandle) {
	p.s.push(Model{Position: pos, Rotation: rot, Scale: scale, Scene: scene, Layer: p.s.layer})
}

// SpritePainter enqueues sprites.
type SpritePainter struct{ s layerSink }

// Draw draws an image at its natural size, untinted.
func (p SpritePainter) Draw(img ImageHandle, pos Vec2) {
	p.DrawExt(img, pos, DefaultSpriteScale, White)
}

// DrawExt draws an image with a uniform scale and tint.
func (p SpritePainter) DrawExt(img ImageHandle, pos Vec2, scale float32, tint Color) {
	p.s.push(SpriteCommand{Image: img, Position: pos, Scale: V2(scale, scale), Tint: tint, Layer: p.s.layer})
}

// TextPainter enqueues labels in the default font.
type TextPainter struct{ s layerSink }

// Draw draws a label at the default size, in black.
func (p TextPainter) Draw(content string, pos Vec2) {
	p.DrawExt(content, pos, DefaultTextSize, Black)
}

// DrawExt draws a label with an explicit size and color.
func (p TextPainter) DrawExt(content string, pos Vec2, size float32, c Color) {
	p.s.push(TextCommand{Content: content, Position: pos, Size: size, Color: c, Layer: p.s.layer})
}

// DrawFont draws a label in a registered font.
func (p TextPainter) DrawFont(content string, font FontHandle, pos Vec2, size float32, c Color) {
	p.s.push(TextCommand{Content: content, Font: font, Position: pos, Size: size, Color: c, Layer: p.s.layer})
}

// LightPainter enqueues lights. Lights enqueued through it cast shadows.
type LightPainter struct{ s layerSink }

// Point adds a point light falling off to zero at radius.
func (p LightPainter) Point(pos Vec3, c Color, intensity, radius float32) {
	p.s.push(PointLight{Position: pos, Color: c, Intensity: intensity, Range: radius, Shadows: true, Layer: p.s.layer})
}

// Directional adds a light shining along direction.
func (p LightPainter) Directional(direction Vec3, c Color, illuminance float32) {
	p.s.push(DirectionalLight{Direction: direction, Color: c, Illuminance: illuminance, Shadows: true, Layer: p.s.layer})
}
