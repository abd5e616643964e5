package breeze

// Domain identifies which pool manager a DrawCommand belongs to.
type Domain uint8

const (
	DomainGeometry Domain = iota // 2D/3D primitives and model instances
	DomainSprite                 // textured 2D billboards
	DomainText                   // 2D labels
	DomainLight                  // point and directional lights

	numDomains = 4
)

var domainNames = [...]string{
	DomainGeometry: "Geometry",
	DomainSprite:   "Sprite",
	DomainText:     "Text",
	DomainLight:    "Light",
}

// String returns the domain name.
func (d Domain) String() string {
	if int(d) < len(domainNames) {
		return domainNames[d]
	}
	return "Unknown"
}

// DrawCommand is one frame's declarative request to render one object.
// Commands are plain values: once enqueued they are never modified.
type DrawCommand interface {
	// Domain returns the pool manager that reconciles this command.
	Domain() Domain
	// TargetLayer returns the render layer the object is assigned to.
	TargetLayer() int
}

// --------------------------------------------------------------------------
// Geometry
// --------------------------------------------------------------------------

// GeometryKind is the attachment set a pooled geometry object carries.
type GeometryKind uint8

const (
	GeometryUnbound    GeometryKind = iota // freshly created, nothing attached
	GeometryBound2D                        // unlit mesh + material
	GeometryBound3D                        // lit mesh + material
	GeometryBoundModel                     // external scene reference
)

var geometryKindNames = [...]string{
	GeometryUnbound:    "Unbound",
	GeometryBound2D:    "Bound2D",
	GeometryBound3D:    "Bound3D",
	GeometryBoundModel: "BoundModel",
}

// String returns the kind name.
func (k GeometryKind) String() string {
	if int(k) < len(geometryKindNames) {
		return geometryKindNames[k]
	}
	return "Unknown"
}

// Primitive identifies a geometry command variant.
type Primitive uint8

const (
	PrimCircle Primitive = iota
	PrimRect
	PrimLine
	PrimRing
	PrimCube
	PrimCuboid
	PrimSphere
	PrimCylinder
	PrimCone
	PrimTorus
	PrimPlane
	PrimQuad
	PrimModel

	numPrimitives
)

var primitiveNames = [...]string{
	PrimCircle:   "Circle",
	PrimRect:     "Rect",
	PrimLine:     "Line",
	PrimRing:     "Ring",
	PrimCube:     "Cube",
	PrimCuboid:   "Cuboid",
	PrimSphere:   "Sphere",
	PrimCylinder: "Cylinder",
	PrimCone:     "Cone",
	PrimTorus:    "Torus",
	PrimPlane:    "Plane",
	PrimQuad:     "Quad",
	PrimModel:    "Model",
}

// String returns the primitive name.
func (p Primitive) String() string {
	if int(p) < len(primitiveNames) {
		return primitiveNames[p]
	}
	return "Unknown"
}

// Kind returns the geometry kind a primitive binds to.
func (p Primitive) Kind() GeometryKind {
	switch {
	case p <= PrimRing:
		return GeometryBound2D
	case p == PrimModel:
		return GeometryBoundModel
	case p < numPrimitives:
		return GeometryBound3D
	default:
		return GeometryUnbound
	}
}

// GeometryCommand is implemented by every geometry variant.
type GeometryCommand interface {
	DrawCommand
	Primitive() Primitive
	// Transform derives the object transform from the command's parameters.
	Transform() Transform
	// Fill returns the material parameters; model commands return zero values.
	Fill() (Color, ImageHandle)
}

type geometryBase struct{}

func (geometryBase) Domain() Domain { return DomainGeometry }

// Circle is a filled 2D disc.
type Circle struct {
	geometryBase
	Position Vec2
	Radius   float32
	Color    Color
	Texture  ImageHandle
	Layer    int
}

func (c Circle) Primitive() Primitive       { return PrimCircle }
func (c Circle) TargetLayer() int           { return c.Layer }
func (c Circle) Fill() (Color, ImageHandle) { return c.Color, c.Texture }
func (c Circle) Transform() Transform {
	return FromTranslation(c.Position.Extend(0)).WithScale(Splat(c.Radius))
}

// Rect is a filled axis-aligned 2D rectangle centered on Position.
type Rect struct {
	geometryBase
	Position Vec2
	Size     Vec2
	Color    Color
	Texture  ImageHandle
	Layer    int
}

func (r Rect) Primitive() Primitive       { return PrimRect }
func (r Rect) TargetLayer() int           { return r.Layer }
func (r Rect) Fill() (Color, ImageHandle) { return r.Color, r.Texture }
func (r Rect) Transform() Transform {
	return FromTranslation(r.Position.Extend(0)).WithScale(r.Size.Extend(1))
}

// Line is a 2D segment drawn as a rectangle of the given thickness.
type Line struct {
	geometryBase
	Start     Vec2
	End       Vec2
	Thickness float32
	Color     Color
	Layer     int
}

func (l Line) Primitive() Primitive       { return PrimLine }
func (l Line) TargetLayer() int           { return l.Layer }
func (l Line) Fill() (Color, ImageHandle) { return l.Color, 0 }
func (l Line) Transform() Transform {
	center := l.Start.Add(l.End).Mul(0.5)
	return FromTranslation(center.Extend(0)).
		WithRotation(QuatFromRotationZ(l.End.Sub(l.Start).Atan2())).
		WithScale(V3(l.Start.Distance(l.End), l.Thickness, 1))
}

// Ring is a 2D annulus of the given mid radius and thickness.
// Its mesh is generated per object and regenerated on every update.
type Ring struct {
	geometryBase
	Position  Vec2
	Radius    float32
	Thickness float32
	Color     Color
	Layer     int
}

func (r Ring) Primitive() Primitive       { return PrimRing }
func (r Ring) TargetLayer() int           { return r.Layer }
func (r Ring) Fill() (Color, ImageHandle) { return r.Color, 0 }
func (r Ring) Transform() Transform       { return FromTranslation(r.Position.Extend(0)) }

// Radii returns the inner and outer radius of the annulus.
func (r Ring) Radii() (inner, outer float32) {
	return r.Radius - r.Thickness/2, r.Radius + r.Thickness/2
}

// Cube is a lit cube with edge length Size.
type Cube struct {
	geometryBase
	Position Vec3
	Rotation Quat
	Size     float32
	Color    Color
	Texture  ImageHandle
	Layer    int
}

func (c Cube) Primitive() Primitive       { return PrimCube }
func (c Cube) TargetLayer() int           { return c.Layer }
func (c Cube) Fill() (Color, ImageHandle) { return c.Color, c.Texture }
func (c Cube) Transform() Transform {
	return FromTranslation(c.Position).WithRotation(orIdentity(c.Rotation)).WithScale(Splat(c.Size))
}

// Cuboid is a lit box with per-axis extents.
type Cuboid struct {
	geometryBase
	Position Vec3
	Rotation Quat
	Size     Vec3
	Color    Color
	Texture  ImageHandle
	Layer    int
}

func (c Cuboid) Primitive() Primitive       { return PrimCuboid }
func (c Cuboid) TargetLayer() int           { return c.Layer }
func (c Cuboid) Fill() (Color, ImageHandle) { return c.Color, c.Texture }
func (c Cuboid) Transform() Transform {
	return FromTranslation(c.Position).WithRotation(orIdentity(c.Rotation)).WithScale(c.Size)
}

// Sphere is a lit sphere. Spheres carry no rotation.
type Sphere struct {
	geometryBase
	Position Vec3
	Radius   float32
	Color    Color
	Texture  ImageHandle
	Layer    int
}

func (s Sphere) Primitive() Primitive       { return PrimSphere }
func (s Sphere) TargetLayer() int           { return s.Layer }
func (s Sphere) Fill() (Color, ImageHandle) { return s.Color, s.Texture }
func (s Sphere) Transform() Transform {
	return FromTranslation(s.Position).WithScale(Splat(s.Radius))
}

// Cylinder is a lit capped cylinder along its local Y axis.
type Cylinder struct {
	geometryBase
	Position Vec3
	Rotation Quat
	Radius   float32
	Height   float32
	Color    Color
	Texture  ImageHandle
	Layer    int
}

func (c Cylinder) Primitive() Primitive       { return PrimCylinder }
func (c Cylinder) TargetLayer() int           { return c.Layer }
func (c Cylinder) Fill() (Color, ImageHandle) { return c.Color, c.Texture }
func (c Cylinder) Transform() Transform {
	return FromTranslation(c.Position).WithRotation(orIdentity(c.Rotation)).WithScale(V3(c.Radius, c.Height, c.Radius))
}

// Cone is a lit cone along its local Y axis, apex up.
type Cone struct {
	geometryBase
	Position Vec3
	Rotation Quat
	Radius   float32
	Height   float32
	Color    Color
	Texture  ImageHandle
	Layer    int
}

func (c Cone) Primitive() Primitive       { return PrimCone }
func (c Cone) TargetLayer() int           { return c.Layer }
func (c Cone) Fill() (Color, ImageHandle) { return c.Color, c.Texture }
func (c Cone) Transform() Transform {
	return FromTranslation(c.Position).WithRotation(orIdentity(c.Rotation)).WithScale(V3(c.Radius, c.Height, c.Radius))
}

// Torus is a lit torus in its local XZ plane. The shared unit torus has a
// tube ratio of 0.3, so the object is scaled uniformly by Radius; TubeRadius
// is carried for presenters that tessellate their own torus.
type Torus struct {
	geometryBase
	Position   Vec3
	Rotation   Quat
	Radius     float32
	TubeRadius float32
	Color      Color
	Texture    ImageHandle
	Layer      int
}

func (t Torus) Primitive() Primitive       { return PrimTorus }
func (t Torus) TargetLayer() int           { return t.Layer }
func (t Torus) Fill() (Color, ImageHandle) { return t.Color, t.Texture }
func (t Torus) Transform() Transform {
	return FromTranslation(t.Position).WithRotation(orIdentity(t.Rotation)).WithScale(Splat(t.Radius))
}

// Plane is a lit square facing its local +Y axis.
type Plane struct {
	geometryBase
	Position Vec3
	Rotation Quat
	Size     float32
	Color    Color
	Texture  ImageHandle
	Layer    int
}

func (p Plane) Primitive() Primitive       { return PrimPlane }
func (p Plane) TargetLayer() int           { return p.Layer }
func (p Plane) Fill() (Color, ImageHandle) { return p.Color, p.Texture }
func (p Plane) Transform() Transform {
	return FromTranslation(p.Position).WithRotation(orIdentity(p.Rotation)).WithScale(V3(p.Size, 1, p.Size))
}

// Quad is a lit rectangle facing its local +Y axis.
type Quad struct {
	geometryBase
	Position Vec3
	Rotation Quat
	Size     Vec2
	Color    Color
	Texture  ImageHandle
	Layer    int
}

func (q Quad) Primitive() Primitive       { return PrimQuad }
func (q Quad) TargetLayer() int           { return q.Layer }
func (q Quad) Fill() (Color, ImageHandle) { return q.Color, q.Texture }
func (q Quad) Transform() Transform {
	return FromTranslation(q.Position).WithRotation(orIdentity(q.Rotation)).WithScale(V3(q.Size.X, 1, q.Size.Y))
}

// Model is an instance of an externally loaded scene.
type Model struct {
	geometryBase
	Position Vec3
	Rotation Quat
	Scale    Vec3
	Scene    SceneHandle
	Layer    int
}

func (m Model) Primitive() Primitive       { return PrimModel }
func (m Model) TargetLayer() int           { return m.Layer }
func (m Model) Fill() (Color, ImageHandle) { return Color{}, 0 }
func (m Model) Transform() Transform {
	return FromTranslation(m.Position).WithRotation(orIdentity(m.Rotation)).WithScale(m.Scale)
}

// orIdentity maps the zero quaternion, which a caller gets by leaving
// Rotation unset, to Identity.
func orIdentity(q Quat) Quat {
	if q == (Quat{}) {
		return Identity
	}
	return q
}

// --------------------------------------------------------------------------
// Sprite and Text
// --------------------------------------------------------------------------

// SpriteCommand draws an axis-aligned textured billboard.
type SpriteCommand struct {
	Image    ImageHandle
	Position Vec2
	Scale    Vec2
	Tint     Color
	Layer    int
}

func (SpriteCommand) Domain() Domain     { return DomainSprite }
func (s SpriteCommand) TargetLayer() int { return s.Layer }

// TextCommand draws a single-line label. A zero Font selects the default
// font.
type TextCommand struct {
	Content  string
	Font     FontHandle
	Position Vec2
	Size     float32
	Color    Color
	Layer    int
}

func (TextCommand) Domain() Domain     { return DomainText }
func (t TextCommand) TargetLayer() int { return t.Layer }

// --------------------------------------------------------------------------
// Lights
// --------------------------------------------------------------------------

// LightKind is the light attachment a pooled light object carries.
type LightKind uint8

const (
	LightNone LightKind = iota
	LightPoint
	LightDirectional
)

var lightKindNames = [...]string{
	LightNone:        "None",
	LightPoint:       "Point",
	LightDirectional: "Directional",
}

// String returns the kind name.
func (k LightKind) String() string {
	if int(k) < len(lightKindNames) {
		return lightKindNames[k]
	}
	return "Unknown"
}

// LightCommand is implemented by PointLight and DirectionalLight.
type LightCommand interface {
	DrawCommand
	LightKind() LightKind
}

// PointLight emits in all directions from Position, falling off to zero at
// Range.
type PointLight struct {
	Position  Vec3
	Color     Color
	Intensity float32
	Range     float32
	Shadows   bool
	Layer     int
}

func (PointLight) Domain() Domain       { return DomainLight }
func (p PointLight) TargetLayer() int   { return p.Layer }
func (PointLight) LightKind() LightKind { return LightPoint }

// DirectionalLight shines uniformly along Direction.
type DirectionalLight struct {
	Direction   Vec3
	Color       Color
	Illuminance float32
	Shadows     bool
	Layer       int
}

func (DirectionalLight) Domain() Domain       { return DomainLight }
func (d DirectionalLight) TargetLayer() int   { return d.Layer }
func (DirectionalLight) LightKind() LightKind { return LightDirectional }

// Rotation returns the orientation that maps the canonical forward axis
// (-Z) onto the normalized direction. A zero direction yields Identity.
func (d DirectionalLight) Rotation() Quat {
	return QuatFromRotationArc(NegZ, d.Direction.NormalizeOrZero())
}
