package breeze

import "math"

// Vec2 is a 2D vector.
type Vec2 struct {
	X, Y float32
}

// V2 is a shorthand constructor for Vec2.
func V2(x, y float32) Vec2 { return Vec2{X: x, Y: y} }

// Add returns v + w.
func (v Vec2) Add(w Vec2) Vec2 { return Vec2{v.X + w.X, v.Y + w.Y} }

// Sub returns v - w.
func (v Vec2) Sub(w Vec2) Vec2 { return Vec2{v.X - w.X, v.Y - w.Y} }

// Mul returns v scaled by s.
func (v Vec2) Mul(s float32) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Length returns the Euclidean length of v.
func (v Vec2) Length() float32 {
	return float32(math.Hypot(float64(v.X), float64(v.Y)))
}

// Distance returns the distance between v and w.
func (v Vec2) Distance(w Vec2) float32 { return w.Sub(v).Length() }

// Atan2 returns the angle of v from the positive X axis.
func (v Vec2) Atan2() float32 {
	return float32(math.Atan2(float64(v.Y), float64(v.X)))
}

// Extend returns v as a Vec3 with the given z.
func (v Vec2) Extend(z float32) Vec3 { return Vec3{v.X, v.Y, z} }

// Vec3 is a 3D vector.
type Vec3 struct {
	X, Y, Z float32
}

// V3 is a shorthand constructor for Vec3.
func V3(x, y, z float32) Vec3 { return Vec3{X: x, Y: y, Z: z} }

// Splat returns a vector with all components set to s.
func Splat(s float32) Vec3 { return Vec3{s, s, s} }

// Common axes.
var (
	Zero3 = Vec3{}
	One3  = Vec3{1, 1, 1}
	NegZ  = Vec3{0, 0, -1}
)

// Add returns v + w.
func (v Vec3) Add(w Vec3) Vec3 { return Vec3{v.X + w.X, v.Y + w.Y, v.Z + w.Z} }

// Sub returns v - w.
func (v Vec3) Sub(w Vec3) Vec3 { return Vec3{v.X - w.X, v.Y - w.Y, v.Z - w.Z} }

// Mul returns v scaled by s.
func (v Vec3) Mul(s float32) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// Dot returns the dot product.
func (v Vec3) Dot(w Vec3) float32 { return v.X*w.X + v.Y*w.Y + v.Z*w.Z }

// Cross returns the cross product v × w.
func (v Vec3) Cross(w Vec3) Vec3 {
	return Vec3{
		v.Y*w.Z - v.Z*w.Y,
		v.Z*w.X - v.X*w.Z,
		v.X*w.Y - v.Y*w.X,
	}
}

// Length returns the Euclidean length of v.
func (v Vec3) Length() float32 {
	return float32(math.Sqrt(float64(v.Dot(v))))
}

// NormalizeOrZero returns v scaled to unit length, or the zero vector if v
// has zero or non-finite length.
func (v Vec3) NormalizeOrZero() Vec3 {
	l := v.Length()
	if l == 0 || math.IsInf(float64(l), 0) || math.IsNaN(float64(l)) {
		return Vec3{}
	}
	return v.Mul(1 / l)
}

// IsZero reports whether all components are zero.
func (v Vec3) IsZero() bool { return v == Vec3{} }

// Quat is a rotation quaternion.
type Quat struct {
	X, Y, Z, W float32
}

// Identity is the no-rotation quaternion.
var Identity = Quat{W: 1}

// QuatFromAxisAngle returns the rotation of angle radians about a unit axis.
func QuatFromAxisAngle(axis Vec3, angle float32) Quat {
	s, c := math.Sincos(float64(angle) * 0.5)
	a := axis.Mul(float32(s))
	return Quat{a.X, a.Y, a.Z, float32(c)}
}

// QuatFromRotationZ returns the rotation of angle radians about +Z.
func QuatFromRotationZ(angle float32) Quat {
	return QuatFromAxisAngle(Vec3{0, 0, 1}, angle)
}

// QuatFromRotationArc returns the shortest rotation that maps from onto to.
// Both inputs are expected to be unit length; if to is zero the result is
// Identity.
func QuatFromRotationArc(from, to Vec3) Quat {
	if to.IsZero() || from.IsZero() {
		return Identity
	}
	const eps = 1e-6
	d := from.Dot(to)
	switch {
	case d > 1-eps:
		return Identity
	case d < -1+eps:
		// Opposite vectors: half turn about any axis orthogonal to from.
		axis := from.Cross(Vec3{1, 0, 0})
		if axis.Length() < eps {
			axis = from.Cross(Vec3{0, 1, 0})
		}
		return QuatFromAxisAngle(axis.NormalizeOrZero(), math.Pi)
	}
	c := from.Cross(to)
	return Quat{c.X, c.Y, c.Z, 1 + d}.Normalize()
}

// Normalize returns q scaled to unit length, or Identity for a zero q.
func (q Quat) Normalize() Quat {
	l := float32(math.Sqrt(float64(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)))
	if l == 0 {
		return Identity
	}
	return Quat{q.X / l, q.Y / l, q.Z / l, q.W / l}
}

// Mul returns the composition q * r (apply r, then q).
func (q Quat) Mul(r Quat) Quat {
	return Quat{
		q.W*r.X + q.X*r.W + q.Y*r.Z - q.Z*r.Y,
		q.W*r.Y - q.X*r.Z + q.Y*r.W + q.Z*r.X,
		q.W*r.Z + q.X*r.Y - q.Y*r.X + q.Z*r.W,
		q.W*r.W - q.X*r.X - q.Y*r.Y - q.Z*r.Z,
	}
}

// Rotate applies q to v.
func (q Quat) Rotate(v Vec3) Vec3 {
	u := Vec3{q.X, q.Y, q.Z}
	t := u.Cross(v).Mul(2)
	return v.Add(t.Mul(q.W)).Add(u.Cross(t))
}

// Transform is a translation, rotation and non-uniform scale, applied
// scale first, then rotation, then translation.
type Transform struct {
	Translation Vec3
	Rotation    Quat
	Scale       Vec3
}

// IdentityTransform is the transform that leaves points unchanged.
var IdentityTransform = Transform{Rotation: Identity, Scale: One3}

// FromTranslation returns a transform that only translates.
func FromTranslation(t Vec3) Transform {
	return Transform{Translation: t, Rotation: Identity, Scale: One3}
}

// WithRotation returns t with its rotation replaced.
func (t Transform) WithRotation(q Quat) Transform {
	t.Rotation = q
	return t
}

// WithScale returns t with its scale replaced.
func (t Transform) WithScale(s Vec3) Transform {
	t.Scale = s
	return t
}

// Apply maps a local point into the transform's parent space.
func (t Transform) Apply(p Vec3) Vec3 {
	scaled := Vec3{p.X * t.Scale.X, p.Y * t.Scale.Y, p.Z * t.Scale.Z}
	return t.Rotation.Rotate(scaled).Add(t.Translation)
}
