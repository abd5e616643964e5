package breeze

// GeometryView is a read-only copy of a pooled geometry object.
type GeometryView struct {
	ID        ObjectID
	Kind      GeometryKind
	Primitive Primitive
	Mesh      MeshRef
	Material  MaterialRef
	Scene     SceneHandle
	Transform Transform
	Color     Color
	Texture   ImageHandle
	Layer     int
	Visible   bool
	// Pending reports a recorded kind change that has not taken effect.
	Pending bool
	// OwnsMesh reports a per-object mesh (rings) rather than a shared one.
	OwnsMesh bool
}

// SpriteView is a read-only copy of a pooled sprite.
type SpriteView struct {
	ID       ObjectID
	Image    ImageHandle
	Position Vec3 // Z is the stacking depth
	Scale    Vec3
	Tint     Color
	Layer    int
	Visible  bool
}

// TextView is a read-only copy of a pooled label.
type TextView struct {
	ID       ObjectID
	Content  string
	Font     FontHandle
	Position Vec3 // Z is the stacking depth
	Size     float32
	Color    Color
	Layer    int
	Visible  bool
	Bounds   TextBounds
}

// LightView is a read-only copy of a pooled light.
type LightView struct {
	ID          ObjectID
	Kind        LightKind
	Position    Vec3
	Rotation    Quat
	Color       Color
	Intensity   float32
	Range       float32
	Illuminance float32
	Shadows     bool
	Layer       int
	Visible     bool
	Pending     bool
}

// Snapshot is the retained scene after a frame, in pool slot order. It is
// what a presenter draws from.
type Snapshot struct {
	Frame    uint64
	Geometry []GeometryView
	Sprites  []SpriteView
	Texts    []TextView
	Lights   []LightView
}

// Len returns the number of objects in the snapshot, visible or not.
func (s Snapshot) Len() int {
	return len(s.Geometry) + len(s.Sprites) + len(s.Texts) + len(s.Lights)
}

// Visible returns a copy of s holding only visible objects.
func (s Snapshot) Visible() Snapshot {
	out := Snapshot{Frame: s.Frame}
	for _, g := range s.Geometry {
		if g.Visible {
			out.Geometry = append(out.Geometry, g)
		}
	}
	for _, sp := range s.Sprites {
		if sp.Visible {
			out.Sprites = append(out.Sprites, sp)
		}
	}
	for _, t := range s.Texts {
		if t.Visible {
			out.Texts = append(out.Texts, t)
		}
	}
	for _, l := range s.Lights {
		if l.Visible {
			out.Lights = append(out.Lights, l)
		}
	}
	return out
}

// OnLayer returns a copy of s holding only objects on the given layer.
func (s Snapshot) OnLayer(layer int) Snapshot {
	out := Snapshot{Frame: s.Frame}
	for _, g := range s.Geometry {
		if g.Layer == layer {
			out.Geometry = append(out.Geometry, g)
		}
	}
	for _, sp := range s.Sprites {
		if sp.Layer == layer {
			out.Sprites = append(out.Sprites, sp)
		}
	}
	for _, t := range s.Texts {
		if t.Layer == layer {
			out.Texts = append(out.Texts, t)
		}
	}
	for _, l := range s.Lights {
		if l.Layer == layer {
			out.Lights = append(out.Lights, l)
		}
	}
	return out
}
