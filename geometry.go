package breeze

import (
	"github.com/gogpu/breeze/internal/gpu"
	"github.com/gogpu/breeze/internal/mesh"
	"github.com/gogpu/breeze/internal/pool"
)

// ownedAssets records the GPU assets allocated for one geometry object
// alone: a ring's annulus mesh, and the material when the material cache is
// disabled. Shared unit meshes and cached materials never appear here.
//
// An ownedAssets value is moved, never copied: take zeroes the source so a
// record can only be released once.
type ownedAssets struct {
	mesh     gpu.MeshID
	material gpu.MaterialID
}

func (o *ownedAssets) take() ownedAssets {
	v := *o
	*o = ownedAssets{}
	return v
}

func (o ownedAssets) empty() bool { return o.mesh.IsZero() && o.material.IsZero() }

// release frees the assets and returns how many were live.
func (o ownedAssets) release(store *gpu.Store) int {
	n := 0
	if !o.mesh.IsZero() && store.ReleaseMesh(o.mesh) {
		n++
	}
	if !o.material.IsZero() && store.ReleaseMaterial(o.material) {
		n++
	}
	return n
}

// geometryObject is a pooled geometry renderable.
type geometryObject struct {
	kind      GeometryKind
	prim      Primitive
	mesh      MeshRef
	material  MaterialRef
	scene     SceneHandle
	transform Transform
	color     Color
	texture   ImageHandle
	layer     int
	visible   bool
	pending   bool // a kind change is recorded but not yet applied
	owned     ownedAssets
}

// geometryBinding is the fully resolved state a command asks for.
type geometryBinding struct {
	kind      GeometryKind
	prim      Primitive
	mesh      MeshRef
	material  MaterialRef
	scene     SceneHandle
	transform Transform
	color     Color
	texture   ImageHandle
	layer     int
	owned     ownedAssets
}

// attach overwrites o with b, makes it visible and returns the assets o
// owned before. The caller must release them.
func (o *geometryObject) attach(b geometryBinding) ownedAssets {
	stale := o.owned.take()
	*o = geometryObject{
		kind:      b.kind,
		prim:      b.prim,
		mesh:      b.mesh,
		material:  b.material,
		scene:     b.scene,
		transform: b.transform,
		color:     b.color,
		texture:   b.texture,
		layer:     b.layer,
		visible:   true,
		owned:     b.owned,
	}
	return stale
}

// scened is implemented by geometry commands that reference a scene.
type scened interface {
	SceneRef() SceneHandle
}

// SceneRef returns the referenced scene.
func (m Model) SceneRef() SceneHandle { return m.Scene }

// annular is implemented by geometry commands drawn with a per-object ring
// mesh.
type annular interface {
	Radii() (inner, outer float32)
}

// geometryPool reconciles geometry commands against pooled objects.
//
// Objects whose kind matches the command are updated in place. A kind change
// on an existing object goes through the structural buffer; new objects are
// bound at creation. Objects left unclaimed at the end of a frame are
// destroyed together with the assets they own.
type geometryPool struct {
	store      *gpu.Store
	materials  *MaterialCache // nil: every object owns a unique material
	structural *structuralBuffer
	objects    *pool.Arena[geometryObject]
	units      map[Primitive]gpu.MeshID
	stats      DomainStats
}

func newGeometryPool(store *gpu.Store, materials *MaterialCache, structural *structuralBuffer) *geometryPool {
	return &geometryPool{
		store:      store,
		materials:  materials,
		structural: structural,
		objects:    pool.New[geometryObject](64),
		units:      make(map[Primitive]gpu.MeshID),
	}
}

// available appends the live objects to dst in slot order.
func (p *geometryPool) available(dst []ObjectID) []ObjectID {
	return liveIDs(p.objects, dst)
}

// reconcile applies cmd to candidate, or to a new object if candidate is
// zero. It returns the object the command is bound to.
func (p *geometryPool) reconcile(candidate ObjectID, cmd GeometryCommand) ObjectID {
	kind := cmd.Primitive().Kind()

	if obj := p.objects.Get(pool.Handle(candidate)); obj != nil {
		b := p.bind(cmd)
		if obj.kind == kind {
			p.stats.FastPath++
			p.releaseOwned(obj.attach(b))
			return candidate
		}
		p.stats.SlowPath++
		p.swapKind(candidate, obj, b)
		return candidate
	}

	b := p.bind(cmd)
	id := ObjectID(p.objects.Insert(geometryObject{kind: GeometryUnbound}))
	p.objects.Get(pool.Handle(id)).attach(b)
	p.stats.Created++
	return id
}

// swapKind strips the object's current attachments and attaches b, through
// the structural buffer.
func (p *geometryPool) swapKind(id ObjectID, obj *geometryObject, b geometryBinding) {
	from := obj.kind
	obj.pending = true
	applied := p.structural.submit(structuralOp{
		domain: DomainGeometry,
		target: id,
		apply: func() {
			o := p.objects.Get(pool.Handle(id))
			if o == nil {
				p.releaseOwned(b.owned)
				return
			}
			p.releaseOwned(o.attach(b))
		},
		discard: func() {
			p.releaseOwned(b.owned)
		},
	})
	Logger().Debug("breeze: geometry kind change",
		"object", uint64(id), "from", from.String(), "to", b.kind.String(), "deferred", !applied)
}

// bind resolves the mesh, material and transform cmd asks for. Allocation
// failures are logged and leave the affected asset zero.
func (p *geometryPool) bind(cmd GeometryCommand) geometryBinding {
	prim := cmd.Primitive()
	color, texture := cmd.Fill()
	b := geometryBinding{
		kind:      prim.Kind(),
		prim:      prim,
		transform: cmd.Transform(),
		color:     color,
		texture:   texture,
		layer:     cmd.TargetLayer(),
	}

	switch b.kind {
	case GeometryBoundModel:
		if s, ok := cmd.(scened); ok {
			b.scene = s.SceneRef()
		}
		return b
	case GeometryBound2D, GeometryBound3D:
	default:
		return b
	}

	if a, ok := cmd.(annular); ok {
		inner, outer := a.Radii()
		id, err := p.store.CreateMesh("ring", mesh.Annulus(inner, outer, mesh.CircleSegments))
		if err != nil {
			Logger().Warn("breeze: ring mesh allocation failed", "error", err)
		} else {
			b.mesh = MeshRef(id)
			b.owned.mesh = id
			p.stats.AssetsAllocated++
		}
	} else {
		b.mesh = MeshRef(p.unitMesh(prim))
	}

	sh := Lit3D
	if b.kind == GeometryBound2D {
		sh = Unlit2D
	}
	if p.materials != nil {
		ref, err := p.materials.Get(sh, color, texture)
		if err != nil {
			Logger().Warn("breeze: material lookup failed", "error", err)
		}
		b.material = ref
		return b
	}
	id, err := p.store.CreateMaterial(sh, color.Array(), uint64(texture))
	if err != nil {
		Logger().Warn("breeze: material allocation failed", "error", err)
		return b
	}
	b.material = MaterialRef(id)
	b.owned.material = id
	p.stats.AssetsAllocated++
	return b
}

// unitMesh returns the shared unit mesh for a primitive, building it on
// first use.
func (p *geometryPool) unitMesh(prim Primitive) gpu.MeshID {
	key := prim
	switch prim {
	case PrimLine:
		key = PrimRect
	case PrimCuboid:
		key = PrimCube
	case PrimQuad:
		key = PrimPlane
	}
	if id, ok := p.units[key]; ok {
		return id
	}

	var d mesh.Data
	switch key {
	case PrimCircle:
		d = mesh.Circle(mesh.CircleSegments)
	case PrimRect:
		d = mesh.Rect()
	case PrimCube:
		d = mesh.Cuboid()
	case PrimSphere:
		d = mesh.Sphere(mesh.SphereSectors, mesh.SphereStacks)
	case PrimCylinder:
		d = mesh.Cylinder(mesh.CircleSegments)
	case PrimCone:
		d = mesh.Cone(mesh.CircleSegments)
	case PrimTorus:
		d = mesh.Torus(1, mesh.UnitTorusTube, mesh.TorusMajor, mesh.TorusMinor)
	case PrimPlane:
		d = mesh.Plane()
	default:
		return 0
	}
	id, err := p.store.CreateMesh("unit-"+key.String(), d)
	if err != nil {
		Logger().Warn("breeze: unit mesh allocation failed", "primitive", key.String(), "error", err)
		return 0
	}
	p.units[key] = id
	return id
}

// reclaim destroys every leftover object, releasing what it owns.
func (p *geometryPool) reclaim(leftover []ObjectID) {
	for _, id := range leftover {
		p.destroy(id)
	}
}

func (p *geometryPool) destroy(id ObjectID) bool {
	obj, ok := p.objects.Remove(pool.Handle(id))
	if !ok {
		return false
	}
	p.releaseOwned(obj.owned.take())
	p.stats.Destroyed++
	return true
}

func (p *geometryPool) releaseOwned(o ownedAssets) {
	if o.empty() {
		return
	}
	p.stats.AssetsReleased += uint64(o.release(p.store))
}

// close destroys every object and the shared unit meshes.
func (p *geometryPool) close() {
	for _, h := range p.objects.Handles(nil) {
		p.destroy(ObjectID(h))
	}
	for prim, id := range p.units {
		p.store.ReleaseMesh(id)
		delete(p.units, prim)
	}
}

func (p *geometryPool) view(id ObjectID, o *geometryObject) GeometryView {
	return GeometryView{
		ID:        id,
		Kind:      o.kind,
		Primitive: o.prim,
		Mesh:      o.mesh,
		Material:  o.material,
		Scene:     o.scene,
		Transform: o.transform,
		Color:     o.color,
		Texture:   o.texture,
		Layer:     o.layer,
		Visible:   o.visible,
		Pending:   o.pending,
		OwnsMesh:  !o.owned.mesh.IsZero(),
	}
}
