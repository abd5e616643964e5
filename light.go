package breeze

import "github.com/gogpu/breeze/internal/pool"

// lightParams is the kind-specific light attachment.
type lightParams struct {
	kind        LightKind
	color       Color
	intensity   float32 // point
	rng         float32 // point
	illuminance float32 // directional
	shadows     bool
}

func paramsOf(cmd LightCommand) lightParams {
	switch c := cmd.(type) {
	case PointLight:
		return pointParams(c)
	case *PointLight:
		return pointParams(*c)
	case DirectionalLight:
		return directionalParams(c)
	case *DirectionalLight:
		return directionalParams(*c)
	}
	return lightParams{}
}

func pointParams(c PointLight) lightParams {
	return lightParams{kind: LightPoint, color: c.Color, intensity: c.Intensity, rng: c.Range, shadows: c.Shadows}
}

func directionalParams(c DirectionalLight) lightParams {
	return lightParams{kind: LightDirectional, color: c.Color, illuminance: c.Illuminance, shadows: c.Shadows}
}

// placement returns the transform a light command asks for: point lights
// are translated, directional lights rotated.
func placement(cmd LightCommand) (Vec3, Quat) {
	switch c := cmd.(type) {
	case PointLight:
		return c.Position, Identity
	case *PointLight:
		return c.Position, Identity
	case DirectionalLight:
		return Zero3, c.Rotation()
	case *DirectionalLight:
		return Zero3, c.Rotation()
	}
	return Zero3, Identity
}

// lightObject is a pooled light.
type lightObject struct {
	lightParams
	position Vec3
	rotation Quat
	layer    int
	visible  bool
	pending  bool
}

// lightPool reconciles light commands. A light object carries either a
// point or a directional attachment. Parameters of a matching kind are
// updated in place; a kind change goes through the structural buffer, so
// in deferred mode the object keeps its previous kind until the next frame
// while its transform is already updated.
type lightPool struct {
	objects    *pool.Arena[lightObject]
	structural *structuralBuffer
	reserve    int
	stats      DomainStats
}

func newLightPool(structural *structuralBuffer, reserve int) *lightPool {
	return &lightPool{
		objects:    pool.New[lightObject](8),
		structural: structural,
		reserve:    reserve,
	}
}

func (p *lightPool) available(dst []ObjectID) []ObjectID {
	return liveIDs(p.objects, dst)
}

func (p *lightPool) reconcile(candidate ObjectID, cmd LightCommand) ObjectID {
	params := paramsOf(cmd)
	pos, rot := placement(cmd)

	o := p.objects.Get(pool.Handle(candidate))
	if o == nil {
		p.stats.Created++
		return ObjectID(p.objects.Insert(lightObject{
			lightParams: params,
			position:    pos,
			rotation:    rot,
			layer:       cmd.TargetLayer(),
			visible:     true,
		}))
	}

	o.position, o.rotation = pos, rot
	o.layer = cmd.TargetLayer()
	o.visible = true

	if o.kind == params.kind {
		p.stats.FastPath++
		if o.lightParams != params {
			o.lightParams = params
			p.stats.FieldWrites++
		}
		return candidate
	}

	p.stats.SlowPath++
	from := o.kind
	o.pending = true
	applied := p.structural.submit(structuralOp{
		domain: DomainLight,
		target: candidate,
		apply: func() {
			if obj := p.objects.Get(pool.Handle(candidate)); obj != nil {
				obj.lightParams = params
				obj.pending = false
			}
		},
	})
	Logger().Debug("breeze: light kind change",
		"object", uint64(candidate), "from", from.String(), "to", params.kind.String(), "deferred", !applied)
	return candidate
}

// reclaim hides up to reserve leftovers and destroys the rest.
func (p *lightPool) reclaim(leftover []ObjectID) {
	reclaimReserve(p.objects, leftover, p.reserve, &p.stats, func(o *lightObject) bool {
		if !o.visible {
			return false
		}
		o.visible = false
		return true
	})
}

func (p *lightPool) close() { destroyAll(p.objects, &p.stats) }

func (p *lightPool) view(id ObjectID, o *lightObject) LightView {
	return LightView{
		ID:          id,
		Kind:        o.kind,
		Position:    o.position,
		Rotation:    o.rotation,
		Color:       o.color,
		Intensity:   o.intensity,
		Range:       o.rng,
		Illuminance: o.illuminance,
		Shadows:     o.shadows,
		Layer:       o.layer,
		Visible:     o.visible,
		Pending:     o.pending,
	}
}
