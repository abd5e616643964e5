package breeze

import "github.com/gogpu/breeze/internal/pool"

// Sprite and text objects are stacked by layer first, then by command
// index within the frame.
const (
	layerDepth = 100
	indexDepth = 0.00001
)

func stackZ(layer, index int) float32 {
	return float32(layer)*layerDepth + float32(index)*indexDepth
}

// spriteObject is a pooled sprite renderable.
type spriteObject struct {
	image    ImageHandle
	position Vec3
	scale    Vec3
	tint     Color
	layer    int
	visible  bool
}

// spritePool reconciles sprite commands. All sprites share one kind, so
// there is no slow path: a candidate is always updated in place and a new
// object is created only when the pool has run out.
type spritePool struct {
	objects *pool.Arena[spriteObject]
	reserve int
	stats   DomainStats
}

func newSpritePool(reserve int) *spritePool {
	return &spritePool{
		objects: pool.New[spriteObject](64),
		reserve: reserve,
	}
}

func (p *spritePool) available(dst []ObjectID) []ObjectID {
	return liveIDs(p.objects, dst)
}

// reconcile applies cmd, the index-th sprite command of the frame, to
// candidate or to a new object.
func (p *spritePool) reconcile(candidate ObjectID, index int, cmd SpriteCommand) ObjectID {
	pos := cmd.Position.Extend(stackZ(cmd.Layer, index))
	scale := cmd.Scale.Extend(1)

	if o := p.objects.Get(pool.Handle(candidate)); o != nil {
		p.stats.FastPath++
		if o.position != pos {
			o.position = pos
			p.stats.FieldWrites++
		}
		if o.scale != scale {
			o.scale = scale
			p.stats.FieldWrites++
		}
		if o.image != cmd.Image {
			o.image = cmd.Image
			p.stats.FieldWrites++
		}
		if o.tint != cmd.Tint {
			o.tint = cmd.Tint
			p.stats.FieldWrites++
		}
		if !o.visible {
			o.visible = true
			p.stats.FieldWrites++
		}
		if o.layer != cmd.Layer {
			o.layer = cmd.Layer
			p.stats.FieldWrites++
		}
		return candidate
	}

	p.stats.Created++
	return ObjectID(p.objects.Insert(spriteObject{
		image:    cmd.Image,
		position: pos,
		scale:    scale,
		tint:     cmd.Tint,
		layer:    cmd.Layer,
		visible:  true,
	}))
}

// reclaim hides up to reserve leftovers and destroys the rest.
func (p *spritePool) reclaim(leftover []ObjectID) {
	reclaimReserve(p.objects, leftover, p.reserve, &p.stats, func(o *spriteObject) bool {
		if !o.visible {
			return false
		}
		o.visible = false
		return true
	})
}

func (p *spritePool) close() { destroyAll(p.objects, &p.stats) }

func (p *spritePool) view(id ObjectID, o *spriteObject) SpriteView {
	return SpriteView{
		ID:       id,
		Image:    o.image,
		Position: o.position,
		Scale:    o.scale,
		Tint:     o.tint,
		Layer:    o.layer,
		Visible:  o.visible,
	}
}
