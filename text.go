package breeze

import (
	"github.com/gogpu/breeze/internal/pool"
	"github.com/gogpu/breeze/text"
)

// TextBounds is the measured extent of a label.
type TextBounds = text.Bounds

// textObject is a pooled text renderable.
type textObject struct {
	content  string
	font     FontHandle
	position Vec3
	size     float32
	color    Color
	layer    int
	visible  bool
	bounds   TextBounds
	measured uint64 // measurer generation of bounds
}

// textPool reconciles text commands. Like sprites, text has a single kind:
// candidates are updated field by field and only changed fields are
// written. Bounds are re-measured only when content, font or size changed
// or a font was replaced since they were measured.
type textPool struct {
	objects  *pool.Arena[textObject]
	measurer *text.Measurer
	reserve  int
	stats    DomainStats
}

func newTextPool(measurer *text.Measurer, reserve int) *textPool {
	return &textPool{
		objects:  pool.New[textObject](32),
		measurer: measurer,
		reserve:  reserve,
	}
}

func (p *textPool) available(dst []ObjectID) []ObjectID {
	return liveIDs(p.objects, dst)
}

func (p *textPool) measure(cmd TextCommand) (TextBounds, uint64) {
	if p.measurer == nil {
		return TextBounds{}, 0
	}
	gen := p.measurer.Generation()
	return p.measurer.Measure(cmd.Content, uint64(cmd.Font), cmd.Size), gen
}

func (p *textPool) generation() uint64 {
	if p.measurer == nil {
		return 0
	}
	return p.measurer.Generation()
}

// reconcile applies cmd, the index-th text command of the frame, to
// candidate or to a new object.
func (p *textPool) reconcile(candidate ObjectID, index int, cmd TextCommand) ObjectID {
	pos := cmd.Position.Extend(stackZ(cmd.Layer, index))

	if o := p.objects.Get(pool.Handle(candidate)); o != nil {
		p.stats.FastPath++
		remeasure := o.measured != p.generation()
		if o.content != cmd.Content {
			o.content = cmd.Content
			p.stats.FieldWrites++
			remeasure = true
		}
		if o.font != cmd.Font {
			o.font = cmd.Font
			p.stats.FieldWrites++
			remeasure = true
		}
		if o.size != cmd.Size {
			o.size = cmd.Size
			p.stats.FieldWrites++
			remeasure = true
		}
		if o.color != cmd.Color {
			o.color = cmd.Color
			p.stats.FieldWrites++
		}
		if o.position != pos {
			o.position = pos
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
		if remeasure {
			o.bounds, o.measured = p.measure(cmd)
		}
		return candidate
	}

	p.stats.Created++
	bounds, measured := p.measure(cmd)
	return ObjectID(p.objects.Insert(textObject{
		content:  cmd.Content,
		font:     cmd.Font,
		position: pos,
		size:     cmd.Size,
		color:    cmd.Color,
		layer:    cmd.Layer,
		visible:  true,
		bounds:   bounds,
		measured: measured,
	}))
}

// reclaim hides up to reserve leftovers and destroys the rest.
func (p *textPool) reclaim(leftover []ObjectID) {
	reclaimReserve(p.objects, leftover, p.reserve, &p.stats, func(o *textObject) bool {
		if !o.visible {
			return false
		}
		o.visible = false
		return true
	})
}

func (p *textPool) close() { destroyAll(p.objects, &p.stats) }

func (p *textPool) view(id ObjectID, o *textObject) TextView {
	return TextView{
		ID:       id,
		Content:  o.content,
		Font:     o.font,
		Position: o.position,
		Size:     o.size,
		Color:    o.color,
		Layer:    o.layer,
		Visible:  o.visible,
		Bounds:   o.bounds,
	}
}
