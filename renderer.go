package breeze

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/breeze/internal/gpu"
	"github.com/gogpu/breeze/internal/pool"
	"github.com/gogpu/breeze/text"
)

// Renderer turns each frame's draw commands into a persistent set of pooled
// objects.
//
// Callers enqueue commands during the draw phase and call RunFrame once per
// frame. RunFrame drains the queue, binds each command to the next live
// object of its domain in pool order (or creates one), updates the object
// in place when its kind matches, changes its kind otherwise, and finally
// reclaims the objects no command asked for.
//
// Renderer is not safe for concurrent use. The draw phase and RunFrame are
// expected to run on the frame loop's goroutine.
type Renderer struct {
	opts   options
	device *gpu.Device
	store  *gpu.Store

	materials  *MaterialCache
	measurer   *text.Measurer
	queue      *CommandQueue
	structural structuralBuffer

	geometry *geometryPool
	sprites  *spritePool
	texts    *textPool
	lights   *lightPool

	available [numDomains][]ObjectID

	frame             uint64
	structuralApplied uint64
	closed            bool
}

// New creates a renderer. Without a device option it opens a headless
// device on the noop backend.
func New(opts ...Option) (*Renderer, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	device, err := openDevice(&o)
	if err != nil {
		return nil, err
	}
	store, err := gpu.NewStore(device.Device, device.Queue)
	if err != nil {
		device.Close()
		return nil, fmt.Errorf("breeze: create asset store: %w", err)
	}
	measurer, err := text.NewMeasurer(o.textCapacity)
	if err != nil {
		store.Close()
		device.Close()
		return nil, fmt.Errorf("breeze: create text measurer: %w", err)
	}
	for handle, data := range o.fonts {
		if err := measurer.Register(uint64(handle), data); err != nil {
			store.Close()
			device.Close()
			return nil, fmt.Errorf("breeze: register font %d: %w", handle, err)
		}
	}

	r := &Renderer{
		opts:       o,
		device:     device,
		store:      store,
		materials:  newMaterialCache(store),
		measurer:   measurer,
		queue:      NewCommandQueue(o.queueCapacity),
		structural: structuralBuffer{mode: o.structural},
	}
	geomMaterials := r.materials
	if !o.materialCache {
		geomMaterials = nil
	}
	r.geometry = newGeometryPool(store, geomMaterials, &r.structural)
	r.sprites = newSpritePool(o.reserve)
	r.texts = newTextPool(measurer, o.reserve)
	r.lights = newLightPool(&r.structural, o.reserve)

	Logger().Info("breeze: renderer ready",
		"adapter", device.Info.Name,
		"structural", o.structural.String(),
		"reserve", o.reserve,
		"materialCache", o.materialCache)
	return r, nil
}

func openDevice(o *options) (*gpu.Device, error) {
	switch {
	case o.device != nil || o.queue != nil:
		return gpu.Wrap(o.device, o.queue)
	case o.provider != nil:
		return gpu.FromProvider(o.provider)
	default:
		return gpu.OpenHeadless()
	}
}

// Enqueue appends a command of any domain to the frame's queue.
func (r *Renderer) Enqueue(cmd DrawCommand) error {
	if r.closed {
		return ErrClosed
	}
	return r.queue.Enqueue(cmd)
}

// EnqueueGeometry appends a geometry command.
func (r *Renderer) EnqueueGeometry(cmd GeometryCommand) error { return r.Enqueue(cmd) }

// EnqueueSprite appends a sprite command.
func (r *Renderer) EnqueueSprite(cmd SpriteCommand) error { return r.Enqueue(cmd) }

// EnqueueText appends a text command.
func (r *Renderer) EnqueueText(cmd TextCommand) error { return r.Enqueue(cmd) }

// EnqueueLight appends a light command.
func (r *Renderer) EnqueueLight(cmd LightCommand) error { return r.Enqueue(cmd) }

// RunFrame reconciles the queued commands against the pools.
//
// In order: kind changes recorded during the previous frame are applied,
// the live objects of every domain are listed in pool order, the queue is
// drained and each command is bound to the first unclaimed object of its
// domain (or a new one), and the unclaimed objects are reclaimed: geometry
// is destroyed with its owned assets, sprites, text and lights are hidden up
// to the reserve and destroyed beyond it.
func (r *Renderer) RunFrame() error {
	if r.closed {
		return ErrClosed
	}

	applied := r.structural.flush()
	r.structuralApplied += uint64(applied)

	r.available[DomainGeometry] = r.geometry.available(r.available[DomainGeometry][:0])
	r.available[DomainSprite] = r.sprites.available(r.available[DomainSprite][:0])
	r.available[DomainText] = r.texts.available(r.available[DomainText][:0])
	r.available[DomainLight] = r.lights.available(r.available[DomainLight][:0])

	r.queue.lock()
	defer r.queue.unlock()
	commands := r.queue.Drain()

	var claimed, index [numDomains]int
	next := func(d Domain) ObjectID {
		if claimed[d] >= len(r.available[d]) {
			return 0
		}
		id := r.available[d][claimed[d]]
		claimed[d]++
		return id
	}

	for _, cmd := range commands {
		d := cmd.Domain()
		switch d {
		case DomainGeometry:
			gc, ok := cmd.(GeometryCommand)
			if !ok {
				r.skip(cmd)
				continue
			}
			r.geometry.reconcile(next(d), gc)
		case DomainSprite:
			sc, ok := spriteOf(cmd)
			if !ok {
				r.skip(cmd)
				continue
			}
			r.sprites.reconcile(next(d), index[d], sc)
		case DomainText:
			tc, ok := textOf(cmd)
			if !ok {
				r.skip(cmd)
				continue
			}
			r.texts.reconcile(next(d), index[d], tc)
		case DomainLight:
			lc, ok := cmd.(LightCommand)
			if !ok {
				r.skip(cmd)
				continue
			}
			r.lights.reconcile(next(d), lc)
		default:
			r.skip(cmd)
			continue
		}
		index[d]++
	}

	r.geometry.reclaim(r.available[DomainGeometry][claimed[DomainGeometry]:])
	r.sprites.reclaim(r.available[DomainSprite][claimed[DomainSprite]:])
	r.texts.reclaim(r.available[DomainText][claimed[DomainText]:])
	r.lights.reclaim(r.available[DomainLight][claimed[DomainLight]:])

	r.frame++
	Logger().Debug("breeze: frame reconciled",
		"frame", r.frame,
		"commands", len(commands),
		"structuralApplied", applied,
		"structuralPending", r.structural.pending(),
		"geometry", r.geometry.objects.Len(),
		"sprites", r.sprites.objects.Len(),
		"texts", r.texts.objects.Len(),
		"lights", r.lights.objects.Len())
	return nil
}

func (r *Renderer) skip(cmd DrawCommand) {
	Logger().Warn("breeze: unsupported command", "domain", cmd.Domain().String(), "type", fmt.Sprintf("%T", cmd))
}

func spriteOf(cmd DrawCommand) (SpriteCommand, bool) {
	switch c := cmd.(type) {
	case SpriteCommand:
		return c, true
	case *SpriteCommand:
		return *c, true
	}
	return SpriteCommand{}, false
}

func textOf(cmd DrawCommand) (TextCommand, bool) {
	switch c := cmd.(type) {
	case TextCommand:
		return c, true
	case *TextCommand:
		return *c, true
	}
	return TextCommand{}, false
}

// Frame returns the number of completed frames.
func (r *Renderer) Frame() uint64 { return r.frame }

// Pending returns the number of recorded kind changes that take effect at
// the start of the next frame.
func (r *Renderer) Pending() int { return r.structural.pending() }

// StructuralMode returns when kind changes take effect.
func (r *Renderer) StructuralMode() StructuralMode { return r.structural.mode }

// Reserve returns the per-domain hidden reserve size.
func (r *Renderer) Reserve() int { return r.opts.reserve }

// Queue returns the renderer's command queue.
func (r *Renderer) Queue() *CommandQueue { return r.queue }

// Materials returns the material cache. With WithoutMaterialCache geometry
// does not use it and it stays empty.
func (r *Renderer) Materials() *MaterialCache { return r.materials }

// Measurer returns the text measurer.
func (r *Renderer) Measurer() *text.Measurer { return r.measurer }

// PipelineInputs is what a host needs to build a render pipeline for the
// pooled meshes of one shading model.
type PipelineInputs struct {
	Shader hal.ShaderModule
	Layout gputypes.VertexBufferLayout
}

// Pipeline returns the compiled shader and vertex layout for sh. It reports
// false for an unknown shading model or a closed renderer.
func (r *Renderer) Pipeline(sh Shading) (PipelineInputs, bool) {
	if r.closed {
		return PipelineInputs{}, false
	}
	m := r.store.Shader(sh)
	if m == nil {
		return PipelineInputs{}, false
	}
	return PipelineInputs{Shader: m, Layout: gpu.VertexLayout()}, true
}

// RegisterFont registers or replaces the font under handle. Pooled labels
// measured with a replaced font are re-measured on their next frame.
func (r *Renderer) RegisterFont(handle FontHandle, data []byte) error {
	if r.closed {
		return ErrClosed
	}
	if err := r.measurer.Register(uint64(handle), data); err != nil {
		return fmt.Errorf("breeze: register font %d: %w", handle, err)
	}
	return nil
}

// AdapterName returns the name of the device the renderer allocates on.
func (r *Renderer) AdapterName() string {
	if r.device == nil {
		return ""
	}
	return r.device.Info.Name
}

// Snapshot returns a copy of every pooled object in pool order.
func (r *Renderer) Snapshot() Snapshot {
	s := Snapshot{Frame: r.frame}
	if r.closed {
		return s
	}
	r.geometry.objects.Each(func(h pool.Handle, o *geometryObject) {
		s.Geometry = append(s.Geometry, r.geometry.view(ObjectID(h), o))
	})
	r.sprites.objects.Each(func(h pool.Handle, o *spriteObject) {
		s.Sprites = append(s.Sprites, r.sprites.view(ObjectID(h), o))
	})
	r.texts.objects.Each(func(h pool.Handle, o *textObject) {
		s.Texts = append(s.Texts, r.texts.view(ObjectID(h), o))
	})
	r.lights.objects.Each(func(h pool.Handle, o *lightObject) {
		s.Lights = append(s.Lights, r.lights.view(ObjectID(h), o))
	})
	return s
}

// Stats returns the renderer's accounting.
func (r *Renderer) Stats() Stats {
	s := Stats{
		Frame:             r.frame,
		Geometry:          r.geometry.stats,
		Sprite:            r.sprites.stats,
		Text:              r.texts.stats,
		Light:             r.lights.stats,
		StructuralApplied: r.structuralApplied,
		StructuralPending: r.structural.pending(),
		Materials2D:       r.materials.Stats(Unlit2D),
		Materials3D:       r.materials.Stats(Lit3D),
		Assets:            r.store.Stats(),
	}
	s.Geometry.Live = r.geometry.objects.Len()
	s.Sprite.Live = r.sprites.objects.Len()
	s.Text.Live = r.texts.objects.Len()
	s.Light.Live = r.lights.objects.Len()
	return s
}

// MeshAlive reports whether ref names a live mesh.
func (r *Renderer) MeshAlive(ref MeshRef) bool {
	return !r.closed && r.store.MeshAlive(gpu.MeshID(ref))
}

// MaterialAlive reports whether ref names a live material.
func (r *Renderer) MaterialAlive(ref MaterialRef) bool {
	return !r.closed && r.store.MaterialAlive(gpu.MaterialID(ref))
}

// MaterialColor returns the color a live material was created with.
func (r *Renderer) MaterialColor(ref MaterialRef) (Color, bool) {
	if r.closed {
		return Color{}, false
	}
	info, ok := r.store.Material(gpu.MaterialID(ref))
	if !ok {
		return Color{}, false
	}
	return Color{R: info.Color[0], G: info.Color[1], B: info.Color[2], A: info.Color[3]}, true
}

// MeshTriangles calls fn for every triangle of a live mesh, in local
// coordinates. It returns false if ref is not live.
func (r *Renderer) MeshTriangles(ref MeshRef, fn func(a, b, c Vec3)) bool {
	if r.closed {
		return false
	}
	d, ok := r.store.MeshData(gpu.MeshID(ref))
	if !ok {
		return false
	}
	at := func(i uint32) Vec3 {
		p := d.Vertices[i].Position
		return Vec3{p[0], p[1], p[2]}
	}
	for i := 0; i+2 < len(d.Indices); i += 3 {
		fn(at(d.Indices[i]), at(d.Indices[i+1]), at(d.Indices[i+2]))
	}
	return true
}

// Close destroys every pooled object and releases every GPU asset. Kind
// changes that have not taken effect are dropped. Close is idempotent.
func (r *Renderer) Close() error {
	if r.closed {
		return nil
	}
	dropped := r.structural.discard()
	r.geometry.close()
	r.sprites.close()
	r.texts.close()
	r.lights.close()
	r.materials.release()

	st := r.store.Stats()
	r.store.Close()
	r.device.Close()
	r.closed = true

	Logger().Info("breeze: renderer closed",
		"frames", r.frame,
		"droppedStructural", dropped,
		"meshesAllocated", st.MeshesAllocated,
		"materialsAllocated", st.MaterialsAllocated)
	return nil
}
