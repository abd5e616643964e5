// Package breeze provides an immediate-mode drawing API backed by pooled,
// retained render state.
//
// # Overview
//
// Every frame, caller code describes what should be visible right now as a
// flat list of draw commands: 2D and 3D geometry, sprites, text and lights.
// breeze turns that ephemeral list into a persistent set of renderable
// objects without destroying and recreating render state every frame.
// Objects are recycled across frames, identical materials are shared, and
// per-object GPU assets are released exactly once.
//
// # Quick Start
//
//	import "github.com/gogpu/breeze"
//
//	r, err := breeze.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
//	for frame := 0; frame < 60; frame++ {
//	    world := r.Layer(0)
//	    world.Draw2D.Circle(breeze.V2(0, 0), 40, breeze.Red)
//	    world.Text.Draw("hello", breeze.V2(-50, 80))
//	    if err := r.RunFrame(); err != nil {
//	        log.Fatal(err)
//	    }
//	}
//
// # Architecture
//
// The package is organized into:
//   - Commands: Circle, Rect, ..., Model, SpriteCommand, TextCommand,
//     PointLight, DirectionalLight
//   - CommandQueue: FIFO buffer drained once per frame
//   - Renderer: per-domain pools (geometry, sprite, text, light) and the
//     per-frame reconciliation in RunFrame
//   - MaterialCache: (color, texture) to shared material, never evicted
//   - Internal: pool (generational arenas), gpu (HAL asset store), mesh
//     (unit and ring meshes), cache (material and text metric tables)
//
// # Pooling
//
// Commands bind to pooled objects by position: the i-th command of a domain
// in a frame is applied to the i-th live object of that domain in pool
// order. A candidate whose kind matches is updated in place (fast path).
// A candidate of another kind, for example a 3D object asked to draw a
// circle or a point light asked to become directional, changes kind (slow
// path). By default kind changes take effect at the start of the next
// frame, see WithImmediateStructuralChanges.
//
// Objects no command asked for are reclaimed at the end of the frame.
// Geometry is destroyed together with the assets it owns. Sprites, text and
// lights are hidden and kept for reuse, up to a reserve of DefaultReserve
// per domain.
//
// # Coordinate System
//
// Uses a Y-up world:
//   - 2D geometry lies in the z = 0 plane
//   - Sprites and text are stacked by layer*100 + command index*0.00001
//   - Directional lights shine along -Z when unrotated
//
// # Logging
//
// breeze is silent by default. See SetLogger.
package breeze
