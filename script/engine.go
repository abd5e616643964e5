// Package script drives the breeze draw phase from Lua.
//
// A script defines a global draw(frame) function. Each frame the engine
// calls it, and the drawing functions it reaches enqueue commands on the
// renderer:
//
//	function draw(frame)
//	  local world = layer(0)
//	  world.circle(0, 0, 40 + frame % 10, "#ff0000")
//	  world.text("frame " .. frame, -50, 80)
//	end
//
// Colors are hex strings ("#rgb", "#rrggbb", "#rrggbbaa") or tables
// {r, g, b, a} with components in [0, 1]. Omitted colors default per
// function, like the Go layer helpers.
package script

import (
	"errors"
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/gogpu/breeze"
)

// APIVersion is exposed to scripts as the global API_VERSION.
const APIVersion = 1

// ErrNoDraw is returned by Draw when the loaded scripts define no draw
// function.
var ErrNoDraw = errors.New("script: draw function not defined")

// Engine wraps a single gopher-lua VM bound to one renderer.
// Single-goroutine access only (the frame loop).
type Engine struct {
	vm *lua.LState
	r  *breeze.Renderer
}

// New creates an engine whose drawing functions enqueue on r.
func New(r *breeze.Renderer) *Engine {
	vm := lua.NewState()
	vm.SetGlobal("API_VERSION", lua.LNumber(APIVersion))
	e := &Engine{vm: vm, r: r}
	vm.SetGlobal("layer", vm.NewFunction(e.layer))
	return e
}

// LoadFile runs a script file, typically defining draw.
func (e *Engine) LoadFile(path string) error {
	if err := e.vm.DoFile(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	breeze.Logger().Debug("script: loaded", "file", path)
	return nil
}

// LoadString runs a script chunk.
func (e *Engine) LoadString(src string) error {
	if err := e.vm.DoString(src); err != nil {
		return fmt.Errorf("load script: %w", err)
	}
	return nil
}

// Draw calls the script's draw function for one frame. Commands it enqueues
// are reconciled by the next RunFrame.
func (e *Engine) Draw(frame uint64) error {
	fn := e.vm.GetGlobal("draw")
	if fn.Type() != lua.LTFunction {
		return ErrNoDraw
	}
	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    0,
		Protect: true,
	}, lua.LNumber(frame)); err != nil {
		return fmt.Errorf("draw frame %d: %w", frame, err)
	}
	return nil
}

// Close releases the VM.
func (e *Engine) Close() {
	e.vm.Close()
}

// layer(id) returns a table of drawing functions tagged with layer id.
func (e *Engine) layer(L *lua.LState) int {
	l := e.r.Layer(L.OptInt(1, 0))
	t := L.NewTable()
	L.SetFuncs(t, map[string]lua.LGFunction{
		"circle": func(L *lua.LState) int {
			l.Draw2D.Circle(vec2(L, 1), float32(L.CheckNumber(3)), color(L, 4, breeze.White))
			return 0
		},
		"rect": func(L *lua.LState) int {
			l.Draw2D.Rect(vec2(L, 1), vec2(L, 3), color(L, 5, breeze.White))
			return 0
		},
		"line": func(L *lua.LState) int {
			l.Draw2D.Line(vec2(L, 1), vec2(L, 3), float32(L.OptNumber(5, 1)), color(L, 6, breeze.White))
			return 0
		},
		"ring": func(L *lua.LState) int {
			l.Draw2D.Ring(vec2(L, 1), float32(L.CheckNumber(3)), float32(L.CheckNumber(4)), color(L, 5, breeze.White))
			return 0
		},
		"cube": func(L *lua.LState) int {
			l.Draw3D.Cube(vec3(L, 1), breeze.Identity, float32(L.CheckNumber(4)), color(L, 5, breeze.White))
			return 0
		},
		"cuboid": func(L *lua.LState) int {
			l.Draw3D.Cuboid(vec3(L, 1), breeze.Identity, vec3(L, 4), color(L, 7, breeze.White))
			return 0
		},
		"sphere": func(L *lua.LState) int {
			l.Draw3D.Sphere(vec3(L, 1), float32(L.CheckNumber(4)), color(L, 5, breeze.White))
			return 0
		},
		"cylinder": func(L *lua.LState) int {
			l.Draw3D.Cylinder(vec3(L, 1), breeze.Identity, float32(L.CheckNumber(4)), float32(L.CheckNumber(5)), color(L, 6, breeze.White))
			return 0
		},
		"cone": func(L *lua.LState) int {
			l.Draw3D.Cone(vec3(L, 1), breeze.Identity, float32(L.CheckNumber(4)), float32(L.CheckNumber(5)), color(L, 6, breeze.White))
			return 0
		},
		"torus": func(L *lua.LState) int {
			l.Draw3D.Torus(vec3(L, 1), breeze.Identity, float32(L.CheckNumber(4)), float32(L.CheckNumber(5)), color(L, 6, breeze.White))
			return 0
		},
		"plane": func(L *lua.LState) int {
			l.Draw3D.Plane(vec3(L, 1), breeze.Identity, float32(L.CheckNumber(4)), color(L, 5, breeze.White))
			return 0
		},
		"model": func(L *lua.LState) int {
			s := float32(L.OptNumber(5, 1))
			l.Draw3D.Model(vec3(L, 1), breeze.Identity, breeze.Splat(s), breeze.SceneHandle(L.CheckInt64(4)))
			return 0
		},
		"sprite": func(L *lua.LState) int {
			img := breeze.ImageHandle(L.CheckInt64(1))
			l.Sprites.DrawExt(img, vec2(L, 2), float32(L.OptNumber(4, breeze.DefaultSpriteScale)), color(L, 5, breeze.White))
			return 0
		},
		"text": func(L *lua.LState) int {
			l.Text.DrawExt(L.CheckString(1), vec2(L, 2), float32(L.OptNumber(4, breeze.DefaultTextSize)), color(L, 5, breeze.Black))
			return 0
		},
		"point_light": func(L *lua.LState) int {
			l.Lights.Point(vec3(L, 1), color(L, 4, breeze.White), float32(L.OptNumber(5, 800)), float32(L.OptNumber(6, 20)))
			return 0
		},
		"directional_light": func(L *lua.LState) int {
			l.Lights.Directional(vec3(L, 1), color(L, 4, breeze.White), float32(L.OptNumber(5, 1000)))
			return 0
		},
	})
	t.RawSetString("id", lua.LNumber(l.ID))
	L.Push(t)
	return 1
}

func vec2(L *lua.LState, n int) breeze.Vec2 {
	return breeze.V2(float32(L.CheckNumber(n)), float32(L.CheckNumber(n+1)))
}

func vec3(L *lua.LState, n int) breeze.Vec3 {
	return breeze.V3(float32(L.CheckNumber(n)), float32(L.CheckNumber(n+1)), float32(L.CheckNumber(n+2)))
}

// color reads argument n as a hex string or an {r, g, b[, a]} table.
func color(L *lua.LState, n int, def breeze.Color) breeze.Color {
	switch v := L.Get(n).(type) {
	case lua.LString:
		return breeze.Hex(string(v))
	case *lua.LTable:
		return breeze.RGBA(component(v, 1, "r", 0), component(v, 2, "g", 0), component(v, 3, "b", 0), component(v, 4, "a", 1))
	default:
		if v.Type() != lua.LTNil {
			L.ArgError(n, "color expected, got "+v.Type().String())
		}
		return def
	}
}

func component(t *lua.LTable, i int, key string, def float32) float32 {
	if v, ok := t.RawGetInt(i).(lua.LNumber); ok {
		return float32(v)
	}
	if v, ok := t.RawGetString(key).(lua.LNumber); ok {
		return float32(v)
	}
	return def
}
