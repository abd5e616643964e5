package breeze

import (
	"github.com/gogpu/breeze/internal/gpu"
	"github.com/gogpu/breeze/internal/pool"
)

// Asset handles are opaque identities produced by an asset loader outside
// breeze. breeze only compares them for equality; the zero value of each
// means "none" (no texture, default font, no scene).

// ImageHandle identifies a loaded texture or sprite image.
type ImageHandle uint64

// FontHandle identifies a loaded font. The zero FontHandle selects the
// default font.
type FontHandle uint64

// SceneHandle identifies a loaded model scene.
type SceneHandle uint64

// IsZero reports whether h is the "none" handle.
func (h ImageHandle) IsZero() bool { return h == 0 }

// IsZero reports whether h selects the default font.
func (h FontHandle) IsZero() bool { return h == 0 }

// IsZero reports whether h is the "none" handle.
func (h SceneHandle) IsZero() bool { return h == 0 }

// ObjectID identifies a pooled object. IDs are generational: once an object
// is destroyed its ID never resolves again, even if the slot is reused.
type ObjectID pool.Handle

// IsZero reports whether id is the zero "none" ID.
func (id ObjectID) IsZero() bool { return id == 0 }

// MeshRef identifies a GPU mesh held by the renderer's asset store.
type MeshRef gpu.MeshID

// IsZero reports whether r refers to no mesh.
func (r MeshRef) IsZero() bool { return r == 0 }

// MaterialRef identifies a GPU material held by the renderer's asset store.
// Two references are equal exactly when they name the same material.
type MaterialRef gpu.MaterialID

// IsZero reports whether r refers to no material.
func (r MaterialRef) IsZero() bool { return r == 0 }
