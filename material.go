package breeze

import (
	"fmt"

	"github.com/gogpu/breeze/internal/cache"
	"github.com/gogpu/breeze/internal/gpu"
)

// Shading selects the shading model of a material.
type Shading = gpu.Shading

const (
	// Unlit2D is flat color, used by 2D geometry.
	Unlit2D = gpu.ShadingUnlit
	// Lit3D is Lambert-shaded, used by 3D geometry.
	Lit3D = gpu.ShadingLit
)

// MaterialKey identifies a cached material. Colors compare by the exact bit
// pattern of their channels: two colors that differ in the last bit are
// different keys.
type MaterialKey struct {
	R, G, B, A uint32
	Texture    ImageHandle
}

// KeyOf returns the cache key for a color and optional texture.
func KeyOf(c Color, texture ImageHandle) MaterialKey {
	b := c.bits()
	return MaterialKey{R: b[0], G: b[1], B: b[2], A: b[3], Texture: texture}
}

// MaterialCacheStats reports the state of one shading model's cache.
type MaterialCacheStats struct {
	Entries int
	Hits    uint64
	Misses  uint64
	HitRate float64
}

// MaterialCache deduplicates generated materials by (color, texture).
//
// Separate tables are kept per shading model. Entries are never evicted:
// the cache grows with the number of distinct keys ever requested and its
// materials are released only when the cache itself is released. Callers
// must never release a material obtained from the cache.
//
// MaterialCache is safe for concurrent use; insertion is serialized so two
// callers requesting the same new key share one material.
type MaterialCache struct {
	store  *gpu.Store
	tables [2]*cache.Cache[MaterialKey, MaterialRef]
}

func newMaterialCache(store *gpu.Store) *MaterialCache {
	return &MaterialCache{
		store: store,
		tables: [2]*cache.Cache[MaterialKey, MaterialRef]{
			cache.New[MaterialKey, MaterialRef](),
			cache.New[MaterialKey, MaterialRef](),
		},
	}
}

// Get returns the shared material for (color, texture) under the given
// shading model, allocating it on first request.
func (c *MaterialCache) Get(sh Shading, color Color, texture ImageHandle) (MaterialRef, error) {
	table, err := c.table(sh)
	if err != nil {
		return 0, err
	}
	ref, created, err := table.GetOrCreate(KeyOf(color, texture), func() (MaterialRef, error) {
		id, err := c.store.CreateMaterial(sh, color.Array(), uint64(texture))
		return MaterialRef(id), err
	})
	if err != nil {
		return 0, fmt.Errorf("breeze: material %s: %w", sh, err)
	}
	if created {
		Logger().Debug("breeze: material cached", "shading", sh.String(), "color", color, "texture", uint64(texture))
	}
	return ref, nil
}

// Lookup returns the cached material for a key without allocating.
func (c *MaterialCache) Lookup(sh Shading, key MaterialKey) (MaterialRef, bool) {
	table, err := c.table(sh)
	if err != nil {
		return 0, false
	}
	return table.Get(key)
}

// Len returns the number of cached materials for a shading model.
func (c *MaterialCache) Len(sh Shading) int {
	table, err := c.table(sh)
	if err != nil {
		return 0
	}
	return table.Len()
}

// Stats returns the hit/miss accounting for a shading model.
func (c *MaterialCache) Stats(sh Shading) MaterialCacheStats {
	table, err := c.table(sh)
	if err != nil {
		return MaterialCacheStats{}
	}
	st := table.Stats()
	return MaterialCacheStats{
		Entries: st.Len,
		Hits:    st.Hits,
		Misses:  st.Misses,
		HitRate: st.HitRate,
	}
}

// release frees every cached material and empties the cache.
func (c *MaterialCache) release() {
	for _, table := range c.tables {
		table.Range(func(_ MaterialKey, ref MaterialRef) {
			c.store.ReleaseMaterial(gpu.MaterialID(ref))
		})
		table.Clear()
	}
}

func (c *MaterialCache) table(sh Shading) (*cache.Cache[MaterialKey, MaterialRef], error) {
	if int(sh) >= len(c.tables) {
		return nil, fmt.Errorf("breeze: unknown shading %s", sh)
	}
	return c.tables[sh], nil
}
