package breeze

import (
	"fmt"

	"github.com/gogpu/breeze/internal/gpu"
)

// DomainStats is the cumulative accounting of one pool manager.
type DomainStats struct {
	// Live is the number of pooled objects, visible or hidden.
	Live int

	// Created and Destroyed count pooled objects over the renderer's life.
	Created   uint64
	Destroyed uint64

	// Hidden counts visible-to-hidden transitions of reserve objects.
	Hidden uint64

	// FastPath counts commands applied in place to a matching candidate.
	FastPath uint64

	// SlowPath counts commands that changed a candidate's kind.
	SlowPath uint64

	// FieldWrites counts fields that actually changed on the fast path.
	// A command equal to the object's state writes nothing.
	FieldWrites uint64

	// AssetsAllocated and AssetsReleased count uniquely owned GPU assets
	// (geometry only).
	AssetsAllocated uint64
	AssetsReleased  uint64
}

// String returns a human-readable summary.
func (s DomainStats) String() string {
	return fmt.Sprintf("%d live (+%d/-%d), %d hidden, %d fast, %d slow, %d writes",
		s.Live, s.Created, s.Destroyed, s.Hidden, s.FastPath, s.SlowPath, s.FieldWrites)
}

// AssetStats is the allocation accounting of the GPU asset store.
type AssetStats = gpu.Stats

// Stats is a point-in-time view of renderer accounting.
type Stats struct {
	// Frame is the number of completed RunFrame calls.
	Frame uint64

	Geometry DomainStats
	Sprite   DomainStats
	Text     DomainStats
	Light    DomainStats

	// StructuralApplied counts kind changes that have taken effect.
	StructuralApplied uint64
	// StructuralPending is the number of kind changes waiting for the
	// next frame.
	StructuralPending int

	Materials2D MaterialCacheStats
	Materials3D MaterialCacheStats

	Assets AssetStats
}

// Domain returns the stats of one pool manager.
func (s Stats) Domain(d Domain) DomainStats {
	switch d {
	case DomainGeometry:
		return s.Geometry
	case DomainSprite:
		return s.Sprite
	case DomainText:
		return s.Text
	case DomainLight:
		return s.Light
	}
	return DomainStats{}
}

// String returns a human-readable multi-line summary.
func (s Stats) String() string {
	return fmt.Sprintf("Frame %d\n  geometry: %s\n  sprite:   %s\n  text:     %s\n  light:    %s\n  materials: %d unlit, %d lit\n  %s",
		s.Frame, s.Geometry, s.Sprite, s.Text, s.Light,
		s.Materials2D.Entries, s.Materials3D.Entries, s.Assets)
}
