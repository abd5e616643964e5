package breeze

import "github.com/gogpu/breeze/internal/pool"

// liveIDs appends the IDs of every live object in objects to dst, in slot
// order. Slot order is the order candidates are handed to commands.
func liveIDs[T any](objects *pool.Arena[T], dst []ObjectID) []ObjectID {
	objects.Each(func(h pool.Handle, _ *T) {
		dst = append(dst, ObjectID(h))
	})
	return dst
}

// reclaimReserve hides the first reserve leftovers and destroys the rest.
// hide marks an object invisible and reports whether it was visible.
func reclaimReserve[T any](objects *pool.Arena[T], leftover []ObjectID, reserve int, stats *DomainStats, hide func(*T) bool) {
	for i, id := range leftover {
		if i >= reserve {
			if _, ok := objects.Remove(pool.Handle(id)); ok {
				stats.Destroyed++
			}
			continue
		}
		if o := objects.Get(pool.Handle(id)); o != nil && hide(o) {
			stats.Hidden++
		}
	}
}

// destroyAll removes every object.
func destroyAll[T any](objects *pool.Arena[T], stats *DomainStats) {
	for _, h := range objects.Handles(nil) {
		if _, ok := objects.Remove(h); ok {
			stats.Destroyed++
		}
	}
}
