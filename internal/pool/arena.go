// Package pool provides a generational arena used for every retained object
// and GPU asset in breeze.
//
// A Handle encodes a 32-bit slot index in the lower bits and a 32-bit
// generation in the upper bits. Removing a slot bumps its generation so that
// stale handles stop resolving. Generations start at 1, so the zero Handle
// never refers to a live slot and can be used as "none".
package pool

// Handle identifies a slot in an Arena.
type Handle uint64

func newHandle(index, generation uint32) Handle {
	return Handle(uint64(generation)<<32 | uint64(index))
}

// Index returns the slot index.
func (h Handle) Index() uint32 { return uint32(h) }

// Generation returns the generation the handle was issued with.
func (h Handle) Generation() uint32 { return uint32(h >> 32) }

// IsZero reports whether h is the zero "none" handle.
func (h Handle) IsZero() bool { return h == 0 }

type slot[T any] struct {
	generation uint32
	live       bool
	value      T
}

// Arena stores values of type T in stable slots addressed by Handle.
//
// Slots are recycled through a free list. Iteration order is slot order,
// which is deterministic for a given sequence of Insert/Remove calls.
//
// Arena is not safe for concurrent use.
type Arena[T any] struct {
	slots    []slot[T]
	freeList []uint32
	live     int
}

// New creates an empty arena with room for capacity values.
func New[T any](capacity int) *Arena[T] {
	return &Arena[T]{
		slots: make([]slot[T], 0, capacity),
	}
}

// Insert stores v and returns its handle.
func (a *Arena[T]) Insert(v T) Handle {
	a.live++
	if n := len(a.freeList); n > 0 {
		idx := a.freeList[n-1]
		a.freeList = a.freeList[:n-1]
		s := &a.slots[idx]
		s.live = true
		s.value = v
		return newHandle(idx, s.generation)
	}
	idx := uint32(len(a.slots))
	a.slots = append(a.slots, slot[T]{generation: 1, live: true, value: v})
	return newHandle(idx, 1)
}

// Get returns a pointer to the value for h, or nil if h is stale.
// The pointer stays valid until the next Insert.
func (a *Arena[T]) Get(h Handle) *T {
	idx := h.Index()
	if int(idx) >= len(a.slots) {
		return nil
	}
	s := &a.slots[idx]
	if !s.live || s.generation != h.Generation() {
		return nil
	}
	return &s.value
}

// Alive reports whether h refers to a live value.
func (a *Arena[T]) Alive(h Handle) bool {
	return a.Get(h) != nil
}

// Remove deletes the value for h and returns it.
// Removing a stale handle is a no-op that returns false.
func (a *Arena[T]) Remove(h Handle) (T, bool) {
	var zero T
	idx := h.Index()
	if int(idx) >= len(a.slots) {
		return zero, false
	}
	s := &a.slots[idx]
	if !s.live || s.generation != h.Generation() {
		return zero, false
	}
	v := s.value
	s.value = zero
	s.live = false
	s.generation++
	if s.generation == 0 {
		s.generation = 1
	}
	a.freeList = append(a.freeList, idx)
	a.live--
	return v, true
}

// Len returns the number of live values.
func (a *Arena[T]) Len() int { return a.live }

// Handles appends the handles of all live values to dst in slot order.
func (a *Arena[T]) Handles(dst []Handle) []Handle {
	for i := range a.slots {
		if a.slots[i].live {
			dst = append(dst, newHandle(uint32(i), a.slots[i].generation))
		}
	}
	return dst
}

// Each calls fn for every live value in slot order. fn must not insert into
// or remove from the arena.
func (a *Arena[T]) Each(fn func(Handle, *T)) {
	for i := range a.slots {
		s := &a.slots[i]
		if s.live {
			fn(newHandle(uint32(i), s.generation), &s.value)
		}
	}
}
