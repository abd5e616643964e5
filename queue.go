package breeze

import (
	"errors"
	"reflect"
)

// Queue errors.
var (
	// ErrQueueDraining is returned by Enqueue while the renderer is
	// reconciling the current frame.
	ErrQueueDraining = errors.New("breeze: command queue is draining")

	// ErrClosed is returned by operations on a closed Renderer.
	ErrClosed = errors.New("breeze: renderer is closed")
)

// CommandQueue is an ordered buffer of draw commands, appended to during the
// draw phase and drained exactly once per frame.
//
// The queue never deduplicates or reorders: enqueue order is the order in
// which commands bind to pooled objects and, within a layer, the draw order.
//
// CommandQueue is not safe for concurrent use.
type CommandQueue struct {
	commands []DrawCommand
	draining bool
}

// NewCommandQueue creates an empty queue with room for capacity commands.
func NewCommandQueue(capacity int) *CommandQueue {
	return &CommandQueue{commands: make([]DrawCommand, 0, capacity)}
}

// Enqueue appends cmd. Nil commands, including nil pointers of a command
// type, are ignored.
func (q *CommandQueue) Enqueue(cmd DrawCommand) error {
	if q.draining {
		return ErrQueueDraining
	}
	if isNil(cmd) {
		return nil
	}
	q.commands = append(q.commands, cmd)
	return nil
}

// Drain returns all queued commands in FIFO order and empties the queue.
// The returned slice is owned by the caller.
func (q *CommandQueue) Drain() []DrawCommand {
	if len(q.commands) == 0 {
		return nil
	}
	out := q.commands
	q.commands = make([]DrawCommand, 0, cap(out))
	return out
}

// Len returns the number of queued commands.
func (q *CommandQueue) Len() int { return len(q.commands) }

// Draining reports whether the queue is currently locked for reconciliation.
func (q *CommandQueue) Draining() bool { return q.draining }

func (q *CommandQueue) lock()   { q.draining = true }
func (q *CommandQueue) unlock() { q.draining = false }

func isNil(cmd DrawCommand) bool {
	if cmd == nil {
		return true
	}
	v := reflect.ValueOf(cmd)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return v.IsNil()
	}
	return false
}
