package breeze

// StructuralMode selects when a kind change on an existing pooled object
// takes effect.
type StructuralMode uint8

const (
	// StructuralDeferred records kind changes and applies them at the start
	// of the next RunFrame. Until then the object keeps its previous kind
	// and attachments, so a kind change shows one frame late.
	StructuralDeferred StructuralMode = iota

	// StructuralImmediate applies kind changes while the command is being
	// reconciled.
	StructuralImmediate
)

// String returns the mode name.
func (m StructuralMode) String() string {
	switch m {
	case StructuralDeferred:
		return "deferred"
	case StructuralImmediate:
		return "immediate"
	default:
		return "unknown"
	}
}

// structuralOp is a recorded kind change.
//
// apply swaps the object's attachments and releases whatever the object
// owned before. discard drops a change that will never be applied and
// releases whatever the change itself had allocated. Exactly one of the two
// runs for every op.
type structuralOp struct {
	domain  Domain
	target  ObjectID
	apply   func()
	discard func()
}

// structuralBuffer queues structural ops in record order.
type structuralBuffer struct {
	mode StructuralMode
	ops  []structuralOp
}

// submit applies op now in immediate mode, or records it for the next Flush.
// It reports whether the op was applied.
func (b *structuralBuffer) submit(op structuralOp) bool {
	if b.mode == StructuralImmediate {
		op.apply()
		return true
	}
	b.ops = append(b.ops, op)
	return false
}

// flush applies every recorded op in record order and returns the count.
func (b *structuralBuffer) flush() int {
	n := len(b.ops)
	for i := range b.ops {
		b.ops[i].apply()
		b.ops[i] = structuralOp{}
	}
	b.ops = b.ops[:0]
	return n
}

// discard drops every recorded op without applying it.
func (b *structuralBuffer) discard() int {
	n := len(b.ops)
	for i := range b.ops {
		if b.ops[i].discard != nil {
			b.ops[i].discard()
		}
		b.ops[i] = structuralOp{}
	}
	b.ops = b.ops[:0]
	return n
}

// pending returns the number of recorded ops.
func (b *structuralBuffer) pending() int { return len(b.ops) }
