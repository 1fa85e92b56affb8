package vm

import "github.com/corevm/classvm/vmerrors"

// HeapArena is a thread's bump-allocation region (spec.md §4.3, Glossary
// "Arena"). Capacity is tracked in abstract "slots" (one slot per field/
// element word), not bytes: the VM's objects are ordinary Go values placed
// on Go's own heap, so the arena exists to enforce the spec's allocation
// accounting and safe-point/collection protocol rather than to manage raw
// memory itself.
type HeapArena struct {
	capacity int
	index    int
}

func NewHeapArena(capacity int) *HeapArena {
	return &HeapArena{capacity: capacity}
}

// Fits reports whether a request of size slots fits without a collection.
func (a *HeapArena) Fits(size int) bool { return a.index+size <= a.capacity }

// TooLarge reports whether size could never fit even in a freshly reset
// arena: such a request is unsupported and the caller must abort (spec.md
// §4.3, Non-goals "large-object allocation explicitly rejected with abort").
func (a *HeapArena) TooLarge(size int) bool { return size > a.capacity }

// Bump commits size slots. Callers must have already confirmed Fits(size)
// via a safe-point check.
func (a *HeapArena) Bump(size int) { a.index += size }

// Reset zeroes the bump index. Called at the start of a minor collection:
// the collector is copying, so survivors are evacuated and the arena is
// logically empty afterward (spec.md §4.3).
func (a *HeapArena) Reset() { a.index = 0 }

func (a *HeapArena) Used() int { return a.index }

// reserve performs the full safe-point-checked allocation protocol for size
// slots (spec.md §4.3): check overflow-or-exclusive-requested, cooperate
// with the state coordinator, collect if still needed, then bump. Returns a
// FatalError if size exceeds the arena's total capacity.
func (th *Thread) reserve(size int) error {
	if th.arena.TooLarge(size) {
		return vmerrors.Fatalf("allocation of %d slots exceeds arena capacity %d", size, th.arena.capacity)
	}
	if th.arena.Fits(size) && !th.machine.state.exclusiveHeld() {
		th.arena.Bump(size)
		return nil
	}

	th.Enter(Idle)
	th.Enter(Active)

	if !th.arena.Fits(size) {
		th.Enter(Exclusive)
		th.machine.heap.Collect(MinorCollection, machineRoots{m: th.machine})
		th.arena.Reset()
		th.machine.trace("thread %s: minor collection complete, arena reset", th.TraceID)
		th.Enter(Active)
	}

	th.arena.Bump(size)
	return nil
}
