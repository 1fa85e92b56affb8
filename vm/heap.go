package vm

import heapobj "github.com/corevm/classvm/objects"

// CollectionType enumerates the kinds of collection Heap.Collect accepts.
// Only MinorCollection is ever requested by this VM (spec.md §6).
type CollectionType int

const MinorCollection CollectionType = 0

// RootVisitor is handed one root slot at a time during a collection. It
// receives the slot's address so a moving collector can rewrite it in place
// (spec.md §4.4, §9 "move-relocating GC").
type RootVisitor interface {
	Visit(slot *heapobj.Value)
}

// RootIterator enumerates GC roots by calling back into visitor.Visit for
// each live slot (spec.md §4.4). The iterators in this package visit every
// live operand-stack slot, every frame's locals, the protector chain, and
// child threads, recursively (machineRoots adds class static slots). The
// thread object, the current code, and the exception register are not
// visited.
type RootIterator interface {
	Iterate(visitor RootVisitor)
}

// machineRoots is the RootIterator a minor collection actually drives: the
// global classMap's static-field slots (spec.md §4.4 "global roots:
// classMap") plus every registered thread's own root set. Every thread in
// m.AllThreads() visits only its own roots here -- AllThreads has already
// walked the (next, child) registry exactly once, so going through
// Thread.Iterate per entry would re-walk (and re-visit) every thread's
// descendants all over again.
type machineRoots struct {
	m *Machine
}

func (r machineRoots) Iterate(visitor RootVisitor) {
	for _, cls := range r.m.Classes.All() {
		for i := range cls.Statics {
			visitor.Visit(&cls.Statics[i])
		}
	}
	for _, th := range r.m.AllThreads() {
		th.visitOwnRoots(visitor)
	}
}

// Heap is the external managed-memory collaborator (spec.md §6). Its
// implementation (the allocator and the write-barrier mechanism) is out of
// scope for the core VM; the interpreter only calls Collect at a safe-point
// and Check after every heap-resident slot store.
type Heap interface {
	Collect(typ CollectionType, roots RootIterator)
	Check(slot *heapobj.Value, lock Monitor)
}

// StdHeap is a reference Heap sufficient to run and test the VM without a
// host-supplied allocator. Its collection is identity-relocating: since the
// objects referenced from roots are ordinary Go values already managed by
// the host runtime's own GC, "moving" an object means nothing more than
// revisiting the slot, so this implementation exists to exercise the
// iterate/visit protocol rather than to actually compact memory.
type StdHeap struct{}

func NewStdHeap() *StdHeap { return &StdHeap{} }

func (h *StdHeap) Collect(typ CollectionType, roots RootIterator) {
	roots.Iterate(identityVisitor{})
}

func (h *StdHeap) Check(slot *heapobj.Value, lock Monitor) {}

type identityVisitor struct{}

func (identityVisitor) Visit(slot *heapobj.Value) {}
