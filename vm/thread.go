package vm

import (
	"github.com/google/uuid"

	heapobj "github.com/corevm/classvm/objects"
	"github.com/corevm/classvm/vmerrors"
)

// Thread is one execution context (spec.md §3, §4.1): interpreter registers
// (ip, sp), the shared operand stack, a private heap arena, the current
// frame chain, a pending exception, and a protector chain. One Thread binds
// to one OS thread; its interpreter loop is never reentered.
type Thread struct {
	machine *Machine

	// TraceID correlates this thread's Config.Trace lines (and, for an
	// embedder that forwards it, any external log aggregation) across its
	// full lifetime. It carries no VM semantics of its own -- two threads
	// with colliding TraceIDs would behave identically.
	TraceID uuid.UUID

	state State
	next  *Thread // sibling link in the registry's DFS chain
	child *Thread // first child thread, if any

	ip     int
	sp     int
	code   *heapobj.Code
	frame  *Frame
	result heapobj.Value

	stack []heapobj.Value
	arena *HeapArena

	// exception and excObject form the pending-exception register (spec.md
	// §4.10). excObject is non-nil between a throw and the unwind search
	// picking a handler or falling back to DefaultHandler; it is the heap
	// reference whose class drives catch-type matching. For synthesized
	// exceptions it is a fresh instance of the builtin-taxonomy class and
	// exception holds the *vmerrors.Exception; for athrow it is whatever
	// reference was thrown and exception is nil.
	exception *vmerrors.Exception
	excObject heapobj.Object
	protector *Protector

	// DefaultHandler is invoked (by installing it as a fresh frame) when an
	// exception reaches the outermost frame uncaught (spec.md §4.10).
	DefaultHandler *heapobj.Method
}

// Enter drives this thread's state machine (spec.md §4.2). Every lifecycle
// transition -- None→Active at start-of-run, Exclusive→Zombie at ordinary
// end-of-run, Active/Exclusive→Exit only for the thread tearing down the
// Machine -- goes through here rather than mutating state directly.
func (th *Thread) Enter(next State) {
	from := th.state
	th.machine.state.Enter(th, next)
	th.machine.trace("thread %s: %s -> %s", th.TraceID, from, next)
}

func (th *Thread) State() State { return th.state }

// visitOwnRoots visits this thread's own root set from spec.md §4.4 --
// every live operand-stack slot, every frame's locals, and the protector
// chain -- without touching child or sibling threads.
func (th *Thread) visitOwnRoots(visitor RootVisitor) {
	for i := 0; i < th.sp; i++ {
		visitor.Visit(&th.stack[i])
	}
	for f := th.frame; f != nil; f = f.Next {
		for i := range f.Locals {
			visitor.Visit(&f.Locals[i])
		}
	}
	for p := th.protector; p != nil; p = p.next {
		visitor.Visit(p.Slot)
	}
}

// Iterate implements RootIterator over this thread and, recursively, its
// entire (next, child) registry subtree -- the same DFS shape as
// Machine.AllThreads, walked here instead of materialized into a slice.
// Each thread's own roots are visited exactly once: the loop over sib
// advances flatly through the sibling chain rather than recursing into
// sib.Iterate, which would revisit every later sibling once per thread
// already ahead of it in the chain.
func (th *Thread) Iterate(visitor RootVisitor) {
	th.visitOwnRoots(visitor)
	if th.child != nil {
		th.child.Iterate(visitor)
	}
	for sib := th.next; sib != nil; sib = sib.next {
		sib.visitOwnRoots(visitor)
		if sib.child != nil {
			sib.child.Iterate(visitor)
		}
	}
}

// push/pop/peek manipulate the shared operand stack directly; they never go
// through the write barrier because stack slots are roots, not
// heap-resident fields (spec.md §4.6).
func (th *Thread) push(v heapobj.Value) { th.stack[th.sp] = v; th.sp++ }
func (th *Thread) pop() heapobj.Value   { th.sp--; return th.stack[th.sp] }
func (th *Thread) peek(depthFromTop int) heapobj.Value {
	return th.stack[th.sp-1-depthFromTop]
}

// set is the write barrier for heap-resident slot mutation (spec.md §4.6):
// every store into an object's field or array element slot funnels through
// here so the external Heap can run its write-barrier hook. Scalar-only
// counters and root slots (the operand stack, locals) bypass it and write
// directly.
func (th *Thread) set(target *heapobj.Value, value heapobj.Value) {
	*target = value
	th.machine.heap.Check(target, th.machine.state.lock)
}
