package vm

import heapobj "github.com/corevm/classvm/objects"

// Protector is one node of a thread's protector chain: a registered local
// object-variable slot that is not on the operand stack but must still be
// visited as a GC root for the extent of some multi-allocation helper
// (spec.md §4.5).
type Protector struct {
	Slot *heapobj.Value
	next *Protector
}

// Protect pushes slot onto the thread's protector chain and returns a
// release function. Call sites follow strict LIFO discipline: the release
// function must be called (typically via defer) before the protecting
// helper returns, and releases must unwind in the reverse order they were
// acquired.
func (th *Thread) Protect(slot *heapobj.Value) func() {
	node := &Protector{Slot: slot, next: th.protector}
	th.protector = node
	return func() {
		if th.protector != node {
			panic("vm: protector released out of LIFO order")
		}
		th.protector = node.next
	}
}
