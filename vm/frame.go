package vm

import heapobj "github.com/corevm/classvm/objects"

// Frame is one method activation record, linked to its caller (spec.md §3).
// The interpreter's live registers are the top frame's fields plus the
// thread's shared operand stack.
type Frame struct {
	Method    *heapobj.Method
	Next      *Frame
	SavedIP   int
	StackBase int
	Locals    []heapobj.Value
}

// NewFrame builds a frame for invoking method, linked to caller (nil for
// the outermost invocation). stackBase is the operand-stack depth the
// callee starts from (spec.md §4.8 step 4).
func NewFrame(method *heapobj.Method, caller *Frame, stackBase int) *Frame {
	return &Frame{
		Method:    method,
		Next:      caller,
		StackBase: stackBase,
		Locals:    make([]heapobj.Value, method.Code.MaxLocals),
	}
}
