package vm

import heapobj "github.com/corevm/classvm/objects"

// RunMethod is the embedder-facing entry point (spec.md §6's run(Thread) ->
// object): it drives th through None→Active, installs a fresh outermost
// frame for method with args copied into its locals, runs the interpreter
// to completion, and retires th to Zombie before returning the result.
//
// Zombie, not Exit, is the ordinary end-of-run state: per spec.md §3,
// "Exit-state threads wait for all others to finish before reclamation"
// -- Exit is for the one thread tearing down the Machine after every other
// thread has already gone Zombie, not for routine completion of a worker's
// run. The only legal path to Zombie is Exclusive→Zombie (spec.md §4.2),
// so th passes through Exclusive first; this also serializes multiple
// threads finishing at once, since Active→Exclusive blocks until it is the
// sole Active thread.
func (m *Machine) RunMethod(th *Thread, method *heapobj.Method, args []heapobj.Value) heapobj.Value {
	th.Enter(Active)
	frame := NewFrame(method, nil, 0)
	copy(frame.Locals[:len(args)], args)
	th.frame = frame
	th.code = method.Code
	th.ip = 0
	th.sp = 0

	result := Run(th)

	th.Enter(Exclusive)
	th.Enter(Zombie)
	return result
}
