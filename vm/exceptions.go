package vm

import (
	heapobj "github.com/corevm/classvm/objects"
	"github.com/corevm/classvm/resolver"
	"github.com/corevm/classvm/vmerrors"
)

// throwKind installs a synthesized exception of kind into the thread's
// exception register, backed by the preloaded builtin-taxonomy singleton
// for that kind so handler-table catch-type matching has a real class to
// compare against (spec.md §4.10, §7 tier 1). Every exception-synthesizing
// opcode site in the interpreter funnels through here.
func (th *Thread) throwKind(kind vmerrors.Kind, format string, args ...interface{}) {
	cls := th.machine.exceptionClasses[kind]
	th.exception = vmerrors.New(kind, th.trace(), format, args...)
	th.excObject = heapobj.NewInstance(cls)
}

// throwObject installs a user-thrown reference (athrow's popped operand,
// already null-checked by the caller) into the exception register. There
// is no synthesized vmerrors.Exception for it -- the taxonomy in package
// vmerrors only names the VM's own fixed set; a user-defined throwable is
// just a heap object whose class drives handler matching.
func (th *Thread) throwObject(obj heapobj.Object) {
	th.exception = nil
	th.excObject = obj
}

// pending reports whether the thread currently has an exception installed.
func (th *Thread) pending() bool { return th.excObject != nil }

// clearException resets the exception register after a handler has been
// dispatched to (spec.md §4.10's "clear exception register, resume").
func (th *Thread) clearException() {
	th.exception = nil
	th.excObject = nil
}

// unwind searches frames outward from the current one for a handler whose
// guarded range covers the throw site and whose catch type is catch-all or
// a supertype of the thrown object's class (spec.md §4.10). On a match it
// truncates the frame chain to the catching frame, restores sp to that
// frame's base plus the pushed exception, sets ip to the handler entry, and
// returns true. If no frame catches it, the thread falls back to
// DefaultHandler: frame is reset to a fresh activation of it with the
// exception pushed, and unwind returns false.
func (th *Thread) unwind() bool {
	obj := th.excObject
	ip := th.ip
	for f := th.frame; f != nil; f = f.Next {
		if f.Method != nil && f.Method.Code != nil {
			for _, h := range f.Method.Code.Handlers {
				if ip >= h.StartIP && ip < h.EndIP && catchMatches(th.machine.Classes, h.CatchType, obj) {
					th.frame = f
					th.sp = f.StackBase
					th.push(heapobj.Ref(obj))
					th.ip = h.HandlerIP
					th.clearException()
					return true
				}
			}
		}
		ip = f.SavedIP
	}

	if th.DefaultHandler != nil {
		th.frame = NewFrame(th.DefaultHandler, nil, 0)
		th.code = th.DefaultHandler.Code
		th.sp = 0
		th.push(heapobj.Ref(obj))
		th.ip = 0
	}
	th.clearException()
	return false
}

// catchMatches reports whether a handler row's (possibly unresolved)
// catchType entry matches the thrown object's class: nil means catch-all
// (catchType == 0 in spec.md §3), otherwise the thrown class must be the
// catch class or a subclass of it.
func catchMatches(classes *resolver.Table, catchType *heapobj.PoolEntry, obj heapobj.Object) bool {
	if catchType == nil {
		return true
	}
	cls, err := classes.ResolveClassEntry(catchType)
	if err != nil {
		return false
	}
	return heapobj.InstanceOf(obj.ObjClass(), cls)
}
