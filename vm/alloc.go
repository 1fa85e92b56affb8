package vm

import (
	heapobj "github.com/corevm/classvm/objects"
	"github.com/corevm/classvm/vmerrors"
)

// newInstance allocates a zeroed instance of cls, bump-allocating
// cls.FixedSize slots from th's arena first (spec.md §4.8 "new"). Every
// field is zero/null after allocation (spec.md §8). Arena-capacity failures
// are always fatal (spec.md §4.3's "allocations larger than the per-thread
// arena are unsupported and abort"), so this never returns an error to the
// interpreter loop.
func (th *Thread) newInstance(cls *heapobj.Class) *heapobj.Instance {
	if err := th.reserve(int(cls.FixedSize)); err != nil {
		th.machine.Abort(err.Error())
	}
	return heapobj.NewInstance(cls)
}

// newArray allocates a primitive array of the given kind and length,
// reserving length+1 slots (one for the length header, one per element). A
// negative length installs a NegativeArraySizeException in the thread's
// exception register and returns ok=false, per spec.md §9's retained
// (renamed) taxonomy entry.
func (th *Thread) newArray(kind heapobj.ArrayKind, length int32) (arr *heapobj.Array, ok bool) {
	if length < 0 {
		th.throwKind(vmerrors.NegativeArraySize, "%d", length)
		return nil, false
	}
	if err := th.reserve(int(length) + 1); err != nil {
		th.machine.Abort(err.Error())
	}
	return heapobj.NewPrimitiveArray(kind, length), true
}

// newObjectArray allocates a reference-typed array, same accounting and
// error handling as newArray (spec.md §4.8 "anewarray").
func (th *Thread) newObjectArray(elemClass *heapobj.Class, length int32) (arr *heapobj.Array, ok bool) {
	if length < 0 {
		th.throwKind(vmerrors.NegativeArraySize, "%d", length)
		return nil, false
	}
	if err := th.reserve(int(length) + 1); err != nil {
		th.machine.Abort(err.Error())
	}
	return heapobj.NewObjectArray(elemClass, length), true
}

// trace walks the current frame chain outward, recording (method, ip)
// tuples for an exception about to be synthesized (spec.md §4.10).
func (th *Thread) trace() []vmerrors.Frame {
	var out []vmerrors.Frame
	ip := th.ip
	for f := th.frame; f != nil; f = f.Next {
		out = append(out, vmerrors.Frame{Method: f.Method, IP: ip})
		ip = f.SavedIP
	}
	return out
}
