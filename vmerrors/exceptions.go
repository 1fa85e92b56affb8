// Package vmerrors is the VM's two-tier error model (spec.md §7): recoverable
// exception objects that live in the object graph and unwind through a
// method's handler table, and fatal Go errors that map straight to
// System.abort() with no recovery path.
package vmerrors

import (
	"errors"
	"fmt"

	heapobj "github.com/corevm/classvm/objects"
)

// Kind names one of the recoverable, in-heap exception taxonomy members.
type Kind byte

const (
	NullPointer Kind = iota
	ArrayIndexOutOfBounds
	NegativeArraySize
	ClassCast
	ClassNotFound
	NoSuchField
	NoSuchMethod
	StackOverflow
)

func (k Kind) String() string {
	switch k {
	case NullPointer:
		return "NullPointerException"
	case ArrayIndexOutOfBounds:
		return "ArrayIndexOutOfBoundsException"
	case NegativeArraySize:
		return "NegativeArraySizeException"
	case ClassCast:
		return "ClassCastException"
	case ClassNotFound:
		return "ClassNotFoundException"
	case NoSuchField:
		return "NoSuchFieldError"
	case NoSuchMethod:
		return "NoSuchMethodError"
	case StackOverflow:
		return "StackOverflowError"
	default:
		return "UnknownException"
	}
}

// Frame is one entry of an exception's recorded trace: the method it was
// thrown from (or walked through while unwinding) and the instruction
// pointer at that point (spec.md §4.10).
type Frame struct {
	Method *heapobj.Method
	IP     int
}

// Exception is a VM-synthesized exception: it carries no Go error chain,
// only the taxonomy Kind, a formatted message, and the frame trace recorded
// at the throw site. The interpreter installs one of these in a thread's
// exception register; it is never wrapped in a *heapobj.Instance because the
// taxonomy is closed and fixed by this package rather than user-defined.
type Exception struct {
	Kind    Kind
	Message string
	Trace   []Frame
}

func (e *Exception) Error() string {
	if e.Message == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// New synthesizes an exception of the given kind with a formatted message
// and the supplied frame trace. Every opcode site in spec.md §4.10 (null
// deref, array OOB, class cast, class-not-found, field/method not found,
// stack overflow, negative array size) funnels through this constructor.
func New(kind Kind, trace []Frame, format string, args ...interface{}) *Exception {
	return &Exception{Kind: kind, Message: fmt.Sprintf(format, args...), Trace: trace}
}

// ArrayIndexMessage formats the exact message spec.md §8 requires:
// "%d not in [0,%d]".
func ArrayIndexMessage(index, length int32) string {
	return fmt.Sprintf("%d not in [0,%d]", index, length)
}

// Sentinel Go-level errors for internal helper failures. No function in this
// module returns any of them.
var (
	ErrNilThread    = errors.New("nil thread")
	ErrEmptyStack   = errors.New("operand stack underflow")
	ErrNoFrame      = errors.New("no active frame")
	ErrNoSuperclass = errors.New("class has no superclass to dispatch to")
)

// FatalError signals an invariant violation with no recovery path: an
// unknown or unimplemented opcode, an allocation request larger than the
// arena, a monitor that failed to construct, or any other condition the
// spec (§7 tier 3) says must call the system's abort() rather than unwind.
type FatalError struct {
	Reason string
}

func (e *FatalError) Error() string { return "fatal: " + e.Reason }

func Fatalf(format string, args ...interface{}) *FatalError {
	return &FatalError{Reason: fmt.Sprintf(format, args...)}
}
