package vm

import (
	heapobj "github.com/corevm/classvm/objects"
	"github.com/corevm/classvm/resolver"
	"github.com/corevm/classvm/vmerrors"
)

// invoke performs the frame-setup steps of spec.md §4.8's "invoke" path
// exactly in order: stack-overflow check, save caller ip, pop arguments
// into a fresh frame's locals, switch the active code/ip to the callee.
// method.ParamCount counts every argument slot the callee consumes,
// including the receiver for an instance method (local 0 is `this`, the
// JVM convention this spec's invocation opcodes assume). Returns false
// without mutating any register if a StackOverflowError was installed
// instead.
func (th *Thread) invoke(method *heapobj.Method) bool {
	code := method.Code
	if code.MaxStack+th.sp-method.ParamCount > len(th.stack) {
		th.throwKind(vmerrors.StackOverflow, "")
		return false
	}
	if th.frame != nil {
		th.frame.SavedIP = th.ip
	}
	base := th.sp - method.ParamCount
	newFrame := NewFrame(method, th.frame, base)
	copy(newFrame.Locals[:method.ParamCount], th.stack[base:th.sp])
	th.sp = base
	th.frame = newFrame
	th.code = code
	th.ip = 0
	return true
}

// doReturn implements spec.md §4.8's "Return": restore the caller frame (or
// finish the run if there is none), reload its code and saved ip, and -- for
// a non-void return -- push the already-popped value onto the shared stack
// at the caller's new top.
func (th *Thread) doReturn(v *heapobj.Value) bool {
	caller := th.frame.Next
	if caller == nil {
		if v != nil {
			th.result = *v
		} else {
			th.result = heapobj.Null
		}
		return true
	}
	th.sp = th.frame.StackBase
	th.frame = caller
	th.code = caller.Method.Code
	th.ip = caller.SavedIP
	if v != nil {
		th.push(*v)
	}
	return false
}

func opReturnValue(th *Thread) bool {
	v := th.pop()
	return th.doReturn(&v)
}

func opReturnVoid(th *Thread) bool {
	return th.doReturn(nil)
}

// drainInitializer implements the lazy-class-initialization injection
// pattern shared by getstatic/putstatic/new (spec.md §4.8): if owner's
// initializer chain is non-empty, pop its head and invoke it in place of
// stepping past the triggering opcode. th.ip is still sitting at the
// triggering opcode's own start byte at every call site (each caller checks
// this before its own ip advance), so no rewind is needed: once the
// initializer's frame returns, the interpreter loop simply re-decodes and
// re-runs the same opcode, this time against a shorter (or empty) chain.
// Returns true if an initializer was injected (the caller must stop without
// touching ip or the operand stack any further this iteration).
func (th *Thread) drainInitializer(owner *heapobj.Class) bool {
	if owner.Init == nil {
		return false
	}
	method := owner.Init.Method
	owner.Init = owner.Init.Next
	th.invoke(method)
	return true
}

func opInvokeStatic(th *Thread) bool {
	entry := th.pool(int(th.bodyU16()))
	member, err := th.machine.Classes.ResolveMemberEntry(entry, resolver.MemberMethod)
	if err != nil {
		th.throwKind(vmerrors.NoSuchMethod, "%v", err)
		th.ip += 3
		return false
	}
	th.ip += 3
	th.invoke(member.(*heapobj.Method))
	return false
}

// opInvokeSpecial implements spec.md §4.8's invokespecial dispatch rule:
// when the calling method's class declares ACC_SUPER, the callee is not
// <init>, and the resolved method's class is a strict superclass of the
// caller's class, dispatch goes to the superclass's same-offset method
// instead of the resolved method directly (this is how `super.foo()` calls
// reach the right override rather than recursing into the caller's own
// override).
func opInvokeSpecial(th *Thread) bool {
	entry := th.pool(int(th.bodyU16()))
	member, err := th.machine.Classes.ResolveMemberEntry(entry, resolver.MemberMethod)
	if err != nil {
		th.throwKind(vmerrors.NoSuchMethod, "%v", err)
		th.ip += 3
		return false
	}
	th.ip += 3
	method := member.(*heapobj.Method)
	cur := th.frame.Method.Class

	target := method
	if cur.Flags.Has(heapobj.AccSuper) && string(method.Name) != "<init>" &&
		cur.Super != nil && heapobj.IsSubclassOf(cur.Super, method.Class) {
		if method.Offset < len(cur.Super.Methods) {
			target = cur.Super.Methods[method.Offset]
		}
	}
	th.invoke(target)
	return false
}

// opInvokeVirtual implements spec.md §4.8's invokevirtual: resolve the
// symbolic reference to a declared method, locate the receiver below its
// arguments on the stack, null-check it, then dispatch to the receiver's
// own class's method-table slot at the resolved method's offset (runtime
// polymorphism; spec.md §4.9).
func opInvokeVirtual(th *Thread) bool {
	entry := th.pool(int(th.bodyU16()))
	member, err := th.machine.Classes.ResolveMemberEntry(entry, resolver.MemberMethod)
	if err != nil {
		th.throwKind(vmerrors.NoSuchMethod, "%v", err)
		th.ip += 3
		return false
	}
	method := member.(*heapobj.Method)
	receiver := th.peek(method.ParamCount - 1)
	th.ip += 3
	if receiver.IsNull() {
		th.throwKind(vmerrors.NullPointer, "")
		return false
	}
	receiverClass := receiver.Ref.ObjClass()
	target := method
	if method.Offset < len(receiverClass.Methods) {
		target = receiverClass.Methods[method.Offset]
	}
	th.invoke(target)
	return false
}

// opInvokeInterface implements spec.md §4.8's invokeinterface: resolve,
// null-check the receiver, linear-scan its class's interface table for the
// row matching the resolved method's owning interface, then dispatch
// through that row's itable at the method's offset. The two trailing bytes
// (argument count, zero) are format filler from the historical class-file
// encoding; spec.md §9 calls for reading and discarding them rather than
// silently skipping the read.
func opInvokeInterface(th *Thread) bool {
	entry := th.pool(int(th.bodyU16()))
	member, err := th.machine.Classes.ResolveMemberEntry(entry, resolver.MemberMethod)
	if err != nil {
		th.throwKind(vmerrors.NoSuchMethod, "%v", err)
		th.ip += 5
		return false
	}
	method := member.(*heapobj.Method)
	receiver := th.peek(method.ParamCount - 1)
	_ = th.code.Body[th.ip+3] // count byte: format compatibility only, unused
	_ = th.code.Body[th.ip+4] // zero byte: format compatibility only, unused
	th.ip += 5
	if receiver.IsNull() {
		th.throwKind(vmerrors.NullPointer, "")
		return false
	}
	receiverClass := receiver.Ref.ObjClass()
	var target *heapobj.Method
	for cur := receiverClass; cur != nil && target == nil; cur = cur.Super {
		for _, row := range cur.Interfaces {
			if row.Interface.ID == method.Class.ID && method.Offset < len(row.ITable) {
				target = row.ITable[method.Offset]
				break
			}
		}
	}
	if target == nil {
		th.throwKind(vmerrors.NoSuchMethod, "%s.%s", method.Class.Name, method.Name)
		return false
	}
	th.invoke(target)
	return false
}
