package vm

import (
	heapobj "github.com/corevm/classvm/objects"
	"github.com/corevm/classvm/opcodes"
	"github.com/corevm/classvm/resolver"
	"github.com/corevm/classvm/vmerrors"
)

// opNew implements spec.md §4.8 "new": resolve the class, drain its
// initializer chain if non-empty (leaving ip on this opcode so it re-runs
// once the initializer returns), then allocate a zeroed instance and push it.
func opNew(th *Thread) bool {
	entry := th.pool(int(th.bodyU16()))
	cls, err := th.machine.Classes.ResolveClassEntry(entry)
	if err != nil {
		th.throwKind(vmerrors.ClassNotFound, "%v", err)
		th.ip += 3
		return false
	}
	if th.drainInitializer(cls) {
		return false
	}
	th.ip += 3
	th.push(heapobj.Ref(th.newInstance(cls)))
	return false
}

func opGetStatic(th *Thread) bool {
	entry := th.pool(int(th.bodyU16()))
	member, err := th.machine.Classes.ResolveMemberEntry(entry, resolver.MemberField)
	if err != nil {
		th.throwKind(vmerrors.NoSuchField, "%v", err)
		th.ip += 3
		return false
	}
	field := member.(*heapobj.Field)
	if th.drainInitializer(field.Class) {
		return false
	}
	th.ip += 3
	th.push(field.Class.Statics[field.Offset])
	return false
}

func opPutStatic(th *Thread) bool {
	entry := th.pool(int(th.bodyU16()))
	member, err := th.machine.Classes.ResolveMemberEntry(entry, resolver.MemberField)
	if err != nil {
		th.throwKind(vmerrors.NoSuchField, "%v", err)
		th.ip += 3
		return false
	}
	field := member.(*heapobj.Field)
	if th.drainInitializer(field.Class) {
		return false
	}
	th.ip += 3
	v := th.pop()
	th.set(&field.Class.Statics[field.Offset], v)
	return false
}

func opGetField(th *Thread) bool {
	entry := th.pool(int(th.bodyU16()))
	member, err := th.machine.Classes.ResolveMemberEntry(entry, resolver.MemberField)
	if err != nil {
		th.throwKind(vmerrors.NoSuchField, "%v", err)
		th.ip += 3
		return false
	}
	field := member.(*heapobj.Field)
	th.ip += 3
	obj := th.pop()
	if obj.IsNull() {
		th.throwKind(vmerrors.NullPointer, "")
		return false
	}
	inst := obj.Ref.(*heapobj.Instance)
	th.push(inst.Fields[field.Offset])
	return false
}

func opPutField(th *Thread) bool {
	entry := th.pool(int(th.bodyU16()))
	member, err := th.machine.Classes.ResolveMemberEntry(entry, resolver.MemberField)
	if err != nil {
		th.throwKind(vmerrors.NoSuchField, "%v", err)
		th.ip += 3
		return false
	}
	field := member.(*heapobj.Field)
	th.ip += 3
	value := th.pop()
	obj := th.pop()
	if obj.IsNull() {
		th.throwKind(vmerrors.NullPointer, "")
		return false
	}
	inst := obj.Ref.(*heapobj.Instance)
	th.set(&inst.Fields[field.Offset], value)
	return false
}

func opCheckCast(th *Thread) bool {
	entry := th.pool(int(th.bodyU16()))
	cls, err := th.machine.Classes.ResolveClassEntry(entry)
	if err != nil {
		th.throwKind(vmerrors.ClassNotFound, "%v", err)
		th.ip += 3
		return false
	}
	th.ip += 3
	top := th.peek(0)
	if top.IsNull() {
		return false
	}
	if !heapobj.InstanceOf(top.Ref.ObjClass(), cls) {
		th.throwKind(vmerrors.ClassCast, "%s is not a %s", top.Ref.ObjClass().Name, cls.Name)
	}
	return false
}

func opInstanceOf(th *Thread) bool {
	entry := th.pool(int(th.bodyU16()))
	cls, err := th.machine.Classes.ResolveClassEntry(entry)
	if err != nil {
		th.throwKind(vmerrors.ClassNotFound, "%v", err)
		th.ip += 3
		return false
	}
	th.ip += 3
	v := th.pop()
	if v.IsNull() {
		th.push(heapobj.Int(0))
		return false
	}
	if heapobj.InstanceOf(v.Ref.ObjClass(), cls) {
		th.push(heapobj.Int(1))
	} else {
		th.push(heapobj.Int(0))
	}
	return false
}

// opAthrow implements spec.md §4.10: pop the reference; null throws
// NullPointerException instead, exactly like any other null dereference.
func opAthrow(th *Thread) bool {
	v := th.pop()
	if v.IsNull() {
		th.throwKind(vmerrors.NullPointer, "")
		return false
	}
	th.throwObject(v.Ref)
	return false
}

// opWide decodes the modified-instruction-length variants of *load/*store/
// iinc/ret: the sub-opcode at ip+1 takes a 16-bit local index (and, for
// iinc, a further 16-bit constant) instead of the normal 8-bit one.
func opWide(th *Thread) bool {
	sub := opcodes.Opcode(th.code.Body[th.ip+1])
	slot := int(opcodes.Code(th.code.Body).U16(th.ip + 2))

	switch sub {
	case opcodes.ILOAD, opcodes.LLOAD, opcodes.ALOAD:
		th.push(th.frame.Locals[slot])
		th.ip += 4
	case opcodes.ISTORE, opcodes.LSTORE, opcodes.ASTORE:
		th.frame.Locals[slot] = th.pop()
		th.ip += 4
	case opcodes.RET:
		th.ip = int(th.frame.Locals[slot].I)
	case opcodes.IINC:
		delta := opcodes.Code(th.code.Body).I16(th.ip + 4)
		th.frame.Locals[slot].I += int32(delta)
		th.ip += 6
	default:
		th.fatalf("wide-prefixed %s is not a supported sub-opcode", sub)
	}
	return false
}
