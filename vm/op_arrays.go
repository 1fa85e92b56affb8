package vm

import (
	heapobj "github.com/corevm/classvm/objects"
	"github.com/corevm/classvm/opcodes"
	"github.com/corevm/classvm/vmerrors"
)

// checkedArray returns the array and whether the array argument was usable;
// false means a NullPointerException has already been installed.
func (th *Thread) checkedArray(v heapobj.Value) (*heapobj.Array, bool) {
	if v.IsNull() {
		th.throwKind(vmerrors.NullPointer, "")
		return nil, false
	}
	return v.Ref.(*heapobj.Array), true
}

func (th *Thread) checkedIndex(arr *heapobj.Array, index int32) bool {
	if index < 0 || index >= arr.Length {
		th.throwKind(vmerrors.ArrayIndexOutOfBounds, "%s", vmerrors.ArrayIndexMessage(index, arr.Length))
		return false
	}
	return true
}

// opArrayLoad builds *aload: pop index, pop arrayref, bounds/null-check,
// push the element widened to a Value (spec.md §4.8 "array ops").
func opArrayLoad(kind heapobj.ArrayKind) opFn {
	return func(th *Thread) bool {
		index := th.pop().I
		arr, ok := th.checkedArray(th.pop())
		if !ok {
			th.ip++
			return false
		}
		if !th.checkedIndex(arr, index) {
			th.ip++
			return false
		}
		switch kind {
		case heapobj.ArrInt:
			th.push(heapobj.Int(arr.Ints[index]))
		case heapobj.ArrLong:
			th.push(heapobj.Long(arr.Longs[index]))
		case heapobj.ArrObject:
			th.push(arr.Refs[index])
		case heapobj.ArrByte:
			th.push(heapobj.Int(int32(arr.Bytes[index])))
		case heapobj.ArrChar:
			th.push(heapobj.Int(int32(arr.Chars[index])))
		case heapobj.ArrShort:
			th.push(heapobj.Int(int32(arr.Shorts[index])))
		case heapobj.ArrBoolean:
			if arr.Bools[index] {
				th.push(heapobj.Int(1))
			} else {
				th.push(heapobj.Int(0))
			}
		}
		th.ip++
		return false
	}
}

// opArrayStore builds *astore: pop value, pop index, pop arrayref,
// bounds/null-check, narrow the Value into the element slot. Reference
// stores go through the write barrier (they mutate a heap-resident slot);
// scalar element stores do not (spec.md §4.6).
func opArrayStore(kind heapobj.ArrayKind) opFn {
	return func(th *Thread) bool {
		value := th.pop()
		index := th.pop().I
		arr, ok := th.checkedArray(th.pop())
		if !ok {
			th.ip++
			return false
		}
		if !th.checkedIndex(arr, index) {
			th.ip++
			return false
		}
		switch kind {
		case heapobj.ArrInt:
			arr.Ints[index] = value.I
		case heapobj.ArrLong:
			arr.Longs[index] = value.L
		case heapobj.ArrObject:
			th.set(&arr.Refs[index], value)
		case heapobj.ArrByte:
			arr.Bytes[index] = int8(value.I)
		case heapobj.ArrChar:
			arr.Chars[index] = uint16(value.I)
		case heapobj.ArrShort:
			arr.Shorts[index] = int16(value.I)
		case heapobj.ArrBoolean:
			arr.Bools[index] = value.I != 0
		}
		th.ip++
		return false
	}
}

func opArrayLength(th *Thread) bool {
	arr, ok := th.checkedArray(th.pop())
	if !ok {
		th.ip++
		return false
	}
	th.push(heapobj.Int(arr.Length))
	th.ip++
	return false
}

// newArrayKind maps the NEWARRAY atype operand to the object model's
// ArrayKind (spec.md §3's distinct per-type array tags).
func newArrayKind(at opcodes.ArrayType) heapobj.ArrayKind {
	switch at {
	case opcodes.T_BOOLEAN:
		return heapobj.ArrBoolean
	case opcodes.T_CHAR:
		return heapobj.ArrChar
	case opcodes.T_FLOAT:
		return heapobj.ArrFloat
	case opcodes.T_DOUBLE:
		return heapobj.ArrDouble
	case opcodes.T_BYTE:
		return heapobj.ArrByte
	case opcodes.T_SHORT:
		return heapobj.ArrShort
	case opcodes.T_INT:
		return heapobj.ArrInt
	default:
		return heapobj.ArrLong
	}
}

func opNewArray(th *Thread) bool {
	at := opcodes.ArrayType(th.bodyU8())
	length := th.pop().I
	arr, ok := th.newArray(newArrayKind(at), length)
	if !ok {
		th.ip += 2
		return false
	}
	th.push(heapobj.Ref(arr))
	th.ip += 2
	return false
}

func opANewArray(th *Thread) bool {
	entry := th.pool(int(th.bodyU16()))
	elemClass, err := th.machine.Classes.ResolveClassEntry(entry)
	if err != nil {
		th.throwKind(vmerrors.ClassNotFound, "%v", err)
		th.ip += 3
		return false
	}
	length := th.pop().I
	arr, ok := th.newObjectArray(elemClass, length)
	if !ok {
		th.ip += 3
		return false
	}
	th.push(heapobj.Ref(arr))
	th.ip += 3
	return false
}
