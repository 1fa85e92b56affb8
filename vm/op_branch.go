package vm

import heapobj "github.com/corevm/classvm/objects"

func opIfZero(cmp func(v int32) bool) opFn {
	return func(th *Thread) bool {
		v := th.pop().I
		if cmp(v) {
			th.ip += int(th.bodyI16())
		} else {
			th.ip += 3
		}
		return false
	}
}

func opIfICmp(cmp func(a, b int32) bool) opFn {
	return func(th *Thread) bool {
		b := th.pop().I
		a := th.pop().I
		if cmp(a, b) {
			th.ip += int(th.bodyI16())
		} else {
			th.ip += 3
		}
		return false
	}
}

// opIfACmp builds if_acmpeq/if_acmpne: reference identity compares the two
// popped Object values directly (Go interface equality over pointers,
// matching the spec's class-id-style identity comparisons elsewhere).
func opIfACmp(cmp func(equal bool) bool) opFn {
	return func(th *Thread) bool {
		b := th.pop().Ref
		a := th.pop().Ref
		if cmp(a == b) {
			th.ip += int(th.bodyI16())
		} else {
			th.ip += 3
		}
		return false
	}
}

func opIfNullCheck(wantNull bool) opFn {
	return func(th *Thread) bool {
		v := th.pop()
		if v.IsNull() == wantNull {
			th.ip += int(th.bodyI16())
		} else {
			th.ip += 3
		}
		return false
	}
}

func opGoto(th *Thread) bool {
	th.ip += int(th.bodyI16())
	return false
}

func opGotoW(th *Thread) bool {
	th.ip += int(th.bodyI32())
	return false
}

// opJsr/opRet implement the legacy subroutine-call pair: jsr pushes the
// return address (the instruction immediately after it) and branches; ret
// reads a local holding that address and jumps there.
func opJsr(th *Thread) bool {
	ret := th.ip + 3
	offset := int(th.bodyI16())
	th.push(heapobj.Int(int32(ret)))
	th.ip += offset
	return false
}

func opJsrW(th *Thread) bool {
	ret := th.ip + 5
	offset := int(th.bodyI32())
	th.push(heapobj.Int(int32(ret)))
	th.ip += offset
	return false
}

func opRet(th *Thread) bool {
	slot := th.bodyU8()
	th.ip = int(th.frame.Locals[slot].I)
	return false
}
