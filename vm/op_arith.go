package vm

import heapobj "github.com/corevm/classvm/objects"

// opIBinary builds an int-arithmetic/logic opcode handler. Integer overflow
// wraps modulo 2^32 for free, since Go's int32 arithmetic already wraps
// (spec.md §4.8 "Arithmetic semantics").
func opIBinary(f func(a, b int32) int32) opFn {
	return func(th *Thread) bool {
		b := th.pop().I
		a := th.pop().I
		th.push(heapobj.Int(f(a, b)))
		th.ip++
		return false
	}
}

func opLBinary(f func(a, b int64) int64) opFn {
	return func(th *Thread) bool {
		b := th.pop().L
		a := th.pop().L
		th.push(heapobj.Long(f(a, b)))
		th.ip++
		return false
	}
}

// opLShift builds lshl/lshr/lushr: the shift amount is popped as an int
// (not a long) and masked to 6 bits, matching the JVM's shift-distance rule
// for 64-bit shifts.
func opLShift(f func(a int64, n uint) int64) opFn {
	return func(th *Thread) bool {
		n := uint(th.pop().I) & 0x3F
		a := th.pop().L
		th.push(heapobj.Long(f(a, n)))
		th.ip++
		return false
	}
}

func opINeg(th *Thread) bool {
	a := th.pop().I
	th.push(heapobj.Int(-a))
	th.ip++
	return false
}

func opLNeg(th *Thread) bool {
	a := th.pop().L
	th.push(heapobj.Long(-a))
	th.ip++
	return false
}

func opIinc(th *Thread) bool {
	slot := th.bodyU8()
	delta := th.code.Body[th.ip+2]
	local := &th.frame.Locals[slot]
	local.I += int32(int8(delta))
	th.ip += 3
	return false
}

func opI2L(th *Thread) bool {
	a := th.pop().I
	th.push(heapobj.Long(int64(a)))
	th.ip++
	return false
}

func opI2B(th *Thread) bool {
	a := th.pop().I
	th.push(heapobj.Int(int32(int8(a))))
	th.ip++
	return false
}

func opI2C(th *Thread) bool {
	a := th.pop().I
	th.push(heapobj.Int(int32(uint16(a))))
	th.ip++
	return false
}

func opI2S(th *Thread) bool {
	a := th.pop().I
	th.push(heapobj.Int(int32(int16(a))))
	th.ip++
	return false
}

func opL2I(th *Thread) bool {
	a := th.pop().L
	th.push(heapobj.Int(int32(a)))
	th.ip++
	return false
}

func opLcmp(th *Thread) bool {
	b := th.pop().L
	a := th.pop().L
	switch {
	case a > b:
		th.push(heapobj.Int(1))
	case a < b:
		th.push(heapobj.Int(-1))
	default:
		th.push(heapobj.Int(0))
	}
	th.ip++
	return false
}
