package vm

import heapobj "github.com/corevm/classvm/objects"

func opAconstNull(th *Thread) bool {
	th.push(heapobj.Null)
	th.ip++
	return false
}

func opIconst(v int32) opFn {
	return func(th *Thread) bool {
		th.push(heapobj.Int(v))
		th.ip++
		return false
	}
}

func opLconst(v int64) opFn {
	return func(th *Thread) bool {
		th.push(heapobj.Long(v))
		th.ip++
		return false
	}
}

func opBipush(th *Thread) bool {
	th.push(heapobj.Int(int32(th.bodyI8())))
	th.ip += 2
	return false
}

func opSipush(th *Thread) bool {
	th.push(heapobj.Int(int32(th.bodyI16())))
	th.ip += 3
	return false
}

// ldcValue reads a ldc-family pool entry and produces the Value
// it denotes. Constants are boxed scalars or object references stored
// directly as the pool's Resolved payload -- unlike class/member entries,
// a literal constant is never a symbolic reference needing a class-table
// lookup, so this bypasses resolver.Table entirely.
func ldcValue(entry *heapobj.PoolEntry) heapobj.Value {
	switch v := entry.Resolved.(type) {
	case heapobj.Value:
		return v
	case heapobj.Object:
		return heapobj.Ref(v)
	default:
		return heapobj.Null
	}
}

func opLdc(th *Thread) bool {
	th.push(ldcValue(th.pool(int(th.bodyU8()))))
	th.ip += 2
	return false
}

func opLdcW(th *Thread) bool {
	th.push(ldcValue(th.pool(int(th.bodyU16()))))
	th.ip += 3
	return false
}

func opLdc2W(th *Thread) bool {
	th.push(ldcValue(th.pool(int(th.bodyU16()))))
	th.ip += 3
	return false
}

func opLoad(th *Thread) bool {
	th.push(th.frame.Locals[th.bodyU8()])
	th.ip += 2
	return false
}

func opLoadN(slot int) opFn {
	return func(th *Thread) bool {
		th.push(th.frame.Locals[slot])
		th.ip++
		return false
	}
}

func opStore(th *Thread) bool {
	th.frame.Locals[th.bodyU8()] = th.pop()
	th.ip += 2
	return false
}

func opStoreN(slot int) opFn {
	return func(th *Thread) bool {
		th.frame.Locals[slot] = th.pop()
		th.ip++
		return false
	}
}

func opPop(th *Thread) bool {
	th.pop()
	th.ip++
	return false
}

func opPop2(th *Thread) bool {
	th.pop()
	th.pop()
	th.ip++
	return false
}

func opDup(th *Thread) bool {
	v := th.peek(0)
	th.push(v)
	th.ip++
	return false
}

func opDupX1(th *Thread) bool {
	a := th.pop()
	b := th.pop()
	th.push(a)
	th.push(b)
	th.push(a)
	th.ip++
	return false
}

func opDupX2(th *Thread) bool {
	a := th.pop()
	b := th.pop()
	c := th.pop()
	th.push(a)
	th.push(c)
	th.push(b)
	th.push(a)
	th.ip++
	return false
}

func opDup2(th *Thread) bool {
	a := th.pop()
	b := th.pop()
	th.push(b)
	th.push(a)
	th.push(b)
	th.push(a)
	th.ip++
	return false
}

func opDup2X1(th *Thread) bool {
	a := th.pop()
	b := th.pop()
	c := th.pop()
	th.push(b)
	th.push(a)
	th.push(c)
	th.push(b)
	th.push(a)
	th.ip++
	return false
}

func opDup2X2(th *Thread) bool {
	a := th.pop()
	b := th.pop()
	c := th.pop()
	d := th.pop()
	th.push(b)
	th.push(a)
	th.push(d)
	th.push(c)
	th.push(b)
	th.push(a)
	th.ip++
	return false
}

func opSwap(th *Thread) bool {
	a := th.pop()
	b := th.pop()
	th.push(a)
	th.push(b)
	th.ip++
	return false
}
