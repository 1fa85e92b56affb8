package vm

import (
	heapobj "github.com/corevm/classvm/objects"
	"github.com/corevm/classvm/opcodes"
	"github.com/corevm/classvm/vmerrors"
)

// opFn executes one instruction at th.ip and reports whether the method
// returned all the way out of the outermost frame (finished), in which case
// th.result holds the value to hand back from Run (or the zero Value for a
// void return). Every other case -- including a throw -- leaves finished
// false; Run re-checks th.pending() on its next iteration and drives the
// unwind search instead of stepping again.
type opFn func(th *Thread) (finished bool)

// dispatch is the opcode jump table (spec.md §9's tag-dispatched-universe
// idiom applied to instructions rather than objects: an array indexed by
// the byte itself, instead of a 150-case switch). A nil entry is an opcode
// this build does not implement and is always a fatal error.
var dispatch [256]opFn

func init() {
	dispatch[opcodes.NOP] = opNop

	dispatch[opcodes.ACONST_NULL] = opAconstNull
	dispatch[opcodes.ICONST_M1] = opIconst(-1)
	dispatch[opcodes.ICONST_0] = opIconst(0)
	dispatch[opcodes.ICONST_1] = opIconst(1)
	dispatch[opcodes.ICONST_2] = opIconst(2)
	dispatch[opcodes.ICONST_3] = opIconst(3)
	dispatch[opcodes.ICONST_4] = opIconst(4)
	dispatch[opcodes.ICONST_5] = opIconst(5)
	dispatch[opcodes.LCONST_0] = opLconst(0)
	dispatch[opcodes.LCONST_1] = opLconst(1)
	dispatch[opcodes.BIPUSH] = opBipush
	dispatch[opcodes.SIPUSH] = opSipush
	dispatch[opcodes.LDC] = opLdc
	dispatch[opcodes.LDC_W] = opLdcW
	dispatch[opcodes.LDC2_W] = opLdc2W

	dispatch[opcodes.ILOAD] = opLoad
	dispatch[opcodes.LLOAD] = opLoad
	dispatch[opcodes.ALOAD] = opLoad
	dispatch[opcodes.ILOAD_0] = opLoadN(0)
	dispatch[opcodes.ILOAD_1] = opLoadN(1)
	dispatch[opcodes.ILOAD_2] = opLoadN(2)
	dispatch[opcodes.ILOAD_3] = opLoadN(3)
	dispatch[opcodes.LLOAD_0] = opLoadN(0)
	dispatch[opcodes.LLOAD_1] = opLoadN(1)
	dispatch[opcodes.LLOAD_2] = opLoadN(2)
	dispatch[opcodes.LLOAD_3] = opLoadN(3)
	dispatch[opcodes.ALOAD_0] = opLoadN(0)
	dispatch[opcodes.ALOAD_1] = opLoadN(1)
	dispatch[opcodes.ALOAD_2] = opLoadN(2)
	dispatch[opcodes.ALOAD_3] = opLoadN(3)

	dispatch[opcodes.ISTORE] = opStore
	dispatch[opcodes.LSTORE] = opStore
	dispatch[opcodes.ASTORE] = opStore
	dispatch[opcodes.ISTORE_0] = opStoreN(0)
	dispatch[opcodes.ISTORE_1] = opStoreN(1)
	dispatch[opcodes.ISTORE_2] = opStoreN(2)
	dispatch[opcodes.ISTORE_3] = opStoreN(3)
	dispatch[opcodes.LSTORE_0] = opStoreN(0)
	dispatch[opcodes.LSTORE_1] = opStoreN(1)
	dispatch[opcodes.LSTORE_2] = opStoreN(2)
	dispatch[opcodes.LSTORE_3] = opStoreN(3)
	dispatch[opcodes.ASTORE_0] = opStoreN(0)
	dispatch[opcodes.ASTORE_1] = opStoreN(1)
	dispatch[opcodes.ASTORE_2] = opStoreN(2)
	dispatch[opcodes.ASTORE_3] = opStoreN(3)

	dispatch[opcodes.IALOAD] = opArrayLoad(heapobj.ArrInt)
	dispatch[opcodes.LALOAD] = opArrayLoad(heapobj.ArrLong)
	dispatch[opcodes.AALOAD] = opArrayLoad(heapobj.ArrObject)
	dispatch[opcodes.BALOAD] = opArrayLoad(heapobj.ArrByte)
	dispatch[opcodes.CALOAD] = opArrayLoad(heapobj.ArrChar)
	dispatch[opcodes.SALOAD] = opArrayLoad(heapobj.ArrShort)
	dispatch[opcodes.IASTORE] = opArrayStore(heapobj.ArrInt)
	dispatch[opcodes.LASTORE] = opArrayStore(heapobj.ArrLong)
	dispatch[opcodes.AASTORE] = opArrayStore(heapobj.ArrObject)
	dispatch[opcodes.BASTORE] = opArrayStore(heapobj.ArrByte)
	dispatch[opcodes.CASTORE] = opArrayStore(heapobj.ArrChar)
	dispatch[opcodes.SASTORE] = opArrayStore(heapobj.ArrShort)

	dispatch[opcodes.POP] = opPop
	dispatch[opcodes.POP2] = opPop2
	dispatch[opcodes.DUP] = opDup
	dispatch[opcodes.DUP_X1] = opDupX1
	dispatch[opcodes.DUP_X2] = opDupX2
	dispatch[opcodes.DUP2] = opDup2
	dispatch[opcodes.DUP2_X1] = opDup2X1
	dispatch[opcodes.DUP2_X2] = opDup2X2
	dispatch[opcodes.SWAP] = opSwap

	dispatch[opcodes.IADD] = opIBinary(func(a, b int32) int32 { return a + b })
	dispatch[opcodes.ISUB] = opIBinary(func(a, b int32) int32 { return a - b })
	dispatch[opcodes.IMUL] = opIBinary(func(a, b int32) int32 { return a * b })
	dispatch[opcodes.IDIV] = opIBinary(func(a, b int32) int32 { return a / b })
	dispatch[opcodes.IREM] = opIBinary(func(a, b int32) int32 { return a % b })
	dispatch[opcodes.IAND] = opIBinary(func(a, b int32) int32 { return a & b })
	dispatch[opcodes.IOR] = opIBinary(func(a, b int32) int32 { return a | b })
	dispatch[opcodes.IXOR] = opIBinary(func(a, b int32) int32 { return a ^ b })
	dispatch[opcodes.ISHL] = opIBinary(func(a, b int32) int32 { return a << (uint32(b) & 0x1F) })
	dispatch[opcodes.ISHR] = opIBinary(func(a, b int32) int32 { return a >> (uint32(b) & 0x1F) })
	dispatch[opcodes.IUSHR] = opIBinary(func(a, b int32) int32 { return int32(uint32(a) >> (uint32(b) & 0x1F)) })
	dispatch[opcodes.INEG] = opINeg

	dispatch[opcodes.LADD] = opLBinary(func(a, b int64) int64 { return a + b })
	dispatch[opcodes.LSUB] = opLBinary(func(a, b int64) int64 { return a - b })
	dispatch[opcodes.LMUL] = opLBinary(func(a, b int64) int64 { return a * b })
	dispatch[opcodes.LDIV] = opLBinary(func(a, b int64) int64 { return a / b })
	dispatch[opcodes.LREM] = opLBinary(func(a, b int64) int64 { return a % b })
	dispatch[opcodes.LAND] = opLBinary(func(a, b int64) int64 { return a & b })
	dispatch[opcodes.LOR] = opLBinary(func(a, b int64) int64 { return a | b })
	dispatch[opcodes.LXOR] = opLBinary(func(a, b int64) int64 { return a ^ b })
	// lshl/lshr shift by an int (the second operand is popped as an int32,
	// not a long -- spec.md's opcode table lists these among the integer/
	// long arithmetic+logic group uniformly).
	dispatch[opcodes.LSHL] = opLShift(func(a int64, n uint) int64 { return a << n })
	dispatch[opcodes.LSHR] = opLShift(func(a int64, n uint) int64 { return a >> n })
	// lushr: true unsigned right shift. The source computes `a << b` here,
	// mirroring lshl -- a bug flagged in spec.md §9, corrected in this build.
	dispatch[opcodes.LUSHR] = opLShift(func(a int64, n uint) int64 { return int64(uint64(a) >> n) })
	dispatch[opcodes.LNEG] = opLNeg

	dispatch[opcodes.IINC] = opIinc
	dispatch[opcodes.I2L] = opI2L
	dispatch[opcodes.I2B] = opI2B
	dispatch[opcodes.I2C] = opI2C
	dispatch[opcodes.I2S] = opI2S
	dispatch[opcodes.L2I] = opL2I
	dispatch[opcodes.LCMP] = opLcmp

	dispatch[opcodes.IFEQ] = opIfZero(func(v int32) bool { return v == 0 })
	dispatch[opcodes.IFNE] = opIfZero(func(v int32) bool { return v != 0 })
	dispatch[opcodes.IFLT] = opIfZero(func(v int32) bool { return v < 0 })
	dispatch[opcodes.IFGE] = opIfZero(func(v int32) bool { return v >= 0 })
	dispatch[opcodes.IFGT] = opIfZero(func(v int32) bool { return v > 0 })
	dispatch[opcodes.IFLE] = opIfZero(func(v int32) bool { return v <= 0 })
	dispatch[opcodes.IF_ICMPEQ] = opIfICmp(func(a, b int32) bool { return a == b })
	dispatch[opcodes.IF_ICMPNE] = opIfICmp(func(a, b int32) bool { return a != b })
	dispatch[opcodes.IF_ICMPLT] = opIfICmp(func(a, b int32) bool { return a < b })
	dispatch[opcodes.IF_ICMPGE] = opIfICmp(func(a, b int32) bool { return a >= b })
	dispatch[opcodes.IF_ICMPGT] = opIfICmp(func(a, b int32) bool { return a > b })
	// if_icmple: the source compares with `<`, which admits a == b through
	// to the fall-through branch instead of taking it -- a bug flagged in
	// spec.md §9, corrected here to the documented `<=`.
	dispatch[opcodes.IF_ICMPLE] = opIfICmp(func(a, b int32) bool { return a <= b })
	dispatch[opcodes.IF_ACMPEQ] = opIfACmp(func(equal bool) bool { return equal })
	dispatch[opcodes.IF_ACMPNE] = opIfACmp(func(equal bool) bool { return !equal })
	dispatch[opcodes.IFNULL] = opIfNullCheck(true)
	dispatch[opcodes.IFNONNULL] = opIfNullCheck(false)

	dispatch[opcodes.GOTO] = opGoto
	dispatch[opcodes.GOTO_W] = opGotoW
	dispatch[opcodes.JSR] = opJsr
	dispatch[opcodes.JSR_W] = opJsrW
	dispatch[opcodes.RET] = opRet

	dispatch[opcodes.IRETURN] = opReturnValue
	dispatch[opcodes.LRETURN] = opReturnValue
	dispatch[opcodes.ARETURN] = opReturnValue
	dispatch[opcodes.RETURN] = opReturnVoid

	dispatch[opcodes.GETSTATIC] = opGetStatic
	dispatch[opcodes.PUTSTATIC] = opPutStatic
	dispatch[opcodes.GETFIELD] = opGetField
	dispatch[opcodes.PUTFIELD] = opPutField

	dispatch[opcodes.INVOKESTATIC] = opInvokeStatic
	dispatch[opcodes.INVOKESPECIAL] = opInvokeSpecial
	dispatch[opcodes.INVOKEVIRTUAL] = opInvokeVirtual
	dispatch[opcodes.INVOKEINTERFACE] = opInvokeInterface

	dispatch[opcodes.NEW] = opNew
	dispatch[opcodes.NEWARRAY] = opNewArray
	dispatch[opcodes.ANEWARRAY] = opANewArray
	dispatch[opcodes.ARRAYLENGTH] = opArrayLength
	dispatch[opcodes.ATHROW] = opAthrow
	dispatch[opcodes.CHECKCAST] = opCheckCast
	dispatch[opcodes.INSTANCEOF] = opInstanceOf

	dispatch[opcodes.WIDE] = opWide
}

// Run executes th's current frame (and anything it calls) until the
// outermost frame returns or an uncaught exception redirects to the
// thread's default handler and that handler itself returns. The result is
// whatever value the terminating return left on top of the stack, or the
// zero Value for a void return (spec.md §6's run(Thread) -> object).
func Run(th *Thread) heapobj.Value {
	for {
		if th.pending() {
			th.unwind()
			continue
		}
		op := opcodes.Opcode(th.code.Body[th.ip])
		fn := dispatch[op]
		if fn == nil {
			th.machine.Abort("unimplemented opcode " + op.String())
		}
		if fn(th) {
			return th.result
		}
	}
}

func opNop(th *Thread) bool {
	th.ip++
	return false
}

// bodyU8/bodyI8/bodyU16/bodyI16/bodyU32/bodyI32 read the operand bytes
// immediately following the opcode at th.ip (offset 1).
func (th *Thread) bodyU8() uint8   { return opcodes.Code(th.code.Body).U8(th.ip + 1) }
func (th *Thread) bodyI8() int8    { return opcodes.Code(th.code.Body).I8(th.ip + 1) }
func (th *Thread) bodyU16() uint16 { return opcodes.Code(th.code.Body).U16(th.ip + 1) }
func (th *Thread) bodyI16() int16  { return opcodes.Code(th.code.Body).I16(th.ip + 1) }
func (th *Thread) bodyU32() uint32 { return opcodes.Code(th.code.Body).U32(th.ip + 1) }
func (th *Thread) bodyI32() int32  { return opcodes.Code(th.code.Body).I32(th.ip + 1) }

func (th *Thread) pool(index int) *heapobj.PoolEntry { return th.code.Pool[index] }

// fatalf aborts via the Machine's System, for invariant violations that
// have no recoverable-exception representation (spec.md §7 tier 3).
func (th *Thread) fatalf(format string, args ...interface{}) {
	th.machine.Abort(vmerrors.Fatalf(format, args...).Error())
}
