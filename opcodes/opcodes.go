// Package opcodes defines the instruction set dispatched by the interpreter:
// one named constant per opcode, grouped the way the class-file format groups
// them, plus the small decode helpers the interpreter uses to pull operands
// out of a method's raw bytecode body.
package opcodes

import "fmt"

// Opcode is a single bytecode instruction tag. Values match the historical
// class-file numbering so that method bodies decoded by an external parser
// (out of scope here, see spec.md §1) line up with this table without
// translation.
type Opcode byte

const (
	NOP Opcode = 0x00

	ACONST_NULL Opcode = 0x01

	ICONST_M1 Opcode = 0x02
	ICONST_0  Opcode = 0x03
	ICONST_1  Opcode = 0x04
	ICONST_2  Opcode = 0x05
	ICONST_3  Opcode = 0x06
	ICONST_4  Opcode = 0x07
	ICONST_5  Opcode = 0x08
	LCONST_0  Opcode = 0x09
	LCONST_1  Opcode = 0x0A

	BIPUSH Opcode = 0x10
	SIPUSH Opcode = 0x11
	LDC    Opcode = 0x12
	LDC_W  Opcode = 0x13
	LDC2_W Opcode = 0x14

	ILOAD Opcode = 0x15
	LLOAD Opcode = 0x16
	ALOAD Opcode = 0x19

	ILOAD_0 Opcode = 0x1A
	ILOAD_1 Opcode = 0x1B
	ILOAD_2 Opcode = 0x1C
	ILOAD_3 Opcode = 0x1D
	LLOAD_0 Opcode = 0x1E
	LLOAD_1 Opcode = 0x1F
	LLOAD_2 Opcode = 0x20
	LLOAD_3 Opcode = 0x21
	ALOAD_0 Opcode = 0x2A
	ALOAD_1 Opcode = 0x2B
	ALOAD_2 Opcode = 0x2C
	ALOAD_3 Opcode = 0x2D

	IALOAD Opcode = 0x2E
	LALOAD Opcode = 0x2F
	AALOAD Opcode = 0x32
	BALOAD Opcode = 0x33
	CALOAD Opcode = 0x34
	SALOAD Opcode = 0x35

	ISTORE Opcode = 0x36
	LSTORE Opcode = 0x37
	ASTORE Opcode = 0x3A

	ISTORE_0 Opcode = 0x3B
	ISTORE_1 Opcode = 0x3C
	ISTORE_2 Opcode = 0x3D
	ISTORE_3 Opcode = 0x3E
	LSTORE_0 Opcode = 0x3F
	LSTORE_1 Opcode = 0x40
	LSTORE_2 Opcode = 0x41
	LSTORE_3 Opcode = 0x42
	ASTORE_0 Opcode = 0x4B
	ASTORE_1 Opcode = 0x4C
	ASTORE_2 Opcode = 0x4D
	ASTORE_3 Opcode = 0x4E

	IASTORE Opcode = 0x4F
	LASTORE Opcode = 0x50
	AASTORE Opcode = 0x53
	BASTORE Opcode = 0x54
	CASTORE Opcode = 0x55
	SASTORE Opcode = 0x56

	POP     Opcode = 0x57
	POP2    Opcode = 0x58
	DUP     Opcode = 0x59
	DUP_X1  Opcode = 0x5A
	DUP_X2  Opcode = 0x5B
	DUP2    Opcode = 0x5C
	DUP2_X1 Opcode = 0x5D
	DUP2_X2 Opcode = 0x5E
	SWAP    Opcode = 0x5F

	IADD  Opcode = 0x60
	LADD  Opcode = 0x61
	ISUB  Opcode = 0x64
	LSUB  Opcode = 0x65
	IMUL  Opcode = 0x68
	LMUL  Opcode = 0x69
	IDIV  Opcode = 0x6C
	LDIV  Opcode = 0x6D
	IREM  Opcode = 0x70
	LREM  Opcode = 0x71
	INEG  Opcode = 0x74
	LNEG  Opcode = 0x75
	ISHL  Opcode = 0x78
	LSHL  Opcode = 0x79
	ISHR  Opcode = 0x7A
	LSHR  Opcode = 0x7B
	IUSHR Opcode = 0x7C
	LUSHR Opcode = 0x7D
	IAND  Opcode = 0x7E
	LAND  Opcode = 0x7F
	IOR   Opcode = 0x80
	LOR   Opcode = 0x81
	IXOR  Opcode = 0x82
	LXOR  Opcode = 0x83

	IINC Opcode = 0x84

	I2L  Opcode = 0x85
	I2B  Opcode = 0x91
	I2C  Opcode = 0x92
	I2S  Opcode = 0x93
	L2I  Opcode = 0x88
	LCMP Opcode = 0x94

	IFEQ      Opcode = 0x99
	IFNE      Opcode = 0x9A
	IFLT      Opcode = 0x9B
	IFGE      Opcode = 0x9C
	IFGT      Opcode = 0x9D
	IFLE      Opcode = 0x9E
	IF_ICMPEQ Opcode = 0x9F
	IF_ICMPNE Opcode = 0xA0
	IF_ICMPLT Opcode = 0xA1
	IF_ICMPGE Opcode = 0xA2
	IF_ICMPGT Opcode = 0xA3
	IF_ICMPLE Opcode = 0xA4
	IF_ACMPEQ Opcode = 0xA5
	IF_ACMPNE Opcode = 0xA6

	GOTO   Opcode = 0xA7
	JSR    Opcode = 0xA8
	RET    Opcode = 0xA9
	GOTO_W Opcode = 0xC8
	JSR_W  Opcode = 0xC9

	IRETURN Opcode = 0xAC
	LRETURN Opcode = 0xAD
	ARETURN Opcode = 0xB0
	RETURN  Opcode = 0xB1

	GETSTATIC Opcode = 0xB2
	PUTSTATIC Opcode = 0xB3
	GETFIELD  Opcode = 0xB4
	PUTFIELD  Opcode = 0xB5

	INVOKEVIRTUAL   Opcode = 0xB6
	INVOKESPECIAL   Opcode = 0xB7
	INVOKESTATIC    Opcode = 0xB8
	INVOKEINTERFACE Opcode = 0xB9

	NEW         Opcode = 0xBB
	NEWARRAY    Opcode = 0xBC
	ANEWARRAY   Opcode = 0xBD
	ARRAYLENGTH Opcode = 0xBE
	ATHROW      Opcode = 0xBF
	CHECKCAST   Opcode = 0xC0
	INSTANCEOF  Opcode = 0xC1

	IFNULL    Opcode = 0xC6
	IFNONNULL Opcode = 0xC7

	WIDE Opcode = 0xC4
)

// ArrayType is the `atype` operand of NEWARRAY: one tag per primitive array
// kind, matching the class-file constant values.
type ArrayType byte

const (
	T_BOOLEAN ArrayType = 4
	T_CHAR    ArrayType = 5
	T_FLOAT   ArrayType = 6
	T_DOUBLE  ArrayType = 7
	T_BYTE    ArrayType = 8
	T_SHORT   ArrayType = 9
	T_INT     ArrayType = 10
	T_LONG    ArrayType = 11
)

var names = map[Opcode]string{
	NOP: "nop", ACONST_NULL: "aconst_null",
	ICONST_M1: "iconst_m1", ICONST_0: "iconst_0", ICONST_1: "iconst_1",
	ICONST_2: "iconst_2", ICONST_3: "iconst_3", ICONST_4: "iconst_4", ICONST_5: "iconst_5",
	LCONST_0: "lconst_0", LCONST_1: "lconst_1",
	BIPUSH: "bipush", SIPUSH: "sipush", LDC: "ldc", LDC_W: "ldc_w", LDC2_W: "ldc2_w",
	ILOAD: "iload", LLOAD: "lload", ALOAD: "aload",
	ILOAD_0: "iload_0", ILOAD_1: "iload_1", ILOAD_2: "iload_2", ILOAD_3: "iload_3",
	LLOAD_0: "lload_0", LLOAD_1: "lload_1", LLOAD_2: "lload_2", LLOAD_3: "lload_3",
	ALOAD_0: "aload_0", ALOAD_1: "aload_1", ALOAD_2: "aload_2", ALOAD_3: "aload_3",
	IALOAD: "iaload", LALOAD: "laload", AALOAD: "aaload", BALOAD: "baload", CALOAD: "caload", SALOAD: "saload",
	ISTORE: "istore", LSTORE: "lstore", ASTORE: "astore",
	ISTORE_0: "istore_0", ISTORE_1: "istore_1", ISTORE_2: "istore_2", ISTORE_3: "istore_3",
	LSTORE_0: "lstore_0", LSTORE_1: "lstore_1", LSTORE_2: "lstore_2", LSTORE_3: "lstore_3",
	ASTORE_0: "astore_0", ASTORE_1: "astore_1", ASTORE_2: "astore_2", ASTORE_3: "astore_3",
	IASTORE: "iastore", LASTORE: "lastore", AASTORE: "aastore", BASTORE: "bastore", CASTORE: "castore", SASTORE: "sastore",
	POP: "pop", POP2: "pop2", DUP: "dup", DUP_X1: "dup_x1", DUP_X2: "dup_x2",
	DUP2: "dup2", DUP2_X1: "dup2_x1", DUP2_X2: "dup2_x2", SWAP: "swap",
	IADD: "iadd", LADD: "ladd", ISUB: "isub", LSUB: "lsub", IMUL: "imul", LMUL: "lmul",
	IDIV: "idiv", LDIV: "ldiv", IREM: "irem", LREM: "lrem", INEG: "ineg", LNEG: "lneg",
	ISHL: "ishl", LSHL: "lshl", ISHR: "ishr", LSHR: "lshr", IUSHR: "iushr", LUSHR: "lushr",
	IAND: "iand", LAND: "land", IOR: "ior", LOR: "lor", IXOR: "ixor", LXOR: "lxor",
	IINC: "iinc", I2L: "i2l", I2B: "i2b", I2C: "i2c", I2S: "i2s", L2I: "l2i", LCMP: "lcmp",
	IFEQ: "ifeq", IFNE: "ifne", IFLT: "iflt", IFGE: "ifge", IFGT: "ifgt", IFLE: "ifle",
	IF_ICMPEQ: "if_icmpeq", IF_ICMPNE: "if_icmpne", IF_ICMPLT: "if_icmplt",
	IF_ICMPGE: "if_icmpge", IF_ICMPGT: "if_icmpgt", IF_ICMPLE: "if_icmple",
	IF_ACMPEQ: "if_acmpeq", IF_ACMPNE: "if_acmpne",
	GOTO: "goto", JSR: "jsr", RET: "ret", GOTO_W: "goto_w", JSR_W: "jsr_w",
	IRETURN: "ireturn", LRETURN: "lreturn", ARETURN: "areturn", RETURN: "return",
	GETSTATIC: "getstatic", PUTSTATIC: "putstatic", GETFIELD: "getfield", PUTFIELD: "putfield",
	INVOKEVIRTUAL: "invokevirtual", INVOKESPECIAL: "invokespecial",
	INVOKESTATIC: "invokestatic", INVOKEINTERFACE: "invokeinterface",
	NEW: "new", NEWARRAY: "newarray", ANEWARRAY: "anewarray", ARRAYLENGTH: "arraylength",
	ATHROW: "athrow", CHECKCAST: "checkcast", INSTANCEOF: "instanceof",
	IFNULL: "ifnull", IFNONNULL: "ifnonnull", WIDE: "wide",
}

// String renders the mnemonic for an opcode, or a hex fallback for anything
// this table does not recognize (the interpreter aborts on an opcode it has
// no handler for, see vm.Run).
func (op Opcode) String() string {
	if n, ok := names[op]; ok {
		return n
	}
	return fmt.Sprintf("unknown(0x%02x)", byte(op))
}

// Code is the decode cursor over a method's raw instruction bytes. It has no
// behavior beyond reading fixed-width big-endian operands at a given index;
// bounds and dispatch live in the interpreter.
type Code []byte

func (c Code) U8(ip int) uint8 { return uint8(c[ip]) }

func (c Code) I8(ip int) int8 { return int8(c[ip]) }

func (c Code) U16(ip int) uint16 {
	return uint16(c[ip])<<8 | uint16(c[ip+1])
}

func (c Code) I16(ip int) int16 { return int16(c.U16(ip)) }

func (c Code) U32(ip int) uint32 {
	return uint32(c[ip])<<24 | uint32(c[ip+1])<<16 | uint32(c[ip+2])<<8 | uint32(c[ip+3])
}

func (c Code) I32(ip int) int32 { return int32(c.U32(ip)) }

// Len2 opcodes consume 1 opcode byte + 1 operand byte (e.g. BIPUSH, *LOAD,
// *STORE, NEWARRAY, LDC).
func Len2(op Opcode) bool {
	switch op {
	case BIPUSH, LDC, ILOAD, LLOAD, ALOAD, ISTORE, LSTORE, ASTORE, NEWARRAY, RET:
		return true
	}
	return false
}

// Len3 opcodes consume 1 opcode byte + 2 operand bytes (e.g. SIPUSH, branch
// targets, field/method refs, LDC_W/LDC2_W, ANEWARRAY, NEW, CHECKCAST,
// INSTANCEOF, IINC).
func Len3(op Opcode) bool {
	switch op {
	case SIPUSH, LDC_W, LDC2_W,
		IFEQ, IFNE, IFLT, IFGE, IFGT, IFLE,
		IF_ICMPEQ, IF_ICMPNE, IF_ICMPLT, IF_ICMPGE, IF_ICMPGT, IF_ICMPLE,
		IF_ACMPEQ, IF_ACMPNE, GOTO, JSR,
		GETSTATIC, PUTSTATIC, GETFIELD, PUTFIELD,
		INVOKEVIRTUAL, INVOKESPECIAL, INVOKESTATIC,
		NEW, ANEWARRAY, CHECKCAST, INSTANCEOF, IINC,
		IFNULL, IFNONNULL:
		return true
	}
	return false
}

// Len5 opcodes consume 1 opcode byte + 4 operand bytes (GOTO_W, JSR_W,
// INVOKEINTERFACE which also carries count+zero filler bytes).
func Len5(op Opcode) bool {
	switch op {
	case GOTO_W, JSR_W, INVOKEINTERFACE:
		return true
	}
	return false
}

// Len returns the total instruction length in bytes including the opcode
// byte itself. WIDE is variable and handled specially by the interpreter.
func Len(op Opcode) int {
	switch {
	case Len5(op):
		return 5
	case Len3(op):
		return 3
	case Len2(op):
		return 2
	default:
		return 1
	}
}
