package heapobj

// Value is a single operand-stack slot, local-variable slot, or instance/
// static field slot. It is wide enough for every register category the
// opcode set distinguishes (the `a`/`i`/`l` family of loads and stores);
// which field is meaningful is determined by which opcode touches the slot,
// exactly as in the bytecode it models — nothing here stops code from
// reading the "wrong" field, because the source doesn't either.
//
// Ref is the only field the moving collector ever rewrites: I/L/F/D are
// scalar payloads copied by value, never relocated (spec.md §4.6, "scalar
// updates... bypass the barrier").
type Value struct {
	I   int32
	L   int64
	F   float32
	D   float64
	Ref Object
}

// Null is the zero Value: every field zero, Ref nil. A freshly allocated
// instance's fields are exactly this (spec.md §8, "after new C, all fields
// of the instance are zero/null").
var Null = Value{}

func Int(i int32) Value  { return Value{I: i} }
func Long(l int64) Value { return Value{L: l} }
func Float(f float32) Value { return Value{F: f} }
func Double(d float64) Value { return Value{D: d} }
func Ref(o Object) Value { return Value{Ref: o} }

// IsNull reports whether this slot holds the null reference. Scalar slots
// are never "null" in this model; only Ref-typed slots can be.
func (v Value) IsNull() bool { return v.Ref == nil }
