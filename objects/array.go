package heapobj

// ArrayKind distinguishes the eight primitive array element types plus
// object arrays; each is a distinct tag with its own element width, per
// spec.md §3 ("Byte/short/int/long/char/boolean/float/double arrays are
// distinct type tags and element sizes").
type ArrayKind byte

const (
	ArrBoolean ArrayKind = iota
	ArrChar
	ArrFloat
	ArrDouble
	ArrByte
	ArrShort
	ArrInt
	ArrLong
	ArrObject
)

func (k ArrayKind) Tag() Tag {
	switch k {
	case ArrBoolean:
		return TagBooleanArray
	case ArrChar:
		return TagCharArray
	case ArrFloat:
		return TagFloatArray
	case ArrDouble:
		return TagDoubleArray
	case ArrByte:
		return TagByteArray
	case ArrShort:
		return TagShortArray
	case ArrInt:
		return TagIntArray
	case ArrLong:
		return TagLongArray
	default:
		return TagObjectArray
	}
}

// Array is laid out as [class][length][element0]... per spec.md §3. Exactly
// one backing slice is populated, selected by Kind; the rest stay nil. This
// keeps each element at its natural Go width instead of widening everything
// to a common Value, mirroring the source's distinct-element-size arrays.
type Array struct {
	// ElemClass is the element type's class for ArrObject arrays; nil for
	// primitive arrays. aastore does not check stored values against it.
	ElemClass *Class
	Kind      ArrayKind
	Length    int32

	Bools   []bool
	Chars   []uint16
	Floats  []float32
	Doubles []float64
	Bytes   []int8
	Shorts  []int16
	Ints    []int32
	Longs   []int64
	Refs    []Value
}

// arrayClass is a sentinel root-less class used so arrays still answer
// ObjClass() without needing a real loaded "array class" in classMap (array
// classes are not part of this spec's resolver; see objects/array.go and
// DESIGN.md for the scoping note).
var arrayClass = &Class{Name: []byte("<array>")}

func (a *Array) ObjClass() *Class { return arrayClass }
func (a *Array) ObjTag() Tag      { return a.Kind.Tag() }

// NewPrimitiveArray allocates a zeroed array of the given kind and length.
func NewPrimitiveArray(kind ArrayKind, length int32) *Array {
	a := &Array{Kind: kind, Length: length}
	switch kind {
	case ArrBoolean:
		a.Bools = make([]bool, length)
	case ArrChar:
		a.Chars = make([]uint16, length)
	case ArrFloat:
		a.Floats = make([]float32, length)
	case ArrDouble:
		a.Doubles = make([]float64, length)
	case ArrByte:
		a.Bytes = make([]int8, length)
	case ArrShort:
		a.Shorts = make([]int16, length)
	case ArrInt:
		a.Ints = make([]int32, length)
	case ArrLong:
		a.Longs = make([]int64, length)
	}
	return a
}

// NewObjectArray allocates a zeroed (all-null) array of object references.
func NewObjectArray(elemClass *Class, length int32) *Array {
	return &Array{Kind: ArrObject, ElemClass: elemClass, Length: length, Refs: make([]Value, length)}
}
