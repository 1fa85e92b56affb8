// Package heapobj is the object model: typed views over the heap objects the
// interpreter allocates and the arena/collector move around. Every heap
// object carries its class as the conceptual first header slot (spec.md §3);
// in Go that invariant is expressed as the Object interface rather than a
// literal memory layout, since Go has no raw pointer arithmetic to exploit
// the way the source's C-like model does.
package heapobj

// Tag recovers an object's runtime kind without a type switch. The source
// reads the class pointer and dispatches on its primitive tag; here the
// tag is attached directly to the concrete type, which is the idiomatic Go
// way to get the same O(1) dispatch without reflection.
type Tag byte

const (
	TagClass Tag = iota
	TagInstance
	TagByteArray
	TagShortArray
	TagCharArray
	TagBooleanArray
	TagIntArray
	TagLongArray
	TagFloatArray
	TagDoubleArray
	TagObjectArray
	TagIntBox
	TagLongBox
	TagFloatBox
	TagDoubleBox
)

func (t Tag) String() string {
	switch t {
	case TagClass:
		return "class"
	case TagInstance:
		return "instance"
	case TagByteArray:
		return "byte[]"
	case TagShortArray:
		return "short[]"
	case TagCharArray:
		return "char[]"
	case TagBooleanArray:
		return "boolean[]"
	case TagIntArray:
		return "int[]"
	case TagLongArray:
		return "long[]"
	case TagFloatArray:
		return "float[]"
	case TagDoubleArray:
		return "double[]"
	case TagObjectArray:
		return "object[]"
	case TagIntBox:
		return "Integer"
	case TagLongBox:
		return "Long"
	case TagFloatBox:
		return "Float"
	case TagDoubleBox:
		return "Double"
	default:
		return "unknown"
	}
}

// Object is anything the collector can root-scan and relocate: instances,
// arrays of every primitive width, boxed primitives, and classes themselves
// (a class is reachable both from classMap and, for `.class`-style access,
// from code that holds it as an ordinary reference).
type Object interface {
	// ObjClass returns the class that describes this object's shape. For a
	// *Class value itself, ObjClass returns that same class (there is no
	// metaclass in this model).
	ObjClass() *Class
	// ObjTag recovers the object's runtime kind in O(1), the Go analogue of
	// reading the header's primitive tag (spec.md §9, "Object" as a
	// tag-dispatched universe).
	ObjTag() Tag
}
