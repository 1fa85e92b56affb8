package heapobj

// Instance is an ordinary heap object: a class pointer plus one Value per
// declared field (own + inherited), indexed by Field.Offset. Allocated in
// the executing thread's arena (spec.md §3 Lifecycles).
type Instance struct {
	Class  *Class
	Fields []Value
}

func (o *Instance) ObjClass() *Class { return o.Class }
func (o *Instance) ObjTag() Tag      { return TagInstance }

// NewInstance allocates a zeroed instance: every field is the zero Value,
// matching "after new C, all fields of the instance are zero/null."
func NewInstance(class *Class) *Instance {
	return &Instance{Class: class, Fields: make([]Value, class.FixedSize)}
}

// IntBox, LongBox, FloatBox and DoubleBox let a primitive be referenced like
// any other object — used when a slot declared to hold a reference (an
// Object-typed array element, for instance) needs to carry a boxed scalar.
// The spec's Design Notes list these among the tag-dispatched universe's
// built-in object kinds; ordinary iload/istore traffic never touches them.
type IntBox struct {
	Class *Class
	Value int32
}

func (b *IntBox) ObjClass() *Class { return b.Class }
func (b *IntBox) ObjTag() Tag      { return TagIntBox }

type LongBox struct {
	Class *Class
	Value int64
}

func (b *LongBox) ObjClass() *Class { return b.Class }
func (b *LongBox) ObjTag() Tag      { return TagLongBox }

type FloatBox struct {
	Class *Class
	Value float32
}

func (b *FloatBox) ObjClass() *Class { return b.Class }
func (b *FloatBox) ObjTag() Tag      { return TagFloatBox }

type DoubleBox struct {
	Class *Class
	Value float64
}

func (b *DoubleBox) ObjClass() *Class { return b.Class }
func (b *DoubleBox) ObjTag() Tag      { return TagDoubleBox }
