package heapobj

// AccessFlags mirrors the class-file access_flags bitset; only a few bits
// are named. ACC_SUPER changes invokespecial's dispatch rule, ACC_INTERFACE
// makes InstanceOf match through interface tables, and ACC_STATIC marks
// static methods; ACC_PUBLIC and ACC_ABSTRACT are named but not read.
type AccessFlags uint16

const (
	AccPublic    AccessFlags = 0x0001
	AccStatic    AccessFlags = 0x0008
	AccSuper     AccessFlags = 0x0020
	AccInterface AccessFlags = 0x0200
	AccAbstract  AccessFlags = 0x0400
)

func (f AccessFlags) Has(bit AccessFlags) bool { return f&bit != 0 }

// InterfaceEntry is one row of a class's interface table: the interface
// class this row implements, and the itable slice that resolves an
// invokeinterface's (interface, method-offset) pair to an effective method
// without a further linear scan once the row is found (spec.md §4.8,
// invokeinterface).
type InterfaceEntry struct {
	Interface *Class
	ITable    []*Method
}

// InitLink is one node of a class's initializer chain: a linked pair-list of
// <clinit>-style methods that must run, head-first, before the class's
// statics may be touched (spec.md §4.8, getfield/getstatic/new injection).
type InitLink struct {
	Method *Method
	Next   *InitLink
}

// Class is the runtime descriptor for a loaded class. Super starts out
// either nil (class has no declared superclass — i.e. this is the root
// Object class) or unresolved (SuperName set, Super nil); resolveClass
// (see package resolver) rewrites Super and clears SuperName exactly once,
// never the reverse (spec.md §3 invariants).
type Class struct {
	Name  []byte
	Super *Class
	// SuperName holds the unresolved superclass name until the first
	// resolution touches it. Non-nil only while Super is still nil and this
	// class does declare a superclass.
	SuperName []byte
	Flags     AccessFlags

	// ID is assigned once, by the resolver, when the class is first loaded.
	// Two classes are identical iff their IDs are equal — this lets
	// instanceof/checkcast avoid a pointer-chasing walk for the common case
	// of an exact type match.
	ID int32

	Interfaces []InterfaceEntry
	Methods    []*Method
	Fields     []*Field

	// Statics holds one slot per static field, indexed by Field.Offset for
	// fields with Static set. Allocated with the class, not in the heap
	// arena — statics outlive any one thread's arena and are never
	// relocated by a minor collection the way instance/array objects are.
	Statics []Value

	// Init is the head of the initializer chain still left to run. Draining
	// it is what getstatic/putstatic/new rewind-and-reinject for (spec.md
	// §4.8); once nil, the class is fully initialized.
	Init *InitLink

	// FixedSize is the number of field slots a new instance of this class
	// allocates (this class's own fields plus every inherited field).
	FixedSize int32
}

func (c *Class) ObjClass() *Class { return c }
func (c *Class) ObjTag() Tag      { return TagClass }

// IsResolved reports whether this class's superclass link has been fixed up.
// A class with no superclass at all (the root) is always "resolved".
func (c *Class) IsResolved() bool { return c.Super != nil || len(c.SuperName) == 0 }

// IsSubclassOf reports whether c is of, or a (transitive) subclass of, of.
// Classes compare by ID, matching the spec's "class-id equality implies
// class identity" invariant.
func IsSubclassOf(c, of *Class) bool {
	for cur := c; cur != nil; cur = cur.Super {
		if cur.ID == of.ID {
			return true
		}
	}
	return false
}

// Implements reports whether c's interface table lists iface, directly or
// via an inherited interface table row.
func Implements(c *Class, iface *Class) bool {
	for cur := c; cur != nil; cur = cur.Super {
		for _, row := range cur.Interfaces {
			if row.Interface.ID == iface.ID {
				return true
			}
		}
	}
	return false
}

// InstanceOf implements the property from spec.md §8: true for c's own
// class, every superclass, and every implemented interface.
func InstanceOf(c *Class, target *Class) bool {
	if target.Flags.Has(AccInterface) {
		return Implements(c, target)
	}
	return IsSubclassOf(c, target)
}

// Method is a declared method: name/descriptor identify it for resolution
// (spec.md §4.7's by-name-and-spec lookup); Offset is its slot in the
// owning class's method table and, for virtual/interface dispatch, in every
// subclass's method table / itable row at the same index.
type Method struct {
	Class *Class
	Name  []byte
	Spec  []byte
	// Offset is this method's slot in its class's method table and, for
	// virtual/interface dispatch, in every subclass's method table / itable
	// row at the same index (spec.md §4.8, invokevirtual/invokeinterface).
	Offset int
	// ParamCount is every argument slot an invocation of this method
	// consumes from the operand stack, including the receiver slot (local 0,
	// `this`) for a non-static method -- not just the declared parameter
	// list. invokevirtual's "receiver = stack[sp - parameterCount]" (spec.md
	// §4.8) only holds under this convention.
	ParamCount int
	Flags      AccessFlags
	Code       *Code
}

func (m *Method) IsStatic() bool { return m.Flags.Has(AccStatic) }

// Field is a declared field. Offset indexes Instance.Fields for instance
// fields, or Class.Statics for static fields.
type Field struct {
	Class  *Class
	Name   []byte
	Spec   []byte
	Offset int
	Static bool
	Flags  AccessFlags
}

// ExceptionHandler is one row of a method's exception table: the bytecode
// range it guards, the handler entry point, and the type it catches.
// CatchType nil means "catch anything" (spec.md §3's catchType=0 row).
type ExceptionHandler struct {
	StartIP, EndIP, HandlerIP int
	CatchType                 *PoolEntry
}

// Code is a method's compiled body: raw bytecode plus everything the
// interpreter needs to execute it without consulting the class file again.
type Code struct {
	Body      []byte
	Pool      []*PoolEntry
	MaxStack  int
	MaxLocals int
	Handlers  []ExceptionHandler
}

// Reference is an unresolved symbolic (class, member-name, member-descriptor)
// triple embedded in a constant pool entry (spec.md Glossary).
type Reference struct {
	ClassName  []byte
	MemberName []byte
	MemberSpec []byte
}

// PoolEntry is one constant-pool slot. Exactly one of ClassName, Ref, or
// Resolved is meaningful at any time; resolution replaces ClassName/Ref with
// Resolved and never reverts (spec.md §3 invariants, §4.7). Resolved holds a
// *Class, *Method, or *Field depending on what the symbolic reference named
// -- it is `interface{}` rather than Object because Method/Field are class
// metadata, not independently heap-managed objects.
type PoolEntry struct {
	ClassName []byte
	Ref       *Reference
	Resolved  interface{}
}

func (p *PoolEntry) IsResolved() bool { return p.Resolved != nil }
