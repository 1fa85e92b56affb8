package vm

import (
	"testing"

	heapobj "github.com/corevm/classvm/objects"
	"github.com/corevm/classvm/opcodes"
)

// noopFinder/noopParser back a Table that should never actually be asked to
// load anything: every test class is registered directly via Preload and
// every pool entry a test builds is pre-resolved, so these only exist to
// give Table a non-nil collaborator pair.
type noopFinder struct{}

func (noopFinder) Find(name []byte) ([]byte, bool) { return nil, false }

type noopParser struct{}

func (noopParser) Parse(data []byte) (*heapobj.Class, error) { return nil, errParseUnsupported }

var errParseUnsupported = errTestParse{}

type errTestParse struct{}

func (errTestParse) Error() string { return "test fixture has no real parser" }

func newTestMachine(t *testing.T) *Machine {
	t.Helper()
	m, err := NewMachine(NewStdSystem(), NewStdHeap(), noopFinder{}, noopParser{})
	if err != nil {
		t.Fatalf("NewMachine: %v", err)
	}
	return m
}

func resolvedClassEntry(cls *heapobj.Class) *heapobj.PoolEntry {
	return &heapobj.PoolEntry{Resolved: cls}
}

func resolvedMemberEntry(member interface{}) *heapobj.PoolEntry {
	return &heapobj.PoolEntry{Resolved: member}
}

func staticMethod(cls *heapobj.Class, name string, code *heapobj.Code, paramCount int) *heapobj.Method {
	m := &heapobj.Method{
		Class: cls, Name: []byte(name), Spec: []byte("()I"),
		Flags: heapobj.AccStatic, ParamCount: paramCount, Code: code,
	}
	cls.Methods = append(cls.Methods, m)
	m.Offset = len(cls.Methods) - 1
	return m
}

func instanceMethod(cls *heapobj.Class, name string, code *heapobj.Code, paramCount int) *heapobj.Method {
	m := &heapobj.Method{
		Class: cls, Name: []byte(name), Spec: []byte("()V"),
		ParamCount: paramCount, Code: code,
	}
	cls.Methods = append(cls.Methods, m)
	m.Offset = len(cls.Methods) - 1
	return m
}

func body(b ...byte) []byte { return b }

// TestEndToEndIntAddition covers spec.md §8 end-to-end scenario 1.
func TestEndToEndIntAddition(t *testing.T) {
	m := newTestMachine(t)
	cls := &heapobj.Class{Name: []byte("Arith")}
	m.Classes.Preload(cls)
	code := &heapobj.Code{
		Body: body(
			byte(opcodes.ICONST_3), byte(opcodes.ICONST_4), byte(opcodes.IADD), byte(opcodes.IRETURN),
		),
		MaxStack: 2,
	}
	method := staticMethod(cls, "sum", code, 0)

	th := m.NewThread(nil)
	result := m.RunMethod(th, method, nil)
	if result.I != 7 {
		t.Fatalf("result.I = %d, want 7", result.I)
	}
}

// TestEndToEndNewAndInheritedInit covers scenario 2: C has no declared
// <init> and inherits Object's; invokespecial's pool entry already names
// the declaring class (Object), matching real constant-pool resolution.
func TestEndToEndNewAndInheritedInit(t *testing.T) {
	m := newTestMachine(t)
	object := &heapobj.Class{Name: []byte("Object"), Flags: heapobj.AccSuper}
	initCode := &heapobj.Code{Body: body(byte(opcodes.RETURN)), MaxStack: 0, MaxLocals: 1}
	objectInit := instanceMethod(object, "<init>", initCode, 1)
	m.Classes.Preload(object)

	c := &heapobj.Class{Name: []byte("C"), Super: object, Flags: heapobj.AccSuper, FixedSize: 0}
	m.Classes.Preload(c)

	classPool := resolvedClassEntry(c)
	initPool := resolvedMemberEntry(objectInit)

	runnerCode := &heapobj.Code{
		Body: body(
			byte(opcodes.NEW), 0, 0, // u16 pool index into the Pool slice below
			byte(opcodes.DUP),
			byte(opcodes.INVOKESPECIAL), 0, 0,
			byte(opcodes.ARETURN),
		),
		Pool:     []*heapobj.PoolEntry{classPool, initPool},
		MaxStack: 2,
	}
	// NEW and INVOKESPECIAL both read a u16 pool index at ip+1; rewrite the
	// operand bytes to index 0 and 1 respectively to match Pool above.
	runnerCode.Body[2] = 0
	runnerCode.Body[6] = 1
	runner := staticMethod(&heapobj.Class{Name: []byte("Runner")}, "make", runnerCode, 0)
	// NEW/INVOKESPECIAL index via th.pool(int(th.bodyU16())); bodyU16 reads
	// bytes at ip+1,ip+2. Body layout: [NEW, hi, lo, DUP, INVOKESPECIAL, hi, lo, ARETURN]
	runnerCode.Body[1], runnerCode.Body[2] = 0, 0
	runnerCode.Body[5], runnerCode.Body[6] = 0, 1

	th := m.NewThread(nil)
	result := m.RunMethod(th, runner, nil)
	if result.IsNull() {
		t.Fatalf("result is null, want a new C instance")
	}
	inst, ok := result.Ref.(*heapobj.Instance)
	if !ok {
		t.Fatalf("result.Ref = %T, want *heapobj.Instance", result.Ref)
	}
	if inst.Class != c {
		t.Fatalf("instance class = %v, want C", inst.Class.Name)
	}
}

// TestEndToEndArrayBoundary covers scenario 3.
func TestEndToEndArrayBoundary(t *testing.T) {
	m := newTestMachine(t)
	th := m.NewThread(nil)
	th.Enter(Active)
	arr, ok := th.newArray(heapobj.ArrInt, 3)
	if !ok {
		t.Fatalf("newArray failed")
	}
	arr.Ints[0], arr.Ints[1], arr.Ints[2] = 10, 20, 30

	th.push(heapobj.Ref(arr))
	th.push(heapobj.Int(1))
	fn := opArrayLoad(heapobj.ArrInt)
	fn(th)
	if th.pending() {
		t.Fatalf("unexpected exception on in-bounds load: %v", th.exception)
	}
	got := th.pop()
	if got.I != 20 {
		t.Fatalf("iaload[1] = %d, want 20", got.I)
	}

	th.push(heapobj.Ref(arr))
	th.push(heapobj.Int(3))
	fn(th)
	if !th.pending() {
		t.Fatalf("expected AIOOBE on out-of-bounds load")
	}
	if th.exception.Message != "3 not in [0,3]" {
		t.Fatalf("message = %q, want %q", th.exception.Message, "3 not in [0,3]")
	}
	th.Enter(Exit)
}

// TestInitializerInjectionOrder covers scenario 4: a static field access
// drains a nonempty initializer chain, and the triggering getstatic
// observably re-executes (and succeeds) once the chain is empty.
func TestInitializerInjectionOrder(t *testing.T) {
	m := newTestMachine(t)

	cls := &heapobj.Class{Name: []byte("Holder")}
	cls.Statics = []heapobj.Value{heapobj.Int(0)}
	field := &heapobj.Field{Class: cls, Name: []byte("x"), Spec: []byte("I"), Static: true, Offset: 0}
	cls.Fields = append(cls.Fields, field)

	clinitCode := &heapobj.Code{Body: body(byte(opcodes.RETURN)), MaxStack: 0, MaxLocals: 0}
	clinit := staticMethod(cls, "<clinit>", clinitCode, 0)
	cls.Init = &heapobj.InitLink{Method: clinit}
	m.Classes.Preload(cls)

	code := &heapobj.Code{
		Body:     body(byte(opcodes.GETSTATIC), 0, 0, byte(opcodes.IRETURN)),
		Pool:     []*heapobj.PoolEntry{resolvedMemberEntry(field)},
		MaxStack: 1,
	}
	method := staticMethod(&heapobj.Class{Name: []byte("Caller")}, "read", code, 0)

	th := m.NewThread(nil)
	result := m.RunMethod(th, method, nil)
	if result.I != 0 {
		t.Fatalf("result.I = %d, want 0", result.I)
	}
	if cls.Init != nil {
		t.Fatalf("initializer chain not drained")
	}
}

// TestEndToEndExceptionHandlerUnwind covers scenario 5.
func TestEndToEndExceptionHandlerUnwind(t *testing.T) {
	m := newTestMachine(t)
	thrown := &heapobj.Class{Name: []byte("Boom")}
	m.Classes.Preload(thrown)
	catchEntry := resolvedClassEntry(thrown)

	code := &heapobj.Code{
		Body: body(
			/*0*/ byte(opcodes.NEW), 0, 0,
			/*3*/ byte(opcodes.ATHROW),
			/*4*/ byte(opcodes.NOP), // unreachable padding before handler
			/*5*/ byte(opcodes.NOP),
			/*6*/ byte(opcodes.NOP),
			/*7*/ byte(opcodes.NOP),
			/*8*/ byte(opcodes.NOP),
			/*9*/ byte(opcodes.NOP),
			/*10*/ byte(opcodes.NOP),
			/*11*/ byte(opcodes.NOP),
			/*12*/ byte(opcodes.NOP),
			/*13*/ byte(opcodes.NOP),
			/*14*/ byte(opcodes.NOP),
			/*15*/ byte(opcodes.NOP),
			/*16*/ byte(opcodes.NOP),
			/*17*/ byte(opcodes.NOP),
			/*18*/ byte(opcodes.NOP),
			/*19*/ byte(opcodes.NOP),
			/*20*/ byte(opcodes.NOP),
			/*21*/ byte(opcodes.NOP),
			/*22*/ byte(opcodes.NOP),
			/*23*/ byte(opcodes.NOP),
			/*24*/ byte(opcodes.NOP),
			/*25*/ byte(opcodes.NOP),
			/*26*/ byte(opcodes.NOP),
			/*27*/ byte(opcodes.NOP),
			/*28*/ byte(opcodes.NOP),
			/*29*/ byte(opcodes.NOP),
			/*30*/ byte(opcodes.NOP),
			/*31*/ byte(opcodes.NOP),
			/*32*/ byte(opcodes.NOP),
			/*33*/ byte(opcodes.NOP),
			/*34*/ byte(opcodes.NOP),
			/*35*/ byte(opcodes.NOP),
			/*36*/ byte(opcodes.NOP),
			/*37*/ byte(opcodes.NOP),
			/*38*/ byte(opcodes.NOP),
			/*39*/ byte(opcodes.NOP),
			/*40*/ byte(opcodes.NOP),
			/*41*/ byte(opcodes.NOP),
			/*42*/ byte(opcodes.ARETURN), // handler entry point
		),
		Pool:     []*heapobj.PoolEntry{resolvedClassEntry(thrown)},
		MaxStack: 2,
		Handlers: []heapobj.ExceptionHandler{
			{StartIP: 0, EndIP: 4, HandlerIP: 42, CatchType: catchEntry},
		},
	}
	method := staticMethod(&heapobj.Class{Name: []byte("Thrower")}, "boom", code, 0)

	th := m.NewThread(nil)
	result := m.RunMethod(th, method, nil)
	if result.IsNull() {
		t.Fatalf("result is null, want the caught exception instance")
	}
	if result.Ref.ObjClass() != thrown {
		t.Fatalf("caught object class = %v, want Boom", result.Ref.ObjClass().Name)
	}
}

// TestDupPopNoOp and TestLoadStoreNoOp cover the idempotence properties in
// spec.md §8.
func TestDupPopNoOp(t *testing.T) {
	m := newTestMachine(t)
	th := m.NewThread(nil)
	th.Enter(Active)
	th.push(heapobj.Int(42))
	before := th.sp
	opDup(th)
	opPop(th)
	if th.sp != before {
		t.Fatalf("sp after dup;pop = %d, want %d", th.sp, before)
	}
	if th.peek(0).I != 42 {
		t.Fatalf("stack top mutated by dup;pop")
	}
	th.Enter(Exit)
}

func TestLoadStoreNoOp(t *testing.T) {
	m := newTestMachine(t)
	th := m.NewThread(nil)
	th.Enter(Active)
	th.frame = &Frame{Locals: make([]heapobj.Value, 1)}
	th.frame.Locals[0] = heapobj.Int(99)
	opLoadN(0)(th)
	opStoreN(0)(th)
	if th.frame.Locals[0].I != 99 {
		t.Fatalf("local 0 = %d after aload_0;astore_0, want 99", th.frame.Locals[0].I)
	}
	if th.sp != 0 {
		t.Fatalf("sp = %d after aload_0;astore_0, want 0", th.sp)
	}
	th.Enter(Exit)
}

// TestArithmeticWrapsModulo32 exercises spec.md §4.8's overflow semantics.
func TestArithmeticWrapsModulo32(t *testing.T) {
	m := newTestMachine(t)
	th := m.NewThread(nil)
	th.Enter(Active)
	th.push(heapobj.Int(2147483647))
	th.push(heapobj.Int(1))
	opIBinary(func(a, b int32) int32 { return a + b })(th)
	got := th.pop()
	if got.I != -2147483648 {
		t.Fatalf("MaxInt32+1 = %d, want wraparound to MinInt32", got.I)
	}
	th.Enter(Exit)
}

// TestIfICmpLeCorrectedComparison exercises the spec.md §9 redesign flag:
// if_icmple must use <=, so a==b must take the branch.
func TestIfICmpLeCorrectedComparison(t *testing.T) {
	m := newTestMachine(t)
	th := m.NewThread(nil)
	th.Enter(Active)
	th.code = &heapobj.Code{Body: body(byte(opcodes.IF_ICMPLE), 0, 100)}
	th.ip = 0
	th.push(heapobj.Int(5))
	th.push(heapobj.Int(5))
	dispatch[opcodes.IF_ICMPLE](th)
	if th.ip != 100 {
		t.Fatalf("if_icmple(5,5) did not branch; ip = %d, want 100", th.ip)
	}
	th.Enter(Exit)
}

// TestLushrIsUnsignedRightShift exercises the spec.md §9 redesign flag:
// lushr must be a true unsigned right shift, not mirror lshl.
func TestLushrIsUnsignedRightShift(t *testing.T) {
	m := newTestMachine(t)
	th := m.NewThread(nil)
	th.Enter(Active)
	th.push(heapobj.Long(-1)) // all bits set
	th.push(heapobj.Int(60))
	dispatch[opcodes.LUSHR](th)
	got := th.pop().L
	if got != 0xF {
		t.Fatalf("lushr(-1, 60) = %#x, want 0xf", got)
	}
	th.Enter(Exit)
}

// TestRootIterationVisitsEveryStackSlot exercises spec.md §9's other
// redesign flag: root iteration must visit stack[0:sp], not repeat sp.
func TestRootIterationVisitsEveryStackSlot(t *testing.T) {
	m := newTestMachine(t)
	th := m.NewThread(nil)
	cls := &heapobj.Class{Name: []byte("X")}
	a, b, c := heapobj.NewInstance(cls), heapobj.NewInstance(cls), heapobj.NewInstance(cls)
	th.push(heapobj.Ref(a))
	th.push(heapobj.Ref(b))
	th.push(heapobj.Ref(c))

	var seen []heapobj.Object
	th.Iterate(visitorFunc(func(slot *heapobj.Value) {
		if slot.Ref != nil {
			seen = append(seen, slot.Ref)
		}
	}))
	if len(seen) != 3 || seen[0] != a || seen[1] != b || seen[2] != c {
		t.Fatalf("Iterate visited %v, want [a b c] in stack order", seen)
	}
}

type visitorFunc func(*heapobj.Value)

func (f visitorFunc) Visit(slot *heapobj.Value) { f(slot) }

// TestAllocationTriggersCollectionAtCapacity exercises the boundary
// property: an allocation that exactly fits never collects; the next one
// that doesn't fit does (spec.md §8, §4.3).
func TestAllocationTriggersCollectionAtCapacity(t *testing.T) {
	m := newTestMachine(t)
	th := m.NewThread(nil)
	th.arena = NewHeapArena(4)
	th.Enter(Active)

	if err := th.reserve(4); err != nil {
		t.Fatalf("reserve(4) on a 4-slot arena: %v", err)
	}
	if th.arena.Used() != 4 {
		t.Fatalf("arena used = %d, want 4", th.arena.Used())
	}

	if err := th.reserve(1); err != nil {
		t.Fatalf("reserve(1) past capacity should collect, not error: %v", err)
	}
	if th.arena.Used() != 1 {
		t.Fatalf("arena used after collection = %d, want 1 (reset then bumped)", th.arena.Used())
	}
	th.Enter(Exit)
}

// TestAllocationLargerThanArenaAborts exercises spec.md §4.3's "allocations
// larger than the per-thread arena are unsupported and abort": reserve
// itself reports the failure as an error, and its callers (newInstance,
// newArray, newObjectArray) turn that into a System.Abort.
func TestAllocationLargerThanArenaAborts(t *testing.T) {
	m := newTestMachine(t)
	th := m.NewThread(nil)
	th.arena = NewHeapArena(4)
	th.Enter(Active)

	if err := th.reserve(5); err == nil {
		t.Fatalf("reserve(5) on a 4-slot arena should report TooLarge")
	}

	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic (System.Abort) for an oversized array allocation")
		}
	}()
	th.newArray(heapobj.ArrInt, 10)
}
