package heapobj

import "testing"

func makeHierarchy() (object, base, derived *Class, iface *Class) {
	object = &Class{Name: []byte("java/lang/Object"), ID: 0, FixedSize: 0}
	iface = &Class{Name: []byte("Runnable"), ID: 1, Flags: AccInterface}
	base = &Class{Name: []byte("Base"), ID: 2, Super: object, FixedSize: 1}
	derived = &Class{
		Name: []byte("Derived"), ID: 3, Super: base, FixedSize: 2,
		Interfaces: []InterfaceEntry{{Interface: iface}},
	}
	return
}

func TestInstanceOfSubclassAndInterface(t *testing.T) {
	object, base, derived, iface := makeHierarchy()

	if !InstanceOf(derived, derived) {
		t.Error("derived is not InstanceOf itself")
	}
	if !InstanceOf(derived, base) {
		t.Error("derived is not InstanceOf its superclass")
	}
	if !InstanceOf(derived, object) {
		t.Error("derived is not InstanceOf the root class")
	}
	if !InstanceOf(derived, iface) {
		t.Error("derived does not implement its declared interface")
	}
	if InstanceOf(base, iface) {
		t.Error("base should not implement an interface only derived declares")
	}
}

func TestNewInstanceZeroed(t *testing.T) {
	_, _, derived, _ := makeHierarchy()
	inst := NewInstance(derived)
	if len(inst.Fields) != int(derived.FixedSize) {
		t.Fatalf("len(Fields) = %d, want %d", len(inst.Fields), derived.FixedSize)
	}
	for i, f := range inst.Fields {
		if f != (Value{}) {
			t.Errorf("field %d not zero: %+v", i, f)
		}
	}
	if inst.ObjClass() != derived {
		t.Error("ObjClass() mismatch")
	}
	if inst.ObjTag() != TagInstance {
		t.Errorf("ObjTag() = %v, want TagInstance", inst.ObjTag())
	}
}

func TestPoolEntryResolution(t *testing.T) {
	p := &PoolEntry{ClassName: []byte("Foo")}
	if p.IsResolved() {
		t.Fatal("fresh pool entry should be unresolved")
	}
	cls := &Class{Name: []byte("Foo")}
	p.ClassName = nil
	p.Resolved = cls
	if !p.IsResolved() {
		t.Fatal("pool entry with Resolved set should report resolved")
	}
}
