package resolver

import (
	"errors"
	"testing"

	heapobj "github.com/corevm/classvm/objects"
)

// fakeFinder serves class bytes from an in-memory map, standing in for the
// out-of-scope ClassFinder collaborator (spec.md §6).
type fakeFinder struct {
	data map[string][]byte
}

func (f *fakeFinder) Find(name []byte) ([]byte, bool) {
	d, ok := f.data[string(name)]
	return d, ok
}

// fakeParser decodes the trivial fixture format this test writes: the raw
// bytes ARE the class name, optionally suffixed with ">superName" to declare
// an unresolved superclass link.
type fakeParser struct {
	calls int
}

func (p *fakeParser) Parse(data []byte) (*heapobj.Class, error) {
	p.calls++
	name := data
	var super []byte
	for i, b := range data {
		if b == '>' {
			name = data[:i]
			super = data[i+1:]
			break
		}
	}
	return &heapobj.Class{Name: name, SuperName: super}, nil
}

func newFixture() (*Table, *fakeParser) {
	finder := &fakeFinder{data: map[string][]byte{
		"Object": []byte("Object"),
		"Base":   []byte("Base>Object"),
		"Derived": []byte("Derived>Base"),
	}}
	parser := &fakeParser{}
	return NewTable(finder, parser), parser
}

func TestResolveIsIdempotent(t *testing.T) {
	table, parser := newFixture()

	c1, err := table.Resolve([]byte("Derived"))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	callsAfterFirst := parser.calls

	c2, err := table.Resolve([]byte("Derived"))
	if err != nil {
		t.Fatalf("Resolve (second call): %v", err)
	}
	if c1 != c2 {
		t.Fatalf("Resolve returned different *Class on second call")
	}
	if parser.calls != callsAfterFirst {
		t.Fatalf("Resolve re-invoked the parser on an already-resolved class: %d calls", parser.calls)
	}
}

func TestResolveWalksSuperclassChain(t *testing.T) {
	table, _ := newFixture()

	derived, err := table.Resolve([]byte("Derived"))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if derived.Super == nil {
		t.Fatalf("Derived.Super not linked")
	}
	if string(derived.Super.Name) != "Base" {
		t.Errorf("Derived.Super.Name = %q, want Base", derived.Super.Name)
	}
	if derived.Super.Super == nil || string(derived.Super.Super.Name) != "Object" {
		t.Errorf("Derived.Super.Super not resolved to Object")
	}
	if !heapobj.IsSubclassOf(derived, derived.Super.Super) {
		t.Errorf("IsSubclassOf(Derived, Object) = false, want true")
	}
}

func TestResolveUnknownClassError(t *testing.T) {
	table, _ := newFixture()
	_, err := table.Resolve([]byte("Nonexistent"))
	if !errors.Is(err, ErrClassNotFound) {
		t.Fatalf("Resolve(Nonexistent) err = %v, want wrapping ErrClassNotFound", err)
	}
}

func TestResolveClassEntryRewritesPoolSlot(t *testing.T) {
	table, _ := newFixture()
	entry := &heapobj.PoolEntry{ClassName: []byte("Base")}

	cls, err := table.ResolveClassEntry(entry)
	if err != nil {
		t.Fatalf("ResolveClassEntry: %v", err)
	}
	if entry.ClassName != nil {
		t.Errorf("ClassName not cleared after resolution")
	}
	if entry.Resolved != any(cls) {
		t.Errorf("Resolved not set to the resolved class")
	}

	// Second call must not re-resolve from the name (which is now nil).
	cls2, err := table.ResolveClassEntry(entry)
	if err != nil {
		t.Fatalf("ResolveClassEntry (second call): %v", err)
	}
	if cls2 != cls {
		t.Errorf("second ResolveClassEntry returned a different class")
	}
}

func TestResolveMemberEntryMethodAndField(t *testing.T) {
	table, _ := newFixture()
	base, err := table.Resolve([]byte("Base"))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	method := &heapobj.Method{Class: base, Name: []byte("run"), Spec: []byte("()V")}
	field := &heapobj.Field{Class: base, Name: []byte("count"), Spec: []byte("I")}
	base.Methods = append(base.Methods, method)
	base.Fields = append(base.Fields, field)

	methodEntry := &heapobj.PoolEntry{Ref: &heapobj.Reference{
		ClassName: []byte("Base"), MemberName: []byte("run"), MemberSpec: []byte("()V"),
	}}
	got, err := table.ResolveMemberEntry(methodEntry, MemberMethod)
	if err != nil {
		t.Fatalf("ResolveMemberEntry(method): %v", err)
	}
	if got.(*heapobj.Method) != method {
		t.Errorf("resolved method mismatch")
	}
	if methodEntry.Ref != nil {
		t.Errorf("Ref not cleared after member resolution")
	}

	fieldEntry := &heapobj.PoolEntry{Ref: &heapobj.Reference{
		ClassName: []byte("Base"), MemberName: []byte("count"), MemberSpec: []byte("I"),
	}}
	got, err = table.ResolveMemberEntry(fieldEntry, MemberField)
	if err != nil {
		t.Fatalf("ResolveMemberEntry(field): %v", err)
	}
	if got.(*heapobj.Field) != field {
		t.Errorf("resolved field mismatch")
	}
}

func TestResolveMemberEntryNotFound(t *testing.T) {
	table, _ := newFixture()
	entry := &heapobj.PoolEntry{Ref: &heapobj.Reference{
		ClassName: []byte("Base"), MemberName: []byte("missing"), MemberSpec: []byte("()V"),
	}}
	_, err := table.ResolveMemberEntry(entry, MemberMethod)
	if !errors.Is(err, ErrNoSuchMethod) {
		t.Fatalf("err = %v, want wrapping ErrNoSuchMethod", err)
	}

	fieldEntry := &heapobj.PoolEntry{Ref: &heapobj.Reference{
		ClassName: []byte("Base"), MemberName: []byte("missing"), MemberSpec: []byte("I"),
	}}
	_, err = table.ResolveMemberEntry(fieldEntry, MemberField)
	if !errors.Is(err, ErrNoSuchField) {
		t.Fatalf("err = %v, want wrapping ErrNoSuchField", err)
	}
}

func TestLookupDoesNotTriggerLoad(t *testing.T) {
	table, parser := newFixture()
	if _, ok := table.Lookup([]byte("Base")); ok {
		t.Fatalf("Lookup found a class before any Resolve call")
	}
	if parser.calls != 0 {
		t.Fatalf("Lookup invoked the parser")
	}
	if _, err := table.Resolve([]byte("Base")); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if _, ok := table.Lookup([]byte("Base")); !ok {
		t.Fatalf("Lookup missed a resolved class")
	}
}

func TestAllReturnsEveryLoadedClass(t *testing.T) {
	table, _ := newFixture()
	if _, err := table.Resolve([]byte("Derived")); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	all := table.All()
	if len(all) != 3 {
		t.Fatalf("All() returned %d classes, want 3 (Derived, Base, Object)", len(all))
	}
}
