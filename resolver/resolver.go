// Package resolver is the class table and symbolic-reference resolver:
// spec.md §4.7. It hashes class names to loaded *heapobj.Class values,
// drives lazy class loading through an external ClassFinder + Parser, and
// rewrites constant-pool entries in place on first touch.
package resolver

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	heapobj "github.com/corevm/classvm/objects"
)

// ClassFinder is the external collaborator that maps a class name to class
// file bytes (spec.md §6); its implementation is out of scope here.
type ClassFinder interface {
	Find(name []byte) (data []byte, ok bool)
}

// Parser is the external collaborator that turns class file bytes into a
// *heapobj.Class (spec.md §1, §4.7). Its contract: the returned class's
// Super/SuperName and any constant-pool entries that are still byte-arrays
// or Reference triples denote names left to resolve. Its implementation is
// out of scope here.
type Parser interface {
	Parse(data []byte) (*heapobj.Class, error)
}

// MemberKind selects which of a class's two tables a Reference triple names,
// since the triple alone doesn't say (spec.md §4.7 variant 2).
type MemberKind byte

const (
	MemberField MemberKind = iota
	MemberMethod
)

// Sentinel errors; callers (the interpreter) lift these into the synthesized
// exception taxonomy (package vmerrors) with a frame trace attached.
var (
	ErrClassNotFound  = errors.New("class not found")
	ErrNoSuchField    = errors.New("no such field")
	ErrNoSuchMethod   = errors.New("no such method")
)

// Table is the VM-wide class table (spec.md §4.1's classMap). All mutation
// and lookup happens under its own mutex, which plays the role of the
// spec's classLock: the table's invariants (probe-then-insert, idempotent
// resolution) need only mutual exclusion, not the wait/notify protocol the
// thread-state coordinator's stateLock provides, so it is not routed
// through the generic System.Monitor the rest of the Machine uses.
type Table struct {
	mu      sync.Mutex
	classes map[string]*heapobj.Class
	nextID  int32
	finder  ClassFinder
	parser  Parser
}

func NewTable(finder ClassFinder, parser Parser) *Table {
	return &Table{
		classes: make(map[string]*heapobj.Class),
		nextID:  1,
		finder:  finder,
		parser:  parser,
	}
}

// insert is side-effecting only, matching the spec's note that the source's
// hashMapInsert returns nothing and no caller uses a return value (REDESIGN
// FLAGS item 4).
func (t *Table) insert(key string, cls *heapobj.Class) {
	t.classes[key] = cls
}

// Preload registers an already-constructed class directly, bypassing
// ClassFinder/Parser. Embedders that build classes out-of-band (or tests)
// use this instead of round-tripping through a Parser; the superclass chain
// must already be linked by the caller.
func (t *Table) Preload(cls *heapobj.Class) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if cls.ID == 0 {
		cls.ID = t.nextID
		t.nextID++
	}
	t.insert(string(cls.Name), cls)
}

// Lookup returns an already-loaded class without touching the ClassFinder,
// for code that must not trigger a load (e.g. GC root scans over classMap).
func (t *Table) Lookup(name []byte) (*heapobj.Class, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	c, ok := t.classes[string(name)]
	return c, ok
}

// All returns every currently-loaded class, for GC root iteration over the
// global classMap (spec.md §4.4).
func (t *Table) All() []*heapobj.Class {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]*heapobj.Class, 0, len(t.classes))
	for _, c := range t.classes {
		out = append(out, c)
	}
	return out
}

// Resolve loads (if necessary) and returns the class named by name. It is
// idempotent: a second call for the same name returns the cached class
// without invoking ClassFinder again (spec.md §8).
func (t *Table) Resolve(name []byte) (*heapobj.Class, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.resolveLocked(name)
}

func (t *Table) resolveLocked(name []byte) (*heapobj.Class, error) {
	key := string(name)
	if c, ok := t.classes[key]; ok {
		return c, nil
	}

	data, ok := t.finder.Find(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrClassNotFound, name)
	}
	cls, err := t.parser.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrClassNotFound, name, err)
	}
	cls.ID = t.nextID
	t.nextID++
	t.insert(key, cls)

	if len(cls.SuperName) > 0 && cls.Super == nil {
		super, err := t.resolveLocked(cls.SuperName)
		if err != nil {
			return nil, err
		}
		cls.Super = super
		cls.SuperName = nil
	}
	return cls, nil
}

// ResolveClassEntry implements spec.md §4.7 variant 1: a pool slot that is
// still a bare class name is resolved and the slot rewritten in place.
func (t *Table) ResolveClassEntry(entry *heapobj.PoolEntry) (*heapobj.Class, error) {
	if entry.IsResolved() {
		cls, ok := entry.Resolved.(*heapobj.Class)
		if !ok {
			return nil, fmt.Errorf("pool entry resolved to non-class %T", entry.Resolved)
		}
		return cls, nil
	}
	cls, err := t.Resolve(entry.ClassName)
	if err != nil {
		return nil, err
	}
	entry.Resolved = cls
	entry.ClassName = nil
	return cls, nil
}

// ResolveMemberEntry implements spec.md §4.7 variant 2: a pool slot holding
// an unresolved (class, name, descriptor) Reference triple. The owning
// class is resolved first, then its method or field table (per kind) is
// linear-scanned by byte-for-byte name+descriptor equality; the slot is
// rewritten with whichever *heapobj.Method or *heapobj.Field is found.
func (t *Table) ResolveMemberEntry(entry *heapobj.PoolEntry, kind MemberKind) (interface{}, error) {
	if entry.IsResolved() {
		return entry.Resolved, nil
	}
	ref := entry.Ref
	owner, err := t.Resolve(ref.ClassName)
	if err != nil {
		return nil, err
	}

	var member interface{}
	switch kind {
	case MemberField:
		f := FindField(owner, ref.MemberName, ref.MemberSpec)
		if f == nil {
			return nil, fmt.Errorf("%w: %s.%s %s", ErrNoSuchField, owner.Name, ref.MemberName, ref.MemberSpec)
		}
		member = f
	case MemberMethod:
		m := FindMethod(owner, ref.MemberName, ref.MemberSpec)
		if m == nil {
			return nil, fmt.Errorf("%w: %s.%s %s", ErrNoSuchMethod, owner.Name, ref.MemberName, ref.MemberSpec)
		}
		member = m
	}
	entry.Resolved = member
	entry.Ref = nil
	return member, nil
}

// ResolveContainerField implements spec.md §4.7 variant 3: a symbolic
// reference embedded directly in a container struct (e.g. an exception
// handler's catch type) rather than sitting in the constant pool array.
// The mechanism is identical to ResolveClassEntry; this alias documents the
// distinct call site the spec calls out separately.
func (t *Table) ResolveContainerField(entry *heapobj.PoolEntry) (*heapobj.Class, error) {
	return t.ResolveClassEntry(entry)
}

// FindMethod linear-scans a class's method table for a byte-for-byte
// (name, descriptor) match, per spec.md §4.7. It does not search
// superclasses: inherited-member lookup happens at the invoke opcode
// (spec.md §4.9), not here.
func FindMethod(cls *heapobj.Class, name, spec []byte) *heapobj.Method {
	for _, m := range cls.Methods {
		if bytes.Equal(m.Name, name) && bytes.Equal(m.Spec, spec) {
			return m
		}
	}
	return nil
}

// FindField linear-scans a class's field table the same way FindMethod does.
func FindField(cls *heapobj.Class, name, spec []byte) *heapobj.Field {
	for _, f := range cls.Fields {
		if bytes.Equal(f.Name, name) && bytes.Equal(f.Spec, spec) {
			return f
		}
	}
	return nil
}
