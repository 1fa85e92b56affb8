package vm

import (
	heapobj "github.com/corevm/classvm/objects"
	"github.com/corevm/classvm/vmerrors"
)

// newBuiltinExceptionClasses builds one zero-field *heapobj.Class per member
// of the closed synthesized-exception taxonomy (spec.md §7 tier 1), keyed
// by its vmerrors.Kind, so catchType matching (heapobj.InstanceOf) has a
// real class to compare against even though no class file ever declares
// them. All eight are direct subclasses of root. A fresh root and fresh
// taxonomy classes are built per Machine -- a package-level singleton would
// leak IDs from whichever Table preloaded it first across every later
// Machine, producing ID collisions with that Table's own classes.
func newBuiltinExceptionClasses(root *heapobj.Class) map[vmerrors.Kind]*heapobj.Class {
	kinds := []vmerrors.Kind{
		vmerrors.NullPointer, vmerrors.ArrayIndexOutOfBounds, vmerrors.NegativeArraySize,
		vmerrors.ClassCast, vmerrors.ClassNotFound, vmerrors.NoSuchField,
		vmerrors.NoSuchMethod, vmerrors.StackOverflow,
	}
	out := make(map[vmerrors.Kind]*heapobj.Class, len(kinds))
	for _, k := range kinds {
		out[k] = &heapobj.Class{Name: []byte(k.String()), Super: root}
	}
	return out
}

// registerBuiltinExceptionClasses preloads the taxonomy into the Machine's
// class table so a method's exception handler table can name them as a
// catch type (the same way it would name any other loaded class).
func (m *Machine) registerBuiltinExceptionClasses() map[vmerrors.Kind]*heapobj.Class {
	root := &heapobj.Class{Name: []byte("Throwable")}
	m.Classes.Preload(root)
	classes := newBuiltinExceptionClasses(root)
	for _, cls := range classes {
		m.Classes.Preload(cls)
	}
	return classes
}
