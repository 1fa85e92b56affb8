package vm

import "github.com/corevm/classvm/resolver"

// MapClassFinder is a reference resolver.ClassFinder backed by an in-memory
// map, sufficient for tests and for embedders that pre-load every class
// they need. A production embedder supplies its own (spec.md §6).
type MapClassFinder struct {
	classes map[string][]byte
}

func NewMapClassFinder() *MapClassFinder {
	return &MapClassFinder{classes: make(map[string][]byte)}
}

func (f *MapClassFinder) Put(name string, data []byte) {
	f.classes[name] = data
}

func (f *MapClassFinder) Find(name []byte) ([]byte, bool) {
	data, ok := f.classes[string(name)]
	return data, ok
}

var _ resolver.ClassFinder = (*MapClassFinder)(nil)
