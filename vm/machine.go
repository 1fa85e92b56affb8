package vm

import (
	"sync"

	"github.com/google/uuid"

	heapobj "github.com/corevm/classvm/objects"
	"github.com/corevm/classvm/resolver"
	"github.com/corevm/classvm/vmerrors"
)

// DefaultArenaSlots is the per-thread arena capacity a Machine hands new
// threads unless the embedder overrides it via Config.ArenaSlots.
const DefaultArenaSlots = 4096

// DefaultStackSize is the shared operand-stack capacity per thread
// (spec.md §4.8 step 1's StackSize bound).
const DefaultStackSize = 1024

// Machine is the process-wide singleton (spec.md §4.1): the class table,
// the stateLock monitor, and the thread registry. Constructed once against
// external System/Heap/ClassFinder collaborators.
type Machine struct {
	system  System
	heap    Heap
	Classes *resolver.Table
	cfg     Config

	state *stateCoordinator

	regMu      sync.Mutex
	rootThread *Thread

	exceptionClasses map[vmerrors.Kind]*heapobj.Class
}

// NewMachine constructs a Machine with default tunables. See
// NewMachineConfig for the full constructor; NewMachine is the common case
// an embedder reaches for when it has no need to override arena size,
// stack size, or tracing.
func NewMachine(system System, heap Heap, finder resolver.ClassFinder, parser resolver.Parser) (*Machine, error) {
	return NewMachineConfig(system, heap, finder, parser, Config{})
}

// NewMachineConfig constructs a Machine: one System monitor (stateLock), a
// class table seated on finder/parser, and an empty thread registry.
// classLock is owned internally by resolver.Table as a sync.Mutex rather
// than threaded through here (see resolver.Table's doc comment). No separate
// heapLock monitor is created: Thread.set hands stateLock to Heap.Check at
// write-barrier time.
func NewMachineConfig(system System, heap Heap, finder resolver.ClassFinder, parser resolver.Parser, cfg Config) (*Machine, error) {
	stateLock, err := system.NewMonitor()
	if err != nil {
		return nil, err
	}
	m := &Machine{
		system:  system,
		heap:    heap,
		Classes: resolver.NewTable(finder, parser),
		cfg:     cfg.withDefaults(),
		state:   newStateCoordinator(stateLock),
	}
	m.exceptionClasses = m.registerBuiltinExceptionClasses()
	return m, nil
}

// Dispose releases the Machine's monitors (spec.md §6 init/dispose pair).
func (m *Machine) Dispose() {
	m.state.lock.Dispose()
}

// Abort forwards to the external System's abort, the fatal (tier-3) error
// path (spec.md §7).
func (m *Machine) Abort(reason string) { m.system.Abort(reason) }

// NewThread constructs a Thread bound to this Machine with the arena and
// stack sizes from the Machine's Config, and links it into the registry's (next, child)
// chain for DFS root scanning (spec.md §4.1, §4.4). If parent is non-nil,
// the new thread is linked as parent's child rather than as a root-level
// sibling.
func (m *Machine) NewThread(parent *Thread) *Thread {
	th := &Thread{
		machine: m,
		TraceID: uuid.New(),
		arena:   NewHeapArena(m.cfg.ArenaSlots),
		stack:   make([]heapobj.Value, m.cfg.StackSize),
	}

	m.regMu.Lock()
	defer m.regMu.Unlock()
	if parent != nil {
		th.next = parent.child
		parent.child = th
	} else if m.rootThread == nil {
		m.rootThread = th
	} else {
		th.next = m.rootThread.next
		m.rootThread.next = th
	}
	return th
}

// AllThreads walks the registry depth-first over (next, child), the order
// spec.md §4.4 specifies for GC root scanning.
func (m *Machine) AllThreads() []*Thread {
	m.regMu.Lock()
	defer m.regMu.Unlock()
	var out []*Thread
	var walk func(*Thread)
	walk = func(t *Thread) {
		for cur := t; cur != nil; cur = cur.next {
			out = append(out, cur)
			if cur.child != nil {
				walk(cur.child)
			}
		}
	}
	if m.rootThread != nil {
		walk(m.rootThread)
	}
	return out
}
