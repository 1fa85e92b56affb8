package vm

import (
	"fmt"
	"io"
)

// Config holds the Machine-wide tunables an embedder may override. The
// zero value reproduces NewMachine's historical defaults exactly, so
// existing callers that construct a Machine without a Config see no
// behavior change.
type Config struct {
	// ArenaSlots overrides DefaultArenaSlots for every thread this Machine
	// creates via NewThread.
	ArenaSlots int
	// StackSize overrides DefaultStackSize for every thread this Machine
	// creates via NewThread.
	StackSize int
	// Trace, if non-nil, receives one line per thread state transition and
	// per minor collection, tagged with the thread's TraceID. Matches the
	// shape of an io.Writer debug hook rather than a structured-logging
	// dependency; nil disables tracing entirely at zero cost.
	Trace io.Writer
}

func (c Config) withDefaults() Config {
	if c.ArenaSlots == 0 {
		c.ArenaSlots = DefaultArenaSlots
	}
	if c.StackSize == 0 {
		c.StackSize = DefaultStackSize
	}
	return c
}

// trace writes one formatted line to the configured Trace writer, if any.
// A write error is swallowed: tracing is diagnostic, never load-bearing.
func (m *Machine) trace(format string, args ...interface{}) {
	if m.cfg.Trace == nil {
		return
	}
	fmt.Fprintf(m.cfg.Trace, format+"\n", args...)
}
