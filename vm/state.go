package vm

// State names one node of the thread coordination state machine (spec.md
// §4.2). Every Thread starts at None and ends at either Zombie (terminal,
// participating in liveCount bookkeeping to the last) or Exit (terminal,
// no longer counted).
type State int

const (
	None State = iota
	Active
	Idle
	Zombie
	Exclusive
	Exit
)

func (s State) String() string {
	switch s {
	case None:
		return "None"
	case Active:
		return "Active"
	case Idle:
		return "Idle"
	case Zombie:
		return "Zombie"
	case Exclusive:
		return "Exclusive"
	case Exit:
		return "Exit"
	default:
		return "Unknown"
	}
}

// stateCoordinator owns the Machine-wide bookkeeping the state machine
// needs: activeCount, liveCount, and which thread (if any) holds Exclusive.
// Every field is guarded by stateLock; transitions implement the table in
// spec.md §4.2 exactly, including the "requester parks in Idle and retries"
// elected-collector protocol for Active→Exclusive contention.
type stateCoordinator struct {
	lock        Monitor
	activeCount int
	liveCount   int
	exclusive   *Thread
}

func newStateCoordinator(lock Monitor) *stateCoordinator {
	return &stateCoordinator{lock: lock}
}

// Enter transitions th from its current state to next, blocking as the
// table in spec.md §4.2 requires, and is the only way Thread.state changes.
func (sc *stateCoordinator) Enter(th *Thread, next State) {
	sc.lock.Acquire()
	defer sc.lock.Release()

	from := th.state
	switch {
	case from == None && next == Active:
		for sc.exclusive != nil {
			sc.lock.Wait()
		}
		sc.activeCount++
		sc.liveCount++

	case from == Idle && next == Active:
		for sc.exclusive != nil {
			sc.lock.Wait()
		}
		sc.activeCount++

	case from == Active && next == Idle:
		sc.activeCount--
		sc.lock.NotifyAll()

	case from == Active && next == Exclusive:
		for sc.exclusive != nil {
			// Park in Idle while another thread holds Exclusive, so the
			// holder's wait for activeCount==1 can complete, then re-enter
			// Active and retry.
			sc.activeCount--
			sc.lock.NotifyAll()
			for sc.exclusive != nil {
				sc.lock.Wait()
			}
			sc.activeCount++
		}
		sc.exclusive = th
		for sc.activeCount != 1 {
			sc.lock.Wait()
		}

	case from == Exclusive && next == Active:
		sc.exclusive = nil
		sc.lock.NotifyAll()

	case from == Exclusive && (next == Idle || next == Zombie):
		sc.exclusive = nil
		sc.activeCount--
		if next == Zombie {
			sc.liveCount--
		}
		sc.lock.NotifyAll()

	case from == Active && next == Exit:
		sc.activeCount--
		for sc.liveCount != 1 {
			sc.lock.Wait()
		}

	case from == Exclusive && next == Exit:
		sc.exclusive = nil
		sc.activeCount--
		for sc.liveCount != 1 {
			sc.lock.Wait()
		}

	default:
		panic("vm: illegal thread state transition " + from.String() + " -> " + next.String())
	}

	th.state = next
}

// exclusiveHeld reports, under stateLock, whether any thread currently holds
// Exclusive. The allocation safe-point check (spec.md §4.3) reads it to
// decide whether to drop to Idle and re-enter Active.
func (sc *stateCoordinator) exclusiveHeld() bool {
	sc.lock.Acquire()
	defer sc.lock.Release()
	return sc.exclusive != nil
}
