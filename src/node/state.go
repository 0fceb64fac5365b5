package node

import (
	"sync/atomic"
)

// State captures the lifecycle of a node: Joining, Gossiping or Shutdown.
type State uint32

const (
	// Joining is the initial state: the node is listening but has not
	// received its identity yet.
	Joining State = iota
	// Gossiping means the handshake completed and anti-entropy rounds run.
	Gossiping
	// Shutdown is terminal.
	Shutdown
)

// String returns the name of the state, as shown in the stats.
func (s State) String() string {
	switch s {
	case Joining:
		return "Joining"
	case Gossiping:
		return "Gossiping"
	case Shutdown:
		return "Shutdown"
	default:
		return "Unknown"
	}
}

type state struct {
	state State
}

func (b *state) getState() State {
	stateAddr := (*uint32)(&b.state)
	return State(atomic.LoadUint32(stateAddr))
}

func (b *state) setState(s State) {
	stateAddr := (*uint32)(&b.state)
	atomic.StoreUint32(stateAddr, uint32(s))
}
