// Package node implements the reactive part of a gossip node.
//
// A node keeps a grow-only set of integer values and replicates it to the
// neighbors assigned by the cluster topology, so that every connected node
// eventually holds every value broadcast anywhere in the cluster.
//
// Core
//
// Core is a plain state machine. Apply consumes one inbound envelope and
// returns at most one reply; Tick runs one anti-entropy round and returns the
// gossip messages to push. Core never performs IO, which makes it trivial to
// drive from tests.
//
// Anti-Entropy
//
// For every neighbor, the node remembers which values that neighbor has
// acknowledged. Each round pushes the difference between the known values and
// the acknowledged ones, and the neighbor answers with a GossipOk echoing what
// it received. Only that echo advances the acknowledgment, so any lost message
// is simply repaired by a later round and the pushes stop once a neighbor is
// up to date.
//
// Node
//
// Node wraps a Core with a transport and a ControlTimer. A single goroutine
// selects over inbound envelopes, transport errors and timer ticks, and runs
// each transition under coreLock so that the HTTP service can read consistent
// snapshots.
//
// Lifecycle
//
//	Joining:   listening, identity not assigned yet
//	Gossiping: identity assigned by init, anti-entropy rounds running
//	Shutdown:  end of input, fatal error, or explicit Shutdown
package node
