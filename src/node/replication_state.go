package node

import (
	"github.com/mosaicnetworks/gossip/src/common"
)

// ReplicationState is the data a node replicates and what it knows about its
// neighbors. It is owned by a single Core and is not safe for concurrent use;
// the Node serializes every access.
//
// knownValues and every acknowledged set only ever grow.
type ReplicationState struct {
	// identity is empty until the init handshake.
	identity string

	knownValues *common.ValueSet

	// neighbors is replaced wholesale by each topology request.
	neighbors []string

	// acknowledged maps a neighbor to the values it is known to hold. A
	// missing entry means nothing is known about that neighbor.
	acknowledged map[string]*common.ValueSet
}

// NewReplicationState returns an empty state with no identity.
func NewReplicationState() *ReplicationState {
	return &ReplicationState{
		knownValues:  common.NewValueSet(),
		neighbors:    []string{},
		acknowledged: make(map[string]*common.ValueSet),
	}
}

// ID returns the node identifier, or "" before the handshake.
func (s *ReplicationState) ID() string {
	return s.identity
}

// SetID records the identifier assigned by the handshake.
func (s *ReplicationState) SetID(id string) {
	s.identity = id
}

// Learn adds a value and reports whether it was new.
func (s *ReplicationState) Learn(v int64) bool {
	return s.knownValues.Add(v)
}

// LearnAll adds values and returns how many were new.
func (s *ReplicationState) LearnAll(values []int64) int {
	return s.knownValues.AddAll(values)
}

// Values returns a sorted snapshot of the known values.
func (s *ReplicationState) Values() []int64 {
	return s.knownValues.Slice()
}

// ValueCount returns the number of known values.
func (s *ReplicationState) ValueCount() int {
	return s.knownValues.Len()
}

// AdoptTopology replaces the neighbor list with the entry of adjacency keyed
// by this node's identifier. Without an identity, or without an entry, the
// neighbors are left untouched and false is returned.
func (s *ReplicationState) AdoptTopology(adjacency map[string][]string) bool {
	if s.identity == "" {
		return false
	}

	neighbors, ok := adjacency[s.identity]
	if !ok {
		return false
	}

	s.neighbors = append(make([]string, 0, len(neighbors)), neighbors...)
	return true
}

// Neighbors returns a copy of the neighbor list, in configured order.
func (s *ReplicationState) Neighbors() []string {
	return append([]string(nil), s.neighbors...)
}

// Acknowledge records that neighbor holds values, creating its entry if
// needed. It returns how many values were newly acknowledged.
func (s *ReplicationState) Acknowledge(neighbor string, values []int64) int {
	acked, ok := s.acknowledged[neighbor]
	if !ok {
		acked = common.NewValueSet()
		s.acknowledged[neighbor] = acked
	}
	return acked.AddAll(values)
}

// Acknowledged returns the sorted values neighbor is known to hold.
func (s *ReplicationState) Acknowledged(neighbor string) []int64 {
	acked, ok := s.acknowledged[neighbor]
	if !ok {
		return []int64{}
	}
	return acked.Slice()
}

// Unacknowledged returns, sorted, the known values neighbor has not
// acknowledged yet.
func (s *ReplicationState) Unacknowledged(neighbor string) []int64 {
	return s.knownValues.Difference(s.acknowledged[neighbor])
}

// AcknowledgedCounts returns, per neighbor with an entry, the number of
// acknowledged values.
func (s *ReplicationState) AcknowledgedCounts() map[string]int {
	res := make(map[string]int, len(s.acknowledged))
	for n, acked := range s.acknowledged {
		res[n] = acked.Len()
	}
	return res
}
