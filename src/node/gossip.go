package node

import (
	"github.com/mosaicnetworks/gossip/src/net"
)

// Tick runs one anti-entropy round. For every neighbor, in configured order,
// it computes the known values the neighbor has not acknowledged and returns
// a fresh Gossip envelope carrying them. Neighbors with nothing new are
// skipped, so a fully acknowledged neighbor costs nothing.
//
// Acknowledgments only advance on GossipOk, so a lost Gossip or GossipOk is
// repaired by the next round resending the same values.
func (c *Core) Tick() []net.Envelope {
	id := c.state.ID()
	if id == "" {
		return nil
	}

	var out []net.Envelope
	for _, neighbor := range c.state.Neighbors() {
		delta := c.state.Unacknowledged(neighbor)
		if len(delta) == 0 {
			continue
		}

		out = append(out, net.NewEnvelope(id, neighbor, c.nextMsgID(), net.Gossip{Messages: delta}))
	}

	return out
}
