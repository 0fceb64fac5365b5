package node

import (
	"fmt"

	"github.com/mosaicnetworks/gossip/src/net"
	"github.com/sirupsen/logrus"
)

// Core is the message-driven state machine of a node. It owns the
// ReplicationState and the counter from which outbound msg_ids are drawn.
// Core is not safe for concurrent use: Apply and Tick must be serialized by
// the caller.
type Core struct {
	state *ReplicationState

	// lastMsgID is the msg_id of the last envelope this node produced.
	lastMsgID uint64

	// generated counts the identifiers handed out through generate.
	generated uint64

	logger *logrus.Entry
}

// NewCore is a factory method that returns a Core with an empty state.
func NewCore(logger *logrus.Entry) *Core {
	if logger == nil {
		log := logrus.New()
		log.Level = logrus.DebugLevel
		logger = logrus.NewEntry(log)
	}

	return &Core{
		state:  NewReplicationState(),
		logger: logger,
	}
}

// ID returns the node identifier, or "" before the handshake.
func (c *Core) ID() string {
	return c.state.ID()
}

// Values returns a sorted snapshot of the known values.
func (c *Core) Values() []int64 {
	return c.state.Values()
}

// Neighbors returns a copy of the neighbor list.
func (c *Core) Neighbors() []string {
	return c.state.Neighbors()
}

// Acknowledged returns, per neighbor with an entry, the sorted values it is
// known to hold.
func (c *Core) Acknowledged() map[string][]int64 {
	res := make(map[string][]int64, len(c.state.acknowledged))
	for neighbor := range c.state.acknowledged {
		res[neighbor] = c.state.Acknowledged(neighbor)
	}
	return res
}

// State gives read access to the replication state.
func (c *Core) State() *ReplicationState {
	return c.state
}

func (c *Core) nextMsgID() uint64 {
	c.lastMsgID++
	return c.lastMsgID
}

// Apply processes one inbound envelope and returns the reply to send, if any.
// A reply-only payload is rejected with a net.ProtocolError before the state
// is touched; the node must not continue after such an error.
func (c *Core) Apply(env net.Envelope) (*net.Envelope, error) {
	if err := net.Validate(env); err != nil {
		return nil, err
	}

	var reply net.Payload

	switch p := env.Body.Payload.(type) {
	case net.Init:
		c.state.SetID(p.NodeID)
		c.logger.WithFields(logrus.Fields{
			"node_id":  p.NodeID,
			"node_ids": p.NodeIDs,
		}).Debug("Init")
		reply = net.InitOk{}

	case net.Echo:
		reply = net.EchoOk{Echo: p.Echo}

	case net.Generate:
		reply = c.generate()

	case net.Broadcast:
		c.state.Learn(p.Message)
		reply = net.BroadcastOk{}

	case net.Read:
		reply = net.ReadOk{Messages: c.state.Values()}

	case net.Topology:
		if c.state.AdoptTopology(p.Topology) {
			c.logger.WithField("neighbors", c.state.Neighbors()).Debug("Topology")
		} else {
			c.logger.WithField("id", c.state.ID()).Debug("Topology has no entry for this node")
		}
		reply = net.TopologyOk{}

	case net.Gossip:
		added := c.state.LearnAll(p.Messages)
		c.logger.WithFields(logrus.Fields{
			"from":  env.Src,
			"count": len(p.Messages),
			"new":   added,
		}).Debug("Gossip")
		reply = net.GossipOk{Messages: p.Messages}

	case net.GossipOk:
		c.state.Acknowledge(env.Src, p.Messages)
		return nil, nil

	default:
		return nil, fmt.Errorf("no transition for %s from %q", env.Type(), env.Src)
	}

	out := net.NewReply(env, c.nextMsgID(), reply)
	return &out, nil
}

// generate returns an identifier unique across the cluster: node ids are
// unique and the counter never repeats within a node.
func (c *Core) generate() net.Payload {
	id := c.state.ID()
	if id == "" {
		return net.Error{
			Code: net.ErrCodeTemporarilyUnavailable,
			Text: "node not initialised",
		}
	}

	c.generated++
	return net.GenerateOk{ID: fmt.Sprintf("%s-%d", id, c.generated)}
}
