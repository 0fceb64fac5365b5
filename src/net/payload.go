package net

// Wire tags of the payload variants.
const (
	TypeInit        = "init"
	TypeInitOk      = "init_ok"
	TypeEcho        = "echo"
	TypeEchoOk      = "echo_ok"
	TypeGenerate    = "generate"
	TypeGenerateOk  = "generate_ok"
	TypeBroadcast   = "broadcast"
	TypeBroadcastOk = "broadcast_ok"
	TypeRead        = "read"
	TypeReadOk      = "read_ok"
	TypeTopology    = "topology"
	TypeTopologyOk  = "topology_ok"
	TypeGossip      = "gossip"
	TypeGossipOk    = "gossip_ok"
	TypeError       = "error"
)

// Error codes carried by an Error payload.
const (
	ErrCodeTemporarilyUnavailable = 11
	ErrCodeCrash                  = 13
)

// Payload is the closed set of message bodies a node understands. The
// unexported method keeps implementations inside this package.
type Payload interface {
	// Type returns the snake_case wire tag of the variant.
	Type() string

	payload()
}

// Init is sent once by the cluster to tell a node who it is and who else
// takes part.
type Init struct {
	NodeID  string
	NodeIDs []string
}

// InitOk acknowledges Init.
type InitOk struct{}

// Echo asks the node to send Echo back.
type Echo struct {
	Echo string
}

// EchoOk carries the echoed string.
type EchoOk struct {
	Echo string
}

// Generate asks the node for a cluster-unique identifier.
type Generate struct{}

// GenerateOk carries a generated identifier.
type GenerateOk struct {
	ID string
}

// Broadcast asks the node to learn Message.
type Broadcast struct {
	Message int64
}

// BroadcastOk acknowledges Broadcast.
type BroadcastOk struct{}

// Read asks for every value the node knows.
type Read struct{}

// ReadOk carries a snapshot of the known values. Order is irrelevant.
type ReadOk struct {
	Messages []int64
}

// Topology maps every node identifier to its neighbor list. A node only
// looks at its own entry.
type Topology struct {
	Topology map[string][]string
}

// TopologyOk acknowledges Topology.
type TopologyOk struct{}

// Gossip pushes values the sender believes the receiver may be missing.
type Gossip struct {
	Messages []int64
}

// GossipOk echoes back exactly the values of the Gossip it answers.
type GossipOk struct {
	Messages []int64
}

// Error reports that a request could not be served.
type Error struct {
	Code int
	Text string
}

func (Init) Type() string        { return TypeInit }
func (InitOk) Type() string      { return TypeInitOk }
func (Echo) Type() string        { return TypeEcho }
func (EchoOk) Type() string      { return TypeEchoOk }
func (Generate) Type() string    { return TypeGenerate }
func (GenerateOk) Type() string  { return TypeGenerateOk }
func (Broadcast) Type() string   { return TypeBroadcast }
func (BroadcastOk) Type() string { return TypeBroadcastOk }
func (Read) Type() string        { return TypeRead }
func (ReadOk) Type() string      { return TypeReadOk }
func (Topology) Type() string    { return TypeTopology }
func (TopologyOk) Type() string  { return TypeTopologyOk }
func (Gossip) Type() string      { return TypeGossip }
func (GossipOk) Type() string    { return TypeGossipOk }
func (Error) Type() string       { return TypeError }

func (Init) payload()        {}
func (InitOk) payload()      {}
func (Echo) payload()        {}
func (EchoOk) payload()      {}
func (Generate) payload()    {}
func (GenerateOk) payload()  {}
func (Broadcast) payload()   {}
func (BroadcastOk) payload() {}
func (Read) payload()        {}
func (ReadOk) payload()      {}
func (Topology) payload()    {}
func (TopologyOk) payload()  {}
func (Gossip) payload()      {}
func (GossipOk) payload()    {}
func (Error) payload()       {}

// IsReplyOnly reports whether p may only ever appear as the answer to a
// request. GossipOk is excluded: nodes consume it as an acknowledgment.
func IsReplyOnly(p Payload) bool {
	switch p.(type) {
	case InitOk, EchoOk, GenerateOk, BroadcastOk, ReadOk, TopologyOk, Error:
		return true
	default:
		return false
	}
}
