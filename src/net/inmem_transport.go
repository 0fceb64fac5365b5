package net

import (
	"fmt"
	"sync"
)

const defaultOutboxSize = 1024

// InmemTransport Implements the Transport interface, to allow nodes to be
// tested in-memory without going through a byte stream. Transports are
// connected to each other by node id. Envelopes addressed to an id with no
// connected transport (typically a client) are delivered to the Outbox.
//
// Delivery never blocks: when the receiving inbox is full the envelope is
// dropped, the same way a lossy network would lose it.
type InmemTransport struct {
	sync.RWMutex
	consumerCh chan Envelope
	outboxCh   chan Envelope
	localAddr  string
	peers      map[string]*InmemTransport
	dropped    int
	shutdown   bool
}

// NewInmemTransport is used to initialize a new transport for the node
// identified by addr. size is the capacity of the inbox and of the outbox.
func NewInmemTransport(addr string, size int) *InmemTransport {
	if size <= 0 {
		size = defaultOutboxSize
	}
	return &InmemTransport{
		consumerCh: make(chan Envelope, size),
		outboxCh:   make(chan Envelope, size),
		localAddr:  addr,
		peers:      make(map[string]*InmemTransport),
	}
}

// Listen is an empty function as there is no need to defer
// initialisation of the InMem service
func (i *InmemTransport) Listen() {
}

// Consumer implements the Transport interface.
func (i *InmemTransport) Consumer() <-chan Envelope {
	return i.consumerCh
}

// Errors implements the Transport interface. An in-memory transport never
// fails, so the channel is nil.
func (i *InmemTransport) Errors() <-chan error {
	return nil
}

// LocalAddr returns the node id this transport was created for.
func (i *InmemTransport) LocalAddr() string {
	return i.localAddr
}

// Outbox returns the envelopes sent to destinations that are not connected.
func (i *InmemTransport) Outbox() <-chan Envelope {
	return i.outboxCh
}

// Deliver places env in this transport's inbox as if a peer had sent it.
func (i *InmemTransport) Deliver(env Envelope) bool {
	select {
	case i.consumerCh <- env:
		return true
	default:
		return false
	}
}

// Send implements the Transport interface.
func (i *InmemTransport) Send(env Envelope) error {
	i.RLock()
	peer, ok := i.peers[env.Dest]
	shutdown := i.shutdown
	i.RUnlock()

	if shutdown {
		return ErrTransportShutdown
	}

	if !ok {
		select {
		case i.outboxCh <- env:
			return nil
		default:
			i.countDrop()
			return fmt.Errorf("outbox full, dropped %s to %s", env.Type(), env.Dest)
		}
	}

	if !peer.Deliver(env) {
		i.countDrop()
	}
	return nil
}

func (i *InmemTransport) countDrop() {
	i.Lock()
	defer i.Unlock()
	i.dropped++
}

// Dropped returns how many envelopes could not be delivered.
func (i *InmemTransport) Dropped() int {
	i.RLock()
	defer i.RUnlock()
	return i.dropped
}

// Connect is used to connect this transport to another transport for
// a given peer name. This allows for local routing.
func (i *InmemTransport) Connect(peer string, t *InmemTransport) {
	i.Lock()
	defer i.Unlock()
	i.peers[peer] = t
}

// Disconnect is used to remove the ability to route to a given peer.
// Envelopes for it go to the Outbox from then on.
func (i *InmemTransport) Disconnect(peer string) {
	i.Lock()
	defer i.Unlock()
	delete(i.peers, peer)
}

// DisconnectAll is used to remove all routes to peers.
func (i *InmemTransport) DisconnectAll() {
	i.Lock()
	defer i.Unlock()
	i.peers = make(map[string]*InmemTransport)
}

// Close is used to permanently disable the transport
func (i *InmemTransport) Close() error {
	i.DisconnectAll()

	i.Lock()
	defer i.Unlock()
	i.shutdown = true
	return nil
}

// ConnectAll connects every transport to every other one.
func ConnectAll(transports ...*InmemTransport) {
	for _, a := range transports {
		for _, b := range transports {
			if a != b {
				a.Connect(b.LocalAddr(), b)
			}
		}
	}
}
