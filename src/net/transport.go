package net

// Transport provides an interface for network transports
// to allow a node to communicate with other nodes and clients.
type Transport interface {

	// Starts the transport listening
	Listen()

	// Consumer returns a channel of inbound envelopes, in arrival order.
	Consumer() <-chan Envelope

	// Errors returns a channel on which the transport reports conditions that
	// end its inbound stream: io.EOF when the input is exhausted, or the
	// decoding/IO error that made it unusable. It may be nil if the transport
	// never fails.
	Errors() <-chan error

	// Send hands a fully formed envelope to the transport. A nil error does
	// not mean the envelope was delivered.
	Send(env Envelope) error

	// Close permanently closes a transport, stopping
	// any associated goroutines and freeing other resources.
	Close() error
}
