// Package net defines the messages exchanged by gossip nodes and the
// transports that carry them.
//
// Every message is an Envelope addressed from one node (or client) to another.
// The Body of an Envelope carries an optional msg_id, an optional in_reply_to,
// and a Payload. Payload is a closed set of variants, each identified on the
// wire by a snake_case "type" tag:
//
//  init / init_ok           handshake assigning the node its identifier
//  echo / echo_ok           echo the request back
//  generate / generate_ok   produce a cluster-unique identifier
//  broadcast / broadcast_ok learn a single integer value
//  read / read_ok           return every known value
//  topology / topology_ok   adopt a neighbor list
//  gossip / gossip_ok       anti-entropy push and its acknowledgment
//  error                    a request could not be served
//
// Correlation
//
// A reply swaps the src and dest of its request and sets in_reply_to to the
// request's msg_id. Peers correlate replies only through in_reply_to. A
// reply-only payload (every *_ok variant except gossip_ok, and error) that
// arrives as a fresh request is a protocol violation: there is no valid reply
// to a reply. Validate is the one place where this is checked.
//
// Transports
//
// The Transport interface is used by a node to consume inbound envelopes and
// emit outbound ones. There are two implementations:
//
// - Stdio: one JSON object per line over an io.Reader / io.Writer pair. This
// is what a node uses in production, reading stdin and writing stdout.
//
// - Inmem: in-memory routing between transports in the same process, used to
// test clusters of nodes without going through a byte stream.
package net
