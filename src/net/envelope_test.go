package net

import (
	"errors"
	"testing"
)

func TestNewReply(t *testing.T) {
	req := NewEnvelope("c1", "n1", 41, Broadcast{Message: 1})

	reply := NewReply(req, 2, BroadcastOk{})

	if reply.Src != "n1" || reply.Dest != "c1" {
		t.Fatalf("src/dest should be swapped, got %s -> %s", reply.Src, reply.Dest)
	}
	if reply.Body.InReplyTo == nil || *reply.Body.InReplyTo != 41 {
		t.Fatalf("in_reply_to should be 41")
	}
	if *reply.Body.MsgID != 2 {
		t.Fatalf("msg_id should be 2, not %d", *reply.Body.MsgID)
	}

	// The reply must not alias the request's msg_id.
	*req.Body.MsgID = 100
	if *reply.Body.InReplyTo != 41 {
		t.Fatalf("in_reply_to aliased the request msg_id")
	}
}

func TestValidate(t *testing.T) {
	requests := []Payload{
		Init{NodeID: "n1"}, Echo{}, Generate{}, Broadcast{}, Read{},
		Topology{}, Gossip{}, GossipOk{},
	}
	for _, p := range requests {
		if err := Validate(NewEnvelope("c1", "n1", 1, p)); err != nil {
			t.Fatalf("%s should be accepted: %v", p.Type(), err)
		}
	}

	replies := []Payload{
		InitOk{}, EchoOk{}, GenerateOk{}, BroadcastOk{}, ReadOk{},
		TopologyOk{}, Error{},
	}
	for _, p := range replies {
		err := Validate(NewEnvelope("c1", "n1", 1, p))
		if err == nil {
			t.Fatalf("%s should be rejected", p.Type())
		}
		if !errors.Is(err, ErrProtocolViolation) {
			t.Fatalf("%s: expected a protocol violation, got %v", p.Type(), err)
		}
		if !IsProtocol(err, UnexpectedReply) || IsProtocol(err, MissingPayload) {
			t.Fatalf("%s: wrong protocol error type: %v", p.Type(), err)
		}
	}

	err := Validate(Envelope{Src: "c1", Dest: "n1"})
	if !IsProtocol(err, MissingPayload) {
		t.Fatalf("expected MissingPayload, got %v", err)
	}
}
