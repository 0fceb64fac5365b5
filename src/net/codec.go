package net

import (
	"fmt"

	"github.com/ugorji/go/codec"
)

// wireEnvelope and wireBody mirror the JSON layout of a message. wireBody is
// the union of all variant fields; the type tag decides which of them are
// meaningful.
type wireEnvelope struct {
	Src  string   `codec:"src"`
	Dest string   `codec:"dest"`
	Body wireBody `codec:"body"`
}

type wireBody struct {
	Type      string              `codec:"type"`
	MsgID     *uint64             `codec:"msg_id"`
	InReplyTo *uint64             `codec:"in_reply_to"`
	NodeID    string              `codec:"node_id"`
	NodeIDs   []string            `codec:"node_ids"`
	Echo      string              `codec:"echo"`
	ID        string              `codec:"id"`
	Message   *int64              `codec:"message"`
	Messages  []int64             `codec:"messages"`
	Topology  map[string][]string `codec:"topology"`
	Code      *int                `codec:"code"`
	Text      string              `codec:"text"`
}

type wireEnvelopeOut struct {
	Src  string                 `codec:"src"`
	Dest string                 `codec:"dest"`
	Body map[string]interface{} `codec:"body"`
}

// Codec translates between Envelopes and their single-line JSON encoding.
// A Codec is safe for concurrent use.
type Codec struct {
	handle *codec.JsonHandle
}

// NewCodec returns a JSON Codec. Map keys are written in sorted order so that
// the same envelope always encodes to the same bytes.
func NewCodec() *Codec {
	jh := new(codec.JsonHandle)
	jh.Canonical = true
	return &Codec{handle: jh}
}

// Encode returns the JSON encoding of env, without a trailing newline.
func (c *Codec) Encode(env Envelope) ([]byte, error) {
	if env.Body.Payload == nil {
		return nil, fmt.Errorf("encoding envelope to %q: missing payload", env.Dest)
	}

	body := map[string]interface{}{
		"type": env.Body.Payload.Type(),
	}
	if env.Body.MsgID != nil {
		body["msg_id"] = *env.Body.MsgID
	}
	if env.Body.InReplyTo != nil {
		body["in_reply_to"] = *env.Body.InReplyTo
	}

	switch p := env.Body.Payload.(type) {
	case Init:
		body["node_id"] = p.NodeID
		body["node_ids"] = nonNilStrings(p.NodeIDs)
	case Echo:
		body["echo"] = p.Echo
	case EchoOk:
		body["echo"] = p.Echo
	case GenerateOk:
		body["id"] = p.ID
	case Broadcast:
		body["message"] = p.Message
	case ReadOk:
		body["messages"] = nonNilValues(p.Messages)
	case Topology:
		topology := p.Topology
		if topology == nil {
			topology = map[string][]string{}
		}
		body["topology"] = topology
	case Gossip:
		body["messages"] = nonNilValues(p.Messages)
	case GossipOk:
		body["messages"] = nonNilValues(p.Messages)
	case Error:
		body["code"] = p.Code
		if p.Text != "" {
			body["text"] = p.Text
		}
	}

	out := wireEnvelopeOut{
		Src:  env.Src,
		Dest: env.Dest,
		Body: body,
	}

	var b []byte
	if err := codec.NewEncoderBytes(&b, c.handle).Encode(out); err != nil {
		return nil, fmt.Errorf("encoding %s envelope: %w", env.Type(), err)
	}
	return b, nil
}

// Decode parses a single JSON-encoded envelope. Unknown type tags and
// variants missing a required field are errors.
func (c *Codec) Decode(data []byte) (Envelope, error) {
	var w wireEnvelope
	if err := codec.NewDecoderBytes(data, c.handle).Decode(&w); err != nil {
		return Envelope{}, fmt.Errorf("decoding envelope: %w", err)
	}

	payload, err := w.Body.payload()
	if err != nil {
		return Envelope{}, err
	}

	return Envelope{
		Src:  w.Src,
		Dest: w.Dest,
		Body: Body{
			MsgID:     w.Body.MsgID,
			InReplyTo: w.Body.InReplyTo,
			Payload:   payload,
		},
	}, nil
}

func (b *wireBody) payload() (Payload, error) {
	switch b.Type {
	case TypeInit:
		if b.NodeID == "" {
			return nil, missingField(b.Type, "node_id")
		}
		return Init{NodeID: b.NodeID, NodeIDs: b.NodeIDs}, nil
	case TypeInitOk:
		return InitOk{}, nil
	case TypeEcho:
		return Echo{Echo: b.Echo}, nil
	case TypeEchoOk:
		return EchoOk{Echo: b.Echo}, nil
	case TypeGenerate:
		return Generate{}, nil
	case TypeGenerateOk:
		return GenerateOk{ID: b.ID}, nil
	case TypeBroadcast:
		if b.Message == nil {
			return nil, missingField(b.Type, "message")
		}
		return Broadcast{Message: *b.Message}, nil
	case TypeBroadcastOk:
		return BroadcastOk{}, nil
	case TypeRead:
		return Read{}, nil
	case TypeReadOk:
		return ReadOk{Messages: b.Messages}, nil
	case TypeTopology:
		return Topology{Topology: b.Topology}, nil
	case TypeTopologyOk:
		return TopologyOk{}, nil
	case TypeGossip:
		return Gossip{Messages: b.Messages}, nil
	case TypeGossipOk:
		return GossipOk{Messages: b.Messages}, nil
	case TypeError:
		if b.Code == nil {
			return nil, missingField(b.Type, "code")
		}
		return Error{Code: *b.Code, Text: b.Text}, nil
	case "":
		return nil, fmt.Errorf("decoding envelope: missing type tag")
	default:
		return nil, fmt.Errorf("decoding envelope: unknown type %q", b.Type)
	}
}

func missingField(msgType, field string) error {
	return fmt.Errorf("decoding %s envelope: missing %q", msgType, field)
}

func nonNilValues(v []int64) []int64 {
	if v == nil {
		return []int64{}
	}
	return v
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
