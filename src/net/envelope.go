package net

// Envelope is an addressed message.
type Envelope struct {
	Src  string
	Dest string
	Body Body
}

// Body holds the correlation identifiers and the payload of an Envelope.
// MsgID is set by the sender of a fresh request; InReplyTo is only set on
// replies.
type Body struct {
	MsgID     *uint64
	InReplyTo *uint64
	Payload   Payload
}

// NewEnvelope returns a fresh (non-reply) envelope.
func NewEnvelope(src, dest string, msgID uint64, payload Payload) Envelope {
	return Envelope{
		Src:  src,
		Dest: dest,
		Body: Body{
			MsgID:   &msgID,
			Payload: payload,
		},
	}
}

// NewReply builds the answer to req: src and dest are swapped, in_reply_to
// echoes the request's msg_id, and the reply gets msgID as its own
// identifier.
func NewReply(req Envelope, msgID uint64, payload Payload) Envelope {
	var inReplyTo *uint64
	if req.Body.MsgID != nil {
		id := *req.Body.MsgID
		inReplyTo = &id
	}

	return Envelope{
		Src:  req.Dest,
		Dest: req.Src,
		Body: Body{
			MsgID:     &msgID,
			InReplyTo: inReplyTo,
			Payload:   payload,
		},
	}
}

// IsReply reports whether the envelope answers an earlier request.
func (e Envelope) IsReply() bool {
	return e.Body.InReplyTo != nil
}

// Type returns the wire tag of the payload, or "" if there is none.
func (e Envelope) Type() string {
	if e.Body.Payload == nil {
		return ""
	}
	return e.Body.Payload.Type()
}

// Validate checks that env may be processed as a fresh request. Reply-only
// payloads are rejected with a ProtocolError.
func Validate(env Envelope) error {
	if env.Body.Payload == nil {
		return NewProtocolError(env, MissingPayload)
	}
	if IsReplyOnly(env.Body.Payload) {
		return NewProtocolError(env, UnexpectedReply)
	}
	return nil
}
