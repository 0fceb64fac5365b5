package net

import (
	"errors"
	"fmt"
)

var (
	// ErrTransportShutdown is returned when operations on a transport are
	// invoked after it's been terminated.
	ErrTransportShutdown = errors.New("transport shutdown")

	// ErrProtocolViolation is matched by every ProtocolError.
	ErrProtocolViolation = errors.New("protocol violation")
)

// ProtocolErrType classifies a ProtocolError.
type ProtocolErrType uint32

const (
	// UnexpectedReply is a reply-only payload received as a fresh request.
	UnexpectedReply ProtocolErrType = iota
	// MissingPayload is an envelope without a body payload.
	MissingPayload
)

// ProtocolError describes an inbound envelope that breaks the request/reply
// contract. It is fatal to the node.
type ProtocolError struct {
	errType ProtocolErrType
	msgType string
	src     string
}

// NewProtocolError returns a ProtocolError for env.
func NewProtocolError(env Envelope, t ProtocolErrType) *ProtocolError {
	return &ProtocolError{
		errType: t,
		msgType: env.Type(),
		src:     env.Src,
	}
}

// Error implements the error interface.
func (e *ProtocolError) Error() string {
	m := ""
	switch e.errType {
	case UnexpectedReply:
		m = "received reply-only payload as a request"
	case MissingPayload:
		m = "missing payload"
	}

	return fmt.Sprintf("%s: %s from %q: %s", ErrProtocolViolation, e.msgType, e.src, m)
}

// Is makes errors.Is(err, ErrProtocolViolation) true for every ProtocolError.
func (e *ProtocolError) Is(target error) bool {
	return target == ErrProtocolViolation
}

// IsProtocol checks that err is a ProtocolError and that its type matches t.
func IsProtocol(err error, t ProtocolErrType) bool {
	var perr *ProtocolError
	return errors.As(err, &perr) && perr.errType == t
}
