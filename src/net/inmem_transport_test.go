package net

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInmemTransportRouting(t *testing.T) {
	a := NewInmemTransport("n1", 4)
	b := NewInmemTransport("n2", 4)
	ConnectAll(a, b)

	require.NoError(t, a.Send(NewEnvelope("n1", "n2", 1, Gossip{Messages: []int64{1}})))
	env := <-b.Consumer()
	assert.Equal(t, "n1", env.Src)

	// Unknown destinations land in the outbox.
	require.NoError(t, a.Send(NewEnvelope("n1", "c1", 2, BroadcastOk{})))
	out := <-a.Outbox()
	assert.Equal(t, "c1", out.Dest)

	assert.Nil(t, a.Errors())
}

func TestInmemTransportDropsWhenFull(t *testing.T) {
	a := NewInmemTransport("n1", 1)
	b := NewInmemTransport("n2", 1)
	a.Connect("n2", b)

	require.NoError(t, a.Send(NewEnvelope("n1", "n2", 1, Read{})))
	require.NoError(t, a.Send(NewEnvelope("n1", "n2", 2, Read{})))
	assert.Equal(t, 1, a.Dropped())
	assert.Len(t, b.Consumer(), 1)

	require.NoError(t, a.Send(NewEnvelope("n1", "c1", 3, Read{})))
	assert.Error(t, a.Send(NewEnvelope("n1", "c1", 4, Read{})))
	assert.Equal(t, 2, a.Dropped())
}

func TestInmemTransportDisconnect(t *testing.T) {
	a := NewInmemTransport("n1", 4)
	b := NewInmemTransport("n2", 4)
	ConnectAll(a, b)

	a.Disconnect("n2")
	require.NoError(t, a.Send(NewEnvelope("n1", "n2", 1, Read{})))
	assert.Len(t, b.Consumer(), 0)
	assert.Len(t, a.Outbox(), 1)

	require.NoError(t, a.Close())
	assert.Equal(t, ErrTransportShutdown, a.Send(NewEnvelope("n1", "n2", 2, Read{})))
}
