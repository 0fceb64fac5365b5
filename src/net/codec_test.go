package net

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func u64(v uint64) *uint64 { return &v }

func TestDecodeVariants(t *testing.T) {
	c := NewCodec()

	cases := []struct {
		line string
		want Payload
	}{
		{`{"src":"c0","dest":"n1","body":{"type":"init","msg_id":1,"node_id":"n1","node_ids":["n1","n2"]}}`,
			Init{NodeID: "n1", NodeIDs: []string{"n1", "n2"}}},
		{`{"src":"c1","dest":"n1","body":{"type":"echo","msg_id":2,"echo":"hi"}}`,
			Echo{Echo: "hi"}},
		{`{"src":"c1","dest":"n1","body":{"type":"generate","msg_id":2}}`,
			Generate{}},
		{`{"src":"c1","dest":"n1","body":{"type":"broadcast","msg_id":3,"message":-12}}`,
			Broadcast{Message: -12}},
		{`{"src":"c1","dest":"n1","body":{"type":"broadcast","msg_id":3,"message":0}}`,
			Broadcast{Message: 0}},
		{`{"src":"c1","dest":"n1","body":{"type":"read","msg_id":4}}`,
			Read{}},
		{`{"src":"c1","dest":"n1","body":{"type":"topology","msg_id":5,"topology":{"n1":["n2","n3"],"n2":["n1"]}}}`,
			Topology{Topology: map[string][]string{"n1": {"n2", "n3"}, "n2": {"n1"}}}},
		{`{"src":"n2","dest":"n1","body":{"type":"gossip","msg_id":6,"messages":[3,1,2]}}`,
			Gossip{Messages: []int64{3, 1, 2}}},
		{`{"src":"n2","dest":"n1","body":{"type":"gossip_ok","msg_id":7,"in_reply_to":6,"messages":[3]}}`,
			GossipOk{Messages: []int64{3}}},
		{`{"src":"n1","dest":"c1","body":{"type":"read_ok","msg_id":8,"in_reply_to":4,"messages":[]}}`,
			ReadOk{Messages: []int64{}}},
		{`{"src":"n1","dest":"c1","body":{"type":"error","in_reply_to":4,"code":11,"text":"busy"}}`,
			Error{Code: 11, Text: "busy"}},
	}

	for _, tc := range cases {
		env, err := c.Decode([]byte(tc.line))
		require.NoError(t, err, tc.line)
		assert.Equal(t, tc.want, env.Body.Payload, tc.line)
	}
}

func TestDecodeCorrelation(t *testing.T) {
	c := NewCodec()

	env, err := c.Decode([]byte(`{"src":"n2","dest":"c1","body":{"type":"broadcast_ok","msg_id":12,"in_reply_to":3}}`))
	require.NoError(t, err)

	assert.Equal(t, "n2", env.Src)
	assert.Equal(t, "c1", env.Dest)
	assert.Equal(t, u64(12), env.Body.MsgID)
	assert.Equal(t, u64(3), env.Body.InReplyTo)
	assert.True(t, env.IsReply())

	env, err = c.Decode([]byte(`{"src":"c1","dest":"n1","body":{"type":"read"}}`))
	require.NoError(t, err)
	assert.Nil(t, env.Body.MsgID)
	assert.Nil(t, env.Body.InReplyTo)
	assert.False(t, env.IsReply())
}

func TestDecodeErrors(t *testing.T) {
	c := NewCodec()

	lines := []string{
		`not json`,
		`{"src":"c1","dest":"n1","body":{"msg_id":1}}`,
		`{"src":"c1","dest":"n1","body":{"type":"teleport","msg_id":1}}`,
		`{"src":"c1","dest":"n1","body":{"type":"broadcast","msg_id":1}}`,
		`{"src":"c0","dest":"n1","body":{"type":"init","msg_id":1}}`,
		`{"src":"n1","dest":"c1","body":{"type":"error","text":"no code"}}`,
	}

	for _, line := range lines {
		_, err := c.Decode([]byte(line))
		assert.Error(t, err, line)
	}
}

func TestDecodeValueRange(t *testing.T) {
	c := NewCodec()

	env, err := c.Decode([]byte(`{"src":"c1","dest":"n1","body":{"type":"broadcast","msg_id":1,"message":9223372036854775807}}`))
	require.NoError(t, err)
	assert.Equal(t, Broadcast{Message: 9223372036854775807}, env.Body.Payload)

	// Values are signed 64-bit; anything wider is a decode error.
	_, err = c.Decode([]byte(`{"src":"c1","dest":"n1","body":{"type":"broadcast","msg_id":1,"message":18446744073709551615}}`))
	assert.Error(t, err)
}

func TestDecodeIgnoresUnknownFields(t *testing.T) {
	c := NewCodec()

	env, err := c.Decode([]byte(`{"id":7,"src":"c1","dest":"n1","body":{"type":"read","msg_id":1,"extra":true}}`))
	require.NoError(t, err)
	assert.Equal(t, Read{}, env.Body.Payload)
}

func TestEncode(t *testing.T) {
	c := NewCodec()

	req := NewEnvelope("c1", "n1", 3, Read{})
	reply := NewReply(req, 9, ReadOk{Messages: nil})

	b, err := c.Encode(reply)
	require.NoError(t, err)

	s := string(b)
	assert.False(t, strings.HasSuffix(s, "\n"))
	assert.Contains(t, s, `"src":"n1"`)
	assert.Contains(t, s, `"dest":"c1"`)
	assert.Contains(t, s, `"type":"read_ok"`)
	assert.Contains(t, s, `"msg_id":9`)
	assert.Contains(t, s, `"in_reply_to":3`)
	assert.Contains(t, s, `"messages":[]`)
}

func TestEncodeOmitsAbsentCorrelation(t *testing.T) {
	c := NewCodec()

	env := Envelope{Src: "n1", Dest: "n2", Body: Body{Payload: Gossip{Messages: []int64{1}}}}

	b, err := c.Encode(env)
	require.NoError(t, err)

	s := string(b)
	assert.NotContains(t, s, "msg_id")
	assert.NotContains(t, s, "in_reply_to")
	assert.Contains(t, s, `"messages":[1]`)
}

func TestEncodeIsDeterministic(t *testing.T) {
	c := NewCodec()

	env := NewEnvelope("c0", "n1", 1, Topology{Topology: map[string][]string{
		"n3": {"n2"},
		"n1": {"n2"},
		"n2": {"n1", "n3"},
	}})

	first, err := c.Encode(env)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := c.Encode(env)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestEncodeDecode(t *testing.T) {
	c := NewCodec()

	envs := []Envelope{
		NewEnvelope("c0", "n1", 1, Init{NodeID: "n1", NodeIDs: []string{"n1"}}),
		NewReply(NewEnvelope("c1", "n1", 2, Echo{Echo: "x"}), 5, EchoOk{Echo: "x"}),
		NewReply(NewEnvelope("c1", "n1", 2, Generate{}), 6, GenerateOk{ID: "n1-1"}),
		NewEnvelope("n1", "n2", 3, Gossip{Messages: []int64{7, -7}}),
		NewReply(NewEnvelope("c1", "n1", 4, Read{}), 7, Error{Code: ErrCodeTemporarilyUnavailable, Text: "later"}),
	}

	for _, env := range envs {
		b, err := c.Encode(env)
		require.NoError(t, err)

		got, err := c.Decode(b)
		require.NoError(t, err, string(b))
		assert.Equal(t, env, got, string(b))
	}
}

func TestEncodeMissingPayload(t *testing.T) {
	_, err := NewCodec().Encode(Envelope{Src: "n1", Dest: "c1"})
	assert.Error(t, err)
}
