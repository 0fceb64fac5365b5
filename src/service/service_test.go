package service

import (
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mosaicnetworks/gossip/src/common"
	"github.com/mosaicnetworks/gossip/src/net"
	"github.com/mosaicnetworks/gossip/src/node"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startNode(t *testing.T) (*node.Node, <-chan error) {
	trans := net.NewInmemTransport("n1", 64)
	n := node.NewNode(node.TestConfig(t), trans, nil)
	n.Init()
	done := n.RunAsync()

	trans.Deliver(net.NewEnvelope("c0", "n1", 1, net.Init{NodeID: "n1", NodeIDs: []string{"n1", "n2"}}))
	trans.Deliver(net.NewEnvelope("c0", "n1", 2, net.Topology{Topology: map[string][]string{"n1": {"n2"}}}))
	trans.Deliver(net.NewEnvelope("c1", "n1", 3, net.Broadcast{Message: 8}))
	trans.Deliver(net.NewEnvelope("c1", "n1", 4, net.Broadcast{Message: 2}))
	trans.Deliver(net.NewEnvelope("n2", "n1", 1, net.GossipOk{Messages: []int64{2}}))

	require.Eventually(t, func() bool {
		return len(n.Acknowledged()["n2"]) == 1 && len(n.Values()) == 2
	}, 5*time.Second, 5*time.Millisecond)

	return n, done
}

func stop(t *testing.T, n *node.Node, done <-chan error) {
	n.Shutdown()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("node did not stop")
	}
}

func get(t *testing.T, srv *httptest.Server, path string) []byte {
	resp, err := http.Get(srv.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := ioutil.ReadAll(resp.Body)
	require.NoError(t, err)
	return body
}

func TestServiceEndpoints(t *testing.T) {
	n, done := startNode(t)
	defer stop(t, n, done)

	s := NewService("127.0.0.1:0", n, common.NewTestEntry(t, "service"))
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	var stats map[string]string
	require.NoError(t, json.Unmarshal(get(t, srv, "/stats"), &stats))
	assert.Equal(t, "n1", stats["id"])
	assert.Equal(t, "2", stats["values"])
	assert.Equal(t, "1", stats["neighbors"])

	var values ValuesResponse
	require.NoError(t, json.Unmarshal(get(t, srv, "/values"), &values))
	assert.Equal(t, ValuesResponse{ID: "n1", Values: []int64{2, 8}}, values)

	var neighbors NeighborsResponse
	require.NoError(t, json.Unmarshal(get(t, srv, "/neighbors"), &neighbors))
	assert.Equal(t, []string{"n2"}, neighbors.Neighbors)
	assert.Equal(t, []int64{2}, neighbors.Acknowledged["n2"])

	metrics := string(get(t, srv, "/metrics"))
	assert.True(t, strings.Contains(metrics, "gossip_values_known 2"), metrics)
}

func TestServicesDoNotShareHandlers(t *testing.T) {
	n, done := startNode(t)
	defer stop(t, n, done)

	// Registering twice on http.DefaultServeMux would panic.
	a := NewService("127.0.0.1:0", n, common.NewTestEntry(t, "a"))
	b := NewService("127.0.0.1:0", n, common.NewTestEntry(t, "b"))
	assert.NotSame(t, a.Handler(), b.Handler())
}
