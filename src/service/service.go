package service

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/mosaicnetworks/gossip/src/node"
	"github.com/sirupsen/logrus"
)

// Service exposes read-only introspection of a node over HTTP.
type Service struct {
	sync.Mutex

	bindAddress string
	node        *node.Node
	mux         *http.ServeMux
	server      *http.Server
	logger      *logrus.Entry
}

// NewService returns a Service serving n on bindAddress. It does not listen
// until Serve is called.
func NewService(bindAddress string, n *node.Node, logger *logrus.Entry) *Service {
	service := Service{
		bindAddress: bindAddress,
		node:        n,
		mux:         http.NewServeMux(),
		logger:      logger,
	}

	service.registerHandlers()

	service.server = &http.Server{
		Addr:    bindAddress,
		Handler: service.mux,
	}

	return &service
}

// registerHandlers registers the API handlers with the Service's own ServeMux,
// so that several nodes can run in the same process.
func (s *Service) registerHandlers() {
	s.logger.Debug("Registering gossip API handlers")
	s.mux.HandleFunc("/stats", s.makeHandler(s.GetStats))
	s.mux.HandleFunc("/values", s.makeHandler(s.GetValues))
	s.mux.HandleFunc("/neighbors", s.makeHandler(s.GetNeighbors))
	s.mux.Handle("/metrics", s.node.Metrics().Handler())
}

func (s *Service) makeHandler(fn func(http.ResponseWriter, *http.Request)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Lock()
		defer s.Unlock()

		// enable CORS
		w.Header().Set("Access-Control-Allow-Origin", "*")

		fn(w, r)
	}
}

// Handler returns the ServeMux carrying every endpoint.
func (s *Service) Handler() http.Handler {
	return s.mux
}

// Serve calls ListenAndServe. This is a blocking call which returns once
// Close is called.
func (s *Service) Serve() {
	err := s.server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		s.logger.Error(err)
	}
}

// Close stops the HTTP server.
func (s *Service) Close() error {
	return s.server.Close()
}

// GetStats returns the node's stats as a flat JSON object.
func (s *Service) GetStats(w http.ResponseWriter, r *http.Request) {
	stats := s.node.GetStats()

	w.Header().Set("Content-Type", "application/json")

	json.NewEncoder(w).Encode(stats)
}

// ValuesResponse is the body of /values.
type ValuesResponse struct {
	ID     string  `json:"id"`
	Values []int64 `json:"values"`
}

// GetValues returns the values known to the node, sorted.
func (s *Service) GetValues(w http.ResponseWriter, r *http.Request) {
	res := ValuesResponse{
		ID:     s.node.ID(),
		Values: s.node.Values(),
	}

	w.Header().Set("Content-Type", "application/json")

	json.NewEncoder(w).Encode(res)
}

// NeighborsResponse is the body of /neighbors.
type NeighborsResponse struct {
	Neighbors    []string           `json:"neighbors"`
	Acknowledged map[string][]int64 `json:"acknowledged"`
}

// GetNeighbors returns the neighbor list and what each neighbor acknowledged.
func (s *Service) GetNeighbors(w http.ResponseWriter, r *http.Request) {
	res := NeighborsResponse{
		Neighbors:    s.node.Neighbors(),
		Acknowledged: s.node.Acknowledged(),
	}

	w.Header().Set("Content-Type", "application/json")

	json.NewEncoder(w).Encode(res)
}
