package node

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mosaicnetworks/gossip/src/net"
	"github.com/mosaicnetworks/gossip/src/telemetry"
	"github.com/sirupsen/logrus"
)

// Node defines a gossip node
type Node struct {
	state

	conf   *Config
	logger *logrus.Entry

	core     *Core
	coreLock sync.Mutex

	trans net.Transport
	netCh <-chan net.Envelope
	errCh <-chan error

	metrics *telemetry.Metrics

	shutdownCh   chan struct{}
	shutdownOnce sync.Once

	controlTimer *ControlTimer

	start        time.Time
	received     uint64
	sent         uint64
	sendErrors   uint64
	gossipRounds uint64
}

// NewNode is a factory method that returns a Node instance. A nil metrics
// gets a private registry.
func NewNode(conf *Config, trans net.Transport, metrics *telemetry.Metrics) *Node {
	if metrics == nil {
		metrics = telemetry.NewMetrics()
	}

	node := Node{
		conf:         conf,
		logger:       conf.Logger,
		core:         NewCore(conf.Logger.WithField("component", "core")),
		trans:        trans,
		netCh:        trans.Consumer(),
		errCh:        trans.Errors(),
		metrics:      metrics,
		shutdownCh:   make(chan struct{}),
		controlTimer: NewFixedControlTimer(),
	}

	return &node
}

// Init starts the transport listener. The node stays in the Joining state
// until an init request assigns its identifier.
func (n *Node) Init() {
	n.trans.Listen()

	n.setState(Joining)
	n.start = time.Now()
}

// RunAsync calls Run in a separate goroutine and reports its result on the
// returned channel.
func (n *Node) RunAsync() <-chan error {
	res := make(chan error, 1)
	go func() {
		res <- n.Run()
	}()
	return res
}

// Run invokes the main loop of the node. It returns nil once the input is
// exhausted or Shutdown is called, and the fatal error otherwise.
func (n *Node) Run() error {
	go n.controlTimer.Run(n.conf.GossipInterval)

	for {
		select {
		case env := <-n.netCh:
			if err := n.processEnvelope(env); err != nil {
				n.Shutdown()
				return err
			}
		case err := <-n.errCh:
			// Everything read before the failure is already queued.
			if derr := n.drain(); derr != nil {
				n.Shutdown()
				return derr
			}
			n.Shutdown()
			if errors.Is(err, io.EOF) {
				n.logger.Debug("End of input")
				return nil
			}
			n.logger.WithError(err).Error("Transport failure")
			return fmt.Errorf("transport: %w", err)
		case <-n.controlTimer.tickCh:
			n.gossip()
			n.controlTimer.Reset(n.conf.GossipInterval)
		case <-n.shutdownCh:
			return nil
		}
	}
}

// drain processes the envelopes still queued on the consumer channel.
func (n *Node) drain() error {
	for {
		select {
		case env := <-n.netCh:
			if err := n.processEnvelope(env); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

func (n *Node) processEnvelope(env net.Envelope) error {
	atomic.AddUint64(&n.received, 1)
	n.metrics.MessagesReceived.WithLabelValues(env.Type()).Inc()

	n.logger.WithFields(logrus.Fields{
		"src":  env.Src,
		"type": env.Type(),
	}).Debug("Processing envelope")

	n.coreLock.Lock()
	reply, err := n.core.Apply(env)
	if err == nil && n.getState() == Joining && n.core.ID() != "" {
		n.logger.WithField("this_id", n.core.ID()).Debug("Identity assigned => Gossiping")
		n.setState(Gossiping)
	}
	n.updateGauges()
	n.coreLock.Unlock()

	if err != nil {
		n.logger.WithError(err).Error("Rejecting envelope")
		return err
	}

	if reply != nil {
		n.send(*reply)
	}

	return nil
}

// gossip runs one anti-entropy round.
func (n *Node) gossip() {
	if n.getState() != Gossiping {
		return
	}

	n.coreLock.Lock()
	out := n.core.Tick()
	n.coreLock.Unlock()

	atomic.AddUint64(&n.gossipRounds, 1)
	n.metrics.GossipRounds.Inc()

	for _, env := range out {
		if g, ok := env.Body.Payload.(net.Gossip); ok {
			n.metrics.GossipValuesSent.Add(float64(len(g.Messages)))
		}
		n.send(env)
	}
}

// send hands an envelope to the transport. Delivery is not guaranteed, so a
// refused send is only logged.
func (n *Node) send(env net.Envelope) {
	if err := n.trans.Send(env); err != nil {
		atomic.AddUint64(&n.sendErrors, 1)
		n.metrics.SendErrors.Inc()
		n.logger.WithError(err).WithFields(logrus.Fields{
			"dest": env.Dest,
			"type": env.Type(),
		}).Warn("Send")
		return
	}

	atomic.AddUint64(&n.sent, 1)
	n.metrics.MessagesSent.WithLabelValues(env.Type()).Inc()
}

// updateGauges must be called with coreLock held.
func (n *Node) updateGauges() {
	n.metrics.ValuesKnown.Set(float64(n.core.State().ValueCount()))
	n.metrics.Neighbors.Set(float64(len(n.core.State().neighbors)))
}

// Shutdown stops the timer and closes the transport. It is safe to call more
// than once, and from any goroutine.
func (n *Node) Shutdown() {
	n.shutdownOnce.Do(func() {
		n.logger.Debug("Shutdown")

		//Exit any non-shutdown state immediately
		n.setState(Shutdown)

		close(n.shutdownCh)

		n.controlTimer.Shutdown()

		if err := n.trans.Close(); err != nil {
			n.logger.WithError(err).Warn("Closing transport")
		}
	})
}

// GetStats returns a snapshot of the node counters keyed by name.
func (n *Node) GetStats() map[string]string {
	n.coreLock.Lock()
	id := n.core.ID()
	values := n.core.State().ValueCount()
	neighbors := len(n.core.State().neighbors)
	n.coreLock.Unlock()

	var uptime time.Duration
	if !n.start.IsZero() {
		uptime = time.Since(n.start)
	}

	return map[string]string{
		"id":                id,
		"state":             n.getState().String(),
		"values":            strconv.Itoa(values),
		"neighbors":         strconv.Itoa(neighbors),
		"gossip_rounds":     strconv.FormatUint(atomic.LoadUint64(&n.gossipRounds), 10),
		"messages_received": strconv.FormatUint(atomic.LoadUint64(&n.received), 10),
		"messages_sent":     strconv.FormatUint(atomic.LoadUint64(&n.sent), 10),
		"send_errors":       strconv.FormatUint(atomic.LoadUint64(&n.sendErrors), 10),
		"uptime":            uptime.Truncate(time.Millisecond).String(),
	}
}

// ID returns the node identifier, or "" before the handshake.
func (n *Node) ID() string {
	n.coreLock.Lock()
	defer n.coreLock.Unlock()
	return n.core.ID()
}

// GetState returns the lifecycle state.
func (n *Node) GetState() State {
	return n.getState()
}

// Values returns a sorted snapshot of the known values.
func (n *Node) Values() []int64 {
	n.coreLock.Lock()
	defer n.coreLock.Unlock()
	return n.core.Values()
}

// Neighbors returns a snapshot of the neighbor list.
func (n *Node) Neighbors() []string {
	n.coreLock.Lock()
	defer n.coreLock.Unlock()
	return n.core.Neighbors()
}

// Acknowledged returns, per neighbor, the values it is known to hold.
func (n *Node) Acknowledged() map[string][]int64 {
	n.coreLock.Lock()
	defer n.coreLock.Unlock()
	return n.core.Acknowledged()
}

// Metrics returns the node's collectors.
func (n *Node) Metrics() *telemetry.Metrics {
	return n.metrics
}
