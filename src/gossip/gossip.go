package gossip

import (
	"fmt"
	"io"
	"os"

	"github.com/mosaicnetworks/gossip/src/config"
	"github.com/mosaicnetworks/gossip/src/net"
	"github.com/mosaicnetworks/gossip/src/node"
	"github.com/mosaicnetworks/gossip/src/service"
	"github.com/mosaicnetworks/gossip/src/telemetry"
	"github.com/sirupsen/logrus"
)

// Gossip is the engine that assembles a node: transport, state machine,
// metrics and optional HTTP service.
type Gossip struct {
	Config    *config.Config
	Node      *node.Node
	Transport net.Transport
	Metrics   *telemetry.Metrics
	Service   *service.Service

	// In and Out back the default stdio transport. They default to os.Stdin
	// and os.Stdout and are ignored when Transport is set before Init.
	In  io.Reader
	Out io.Writer

	logger *logrus.Entry
}

// NewGossip is a factory method that returns an uninitialised engine.
func NewGossip(conf *config.Config) *Gossip {
	engine := &Gossip{
		Config: conf,
		In:     os.Stdin,
		Out:    os.Stdout,
	}

	return engine
}

func (g *Gossip) initTransport() error {
	if g.Transport != nil {
		return nil
	}

	if g.In == nil || g.Out == nil {
		return fmt.Errorf("stdio transport needs an input and an output")
	}

	g.Transport = net.NewStdioTransport(
		g.In,
		g.Out,
		g.Config.InboxSize,
		g.logger,
	)

	return nil
}

func (g *Gossip) initNode() error {
	if g.Config.GossipInterval <= 0 {
		return fmt.Errorf("gossip interval must be positive, got %s", g.Config.GossipInterval)
	}

	g.Metrics = telemetry.NewMetrics()

	g.Node = node.NewNode(
		node.NewConfig(g.Config.GossipInterval, g.logger.WithField("component", "node")),
		g.Transport,
		g.Metrics,
	)

	g.Node.Init()

	return nil
}

func (g *Gossip) initService() error {
	if !g.Config.NoService {
		g.Service = service.NewService(
			g.Config.ServiceAddr,
			g.Node,
			g.logger.WithField("component", "service"),
		)
	}
	return nil
}

// Init builds every component from the Config.
func (g *Gossip) Init() error {
	g.logger = g.Config.Logger()

	if err := g.initTransport(); err != nil {
		return err
	}

	if err := g.initNode(); err != nil {
		return err
	}

	if err := g.initService(); err != nil {
		return err
	}

	return nil
}

// Run serves the optional HTTP service and runs the node until its input ends
// or a fatal error occurs.
func (g *Gossip) Run() error {
	if g.Service != nil {
		g.logger.WithField("bind_address", g.Config.ServiceAddr).Debug("Serving gossip API")
		go g.Service.Serve()
		defer g.Service.Close()
	}

	return g.Node.Run()
}
