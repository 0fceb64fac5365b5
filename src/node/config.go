package node

import (
	"testing"
	"time"

	"github.com/mosaicnetworks/gossip/src/common"
	"github.com/sirupsen/logrus"
)

// Config holds the settings a Node needs. The engine derives it from the
// top-level config.Config.
type Config struct {
	// GossipInterval is the delay between two anti-entropy rounds.
	GossipInterval time.Duration
	Logger         *logrus.Entry
}

// NewConfig returns a Config with the given gossip interval and logger.
func NewConfig(gossipInterval time.Duration, logger *logrus.Entry) *Config {
	return &Config{
		GossipInterval: gossipInterval,
		Logger:         logger,
	}
}

// DefaultConfig returns a Config gossiping every 100ms and logging at debug
// level.
func DefaultConfig() *Config {
	logger := logrus.New()
	logger.Level = logrus.DebugLevel

	return &Config{
		GossipInterval: 100 * time.Millisecond,
		Logger:         logrus.NewEntry(logger),
	}
}

// TestConfig returns a Config with a short gossip interval whose logs go to
// the test output.
func TestConfig(t testing.TB) *Config {
	config := DefaultConfig()
	config.GossipInterval = 10 * time.Millisecond
	config.Logger = common.NewTestEntry(t, "node")
	return config
}
