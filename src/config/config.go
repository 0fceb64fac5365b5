package config

import (
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/mosaicnetworks/gossip/src/common"
	"github.com/rifflock/lfshook"
	"github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

// DefaultConfigName is the base name, without extension, of the optional
// configuration file looked up in the data directory.
const DefaultConfigName = "gossip"

// Default configuration values.
const (
	DefaultLogLevel       = "debug"
	DefaultLogFile        = ""
	DefaultGossipInterval = 100 * time.Millisecond
	DefaultInboxSize      = 1024
	DefaultNoService      = true
	DefaultServiceAddr    = "127.0.0.1:8000"
)

// Config contains all the configuration properties of a gossip node.
type Config struct {
	// DataDir is the directory searched for the optional configuration file.
	DataDir string `mapstructure:"datadir"`

	// LogLevel determines the chattiness of the log output.
	LogLevel string `mapstructure:"log"`

	// LogFile, when set, receives a copy of every log entry. Logs always go to
	// stderr since stdout carries the message stream.
	LogFile string `mapstructure:"log-file"`

	// GossipInterval is the delay between two anti-entropy rounds.
	GossipInterval time.Duration `mapstructure:"gossip-interval"`

	// InboxSize is the capacity of the inbound envelope queue.
	InboxSize int `mapstructure:"inbox-size"`

	// NoService disables the HTTP introspection service.
	NoService bool `mapstructure:"no-service"`

	// ServiceAddr is the address:port of the optional HTTP service. The
	// service uses its own ServeMux, so several nodes can run in one process.
	ServiceAddr string `mapstructure:"service-listen"`

	logger *logrus.Logger
}

// NewDefaultConfig returns a config object with default values.
func NewDefaultConfig() *Config {
	config := &Config{
		DataDir:        DefaultDataDir(),
		LogLevel:       DefaultLogLevel,
		LogFile:        DefaultLogFile,
		GossipInterval: DefaultGossipInterval,
		InboxSize:      DefaultInboxSize,
		NoService:      DefaultNoService,
		ServiceAddr:    DefaultServiceAddr,
	}

	return config
}

// NewTestConfig returns a config object with default values and a special
// logger for debugging tests.
func NewTestConfig(t testing.TB, level logrus.Level) *Config {
	config := NewDefaultConfig()
	config.GossipInterval = 10 * time.Millisecond
	config.logger = common.NewTestLogger(t, level)
	return config
}

// ConfigFile returns the path, without extension, of the optional
// configuration file.
func (c *Config) ConfigFile() string {
	return filepath.Join(c.DataDir, DefaultConfigName)
}

// Logger returns a formatted logrus Entry, with prefix set to "gossip".
func (c *Config) Logger() *logrus.Entry {
	if c.logger == nil {
		c.logger = logrus.New()
		c.logger.Out = os.Stderr
		c.logger.Level = LogLevel(c.LogLevel)
		c.logger.Formatter = new(prefixed.TextFormatter)

		if c.LogFile != "" {
			pathMap := lfshook.PathMap{}
			for _, level := range logrus.AllLevels {
				pathMap[level] = c.LogFile
			}
			c.logger.Hooks.Add(lfshook.NewHook(
				pathMap,
				&logrus.JSONFormatter{},
			))
		}
	}
	return c.logger.WithField("prefix", "gossip")
}

// DefaultDataDir return the default directory name for the gossip config
// based on the underlying OS, attempting to respect conventions.
func DefaultDataDir() string {
	// Try to place the data folder in the user's home dir
	home := HomeDir()
	if home != "" {
		if runtime.GOOS == "darwin" {
			return filepath.Join(home, ".Gossip")
		} else if runtime.GOOS == "windows" {
			return filepath.Join(home, "AppData", "Roaming", "Gossip")
		} else {
			return filepath.Join(home, ".gossip")
		}
	}
	// As we cannot guess a stable location, return empty and handle later
	return ""
}

// HomeDir returns the user's home directory.
func HomeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

// LogLevel parses a string into a Logrus log level.
func LogLevel(l string) logrus.Level {
	switch l {
	case "debug":
		return logrus.DebugLevel
	case "info":
		return logrus.InfoLevel
	case "warn":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	case "fatal":
		return logrus.FatalLevel
	case "panic":
		return logrus.PanicLevel
	default:
		return logrus.DebugLevel
	}
}
