package commands

import (
	"github.com/mosaicnetworks/gossip/src/config"
)

//CLIConfig contains configuration for the root command
type CLIConfig struct {
	Gossip config.Config `mapstructure:",squash"`
}

//NewDefaultCLIConfig creates a CLIConfig with default values
func NewDefaultCLIConfig() *CLIConfig {
	return &CLIConfig{
		Gossip: *config.NewDefaultConfig(),
	}
}
