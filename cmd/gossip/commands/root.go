package commands

import (
	"strings"

	"github.com/mosaicnetworks/gossip/src/config"
	"github.com/mosaicnetworks/gossip/src/gossip"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	_config = NewDefaultCLIConfig()
)

//RootCmd is the root command for gossip. It runs a node reading envelopes on
//stdin and writing them on stdout; logs go to stderr.
var RootCmd = &cobra.Command{
	Use:           "gossip",
	Short:         "gossip broadcast node",
	PreRunE:       loadConfig,
	RunE:          runGossip,
	SilenceErrors: true,
}

func init() {
	AddRunFlags(RootCmd)
}

/*******************************************************************************
* RUN
*******************************************************************************/

func runGossip(cmd *cobra.Command, args []string) error {
	engine := gossip.NewGossip(&_config.Gossip)

	if err := engine.Init(); err != nil {
		_config.Gossip.Logger().WithError(err).Error("Cannot initialize engine")
		return err
	}

	if err := engine.Run(); err != nil {
		_config.Gossip.Logger().WithError(err).Error("Node stopped")
		return err
	}

	return nil
}

/*******************************************************************************
* CONFIG
*******************************************************************************/

//AddRunFlags adds flags to the root command
func AddRunFlags(cmd *cobra.Command) {
	cmd.Flags().String("datadir", _config.Gossip.DataDir, "Directory searched for gossip.toml (.json, .yaml)")
	cmd.Flags().String("log", _config.Gossip.LogLevel, "debug, info, warn, error, fatal, panic")
	cmd.Flags().String("log-file", _config.Gossip.LogFile, "Also write logs to this file")

	// Node configuration
	cmd.Flags().Duration("gossip-interval", _config.Gossip.GossipInterval, "Time between anti-entropy rounds")
	cmd.Flags().Int("inbox-size", _config.Gossip.InboxSize, "Capacity of the inbound message queue")

	// Service
	cmd.Flags().Bool("no-service", _config.Gossip.NoService, "Disable HTTP service")
	cmd.Flags().StringP("service-listen", "s", _config.Gossip.ServiceAddr, "Listen IP:Port for HTTP service")
}

func loadConfig(cmd *cobra.Command, args []string) error {

	configFile, err := bindFlagsLoadViper(cmd, viper.GetViper())
	if err != nil {
		return err
	}

	// The logger is only built once every source has been read, so that
	// --log and --log-file from the config file apply.
	logger := _config.Gossip.Logger()

	if configFile != "" {
		logger.Debugf("Using config file: %s", configFile)
	} else {
		logger.Debugf("No config file found in: %s", _config.Gossip.DataDir)
	}

	logger.WithFields(logrus.Fields{
		"gossip.DataDir":        _config.Gossip.DataDir,
		"gossip.LogLevel":       _config.Gossip.LogLevel,
		"gossip.LogFile":        _config.Gossip.LogFile,
		"gossip.GossipInterval": _config.Gossip.GossipInterval,
		"gossip.InboxSize":      _config.Gossip.InboxSize,
		"gossip.NoService":      _config.Gossip.NoService,
		"gossip.ServiceAddr":    _config.Gossip.ServiceAddr,
	}).Debug("RUN")

	return nil
}

// Bind all flags and read the config into viper. Precedence is flags, then
// GOSSIP_* environment variables, then the config file, then defaults. It
// returns the path of the config file used, if any.
func bindFlagsLoadViper(cmd *cobra.Command, v *viper.Viper) (string, error) {
	// Register flags with viper. Include flags from this command and all other
	// persistent flags from the parent
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return "", err
	}

	// GOSSIP_GOSSIP_INTERVAL overrides gossip-interval, etc.
	v.SetEnvPrefix("gossip")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	// first unmarshal to read from CLI flags
	if err := v.Unmarshal(_config); err != nil {
		return "", err
	}

	// look for config file in [datadir]/gossip.toml (.json, .yaml also work)
	v.SetConfigName(config.DefaultConfigName)
	v.AddConfigPath(_config.Gossip.DataDir)

	configFile := ""
	if err := v.ReadInConfig(); err == nil {
		configFile = v.ConfigFileUsed()
	} else if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
		return "", err
	}

	// second unmarshal to read from config file
	return configFile, v.Unmarshal(_config)
}
