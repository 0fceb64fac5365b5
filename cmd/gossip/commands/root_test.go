package commands

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCmd(t *testing.T, args ...string) *cobra.Command {
	_config = NewDefaultCLIConfig()

	cmd := &cobra.Command{Use: "gossip"}
	AddRunFlags(cmd)
	require.NoError(t, cmd.Flags().Parse(args))
	return cmd
}

func TestLoadConfigFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "gossip-cmd")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	toml := "gossip-interval = \"250ms\"\ninbox-size = 64\nlog = \"info\"\n"
	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, "gossip.toml"), []byte(toml), 0644))

	cmd := newTestCmd(t, "--datadir", dir, "--inbox-size", "8")

	used, err := bindFlagsLoadViper(cmd, viper.New())
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "gossip.toml"), used)
	assert.Equal(t, 250*time.Millisecond, _config.Gossip.GossipInterval)
	assert.Equal(t, "info", _config.Gossip.LogLevel)
	// Flags win over the config file.
	assert.Equal(t, 8, _config.Gossip.InboxSize)
	assert.True(t, _config.Gossip.NoService)
}

func TestLoadConfigEnv(t *testing.T) {
	dir, err := ioutil.TempDir("", "gossip-cmd")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	os.Setenv("GOSSIP_GOSSIP_INTERVAL", "40ms")
	os.Setenv("GOSSIP_NO_SERVICE", "false")
	defer os.Unsetenv("GOSSIP_GOSSIP_INTERVAL")
	defer os.Unsetenv("GOSSIP_NO_SERVICE")

	cmd := newTestCmd(t, "--datadir", dir)

	used, err := bindFlagsLoadViper(cmd, viper.New())
	require.NoError(t, err)

	assert.Equal(t, "", used)
	assert.Equal(t, 40*time.Millisecond, _config.Gossip.GossipInterval)
	assert.False(t, _config.Gossip.NoService)
	assert.Equal(t, 1024, _config.Gossip.InboxSize)
}
