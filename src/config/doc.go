// Package config defines the configuration for a gossip node.
//
// Regardless of how a node is started, directly from Go code or as a
// standalone process from the command line, it uses the Config object defined
// in this package to store and forward configuration options. When started
// from the command line, options may also come from GOSSIP_* environment
// variables or from an optional file in the data directory:
//
//  gossip.toml | gossip.yaml | gossip.json
//
// The node itself never writes to the data directory.
package config
