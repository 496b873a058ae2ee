// Package config resolves process configuration from defaults, an
// optional YAML file, and environment variables, in that order.
package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"go.yaml.in/yaml/v3"

	"pagemesh/internal/cluster"
)

// DefaultPath is the config file consulted when no explicit path is
// given. A missing file at this path is not an error.
const DefaultPath = "pagemesh.yaml"

// Config carries every tunable of a page store process. Later layers
// override earlier ones: built-in defaults, then the YAML file, then
// PAGEMESH_* environment variables.
type Config struct {
	// Addr is the listen address of the HTTP server.
	Addr string `yaml:"addr" env:"PAGEMESH_ADDR"`

	// Nodes is the number of storage nodes in the cluster.
	Nodes int `yaml:"nodes" env:"PAGEMESH_NODES"`

	// NodeCapacity is the per-node record limit.
	NodeCapacity int `yaml:"node_capacity" env:"PAGEMESH_NODE_CAPACITY"`

	// Hash names the placement hash, "murmur3" or "fnv".
	Hash string `yaml:"hash" env:"PAGEMESH_HASH"`

	// LookupCache is the owner cache size. Zero keeps the built-in
	// default.
	LookupCache int `yaml:"lookup_cache" env:"PAGEMESH_LOOKUP_CACHE"`
}

// Default returns the built-in configuration: a three-node cluster of
// capacity three listening on :8080.
func Default() Config {
	return Config{
		Addr:         ":8080",
		Nodes:        3,
		NodeCapacity: 3,
		Hash:         "murmur3",
	}
}

// Load resolves the configuration. An empty path consults DefaultPath
// and tolerates its absence; an explicit path must exist. Environment
// variables are applied last, so they win over the file.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	f, err := os.Open(path)
	switch {
	case err == nil:
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	case explicit:
		return Config{}, fmt.Errorf("open config %s: %w", path, err)
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks ranges and enumerations after all layers have been
// applied.
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr must not be empty")
	}
	if c.Nodes <= 0 {
		return fmt.Errorf("nodes must be positive, got %d", c.Nodes)
	}
	if c.NodeCapacity <= 0 {
		return fmt.Errorf("node_capacity must be positive, got %d", c.NodeCapacity)
	}
	if c.LookupCache < 0 {
		return fmt.Errorf("lookup_cache must not be negative, got %d", c.LookupCache)
	}
	if _, err := cluster.HasherByName(c.Hash); err != nil {
		return err
	}
	return nil
}

// NewCluster builds the cluster this configuration describes.
func (c Config) NewCluster() (*cluster.Cluster, error) {
	hasher, err := cluster.HasherByName(c.Hash)
	if err != nil {
		return nil, err
	}
	return cluster.NewWithOptions(c.Nodes, c.NodeCapacity, hasher, c.LookupCache)
}
