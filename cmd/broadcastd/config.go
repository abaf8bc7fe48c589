// CLAUDE:SUMMARY Configuration struct and YAML loader for broadcastd.
package main

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all broadcastd configuration.
type Config struct {
	Listen     string `yaml:"listen"`
	DBPath     string `yaml:"db_path"`
	BlobDir    string `yaml:"blob_dir"`
	ViewerBase string `yaml:"viewer_base"`

	// MCPOwnerID is the identity broadcasts publish under when the MCP
	// stdio transport is enabled. MCP is a local single-user surface and
	// carries no session of its own.
	MCPOwnerID string `yaml:"mcp_owner_id"`
}

func (c *Config) defaults() {
	if c.Listen == "" {
		c.Listen = ":8086"
	}
	if c.DBPath == "" {
		c.DBPath = "broadcast.db"
	}
	if c.BlobDir == "" {
		c.BlobDir = "blobs"
	}
	if c.ViewerBase == "" {
		c.ViewerBase = "http://localhost:8086/b"
	}
	if c.MCPOwnerID == "" {
		c.MCPOwnerID = "local"
	}
}

// loadConfigFile reads a YAML config file. A missing path yields the
// defaults.
func loadConfigFile(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}
	cfg.defaults()
	return cfg, nil
}
