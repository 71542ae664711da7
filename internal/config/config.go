// Package config loads the static cluster topology from a YAML file.
// Membership is fixed for the process lifetime, so the file is read once
// at startup and validated before any server starts listening.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config describes the cluster as deployed:
//
//	leader: http://127.0.0.1:5000
//	followers:
//	  - http://127.0.0.1:5001
//	  - http://127.0.0.1:5002
type Config struct {
	// Leader is the base URL of the write-coordinating node.
	Leader string `yaml:"leader"`

	// Followers are the replica base URLs, in deterministic naming order.
	Followers []string `yaml:"followers"`
}

// Load reads and parses the cluster file at path.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read cluster config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse cluster config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the structural requirements. Address well-formedness is
// enforced by the registry, which is the authority on node identity.
func (c *Config) Validate() error {
	if c.Leader == "" {
		return errors.New("config: leader address is required")
	}
	if len(c.Followers) == 0 {
		return errors.New("config: at least one follower is required")
	}
	for i, f := range c.Followers {
		if f == "" {
			return fmt.Errorf("config: follower %d has an empty address", i+1)
		}
	}
	return nil
}
