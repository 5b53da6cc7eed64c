package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is the default path to the config directory.
	DefaultConfigPath = "./config"
	// DefaultNetwork is the nexus used when none is given.
	DefaultNetwork = "mainnet"
)

// Version is the version of the client, set at the build time.
var Version string

// Config is the top-level client configuration.
type Config struct {
	// Nexus is the network name, the wallet must be connected to the same
	// one.
	Nexus                    string                   `yaml:"Nexus"`
	RPC                      RPC                      `yaml:"RPC"`
	Link                     Link                     `yaml:"Link"`
	Watcher                  Watcher                  `yaml:"Watcher"`
	ApplicationConfiguration ApplicationConfiguration `yaml:"ApplicationConfiguration"`
}

// defaultEndpoints are public nodes of the known networks.
var defaultEndpoints = map[string]string{
	"mainnet": "https://pharpc1.phantasma.info/rpc",
	"testnet": "https://testnet.phantasma.info/rpc",
	"simnet":  "http://localhost:5172/rpc",
}

// Default returns a Config with defaults for the network.
func Default(network string) Config {
	return Config{
		Nexus: network,
		RPC: RPC{
			Endpoint:               defaultEndpoints[network],
			RequestTimeout:         10 * time.Second,
			DialTimeout:            4 * time.Second,
			MaxRetries:             3,
			MaxConcurrentTokenData: 5,
		},
		Link: Link{
			Host:     "localhost:7090",
			Version:  2,
			Platform: "Phantasma",
		},
		Watcher: Watcher{
			Chain:        "main",
			PollInterval: 5 * time.Second,
		},
	}
}

// Load attempts to load the config for the given network from the
// "phantasma.<network>.yml" file in path.
func Load(path string, network string) (Config, error) {
	if network == "" {
		network = DefaultNetwork
	}
	return LoadFile(fmt.Sprintf("%s/phantasma.%s.yml", path, network))
}

// LoadFile loads and validates the config from the file. Fields missing in
// the file keep their defaults for the network named in it.
func LoadFile(configPath string) (Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return Config{}, fmt.Errorf("config '%s' doesn't exist: %w", configPath, err)
	}

	configData, err := os.ReadFile(configPath)
	if err != nil {
		return Config{}, fmt.Errorf("unable to read config: %w", err)
	}

	var head struct {
		Nexus string `yaml:"Nexus"`
	}
	if err = yaml.Unmarshal(configData, &head); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config YAML: %w", err)
	}
	config := Default(head.Nexus)
	if err = yaml.Unmarshal(configData, &config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config YAML: %w", err)
	}

	if err = config.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return config, nil
}

// Validate checks the config for consistency.
func (c Config) Validate() error {
	if c.Nexus == "" {
		return errors.New("no Nexus")
	}
	if err := c.RPC.Validate(); err != nil {
		return fmt.Errorf("RPC: %w", err)
	}
	if err := c.Link.Validate(); err != nil {
		return fmt.Errorf("Link: %w", err)
	}
	if err := c.Watcher.Validate(); err != nil {
		return fmt.Errorf("Watcher: %w", err)
	}
	return c.ApplicationConfiguration.Validate()
}
