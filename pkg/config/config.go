package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/DeBrosOfficial/relayer/pkg/codec"
	"github.com/DeBrosOfficial/relayer/pkg/logging"
	"github.com/DeBrosOfficial/relayer/pkg/protocol"
	"github.com/DeBrosOfficial/relayer/pkg/relayer"
)

// Config represents the relayer client configuration file
type Config struct {
	Relayer RelayerConfig `yaml:"relayer"`
	Logging LoggingConfig `yaml:"logging"`
}

// RelayerConfig holds the defaults applied to relay calls
type RelayerConfig struct {
	Protocol     string        `yaml:"protocol"`       // waku, irn or iridium
	TTL          time.Duration `yaml:"ttl"`            // publish ttl, e.g. "24h"
	SharedKeyHex string        `yaml:"shared_key_hex"` // optional symmetric key, hex encoded
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Relayer: RelayerConfig{
			Protocol: protocol.Default,
			TTL:      relayer.DefaultTTL,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads path on top of DefaultConfig. Keys missing from the file keep
// their defaults; unknown keys are rejected.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file %s: %w", path, err)
	}
	defer f.Close()

	cfg := DefaultConfig()
	if err := DecodeStrict(f, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// SharedKey returns the configured key material, or nil when no key is set.
func (c *Config) SharedKey() (*codec.Material, error) {
	if c.Relayer.SharedKeyHex == "" {
		return nil, nil
	}
	key, err := hex.DecodeString(c.Relayer.SharedKeyHex)
	if err != nil {
		return nil, fmt.Errorf("relayer.shared_key_hex: %w", err)
	}
	return &codec.Material{SharedKey: key}, nil
}

// RelayerOptions converts the relayer section for relayer.New.
func (c *Config) RelayerOptions(logger *logging.ColoredLogger) relayer.Config {
	cfg := relayer.Config{
		DefaultProtocol: c.Relayer.Protocol,
		DefaultTTL:      c.Relayer.TTL,
	}
	if logger != nil {
		cfg.Logger = logger.For(logging.ComponentRelayer)
	}
	return cfg
}

// LoggerOptions converts the logging section for logging.New.
func (c *Config) LoggerOptions(colors bool) logging.Options {
	return logging.Options{
		Level:      c.Logging.Level,
		Format:     c.Logging.Format,
		OutputFile: c.Logging.OutputFile,
		Colors:     colors,
	}
}
