package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultFile is the config file name looked up in ConfigDir.
const DefaultFile = "relayer.yaml"

// ConfigDir returns the path to the relayer config directory (~/.relayer).
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine home directory: %w", err)
	}
	return filepath.Join(home, ".relayer"), nil
}

// DefaultPath returns the path to the named config file inside ConfigDir.
// Absolute names are returned as-is.
func DefaultPath(name string) (string, error) {
	if filepath.IsAbs(name) {
		return name, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// LoadDefault loads DefaultFile from ConfigDir when it exists. Otherwise it
// returns DefaultConfig and an empty path.
func LoadDefault() (*Config, string, error) {
	path, err := DefaultPath(DefaultFile)
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), "", nil
		}
		return nil, "", fmt.Errorf("failed to stat config file %s: %w", path, err)
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}
