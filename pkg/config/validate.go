package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/DeBrosOfficial/relayer/pkg/protocol"
)

// ValidationError represents a single validation error with context.
type ValidationError struct {
	Path    string // e.g., "relayer.protocol"
	Message string // e.g., "unsupported protocol"
	Hint    string // e.g., "allowed values: iridium, irn, waku"
}

func (e ValidationError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%s: %s; %s", e.Path, e.Message, e.Hint)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Validate performs validation of the entire config.
// It aggregates all errors and returns them, allowing the caller to print all issues at once.
func (c *Config) Validate() []error {
	var errs []error
	errs = append(errs, c.validateRelayer()...)
	errs = append(errs, c.validateLogging()...)
	return errs
}

func (c *Config) validateRelayer() []error {
	var errs []error
	rc := c.Relayer

	if _, err := protocol.Lookup(rc.Protocol); err != nil {
		errs = append(errs, ValidationError{
			Path:    "relayer.protocol",
			Message: fmt.Sprintf("unsupported protocol %q", rc.Protocol),
			Hint:    "allowed values: " + strings.Join(protocol.Names(), ", "),
		})
	}

	if rc.TTL < time.Second {
		errs = append(errs, ValidationError{
			Path:    "relayer.ttl",
			Message: fmt.Sprintf("must be at least 1s; got %s", rc.TTL),
			Hint:    "e.g. 24h",
		})
	}

	if rc.SharedKeyHex != "" {
		if key, err := hex.DecodeString(rc.SharedKeyHex); err != nil {
			errs = append(errs, ValidationError{
				Path:    "relayer.shared_key_hex",
				Message: fmt.Sprintf("invalid hex: %v", err),
			})
		} else if len(key) == 0 {
			errs = append(errs, ValidationError{
				Path:    "relayer.shared_key_hex",
				Message: "must not be empty",
			})
		}
	}

	return errs
}

func (c *Config) validateLogging() []error {
	var errs []error
	log := c.Logging

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[log.Level] {
		errs = append(errs, ValidationError{
			Path:    "logging.level",
			Message: fmt.Sprintf("invalid value %q", log.Level),
			Hint:    "allowed values: debug, info, warn, error",
		})
	}

	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[log.Format] {
		errs = append(errs, ValidationError{
			Path:    "logging.format",
			Message: fmt.Sprintf("invalid value %q", log.Format),
			Hint:    "allowed values: json, console",
		})
	}

	if log.OutputFile != "" {
		dir := filepath.Dir(log.OutputFile)
		if dir != "" && dir != "." {
			if err := validateDirWritable(dir); err != nil {
				errs = append(errs, ValidationError{
					Path:    "logging.output_file",
					Message: fmt.Sprintf("parent directory not writable: %v", err),
				})
			}
		}
	}

	return errs
}

func validateDirWritable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot access directory: %v", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory")
	}

	testFile := filepath.Join(path, ".write_test")
	if err := os.WriteFile(testFile, []byte(""), 0644); err != nil {
		return fmt.Errorf("directory not writable: %v", err)
	}
	os.Remove(testFile)

	return nil
}
