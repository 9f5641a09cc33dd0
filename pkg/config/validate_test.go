package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	assert.Empty(t, cfg.Validate())
	assert.Equal(t, "waku", cfg.Relayer.Protocol)
	assert.Equal(t, 24*time.Hour, cfg.Relayer.TTL)
}

func TestValidateRelayer(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Config)
		wantPath string
	}{
		{"unknown protocol", func(c *Config) { c.Relayer.Protocol = "carrier-pigeon" }, "relayer.protocol"},
		{"empty protocol", func(c *Config) { c.Relayer.Protocol = "" }, "relayer.protocol"},
		{"zero ttl", func(c *Config) { c.Relayer.TTL = 0 }, "relayer.ttl"},
		{"sub-second ttl", func(c *Config) { c.Relayer.TTL = 500 * time.Millisecond }, "relayer.ttl"},
		{"negative ttl", func(c *Config) { c.Relayer.TTL = -time.Minute }, "relayer.ttl"},
		{"bad hex key", func(c *Config) { c.Relayer.SharedKeyHex = "zz" }, "relayer.shared_key_hex"},
		{"bad level", func(c *Config) { c.Logging.Level = "verbose" }, "logging.level"},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"missing log dir", func(c *Config) { c.Logging.OutputFile = "/does/not/exist/relayer.log" }, "logging.output_file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			errs := cfg.Validate()
			require.Len(t, errs, 1)

			var verr ValidationError
			require.ErrorAs(t, errs[0], &verr)
			assert.Equal(t, tt.wantPath, verr.Path)
		})
	}
}

func TestValidateAggregates(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Relayer.Protocol = "nope"
	cfg.Relayer.TTL = 0
	cfg.Logging.Level = "loud"
	assert.Len(t, cfg.Validate(), 3)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relayer.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
relayer:
  protocol: irn
  shared_key_hex: "00ff10"
logging:
  level: debug
`), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "irn", cfg.Relayer.Protocol)
	assert.Equal(t, 24*time.Hour, cfg.Relayer.TTL, "unset keys keep defaults")
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Empty(t, cfg.Validate())

	key, err := cfg.SharedKey()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0xff, 0x10}, key.SharedKey)

	opts := cfg.RelayerOptions(nil)
	assert.Equal(t, "irn", opts.DefaultProtocol)
	assert.Nil(t, opts.Logger)
}

func TestLoadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relayer.yaml")
	require.NoError(t, os.WriteFile(path, []byte("relayer:\n  ttl: 90s\n"), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, cfg.Relayer.TTL)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relayer.yaml")
	require.NoError(t, os.WriteFile(path, []byte("relayer:\n  protocl: irn\n"), 0600))

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "protocl"), err.Error())
	assert.Contains(t, err.Error(), "unrecognized or malformed relayer config")
}

func TestLoadDefault(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, path, err := LoadDefault()
	require.NoError(t, err)
	assert.Empty(t, path, "no file means built-in defaults")
	assert.Equal(t, DefaultConfig(), cfg)

	dir := filepath.Join(home, ".relayer")
	require.NoError(t, os.MkdirAll(dir, 0700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultFile), []byte("relayer:\n  protocol: iridium\n"), 0600))

	cfg, path, err = LoadDefault()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, DefaultFile), path)
	assert.Equal(t, "iridium", cfg.Relayer.Protocol)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestSharedKeyUnset(t *testing.T) {
	key, err := DefaultConfig().SharedKey()
	require.NoError(t, err)
	assert.Nil(t, key)
}

func TestDefaultPath(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "x.yaml")
	got, err := DefaultPath(abs)
	require.NoError(t, err)
	assert.Equal(t, abs, got)

	got, err = DefaultPath(DefaultFile)
	require.NoError(t, err)
	assert.Equal(t, "relayer.yaml", filepath.Base(got))
	assert.Equal(t, ".relayer", filepath.Base(filepath.Dir(got)))
}
