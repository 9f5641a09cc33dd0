package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]zapcore.Level{
		"":      zapcore.InfoLevel,
		"DEBUG": zapcore.DebugLevel,
		"warn":  zapcore.WarnLevel,
		"error": zapcore.ErrorLevel,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	_, err := New(Options{Format: "xml"})
	assert.Error(t, err)
}

func TestFileLoggerComponentTags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relayer.log")
	logger, err := New(Options{Level: "info", Format: "json", OutputFile: path, Colors: true})
	require.NoError(t, err)

	logger.For(ComponentRelayer).With(zap.String("topic", "chat")).Info("Subscribed to topic")
	logger.ComponentWarn(ComponentCodec, "bad key")
	logger.ComponentDebug(ComponentGeneral, "filtered out")
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)

	var first map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "[RELAYER] Subscribed to topic", first["msg"])
	assert.Equal(t, "chat", first["topic"])

	var second map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Equal(t, "[CODEC] bad key", second["msg"])
	assert.Equal(t, "warn", second["level"])
}

func TestConsoleEncoderWithoutColors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "console.log")
	logger, err := NewFileLogger(path)
	require.NoError(t, err)

	logger.ComponentInfo(ComponentTransport, "connected")
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "\tI\t")
	assert.Contains(t, out, "[TRANSPORT] connected")
	assert.NotContains(t, out, "\033[")
}
