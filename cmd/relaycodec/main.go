// Command relaycodec encodes and decodes relay payloads the way the relayer
// puts them on the wire.
//
// Encoding reads a JSON document from stdin and prints the wire string, or
// with -topic the complete publish request frame. Decoding reads a wire
// string, or a subscription push frame, and prints the payload JSON.
package main

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/DeBrosOfficial/relayer/pkg/codec"
	"github.com/DeBrosOfficial/relayer/pkg/config"
	"github.com/DeBrosOfficial/relayer/pkg/encryption"
	"github.com/DeBrosOfficial/relayer/pkg/errors"
	"github.com/DeBrosOfficial/relayer/pkg/jsonrpc"
	"github.com/DeBrosOfficial/relayer/pkg/logging"
	"github.com/DeBrosOfficial/relayer/pkg/protocol"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type options struct {
	configPath string
	key        string
	keyFile    string
	genKey     bool
	decode     bool
	quiet      bool
	topic      string
	protocol   string
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("relaycodec", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := &options{}
	fs.StringVar(&opts.configPath, "config", "", "Path to config YAML file (default ~/.relayer/relayer.yaml if present)")
	fs.StringVar(&opts.key, "key", "", "Hex encoded shared key (overrides relayer.shared_key_hex)")
	fs.StringVar(&opts.keyFile, "keyfile", "", "File holding a hex encoded shared key")
	fs.BoolVar(&opts.genKey, "genkey", false, "Generate a shared key into -keyfile (or print it) and exit")
	fs.BoolVar(&opts.decode, "decode", false, "Decode a wire string or push frame instead of encoding")
	fs.BoolVar(&opts.quiet, "quiet", false, "Only log warnings and errors")
	fs.StringVar(&opts.topic, "topic", "", "Wrap the encoded payload in a publish request for this topic")
	fs.StringVar(&opts.protocol, "protocol", "", "Relay protocol for -topic (defaults to relayer.protocol)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return opts, nil
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return 2
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(stderr, "relaycodec: %v\n", err)
		return 1
	}

	if opts.quiet {
		cfg.Logging.Level = "warn"
	}
	logger, err := logging.New(cfg.LoggerOptions(!opts.quiet))
	if err != nil {
		fmt.Fprintf(stderr, "relaycodec: failed to create logger: %v\n", err)
		return 1
	}
	defer logger.Close()

	if opts.genKey {
		return generateKey(opts.keyFile, stdout, logger)
	}

	material, err := keyMaterial(cfg, opts)
	if err != nil {
		logger.ComponentError(logging.ComponentCodec, "Invalid shared key", zap.Error(err))
		return 1
	}

	input, err := io.ReadAll(stdin)
	if err != nil {
		logger.ComponentError(logging.ComponentGeneral, "Failed to read stdin", zap.Error(err))
		return 1
	}

	var out []byte
	if opts.decode {
		out, err = decode(input, material)
	} else {
		out, err = encode(input, material, cfg, opts)
	}
	if err != nil {
		logger.ComponentError(logging.ComponentCodec, "Codec failed",
			zap.Bool("decode", opts.decode),
			zap.String("code", errors.GetErrorCode(err)),
			zap.Error(err))
		return 1
	}

	logger.ComponentDebug(logging.ComponentCodec, "Codec finished",
		zap.Bool("decode", opts.decode),
		zap.Bool("encrypted", material != nil),
		zap.Int("bytes", len(out)))
	fmt.Fprintln(stdout, string(out))
	return 0
}

func loadConfig(opts *options) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if opts.configPath != "" {
		cfg, err = config.Load(opts.configPath)
	} else {
		// ~/.relayer/relayer.yaml when present, built-in defaults otherwise
		cfg, _, err = config.LoadDefault()
	}
	if err != nil {
		return nil, err
	}
	if opts.protocol != "" {
		cfg.Relayer.Protocol = opts.protocol
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.Error()
		}
		return nil, fmt.Errorf("invalid config:\n  %s", strings.Join(msgs, "\n  "))
	}
	return cfg, nil
}

func generateKey(path string, stdout io.Writer, logger *logging.ColoredLogger) int {
	key, err := encryption.GenerateSharedKey()
	if err != nil {
		logger.ComponentError(logging.ComponentCodec, "Failed to generate shared key", zap.Error(err))
		return 1
	}
	if path == "" {
		fmt.Fprintln(stdout, hex.EncodeToString(key.SharedKey))
		return 0
	}
	if err := encryption.SaveSharedKey(key, path); err != nil {
		logger.ComponentError(logging.ComponentCodec, "Failed to save shared key",
			zap.String("path", path), zap.Error(err))
		return 1
	}
	logger.ComponentInfo(logging.ComponentCodec, "Shared key written", zap.String("path", path))
	return 0
}

// keyMaterial prefers -key, then -keyfile, then the config file.
func keyMaterial(cfg *config.Config, opts *options) (*codec.Material, error) {
	if opts.key == "" {
		if opts.keyFile != "" {
			return encryption.LoadSharedKey(opts.keyFile)
		}
		return cfg.SharedKey()
	}
	key, err := hex.DecodeString(opts.key)
	if err != nil {
		return nil, fmt.Errorf("-key: %w", err)
	}
	return &codec.Material{SharedKey: key}, nil
}

func encode(input []byte, material *codec.Material, cfg *config.Config, opts *options) ([]byte, error) {
	var payload json.RawMessage
	if err := json.Unmarshal(bytes.TrimSpace(input), &payload); err != nil {
		return nil, errors.NewValidationError("stdin", "input is not a JSON document", nil).WithCause(err)
	}
	wire, err := codec.Encode(payload, material)
	if err != nil {
		return nil, err
	}
	if opts.topic == "" {
		return []byte(wire), nil
	}

	desc, err := protocol.Lookup(cfg.Relayer.Protocol)
	if err != nil {
		return nil, err
	}
	req, err := jsonrpc.NewRequest(desc.Publish, map[string]interface{}{
		"topic":   opts.topic,
		"message": wire,
		"ttl":     int64(cfg.Relayer.TTL.Seconds()),
	})
	if err != nil {
		return nil, errors.NewInternalError("build publish request", err)
	}
	return json.Marshal(req)
}

// decode accepts either a bare wire string or a subscription push frame.
func decode(input []byte, material *codec.Material) ([]byte, error) {
	trimmed := bytes.TrimSpace(input)
	wire := string(trimmed)

	if bytes.HasPrefix(trimmed, []byte("{")) {
		frame, err := jsonrpc.Parse(trimmed)
		if err != nil {
			return nil, errors.NewDecodeError("malformed frame", err)
		}
		if !frame.IsRequest() || !protocol.IsSubscriptionMethod(frame.Request.Method) {
			return nil, errors.NewDecodeError("frame is not a subscription push", nil)
		}
		var params struct {
			Data struct {
				Message string `json:"message"`
			} `json:"data"`
		}
		if err := json.Unmarshal(frame.Request.Params, &params); err != nil {
			return nil, errors.NewDecodeError("invalid push params", err)
		}
		wire = params.Data.Message
	}

	payload, err := codec.Decode(wire, material)
	if err != nil {
		return nil, err
	}
	return payload, nil
}
