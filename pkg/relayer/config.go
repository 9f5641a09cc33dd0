package relayer

import (
	"time"

	"go.uber.org/zap"

	"github.com/DeBrosOfficial/relayer/pkg/codec"
	"github.com/DeBrosOfficial/relayer/pkg/protocol"
)

// DefaultTTL is how long the relay keeps a published payload when the
// caller does not say otherwise.
const DefaultTTL = 24 * time.Hour

// Config configures a Relayer.
type Config struct {
	// DefaultProtocol is used by calls that leave Protocol empty.
	// Empty means protocol.Default.
	DefaultProtocol string
	// DefaultTTL is used by publishes that leave TTL zero. Zero means
	// DefaultTTL.
	DefaultTTL time.Duration
	// Logger receives diagnostics. Nil means no logging.
	Logger *zap.Logger
}

// DefaultConfig returns a configuration with every default filled in.
func DefaultConfig() Config {
	return Config{
		DefaultProtocol: protocol.Default,
		DefaultTTL:      DefaultTTL,
		Logger:          zap.NewNop(),
	}
}

func (c Config) withDefaults() Config {
	if c.DefaultProtocol == "" {
		c.DefaultProtocol = protocol.Default
	}
	if c.DefaultTTL <= 0 {
		c.DefaultTTL = DefaultTTL
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	return c
}

// PublishOptions tunes a single Publish call.
type PublishOptions struct {
	Protocol string
	// TTL is rounded down to whole seconds on the wire.
	TTL         time.Duration
	EncryptKeys *codec.Material
}

// SubscribeOptions tunes a single Subscribe call. DecryptKeys are used to
// decode every push delivered to this subscription's listener.
type SubscribeOptions struct {
	Protocol    string
	DecryptKeys *codec.Material
}

// UnsubscribeOptions tunes a single Unsubscribe call.
type UnsubscribeOptions struct {
	Protocol string
}
