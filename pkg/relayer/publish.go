package relayer

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/DeBrosOfficial/relayer/pkg/codec"
	"github.com/DeBrosOfficial/relayer/pkg/errors"
)

// Publish sends payload to topic. The payload is JSON encoded and, when
// opts.EncryptKeys is set, sealed before it is sent. Publish leaves no state
// behind whether it succeeds or not.
func (r *Relayer) Publish(ctx context.Context, topic string, payload interface{}, opts *PublishOptions) error {
	if opts == nil {
		opts = &PublishOptions{}
	}
	if r.isClosed() {
		return errors.ErrClosed
	}
	desc, err := r.resolve(opts.Protocol)
	if err != nil {
		return err
	}
	if topic == "" {
		return errors.NewValidationError("topic", "topic is required", topic)
	}
	ttl := opts.TTL
	if ttl < 0 {
		return errors.NewValidationError("ttl", "ttl cannot be negative", ttl)
	}
	if ttl == 0 {
		ttl = r.config.DefaultTTL
	}
	if ttl < time.Second {
		return errors.NewValidationError("ttl", "ttl must be at least one second", ttl)
	}

	message, err := codec.Encode(payload, opts.EncryptKeys)
	if err != nil {
		return err
	}

	params := publishParams{
		Topic:   topic,
		Message: message,
		TTL:     int64(ttl / time.Second),
	}
	if _, err := r.request(ctx, "publish", desc.Publish, params); err != nil {
		r.logger.Warn("Failed to publish",
			zap.String("topic", topic),
			zap.String("protocol", desc.Name),
			zap.Error(err))
		return err
	}

	r.logger.Debug("Published message",
		zap.String("topic", topic),
		zap.String("protocol", desc.Name),
		zap.Bool("encrypted", opts.EncryptKeys != nil),
		zap.Int64("ttl_seconds", params.TTL))
	return nil
}
