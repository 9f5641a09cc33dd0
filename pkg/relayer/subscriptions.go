package relayer

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/DeBrosOfficial/relayer/pkg/codec"
	"github.com/DeBrosOfficial/relayer/pkg/errors"
)

// subscription is the dispatch entry for one server-assigned id.
type subscription struct {
	id        string
	topic     string
	listeners []*listenerEntry
	queue     *deliveryQueue
}

// listenerEntry pairs a listener with the key material its Subscribe call
// supplied for decoding.
type listenerEntry struct {
	listener Listener
	decrypt  *codec.Material
}

// Subscribe asks the relay for pushes on topic and returns the subscription
// id it assigned. Every later push bearing that id is decoded with
// opts.DecryptKeys (plain mode when nil) and passed to listener. Nothing is
// registered when the request fails.
func (r *Relayer) Subscribe(ctx context.Context, topic string, listener Listener, opts *SubscribeOptions) (string, error) {
	if opts == nil {
		opts = &SubscribeOptions{}
	}
	if r.isClosed() {
		return "", errors.ErrClosed
	}
	desc, err := r.resolve(opts.Protocol)
	if err != nil {
		return "", err
	}
	if topic == "" {
		return "", errors.NewValidationError("topic", "topic is required", topic)
	}
	if listener == nil {
		return "", errors.NewValidationError("listener", "listener cannot be nil", nil)
	}

	result, err := r.request(ctx, "subscribe", desc.Subscribe, subscribeParams{Topic: topic})
	if err != nil {
		r.logger.Warn("Failed to subscribe",
			zap.String("topic", topic),
			zap.String("protocol", desc.Name),
			zap.Error(err))
		return "", err
	}

	var id string
	if err := json.Unmarshal(result, &id); err != nil || id == "" {
		return "", errors.NewTransportError("subscribe", desc.Subscribe,
			fmt.Errorf("relay returned invalid subscription id %s", string(result)))
	}

	entry := &listenerEntry{listener: listener, decrypt: opts.DecryptKeys}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		// The relay still holds this subscription; nothing will unsubscribe it.
		r.logger.Warn("Relayer closed during subscribe, subscription orphaned",
			zap.String("topic", topic),
			zap.String("subscription_id", id),
			zap.String("protocol", desc.Name))
		return "", errors.ErrClosed
	}
	sub, exists := r.subs[id]
	if !exists {
		sub = &subscription{id: id, topic: topic}
		sub.queue = newDeliveryQueue(func(p pushData) { r.deliver(sub, p) })
		r.subs[id] = sub
	}
	sub.listeners = append(sub.listeners, entry)
	listeners := len(sub.listeners)
	r.mu.Unlock()

	r.logger.Info("Subscribed to topic",
		zap.String("topic", topic),
		zap.String("subscription_id", id),
		zap.String("protocol", desc.Name),
		zap.Int("listeners", listeners))
	return id, nil
}

// Unsubscribe asks the relay to drop subscription id and, once it has
// acknowledged, removes every listener registered for id. When the request
// fails the listeners stay registered and keep receiving pushes.
func (r *Relayer) Unsubscribe(ctx context.Context, id string, opts *UnsubscribeOptions) error {
	if opts == nil {
		opts = &UnsubscribeOptions{}
	}
	if r.isClosed() {
		return errors.ErrClosed
	}
	desc, err := r.resolve(opts.Protocol)
	if err != nil {
		return err
	}
	if id == "" {
		return errors.NewValidationError("id", "subscription id is required", id)
	}

	if _, err := r.request(ctx, "unsubscribe", desc.Unsubscribe, unsubscribeParams{ID: id}); err != nil {
		r.logger.Warn("Failed to unsubscribe, keeping listeners",
			zap.String("subscription_id", id),
			zap.String("protocol", desc.Name),
			zap.Error(err))
		return err
	}

	r.mu.Lock()
	sub, exists := r.subs[id]
	delete(r.subs, id)
	r.mu.Unlock()

	if !exists {
		r.logger.Debug("Unsubscribed id had no local listeners", zap.String("subscription_id", id))
		return nil
	}
	sub.queue.stop()

	r.logger.Info("Unsubscribed",
		zap.String("topic", sub.topic),
		zap.String("subscription_id", id))
	return nil
}

// Subscriptions returns the active subscriptions sorted by id.
func (r *Relayer) Subscriptions() []Subscription {
	r.mu.Lock()
	out := make([]Subscription, 0, len(r.subs))
	for _, sub := range r.subs {
		out = append(out, Subscription{ID: sub.id, Topic: sub.topic, Listeners: len(sub.listeners)})
	}
	r.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// listenersOf snapshots the listeners of sub if it is still registered.
func (r *Relayer) listenersOf(sub *subscription) []*listenerEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.subs[sub.id] != sub {
		return nil
	}
	out := make([]*listenerEntry, len(sub.listeners))
	copy(out, sub.listeners)
	return out
}
