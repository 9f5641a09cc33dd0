// Package relayer publishes to and subscribes on relay topics over a single
// JSON-RPC transport connection.
//
// Publish, Subscribe and Unsubscribe turn topic operations into requests
// named by the selected relay protocol. Subscribe registers the
// server-assigned subscription id in a dispatch table; inbound pushes for
// that id are decoded and handed to the listener on a per-subscription
// delivery goroutine, so a slow listener never holds up the transport.
//
// Connection lifecycle events from the transport (connect, disconnect,
// error) and every inbound frame (payload) are re-emitted on a separate
// event bus reachable through On, Once, Off and RemoveListener.
//
// Subscriptions survive a transport disconnect but are not re-established
// by the relayer; callers that reconnect should subscribe again.
package relayer

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/DeBrosOfficial/relayer/pkg/errors"
	"github.com/DeBrosOfficial/relayer/pkg/events"
	"github.com/DeBrosOfficial/relayer/pkg/jsonrpc"
	"github.com/DeBrosOfficial/relayer/pkg/protocol"
)

// Relayer is safe for concurrent use.
type Relayer struct {
	transport Transport
	config    Config
	logger    *zap.Logger
	events    *events.Emitter

	// ctx bounds acknowledgement sends and is cancelled by Close.
	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	subs      map[string]*subscription
	connected bool
	closed    bool
}

// Ensure Relayer receives transport callbacks.
var _ TransportHandler = (*Relayer)(nil)

// New creates a relayer on top of t and installs itself as t's handler. The
// connection is not opened until Init.
func New(t Transport, cfg Config) (*Relayer, error) {
	if t == nil {
		return nil, errors.NewValidationError("transport", "transport cannot be nil", nil)
	}
	cfg = cfg.withDefaults()
	if _, err := protocol.Lookup(cfg.DefaultProtocol); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	r := &Relayer{
		transport: t,
		config:    cfg,
		logger:    cfg.Logger,
		events:    events.NewEmitter(cfg.Logger),
		ctx:       ctx,
		cancel:    cancel,
		subs:      make(map[string]*subscription),
	}
	t.SetHandler(r)
	return r, nil
}

// Init opens the transport connection. Failures are returned as a
// TransportError; nothing is retried.
func (r *Relayer) Init(ctx context.Context) error {
	if r.isClosed() {
		return errors.ErrClosed
	}
	if err := r.transport.Connect(ctx); err != nil {
		r.logger.Warn("Failed to connect relay transport", zap.Error(err))
		return errors.NewTransportError("connect", "", err)
	}
	r.logger.Info("Relay transport connected",
		zap.String("default_protocol", r.config.DefaultProtocol))
	return nil
}

// Close drops every subscription, stops their delivery goroutines and
// disconnects the transport. The relayer cannot be used afterwards.
func (r *Relayer) Close(ctx context.Context) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	subs := r.subs
	r.subs = make(map[string]*subscription)
	r.mu.Unlock()

	for _, sub := range subs {
		sub.queue.stop()
	}
	r.cancel()

	if err := r.transport.Disconnect(ctx); err != nil {
		r.logger.Warn("Failed to disconnect relay transport", zap.Error(err))
		return errors.NewTransportError("disconnect", "", err)
	}
	r.logger.Info("Relayer closed", zap.Int("dropped_subscriptions", len(subs)))
	return nil
}

// Connected reports the last connection state signalled by the transport.
func (r *Relayer) Connected() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.connected
}

// On registers handler for a lifecycle event: events.Connect,
// events.Disconnect, events.Error or events.Payload.
func (r *Relayer) On(event string, handler events.Handler) events.ListenerID {
	return r.events.On(event, handler)
}

// Once registers handler for the next occurrence of event only.
func (r *Relayer) Once(event string, handler events.Handler) events.ListenerID {
	return r.events.Once(event, handler)
}

// Off removes a lifecycle registration.
func (r *Relayer) Off(event string, id events.ListenerID) bool {
	return r.events.Off(event, id)
}

// RemoveListener is an alias for Off.
func (r *Relayer) RemoveListener(event string, id events.ListenerID) bool {
	return r.events.RemoveListener(event, id)
}

// HandleConnect implements TransportHandler.
func (r *Relayer) HandleConnect() {
	r.mu.Lock()
	r.connected = true
	r.mu.Unlock()
	r.events.Emit(events.Event{Name: events.Connect})
}

// HandleDisconnect implements TransportHandler. Active subscriptions are
// kept.
func (r *Relayer) HandleDisconnect() {
	r.mu.Lock()
	r.connected = false
	active := len(r.subs)
	r.mu.Unlock()
	if active > 0 {
		r.logger.Warn("Relay transport disconnected with active subscriptions",
			zap.Int("subscriptions", active))
	}
	r.events.Emit(events.Event{Name: events.Disconnect})
}

// HandleError implements TransportHandler.
func (r *Relayer) HandleError(err error) {
	r.logger.Warn("Relay transport error", zap.Error(err))
	r.events.Emit(events.Event{Name: events.Error, Err: err})
}

func (r *Relayer) isClosed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

// resolve picks the descriptor for a per-call protocol id, falling back to
// the configured default.
func (r *Relayer) resolve(id string) (protocol.Descriptor, error) {
	return protocol.Resolve(id, r.config.DefaultProtocol)
}

// request issues one relay request and returns its result. Transport
// failures and relay error responses both come back as TransportError.
func (r *Relayer) request(ctx context.Context, op, method string, params interface{}) (json.RawMessage, error) {
	req, err := jsonrpc.NewRequest(method, params)
	if err != nil {
		return nil, errors.NewValidationError("params", "request params are not serializable", nil).WithCause(err)
	}

	r.logger.Debug("Sending relay request",
		zap.String("op", op),
		zap.String("method", method),
		zap.Int64("request_id", req.ID))

	res, err := r.transport.Request(ctx, req)
	if err != nil {
		return nil, errors.NewTransportError(op, method, err)
	}
	if res == nil {
		return nil, errors.NewTransportError(op, method, fmt.Errorf("empty response to request %d", req.ID))
	}
	if res.Error != nil {
		return nil, errors.NewRPCError(op, method, res.Error.Code, res.Error.Message)
	}
	return res.Result, nil
}
