package relayer

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/DeBrosOfficial/relayer/pkg/codec"
	"github.com/DeBrosOfficial/relayer/pkg/errors"
	"github.com/DeBrosOfficial/relayer/pkg/events"
	"github.com/DeBrosOfficial/relayer/pkg/jsonrpc"
	"github.com/DeBrosOfficial/relayer/pkg/protocol"
)

// HandlePayload implements TransportHandler. Subscription pushes are queued
// for their subscription and acknowledged; every other frame is left to the
// transport. Nothing here returns an error or panics: a bad frame only
// affects itself.
func (r *Relayer) HandlePayload(frame []byte) {
	r.events.Emit(events.Event{Name: events.Payload, Payload: json.RawMessage(frame)})

	f, err := jsonrpc.Parse(frame)
	if err != nil {
		r.reportDispatchError("Dropping malformed inbound frame", errors.NewDecodeError("malformed frame", err))
		return
	}
	if !f.IsRequest() || !protocol.IsSubscriptionMethod(f.Request.Method) {
		return
	}
	req := f.Request

	var params pushParams
	if err := json.Unmarshal(req.Params, &params); err != nil || params.ID == "" {
		if err == nil {
			err = fmt.Errorf("missing subscription id")
		}
		r.reportDispatchError("Rejecting subscription push with invalid params",
			errors.NewDecodeError("invalid push params", err))
		r.acknowledge(jsonrpc.NewError(req.ID, jsonrpc.CodeInvalidParams, "invalid subscription push params"))
		return
	}

	r.mu.Lock()
	sub := r.subs[params.ID]
	r.mu.Unlock()

	if sub != nil {
		sub.queue.push(params.Data)
	} else {
		r.logger.Debug("Dropping push for inactive subscription",
			zap.String("subscription_id", params.ID),
			zap.String("method", req.Method))
	}

	ack, err := jsonrpc.NewResult(req.ID, true)
	if err != nil {
		r.reportDispatchError("Failed to build push acknowledgement", errors.NewInternalError("build ack", err))
		return
	}
	r.acknowledge(ack)
}

func (r *Relayer) acknowledge(res *jsonrpc.Response) {
	if err := r.transport.Send(r.ctx, res); err != nil {
		r.reportDispatchError("Failed to acknowledge subscription push",
			errors.NewTransportError("acknowledge", "", err))
	}
}

// deliver runs on the subscription's queue goroutine.
func (r *Relayer) deliver(sub *subscription, p pushData) {
	for _, entry := range r.listenersOf(sub) {
		payload, err := codec.Decode(p.Message, entry.decrypt)
		if err != nil {
			r.reportDispatchError("Failed to decode subscription push",
				errors.Wrapf(err, "subscription %s", sub.id))
			continue
		}
		r.invoke(entry.listener, Message{
			SubscriptionID: sub.id,
			Topic:          p.Topic,
			Payload:        payload,
		})
	}
}

func (r *Relayer) invoke(l Listener, msg Message) {
	defer func() {
		if rec := recover(); rec != nil {
			r.reportDispatchError("Subscription listener panicked",
				errors.NewInternalError(fmt.Sprint(rec), nil).WithOperation("deliver"))
		}
	}()
	l(msg)
}

// reportDispatchError logs and emits an asynchronous failure that has no
// caller to return to.
func (r *Relayer) reportDispatchError(msg string, err error) {
	r.logger.Warn(msg, zap.Error(err))
	r.events.Emit(events.Event{Name: events.Error, Err: err})
}
