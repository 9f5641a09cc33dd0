// Package relaytest provides a scriptable in-memory relayer.Transport for
// tests.
//
// Responses are scripted per method with Respond, RespondResult or
// RespondError. Push, Deliver, Connect/Disconnect simulation and the
// Requests/Sent recorders let a test drive the relayer's inbound side and
// inspect what went out on the wire.
package relaytest

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/DeBrosOfficial/relayer/pkg/jsonrpc"
	"github.com/DeBrosOfficial/relayer/pkg/relayer"
)

// Responder answers one request.
type Responder func(req *jsonrpc.Request) (*jsonrpc.Response, error)

// Transport is an in-memory relayer.Transport.
type Transport struct {
	mu         sync.Mutex
	handler    relayer.TransportHandler
	responders map[string]Responder
	requests   []*jsonrpc.Request
	sent       []*jsonrpc.Response
	connected  bool

	// ConnectErr, DisconnectErr and SendErr make the matching call fail.
	ConnectErr    error
	DisconnectErr error
	SendErr       error
}

// Ensure Transport satisfies relayer.Transport.
var _ relayer.Transport = (*Transport)(nil)

// New creates an unconnected transport with no scripted responses.
func New() *Transport {
	return &Transport{responders: make(map[string]Responder)}
}

// Connect implements relayer.Transport and signals HandleConnect.
func (t *Transport) Connect(ctx context.Context) error {
	t.mu.Lock()
	err := t.ConnectErr
	if err == nil {
		t.connected = true
	}
	h := t.handler
	t.mu.Unlock()

	if err != nil {
		return err
	}
	if h != nil {
		h.HandleConnect()
	}
	return nil
}

// Disconnect implements relayer.Transport and signals HandleDisconnect.
func (t *Transport) Disconnect(ctx context.Context) error {
	t.mu.Lock()
	err := t.DisconnectErr
	t.connected = false
	h := t.handler
	t.mu.Unlock()

	if err != nil {
		return err
	}
	if h != nil {
		h.HandleDisconnect()
	}
	return nil
}

// Request implements relayer.Transport. It records req and answers with the
// responder scripted for req.Method.
func (t *Transport) Request(ctx context.Context, req *jsonrpc.Request) (*jsonrpc.Response, error) {
	t.mu.Lock()
	t.requests = append(t.requests, req)
	fn := t.responders[req.Method]
	t.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if fn == nil {
		return nil, fmt.Errorf("relaytest: no responder for %s", req.Method)
	}
	return fn(req)
}

// Send implements relayer.Transport and records res.
func (t *Transport) Send(ctx context.Context, res *jsonrpc.Response) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.SendErr != nil {
		return t.SendErr
	}
	t.sent = append(t.sent, res)
	return nil
}

// SetHandler implements relayer.Transport.
func (t *Transport) SetHandler(h relayer.TransportHandler) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.handler = h
}

// Respond scripts the answer for method.
func (t *Transport) Respond(method string, fn Responder) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.responders[method] = fn
}

// RespondResult scripts a successful response with result for method.
func (t *Transport) RespondResult(method string, result interface{}) {
	t.Respond(method, func(req *jsonrpc.Request) (*jsonrpc.Response, error) {
		return jsonrpc.NewResult(req.ID, result)
	})
}

// RespondError scripts a transport failure for method.
func (t *Transport) RespondError(method string, err error) {
	t.Respond(method, func(*jsonrpc.Request) (*jsonrpc.Response, error) {
		return nil, err
	})
}

// RespondRPCError scripts a relay error response for method.
func (t *Transport) RespondRPCError(method string, code int, message string) {
	t.Respond(method, func(req *jsonrpc.Request) (*jsonrpc.Response, error) {
		return jsonrpc.NewError(req.ID, code, message), nil
	})
}

// Requests returns every request issued so far.
func (t *Transport) Requests() []*jsonrpc.Request {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]*jsonrpc.Request(nil), t.requests...)
}

// Sent returns every response frame written with Send.
func (t *Transport) Sent() []*jsonrpc.Response {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]*jsonrpc.Response(nil), t.sent...)
}

// Connected reports whether Connect succeeded more recently than Disconnect.
func (t *Transport) Connected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.connected
}

// Deliver hands a raw inbound frame to the handler.
func (t *Transport) Deliver(frame []byte) {
	t.mu.Lock()
	h := t.handler
	t.mu.Unlock()
	if h != nil {
		h.HandlePayload(frame)
	}
}

// Push delivers a subscription push request for subscription id carrying
// the already encoded message, and returns the push's request id.
func (t *Transport) Push(method, id, topic, message string) int64 {
	req, err := jsonrpc.NewRequest(method, map[string]interface{}{
		"id": id,
		"data": map[string]string{
			"topic":   topic,
			"message": message,
		},
	})
	if err != nil {
		panic(err)
	}
	frame, err := json.Marshal(req)
	if err != nil {
		panic(err)
	}
	t.Deliver(frame)
	return req.ID
}

// SimulateDisconnect signals a dropped connection without a Disconnect call.
func (t *Transport) SimulateDisconnect() {
	t.mu.Lock()
	t.connected = false
	h := t.handler
	t.mu.Unlock()
	if h != nil {
		h.HandleDisconnect()
	}
}

// SimulateError signals a transport error.
func (t *Transport) SimulateError(err error) {
	t.mu.Lock()
	h := t.handler
	t.mu.Unlock()
	if h != nil {
		h.HandleError(err)
	}
}
