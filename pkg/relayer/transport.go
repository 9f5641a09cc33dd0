package relayer

import (
	"context"

	"github.com/DeBrosOfficial/relayer/pkg/jsonrpc"
)

// Transport is the request/response connection to the relay server. It owns
// sockets, reconnects and the matching of responses to requests by id; the
// relayer only issues requests and waits for their responses.
type Transport interface {
	// Connect opens the connection.
	Connect(ctx context.Context) error
	// Disconnect closes the connection.
	Disconnect(ctx context.Context) error
	// Request sends req and blocks until the matching response arrives.
	// A relay error comes back as a Response with Error set.
	Request(ctx context.Context, req *jsonrpc.Request) (*jsonrpc.Response, error)
	// Send writes a response frame without waiting for anything, used to
	// acknowledge inbound pushes.
	Send(ctx context.Context, res *jsonrpc.Response) error
	// SetHandler installs the receiver of inbound frames and connection
	// events.
	SetHandler(h TransportHandler)
}

// TransportHandler receives everything the transport emits. HandlePayload is
// called once per inbound frame, one frame at a time.
type TransportHandler interface {
	HandlePayload(frame []byte)
	HandleConnect()
	HandleDisconnect()
	HandleError(err error)
}
