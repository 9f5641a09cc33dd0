// Package jsonrpc holds the JSON-RPC 2.0 request and response shapes spoken
// with the relay, plus helpers to build and classify them.
package jsonrpc

import (
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"
)

// Version is the jsonrpc member of every message.
const Version = "2.0"

// Request is a JSON-RPC request. Inbound subscription pushes use the same
// shape.
type Request struct {
	ID      int64           `json:"id"`
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response is a JSON-RPC response carrying either Result or Error.
type Response struct {
	ID      int64           `json:"id"`
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// Error is the JSON-RPC error object.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("jsonrpc error %d: %s", e.Code, e.Message)
}

// Standard error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

var idCounter atomic.Int64

// PayloadID returns a new message id: the current unix time in milliseconds
// followed by three digits taken from a process-wide counter.
func PayloadID() int64 {
	return time.Now().UnixMilli()*1000 + idCounter.Add(1)%1000
}

// NewRequest builds a request for method with params marshalled to JSON.
func NewRequest(method string, params interface{}) (*Request, error) {
	raw, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("marshal %s params: %w", method, err)
	}
	return &Request{
		ID:      PayloadID(),
		JSONRPC: Version,
		Method:  method,
		Params:  raw,
	}, nil
}

// NewResult builds a successful response for request id.
func NewResult(id int64, result interface{}) (*Response, error) {
	raw, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return &Response{ID: id, JSONRPC: Version, Result: raw}, nil
}

// NewError builds an error response for request id.
func NewError(id int64, code int, message string) *Response {
	return &Response{
		ID:      id,
		JSONRPC: Version,
		Error:   &Error{Code: code, Message: message},
	}
}

// Frame is an inbound message classified as either a request or a response.
type Frame struct {
	Request  *Request
	Response *Response
}

// IsRequest reports whether the frame carries a method.
func (f *Frame) IsRequest() bool { return f.Request != nil }

// frameProbe decodes the union of request and response members.
type frameProbe struct {
	ID      *int64          `json:"id"`
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
	Result  json.RawMessage `json:"result"`
	Error   *Error          `json:"error"`
}

// Parse classifies a raw inbound frame. Frames with a method are requests;
// frames with a result or error are responses; anything else is rejected.
func Parse(data []byte) (*Frame, error) {
	var p frameProbe
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse frame: %w", err)
	}
	if p.ID == nil {
		return nil, fmt.Errorf("parse frame: missing id")
	}
	switch {
	case p.Method != "":
		return &Frame{Request: &Request{
			ID:      *p.ID,
			JSONRPC: p.JSONRPC,
			Method:  p.Method,
			Params:  p.Params,
		}}, nil
	case p.Result != nil || p.Error != nil:
		return &Frame{Response: &Response{
			ID:      *p.ID,
			JSONRPC: p.JSONRPC,
			Result:  p.Result,
			Error:   p.Error,
		}}, nil
	default:
		return nil, fmt.Errorf("parse frame %d: neither request nor response", *p.ID)
	}
}
