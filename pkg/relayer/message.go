package relayer

import (
	"encoding/json"

	"github.com/DeBrosOfficial/relayer/pkg/errors"
)

// Message is a decoded payload pushed by the relay for one subscription.
type Message struct {
	SubscriptionID string
	Topic          string
	Payload        json.RawMessage
}

// Unmarshal decodes the payload into v.
func (m Message) Unmarshal(v interface{}) error {
	if err := json.Unmarshal(m.Payload, v); err != nil {
		return errors.NewDecodeError("unmarshal payload", err)
	}
	return nil
}

// Listener is invoked once per push delivered to a subscription, in the order
// the pushes arrived.
type Listener func(msg Message)

// Subscription describes an active subscription.
type Subscription struct {
	ID        string
	Topic     string
	Listeners int
}

// pushParams is the params object of an inbound subscription push.
type pushParams struct {
	ID   string   `json:"id"`
	Data pushData `json:"data"`
}

type pushData struct {
	Topic   string `json:"topic"`
	Message string `json:"message"`
}

type publishParams struct {
	Topic   string `json:"topic"`
	Message string `json:"message"`
	TTL     int64  `json:"ttl"`
}

type subscribeParams struct {
	Topic string `json:"topic"`
}

type unsubscribeParams struct {
	ID string `json:"id"`
}
