// Package events is a small named-event bus used for relay connection
// lifecycle notifications (connect, disconnect, error, payload).
//
// Subscription pushes are not routed through it; the relayer keeps a separate
// dispatch table keyed by subscription id.
package events

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Lifecycle event names.
const (
	Connect    = "connect"
	Disconnect = "disconnect"
	Error      = "error"
	Payload    = "payload"
)

// Event is delivered to handlers. Err is set for Error events and Payload
// carries the raw inbound frame for Payload events.
type Event struct {
	Name    string
	Err     error
	Payload json.RawMessage
}

// Handler receives events. Handlers run synchronously on the emitting
// goroutine and should return quickly.
type Handler func(Event)

// ListenerID identifies one registration returned by On or Once.
type ListenerID string

type registration struct {
	id      ListenerID
	handler Handler
	once    bool
}

// Emitter is safe for concurrent use.
type Emitter struct {
	mu        sync.RWMutex
	listeners map[string][]*registration
	logger    *zap.Logger
}

// NewEmitter creates an emitter. A nil logger discards handler panics.
func NewEmitter(logger *zap.Logger) *Emitter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Emitter{
		listeners: make(map[string][]*registration),
		logger:    logger,
	}
}

// On registers handler for every event called name.
func (e *Emitter) On(name string, handler Handler) ListenerID {
	return e.add(name, handler, false)
}

// Once registers handler for the next event called name only.
func (e *Emitter) Once(name string, handler Handler) ListenerID {
	return e.add(name, handler, true)
}

// Off removes the registration id from name. It reports whether something
// was removed.
func (e *Emitter) Off(name string, id ListenerID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	regs := e.listeners[name]
	for i, r := range regs {
		if r.id == id {
			e.listeners[name] = append(regs[:i:i], regs[i+1:]...)
			if len(e.listeners[name]) == 0 {
				delete(e.listeners, name)
			}
			return true
		}
	}
	return false
}

// RemoveListener is an alias for Off.
func (e *Emitter) RemoveListener(name string, id ListenerID) bool {
	return e.Off(name, id)
}

// ListenerCount returns the number of registrations for name.
func (e *Emitter) ListenerCount(name string) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.listeners[name])
}

// Emit invokes every handler registered for ev.Name in registration order.
// Once registrations are dropped before any handler runs, so an Emit from
// inside a handler never fires them a second time.
func (e *Emitter) Emit(ev Event) {
	e.mu.Lock()
	regs := e.listeners[ev.Name]
	snapshot := make([]*registration, len(regs))
	copy(snapshot, regs)
	kept := regs[:0:0]
	for _, r := range regs {
		if !r.once {
			kept = append(kept, r)
		}
	}
	if len(kept) == 0 {
		delete(e.listeners, ev.Name)
	} else {
		e.listeners[ev.Name] = kept
	}
	e.mu.Unlock()

	for _, r := range snapshot {
		e.invoke(r, ev)
	}
}

func (e *Emitter) invoke(r *registration, ev Event) {
	defer func() {
		if rec := recover(); rec != nil {
			e.logger.Error("Event handler panicked",
				zap.String("event", ev.Name),
				zap.String("listener_id", string(r.id)),
				zap.String("panic", fmt.Sprint(rec)))
		}
	}()
	r.handler(ev)
}

func (e *Emitter) add(name string, handler Handler, once bool) ListenerID {
	id := ListenerID(uuid.New().String())

	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners[name] = append(e.listeners[name], &registration{id: id, handler: handler, once: once})
	return id
}
