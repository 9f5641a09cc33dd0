// Package protocol maps relay protocol ids to the JSON-RPC method names used
// for publish, subscribe, unsubscribe and subscription pushes.
//
// The table is fixed at build time and never mutated, so lookups are safe for
// concurrent use without coordination.
package protocol

import (
	"sort"
	"strings"

	"github.com/DeBrosOfficial/relayer/pkg/errors"
)

// Default is the protocol used when the caller does not pick one.
const Default = "waku"

// SubscriptionSuffix terminates the method name of every inbound
// subscription push, whatever the protocol version.
const SubscriptionSuffix = "_subscription"

// Descriptor is the versioned set of relay method names for one protocol id.
type Descriptor struct {
	Name         string
	Publish      string
	Subscribe    string
	Unsubscribe  string
	Subscription string
}

func newDescriptor(name string) Descriptor {
	return Descriptor{
		Name:         name,
		Publish:      name + "_publish",
		Subscribe:    name + "_subscribe",
		Unsubscribe:  name + "_unsubscribe",
		Subscription: name + SubscriptionSuffix,
	}
}

var descriptors = map[string]Descriptor{
	"waku":    newDescriptor("waku"),
	"irn":     newDescriptor("irn"),
	"iridium": newDescriptor("iridium"),
}

// Lookup returns the descriptor registered for id.
func Lookup(id string) (Descriptor, error) {
	d, ok := descriptors[id]
	if !ok {
		return Descriptor{}, errors.NewUnsupportedProtocolError(id)
	}
	return d, nil
}

// Resolve is Lookup with the empty id standing for fallback, and an empty
// fallback standing for Default.
func Resolve(id, fallback string) (Descriptor, error) {
	if id == "" {
		id = fallback
	}
	if id == "" {
		id = Default
	}
	return Lookup(id)
}

// Names returns the registered protocol ids in sorted order.
func Names() []string {
	names := make([]string, 0, len(descriptors))
	for name := range descriptors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsSubscriptionMethod reports whether method names an inbound subscription
// push.
func IsSubscriptionMethod(method string) bool {
	return len(method) > len(SubscriptionSuffix) && strings.HasSuffix(method, SubscriptionSuffix)
}
