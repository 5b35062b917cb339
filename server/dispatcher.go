package server

import (
	"log/slog"
	"net"
	"sync/atomic"
	"time"

	"github.com/mbocsi/smdp/proto"
)

// Reply is an outbound datagram produced in response to an inbound one.
type Reply struct {
	Data []byte
	Addr net.Addr
}

// Stats counts what the dispatcher has seen since startup.
type Stats struct {
	Received     uint64 `json:"received"`
	Dropped      uint64 `json:"dropped"`
	Registered   uint64 `json:"registered"`
	StateUpdates uint64 `json:"state_updates"`
	StateIgnored uint64 `json:"state_ignored"`
	Acks         uint64 `json:"acks"`
	Unknown      uint64 `json:"unknown"`
	Replies      uint64 `json:"replies"`
}

type counters struct {
	received, dropped, registered, stateUpdates atomic.Uint64
	stateIgnored, acks, unknown, replies        atomic.Uint64
}

// Dispatcher decodes inbound datagrams, applies them to the device registry
// and builds replies. It never touches the network itself.
type Dispatcher struct {
	Registery *DeviceRegistry
	Broker    *Broker          // optional
	Now       func() time.Time // defaults to time.Now

	counters counters
}

func NewDispatcher(registry *DeviceRegistry, broker *Broker) *Dispatcher {
	if registry == nil {
		registry = NewDeviceRegistry()
	}
	return &Dispatcher{Registery: registry, Broker: broker, Now: time.Now}
}

// Handle processes one datagram from sender and returns at most one reply,
// addressed back to sender. Malformed input is logged and dropped.
func (d *Dispatcher) Handle(raw []byte, sender net.Addr) (Reply, bool) {
	d.counters.received.Add(1)
	addr := addrString(sender)

	msg, err := proto.Decode(raw)
	if err != nil {
		d.counters.dropped.Add(1)
		slog.Warn("Could not parse message", "addr", addr, "size", len(raw), "error", err.Error())
		evt := NewEvent(EventMessageDropped, d.now())
		evt.Addr = addr
		evt.Detail = err.Error()
		d.publish(evt)
		return Reply{}, false
	}

	switch m := msg.(type) {
	case proto.DeviceRegister:
		return d.handleRegister(m, sender)
	case proto.DeviceState:
		d.handleState(m, addr)
	case proto.Ack:
		d.handleAck(m, addr)
	case proto.Unknown:
		d.handleUnknown(m, addr)
	}
	return Reply{}, false
}

func (d *Dispatcher) Stats() Stats {
	c := &d.counters
	return Stats{
		Received:     c.received.Load(),
		Dropped:      c.dropped.Load(),
		Registered:   c.registered.Load(),
		StateUpdates: c.stateUpdates.Load(),
		StateIgnored: c.stateIgnored.Load(),
		Acks:         c.acks.Load(),
		Unknown:      c.unknown.Load(),
		Replies:      c.replies.Load(),
	}
}

func (d *Dispatcher) now() time.Time {
	if d.Now == nil {
		return time.Now()
	}
	return d.Now()
}

func (d *Dispatcher) publish(evt Event) {
	if d.Broker != nil {
		d.Broker.Publish(evt)
	}
}

func addrString(addr net.Addr) string {
	if addr == nil {
		return ""
	}
	return addr.String()
}
