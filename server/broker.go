package server

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event kinds published by the dispatcher.
const (
	EventDeviceRegistered = "device.registered"
	EventDeviceState      = "device.state"
	EventStateIgnored     = "device.state.ignored"
	EventAckReceived      = "ack.received"
	EventUnknownMessage   = "message.unknown"
	EventMessageDropped   = "message.dropped"

	// AllEvents subscribes to every kind.
	AllEvents = "*"
)

type Event struct {
	ID        string        `json:"id"`
	Kind      string        `json:"kind"`
	DeviceID  string        `json:"device_id,omitempty"`
	Addr      string        `json:"addr,omitempty"`
	Device    *DeviceRecord `json:"device,omitempty"`
	Detail    string        `json:"detail,omitempty"`
	Timestamp int64         `json:"timestamp"` // UNIX timestamp in seconds
}

func NewEvent(kind string, at time.Time) Event {
	return Event{ID: uuid.NewString(), Kind: kind, Timestamp: at.Unix()}
}

// Subscriber receives hub events. Send must not block; slow subscribers
// should drop.
type Subscriber interface {
	ID() string
	Send(Event) error
}

type Broker struct {
	mu   sync.RWMutex
	subs map[string]map[Subscriber]struct{} // Map event kind to hashset of Subscribers
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[string]map[Subscriber]struct{}),
	}
}

func (b *Broker) Subscribe(kind string, sub Subscriber) {
	slog.Debug("Subscribing", "kind", kind, "subscriber", sub.ID())
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subs[kind] == nil {
		b.subs[kind] = make(map[Subscriber]struct{})
	}
	b.subs[kind][sub] = struct{}{}
}

func (b *Broker) Publish(evt Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	// A subscriber on both the kind and the wildcard gets the event once.
	targets := make(map[Subscriber]struct{}, len(b.subs[evt.Kind])+len(b.subs[AllEvents]))
	for _, kind := range [2]string{evt.Kind, AllEvents} {
		for sub := range b.subs[kind] {
			targets[sub] = struct{}{}
		}
	}

	sentCount := 0
	for sub := range targets {
		if err := sub.Send(evt); err != nil {
			slog.Warn("There was an error publishing an event to a subscriber", "kind", evt.Kind, "subscriber", sub.ID(), "error", err.Error())
			continue
		}
		sentCount++
	}
	slog.Debug("Event published",
		"kind", evt.Kind,
		"device_id", evt.DeviceID,
		"subscribers", sentCount,
	)
}

func (b *Broker) Unsubscribe(kind string, sub Subscriber) {
	slog.Debug("Unsubscribing", "kind", kind, "subscriber", sub.ID())
	b.mu.Lock()
	defer b.mu.Unlock()

	if subs, ok := b.subs[kind]; ok {
		if _, exists := subs[sub]; exists {
			delete(subs, sub)
		} else {
			slog.Warn("Did not find subscriber for kind to unsubscribe", "kind", kind, "subscriber", sub.ID())
		}
		if len(subs) == 0 {
			delete(b.subs, kind)
		}
	}
}

// UnsubscribeAll removes sub from every kind it is subscribed to.
func (b *Broker) UnsubscribeAll(sub Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for kind, subs := range b.subs {
		delete(subs, sub)
		if len(subs) == 0 {
			delete(b.subs, kind)
		}
	}
}

func (b *Broker) SubscriberCount(kind string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[kind])
}
