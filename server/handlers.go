package server

import (
	"log/slog"
	"net"

	"github.com/mbocsi/smdp/proto"
)

// ---------- register ---------- //

func (d *Dispatcher) handleRegister(m proto.DeviceRegister, sender net.Addr) (Reply, bool) {
	now := d.now()
	rec := DeviceRecord{
		ID:       m.DeviceID,
		Firmware: m.Firmware,
		State:    m.State,
		LastSeen: now,
		Addr:     addrString(sender),
	}
	d.Registery.upsert(rec)
	d.counters.registered.Add(1)
	slog.Info("Registered device", "device_id", m.DeviceID, "firmware", m.Firmware, "state", m.State, "addr", rec.Addr)

	evt := NewEvent(EventDeviceRegistered, now)
	evt.DeviceID = rec.ID
	evt.Addr = rec.Addr
	evt.Device = &rec
	d.publish(evt)

	ack, err := proto.Encode(proto.Ack{
		AckedType: proto.AckedType(proto.TypeDeviceRegister),
		DeviceID:  m.DeviceID,
		Status:    proto.StatusSuccess,
	})
	if err != nil {
		slog.Error("Failed to encode ack", "device_id", m.DeviceID, "error", err.Error())
		return Reply{}, false
	}
	d.counters.replies.Add(1)
	return Reply{Data: ack, Addr: sender}, true
}

// ---------- state ---------- //

func (d *Dispatcher) handleState(m proto.DeviceState, addr string) {
	now := d.now()
	rec, ok := d.Registery.updateState(m.DeviceID, m.StateCode, now)
	if !ok {
		d.counters.stateIgnored.Add(1)
		slog.Info("Ignoring state update from unregistered device", "device_id", m.DeviceID, "code", m.StateCode, "data", m.StateData, "addr", addr)
		evt := NewEvent(EventStateIgnored, now)
		evt.DeviceID = m.DeviceID
		evt.Addr = addr
		evt.Detail = m.StateData
		d.publish(evt)
		return
	}

	d.counters.stateUpdates.Add(1)
	slog.Info("Device state changed", "device_id", m.DeviceID, "code", m.StateCode, "data", m.StateData, "addr", addr)

	evt := NewEvent(EventDeviceState, now)
	evt.DeviceID = rec.ID
	evt.Addr = addr
	evt.Device = &rec
	evt.Detail = m.StateData
	d.publish(evt)
}

// ---------- ack / unknown ---------- //

func (d *Dispatcher) handleAck(m proto.Ack, addr string) {
	d.counters.acks.Add(1)
	slog.Info("Ack received", "device_id", m.DeviceID, "acked_type", m.AckedType, "status", m.Status, "addr", addr)

	evt := NewEvent(EventAckReceived, d.now())
	evt.DeviceID = m.DeviceID
	evt.Addr = addr
	d.publish(evt)
}

func (d *Dispatcher) handleUnknown(m proto.Unknown, addr string) {
	d.counters.unknown.Add(1)
	slog.Warn("Unknown message type", "type", m.Code.String(), "size", len(m.Payload), "addr", addr)

	evt := NewEvent(EventUnknownMessage, d.now())
	evt.Addr = addr
	evt.Detail = m.Code.String()
	d.publish(evt)
}
