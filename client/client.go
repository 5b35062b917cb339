package client

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/google/uuid"
	"github.com/mbocsi/smdp/proto"
)

// DefaultAckTimeout is how long Register waits for the hub's Ack.
const DefaultAckTimeout = 2 * time.Second

var (
	ErrAckTimeout           = errors.New("timeout waiting for registration ack")
	ErrRegistrationRejected = errors.New("hub rejected registration")
)

// Device is the device side of SMDP: it registers with a hub and reports
// state changes. There is no retransmission; callers retry Register if they
// need to.
type Device struct {
	ID         string
	Firmware   string
	State      uint8
	AckTimeout time.Duration

	transport  Transport
	registered bool
}

func NewDevice(id, firmware string, state uint8, t Transport) (*Device, error) {
	if !proto.DeviceIDField.Fits(id) {
		return nil, fmt.Errorf("device id %q: %w", id, proto.ErrFieldEncoding)
	}
	if !proto.FirmwareField.Fits(firmware) {
		return nil, fmt.Errorf("firmware %q: %w", firmware, proto.ErrFieldEncoding)
	}
	return &Device{
		ID:         id,
		Firmware:   firmware,
		State:      state,
		AckTimeout: DefaultAckTimeout,
		transport:  t,
	}, nil
}

// DefaultDeviceID returns a random 16-character hex identifier.
func DefaultDeviceID() string {
	id := uuid.New()
	return hex.EncodeToString(id[:8])
}

func (d *Device) Connect(addr string) error {
	if err := d.transport.Connect(addr); err != nil {
		return err
	}
	slog.Info("Connected to hub", "addr", addr, "device_id", d.ID)
	return nil
}

// Register sends a DeviceRegister and waits up to AckTimeout for the matching
// Ack. Unrelated or malformed datagrams are skipped.
func (d *Device) Register(ctx context.Context) (proto.Ack, error) {
	data, err := proto.Encode(proto.DeviceRegister{DeviceID: d.ID, State: d.State, Firmware: d.Firmware})
	if err != nil {
		return proto.Ack{}, err
	}
	if err := d.transport.Send(data); err != nil {
		return proto.Ack{}, fmt.Errorf("send registration: %w", err)
	}
	slog.Info("Sent registration", "device_id", d.ID, "firmware", d.Firmware, "state", d.State)

	timeout := d.AckTimeout
	if timeout <= 0 {
		timeout = DefaultAckTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	for {
		raw, err := d.transport.Read(ctx)
		if err != nil {
			if isTimeout(err) {
				slog.Warn("No ack received", "device_id", d.ID, "timeout", timeout)
				return proto.Ack{}, ErrAckTimeout
			}
			return proto.Ack{}, fmt.Errorf("read ack: %w", err)
		}

		msg, err := proto.Decode(raw)
		if err != nil {
			slog.Warn("Ignoring malformed datagram", "error", err.Error(), "size", len(raw))
			continue
		}
		ack, ok := msg.(proto.Ack)
		if !ok || ack.AckedType != proto.AckedType(proto.TypeDeviceRegister) || ack.DeviceID != d.ID {
			slog.Debug("Ignoring unrelated message", "type", msg.Type().String())
			continue
		}

		slog.Info("Registration ack received", "device_id", d.ID, "status", ack.Status)
		if !ack.Succeeded() {
			return ack, ErrRegistrationRejected
		}
		d.registered = true
		return ack, nil
	}
}

// ReportState sends a DeviceState update. The hub does not reply. data longer
// than the state_data width is truncated on the wire.
func (d *Device) ReportState(code uint8, data string) error {
	buf, err := proto.Encode(proto.DeviceState{DeviceID: d.ID, StateCode: code, StateData: data})
	if err != nil {
		return err
	}
	if err := d.transport.Send(buf); err != nil {
		return fmt.Errorf("send state: %w", err)
	}
	d.State = code
	slog.Info("Sent state update", "device_id", d.ID, "code", code, "data", data)
	return nil
}

// Registered reports whether the last Register call was acknowledged.
func (d *Device) Registered() bool {
	return d.registered
}

func (d *Device) Close() error {
	return d.transport.Close()
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
