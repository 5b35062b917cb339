package proto

import (
	"encoding/binary"
	"fmt"
)

// Encode serializes msg into a header followed by its fixed-layout payload.
// Integers are big-endian; text fields follow their FixedString policy.
func Encode(msg Message) ([]byte, error) {
	switch m := msg.(type) {
	case DeviceRegister:
		buf := newFrame(TypeDeviceRegister, RegisterPayloadSize)
		p := buf[HeaderSize:]
		if err := DeviceIDField.Put(p[0:16], m.DeviceID); err != nil {
			return nil, err
		}
		p[16] = m.State
		if err := FirmwareField.Put(p[17:25], m.Firmware); err != nil {
			return nil, err
		}
		return buf, nil

	case DeviceState:
		buf := newFrame(TypeDeviceState, StatePayloadSize)
		p := buf[HeaderSize:]
		if err := DeviceIDField.Put(p[0:16], m.DeviceID); err != nil {
			return nil, err
		}
		p[16] = m.StateCode
		if err := StateDataField.Put(p[17:25], m.StateData); err != nil {
			return nil, err
		}
		return buf, nil

	case Ack:
		buf := newFrame(TypeAck, AckPayloadSize)
		p := buf[HeaderSize:]
		p[0] = m.AckedType
		if err := DeviceIDField.Put(p[1:17], m.DeviceID); err != nil {
			return nil, err
		}
		p[17] = m.Status
		return buf, nil

	case Unknown:
		if len(m.Payload) > MaxPayloadSize {
			return nil, fmt.Errorf("%s: %d bytes: %w", m.Code, len(m.Payload), ErrPayloadTooLarge)
		}
		buf := newFrame(m.Code, len(m.Payload))
		copy(buf[HeaderSize:], m.Payload)
		return buf, nil
	}
	return nil, fmt.Errorf("%T: %w", msg, ErrUnsupportedMessage)
}

// DecodeHeader reads the 4-byte header at the start of data.
func DecodeHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, fmt.Errorf("got %d bytes: %w", len(data), ErrMalformedHeader)
	}
	return Header{
		Type:   MessageType(binary.BigEndian.Uint16(data[0:2])),
		Length: binary.BigEndian.Uint16(data[2:4]),
	}, nil
}

// Decode parses one datagram. Types without a payload layout succeed as
// Unknown holding a copy of the bytes after the header.
func Decode(data []byte) (Message, error) {
	h, err := DecodeHeader(data)
	if err != nil {
		return nil, err
	}
	payload := data[HeaderSize:]

	want, known := PayloadSize(h.Type)
	if !known {
		return Unknown{Code: h.Type, Payload: append([]byte(nil), payload...)}, nil
	}
	if int(h.Length) != want || len(payload) != want {
		return nil, fmt.Errorf("%s: declared %d, received %d, want %d: %w",
			h.Type, h.Length, len(payload), want, ErrPayloadLengthMismatch)
	}

	switch h.Type {
	case TypeDeviceRegister:
		id, err := DeviceIDField.Get(payload[0:16])
		if err != nil {
			return nil, err
		}
		fw, err := FirmwareField.Get(payload[17:25])
		if err != nil {
			return nil, err
		}
		return DeviceRegister{DeviceID: id, State: payload[16], Firmware: fw}, nil

	case TypeDeviceState:
		id, err := DeviceIDField.Get(payload[0:16])
		if err != nil {
			return nil, err
		}
		sd, err := StateDataField.Get(payload[17:25])
		if err != nil {
			return nil, err
		}
		return DeviceState{DeviceID: id, StateCode: payload[16], StateData: sd}, nil

	default: // TypeAck
		id, err := DeviceIDField.Get(payload[1:17])
		if err != nil {
			return nil, err
		}
		return Ack{AckedType: payload[0], DeviceID: id, Status: payload[17]}, nil
	}
}

func newFrame(t MessageType, payloadLen int) []byte {
	buf := make([]byte, HeaderSize+payloadLen)
	binary.BigEndian.PutUint16(buf[0:2], uint16(t))
	binary.BigEndian.PutUint16(buf[2:4], uint16(payloadLen))
	return buf
}
