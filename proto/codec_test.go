package proto

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		msg  Message
	}{
		{"register", DeviceRegister{DeviceID: "D1", State: 1, Firmware: "v1.0"}},
		{"register full width", DeviceRegister{DeviceID: "0123456789abcdef", State: 0, Firmware: "v2.0.1-b"}},
		{"register empty strings", DeviceRegister{DeviceID: "", State: 255, Firmware: ""}},
		{"state", DeviceState{DeviceID: "D1", StateCode: 0, StateData: "off"}},
		{"state full width", DeviceState{DeviceID: "sensor-kitchen-1", StateCode: 7, StateData: "12345678"}},
		{"ack success", Ack{AckedType: AckedType(TypeDeviceRegister), DeviceID: "D1", Status: StatusSuccess}},
		{"ack failure", Ack{AckedType: AckedType(TypeDeviceState), DeviceID: "D2", Status: StatusFailure}},
		{"utf8 id", DeviceRegister{DeviceID: "café", State: 1, Firmware: "ü1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := Encode(tt.msg)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			got, err := Decode(data)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if got != tt.msg {
				t.Errorf("Expected %+v, got %+v", tt.msg, got)
			}
		})
	}
}

func TestRoundTrip_Unknown(t *testing.T) {
	orig := Unknown{Code: 0x00FF, Payload: []byte{0xDE, 0xAD, 0xBE, 0xEF}}
	data, err := Encode(orig)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	msg, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	u, ok := msg.(Unknown)
	if !ok {
		t.Fatalf("Expected Unknown, got %T", msg)
	}
	if u.Code != orig.Code {
		t.Errorf("Expected code 0x%04x, got 0x%04x", orig.Code, u.Code)
	}
	if !bytes.Equal(u.Payload, orig.Payload) {
		t.Errorf("Expected payload %x, got %x", orig.Payload, u.Payload)
	}
}

func TestEncode_LengthMatchesPayload(t *testing.T) {
	msgs := []Message{
		DeviceRegister{DeviceID: "D1", State: 1, Firmware: "v1.0"},
		DeviceState{DeviceID: "D1", StateCode: 0, StateData: "manual_off"},
		Ack{AckedType: 1, DeviceID: "D1", Status: StatusSuccess},
		Unknown{Code: TypeCommandExec, Payload: []byte("reboot")},
	}
	for _, msg := range msgs {
		data, err := Encode(msg)
		if err != nil {
			t.Fatalf("Encode %T: %v", msg, err)
		}
		length := binary.BigEndian.Uint16(data[2:4])
		if int(length) != len(data)-HeaderSize {
			t.Errorf("%s: header length %d, payload %d", msg.Type(), length, len(data)-HeaderSize)
		}
		if MessageType(binary.BigEndian.Uint16(data[0:2])) != msg.Type() {
			t.Errorf("%s: wrong type code in header", msg.Type())
		}
	}
}

func TestEncode_WireLayout(t *testing.T) {
	data, err := Encode(DeviceRegister{DeviceID: "abc123", State: 1, Firmware: "v1.0"})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := []byte{
		0x00, 0x01, 0x00, 0x19,
		'a', 'b', 'c', '1', '2', '3', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
		0x01,
		'v', '1', '.', '0', 0, 0, 0, 0,
	}
	if !bytes.Equal(data, want) {
		t.Errorf("Expected %x, got %x", want, data)
	}

	data, err = Encode(Ack{AckedType: 1, DeviceID: "abc123", Status: StatusFailure})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want = []byte{
		0x00, 0x04, 0x00, 0x12,
		0x01,
		'a', 'b', 'c', '1', '2', '3', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
		0xFF,
	}
	if !bytes.Equal(data, want) {
		t.Errorf("Expected %x, got %x", want, data)
	}
}

func TestEncode_DeviceIDWidthBoundary(t *testing.T) {
	if _, err := Encode(DeviceRegister{DeviceID: "0123456789abcdef", Firmware: "v1"}); err != nil {
		t.Errorf("Expected 16-byte id to encode, got %v", err)
	}
	_, err := Encode(DeviceRegister{DeviceID: "0123456789abcdefX", Firmware: "v1"})
	if !errors.Is(err, ErrFieldEncoding) {
		t.Errorf("Expected ErrFieldEncoding for 17-byte id, got %v", err)
	}
	_, err = Encode(Ack{DeviceID: "0123456789abcdefX"})
	if !errors.Is(err, ErrFieldEncoding) {
		t.Errorf("Expected ErrFieldEncoding for 17-byte ack id, got %v", err)
	}
}

func TestEncode_FirmwareWidthBoundary(t *testing.T) {
	if _, err := Encode(DeviceRegister{DeviceID: "D1", Firmware: "12345678"}); err != nil {
		t.Errorf("Expected 8-byte firmware to encode, got %v", err)
	}
	_, err := Encode(DeviceRegister{DeviceID: "D1", Firmware: "123456789"})
	if !errors.Is(err, ErrFieldEncoding) {
		t.Errorf("Expected ErrFieldEncoding for 9-byte firmware, got %v", err)
	}
}

func TestEncode_StateDataTruncates(t *testing.T) {
	at, err := Encode(DeviceState{DeviceID: "D1", StateData: "12345678"})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	over, err := Encode(DeviceState{DeviceID: "D1", StateData: "123456789"})
	if err != nil {
		t.Fatalf("Expected oversized state_data to truncate, got %v", err)
	}
	if !bytes.Equal(at, over) {
		t.Errorf("Expected width+1 value to truncate to the width value")
	}

	data, err := Encode(DeviceState{DeviceID: "D1", StateCode: 0, StateData: "manual_off"})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	msg, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got := msg.(DeviceState).StateData; got != "manual_o" {
		t.Errorf("Expected 'manual_o', got %q", got)
	}
}

func TestEncode_Unsupported(t *testing.T) {
	_, err := Encode(&DeviceRegister{DeviceID: "D1"})
	if !errors.Is(err, ErrUnsupportedMessage) {
		t.Errorf("Expected ErrUnsupportedMessage, got %v", err)
	}
	_, err = Encode(Unknown{Code: 0x00FF, Payload: make([]byte, MaxPayloadSize+1)})
	if !errors.Is(err, ErrPayloadTooLarge) {
		t.Errorf("Expected ErrPayloadTooLarge, got %v", err)
	}
}

func TestDecode_MalformedHeader(t *testing.T) {
	for _, data := range [][]byte{nil, {}, {0x00}, {0x00, 0x01, 0x00}} {
		_, err := Decode(data)
		if !errors.Is(err, ErrMalformedHeader) {
			t.Errorf("len %d: expected ErrMalformedHeader, got %v", len(data), err)
		}
	}
}

func TestDecode_PayloadLengthMismatch(t *testing.T) {
	valid, err := Encode(DeviceRegister{DeviceID: "D1", State: 1, Firmware: "v1.0"})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	short := valid[:len(valid)-1]
	long := append(append([]byte(nil), valid...), 0x00)
	badLength := append([]byte(nil), valid...)
	binary.BigEndian.PutUint16(badLength[2:4], 24)
	headerOnly := []byte{0x00, 0x02, 0x00, 0x00}
	ackShort := []byte{0x00, 0x04, 0x00, 0x12, 0x01}

	tests := map[string][]byte{
		"short":         short,
		"long":          long,
		"bad length":    badLength,
		"header only":   headerOnly,
		"ack truncated": ackShort,
	}
	for name, data := range tests {
		_, err := Decode(data)
		if !errors.Is(err, ErrPayloadLengthMismatch) {
			t.Errorf("%s: expected ErrPayloadLengthMismatch, got %v", name, err)
		}
	}
}

func TestDecode_UnknownType(t *testing.T) {
	data := []byte{0x00, 0xFF, 0x00, 0x03, 'x', 'y', 'z'}
	msg, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	u, ok := msg.(Unknown)
	if !ok {
		t.Fatalf("Expected Unknown, got %T", msg)
	}
	if u.Code != 0x00FF || string(u.Payload) != "xyz" {
		t.Errorf("Unexpected unknown message %+v", u)
	}

	// payload is copied out of the receive buffer
	data[4] = 'q'
	if u.Payload[0] != 'x' {
		t.Error("Expected Unknown payload to be independent of the input buffer")
	}
}

func TestDecode_CommandExecIsUnknown(t *testing.T) {
	msg, err := Decode([]byte{0x00, 0x03, 0x00, 0x00})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if u, ok := msg.(Unknown); !ok || u.Code != TypeCommandExec {
		t.Errorf("Expected Unknown command_exec, got %#v", msg)
	}
}

func TestDecode_StateDataPermissive(t *testing.T) {
	data, err := Encode(DeviceState{DeviceID: "D1", StateCode: 1})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	copy(data[HeaderSize+17:], []byte{'o', 0xFF, 'k', 0xC3, 0x00, 0x00, 0x00, 0x00})

	msg, err := Decode(data)
	if err != nil {
		t.Fatalf("Expected permissive decode, got %v", err)
	}
	if got := msg.(DeviceState).StateData; got != "ok" {
		t.Errorf("Expected 'ok', got %q", got)
	}
}

func TestDecode_DeviceIDStrict(t *testing.T) {
	data, err := Encode(DeviceRegister{DeviceID: "D1", Firmware: "v1"})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	data[HeaderSize+1] = 0xFF

	_, err = Decode(data)
	if !errors.Is(err, ErrFieldDecoding) {
		t.Errorf("Expected ErrFieldDecoding, got %v", err)
	}
}

func TestMessageType_String(t *testing.T) {
	tests := map[MessageType]string{
		TypeDeviceRegister: "device_register",
		TypeDeviceState:    "device_state",
		TypeCommandExec:    "command_exec",
		TypeAck:            "ack",
		0x00FF:             "unknown(0x00ff)",
	}
	for mt, want := range tests {
		if mt.String() != want {
			t.Errorf("Expected %q, got %q", want, mt.String())
		}
	}
}

func FuzzDecode(f *testing.F) {
	seed, _ := Encode(DeviceRegister{DeviceID: "D1", State: 1, Firmware: "v1.0"})
	f.Add(seed)
	f.Add([]byte{0x00, 0x02})
	f.Add([]byte{0x00, 0xFF, 0x00, 0x01, 0x42})
	f.Fuzz(func(t *testing.T, data []byte) {
		msg, err := Decode(data)
		if err != nil {
			return
		}
		if _, known := PayloadSize(msg.Type()); known {
			if _, err := Encode(msg); err != nil {
				t.Errorf("decoded %s did not re-encode: %v", msg.Type(), err)
			}
		}
	})
}
