package proto

import "fmt"

// MessageType is the 16-bit discriminator carried in every SMDP header.
type MessageType uint16

const (
	TypeDeviceRegister MessageType = 0x0001
	TypeDeviceState    MessageType = 0x0002
	TypeCommandExec    MessageType = 0x0003 // reserved, decoded as Unknown
	TypeAck            MessageType = 0x0004
)

// Ack status codes
const (
	StatusSuccess uint8 = 0x00
	StatusFailure uint8 = 0xFF
)

const (
	HeaderSize = 4

	RegisterPayloadSize = 16 + 1 + 8 // device_id, state, firmware
	StatePayloadSize    = 16 + 1 + 8 // device_id, state_code, state_data
	AckPayloadSize      = 1 + 16 + 1 // acked_type, device_id, status

	MaxPayloadSize = 0xFFFF
)

func (t MessageType) String() string {
	switch t {
	case TypeDeviceRegister:
		return "device_register"
	case TypeDeviceState:
		return "device_state"
	case TypeCommandExec:
		return "command_exec"
	case TypeAck:
		return "ack"
	default:
		return fmt.Sprintf("unknown(0x%04x)", uint16(t))
	}
}

// PayloadSize returns the fixed payload width for kinds with a defined layout.
func PayloadSize(t MessageType) (int, bool) {
	switch t {
	case TypeDeviceRegister:
		return RegisterPayloadSize, true
	case TypeDeviceState:
		return StatePayloadSize, true
	case TypeAck:
		return AckPayloadSize, true
	}
	return 0, false
}

// AckedType is the value placed in Ack.AckedType for a given message type:
// the low byte of the 16-bit code.
func AckedType(t MessageType) uint8 {
	return uint8(t & 0xFF)
}

type Header struct {
	Type   MessageType
	Length uint16 // payload bytes following the header
}

// Message is one of DeviceRegister, DeviceState, Ack or Unknown.
type Message interface {
	Type() MessageType
}

type DeviceRegister struct {
	DeviceID string
	State    uint8 // 0=off, 1=on
	Firmware string
}

type DeviceState struct {
	DeviceID  string
	StateCode uint8
	StateData string // diagnostic only, decoded permissively
}

type Ack struct {
	AckedType uint8
	DeviceID  string
	Status    uint8
}

// Unknown carries any message type without a payload layout, including the
// reserved CommandExec code.
type Unknown struct {
	Code    MessageType
	Payload []byte
}

func (DeviceRegister) Type() MessageType { return TypeDeviceRegister }
func (DeviceState) Type() MessageType    { return TypeDeviceState }
func (Ack) Type() MessageType            { return TypeAck }
func (u Unknown) Type() MessageType      { return u.Code }

// Succeeded reports whether the ack carries the success status.
func (a Ack) Succeeded() bool {
	return a.Status == StatusSuccess
}
