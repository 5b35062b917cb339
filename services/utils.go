package services

import (
	"fmt"

	"github.com/mbocsi/smdp/proto"
	"github.com/mbocsi/smdp/server"
)

// convertDeviceRecord converts server.DeviceRecord to DeviceInfo
func convertDeviceRecord(rec server.DeviceRecord) DeviceInfo {
	return DeviceInfo{
		ID:         rec.ID,
		Firmware:   rec.Firmware,
		State:      rec.State,
		StateLabel: stateLabel(rec.State),
		LastSeen:   rec.LastSeen,
		Addr:       rec.Addr,
	}
}

// convertTransportMeta converts transport metadata to TransportInfo
func convertTransportMeta(index int, transport server.Transport) TransportInfo {
	meta := transport.Meta()
	status := "disconnected"
	if meta.Connected {
		status = "connected"
	}

	return TransportInfo{
		Index:       index,
		Name:        meta.Name,
		Type:        meta.Protocol,
		Address:     meta.Address,
		Status:      status,
		PacketsIn:   meta.PacketsIn,
		PacketsOut:  meta.PacketsOut,
		SendErrors:  meta.SendErrors,
		Description: meta.Description,
	}
}

func stateLabel(state uint8) string {
	switch state {
	case 0:
		return "off"
	case 1:
		return "on"
	default:
		return fmt.Sprintf("code %d", state)
	}
}

// validateDeviceID checks that id could have been sent by a device at all.
// Empty and blank ids are valid on the wire, so they are looked up like any
// other.
func validateDeviceID(id string) error {
	if !proto.DeviceIDField.Fits(id) {
		return ServiceError{
			Code:    ErrCodeInvalidInput,
			Message: fmt.Sprintf("Device id longer than %d bytes", proto.DeviceIDField.Width),
		}
	}
	return nil
}
