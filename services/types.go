package services

import "time"

// DeviceInfo represents device information for the service layer
type DeviceInfo struct {
	ID         string    `json:"id"`
	Firmware   string    `json:"firmware"`
	State      uint8     `json:"state"`
	StateLabel string    `json:"state_label"`
	LastSeen   time.Time `json:"last_seen"`
	Addr       string    `json:"addr,omitempty"`
}

// TransportInfo represents transport connection information
type TransportInfo struct {
	Index       int    `json:"index"`
	Name        string `json:"name,omitempty"`
	Type        string `json:"type"`
	Address     string `json:"address"`
	Status      string `json:"status"`
	PacketsIn   uint64 `json:"packets_in"`
	PacketsOut  uint64 `json:"packets_out"`
	SendErrors  uint64 `json:"send_errors"`
	Description string `json:"description,omitempty"`
}

// ServiceError represents structured service layer errors
type ServiceError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Cause   error  `json:"cause,omitempty"`
}

func (e ServiceError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Common error codes
const (
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeInternal     = "INTERNAL_ERROR"
)
