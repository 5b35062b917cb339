package services

import (
	"sort"

	"github.com/mbocsi/smdp/server"
)

// DeviceServiceImpl implements DeviceService
type DeviceServiceImpl struct {
	registry *server.DeviceRegistry
}

// NewDeviceService creates a new device service
func NewDeviceService(registry *server.DeviceRegistry) DeviceService {
	return &DeviceServiceImpl{
		registry: registry,
	}
}

// ListDevices returns all registered devices ordered by id
func (ds *DeviceServiceImpl) ListDevices() ([]DeviceInfo, error) {
	devices := ds.registry.List()
	result := make([]DeviceInfo, 0, len(devices))

	for _, device := range devices {
		result = append(result, convertDeviceRecord(device))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })

	return result, nil
}

// GetDevice returns a specific device by ID
func (ds *DeviceServiceImpl) GetDevice(id string) (*DeviceInfo, error) {
	if err := validateDeviceID(id); err != nil {
		return nil, err
	}
	device, exists := ds.registry.Get(id)
	if !exists {
		return nil, ServiceError{
			Code:    ErrCodeNotFound,
			Message: "Device not found: " + id,
		}
	}

	info := convertDeviceRecord(device)
	return &info, nil
}

// IsDeviceRegistered checks if the hub has a record for id
func (ds *DeviceServiceImpl) IsDeviceRegistered(id string) (bool, error) {
	_, exists := ds.registry.Get(id)
	return exists, nil
}
