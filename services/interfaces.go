package services

import "github.com/mbocsi/smdp/server"

// DeviceService handles device-related read operations. The registry itself
// is only ever written by the hub dispatcher.
type DeviceService interface {
	ListDevices() ([]DeviceInfo, error)
	GetDevice(id string) (*DeviceInfo, error)
	IsDeviceRegistered(id string) (bool, error)
}

// HubService exposes dispatcher counters
type HubService interface {
	GetStats() (server.Stats, error)
}

// TransportService handles transport information
type TransportService interface {
	ListTransports() ([]TransportInfo, error)
	GetTransport(index int) (*TransportInfo, error)
	GetTransportStats() (map[string]interface{}, error)
}

// EventService manages live event subscriptions
type EventService interface {
	Subscribe(kind string, sub server.Subscriber) error
	Unsubscribe(sub server.Subscriber) error
}

// ServiceContainer holds all service implementations
type ServiceContainer struct {
	Device    DeviceService
	Hub       HubService
	Transport TransportService
	Events    EventService
}
