package services

import (
	"github.com/mbocsi/smdp/server"
)

// HubProvider is what the service layer needs from the hub server
type HubProvider interface {
	GetRegistry() *server.DeviceRegistry
	GetBroker() *server.Broker
	GetDispatcher() *server.Dispatcher
	GetTransports() []server.Transport
}

// ServiceManagerImpl manages all services with dependency injection
type ServiceManagerImpl struct {
	hub      HubProvider
	services *ServiceContainer
}

// NewServiceManager creates a new service manager
func NewServiceManager(hub HubProvider) *ServiceManagerImpl {
	sm := &ServiceManagerImpl{hub: hub}

	sm.services = &ServiceContainer{
		Device:    NewDeviceService(hub.GetRegistry()),
		Hub:       NewHubService(hub.GetDispatcher()),
		Transport: NewTransportService(hub.GetTransports),
		Events:    NewEventService(hub.GetBroker()),
	}

	return sm
}

// GetServices returns the service container
func (sm *ServiceManagerImpl) GetServices() *ServiceContainer {
	return sm.services
}
