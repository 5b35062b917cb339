package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

type HubServerOptions struct {
	MCPServer  *MCPServer      // Optional MCPServer to run alongside
	Advertiser *Advertiser     // Optional mDNS advertisement
	Broker     *Broker         // Optional (defaults to new Broker if nil)
	Registry   *DeviceRegistry // Optional (defaults to new Registry if nil)
	Context    context.Context // Optional (defaults to context.Background())
}

type HubServer struct {
	options     HubServerOptions
	coordinator *Coordinator
}

func NewHubServer(opts HubServerOptions) *HubServer {
	if opts.Broker == nil {
		opts.Broker = NewBroker()
	}
	if opts.Registry == nil {
		opts.Registry = NewDeviceRegistry()
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}

	coordinator := NewCoordinator(opts.Registry, opts.Broker, opts.MCPServer)
	coordinator.Advertiser = opts.Advertiser

	return &HubServer{
		options:     opts,
		coordinator: coordinator,
	}
}

func (s *HubServer) RegisterTransport(t Transport) {
	s.coordinator.RegisterTransport(t)
}

func (s *HubServer) GetRegistry() *DeviceRegistry {
	return s.coordinator.Registery
}

func (s *HubServer) GetBroker() *Broker {
	return s.coordinator.Broker
}

func (s *HubServer) GetDispatcher() *Dispatcher {
	return s.coordinator.Dispatcher
}

func (s *HubServer) GetTransports() []Transport {
	return s.coordinator.Transports
}

// Start blocks until SIGINT/SIGTERM, cancellation of the options context, or
// a transport failure.
func (s *HubServer) Start() error {
	ctx, stop := signal.NotifyContext(s.options.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.coordinator.Start(ctx)
}
