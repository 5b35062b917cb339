package server

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

type Coordinator struct {
	Registery  *DeviceRegistry
	Broker     *Broker
	Dispatcher *Dispatcher
	MCPServer  *MCPServer
	Advertiser *Advertiser
	Transports []Transport
}

func NewCoordinator(registery *DeviceRegistry, broker *Broker, mcpServer *MCPServer) *Coordinator {
	dispatcher := NewDispatcher(registery, broker)
	if mcpServer != nil {
		mcpServer.RegisterHubTools(dispatcher)
	}
	return &Coordinator{Registery: registery, Broker: broker, Dispatcher: dispatcher, MCPServer: mcpServer}
}

// Start runs every transport and the optional MCP server and advertiser
// until ctx is done or one of them fails.
func (c *Coordinator) Start(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	if c.MCPServer != nil {
		g.Go(func() error { return c.MCPServer.Start(gctx) })
	}
	for _, t := range c.Transports {
		g.Go(t.Start)
	}
	if c.Advertiser != nil {
		if err := c.Advertiser.Start(); err != nil {
			slog.Warn("mDNS advertisement unavailable", "error", err.Error())
		}
	}

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down transports and server")

		if c.Advertiser != nil {
			if err := c.Advertiser.Shutdown(); err != nil {
				slog.Error("There was an error when stopping mDNS advertisement", "error", err.Error())
			}
		}
		for _, t := range c.Transports {
			if err := t.Shutdown(); err != nil {
				slog.Error("There was an error when shutting down transport server", "error", err.Error())
			}
		}
		return nil
	})

	err := g.Wait()
	if ctx.Err() != nil {
		return nil
	}
	return err
}

func (c *Coordinator) RegisterTransport(t Transport) {
	t.OnPacket(c.Dispatcher.Handle)
	c.Transports = append(c.Transports, t)
}
