package server

import "net"

// PacketHandler turns one inbound datagram into an optional reply.
type PacketHandler func(data []byte, sender net.Addr) (Reply, bool)

type Transport interface {
	Start() error
	OnPacket(PacketHandler)
	Shutdown() error
	Meta() TransportMetadata
	SetName(name string)
	SetDescription(description string)
}

type TransportMetadata struct {
	ID          string
	Name        string // Human-friendly name, e.g., "Main UDP listener"
	Protocol    string // Protocol name, e.g., "udp"
	Address     string // Bind address, e.g., "0.0.0.0:5555"
	Description string // Optional, short purpose/use case

	PacketsIn  uint64
	PacketsOut uint64
	SendErrors uint64
	Connected  bool // Whether the transport is currently bound
}
