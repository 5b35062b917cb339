package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
)

// DefaultReadBuffer matches the largest datagram devices are expected to send.
const DefaultReadBuffer = 1024

// UDPTransport receives SMDP datagrams and writes replies back to the sender.
// Datagrams are handled one at a time, so the handler is the single point of
// mutation for whatever it owns.
type UDPTransport struct {
	Addr     string
	conn     net.PacketConn
	onPacket PacketHandler

	name        string
	description string
	bufferSize  int
	mu          sync.Mutex
	closed      bool // set by Shutdown; the transport cannot be restarted

	packetsIn  atomic.Uint64
	packetsOut atomic.Uint64
	sendErrors atomic.Uint64
	connected  atomic.Bool
}

func NewUDPTransport(addr string) *UDPTransport {
	return &UDPTransport{Addr: addr, bufferSize: DefaultReadBuffer}
}

// Listen binds the socket without starting the read loop. It returns
// net.ErrClosed once Shutdown has been called.
func (t *UDPTransport) Listen() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return fmt.Errorf("listen %s: %w", t.Addr, net.ErrClosed)
	}
	if t.conn != nil {
		return nil
	}
	conn, err := net.ListenPacket("udp", t.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", t.Addr, err)
	}
	t.conn = conn
	t.connected.Store(true)
	return nil
}

func (t *UDPTransport) Start() error {
	slog.Info("Starting udp server", "addr", t.Addr)

	if t.onPacket == nil {
		return fmt.Errorf("The OnPacket function is not defined. This transport is likely being called outside of the server coordinator.")
	}
	if err := t.Listen(); err != nil {
		if errors.Is(err, net.ErrClosed) {
			slog.Info("Skipping udp server start after shutdown", "addr", t.Addr)
			return nil
		}
		return err
	}
	return t.Serve()
}

// Serve runs the read loop until the socket is closed.
func (t *UDPTransport) Serve() error {
	t.mu.Lock()
	conn, closed := t.conn, t.closed
	t.mu.Unlock()
	if closed {
		return nil
	}
	if conn == nil {
		return fmt.Errorf("udp transport %s is not listening", t.Addr)
	}
	defer t.connected.Store(false)

	slog.Info("Listening for datagrams", "addr", conn.LocalAddr().String())
	buf := make([]byte, t.bufferSize)
	for {
		n, addr, err := conn.ReadFrom(buf)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		t.packetsIn.Add(1)
		slog.Debug("Datagram received", "addr", addr.String(), "size", n)
		if n == len(buf) {
			slog.Debug("Datagram filled the read buffer and may be truncated", "addr", addr.String(), "buffer", len(buf))
		}

		reply, ok := t.onPacket(buf[:n], addr)
		if !ok {
			continue
		}
		if _, err := conn.WriteTo(reply.Data, reply.Addr); err != nil {
			t.sendErrors.Add(1)
			slog.Warn("Failed to send reply", "addr", addrString(reply.Addr), "error", err.Error())
			continue
		}
		t.packetsOut.Add(1)
		slog.Debug("Sent reply", "addr", addrString(reply.Addr), "size", len(reply.Data))
	}
}

func (t *UDPTransport) Shutdown() error {
	slog.Info("Shutting down udp server", "addr", t.Addr)
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	t.connected.Store(false)
	if t.conn != nil {
		err := t.conn.Close()
		t.conn = nil
		return err
	}
	return nil
}

// LocalAddr returns the bound address, or nil before Listen.
func (t *UDPTransport) LocalAddr() net.Addr {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.conn == nil {
		return nil
	}
	return t.conn.LocalAddr()
}

func (t *UDPTransport) OnPacket(fn PacketHandler) {
	t.onPacket = fn
}

func (t *UDPTransport) Meta() TransportMetadata {
	addr := t.Addr
	if la := t.LocalAddr(); la != nil {
		addr = la.String()
	}
	return TransportMetadata{
		ID:          "udp-" + t.Addr,
		Name:        t.name,
		Description: t.description,
		Protocol:    "udp",
		Address:     addr,
		PacketsIn:   t.packetsIn.Load(),
		PacketsOut:  t.packetsOut.Load(),
		SendErrors:  t.sendErrors.Load(),
		Connected:   t.connected.Load(),
	}
}

func (t *UDPTransport) SetName(name string) {
	t.name = name
}

func (t *UDPTransport) SetDescription(description string) {
	t.description = description
}

// SetReadBuffer sets the receive buffer size; datagrams longer than n are
// truncated by the kernel and will fail to decode.
func (t *UDPTransport) SetReadBuffer(n int) {
	if n > 0 {
		t.bufferSize = n
	}
}
