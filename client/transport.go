package client

import (
	"context"
	"fmt"
	"net"
	"time"
)

// maxDatagram is large enough for any SMDP message the hub sends back.
const maxDatagram = 1024

type Transport interface {
	Connect(addr string) error
	Send(data []byte) error
	Read(ctx context.Context) ([]byte, error) // one datagram, honouring ctx
	Close() error
}

type UDPTransport struct {
	conn *net.UDPConn
}

func NewUDPTransport() *UDPTransport {
	return &UDPTransport{}
}

func (t *UDPTransport) Connect(addr string) error {
	raddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", addr, err)
	}
	conn, err := net.DialUDP("udp", nil, raddr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	t.conn = conn
	return nil
}

func (t *UDPTransport) Send(data []byte) error {
	if t.conn == nil {
		return fmt.Errorf("transport is not connected")
	}
	_, err := t.conn.Write(data)
	return err
}

func (t *UDPTransport) Read(ctx context.Context) ([]byte, error) {
	if t.conn == nil {
		return nil, fmt.Errorf("transport is not connected")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if deadline, ok := ctx.Deadline(); ok {
		if err := t.conn.SetReadDeadline(deadline); err != nil {
			return nil, err
		}
	} else {
		t.conn.SetReadDeadline(time.Time{})
	}

	// Unblock the read promptly if ctx is cancelled without a deadline.
	readDone := make(chan struct{})
	defer close(readDone)
	go func() {
		select {
		case <-ctx.Done():
			_ = t.conn.SetReadDeadline(time.Now())
		case <-readDone:
		}
	}()

	buf := make([]byte, maxDatagram)
	n, err := t.conn.Read(buf)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}
	return buf[:n], nil
}

func (t *UDPTransport) Close() error {
	if t.conn == nil {
		return nil
	}
	return t.conn.Close()
}
