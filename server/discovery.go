package server

import (
	"fmt"
	"log/slog"
	"net"
	"strconv"

	"github.com/hashicorp/mdns"
)

// ServiceType is the mDNS service devices look up to find a hub.
const ServiceType = "_smdp._udp"

// Advertiser announces a hub's UDP port over mDNS.
type Advertiser struct {
	Instance string
	Port     int
	server   *mdns.Server
}

func NewAdvertiser(instance string, port int) *Advertiser {
	return &Advertiser{Instance: instance, Port: port}
}

// Start begins answering mDNS queries; it does not block.
func (a *Advertiser) Start() error {
	info := []string{"proto=smdp", "version=1"}
	svc, err := mdns.NewMDNSService(a.Instance, ServiceType, "", "", a.Port, nil, info)
	if err != nil {
		return fmt.Errorf("mdns service: %w", err)
	}
	srv, err := mdns.NewServer(&mdns.Config{Zone: svc})
	if err != nil {
		return fmt.Errorf("mdns server: %w", err)
	}
	a.server = srv
	slog.Info("Advertising hub over mDNS", "service", ServiceType, "instance", a.Instance, "port", a.Port)
	return nil
}

func (a *Advertiser) Shutdown() error {
	if a.server == nil {
		return nil
	}
	slog.Info("Stopping mDNS advertisement", "instance", a.Instance)
	return a.server.Shutdown()
}

// PortOf extracts the numeric port from a bind address like "0.0.0.0:5555".
func PortOf(addr string) (int, error) {
	_, p, err := net.SplitHostPort(addr)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(p)
}
