package client

import (
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"time"

	"github.com/hashicorp/mdns"
)

// HubServiceType must match the service the hub advertises.
const HubServiceType = "_smdp._udp"

// DiscoveredHub represents a hub found via mDNS
type DiscoveredHub struct {
	ServiceName string
	Address     string
	Port        int
	TXTRecords  []string
}

// HostPort returns the address in a form accepted by Connect.
func (h *DiscoveredHub) HostPort() string {
	return net.JoinHostPort(h.Address, strconv.Itoa(h.Port))
}

// DiscoverHub returns the first SMDP hub that answers on the local network
func DiscoverHub(timeout time.Duration) (*DiscoveredHub, error) {
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	entriesCh := make(chan *mdns.ServiceEntry, 4)

	params := mdns.DefaultParams(HubServiceType)
	params.Entries = entriesCh
	params.Timeout = timeout
	params.DisableIPv6 = true

	go func() {
		defer close(entriesCh)
		if err := mdns.Query(params); err != nil {
			slog.Warn("mDNS query failed", "error", err)
		}
	}()

	select {
	case entry := <-entriesCh:
		if entry == nil {
			return nil, fmt.Errorf("no %s service found", HubServiceType)
		}

		var address string
		if entry.AddrV4 != nil {
			address = entry.AddrV4.String()
		} else if entry.AddrV6 != nil {
			address = entry.AddrV6.String()
		} else {
			return nil, fmt.Errorf("no valid address found for service")
		}

		hub := &DiscoveredHub{
			ServiceName: entry.Name,
			Address:     address,
			Port:        entry.Port,
			TXTRecords:  entry.InfoFields,
		}

		slog.Info("Discovered SMDP hub",
			"service_name", hub.ServiceName,
			"address", hub.Address,
			"port", hub.Port,
		)

		return hub, nil

	case <-time.After(timeout):
		return nil, fmt.Errorf("mDNS discovery timeout for %s", HubServiceType)
	}
}
