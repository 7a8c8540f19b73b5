package bridge

import (
	"fmt"
	"os"
	"strconv"

	"github.com/grandcat/zeroconf"

	"github.com/muurk/panelctl/internal/version"
)

const (
	// ServiceType is the mDNS service the bridge registers
	ServiceType = "_panelctl._tcp"
	mdnsDomain  = "local."
)

type advertiser struct {
	server *zeroconf.Server
}

// advertise registers the bridge on the local network
func advertise(port, devices int) (*advertiser, error) {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "host"
	}
	instance := "panelctl-" + host

	server, err := zeroconf.Register(instance, ServiceType, mdnsDomain, port, txtRecords(devices), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to register %s: %w", ServiceType, err)
	}
	return &advertiser{server: server}, nil
}

func txtRecords(devices int) []string {
	return []string{
		"devices=" + strconv.Itoa(devices),
		"version=" + version.Version,
	}
}

func (a *advertiser) setDevices(n int) {
	a.server.SetText(txtRecords(n))
}

func (a *advertiser) shutdown() {
	a.server.Shutdown()
}
