package discovery

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Callback receives button reports for one panel. address is the source
// address of the report, passed explicitly so callbacks never depend on a
// captured loop variable.
type Callback func(address string, buttons []int)

// Device is a discovered panel controller
type Device struct {
	// Address is the IPv4 address the panel answered from (e.g., "192.168.0.50")
	Address string

	// DIP is the identity reported by the panel's DIP switch
	DIP int

	// DiscoveredAt is when the probe for this panel completed
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the device
func (d Device) String() string {
	return fmt.Sprintf("Panel DIP=%d at %s", d.DIP, d.Address)
}

// Endpoint returns host:port for the given protocol port
func (d Device) Endpoint(port int) string {
	return net.JoinHostPort(d.Address, strconv.Itoa(port))
}
