package discovery

import (
	"bytes"
	"net"
	"sort"
	"sync"
	"time"
)

type record struct {
	device   Device
	callback Callback
}

// Registry maps panel addresses to discovered devices and their button
// callbacks. Entries live until Remove is called.
type Registry struct {
	mu      sync.RWMutex
	records map[string]*record
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{records: make(map[string]*record)}
}

// Insert records a panel at address. If the address is already known the
// existing entry, including its DIP and callback, is kept and false is
// returned.
func (r *Registry) Insert(address string, dip int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.records[address]; exists {
		return false
	}
	r.records[address] = &record{device: Device{
		Address:      address,
		DIP:          dip,
		DiscoveredAt: time.Now(),
	}}
	return true
}

// Get returns the device at address
func (r *Registry) Get(address string) (Device, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[address]
	if !ok {
		return Device{}, false
	}
	return rec.device, true
}

// ByDIP returns the first device, in address order, reporting dip
func (r *Registry) ByDIP(dip int) (Device, bool) {
	for _, dev := range r.All() {
		if dev.DIP == dip {
			return dev, true
		}
	}
	return Device{}, false
}

// SetCallback registers cb for the panel at address, replacing any
// previous callback. A nil cb clears it. Returns false if the address is
// not in the registry.
func (r *Registry) SetCallback(address string, cb Callback) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[address]
	if !ok {
		return false
	}
	rec.callback = cb
	return true
}

// Callback returns the callback registered for address, if any
func (r *Registry) Callback(address string) (Callback, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[address]
	if !ok || rec.callback == nil {
		return nil, false
	}
	return rec.callback, true
}

// Remove drops the panel at address
func (r *Registry) Remove(address string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[address]; !ok {
		return false
	}
	delete(r.records, address)
	return true
}

// Len returns the number of known panels
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}

// All returns a snapshot of every device, sorted by address
func (r *Registry) All() []Device {
	r.mu.RLock()
	devices := make([]Device, 0, len(r.records))
	for _, rec := range r.records {
		devices = append(devices, rec.device)
	}
	r.mu.RUnlock()

	SortDevices(devices)
	return devices
}

// SortDevices orders devices by address, numerically for IPv4
func SortDevices(devices []Device) {
	sort.Slice(devices, func(i, j int) bool {
		return addressLess(devices[i].Address, devices[j].Address)
	})
}

// Merge adds the devices of other that are not yet known. Existing entries
// keep their callbacks. Returns the number of devices added.
func (r *Registry) Merge(other *Registry) int {
	if other == nil || other == r {
		return 0
	}

	added := 0
	for _, dev := range other.All() {
		r.mu.Lock()
		if _, exists := r.records[dev.Address]; !exists {
			r.records[dev.Address] = &record{device: dev}
			added++
		}
		r.mu.Unlock()
	}
	return added
}

// addressLess orders IPv4 addresses numerically, falling back to string order
func addressLess(a, b string) bool {
	ipa := net.ParseIP(a).To4()
	ipb := net.ParseIP(b).To4()
	if ipa == nil || ipb == nil {
		return a < b
	}
	return bytes.Compare(ipa, ipb) < 0
}
