package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"
)

// CurrentVersion is the settings file format version
const CurrentVersion = 1

// Settings is the whole configuration file
type Settings struct {
	Version   int                `yaml:"version"`
	Network   Network            `yaml:"network"`
	Discovery Discovery          `yaml:"discovery"`
	Listener  Listener           `yaml:"listener"`
	Bridge    Bridge             `yaml:"bridge"`
	Panels    map[int]*PanelMeta `yaml:"panels,omitempty"` // Keyed by DIP ID
}

// Network describes where panels live and which port they speak on.
type Network struct {
	BasePrefix string `yaml:"base_prefix"` // e.g. "192.168.0."
	RangeStart int    `yaml:"range_start"` // First host octet, inclusive
	RangeEnd   int    `yaml:"range_end"`   // Last host octet, inclusive
	Port       int    `yaml:"port"`
}

// Discovery tunes the address-range scan.
type Discovery struct {
	TimeoutMS int `yaml:"timeout_ms"` // Whole scan; each probe gets half
}

// Listener tunes the button event listener.
type Listener struct {
	BackoffMS  int `yaml:"backoff_ms"`
	QueueDepth int `yaml:"queue_depth"`
}

// Bridge configures the WebSocket bridge.
type Bridge struct {
	Addr      string `yaml:"addr"`      // HTTP listen address, e.g. ":8765"
	Advertise bool   `yaml:"advertise"` // Announce over mDNS
}

// PanelMeta is user-supplied metadata for one panel.
type PanelMeta struct {
	Nickname string `yaml:"nickname,omitempty"`
	Notes    string `yaml:"notes,omitempty"`
}

// Defaults returns the built-in settings.
func Defaults() *Settings {
	return &Settings{
		Version: CurrentVersion,
		Network: Network{
			BasePrefix: "192.168.0.",
			RangeStart: 50,
			RangeEnd:   65,
			Port:       5000,
		},
		Discovery: Discovery{TimeoutMS: 2000},
		Listener: Listener{
			BackoffMS:  100,
			QueueDepth: 32,
		},
		Bridge: Bridge{Addr: ":8765"},
		Panels: make(map[int]*PanelMeta),
	}
}

// Validate reports every invalid field at once.
func (s *Settings) Validate() error {
	var errs []error

	if s.Version != CurrentVersion {
		errs = append(errs, fmt.Errorf("unsupported config version: %d (expected %d)", s.Version, CurrentVersion))
	}

	prefix := s.Network.BasePrefix
	if !strings.HasSuffix(prefix, ".") {
		prefix += "."
	}
	if net.ParseIP(prefix+"0").To4() == nil {
		errs = append(errs, fmt.Errorf("network.base_prefix %q is not the first three octets of an IPv4 address", s.Network.BasePrefix))
	}
	if s.Network.RangeStart < 0 || s.Network.RangeStart > 255 {
		errs = append(errs, fmt.Errorf("network.range_start %d out of range 0-255", s.Network.RangeStart))
	}
	if s.Network.RangeEnd < 0 || s.Network.RangeEnd > 255 {
		errs = append(errs, fmt.Errorf("network.range_end %d out of range 0-255", s.Network.RangeEnd))
	}
	if s.Network.RangeEnd < s.Network.RangeStart {
		errs = append(errs, fmt.Errorf("network.range_end %d is before range_start %d", s.Network.RangeEnd, s.Network.RangeStart))
	}
	if s.Network.Port < 1 || s.Network.Port > 65535 {
		errs = append(errs, fmt.Errorf("network.port %d out of range 1-65535", s.Network.Port))
	}

	if s.Discovery.TimeoutMS <= 0 {
		errs = append(errs, fmt.Errorf("discovery.timeout_ms must be positive, got %d", s.Discovery.TimeoutMS))
	}
	if s.Listener.BackoffMS <= 0 {
		errs = append(errs, fmt.Errorf("listener.backoff_ms must be positive, got %d", s.Listener.BackoffMS))
	}
	if s.Listener.QueueDepth <= 0 {
		errs = append(errs, fmt.Errorf("listener.queue_depth must be positive, got %d", s.Listener.QueueDepth))
	}

	if s.Bridge.Addr != "" {
		if _, _, err := net.SplitHostPort(s.Bridge.Addr); err != nil {
			errs = append(errs, fmt.Errorf("bridge.addr %q: %w", s.Bridge.Addr, err))
		}
	}

	return errors.Join(errs...)
}

// DiscoveryTimeout is the global scan deadline.
func (s *Settings) DiscoveryTimeout() time.Duration {
	return time.Duration(s.Discovery.TimeoutMS) * time.Millisecond
}

// ProbeTimeout is the per-address probe deadline, half the scan deadline.
func (s *Settings) ProbeTimeout() time.Duration {
	return s.DiscoveryTimeout() / 2
}

// ListenerBackoff is the pause after a failed receive.
func (s *Settings) ListenerBackoff() time.Duration {
	return time.Duration(s.Listener.BackoffMS) * time.Millisecond
}

// Panel returns metadata for dip, or nil.
func (s *Settings) Panel(dip int) *PanelMeta {
	return s.Panels[dip]
}

// Nickname returns the panel's nickname, or "" when none is set.
func (s *Settings) Nickname(dip int) string {
	if p := s.Panels[dip]; p != nil {
		return p.Nickname
	}
	return ""
}

// EnsurePanel returns the metadata entry for dip, creating it if needed.
func (s *Settings) EnsurePanel(dip int) *PanelMeta {
	if s.Panels == nil {
		s.Panels = make(map[int]*PanelMeta)
	}
	if p, ok := s.Panels[dip]; ok {
		return p
	}
	p := &PanelMeta{}
	s.Panels[dip] = p
	return p
}

// SetNickname sets a panel's nickname.
func (s *Settings) SetNickname(dip int, nickname string) {
	s.EnsurePanel(dip).Nickname = nickname
}
