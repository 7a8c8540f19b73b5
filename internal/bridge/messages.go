package bridge

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/muurk/panelctl/internal/protocol"
)

// Message types
const (
	TypeDevices   = "devices"
	TypeButtons   = "buttons"
	TypeOK        = "ok"
	TypeError     = "error"
	TypeLCD       = "lcd"
	TypeClear     = "clear"
	TypeBacklight = "backlight"
	TypeLED       = "led"
)

// DeviceInfo describes one panel to clients
type DeviceInfo struct {
	Address  string `json:"address"`
	DIP      int    `json:"dip"`
	Nickname string `json:"nickname,omitempty"`
}

// DevicesEvent is sent on connect
type DevicesEvent struct {
	Type    string       `json:"type"`
	Session string       `json:"session,omitempty"`
	Devices []DeviceInfo `json:"devices"`
}

// ButtonsEvent is broadcast for every button report
type ButtonsEvent struct {
	Type      string    `json:"type"`
	Address   string    `json:"address"`
	DIP       int       `json:"dip"`
	Buttons   []int     `json:"buttons"`
	Timestamp time.Time `json:"timestamp"`
}

// Reply answers one request
type Reply struct {
	Type    string `json:"type"`
	Request string `json:"request,omitempty"`
	Address string `json:"address,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Request is a client command. Fields unused by Type are ignored.
type Request struct {
	Type    string   `json:"type"`
	Address string   `json:"address"`
	X       int      `json:"x"`
	Y       int      `json:"y"`
	Text    string   `json:"text"`
	States  []int    `json:"states"`
	Colors  [][3]int `json:"colors"`
}

var errEmptyAddress = errors.New("address is required")

// decodeRequest parses and validates a client message
func decodeRequest(data []byte) (Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return req, fmt.Errorf("invalid request: %w", err)
	}

	switch req.Type {
	case TypeLCD, TypeClear, TypeBacklight, TypeLED:
	case "":
		return req, errors.New("request type is required")
	default:
		return req, fmt.Errorf("unknown request type %q", req.Type)
	}
	if req.Address == "" {
		return req, errEmptyAddress
	}
	return req, nil
}

// backlightStates converts 0/1 states to the sender's form
func (r Request) backlightStates() ([]bool, error) {
	states := make([]bool, len(r.States))
	for i, s := range r.States {
		switch s {
		case 0:
		case 1:
			states[i] = true
		default:
			return nil, fmt.Errorf("backlight state %d at index %d is not 0 or 1", s, i)
		}
	}
	return states, nil
}

// ledColors converts [r,g,b] triples to RGB values
func (r Request) ledColors() ([]protocol.RGB, error) {
	colors := make([]protocol.RGB, len(r.Colors))
	for i, c := range r.Colors {
		for _, v := range c {
			if v < 0 || v > 255 {
				return nil, fmt.Errorf("led %d: channel value %d out of range 0-255", i, v)
			}
		}
		colors[i] = protocol.RGB{R: uint8(c[0]), G: uint8(c[1]), B: uint8(c[2])}
	}
	return colors, nil
}
