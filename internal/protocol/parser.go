package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"
	"unicode/utf8"
)

// ControllerType is the "type" value of a discovery response
const ControllerType = "controller"

// Kind classifies a decoded inbound packet
type Kind int

const (
	KindMalformed    Kind = iota // not valid UTF-8 JSON
	KindUnrecognized             // valid JSON of no known shape
	KindDiscovery                // {"type":"controller","dip":N}
	KindButtons                  // {"buttons":[0,1,...]}
	KindGeometry                 // {"geom":"linear","num_leds":N}
)

// String returns a short name for the kind
func (k Kind) String() string {
	switch k {
	case KindMalformed:
		return "malformed"
	case KindUnrecognized:
		return "unrecognized"
	case KindDiscovery:
		return "discovery"
	case KindButtons:
		return "buttons"
	case KindGeometry:
		return "geometry"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Geometry describes the LED layout a panel reports
type Geometry struct {
	Geom    string
	NumLEDs int
}

// Result is the tagged outcome of Decode. Only the field matching Kind is set.
type Result struct {
	Kind     Kind
	DIP      int
	Buttons  []int
	Geometry Geometry
}

// Ok reports whether the packet matched a known shape
func (r Result) Ok() bool {
	return r.Kind != KindMalformed && r.Kind != KindUnrecognized
}

// Decode classifies one inbound datagram. It never fails; packets that
// cannot be used come back as KindMalformed or KindUnrecognized.
func Decode(packet []byte) Result {
	packet = bytes.TrimSpace(packet)
	if len(packet) == 0 || !utf8.Valid(packet) {
		return Result{Kind: KindMalformed}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(packet, &fields); err != nil {
		// Arrays, numbers and strings are JSON but not a shape we know
		if json.Valid(packet) {
			return Result{Kind: KindUnrecognized}
		}
		return Result{Kind: KindMalformed}
	}

	if dip, ok := discoveryDIP(fields); ok {
		return Result{Kind: KindDiscovery, DIP: dip}
	}
	if buttons, ok := buttonStates(fields); ok {
		return Result{Kind: KindButtons, Buttons: buttons}
	}
	if geom, ok := geometry(fields); ok {
		return Result{Kind: KindGeometry, Geometry: geom}
	}
	return Result{Kind: KindUnrecognized}
}

func discoveryDIP(fields map[string]json.RawMessage) (int, bool) {
	var typ string
	if raw, ok := fields["type"]; !ok || json.Unmarshal(raw, &typ) != nil || typ != ControllerType {
		return 0, false
	}
	raw, ok := fields["dip"]
	if !ok {
		return 0, false
	}
	var dip int
	if err := json.Unmarshal(raw, &dip); err != nil {
		return 0, false
	}
	return dip, true
}

func buttonStates(fields map[string]json.RawMessage) ([]int, bool) {
	raw, ok := fields["buttons"]
	if !ok {
		return nil, false
	}
	var buttons []int
	if err := json.Unmarshal(raw, &buttons); err != nil || buttons == nil {
		return nil, false
	}
	for _, b := range buttons {
		if b != 0 && b != 1 {
			return nil, false
		}
	}
	return buttons, true
}

func geometry(fields map[string]json.RawMessage) (Geometry, bool) {
	rawGeom, ok1 := fields["geom"]
	rawLEDs, ok2 := fields["num_leds"]
	if !ok1 || !ok2 {
		return Geometry{}, false
	}
	var g Geometry
	if json.Unmarshal(rawGeom, &g.Geom) != nil || json.Unmarshal(rawLEDs, &g.NumLEDs) != nil {
		return Geometry{}, false
	}
	return g, true
}
