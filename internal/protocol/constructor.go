package protocol

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Command tokens understood by the panel firmware
const (
	CmdEnum      = "enum"
	CmdConfig    = "config"
	CmdLCD       = "lcd"
	CmdBacklight = "backlight"
	CmdLED       = "led"

	// Separator joins a command and its arguments
	Separator = ":"

	// Terminator ends every command line
	Terminator = "\n"
)

const (
	// MaxBacklightZones is the width of the backlight port expander
	MaxBacklightZones = 16

	// MaxLEDs is the largest count representable in the frame header
	MaxLEDs = 0xFFFF
)

var (
	ErrInvalidCoordinate   = errors.New("lcd coordinate must be non-negative")
	ErrTextContainsNewline = errors.New("lcd text must not contain a line break")
	ErrTooManyZones        = fmt.Errorf("more than %d backlight zones", MaxBacklightZones)
	ErrTooManyLEDs         = fmt.Errorf("more than %d leds", MaxLEDs)
)

// EncodeEnum returns the discovery probe.
func EncodeEnum() []byte {
	return []byte(CmdEnum + Terminator)
}

// EncodeConfigQuery returns the LED geometry query.
func EncodeConfigQuery() []byte {
	return []byte(CmdConfig + Terminator)
}

// EncodeLCD builds an lcd command placing text at column x, row y.
//
// The firmware treats everything after the second separator as text, so
// colons inside text are fine. A line break would end the command early and
// is rejected.
func EncodeLCD(x, y int, text string) ([]byte, error) {
	if x < 0 || y < 0 {
		return nil, fmt.Errorf("%w: x=%d y=%d", ErrInvalidCoordinate, x, y)
	}
	if strings.ContainsAny(text, "\r\n") {
		return nil, ErrTextContainsNewline
	}

	var b strings.Builder
	b.Grow(len(CmdLCD) + len(text) + 10)
	b.WriteString(CmdLCD)
	b.WriteString(Separator)
	b.WriteString(strconv.Itoa(x))
	b.WriteString(Separator)
	b.WriteString(strconv.Itoa(y))
	b.WriteString(Separator)
	b.WriteString(text)
	b.WriteString(Terminator)
	return []byte(b.String()), nil
}

// EncodeLCDClear returns the command that blanks the display.
func EncodeLCDClear() []byte {
	return []byte(CmdLCD + Separator + "clear" + Terminator)
}

// EncodeBacklight builds a backlight command with one 0/1 token per zone.
// An empty slice produces "backlight:\n", which switches nothing.
func EncodeBacklight(states []bool) ([]byte, error) {
	if len(states) > MaxBacklightZones {
		return nil, fmt.Errorf("%w: got %d", ErrTooManyZones, len(states))
	}

	tokens := make([]string, len(states))
	for i, on := range states {
		if on {
			tokens[i] = "1"
		} else {
			tokens[i] = "0"
		}
	}
	return []byte(CmdBacklight + Separator + strings.Join(tokens, Separator) + Terminator), nil
}

// EncodeLED builds a led command carrying one RGB value per LED.
func EncodeLED(colors []RGB) ([]byte, error) {
	frame, err := BuildLEDFrame(colors)
	if err != nil {
		return nil, err
	}
	return []byte(CmdLED + Separator + base64.StdEncoding.EncodeToString(frame) + Terminator), nil
}
