package protocol

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
)

// LEDFrameHeaderSize is the size of the little-endian count prefix
const LEDFrameHeaderSize = 2

// RGB is a single LED colour
type RGB struct {
	R, G, B uint8
}

// String returns the colour as rrggbb hex
func (c RGB) String() string {
	return fmt.Sprintf("%02x%02x%02x", c.R, c.G, c.B)
}

// ParseRGB parses "rrggbb" or "#rrggbb".
func ParseRGB(s string) (RGB, error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return RGB{}, fmt.Errorf("invalid colour %q: want rrggbb", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// BuildLEDFrame lays out the binary LED frame:
//
//	[0-1]   count         number of LEDs (little-endian uint16)
//	[2+]    r, g, b       one triple per LED, in order
func BuildLEDFrame(colors []RGB) ([]byte, error) {
	if len(colors) > MaxLEDs {
		return nil, fmt.Errorf("%w: got %d", ErrTooManyLEDs, len(colors))
	}

	frame := make([]byte, LEDFrameHeaderSize+3*len(colors))
	binary.LittleEndian.PutUint16(frame[0:2], uint16(len(colors)))
	for i, c := range colors {
		off := LEDFrameHeaderSize + 3*i
		frame[off] = c.R
		frame[off+1] = c.G
		frame[off+2] = c.B
	}
	return frame, nil
}

// ParseLEDFrame is the inverse of BuildLEDFrame. Trailing bytes beyond the
// declared count are ignored, a short frame is an error.
func ParseLEDFrame(frame []byte) ([]RGB, error) {
	if len(frame) < LEDFrameHeaderSize {
		return nil, fmt.Errorf("led frame too short: %d bytes", len(frame))
	}

	count := int(binary.LittleEndian.Uint16(frame[0:2]))
	need := LEDFrameHeaderSize + 3*count
	if len(frame) < need {
		return nil, fmt.Errorf("led frame truncated: declares %d leds, need %d bytes, have %d", count, need, len(frame))
	}

	colors := make([]RGB, count)
	for i := range colors {
		off := LEDFrameHeaderSize + 3*i
		colors[i] = RGB{R: frame[off], G: frame[off+1], B: frame[off+2]}
	}
	return colors, nil
}

// DecodeLEDCommand parses a full "led:<base64>\n" line back into colours.
func DecodeLEDCommand(line []byte) ([]RGB, error) {
	s := strings.TrimSuffix(string(line), Terminator)
	payload, ok := strings.CutPrefix(s, CmdLED+Separator)
	if !ok {
		return nil, fmt.Errorf("not a led command: %q", s)
	}
	frame, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("invalid led payload: %w", err)
	}
	return ParseLEDFrame(frame)
}
