package protocol

import (
	"errors"
	"strings"
	"testing"
)

func TestEncodeEnum(t *testing.T) {
	if got := string(EncodeEnum()); got != "enum\n" {
		t.Errorf("EncodeEnum() = %q, want %q", got, "enum\n")
	}
}

func TestEncodeConfigQuery(t *testing.T) {
	if got := string(EncodeConfigQuery()); got != "config\n" {
		t.Errorf("EncodeConfigQuery() = %q, want %q", got, "config\n")
	}
}

func TestEncodeLCD(t *testing.T) {
	tests := []struct {
		name    string
		x, y    int
		text    string
		want    string
		wantErr error
	}{
		{name: "origin", x: 0, y: 0, text: "Hello from #3", want: "lcd:0:0:Hello from #3\n"},
		{name: "second row", x: 4, y: 1, text: "hi", want: "lcd:4:1:hi\n"},
		{name: "colons in text", x: 0, y: 0, text: "12:34", want: "lcd:0:0:12:34\n"},
		{name: "utf-8 text", x: 1, y: 0, text: "café", want: "lcd:1:0:café\n"},
		{name: "empty text", x: 0, y: 0, text: "", want: "lcd:0:0:\n"},
		{name: "negative x", x: -1, y: 0, text: "x", wantErr: ErrInvalidCoordinate},
		{name: "negative y", x: 0, y: -2, text: "x", wantErr: ErrInvalidCoordinate},
		{name: "newline in text", x: 0, y: 0, text: "a\nb", wantErr: ErrTextContainsNewline},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EncodeLCD(tt.x, tt.y, tt.text)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("EncodeLCD() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("EncodeLCD() unexpected error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("EncodeLCD() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEncodeLCDClear(t *testing.T) {
	if got := string(EncodeLCDClear()); got != "lcd:clear\n" {
		t.Errorf("EncodeLCDClear() = %q, want %q", got, "lcd:clear\n")
	}
}

func TestEncodeBacklight(t *testing.T) {
	tests := []struct {
		name   string
		states []bool
		want   string
	}{
		{name: "alternating six", states: []bool{true, false, true, false, true, false}, want: "backlight:1:0:1:0:1:0\n"},
		{name: "single on", states: []bool{true}, want: "backlight:1\n"},
		{name: "empty", states: nil, want: "backlight:\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EncodeBacklight(tt.states)
			if err != nil {
				t.Fatalf("EncodeBacklight() error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("EncodeBacklight() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEncodeBacklight_TooManyZones(t *testing.T) {
	_, err := EncodeBacklight(make([]bool, MaxBacklightZones+1))
	if !errors.Is(err, ErrTooManyZones) {
		t.Errorf("EncodeBacklight() error = %v, want %v", err, ErrTooManyZones)
	}
}

func TestEncodeLED(t *testing.T) {
	got, err := EncodeLED([]RGB{{R: 0xff, G: 0x00, B: 0x80}})
	if err != nil {
		t.Fatalf("EncodeLED() error = %v", err)
	}

	// 01 00 ff 00 80
	want := "led:AQD/AIA=\n"
	if string(got) != want {
		t.Errorf("EncodeLED() = %q, want %q", got, want)
	}
}

func TestEncodeLED_Empty(t *testing.T) {
	got, err := EncodeLED(nil)
	if err != nil {
		t.Fatalf("EncodeLED() error = %v", err)
	}
	if string(got) != "led:AAA=\n" {
		t.Errorf("EncodeLED(nil) = %q, want %q", got, "led:AAA=\n")
	}
}

func TestEncodeLED_SingleLine(t *testing.T) {
	colors := make([]RGB, 200)
	got, err := EncodeLED(colors)
	if err != nil {
		t.Fatalf("EncodeLED() error = %v", err)
	}
	if n := strings.Count(string(got), "\n"); n != 1 {
		t.Errorf("EncodeLED() contains %d line breaks, want 1", n)
	}
	if !strings.HasSuffix(string(got), "\n") {
		t.Error("EncodeLED() must end with a line break")
	}
}
