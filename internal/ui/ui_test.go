package ui

import (
	"bytes"
	"errors"
	"net"
	"strings"
	"testing"

	"github.com/muurk/panelctl/internal/command"
	"github.com/muurk/panelctl/internal/protocol"
)

func TestClampWidth(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, MinTerminalWidth},
		{40, MinTerminalWidth},
		{80, 80},
		{500, MaxContentWidth},
	}
	for _, tt := range tests {
		if got := clampWidth(tt.in); got != tt.want {
			t.Errorf("clampWidth(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestHeader_Render(t *testing.T) {
	out := NewHeader("Scan", "panelctl scan",
		Field{Key: "Range", Value: "192.168.0.50-65"},
		Field{Key: "Port", Value: "5000"},
	).SetWidth(80).Render()

	for _, want := range []string{"SCAN", "panelctl scan", "Range:", "192.168.0.50-65", "Port:"} {
		if !strings.Contains(out, want) {
			t.Errorf("header missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "Range") > strings.Index(out, "Port") {
		t.Error("params should render in the order given")
	}
}

func TestResult_Render(t *testing.T) {
	tests := []struct {
		name   string
		result *Result
		want   []string
	}{
		{
			name:   "success",
			result: NewSuccessResult("LCD updated", Field{Key: "Panel", Value: "192.168.0.50"}),
			want:   []string{"SUCCESS", "LCD updated", "Panel:", "192.168.0.50"},
		},
		{
			name:   "warning",
			result: NewWarningResult("No panels found"),
			want:   []string{"WARNING", "No panels found"},
		},
		{
			name:   "failure",
			result: NewFailureResult("Send failed", errors.New("boom"), []string{"Check the cable"}),
			want:   []string{"FAILED", "Send failed", "Error: boom", "Troubleshooting:", "Check the cable"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := tt.result.SetWidth(90).Render()
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("Render() missing %q:\n%s", w, out)
				}
			}
		})
	}
}

func TestResult_AddDetail(t *testing.T) {
	r := NewSuccessResult("done").AddDetail("A", "1").AddDetail("B", "2")
	if len(r.Details) != 2 || r.Details[1].Key != "B" {
		t.Errorf("Details = %+v", r.Details)
	}
}

func TestNewDeliveryFailure(t *testing.T) {
	err := command.ClassifyNetworkError(&net.OpError{Op: "write", Err: net.ErrClosed}, protocol.CmdLCD, "192.168.0.50")
	r := NewDeliveryFailure("Send failed", err)

	if r.Type != ResultFailure {
		t.Errorf("Type = %v, want ResultFailure", r.Type)
	}
	if r.Error == nil || !strings.Contains(r.Error.Error(), "192.168.0.50") {
		t.Errorf("Error = %v, want short message naming the address", r.Error)
	}
	if len(r.Troubleshooting) == 0 {
		t.Error("delivery failures should carry troubleshooting tips")
	}

	plain := NewDeliveryFailure("Oops", errors.New("plain"))
	if plain.Error.Error() != "plain" || plain.Troubleshooting != nil {
		t.Errorf("plain error = %v, tips = %v", plain.Error, plain.Troubleshooting)
	}
}

func TestRenderPanelTable(t *testing.T) {
	out := RenderPanelTable([]PanelRow{
		{Address: "192.168.0.50", DIP: 3, Nickname: "Kitchen"},
		{Address: "192.168.0.61", DIP: 12, Extra: "linear, 60 LEDs"},
	}, 90)

	for _, want := range []string{"ADDRESS", "DIP", "NICKNAME", "192.168.0.50", "Kitchen", "192.168.0.61", "12", "linear, 60 LEDs", "2 panel(s)"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "192.168.0.50") > strings.Index(out, "192.168.0.61") {
		t.Error("rows should keep their order")
	}
}

func TestRenderPanelTable_Empty(t *testing.T) {
	if out := RenderPanelTable(nil, 80); !strings.Contains(out, "No panels answered") {
		t.Errorf("empty table = %q", out)
	}
}

func TestPrinter(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf).SetWidth(80)

	p.PrintHeader("Listen", "panelctl listen")
	p.PrintSuccess("Bound", Field{Key: "Port", Value: "5000"})
	p.PrintPanels(nil)
	p.Printf("buttons %v\n", []int{1, 0})

	out := buf.String()
	for _, want := range []string{"LISTEN", "Bound", "5000", "No panels answered", "buttons [1 0]"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if p.Width() != 80 {
		t.Errorf("Width() = %d, want 80", p.Width())
	}
}
