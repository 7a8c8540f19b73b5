package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/muurk/panelctl/internal/config"
	"github.com/muurk/panelctl/internal/discovery"
	"github.com/muurk/panelctl/internal/protocol"
)

func TestParseBacklights(t *testing.T) {
	tests := []struct {
		args    []string
		want    []bool
		wantErr bool
	}{
		{[]string{"1", "0", "1"}, []bool{true, false, true}, false},
		{[]string{"on", "OFF"}, []bool{true, false}, false},
		{[]string{"2"}, nil, true},
	}
	for _, tt := range tests {
		got, err := parseBacklights(tt.args)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseBacklights(%v) error = %v, wantErr %v", tt.args, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && !equalBools(got, tt.want) {
			t.Errorf("parseBacklights(%v) = %v, want %v", tt.args, got, tt.want)
		}
	}
}

func equalBools(a, b []bool) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestParseColors(t *testing.T) {
	got, err := parseColors([]string{"ff0000", "#00ff7f"})
	if err != nil {
		t.Fatalf("parseColors() error = %v", err)
	}
	want := []protocol.RGB{{R: 0xff}, {G: 0xff, B: 0x7f}}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("parseColors() = %v, want %v", got, want)
	}

	if _, err := parseColors([]string{"red"}); err == nil {
		t.Error("parseColors(red) should fail")
	}
}

func TestWithDot(t *testing.T) {
	for in, want := range map[string]string{"10.0.0": "10.0.0.", "10.0.0.": "10.0.0.", "": ""} {
		if got := withDot(in); got != want {
			t.Errorf("withDot(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestScanRangeMatchesCandidates(t *testing.T) {
	n := config.Defaults().Network

	if got, want := scanRange(n), "192.168.0.50-65"; got != want {
		t.Errorf("scanRange() = %q, want %q", got, want)
	}

	candidates := discovery.Candidates(n.BasePrefix, n.RangeStart, n.RangeEnd)
	if len(candidates) != 16 {
		t.Fatalf("len(Candidates) = %d, want 16", len(candidates))
	}
	if last := candidates[len(candidates)-1]; last != "192.168.0.65" {
		t.Errorf("last candidate = %q, want the range end shown in the header", last)
	}

	n.RangeStart, n.RangeEnd = 60, 60
	if got, want := scanRange(n), "192.168.0.60-60"; got != want {
		t.Errorf("single host scanRange() = %q, want %q", got, want)
	}
}

// execute runs the root command with args against an isolated config file
func execute(t *testing.T, configFile string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--config", configFile}, args...))
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		configPath = ""
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestConfigCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	out, err := execute(t, path, "config", "path")
	if err != nil {
		t.Fatalf("config path: %v", err)
	}
	if strings.TrimSpace(out) != path {
		t.Errorf("config path = %q, want %q", out, path)
	}

	if _, err := execute(t, path, "config", "init"); err != nil {
		t.Fatalf("config init: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config init did not write %s: %v", path, err)
	}
	if _, err := execute(t, path, "config", "init"); err == nil {
		t.Error("second config init without --force should fail")
	}

	if _, err := execute(t, path, "config", "nickname", "3", "Kitchen"); err != nil {
		t.Fatalf("config nickname: %v", err)
	}
	s, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if s.Nickname(3) != "Kitchen" {
		t.Errorf("Nickname(3) = %q, want Kitchen", s.Nickname(3))
	}

	out, err = execute(t, path, "config", "show", "--prefix", "10.9.8.")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out, "10.9.8.") {
		t.Errorf("config show should reflect flag overrides:\n%s", out)
	}
}

func TestInvalidFlagsRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if _, err := execute(t, path, "config", "show", "--port", "0"); err == nil {
		t.Error("port 0 should fail validation")
	}
}
