package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestGetConfigDir(t *testing.T) {
	if runtime.GOOS != "windows" && runtime.GOOS != "darwin" {
		xdg := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", xdg)

		dir, err := GetConfigDir()
		if err != nil {
			t.Fatalf("GetConfigDir() error = %v", err)
		}
		if want := filepath.Join(xdg, "panelctl"); dir != want {
			t.Errorf("GetConfigDir() = %q, want %q", dir, want)
		}
		return
	}

	dir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}
	if !strings.Contains(dir, "panelctl") {
		t.Errorf("GetConfigDir() = %q, should contain panelctl", dir)
	}
}

func TestGetConfigPath(t *testing.T) {
	path, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}
	if filepath.Base(path) != "config.yaml" {
		t.Errorf("GetConfigPath() should end with config.yaml, got %q", path)
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.Network.Port != 5000 {
		t.Errorf("Port = %d, want default 5000", s.Network.Port)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `version: 1
network:
  base_prefix: "10.1.2."
panels:
  7:
    nickname: Garage
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.Network.BasePrefix != "10.1.2." {
		t.Errorf("BasePrefix = %q, want 10.1.2.", s.Network.BasePrefix)
	}
	if s.Network.RangeStart != 50 || s.Network.Port != 5000 {
		t.Errorf("unset network fields should keep defaults, got %+v", s.Network)
	}
	if s.Discovery.TimeoutMS != 2000 {
		t.Errorf("TimeoutMS = %d, want default 2000", s.Discovery.TimeoutMS)
	}
	if s.Nickname(7) != "Garage" {
		t.Errorf("Nickname(7) = %q, want Garage", s.Nickname(7))
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"malformed yaml", "network: [", "failed to parse"},
		{"wrong version", "version: 9\n", "unsupported config version"},
		{"invalid values", "version: 1\nnetwork:\n  port: 70000\n", "network.port"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0600); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	s := Defaults()
	s.Network.BasePrefix = "172.16.5."
	s.Network.RangeStart = 10
	s.Network.RangeEnd = 20
	s.Bridge.Advertise = true
	s.SetNickname(2, "Office")
	s.EnsurePanel(2).Notes = "by the door"

	if err := s.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file should not remain after Save()")
	}

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		if perm := info.Mode().Perm(); perm != 0600 {
			t.Errorf("config file mode = %o, want 600", perm)
		}
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Network != s.Network {
		t.Errorf("Network = %+v, want %+v", loaded.Network, s.Network)
	}
	if !loaded.Bridge.Advertise {
		t.Error("Bridge.Advertise should survive a save")
	}
	if p := loaded.Panel(2); p == nil || p.Nickname != "Office" || p.Notes != "by the door" {
		t.Errorf("Panel(2) = %+v", p)
	}
}

func TestMarshal_Header(t *testing.T) {
	data, err := Defaults().Marshal()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "# panelctl configuration") {
		t.Errorf("Marshal() should start with a header comment, got %q", string(data[:40]))
	}
	if !strings.Contains(string(data), "base_prefix:") || !strings.Contains(string(data), "192.168.0.") {
		t.Errorf("Marshal() missing base_prefix:\n%s", data)
	}
}

func TestLoadDefault(t *testing.T) {
	if runtime.GOOS == "windows" || runtime.GOOS == "darwin" {
		t.Skip("XDG_CONFIG_HOME only applies on Linux")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	s, err := LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault() error = %v", err)
	}
	if s.Version != CurrentVersion {
		t.Errorf("Version = %d, want %d", s.Version, CurrentVersion)
	}
}
