// Package config loads and saves panelctl settings.
//
// Settings live in a YAML file in the platform configuration directory:
//   - Linux: $XDG_CONFIG_HOME/panelctl/config.yaml or $HOME/.config/panelctl/config.yaml
//   - macOS: $HOME/.config/panelctl/config.yaml
//   - Windows: %LOCALAPPDATA%\panelctl\config.yaml
//
// A missing file is not an error: Load returns Defaults(). Missing keys in
// an existing file keep their default values. Command-line flags override
// whatever the file says; that merge happens in cmd/panelctl.
//
// # Panels
//
// Panels are keyed by DIP switch ID, not by address, since DHCP may move a
// panel between scans. The metadata is display-only:
//
//	settings.SetNickname(3, "Kitchen")
//	if err := settings.Save(path); err != nil {
//	    return err
//	}
package config
