// Panelctl discovers and drives networked control panels.
//
// Panels answer an "enum" probe on UDP port 5000 with their DIP switch ID,
// push button reports to the same port and accept LCD, backlight and LED
// commands. panelctl scans an address range for them, listens for their
// buttons and sends them commands, either from the command line, from a
// live terminal monitor or through a WebSocket bridge.
//
// Usage:
//
//	panelctl [command] [flags]
//
// See 'panelctl --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/panelctl/internal/logging"
	"github.com/muurk/panelctl/internal/version"
)

func main() {
	err := rootCmd.Execute()
	logging.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "panelctl",
	Short: "Discover and control networked button panels",
	Long: `panelctl finds control panels on the local network by probing an
address range, listens for their button reports and sends them LCD,
backlight and LED commands.

Settings come from the config file (see 'panelctl config path'); the
flags below override it.`,
	Version:           version.Version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.Detailed())
	},
}
