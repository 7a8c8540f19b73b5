package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/panelctl/internal/command"
	"github.com/muurk/panelctl/internal/config"
	"github.com/muurk/panelctl/internal/discovery"
	"github.com/muurk/panelctl/internal/listener"
	"github.com/muurk/panelctl/internal/logging"
	"github.com/muurk/panelctl/internal/ui"
)

var withGeometry bool

func init() {
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(geometryCmd)
	rootCmd.AddCommand(listenCmd)
	rootCmd.AddCommand(demoCmd)

	scanCmd.Flags().BoolVar(&withGeometry, "geometry", false, "Also query each panel's LED geometry")
}

// signalContext is cancelled by Ctrl-C or SIGTERM
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// scanRange renders the probed range; both ends are inclusive
func scanRange(n config.Network) string {
	return fmt.Sprintf("%s%d-%d", withDot(n.BasePrefix), n.RangeStart, n.RangeEnd)
}

func withDot(prefix string) string {
	if prefix != "" && prefix[len(prefix)-1] != '.' {
		return prefix + "."
	}
	return prefix
}

// runScanOnce probes the configured range once
func runScanOnce(ctx context.Context) *discovery.Registry {
	n := settings.Network
	scanner := discovery.NewScanner(discovery.NewProber(n.Port))
	return scanner.Enumerate(ctx, n.BasePrefix, n.RangeStart, n.RangeEnd, settings.DiscoveryTimeout())
}

func scanParams() []ui.Field {
	return []ui.Field{
		{Key: "Range", Value: scanRange(settings.Network)},
		{Key: "Port", Value: strconv.Itoa(settings.Network.Port)},
		{Key: "Timeout", Value: settings.DiscoveryTimeout().String()},
	}
}

func panelRows(devices []discovery.Device, extra map[string]string) []ui.PanelRow {
	rows := make([]ui.PanelRow, len(devices))
	for i, d := range devices {
		rows[i] = ui.PanelRow{
			Address:  d.Address,
			DIP:      d.DIP,
			Nickname: settings.Nickname(d.DIP),
			Extra:    extra[d.Address],
		}
	}
	return rows
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Probe the address range for panels",
	Long: `Send an enum probe to every address in the configured range at once
and list the panels that answer before the timeout.`,
	Example: `  # Scan 192.168.0.50-65 (default)
  panelctl scan

  # Scan another subnet with a longer timeout
  panelctl scan --prefix 10.0.7. --start 1 --end 254 --timeout 5s

  # Include LED geometry
  panelctl scan --geometry`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext(cmd.Context())
		defer cancel()

		p := ui.NewPrinter(cmd.OutOrStdout())
		p.PrintHeader("Scan", "panelctl scan", scanParams()...)

		reg := runScanOnce(ctx)
		devices := reg.All()

		extra := make(map[string]string)
		if withGeometry {
			prober := discovery.NewProber(settings.Network.Port)
			for _, d := range devices {
				g, err := prober.QueryGeometry(ctx, d.Address, settings.ProbeTimeout())
				if err != nil {
					extra[d.Address] = "geometry unavailable"
					continue
				}
				extra[d.Address] = fmt.Sprintf("%s, %d LEDs", g.Geom, g.NumLEDs)
			}
		}

		p.PrintPanels(panelRows(devices, extra))
		return nil
	},
}

var geometryCmd = &cobra.Command{
	Use:   "geometry <address>",
	Short: "Query one panel's LED geometry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext(cmd.Context())
		defer cancel()

		p := ui.NewPrinter(cmd.OutOrStdout())
		prober := discovery.NewProber(settings.Network.Port)
		g, err := prober.QueryGeometry(ctx, args[0], settings.ProbeTimeout())
		if err != nil {
			p.PrintResult(ui.NewFailureResult("Geometry query failed", err, []string{
				"Check that the panel is powered and on this subnet",
				"Raise --timeout on slow networks",
			}))
			return fmt.Errorf("geometry query to %s failed: %w", args[0], err)
		}

		p.PrintSuccess("Panel geometry",
			ui.Field{Key: "Panel", Value: args[0]},
			ui.Field{Key: "Layout", Value: g.Geom},
			ui.Field{Key: "LEDs", Value: strconv.Itoa(g.NumLEDs)},
		)
		return nil
	},
}

// bindListener claims the panel port; failure is fatal for the command
func bindListener() (*listener.Listener, error) {
	l, err := listener.Bind("", settings.Network.Port)
	if err != nil {
		return nil, fmt.Errorf("cannot listen for button events: %w", err)
	}
	l.Backoff = settings.ListenerBackoff()
	l.QueueDepth = settings.Listener.QueueDepth
	return l, nil
}

var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Scan, then print button reports until Ctrl-C",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext(cmd.Context())
		defer cancel()

		l, err := bindListener()
		if err != nil {
			return err
		}
		defer l.Close()

		p := ui.NewPrinter(cmd.OutOrStdout())
		p.PrintHeader("Listen", "panelctl listen", scanParams()...)

		reg := runScanOnce(ctx)
		p.PrintPanels(panelRows(reg.All(), nil))
		for _, d := range reg.All() {
			reg.SetCallback(d.Address, printButtons(p, reg))
		}

		p.Newline()
		p.Println("Waiting for button reports (Ctrl-C to stop)...")
		return l.Run(ctx, reg)
	},
}

// printButtons returns a callback that prints each report
func printButtons(p *ui.Printer, reg *discovery.Registry) discovery.Callback {
	return func(address string, buttons []int) {
		dip := -1
		if d, ok := reg.Get(address); ok {
			dip = d.DIP
		}
		p.Printf("%s (DIP %d) buttons: %v\n", address, dip, buttons)
	}
}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Greet every panel and echo its buttons",
	Long: `Scan, write "Hello from #<dip>" on each panel's LCD, light alternating
backlights and print button reports until Ctrl-C.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext(cmd.Context())
		defer cancel()

		l, err := bindListener()
		if err != nil {
			return err
		}
		defer l.Close()

		sender, err := command.NewSender(settings.Network.Port)
		if err != nil {
			return err
		}
		defer sender.Close()

		p := ui.NewPrinter(cmd.OutOrStdout())
		reg := runScanOnce(ctx)

		pattern := []bool{true, false, true, false, true, false}
		for _, d := range reg.All() {
			p.Printf("Controller at %s DIP=%d\n", d.Address, d.DIP)
			if err := sender.SendLCD(d.Address, 0, 0, fmt.Sprintf("Hello from #%d", d.DIP)); err != nil {
				logging.Warn("LCD greeting failed", zap.String("address", d.Address), zap.Error(err))
			}
			if err := sender.SendBacklights(d.Address, pattern); err != nil {
				logging.Warn("Backlight pattern failed", zap.String("address", d.Address), zap.Error(err))
			}
			reg.SetCallback(d.Address, func(address string, buttons []int) {
				p.Printf("%s buttons: %v\n", address, buttons)
			})
		}

		err = l.Run(ctx, reg)
		p.Println("Shutting down...")
		return err
	},
}
