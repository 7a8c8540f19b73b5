package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/panelctl/internal/bridge"
	"github.com/muurk/panelctl/internal/command"
	"github.com/muurk/panelctl/internal/discovery"
	"github.com/muurk/panelctl/internal/listener"
	"github.com/muurk/panelctl/internal/logging"
	"github.com/muurk/panelctl/internal/monitor"
	"github.com/muurk/panelctl/internal/ui"
)

var (
	bridgeAddr      string
	bridgeAdvertise bool
)

func init() {
	rootCmd.AddCommand(monitorCmd)
	rootCmd.AddCommand(bridgeCmd)

	bridgeCmd.Flags().StringVar(&bridgeAddr, "addr", "", "HTTP listen address (default from config, :8765)")
	bridgeCmd.Flags().BoolVar(&bridgeAdvertise, "advertise", false, "Announce the bridge over mDNS")
}

// runListener runs l in the background and returns a channel with its result
func runListener(ctx context.Context, l *listener.Listener, reg *discovery.Registry) <-chan error {
	done := make(chan error, 1)
	go func() {
		done <- l.Run(ctx, reg)
	}()
	return done
}

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Live view of panels and their buttons",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext(cmd.Context())
		defer cancel()

		l, err := bindListener()
		if err != nil {
			return err
		}

		reg := discovery.NewRegistry()
		listenerDone := runListener(ctx, l, reg)

		err = monitor.Run(ctx, monitor.Options{
			Scan:     runScanOnce,
			Registry: reg,
			Nickname: settings.Nickname,
		})

		cancel()
		if lerr := <-listenerDone; lerr != nil {
			err = errors.Join(err, lerr)
		}
		return err
	},
}

var bridgeCmd = &cobra.Command{
	Use:   "bridge",
	Short: "Serve panels to WebSocket clients",
	Long: `Scan once, then serve /ws: every client receives the device list and
all button reports, and may send lcd, clear, backlight and led requests.
GET /devices returns the device list as JSON.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext(cmd.Context())
		defer cancel()

		cfg := settings.Bridge
		if cmd.Flags().Changed("addr") {
			cfg.Addr = bridgeAddr
		}
		if cmd.Flags().Changed("advertise") {
			cfg.Advertise = bridgeAdvertise
		}

		l, err := bindListener()
		if err != nil {
			return err
		}

		sender, err := command.NewSender(settings.Network.Port)
		if err != nil {
			_ = l.Close()
			return err
		}
		defer sender.Close()

		p := ui.NewPrinter(cmd.OutOrStdout())
		p.PrintHeader("Bridge", "panelctl bridge",
			append(scanParams(), ui.Field{Key: "Listen", Value: cfg.Addr})...)

		reg := runScanOnce(ctx)
		p.PrintPanels(panelRows(reg.All(), nil))

		b := bridge.New(bridge.Config{
			Addr:      cfg.Addr,
			Advertise: cfg.Advertise,
			Nickname:  settings.Nickname,
		}, reg, sender)
		b.Attach()

		listenerDone := runListener(ctx, l, reg)
		err = b.Serve(ctx)
		cancel()
		if lerr := <-listenerDone; lerr != nil {
			logging.Warn("Listener stopped with error", zap.Error(lerr))
		}
		return err
	},
}
