package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/muurk/panelctl/internal/command"
	"github.com/muurk/panelctl/internal/protocol"
	"github.com/muurk/panelctl/internal/ui"
)

func init() {
	rootCmd.AddCommand(lcdCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(backlightCmd)
	rootCmd.AddCommand(ledCmd)
}

// withSender runs fn with a sender on the configured port and reports the outcome
func withSender(cmd *cobra.Command, title, address string, fn func(*command.Sender) error, details ...ui.Field) error {
	sender, err := command.NewSender(settings.Network.Port)
	if err != nil {
		return err
	}
	defer sender.Close()

	p := ui.NewPrinter(cmd.OutOrStdout())
	if err := fn(sender); err != nil {
		p.PrintError(title+" failed", err)
		return err
	}

	fields := append([]ui.Field{{Key: "Panel", Value: address}}, details...)
	p.PrintSuccess(title+" sent", fields...)
	return nil
}

var lcdCmd = &cobra.Command{
	Use:   "lcd <address> <x> <y> <text>...",
	Short: "Write text on a panel's LCD",
	Example: `  panelctl lcd 192.168.0.50 0 1 Hello world`,
	Args: cobra.MinimumNArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		x, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid x %q: %w", args[1], err)
		}
		y, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid y %q: %w", args[2], err)
		}
		text := strings.Join(args[3:], " ")

		return withSender(cmd, "LCD text", args[0], func(s *command.Sender) error {
			return s.SendLCD(args[0], x, y, text)
		}, ui.Field{Key: "Position", Value: fmt.Sprintf("%d,%d", x, y)}, ui.Field{Key: "Text", Value: text})
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear <address>",
	Short: "Clear a panel's LCD",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSender(cmd, "LCD clear", args[0], func(s *command.Sender) error {
			return s.ClearLCD(args[0])
		})
	},
}

var backlightCmd = &cobra.Command{
	Use:     "backlight <address> <0|1>...",
	Short:   "Set a panel's button backlights",
	Example: `  panelctl backlight 192.168.0.50 1 0 1 0 1 0`,
	Args:    cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		states, err := parseBacklights(args[1:])
		if err != nil {
			return err
		}
		return withSender(cmd, "Backlights", args[0], func(s *command.Sender) error {
			return s.SendBacklights(args[0], states)
		}, ui.Field{Key: "States", Value: strings.Join(args[1:], " ")})
	},
}

var ledCmd = &cobra.Command{
	Use:     "led <address> <rrggbb>...",
	Short:   "Set a panel's LED strip",
	Example: `  panelctl led 192.168.0.50 ff0000 00ff00 #0000ff`,
	Args:    cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		colors, err := parseColors(args[1:])
		if err != nil {
			return err
		}
		return withSender(cmd, "LED frame", args[0], func(s *command.Sender) error {
			return s.SendLEDs(args[0], colors)
		}, ui.Field{Key: "LEDs", Value: strconv.Itoa(len(colors))})
	},
}

// parseBacklights accepts 0/1 and on/off
func parseBacklights(args []string) ([]bool, error) {
	states := make([]bool, len(args))
	for i, a := range args {
		switch strings.ToLower(a) {
		case "1", "on":
			states[i] = true
		case "0", "off":
		default:
			return nil, fmt.Errorf("backlight %d: %q is not 0, 1, on or off", i, a)
		}
	}
	return states, nil
}

func parseColors(args []string) ([]protocol.RGB, error) {
	colors := make([]protocol.RGB, len(args))
	for i, a := range args {
		c, err := protocol.ParseRGB(a)
		if err != nil {
			return nil, fmt.Errorf("led %d: %w", i, err)
		}
		colors[i] = c
	}
	return colors, nil
}
