package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/panelctl/internal/config"
	"github.com/muurk/panelctl/internal/logging"
)

// Persistent flags
var (
	configPath string
	basePrefix string
	rangeStart int
	rangeEnd   int
	panelPort  int
	timeout    time.Duration
	logLevel   string
)

// settings is the merged configuration, set by setup
var settings *config.Settings

func init() {
	defaults := config.Defaults()
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Config file (default: platform config dir)")
	flags.StringVar(&basePrefix, "prefix", defaults.Network.BasePrefix, "First three octets of the panel subnet")
	flags.IntVar(&rangeStart, "start", defaults.Network.RangeStart, "First host octet to probe")
	flags.IntVar(&rangeEnd, "end", defaults.Network.RangeEnd, "Last host octet to probe, inclusive")
	flags.IntVar(&panelPort, "port", defaults.Network.Port, "Panel UDP port")
	flags.DurationVar(&timeout, "timeout", defaults.DiscoveryTimeout(), "Whole-scan timeout; each probe gets half")
	flags.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (default: $"+logging.LogLevelEnvVar+" or silent)")
}

// setup initialises logging and merges the config file with flags
func setup(cmd *cobra.Command, args []string) error {
	if err := logging.Initialize(logLevel); err != nil {
		return err
	}

	path, err := resolveConfigPath()
	if err != nil {
		return err
	}
	s, err := config.Load(path)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("prefix") {
		s.Network.BasePrefix = basePrefix
	}
	if flags.Changed("start") {
		s.Network.RangeStart = rangeStart
	}
	if flags.Changed("end") {
		s.Network.RangeEnd = rangeEnd
	}
	if flags.Changed("port") {
		s.Network.Port = panelPort
	}
	if flags.Changed("timeout") {
		s.Discovery.TimeoutMS = int(timeout / time.Millisecond)
	}

	if err := s.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	settings = s
	logging.Debug("Settings loaded",
		zap.String("config", path),
		zap.String("prefix", s.Network.BasePrefix),
		zap.Int("start", s.Network.RangeStart),
		zap.Int("end", s.Network.RangeEnd),
		zap.Int("port", s.Network.Port),
		zap.Duration("timeout", s.DiscoveryTimeout()),
	)
	return nil
}

func resolveConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	path, err := config.GetConfigPath()
	if err != nil {
		return "", fmt.Errorf("failed to get config path: %w", err)
	}
	return path, nil
}
