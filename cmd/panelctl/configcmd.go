package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/muurk/panelctl/internal/config"
	"github.com/muurk/panelctl/internal/ui"
)

var forceInit bool

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configNicknameCmd)

	configInitCmd.Flags().BoolVar(&forceInit, "force", false, "Overwrite an existing file")
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the panelctl config file",
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveConfigPath()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings as YAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := settings.Marshal()
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the current settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveConfigPath()
		if err != nil {
			return err
		}
		if _, err := os.Stat(path); err == nil && !forceInit {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		if err := settings.Save(path); err != nil {
			return err
		}
		ui.NewPrinter(cmd.OutOrStdout()).PrintSuccess("Config written", ui.Field{Key: "Path", Value: path})
		return nil
	},
}

var configNicknameCmd = &cobra.Command{
	Use:     "nickname <dip> <name>",
	Short:   "Name a panel by its DIP ID",
	Example: `  panelctl config nickname 3 Kitchen`,
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		dip, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid DIP %q: %w", args[0], err)
		}
		path, err := resolveConfigPath()
		if err != nil {
			return err
		}

		// Start from the file, not the flag-merged settings
		s, err := config.Load(path)
		if err != nil {
			return err
		}
		s.SetNickname(dip, args[1])
		if err := s.Save(path); err != nil {
			return err
		}
		ui.NewPrinter(cmd.OutOrStdout()).PrintSuccess("Nickname saved",
			ui.Field{Key: "DIP", Value: args[0]},
			ui.Field{Key: "Nickname", Value: args[1]},
		)
		return nil
	},
}
