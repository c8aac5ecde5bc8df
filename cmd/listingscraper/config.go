package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"listingscraper/pkg/config"
	"listingscraper/pkg/ui"
)

var forceInit bool

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage listingscraper configuration files.

Configuration is merged from, highest priority first:
  - Command line flags
  - Environment variables (LISTINGSCRAPER_*)
  - .env files
  - Configuration file
  - Default values`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration file with the default values",
	Long: `Write a configuration file with the default values.

The file goes to the --config path, or to
$XDG_CONFIG_HOME/listingscraper/config.yaml when none is given.`,
	RunE: runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE:  runConfigShow,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the effective configuration",
	RunE:  runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)

	configInitCmd.Flags().BoolVar(&forceInit, "force", false, "overwrite an existing file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := configFile
	if path == "" {
		p, err := config.DefaultConfigPath()
		if err != nil {
			return fmt.Errorf("failed to resolve config path: %w", err)
		}
		path = p
	}

	if _, err := os.Stat(path); err == nil && !forceInit {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", path)
	}

	if err := config.DefaultConfig().Save(path); err != nil {
		return err
	}

	printer := ui.NewPrinter(cmd.OutOrStdout(), useColor(os.Stdout))
	printer.Success("Configuration file created: " + path)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, globalFlags())
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to format configuration: %w", err)
	}

	fmt.Fprint(cmd.OutOrStdout(), string(data))
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, globalFlags())
	if err != nil {
		return err
	}

	printer := ui.NewPrinter(cmd.OutOrStdout(), useColor(os.Stdout))
	if err := os.MkdirAll(cfg.Output.BaseDirectory, 0755); err != nil {
		printer.Warning(fmt.Sprintf("Output directory %s is not writable: %v", cfg.Output.BaseDirectory, err))
	}

	printer.Success("Configuration is valid")
	printer.Info("Output directory", cfg.Output.BaseDirectory)
	printer.Info("Concurrent downloads", fmt.Sprint(cfg.Download.ConcurrentDownloads))
	printer.Info("Min photo size", fmt.Sprintf("%d bytes", cfg.Download.MinContentBytes))
	printer.Info("Request timeout", cfg.Client.RequestTimeout.String())
	printer.Info("Log level", cfg.Logging.Level)
	return nil
}
