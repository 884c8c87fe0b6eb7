package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sdejongh/safedel/pkg/config"
)

// NewConfigCommand creates the config command
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long: `View or create the safedel configuration file.
A configuration file is optional: without one the defaults apply.`,
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigInitCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	var asYAML bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if asYAML {
				data, err := config.Marshal(cfg)
				if err != nil {
					return err
				}
				_, err = out.Write(data)
				return err
			}

			fmt.Fprintf(out, "Trash Root: %s (%s)\n", cfg.Trash.Root, cfg.TrashRoot())
			fmt.Fprintf(out, "Audit Log: %s\n", cfg.Audit.LogPath)
			fmt.Fprintf(out, "Backup Enabled: %t\n", cfg.Backup.Enabled)
			fmt.Fprintf(out, "Backup Required: %t\n", cfg.Backup.Required)
			fmt.Fprintf(out, "Preview Lines: %d\n", cfg.Preview.Lines)
			fmt.Fprintf(out, "Buffer Size: %d\n", cfg.Performance.BufferSize)
			fmt.Fprintf(out, "Bandwidth Limit: %d\n", cfg.Performance.BandwidthLimit)
			fmt.Fprintf(out, "Color: %t\n", cfg.Output.Color)
			fmt.Fprintf(out, "Progress: %t\n", cfg.Output.Progress)
			fmt.Fprintf(out, "Log Format: %s\n", cfg.Logging.Format)
			fmt.Fprintf(out, "Log Level: %s\n", cfg.Logging.Level)

			return nil
		},
	}

	cmd.Flags().BoolVar(&asYAML, "yaml", false, "print the configuration as YAML")

	return cmd
}

func newConfigInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := globalFlags.ConfigFile
			if path == "" {
				var err error
				path, err = config.DefaultConfigPath()
				if err != nil {
					return err
				}
			}

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", path)
			}

			cfg := config.Default()
			if err := config.SaveToFile(cfg, path); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Configuration file created at: %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing configuration file")

	return cmd
}
