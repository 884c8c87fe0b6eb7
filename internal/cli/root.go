package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRootCommand creates the safedel command with its subcommands
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "safedel [path]",
		Short: "Inspect a file, back it up and move it to a recoverable trash",
		Long: `safedel inspects a single file (metadata, text preview, SHA-256, entropy),
creates a safety backup next to it and, after confirmation, moves it to a trash
directory instead of deleting it. Every outcome is appended to an audit log.

Without a path argument the path is read interactively.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          RunDelete,
	}

	// Add global flags
	AddGlobalFlags(rootCmd)
	AddDeleteFlags(rootCmd)

	// Add commands
	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd
}
