// Package cli provides the Cobra command structure for luaufmt.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/luaufmt/internal/logging"
	"github.com/yaklabco/luaufmt/internal/ui/pretty"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root luaufmt command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var configPath string
	var color string

	rootCmd := &cobra.Command{
		Use:   "luaufmt",
		Short: "Formatter and module helper for Roblox Luau projects",
		Long: `luaufmt keeps Roblox Luau scripts tidy and wires modules into them.

It groups and normalizes service accessors, collapses FontFace = Font.new(
calls onto one line, and inserts Knit services, controllers and Wally
packages into scripts. Run it over a project, watch a project while you
edit, or serve it to your editor as a language server.`,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if _, err := pretty.ParseColorMode(color); err != nil {
				return fmt.Errorf("%w: %w", ErrUsage, err)
			}
			if debug {
				logging.SetLevel("debug")
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"colorize output: auto, always, never")

	rootCmd.AddCommand(newFmtCommand())
	rootCmd.AddCommand(newCheckCommand())
	rootCmd.AddCommand(newInsertCommand())
	rootCmd.AddCommand(newModulesCommand())
	rootCmd.AddCommand(newWatchCommand())
	rootCmd.AddCommand(newServeCommand(info))
	rootCmd.AddCommand(newRulesCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	helpFormatter := NewHelpFormatter(color, os.Stdout)
	helpFormatter.ApplyToCommand(rootCmd)

	return rootCmd
}
