package cli

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yaklabco/luaufmt/internal/logging"
	"github.com/yaklabco/luaufmt/pkg/format"
)

func newVersionCommand(info BuildInfo) *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long: `Print the version, commit and build date of luaufmt together with the
Go runtime it was built with and the number of registered rules.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rules := len(format.DefaultRegistry.Rules())

			if outputFormat == formatJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]any{
					"version": info.Version,
					"commit":  info.Commit,
					"date":    info.Date,
					"go":      runtime.Version(),
					"rules":   rules,
				})
			}
			if outputFormat != "text" {
				return fmt.Errorf("%w: invalid format %q: must be text or json", ErrUsage, outputFormat)
			}

			logger := log.NewWithOptions(cmd.OutOrStdout(), log.Options{})
			logger.Info("luaufmt",
				logging.FieldVersion, info.Version,
				logging.FieldCommit, info.Commit,
				logging.FieldBuilt, info.Date,
				"go", runtime.Version(),
				"rules", rules,
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&outputFormat, "format", "text", "output format: text, json")

	return cmd
}
