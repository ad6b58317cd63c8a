package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/luaufmt/internal/logging"
	"github.com/yaklabco/luaufmt/pkg/config"
	"github.com/yaklabco/luaufmt/pkg/format"
	_ "github.com/yaklabco/luaufmt/pkg/format/rules" // Register built-in rules
	"github.com/yaklabco/luaufmt/pkg/reporter"
	"github.com/yaklabco/luaufmt/pkg/runner"
)

type formatFlags struct {
	format            string
	ignore            []string
	enable            []string
	disable           []string
	noContext         bool
	compact           bool
	summaryOrder      string
	followSymlinks    bool
	noDefaultExcludes bool
}

func newFmtCommand() *cobra.Command {
	var cfg config.Config
	flags := &formatFlags{}

	cmd := &cobra.Command{
		Use:   "fmt [paths...]",
		Short: "Format Luau scripts in place",
		Long:  fmtLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFormat(cmd, args, &cfg, flags, true)
		},
	}

	addFormatFlags(cmd, &cfg, flags)
	cmd.Flags().BoolVar(&cfg.DryRun, "dry-run", false, "show changes without writing them")
	cmd.Flags().BoolVar(&cfg.NoBackups, "no-backups", false, "disable backup creation when writing")

	return cmd
}

const fmtLongDescription = `Format Luau scripts in place.

By default, formats every .lua and .luau file under the current directory.
Wally's Packages/_Index folders are skipped. Files whose edits conflict are
left untouched and reported.

Examples:
  luaufmt fmt                         # Format the current directory
  luaufmt fmt src/                    # Format one folder
  luaufmt fmt --dry-run --format diff # Show what would change
  luaufmt fmt --disable LF002         # Skip the FontFace collapse`

func newCheckCommand() *cobra.Command {
	var cfg config.Config
	flags := &formatFlags{}

	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Report Luau scripts that need formatting",
		Long: `Report Luau scripts that need formatting without changing them.

Exits with status 1 when any file needs formatting and 2 when a file could
not be formatted, which makes it suitable for CI.

Examples:
  luaufmt check
  luaufmt check --format json
  luaufmt check --format summary --summary-order files`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFormat(cmd, args, &cfg, flags, false)
		},
	}

	addFormatFlags(cmd, &cfg, flags)

	return cmd
}

func addFormatFlags(cmd *cobra.Command, cfg *config.Config, flags *formatFlags) {
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json, diff, summary")
	cmd.Flags().IntVar(&cfg.Jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to skip, in addition to the configured ones")
	cmd.Flags().StringSliceVar(&flags.enable, "enable", nil, "rule IDs or names to enable")
	cmd.Flags().StringSliceVar(&flags.disable, "disable", nil, "rule IDs or names to disable")
	cmd.Flags().BoolVar(&flags.noContext, "no-context", false, "hide source line context in output")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use compact output format")
	cmd.Flags().StringVar(&flags.summaryOrder, "summary-order", "rules",
		"order of tables in summary output: rules, files")
	cmd.Flags().BoolVar(&flags.followSymlinks, "follow-symlinks", false, "descend into symlinked directories")
	cmd.Flags().BoolVar(&flags.noDefaultExcludes, "no-default-excludes", false,
		"also format files inside Wally _Index folders")
}

func runFormat(cmd *cobra.Command, args []string, cfg *config.Config, flags *formatFlags, write bool) error {
	logger := logging.Default()
	ctx := commandContext(cmd)

	if cmd.Flags().Changed("format") {
		cfg.Format = config.OutputFormat(flags.format)
	}
	cfg.EnableRules = flags.enable
	cfg.DisableRules = flags.disable

	finalCfg, workDir, err := loadConfig(cmd, cfg)
	if err != nil {
		return err
	}

	outputFormat, err := reporter.ParseFormat(string(finalCfg.Format))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}

	logger.Debug("configuration loaded",
		logging.FieldWrite, write,
		logging.FieldDryRun, finalCfg.DryRun,
		logging.FieldJobs, finalCfg.Jobs,
	)

	pipeline := format.NewPipeline(format.NewEngine(format.DefaultRegistry))
	formatRunner := runner.New(pipeline)

	runOpts := runner.Options{
		Paths:             args,
		WorkingDir:        workDir,
		ExcludeGlobs:      flags.ignore,
		NoDefaultExcludes: flags.noDefaultExcludes,
		FollowSymlinks:    flags.followSymlinks,
		Jobs:              finalCfg.Jobs,
		Write:             write,
		Config:            finalCfg,
	}

	logger.Debug("starting run",
		logging.FieldPaths, runOpts.Paths,
		logging.FieldWorkingDir, runOpts.WorkingDir,
		logging.FieldJobs, runOpts.Jobs,
	)

	result, err := formatRunner.Run(ctx, runOpts)
	if err != nil {
		return errors.Join(errors.New("format run failed"), err)
	}

	logger.Debug("run complete",
		logging.FieldFilesDiscovered, result.Stats.FilesDiscovered,
		logging.FieldFilesProcessed, result.Stats.FilesProcessed,
		logging.FieldFindingsTotal, result.Stats.FindingsTotal,
		logging.FieldFilesWithChanges, result.Stats.FilesWithChanges,
		logging.FieldFilesModified, result.Stats.FilesModified,
		logging.FieldFilesConflicted, result.Stats.FilesConflicted,
	)

	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto"
	}

	rep, err := reporter.New(reporter.Options{
		Writer:       cmd.OutOrStdout(),
		Format:       outputFormat,
		Color:        colorMode,
		ShowContext:  !flags.noContext,
		ShowSummary:  true,
		Compact:      flags.compact,
		SummaryOrder: reporter.SummaryOrder(flags.summaryOrder),
		WorkingDir:   workDir,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	if _, err := rep.Report(ctx, result); err != nil {
		return fmt.Errorf("report results: %w", err)
	}

	return errorForExitCode(ExitCodeFromResult(result, !write))
}
