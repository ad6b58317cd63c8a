package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/luaufmt/internal/logging"
	"github.com/yaklabco/luaufmt/pkg/config"
	"github.com/yaklabco/luaufmt/pkg/format"
	"github.com/yaklabco/luaufmt/pkg/modules"
)

type watchFlags struct {
	formatOnWrite bool
	debounceMS    int
}

func newWatchCommand() *cobra.Command {
	flags := &watchFlags{}

	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Track module names and optionally format scripts as they are written",
		Long: `Watch a project directory until interrupted.

Created, removed and renamed Knit modules and Wally packages are logged as
the module registry changes. With --format-on-write every script is
formatted once writes to it settle.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.formatOnWrite, "format-on-write", false, "format scripts when they are written")
	cmd.Flags().IntVar(&flags.debounceMS, "debounce", 0,
		"milliseconds to wait for writes to a file to settle (default from config)")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string, flags *watchFlags) error {
	cliCfg := &config.Config{}
	if cmd.Flags().Changed("format-on-write") {
		cliCfg.Watch.FormatOnWrite = flags.formatOnWrite
	}
	if cmd.Flags().Changed("debounce") {
		cliCfg.Watch.DebounceMS = flags.debounceMS
	}

	cfg, workDir, err := loadConfig(cmd, cliCfg)
	if err != nil {
		return err
	}
	root, err := workspaceRoot(args, workDir)
	if err != nil {
		return err
	}

	logger := logging.NewInteractive()
	ctx := logging.WithLogger(commandContext(cmd), logger)
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	catalog, knit, err := scanWorkspace(ctx, cfg, root)
	if err != nil {
		return err
	}

	opts := modules.WatchOptions{
		PackagesDir: cfg.Knit.PackagesDir,
		Debounce:    time.Duration(cfg.Watch.DebounceMS) * time.Millisecond,
	}
	if cfg.Watch.FormatOnWrite {
		opts.OnWrite = formatOnWrite(cfg)
	}

	watcher, err := modules.NewWatcher(root, catalog, opts)
	if err != nil {
		return err
	}

	logger.Info("watching",
		logging.FieldRoot, watcher.Root(),
		"knit", knit,
		"knit_modules", catalog.Knit.Len(),
		"wally_packages", catalog.Wally.Len(),
		"format_on_write", cfg.Watch.FormatOnWrite,
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return watcher.Run(groupCtx)
	})
	group.Go(func() error {
		<-groupCtx.Done()
		return watcher.Close()
	})

	if err := group.Wait(); err != nil {
		return fmt.Errorf("watch %s: %w", root, err)
	}

	logger.Info("stopped watching")
	return nil
}

// formatOnWrite formats a written script in place through the safety pipeline.
func formatOnWrite(cfg *config.Config) modules.WriteFunc {
	pipeline := format.NewPipeline(format.NewEngine(format.DefaultRegistry))
	opts := format.PipelineOptionsFromConfig(cfg, true)

	return func(ctx context.Context, path string) {
		ctx = logging.WithFields(ctx, logging.FieldPath, path)
		logger := logging.FromContext(ctx)

		result, err := pipeline.ProcessFile(ctx, path, cfg, opts)
		switch {
		case err != nil:
			logger.Warn("format failed", logging.FieldError, err)
		case result.Conflict != nil:
			logger.Warn("edits conflict; file left unformatted", logging.FieldError, result.Conflict)
		case result.Written:
			logger.Info("formatted", logging.FieldEdits, result.EditsApplied)
		default:
			logger.Debug(result.Summary())
		}
	}
}
