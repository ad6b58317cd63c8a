package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/luaufmt/internal/logging"
	"github.com/yaklabco/luaufmt/internal/lsp"
	"github.com/yaklabco/luaufmt/pkg/config"
	"github.com/yaklabco/luaufmt/pkg/format"
	"github.com/yaklabco/luaufmt/pkg/modules"
)

func newServeCommand(info BuildInfo) *cobra.Command {
	var root string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the language server over stdio",
		Long: `Run the luaufmt language server on stdin and stdout.

The server formats scripts on save, completes Knit module and Wally package
names, and inserts the chosen module when a completion is accepted. The
project is scanned on start and watched while the server runs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, info, root)
		},
	}

	cmd.Flags().StringVar(&root, "root", "", "project root to scan and watch (default: current directory)")

	return cmd
}

func runServe(cmd *cobra.Command, info BuildInfo, rootFlag string) error {
	logger := logging.NewInteractive()
	logging.SetDefault(logger)

	cfg, workDir, err := loadConfig(cmd, &config.Config{})
	if err != nil {
		return err
	}
	root, err := workspaceRoot([]string{rootFlag}, workDir)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(logging.WithLogger(commandContext(cmd), logger))
	defer cancel()

	catalog, knit, err := scanWorkspace(ctx, cfg, root)
	if err != nil {
		return err
	}

	server := lsp.New(
		lsp.WithVersion(info.Version),
		lsp.WithConfig(cfg),
		lsp.WithEngine(format.NewEngine(format.DefaultRegistry)),
		lsp.WithCatalog(catalog),
		lsp.WithKnitWorkspace(knit),
		lsp.WithLogger(logger),
	)

	watcher, err := modules.NewWatcher(root, catalog, modules.WatchOptions{
		PackagesDir: cfg.Knit.PackagesDir,
		OnKnitServer: func(ctx context.Context, path string) {
			if knit || cfg.Knit.Workspace == config.KnitNever {
				return
			}
			knit = true
			server.SetKnitWorkspace(true)
			logging.FromContext(ctx).Info("knit workspace detected", logging.FieldPath, path)
		},
	})
	if err != nil {
		return err
	}

	logger.Info("language server starting", logging.FieldRoot, root, "knit", knit)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return watcher.Run(groupCtx)
	})
	group.Go(func() error {
		<-groupCtx.Done()
		return watcher.Close()
	})
	group.Go(func() error {
		defer cancel()
		err := server.RunStdio()
		server.Wait()
		return err
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
