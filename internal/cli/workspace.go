package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/luaufmt/internal/configloader"
	"github.com/yaklabco/luaufmt/internal/logging"
	"github.com/yaklabco/luaufmt/pkg/config"
	"github.com/yaklabco/luaufmt/pkg/modules"
)

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// loadConfig resolves the configuration for a command from every source,
// with cliCfg holding the values set by flags.
func loadConfig(cmd *cobra.Command, cliCfg *config.Config) (*config.Config, string, error) {
	logger := logging.Default()

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, "", fmt.Errorf("get config flag: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, "", fmt.Errorf("get working directory: %w", err)
	}

	loadResult, err := configloader.Load(commandContext(cmd), configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    cliCfg,
	})
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrConfig, err)
	}

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("configuration loaded", logging.FieldConfig, loadResult.LoadedFrom)
	}

	return loadResult.Config, workDir, nil
}

// workspaceRoot returns the absolute directory named by args, or workDir.
func workspaceRoot(args []string, workDir string) (string, error) {
	root := workDir
	if len(args) > 0 && args[0] != "" {
		root = args[0]
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolve workspace root: %w", err)
	}
	return abs, nil
}

// resolveKnitWorkspace applies the knit.workspace setting. In auto mode the
// workspace uses Knit when a KnitServer script exists under root.
func resolveKnitWorkspace(ctx context.Context, cfg *config.Config, root string) (bool, error) {
	switch cfg.Knit.Workspace {
	case config.KnitAlways:
		return true, nil
	case config.KnitNever:
		return false, nil
	default:
		knit, err := modules.IsKnitWorkspace(ctx, root)
		if err != nil {
			return false, err
		}
		return knit, nil
	}
}

// scanWorkspace seeds a catalog from root and reports whether it uses Knit.
func scanWorkspace(ctx context.Context, cfg *config.Config, root string) (*modules.Catalog, bool, error) {
	catalog := modules.NewCatalog()

	scan, err := modules.Scan(ctx, root, catalog, modules.ScanOptions{PackagesDir: cfg.Knit.PackagesDir})
	if err != nil {
		return nil, false, err
	}

	knit := scan.Knit
	switch cfg.Knit.Workspace {
	case config.KnitAlways:
		knit = true
	case config.KnitNever:
		knit = false
	}

	logging.FromContext(ctx).Debug("workspace scanned",
		logging.FieldRoot, root,
		logging.FieldFiles, scan.Files,
		logging.FieldModules, catalog.Knit.Len()+catalog.Wally.Len(),
	)

	return catalog, knit, nil
}
