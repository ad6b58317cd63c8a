package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/luaufmt/internal/logging"
	"github.com/yaklabco/luaufmt/pkg/completion"
	"github.com/yaklabco/luaufmt/pkg/config"
	"github.com/yaklabco/luaufmt/pkg/document"
	"github.com/yaklabco/luaufmt/pkg/fix"
	"github.com/yaklabco/luaufmt/pkg/fsutil"
	"github.com/yaklabco/luaufmt/pkg/inject"
	"github.com/yaklabco/luaufmt/pkg/modules"
)

// ErrNoInsertionPoint is returned when a script has none of the lines a
// module is inserted relative to.
var ErrNoInsertionPoint = errors.New("no insertion point found")

type insertFlags struct {
	dryRun bool
	root   string
}

func newInsertCommand() *cobra.Command {
	flags := &insertFlags{}

	cmd := &cobra.Command{
		Use:   "insert <knit|wally> <Module> <file>",
		Short: "Insert a Knit module or Wally package into a script",
		Long: `Insert a Knit service or controller, or a Wally package, into a script.

A Knit module gets a forward declaration below the Knit require and a
getter call at the top of KnitInit. A Wally package gets a require below
the last require of the script.

Examples:
  luaufmt insert knit DataService src/Client/HudController.lua
  luaufmt insert wally Promise src/Server/Main.server.lua
  luaufmt insert wally Janitor Main.lua --dry-run`,
		Args:      cobra.ExactArgs(3),
		ValidArgs: []string{string(modules.KindKnit), string(modules.KindWally)},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInsert(cmd, args, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "print the change as a diff instead of writing it")
	cmd.Flags().StringVar(&flags.root, "root", "", "workspace root used to detect Knit (default: current directory)")

	return cmd
}

func runInsert(cmd *cobra.Command, args []string, flags *insertFlags) error {
	ctx := commandContext(cmd)
	logger := logging.Default()

	kind, err := modules.ParseKind(args[0])
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	name, path := args[1], args[2]
	if !modules.IsScriptPath(path) {
		return fmt.Errorf("%w: %s is not a Luau script", ErrUsage, path)
	}

	cfg, workDir, err := loadConfig(cmd, &config.Config{})
	if err != nil {
		return err
	}

	root, err := workspaceRoot([]string{flags.root}, workDir)
	if err != nil {
		return err
	}
	knit, err := resolveKnitWorkspace(ctx, cfg, root)
	if err != nil {
		return err
	}
	if kind == modules.KindKnit && !knit {
		return fmt.Errorf("insert %s: %w", name, completion.ErrNotKnitWorkspace)
	}

	original, info, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	doc := document.New(path, original)
	var plan fix.Plan
	if kind == modules.KindKnit {
		plan = inject.KnitModule(doc, name)
	} else {
		plan = inject.WallyModule(doc, name, inject.WallyOptions{
			PackagesRoot: cfg.Knit.PackagesRoot,
			Knit:         knit,
		})
	}
	if plan.IsEmpty() {
		return fmt.Errorf("insert %s into %s: %w", name, path, ErrNoInsertionPoint)
	}

	modified, err := fix.Apply(doc, plan)
	if err != nil {
		return fmt.Errorf("insert %s into %s: %w", name, path, err)
	}

	if flags.dryRun {
		_, err := fmt.Fprint(cmd.OutOrStdout(), fix.GenerateDiff(path, original, modified).String())
		return err
	}

	if err := fsutil.WriteAtomic(ctx, path, modified, info.Mode); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	logger.Info("module inserted",
		logging.FieldModule, name,
		logging.FieldKind, string(kind),
		logging.FieldPath, path,
	)
	return nil
}
