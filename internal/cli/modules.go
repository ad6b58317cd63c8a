package cli

import (
	"cmp"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/yaklabco/luaufmt/internal/ui/pretty"
	"github.com/yaklabco/luaufmt/pkg/config"
	"github.com/yaklabco/luaufmt/pkg/modules"
)

type modulesFlags struct {
	kind   string
	format string
}

const formatJSON = "json"

func newModulesCommand() *cobra.Command {
	flags := &modulesFlags{}

	cmd := &cobra.Command{
		Use:   "modules [dir]",
		Short: "List the Knit modules and Wally packages of a project",
		Long: `Scan a project and list the module names completion offers.

Knit modules are scripts named *Service or *Controller. Wally packages are
the entries of the packages folder (knit.packages_dir, default Packages).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runModules(cmd, args, flags)
		},
	}

	cmd.Flags().StringVar(&flags.kind, "kind", "", "only list one kind: knit or wally")
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json")

	return cmd
}

func runModules(cmd *cobra.Command, args []string, flags *modulesFlags) error {
	ctx := commandContext(cmd)

	kinds := modules.Kinds()
	if flags.kind != "" {
		kind, err := modules.ParseKind(flags.kind)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrUsage, err)
		}
		kinds = []modules.Kind{kind}
	}

	cfg, workDir, err := loadConfig(cmd, &config.Config{})
	if err != nil {
		return err
	}
	root, err := workspaceRoot(args, workDir)
	if err != nil {
		return err
	}

	catalog, _, err := scanWorkspace(ctx, cfg, root)
	if err != nil {
		return err
	}

	var mods []modules.Module
	for _, kind := range kinds {
		mods = append(mods, catalog.Registry(kind).Modules()...)
	}
	slices.SortStableFunc(mods, func(a, b modules.Module) int {
		return cmp.Compare(a.Name, b.Name)
	})

	out := cmd.OutOrStdout()
	if flags.format == formatJSON {
		if mods == nil {
			mods = []modules.Module{}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(mods); err != nil {
			return fmt.Errorf("encoding modules: %w", err)
		}
		return nil
	}

	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto"
	}
	styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode, out))

	_, err = fmt.Fprint(out, pretty.NewModuleTable(styles, root).Format(mods))
	return err
}
