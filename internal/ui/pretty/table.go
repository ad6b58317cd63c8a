package pretty

import (
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/luaufmt/pkg/modules"
)

const (
	tablePadding   = 2
	lightSeparator = "-"
)

// ModuleTable renders registered modules as an aligned table.
type ModuleTable struct {
	styles *Styles
	root   string
}

// NewModuleTable creates a table that shows paths relative to root.
func NewModuleTable(styles *Styles, root string) *ModuleTable {
	return &ModuleTable{styles: styles, root: root}
}

// Format renders modules as NAME, KIND and PATH columns.
func (t *ModuleTable) Format(mods []modules.Module) string {
	if len(mods) == 0 {
		return t.styles.Dim.Render("No modules registered.") + "\n"
	}

	nameWidth, kindWidth := len("NAME"), len("KIND")
	paths := make([]string, len(mods))
	for idx, mod := range mods {
		nameWidth = max(nameWidth, lipgloss.Width(mod.Name))
		kindWidth = max(kindWidth, lipgloss.Width(string(mod.Kind)))
		paths[idx] = t.displayPath(mod.Path)
	}

	var builder strings.Builder

	header := padRight("NAME", nameWidth+tablePadding) + padRight("KIND", kindWidth+tablePadding) + "PATH"
	builder.WriteString(t.styles.TableHeader.Render(header) + "\n")
	builder.WriteString(t.styles.TableSeparator.Render(strings.Repeat(lightSeparator, lipgloss.Width(header))) + "\n")

	for idx, mod := range mods {
		kind := padRight(string(mod.Kind), kindWidth+tablePadding)
		if mod.Kind == modules.KindKnit {
			kind = t.styles.KnitKind.Render(kind)
		} else {
			kind = t.styles.WallyKind.Render(kind)
		}
		builder.WriteString(padRight(mod.Name, nameWidth+tablePadding) + kind + t.styles.Dim.Render(paths[idx]) + "\n")
	}

	return builder.String()
}

func (t *ModuleTable) displayPath(path string) string {
	if t.root == "" {
		return path
	}
	rel, err := filepath.Rel(t.root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

// padRight pads a string to the given width with spaces on the right.
// This must be called before applying styles.
func padRight(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
