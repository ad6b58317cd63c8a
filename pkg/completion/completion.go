// Package completion turns the module registries into completion items
// whose command inserts the chosen module into the requesting document.
package completion

import (
	"errors"

	"github.com/yaklabco/luaufmt/pkg/modules"
)

// Command identifiers executed when an item is accepted.
const (
	CommandInsertKnitModule  = "luaufmt.insertKnitModule"
	CommandInsertWallyModule = "luaufmt.insertWallyModule"
)

// Sentinel errors explaining why no items were produced.
var (
	// ErrNoRegistry indicates the provider has no registry to read.
	ErrNoRegistry = errors.New("no module registry")

	// ErrNotKnitWorkspace indicates Knit completion was requested outside a Knit workspace.
	ErrNotKnitWorkspace = errors.New("not a knit workspace")

	// ErrUnknownCommand indicates a command name no provider handles.
	ErrUnknownCommand = errors.New("unknown command")
)

// Command is the editor command attached to an item.
type Command struct {
	Title     string
	Name      string
	Arguments []string
}

// Item is one completion suggestion.
type Item struct {
	// Label is the module name shown and inserted.
	Label string

	// Kind is the module kind the item came from.
	Kind modules.Kind

	// Detail is the path of the module source.
	Detail string

	// Command inserts the module when the item is accepted.
	// Its arguments are the label and the document URI.
	Command Command
}

// Result is the outcome of a completion request.
// Err is set when no items could be produced; Items is empty then.
type Result struct {
	Items []Item
	Err   error
}

// OK reports whether the request succeeded.
func (r Result) OK() bool {
	return r.Err == nil
}

// Provider offers the modules of one registry.
type Provider struct {
	// Registry supplies the module names.
	Registry *modules.Registry

	// RequireKnit refuses completion unless KnitWorkspace is true.
	RequireKnit bool

	// KnitWorkspace records whether the workspace uses Knit.
	KnitWorkspace bool
}

// NewKnitProvider creates a provider for Knit services and controllers.
func NewKnitProvider(registry *modules.Registry, knitWorkspace bool) *Provider {
	return &Provider{Registry: registry, RequireKnit: true, KnitWorkspace: knitWorkspace}
}

// NewWallyProvider creates a provider for Wally packages.
func NewWallyProvider(registry *modules.Registry, knitWorkspace bool) *Provider {
	return &Provider{Registry: registry, KnitWorkspace: knitWorkspace}
}

// Complete returns one item per registered module, sorted by name.
func (p *Provider) Complete(uri string) Result {
	if p == nil || p.Registry == nil {
		return Result{Err: ErrNoRegistry}
	}
	if p.RequireKnit && !p.KnitWorkspace {
		return Result{Err: ErrNotKnitWorkspace}
	}

	title, name := commandFor(p.Registry.Kind())

	mods := p.Registry.Modules()
	items := make([]Item, 0, len(mods))
	for _, mod := range mods {
		items = append(items, Item{
			Label:  mod.Name,
			Kind:   mod.Kind,
			Detail: mod.Path,
			Command: Command{
				Title:     title,
				Name:      name,
				Arguments: []string{mod.Name, uri},
			},
		})
	}

	return Result{Items: items}
}

// KindForCommand returns the module kind a command inserts.
func KindForCommand(command string) (modules.Kind, error) {
	switch command {
	case CommandInsertKnitModule:
		return modules.KindKnit, nil
	case CommandInsertWallyModule:
		return modules.KindWally, nil
	default:
		return "", ErrUnknownCommand
	}
}

// Commands lists every command the items may carry.
func Commands() []string {
	return []string{CommandInsertKnitModule, CommandInsertWallyModule}
}

func commandFor(kind modules.Kind) (string, string) {
	if kind == modules.KindWally {
		return "Insert Wally Module", CommandInsertWallyModule
	}
	return "Insert Knit Module", CommandInsertKnitModule
}
