// Package modules tracks the module names a workspace offers for insertion:
// Knit services and controllers found anywhere in the tree, and Wally
// packages installed in the Packages folder.
//
// A Registry is owned by its creator and passed explicitly to the watcher and
// the completion provider. It is safe for concurrent use: filesystem events
// write to it while completion requests read snapshots.
package modules

import (
	"cmp"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/samber/lo"
)

// Kind identifies a family of insertable modules.
type Kind string

const (
	// KindKnit covers Knit services and controllers.
	KindKnit Kind = "knit"

	// KindWally covers Wally packages.
	KindWally Kind = "wally"
)

// Kinds lists every kind in display order.
func Kinds() []Kind {
	return []Kind{KindKnit, KindWally}
}

// ParseKind converts a string to a Kind.
func ParseKind(s string) (Kind, error) {
	kind := Kind(s)
	if !slices.Contains(Kinds(), kind) {
		return "", fmt.Errorf("unknown module kind %q: must be knit or wally", s)
	}
	return kind, nil
}

// Module is one registered module name.
type Module struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Kind Kind   `json:"kind"`
}

// Registry is a set of module names of one kind.
// A name maps to the last path registered for it.
type Registry struct {
	kind Kind

	mu    sync.RWMutex
	names map[string]string
}

// NewRegistry creates an empty registry for kind.
func NewRegistry(kind Kind) *Registry {
	return &Registry{
		kind:  kind,
		names: make(map[string]string),
	}
}

// Kind returns the kind of module the registry holds.
func (r *Registry) Kind() Kind {
	return r.kind
}

// Add registers name as provided by path.
func (r *Registry) Add(name, path string) {
	if name == "" {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.names[name] = path
}

// Remove unregisters name. It reports whether the name was present.
func (r *Registry) Remove(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.names[name]; !ok {
		return false
	}
	delete(r.names, name)
	return true
}

// Rename replaces oldName with newName.
func (r *Registry) Rename(oldName, newName, path string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.names, oldName)
	if newName != "" {
		r.names[newName] = path
	}
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.names[name]
	return ok
}

// Len returns the number of registered names.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.names)
}

// Snapshot returns the registered names in sorted order.
// The slice is a copy; later updates do not change it.
func (r *Registry) Snapshot() []string {
	r.mu.RLock()
	names := lo.Keys(r.names)
	r.mu.RUnlock()

	slices.Sort(names)
	return names
}

// Modules returns the registered modules sorted by name.
func (r *Registry) Modules() []Module {
	r.mu.RLock()
	modules := lo.MapToSlice(r.names, func(name, path string) Module {
		return Module{Name: name, Path: path, Kind: r.kind}
	})
	r.mu.RUnlock()

	slices.SortFunc(modules, func(a, b Module) int {
		return cmp.Compare(a.Name, b.Name)
	})
	return modules
}

// Catalog holds one registry per kind.
type Catalog struct {
	Knit  *Registry
	Wally *Registry
}

// NewCatalog creates a catalog with empty registries.
func NewCatalog() *Catalog {
	return &Catalog{
		Knit:  NewRegistry(KindKnit),
		Wally: NewRegistry(KindWally),
	}
}

// Registry returns the registry for kind, or nil for an unknown kind.
func (c *Catalog) Registry(kind Kind) *Registry {
	switch kind {
	case KindKnit:
		return c.Knit
	case KindWally:
		return c.Wally
	default:
		return nil
	}
}

// RemoveUnder unregisters every name whose path lies inside dir.
// It returns the number of names removed.
func (r *Registry) RemoveUnder(dir string) int {
	prefix := filepath.Clean(dir) + string(filepath.Separator)

	r.mu.Lock()
	defer r.mu.Unlock()

	stale := lo.Keys(lo.PickBy(r.names, func(_ string, path string) bool {
		return strings.HasPrefix(path, prefix)
	}))
	for _, name := range stale {
		delete(r.names, name)
	}
	return len(stale)
}
