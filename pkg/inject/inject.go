// Package inject builds the edits that wire a module into a Luau script:
// Knit services and controllers resolved in KnitInit, and Wally packages
// required from the shared Packages folder.
//
// Every helper returns an empty plan when its anchor lines are missing.
package inject

import (
	"fmt"
	"path/filepath"

	"github.com/yaklabco/luaufmt/pkg/document"
	"github.com/yaklabco/luaufmt/pkg/fix"
	"github.com/yaklabco/luaufmt/pkg/luau"
)

// DefaultPackagesRoot is the instance that holds the Packages folder.
const DefaultPackagesRoot = "ReplicatedStorage"

// WallyOptions controls the require path of WallyModule.
type WallyOptions struct {
	// PackagesRoot is the instance holding the project folder. Empty means
	// the instance the script requires Knit from, or DefaultPackagesRoot.
	PackagesRoot string

	// Knit selects the Knit folder layout instead of Src.
	Knit bool
}

// KnitModule plans a forward declaration below the Knit require line and a
// Knit getter call at the top of the KnitInit method.
//
// The KnitInit method looked for matches the role of the script, which comes
// from its file name. The getter matches the role of the inserted module.
func KnitModule(doc *document.Document, name string) fix.Plan {
	var plan fix.Plan
	if name == "" {
		return plan
	}

	fileRole := luau.RoleOf(filepath.Base(doc.Path))

	requireLine, initLine := -1, -1
	for idx, line := range doc.Texts() {
		switch {
		case requireLine < 0 && luau.IsKnitRequire(line):
			requireLine = idx
		case initLine < 0 && luau.IsKnitInit(line, fileRole):
			initLine = idx
		}
		if requireLine >= 0 && initLine >= 0 {
			break
		}
	}
	if requireLine < 0 || initLine < 0 {
		return plan
	}

	getter := luau.RoleOf(name).Getter()
	insertLine(&plan, doc, requireLine+1, fmt.Sprintf("local %s;", name))
	insertLine(&plan, doc, initLine+1, fmt.Sprintf("\t%s = Knit.%s('%s');", name, getter, name))

	return plan
}

// WallyModule plans a require of a Wally package below the last require
// line, or one line after the last GetService line, or at the top.
func WallyModule(doc *document.Document, name string, opts WallyOptions) fix.Plan {
	var plan fix.Plan
	if name == "" {
		return plan
	}

	lastRequire, lastGetService := -1, -1
	for idx, line := range doc.Texts() {
		if opts.PackagesRoot == "" {
			if root, ok := luau.KnitRoot(line); ok {
				opts.PackagesRoot = root
			}
		}
		if luau.IsRequire(line) {
			lastRequire = idx
		}
		if luau.IsGetServiceCall(line) {
			lastGetService = idx
		}
	}

	target := 0
	switch {
	case lastRequire >= 0:
		target = lastRequire + 1
	case lastGetService >= 0:
		target = lastGetService + 2
	}

	insertLine(&plan, doc, target, WallyRequire(name, opts))
	return plan
}

// WallyRequire returns the require statement for a Wally package.
func WallyRequire(name string, opts WallyOptions) string {
	root := opts.PackagesRoot
	if root == "" {
		root = DefaultPackagesRoot
	}
	folder := "Src"
	if opts.Knit {
		folder = "Knit"
	}
	return fmt.Sprintf("local %s = require(%s.%s.Packages.%s);", name, root, folder, name)
}

// insertLine plans text as a new line at index line. Past the last line the
// text is appended to the document instead.
func insertLine(plan *fix.Plan, doc *document.Document, line int, text string) {
	if line < doc.LineCount() {
		plan.Insert(fix.Pos(line, 0), text+doc.EOL)
		return
	}

	last := doc.Lines[doc.LineCount()-1]
	if last.Text == "" {
		plan.Insert(fix.Pos(last.Index, 0), text+doc.EOL)
		return
	}
	plan.Insert(fix.Pos(last.Index, len(last.Text)), doc.EOL+text)
}
