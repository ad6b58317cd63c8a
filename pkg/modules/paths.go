package modules

import (
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// DefaultPackagesDir is the folder Wally installs packages into.
const DefaultPackagesDir = "Packages"

//nolint:gochecknoglobals // Compiled patterns are immutable.
var (
	knitModulePattern = glob.MustCompile("*{Controller,Service}.{lua,luau}")
	knitServerPattern = glob.MustCompile("KnitServer.{lua,luau}")
	scriptPattern     = glob.MustCompile("*.{lua,luau}")
)

// NameFromPath returns the module name a script provides: its base name
// without the .lua or .luau extension.
func NameFromPath(path string) string {
	base := filepath.Base(filepath.ToSlash(path))
	if base == "." || base == "/" {
		return ""
	}
	for _, ext := range []string{".luau", ".lua"} {
		if strings.HasSuffix(base, ext) {
			return strings.TrimSuffix(base, ext)
		}
	}
	return base
}

// IsKnitModulePath reports whether path names a Knit service or controller script.
func IsKnitModulePath(path string) bool {
	return knitModulePattern.Match(filepath.Base(path))
}

// IsKnitServerPath reports whether path is the KnitServer script that marks
// a Knit workspace.
func IsKnitServerPath(path string) bool {
	return knitServerPattern.Match(filepath.Base(path))
}

// IsScriptPath reports whether path looks like a Luau script. Matching is on
// the substring, so "Main.lua.bak" and "init.luau" both qualify.
func IsScriptPath(path string) bool {
	return strings.Contains(filepath.Base(path), ".lua")
}

// IsWallyPackagePath reports whether path is an entry directly inside the
// packages folder of root. Wally's private _Index folder is excluded.
func IsWallyPackagePath(root, packagesDir, path string) bool {
	if packagesDir == "" {
		packagesDir = DefaultPackagesDir
	}
	if filepath.Dir(filepath.Clean(path)) != filepath.Join(filepath.Clean(root), packagesDir) {
		return false
	}
	base := filepath.Base(path)
	return !strings.HasPrefix(base, "_") && !strings.HasPrefix(base, ".")
}

// isSourceFile reports whether path ends in a Luau script extension.
func isSourceFile(path string) bool {
	return scriptPattern.Match(filepath.Base(path))
}
