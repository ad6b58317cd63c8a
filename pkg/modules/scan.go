package modules

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrNotDirectory is returned when a workspace root is not a directory.
var ErrNotDirectory = errors.New("workspace root is not a directory")

// skipDirs are never descended into.
//
//nolint:gochecknoglobals // Read-only lookup table.
var skipDirs = map[string]bool{
	".git":         true,
	".hg":          true,
	".svn":         true,
	"node_modules": true,
}

// ScanOptions configures Scan.
type ScanOptions struct {
	// PackagesDir is the Wally packages folder relative to the root.
	// Empty means DefaultPackagesDir.
	PackagesDir string
}

// ScanResult summarizes a workspace scan.
type ScanResult struct {
	// Knit is true when a KnitServer script was found.
	Knit bool

	// Files is the number of files visited.
	Files int
}

// Scan walks root and registers every Knit module and Wally package it finds
// in catalog.
func Scan(ctx context.Context, root string, catalog *Catalog, opts ScanOptions) (ScanResult, error) {
	var result ScanResult

	if err := checkRoot(root); err != nil {
		return result, err
	}

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if entry.IsDir() {
			if path != root && skipDirs[entry.Name()] {
				return filepath.SkipDir
			}
			return nil
		}

		result.Files++
		if IsKnitServerPath(path) {
			result.Knit = true
		}
		Register(catalog, root, opts.PackagesDir, path)
		return nil
	})
	if err != nil {
		return result, fmt.Errorf("scan %s: %w", root, err)
	}

	return result, nil
}

// Register adds path to the registry that matches it, if any.
// It reports the kind the path was registered under.
func Register(catalog *Catalog, root, packagesDir, path string) (Kind, bool) {
	switch {
	case IsWallyPackagePath(root, packagesDir, path):
		catalog.Wally.Add(NameFromPath(path), path)
		return KindWally, true
	case IsKnitModulePath(path):
		catalog.Knit.Add(NameFromPath(path), path)
		return KindKnit, true
	default:
		return "", false
	}
}

// Unregister removes the name path provided from the registry that matches it.
func Unregister(catalog *Catalog, root, packagesDir, path string) (Kind, bool) {
	switch {
	case IsWallyPackagePath(root, packagesDir, path):
		return KindWally, catalog.Wally.Remove(NameFromPath(path))
	case IsKnitModulePath(path):
		return KindKnit, catalog.Knit.Remove(NameFromPath(path))
	default:
		return "", false
	}
}

// IsKnitWorkspace reports whether any KnitServer script exists under root.
func IsKnitWorkspace(ctx context.Context, root string) (bool, error) {
	if err := checkRoot(root); err != nil {
		return false, err
	}

	found := false
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // Unreadable entries are skipped.
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if entry.IsDir() {
			if path != root && skipDirs[entry.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if IsKnitServerPath(path) {
			found = true
			return filepath.SkipAll
		}
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("detect knit workspace: %w", err)
	}

	return found, nil
}

func checkRoot(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("stat workspace root: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotDirectory, root)
	}
	return nil
}
