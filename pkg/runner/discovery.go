package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"

	"github.com/yaklabco/luaufmt/pkg/langdetect"
)

// headSize is how much of a file discovery reads to spot generated code.
const headSize = 4096

// matcher holds compiled exclude patterns.
type matcher struct {
	globs []glob.Glob
}

// newMatcher compiles patterns with '/' as the separator.
func newMatcher(patterns []string) (*matcher, error) {
	m := &matcher{globs: make([]glob.Glob, 0, len(patterns))}
	for _, pattern := range patterns {
		compiled, err := glob.Compile(filepath.ToSlash(pattern), '/')
		if err != nil {
			return nil, fmt.Errorf("invalid ignore pattern %q: %w", pattern, err)
		}
		m.globs = append(m.globs, compiled)
	}
	return m, nil
}

// matchFile reports whether a file path (relative, any separator) is excluded.
// Patterns without a slash also match the base name.
func (m *matcher) matchFile(relPath string) bool {
	slashed := filepath.ToSlash(relPath)
	base := filepath.Base(relPath)
	for _, g := range m.globs {
		if g.Match(slashed) || g.Match("/"+slashed) || g.Match(base) {
			return true
		}
	}
	return false
}

// matchDir reports whether a directory is excluded. A pattern ending in /**
// excludes the directory itself.
func (m *matcher) matchDir(relPath string) bool {
	slashed := filepath.ToSlash(relPath)
	for _, g := range m.globs {
		if g.Match(slashed) || g.Match(slashed+"/") || g.Match("/"+slashed+"/") {
			return true
		}
	}
	return false
}

// Discover finds Luau scripts matching opts under the given working directory.
// It returns a deterministically sorted list of absolute file paths.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	excludes, err := newMatcher(opts.effectiveExcludes())
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var files []string

	add := func(path string) {
		if _, ok := seen[path]; !ok {
			seen[path] = struct{}{}
			files = append(files, path)
		}
	}

	for _, inputPath := range opts.effectivePaths() {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("discovery cancelled: %w", ctx.Err())
		default:
		}

		absPath := inputPath
		if !filepath.IsAbs(inputPath) {
			absPath = filepath.Join(workDir, inputPath)
		}
		absPath = filepath.Clean(absPath)

		info, err := os.Stat(absPath)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", inputPath, err)
		}

		if !info.IsDir() {
			// Explicit files skip the exclude check but not the language check.
			if langdetect.HasScriptExtension(absPath) {
				add(absPath)
			}
			continue
		}

		discovered, err := walkDirectory(ctx, absPath, workDir, excludes, opts)
		if err != nil {
			return nil, err
		}
		for _, f := range discovered {
			add(f)
		}
	}

	sort.Strings(files)

	return files, nil
}

// resolveWorkDir resolves the working directory, defaulting to os.Getwd().
func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}
	absPath, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return absPath, nil
}

// walkDirectory recursively walks a directory and returns the scripts to format.
func walkDirectory(
	ctx context.Context,
	root string,
	workDir string,
	excludes *matcher,
	opts Options,
) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if walkErr != nil {
			if os.IsPermission(walkErr) {
				return nil
			}
			return walkErr
		}

		relPath, relErr := filepath.Rel(workDir, path)
		if relErr != nil {
			relPath = path
		}

		if entry.IsDir() {
			if path != root && strings.HasPrefix(entry.Name(), ".") {
				return filepath.SkipDir
			}
			if path != root && excludes.matchDir(relPath) {
				return filepath.SkipDir
			}
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			realPath, evalErr := filepath.EvalSymlinks(path)
			if evalErr != nil {
				return nil //nolint:nilerr // Intentionally skip broken symlinks
			}
			info, statErr := os.Stat(realPath)
			if statErr != nil {
				return nil //nolint:nilerr // Intentionally skip inaccessible symlink targets
			}
			if info.IsDir() {
				if !opts.FollowSymlinks {
					return nil
				}
				// Walk the target, not the link, so WalkDir's Lstat cannot loop.
				subFiles, err := walkDirectory(ctx, realPath, workDir, excludes, opts)
				if err != nil {
					return err
				}
				files = append(files, subFiles...)
				return nil
			}
		}

		if strings.HasPrefix(entry.Name(), ".") {
			return nil
		}

		if !langdetect.HasScriptExtension(path) || excludes.matchFile(relPath) {
			return nil
		}

		head, err := readHead(path)
		if err != nil {
			return nil //nolint:nilerr // Unreadable files are reported by the pipeline instead.
		}
		if langdetect.Classify(relPath, head) != langdetect.ReasonNone {
			return nil
		}

		files = append(files, path)
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("walk directory %s: %w", root, err)
	}

	return files, nil
}

// readHead returns up to headSize bytes from the start of a file.
func readHead(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	buf := make([]byte, headSize)
	n, err := io.ReadFull(file, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return buf[:n], nil
}
