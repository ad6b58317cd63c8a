package modules_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/luaufmt/pkg/modules"
)

const (
	waitFor = 5 * time.Second
	tick    = 10 * time.Millisecond
)

func startWatcher(t *testing.T, root string, catalog *modules.Catalog, opts modules.WatchOptions) {
	t.Helper()

	watcher, err := modules.NewWatcher(root, catalog, opts)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- watcher.Run(ctx) }()

	t.Cleanup(func() {
		cancel()
		<-done
		_ = watcher.Close()
	})
}

func TestWatcher_TracksKnitModules(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	catalog := modules.NewCatalog()
	startWatcher(t, root, catalog, modules.WatchOptions{})

	path := filepath.Join(root, "PointsService.lua")
	require.NoError(t, os.WriteFile(path, []byte("return {}\n"), 0o644))
	assert.Eventually(t, func() bool { return catalog.Knit.Has("PointsService") }, waitFor, tick)

	renamed := filepath.Join(root, "ScoreService.lua")
	require.NoError(t, os.Rename(path, renamed))
	assert.Eventually(t, func() bool {
		return catalog.Knit.Has("ScoreService") && !catalog.Knit.Has("PointsService")
	}, waitFor, tick)

	require.NoError(t, os.Remove(renamed))
	assert.Eventually(t, func() bool { return catalog.Knit.Len() == 0 }, waitFor, tick)
}

func TestWatcher_NewDirectories(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	catalog := modules.NewCatalog()
	startWatcher(t, root, catalog, modules.WatchOptions{})

	dir := filepath.Join(root, "src", "Client")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "HudController.lua"), []byte("return {}\n"), 0o644))

	assert.Eventually(t, func() bool { return catalog.Knit.Has("HudController") }, waitFor, tick)

	require.NoError(t, os.RemoveAll(filepath.Join(root, "src")))
	assert.Eventually(t, func() bool { return !catalog.Knit.Has("HudController") }, waitFor, tick)
}

func TestWatcher_WallyPackages(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "Packages"), 0o755))

	catalog := modules.NewCatalog()
	startWatcher(t, root, catalog, modules.WatchOptions{})

	require.NoError(t, os.WriteFile(filepath.Join(root, "Packages", "Promise.lua"), []byte("return {}\n"), 0o644))
	assert.Eventually(t, func() bool { return catalog.Wally.Has("Promise") }, waitFor, tick)
	assert.False(t, catalog.Knit.Has("Promise"))
}

func TestWatcher_OnWrite(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	path := filepath.Join(root, "Main.lua")
	require.NoError(t, os.WriteFile(path, []byte("print(1)\n"), 0o644))

	var mu sync.Mutex
	var written []string

	startWatcher(t, root, modules.NewCatalog(), modules.WatchOptions{
		Debounce: 20 * time.Millisecond,
		OnWrite: func(_ context.Context, p string) {
			mu.Lock()
			defer mu.Unlock()
			written = append(written, p)
		},
	})

	require.NoError(t, os.WriteFile(path, []byte("print(2)\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0o644))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(written) > 0
	}, waitFor, tick)

	mu.Lock()
	defer mu.Unlock()
	for _, p := range written {
		assert.Equal(t, "Main.lua", filepath.Base(p))
	}
}

func TestNewWatcher_MissingRoot(t *testing.T) {
	t.Parallel()

	_, err := modules.NewWatcher(filepath.Join(t.TempDir(), "missing"), modules.NewCatalog(), modules.WatchOptions{})
	assert.Error(t, err)
}

func TestWatcher_OnKnitServer(t *testing.T) {
	t.Parallel()

	root := t.TempDir()

	var mu sync.Mutex
	var found []string

	startWatcher(t, root, modules.NewCatalog(), modules.WatchOptions{
		OnKnitServer: func(_ context.Context, p string) {
			mu.Lock()
			defer mu.Unlock()
			found = append(found, filepath.Base(p))
		},
	})

	require.NoError(t, os.WriteFile(filepath.Join(root, "KnitClient.lua"), []byte("return {}\n"), 0o644))

	dir := filepath.Join(root, "Packages", "_Index", "knit")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "KnitServer.lua"), []byte("return {}\n"), 0o644))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(found) > 0
	}, waitFor, tick)

	mu.Lock()
	defer mu.Unlock()
	for _, name := range found {
		assert.Equal(t, "KnitServer.lua", name)
	}
}
