package mcp

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fsnotify/fsnotify"
)

func TestNewReloaderEmptyPathIsNoop(t *testing.T) {
	s := newTestServer(t)

	r, err := NewReloader(s, "")
	if err != nil {
		t.Fatalf("new reloader: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()
	cancel()
	if err := <-done; err != nil {
		t.Errorf("no-op reloader run: %v", err)
	}
}

func TestNewReloaderAcceptsMissingFile(t *testing.T) {
	s := newTestServer(t)

	// The config file may be created after startup; its directory is
	// what gets watched.
	r, err := NewReloader(s, filepath.Join(t.TempDir(), "swarmgate.yaml"))
	if err != nil {
		t.Fatalf("new reloader: %v", err)
	}
	r.watcher.Close()
}

func TestReloaderMatchesOnlyConfigFileMutations(t *testing.T) {
	s := newTestServer(t)
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "swarmgate.yaml")
	if err := os.WriteFile(cfgPath, []byte("state_dir: x\n"), 0600); err != nil {
		t.Fatal(err)
	}

	r, err := NewReloader(s, cfgPath)
	if err != nil {
		t.Fatalf("new reloader: %v", err)
	}
	defer r.watcher.Close()

	for _, tc := range []struct {
		event fsnotify.Event
		want  bool
	}{
		{fsnotify.Event{Name: cfgPath, Op: fsnotify.Write}, true},
		{fsnotify.Event{Name: cfgPath, Op: fsnotify.Create}, true},
		{fsnotify.Event{Name: cfgPath, Op: fsnotify.Rename}, true},
		{fsnotify.Event{Name: cfgPath, Op: fsnotify.Chmod}, false},
		{fsnotify.Event{Name: filepath.Join(dir, "other.yaml"), Op: fsnotify.Write}, false},
	} {
		if got := r.matches(tc.event); got != tc.want {
			t.Errorf("matches(%s %s) = %v, want %v", tc.event.Name, tc.event.Op, got, tc.want)
		}
	}
}
