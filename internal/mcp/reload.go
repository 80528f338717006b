package mcp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDebounce coalesces editor write bursts into one reload.
const reloadDebounce = 500 * time.Millisecond

// Reloader hot-reloads the server configuration when the config file
// changes. It watches the file's parent directory rather than the file
// itself, so atomic rename-replace saves (the common editor and
// temp+rename pattern) keep being observed after the original inode
// goes away.
type Reloader struct {
	watcher *fsnotify.Watcher
	server  *Server
	path    string
}

// NewReloader creates a reloader for the given config path. An empty
// path yields a no-op reloader whose Run blocks until cancelled. The
// file itself does not have to exist yet; its directory does.
func NewReloader(server *Server, path string) (*Reloader, error) {
	r := &Reloader{server: server}
	if path == "" {
		return r, nil
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %q: %w", filepath.Dir(abs), err)
	}

	r.watcher = watcher
	r.path = abs
	return r, nil
}

// Run delivers reloads until ctx is cancelled.
func (r *Reloader) Run(ctx context.Context) error {
	if r.watcher == nil {
		<-ctx.Done()
		return nil
	}
	defer r.watcher.Close()

	debounce := time.NewTimer(reloadDebounce)
	if !debounce.Stop() {
		<-debounce.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			debounce.Stop()
			return nil

		case event, ok := <-r.watcher.Events:
			if !ok {
				return nil
			}
			if !r.matches(event) {
				continue
			}
			if pending && !debounce.Stop() {
				<-debounce.C
			}
			debounce.Reset(reloadDebounce)
			pending = true

		case <-debounce.C:
			pending = false
			if err := r.server.ReloadConfig(); err != nil {
				fmt.Fprintf(os.Stderr, "hot-reload failed: %v\n", err)
			} else {
				fmt.Fprintf(os.Stderr, "hot-reload: config reloaded\n")
			}

		case err, ok := <-r.watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "file watcher error: %v\n", err)
		}
	}
}

// matches filters directory events down to mutations of the config
// file. Rename counts: an atomic save lands as rename-over.
func (r *Reloader) matches(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	name, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return name == r.path
}
