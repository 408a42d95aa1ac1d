package config

import (
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceDelay collapses the burst of filesystem events editors emit when
// saving a file into a single reload signal.
const debounceDelay = 250 * time.Millisecond

// Watch monitors the config file and invokes onChange after it has been
// written or replaced. The watch is placed on the containing directory so
// atomic-rename saves are caught too. The returned function stops the
// watcher.
func Watch(cfile string, onChange func()) (func(), error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(cfile)
	base := filepath.Base(cfile)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, err
	}

	stopChan := make(chan struct{})
	go func() {
		var debounce *time.Timer
		for {
			select {
			case <-stopChan:
				if debounce != nil {
					debounce.Stop()
				}
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(event.Name) != base {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}
				slog.Debug("Config file changed", "file", cfile, "op", event.Op)
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(debounceDelay, onChange)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Error("Config watcher error", "error", err)
			}
		}
	}()

	stop := func() {
		close(stopChan)
		watcher.Close()
	}
	return stop, nil
}
