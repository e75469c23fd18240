package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch calls fn with the key whenever a key file under the store root is
// replaced or removed by someone other than this Dir. It blocks until ctx is
// done or the watcher fails.
func (d *Dir) Watch(ctx context.Context, fn func(key string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err := watcher.Add(d.Root); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			key, ok := keyFromName(filepath.Base(event.Name))
			if !ok {
				continue
			}
			if d.isOwnWrite(key) {
				continue
			}
			fn(key)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return err
		}
	}
}

// isOwnWrite reports whether the file for key still holds what this Dir
// last wrote there.
func (d *Dir) isOwnWrite(key string) bool {
	d.mu.Lock()
	last, wrote := d.written[key]
	d.mu.Unlock()

	b, err := os.ReadFile(d.path(key))
	if err != nil {
		return errors.Is(err, os.ErrNotExist) && !wrote
	}
	return wrote && string(b) == last
}
