package store

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/oklog/ulid/v2"
)

type randReader struct{}

func (randReader) Read(p []byte) (int, error) { return rand.Read(p) }

var (
	ErrInvalidKey = errors.New("invalid key")
	timeNow       = func() time.Time { return time.Now().UTC() }
)

const (
	keyExt   = ".json"
	lockFile = ".lock"
)

// KV is a string key-value store in the style of browser local storage.
type KV interface {
	GetItem(key string) (string, bool, error)
	SetItem(key, value string) error
	RemoveItem(key string) error
	Keys() ([]string, error)
}

// Dir is a KV kept as one file per key under Root. Writes replace the file
// atomically and hold an advisory lock so concurrent processes do not
// interleave.
type Dir struct {
	Root string

	lock *flock.Flock

	mu      sync.Mutex
	written map[string]string
}

// Open opens (creating if needed) a store rooted at root.
func Open(root string) (*Dir, error) {
	root = expandHome(strings.TrimSpace(root))
	if root == "" {
		return nil, errors.New("store root is empty")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &Dir{
		Root:    root,
		lock:    flock.New(filepath.Join(root, lockFile)),
		written: map[string]string{},
	}, nil
}

func (d *Dir) path(key string) string {
	return filepath.Join(d.Root, key+keyExt)
}

// GetItem returns the value stored under key. ok is false when the key has
// never been written.
func (d *Dir) GetItem(key string) (string, bool, error) {
	if err := validateKey(key); err != nil {
		return "", false, err
	}
	if err := d.lock.RLock(); err != nil {
		return "", false, fmt.Errorf("lock store: %w", err)
	}
	defer d.lock.Unlock()

	b, err := os.ReadFile(d.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, err
	}
	return string(b), true, nil
}

func (d *Dir) SetItem(key, value string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if err := d.lock.Lock(); err != nil {
		return fmt.Errorf("lock store: %w", err)
	}
	defer d.lock.Unlock()

	if err := WriteFile(d.path(key), []byte(value), 0o644); err != nil {
		return err
	}
	d.mu.Lock()
	d.written[key] = value
	d.mu.Unlock()
	return nil
}

func (d *Dir) RemoveItem(key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if err := d.lock.Lock(); err != nil {
		return fmt.Errorf("lock store: %w", err)
	}
	defer d.lock.Unlock()

	d.mu.Lock()
	delete(d.written, key)
	d.mu.Unlock()
	if err := os.Remove(d.path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Keys lists the stored keys in lexical order.
func (d *Dir) Keys() ([]string, error) {
	entries, err := os.ReadDir(d.Root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, err
	}
	keys := []string{}
	for _, e := range entries {
		key, ok := keyFromName(e.Name())
		if e.IsDir() || !ok {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

// Close releases the lock file handle.
func (d *Dir) Close() error {
	return d.lock.Close()
}

func keyFromName(name string) (string, bool) {
	if strings.HasPrefix(name, ".") || !strings.HasSuffix(name, keyExt) {
		return "", false
	}
	key := strings.TrimSuffix(name, keyExt)
	if validateKey(key) != nil {
		return "", false
	}
	return key, true
}

func validateKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: key is required", ErrInvalidKey)
	}
	for _, r := range key {
		ok := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_'
		if !ok {
			return fmt.Errorf("%w: %q", ErrInvalidKey, key)
		}
	}
	return nil
}

func newULID() string {
	t := ulid.Timestamp(timeNow())
	entropy := ulid.Monotonic(randReader{}, 0)
	id, err := ulid.New(t, entropy)
	if err != nil {
		// fallback
		return fmt.Sprintf("%d", timeNow().UnixNano())
	}
	return strings.ToUpper(id.String())
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~"+string(os.PathSeparator)) || path == "~" {
		home, _ := os.UserHomeDir()
		if home != "" {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

// ExpandHome resolves a leading "~" against the user's home directory.
func ExpandHome(path string) string { return expandHome(path) }

// WriteFile replaces path with data via a temp file and rename.
func WriteFile(path string, data []byte, perm fs.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp := filepath.Join(dir, ".tmp-"+newULID())
	if err := os.WriteFile(tmp, data, perm); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	// Rename is atomic on same filesystem.
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
