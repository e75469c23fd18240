package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDirSetGetRoundTrip(t *testing.T) {
	d, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer d.Close()

	if _, ok, err := d.GetItem("tasks"); err != nil || ok {
		t.Fatalf("expected missing key, got ok=%t err=%v", ok, err)
	}
	value := `[{"id":1,"text":"Buy milk"}]`
	if err := d.SetItem("tasks", value); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, ok, err := d.GetItem("tasks")
	if err != nil || !ok || got != value {
		t.Fatalf("expected %q, got %q ok=%t err=%v", value, got, ok, err)
	}
	if _, err := os.Stat(filepath.Join(d.Root, "tasks.json")); err != nil {
		t.Fatalf("expected key file: %v", err)
	}
}

func TestDirSetLeavesNoTempFiles(t *testing.T) {
	d, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer d.Close()
	for i := 0; i < 5; i++ {
		if err := d.SetItem("filters", fmt.Sprintf("[%d]", i)); err != nil {
			t.Fatalf("set: %v", err)
		}
	}
	entries, _ := os.ReadDir(d.Root)
	for _, e := range entries {
		if len(e.Name()) > 4 && e.Name()[:5] == ".tmp-" {
			t.Fatalf("leftover temp file %s", e.Name())
		}
	}
}

func TestDirKeysAndRemove(t *testing.T) {
	d, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer d.Close()
	_ = d.SetItem("tasks", "[]")
	_ = d.SetItem("filters", "[]")
	_ = os.WriteFile(filepath.Join(d.Root, "notes.txt"), []byte("x"), 0o644)

	keys, err := d.Keys()
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if len(keys) != 2 || keys[0] != "filters" || keys[1] != "tasks" {
		t.Fatalf("unexpected keys %v", keys)
	}
	if err := d.RemoveItem("tasks"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := d.RemoveItem("tasks"); err != nil {
		t.Fatalf("removing a missing key should succeed: %v", err)
	}
	if _, ok, _ := d.GetItem("tasks"); ok {
		t.Fatalf("expected tasks removed")
	}
}

func TestInvalidKeys(t *testing.T) {
	d, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer d.Close()
	for _, key := range []string{"", "../escape", "a/b", "with space"} {
		if err := d.SetItem(key, "x"); !errors.Is(err, ErrInvalidKey) {
			t.Fatalf("SetItem(%q): expected ErrInvalidKey, got %v", key, err)
		}
		if _, _, err := d.GetItem(key); !errors.Is(err, ErrInvalidKey) {
			t.Fatalf("GetItem(%q): expected ErrInvalidKey, got %v", key, err)
		}
	}
}

func TestOpenCreatesRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nested", "store")
	d, err := Open(root)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer d.Close()
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		t.Fatalf("expected root dir to exist: %v", err)
	}
}

func TestMemory(t *testing.T) {
	m := NewMemory()
	_ = m.SetItem("tasks", "[]")
	v, ok, err := m.GetItem("tasks")
	if err != nil || !ok || v != "[]" {
		t.Fatalf("unexpected %q %t %v", v, ok, err)
	}
	_ = m.RemoveItem("tasks")
	if keys, _ := m.Keys(); len(keys) != 0 {
		t.Fatalf("expected no keys, got %v", keys)
	}
}

func TestWatchReportsForeignWrites(t *testing.T) {
	root := t.TempDir()
	d, err := Open(root)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer d.Close()
	other, err := Open(root)
	if err != nil {
		t.Fatalf("open other: %v", err)
	}
	defer other.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	got := make(chan string, 16)
	done := make(chan error, 1)
	go func() {
		done <- d.Watch(ctx, func(key string) { got <- key })
	}()

	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	deadline := time.After(5 * time.Second)
	for i := 0; ; i++ {
		select {
		case key := <-got:
			if key != "tasks" {
				t.Fatalf("unexpected key %q", key)
			}
			cancel()
			if err := <-done; err != nil {
				t.Fatalf("watch: %v", err)
			}
			return
		case <-tick.C:
			_ = other.SetItem("tasks", fmt.Sprintf("[%d]", i))
		case <-deadline:
			t.Fatalf("no change reported")
		}
	}
}

func TestWatchIgnoresOwnWrites(t *testing.T) {
	d, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer d.Close()
	_ = d.SetItem("tasks", "[]")
	if !d.isOwnWrite("tasks") {
		t.Fatalf("expected own write to be recognised")
	}
	_ = os.WriteFile(filepath.Join(d.Root, "tasks.json"), []byte("[1]"), 0o644)
	if d.isOwnWrite("tasks") {
		t.Fatalf("foreign content must not count as own write")
	}
}
