package board

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Store keys.
const (
	TasksKey   = "tasks"
	FiltersKey = "filters"
)

// Storage is the key-value facility the board persists into.
type Storage interface {
	GetItem(key string) (string, bool, error)
	SetItem(key, value string) error
}

// ErrUnreadable is returned by Save for an entry that exists in the store
// but could not be read as a list. Writing would replace data the board
// never saw, so the entry is left alone.
var ErrUnreadable = errors.New("store entry unreadable")

// Load builds a board from st. A missing tasks entry, or one that is not
// valid JSON, yields no tasks; the same for filters yields the default
// filters. Elements of a list that do not decode are kept aside and written
// back unchanged. Every later change to tasks or filters is written to st.
func Load(st Storage, opts Options) *Board {
	b := New(opts)
	b.storage = st
	b.reload()
	return b
}

// Reload re-reads both collections from the attached store, keeping the
// session state (active filters, selection, open modals, inputs).
func (b *Board) Reload() {
	if b.storage == nil {
		return
	}
	selected := b.selected
	b.reload()
	for _, f := range b.filters {
		if f == selected {
			b.selected = selected
			break
		}
	}
}

func (b *Board) reload() {
	b.blocked = map[string]bool{}
	b.kept = map[string][]json.RawMessage{}

	tasks := []Task{}
	b.readList(TasksKey, func(raw json.RawMessage) error {
		var t Task
		if err := json.Unmarshal(raw, &t); err != nil {
			return err
		}
		tasks = append(tasks, t)
		return nil
	})
	b.setTasks(tasks)

	var filters []Filter
	found := b.readList(FiltersKey, func(raw json.RawMessage) error {
		var f Filter
		if err := json.Unmarshal(raw, &f); err != nil {
			return err
		}
		filters = append(filters, f)
		return nil
	})
	if !found {
		filters = DefaultFilters()
	} else if filters == nil {
		filters = []Filter{}
	}
	b.setFilters(filters)
}

// readList feeds each element of the list stored under key to add. It
// reports whether a list was found. Elements add rejects are kept for Save;
// a read error or a non-list value blocks writes to key.
func (b *Board) readList(key string, add func(json.RawMessage) error) bool {
	log := b.log.WithField("key", key)
	raw, ok, err := b.storage.GetItem(key)
	if err != nil {
		log.WithError(err).Warn("store read failed, entry will not be overwritten")
		b.blocked[key] = true
		return false
	}
	if !ok {
		return false
	}
	data := []byte(raw)
	if !json.Valid(data) {
		log.Debug("store entry is not JSON, using defaults")
		return false
	}
	if string(bytes.TrimSpace(data)) == "null" {
		return false
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		log.WithError(err).Warn("store entry is not a list, entry will not be overwritten")
		b.blocked[key] = true
		return false
	}
	for i, e := range elems {
		if err := add(e); err != nil {
			log.WithError(err).WithField("index", i).Warn("store element unreadable, keeping it as stored")
			b.kept[key] = append(b.kept[key], e)
		}
	}
	return true
}

// Save writes both collections to the attached store. A blocked entry is
// skipped and reported as ErrUnreadable; the other one is still written.
func (b *Board) Save() error {
	if b.storage == nil {
		return nil
	}
	return errors.Join(
		b.saveList(TasksKey, b.tasks),
		b.saveList(FiltersKey, b.filters),
	)
}

func (b *Board) saveList(key string, v any) error {
	if b.blocked[key] {
		return fmt.Errorf("%w: %s", ErrUnreadable, key)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if kept := b.kept[key]; len(kept) > 0 {
		var elems []json.RawMessage
		if err := json.Unmarshal(data, &elems); err != nil {
			return fmt.Errorf("encode %s: %w", key, err)
		}
		if data, err = json.Marshal(append(elems, kept...)); err != nil {
			return fmt.Errorf("encode %s: %w", key, err)
		}
	}
	return b.storage.SetItem(key, string(data))
}

// SaveErr reports whether the write after the most recent change failed.
func (b *Board) SaveErr() error { return b.saveErr }

func (b *Board) changed() {
	b.saveErr = b.Save()
	if b.saveErr != nil {
		b.log.WithError(b.saveErr).Warn("saving board failed")
	}
}
