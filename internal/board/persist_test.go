package board

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
	"time"
)

type mapStorage struct {
	items  map[string]string
	writes int
	err    error
	getErr error
}

func newMapStorage() *mapStorage { return &mapStorage{items: map[string]string{}} }

func (m *mapStorage) GetItem(key string) (string, bool, error) {
	if m.getErr != nil {
		return "", false, m.getErr
	}
	v, ok := m.items[key]
	return v, ok, nil
}

func (m *mapStorage) SetItem(key, value string) error {
	if m.err != nil {
		return m.err
	}
	m.writes++
	m.items[key] = value
	return nil
}

func testOptions() Options {
	return Options{
		Now:       func() time.Time { return time.Date(2024, 1, 2, 8, 5, 0, 0, time.Local) },
		RandColor: func() int { return 0x12ab },
	}
}

func TestLoadEmptyStoreUsesDefaults(t *testing.T) {
	b := Load(newMapStorage(), testOptions())
	if len(b.Tasks()) != 0 {
		t.Fatalf("expected no tasks")
	}
	if !reflect.DeepEqual(b.Filters(), DefaultFilters()) {
		t.Fatalf("expected default filters, got %#v", b.Filters())
	}
}

func TestLoadMalformedEntriesUseDefaults(t *testing.T) {
	cases := []struct {
		name    string
		tasks   string
		filters string
	}{
		{"garbage", "{not json", "also not json"},
		{"null", "null", "null"},
		{"wrong shape", `{"id":1}`, `"Work"`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			st := newMapStorage()
			st.items[TasksKey] = tc.tasks
			st.items[FiltersKey] = tc.filters
			b := Load(st, testOptions())
			if len(b.Tasks()) != 0 {
				t.Fatalf("expected no tasks, got %#v", b.Tasks())
			}
			if !reflect.DeepEqual(b.Filters(), DefaultFilters()) {
				t.Fatalf("expected default filters, got %#v", b.Filters())
			}
		})
	}
}

func TestLoadKeepsReadableElements(t *testing.T) {
	st := newMapStorage()
	st.items[TasksKey] = `[{"id":1,"text":"keep me","time":"09:00","date":"2024-01-01","category":"Work","color":"yellow","completed":false},` +
		`{"id":2,"text":"odd","time":"09:01","date":"2024-01-01","category":"Work","color":"yellow","completed":"yes"}]`
	st.items[FiltersKey] = `[{"name":"Work","color":"yellow"},{"name":7}]`
	b := Load(st, testOptions())

	if tasks := b.Tasks(); len(tasks) != 1 || tasks[0].Text != "keep me" {
		t.Fatalf("expected the readable task, got %#v", tasks)
	}
	if filters := b.Filters(); len(filters) != 1 || filters[0].Name != "Work" {
		t.Fatalf("expected the readable filter, got %#v", filters)
	}

	b.SetNewTaskText("new")
	if _, ok := b.AddTask(); !ok {
		t.Fatalf("add failed")
	}
	if err := b.SaveErr(); err != nil {
		t.Fatalf("save: %v", err)
	}
	var stored []map[string]any
	if err := json.Unmarshal([]byte(st.items[TasksKey]), &stored); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(stored) != 3 || stored[0]["text"] != "keep me" || stored[1]["text"] != "new" || stored[2]["completed"] != "yes" {
		t.Fatalf("expected every stored task kept, got %v", stored)
	}
	var filters []map[string]any
	if err := json.Unmarshal([]byte(st.items[FiltersKey]), &filters); err != nil || len(filters) != 2 {
		t.Fatalf("expected both stored filters kept, got %v (%v)", filters, err)
	}

	reloaded := Load(st, testOptions())
	if len(reloaded.Tasks()) != 2 {
		t.Fatalf("expected 2 readable tasks after reload, got %d", len(reloaded.Tasks()))
	}
}

func TestLoadNeverOverwritesNonListEntry(t *testing.T) {
	st := newMapStorage()
	st.items[TasksKey] = `{"id":1,"text":"not a list"}`
	b := Load(st, testOptions())
	if len(b.Tasks()) != 0 {
		t.Fatalf("expected no tasks")
	}
	b.SetNewTaskText("new")
	b.AddTask()
	if !errors.Is(b.SaveErr(), ErrUnreadable) {
		t.Fatalf("expected ErrUnreadable, got %v", b.SaveErr())
	}
	if st.items[TasksKey] != `{"id":1,"text":"not a list"}` {
		t.Fatalf("tasks entry was overwritten: %s", st.items[TasksKey])
	}
	if _, ok := st.items[FiltersKey]; !ok {
		t.Fatalf("the readable filters entry is still written")
	}
}

func TestLoadReadErrorBlocksWrites(t *testing.T) {
	st := newMapStorage()
	st.items[TasksKey] = `[{"id":1,"text":"keep me"}]`
	st.getErr = errors.New("permission denied")
	b := Load(st, testOptions())
	st.getErr = nil

	b.SetNewTaskText("new")
	b.AddTask()
	if !errors.Is(b.SaveErr(), ErrUnreadable) {
		t.Fatalf("expected ErrUnreadable, got %v", b.SaveErr())
	}
	if st.writes != 0 {
		t.Fatalf("expected no writes, got %d", st.writes)
	}

	b.Reload()
	if len(b.Tasks()) != 1 {
		t.Fatalf("a successful reload reads the entry again")
	}
	b.SetNewTaskText("new")
	b.AddTask()
	if err := b.SaveErr(); err != nil {
		t.Fatalf("save after reload: %v", err)
	}
}

func TestLoadReassignsDuplicateIDs(t *testing.T) {
	st := newMapStorage()
	st.items[TasksKey] = `[{"id":1,"text":"a"},{"id":5,"text":"c"},{"id":1,"text":"b"},{"id":1,"text":"d"}]`
	b := Load(st, testOptions())

	var ids []int64
	for _, task := range b.Tasks() {
		ids = append(ids, task.ID)
	}
	if !reflect.DeepEqual(ids, []int64{1, 5, 6, 7}) {
		t.Fatalf("unexpected ids %v", ids)
	}
	if !b.ToggleTaskCompletion(6) {
		t.Fatalf("expected reassigned id to resolve")
	}
	for _, task := range b.Tasks() {
		if task.Completed != (task.Text == "b") {
			t.Fatalf("toggle hit the wrong task: %#v", task)
		}
	}
}

func TestLoadKeepsEmptyFilterList(t *testing.T) {
	st := newMapStorage()
	st.items[FiltersKey] = "[]"
	b := Load(st, testOptions())
	if len(b.Filters()) != 0 {
		t.Fatalf("an explicitly empty filter list is kept, got %#v", b.Filters())
	}
	if b.SelectedFilter() != (Filter{}) {
		t.Fatalf("expected no selected filter")
	}
	b.SetNewFilterName("Only")
	f, _ := b.AddNewFilter()
	if b.SelectedFilter() != f {
		t.Fatalf("first filter added becomes the selection")
	}
}

func TestLoadReadsOriginalStoreFormat(t *testing.T) {
	st := newMapStorage()
	st.items[TasksKey] = `[{"id":1704099000000,"text":"Buy milk","time":"09:30 AM","category":"Personal","color":"red","completed":false,"date":"2024-01-01"}]`
	st.items[FiltersKey] = `[{"name":"Personal","color":"red"},{"name":"Gym","color":"#3fa2c"}]`
	b := Load(st, testOptions())

	tasks := b.Tasks()
	if len(tasks) != 1 || tasks[0].ID != 1704099000000 || tasks[0].Text != "Buy milk" {
		t.Fatalf("unexpected tasks %#v", tasks)
	}
	if len(b.Filters()) != 2 || b.Filters()[1].Color != "#3fa2c" {
		t.Fatalf("stored colors are kept as-is, got %#v", b.Filters())
	}
}

func TestEveryChangeWritesBothKeys(t *testing.T) {
	st := newMapStorage()
	b := Load(st, testOptions())
	if st.writes != 0 {
		t.Fatalf("loading must not write")
	}
	b.SetNewTaskText("one")
	task, _ := b.AddTask()
	if st.writes != 2 {
		t.Fatalf("expected both keys written, got %d writes", st.writes)
	}
	b.ToggleFilter("Work")
	b.SelectFilterByName("Work")
	b.ToggleSidebar()
	if st.writes != 2 {
		t.Fatalf("session state must not be persisted, got %d writes", st.writes)
	}
	b.ToggleTaskCompletion(task.ID)
	b.SetNewFilterName("Gym")
	b.AddNewFilter()
	b.DeleteTask(task.ID)
	if st.writes != 8 {
		t.Fatalf("expected 8 writes, got %d", st.writes)
	}
	if _, ok := st.items[FiltersKey]; !ok {
		t.Fatalf("filters key missing")
	}
}

func TestRoundTrip(t *testing.T) {
	st := newMapStorage()
	b := Load(st, testOptions())
	b.SetNewTaskText("Buy milk")
	first, _ := b.AddTask()
	b.SetNewFilterName("Gym")
	b.AddNewFilter()
	b.SelectFilterByName("Gym")
	b.SetNewTaskText("Leg day")
	b.AddTask()
	b.ToggleTaskCompletion(first.ID)

	reloaded := Load(st, testOptions())
	if !reflect.DeepEqual(reloaded.Tasks(), b.Tasks()) {
		t.Fatalf("tasks differ after reload:\n%#v\n%#v", reloaded.Tasks(), b.Tasks())
	}
	if !reflect.DeepEqual(reloaded.Filters(), b.Filters()) {
		t.Fatalf("filters differ after reload:\n%#v\n%#v", reloaded.Filters(), b.Filters())
	}

	var raw []map[string]any
	if err := json.Unmarshal([]byte(st.items[TasksKey]), &raw); err != nil {
		t.Fatalf("tasks entry is not a JSON array: %v", err)
	}
	for _, field := range []string{"id", "text", "time", "date", "category", "color", "completed"} {
		if _, ok := raw[0][field]; !ok {
			t.Fatalf("stored task is missing %q", field)
		}
	}
}

func TestReloadKeepsSessionState(t *testing.T) {
	st := newMapStorage()
	b := Load(st, testOptions())
	b.ToggleFilter("Work")
	b.SelectFilterByName("Freelance")

	other := Load(st, testOptions())
	other.SetNewTaskText("from elsewhere")
	other.AddTask()

	b.Reload()
	if len(b.Tasks()) != 1 {
		t.Fatalf("expected reloaded task")
	}
	if !b.IsActive("Work") || b.SelectedFilter().Name != "Freelance" {
		t.Fatalf("session state lost on reload")
	}
}

func TestSaveErrorIsRecorded(t *testing.T) {
	st := newMapStorage()
	b := Load(st, testOptions())
	st.err = errors.New("disk full")
	b.SetNewTaskText("lost")
	if _, ok := b.AddTask(); !ok {
		t.Fatalf("the in-memory change still happens")
	}
	if !errors.Is(b.SaveErr(), st.err) {
		t.Fatalf("expected save error, got %v", b.SaveErr())
	}
}

func TestSaveErrorClearsAfterNextSave(t *testing.T) {
	st := newMapStorage()
	b := Load(st, testOptions())
	st.err = errors.New("disk full")
	b.SetNewTaskText("first")
	b.AddTask()
	st.err = nil
	b.SetNewTaskText("second")
	b.AddTask()
	if err := b.SaveErr(); err != nil {
		t.Fatalf("expected save error cleared, got %v", err)
	}
	var tasks []Task
	if err := json.Unmarshal([]byte(st.items[TasksKey]), &tasks); err != nil || len(tasks) != 2 {
		t.Fatalf("expected both tasks persisted, got %v (%v)", tasks, err)
	}
}
