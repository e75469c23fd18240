package board

import (
	"encoding/json"
	"io"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	DateLayout    = "2006-01-02"
	HeadingLayout = "Jan 2, 2006"
	Clock12       = "03:04 PM"
	Clock24       = "15:04"

	maxColor = 0xFFFFFF
)

// Task is a single entry on the board. Category, Color, Date and Time are
// copied from the board when the task is created and never recomputed.
type Task struct {
	ID        int64  `json:"id" yaml:"id"`
	Text      string `json:"text" yaml:"text"`
	Time      string `json:"time" yaml:"time"`
	Date      string `json:"date" yaml:"date"`
	Category  string `json:"category" yaml:"category"`
	Color     string `json:"color" yaml:"color"`
	Completed bool   `json:"completed" yaml:"completed"`
}

// Filter is a named, colored category. Names are not required to be unique.
type Filter struct {
	Name  string `json:"name" yaml:"name"`
	Color string `json:"color" yaml:"color"`
}

// DefaultFilters returns the built-in categories used when the store has none.
func DefaultFilters() []Filter {
	return []Filter{
		{Name: "Personal", Color: "red"},
		{Name: "Freelance", Color: "blue"},
		{Name: "Work", Color: "yellow"},
	}
}

// Options configures a Board. Zero values fall back to the wall clock,
// a math/rand color source, 12-hour times and a discarding logger.
type Options struct {
	Now        func() time.Time
	RandColor  func() int
	TimeLayout string
	Logger     logrus.FieldLogger
}

// Board holds the whole application state: the persisted task and filter
// collections plus the session-only UI state. It is not safe for concurrent
// use; all transitions are expected to run on one goroutine.
type Board struct {
	tasks   []Task
	filters []Filter

	active   []string
	selected Filter

	editing         *Task
	editModalOpen   bool
	filterModalOpen bool
	sidebarOpen     bool

	newTaskText   string
	newFilterName string
	currentDate   string
	lastID        int64

	now        func() time.Time
	randColor  func() int
	timeLayout string
	log        logrus.FieldLogger

	storage Storage
	saveErr error
	blocked map[string]bool
	kept    map[string][]json.RawMessage
}

// New returns a board with no tasks and the default filters. Nothing is
// persisted; use Load to attach a store.
func New(opts Options) *Board {
	b := &Board{
		tasks:       []Task{},
		sidebarOpen: true,
		now:         opts.Now,
		randColor:   opts.RandColor,
		timeLayout:  opts.TimeLayout,
		log:         opts.Logger,
	}
	if b.now == nil {
		b.now = time.Now
	}
	if b.randColor == nil {
		b.randColor = func() int { return rand.IntN(maxColor + 1) }
	}
	if b.timeLayout == "" {
		b.timeLayout = Clock12
	}
	if b.log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		b.log = l
	}
	b.currentDate = b.now().Format(DateLayout)
	b.setFilters(DefaultFilters())
	return b
}

func (b *Board) setFilters(filters []Filter) {
	b.filters = filters
	if len(filters) > 0 {
		b.selected = filters[0]
	} else {
		b.selected = Filter{}
	}
}

// setTasks installs a loaded collection. Stores written by older versions
// can hold several tasks with one id; every repeat after the first gets a
// fresh id so that id-based operations address a single task.
func (b *Board) setTasks(tasks []Task) {
	b.tasks = tasks
	b.lastID = 0
	for _, t := range tasks {
		if t.ID > b.lastID {
			b.lastID = t.ID
		}
	}
	seen := make(map[int64]bool, len(tasks))
	for i := range b.tasks {
		id := b.tasks[i].ID
		if seen[id] {
			b.lastID++
			b.tasks[i].ID = b.lastID
			b.log.WithField("id", id).WithField("new_id", b.lastID).Debug("duplicate task id reassigned")
		}
		seen[b.tasks[i].ID] = true
	}
}

// Tasks returns a copy of the task collection in insertion order.
func (b *Board) Tasks() []Task {
	out := make([]Task, len(b.tasks))
	copy(out, b.tasks)
	return out
}

// Task looks up a task by id.
func (b *Board) Task(id int64) (Task, bool) {
	i := b.indexOf(id)
	if i < 0 {
		return Task{}, false
	}
	return b.tasks[i], true
}

// Filters returns a copy of the filter collection.
func (b *Board) Filters() []Filter {
	out := make([]Filter, len(b.filters))
	copy(out, b.filters)
	return out
}

func (b *Board) CurrentDate() string { return b.currentDate }

func (b *Board) SidebarOpen() bool { return b.sidebarOpen }

func (b *Board) ToggleSidebar() { b.sidebarOpen = !b.sidebarOpen }

func (b *Board) NewTaskText() string { return b.newTaskText }

func (b *Board) SetNewTaskText(s string) { b.newTaskText = s }

// AddTask creates a task from the new-task text, stamped with the selected
// filter, today's date and the current time. Blank text is ignored.
func (b *Board) AddTask() (Task, bool) {
	text := strings.TrimSpace(b.newTaskText)
	if text == "" {
		return Task{}, false
	}
	now := b.now()
	t := Task{
		ID:        b.nextID(now),
		Text:      text,
		Time:      now.Format(b.timeLayout),
		Date:      b.currentDate,
		Category:  b.selected.Name,
		Color:     b.selected.Color,
		Completed: false,
	}
	b.tasks = append(b.tasks, t)
	b.newTaskText = ""
	b.log.WithField("id", t.ID).Debug("task added")
	b.changed()
	return t, true
}

// nextID derives ids from the clock in milliseconds, bumping past the
// largest id seen so two tasks created in the same millisecond never collide.
func (b *Board) nextID(now time.Time) int64 {
	id := now.UnixMilli()
	if id <= b.lastID {
		id = b.lastID + 1
	}
	b.lastID = id
	return id
}

// DeleteTask removes every task with the given id. Unknown ids are ignored.
func (b *Board) DeleteTask(id int64) bool {
	kept := make([]Task, 0, len(b.tasks))
	for _, t := range b.tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(b.tasks) {
		return false
	}
	b.tasks = kept
	b.log.WithField("id", id).Debug("task deleted")
	b.changed()
	return true
}

// ToggleTaskCompletion flips the completed flag of every task with the
// given id.
func (b *Board) ToggleTaskCompletion(id int64) bool {
	found := false
	for i := range b.tasks {
		if b.tasks[i].ID == id {
			b.tasks[i].Completed = !b.tasks[i].Completed
			found = true
		}
	}
	if !found {
		return false
	}
	b.changed()
	return true
}

// StartEditingTask keeps a private copy of t as the edit snapshot and opens
// the edit modal. Edits touch only the snapshot until UpdateTask.
func (b *Board) StartEditingTask(t Task) {
	snap := t
	b.editing = &snap
	b.editModalOpen = true
}

// EditingTask returns the current edit snapshot.
func (b *Board) EditingTask() (Task, bool) {
	if b.editing == nil {
		return Task{}, false
	}
	return *b.editing, true
}

func (b *Board) EditModalOpen() bool { return b.editModalOpen }

func (b *Board) SetEditingText(s string) {
	if b.editing == nil {
		return
	}
	b.editing.Text = s
}

// UpdateTask writes the edit snapshot over every task with the same id and
// closes the modal. If no such task is left nothing is written.
func (b *Board) UpdateTask() bool {
	b.editModalOpen = false
	snap := b.editing
	b.editing = nil
	if snap == nil {
		return false
	}
	found := false
	for i := range b.tasks {
		if b.tasks[i].ID == snap.ID {
			b.tasks[i] = *snap
			found = true
		}
	}
	if !found {
		return false
	}
	b.log.WithField("id", snap.ID).Debug("task updated")
	b.changed()
	return true
}

// CancelEditing closes the edit modal and drops the snapshot.
func (b *Board) CancelEditing() {
	b.editModalOpen = false
	b.editing = nil
}

func (b *Board) indexOf(id int64) int {
	for i, t := range b.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
