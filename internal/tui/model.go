// Package tui is the interactive board: a filter sidebar, the new-task bar
// with filter swatches, the date-grouped list and the two modals.
package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/amirbrooks/doit/internal/board"
)

type focusPane int

const (
	focusInput focusPane = iota
	focusList
	focusSidebar
)

// storeChangedMsg reports that another process rewrote a store key.
type storeChangedMsg struct{ key string }

type Model struct {
	b    *board.Board
	log  logrus.FieldLogger
	keys keyMap
	help help.Model

	input       textinput.Model
	editInput   textinput.Model
	filterInput textinput.Model

	focus         focusPane
	cursor        int
	sidebarCursor int

	status    string
	statusErr bool

	width  int
	height int

	copy func(string) error
}

func New(b *board.Board, log logrus.FieldLogger) *Model {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	input := textinput.New()
	input.Placeholder = "What is your main focus for today?"
	input.Prompt = "+ "
	input.CharLimit = 280
	input.SetValue(b.NewTaskText())
	input.Focus()

	edit := textinput.New()
	edit.Prompt = ""
	edit.CharLimit = 280

	filter := textinput.New()
	filter.Placeholder = "Filter name"
	filter.Prompt = ""
	filter.CharLimit = 40

	return &Model{
		b:           b,
		log:         log,
		keys:        defaultKeys(),
		help:        help.New(),
		input:       input,
		editInput:   edit,
		filterInput: filter,
		focus:       focusInput,
		copy:        clipboard.WriteAll,
	}
}

func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case storeChangedMsg:
		m.b.Reload()
		m.clampCursors()
		m.log.WithField("key", msg.key).Debug("store changed on disk, reloaded")
		m.setStatus(fmt.Sprintf("Reloaded %s", msg.key), false)
		return m, nil
	case tea.KeyMsg:
		switch {
		case m.b.EditModalOpen():
			return m.updateEditModal(msg)
		case m.b.NewFilterModalOpen():
			return m.updateFilterModal(msg)
		case m.focus == focusInput:
			return m.updateInput(msg)
		default:
			return m.updateNormal(msg)
		}
	}
	return m, nil
}

func (m *Model) updateEditModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	case key.Matches(msg, m.keys.Cancel):
		m.b.CancelEditing()
		m.editInput.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		m.b.SetEditingText(m.editInput.Value())
		if m.b.UpdateTask() {
			m.setStatus("Task updated", false)
		} else {
			m.setStatus("Task no longer exists", true)
		}
		m.editInput.Blur()
		m.afterChange()
		return m, nil
	}
	var cmd tea.Cmd
	m.editInput, cmd = m.editInput.Update(msg)
	m.b.SetEditingText(m.editInput.Value())
	return m, cmd
}

func (m *Model) updateFilterModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	case key.Matches(msg, m.keys.Cancel):
		m.b.CloseNewFilterModal()
		m.filterInput.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		m.b.SetNewFilterName(m.filterInput.Value())
		f, ok := m.b.AddNewFilter()
		if !ok {
			m.setStatus("Filter name is required", true)
			return m, nil
		}
		m.filterInput.Reset()
		m.filterInput.Blur()
		m.setStatus(fmt.Sprintf("Created filter %s", f.Name), false)
		m.afterChange()
		return m, nil
	}
	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	m.b.SetNewFilterName(m.filterInput.Value())
	return m, cmd
}

func (m *Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	case key.Matches(msg, m.keys.Focus):
		m.nextFocus()
		return m, nil
	case key.Matches(msg, m.keys.Cancel):
		m.setFocus(focusList)
		return m, nil
	case key.Matches(msg, m.keys.Add):
		m.b.SetNewTaskText(m.input.Value())
		if t, ok := m.b.AddTask(); ok {
			m.setStatus(fmt.Sprintf("Added to %s", t.Category), false)
			m.afterChange()
		}
		m.input.SetValue(m.b.NewTaskText())
		return m, nil
	case msg.Type == tea.KeyCtrlF:
		m.cycleSelected(1)
		return m, nil
	case msg.Type == tea.KeyCtrlB:
		m.cycleSelected(-1)
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.b.SetNewTaskText(m.input.Value())
	return m, cmd
}

func (m *Model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Focus):
		m.nextFocus()
	case key.Matches(msg, m.keys.Write):
		m.setFocus(focusInput)
	case key.Matches(msg, m.keys.Up):
		m.move(-1)
	case key.Matches(msg, m.keys.Down):
		m.move(1)
	case key.Matches(msg, m.keys.Toggle), m.focus == focusSidebar && key.Matches(msg, m.keys.Add):
		if m.focus == focusSidebar {
			m.toggleActiveAt(m.sidebarCursor)
			break
		}
		if t, ok := m.current(); ok {
			m.b.ToggleTaskCompletion(t.ID)
			m.afterChange()
		}
	case key.Matches(msg, m.keys.Edit):
		if t, ok := m.current(); ok {
			m.b.StartEditingTask(t)
			m.editInput.SetValue(t.Text)
			m.editInput.CursorEnd()
			return m, m.editInput.Focus()
		}
	case key.Matches(msg, m.keys.Delete):
		if t, ok := m.current(); ok {
			m.b.DeleteTask(t.ID)
			m.setStatus("Task deleted", false)
			m.afterChange()
		}
	case key.Matches(msg, m.keys.Active):
		m.toggleActiveAt(int(msg.String()[0] - '1'))
	case key.Matches(msg, m.keys.NextColor):
		m.cycleSelected(1)
	case key.Matches(msg, m.keys.PrevColor):
		m.cycleSelected(-1)
	case key.Matches(msg, m.keys.NewFilter):
		m.b.OpenNewFilterModal()
		m.filterInput.SetValue(m.b.NewFilterName())
		return m, m.filterInput.Focus()
	case key.Matches(msg, m.keys.Sidebar):
		m.b.ToggleSidebar()
		if !m.b.SidebarOpen() && m.focus == focusSidebar {
			m.setFocus(focusList)
		}
	case key.Matches(msg, m.keys.Copy):
		m.copyVisible()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
}

// afterChange surfaces a failed store write and keeps the cursors in range.
func (m *Model) afterChange() {
	if err := m.b.SaveErr(); err != nil {
		m.setStatus("Save failed: "+err.Error(), true)
	}
	m.clampCursors()
}

func (m *Model) setFocus(f focusPane) {
	m.focus = f
	if f == focusInput {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
}

func (m *Model) nextFocus() {
	next := (m.focus + 1) % 3
	if next == focusSidebar && !m.b.SidebarOpen() {
		next = focusInput
	}
	m.setFocus(next)
}

// rows flattens the visible groups in display order.
func (m *Model) rows() []board.Task {
	var out []board.Task
	for _, g := range m.b.GroupByDate() {
		out = append(out, g.Tasks...)
	}
	return out
}

func (m *Model) current() (board.Task, bool) {
	if m.focus != focusList {
		return board.Task{}, false
	}
	rows := m.rows()
	if m.cursor < 0 || m.cursor >= len(rows) {
		return board.Task{}, false
	}
	return rows[m.cursor], true
}

func (m *Model) move(delta int) {
	if m.focus == focusSidebar {
		m.sidebarCursor += delta
	} else {
		m.cursor += delta
	}
	m.clampCursors()
}

func (m *Model) clampCursors() {
	m.cursor = clamp(m.cursor, len(m.rows()))
	m.sidebarCursor = clamp(m.sidebarCursor, len(m.b.Filters()))
}

func clamp(i, n int) int {
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

func (m *Model) toggleActiveAt(i int) {
	filters := m.b.Filters()
	if i < 0 || i >= len(filters) {
		return
	}
	m.b.ToggleFilter(filters[i].Name)
	m.clampCursors()
}

func (m *Model) cycleSelected(delta int) {
	filters := m.b.Filters()
	if len(filters) == 0 {
		return
	}
	sel := m.b.SelectedFilter()
	i := -1
	for j, f := range filters {
		if f == sel {
			i = j
			break
		}
	}
	if i < 0 {
		m.b.SelectFilter(filters[0])
		return
	}
	i = (i + delta + len(filters)) % len(filters)
	m.b.SelectFilter(filters[i])
}

func (m *Model) copyVisible() {
	var sb strings.Builder
	for _, g := range m.b.GroupByDate() {
		sb.WriteString(g.Heading)
		sb.WriteByte('\n')
		for _, t := range g.Tasks {
			mark := "[ ]"
			if t.Completed {
				mark = "[x]"
			}
			fmt.Fprintf(&sb, "%s %s (%s, %s)\n", mark, t.Text, t.Category, t.Time)
		}
	}
	if sb.Len() == 0 {
		m.setStatus("Nothing to copy", false)
		return
	}
	if err := m.copy(sb.String()); err != nil {
		m.log.WithError(err).Debug("clipboard write failed")
		m.setStatus("Copy failed: "+err.Error(), true)
		return
	}
	m.setStatus("Copied visible tasks", false)
}
