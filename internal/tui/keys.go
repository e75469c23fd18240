package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Focus     key.Binding
	Write     key.Binding
	Up        key.Binding
	Down      key.Binding
	Add       key.Binding
	Toggle    key.Binding
	Edit      key.Binding
	Delete    key.Binding
	Active    key.Binding
	NextColor key.Binding
	PrevColor key.Binding
	NewFilter key.Binding
	Sidebar   key.Binding
	Copy      key.Binding
	Help      key.Binding
	Quit      key.Binding
	Confirm   key.Binding
	Cancel    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Focus:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch pane")),
		Write:     key.NewBinding(key.WithKeys("a", "i"), key.WithHelp("a", "write a task")),
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Add:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "add task")),
		Toggle:    key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space/x", "done")),
		Edit:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Delete:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Active:    key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("1-9", "show filter")),
		NextColor: key.NewBinding(key.WithKeys("]", "ctrl+f"), key.WithHelp("]", "next filter")),
		PrevColor: key.NewBinding(key.WithKeys("[", "ctrl+b"), key.WithHelp("[", "prev filter")),
		NewFilter: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new filter")),
		Sidebar:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sidebar")),
		Copy:      key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy list")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Confirm:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
		Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Focus, k.Toggle, k.Edit, k.Delete, k.NewFilter, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Focus, k.Write, k.Up, k.Down, k.Add},
		{k.Toggle, k.Edit, k.Delete, k.Copy},
		{k.Active, k.NextColor, k.PrevColor, k.NewFilter, k.Sidebar},
		{k.Help, k.Quit},
	}
}
