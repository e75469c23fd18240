package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/amirbrooks/doit/internal/board"
)

const sidebarWidth = 24

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	headingStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	faintStyle    = lipgloss.NewStyle().Faint(true)
	doneStyle     = lipgloss.NewStyle().Strikethrough(true).Faint(true)
	cursorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	paneStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	activePane    = paneStyle.BorderForeground(lipgloss.Color("212"))
	modalStyle    = lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).Padding(1, 2).Width(48)
	swatchDefault = lipgloss.Color("250")
)

// swatch renders s in the filter's color. Named CSS colors are resolved to
// hex since terminals only understand hex or ANSI codes.
func swatch(color, s string) string {
	c := swatchDefault
	if hex, ok := board.HexColor(color); ok {
		c = lipgloss.Color(hex)
	}
	return lipgloss.NewStyle().Foreground(c).Render(s)
}

func (m *Model) View() string {
	if m.b.EditModalOpen() {
		return m.place(m.editModalView())
	}
	if m.b.NewFilterModalOpen() {
		return m.place(m.filterModalView())
	}

	main := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Today main focus  "+faintStyle.Render(board.FormatDate(m.b.CurrentDate()))),
		m.inputView(),
		"",
		m.listView(),
	)
	body := main
	if m.b.SidebarOpen() {
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.sidebarView(), " ", main)
	}

	var sb strings.Builder
	sb.WriteString(body)
	sb.WriteString("\n")
	if m.status != "" {
		if m.statusErr {
			sb.WriteString(errorStyle.Render(m.status))
		} else {
			sb.WriteString(statusStyle.Render(m.status))
		}
		sb.WriteString("\n")
	}
	sb.WriteString(m.help.View(m.keys))
	return sb.String()
}

func (m *Model) place(box string) string {
	if m.width == 0 || m.height == 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m *Model) inputView() string {
	sel := m.b.SelectedFilter()
	var swatches []string
	for _, f := range m.b.Filters() {
		dot := "○"
		if f == sel {
			dot = "●"
		}
		swatches = append(swatches, swatch(f.Color, dot))
	}
	line := m.input.View() + "  " + strings.Join(swatches, " ")
	style := paneStyle
	if m.focus == focusInput {
		style = activePane
	}
	return style.Render(line)
}

func (m *Model) sidebarView() string {
	var sb strings.Builder
	sb.WriteString(headingStyle.Render("Filters"))
	sb.WriteString("\n")
	for i, f := range m.b.Filters() {
		mark := "  "
		if m.b.IsActive(f.Name) {
			mark = "✓ "
		}
		prefix := "  "
		if m.focus == focusSidebar && i == m.sidebarCursor {
			prefix = cursorStyle.Render("> ")
		}
		num := " "
		if i < 9 {
			num = fmt.Sprint(i + 1)
		}
		fmt.Fprintf(&sb, "%s%s %s %s%s\n", prefix, faintStyle.Render(num), swatch(f.Color, "■"), mark, f.Name)
	}
	style := paneStyle.Width(sidebarWidth)
	if m.focus == focusSidebar {
		style = activePane.Width(sidebarWidth)
	}
	return style.Render(strings.TrimRight(sb.String(), "\n"))
}

func (m *Model) listView() string {
	groups := m.b.GroupByDate()
	if len(groups) == 0 {
		return faintStyle.Render("(no tasks)")
	}
	var sb strings.Builder
	row := 0
	for gi, g := range groups {
		if gi > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(headingStyle.Render(g.Heading))
		sb.WriteString("\n")
		for _, t := range g.Tasks {
			prefix := "  "
			if m.focus == focusList && row == m.cursor {
				prefix = cursorStyle.Render("> ")
			}
			box := "[ ]"
			text := t.Text
			if t.Completed {
				box = "[x]"
				text = doneStyle.Render(text)
			}
			fmt.Fprintf(&sb, "%s%s %s %s %s\n", prefix, box, text, swatch(t.Color, t.Category), faintStyle.Render(t.Time))
			row++
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (m *Model) editModalView() string {
	t, _ := m.b.EditingTask()
	return modalStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Edit task"),
		m.editInput.View(),
		"",
		swatch(t.Color, t.Category)+"  "+faintStyle.Render(t.Time),
		"",
		faintStyle.Render("enter save • esc cancel"),
	))
}

func (m *Model) filterModalView() string {
	var errLine string
	if m.statusErr {
		errLine = errorStyle.Render(m.status)
	}
	return modalStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("New filter"),
		m.filterInput.View(),
		errLine,
		faintStyle.Render("enter create • esc cancel"),
	))
}
