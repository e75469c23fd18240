package board

import (
	"fmt"
	"strings"
)

func (b *Board) NewFilterName() string { return b.newFilterName }

func (b *Board) SetNewFilterName(s string) { b.newFilterName = s }

func (b *Board) NewFilterModalOpen() bool { return b.filterModalOpen }

func (b *Board) OpenNewFilterModal() { b.filterModalOpen = true }

func (b *Board) CloseNewFilterModal() { b.filterModalOpen = false }

// AddNewFilter appends a filter named after the new-filter input with a
// random color, then clears the input and closes the modal. A blank name
// leaves everything as it was.
func (b *Board) AddNewFilter() (Filter, bool) {
	name := strings.TrimSpace(b.newFilterName)
	if name == "" {
		return Filter{}, false
	}
	f := Filter{Name: name, Color: b.randomColor()}
	b.filters = append(b.filters, f)
	if len(b.filters) == 1 {
		b.selected = f
	}
	b.newFilterName = ""
	b.filterModalOpen = false
	b.log.WithField("filter", f.Name).Debug("filter added")
	b.changed()
	return f, true
}

func (b *Board) randomColor() string {
	n := b.randColor()
	if n < 0 {
		n = -n
	}
	return fmt.Sprintf("#%06x", n%(maxColor+1))
}

// ToggleFilter adds name to the active filter set, or removes it if present.
func (b *Board) ToggleFilter(name string) {
	for i, n := range b.active {
		if n == name {
			b.active = append(b.active[:i:i], b.active[i+1:]...)
			return
		}
	}
	b.active = append(b.active, name)
}

// ActiveFilters returns the active filter names in the order they were added.
func (b *Board) ActiveFilters() []string {
	out := make([]string, len(b.active))
	copy(out, b.active)
	return out
}

func (b *Board) IsActive(name string) bool {
	for _, n := range b.active {
		if n == name {
			return true
		}
	}
	return false
}

// SelectedFilter is the filter stamped onto the next created task.
func (b *Board) SelectedFilter() Filter { return b.selected }

func (b *Board) SelectFilter(f Filter) { b.selected = f }

// SelectFilterByName selects the first filter with the given name.
func (b *Board) SelectFilterByName(name string) bool {
	for _, f := range b.filters {
		if f.Name == name {
			b.selected = f
			return true
		}
	}
	return false
}
