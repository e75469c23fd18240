package board

import "time"

// DateGroup is one heading of the rendered list.
type DateGroup struct {
	Date    string `json:"date" yaml:"date"`
	Heading string `json:"heading" yaml:"heading"`
	Tasks   []Task `json:"tasks" yaml:"tasks"`
}

// VisibleTasks returns every task when no filter is active, otherwise the
// tasks whose category matches any active filter.
func (b *Board) VisibleTasks() []Task {
	if len(b.active) == 0 {
		return b.Tasks()
	}
	var out []Task
	for _, t := range b.tasks {
		if b.IsActive(t.Category) {
			out = append(out, t)
		}
	}
	return out
}

// GroupByDate groups the visible tasks by their date. Groups appear in the
// order their first task appears, not in calendar order.
func (b *Board) GroupByDate() []DateGroup {
	return GroupTasks(b.VisibleTasks())
}

// GroupTasks groups tasks by date in first-encounter order.
func GroupTasks(tasks []Task) []DateGroup {
	var groups []DateGroup
	index := map[string]int{}
	for _, t := range tasks {
		i, ok := index[t.Date]
		if !ok {
			i = len(groups)
			index[t.Date] = i
			groups = append(groups, DateGroup{Date: t.Date, Heading: FormatDate(t.Date)})
		}
		groups[i].Tasks = append(groups[i].Tasks, t)
	}
	return groups
}

// FormatDate renders an ISO date as "Jan 2, 2006". Anything else is
// returned unchanged.
func FormatDate(date string) string {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return date
	}
	return d.Format(HeadingLayout)
}
