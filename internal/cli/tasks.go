package cli

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/amirbrooks/doit/internal/board"
)

func (a *app) addCmd() *cobra.Command {
	var filter string
	cmd := &cobra.Command{
		Use:   `add "<text>"`,
		Short: "Add a task for today",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.loadBoard("add")
			if err != nil {
				return err
			}
			if strings.TrimSpace(filter) != "" && !b.SelectFilterByName(strings.TrimSpace(filter)) {
				return notFound("add", fmt.Sprintf("unknown filter %q", filter))
			}
			b.SetNewTaskText(strings.Join(args, " "))
			task, ok := b.AddTask()
			if !ok {
				return usageErr("add", errors.New("task text is required"))
			}
			if err := a.saved("add"); err != nil {
				return err
			}
			if a.gf.JSON {
				return a.printJSON(map[string]any{"task": task})
			}
			fmt.Fprintf(a.stdout, "%d [%s] %s\n", task.ID, task.Category, task.Text)
			return nil
		},
	}
	cmd.Flags().StringVarP(&filter, "filter", "f", "", "Filter to stamp onto the task (default: first filter)")
	return cmd
}

func (a *app) listCmd() *cobra.Command {
	var filters []string
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List tasks grouped by day",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.loadBoard("ls")
			if err != nil {
				return err
			}
			for _, f := range filters {
				if !b.IsActive(f) {
					b.ToggleFilter(f)
				}
			}
			groups := b.GroupByDate()

			if a.gf.JSON {
				return a.printJSON(map[string]any{
					"active_filters": b.ActiveFilters(),
					"groups":         groups,
				})
			}
			if a.gf.Plain {
				fmt.Fprintln(a.stdout, "ID\tDATE\tTIME\tFILTER\tDONE\tTEXT")
				for _, g := range groups {
					for _, t := range g.Tasks {
						fmt.Fprintf(a.stdout, "%d\t%s\t%s\t%s\t%t\t%s\n", t.ID, t.Date, t.Time, t.Category, t.Completed, t.Text)
					}
				}
				return nil
			}
			a.writeGroups(groups)
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&filters, "filter", "f", nil, "Only show tasks in this filter (repeatable)")
	return cmd
}

func (a *app) writeGroups(groups []board.DateGroup) {
	if len(groups) == 0 {
		fmt.Fprintln(a.stdout, "(no tasks)")
		return
	}
	for i, g := range groups {
		if i > 0 {
			fmt.Fprintln(a.stdout)
		}
		fmt.Fprintln(a.stdout, g.Heading)
		w := tabwriter.NewWriter(a.stdout, 2, 4, 2, ' ', 0)
		for _, t := range g.Tasks {
			fmt.Fprintf(w, "  %s\t%d\t%s\t%s\t%s\n", checkbox(t.Completed), t.ID, t.Time, t.Category, t.Text)
		}
		_ = w.Flush()
	}
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

func (a *app) doneCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "done <id>",
		Aliases: []string{"toggle"},
		Short:   "Toggle a task between open and completed",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("done", args[0])
			if err != nil {
				return err
			}
			b, err := a.loadBoard("done")
			if err != nil {
				return err
			}
			if !b.ToggleTaskCompletion(id) {
				return notFound("done", "not found")
			}
			if err := a.saved("done"); err != nil {
				return err
			}
			task, _ := b.Task(id)
			if a.gf.JSON {
				return a.printJSON(map[string]any{"task": task})
			}
			if task.Completed {
				a.info("Done %d\n", id)
			} else {
				a.info("Reopened %d\n", id)
			}
			return nil
		},
	}
}

func (a *app) editCmd() *cobra.Command {
	return &cobra.Command{
		Use:   `edit <id> "<text>"`,
		Short: "Replace the text of a task",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("edit", args[0])
			if err != nil {
				return err
			}
			b, err := a.loadBoard("edit")
			if err != nil {
				return err
			}
			task, ok := b.Task(id)
			if !ok {
				return notFound("edit", "not found")
			}
			b.StartEditingTask(task)
			b.SetEditingText(strings.Join(args[1:], " "))
			if !b.UpdateTask() {
				return notFound("edit", "not found")
			}
			if err := a.saved("edit"); err != nil {
				return err
			}
			task, _ = b.Task(id)
			if a.gf.JSON {
				return a.printJSON(map[string]any{"task": task})
			}
			a.info("Updated %d\n", id)
			return nil
		},
	}
}

func (a *app) removeCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("rm", args[0])
			if err != nil {
				return err
			}
			b, err := a.loadBoard("rm")
			if err != nil {
				return err
			}
			if !b.DeleteTask(id) {
				return notFound("rm", "not found")
			}
			if err := a.saved("rm"); err != nil {
				return err
			}
			if a.gf.JSON {
				return a.printJSON(map[string]any{"deleted": id})
			}
			a.info("Deleted %d\n", id)
			return nil
		},
	}
}
