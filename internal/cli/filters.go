package cli

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func (a *app) filterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Manage filters (task categories)",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   `add "<name>"`,
		Short: "Add a filter with a random color",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.loadBoard("filter add")
			if err != nil {
				return err
			}
			b.OpenNewFilterModal()
			b.SetNewFilterName(strings.Join(args, " "))
			f, ok := b.AddNewFilter()
			if !ok {
				return usageErr("filter add", errors.New("filter name is required"))
			}
			if err := a.saved("filter add"); err != nil {
				return err
			}
			if a.gf.JSON {
				return a.printJSON(map[string]any{"filter": f})
			}
			fmt.Fprintf(a.stdout, "Created filter %s (%s)\n", f.Name, f.Color)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List filters",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.loadBoard("filter ls")
			if err != nil {
				return err
			}
			filters := b.Filters()
			counts := map[string]int{}
			for _, t := range b.Tasks() {
				counts[t.Category]++
			}
			if a.gf.JSON {
				return a.printJSON(map[string]any{"filters": filters})
			}
			if a.gf.Plain {
				fmt.Fprintln(a.stdout, "NAME\tCOLOR\tTASKS")
				for _, f := range filters {
					fmt.Fprintf(a.stdout, "%s\t%s\t%d\n", f.Name, f.Color, counts[f.Name])
				}
				return nil
			}
			w := tabwriter.NewWriter(a.stdout, 2, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tCOLOR\tTASKS")
			for _, f := range filters {
				fmt.Fprintf(w, "%s\t%s\t%d\n", f.Name, f.Color, counts[f.Name])
			}
			_ = w.Flush()
			return nil
		},
	})
	return cmd
}
