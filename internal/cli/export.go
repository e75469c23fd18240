package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amirbrooks/doit/internal/export"
)

func (a *app) exportCmd() *cobra.Command {
	var (
		format  string
		out     string
		filters []string
		stdout  bool
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export tasks and filters to a file",
		Long: `Export writes a snapshot of the board to <out>/doit-<timestamp>.<format>.
json and yaml carry every task and filter; ndjson, csv, pdf and telegram carry
the visible tasks, grouped by day and narrowed by --filter.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(strings.TrimSpace(format))
			if format == "yml" {
				format = "yaml"
			}
			b, err := a.loadBoard("export")
			if err != nil {
				return err
			}
			for _, f := range filters {
				if !b.IsActive(f) {
					b.ToggleFilter(f)
				}
			}
			data, err := export.NewExporter(b).Export(format)
			if err != nil {
				if errors.Is(err, export.ErrUnknownFormat) {
					return usageErr("export", fmt.Errorf("%w (use one of %s)", err, strings.Join(export.Formats, ", ")))
				}
				return internalErr("export", err)
			}
			if stdout {
				if _, err := a.stdout.Write(data); err != nil {
					return internalErr("export", err)
				}
				return nil
			}
			dir := out
			if strings.TrimSpace(dir) == "" {
				dir = a.cfg.ExportPath(a.gf.Root)
			}
			path, err := export.WriteFile(dir, "doit", export.Ext(format), data)
			if err != nil {
				return internalErr("export", err)
			}
			a.log.WithField("path", path).WithField("format", format).Debug("export written")
			if a.gf.JSON {
				return a.printJSON(map[string]any{"path": path, "format": format})
			}
			if a.gf.Plain {
				fmt.Fprintln(a.stdout, path)
				return nil
			}
			a.info("Wrote %s to: %s\n", strings.ToUpper(format), path)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "Export format: "+strings.Join(export.Formats, "|"))
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output directory (default: config export_dir or <root>/exports)")
	cmd.Flags().StringArrayVarP(&filters, "filter", "f", nil, "Only export tasks in this filter (repeatable)")
	cmd.Flags().BoolVar(&stdout, "stdout", false, "Write to stdout instead of a file")
	return cmd
}
