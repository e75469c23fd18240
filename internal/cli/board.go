package cli

import (
	"github.com/spf13/cobra"

	"github.com/amirbrooks/doit/internal/tui"
)

func (a *app) boardCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "board",
		Aliases: []string{"ui"},
		Short:   "Open the interactive board",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.loadBoard("board")
			if err != nil {
				return err
			}
			if err := tui.Run(cmd.Context(), b, a.st, a.log); err != nil {
				return internalErr("board", err)
			}
			return nil
		},
	}
}
