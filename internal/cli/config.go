package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/amirbrooks/doit/internal/config"
)

func (a *app) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change settings in <root>/config.yaml",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.gf.JSON {
				return a.printJSON(a.cfg)
			}
			if a.gf.Plain {
				for _, k := range config.Keys {
					v, _ := a.cfg.Get(k)
					fmt.Fprintf(a.stdout, "%s\t%s\n", k, v)
				}
				return nil
			}
			w := tabwriter.NewWriter(a.stdout, 2, 4, 2, ' ', 0)
			for _, k := range config.Keys {
				v, _ := a.cfg.Get(k)
				if v == "" {
					v = "-"
				}
				fmt.Fprintf(w, "%s\t%s\n", k, v)
			}
			return w.Flush()
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set one setting",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Set(a.gf.Root, args[0], args[1])
			if err != nil {
				if errors.Is(err, config.ErrUnknownKey) || errors.Is(err, config.ErrInvalidValue) {
					return usageErr("config set", err)
				}
				return internalErr("config set", err)
			}
			if a.gf.JSON {
				return a.printJSON(cfg)
			}
			a.info("Set %s\n", args[0])
			return nil
		},
	})
	return cmd
}
