package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) newTablesCommand() *cobra.Command {
	var columns bool
	cmd := &cobra.Command{
		Use:   "tables",
		Short: "List the tables of the schema and their row counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.load(cmd)
			if err != nil {
				return err
			}
			gen := newGenerator(cfg)
			out := cmd.OutOrStdout()
			for _, name := range cfg.SelectedTables() {
				t, err := gen.Schema().Table(name)
				if err != nil {
					return err
				}
				n, err := gen.RowCount(name, cfg.Scale)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%-24s %10d rows %3d columns\n", t.Name, n, len(t.Columns))
				if !columns {
					continue
				}
				for _, col := range t.Columns {
					null := ""
					if col.NotNull {
						null = " not null"
					}
					fmt.Fprintf(out, "  %3d %-28s %s%s\n", col.GlobalNumber, col.Name, col.Type, null)
				}
			}
			return nil
		},
	}
	cmd.Flags().Float64P("scale", "s", 1, "Scale factor")
	cmd.Flags().StringSliceP("tables", "t", nil, "Tables to list (default all)")
	cmd.Flags().BoolVar(&columns, "columns", false, "List the columns of each table")
	return cmd
}
