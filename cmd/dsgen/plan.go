package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TFMV/dsgen/pkg/parallel"
)

type planEntry struct {
	Table string `json:"table"`
	Chunk int    `json:"chunk"`
	parallel.ChunkBoundaries
	Rows int64 `json:"rows"`
}

func (a *app) newPlanCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Print the chunk boundaries of each table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.load(cmd)
			if err != nil {
				return err
			}
			gen := newGenerator(cfg)

			var entries []planEntry
			for _, table := range cfg.SelectedTables() {
				for chunk := 1; chunk <= cfg.Parallelism; chunk++ {
					b, err := gen.ChunkRows(table, cfg.Scale, cfg.Parallelism, chunk)
					if err != nil {
						return err
					}
					entries = append(entries, planEntry{Table: table, Chunk: chunk, ChunkBoundaries: b, Rows: b.Len()})
				}
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}
			fmt.Fprintf(out, "%-24s %6s %12s %12s %10s\n", "TABLE", "CHUNK", "FIRST", "LAST", "ROWS")
			for _, e := range entries {
				if e.Empty() {
					fmt.Fprintf(out, "%-24s %6d %12s %12s %10d\n", e.Table, e.Chunk, "-", "-", 0)
					continue
				}
				fmt.Fprintf(out, "%-24s %6d %12d %12d %10d\n", e.Table, e.Chunk, e.FirstRow, e.LastRow, e.Rows)
			}
			return nil
		},
	}
	addScaleFlags(cmd.Flags())
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the plan as JSON")
	return cmd
}
