package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	"github.com/TFMV/dsgen/pkg/core"
	"github.com/TFMV/dsgen/pkg/readers"
	"github.com/TFMV/dsgen/pkg/schema"
)

// chunkSuffix matches the _<chunk>_<total> part of a chunk file name.
var chunkSuffix = regexp.MustCompile(`_\d+_\d+$`)

// tableFromFileName recovers the table of a generated file name.
func tableFromFileName(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return chunkSuffix.ReplaceAllString(base, "")
}

func (a *app) newInspectCommand() *cobra.Command {
	var (
		typ    string
		table  string
		driver string
		head   int
	)
	cmd := &cobra.Command{
		Use:   "inspect FILE",
		Short: "Read a generated csv, arrow, parquet or duckdb file back",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if typ == "" {
				var err error
				if typ, err = readers.TypeFromPath(path); err != nil {
					return err
				}
			}
			if table == "" {
				table = tableFromFileName(path)
			}
			rc := core.ReaderConfig{Type: typ, Path: path, Driver: driver, Table: table}
			if t, err := schema.Default().Table(table); err == nil {
				rc.Schema = t.ArrowSchema()
			} else if typ == "duckdb" {
				return err
			}

			r, err := readers.DefaultFactory.Create(rc)
			if err != nil {
				return err
			}
			defer r.Close()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "File: %s (%s)\n", path, typ)
			if pr, ok := r.(*readers.ParquetReader); ok {
				fmt.Fprintf(out, "Row groups: %d\n", pr.NumRowGroups())
			}

			var rows, batches int64
			printed := 0
			for {
				rec, err := r.Read(cmd.Context())
				if errors.Is(err, io.EOF) {
					break
				}
				if err != nil {
					return err
				}
				batches++
				rows += rec.NumRows()
				for i := 0; i < int(rec.NumRows()) && printed < head; i++ {
					for c := 0; c < int(rec.NumCols()); c++ {
						if col := rec.Column(c); col.IsValid(i) {
							fmt.Fprint(out, col.ValueStr(i))
						}
						fmt.Fprint(out, "|")
					}
					fmt.Fprintln(out)
					printed++
				}
				rec.Release()
			}

			fmt.Fprintln(out, "Schema:")
			for i, f := range r.Schema().Fields() {
				fmt.Fprintf(out, "  %2d %-28s %s\n", i, f.Name, f.Type)
			}
			fmt.Fprintf(out, "Rows: %d in %d batch(es)\n", rows, batches)
			return nil
		},
	}
	cmd.Flags().StringVar(&typ, "type", "", "Reader type (default from the file extension)")
	cmd.Flags().StringVarP(&table, "table", "t", "", "Table of the file (default from the file name)")
	cmd.Flags().StringVar(&driver, "duckdb-driver", "", "Path to libduckdb (default auto-detected)")
	cmd.Flags().IntVarP(&head, "head", "n", 0, "Print the first N rows as .dat text")
	return cmd
}
