package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/TFMV/dsgen/metrics"
	"github.com/TFMV/dsgen/report"
)

func (a *app) newRunsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect the run history kept in bbolt",
	}
	cmd.PersistentFlags().String("bolt", "", "bbolt run history file")

	var limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "List recorded runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd, func(store *metrics.BoltStore) error {
				runs, err := store.List(limit)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				for _, r := range runs {
					status := "ok"
					if !r.Status.Passed {
						status = "failed"
					}
					fmt.Fprintf(out, "%s  %-8s  %-8s  scale=%g  P=%d  rows=%d  %s\n",
						r.Metadata.ID, r.Metadata.Command, status, r.Metadata.Scale,
						r.Metadata.Parallelism, r.TotalRows(), r.Metadata.StartTime.Format(time.RFC3339))
				}
				return nil
			})
		},
	}
	list.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs (0 for all)")

	show := &cobra.Command{
		Use:   "show RUN_ID",
		Short: "Print a recorded run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd, func(store *metrics.BoltStore) error {
				run, err := store.Get(args[0])
				if err != nil {
					return err
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(run)
			})
		},
	}

	var jsonPath, htmlPath string
	rep := &cobra.Command{
		Use:   "report RUN_ID",
		Short: "Render a recorded run as JSON and/or HTML files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if jsonPath == "" && htmlPath == "" {
				return errors.New("--json or --html is required")
			}
			return a.withStore(cmd, func(store *metrics.BoltStore) error {
				run, err := store.Get(args[0])
				if err != nil {
					return err
				}
				return report.SaveReports(run, jsonPath, htmlPath)
			})
		},
	}
	rep.Flags().StringVar(&jsonPath, "json", "", "JSON report file")
	rep.Flags().StringVar(&htmlPath, "html", "", "HTML report file")

	del := &cobra.Command{
		Use:   "delete RUN_ID",
		Short: "Remove a run from the history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd, func(store *metrics.BoltStore) error {
				if err := store.Delete(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
				return nil
			})
		},
	}

	cmd.AddCommand(list, show, rep, del)
	return cmd
}

func (a *app) withStore(cmd *cobra.Command, fn func(*metrics.BoltStore) error) error {
	cfg, err := a.load(cmd)
	if err != nil {
		return err
	}
	if cfg.Metrics.BoltPath == "" {
		return errors.New("no run history configured: set --bolt or metrics.bolt_path")
	}
	store, err := metrics.NewBoltStore(cfg.Metrics.BoltPath)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}
