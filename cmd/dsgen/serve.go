package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/TFMV/dsgen/api"
)

func (a *app) newServeCommand() *cobra.Command {
	var prefork bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve chunk plans and generated chunks over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.load(cmd)
			if err != nil {
				return err
			}
			server := api.NewServer(newGenerator(cfg), api.ServerOptions{
				Port:      strconv.Itoa(cfg.Server.Port),
				Prefork:   prefork,
				Scale:     cfg.Scale,
				AccessLog: true,
			})
			return server.Start(cmd.Context())
		},
	}
	cmd.Flags().Int("port", 8080, "Listen port")
	cmd.Flags().Float64P("scale", "s", 1, "Default scale factor")
	cmd.Flags().Int64("seed-base", 0, "Seed base of every column stream")
	cmd.Flags().BoolVar(&prefork, "prefork", false, "Use fiber prefork mode")
	return cmd
}
