package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ironsheep/pagescan/internal/config"
	"github.com/ironsheep/pagescan/internal/server"
)

func newServeCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on stdin/stdout",
		Long: `Serve the page scanner over the Model Context Protocol.

Requests are read from stdin and responses written to stdout, one JSON-RPC
message per line. Logs go to stderr. Configure it in your MCP client.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(cmd, cfg)
			log.WithFields(logrus.Fields{
				"version": Version,
				"built":   BuildTime,
				"commit":  GitCommit,
			}).Debug("starting MCP server")

			srv, err := server.New(cfg, log, Version)
			if err != nil {
				return err
			}
			return srv.Serve(cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	addPipelineFlags(cmd.Flags(), cfg)
	return cmd
}
