package main

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/dhamidi/poresolver/lsp"
	"github.com/dhamidi/poresolver/metrics"
)

func newLSPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr := settings.GetString("metrics.address"); addr != "" {
				go func() {
					if err := metrics.Serve(cmd.Context(), addr); err != nil {
						log.Errorf("metrics: %s", err)
					}
				}()
				log.Infof("metrics on http://%s/metrics", addr)
			}

			transport := settings.GetString("lsp.transport")
			address := settings.GetString("lsp.address")
			if transport != "stdio" {
				// stdout belongs to the protocol on stdio.
				pterm.Info.Printf("Listening on %s (%s)\n", address, transport)
			}

			server := lsp.NewServer(version, settings)
			return server.Run(transport, address)
		},
	}

	cmd.Flags().String("transport", "stdio", "stdio, tcp or websocket")
	cmd.Flags().String("address", "", "listen address for tcp and websocket")
	cmd.Flags().Bool("watch", true, "re-check page objects when they change on disk")
	cmd.Flags().String("metrics-addr", "", "serve Prometheus metrics on this address")

	bindFlag(cmd, "lsp.transport", "transport")
	bindFlag(cmd, "lsp.address", "address")
	bindFlag(cmd, "lsp.watch", "watch")
	bindFlag(cmd, "metrics.address", "metrics-addr")

	return cmd
}
