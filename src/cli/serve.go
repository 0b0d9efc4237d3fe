package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mattstanbrell/amped/src/config"
	"github.com/mattstanbrell/amped/src/pipeline"
	"github.com/mattstanbrell/amped/src/serve"
)

func newServeCmd(log *slog.Logger) *cobra.Command {
	var transport string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the docs over MCP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if transport != "" {
				if transport != config.TransportStdio && transport != config.TransportHTTP {
					return fmt.Errorf("unknown transport %q", transport)
				}
				cfg.Serve.Transport = transport
			}

			conv, err := pipeline.New(cfg, log)
			if err != nil {
				return err
			}
			return serve.New(cfg.Serve, conv, log).Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&transport, "transport", "", "override the configured transport (stdio or http)")
	return cmd
}
