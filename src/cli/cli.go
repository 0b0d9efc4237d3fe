// Package cli wires the converter, server, and reporting commands into
// the amped binary.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/mattstanbrell/amped/src/config"
	"github.com/mattstanbrell/amped/src/serve"
)

var cfgPath string

// Execute runs the CLI and exits non-zero on failure.
func Execute(log *slog.Logger) {
	// Best-effort: local env files override nothing already set.
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load()

	root := newRootCmd(log)
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "amped: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(log *slog.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:     "amped",
		Short:   "Convert Amplify MDX docs into sanitized markdown and serve them over MCP",
		Version: serve.Version,
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "config.json", "path to the JSON config file")

	root.AddCommand(newConvertCmd(log))
	root.AddCommand(newServeCmd(log))
	root.AddCommand(newTokensCmd(log))
	root.AddCommand(newChunkCmd(log))
	return root
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
