package cli

import (
	"log/slog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mattstanbrell/amped/src/chunk"
	"github.com/mattstanbrell/amped/src/tokens"
)

func newChunkCmd(log *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "chunk <dir>",
		Short: "Propose chunk split points for converted docs under a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			enc, err := tokens.NewEncoder()
			if err != nil {
				return err
			}
			completer, err := chunk.NewAzureCompleter(cfg.Chunk)
			if err != nil {
				return err
			}

			chunker := chunk.New(cfg.Chunk, enc, completer, log)
			summary, err := chunker.ProposeTree(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			color.Green("%d files: %d proposed, %d below threshold", summary.Files, summary.Proposed, summary.Skipped)
			color.Green("tokens: %d prompt, %d completion", summary.Usage.Prompt, summary.Usage.Completion)
			return nil
		},
	}
}
