package cli

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mattstanbrell/amped/src/docmeta"
	"github.com/mattstanbrell/amped/src/tokens"
)

func newTokensCmd(log *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "tokens <platform>",
		Short: "Report token counts for a platform's converted docs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			platform := args[0]
			if !docmeta.IsPlatform(platform) {
				return fmt.Errorf("unknown platform %q", platform)
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			enc, err := tokens.NewEncoder()
			if err != nil {
				return err
			}

			dir := filepath.Join(cfg.Output.Root, platform)
			log.Info("counting tokens", "dir", dir)

			report, err := tokens.CountTree(enc, dir)
			if err != nil {
				return err
			}

			for _, fc := range report.Files {
				fmt.Printf("%8d  %s\n", fc.Tokens, fc.Path)
			}
			color.Green("%d files, %d tokens", report.TotalFiles, report.TotalTokens)
			return nil
		},
	}
}
