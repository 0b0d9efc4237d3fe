package cli

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mattstanbrell/amped/src/docmeta"
	"github.com/mattstanbrell/amped/src/pipeline"
)

func newConvertCmd(log *slog.Logger) *cobra.Command {
	var (
		platform string
		dryRun   bool
	)

	cmd := &cobra.Command{
		Use:   "convert [file platform]",
		Short: "Convert the docs tree, or one file, into sanitized markdown",
		Long: `With no arguments, converts every configured platform's tree into the
output root. With a file and a platform, converts that one document and
writes the markdown next to it.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != 2 {
				return fmt.Errorf("expected no arguments or a file and a platform, got %d", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			conv, err := pipeline.New(cfg, log)
			if err != nil {
				return err
			}

			if len(args) == 2 {
				return convertSingle(conv, args[0], args[1], dryRun)
			}

			platforms := cfg.Sanitize.Platforms
			if platform != "" {
				if !docmeta.IsPlatform(platform) {
					return fmt.Errorf("unknown platform %q", platform)
				}
				platforms = []string{platform}
			}
			return convertTrees(cmd, conv, platforms, dryRun)
		},
	}

	cmd.Flags().StringVar(&platform, "platform", "", "convert only this platform")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "convert and report without writing output")
	return cmd
}

func convertSingle(conv *pipeline.Converter, path, platform string, dryRun bool) error {
	if !docmeta.IsPlatform(platform) {
		return fmt.Errorf("unknown platform %q", platform)
	}

	if dryRun {
		doc, err := conv.ConvertFile(path, platform)
		if err != nil {
			return err
		}
		fmt.Print(doc.Markdown)
		printAudit(path, doc.Audit)
		return nil
	}

	doc, outPath, err := conv.ConvertSingle(path, platform)
	if err != nil {
		return err
	}
	color.Green("wrote %s", outPath)
	printAudit(path, doc.Audit)
	return nil
}

func convertTrees(cmd *cobra.Command, conv *pipeline.Converter, platforms []string, dryRun bool) error {
	for _, p := range platforms {
		report, err := convertTree(cmd, conv, p, dryRun)
		if err != nil {
			return fmt.Errorf("platform %s: %w", p, err)
		}

		color.Green("%s: %d converted, %d skipped, %d failed", p, report.Files, report.Skipped, report.Failed)

		paths := make([]string, 0, len(report.Audit))
		for path := range report.Audit {
			paths = append(paths, path)
		}
		sort.Strings(paths)
		for _, path := range paths {
			printAudit(path, report.Audit[path])
		}
	}
	return nil
}

// convertTree runs one platform. A dry run converts every applicable
// document in memory and reports without touching the output root.
func convertTree(cmd *cobra.Command, conv *pipeline.Converter, platform string, dryRun bool) (*pipeline.TreeReport, error) {
	if !dryRun {
		return conv.ConvertTree(cmd.Context(), platform)
	}

	docs, err := conv.ListDocs(platform)
	if err != nil {
		return nil, err
	}

	report := &pipeline.TreeReport{Platform: platform, Audit: make(map[string][]string)}
	for _, info := range docs {
		if err := cmd.Context().Err(); err != nil {
			return nil, err
		}
		doc, err := conv.ReadDoc(info.Path, platform)
		if err != nil {
			report.Failed++
			continue
		}
		report.Files++
		if len(doc.Audit) > 0 {
			report.Audit[info.Path] = doc.Audit
		}
	}
	return report, nil
}

func printAudit(path string, imports []string) {
	for _, imp := range imports {
		color.Yellow("  audit %s: kept %s", path, imp)
	}
}
