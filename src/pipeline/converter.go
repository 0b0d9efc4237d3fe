package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/mattstanbrell/amped/src/config"
	"github.com/mattstanbrell/amped/src/docmeta"
	"github.com/mattstanbrell/amped/src/mdx"
	"github.com/mattstanbrell/amped/src/sanitize"
)

// Doc is one converted document.
type Doc struct {
	Meta     docmeta.Meta
	Markdown string
	Audit    []string // imports kept because no removal rule matched
	Media    []mdx.Media
}

// TreeReport summarizes one platform's tree conversion.
type TreeReport struct {
	Platform string
	Files    int
	Skipped  int
	Failed   int
	Audit    map[string][]string // source path -> kept imports
}

// DocInfo identifies one convertible document in the source tree.
type DocInfo struct {
	Path  string // output-relative path, [platform] elements collapsed
	Title string
}

// Converter runs the transform chain over documents and trees. Rule
// sets are compiled once at construction; a malformed removal pattern
// is a startup error.
type Converter struct {
	cfg   *config.Config
	rules map[string]*sanitize.RuleSet
	audit map[string]bool
	skip  *ignore.GitIgnore
	log   *slog.Logger
}

// New compiles the per-platform rule sets and skip matcher.
func New(cfg *config.Config, log *slog.Logger) (*Converter, error) {
	rules := make(map[string]*sanitize.RuleSet, len(docmeta.Platforms))
	audit := make(map[string]bool, len(docmeta.Platforms))

	for _, platform := range docmeta.Platforms {
		merged := config.Merge(&cfg.Sanitize, cfg.Overrides[platform])
		rs, err := sanitize.NewRuleSet(deref(merged.DisableBuiltinRules), merged.CustomRemovalPatterns)
		if err != nil {
			return nil, fmt.Errorf("removal rules for %s: %w", platform, err)
		}
		rules[platform] = rs
		audit[platform] = merged.AuditImports == nil || *merged.AuditImports
	}

	return &Converter{
		cfg:   cfg,
		rules: rules,
		audit: audit,
		skip:  ignore.CompileIgnoreLines(cfg.Source.SkipPatterns...),
		log:   log.With("area", "convert"),
	}, nil
}

// ConvertFile converts one MDX document for one platform. The
// transform order matches the site tooling: schema embedding and meta
// extraction run before the platform-dependent passes, and the import
// sanitizer runs last over the assembled prose.
func (c *Converter) ConvertFile(path, platform string) (*Doc, error) {
	rs, ok := c.rules[platform]
	if !ok {
		return nil, fmt.Errorf("unknown platform %q", platform)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	root := WorkspaceRoot(path)

	content := mdx.EmbedSchema(string(data), path)
	content = mdx.RemoveFrameworkImports(content)
	content = mdx.RemoveStaticExports(content)

	meta, content := docmeta.Extract(content)

	content = mdx.ProcessInlineFilters(content, platform)
	content = mdx.EmbedRedactionMessages(content)
	content = mdx.ConvertTables(content)
	content = mdx.ConvertCards(content)
	content = mdx.RemoveOverview(content)
	content = mdx.RemoveJSXComments(content)
	content = mdx.InlineFragments(content, path, platform, root)

	res := rs.SanitizeDocument(content)

	if c.audit[platform] && len(res.Audit) > 0 {
		c.log.Warn("unfiltered imports kept", "file", path, "imports", res.Audit)
	}

	// Frontmatter already carries its separating blank line.
	markdown := docmeta.Frontmatter(meta) + strings.TrimLeft(res.Content, "\n")
	markdown = strings.TrimRight(markdown, "\n \t") + "\n"

	return &Doc{
		Meta:     meta,
		Markdown: markdown,
		Audit:    res.Audit,
		Media:    mdx.MediaPaths(res.Content),
	}, nil
}

// ConvertTree converts every document under src/pages/[platform] for
// one platform, writing index.md files under the output root. A
// document that fails to convert is logged and counted, not fatal.
func (c *Converter) ConvertTree(ctx context.Context, platform string) (*TreeReport, error) {
	srcDir := filepath.Join(c.cfg.Source.Root, "src", "pages", "[platform]")
	if _, err := os.Stat(srcDir); err != nil {
		return nil, fmt.Errorf("source tree: %w", err)
	}

	report := &TreeReport{Platform: platform, Audit: make(map[string][]string)}
	outDir := filepath.Join(c.cfg.Output.Root, platform)

	if err := c.convertDir(ctx, srcDir, outDir, platform, report); err != nil {
		return nil, err
	}
	return report, nil
}

// ConvertAll converts every configured platform.
func (c *Converter) ConvertAll(ctx context.Context) (map[string]*TreeReport, error) {
	reports := make(map[string]*TreeReport, len(c.cfg.Sanitize.Platforms))
	for _, platform := range c.cfg.Sanitize.Platforms {
		c.log.Info("converting platform", "platform", platform)
		report, err := c.ConvertTree(ctx, platform)
		if err != nil {
			return reports, fmt.Errorf("platform %s: %w", platform, err)
		}
		reports[platform] = report
	}
	return reports, nil
}

func (c *Converter) convertDir(ctx context.Context, inDir, outDir, platform string, report *TreeReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if c.skipDir(inDir) {
		report.Skipped++
		return nil
	}

	index := filepath.Join(inDir, "index.mdx")
	if content, err := os.ReadFile(index); err == nil {
		if !c.pageApplies(content, platform) {
			// The whole subtree targets other platforms.
			report.Skipped++
			return nil
		}

		doc, err := c.ConvertFile(index, platform)
		if err != nil {
			c.log.Error("conversion failed", "file", index, "error", err)
			report.Failed++
		} else {
			if err := writeDoc(filepath.Join(outDir, "index.md"), doc.Markdown); err != nil {
				return err
			}
			report.Files++
			if len(doc.Audit) > 0 {
				report.Audit[index] = doc.Audit
			}
		}
	}

	entries, err := os.ReadDir(inDir)
	if err != nil {
		return fmt.Errorf("reading %s: %w", inDir, err)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		outSub := outDir
		if entry.Name() != "[platform]" {
			outSub = filepath.Join(outDir, entry.Name())
		}
		if err := c.convertDir(ctx, filepath.Join(inDir, entry.Name()), outSub, platform, report); err != nil {
			return err
		}
	}
	return nil
}

// ConvertSingle converts one document addressed the way the CLI
// accepts it: as given, relative to the converted output tree, or
// relative to the source pages tree. The markdown lands next to the
// source with a .md suffix.
func (c *Converter) ConvertSingle(path, platform string) (*Doc, string, error) {
	candidates := []string{
		path,
		filepath.Join(c.cfg.Output.Root, platform, path),
		filepath.Join(c.cfg.Source.Root, "src", "pages", "[platform]", path),
	}

	var resolved string
	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			resolved = candidate
			break
		}
	}
	if resolved == "" {
		return nil, "", fmt.Errorf("document not found: %s (tried %s)", path, strings.Join(candidates, ", "))
	}

	doc, err := c.ConvertFile(resolved, platform)
	if err != nil {
		return nil, "", err
	}

	outPath := strings.TrimSuffix(resolved, filepath.Ext(resolved)) + ".md"
	if err := writeDoc(outPath, doc.Markdown); err != nil {
		return nil, "", err
	}
	return doc, outPath, nil
}

// ReadDoc converts the document addressed by its output-relative path
// (as reported by ListDocs) without writing anything.
func (c *Converter) ReadDoc(relPath, platform string) (*Doc, error) {
	if strings.Contains(relPath, "..") {
		return nil, fmt.Errorf("invalid document path: %s", relPath)
	}

	rel := strings.TrimSuffix(relPath, ".md")
	rel = strings.TrimSuffix(rel, "index")
	rel = strings.Trim(rel, "/")

	src := filepath.Join(c.cfg.Source.Root, "src", "pages", "[platform]", rel, "index.mdx")
	if info, err := os.Stat(src); err != nil || info.IsDir() {
		return nil, fmt.Errorf("document not found: %s", relPath)
	}
	return c.ConvertFile(src, platform)
}

// ListDocs walks the source tree and reports the documents that apply
// to the platform, with their titles and output-relative paths.
func (c *Converter) ListDocs(platform string) ([]DocInfo, error) {
	srcDir := filepath.Join(c.cfg.Source.Root, "src", "pages", "[platform]")
	if _, err := os.Stat(srcDir); err != nil {
		return nil, fmt.Errorf("source tree: %w", err)
	}

	var docs []DocInfo
	if err := c.listDir(srcDir, "", platform, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (c *Converter) listDir(inDir, relOut, platform string, docs *[]DocInfo) error {
	if c.skipDir(inDir) {
		return nil
	}

	index := filepath.Join(inDir, "index.mdx")
	if content, err := os.ReadFile(index); err == nil {
		if !c.pageApplies(content, platform) {
			return nil
		}
		meta, _ := docmeta.Extract(string(content))
		*docs = append(*docs, DocInfo{
			Path:  filepath.Join(relOut, "index.md"),
			Title: meta.Title,
		})
	}

	entries, err := os.ReadDir(inDir)
	if err != nil {
		return fmt.Errorf("reading %s: %w", inDir, err)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		relSub := relOut
		if entry.Name() != "[platform]" {
			relSub = filepath.Join(relOut, entry.Name())
		}
		if err := c.listDir(filepath.Join(inDir, entry.Name()), relSub, platform, docs); err != nil {
			return err
		}
	}
	return nil
}

// skipDir applies the gitignore-style skip patterns to a directory's
// source-root-relative path.
func (c *Converter) skipDir(dir string) bool {
	rel, err := filepath.Rel(c.cfg.Source.Root, dir)
	if err != nil {
		return false
	}
	return c.skip.MatchesPath(rel + "/")
}

// pageApplies reports whether a page's declared platforms include the
// one being converted. Pages that declare none apply everywhere.
func (c *Converter) pageApplies(content []byte, platform string) bool {
	meta, _ := docmeta.Extract(string(content))
	return len(meta.Platforms) == 0 || slices.Contains(meta.Platforms, platform)
}

func deref(b *bool) bool {
	if b == nil {
		return false
	}
	return *b
}

func writeDoc(path, markdown string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(markdown), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
