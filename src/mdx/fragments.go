package mdx

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/mattstanbrell/amped/src/segment"
)

// maxFragmentDepth caps fragment-in-fragment recursion. The docs tree
// nests at most two or three levels; anything deeper is a cycle.
const maxFragmentDepth = 10

var (
	fragmentImport = regexp.MustCompile(`(?m)^\s*import\s+([a-zA-Z0-9_]+)\s+from\s+['"](/?[^'"]+)['"]\s*;?\s*$`)
	fragmentsTag   = regexp.MustCompile(`(?s)<Fragments\s+fragments\s*=\s*({.*?})\s*/>\s*\n?`)
	fragmentBind   = regexp.MustCompile(`['"]?([\w-]+)['"]?\s*:\s*(\w+)`)

	headingBefore = regexp.MustCompile(`([^\n])\n(#{1,6}\s+[^\n]+)`)
	headingAfter  = regexp.MustCompile(`(#{1,6}\s+[^\n]+)\n([^\n])`)

	// Only fragment imports (.mdx files) are dropped here; other
	// imports stay for the sanitizer to remove or audit.
	fragmentImportLine = regexp.MustCompile(`(?m)^\s*import\s+[a-zA-Z0-9_]+\s+from\s+['"]/?[^'"]*\.mdx['"]\s*;?\s*\n?`)
)

// InlineFragments replaces <Fragments fragments={{platform: alias}}/>
// components with the content of the platform's fragment file,
// recursively converted, and then drops the fragment import lines from
// prose. Code segments keep both the tags and the imports as written.
// A missing fragment file or a mapping without the platform inlines
// nothing.
func InlineFragments(content, docPath, platform, root string) string {
	return inlineFragments(content, docPath, platform, root, 0)
}

func inlineFragments(content, docPath, platform, root string, depth int) string {
	if depth >= maxFragmentDepth {
		return content
	}

	imports := collectFragmentImports(content, docPath, root)

	var b strings.Builder
	for _, seg := range segment.Split(content) {
		if seg.Code {
			b.WriteString(seg.Text)
			continue
		}

		text := fragmentsTag.ReplaceAllStringFunc(seg.Text, func(m string) string {
			mapping := fragmentsTag.FindStringSubmatch(m)[1]
			return resolveFragment(mapping, imports, platform, root, depth)
		})
		b.WriteString(fragmentImportLine.ReplaceAllString(text, ""))
	}

	out := collapseBlankLines(b.String())
	return strings.TrimRight(out, "\n \t") + "\n"
}

// collectFragmentImports maps import aliases to absolute fragment
// paths. Absolute and src/-rooted specifiers resolve against the
// workspace root, anything else against the document's directory.
func collectFragmentImports(content, docPath, root string) map[string]string {
	imports := make(map[string]string)
	for _, m := range fragmentImport.FindAllStringSubmatch(content, -1) {
		alias, source := m[1], m[2]
		switch {
		case strings.HasPrefix(source, "/"):
			imports[alias] = filepath.Join(root, source)
		case strings.HasPrefix(source, "src/"):
			imports[alias] = filepath.Join(root, source)
		default:
			imports[alias] = filepath.Join(filepath.Dir(docPath), source)
		}
	}
	return imports
}

func resolveFragment(mapping string, imports map[string]string, platform, root string, depth int) string {
	var path string
	for _, bind := range fragmentBind.FindAllStringSubmatch(mapping, -1) {
		if bind[1] == platform {
			path = imports[bind[2]]
			break
		}
	}
	if path == "" {
		return ""
	}

	data, err := readFragment(path)
	if err != nil {
		return ""
	}

	body := inlineFragments(data, path, platform, root, depth+1)
	body = ProcessInlineFilters(body, platform)

	// Headings need a blank line on both sides to render.
	body = headingBefore.ReplaceAllString(body, "$1\n\n$2")
	body = headingAfter.ReplaceAllString(body, "$1\n\n$2")

	return "\n\n" + strings.TrimSpace(body) + "\n\n"
}

func readFragment(path string) (string, error) {
	data, err := os.ReadFile(path)
	return string(data), err
}
