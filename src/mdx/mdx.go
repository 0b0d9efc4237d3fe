// Package mdx rewrites the MDX constructs of the docs site into plain
// markdown: platform filter blocks, fragment inlining, Next.js static
// exports, embedded schemas, UI components, and JSX comments. The
// transforms are single purpose and idempotent so the converter can
// run them in a fixed order.
package mdx

import (
	"regexp"
	"strings"

	"github.com/mattstanbrell/amped/src/segment"
)

// blankRun collapses runs of blank lines down to a single blank line.
var blankRun = regexp.MustCompile(`\n\s*\n\s*\n`)

func collapseBlankLines(s string) string {
	return blankRun.ReplaceAllString(s, "\n\n")
}

// nextjsImports match the static-path helper imports that must be gone
// before meta extraction runs.
var nextjsImports = []*regexp.Regexp{
	regexp.MustCompile(`(?m)^import\s*{\s*getCustomStaticPath\s*}\s*from\s*['"]@/utils/getCustomStaticPath['"];[ \t]*\n?`),
	regexp.MustCompile(`(?m)^import\s*{\s*getChildPageNodes\s*}\s*from\s*['"]@/utils/getChildPageNodes['"];[ \t]*\n?`),
	regexp.MustCompile(`(?m)^import\s*{\s*getApiStaticPath\s*}\s*from\s*['"]@/utils/getApiStaticPath['"];[ \t]*\n?`),
}

// RemoveFrameworkImports strips the Next.js static-path helper imports.
func RemoveFrameworkImports(content string) string {
	for _, re := range nextjsImports {
		content = re.ReplaceAllString(content, "")
	}
	return content
}

var jsxComment = regexp.MustCompile(`(?s)\{/\*.*?\*/\}`)

// RemoveJSXComments drops {/* ... */} comments from prose. Comments
// inside fenced code blocks stay.
func RemoveJSXComments(content string) string {
	var b strings.Builder
	for _, seg := range segment.Split(content) {
		if seg.Code {
			b.WriteString(seg.Text)
			continue
		}
		b.WriteString(collapseBlankLines(jsxComment.ReplaceAllString(seg.Text, "")))
	}
	return b.String()
}
