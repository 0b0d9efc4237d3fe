package mdx

import (
	"regexp"
	"slices"
	"strings"
)

var (
	filterOpen     = regexp.MustCompile(`(?i)<InlineFilter`)
	filterClose    = regexp.MustCompile(`(?i)</InlineFilter>`)
	filterPlatform = regexp.MustCompile(`["']([a-zA-Z0-9-]+)["']`)
)

// ProcessInlineFilters resolves <InlineFilter filters={[...]}> blocks
// against the given platform: a block's body is kept when its filter
// list is empty or names the platform, and dropped otherwise. Nested
// filters resolve recursively. Tag matching is case-insensitive.
func ProcessInlineFilters(content, platform string) string {
	return strings.TrimSpace(collapseBlankLines(resolveFilters(content, platform)))
}

func resolveFilters(text, platform string) string {
	var b strings.Builder
	pos := 0

	for pos < len(text) {
		loc := filterOpen.FindStringIndex(text[pos:])
		if loc == nil {
			b.WriteString(text[pos:])
			break
		}
		start := pos + loc[0]
		b.WriteString(text[pos:start])

		tagEnd := strings.IndexByte(text[start:], '>')
		if tagEnd < 0 {
			b.WriteString(text[start:])
			break
		}
		tagEnd += start

		var platforms []string
		for _, m := range filterPlatform.FindAllStringSubmatch(text[start:tagEnd], -1) {
			platforms = append(platforms, m[1])
		}

		bodyStart := tagEnd + 1
		bodyEnd, after := matchingFilterEnd(text, bodyStart)
		if bodyEnd < 0 {
			// Unterminated filter: keep the tag as literal text.
			b.WriteString(text[start:bodyStart])
			pos = bodyStart
			continue
		}

		if len(platforms) == 0 || slices.Contains(platforms, platform) {
			b.WriteString(resolveFilters(text[bodyStart:bodyEnd], platform))
		}
		pos = after
	}

	return strings.TrimSpace(b.String())
}

// matchingFilterEnd finds the closing tag balancing the filter opened
// just before from. It returns the index where the body ends and the
// index just past the closing tag, or -1s when unbalanced.
func matchingFilterEnd(text string, from int) (bodyEnd, after int) {
	depth := 1
	pos := from

	for depth > 0 {
		openLoc := filterOpen.FindStringIndex(text[pos:])
		closeLoc := filterClose.FindStringIndex(text[pos:])
		if closeLoc == nil {
			return -1, -1
		}
		if openLoc != nil && openLoc[0] < closeLoc[0] {
			depth++
			pos += openLoc[1]
			continue
		}
		depth--
		pos += closeLoc[1]
	}

	return pos - len("</InlineFilter>"), pos
}
