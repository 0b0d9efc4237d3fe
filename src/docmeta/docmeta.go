// Package docmeta reads and emits per-document metadata: the
// `export const meta = {...}` block of an MDX page, the platform
// vocabulary, and the YAML frontmatter of converted markdown.
package docmeta

import (
	"regexp"
	"slices"
)

// Platforms is the canonical vocabulary of platform tags a docs page
// can target.
var Platforms = []string{
	"angular",
	"javascript",
	"nextjs",
	"react",
	"react-native",
	"vue",
	"android",
	"swift",
	"flutter",
}

// IsPlatform reports whether name is in the canonical vocabulary.
func IsPlatform(name string) bool {
	return slices.Contains(Platforms, name)
}

// Meta is the metadata of one docs page.
type Meta struct {
	Title       string
	Description string
	Platforms   []string
}

var (
	metaStart   = regexp.MustCompile(`export\s+const\s+meta\s*=\s*{`)
	titleField  = regexp.MustCompile(`["']?title["']?\s*:\s*["']([^"']*)["']`)
	descField   = regexp.MustCompile(`["']?description["']?\s*:\s*(?:"([^"]*)"|'([^']*)')`)
	platField   = regexp.MustCompile(`(?s)["']?platforms["']?\s*:\s*\[(.*?)\]`)
	quotedValue = regexp.MustCompile(`["']([^"']*)["']`)
	blankRun    = regexp.MustCompile(`\n\s*\n\s*\n`)
)

// Extract pulls title, description, and platforms out of a page's meta
// export and returns the content with the export removed and blank-line
// runs collapsed. A page without a meta block yields a zero Meta and
// the content unchanged. Platform values outside the canonical
// vocabulary are dropped.
func Extract(content string) (Meta, string) {
	loc := metaStart.FindStringIndex(content)
	if loc == nil {
		return Meta{}, content
	}

	braceStart := loc[1] - 1
	braceEnd := matchingBrace(content, braceStart)
	if braceEnd < 0 {
		return Meta{}, content
	}

	body := content[braceStart : braceEnd+1]

	var m Meta
	if t := titleField.FindStringSubmatch(body); t != nil {
		m.Title = t[1]
	}
	if d := descField.FindStringSubmatch(body); d != nil {
		if d[1] != "" {
			m.Description = d[1]
		} else {
			m.Description = d[2]
		}
	}
	if p := platField.FindStringSubmatch(body); p != nil {
		for _, tag := range ExtractStringArray(p[1]) {
			if IsPlatform(tag) {
				m.Platforms = append(m.Platforms, tag)
			}
		}
	}

	// Drop the export statement including a trailing semicolon.
	end := braceEnd + 1
	if end < len(content) && content[end] == ';' {
		end++
	}
	cleaned := content[:loc[0]] + content[end:]
	cleaned = blankRun.ReplaceAllString(cleaned, "\n\n")

	return m, cleaned
}

// ExtractStringArray pulls quoted string literals out of a serialized
// JavaScript array: "['react', 'vue']" yields ["react", "vue"].
func ExtractStringArray(raw string) []string {
	var out []string
	for _, m := range quotedValue.FindAllStringSubmatch(raw, -1) {
		out = append(out, m[1])
	}
	return out
}

// PlatformsFrom reads the platforms key from a pre-parsed metadata
// mapping. A missing key or a value that is not a list of strings both
// return (nil, false); malformed metadata is indistinguishable from
// absent metadata, never an error.
func PlatformsFrom(meta map[string]any) ([]string, bool) {
	raw, ok := meta["platforms"]
	if !ok {
		return nil, false
	}

	switch v := raw.(type) {
	case []string:
		return v, true
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}

// matchingBrace returns the index of the brace closing the one at
// start, or -1 when the text ends first.
func matchingBrace(text string, start int) int {
	depth := 0
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
