package docmeta

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// frontmatterDoc fixes the emitted key order: title, description.
type frontmatterDoc struct {
	Title       string `yaml:"title,omitempty"`
	Description string `yaml:"description,omitempty"`
}

// Frontmatter renders a YAML frontmatter block for the converted page.
// A zero Meta yields an empty string.
func Frontmatter(m Meta) string {
	doc := frontmatterDoc{Title: m.Title, Description: m.Description}
	if doc == (frontmatterDoc{}) {
		return ""
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		// Marshalling two plain strings cannot fail.
		return ""
	}

	return "---\n" + string(data) + "---\n\n"
}

// ParseFrontmatter splits a converted document into its YAML
// frontmatter mapping and body. A document without a leading "---"
// line has no frontmatter: the mapping is nil and the body is the
// whole content.
func ParseFrontmatter(content string) (map[string]any, string, error) {
	rest, ok := strings.CutPrefix(content, "---\n")
	if !ok {
		return nil, content, nil
	}

	end := strings.Index(rest, "\n---")
	if end < 0 {
		return nil, content, nil
	}

	var meta map[string]any
	if err := yaml.Unmarshal([]byte(rest[:end]), &meta); err != nil {
		return nil, "", fmt.Errorf("parsing frontmatter: %w", err)
	}

	body := rest[end+len("\n---"):]
	body = strings.TrimPrefix(body, "\n")
	body = strings.TrimPrefix(body, "\n")

	return meta, body, nil
}
