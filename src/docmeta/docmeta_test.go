package docmeta

import (
	"slices"
	"strings"
	"testing"
)

func TestExtract_FullMetaBlock(t *testing.T) {
	content := `import { getCustomStaticPath } from '@/utils/getCustomStaticPath';

export const meta = {
  title: 'Set up Amplify',
  description: "Get started with the library",
  platforms: [
    'react',
    'vue',
    'commodore64'
  ]
};

# Heading

Body text.
`

	m, cleaned := Extract(content)

	if m.Title != "Set up Amplify" {
		t.Errorf("title = %q", m.Title)
	}
	if m.Description != "Get started with the library" {
		t.Errorf("description = %q", m.Description)
	}
	// Unknown tags are dropped.
	if want := []string{"react", "vue"}; !slices.Equal(m.Platforms, want) {
		t.Errorf("platforms = %v, want %v", m.Platforms, want)
	}

	if strings.Contains(cleaned, "export const meta") {
		t.Errorf("meta export not removed:\n%s", cleaned)
	}
	if !strings.Contains(cleaned, "# Heading") {
		t.Errorf("body lost:\n%s", cleaned)
	}
}

func TestExtract_NoMetaBlock(t *testing.T) {
	content := "# Just a heading\n\nNo meta here.\n"
	m, cleaned := Extract(content)

	if m.Title != "" || m.Description != "" || len(m.Platforms) != 0 {
		t.Errorf("meta = %+v, want zero", m)
	}
	if cleaned != content {
		t.Errorf("content changed: %q", cleaned)
	}
}

func TestExtract_NestedBraces(t *testing.T) {
	content := "export const meta = {\n  title: 'Page',\n  extra: { nested: { deep: true } }\n};\nBody\n"
	m, cleaned := Extract(content)

	if m.Title != "Page" {
		t.Errorf("title = %q", m.Title)
	}
	if strings.Contains(cleaned, "nested") {
		t.Errorf("nested braces not consumed:\n%s", cleaned)
	}
	if !strings.Contains(cleaned, "Body") {
		t.Errorf("body lost:\n%s", cleaned)
	}
}

func TestExtract_UnterminatedBrace(t *testing.T) {
	content := "export const meta = {\n  title: 'Broken'\nBody\n"
	m, cleaned := Extract(content)

	if m.Title != "" {
		t.Errorf("title = %q, want empty for unterminated block", m.Title)
	}
	if cleaned != content {
		t.Errorf("content changed for unterminated block")
	}
}

func TestExtractStringArray(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"single quotes", "['react', 'vue']", []string{"react", "vue"}},
		{"double quotes", `["react", "nextjs"]`, []string{"react", "nextjs"}},
		{"multiline", "[\n  'android',\n  'swift'\n]", []string{"android", "swift"}},
		{"empty", "[]", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractStringArray(tt.raw); !slices.Equal(got, tt.want) {
				t.Errorf("ExtractStringArray(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestPlatformsFrom(t *testing.T) {
	tests := []struct {
		name   string
		meta   map[string]any
		want   []string
		wantOK bool
	}{
		{"missing key", map[string]any{"title": "x"}, nil, false},
		{"string slice", map[string]any{"platforms": []string{"react", "vue"}}, []string{"react", "vue"}, true},
		{"any slice", map[string]any{"platforms": []any{"android"}}, []string{"android"}, true},
		{"wrong element type", map[string]any{"platforms": []any{"react", 7}}, nil, false},
		{"wrong shape", map[string]any{"platforms": "react"}, nil, false},
		{"empty list", map[string]any{"platforms": []any{}}, []string{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := PlatformsFrom(tt.meta)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("platforms = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsPlatform(t *testing.T) {
	if !IsPlatform("react-native") {
		t.Error("react-native should be a known platform")
	}
	if IsPlatform("cobol") {
		t.Error("cobol should not be a known platform")
	}
}
