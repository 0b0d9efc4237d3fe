package sanitize

import (
	"slices"
	"strings"
	"testing"

	"github.com/mattstanbrell/amped/src/segment"
)

func mustRuleSet(t *testing.T, disableBuiltIn bool, custom []string) *RuleSet {
	t.Helper()
	rs, err := NewRuleSet(disableBuiltIn, custom)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return rs
}

func TestSanitize_RemovesStaticPathImport(t *testing.T) {
	rs := mustRuleSet(t, false, nil)

	res := rs.SanitizeDocument("import { getCustomStaticPath } from '@/utils/getCustomStaticPath';\nHello\n")
	if res.Content != "Hello\n" {
		t.Errorf("content = %q, want %q", res.Content, "Hello\n")
	}
	if len(res.Audit) != 0 {
		t.Errorf("audit = %v, want empty", res.Audit)
	}
}

func TestSanitize_CodeBlocksUntouched(t *testing.T) {
	rs := mustRuleSet(t, false, nil)

	input := "Text\n```js\nimport foo from 'bar'\n```\nMore\n"
	res := rs.SanitizeDocument(input)
	if res.Content != input {
		t.Errorf("content = %q, want unchanged input", res.Content)
	}
	if len(res.Audit) != 0 {
		t.Errorf("audit = %v, want empty (code is never scanned)", res.Audit)
	}
}

func TestSanitize_UnmatchedImportAudited(t *testing.T) {
	rs := mustRuleSet(t, false, nil)

	input := "import x from 'some-unlisted-package';\n"
	res := rs.SanitizeDocument(input)
	if res.Content != input {
		t.Errorf("content = %q, want line kept", res.Content)
	}
	want := []string{"import x from 'some-unlisted-package';"}
	if !slices.Equal(res.Audit, want) {
		t.Errorf("audit = %v, want %v", res.Audit, want)
	}
}

func TestSanitize_BuiltInPatterns(t *testing.T) {
	rs := mustRuleSet(t, false, nil)

	tests := []struct {
		name string
		line string
	}{
		{"get custom static path", "import { getCustomStaticPath } from '@/utils/getCustomStaticPath';"},
		{"get child page nodes", "import { getChildPageNodes } from '@/utils/getChildPageNodes';"},
		{"get api static path", "import { getApiStaticPath } from '@/utils/getApiStaticPath';"},
		{"outputs schema", "import outputs from '/src/schema/amplify-outputs-schema-v1.json';"},
		{"relative outputs schema", "import schema from './amplify-outputs-schema-v1.json';"},
		{"icon component", "import { IconChevron } from '@/components/Icons/IconChevron';"},
		{"amplify ui react", "import { Card } from '@aws-amplify/ui-react';"},
		{"amplify ui react ai", "import { AIConversation } from '@aws-amplify/ui-react-ai';"},
		{"ai components", "import { Chat } from '@/components/AI';"},
		{"ui wrapper", "import UIWrapper from '@/components/UIWrapper';"},
		{"fragment file", "import js0 from '/src/fragments/lib/auth/js/getting-started.mdx';"},
		{"redaction message", "import { ProtectedRedactionGen1Message } from '@/protected/ProtectedRedactionMessage';"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := rs.SanitizeDocument(tt.line + "\nBody\n")
			if res.Content != "Body\n" {
				t.Errorf("content = %q, want %q", res.Content, "Body\n")
			}
			if len(res.Audit) != 0 {
				t.Errorf("audit = %v, want empty", res.Audit)
			}
		})
	}
}

func TestSanitize_KeepsIndependentBlankLines(t *testing.T) {
	rs := mustRuleSet(t, false, nil)

	// The statement's own newline goes; the blank line after it stays.
	res := rs.SanitizeDocument("import { getChildPageNodes } from '@/utils/getChildPageNodes';\n\nHello\n")
	if res.Content != "\nHello\n" {
		t.Errorf("content = %q, want %q", res.Content, "\nHello\n")
	}
}

func TestSanitize_Idempotent(t *testing.T) {
	rs := mustRuleSet(t, false, nil)

	input := "import { getCustomStaticPath } from '@/utils/getCustomStaticPath';\n" +
		"import x from 'some-unlisted-package';\n" +
		"Prose here.\n" +
		"```js\nimport foo from 'bar'\n```\n" +
		"More prose.\n"

	first := rs.SanitizeDocument(input)
	second := rs.SanitizeDocument(first.Content)

	if second.Content != first.Content {
		t.Errorf("second pass changed content:\nfirst:  %q\nsecond: %q", first.Content, second.Content)
	}
	if !slices.Equal(second.Audit, first.Audit) {
		t.Errorf("audit delta: first = %v, second = %v", first.Audit, second.Audit)
	}
}

func TestSanitize_RulePriorityOrder(t *testing.T) {
	// Both rules match the same line; the earlier one must win. The
	// first removes the whole line, the second would leave the bare
	// newline behind, so the orderings are observable.
	wholeLine := `^import\s+a\b.*\n`
	withoutNewline := `^import\s+a\b.*;`

	input := "import a from 'x';\nB\n"

	rs := mustRuleSet(t, true, []string{wholeLine, withoutNewline})
	if res := rs.Sanitize(segment.Split(input)); res.Content != "B\n" {
		t.Errorf("content = %q, want %q (earlier rule removes the newline)", res.Content, "B\n")
	}

	rs = mustRuleSet(t, true, []string{withoutNewline, wholeLine})
	if res := rs.Sanitize(segment.Split(input)); res.Content != "\nB\n" {
		t.Errorf("content = %q, want %q (earlier rule leaves the newline)", res.Content, "\nB\n")
	}
}

func TestSanitize_AuditCompleteness(t *testing.T) {
	rs := mustRuleSet(t, false, nil)

	input := "import { getApiStaticPath } from '@/utils/getApiStaticPath';\n" +
		"import first from 'unlisted-one';\n" +
		"Text between.\n" +
		"```\nimport ignored from 'in-code'\n```\n" +
		"import second from 'unlisted-two';\n"

	res := rs.SanitizeDocument(input)

	// Every broad match in prose is either gone from the output or on
	// the audit list.
	for _, seg := range segment.Split(input) {
		if seg.Code {
			continue
		}
		for _, m := range broadImport.FindAllString(seg.Text, -1) {
			imp := strings.TrimSpace(m)
			if strings.Contains(res.Content, imp) && !slices.Contains(res.Audit, imp) {
				t.Errorf("import %q kept but missing from audit", imp)
			}
		}
	}

	want := []string{"import first from 'unlisted-one';", "import second from 'unlisted-two';"}
	if !slices.Equal(res.Audit, want) {
		t.Errorf("audit = %v, want %v", res.Audit, want)
	}
}

func TestSanitize_ProseAfterCodeBlockStillScanned(t *testing.T) {
	rs := mustRuleSet(t, false, nil)

	input := "```\ncode\n```\nimport { getChildPageNodes } from '@/utils/getChildPageNodes';\nAfter\n"
	res := rs.SanitizeDocument(input)
	want := "```\ncode\n```\nAfter\n"
	if res.Content != want {
		t.Errorf("content = %q, want %q", res.Content, want)
	}
}

func TestSanitize_UnterminatedFencePassesThrough(t *testing.T) {
	rs := mustRuleSet(t, false, nil)

	// Fail open: once a fence opens, nothing after it is scanned.
	input := "prose\n```js\nimport { Card } from '@aws-amplify/ui-react';\n"
	res := rs.SanitizeDocument(input)
	if res.Content != input {
		t.Errorf("content = %q, want unchanged input", res.Content)
	}
}

func TestNewRuleSet_DisableBuiltIn(t *testing.T) {
	rs := mustRuleSet(t, true, nil)

	input := "import { getCustomStaticPath } from '@/utils/getCustomStaticPath';\nHello\n"
	res := rs.SanitizeDocument(input)
	if res.Content != input {
		t.Errorf("content = %q, want unchanged (built-ins disabled)", res.Content)
	}
	if len(res.Audit) != 1 {
		t.Errorf("audit = %v, want the kept import flagged", res.Audit)
	}
}

func TestNewRuleSet_CustomPatterns(t *testing.T) {
	rs := mustRuleSet(t, true, []string{`^import\s+.*?from\s+'internal-pkg';[ \t]*\n?`})

	res := rs.SanitizeDocument("import tools from 'internal-pkg';\nHello\n")
	if res.Content != "Hello\n" {
		t.Errorf("content = %q, want %q", res.Content, "Hello\n")
	}
	if len(res.Audit) != 0 {
		t.Errorf("audit = %v, want empty", res.Audit)
	}
}

func TestNewRuleSet_InvalidPattern(t *testing.T) {
	if _, err := NewRuleSet(false, []string{`[invalid`}); err == nil {
		t.Fatal("expected error for invalid pattern")
	}
}

func TestSanitize_EmptyDocument(t *testing.T) {
	rs := mustRuleSet(t, false, nil)

	res := rs.SanitizeDocument("")
	if res.Content != "" {
		t.Errorf("content = %q, want empty", res.Content)
	}
	if len(res.Audit) != 0 {
		t.Errorf("audit = %v, want empty", res.Audit)
	}
}
