package sanitize

import (
	"fmt"
	"regexp"
	"strings"
)

// builtInRemovalPatterns match framework and docs-site imports that
// carry no meaning once a page leaves the Next.js site. Order matters:
// earlier patterns consume text before later ones are tried against
// the residue. Each pattern takes the statement's own trailing newline
// but leaves surrounding blank lines in place.
var builtInRemovalPatterns = []string{
	// Next.js static-path helpers.
	`^import\s*{\s*getCustomStaticPath\s*}\s*from\s*['"]@/utils/getCustomStaticPath['"];[ \t]*\n?`,
	`^import\s*{\s*getChildPageNodes\s*}\s*from\s*['"]@/utils/getChildPageNodes['"];[ \t]*\n?`,
	`^import\s*{\s*getApiStaticPath\s*}\s*from\s*['"]@/utils/getApiStaticPath['"];[ \t]*\n?`,
	// Outputs schema imports; the schema pass embeds the file instead.
	`^import\s+\w+\s+from\s+['"].*?amplify-outputs-schema-v1\.json['"];?[ \t]*\n?`,
	`^import\s+schema\s+from\s+['"]\.?/.*?amplify-outputs-schema-v1\.json['"];?[ \t]*\n?`,
	// Icon components.
	`^import\s*{[^}]+}\s*from\s*['"]@/components/Icons/[^'"]+['"];?[ \t]*$\n?`,
	// Amplify UI and AI components.
	`^import\s*.*?\s*from\s*['"]@aws-amplify/ui-react['"].*?\n`,
	`^import\s*.*?\s*from\s*['"]@aws-amplify/ui-react-ai['"].*?\n`,
	`^import\s*.*?\s*from\s*['"]@/components/AI[^'"]*['"].*?\n`,
	// UI wrapper.
	`^import\s*.*?\s*from\s*['"]@/components/UIWrapper['"].*?\n`,
	// Fragment files are inlined by the fragment pass.
	`^import\s+[a-zA-Z0-9_]+\s+from\s*['"](?:/)?src/fragments/.*?['"].*?\n`,
	// Protected redaction messages are replaced with markdown warnings.
	`^import\s*{\s*ProtectedRedactionGen[12]Message\s*}\s*from\s*['"]@/protected/ProtectedRedactionMessage['"].*?\n`,
}

// broadImport matches any import-like statement line. It is a
// deliberate superset of the removal patterns, used only to detect
// imports for auditing, never to remove them.
var broadImport = regexp.MustCompile(`(?m)^import\s+.*?;?\s*$`)

// RuleSet is an ordered removal table plus the broad audit pattern.
// Immutable once built; safe for concurrent use.
type RuleSet struct {
	rules []*regexp.Regexp
	broad *regexp.Regexp
}

// NewRuleSet compiles the removal table. If disableBuiltIn is false,
// the built-in patterns are included. customPatterns are always
// appended after them, preserving order. A pattern that fails to
// compile is a configuration error; callers treat it as fatal at
// startup.
func NewRuleSet(disableBuiltIn bool, customPatterns []string) (*RuleSet, error) {
	var sources []string

	if !disableBuiltIn {
		sources = append(sources, builtInRemovalPatterns...)
	}
	sources = append(sources, customPatterns...)

	rules := make([]*regexp.Regexp, 0, len(sources))
	for _, p := range sources {
		// Prepend multiline flag so ^ anchors to line starts.
		if !strings.HasPrefix(p, "(?m)") {
			p = "(?m)" + p
		}
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compiling removal pattern %q: %w", p, err)
		}
		rules = append(rules, re)
	}

	return &RuleSet{rules: rules, broad: broadImport}, nil
}
