// Package sanitize strips framework import statements from the prose
// regions of documentation text while passing fenced code segments
// through byte for byte. Imports that match the broad detection
// pattern but no removal rule are kept and reported for audit.
package sanitize

import (
	"strings"

	"github.com/mattstanbrell/amped/src/segment"
)

// Result is the outcome of sanitizing one document.
type Result struct {
	Content string   // document with removable imports stripped
	Audit   []string // import lines kept because no removal rule matched
}

// Sanitize applies the removal table to every prose segment, in order,
// and passes code segments through untouched. Rules run in priority
// order against the shrinking residue of each prose segment. Imports
// that survive removal and match no rule are collected into the audit
// list as trimmed lines. The caller decides whether and how to log
// them.
func (rs *RuleSet) Sanitize(segs []segment.Segment) Result {
	var (
		out   strings.Builder
		audit []string
	)

	for _, seg := range segs {
		if seg.Code {
			out.WriteString(seg.Text)
			continue
		}

		text := seg.Text
		for _, re := range rs.rules {
			text = re.ReplaceAllString(text, "")
		}

		// Surviving imports matched the broad pattern only.
		for _, m := range rs.broad.FindAllString(text, -1) {
			imp := strings.TrimSpace(m)
			if !rs.matchesAnyRule(imp) {
				audit = append(audit, imp)
			}
		}

		out.WriteString(text)
	}

	return Result{Content: out.String(), Audit: audit}
}

// SanitizeDocument segments content and sanitizes it in one step.
func (rs *RuleSet) SanitizeDocument(content string) Result {
	return rs.Sanitize(segment.Split(content))
}

func (rs *RuleSet) matchesAnyRule(line string) bool {
	for _, re := range rs.rules {
		if re.MatchString(line + "\n") {
			return true
		}
	}
	return false
}
