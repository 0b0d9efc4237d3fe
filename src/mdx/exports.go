package mdx

import "regexp"

// exportStart matches the head of a getStaticPaths/getStaticProps
// export up to and including its opening brace. The body is consumed
// by brace matching, not by the pattern.
var exportStart = regexp.MustCompile(
	`(?m)^export\s+(?:` +
		`const\s+(?:getStaticPaths|getStaticProps)|` +
		`(?:async\s+)?function\s+(?:getStaticPaths|getStaticProps)` +
		`)(?:\s*=\s*(?:async\s+)?\([^)]*\)\s*=>)?\s*(?:\([^)]*\))?\s*{`)

// RemoveStaticExports strips Next.js getStaticPaths and getStaticProps
// export blocks. The block body is consumed by brace matching so nested
// braces and braces inside string literals do not end it early. A
// trailing semicolon after the block is consumed too.
func RemoveStaticExports(content string) string {
	var out []byte
	rest := content

	for {
		loc := exportStart.FindStringIndex(rest)
		if loc == nil {
			break
		}

		end := matchingBrace(rest, loc[1]-1)
		if end < 0 {
			// Unterminated block; keep the text as written.
			break
		}

		out = append(out, rest[:loc[0]]...)

		// Skip whitespace and one trailing semicolon.
		end++
		for end < len(rest) && (rest[end] == ' ' || rest[end] == '\t' || rest[end] == '\n' || rest[end] == '\r') {
			end++
		}
		if end < len(rest) && rest[end] == ';' {
			end++
		}
		rest = rest[end:]
	}

	return collapseBlankLines(string(out) + rest)
}

// matchingBrace returns the index of the brace closing the one at
// start. Braces inside single- or double-quoted strings and template
// literals are skipped. Returns -1 when the text ends first.
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
		case '\'', '"', '`':
			i = skipString(text, i)
		}
	}
	return -1
}

// skipString returns the index of the quote closing the string opened
// at i, honouring backslash escapes. When unterminated it returns the
// last index so the caller's loop ends.
func skipString(text string, i int) int {
	quote := text[i]
	for j := i + 1; j < len(text); j++ {
		switch text[j] {
		case '\\':
			j++
		case quote:
			return j
		}
	}
	return len(text) - 1
}
