// Package segment partitions document text into prose and fenced code
// regions so downstream passes can rewrite prose without ever touching
// code samples.
package segment

import "strings"

// Segment is one contiguous run of document text. Code segments include
// their opening and closing fence lines.
type Segment struct {
	Text string
	Code bool
}

// Split partitions content into an ordered sequence of maximal prose
// segments and fenced code segments. A code segment opens at a line
// beginning with a triple backtick fence (optionally followed by a
// language tag) and closes at the next fence line, inclusive of both.
// Fences do not nest; a fence line seen inside a code segment closes
// it. An unterminated fence consumes the rest of the input as code.
// Concatenating the returned segments reproduces content byte for byte.
func Split(content string) []Segment {
	var (
		segs []Segment
		buf  strings.Builder
		code bool
	)

	flush := func() {
		if buf.Len() == 0 {
			return
		}
		segs = append(segs, Segment{Text: buf.String(), Code: code})
		buf.Reset()
	}

	for i := 0; i < len(content); {
		line := content[i:]
		if j := strings.IndexByte(line, '\n'); j >= 0 {
			line = line[:j+1]
		}
		i += len(line)

		if isFence(line) {
			if code {
				// Closing fence belongs to the code segment.
				buf.WriteString(line)
				flush()
				code = false
				continue
			}
			flush()
			code = true
		}
		buf.WriteString(line)
	}
	flush()

	return segs
}

// Join concatenates segment texts in order.
func Join(segs []Segment) string {
	var b strings.Builder
	for _, s := range segs {
		b.WriteString(s.Text)
	}
	return b.String()
}

func isFence(line string) bool {
	return strings.HasPrefix(line, "```")
}
